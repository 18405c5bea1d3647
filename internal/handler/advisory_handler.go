package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/campusadvisor/advisor-api/internal/service"
	appErrors "github.com/campusadvisor/advisor-api/pkg/errors"
	"github.com/campusadvisor/advisor-api/pkg/jobs"
	"github.com/campusadvisor/advisor-api/pkg/response"
)

// AdvisoryHandler exposes advisory report endpoints. Recomputation runs on
// the background queue; reads return the last persisted report.
type AdvisoryHandler struct {
	enrollments *service.EnrollmentService
	queue       *jobs.Queue
}

// NewAdvisoryHandler constructs handler.
func NewAdvisoryHandler(enrollments *service.EnrollmentService, queue *jobs.Queue) *AdvisoryHandler {
	return &AdvisoryHandler{enrollments: enrollments, queue: queue}
}

// Recompute enqueues a full advisory re-evaluation for the student.
func (h *AdvisoryHandler) Recompute(c *gin.Context) {
	studentID := studentIDFromRequest(c)
	if studentID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	job := jobs.Job{
		ID:      uuid.NewString(),
		Type:    service.JobTypeAdvisoryRecompute,
		Payload: studentID,
	}
	if err := h.queue.Enqueue(job); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue recompute"))
		return
	}
	response.Accepted(c, gin.H{"job_id": job.ID, "student_id": studentID})
}

// Report returns the last persisted advisory report, or 204 when none
// has been acknowledged yet.
func (h *AdvisoryHandler) Report(c *gin.Context) {
	studentID := studentIDFromRequest(c)
	if studentID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	report, err := h.enrollments.SavedAdvisoryFlags(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if report == nil {
		response.NoContent(c)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}
