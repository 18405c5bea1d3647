package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusadvisor/advisor-api/internal/models"
	"github.com/campusadvisor/advisor-api/internal/service"
	appErrors "github.com/campusadvisor/advisor-api/pkg/errors"
	"github.com/campusadvisor/advisor-api/pkg/response"
)

// EnrollmentHandler exposes enrollment commit and listing endpoints.
type EnrollmentHandler struct {
	enrollments *service.EnrollmentService
}

// NewEnrollmentHandler constructs handler.
func NewEnrollmentHandler(enrollments *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

// Commit runs the enrollment pipeline and returns the record plus any
// advisory flags awaiting acknowledgement.
func (h *EnrollmentHandler) Commit(c *gin.Context) {
	var req service.CommitEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	studentID := studentIDFromRequest(c)
	if studentID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	result, err := h.enrollments.Commit(c.Request.Context(), studentID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// List returns the student's enrollment records, filtered by term or status.
func (h *EnrollmentHandler) List(c *gin.Context) {
	studentID := studentIDFromRequest(c)
	if studentID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	filter := models.EnrollmentFilter{
		StudentID: studentID,
		Term:      c.Query("term"),
		Status:    models.EnrollmentStatus(c.Query("status")),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "status must be completed, enrolled, or planned"))
		return
	}

	records, err := h.enrollments.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// Withdraw deletes one of the student's enrollment records and returns the
// refreshed advisory flags, which await acknowledgement. The :id parameter
// is the enrollment id, so the acting student comes from the token.
func (h *EnrollmentHandler) Withdraw(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil || claims.StudentID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	flags, err := h.enrollments.Withdraw(c.Request.Context(), claims.StudentID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"advisory_flags": flags}, nil)
}

// AcknowledgeFlags persists the pending advisory flags onto the student's
// record, completing the two-phase commit of advisory state.
func (h *EnrollmentHandler) AcknowledgeFlags(c *gin.Context) {
	studentID := studentIDFromRequest(c)
	if studentID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	report, err := h.enrollments.AcknowledgeAdvisoryFlags(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}
