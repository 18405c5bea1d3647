package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusadvisor/advisor-api/internal/service"
	appErrors "github.com/campusadvisor/advisor-api/pkg/errors"
	"github.com/campusadvisor/advisor-api/pkg/response"
)

// ExportHandler streams rendered CSV and PDF downloads.
type ExportHandler struct {
	exports *service.ExportService
	prereqs *service.PrerequisiteService
}

// NewExportHandler constructs handler.
func NewExportHandler(exports *service.ExportService, prereqs *service.PrerequisiteService) *ExportHandler {
	return &ExportHandler{exports: exports, prereqs: prereqs}
}

// ScheduleReport renders the student's active schedule as PDF.
func (h *ExportHandler) ScheduleReport(c *gin.Context) {
	studentID := studentIDFromRequest(c)
	if studentID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	result, err := h.exports.ScheduleReportPDF(c.Request.Context(), studentID, c.Query("term"))
	if err != nil {
		response.Error(c, err)
		return
	}
	writeDownload(c, result)
}

// EnrollmentsCSV renders the student's enrollment history as CSV.
func (h *ExportHandler) EnrollmentsCSV(c *gin.Context) {
	studentID := studentIDFromRequest(c)
	if studentID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	result, err := h.exports.EnrollmentsCSV(c.Request.Context(), studentID, c.Query("term"))
	if err != nil {
		response.Error(c, err)
		return
	}
	writeDownload(c, result)
}

// EligibilityCSV renders the per-course eligibility listing as CSV.
func (h *ExportHandler) EligibilityCSV(c *gin.Context) {
	studentID := studentIDFromRequest(c)
	if studentID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	eligibility, err := h.prereqs.CoursesWithEligibility(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.exports.EligibilityCSV(c.Request.Context(), studentID, eligibility)
	if err != nil {
		response.Error(c, err)
		return
	}
	writeDownload(c, result)
}

func writeDownload(c *gin.Context, result *service.ExportResult) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.MimeType, result.Payload)
}
