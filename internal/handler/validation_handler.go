package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusadvisor/advisor-api/internal/service"
	appErrors "github.com/campusadvisor/advisor-api/pkg/errors"
	"github.com/campusadvisor/advisor-api/pkg/response"
)

// ValidationHandler exposes the schedule validation endpoint.
type ValidationHandler struct {
	validation *service.ValidationService
}

// NewValidationHandler constructs handler.
func NewValidationHandler(validation *service.ValidationService) *ValidationHandler {
	return &ValidationHandler{validation: validation}
}

// ValidateScheduleRequest is the proposed schedule payload.
type ValidateScheduleRequest struct {
	Courses []string `json:"courses" binding:"required,min=1"`
}

// ValidateSchedule evaluates a proposed schedule against the student's
// record without persisting anything.
func (h *ValidationHandler) ValidateSchedule(c *gin.Context) {
	var req ValidateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	studentID := studentIDFromRequest(c)
	if studentID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	result, err := h.validation.ValidateSchedule(c.Request.Context(), studentID, req.Courses)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
