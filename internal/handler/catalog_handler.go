package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campusadvisor/advisor-api/internal/service"
	appErrors "github.com/campusadvisor/advisor-api/pkg/errors"
	"github.com/campusadvisor/advisor-api/pkg/response"
)

// CatalogHandler exposes course catalog and prerequisite endpoints.
type CatalogHandler struct {
	catalog *service.CatalogService
	prereqs *service.PrerequisiteService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalog *service.CatalogService, prereqs *service.PrerequisiteService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, prereqs: prereqs}
}

// Course returns catalog details for one course, merging live section data
// with curriculum guide metadata.
func (h *CatalogHandler) Course(c *gin.Context) {
	code := c.Param("code")
	course, err := h.catalog.Course(c.Request.Context(), code)
	if err != nil {
		response.Error(c, err)
		return
	}
	if course == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrCourseNotFound,
			fmt.Sprintf("Course %q not found in catalog", code)))
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Prerequisites returns the declared prerequisites for a course. Unknown
// courses report an empty list rather than an error.
func (h *CatalogHandler) Prerequisites(c *gin.Context) {
	code := c.Param("code")
	prereqs, found := h.catalog.Prerequisites(c.Request.Context(), code)
	if prereqs == nil {
		prereqs = []string{}
	}
	response.JSON(c, http.StatusOK, gin.H{
		"course_code":   code,
		"prerequisites": prereqs,
		"known":         found,
	}, nil)
}

// PrerequisiteChain returns the full recursive prerequisite tree for a
// course. Cycles are reported as terminal nodes, never followed.
func (h *CatalogHandler) PrerequisiteChain(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.prereqs.BuildChain(c.Param("code")), nil)
}

// Eligibility classifies every guide course for the student. grouped=true
// buckets the listing by eligibility status.
func (h *CatalogHandler) Eligibility(c *gin.Context) {
	studentID := studentIDFromRequest(c)
	if studentID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	grouped, _ := strconv.ParseBool(c.Query("grouped"))
	if grouped {
		buckets, err := h.prereqs.CoursesByStatus(c.Request.Context(), studentID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, buckets, nil)
		return
	}

	if eligibleOnly, _ := strconv.ParseBool(c.Query("eligible")); eligibleOnly {
		courses, err := h.prereqs.EligibleCourses(c.Request.Context(), studentID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, courses, nil)
		return
	}

	courses, err := h.prereqs.CoursesWithEligibility(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// Reload re-reads the curriculum guide from disk. Advisor only.
func (h *CatalogHandler) Reload(c *gin.Context) {
	if err := h.catalog.Reload(c.Request.Context()); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrCatalogUnavailable, err.Error()))
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"status": "reloaded"}, nil)
}
