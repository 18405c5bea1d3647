package service

import (
	"fmt"
	"strings"

	"github.com/campusadvisor/advisor-api/internal/models"
)

// Credit limit constants. Anything above MaxCredits is invalid outright;
// above WarnCredits earns a heavy-workload warning.
const (
	MinCredits  = 12
	WarnCredits = 15
	MaxCredits  = 18
)

// ConstraintService is the stateless rule set for credit-load limits and
// workload-balance heuristics. No scheduling state is retained between calls.
type ConstraintService struct{}

// NewConstraintService constructs the service.
func NewConstraintService() *ConstraintService {
	return &ConstraintService{}
}

// EvaluateCreditLoad checks the term's total credits against the limits.
// Returns nil when the load is in the comfortable 12-15 range.
func (s *ConstraintService) EvaluateCreditLoad(totalCredits float64) *models.RiskFlag {
	switch {
	case totalCredits > MaxCredits:
		return &models.RiskFlag{
			Type:     models.FlagCreditOverload,
			Severity: models.RiskCritical,
			Message:  fmt.Sprintf("Credit load (%g) exceeds maximum allowed (%d). Schedule is invalid.", totalCredits, MaxCredits),
			Details: map[string]interface{}{
				"total_credits": totalCredits,
				"max_allowed":   MaxCredits,
				"invalid":       true,
			},
		}
	case totalCredits > WarnCredits:
		return &models.RiskFlag{
			Type:     models.FlagHeavyWorkload,
			Severity: models.RiskMedium,
			Message:  fmt.Sprintf("Heavy course load (%g credits). Consider balancing workload.", totalCredits),
			Details:  map[string]interface{}{"total_credits": totalCredits},
		}
	case totalCredits < MinCredits:
		return &models.RiskFlag{
			Type:     models.FlagUnderload,
			Severity: models.RiskMedium,
			Message:  fmt.Sprintf("Below full-time status (%g credits). Minimum is %d.", totalCredits, MinCredits),
			Details: map[string]interface{}{
				"total_credits": totalCredits,
				"minimum":       MinCredits,
			},
		}
	}
	return nil
}

// EvaluateBalance runs the two independent workload-balance heuristics over
// a course list. Zero, one, or two flags may result.
func (s *ConstraintService) EvaluateBalance(codes []string, details []models.CourseDetail) []models.RiskFlag {
	var flags []models.RiskFlag

	var upperLevel []string
	for _, code := range codes {
		if isUpperLevel(code) {
			upperLevel = append(upperLevel, code)
		}
	}
	if len(upperLevel) >= 4 {
		flags = append(flags, models.RiskFlag{
			Type:     models.FlagWorkloadImbalance,
			Severity: models.RiskMedium,
			Message:  fmt.Sprintf("Heavy upper-level load: %d 400+ level courses", len(upperLevel)),
			Details:  map[string]interface{}{"upper_level_courses": upperLevel},
		})
	}

	var complexCourses []string
	for _, d := range details {
		if len(d.Prerequisites) >= 2 {
			complexCourses = append(complexCourses, d.Code)
		}
	}
	if len(complexCourses) >= 3 {
		flags = append(flags, models.RiskFlag{
			Type:     models.FlagComplexityWarning,
			Severity: models.RiskLow,
			Message:  fmt.Sprintf("Multiple courses with complex prerequisites: %s", strings.Join(complexCourses, ", ")),
			Details:  map[string]interface{}{"complex_courses": complexCourses},
		})
	}

	return flags
}

// isUpperLevel applies the course-numbering heuristic: the trailing digit of
// the code marks 400-level-and-above courses. This is a textual test on the
// code, not a structured level field, and matches the registrar's data as
// published.
func isUpperLevel(code string) bool {
	if code == "" {
		return false
	}
	last := code[len(code)-1]
	return last >= '4' && last <= '9'
}
