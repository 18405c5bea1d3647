package service

import (
	"math"
	"strings"

	"github.com/campusadvisor/advisor-api/internal/models"
)

// ScoreService grades schedule quality. All scoring functions are total:
// every input, including an empty course list, yields a defined score.
type ScoreService struct{}

// NewScoreService constructs the scorer.
func NewScoreService() *ScoreService {
	return &ScoreService{}
}

// Score combines prerequisite alignment, workload, and subject diversity
// into a weighted 0-100 score with ordered recommendations, the most
// important first.
func (s *ScoreService) Score(codes []string, missingPrereqs map[string][]string, totalCredits float64, details []models.CourseDetail) models.ScheduleScore {
	var recommendations []string

	prereqScore := 100
	if len(codes) > 0 {
		prereqScore = int(math.Round(100 * float64(len(codes)-len(missingPrereqs)) / float64(len(codes))))
	}
	if prereqScore < 100 {
		recommendations = append(recommendations, "Complete prerequisite courses before attempting advanced courses")
	}

	var workloadScore int
	switch {
	case totalCredits >= MinCredits && totalCredits <= WarnCredits:
		workloadScore = 100
	case totalCredits < MinCredits:
		workloadScore = int(math.Round(100 * totalCredits / MinCredits))
		recommendations = append(recommendations, "Consider adding courses to reach full-time status")
	case totalCredits <= MaxCredits:
		workloadScore = 100 - int(math.Round(10*(totalCredits-WarnCredits)))
		recommendations = append(recommendations, "Heavy course load. Consider balancing workload.")
	default:
		workloadScore = 0
		recommendations = append(recommendations, "Credit load exceeds maximum. Remove courses to continue.")
	}

	subjects := map[string]struct{}{}
	for _, code := range codes {
		if idx := strings.Index(code, " "); idx > 0 {
			subjects[code[:idx]] = struct{}{}
		}
	}
	var balanceScore int
	switch {
	case len(subjects) >= 3:
		balanceScore = 100
	case len(subjects) == 2:
		balanceScore = 80
	case len(subjects) == 1 && len(codes) > 2:
		balanceScore = 60
		recommendations = append(recommendations, "Consider diversifying your course selection")
	default:
		balanceScore = 70
	}

	overall := int(math.Round(0.40*float64(prereqScore) + 0.35*float64(workloadScore) + 0.25*float64(balanceScore)))

	var headline string
	switch {
	case overall >= 90:
		headline = "Excellent schedule! Well balanced with proper prerequisites."
	case overall >= 70:
		headline = "Good schedule with minor adjustments recommended."
	default:
		headline = "Schedule needs attention. Review warnings and errors."
	}
	recommendations = append([]string{headline}, recommendations...)

	return models.ScheduleScore{
		Overall:               overall,
		Workload:              workloadScore,
		PrerequisiteAlignment: prereqScore,
		Balance:               balanceScore,
		Recommendations:       recommendations,
	}
}
