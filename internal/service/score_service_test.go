package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusadvisor/advisor-api/internal/models"
)

func TestScoreWorkloadBands(t *testing.T) {
	svc := NewScoreService()

	tests := []struct {
		credits float64
		want    int
	}{
		{12, 100},
		{13.5, 100},
		{15, 100},
		{16, 90},
		{18, 70},
		{18.5, 0},
		{21, 0},
		{6, 50},
		{0, 0},
	}
	for _, tt := range tests {
		got := svc.Score(nil, nil, tt.credits, nil).Workload
		assert.Equal(t, tt.want, got, "credits=%g", tt.credits)
	}
}

func TestScorePerfectSchedule(t *testing.T) {
	svc := NewScoreService()

	codes := []string{"BUAD 301", "MATH 106", "ECON 101", "ENGL 210", "HIST 111"}
	score := svc.Score(codes, map[string][]string{}, 15, nil)

	assert.Equal(t, 100, score.PrerequisiteAlignment)
	assert.Equal(t, 100, score.Workload)
	assert.Equal(t, 100, score.Balance)
	assert.Equal(t, 100, score.Overall)
	require.NotEmpty(t, score.Recommendations)
	assert.Equal(t, "Excellent schedule! Well balanced with proper prerequisites.", score.Recommendations[0])
}

func TestScoreMissingPrerequisitesLowersAlignment(t *testing.T) {
	svc := NewScoreService()

	codes := []string{"BUAD 301", "BUAD 327", "MATH 106", "ECON 101"}
	missing := map[string][]string{"BUAD 327": {"BUAD 323"}}
	score := svc.Score(codes, missing, 12, nil)

	assert.Equal(t, 75, score.PrerequisiteAlignment)
	assert.Equal(t, 100, score.Workload)
	assert.Equal(t, 100, score.Balance)
	// 0.40*75 + 0.35*100 + 0.25*100 = 90
	assert.Equal(t, 90, score.Overall)
	assert.Contains(t, score.Recommendations, "Complete prerequisite courses before attempting advanced courses")
}

func TestScoreBalanceBySubjectSpread(t *testing.T) {
	svc := NewScoreService()

	twoSubjects := svc.Score([]string{"BUAD 301", "BUAD 323", "MATH 106"}, nil, 12, nil)
	assert.Equal(t, 80, twoSubjects.Balance)

	oneSubjectMany := svc.Score([]string{"BUAD 301", "BUAD 323", "BUAD 351"}, nil, 12, nil)
	assert.Equal(t, 60, oneSubjectMany.Balance)
	assert.Contains(t, oneSubjectMany.Recommendations, "Consider diversifying your course selection")

	oneSubjectFew := svc.Score([]string{"BUAD 301", "BUAD 323"}, nil, 12, nil)
	assert.Equal(t, 70, oneSubjectFew.Balance)
}

func TestScoreOverloadRecommendation(t *testing.T) {
	svc := NewScoreService()

	score := svc.Score([]string{"BUAD 301"}, nil, 21, nil)
	assert.Equal(t, 0, score.Workload)
	assert.Contains(t, score.Recommendations, "Credit load exceeds maximum. Remove courses to continue.")
	assert.Equal(t, "Schedule needs attention. Review warnings and errors.", score.Recommendations[0])
}

func TestScoreEmptyScheduleIsDefined(t *testing.T) {
	score := NewScoreService().Score(nil, nil, 0, nil)
	assert.Equal(t, 100, score.PrerequisiteAlignment)
	assert.Equal(t, 0, score.Workload)
	assert.Equal(t, 70, score.Balance)
	assert.IsType(t, models.ScheduleScore{}, score)
}
