package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusadvisor/advisor-api/internal/models"
)

func TestEvaluateCreditLoad(t *testing.T) {
	svc := NewConstraintService()

	tests := []struct {
		name     string
		credits  float64
		wantType string
		severity models.RiskSeverity
	}{
		{name: "comfortable load", credits: 14},
		{name: "exact minimum", credits: 12},
		{name: "exact warn threshold", credits: 15},
		{name: "heavy load", credits: 16, wantType: models.FlagHeavyWorkload, severity: models.RiskMedium},
		{name: "exact maximum", credits: 18, wantType: models.FlagHeavyWorkload, severity: models.RiskMedium},
		{name: "overload", credits: 21, wantType: models.FlagCreditOverload, severity: models.RiskCritical},
		{name: "underload", credits: 9, wantType: models.FlagUnderload, severity: models.RiskMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := svc.EvaluateCreditLoad(tt.credits)
			if tt.wantType == "" {
				assert.Nil(t, flag)
				return
			}
			require.NotNil(t, flag)
			assert.Equal(t, tt.wantType, flag.Type)
			assert.Equal(t, tt.severity, flag.Severity)
		})
	}
}

func TestEvaluateCreditLoadOverloadMarksInvalid(t *testing.T) {
	flag := NewConstraintService().EvaluateCreditLoad(21)
	require.NotNil(t, flag)
	assert.Equal(t, models.RiskCritical, flag.Severity)
	assert.Equal(t, true, flag.Details["invalid"])
	assert.Equal(t, 21.0, flag.Details["total_credits"])
	assert.Equal(t, MaxCredits, flag.Details["max_allowed"])
}

func TestEvaluateBalanceUpperLevelImbalance(t *testing.T) {
	svc := NewConstraintService()

	flags := svc.EvaluateBalance([]string{"BUAD 424", "BUAD 436", "MATH 495", "CSCI 448"}, nil)
	require.Len(t, flags, 1)
	assert.Equal(t, models.FlagWorkloadImbalance, flags[0].Type)
	assert.Equal(t, models.RiskMedium, flags[0].Severity)
	assert.Len(t, flags[0].Details["upper_level_courses"], 4)

	// Three upper-level courses stay under the threshold.
	flags = svc.EvaluateBalance([]string{"BUAD 424", "BUAD 436", "MATH 495"}, nil)
	assert.Empty(t, flags)
}

func TestEvaluateBalanceComplexityWarning(t *testing.T) {
	svc := NewConstraintService()

	details := []models.CourseDetail{
		{Code: "BUAD 441", Prerequisites: []string{"BUAD 301", "BUAD 323"}},
		{Code: "BUAD 442", Prerequisites: []string{"BUAD 301", "BUAD 351"}},
		{Code: "BUAD 443", Prerequisites: []string{"BUAD 323", "BUAD 351"}},
		{Code: "ECON 101", Prerequisites: []string{}},
	}
	flags := svc.EvaluateBalance([]string{"BUAD 441", "BUAD 442", "BUAD 443", "ECON 101"}, details)
	require.Len(t, flags, 1)
	assert.Equal(t, models.FlagComplexityWarning, flags[0].Type)
	assert.Equal(t, models.RiskLow, flags[0].Severity)

	// Only two complex courses: no warning.
	flags = svc.EvaluateBalance([]string{"BUAD 441", "BUAD 442"}, details[:2])
	assert.Empty(t, flags)
}

func TestIsUpperLevel(t *testing.T) {
	assert.True(t, isUpperLevel("BUAD 424"))
	assert.True(t, isUpperLevel("MATH 495"))
	assert.False(t, isUpperLevel("BUAD 301"))
	assert.False(t, isUpperLevel("ECON 102"))
	assert.False(t, isUpperLevel(""))
}
