package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusadvisor/advisor-api/internal/models"
)

type mockEnrollmentLister struct {
	records []models.EnrollmentRecord
	err     error
}

func (m *mockEnrollmentLister) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []models.EnrollmentRecord
	for _, r := range m.records {
		if filter.Term != "" && r.Term != filter.Term {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func strPtr(s string) *string { return &s }

func scheduled(course, term, days, start, end string) models.EnrollmentRecord {
	return models.EnrollmentRecord{
		CourseCode:  course,
		Term:        term,
		Status:      models.EnrollmentStatusEnrolled,
		MeetingDays: strPtr(days),
		StartTime:   strPtr(start),
		EndTime:     strPtr(end),
	}
}

func TestFindConflictOverlappingDaysAndTimes(t *testing.T) {
	existing := scheduled("BUAD 301", "Fall 2025", "MWF", "09:00", "09:50")
	svc := NewConflictService(&mockEnrollmentLister{records: []models.EnrollmentRecord{existing}})

	candidate := scheduled("ECON 101", "Fall 2025", "MW", "09:30", "10:20")
	conflict, err := svc.FindConflict(context.Background(), "stu1", &candidate, "Fall 2025")
	require.NoError(t, err)
	require.NotNil(t, conflict)
	assert.Equal(t, "BUAD 301", conflict.CourseCode)
}

func TestFindConflictDisjointDays(t *testing.T) {
	existing := scheduled("BUAD 301", "Fall 2025", "MWF", "09:00", "09:50")
	svc := NewConflictService(&mockEnrollmentLister{records: []models.EnrollmentRecord{existing}})

	candidate := scheduled("ECON 101", "Fall 2025", "TR", "09:00", "09:50")
	conflict, err := svc.FindConflict(context.Background(), "stu1", &candidate, "Fall 2025")
	require.NoError(t, err)
	assert.Nil(t, conflict)
}

func TestFindConflictBackToBackDoesNotConflict(t *testing.T) {
	existing := scheduled("BUAD 301", "Fall 2025", "MWF", "09:00", "09:50")
	svc := NewConflictService(&mockEnrollmentLister{records: []models.EnrollmentRecord{existing}})

	candidate := scheduled("ECON 101", "Fall 2025", "MWF", "09:50", "10:40")
	conflict, err := svc.FindConflict(context.Background(), "stu1", &candidate, "Fall 2025")
	require.NoError(t, err)
	assert.Nil(t, conflict)
}

func TestFindConflictTuesdayThursdayNotations(t *testing.T) {
	existing := scheduled("BUAD 323", "Fall 2025", "TR", "11:00", "12:15")
	svc := NewConflictService(&mockEnrollmentLister{records: []models.EnrollmentRecord{existing}})

	candidate := scheduled("MATH 106", "Fall 2025", "TTH", "11:30", "12:45")
	conflict, err := svc.FindConflict(context.Background(), "stu1", &candidate, "Fall 2025")
	require.NoError(t, err)
	require.NotNil(t, conflict)
	assert.Equal(t, "BUAD 323", conflict.CourseCode)
}

func TestFindConflictMissingScheduleFields(t *testing.T) {
	existing := scheduled("BUAD 301", "Fall 2025", "MWF", "09:00", "09:50")
	svc := NewConflictService(&mockEnrollmentLister{records: []models.EnrollmentRecord{existing}})

	candidate := models.EnrollmentRecord{CourseCode: "ECON 101", Term: "Fall 2025", Status: models.EnrollmentStatusEnrolled}
	conflict, err := svc.FindConflict(context.Background(), "stu1", &candidate, "Fall 2025")
	require.NoError(t, err)
	assert.Nil(t, conflict)

	// An existing record without times cannot be conflicted with either.
	bare := models.EnrollmentRecord{CourseCode: "HIST 111", Term: "Fall 2025", Status: models.EnrollmentStatusEnrolled}
	svc = NewConflictService(&mockEnrollmentLister{records: []models.EnrollmentRecord{bare}})
	candidate = scheduled("ECON 101", "Fall 2025", "MWF", "09:00", "09:50")
	conflict, err = svc.FindConflict(context.Background(), "stu1", &candidate, "Fall 2025")
	require.NoError(t, err)
	assert.Nil(t, conflict)
}

func TestExpandDays(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"MWF", "MWF"},
		{"TR", "TR"},
		{"TTH", "TR"},
		{"T", "T"},
		{"R", "R"},
		{"MW", "MW"},
	}
	for _, tt := range tests {
		got := expandDays(tt.pattern)
		assert.Len(t, got, len(tt.want), tt.pattern)
		for i := 0; i < len(tt.want); i++ {
			_, ok := got[tt.want[i]]
			assert.True(t, ok, "%s should include %c", tt.pattern, tt.want[i])
		}
	}
}

func TestTimesOverlapHalfOpen(t *testing.T) {
	assert.True(t, timesOverlap("09:00", "09:50", "09:30", "10:20"))
	assert.True(t, timesOverlap("09:30", "10:20", "09:00", "09:50"))
	assert.False(t, timesOverlap("09:00", "09:50", "09:50", "10:40"))
	assert.False(t, timesOverlap("10:00", "10:50", "09:00", "09:50"))
}
