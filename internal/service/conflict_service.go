package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/campusadvisor/advisor-api/internal/models"
)

type enrollmentLister interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentRecord, error)
}

// ConflictService detects meeting-time collisions between a candidate
// enrollment and a student's existing schedule in the same term. Cross-term
// comparisons never happen.
type ConflictService struct {
	enrollments enrollmentLister
}

// NewConflictService constructs the detector.
func NewConflictService(enrollments enrollmentLister) *ConflictService {
	return &ConflictService{enrollments: enrollments}
}

// FindConflict returns the first existing enrollment that overlaps the
// candidate, or nil. A candidate or existing record without complete
// day/time fields cannot conflict; schedule data is optional.
func (s *ConflictService) FindConflict(ctx context.Context, studentID string, candidate *models.EnrollmentRecord, term string) (*models.EnrollmentRecord, error) {
	days := deref(candidate.MeetingDays)
	start := deref(candidate.StartTime)
	end := deref(candidate.EndTime)
	if days == "" || start == "" || end == "" {
		return nil, nil
	}

	existing, err := s.enrollments.List(ctx, models.EnrollmentFilter{StudentID: studentID, Term: term})
	if err != nil {
		return nil, err
	}

	for i := range existing {
		e := &existing[i]
		eDays := deref(e.MeetingDays)
		eStart := deref(e.StartTime)
		eEnd := deref(e.EndTime)
		if eDays == "" || eStart == "" || eEnd == "" {
			continue
		}
		if daysOverlap(days, eDays) && timesOverlap(start, end, eStart, eEnd) {
			return e, nil
		}
	}
	return nil, nil
}

// expandDays normalises a meeting-day pattern into the set of weekdays it
// covers. The TR/TH substring check runs before the single-letter scan since
// a plain "T" also appears inside "TR".
func expandDays(pattern string) map[byte]struct{} {
	days := map[byte]struct{}{}
	pattern = strings.ToUpper(pattern)

	tuesdayThursday := strings.Contains(pattern, "TR") || strings.Contains(pattern, "TH")
	if tuesdayThursday {
		days['T'] = struct{}{}
		days['R'] = struct{}{}
	} else if strings.Contains(pattern, "T") {
		days['T'] = struct{}{}
	}

	if strings.Contains(pattern, "M") {
		days['M'] = struct{}{}
	}
	if strings.Contains(pattern, "W") {
		days['W'] = struct{}{}
	}
	if strings.Contains(pattern, "F") {
		days['F'] = struct{}{}
	}
	if strings.Contains(pattern, "R") {
		days['R'] = struct{}{}
	}

	return days
}

func daysOverlap(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	setA := expandDays(a)
	for day := range expandDays(b) {
		if _, ok := setA[day]; ok {
			return true
		}
	}
	return false
}

// parseClock converts "HH:MM" into minutes since midnight. Malformed values
// parse to zero, which the completeness checks upstream already exclude.
func parseClock(value string) int {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return 0
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}
	return hours*60 + minutes
}

// timesOverlap applies half-open interval overlap: back-to-back classes with
// an equal boundary do not conflict.
func timesOverlap(start1, end1, start2, end2 string) bool {
	s1, e1 := parseClock(start1), parseClock(end1)
	s2, e2 := parseClock(start2), parseClock(end2)
	return s1 < e2 && s2 < e1
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
