package models

import "time"

// EnrollmentStatus represents the lifecycle of an enrollment.
type EnrollmentStatus string

// Possible enrollment statuses.
const (
	EnrollmentStatusCompleted EnrollmentStatus = "completed"
	EnrollmentStatusEnrolled  EnrollmentStatus = "enrolled"
	EnrollmentStatusPlanned   EnrollmentStatus = "planned"
)

// Valid reports whether the status is one of the known values.
func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentStatusCompleted, EnrollmentStatusEnrolled, EnrollmentStatusPlanned:
		return true
	}
	return false
}

// EnrollmentRecord captures a student's registration in a course for a term.
// Schedule fields are optional; historical records often lack them.
type EnrollmentRecord struct {
	ID               string           `db:"id" json:"id"`
	StudentID        string           `db:"student_id" json:"student_id"`
	CourseCode       string           `db:"course_code" json:"course_code"`
	CourseName       *string          `db:"course_name" json:"course_name,omitempty"`
	Term             string           `db:"term" json:"term"`
	Status           EnrollmentStatus `db:"status" json:"status"`
	Grade            *string          `db:"grade" json:"grade,omitempty"`
	Credits          float64          `db:"credits" json:"credits"`
	SectionNumber    *string          `db:"section_number" json:"section_number,omitempty"`
	MeetingDays      *string          `db:"meeting_days" json:"meeting_days,omitempty"`
	StartTime        *string          `db:"start_time" json:"start_time,omitempty"`
	EndTime          *string          `db:"end_time" json:"end_time,omitempty"`
	Location         *string          `db:"location" json:"location,omitempty"`
	Instructor       *string          `db:"instructor" json:"instructor,omitempty"`
	WaitlistRequired bool             `db:"waitlist_required" json:"waitlist_required"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updated_at"`
}

// EnrollmentFilter provides filters for listing enrollments.
type EnrollmentFilter struct {
	StudentID string
	Term      string
	Status    EnrollmentStatus
}
