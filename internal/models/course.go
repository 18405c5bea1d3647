package models

// CourseRecord is a live catalog entry. Immutable once loaded; the catalog
// service owns the in-memory copies.
type CourseRecord struct {
	Code            string    `db:"code" json:"code"`
	Name            string    `db:"name" json:"name"`
	Credits         float64   `db:"credits" json:"credits"`
	SemesterOffered string    `db:"semester_offered" json:"semester_offered"`
	Prerequisites   []string  `json:"prerequisites"`
	Sections        []Section `json:"sections,omitempty"`
}

// Section is a scheduled offering of a course.
type Section struct {
	ID             string `db:"id" json:"-"`
	CourseCode     string `db:"course_code" json:"-"`
	Number         string `db:"section_number" json:"section_number"`
	Instructor     string `db:"instructor" json:"instructor,omitempty"`
	Capacity       int    `db:"capacity" json:"capacity"`
	SeatsAvailable int    `db:"seats_available" json:"seats_available"`
	MeetingDays    string `db:"meeting_days" json:"meeting_days,omitempty"`
	StartTime      string `db:"start_time" json:"start_time,omitempty"`
	EndTime        string `db:"end_time" json:"end_time,omitempty"`
}

// CurriculumCourse is a course entry as it appears in the curriculum guide.
// Guide data seeds display metadata only; the live catalog is the enforcement
// source for prerequisites.
type CurriculumCourse struct {
	Code          string   `json:"code"`
	Name          string   `json:"name"`
	Credits       float64  `json:"credits"`
	Prerequisites []string `json:"prerequisites"`
	Semester      string   `json:"semester"`
}

// CourseGroup is a named grouping of curriculum courses.
type CourseGroup struct {
	Name    string             `json:"name"`
	Courses []CurriculumCourse `json:"courses"`
}

// Major describes a degree program in the curriculum guide.
type Major struct {
	Name            string        `json:"name"`
	RequiredCourses []CourseGroup `json:"required_courses"`
	ElectiveCourses []CourseGroup `json:"elective_courses"`
}

// Concentration describes a concentration track in the curriculum guide.
type Concentration struct {
	Name         string        `json:"name"`
	CourseGroups []CourseGroup `json:"course_groups"`
}

// CurriculumGuide is the parsed output of the curriculum scraper.
type CurriculumGuide struct {
	CoreCurriculum []CourseGroup   `json:"core_curriculum"`
	Majors         []Major         `json:"majors"`
	Concentrations []Concentration `json:"concentrations"`
	Prerequisites  *CourseGroup    `json:"prerequisites,omitempty"`
}
