package models

import "time"

// RiskSeverity grades how serious a risk flag is.
type RiskSeverity string

const (
	RiskLow      RiskSeverity = "low"
	RiskMedium   RiskSeverity = "medium"
	RiskHigh     RiskSeverity = "high"
	RiskCritical RiskSeverity = "critical"
)

// Risk flag types produced by the validation engine.
const (
	FlagCreditOverload    = "credit_overload"
	FlagHeavyWorkload     = "heavy_workload"
	FlagUnderload         = "underload"
	FlagWorkloadImbalance = "workload_imbalance"
	FlagComplexityWarning = "complexity_warning"
	FlagMissingPrereq     = "missing_prerequisite"
	FlagAlreadyCompleted  = "already_completed"
	FlagCurrentlyEnrolled = "currently_enrolled"
)

// RiskFlag is an advisory or blocking finding about a schedule. Constructed
// fresh per evaluation; the engine never persists flags itself.
type RiskFlag struct {
	Type       string                 `json:"type"`
	Severity   RiskSeverity           `json:"severity"`
	Message    string                 `json:"message"`
	CourseCode string                 `json:"course_code,omitempty"`
	Term       string                 `json:"term,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
}

// ScheduleScore grades schedule quality on a 0-100 scale per dimension.
type ScheduleScore struct {
	Overall               int      `json:"overall"`
	Workload              int      `json:"workload"`
	PrerequisiteAlignment int      `json:"prerequisite_alignment"`
	Balance               int      `json:"balance"`
	Recommendations       []string `json:"recommendations"`
}

// CourseDetail is the per-course breakdown inside a ValidationResult.
type CourseDetail struct {
	Code                 string   `json:"code"`
	Name                 string   `json:"name"`
	Credits              float64  `json:"credits"`
	Prerequisites        []string `json:"prerequisites"`
	PrerequisitesMet     bool     `json:"prerequisites_met"`
	MissingPrerequisites []string `json:"missing_prerequisites"`
}

// ValidationResult aggregates everything the schedule validator finds.
// Valid is false exactly when errors or missing prerequisites exist.
type ValidationResult struct {
	Valid                bool                `json:"valid"`
	Warnings             []string            `json:"warnings"`
	Errors               []string            `json:"errors"`
	MissingPrerequisites map[string][]string `json:"missing_prerequisites"`
	RiskFlags            []RiskFlag          `json:"risk_flags"`
	ScheduleScore        ScheduleScore       `json:"schedule_score"`
	TotalCredits         float64             `json:"total_credits"`
	CourseDetails        []CourseDetail      `json:"course_details"`
}

// AdvisoryReport holds the non-blocking flags computed over a student's
// current and planned enrollments, grouped by term.
type AdvisoryReport struct {
	Flags              []RiskFlag         `json:"flags"`
	Warnings           []string           `json:"warnings"`
	TotalCreditsByTerm map[string]float64 `json:"total_credits_by_term"`
	ScheduleScore      *ScheduleScore     `json:"schedule_score,omitempty"`
	ComputedAt         time.Time          `json:"computed_at"`
}

// PrereqChainNode is one node of a recursively expanded prerequisite tree.
// Circular marks a code that reappeared on its own prerequisite path.
type PrereqChainNode struct {
	Code          string             `json:"code"`
	Name          string             `json:"name,omitempty"`
	Credits       float64            `json:"credits,omitempty"`
	Circular      bool               `json:"circular,omitempty"`
	Prerequisites []*PrereqChainNode `json:"prerequisites,omitempty"`
}

// EligibilityStatus classifies a catalog course relative to one student.
type EligibilityStatus string

const (
	EligibilityEligible       EligibilityStatus = "eligible"
	EligibilityCompleted      EligibilityStatus = "completed"
	EligibilityEnrolled       EligibilityStatus = "enrolled"
	EligibilityMissingPrereqs EligibilityStatus = "missing_prereqs"
)

// CourseEligibility pairs a catalog course with its status for a student.
type CourseEligibility struct {
	Code                 string            `json:"code"`
	Name                 string            `json:"name"`
	Credits              float64           `json:"credits"`
	SemesterOffered      string            `json:"semester_offered"`
	Prerequisites        []string          `json:"prerequisites"`
	Eligible             bool              `json:"eligible"`
	Status               EligibilityStatus `json:"status"`
	MissingPrerequisites []string          `json:"missing_prerequisites"`
}
