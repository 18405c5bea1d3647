package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campusadvisor/advisor-api/internal/models"
	appErrors "github.com/campusadvisor/advisor-api/pkg/errors"
	"github.com/campusadvisor/advisor-api/pkg/jobs"
)

// JobTypeAdvisoryRecompute identifies queued advisory re-evaluations.
const JobTypeAdvisoryRecompute = "advisory.recompute"

type enrollmentStore interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentRecord, error)
	CompletedCourses(ctx context.Context, studentID string) (map[string]struct{}, error)
	CurrentCourses(ctx context.Context, studentID string) (map[string]struct{}, error)
	Create(ctx context.Context, record *models.EnrollmentRecord) error
	Delete(ctx context.Context, studentID, id string) error
}

type advisoryStore interface {
	SaveAdvisoryReport(ctx context.Context, studentID string, report *models.AdvisoryReport) error
	AdvisoryReport(ctx context.Context, studentID string) (*models.AdvisoryReport, error)
}

// CommitEnrollmentRequest is the input to the enrollment commit workflow.
type CommitEnrollmentRequest struct {
	CourseCode    string                  `json:"course_code" validate:"required"`
	CourseName    *string                 `json:"course_name,omitempty"`
	Term          string                  `json:"term" validate:"required"`
	Status        models.EnrollmentStatus `json:"status" validate:"required,oneof=completed enrolled planned"`
	Grade         *string                 `json:"grade,omitempty"`
	Credits       float64                 `json:"credits,omitempty"`
	SectionNumber *string                 `json:"section_number,omitempty"`
	MeetingDays   *string                 `json:"meeting_days,omitempty"`
	StartTime     *string                 `json:"start_time,omitempty"`
	EndTime       *string                 `json:"end_time,omitempty"`
	Location      *string                 `json:"location,omitempty"`
	Instructor    *string                 `json:"instructor,omitempty"`
}

// CommitResult pairs the persisted record with the advisory flags computed
// for it. Flags are returned, never persisted, until explicitly acknowledged.
type CommitResult struct {
	Enrollment    *models.EnrollmentRecord `json:"enrollment"`
	AdvisoryFlags *models.AdvisoryReport   `json:"advisory_flags,omitempty"`
}

// EnrollmentService runs the enrollment commit pipeline: term legality,
// catalog existence, time conflicts, and prerequisites block in that order;
// only then is the record persisted. Advisory flags are computed afterwards
// and held pending until the caller acknowledges them.
type EnrollmentService struct {
	repo        enrollmentStore
	students    advisoryStore
	catalog     *CatalogService
	prereqs     *PrerequisiteService
	conflicts   *ConflictService
	constraints *ConstraintService
	scorer      *ScoreService
	validator   *validator.Validate
	metrics     *MetricsService
	logger      *zap.Logger
	now         func() time.Time

	mu      sync.Mutex
	pending map[string]*models.AdvisoryReport
}

// NewEnrollmentService constructs the workflow.
func NewEnrollmentService(repo enrollmentStore, students advisoryStore, catalog *CatalogService, prereqs *PrerequisiteService, conflicts *ConflictService, constraints *ConstraintService, scorer *ScoreService, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{
		repo:        repo,
		students:    students,
		catalog:     catalog,
		prereqs:     prereqs,
		conflicts:   conflicts,
		constraints: constraints,
		scorer:      scorer,
		validator:   validate,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
		pending:     map[string]*models.AdvisoryReport{},
	}
}

// Commit validates and persists an enrollment. Completed enrollments are
// historical records and bypass term, catalog, conflict, and prerequisite
// checks entirely.
func (s *EnrollmentService) Commit(ctx context.Context, studentID string, req CommitEnrollmentRequest) (*CommitResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}

	term, err := models.ParseTerm(req.Term)
	if err != nil {
		s.recordCommit("invalid_term")
		return nil, appErrors.Clone(appErrors.ErrInvalidTerm, err.Error())
	}

	currentTerm := models.CurrentTerm(s.now())
	switch req.Status {
	case models.EnrollmentStatusEnrolled:
		if term.Compare(currentTerm) != 0 {
			s.recordCommit("invalid_term")
			return nil, appErrors.Clone(appErrors.ErrInvalidTerm,
				fmt.Sprintf("Enrolled courses must be in the current semester (%s). Cannot enroll in %s.", currentTerm, term))
		}
	case models.EnrollmentStatusPlanned:
		if term.Compare(currentTerm) < 0 {
			s.recordCommit("invalid_term")
			return nil, appErrors.Clone(appErrors.ErrInvalidTerm,
				fmt.Sprintf("Planned courses must be in current or future semesters. Cannot plan courses for %s (current: %s).", term, currentTerm))
		}
	}

	record := &models.EnrollmentRecord{
		StudentID:     studentID,
		CourseCode:    req.CourseCode,
		CourseName:    req.CourseName,
		Term:          term.String(),
		Status:        req.Status,
		Grade:         req.Grade,
		Credits:       req.Credits,
		SectionNumber: req.SectionNumber,
		MeetingDays:   req.MeetingDays,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Location:      req.Location,
		Instructor:    req.Instructor,
	}

	active := req.Status == models.EnrollmentStatusEnrolled || req.Status == models.EnrollmentStatusPlanned

	if active {
		if err := s.checkCatalog(ctx, record, req.SectionNumber); err != nil {
			return nil, err
		}

		conflict, err := s.conflicts.FindConflict(ctx, studentID, record, record.Term)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check schedule conflicts")
		}
		if conflict != nil {
			s.recordCommit("conflict")
			return nil, appErrors.NewConflictError(
				fmt.Sprintf("Time conflict with %s (%s %s-%s)", conflict.CourseCode,
					deref(conflict.MeetingDays), deref(conflict.StartTime), deref(conflict.EndTime)),
				conflict)
		}

		completed, err := s.repo.CompletedCourses(ctx, studentID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load completed courses")
		}
		current, err := s.repo.CurrentCourses(ctx, studentID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load current courses")
		}
		if met, missing := s.prereqs.CheckSatisfied(ctx, req.CourseCode, completed, current); !met {
			s.recordCommit("prereqs_not_met")
			return nil, appErrors.NewPrereqError(
				fmt.Sprintf("Cannot enroll in %s: missing prerequisites", req.CourseCode), missing)
		}
	}

	if record.Credits <= 0 {
		record.Credits = s.catalog.CreditsOf(ctx, req.CourseCode)
	}

	if err := s.repo.Create(ctx, record); err != nil {
		s.recordCommit("error")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist enrollment")
	}
	s.recordCommit("committed")

	result := &CommitResult{Enrollment: record}
	if active {
		// Advisory computation never fails the commit; a failure just
		// yields an empty flag set.
		report, err := s.ComputeAdvisoryReport(ctx, studentID, record.Term)
		if err != nil {
			s.logger.Warn("advisory flag computation failed",
				zap.String("student_id", studentID), zap.Error(err))
			report = emptyAdvisoryReport(s.now())
		}
		s.setPending(studentID, report)
		result.AdvisoryFlags = report
	}

	return result, nil
}

// checkCatalog enforces course and section existence. Seat availability only
// sets the waitlist flag; a full section never blocks the commit.
func (s *EnrollmentService) checkCatalog(ctx context.Context, record *models.EnrollmentRecord, sectionNumber *string) error {
	course, err := s.catalog.Course(ctx, record.CourseCode)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if course == nil {
		s.recordCommit("course_not_found")
		return appErrors.Clone(appErrors.ErrCourseNotFound,
			fmt.Sprintf("Course %q not found in catalog", record.CourseCode))
	}

	if sectionNumber == nil || *sectionNumber == "" {
		return nil
	}

	for i := range course.Sections {
		section := &course.Sections[i]
		if section.Number == *sectionNumber {
			if section.SeatsAvailable <= 0 {
				record.WaitlistRequired = true
			}
			return nil
		}
	}

	s.recordCommit("section_not_found")
	available := make([]string, 0, len(course.Sections))
	for _, section := range course.Sections {
		available = append(available, section.Number)
	}
	msg := fmt.Sprintf("Section %q not found for %s", *sectionNumber, record.CourseCode)
	if len(available) > 0 {
		msg = fmt.Sprintf("%s. Available sections: %v", msg, available)
	}
	return appErrors.Clone(appErrors.ErrSectionNotFound, msg)
}

// List returns the student's enrollment records, optionally filtered.
func (s *EnrollmentService) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentRecord, error) {
	records, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	return records, nil
}

// Withdraw removes one of the student's enrollment records and refreshes the
// pending advisory flags for what remains of the schedule. The refreshed
// flags stay pending until acknowledged, same as after a commit.
func (s *EnrollmentService) Withdraw(ctx context.Context, studentID, enrollmentID string) (*models.AdvisoryReport, error) {
	if err := s.repo.Delete(ctx, studentID, enrollmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound,
				fmt.Sprintf("Enrollment %q not found", enrollmentID))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete enrollment")
	}

	report, err := s.ComputeAdvisoryReport(ctx, studentID, "")
	if err != nil {
		s.logger.Warn("advisory flag computation failed",
			zap.String("student_id", studentID), zap.Error(err))
		report = emptyAdvisoryReport(s.now())
	}
	s.setPending(studentID, report)
	return report, nil
}

// ComputeAdvisoryReport evaluates non-blocking flags over the student's
// enrolled and planned courses, grouped by term. Prerequisites are not
// re-checked here; those block at commit time. termFilter narrows the
// evaluation to one term when non-empty.
func (s *EnrollmentService) ComputeAdvisoryReport(ctx context.Context, studentID, termFilter string) (*models.AdvisoryReport, error) {
	enrollments, err := s.repo.List(ctx, models.EnrollmentFilter{StudentID: studentID, Term: termFilter})
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}

	report := emptyAdvisoryReport(s.now())

	byTerm := map[string][]models.EnrollmentRecord{}
	for _, e := range enrollments {
		if e.Status != models.EnrollmentStatusEnrolled && e.Status != models.EnrollmentStatusPlanned {
			continue
		}
		byTerm[e.Term] = append(byTerm[e.Term], e)
	}
	if len(byTerm) == 0 {
		return report, nil
	}

	terms := make([]string, 0, len(byTerm))
	for term := range byTerm {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	for _, term := range terms {
		var codes []string
		var totalCredits float64
		var details []models.CourseDetail
		for _, e := range byTerm[term] {
			codes = append(codes, e.CourseCode)
			credits := s.catalog.CreditsOf(ctx, e.CourseCode)
			totalCredits += credits

			detail := models.CourseDetail{Code: e.CourseCode, Name: "Unknown", Credits: credits, Prerequisites: []string{}}
			if info, ok := s.catalog.GuideCourse(e.CourseCode); ok {
				detail.Name = info.Name
				detail.Prerequisites = info.Prerequisites
			}
			details = append(details, detail)
		}
		report.TotalCreditsByTerm[term] = totalCredits

		if creditFlag := s.constraints.EvaluateCreditLoad(totalCredits); creditFlag != nil {
			creditFlag.Term = term
			report.Flags = append(report.Flags, *creditFlag)
			if creditFlag.Severity != models.RiskLow {
				report.Warnings = append(report.Warnings, fmt.Sprintf("%s: %s", term, creditFlag.Message))
			}
		}

		for _, flag := range s.constraints.EvaluateBalance(codes, details) {
			flag.Term = term
			report.Flags = append(report.Flags, flag)
			report.Warnings = append(report.Warnings, fmt.Sprintf("%s: %s", term, flag.Message))
		}
	}

	// Score the currently-enrolled schedule only. Missing prerequisites are
	// empty: anything enrolled already passed the blocking check.
	var enrolledCodes []string
	var enrolledCredits float64
	var enrolledDetails []models.CourseDetail
	for _, termEnrollments := range byTerm {
		for _, e := range termEnrollments {
			if e.Status != models.EnrollmentStatusEnrolled {
				continue
			}
			enrolledCodes = append(enrolledCodes, e.CourseCode)
			credits := s.catalog.CreditsOf(ctx, e.CourseCode)
			enrolledCredits += credits
			detail := models.CourseDetail{Code: e.CourseCode, Credits: credits, Prerequisites: []string{}}
			if info, ok := s.catalog.GuideCourse(e.CourseCode); ok {
				detail.Prerequisites = info.Prerequisites
			}
			enrolledDetails = append(enrolledDetails, detail)
		}
	}
	if len(enrolledCodes) > 0 {
		score := s.scorer.Score(enrolledCodes, map[string][]string{}, enrolledCredits, enrolledDetails)
		report.ScheduleScore = &score
	}

	return report, nil
}

// AcknowledgeAdvisoryFlags persists the most recently computed advisory
// flags onto the student's record and clears the pending state. When nothing
// is pending the report is recomputed first, so the operation is total.
func (s *EnrollmentService) AcknowledgeAdvisoryFlags(ctx context.Context, studentID string) (*models.AdvisoryReport, error) {
	report := s.takePending(studentID)
	if report == nil {
		computed, err := s.ComputeAdvisoryReport(ctx, studentID, "")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute advisory flags")
		}
		report = computed
	}

	if err := s.students.SaveAdvisoryReport(ctx, studentID, report); err != nil {
		// Keep the computed report pending so a retry can still persist it.
		s.setPending(studentID, report)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save advisory flags")
	}
	return report, nil
}

// SavedAdvisoryFlags returns the last acknowledged advisory report, or nil.
func (s *EnrollmentService) SavedAdvisoryFlags(ctx context.Context, studentID string) (*models.AdvisoryReport, error) {
	report, err := s.students.AdvisoryReport(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load advisory flags")
	}
	return report, nil
}

// RecomputeAndPersist refreshes the student's advisory report across all
// terms and saves it. Used by the asynchronous re-evaluation queue.
func (s *EnrollmentService) RecomputeAndPersist(ctx context.Context, studentID string) error {
	report, err := s.ComputeAdvisoryReport(ctx, studentID, "")
	if err != nil {
		return fmt.Errorf("compute advisory report for %s: %w", studentID, err)
	}
	if err := s.students.SaveAdvisoryReport(ctx, studentID, report); err != nil {
		return fmt.Errorf("persist advisory report for %s: %w", studentID, err)
	}
	return nil
}

// AdvisoryJobHandler adapts RecomputeAndPersist for the background queue.
// The payload is the student ID.
func (s *EnrollmentService) AdvisoryJobHandler() jobs.Handler {
	return func(ctx context.Context, job jobs.Job) error {
		studentID, ok := job.Payload.(string)
		if !ok || studentID == "" {
			s.logger.Warn("advisory job with invalid payload", zap.String("job_id", job.ID))
			return nil
		}
		return s.RecomputeAndPersist(ctx, studentID)
	}
}

func (s *EnrollmentService) setPending(studentID string, report *models.AdvisoryReport) {
	s.mu.Lock()
	s.pending[studentID] = report
	s.mu.Unlock()
}

func (s *EnrollmentService) takePending(studentID string) *models.AdvisoryReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	report := s.pending[studentID]
	delete(s.pending, studentID)
	return report
}

func (s *EnrollmentService) recordCommit(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordCommit(outcome)
	}
}

func emptyAdvisoryReport(now time.Time) *models.AdvisoryReport {
	return &models.AdvisoryReport{
		Flags:              []models.RiskFlag{},
		Warnings:           []string{},
		TotalCreditsByTerm: map[string]float64{},
		ComputedAt:         now.UTC(),
	}
}
