package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/campusadvisor/advisor-api/internal/models"
)

// ValidationService validates an arbitrary proposed schedule for a student.
// It is the single-shot primitive behind both pre-enrollment checks and
// advisory re-evaluation. Purely computational; nothing is persisted.
type ValidationService struct {
	catalog     *CatalogService
	prereqs     *PrerequisiteService
	constraints *ConstraintService
	scorer      *ScoreService
	enrollments enrollmentSetReader
	metrics     *MetricsService
	logger      *zap.Logger
}

// NewValidationService constructs the validator.
func NewValidationService(catalog *CatalogService, prereqs *PrerequisiteService, constraints *ConstraintService, scorer *ScoreService, enrollments enrollmentSetReader, metrics *MetricsService, logger *zap.Logger) *ValidationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ValidationService{
		catalog:     catalog,
		prereqs:     prereqs,
		constraints: constraints,
		scorer:      scorer,
		enrollments: enrollments,
		metrics:     metrics,
		logger:      logger,
	}
}

// ValidateSchedule checks every proposed course against the student's record:
// already-taken warnings, prerequisite coverage (other proposed courses count
// as concurrent), credit limits, workload balance, and an overall score.
func (s *ValidationService) ValidateSchedule(ctx context.Context, studentID string, proposedCourses []string) (*models.ValidationResult, error) {
	completed, err := s.enrollments.CompletedCourses(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("load completed courses: %w", err)
	}
	current, err := s.enrollments.CurrentCourses(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("load current courses: %w", err)
	}

	available := make(map[string]struct{}, len(completed)+len(current))
	for c := range completed {
		available[c] = struct{}{}
	}
	for c := range current {
		available[c] = struct{}{}
	}

	proposedSet := make(map[string]struct{}, len(proposedCourses))
	for _, code := range proposedCourses {
		proposedSet[code] = struct{}{}
	}

	result := &models.ValidationResult{
		Warnings:             []string{},
		Errors:               []string{},
		MissingPrerequisites: map[string][]string{},
		RiskFlags:            []models.RiskFlag{},
		CourseDetails:        []models.CourseDetail{},
	}

	for _, code := range proposedCourses {
		credits := s.catalog.CreditsOf(ctx, code)
		result.TotalCredits += credits

		if _, done := completed[code]; done {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: Already completed", code))
			result.RiskFlags = append(result.RiskFlags, models.RiskFlag{
				Type:       models.FlagAlreadyCompleted,
				Severity:   models.RiskLow,
				Message:    fmt.Sprintf("You have already completed %s", code),
				CourseCode: code,
			})
		}

		if _, taking := current[code]; taking {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: Currently enrolled", code))
			result.RiskFlags = append(result.RiskFlags, models.RiskFlag{
				Type:       models.FlagCurrentlyEnrolled,
				Severity:   models.RiskLow,
				Message:    fmt.Sprintf("You are currently enrolled in %s", code),
				CourseCode: code,
			})
		}

		// Other proposed courses count as concurrent, so two courses in
		// the same batch may satisfy each other's prerequisites.
		concurrent := make(map[string]struct{}, len(proposedSet))
		for other := range proposedSet {
			if other != code {
				concurrent[other] = struct{}{}
			}
		}
		met, missing := s.prereqs.CheckSatisfied(ctx, code, available, concurrent)
		if !met {
			result.MissingPrerequisites[code] = missing
			result.Errors = append(result.Errors, fmt.Sprintf("%s: Missing prerequisites: %s", code, strings.Join(missing, ", ")))
			result.RiskFlags = append(result.RiskFlags, models.RiskFlag{
				Type:       models.FlagMissingPrereq,
				Severity:   models.RiskHigh,
				Message:    fmt.Sprintf("Missing prerequisites for %s: %s", code, strings.Join(missing, ", ")),
				CourseCode: code,
				Details:    map[string]interface{}{"missing": missing},
			})
		}

		detail := models.CourseDetail{
			Code:                 code,
			Name:                 "Unknown",
			Credits:              credits,
			Prerequisites:        []string{},
			PrerequisitesMet:     met,
			MissingPrerequisites: missing,
		}
		if missing == nil {
			detail.MissingPrerequisites = []string{}
		}
		if info, ok := s.catalog.GuideCourse(code); ok {
			detail.Name = info.Name
			detail.Prerequisites = info.Prerequisites
		}
		result.CourseDetails = append(result.CourseDetails, detail)
	}

	if creditFlag := s.constraints.EvaluateCreditLoad(result.TotalCredits); creditFlag != nil {
		result.RiskFlags = append(result.RiskFlags, *creditFlag)
		switch creditFlag.Severity {
		case models.RiskCritical:
			result.Errors = append(result.Errors, creditFlag.Message)
		case models.RiskMedium:
			result.Warnings = append(result.Warnings, creditFlag.Message)
		}
	}

	for _, flag := range s.constraints.EvaluateBalance(proposedCourses, result.CourseDetails) {
		result.RiskFlags = append(result.RiskFlags, flag)
		result.Warnings = append(result.Warnings, flag.Message)
	}

	result.ScheduleScore = s.scorer.Score(proposedCourses, result.MissingPrerequisites, result.TotalCredits, result.CourseDetails)
	result.Valid = len(result.Errors) == 0 && len(result.MissingPrerequisites) == 0

	if s.metrics != nil {
		s.metrics.RecordValidation(result.Valid)
	}
	s.logger.Debug("schedule validated",
		zap.String("student_id", studentID),
		zap.Int("courses", len(proposedCourses)),
		zap.Bool("valid", result.Valid))

	return result, nil
}
