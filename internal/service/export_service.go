package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/campusadvisor/advisor-api/internal/models"
	"github.com/campusadvisor/advisor-api/pkg/export"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string, summary []string) ([]byte, error)
}

// ExportResult is a rendered download payload.
type ExportResult struct {
	Filename string
	MimeType string
	Payload  []byte
}

// ExportService renders enrollment and schedule data as CSV or PDF downloads.
type ExportService struct {
	enrollments enrollmentStore
	advisory    *EnrollmentService
	catalog     *CatalogService
	csv         csvRenderer
	pdf         pdfRenderer
	logger      *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(enrollments enrollmentStore, advisory *EnrollmentService, catalog *CatalogService, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		enrollments: enrollments,
		advisory:    advisory,
		catalog:     catalog,
		csv:         csv,
		pdf:         pdf,
		logger:      logger,
	}
}

// EnrollmentsCSV renders the student's enrollment history, optionally
// narrowed to one term.
func (s *ExportService) EnrollmentsCSV(ctx context.Context, studentID, term string) (*ExportResult, error) {
	records, err := s.enrollments.List(ctx, models.EnrollmentFilter{StudentID: studentID, Term: term})
	if err != nil {
		return nil, err
	}

	dataRows := make([]map[string]string, 0, len(records))
	for _, record := range records {
		dataRows = append(dataRows, map[string]string{
			"Course":   record.CourseCode,
			"Name":     deref(record.CourseName),
			"Term":     record.Term,
			"Status":   string(record.Status),
			"Credits":  fmt.Sprintf("%.1f", record.Credits),
			"Grade":    deref(record.Grade),
			"Section":  deref(record.SectionNumber),
			"Days":     deref(record.MeetingDays),
			"Time":     meetingWindow(record),
			"Location": deref(record.Location),
		})
	}
	dataset := export.Dataset{
		Headers: []string{"Course", "Name", "Term", "Status", "Credits", "Grade", "Section", "Days", "Time", "Location"},
		Rows:    dataRows,
	}

	payload, err := s.csv.Render(dataset)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		Filename: exportFilename(studentID, term, "enrollments", "csv"),
		MimeType: "text/csv",
		Payload:  payload,
	}, nil
}

// ScheduleReportPDF renders the student's active schedule with the advisory
// score and recommendations as the summary block.
func (s *ExportService) ScheduleReportPDF(ctx context.Context, studentID, term string) (*ExportResult, error) {
	records, err := s.enrollments.List(ctx, models.EnrollmentFilter{StudentID: studentID, Term: term})
	if err != nil {
		return nil, err
	}

	dataRows := make([]map[string]string, 0, len(records))
	var totalCredits float64
	for _, record := range records {
		if record.Status != models.EnrollmentStatusEnrolled && record.Status != models.EnrollmentStatusPlanned {
			continue
		}
		credits := record.Credits
		if credits <= 0 {
			credits = s.catalog.CreditsOf(ctx, record.CourseCode)
		}
		totalCredits += credits
		dataRows = append(dataRows, map[string]string{
			"Course":  record.CourseCode,
			"Term":    record.Term,
			"Status":  string(record.Status),
			"Credits": fmt.Sprintf("%.1f", credits),
			"Days":    deref(record.MeetingDays),
			"Time":    meetingWindow(record),
		})
	}
	dataset := export.Dataset{
		Headers: []string{"Course", "Term", "Status", "Credits", "Days", "Time"},
		Rows:    dataRows,
	}

	summary := []string{fmt.Sprintf("Total credits: %.1f", totalCredits)}
	report, err := s.advisory.ComputeAdvisoryReport(ctx, studentID, term)
	if err != nil {
		s.logger.Warn("schedule report advisory lookup failed",
			zap.String("student_id", studentID), zap.Error(err))
	} else {
		if report.ScheduleScore != nil {
			summary = append(summary, fmt.Sprintf("Schedule score: %d/100 (workload %d, prerequisites %d, balance %d)",
				report.ScheduleScore.Overall, report.ScheduleScore.Workload,
				report.ScheduleScore.PrerequisiteAlignment, report.ScheduleScore.Balance))
			summary = append(summary, report.ScheduleScore.Recommendations...)
		}
		summary = append(summary, report.Warnings...)
	}

	title := fmt.Sprintf("Schedule Report %s", studentID)
	if term != "" {
		title = fmt.Sprintf("%s (%s)", title, term)
	}

	payload, err := s.pdf.Render(dataset, title, summary)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		Filename: exportFilename(studentID, term, "schedule", "pdf"),
		MimeType: "application/pdf",
		Payload:  payload,
	}, nil
}

// EligibilityCSV renders the per-course eligibility listing for advising
// sessions.
func (s *ExportService) EligibilityCSV(ctx context.Context, studentID string, eligibility []models.CourseEligibility) (*ExportResult, error) {
	sorted := make([]models.CourseEligibility, len(eligibility))
	copy(sorted, eligibility)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Code < sorted[j].Code })

	dataRows := make([]map[string]string, 0, len(sorted))
	for _, entry := range sorted {
		dataRows = append(dataRows, map[string]string{
			"Course":                entry.Code,
			"Name":                  entry.Name,
			"Status":                string(entry.Status),
			"Missing Prerequisites": strings.Join(entry.MissingPrerequisites, "; "),
		})
	}
	dataset := export.Dataset{
		Headers: []string{"Course", "Name", "Status", "Missing Prerequisites"},
		Rows:    dataRows,
	}

	payload, err := s.csv.Render(dataset)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		Filename: exportFilename(studentID, "", "eligibility", "csv"),
		MimeType: "text/csv",
		Payload:  payload,
	}, nil
}

func meetingWindow(record models.EnrollmentRecord) string {
	start, end := deref(record.StartTime), deref(record.EndTime)
	if start == "" || end == "" {
		return ""
	}
	return fmt.Sprintf("%s-%s", start, end)
}

func exportFilename(studentID, term, kind, format string) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	parts := []string{kind, sanitizeFilename(studentID)}
	if term != "" {
		parts = append(parts, sanitizeFilename(term))
	}
	parts = append(parts, timestamp)
	return fmt.Sprintf("%s.%s", strings.Join(parts, "_"), format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
