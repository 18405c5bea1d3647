package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/campusadvisor/advisor-api/internal/models"
)

func TestStudentRepositorySaveAdvisoryReport(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewStudentRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE students SET advisory_flags")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	report := &models.AdvisoryReport{
		Flags:              []models.RiskFlag{{Type: models.FlagUnderload, Severity: models.RiskMedium, Message: "Below full-time status", Term: "Fall 2025"}},
		Warnings:           []string{"Fall 2025: Below full-time status"},
		TotalCreditsByTerm: map[string]float64{"Fall 2025": 9},
		ComputedAt:         time.Now().UTC(),
	}
	require.NoError(t, repo.SaveAdvisoryReport(context.Background(), "stu-1", report))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositorySaveAdvisoryReportUnknownStudent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewStudentRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE students SET advisory_flags")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SaveAdvisoryReport(context.Background(), "stu-404", &models.AdvisoryReport{})
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryAdvisoryReportRoundTrip(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewStudentRepository(db)
	stored := models.AdvisoryReport{
		Warnings:           []string{"Fall 2025: Heavy course load (16 credits). Consider balancing workload."},
		TotalCreditsByTerm: map[string]float64{"Fall 2025": 16},
		ComputedAt:         time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC),
	}
	payload, err := json.Marshal(stored)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT advisory_flags FROM students")).
		WithArgs("stu-1").
		WillReturnRows(sqlmock.NewRows([]string{"advisory_flags"}).AddRow(payload))

	report, err := repo.AdvisoryReport(context.Background(), "stu-1")
	require.NoError(t, err)
	require.NotNil(t, report)
	require.Equal(t, 16.0, report.TotalCreditsByTerm["Fall 2025"])
	require.Equal(t, stored.ComputedAt, report.ComputedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryAdvisoryReportUnknownStudent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewStudentRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT advisory_flags FROM students")).
		WithArgs("stu-404").
		WillReturnRows(sqlmock.NewRows([]string{"advisory_flags"}))

	report, err := repo.AdvisoryReport(context.Background(), "stu-404")
	require.NoError(t, err)
	require.Nil(t, report)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryAdvisoryReportEmpty(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewStudentRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT advisory_flags FROM students")).
		WithArgs("stu-1").
		WillReturnRows(sqlmock.NewRows([]string{"advisory_flags"}).AddRow(nil))

	report, err := repo.AdvisoryReport(context.Background(), "stu-1")
	require.NoError(t, err)
	require.Nil(t, report)
	require.NoError(t, mock.ExpectationsWereMet())
}
