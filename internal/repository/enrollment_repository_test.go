package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/campusadvisor/advisor-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func enrollmentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "student_id", "course_code", "course_name", "term", "status", "grade", "credits",
		"section_number", "meeting_days", "start_time", "end_time", "location", "instructor",
		"waitlist_required", "created_at", "updated_at",
	})
}

func TestEnrollmentRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEnrollmentRepository(db)
	rows := enrollmentRows().
		AddRow("en-1", "stu-1", "BUAD 301", "Corporate Finance", "Fall 2025", "enrolled", nil, 3.0,
			"01", "MWF", "09:00", "09:50", "Miller 1080", "Smith", false, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, student_id, course_code")).
		WithArgs("stu-1", "Fall 2025", "enrolled").
		WillReturnRows(rows)

	records, err := repo.List(context.Background(), models.EnrollmentFilter{
		StudentID: "stu-1",
		Term:      "Fall 2025",
		Status:    models.EnrollmentStatusEnrolled,
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "BUAD 301", records[0].CourseCode)
	require.Equal(t, models.EnrollmentStatusEnrolled, records[0].Status)
	require.NotNil(t, records[0].MeetingDays)
	require.Equal(t, "MWF", *records[0].MeetingDays)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryCourseSets(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEnrollmentRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT course_code FROM enrollments")).
		WithArgs("stu-1", "completed").
		WillReturnRows(sqlmock.NewRows([]string{"course_code"}).AddRow("BUAD 203").AddRow("MATH 106"))

	completed, err := repo.CompletedCourses(context.Background(), "stu-1")
	require.NoError(t, err)
	require.Len(t, completed, 2)
	_, ok := completed["BUAD 203"]
	require.True(t, ok)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT course_code FROM enrollments")).
		WithArgs("stu-1", "enrolled").
		WillReturnRows(sqlmock.NewRows([]string{"course_code"}))

	current, err := repo.CurrentCourses(context.Background(), "stu-1")
	require.NoError(t, err)
	require.Empty(t, current)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryCreateAssignsIDAndTimestamps(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEnrollmentRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO enrollments")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	record := &models.EnrollmentRecord{
		StudentID:  "stu-1",
		CourseCode: "BUAD 323",
		Term:       "Fall 2025",
		Status:     models.EnrollmentStatusEnrolled,
		Credits:    3,
	}
	require.NoError(t, repo.Create(context.Background(), record))
	require.NotEmpty(t, record.ID)
	require.False(t, record.CreatedAt.IsZero())
	require.Equal(t, record.CreatedAt, record.UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEnrollmentRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM enrollments WHERE id = $1 AND student_id = $2")).
		WithArgs("en-1", "stu-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "stu-1", "en-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryDeleteNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEnrollmentRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM enrollments WHERE id = $1 AND student_id = $2")).
		WithArgs("en-404", "stu-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "stu-1", "en-404")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
