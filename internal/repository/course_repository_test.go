package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestCourseRepositoryFindByCode(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewCourseRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT code, name, credits, semester_offered, prerequisites FROM courses")).
		WithArgs("BUAD 301").
		WillReturnRows(sqlmock.NewRows([]string{"code", "name", "credits", "semester_offered", "prerequisites"}).
			AddRow("BUAD 301", "Corporate Finance", 3.0, "F/S", `{"BUAD 203"}`))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, course_code, section_number")).
		WithArgs("BUAD 301").
		WillReturnRows(sqlmock.NewRows([]string{"id", "course_code", "section_number", "instructor", "capacity", "seats_available", "meeting_days", "start_time", "end_time"}).
			AddRow("sec-1", "BUAD 301", "01", "Smith", 30, 4, "MWF", "09:00", "09:50").
			AddRow("sec-2", "BUAD 301", "02", "Jones", 30, 0, "TR", "11:00", "12:15"))

	course, err := repo.FindByCode(context.Background(), "BUAD 301")
	require.NoError(t, err)
	require.NotNil(t, course)
	require.Equal(t, []string{"BUAD 203"}, course.Prerequisites)
	require.Len(t, course.Sections, 2)
	require.Equal(t, "02", course.Sections[1].Number)
	require.Equal(t, 0, course.Sections[1].SeatsAvailable)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryFindByCodeMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewCourseRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT code, name, credits, semester_offered, prerequisites FROM courses")).
		WithArgs("GHOST 101").
		WillReturnRows(sqlmock.NewRows([]string{"code", "name", "credits", "semester_offered", "prerequisites"}))

	course, err := repo.FindByCode(context.Background(), "GHOST 101")
	require.NoError(t, err)
	require.Nil(t, course)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryListCodes(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewCourseRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT code FROM courses ORDER BY code")).
		WillReturnRows(sqlmock.NewRows([]string{"code"}).AddRow("BUAD 203").AddRow("BUAD 301"))

	codes, err := repo.ListCodes(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"BUAD 203", "BUAD 301"}, codes)
	require.NoError(t, mock.ExpectationsWereMet())
}
