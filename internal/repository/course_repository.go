package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/campusadvisor/advisor-api/internal/models"
)

// CourseRepository reads the live course catalog. Catalog rows are written by
// the external ingestion pipeline; this API only reads them.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

type courseRow struct {
	Code            string         `db:"code"`
	Name            string         `db:"name"`
	Credits         float64        `db:"credits"`
	SemesterOffered string         `db:"semester_offered"`
	Prerequisites   pq.StringArray `db:"prerequisites"`
}

// FindByCode returns a course with its sections, or nil when the catalog has
// no such course.
func (r *CourseRepository) FindByCode(ctx context.Context, code string) (*models.CourseRecord, error) {
	const query = `SELECT code, name, credits, semester_offered, prerequisites FROM courses WHERE code = $1`
	var row courseRow
	if err := r.db.GetContext(ctx, &row, query, code); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	course := &models.CourseRecord{
		Code:            row.Code,
		Name:            row.Name,
		Credits:         row.Credits,
		SemesterOffered: row.SemesterOffered,
		Prerequisites:   []string(row.Prerequisites),
	}

	const sectionQuery = `SELECT id, course_code, section_number, instructor, capacity, seats_available,
        meeting_days, start_time, end_time
        FROM sections WHERE course_code = $1 ORDER BY section_number`
	if err := r.db.SelectContext(ctx, &course.Sections, sectionQuery, code); err != nil {
		return nil, err
	}

	return course, nil
}

// ListCodes returns every course code present in the live catalog.
func (r *CourseRepository) ListCodes(ctx context.Context) ([]string, error) {
	const query = `SELECT code FROM courses ORDER BY code`
	var codes []string
	if err := r.db.SelectContext(ctx, &codes, query); err != nil {
		return nil, err
	}
	return codes, nil
}
