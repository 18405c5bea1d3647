package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusadvisor/advisor-api/internal/models"
)

// EnrollmentRepository handles persistence of enrollment records.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

const enrollmentColumns = `id, student_id, course_code, course_name, term, status, grade, credits,
        section_number, meeting_days, start_time, end_time, location, instructor,
        waitlist_required, created_at, updated_at`

// List returns enrollments filtered by the provided criteria.
func (r *EnrollmentRepository) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentRecord, error) {
	conditions := []string{"student_id = $1"}
	args := []interface{}{filter.StudentID}

	if filter.Term != "" {
		conditions = append(conditions, fmt.Sprintf("term = $%d", len(args)+1))
		args = append(args, filter.Term)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	query := fmt.Sprintf(`SELECT %s FROM enrollments WHERE %s ORDER BY created_at DESC`,
		enrollmentColumns, strings.Join(conditions, " AND "))

	var enrollments []models.EnrollmentRecord
	if err := r.db.SelectContext(ctx, &enrollments, query, args...); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}

// CompletedCourses returns the set of course codes the student has completed.
func (r *EnrollmentRepository) CompletedCourses(ctx context.Context, studentID string) (map[string]struct{}, error) {
	return r.courseSet(ctx, studentID, models.EnrollmentStatusCompleted)
}

// CurrentCourses returns the set of course codes the student is enrolled in.
func (r *EnrollmentRepository) CurrentCourses(ctx context.Context, studentID string) (map[string]struct{}, error) {
	return r.courseSet(ctx, studentID, models.EnrollmentStatusEnrolled)
}

func (r *EnrollmentRepository) courseSet(ctx context.Context, studentID string, status models.EnrollmentStatus) (map[string]struct{}, error) {
	const query = `SELECT course_code FROM enrollments WHERE student_id = $1 AND status = $2`
	var codes []string
	if err := r.db.SelectContext(ctx, &codes, query, studentID, status); err != nil {
		return nil, fmt.Errorf("select %s courses: %w", status, err)
	}
	set := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		set[code] = struct{}{}
	}
	return set, nil
}

// Create persists a new enrollment record, assigning its ID and timestamps.
func (r *EnrollmentRepository) Create(ctx context.Context, record *models.EnrollmentRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now

	const query = `INSERT INTO enrollments (id, student_id, course_code, course_name, term, status, grade, credits,
        section_number, meeting_days, start_time, end_time, location, instructor,
        waitlist_required, created_at, updated_at)
        VALUES (:id, :student_id, :course_code, :course_name, :term, :status, :grade, :credits,
        :section_number, :meeting_days, :start_time, :end_time, :location, :instructor,
        :waitlist_required, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("insert enrollment: %w", err)
	}
	return nil
}

// Delete removes one of the student's enrollment records. Scoping by student
// keeps one student from deleting another's record by id.
func (r *EnrollmentRepository) Delete(ctx context.Context, studentID, id string) error {
	const query = `DELETE FROM enrollments WHERE id = $1 AND student_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, studentID)
	if err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("enrollment %s: %w", id, sql.ErrNoRows)
	}
	return nil
}
