package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/campusadvisor/advisor-api/internal/models"
)

// StudentRepository persists per-student advisory state.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// SaveAdvisoryReport stores acknowledged advisory flags on the student row.
func (r *StudentRepository) SaveAdvisoryReport(ctx context.Context, studentID string, report *models.AdvisoryReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal advisory report: %w", err)
	}

	const query = `UPDATE students SET advisory_flags = $2, advisory_flags_updated_at = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, studentID, payload, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save advisory report: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// AdvisoryReport loads the last persisted advisory flags. A student with no
// row or no acknowledged flags yields nil, not an error.
func (r *StudentRepository) AdvisoryReport(ctx context.Context, studentID string) (*models.AdvisoryReport, error) {
	const query = `SELECT advisory_flags FROM students WHERE id = $1`
	var payload []byte
	if err := r.db.GetContext(ctx, &payload, query, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load advisory report: %w", err)
	}
	if len(payload) == 0 {
		return nil, nil
	}

	var report models.AdvisoryReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("unmarshal advisory report: %w", err)
	}
	return &report, nil
}
