package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/GTD-web/ems-backend-sub027/internal/models"
)

// EvaluationPeriodRepository reads evaluation periods and their grade bands.
type EvaluationPeriodRepository struct {
	db *sqlx.DB
}

// NewEvaluationPeriodRepository constructs the repository.
func NewEvaluationPeriodRepository(db *sqlx.DB) *EvaluationPeriodRepository {
	return &EvaluationPeriodRepository{db: db}
}

// FindByID loads a period together with its grade ranges ordered by lower bound.
func (r *EvaluationPeriodRepository) FindByID(ctx context.Context, id string) (*models.EvaluationPeriod, error) {
	const periodQuery = `SELECT id, name, status, start_date, end_date, created_at, updated_at
	FROM evaluation_periods WHERE id = $1 AND deleted_at IS NULL`
	var period models.EvaluationPeriod
	if err := conn(ctx, r.db).GetContext(ctx, &period, periodQuery, id); err != nil {
		return nil, err
	}
	const rangeQuery = `SELECT id, period_id, grade, min_range, max_range
	FROM grade_ranges WHERE period_id = $1 ORDER BY min_range`
	if err := conn(ctx, r.db).SelectContext(ctx, &period.GradeRanges, rangeQuery, id); err != nil {
		return nil, fmt.Errorf("list grade ranges: %w", err)
	}
	return &period, nil
}
