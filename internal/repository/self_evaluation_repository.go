package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/GTD-web/ems-backend-sub027/internal/models"
)

// SelfEvaluationRepository reads employees' own assessments.
type SelfEvaluationRepository struct {
	db *sqlx.DB
}

// NewSelfEvaluationRepository constructs the repository.
func NewSelfEvaluationRepository(db *sqlx.DB) *SelfEvaluationRepository {
	return &SelfEvaluationRepository{db: db}
}

// ListByEmployee returns live self evaluations for an employee in a period.
func (r *SelfEvaluationRepository) ListByEmployee(ctx context.Context, periodID, employeeID string) ([]models.SelfEvaluation, error) {
	const query = `SELECT id, employee_id, period_id, wbs_item_id, content, score, is_completed, completed_at, deleted_at
	FROM self_evaluations
	WHERE period_id = $1 AND employee_id = $2 AND deleted_at IS NULL
	ORDER BY created_at, id`
	var evals []models.SelfEvaluation
	if err := conn(ctx, r.db).SelectContext(ctx, &evals, query, periodID, employeeID); err != nil {
		return nil, fmt.Errorf("list self evaluations: %w", err)
	}
	return evals, nil
}
