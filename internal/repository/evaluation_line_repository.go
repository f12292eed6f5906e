package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/GTD-web/ems-backend-sub027/internal/models"
)

// EvaluationLineRepository resolves who evaluates whom.
type EvaluationLineRepository struct {
	db *sqlx.DB
}

// NewEvaluationLineRepository constructs the repository.
func NewEvaluationLineRepository(db *sqlx.DB) *EvaluationLineRepository {
	return &EvaluationLineRepository{db: db}
}

// ListEvaluators returns the distinct evaluators of the given type for an employee.
func (r *EvaluationLineRepository) ListEvaluators(ctx context.Context, periodID, employeeID string, evaluatorType models.DownwardEvaluationType) ([]string, error) {
	const query = `SELECT DISTINCT evaluator_id FROM evaluation_line_mappings
	WHERE period_id = $1 AND employee_id = $2 AND evaluator_type = $3 AND deleted_at IS NULL
	ORDER BY evaluator_id`
	var ids []string
	if err := conn(ctx, r.db).SelectContext(ctx, &ids, query, periodID, employeeID, evaluatorType); err != nil {
		return nil, fmt.Errorf("list evaluators: %w", err)
	}
	return ids, nil
}

// WbsItemsForEvaluator returns the WBS items an evaluator is mapped to for an employee.
func (r *EvaluationLineRepository) WbsItemsForEvaluator(ctx context.Context, periodID, employeeID, evaluatorID string, evaluatorType models.DownwardEvaluationType) ([]string, error) {
	const query = `SELECT DISTINCT wbs_item_id FROM evaluation_line_mappings
	WHERE period_id = $1 AND employee_id = $2 AND evaluator_id = $3 AND evaluator_type = $4
	AND wbs_item_id IS NOT NULL AND deleted_at IS NULL
	ORDER BY wbs_item_id`
	var ids []string
	if err := conn(ctx, r.db).SelectContext(ctx, &ids, query, periodID, employeeID, evaluatorID, evaluatorType); err != nil {
		return nil, fmt.Errorf("list evaluator wbs items: %w", err)
	}
	return ids, nil
}
