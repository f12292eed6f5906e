package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/GTD-web/ems-backend-sub027/internal/models"
)

// WbsAssignmentRepository reads WBS assignments and their weights.
type WbsAssignmentRepository struct {
	db *sqlx.DB
}

// NewWbsAssignmentRepository constructs the repository.
func NewWbsAssignmentRepository(db *sqlx.DB) *WbsAssignmentRepository {
	return &WbsAssignmentRepository{db: db}
}

// ListByEmployee returns the active assignments of an employee in a period.
func (r *WbsAssignmentRepository) ListByEmployee(ctx context.Context, periodID, employeeID string) ([]models.WbsAssignment, error) {
	const query = `SELECT id, period_id, employee_id, project_id, wbs_item_id, weight, created_at, deleted_at
	FROM wbs_assignments
	WHERE period_id = $1 AND employee_id = $2 AND deleted_at IS NULL
	ORDER BY created_at, id`
	var assignments []models.WbsAssignment
	if err := conn(ctx, r.db).SelectContext(ctx, &assignments, query, periodID, employeeID); err != nil {
		return nil, fmt.Errorf("list wbs assignments: %w", err)
	}
	return assignments, nil
}
