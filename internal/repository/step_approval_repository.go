package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/GTD-web/ems-backend-sub027/internal/models"
)

const stepApprovalColumns = `id, period_id, employee_id, stage, status, revision_comment, evaluator_id,
       approved_by, approved_at, updated_by, created_at, updated_at`

// StepApprovalRepository persists per-stage approval state.
type StepApprovalRepository struct {
	db *sqlx.DB
}

// NewStepApprovalRepository constructs the repository.
func NewStepApprovalRepository(db *sqlx.DB) *StepApprovalRepository {
	return &StepApprovalRepository{db: db}
}

// Find returns the approval row for a stage.
func (r *StepApprovalRepository) Find(ctx context.Context, periodID, employeeID string, stage models.EvaluationStage) (*models.StepApproval, error) {
	query := `SELECT ` + stepApprovalColumns + ` FROM step_approvals WHERE period_id = $1 AND employee_id = $2 AND stage = $3`
	var approval models.StepApproval
	if err := conn(ctx, r.db).GetContext(ctx, &approval, query, periodID, employeeID, stage); err != nil {
		return nil, err
	}
	return &approval, nil
}

// FindForUpdate is Find with a row lock held until the transaction ends.
func (r *StepApprovalRepository) FindForUpdate(ctx context.Context, periodID, employeeID string, stage models.EvaluationStage) (*models.StepApproval, error) {
	query := `SELECT ` + stepApprovalColumns + ` FROM step_approvals WHERE period_id = $1 AND employee_id = $2 AND stage = $3 FOR UPDATE`
	var approval models.StepApproval
	if err := conn(ctx, r.db).GetContext(ctx, &approval, query, periodID, employeeID, stage); err != nil {
		return nil, err
	}
	return &approval, nil
}

// LockForUpdate locks the stage row, inserting it as pending first when it
// does not exist yet. Concurrent first decisions on one stage therefore
// serialize on the same row instead of both starting from a synthetic pending.
func (r *StepApprovalRepository) LockForUpdate(ctx context.Context, periodID, employeeID string, stage models.EvaluationStage) (*models.StepApproval, error) {
	now := time.Now().UTC()
	const insertQuery = `INSERT INTO step_approvals (id, period_id, employee_id, stage, status, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $6)
	ON CONFLICT (period_id, employee_id, stage) DO NOTHING`
	if _, err := conn(ctx, r.db).ExecContext(ctx, insertQuery, uuid.NewString(), periodID, employeeID, stage, models.StepStatusPending, now); err != nil {
		return nil, fmt.Errorf("ensure step approval: %w", err)
	}
	return r.FindForUpdate(ctx, periodID, employeeID, stage)
}

// ListByEmployee returns every stored stage row for an employee in a period.
func (r *StepApprovalRepository) ListByEmployee(ctx context.Context, periodID, employeeID string) ([]models.StepApproval, error) {
	query := `SELECT ` + stepApprovalColumns + ` FROM step_approvals WHERE period_id = $1 AND employee_id = $2 ORDER BY stage`
	var approvals []models.StepApproval
	if err := conn(ctx, r.db).SelectContext(ctx, &approvals, query, periodID, employeeID); err != nil {
		return nil, fmt.Errorf("list step approvals: %w", err)
	}
	return approvals, nil
}

// Upsert writes the approval row keyed by (period, employee, stage) and sets
// approval.ID to the id of the stored row.
func (r *StepApprovalRepository) Upsert(ctx context.Context, approval *models.StepApproval) error {
	if approval.ID == "" {
		approval.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if approval.CreatedAt.IsZero() {
		approval.CreatedAt = now
	}
	approval.UpdatedAt = now
	const query = `INSERT INTO step_approvals
	(id, period_id, employee_id, stage, status, revision_comment, evaluator_id, approved_by, approved_at, updated_by, created_at, updated_at)
	VALUES (:id, :period_id, :employee_id, :stage, :status, :revision_comment, :evaluator_id, :approved_by, :approved_at, :updated_by, :created_at, :updated_at)
	ON CONFLICT (period_id, employee_id, stage) DO UPDATE SET
		status = EXCLUDED.status,
		revision_comment = EXCLUDED.revision_comment,
		evaluator_id = EXCLUDED.evaluator_id,
		approved_by = EXCLUDED.approved_by,
		approved_at = EXCLUDED.approved_at,
		updated_by = EXCLUDED.updated_by,
		updated_at = EXCLUDED.updated_at
	RETURNING id`
	rows, err := sqlx.NamedQueryContext(ctx, conn(ctx, r.db), query, approval)
	if err != nil {
		return fmt.Errorf("upsert step approval: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return fmt.Errorf("upsert step approval: %w", err)
		}
		return fmt.Errorf("upsert step approval: no row returned")
	}
	if err := rows.Scan(&approval.ID); err != nil {
		return fmt.Errorf("scan step approval id: %w", err)
	}
	return rows.Err()
}
