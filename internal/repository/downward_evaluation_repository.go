package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/GTD-web/ems-backend-sub027/internal/models"
)

const downwardEvaluationColumns = `id, employee_id, evaluator_id, period_id, wbs_item_id, evaluation_type, content, score,
       is_completed, completed_at, created_by, updated_by, created_at, updated_at, deleted_at`

// DownwardEvaluationRepository persists downward evaluation records.
type DownwardEvaluationRepository struct {
	db *sqlx.DB
}

// NewDownwardEvaluationRepository constructs the repository.
func NewDownwardEvaluationRepository(db *sqlx.DB) *DownwardEvaluationRepository {
	return &DownwardEvaluationRepository{db: db}
}

// CreateIfAbsent inserts the record unless a live record already exists for
// the same evaluator, evaluatee, period, WBS item and type. It reports whether a row was written.
func (r *DownwardEvaluationRepository) CreateIfAbsent(ctx context.Context, eval *models.DownwardEvaluation) (bool, error) {
	if eval.ID == "" {
		eval.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if eval.CreatedAt.IsZero() {
		eval.CreatedAt = now
	}
	eval.UpdatedAt = now
	const query = `INSERT INTO downward_evaluations
	(id, employee_id, evaluator_id, period_id, wbs_item_id, evaluation_type, content, score, is_completed, completed_at, created_by, updated_by, created_at, updated_at)
	VALUES (:id, :employee_id, :evaluator_id, :period_id, :wbs_item_id, :evaluation_type, :content, :score, :is_completed, :completed_at, :created_by, :updated_by, :created_at, :updated_at)
	ON CONFLICT (evaluator_id, employee_id, period_id, wbs_item_id, evaluation_type) WHERE deleted_at IS NULL DO NOTHING`
	result, err := conn(ctx, r.db).NamedExecContext(ctx, query, eval)
	if err != nil {
		return false, fmt.Errorf("create downward evaluation: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("check downward evaluation insert rows: %w", err)
	}
	return rows > 0, nil
}

// FindByID returns a live record by identifier.
func (r *DownwardEvaluationRepository) FindByID(ctx context.Context, id string) (*models.DownwardEvaluation, error) {
	query := `SELECT ` + downwardEvaluationColumns + ` FROM downward_evaluations WHERE id = $1 AND deleted_at IS NULL`
	var eval models.DownwardEvaluation
	if err := conn(ctx, r.db).GetContext(ctx, &eval, query, id); err != nil {
		return nil, err
	}
	return &eval, nil
}

// FindByIDForUpdate returns a live record and locks it for the current transaction.
func (r *DownwardEvaluationRepository) FindByIDForUpdate(ctx context.Context, id string) (*models.DownwardEvaluation, error) {
	query := `SELECT ` + downwardEvaluationColumns + ` FROM downward_evaluations WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`
	var eval models.DownwardEvaluation
	if err := conn(ctx, r.db).GetContext(ctx, &eval, query, id); err != nil {
		return nil, err
	}
	return &eval, nil
}

// List returns live records matching the filter in creation order.
func (r *DownwardEvaluationRepository) List(ctx context.Context, filter models.DownwardEvaluationFilter) ([]models.DownwardEvaluation, error) {
	query, args := buildDownwardQuery(filter)
	var evals []models.DownwardEvaluation
	if err := conn(ctx, r.db).SelectContext(ctx, &evals, query, args...); err != nil {
		return nil, fmt.Errorf("list downward evaluations: %w", err)
	}
	return evals, nil
}

// ListForUpdate is List with row locks held until the transaction ends, so
// concurrent bulk operations on the same scope serialize.
func (r *DownwardEvaluationRepository) ListForUpdate(ctx context.Context, filter models.DownwardEvaluationFilter) ([]models.DownwardEvaluation, error) {
	query, args := buildDownwardQuery(filter)
	var evals []models.DownwardEvaluation
	if err := conn(ctx, r.db).SelectContext(ctx, &evals, query+" FOR UPDATE", args...); err != nil {
		return nil, fmt.Errorf("lock downward evaluations: %w", err)
	}
	return evals, nil
}

func buildDownwardQuery(filter models.DownwardEvaluationFilter) (string, []interface{}) {
	builder := strings.Builder{}
	builder.WriteString(`SELECT ` + downwardEvaluationColumns + ` FROM downward_evaluations WHERE deleted_at IS NULL`)
	args := make([]interface{}, 0, 6)
	if filter.EvaluatorID != "" {
		args = append(args, filter.EvaluatorID)
		builder.WriteString(fmt.Sprintf(" AND evaluator_id = $%d", len(args)))
	}
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		builder.WriteString(fmt.Sprintf(" AND employee_id = $%d", len(args)))
	}
	if filter.PeriodID != "" {
		args = append(args, filter.PeriodID)
		builder.WriteString(fmt.Sprintf(" AND period_id = $%d", len(args)))
	}
	if filter.EvaluationType != "" {
		args = append(args, filter.EvaluationType)
		builder.WriteString(fmt.Sprintf(" AND evaluation_type = $%d", len(args)))
	}
	if filter.WbsItemID != "" {
		args = append(args, filter.WbsItemID)
		builder.WriteString(fmt.Sprintf(" AND wbs_item_id = $%d", len(args)))
	}
	if filter.IsCompleted != nil {
		args = append(args, *filter.IsCompleted)
		builder.WriteString(fmt.Sprintf(" AND is_completed = $%d", len(args)))
	}
	builder.WriteString(" ORDER BY created_at, id")
	return builder.String(), args
}

// UpdateContent replaces content and score on an open record.
func (r *DownwardEvaluationRepository) UpdateContent(ctx context.Context, eval *models.DownwardEvaluation) error {
	eval.UpdatedAt = time.Now().UTC()
	const query = `UPDATE downward_evaluations SET content = :content, score = :score, updated_by = :updated_by, updated_at = :updated_at
	WHERE id = :id AND deleted_at IS NULL AND is_completed = false`
	result, err := conn(ctx, r.db).NamedExecContext(ctx, query, eval)
	if err != nil {
		return fmt.Errorf("update downward evaluation: %w", err)
	}
	return requireRows(result, "update downward evaluation")
}

// MarkCompleted flags a record as submitted.
func (r *DownwardEvaluationRepository) MarkCompleted(ctx context.Context, id, actorID string, at time.Time) error {
	const query = `UPDATE downward_evaluations SET is_completed = true, completed_at = $2, updated_by = $3, updated_at = $2
	WHERE id = $1 AND deleted_at IS NULL`
	result, err := conn(ctx, r.db).ExecContext(ctx, query, id, at, actorID)
	if err != nil {
		return fmt.Errorf("complete downward evaluation: %w", err)
	}
	return requireRows(result, "complete downward evaluation")
}

// Reset clears content and score and reopens the record.
func (r *DownwardEvaluationRepository) Reset(ctx context.Context, id, actorID string, at time.Time) error {
	const query = `UPDATE downward_evaluations SET content = NULL, score = NULL, is_completed = false, completed_at = NULL,
	updated_by = $3, updated_at = $2
	WHERE id = $1 AND deleted_at IS NULL`
	result, err := conn(ctx, r.db).ExecContext(ctx, query, id, at, actorID)
	if err != nil {
		return fmt.Errorf("reset downward evaluation: %w", err)
	}
	return requireRows(result, "reset downward evaluation")
}

// SoftDelete tombstones a record. It reports whether a live row was affected.
func (r *DownwardEvaluationRepository) SoftDelete(ctx context.Context, id, actorID string, at time.Time) (bool, error) {
	const query = `UPDATE downward_evaluations SET deleted_at = $2, updated_by = $3, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`
	result, err := conn(ctx, r.db).ExecContext(ctx, query, id, at, actorID)
	if err != nil {
		return false, fmt.Errorf("delete downward evaluation: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("check downward evaluation delete rows: %w", err)
	}
	return rows > 0, nil
}

func requireRows(result sql.Result, op string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check %s rows: %w", op, err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
