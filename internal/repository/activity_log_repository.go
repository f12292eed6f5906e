package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/GTD-web/ems-backend-sub027/internal/models"
)

// ActivityLogRepository appends and lists activity log entries.
type ActivityLogRepository struct {
	db *sqlx.DB
}

// NewActivityLogRepository constructs the repository.
func NewActivityLogRepository(db *sqlx.DB) *ActivityLogRepository {
	return &ActivityLogRepository{db: db}
}

// Create appends an entry.
func (r *ActivityLogRepository) Create(ctx context.Context, entry *models.ActivityLogEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now().UTC()
	}
	const query = `INSERT INTO evaluation_activity_logs
	(id, period_id, employee_id, activity_type, activity_action, title, description, related_entity_type, related_entity_id,
	 performed_by, performed_by_name, metadata, occurred_at)
	VALUES (:id, :period_id, :employee_id, :activity_type, :activity_action, :title, :description, :related_entity_type, :related_entity_id,
	 :performed_by, :performed_by_name, :metadata, :occurred_at)`
	if _, err := conn(ctx, r.db).NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create activity log: %w", err)
	}
	return nil
}

// List returns entries matching the filter, newest first.
func (r *ActivityLogRepository) List(ctx context.Context, filter models.ActivityLogFilter) ([]models.ActivityLogEntry, error) {
	builder := strings.Builder{}
	builder.WriteString(`SELECT id, period_id, employee_id, activity_type, activity_action, title, description, related_entity_type,
	related_entity_id, performed_by, performed_by_name, metadata, occurred_at FROM evaluation_activity_logs WHERE 1=1`)
	args := make([]interface{}, 0, 5)
	if filter.PeriodID != "" {
		args = append(args, filter.PeriodID)
		builder.WriteString(fmt.Sprintf(" AND period_id = $%d", len(args)))
	}
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		builder.WriteString(fmt.Sprintf(" AND employee_id = $%d", len(args)))
	}
	if filter.ActivityType != "" {
		args = append(args, filter.ActivityType)
		builder.WriteString(fmt.Sprintf(" AND activity_type = $%d", len(args)))
	}
	builder.WriteString(" ORDER BY occurred_at DESC, id")
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	builder.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		builder.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))
	}

	var entries []models.ActivityLogEntry
	if err := conn(ctx, r.db).SelectContext(ctx, &entries, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list activity logs: %w", err)
	}
	return entries, nil
}
