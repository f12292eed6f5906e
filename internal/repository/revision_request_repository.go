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

const revisionRecipientColumns = `rr.id, rr.revision_request_id, rr.recipient_id, rr.recipient_type, rr.is_read, rr.read_at,
       rr.is_completed, rr.completed_at, rr.response_comment, rr.created_at, rr.deleted_at`

// RevisionRequestRepository persists revision requests and their recipients.
type RevisionRequestRepository struct {
	db *sqlx.DB
}

// NewRevisionRequestRepository constructs the repository.
func NewRevisionRequestRepository(db *sqlx.DB) *RevisionRequestRepository {
	return &RevisionRequestRepository{db: db}
}

// CreateRequest inserts the request and one row per recipient. Callers run it
// inside a transaction so the pair is atomic.
func (r *RevisionRequestRepository) CreateRequest(ctx context.Context, req *models.RevisionRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.RequestedAt.IsZero() {
		req.RequestedAt = time.Now().UTC()
	}
	exec := conn(ctx, r.db)
	const requestQuery = `INSERT INTO revision_requests (id, period_id, employee_id, step, comment, requested_by, requested_at)
	VALUES (:id, :period_id, :employee_id, :step, :comment, :requested_by, :requested_at)`
	if _, err := exec.NamedExecContext(ctx, requestQuery, req); err != nil {
		return fmt.Errorf("create revision request: %w", err)
	}
	const recipientQuery = `INSERT INTO revision_request_recipients
	(id, revision_request_id, recipient_id, recipient_type, is_read, is_completed, created_at)
	VALUES (:id, :revision_request_id, :recipient_id, :recipient_type, false, false, :created_at)`
	for i := range req.Recipients {
		recipient := &req.Recipients[i]
		if recipient.ID == "" {
			recipient.ID = uuid.NewString()
		}
		recipient.RevisionRequestID = req.ID
		recipient.CreatedAt = req.RequestedAt
		if _, err := exec.NamedExecContext(ctx, recipientQuery, recipient); err != nil {
			return fmt.Errorf("create revision recipient: %w", err)
		}
	}
	return nil
}

// FindRequest loads a request with its live recipients.
func (r *RevisionRequestRepository) FindRequest(ctx context.Context, id string) (*models.RevisionRequest, error) {
	const query = `SELECT id, period_id, employee_id, step, comment, requested_by, requested_at
	FROM revision_requests WHERE id = $1 AND deleted_at IS NULL`
	var req models.RevisionRequest
	if err := conn(ctx, r.db).GetContext(ctx, &req, query, id); err != nil {
		return nil, err
	}
	recipientQuery := `SELECT ` + revisionRecipientColumns + ` FROM revision_request_recipients rr
	WHERE rr.revision_request_id = $1 AND rr.deleted_at IS NULL ORDER BY rr.created_at, rr.id`
	if err := conn(ctx, r.db).SelectContext(ctx, &req.Recipients, recipientQuery, id); err != nil {
		return nil, fmt.Errorf("list revision recipients: %w", err)
	}
	return &req, nil
}

// FindRecipientForUpdate locks a recipient row of a request.
func (r *RevisionRequestRepository) FindRecipientForUpdate(ctx context.Context, requestID, recipientID string) (*models.RevisionRecipient, error) {
	query := `SELECT ` + revisionRecipientColumns + ` FROM revision_request_recipients rr
	WHERE rr.revision_request_id = $1 AND rr.recipient_id = $2 AND rr.deleted_at IS NULL FOR UPDATE`
	var recipient models.RevisionRecipient
	if err := conn(ctx, r.db).GetContext(ctx, &recipient, query, requestID, recipientID); err != nil {
		return nil, err
	}
	return &recipient, nil
}

// MarkRead flags a recipient as read. Already-read rows are left untouched.
func (r *RevisionRequestRepository) MarkRead(ctx context.Context, recipientRowID string, at time.Time) (bool, error) {
	const query = `UPDATE revision_request_recipients SET is_read = true, read_at = $2
	WHERE id = $1 AND is_read = false AND deleted_at IS NULL`
	result, err := conn(ctx, r.db).ExecContext(ctx, query, recipientRowID, at)
	if err != nil {
		return false, fmt.Errorf("mark revision read: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("check revision read rows: %w", err)
	}
	return rows > 0, nil
}

// MarkCompleted records the recipient's response. A row that is already
// completed yields sql.ErrNoRows.
func (r *RevisionRequestRepository) MarkCompleted(ctx context.Context, recipientRowID, comment string, at time.Time) error {
	const query = `UPDATE revision_request_recipients
	SET is_completed = true, completed_at = $2, response_comment = $3,
	    is_read = true, read_at = COALESCE(read_at, $2)
	WHERE id = $1 AND is_completed = false AND deleted_at IS NULL`
	result, err := conn(ctx, r.db).ExecContext(ctx, query, recipientRowID, at, comment)
	if err != nil {
		return fmt.Errorf("complete revision recipient: %w", err)
	}
	return requireRows(result, "complete revision recipient")
}

// CountOutstanding counts uncompleted recipients across every request for the
// employee, period and step.
func (r *RevisionRequestRepository) CountOutstanding(ctx context.Context, periodID, employeeID string, step models.EvaluationStage) (int, error) {
	const query = `SELECT COUNT(*) FROM revision_request_recipients rr
	JOIN revision_requests req ON req.id = rr.revision_request_id
	WHERE req.period_id = $1 AND req.employee_id = $2 AND req.step = $3
	AND req.deleted_at IS NULL AND rr.deleted_at IS NULL AND rr.is_completed = false`
	var count int
	if err := conn(ctx, r.db).GetContext(ctx, &count, query, periodID, employeeID, step); err != nil {
		return 0, fmt.Errorf("count outstanding revisions: %w", err)
	}
	return count, nil
}

// ListForRecipient returns the recipient's inbox, newest first.
func (r *RevisionRequestRepository) ListForRecipient(ctx context.Context, filter models.RevisionRecipientFilter) ([]models.RecipientRevision, error) {
	builder := strings.Builder{}
	builder.WriteString(`SELECT ` + revisionRecipientColumns + `,
	       req.period_id, req.employee_id, req.step, req.comment, req.requested_by, req.requested_at
	FROM revision_request_recipients rr
	JOIN revision_requests req ON req.id = rr.revision_request_id
	WHERE req.deleted_at IS NULL AND rr.deleted_at IS NULL`)
	args := make([]interface{}, 0, 6)
	if filter.RecipientID != "" {
		args = append(args, filter.RecipientID)
		builder.WriteString(fmt.Sprintf(" AND rr.recipient_id = $%d", len(args)))
	}
	if filter.PeriodID != "" {
		args = append(args, filter.PeriodID)
		builder.WriteString(fmt.Sprintf(" AND req.period_id = $%d", len(args)))
	}
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		builder.WriteString(fmt.Sprintf(" AND req.employee_id = $%d", len(args)))
	}
	if filter.Step != "" {
		args = append(args, filter.Step)
		builder.WriteString(fmt.Sprintf(" AND req.step = $%d", len(args)))
	}
	if filter.IsRead != nil {
		args = append(args, *filter.IsRead)
		builder.WriteString(fmt.Sprintf(" AND rr.is_read = $%d", len(args)))
	}
	if filter.IsCompleted != nil {
		args = append(args, *filter.IsCompleted)
		builder.WriteString(fmt.Sprintf(" AND rr.is_completed = $%d", len(args)))
	}
	builder.WriteString(" ORDER BY req.requested_at DESC, rr.id")

	var items []models.RecipientRevision
	if err := conn(ctx, r.db).SelectContext(ctx, &items, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list recipient revisions: %w", err)
	}
	return items, nil
}

// CountUnread counts unread, uncompleted requests addressed to a recipient.
func (r *RevisionRequestRepository) CountUnread(ctx context.Context, recipientID string) (int, error) {
	const query = `SELECT COUNT(*) FROM revision_request_recipients rr
	JOIN revision_requests req ON req.id = rr.revision_request_id
	WHERE rr.recipient_id = $1 AND rr.is_read = false AND rr.is_completed = false
	AND rr.deleted_at IS NULL AND req.deleted_at IS NULL`
	var count int
	if err := conn(ctx, r.db).GetContext(ctx, &count, query, recipientID); err != nil {
		return 0, fmt.Errorf("count unread revisions: %w", err)
	}
	return count, nil
}
