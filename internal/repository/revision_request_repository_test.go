package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/GTD-web/ems-backend-sub027/internal/models"
)

func TestRevisionRequestRepositoryCreateRequest(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewRevisionRequestRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO revision_requests")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO revision_request_recipients")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO revision_request_recipients")).WillReturnResult(sqlmock.NewResult(0, 1))

	req := &models.RevisionRequest{
		PeriodID:    "period-1",
		EmployeeID:  "emp-1",
		Step:        models.StageSecondary,
		Comment:     "rework",
		RequestedBy: "admin-1",
		Recipients: []models.RevisionRecipient{
			{RecipientID: "sec-a", RecipientType: models.RecipientSecondaryEvaluator},
			{RecipientID: "sec-b", RecipientType: models.RecipientSecondaryEvaluator},
		},
	}
	require.NoError(t, repo.CreateRequest(context.Background(), req))
	require.NotEmpty(t, req.ID)
	for _, recipient := range req.Recipients {
		require.Equal(t, req.ID, recipient.RevisionRequestID)
		require.NotEmpty(t, recipient.ID)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRevisionRequestRepositoryMarkRead(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewRevisionRequestRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $1 AND is_read = false")).
		WithArgs("row-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $1 AND is_read = false")).
		WithArgs("row-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	changed, err := repo.MarkRead(context.Background(), "row-1", time.Now())
	require.NoError(t, err)
	require.True(t, changed)

	changed, err = repo.MarkRead(context.Background(), "row-1", time.Now())
	require.NoError(t, err)
	require.False(t, changed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRevisionRequestRepositoryMarkCompletedTwice(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewRevisionRequestRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $1 AND is_completed = false")).
		WithArgs("row-1", sqlmock.AnyArg(), "done").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkCompleted(context.Background(), "row-1", "done", time.Now())
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRevisionRequestRepositoryCountOutstanding(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewRevisionRequestRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM revision_request_recipients rr")).
		WithArgs("period-1", "emp-1", models.StageSecondary).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	count, err := repo.CountOutstanding(context.Background(), "period-1", "emp-1", models.StageSecondary)
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRevisionRequestRepositoryListForRecipient(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewRevisionRequestRepository(db)
	now := time.Now()
	unread := false
	columns := []string{"id", "revision_request_id", "recipient_id", "recipient_type", "is_read", "read_at", "is_completed",
		"completed_at", "response_comment", "created_at", "deleted_at",
		"period_id", "employee_id", "step", "comment", "requested_by", "requested_at"}
	mock.ExpectQuery(regexp.QuoteMeta("AND rr.recipient_id = $1 AND rr.is_read = $2 ORDER BY req.requested_at DESC")).
		WithArgs("emp-1", false).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("row-1", "req-1", "emp-1", "evaluatee", false, nil, false, nil, nil, now, nil,
				"period-1", "emp-1", "self", "add detail", "mgr-1", now))

	items, err := repo.ListForRecipient(context.Background(), models.RevisionRecipientFilter{RecipientID: "emp-1", IsRead: &unread})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "req-1", items[0].RevisionRequestID)
	require.Equal(t, models.StageSelf, items[0].Step)
	require.Equal(t, "add detail", items[0].Comment)
	require.NoError(t, mock.ExpectationsWereMet())
}
