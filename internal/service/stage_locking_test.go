package service

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTD-web/ems-backend-sub027/internal/models"
	"github.com/GTD-web/ems-backend-sub027/internal/repository"
	appErrors "github.com/GTD-web/ems-backend-sub027/pkg/errors"
)

var (
	sqlStepApprovalColumns = []string{"id", "period_id", "employee_id", "stage", "status", "revision_comment", "evaluator_id",
		"approved_by", "approved_at", "updated_by", "created_at", "updated_at"}
	sqlRevisionColumns  = []string{"id", "period_id", "employee_id", "step", "comment", "requested_by", "requested_at"}
	sqlRecipientColumns = []string{"id", "revision_request_id", "recipient_id", "recipient_type", "is_read", "read_at",
		"is_completed", "completed_at", "response_comment", "created_at", "deleted_at"}
)

type sqlFixture struct {
	mock     sqlmock.Sqlmock
	stages   *StepApprovalService
	revSvc   *RevisionRequestService
	activity *recordingActivity
}

// newSQLFixture wires the services on the real repositories and TxManager so
// the statement order inside each transaction can be asserted.
func newSQLFixture(t *testing.T) *sqlFixture {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	txm := repository.NewTxManager(sqlxDB, 0)
	approvals := repository.NewStepApprovalRepository(sqlxDB)
	revisions := repository.NewRevisionRequestRepository(sqlxDB)
	activity := &recordingActivity{}

	stages := NewStepApprovalService(approvals, revisions, &stubDirectory{}, txm, activity, NewMetricsService(), nil, nil)
	revSvc := NewRevisionRequestService(revisions, stages, txm, activity, NewMetricsService(), nil, nil)
	return &sqlFixture{mock: mock, stages: stages, revSvc: revSvc, activity: activity}
}

func (f *sqlFixture) expectStageLock(stage models.EvaluationStage, id string, status models.StepApprovalStatus) {
	now := time.Now()
	f.mock.ExpectExec(`INSERT INTO step_approvals .* ON CONFLICT \(period_id, employee_id, stage\) DO NOTHING`).
		WithArgs(sqlmock.AnyArg(), testPeriod, testEvaluatee, string(stage), string(models.StepStatusPending), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	f.mock.ExpectQuery(`FROM step_approvals WHERE .* FOR UPDATE`).
		WithArgs(testPeriod, testEvaluatee, string(stage)).
		WillReturnRows(sqlmock.NewRows(sqlStepApprovalColumns).
			AddRow(id, testPeriod, testEvaluatee, string(stage), string(status), nil, nil, nil, nil, nil, now, now))
}

func TestCompleteLocksStageBeforeCountingOutstanding(t *testing.T) {
	f := newSQLFixture(t)
	now := time.Now()

	f.mock.ExpectBegin()
	f.mock.ExpectQuery(`FROM revision_requests WHERE id = \$1`).
		WithArgs("rev-1").
		WillReturnRows(sqlmock.NewRows(sqlRevisionColumns).
			AddRow("rev-1", testPeriod, testEvaluatee, "secondary", "rework", "reviewer-1", now))
	f.mock.ExpectQuery(`FROM revision_request_recipients rr WHERE rr.revision_request_id = \$1 AND rr.deleted_at IS NULL ORDER BY`).
		WithArgs("rev-1").
		WillReturnRows(sqlmock.NewRows(sqlRecipientColumns))
	f.expectStageLock(models.StageSecondary, "sa-1", models.StepStatusRevisionRequested)
	f.mock.ExpectQuery(`FROM revision_request_recipients rr WHERE rr.revision_request_id = \$1 AND rr.recipient_id = \$2 .* FOR UPDATE`).
		WithArgs("rev-1", "sec-b").
		WillReturnRows(sqlmock.NewRows(sqlRecipientColumns).
			AddRow("row-b", "rev-1", "sec-b", "secondary_evaluator", true, now, false, nil, nil, now, nil))
	f.mock.ExpectExec(`UPDATE revision_request_recipients SET is_completed = true`).
		WithArgs("row-b", sqlmock.AnyArg(), "scores revised").
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM revision_request_recipients`).
		WithArgs(testPeriod, testEvaluatee, "secondary").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	f.expectStageLock(models.StageSecondary, "sa-1", models.StepStatusRevisionRequested)
	f.mock.ExpectQuery(`INSERT INTO step_approvals .* DO UPDATE .* RETURNING id`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("sa-1"))
	f.mock.ExpectCommit()

	result, err := f.revSvc.Complete(context.Background(), "rev-1", "sec-b", "scores revised", models.Actor{ID: "sec-b", Role: models.RoleEvaluator})
	require.NoError(t, err)
	assert.True(t, result.AllCompleted)
	assert.Equal(t, 0, result.Remaining)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCompleteWithOthersOutstandingKeepsStageRequested(t *testing.T) {
	f := newSQLFixture(t)
	now := time.Now()

	f.mock.ExpectBegin()
	f.mock.ExpectQuery(`FROM revision_requests WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(sqlRevisionColumns).
			AddRow("rev-1", testPeriod, testEvaluatee, "secondary", "rework", "reviewer-1", now))
	f.mock.ExpectQuery(`FROM revision_request_recipients rr WHERE rr.revision_request_id = \$1 AND rr.deleted_at IS NULL`).
		WillReturnRows(sqlmock.NewRows(sqlRecipientColumns))
	f.expectStageLock(models.StageSecondary, "sa-1", models.StepStatusRevisionRequested)
	f.mock.ExpectQuery(`FROM revision_request_recipients rr .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(sqlRecipientColumns).
			AddRow("row-a", "rev-1", "sec-a", "secondary_evaluator", false, nil, false, nil, nil, now, nil))
	f.mock.ExpectExec(`UPDATE revision_request_recipients SET is_completed = true`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM revision_request_recipients`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	f.mock.ExpectCommit()

	result, err := f.revSvc.Complete(context.Background(), "rev-1", "sec-a", "done", models.Actor{ID: "sec-a", Role: models.RoleEvaluator})
	require.NoError(t, err)
	assert.False(t, result.AllCompleted)
	assert.Equal(t, 1, result.Remaining)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestFirstDecisionInsertsPendingRowBeforeLocking(t *testing.T) {
	f := newSQLFixture(t)

	f.mock.ExpectBegin()
	f.expectStageLock(models.StageSelf, "sa-stored", models.StepStatusPending)
	f.mock.ExpectQuery(`INSERT INTO step_approvals .* DO UPDATE .* RETURNING id`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("sa-stored"))
	f.mock.ExpectCommit()

	resp, err := f.stages.UpdateStatus(context.Background(), statusRequest(models.StageSelf, models.StepStatusApproved), reviewerActor)
	require.NoError(t, err)
	assert.Equal(t, "sa-stored", resp.Approval.ID)
	assert.Equal(t, models.StepStatusApproved, resp.Approval.Status)

	entry := f.activity.last()
	require.NotNil(t, entry.entry.RelatedEntityID)
	assert.Equal(t, "sa-stored", *entry.entry.RelatedEntityID)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestSecondDecisionSeesCommittedFirstDecision(t *testing.T) {
	f := newSQLFixture(t)

	// The competing transaction committed revision_requested while this one
	// waited on the row lock.
	f.mock.ExpectBegin()
	f.expectStageLock(models.StageSelf, "sa-stored", models.StepStatusRevisionRequested)
	f.mock.ExpectRollback()

	_, err := f.stages.UpdateStatus(context.Background(), statusRequest(models.StageSelf, models.StepStatusApproved), reviewerActor)
	require.ErrorIs(t, err, appErrors.ErrConflict)
	assert.Empty(t, f.activity.entries)
	require.NoError(t, f.mock.ExpectationsWereMet())
}
