package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTD-web/ems-backend-sub027/internal/dto"
	"github.com/GTD-web/ems-backend-sub027/internal/models"
	appErrors "github.com/GTD-web/ems-backend-sub027/pkg/errors"
)

var reviewerActor = models.Actor{ID: "reviewer-1", Role: models.RoleEvaluator}

type approvalFixture struct {
	approvals *memApprovals
	revisions *memRevisions
	directory *stubDirectory
	tx        *memTx
	activity  *recordingActivity
	svc       *StepApprovalService
}

func newApprovalFixture() *approvalFixture {
	approvals := newMemApprovals()
	revisions := newMemRevisions()
	directory := &stubDirectory{
		evaluators: map[models.DownwardEvaluationType][]string{
			models.DownwardTypePrimary:   {"mgr-1"},
			models.DownwardTypeSecondary: {"sec-a", "sec-b"},
		},
		wbsItems: map[string][]string{},
	}
	tx := newMemTx(approvals, revisions)
	activity := &recordingActivity{}
	svc := NewStepApprovalService(approvals, revisions, directory, tx, activity, NewMetricsService(), nil, nil)
	return &approvalFixture{approvals: approvals, revisions: revisions, directory: directory, tx: tx, activity: activity, svc: svc}
}

func statusRequest(stage models.EvaluationStage, status models.StepApprovalStatus) dto.UpdateStepApprovalRequest {
	return dto.UpdateStepApprovalRequest{
		PeriodID:   testPeriod,
		EmployeeID: testEvaluatee,
		Stage:      string(stage),
		Status:     string(status),
	}
}

func TestCheckTransition(t *testing.T) {
	cases := []struct {
		from models.StepApprovalStatus
		to   models.StepApprovalStatus
		ok   bool
	}{
		{models.StepStatusPending, models.StepStatusApproved, true},
		{models.StepStatusPending, models.StepStatusRevisionRequested, true},
		{models.StepStatusPending, models.StepStatusPending, true},
		{models.StepStatusPending, models.StepStatusRevisionCompleted, false},
		{models.StepStatusApproved, models.StepStatusRevisionRequested, false},
		{models.StepStatusApproved, models.StepStatusPending, false},
		{models.StepStatusRevisionRequested, models.StepStatusApproved, false},
		{models.StepStatusRevisionRequested, models.StepStatusRevisionRequested, true},
		{models.StepStatusRevisionCompleted, models.StepStatusApproved, true},
		{models.StepStatusRevisionCompleted, models.StepStatusRevisionRequested, true},
		{models.StepStatusRevisionCompleted, models.StepStatusPending, true},
	}
	for _, tc := range cases {
		err := checkTransition(tc.from, tc.to)
		if tc.ok {
			assert.NoError(t, err, "%s -> %s", tc.from, tc.to)
			continue
		}
		assert.ErrorIs(t, err, appErrors.ErrConflict, "%s -> %s", tc.from, tc.to)
	}
}

func TestUpdateStatusApprovesPendingStage(t *testing.T) {
	f := newApprovalFixture()

	resp, err := f.svc.UpdateStatus(context.Background(), statusRequest(models.StageSelf, models.StepStatusApproved), reviewerActor)
	require.NoError(t, err)
	require.NotNil(t, resp.Approval)
	assert.Equal(t, models.StepStatusApproved, resp.Approval.Status)
	require.NotNil(t, resp.Approval.ApprovedBy)
	assert.Equal(t, reviewerActor.ID, *resp.Approval.ApprovedBy)
	assert.NotNil(t, resp.Approval.ApprovedAt)
	assert.Nil(t, resp.RevisionRequest)
	assert.Equal(t, models.StepStatusApproved, f.approvals.status(testPeriod, testEvaluatee, models.StageSelf))

	entry := f.activity.last()
	assert.Equal(t, models.ActivityStepApproval, entry.entry.ActivityType)
	assert.Equal(t, string(models.StepStatusApproved), entry.entry.ActivityAction)
}

func TestUpdateStatusPendingCreatesRowLazily(t *testing.T) {
	f := newApprovalFixture()

	resp, err := f.svc.UpdateStatus(context.Background(), statusRequest(models.StageCriteria, models.StepStatusPending), reviewerActor)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Approval.ID)
	assert.Equal(t, models.StepStatusPending, f.approvals.status(testPeriod, testEvaluatee, models.StageCriteria))
	assert.Empty(t, f.activity.entries)

	_, err = f.svc.UpdateStatus(context.Background(), statusRequest(models.StageCriteria, models.StepStatusPending), reviewerActor)
	require.NoError(t, err)
	assert.Empty(t, f.activity.entries)
}

func TestUpdateStatusRejectsApprovedStage(t *testing.T) {
	f := newApprovalFixture()
	f.approvals.set(models.StepApproval{PeriodID: testPeriod, EmployeeID: testEvaluatee, Stage: models.StagePrimary, Status: models.StepStatusApproved})

	req := statusRequest(models.StagePrimary, models.StepStatusRevisionRequested)
	req.RevisionComment = "please rework"
	_, err := f.svc.UpdateStatus(context.Background(), req, reviewerActor)
	require.ErrorIs(t, err, appErrors.ErrConflict)
	assert.Empty(t, f.revisions.requests)
}

func TestUpdateStatusRejectsDirectRevisionCompleted(t *testing.T) {
	f := newApprovalFixture()
	f.approvals.set(models.StepApproval{PeriodID: testPeriod, EmployeeID: testEvaluatee, Stage: models.StageSelf, Status: models.StepStatusRevisionRequested})

	_, err := f.svc.UpdateStatus(context.Background(), statusRequest(models.StageSelf, models.StepStatusRevisionCompleted), reviewerActor)
	require.ErrorIs(t, err, appErrors.ErrConflict)
	assert.Equal(t, models.StepStatusRevisionRequested, f.approvals.status(testPeriod, testEvaluatee, models.StageSelf))
}

func TestUpdateStatusRevisionRequiresComment(t *testing.T) {
	f := newApprovalFixture()

	req := statusRequest(models.StageSelf, models.StepStatusRevisionRequested)
	req.RevisionComment = "   "
	_, err := f.svc.UpdateStatus(context.Background(), req, reviewerActor)
	require.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Equal(t, models.StepApprovalStatus(""), f.approvals.status(testPeriod, testEvaluatee, models.StageSelf))
}

func TestUpdateStatusRejectsUnknownValues(t *testing.T) {
	f := newApprovalFixture()

	_, err := f.svc.UpdateStatus(context.Background(), statusRequest("calibration", models.StepStatusApproved), reviewerActor)
	require.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = f.svc.UpdateStatus(context.Background(), statusRequest(models.StageSelf, "rejected"), reviewerActor)
	require.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestUpdateStatusRequiresReviewer(t *testing.T) {
	f := newApprovalFixture()

	_, err := f.svc.UpdateStatus(context.Background(), statusRequest(models.StageSelf, models.StepStatusApproved), models.Actor{ID: testEvaluatee, Role: models.RoleEmployee})
	require.ErrorIs(t, err, appErrors.ErrForbidden)
}

func TestRequestRevisionAddressesStageRecipients(t *testing.T) {
	cases := []struct {
		stage      models.EvaluationStage
		recipients []string
		kind       models.RecipientType
	}{
		{models.StageCriteria, []string{testEvaluatee}, models.RecipientEvaluatee},
		{models.StageSelf, []string{testEvaluatee}, models.RecipientEvaluatee},
		{models.StagePrimary, []string{"mgr-1"}, models.RecipientPrimaryEvaluator},
		{models.StageSecondary, []string{"sec-a", "sec-b"}, models.RecipientSecondaryEvaluator},
	}
	for _, tc := range cases {
		t.Run(string(tc.stage), func(t *testing.T) {
			f := newApprovalFixture()
			req := statusRequest(tc.stage, models.StepStatusRevisionRequested)
			req.RevisionComment = "needs more detail"

			resp, err := f.svc.UpdateStatus(context.Background(), req, reviewerActor)
			require.NoError(t, err)
			require.NotNil(t, resp.RevisionRequest)
			assert.Equal(t, models.StepStatusRevisionRequested, resp.Approval.Status)
			require.NotNil(t, resp.Approval.RevisionComment)
			assert.Equal(t, "needs more detail", *resp.Approval.RevisionComment)

			var ids []string
			for _, r := range resp.RevisionRequest.Recipients {
				ids = append(ids, r.RecipientID)
				assert.Equal(t, tc.kind, r.RecipientType)
				assert.False(t, r.IsRead)
				assert.False(t, r.IsCompleted)
			}
			assert.Equal(t, tc.recipients, ids)

			outstanding, err := f.revisions.CountOutstanding(context.Background(), testPeriod, testEvaluatee, tc.stage)
			require.NoError(t, err)
			assert.Equal(t, len(tc.recipients), outstanding)
		})
	}
}

func TestRequestRevisionWithoutEvaluatorsFails(t *testing.T) {
	f := newApprovalFixture()
	f.directory.evaluators[models.DownwardTypeSecondary] = nil

	_, err := f.svc.RequestRevision(context.Background(), RevisionDraft{
		PeriodID:   testPeriod,
		EmployeeID: testEvaluatee,
		Stage:      models.StageSecondary,
		Comment:    "rework",
	}, reviewerActor)
	require.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Equal(t, 1, f.tx.rollbacks)
	assert.Equal(t, models.StepApprovalStatus(""), f.approvals.status(testPeriod, testEvaluatee, models.StageSecondary))
}

func TestRequestRevisionValidatesExplicitRecipients(t *testing.T) {
	draft := func(stage models.EvaluationStage, recipients ...models.RevisionRecipient) RevisionDraft {
		return RevisionDraft{PeriodID: testPeriod, EmployeeID: testEvaluatee, Stage: stage, Comment: "rework", Recipients: recipients}
	}
	cases := map[string]RevisionDraft{
		"wrong type":        draft(models.StageSelf, models.RevisionRecipient{RecipientID: testEvaluatee, RecipientType: models.RecipientPrimaryEvaluator}),
		"not an evaluator":  draft(models.StagePrimary, models.RevisionRecipient{RecipientID: "stranger", RecipientType: models.RecipientPrimaryEvaluator}),
		"duplicate":         draft(models.StageSecondary, models.RevisionRecipient{RecipientID: "sec-a", RecipientType: models.RecipientSecondaryEvaluator}, models.RevisionRecipient{RecipientID: "sec-a", RecipientType: models.RecipientSecondaryEvaluator}),
		"partial secondary": draft(models.StageSecondary, models.RevisionRecipient{RecipientID: "sec-b", RecipientType: models.RecipientSecondaryEvaluator}),
	}
	for name, d := range cases {
		t.Run(name, func(t *testing.T) {
			f := newApprovalFixture()
			_, err := f.svc.RequestRevision(context.Background(), d, reviewerActor)
			require.ErrorIs(t, err, appErrors.ErrValidation)
			assert.Empty(t, f.revisions.requests)
		})
	}
}

func TestRequestRevisionRollsBackWhenRequestInsertFails(t *testing.T) {
	f := newApprovalFixture()
	f.revisions.createErr = errors.New("insert failed")

	_, err := f.svc.RequestRevision(context.Background(), RevisionDraft{
		PeriodID:   testPeriod,
		EmployeeID: testEvaluatee,
		Stage:      models.StageSelf,
		Comment:    "rework",
	}, reviewerActor)
	require.ErrorIs(t, err, appErrors.ErrInternal)
	assert.Equal(t, models.StepApprovalStatus(""), f.approvals.status(testPeriod, testEvaluatee, models.StageSelf))
	assert.Empty(t, f.activity.entries)
}

func TestMarkRevisionCompletedOnlyFromRequested(t *testing.T) {
	f := newApprovalFixture()
	f.approvals.set(models.StepApproval{PeriodID: testPeriod, EmployeeID: testEvaluatee, Stage: models.StageSelf, Status: models.StepStatusApproved})

	approval, err := f.svc.MarkRevisionCompleted(context.Background(), testPeriod, testEvaluatee, models.StageSelf, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, models.StepStatusApproved, approval.Status)

	f.approvals.set(models.StepApproval{PeriodID: testPeriod, EmployeeID: testEvaluatee, Stage: models.StagePrimary, Status: models.StepStatusRevisionRequested})
	approval, err = f.svc.MarkRevisionCompleted(context.Background(), testPeriod, testEvaluatee, models.StagePrimary, "mgr-1")
	require.NoError(t, err)
	assert.Equal(t, models.StepStatusRevisionCompleted, approval.Status)
	assert.Equal(t, models.StepStatusRevisionCompleted, f.approvals.status(testPeriod, testEvaluatee, models.StagePrimary))
}

func TestListByEmployeeSynthesisesPendingStages(t *testing.T) {
	f := newApprovalFixture()
	f.approvals.set(models.StepApproval{PeriodID: testPeriod, EmployeeID: testEvaluatee, Stage: models.StageSelf, Status: models.StepStatusApproved})

	approvals, err := f.svc.ListByEmployee(context.Background(), testPeriod, testEvaluatee)
	require.NoError(t, err)
	require.Len(t, approvals, len(models.Stages))
	for i, stage := range models.Stages {
		assert.Equal(t, stage, approvals[i].Stage)
	}
	assert.Equal(t, models.StepStatusPending, approvals[0].Status)
	assert.Equal(t, models.StepStatusApproved, approvals[1].Status)
	assert.Equal(t, models.StepStatusPending, approvals[3].Status)

	single, err := f.svc.Get(context.Background(), testPeriod, testEvaluatee, models.StageSecondary)
	require.NoError(t, err)
	assert.Equal(t, models.StepStatusPending, single.Status)
	assert.Empty(t, single.ID)
}
