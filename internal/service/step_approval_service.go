package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/GTD-web/ems-backend-sub027/internal/dto"
	"github.com/GTD-web/ems-backend-sub027/internal/models"
	appErrors "github.com/GTD-web/ems-backend-sub027/pkg/errors"
)

type stepApprovalStore interface {
	Find(ctx context.Context, periodID, employeeID string, stage models.EvaluationStage) (*models.StepApproval, error)
	LockForUpdate(ctx context.Context, periodID, employeeID string, stage models.EvaluationStage) (*models.StepApproval, error)
	ListByEmployee(ctx context.Context, periodID, employeeID string) ([]models.StepApproval, error)
	Upsert(ctx context.Context, approval *models.StepApproval) error
}

type revisionWriter interface {
	CreateRequest(ctx context.Context, req *models.RevisionRequest) error
}

type evaluatorDirectory interface {
	Evaluators(ctx context.Context, periodID, employeeID string, evaluatorType models.DownwardEvaluationType) ([]string, error)
	WbsItemsForEvaluator(ctx context.Context, periodID, employeeID, evaluatorID string, evaluatorType models.DownwardEvaluationType) ([]string, error)
}

// StepApprovalService drives the per-stage approval state machine.
type StepApprovalService struct {
	approvals stepApprovalStore
	revisions revisionWriter
	directory evaluatorDirectory
	tx        txRunner
	activity  ActivityRecorder
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStepApprovalService constructs the service.
func NewStepApprovalService(approvals stepApprovalStore, revisions revisionWriter, directory evaluatorDirectory, tx txRunner, activity ActivityRecorder, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *StepApprovalService {
	if tx == nil {
		tx = passthroughTx{}
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StepApprovalService{
		approvals: approvals,
		revisions: revisions,
		directory: directory,
		tx:        tx,
		activity:  activity,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// checkTransition reports whether a reviewer may move a stage from one status to another.
func checkTransition(from, to models.StepApprovalStatus) error {
	if to == models.StepStatusRevisionCompleted {
		return appErrors.Clone(appErrors.ErrConflict, "revision_completed is set only when every recipient has responded")
	}
	switch from {
	case models.StepStatusPending:
		return nil
	case models.StepStatusApproved:
		return appErrors.Clone(appErrors.ErrConflict, "stage already approved")
	case models.StepStatusRevisionRequested:
		if to == models.StepStatusRevisionRequested {
			return nil
		}
		return appErrors.Clone(appErrors.ErrConflict, "revision still outstanding")
	case models.StepStatusRevisionCompleted:
		return nil
	}
	return appErrors.Clone(appErrors.ErrUnprocessable, fmt.Sprintf("unknown current status %q", from))
}

func pendingApproval(periodID, employeeID string, stage models.EvaluationStage) *models.StepApproval {
	return &models.StepApproval{
		PeriodID:   periodID,
		EmployeeID: employeeID,
		Stage:      stage,
		Status:     models.StepStatusPending,
	}
}

func canReview(actor models.Actor) bool {
	return actor.IsAdmin || actor.Role == models.RoleEvaluator
}

// UpdateStatus applies a reviewer decision to a stage. Requesting a revision
// also opens a revision request, addressed by stage, in the same transaction.
func (s *StepApprovalService) UpdateStatus(ctx context.Context, req dto.UpdateStepApprovalRequest, actor models.Actor) (*dto.StepApprovalResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid step approval payload")
	}
	stage, err := models.ParseEvaluationStage(req.Stage)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	status, err := models.ParseStepApprovalStatus(req.Status)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	if !canReview(actor) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only reviewers may change stage status")
	}
	if status == models.StepStatusRevisionCompleted {
		return nil, checkTransition(models.StepStatusPending, status)
	}
	if status == models.StepStatusRevisionRequested {
		comment := strings.TrimSpace(req.RevisionComment)
		if comment == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "revisionComment is required when requesting a revision")
		}
		return s.RequestRevision(ctx, RevisionDraft{
			PeriodID:    req.PeriodID,
			EmployeeID:  req.EmployeeID,
			Stage:       stage,
			Comment:     comment,
			EvaluatorID: req.EvaluatorID,
		}, actor)
	}

	var (
		approval *models.StepApproval
		changed  bool
	)
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.loadForUpdate(ctx, req.PeriodID, req.EmployeeID, stage)
		if err != nil {
			return err
		}
		if err := checkTransition(current.Status, status); err != nil {
			return err
		}
		approval = current
		if current.Status == status && current.ID != "" {
			return nil
		}
		now := time.Now().UTC()
		changed = current.Status != status
		approval.Status = status
		approval.UpdatedBy = &actor.ID
		if req.EvaluatorID != nil {
			approval.EvaluatorID = req.EvaluatorID
		}
		if status == models.StepStatusApproved {
			approval.ApprovedBy = &actor.ID
			approval.ApprovedAt = &now
		}
		if err := s.approvals.Upsert(ctx, approval); err != nil {
			return appErrors.Internal(err, "failed to save step approval")
		}
		return nil
	})
	if err != nil {
		return nil, asAppError(err, "failed to update step approval")
	}
	if changed {
		s.afterTransition(ctx, approval, actor.ID, nil)
	}
	return &dto.StepApprovalResponse{Approval: approval}, nil
}

// RevisionDraft describes a revision request before persistence. Recipients
// are resolved from the stage when left empty.
type RevisionDraft struct {
	PeriodID    string
	EmployeeID  string
	Stage       models.EvaluationStage
	Comment     string
	EvaluatorID *string
	Recipients  []models.RevisionRecipient
}

// RequestRevision moves a stage to revision_requested and records the request
// with its recipients atomically.
func (s *StepApprovalService) RequestRevision(ctx context.Context, draft RevisionDraft, actor models.Actor) (*dto.StepApprovalResponse, error) {
	if !draft.Stage.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown evaluation stage %q", draft.Stage))
	}
	if strings.TrimSpace(draft.Comment) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "comment is required")
	}
	if !canReview(actor) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only reviewers may request revisions")
	}

	var (
		approval *models.StepApproval
		request  *models.RevisionRequest
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.loadForUpdate(ctx, draft.PeriodID, draft.EmployeeID, draft.Stage)
		if err != nil {
			return err
		}
		if err := checkTransition(current.Status, models.StepStatusRevisionRequested); err != nil {
			return err
		}
		recipients, err := s.resolveRecipients(ctx, draft)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		comment := strings.TrimSpace(draft.Comment)
		approval = current
		approval.Status = models.StepStatusRevisionRequested
		approval.RevisionComment = &comment
		approval.UpdatedBy = &actor.ID
		if draft.EvaluatorID != nil {
			approval.EvaluatorID = draft.EvaluatorID
		}
		if err := s.approvals.Upsert(ctx, approval); err != nil {
			return appErrors.Internal(err, "failed to save step approval")
		}

		request = &models.RevisionRequest{
			PeriodID:    draft.PeriodID,
			EmployeeID:  draft.EmployeeID,
			Step:        draft.Stage,
			Comment:     comment,
			RequestedBy: actor.ID,
			RequestedAt: now,
			Recipients:  recipients,
		}
		if err := s.revisions.CreateRequest(ctx, request); err != nil {
			return appErrors.Internal(err, "failed to create revision request")
		}
		return nil
	})
	if err != nil {
		return nil, asAppError(err, "failed to request revision")
	}
	s.metrics.RecordRevisionEvent(draft.Stage, "requested")
	s.afterTransition(ctx, approval, actor.ID, map[string]interface{}{
		"revisionRequestId": request.ID,
		"recipientCount":    len(request.Recipients),
	})
	return &dto.StepApprovalResponse{Approval: approval, RevisionRequest: request}, nil
}

// resolveRecipients validates explicit recipients or derives them from the stage.
// Secondary revisions always address every secondary evaluator.
func (s *StepApprovalService) resolveRecipients(ctx context.Context, draft RevisionDraft) ([]models.RevisionRecipient, error) {
	expectedType := models.RecipientTypeForStage(draft.Stage)
	var expected []string
	switch draft.Stage {
	case models.StageCriteria, models.StageSelf:
		expected = []string{draft.EmployeeID}
	case models.StagePrimary:
		ids, err := s.directory.Evaluators(ctx, draft.PeriodID, draft.EmployeeID, models.DownwardTypePrimary)
		if err != nil {
			return nil, err
		}
		expected = ids
	case models.StageSecondary:
		ids, err := s.directory.Evaluators(ctx, draft.PeriodID, draft.EmployeeID, models.DownwardTypeSecondary)
		if err != nil {
			return nil, err
		}
		expected = ids
	}
	if len(expected) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("no %s assigned for this employee", expectedType))
	}

	if len(draft.Recipients) == 0 {
		recipients := make([]models.RevisionRecipient, 0, len(expected))
		for _, id := range expected {
			recipients = append(recipients, models.RevisionRecipient{RecipientID: id, RecipientType: expectedType})
		}
		return recipients, nil
	}

	allowed := make(map[string]struct{}, len(expected))
	for _, id := range expected {
		allowed[id] = struct{}{}
	}
	seen := make(map[string]struct{}, len(draft.Recipients))
	recipients := make([]models.RevisionRecipient, 0, len(draft.Recipients))
	for _, r := range draft.Recipients {
		if r.RecipientType != expectedType {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("recipient type for %s revisions must be %s", draft.Stage, expectedType))
		}
		if _, ok := allowed[r.RecipientID]; !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("recipient %s is not a %s of this employee", r.RecipientID, expectedType))
		}
		if _, dup := seen[r.RecipientID]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("duplicate recipient %s", r.RecipientID))
		}
		seen[r.RecipientID] = struct{}{}
		recipients = append(recipients, models.RevisionRecipient{RecipientID: r.RecipientID, RecipientType: r.RecipientType})
	}
	if draft.Stage == models.StageSecondary && len(seen) != len(allowed) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "secondary revisions must address every secondary evaluator")
	}
	return recipients, nil
}

// MarkRevisionCompleted closes the revision cycle of a stage. It is called by
// the revision protocol once no recipient remains outstanding.
func (s *StepApprovalService) MarkRevisionCompleted(ctx context.Context, periodID, employeeID string, stage models.EvaluationStage, actorID string) (*models.StepApproval, error) {
	var (
		approval *models.StepApproval
		changed  bool
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.loadForUpdate(ctx, periodID, employeeID, stage)
		if err != nil {
			return err
		}
		approval = current
		if current.Status != models.StepStatusRevisionRequested {
			s.logger.Warn("revision cycle closed on stage not awaiting revision",
				zap.String("period_id", periodID),
				zap.String("employee_id", employeeID),
				zap.String("stage", string(stage)),
				zap.String("status", string(current.Status)),
			)
			return nil
		}
		approval.Status = models.StepStatusRevisionCompleted
		approval.UpdatedBy = &actorID
		changed = true
		if err := s.approvals.Upsert(ctx, approval); err != nil {
			return appErrors.Internal(err, "failed to save step approval")
		}
		return nil
	})
	if err != nil {
		return nil, asAppError(err, "failed to complete revision cycle")
	}
	if changed {
		s.metrics.RecordStepTransition(stage, models.StepStatusRevisionCompleted)
	}
	return approval, nil
}

// Get returns the stage state, reporting a missing row as pending.
func (s *StepApprovalService) Get(ctx context.Context, periodID, employeeID string, stage models.EvaluationStage) (*models.StepApproval, error) {
	approval, err := s.approvals.Find(ctx, periodID, employeeID, stage)
	if err != nil {
		if isNotFound(err) {
			return pendingApproval(periodID, employeeID, stage), nil
		}
		return nil, appErrors.Internal(err, "failed to load step approval")
	}
	return approval, nil
}

// ListByEmployee returns every stage in workflow order, synthesising pending rows.
func (s *StepApprovalService) ListByEmployee(ctx context.Context, periodID, employeeID string) ([]models.StepApproval, error) {
	stored, err := s.approvals.ListByEmployee(ctx, periodID, employeeID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list step approvals")
	}
	byStage := make(map[models.EvaluationStage]models.StepApproval, len(stored))
	for _, approval := range stored {
		byStage[approval.Stage] = approval
	}
	result := make([]models.StepApproval, 0, len(models.Stages))
	for _, stage := range models.Stages {
		if approval, ok := byStage[stage]; ok {
			result = append(result, approval)
			continue
		}
		result = append(result, *pendingApproval(periodID, employeeID, stage))
	}
	return result, nil
}

// LockStage holds the stage row lock for the rest of the caller's
// transaction. Every writer of a stage's revision cycle takes it before
// touching recipient rows.
func (s *StepApprovalService) LockStage(ctx context.Context, periodID, employeeID string, stage models.EvaluationStage) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		_, err := s.loadForUpdate(ctx, periodID, employeeID, stage)
		return err
	})
}

func (s *StepApprovalService) loadForUpdate(ctx context.Context, periodID, employeeID string, stage models.EvaluationStage) (*models.StepApproval, error) {
	current, err := s.approvals.LockForUpdate(ctx, periodID, employeeID, stage)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to lock step approval")
	}
	return current, nil
}

func (s *StepApprovalService) afterTransition(ctx context.Context, approval *models.StepApproval, actorID string, metadata map[string]interface{}) {
	s.metrics.RecordStepTransition(approval.Stage, approval.Status)
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	metadata["stage"] = approval.Stage
	metadata["status"] = approval.Status
	emitActivity(ctx, s.activity, s.logger, &models.ActivityLogEntry{
		PeriodID:          approval.PeriodID,
		EmployeeID:        approval.EmployeeID,
		ActivityType:      models.ActivityStepApproval,
		ActivityAction:    string(approval.Status),
		Title:             fmt.Sprintf("%s stage %s", approval.Stage, strings.ReplaceAll(string(approval.Status), "_", " ")),
		RelatedEntityType: strPtr("step_approval"),
		RelatedEntityID:   strPtr(approval.ID),
		PerformedBy:       actorID,
	}, metadata)
}
