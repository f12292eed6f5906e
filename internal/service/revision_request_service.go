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

type revisionStore interface {
	FindRequest(ctx context.Context, id string) (*models.RevisionRequest, error)
	FindRecipientForUpdate(ctx context.Context, requestID, recipientID string) (*models.RevisionRecipient, error)
	MarkRead(ctx context.Context, recipientRowID string, at time.Time) (bool, error)
	MarkCompleted(ctx context.Context, recipientRowID, comment string, at time.Time) error
	CountOutstanding(ctx context.Context, periodID, employeeID string, step models.EvaluationStage) (int, error)
	ListForRecipient(ctx context.Context, filter models.RevisionRecipientFilter) ([]models.RecipientRevision, error)
	CountUnread(ctx context.Context, recipientID string) (int, error)
}

type stageRevisionDriver interface {
	RequestRevision(ctx context.Context, draft RevisionDraft, actor models.Actor) (*dto.StepApprovalResponse, error)
	MarkRevisionCompleted(ctx context.Context, periodID, employeeID string, stage models.EvaluationStage, actorID string) (*models.StepApproval, error)
	LockStage(ctx context.Context, periodID, employeeID string, stage models.EvaluationStage) error
}

// RevisionRequestService routes revision requests to recipients and tracks their responses.
type RevisionRequestService struct {
	store     revisionStore
	stages    stageRevisionDriver
	tx        txRunner
	activity  ActivityRecorder
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRevisionRequestService constructs the service.
func NewRevisionRequestService(store revisionStore, stages stageRevisionDriver, tx txRunner, activity ActivityRecorder, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *RevisionRequestService {
	if tx == nil {
		tx = passthroughTx{}
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RevisionRequestService{
		store:     store,
		stages:    stages,
		tx:        tx,
		activity:  activity,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// CreateRevisionRequest opens a revision request for explicit recipients and
// moves the stage to revision_requested.
func (s *RevisionRequestService) CreateRevisionRequest(ctx context.Context, req dto.CreateRevisionRequest, actor models.Actor) (*models.RevisionRequest, error) {
	if strings.TrimSpace(req.Comment) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "comment is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid revision request payload")
	}
	step, err := models.ParseEvaluationStage(req.Step)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	recipients := make([]models.RevisionRecipient, 0, len(req.Recipients))
	for _, input := range req.Recipients {
		recipientType := models.RecipientType(strings.ToLower(strings.TrimSpace(input.RecipientType)))
		if !recipientType.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown recipient type %q", input.RecipientType))
		}
		recipients = append(recipients, models.RevisionRecipient{RecipientID: input.RecipientID, RecipientType: recipientType})
	}
	resp, err := s.stages.RequestRevision(ctx, RevisionDraft{
		PeriodID:   req.PeriodID,
		EmployeeID: req.EmployeeID,
		Stage:      step,
		Comment:    req.Comment,
		Recipients: recipients,
	}, actor)
	if err != nil {
		return nil, err
	}
	return resp.RevisionRequest, nil
}

// authorizeRecipient lets the addressed recipient act, or an admin acting on their behalf.
func authorizeRecipient(actor models.Actor, recipientID string) error {
	if actor.ID == recipientID || actor.IsAdmin {
		return nil
	}
	return appErrors.Clone(appErrors.ErrForbidden, "only the addressed recipient may act on this revision request")
}

func (s *RevisionRequestService) loadRecipient(ctx context.Context, requestID, recipientID string) (*models.RevisionRequest, *models.RevisionRecipient, error) {
	request, err := s.findRequest(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}
	recipient, err := s.lockRecipient(ctx, requestID, recipientID)
	if err != nil {
		return nil, nil, err
	}
	return request, recipient, nil
}

func (s *RevisionRequestService) findRequest(ctx context.Context, requestID string) (*models.RevisionRequest, error) {
	request, err := s.store.FindRequest(ctx, requestID)
	if err != nil {
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "revision request not found")
		}
		return nil, appErrors.Internal(err, "failed to load revision request")
	}
	return request, nil
}

func (s *RevisionRequestService) lockRecipient(ctx context.Context, requestID, recipientID string) (*models.RevisionRecipient, error) {
	recipient, err := s.store.FindRecipientForUpdate(ctx, requestID, recipientID)
	if err != nil {
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "recipient not found on revision request")
		}
		return nil, appErrors.Internal(err, "failed to load revision recipient")
	}
	return recipient, nil
}

// MarkRead flags the request as read by the recipient. Repeated calls keep
// the first read timestamp.
func (s *RevisionRequestService) MarkRead(ctx context.Context, requestID, recipientID string, actor models.Actor) (*models.RevisionRecipient, error) {
	if err := authorizeRecipient(actor, recipientID); err != nil {
		return nil, err
	}
	var recipient *models.RevisionRecipient
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		_, current, err := s.loadRecipient(ctx, requestID, recipientID)
		if err != nil {
			return err
		}
		recipient = current
		if current.IsRead {
			return nil
		}
		now := time.Now().UTC()
		if _, err := s.store.MarkRead(ctx, current.ID, now); err != nil {
			return appErrors.Internal(err, "failed to mark revision read")
		}
		recipient.IsRead = true
		recipient.ReadAt = &now
		return nil
	})
	if err != nil {
		return nil, asAppError(err, "failed to mark revision read")
	}
	return recipient, nil
}

// Complete records a recipient's response. When it was the last outstanding
// recipient of the stage's revision cycle the stage moves to revision_completed.
func (s *RevisionRequestService) Complete(ctx context.Context, requestID, recipientID, responseComment string, actor models.Actor) (*dto.RevisionCompletionResult, error) {
	comment := strings.TrimSpace(responseComment)
	if comment == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "responseComment is required")
	}
	if err := authorizeRecipient(actor, recipientID); err != nil {
		return nil, err
	}

	var (
		request   *models.RevisionRequest
		remaining int
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		req, err := s.findRequest(ctx, requestID)
		if err != nil {
			return err
		}
		request = req
		// Completers of one cycle queue on the stage row so the outstanding
		// count below sees every earlier completion.
		if err := s.stages.LockStage(ctx, req.PeriodID, req.EmployeeID, req.Step); err != nil {
			return err
		}
		recipient, err := s.lockRecipient(ctx, requestID, recipientID)
		if err != nil {
			return err
		}
		if recipient.IsCompleted {
			return appErrors.Clone(appErrors.ErrConflict, "revision already completed by this recipient")
		}
		if err := s.store.MarkCompleted(ctx, recipient.ID, comment, time.Now().UTC()); err != nil {
			if isNotFound(err) {
				return appErrors.Clone(appErrors.ErrConflict, "revision already completed by this recipient")
			}
			return appErrors.Internal(err, "failed to complete revision")
		}
		remaining, err = s.store.CountOutstanding(ctx, req.PeriodID, req.EmployeeID, req.Step)
		if err != nil {
			return appErrors.Internal(err, "failed to count outstanding revisions")
		}
		if remaining == 0 {
			if _, err := s.stages.MarkRevisionCompleted(ctx, req.PeriodID, req.EmployeeID, req.Step, actor.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, asAppError(err, "failed to complete revision")
	}

	allCompleted := remaining == 0
	s.metrics.RecordRevisionEvent(request.Step, "recipient_completed")
	action := models.ActionRecipientCompleted
	title := fmt.Sprintf("%s revision answered", request.Step)
	if allCompleted {
		s.metrics.RecordRevisionEvent(request.Step, "cycle_completed")
		action = models.ActionRevisionCompleted
		title = fmt.Sprintf("%s revision completed by all recipients", request.Step)
	}
	emitActivity(ctx, s.activity, s.logger, &models.ActivityLogEntry{
		PeriodID:          request.PeriodID,
		EmployeeID:        request.EmployeeID,
		ActivityType:      models.ActivityRevisionRequest,
		ActivityAction:    action,
		Title:             title,
		RelatedEntityType: strPtr("revision_request"),
		RelatedEntityID:   strPtr(request.ID),
		PerformedBy:       actor.ID,
	}, map[string]interface{}{
		"recipientId":  recipientID,
		"allCompleted": allCompleted,
		"remaining":    remaining,
	})

	return &dto.RevisionCompletionResult{
		RequestID:    request.ID,
		RecipientID:  recipientID,
		AllCompleted: allCompleted,
		Remaining:    remaining,
	}, nil
}

// ListForRecipient returns the revision requests addressed to recipientID.
func (s *RevisionRequestService) ListForRecipient(ctx context.Context, recipientID string, query dto.RevisionInboxQuery) ([]models.RecipientRevision, error) {
	filter := models.RevisionRecipientFilter{
		RecipientID: recipientID,
		PeriodID:    query.PeriodID,
		IsRead:      query.IsRead,
		IsCompleted: query.IsCompleted,
	}
	if query.Step != "" {
		step, err := models.ParseEvaluationStage(query.Step)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
		}
		filter.Step = step
	}
	items, err := s.store.ListForRecipient(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list revision requests")
	}
	return items, nil
}

// UnreadCount counts open, unread requests addressed to recipientID.
func (s *RevisionRequestService) UnreadCount(ctx context.Context, recipientID string) (int, error) {
	count, err := s.store.CountUnread(ctx, recipientID)
	if err != nil {
		return 0, appErrors.Internal(err, "failed to count unread revision requests")
	}
	return count, nil
}
