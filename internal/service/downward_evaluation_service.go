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

// DefaultForceSubmitPlaceholder is the content written into records created by a forced submission.
const DefaultForceSubmitPlaceholder = "Auto-provisioned by system on forced submission"

const (
	batchOperationSubmit = "bulk_submit"
	batchOperationReset  = "bulk_reset"
)

type downwardEvaluationStore interface {
	CreateIfAbsent(ctx context.Context, eval *models.DownwardEvaluation) (bool, error)
	FindByID(ctx context.Context, id string) (*models.DownwardEvaluation, error)
	FindByIDForUpdate(ctx context.Context, id string) (*models.DownwardEvaluation, error)
	List(ctx context.Context, filter models.DownwardEvaluationFilter) ([]models.DownwardEvaluation, error)
	ListForUpdate(ctx context.Context, filter models.DownwardEvaluationFilter) ([]models.DownwardEvaluation, error)
	UpdateContent(ctx context.Context, eval *models.DownwardEvaluation) error
	MarkCompleted(ctx context.Context, id, actorID string, at time.Time) error
	Reset(ctx context.Context, id, actorID string, at time.Time) error
	SoftDelete(ctx context.Context, id, actorID string, at time.Time) (bool, error)
}

type wbsAssignmentReader interface {
	ListByEmployee(ctx context.Context, periodID, employeeID string) ([]models.WbsAssignment, error)
}

// DownwardEvaluationService runs bulk and single-record operations on downward evaluations.
type DownwardEvaluationService struct {
	evaluations downwardEvaluationStore
	assignments wbsAssignmentReader
	directory   evaluatorDirectory
	tx          txRunner
	activity    ActivityRecorder
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
	placeholder string
}

// DownwardEvaluationOption configures the service.
type DownwardEvaluationOption func(*DownwardEvaluationService)

// WithForceSubmitPlaceholder overrides the content of auto-provisioned records.
func WithForceSubmitPlaceholder(text string) DownwardEvaluationOption {
	return func(s *DownwardEvaluationService) {
		if strings.TrimSpace(text) != "" {
			s.placeholder = text
		}
	}
}

// WithDownwardMetrics attaches a metrics sink.
func WithDownwardMetrics(metrics *MetricsService) DownwardEvaluationOption {
	return func(s *DownwardEvaluationService) {
		s.metrics = metrics
	}
}

// WithDownwardActivity attaches an activity log sink.
func WithDownwardActivity(activity ActivityRecorder) DownwardEvaluationOption {
	return func(s *DownwardEvaluationService) {
		s.activity = activity
	}
}

// NewDownwardEvaluationService constructs the service.
func NewDownwardEvaluationService(evaluations downwardEvaluationStore, assignments wbsAssignmentReader, directory evaluatorDirectory, tx txRunner, validate *validator.Validate, logger *zap.Logger, opts ...DownwardEvaluationOption) *DownwardEvaluationService {
	if tx == nil {
		tx = passthroughTx{}
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &DownwardEvaluationService{
		evaluations: evaluations,
		assignments: assignments,
		directory:   directory,
		tx:          tx,
		validator:   validate,
		logger:      logger,
		placeholder: DefaultForceSubmitPlaceholder,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

type bulkScope struct {
	evaluatorID string
	evaluateeID string
	periodID    string
	evalType    models.DownwardEvaluationType
}

func (s *DownwardEvaluationService) parseBulk(req dto.BulkDownwardRequest) (bulkScope, error) {
	if err := s.validator.Struct(req); err != nil {
		return bulkScope{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk request")
	}
	evalType, err := models.ParseDownwardEvaluationType(req.EvaluationType)
	if err != nil {
		return bulkScope{}, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	return bulkScope{
		evaluatorID: req.EvaluatorID,
		evaluateeID: req.EvaluateeID,
		periodID:    req.PeriodID,
		evalType:    evalType,
	}, nil
}

func (b bulkScope) filter() models.DownwardEvaluationFilter {
	return models.DownwardEvaluationFilter{
		EvaluatorID:    b.evaluatorID,
		EmployeeID:     b.evaluateeID,
		PeriodID:       b.periodID,
		EvaluationType: b.evalType,
	}
}

// authorizeEvaluator lets an evaluator act on their own records, or an admin on anyone's.
func authorizeEvaluator(actor models.Actor, evaluatorID string) error {
	if actor.IsAdmin || actor.ID == evaluatorID {
		return nil
	}
	return appErrors.Clone(appErrors.ErrForbidden, "only the evaluator may change these evaluations")
}

// BulkSubmit submits every record of one evaluator for one evaluatee, period
// and type in a single transaction. With ForceSubmit, missing records are
// provisioned first and incomplete ones are submitted as they are.
func (s *DownwardEvaluationService) BulkSubmit(ctx context.Context, req dto.BulkDownwardRequest, actor models.Actor) (*dto.BulkSubmitResult, error) {
	scope, err := s.parseBulk(req)
	if err != nil {
		return nil, err
	}
	if err := authorizeEvaluator(actor, scope.evaluatorID); err != nil {
		return nil, err
	}

	start := time.Now()
	result := &dto.BulkSubmitResult{
		SubmittedIDs: []string{},
		SkippedIDs:   []string{},
		FailedItems:  []dto.BulkFailedItem{},
	}
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if req.ForceSubmit {
			if err := s.provisionMissing(ctx, scope, actor.ID); err != nil {
				return err
			}
		}
		records, err := s.evaluations.ListForUpdate(ctx, scope.filter())
		if err != nil {
			return appErrors.Internal(err, "failed to load downward evaluations")
		}
		now := time.Now().UTC()
		for _, record := range records {
			if record.IsCompleted {
				result.SkippedIDs = append(result.SkippedIDs, record.ID)
				continue
			}
			if !req.ForceSubmit {
				if reason := missingFields(record); reason != "" {
					result.FailedItems = append(result.FailedItems, dto.BulkFailedItem{EvaluationID: record.ID, Error: reason})
					continue
				}
			}
			if err := s.evaluations.MarkCompleted(ctx, record.ID, actor.ID, now); err != nil {
				return appErrors.Internal(err, fmt.Sprintf("failed to submit downward evaluation %s", record.ID))
			}
			result.SubmittedIDs = append(result.SubmittedIDs, record.ID)
		}
		return nil
	})
	s.metrics.ObserveBatch(batchOperationSubmit, scope.evalType, map[string]int{
		"submitted": len(result.SubmittedIDs),
		"skipped":   len(result.SkippedIDs),
		"failed":    len(result.FailedItems),
	}, time.Since(start), err)
	if err != nil {
		s.logger.Error("bulk submit rolled back",
			zap.String("evaluator_id", scope.evaluatorID),
			zap.String("evaluatee_id", scope.evaluateeID),
			zap.String("period_id", scope.periodID),
			zap.String("evaluation_type", string(scope.evalType)),
			zap.Error(err),
		)
		return nil, asAppError(err, "bulk submit failed")
	}

	result.SubmittedCount = len(result.SubmittedIDs)
	result.SkippedCount = len(result.SkippedIDs)
	result.FailedCount = len(result.FailedItems)
	emitActivity(ctx, s.activity, s.logger, &models.ActivityLogEntry{
		PeriodID:          scope.periodID,
		EmployeeID:        scope.evaluateeID,
		ActivityType:      models.ActivityDownwardEvaluation,
		ActivityAction:    models.ActionBulkSubmitted,
		Title:             fmt.Sprintf("%s downward evaluations submitted", scope.evalType),
		RelatedEntityType: strPtr("downward_evaluation"),
		PerformedBy:       actor.ID,
	}, map[string]interface{}{
		"evaluatorId":    scope.evaluatorID,
		"evaluationType": scope.evalType,
		"forceSubmit":    req.ForceSubmit,
		"submittedCount": result.SubmittedCount,
		"skippedCount":   result.SkippedCount,
		"failedCount":    result.FailedCount,
	})
	return result, nil
}

func missingFields(record models.DownwardEvaluation) string {
	switch {
	case !record.HasContent() && !record.HasScore():
		return "content and score are required"
	case !record.HasContent():
		return "content is required"
	case !record.HasScore():
		return "score is required"
	}
	return ""
}

// provisionMissing creates placeholder records for WBS items the evaluator
// should cover but has no record for. Each insert runs under its own
// savepoint so a failed item does not poison the batch; such failures are
// logged and skipped.
func (s *DownwardEvaluationService) provisionMissing(ctx context.Context, scope bulkScope, actorID string) error {
	wbsItems, err := s.provisionTargets(ctx, scope)
	if err != nil {
		return err
	}
	if len(wbsItems) == 0 {
		return nil
	}
	existing, err := s.evaluations.List(ctx, scope.filter())
	if err != nil {
		return appErrors.Internal(err, "failed to load downward evaluations")
	}
	present := make(map[string]struct{}, len(existing))
	for _, record := range existing {
		present[record.WbsItemID] = struct{}{}
	}

	for _, wbsItemID := range wbsItems {
		if _, ok := present[wbsItemID]; ok {
			continue
		}
		content := s.placeholder
		record := &models.DownwardEvaluation{
			EmployeeID:     scope.evaluateeID,
			EvaluatorID:    scope.evaluatorID,
			PeriodID:       scope.periodID,
			WbsItemID:      wbsItemID,
			EvaluationType: scope.evalType,
			Content:        &content,
			CreatedBy:      actorID,
		}
		created := false
		err := s.tx.WithinSavepoint(ctx, func(ctx context.Context) error {
			var err error
			created, err = s.evaluations.CreateIfAbsent(ctx, record)
			return err
		})
		if err == nil && !created {
			err = fmt.Errorf("record already exists")
		}
		if err != nil {
			if isTxAborted(err) {
				return appErrors.Internal(err, "transaction aborted during auto-provisioning")
			}
			s.logger.Warn("auto-provision skipped",
				zap.String("evaluator_id", scope.evaluatorID),
				zap.String("evaluatee_id", scope.evaluateeID),
				zap.String("period_id", scope.periodID),
				zap.String("wbs_item_id", wbsItemID),
				zap.String("evaluation_type", string(scope.evalType)),
				zap.Error(err),
			)
			continue
		}
		present[wbsItemID] = struct{}{}
	}
	return nil
}

// provisionTargets lists the WBS items a forced submission must cover.
func (s *DownwardEvaluationService) provisionTargets(ctx context.Context, scope bulkScope) ([]string, error) {
	switch scope.evalType {
	case models.DownwardTypePrimary:
		assignments, err := s.assignments.ListByEmployee(ctx, scope.periodID, scope.evaluateeID)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to load wbs assignments")
		}
		items := make([]string, 0, len(assignments))
		for _, assignment := range assignments {
			if assignment.DeletedAt == nil {
				items = append(items, assignment.WbsItemID)
			}
		}
		return items, nil
	case models.DownwardTypeSecondary:
		return s.directory.WbsItemsForEvaluator(ctx, scope.periodID, scope.evaluateeID, scope.evaluatorID, models.DownwardTypeSecondary)
	}
	return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown downward evaluation type %q", scope.evalType))
}

// BulkReset reopens every record of one evaluator for one evaluatee, period
// and type, clearing content and score, in a single transaction.
func (s *DownwardEvaluationService) BulkReset(ctx context.Context, req dto.BulkDownwardRequest, actor models.Actor) (*dto.BulkResetResult, error) {
	scope, err := s.parseBulk(req)
	if err != nil {
		return nil, err
	}
	if err := authorizeEvaluator(actor, scope.evaluatorID); err != nil {
		return nil, err
	}

	start := time.Now()
	result := &dto.BulkResetResult{
		ResetIDs:    []string{},
		SkippedIDs:  []string{},
		FailedItems: []dto.BulkFailedItem{},
	}
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		records, err := s.evaluations.ListForUpdate(ctx, scope.filter())
		if err != nil {
			return appErrors.Internal(err, "failed to load downward evaluations")
		}
		now := time.Now().UTC()
		for _, record := range records {
			if err := s.evaluations.Reset(ctx, record.ID, actor.ID, now); err != nil {
				return appErrors.Internal(err, fmt.Sprintf("failed to reset downward evaluation %s", record.ID))
			}
			result.ResetIDs = append(result.ResetIDs, record.ID)
		}
		return nil
	})
	s.metrics.ObserveBatch(batchOperationReset, scope.evalType, map[string]int{
		"reset": len(result.ResetIDs),
	}, time.Since(start), err)
	if err != nil {
		s.logger.Error("bulk reset rolled back",
			zap.String("evaluator_id", scope.evaluatorID),
			zap.String("evaluatee_id", scope.evaluateeID),
			zap.String("period_id", scope.periodID),
			zap.String("evaluation_type", string(scope.evalType)),
			zap.Error(err),
		)
		return nil, asAppError(err, "bulk reset failed")
	}

	result.ResetCount = len(result.ResetIDs)
	emitActivity(ctx, s.activity, s.logger, &models.ActivityLogEntry{
		PeriodID:          scope.periodID,
		EmployeeID:        scope.evaluateeID,
		ActivityType:      models.ActivityDownwardEvaluation,
		ActivityAction:    models.ActionBulkReset,
		Title:             fmt.Sprintf("%s downward evaluations reset", scope.evalType),
		RelatedEntityType: strPtr("downward_evaluation"),
		PerformedBy:       actor.ID,
	}, map[string]interface{}{
		"evaluatorId":    scope.evaluatorID,
		"evaluationType": scope.evalType,
		"resetCount":     result.ResetCount,
	})
	return result, nil
}

// Upsert writes content and score for one WBS item, creating the record when needed.
func (s *DownwardEvaluationService) Upsert(ctx context.Context, req dto.UpsertDownwardEvaluationRequest, actor models.Actor) (*models.DownwardEvaluation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid downward evaluation payload")
	}
	evalType, err := models.ParseDownwardEvaluationType(req.EvaluationType)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	if req.Score != nil && (req.Score.LessThan(minScore) || req.Score.GreaterThan(maxScore)) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "score must be between 0 and 100")
	}
	if err := authorizeEvaluator(actor, req.EvaluatorID); err != nil {
		return nil, err
	}

	var saved *models.DownwardEvaluation
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		filter := models.DownwardEvaluationFilter{
			EvaluatorID:    req.EvaluatorID,
			EmployeeID:     req.EmployeeID,
			PeriodID:       req.PeriodID,
			EvaluationType: evalType,
			WbsItemID:      req.WbsItemID,
		}
		existing, err := s.evaluations.ListForUpdate(ctx, filter)
		if err != nil {
			return appErrors.Internal(err, "failed to load downward evaluation")
		}
		if len(existing) == 0 {
			record := &models.DownwardEvaluation{
				EmployeeID:     req.EmployeeID,
				EvaluatorID:    req.EvaluatorID,
				PeriodID:       req.PeriodID,
				WbsItemID:      req.WbsItemID,
				EvaluationType: evalType,
				Content:        req.Content,
				CreatedBy:      actor.ID,
			}
			if req.Score != nil {
				record.Score.Decimal = *req.Score
				record.Score.Valid = true
			}
			created, err := s.evaluations.CreateIfAbsent(ctx, record)
			if err != nil {
				return appErrors.Internal(err, "failed to create downward evaluation")
			}
			if !created {
				return appErrors.Clone(appErrors.ErrConflict, "downward evaluation was created concurrently")
			}
			saved = record
			return nil
		}

		record := existing[0]
		if record.IsCompleted {
			return appErrors.Clone(appErrors.ErrConflict, "downward evaluation already submitted")
		}
		if req.Content != nil {
			record.Content = req.Content
		}
		if req.Score != nil {
			record.Score.Decimal = *req.Score
			record.Score.Valid = true
		}
		record.UpdatedBy = &actor.ID
		if err := s.evaluations.UpdateContent(ctx, &record); err != nil {
			if isNotFound(err) {
				return appErrors.Clone(appErrors.ErrConflict, "downward evaluation already submitted")
			}
			return appErrors.Internal(err, "failed to update downward evaluation")
		}
		saved = &record
		return nil
	})
	if err != nil {
		return nil, asAppError(err, "failed to save downward evaluation")
	}
	return saved, nil
}

// Submit submits one record. The record must exist, be open and carry content and score.
func (s *DownwardEvaluationService) Submit(ctx context.Context, id string, actor models.Actor) (*models.DownwardEvaluation, error) {
	var record *models.DownwardEvaluation
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.evaluations.FindByIDForUpdate(ctx, id)
		if err != nil {
			if isNotFound(err) {
				return appErrors.Clone(appErrors.ErrNotFound, "downward evaluation not found")
			}
			return appErrors.Internal(err, "failed to load downward evaluation")
		}
		if err := authorizeEvaluator(actor, current.EvaluatorID); err != nil {
			return err
		}
		if current.IsCompleted {
			return appErrors.Clone(appErrors.ErrConflict, "downward evaluation already submitted")
		}
		if reason := missingFields(*current); reason != "" {
			return appErrors.Clone(appErrors.ErrValidation, reason)
		}
		now := time.Now().UTC()
		if err := s.evaluations.MarkCompleted(ctx, current.ID, actor.ID, now); err != nil {
			return appErrors.Internal(err, "failed to submit downward evaluation")
		}
		current.IsCompleted = true
		current.CompletedAt = &now
		current.UpdatedBy = &actor.ID
		record = current
		return nil
	})
	if err != nil {
		return nil, asAppError(err, "failed to submit downward evaluation")
	}
	s.emitSingle(ctx, record, models.ActionSubmitted, "submitted", actor.ID)
	return record, nil
}

// Reset reopens one record. Unknown, deleted or already-open records succeed without change.
func (s *DownwardEvaluationService) Reset(ctx context.Context, id string, actor models.Actor) error {
	var record *models.DownwardEvaluation
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.evaluations.FindByIDForUpdate(ctx, id)
		if err != nil {
			if isNotFound(err) {
				return nil
			}
			return appErrors.Internal(err, "failed to load downward evaluation")
		}
		if err := authorizeEvaluator(actor, current.EvaluatorID); err != nil {
			return err
		}
		if !current.IsCompleted && !current.HasContent() && !current.HasScore() {
			return nil
		}
		if err := s.evaluations.Reset(ctx, current.ID, actor.ID, time.Now().UTC()); err != nil {
			if isNotFound(err) {
				return nil
			}
			return appErrors.Internal(err, "failed to reset downward evaluation")
		}
		record = current
		return nil
	})
	if err != nil {
		return asAppError(err, "failed to reset downward evaluation")
	}
	s.emitSingle(ctx, record, models.ActionReset, "reset", actor.ID)
	return nil
}

// Cancel tombstones one record. Records that are already gone succeed without change.
func (s *DownwardEvaluationService) Cancel(ctx context.Context, id string, actor models.Actor) error {
	var record *models.DownwardEvaluation
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.evaluations.FindByIDForUpdate(ctx, id)
		if err != nil {
			if isNotFound(err) {
				return nil
			}
			return appErrors.Internal(err, "failed to load downward evaluation")
		}
		if err := authorizeEvaluator(actor, current.EvaluatorID); err != nil {
			return err
		}
		deleted, err := s.evaluations.SoftDelete(ctx, current.ID, actor.ID, time.Now().UTC())
		if err != nil {
			return appErrors.Internal(err, "failed to cancel downward evaluation")
		}
		if deleted {
			record = current
		}
		return nil
	})
	if err != nil {
		return asAppError(err, "failed to cancel downward evaluation")
	}
	s.emitSingle(ctx, record, models.ActionCancelled, "cancelled", actor.ID)
	return nil
}

// ListByEmployee returns the live downward evaluations of an employee in a period.
func (s *DownwardEvaluationService) ListByEmployee(ctx context.Context, periodID, employeeID string, evalType models.DownwardEvaluationType) ([]models.DownwardEvaluation, error) {
	records, err := s.evaluations.List(ctx, models.DownwardEvaluationFilter{
		PeriodID:       periodID,
		EmployeeID:     employeeID,
		EvaluationType: evalType,
	})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list downward evaluations")
	}
	return records, nil
}

func (s *DownwardEvaluationService) emitSingle(ctx context.Context, record *models.DownwardEvaluation, action, verb, actorID string) {
	if record == nil {
		return
	}
	emitActivity(ctx, s.activity, s.logger, &models.ActivityLogEntry{
		PeriodID:          record.PeriodID,
		EmployeeID:        record.EmployeeID,
		ActivityType:      models.ActivityDownwardEvaluation,
		ActivityAction:    action,
		Title:             fmt.Sprintf("%s downward evaluation %s", record.EvaluationType, verb),
		RelatedEntityType: strPtr("downward_evaluation"),
		RelatedEntityID:   strPtr(record.ID),
		PerformedBy:       actorID,
	}, map[string]interface{}{
		"evaluatorId": record.EvaluatorID,
		"wbsItemId":   record.WbsItemID,
	})
}
