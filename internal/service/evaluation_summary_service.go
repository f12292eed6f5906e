package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/GTD-web/ems-backend-sub027/internal/dto"
	"github.com/GTD-web/ems-backend-sub027/internal/models"
	appErrors "github.com/GTD-web/ems-backend-sub027/pkg/errors"
)

type periodReader interface {
	FindByID(ctx context.Context, id string) (*models.EvaluationPeriod, error)
}

type selfEvaluationReader interface {
	ListByEmployee(ctx context.Context, periodID, employeeID string) ([]models.SelfEvaluation, error)
}

type downwardEvaluationReader interface {
	List(ctx context.Context, filter models.DownwardEvaluationFilter) ([]models.DownwardEvaluation, error)
}

type stepApprovalLister interface {
	ListByEmployee(ctx context.Context, periodID, employeeID string) ([]models.StepApproval, error)
}

// EvaluationSummaryService assembles an employee's per-stage progress and scores.
// Scores are recomputed on every call.
type EvaluationSummaryService struct {
	periods     periodReader
	assignments wbsAssignmentReader
	selfEvals   selfEvaluationReader
	downward    downwardEvaluationReader
	approvals   stepApprovalLister
	aggregator  *ScoreAggregator
	logger      *zap.Logger
}

// NewEvaluationSummaryService constructs the service.
func NewEvaluationSummaryService(periods periodReader, assignments wbsAssignmentReader, selfEvals selfEvaluationReader, downward downwardEvaluationReader, approvals stepApprovalLister, aggregator *ScoreAggregator, logger *zap.Logger) *EvaluationSummaryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if aggregator == nil {
		aggregator = NewScoreAggregator(logger)
	}
	return &EvaluationSummaryService{
		periods:     periods,
		assignments: assignments,
		selfEvals:   selfEvals,
		downward:    downward,
		approvals:   approvals,
		aggregator:  aggregator,
		logger:      logger,
	}
}

// EmployeeSummary returns approval state for every stage and, for scored
// stages, the weighted score and grade.
func (s *EvaluationSummaryService) EmployeeSummary(ctx context.Context, periodID, employeeID string) (*dto.EmployeeSummary, error) {
	period, err := s.periods.FindByID(ctx, periodID)
	if err != nil {
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "evaluation period not found")
		}
		return nil, appErrors.Internal(err, "failed to load evaluation period")
	}
	if err := ValidateGradeRanges(period.GradeRanges); err != nil {
		s.logger.Warn("grade ranges misconfigured", zap.String("period_id", periodID), zap.Error(err))
	}

	assignments, err := s.assignments.ListByEmployee(ctx, periodID, employeeID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load wbs assignments")
	}
	selfEvals, err := s.selfEvals.ListByEmployee(ctx, periodID, employeeID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load self evaluations")
	}
	downward, err := s.downward.List(ctx, models.DownwardEvaluationFilter{PeriodID: periodID, EmployeeID: employeeID})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load downward evaluations")
	}
	approvals, err := s.approvals.ListByEmployee(ctx, periodID, employeeID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load step approvals")
	}

	records := map[models.EvaluationStage][]models.ScoredRecord{}
	for _, eval := range selfEvals {
		records[models.StageSelf] = append(records[models.StageSelf], models.ScoredRecord{
			WbsItemID: eval.WbsItemID, Score: eval.Score, IsCompleted: eval.IsCompleted,
		})
	}
	for _, eval := range downward {
		stage := eval.EvaluationType.Stage()
		records[stage] = append(records[stage], models.ScoredRecord{
			WbsItemID: eval.WbsItemID, Score: eval.Score, IsCompleted: eval.IsCompleted,
		})
	}
	statuses := make(map[models.EvaluationStage]models.StepApprovalStatus, len(approvals))
	for _, approval := range approvals {
		statuses[approval.Stage] = approval.Status
	}

	summary := &dto.EmployeeSummary{PeriodID: periodID, EmployeeID: employeeID}
	for _, stage := range models.Stages {
		status, ok := statuses[stage]
		if !ok {
			status = models.StepStatusPending
		}
		entry := dto.StageSummary{Stage: stage, Status: status}
		switch stage {
		case models.StageCriteria:
		case models.StageSelf, models.StagePrimary, models.StageSecondary:
			score := s.aggregator.ComputeStageScore(stage, records[stage], assignments)
			entry.Score = &score
			if score.TotalScore != nil {
				if band, ok := MapToGrade(*score.TotalScore, period.GradeRanges); ok {
					grade := band.Grade
					entry.Grade = &grade
				}
			}
		}
		summary.Stages = append(summary.Stages, entry)
	}
	return summary, nil
}
