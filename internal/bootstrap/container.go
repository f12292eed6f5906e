package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/GTD-web/ems-backend-sub027/internal/repository"
	"github.com/GTD-web/ems-backend-sub027/internal/service"
	"github.com/GTD-web/ems-backend-sub027/pkg/cache"
	"github.com/GTD-web/ems-backend-sub027/pkg/config"
	"github.com/GTD-web/ems-backend-sub027/pkg/database"
)

const cacheKeyPrefix = "ems:"

// Container holds the wired services shared by the API server and the CLI.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	DB    *sqlx.DB
	Cache *repository.CacheRepository

	Metrics       *service.MetricsService
	Directory     *service.DirectoryService
	ActivityLog   *service.ActivityLogService
	Dispatcher    *service.ActivityDispatcher
	StepApprovals *service.StepApprovalService
	Revisions     *service.RevisionRequestService
	Downward      *service.DownwardEvaluationService
	Summaries     *service.EvaluationSummaryService
	Exports       *service.SummaryExportService
	Tokens        *service.TokenValidator
}

// New opens the database and cache and wires every service. When
// cfg.Activity.Async is set the activity dispatcher is started and must be
// stopped through Close.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return Wire(ctx, cfg, logger, db, repository.NewCacheRepository(redisClient, cacheKeyPrefix)), nil
}

// Wire builds the services on top of already opened connections.
func Wire(ctx context.Context, cfg *config.Config, logger *zap.Logger, db *sqlx.DB, cacheRepo *repository.CacheRepository) *Container {
	if logger == nil {
		logger = zap.NewNop()
	}
	validate := validator.New()

	downwardRepo := repository.NewDownwardEvaluationRepository(db)
	assignmentRepo := repository.NewWbsAssignmentRepository(db)
	lineRepo := repository.NewEvaluationLineRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	periodRepo := repository.NewEvaluationPeriodRepository(db)
	selfRepo := repository.NewSelfEvaluationRepository(db)
	approvalRepo := repository.NewStepApprovalRepository(db)
	revisionRepo := repository.NewRevisionRequestRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)
	txManager := repository.NewTxManager(db, cfg.Database.TxTimeout)

	metrics := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Evaluation.DirectoryCacheTTL, logger, cfg.Redis.Enabled)
	directory := service.NewDirectoryService(employeeRepo, lineRepo, cacheSvc, cfg.Evaluation.DirectoryCacheTTL, logger)
	activityLog := service.NewActivityLogService(activityRepo, directory, logger)

	c := &Container{
		Config:      cfg,
		Logger:      logger,
		DB:          db,
		Cache:       cacheRepo,
		Metrics:     metrics,
		Directory:   directory,
		ActivityLog: activityLog,
		Tokens:      service.NewTokenValidator(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.Evaluation.AdminRoles),
	}

	var recorder service.ActivityRecorder = activityLog
	if cfg.Activity.Async {
		c.Dispatcher = service.NewActivityDispatcher(activityLog, cfg.Activity, metrics, logger)
		c.Dispatcher.Start(ctx)
		recorder = c.Dispatcher
	}

	c.StepApprovals = service.NewStepApprovalService(approvalRepo, revisionRepo, directory, txManager, recorder, metrics, validate, logger)
	c.Revisions = service.NewRevisionRequestService(revisionRepo, c.StepApprovals, txManager, recorder, metrics, validate, logger)
	c.Downward = service.NewDownwardEvaluationService(downwardRepo, assignmentRepo, directory, txManager, validate, logger,
		service.WithForceSubmitPlaceholder(cfg.Evaluation.ForceSubmitPlaceholder),
		service.WithDownwardMetrics(metrics),
		service.WithDownwardActivity(recorder),
	)
	c.Summaries = service.NewEvaluationSummaryService(periodRepo, assignmentRepo, selfRepo, downwardRepo, approvalRepo,
		service.NewScoreAggregator(logger), logger)
	c.Exports = service.NewSummaryExportService(c.Summaries, directory, logger)
	return c
}

// Close drains pending activity entries and releases connections.
func (c *Container) Close(ctx context.Context) error {
	var errs []error
	if c.Dispatcher != nil {
		if err := c.Dispatcher.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("drain activity queue: %w", err))
		}
	}
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close postgres: %w", err))
		}
	}
	return errors.Join(errs...)
}
