package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/GTD-web/ems-backend-sub027/internal/models"
	"github.com/GTD-web/ems-backend-sub027/pkg/config"
	"github.com/GTD-web/ems-backend-sub027/pkg/jobs"
)

type pendingActivity struct {
	entry    *models.ActivityLogEntry
	metadata interface{}
}

// ActivityDispatcher moves activity log writes off the request path. Entries
// are handed to a worker pool after the workflow change committed; when the
// pool is saturated or stopped the entry is written inline instead.
type ActivityDispatcher struct {
	sink    ActivityRecorder
	queue   *jobs.Queue[pendingActivity]
	metrics *MetricsService
	logger  *zap.Logger
}

// NewActivityDispatcher wraps sink with a background queue configured by cfg.
func NewActivityDispatcher(sink ActivityRecorder, cfg config.ActivityConfig, metrics *MetricsService, logger *zap.Logger) *ActivityDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &ActivityDispatcher{sink: sink, metrics: metrics, logger: logger}
	d.queue = jobs.New("activity-log", d.deliver, jobs.Config{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return d
}

// Start launches the workers.
func (d *ActivityDispatcher) Start(ctx context.Context) {
	d.queue.Start(ctx)
}

// Stop drains queued entries, giving up when ctx expires.
func (d *ActivityDispatcher) Stop(ctx context.Context) error {
	return d.queue.Stop(ctx)
}

// Record queues the entry. It only returns an error when the inline fallback fails.
func (d *ActivityDispatcher) Record(ctx context.Context, entry *models.ActivityLogEntry, metadata interface{}) error {
	if entry == nil {
		return nil
	}
	err := d.queue.Enqueue(jobs.Task[pendingActivity]{
		ID:      entry.ID,
		Kind:    string(entry.ActivityType),
		Payload: pendingActivity{entry: entry, metadata: metadata},
	})
	if err == nil {
		d.metrics.RecordActivityWrite("queued")
		return nil
	}
	d.logger.Debug("activity queue unavailable, writing inline",
		zap.String("activity_type", string(entry.ActivityType)),
		zap.Error(err),
	)
	d.metrics.RecordActivityWrite("inline")
	return d.sink.Record(ctx, entry, metadata)
}

func (d *ActivityDispatcher) deliver(ctx context.Context, task jobs.Task[pendingActivity]) error {
	return d.sink.Record(ctx, task.Payload.entry, task.Payload.metadata)
}
