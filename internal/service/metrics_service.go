package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GTD-web/ems-backend-sub027/internal/models"
)

// MetricsService owns the Prometheus registry for the evaluation engine.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheLookups    *prometheus.CounterVec
	batchItems      *prometheus.CounterVec
	batchDuration   *prometheus.HistogramVec
	stepTransitions *prometheus.CounterVec
	revisionEvents  *prometheus.CounterVec
	activityWrites  *prometheus.CounterVec
}

// NewMetricsService registers the collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "directory_cache_latency_seconds",
		Help:    "Latency for directory cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "directory_cache_write_seconds",
		Help:    "Latency for directory cache writes",
		Buckets: prometheus.DefBuckets,
	})

	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "directory_cache_lookups_total",
		Help: "Directory cache lookups by result",
	}, []string{"result"})

	batchItems := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "downward_batch_items_total",
		Help: "Downward evaluation records processed by bulk operations, by outcome",
	}, []string{"operation", "evaluation_type", "outcome"})

	batchDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "downward_batch_duration_seconds",
		Help:    "Duration of downward evaluation bulk operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "result"})

	stepTransitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "step_approval_transitions_total",
		Help: "Step approval status changes by stage and target status",
	}, []string{"stage", "status"})

	revisionEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "revision_request_events_total",
		Help: "Revision request lifecycle events",
	}, []string{"step", "event"})

	activityWrites := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "activity_log_writes_total",
		Help: "Activity log entries by delivery mode",
	}, []string{"mode"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheLookups,
		batchItems, batchDuration, stepTransitions, revisionEvents, activityWrites, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		cacheLookups:    cacheLookups,
		batchItems:      batchItems,
		batchDuration:   batchDuration,
		stepTransitions: stepTransitions,
		revisionEvents:  revisionEvents,
		activityWrites:  activityWrites,
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records a directory cache lookup.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveBatch records per-outcome counts and the duration of a bulk operation.
// A failed transaction is recorded with result "aborted" and no item counts.
func (m *MetricsService) ObserveBatch(operation string, evalType models.DownwardEvaluationType, outcomes map[string]int, duration time.Duration, err error) {
	if m == nil {
		return
	}
	result := "committed"
	if err != nil {
		result = "aborted"
	}
	m.batchDuration.WithLabelValues(operation, result).Observe(duration.Seconds())
	if err != nil {
		return
	}
	for outcome, count := range outcomes {
		if count > 0 {
			m.batchItems.WithLabelValues(operation, string(evalType), outcome).Add(float64(count))
		}
	}
}

// RecordStepTransition counts a committed step approval change.
func (m *MetricsService) RecordStepTransition(stage models.EvaluationStage, status models.StepApprovalStatus) {
	if m == nil {
		return
	}
	m.stepTransitions.WithLabelValues(string(stage), string(status)).Inc()
}

// RecordRevisionEvent counts a revision request lifecycle event such as
// "requested", "recipient_completed" or "cycle_completed".
func (m *MetricsService) RecordRevisionEvent(step models.EvaluationStage, event string) {
	if m == nil {
		return
	}
	m.revisionEvents.WithLabelValues(string(step), event).Inc()
}

// RecordActivityWrite counts how an activity entry was delivered.
func (m *MetricsService) RecordActivityWrite(mode string) {
	if m == nil {
		return
	}
	m.activityWrites.WithLabelValues(mode).Inc()
}
