package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/GTD-web/ems-backend-sub027/internal/models"
	appErrors "github.com/GTD-web/ems-backend-sub027/pkg/errors"
)

type activityLogStore interface {
	Create(ctx context.Context, entry *models.ActivityLogEntry) error
	List(ctx context.Context, filter models.ActivityLogFilter) ([]models.ActivityLogEntry, error)
}

type displayNameResolver interface {
	DisplayName(ctx context.Context, employeeID string) (string, error)
}

// ActivityRecorder is the sink the workflow services append to.
type ActivityRecorder interface {
	Record(ctx context.Context, entry *models.ActivityLogEntry, metadata interface{}) error
}

// ActivityLogService appends workflow events to the activity log.
type ActivityLogService struct {
	store  activityLogStore
	names  displayNameResolver
	logger *zap.Logger
}

// NewActivityLogService constructs the service. names may be nil.
func NewActivityLogService(store activityLogStore, names displayNameResolver, logger *zap.Logger) *ActivityLogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityLogService{store: store, names: names, logger: logger}
}

// Record fills in the performer's name and a description, then persists the entry.
// A name that cannot be resolved is logged and left out of the description.
func (s *ActivityLogService) Record(ctx context.Context, entry *models.ActivityLogEntry, metadata interface{}) error {
	if entry == nil {
		return nil
	}
	if entry.PerformedByName == nil && s.names != nil && entry.PerformedBy != "" {
		name, err := s.names.DisplayName(ctx, entry.PerformedBy)
		if err != nil {
			s.logger.Warn("activity log performer name unresolved",
				zap.String("performed_by", entry.PerformedBy),
				zap.Error(err),
			)
		} else if name != "" {
			entry.PerformedByName = &name
		}
	}
	if entry.Description == nil {
		description := entry.Title
		if entry.PerformedByName != nil {
			description = fmt.Sprintf("%s (%s)", entry.Title, *entry.PerformedByName)
		}
		entry.Description = &description
	}
	if metadata != nil && entry.Metadata == nil {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return appErrors.Internal(err, "failed to encode activity metadata")
		}
		entry.Metadata = raw
	}
	if err := s.store.Create(ctx, entry); err != nil {
		return appErrors.Internal(err, "failed to record activity")
	}
	return nil
}

// List returns activity entries for an employee in a period.
func (s *ActivityLogService) List(ctx context.Context, filter models.ActivityLogFilter) ([]models.ActivityLogEntry, error) {
	if filter.PeriodID == "" || filter.EmployeeID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "periodId and employeeId are required")
	}
	entries, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list activity")
	}
	return entries, nil
}

// emitActivity records an entry after the workflow change committed. The
// change stands even if the log write fails.
func emitActivity(ctx context.Context, recorder ActivityRecorder, logger *zap.Logger, entry *models.ActivityLogEntry, metadata interface{}) {
	if recorder == nil || entry == nil {
		return
	}
	if err := recorder.Record(ctx, entry, metadata); err != nil {
		logger.Warn("failed to persist activity log",
			zap.String("activity_type", string(entry.ActivityType)),
			zap.String("action", entry.ActivityAction),
			zap.Error(err),
		)
	}
}

func strPtr(v string) *string {
	return &v
}
