package models

import (
	"encoding/json"
	"time"
)

// ActivityType groups activity log entries by workflow area.
type ActivityType string

const (
	ActivityDownwardEvaluation ActivityType = "downward_evaluation"
	ActivityStepApproval       ActivityType = "step_approval"
	ActivityRevisionRequest    ActivityType = "revision_request"
)

// Activity actions recorded by the engine.
const (
	ActionBulkSubmitted      = "bulk_submitted"
	ActionBulkReset          = "bulk_reset"
	ActionSubmitted          = "submitted"
	ActionReset              = "reset"
	ActionCancelled          = "cancelled"
	ActionRevisionRequested  = "revision_requested"
	ActionRevisionCompleted  = "revision_completed"
	ActionRecipientCompleted = "recipient_completed"
)

// ActivityLogEntry is an immutable record of a workflow action.
type ActivityLogEntry struct {
	ID                string          `db:"id" json:"id"`
	PeriodID          string          `db:"period_id" json:"period_id"`
	EmployeeID        string          `db:"employee_id" json:"employee_id"`
	ActivityType      ActivityType    `db:"activity_type" json:"activity_type"`
	ActivityAction    string          `db:"activity_action" json:"activity_action"`
	Title             string          `db:"title" json:"title"`
	Description       *string         `db:"description" json:"description,omitempty"`
	RelatedEntityType *string         `db:"related_entity_type" json:"related_entity_type,omitempty"`
	RelatedEntityID   *string         `db:"related_entity_id" json:"related_entity_id,omitempty"`
	PerformedBy       string          `db:"performed_by" json:"performed_by"`
	PerformedByName   *string         `db:"performed_by_name" json:"performed_by_name,omitempty"`
	Metadata          json.RawMessage `db:"metadata" json:"metadata,omitempty"`
	OccurredAt        time.Time       `db:"occurred_at" json:"occurred_at"`
}

// ActivityLogFilter scopes activity log listings.
type ActivityLogFilter struct {
	PeriodID     string
	EmployeeID   string
	ActivityType ActivityType
	Limit        int
	Offset       int
}
