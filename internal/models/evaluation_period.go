package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodStatus is the lifecycle state of an evaluation period.
type PeriodStatus string

const (
	PeriodStatusWaiting    PeriodStatus = "waiting"
	PeriodStatusInProgress PeriodStatus = "in-progress"
	PeriodStatusCompleted  PeriodStatus = "completed"
)

// EvaluationPeriod is a time-boxed evaluation cycle.
type EvaluationPeriod struct {
	ID          string       `db:"id" json:"id"`
	Name        string       `db:"name" json:"name"`
	Status      PeriodStatus `db:"status" json:"status"`
	StartDate   time.Time    `db:"start_date" json:"start_date"`
	EndDate     *time.Time   `db:"end_date" json:"end_date,omitempty"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updated_at"`
	GradeRanges []GradeRange `json:"grade_ranges,omitempty"`
}

// GradeRange maps an inclusive score band to a grade label.
type GradeRange struct {
	ID       string          `db:"id" json:"id"`
	PeriodID string          `db:"period_id" json:"period_id"`
	Grade    string          `db:"grade" json:"grade"`
	MinRange decimal.Decimal `db:"min_range" json:"min_range"`
	MaxRange decimal.Decimal `db:"max_range" json:"max_range"`
}
