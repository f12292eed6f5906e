package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// WbsAssignment links an employee to a WBS item for a period with a score weight.
type WbsAssignment struct {
	ID         string          `db:"id" json:"id"`
	PeriodID   string          `db:"period_id" json:"period_id"`
	EmployeeID string          `db:"employee_id" json:"employee_id"`
	ProjectID  string          `db:"project_id" json:"project_id"`
	WbsItemID  string          `db:"wbs_item_id" json:"wbs_item_id"`
	Weight     decimal.Decimal `db:"weight" json:"weight"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	DeletedAt  *time.Time      `db:"deleted_at" json:"deleted_at,omitempty"`
}

// DownwardEvaluation is a manager-authored assessment of one WBS item.
type DownwardEvaluation struct {
	ID             string                 `db:"id" json:"id"`
	EmployeeID     string                 `db:"employee_id" json:"employee_id"`
	EvaluatorID    string                 `db:"evaluator_id" json:"evaluator_id"`
	PeriodID       string                 `db:"period_id" json:"period_id"`
	WbsItemID      string                 `db:"wbs_item_id" json:"wbs_item_id"`
	EvaluationType DownwardEvaluationType `db:"evaluation_type" json:"evaluation_type"`
	Content        *string                `db:"content" json:"content,omitempty"`
	Score          decimal.NullDecimal    `db:"score" json:"score"`
	IsCompleted    bool                   `db:"is_completed" json:"is_completed"`
	CompletedAt    *time.Time             `db:"completed_at" json:"completed_at,omitempty"`
	CreatedBy      string                 `db:"created_by" json:"created_by"`
	UpdatedBy      *string                `db:"updated_by" json:"updated_by,omitempty"`
	CreatedAt      time.Time              `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time              `db:"updated_at" json:"updated_at"`
	DeletedAt      *time.Time             `db:"deleted_at" json:"deleted_at,omitempty"`
}

// HasContent reports whether non-blank content is present.
func (e DownwardEvaluation) HasContent() bool {
	return e.Content != nil && strings.TrimSpace(*e.Content) != ""
}

// HasScore reports whether a score is present.
func (e DownwardEvaluation) HasScore() bool {
	return e.Score.Valid
}

// DownwardEvaluationFilter scopes downward evaluation queries.
type DownwardEvaluationFilter struct {
	EvaluatorID    string
	EmployeeID     string
	PeriodID       string
	EvaluationType DownwardEvaluationType
	WbsItemID      string
	IsCompleted    *bool
}

// SelfEvaluation is the evaluatee's own assessment of one WBS item.
type SelfEvaluation struct {
	ID          string              `db:"id" json:"id"`
	EmployeeID  string              `db:"employee_id" json:"employee_id"`
	PeriodID    string              `db:"period_id" json:"period_id"`
	WbsItemID   string              `db:"wbs_item_id" json:"wbs_item_id"`
	Content     *string             `db:"content" json:"content,omitempty"`
	Score       decimal.NullDecimal `db:"score" json:"score"`
	IsCompleted bool                `db:"is_completed" json:"is_completed"`
	CompletedAt *time.Time          `db:"completed_at" json:"completed_at,omitempty"`
	DeletedAt   *time.Time          `db:"deleted_at" json:"deleted_at,omitempty"`
}

// EvaluationLineMapping assigns an evaluator to an employee for a period,
// optionally narrowed to one WBS item.
type EvaluationLineMapping struct {
	ID            string                 `db:"id" json:"id"`
	PeriodID      string                 `db:"period_id" json:"period_id"`
	EmployeeID    string                 `db:"employee_id" json:"employee_id"`
	EvaluatorID   string                 `db:"evaluator_id" json:"evaluator_id"`
	WbsItemID     *string                `db:"wbs_item_id" json:"wbs_item_id,omitempty"`
	EvaluatorType DownwardEvaluationType `db:"evaluator_type" json:"evaluator_type"`
	DeletedAt     *time.Time             `db:"deleted_at" json:"deleted_at,omitempty"`
}

// Employee carries the directory fields this service needs.
type Employee struct {
	ID             string `db:"id" json:"id"`
	Name           string `db:"name" json:"name"`
	EmployeeNumber string `db:"employee_number" json:"employee_number"`
	Email          string `db:"email" json:"email"`
}
