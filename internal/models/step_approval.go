package models

import "time"

// StepApproval tracks the review state of one stage for an employee in a period.
type StepApproval struct {
	ID              string             `db:"id" json:"id"`
	PeriodID        string             `db:"period_id" json:"period_id"`
	EmployeeID      string             `db:"employee_id" json:"employee_id"`
	Stage           EvaluationStage    `db:"stage" json:"stage"`
	Status          StepApprovalStatus `db:"status" json:"status"`
	RevisionComment *string            `db:"revision_comment" json:"revision_comment,omitempty"`
	EvaluatorID     *string            `db:"evaluator_id" json:"evaluator_id,omitempty"`
	ApprovedBy      *string            `db:"approved_by" json:"approved_by,omitempty"`
	ApprovedAt      *time.Time         `db:"approved_at" json:"approved_at,omitempty"`
	UpdatedBy       *string            `db:"updated_by" json:"updated_by,omitempty"`
	CreatedAt       time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `db:"updated_at" json:"updated_at"`
}

// RevisionRequest is a reviewer's request to rework a stage.
type RevisionRequest struct {
	ID          string              `db:"id" json:"id"`
	PeriodID    string              `db:"period_id" json:"period_id"`
	EmployeeID  string              `db:"employee_id" json:"employee_id"`
	Step        EvaluationStage     `db:"step" json:"step"`
	Comment     string              `db:"comment" json:"comment"`
	RequestedBy string              `db:"requested_by" json:"requested_by"`
	RequestedAt time.Time           `db:"requested_at" json:"requested_at"`
	Recipients  []RevisionRecipient `json:"recipients,omitempty"`
}

// RevisionRecipient tracks one addressee's read and completion state.
type RevisionRecipient struct {
	ID                string        `db:"id" json:"id"`
	RevisionRequestID string        `db:"revision_request_id" json:"revision_request_id"`
	RecipientID       string        `db:"recipient_id" json:"recipient_id"`
	RecipientType     RecipientType `db:"recipient_type" json:"recipient_type"`
	IsRead            bool          `db:"is_read" json:"is_read"`
	ReadAt            *time.Time    `db:"read_at" json:"read_at,omitempty"`
	IsCompleted       bool          `db:"is_completed" json:"is_completed"`
	CompletedAt       *time.Time    `db:"completed_at" json:"completed_at,omitempty"`
	ResponseComment   *string       `db:"response_comment" json:"response_comment,omitempty"`
	CreatedAt         time.Time     `db:"created_at" json:"created_at"`
	DeletedAt         *time.Time    `db:"deleted_at" json:"deleted_at,omitempty"`
}

// RecipientRevision joins a recipient row with its parent request.
type RecipientRevision struct {
	RevisionRecipient
	PeriodID    string          `db:"period_id" json:"period_id"`
	EmployeeID  string          `db:"employee_id" json:"employee_id"`
	Step        EvaluationStage `db:"step" json:"step"`
	Comment     string          `db:"comment" json:"comment"`
	RequestedBy string          `db:"requested_by" json:"requested_by"`
	RequestedAt time.Time       `db:"requested_at" json:"requested_at"`
}

// RevisionRecipientFilter scopes recipient inbox queries.
type RevisionRecipientFilter struct {
	RecipientID string
	PeriodID    string
	EmployeeID  string
	Step        EvaluationStage
	IsRead      *bool
	IsCompleted *bool
}
