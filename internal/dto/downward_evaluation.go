package dto

import "github.com/shopspring/decimal"

// BulkDownwardRequest scopes a bulk submit or reset to one evaluator, evaluatee, period and type.
type BulkDownwardRequest struct {
	EvaluatorID    string `json:"evaluatorId" validate:"required"`
	EvaluateeID    string `json:"evaluateeId" validate:"required"`
	PeriodID       string `json:"periodId" validate:"required"`
	EvaluationType string `json:"evaluationType" validate:"required"`
	ForceSubmit    bool   `json:"forceSubmit"`
}

// BulkFailedItem reports a record excluded from a batch.
type BulkFailedItem struct {
	EvaluationID string `json:"evaluationId"`
	Error        string `json:"error"`
}

// BulkSubmitResult partitions the loaded records of a bulk submit.
type BulkSubmitResult struct {
	SubmittedCount int              `json:"submittedCount"`
	SkippedCount   int              `json:"skippedCount"`
	FailedCount    int              `json:"failedCount"`
	SubmittedIDs   []string         `json:"submittedIds"`
	SkippedIDs     []string         `json:"skippedIds"`
	FailedItems    []BulkFailedItem `json:"failedItems"`
}

// BulkResetResult partitions the loaded records of a bulk reset.
type BulkResetResult struct {
	ResetCount   int              `json:"resetCount"`
	SkippedCount int              `json:"skippedCount"`
	FailedCount  int              `json:"failedCount"`
	ResetIDs     []string         `json:"resetIds"`
	SkippedIDs   []string         `json:"skippedIds"`
	FailedItems  []BulkFailedItem `json:"failedItems"`
}

// UpsertDownwardEvaluationRequest writes content and score for one WBS item.
type UpsertDownwardEvaluationRequest struct {
	EvaluatorID    string           `json:"evaluatorId" validate:"required"`
	EmployeeID     string           `json:"employeeId" validate:"required"`
	PeriodID       string           `json:"periodId" validate:"required"`
	WbsItemID      string           `json:"wbsItemId" validate:"required"`
	EvaluationType string           `json:"evaluationType" validate:"required"`
	Content        *string          `json:"content"`
	Score          *decimal.Decimal `json:"score"`
}
