package models

import "github.com/shopspring/decimal"

// ScoredRecord is the aggregator's view of a self or downward evaluation.
type ScoredRecord struct {
	WbsItemID   string
	Score       decimal.NullDecimal
	IsCompleted bool
}

// StageScore is the weighted result of one stage for an employee in a period.
type StageScore struct {
	Stage           EvaluationStage  `json:"stage"`
	TotalScore      *decimal.Decimal `json:"total_score"`
	CompletedCount  int              `json:"completed_count"`
	MatchedCount    int              `json:"matched_count"`
	MatchedWeight   decimal.Decimal  `json:"matched_weight"`
	AssignedWeight  decimal.Decimal  `json:"assigned_weight"`
	WeightsBalanced bool             `json:"weights_balanced"`
}
