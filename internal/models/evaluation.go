package models

import (
	"fmt"
	"strings"
)

// EvaluationStage identifies one gated step of the evaluation cycle.
type EvaluationStage string

const (
	StageCriteria  EvaluationStage = "criteria"
	StageSelf      EvaluationStage = "self"
	StagePrimary   EvaluationStage = "primary"
	StageSecondary EvaluationStage = "secondary"
)

// Stages lists every stage in workflow order.
var Stages = []EvaluationStage{StageCriteria, StageSelf, StagePrimary, StageSecondary}

// Valid reports whether the stage is one of the known stages.
func (s EvaluationStage) Valid() bool {
	switch s {
	case StageCriteria, StageSelf, StagePrimary, StageSecondary:
		return true
	}
	return false
}

// ParseEvaluationStage normalises raw input into a stage.
func ParseEvaluationStage(raw string) (EvaluationStage, error) {
	stage := EvaluationStage(strings.ToLower(strings.TrimSpace(raw)))
	if !stage.Valid() {
		return "", fmt.Errorf("unknown evaluation stage %q", raw)
	}
	return stage, nil
}

// StepApprovalStatus captures the review state of a stage.
type StepApprovalStatus string

const (
	StepStatusPending           StepApprovalStatus = "pending"
	StepStatusApproved          StepApprovalStatus = "approved"
	StepStatusRevisionRequested StepApprovalStatus = "revision_requested"
	StepStatusRevisionCompleted StepApprovalStatus = "revision_completed"
)

// Valid reports whether the status is recognised.
func (s StepApprovalStatus) Valid() bool {
	switch s {
	case StepStatusPending, StepStatusApproved, StepStatusRevisionRequested, StepStatusRevisionCompleted:
		return true
	}
	return false
}

// ParseStepApprovalStatus normalises raw input into a status.
func ParseStepApprovalStatus(raw string) (StepApprovalStatus, error) {
	status := StepApprovalStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", fmt.Errorf("unknown step approval status %q", raw)
	}
	return status, nil
}

// DownwardEvaluationType distinguishes first-line and second-line reviews.
type DownwardEvaluationType string

const (
	DownwardTypePrimary   DownwardEvaluationType = "primary"
	DownwardTypeSecondary DownwardEvaluationType = "secondary"
)

// Valid reports whether the type is recognised.
func (t DownwardEvaluationType) Valid() bool {
	switch t {
	case DownwardTypePrimary, DownwardTypeSecondary:
		return true
	}
	return false
}

// Stage maps the evaluation type to the approval stage it feeds.
func (t DownwardEvaluationType) Stage() EvaluationStage {
	switch t {
	case DownwardTypePrimary:
		return StagePrimary
	case DownwardTypeSecondary:
		return StageSecondary
	}
	return ""
}

// ParseDownwardEvaluationType normalises raw input into an evaluation type.
func ParseDownwardEvaluationType(raw string) (DownwardEvaluationType, error) {
	t := DownwardEvaluationType(strings.ToLower(strings.TrimSpace(raw)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown downward evaluation type %q", raw)
	}
	return t, nil
}

// RecipientType identifies who a revision request is addressed to.
type RecipientType string

const (
	RecipientEvaluatee          RecipientType = "evaluatee"
	RecipientPrimaryEvaluator   RecipientType = "primary_evaluator"
	RecipientSecondaryEvaluator RecipientType = "secondary_evaluator"
)

// Valid reports whether the recipient type is recognised.
func (t RecipientType) Valid() bool {
	switch t {
	case RecipientEvaluatee, RecipientPrimaryEvaluator, RecipientSecondaryEvaluator:
		return true
	}
	return false
}

// RecipientTypeForStage returns the addressee kind for revisions of a stage.
func RecipientTypeForStage(stage EvaluationStage) RecipientType {
	switch stage {
	case StageCriteria, StageSelf:
		return RecipientEvaluatee
	case StagePrimary:
		return RecipientPrimaryEvaluator
	case StageSecondary:
		return RecipientSecondaryEvaluator
	}
	return ""
}
