package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvaluationStage(t *testing.T) {
	stage, err := ParseEvaluationStage(" Secondary ")
	require.NoError(t, err)
	assert.Equal(t, StageSecondary, stage)

	_, err = ParseEvaluationStage("peer")
	require.Error(t, err)
}

func TestParseStepApprovalStatus(t *testing.T) {
	status, err := ParseStepApprovalStatus("REVISION_REQUESTED")
	require.NoError(t, err)
	assert.Equal(t, StepStatusRevisionRequested, status)

	_, err = ParseStepApprovalStatus("rejected")
	require.Error(t, err)
}

func TestDownwardTypeStage(t *testing.T) {
	assert.Equal(t, StagePrimary, DownwardTypePrimary.Stage())
	assert.Equal(t, StageSecondary, DownwardTypeSecondary.Stage())
	assert.Equal(t, EvaluationStage(""), DownwardEvaluationType("peer").Stage())
}

func TestRecipientTypeForStage(t *testing.T) {
	assert.Equal(t, RecipientEvaluatee, RecipientTypeForStage(StageCriteria))
	assert.Equal(t, RecipientEvaluatee, RecipientTypeForStage(StageSelf))
	assert.Equal(t, RecipientPrimaryEvaluator, RecipientTypeForStage(StagePrimary))
	assert.Equal(t, RecipientSecondaryEvaluator, RecipientTypeForStage(StageSecondary))
}

func TestDownwardEvaluationCompleteness(t *testing.T) {
	blank := "   "
	eval := DownwardEvaluation{Content: &blank}
	assert.False(t, eval.HasContent())
	assert.False(t, eval.HasScore())
}
