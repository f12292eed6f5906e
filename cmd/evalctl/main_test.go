package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTD-web/ems-backend-sub027/internal/dto"
	"github.com/GTD-web/ems-backend-sub027/internal/models"
)

func TestBulkRequestFromFlags(t *testing.T) {
	require.NoError(t, bulkSubmitCmd.ParseFlags([]string{
		"--period", "p-1", "--evaluator", "mgr-1", "--employee", "emp-1", "--type", "secondary", "--force",
	}))
	assert.Equal(t, dto.BulkDownwardRequest{
		EvaluatorID: "mgr-1", EvaluateeID: "emp-1", PeriodID: "p-1", EvaluationType: "secondary", ForceSubmit: true,
	}, bulkRequest())

	actorID = "ops-1"
	assert.Equal(t, models.Actor{ID: "ops-1", Role: models.RoleAdmin, IsAdmin: true}, operator())
}

func TestPrintSummaries(t *testing.T) {
	score := decimal.RequireFromString("87.456")
	grade := "B"
	out := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(out)

	printSummaries(cmd, []*dto.EmployeeSummary{{
		PeriodID:   "p-1",
		EmployeeID: "emp-1",
		Stages: []dto.StageSummary{
			{Stage: models.StageCriteria, Status: models.StepStatusApproved},
			{Stage: models.StagePrimary, Status: models.StepStatusPending, Score: &models.StageScore{TotalScore: &score}, Grade: &grade},
		},
	}})

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"EMPLOYEE", "STAGE", "STATUS", "SCORE", "GRADE"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"emp-1", "criteria", "approved", "-", "-"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"emp-1", "primary", "pending", "87.46", "B"}, strings.Fields(lines[2]))
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"bulk-submit", "bulk-reset", "summary", "export"} {
		assert.True(t, names[want], want)
	}
}
