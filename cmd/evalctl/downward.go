package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/GTD-web/ems-backend-sub027/internal/bootstrap"
	"github.com/GTD-web/ems-backend-sub027/internal/dto"
)

var (
	dwPeriodID    string
	dwEvaluatorID string
	dwEmployeeID  string
	dwType        string
	dwForce       bool
)

func init() {
	rootCmd.AddCommand(bulkSubmitCmd)
	rootCmd.AddCommand(bulkResetCmd)

	for _, cmd := range []*cobra.Command{bulkSubmitCmd, bulkResetCmd} {
		cmd.Flags().StringVar(&dwPeriodID, "period", "", "Evaluation period ID (required)")
		cmd.Flags().StringVar(&dwEvaluatorID, "evaluator", "", "Evaluator employee ID (required)")
		cmd.Flags().StringVar(&dwEmployeeID, "employee", "", "Evaluatee employee ID (required)")
		cmd.Flags().StringVar(&dwType, "type", "primary", "Evaluation type: primary or secondary")
		_ = cmd.MarkFlagRequired("period")
		_ = cmd.MarkFlagRequired("evaluator")
		_ = cmd.MarkFlagRequired("employee")
	}
	bulkSubmitCmd.Flags().BoolVar(&dwForce, "force", false, "Provision missing records and submit incomplete ones")
}

var bulkSubmitCmd = &cobra.Command{
	Use:   "bulk-submit",
	Short: "Submit every downward evaluation of an evaluator for one evaluatee",
	Long: `Submit every downward evaluation of an evaluator for one evaluatee.

Examples:
  # Submit completed drafts only
  evalctl bulk-submit --period p-2026h1 --evaluator mgr-1 --employee emp-1

  # Provision missing WBS records and submit everything
  evalctl bulk-submit --period p-2026h1 --evaluator mgr-1 --employee emp-1 --type secondary --force`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withContainer(cmd, func(ctx context.Context, app *bootstrap.Container) error {
			result, err := app.Downward.BulkSubmit(ctx, bulkRequest(), operator())
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		})
	},
}

var bulkResetCmd = &cobra.Command{
	Use:   "bulk-reset",
	Short: "Reopen every submitted downward evaluation of an evaluator for one evaluatee",
	Long: `Reopen every submitted downward evaluation of an evaluator for one evaluatee.

Examples:
  evalctl bulk-reset --period p-2026h1 --evaluator mgr-1 --employee emp-1 --type primary`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withContainer(cmd, func(ctx context.Context, app *bootstrap.Container) error {
			result, err := app.Downward.BulkReset(ctx, bulkRequest(), operator())
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		})
	},
}

func bulkRequest() dto.BulkDownwardRequest {
	return dto.BulkDownwardRequest{
		EvaluatorID:    dwEvaluatorID,
		EvaluateeID:    dwEmployeeID,
		PeriodID:       dwPeriodID,
		EvaluationType: dwType,
		ForceSubmit:    dwForce,
	}
}
