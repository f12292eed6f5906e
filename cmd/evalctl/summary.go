package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GTD-web/ems-backend-sub027/internal/bootstrap"
	"github.com/GTD-web/ems-backend-sub027/internal/dto"
	"github.com/GTD-web/ems-backend-sub027/pkg/export"
	"github.com/GTD-web/ems-backend-sub027/pkg/storage"
)

var (
	smPeriodID    string
	smEmployeeIDs []string
	smOutputJSON  bool
	smFormat      string
	smCleanup     bool
)

func init() {
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(exportCmd)

	for _, cmd := range []*cobra.Command{summaryCmd, exportCmd} {
		cmd.Flags().StringVar(&smPeriodID, "period", "", "Evaluation period ID (required)")
		cmd.Flags().StringSliceVar(&smEmployeeIDs, "employee", nil, "Employee ID, repeatable (required)")
		_ = cmd.MarkFlagRequired("period")
		_ = cmd.MarkFlagRequired("employee")
	}
	summaryCmd.Flags().BoolVar(&smOutputJSON, "json", false, "Output results as JSON")
	exportCmd.Flags().StringVar(&smFormat, "format", "csv", "Export format (csv)")
	exportCmd.Flags().BoolVar(&smCleanup, "cleanup", true, "Remove exports older than the configured retention")
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show stage status, weighted score and grade per employee",
	Long: `Show stage status, weighted score and grade per employee.

Examples:
  evalctl summary --period p-2026h1 --employee emp-1 --employee emp-2
  evalctl summary --period p-2026h1 --employee emp-1 --json`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withContainer(cmd, func(ctx context.Context, app *bootstrap.Container) error {
			summaries := make([]*dto.EmployeeSummary, 0, len(smEmployeeIDs))
			for _, id := range smEmployeeIDs {
				summary, err := app.Summaries.EmployeeSummary(ctx, smPeriodID, id)
				if err != nil {
					return fmt.Errorf("summary for %s: %w", id, err)
				}
				summaries = append(summaries, summary)
			}
			if smOutputJSON {
				return printJSON(cmd, summaries)
			}
			printSummaries(cmd, summaries)
			return nil
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a CSV summary extract to the export directory",
	Long: `Write a CSV summary extract to the configured export directory (EXPORT_DIR).

Examples:
  evalctl export --period p-2026h1 --employee emp-1,emp-2`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, err := export.ParseFormat(smFormat)
		if err != nil {
			return err
		}
		return withContainer(cmd, func(ctx context.Context, app *bootstrap.Container) error {
			store, err := storage.NewFileStore(app.Config.Export.Dir)
			if err != nil {
				return err
			}
			if smCleanup && app.Config.Export.Retention > 0 {
				removed, err := store.CleanupOlderThan(app.Config.Export.Retention)
				if err != nil {
					app.Logger.Warn("export cleanup failed", zap.Error(err))
				} else if len(removed) > 0 {
					app.Logger.Info("expired exports removed", zap.Strings("files", removed))
				}
			}

			file, err := app.Exports.Export(ctx, smPeriodID, smEmployeeIDs, format)
			if err != nil {
				return err
			}
			path, err := store.Save(file.Name, file.Data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", file.Rows, path)
			return nil
		})
	},
}

func printSummaries(cmd *cobra.Command, summaries []*dto.EmployeeSummary) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EMPLOYEE\tSTAGE\tSTATUS\tSCORE\tGRADE")
	for _, summary := range summaries {
		for _, stage := range summary.Stages {
			score, grade := "-", "-"
			if stage.Score != nil && stage.Score.TotalScore != nil {
				score = stage.Score.TotalScore.StringFixed(2)
			}
			if stage.Grade != nil {
				grade = *stage.Grade
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", summary.EmployeeID, stage.Stage, stage.Status, score, grade)
		}
	}
	_ = w.Flush()
}
