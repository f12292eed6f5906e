// Package main implements evalctl, an operator CLI that runs evaluation
// workflow operations directly against the database.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GTD-web/ems-backend-sub027/internal/bootstrap"
	"github.com/GTD-web/ems-backend-sub027/internal/models"
	"github.com/GTD-web/ems-backend-sub027/pkg/config"
	"github.com/GTD-web/ems-backend-sub027/pkg/logger"
)

var (
	// actorID is recorded as the performer of every change.
	actorID string
	// timeout bounds each command.
	timeout time.Duration

	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "evalctl",
	Short: "Operator CLI for the evaluation progress engine",
	Long: `evalctl runs evaluation workflow operations with administrator rights.
It reads the same environment and .env configuration as the API server.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&actorID, "actor", "system", "Employee ID recorded as the performer")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Command timeout")
}

// withContainer loads configuration, wires the services and runs fn. Pending
// activity log entries are drained before returning.
func withContainer(cmd *cobra.Command, fn func(ctx context.Context, app *bootstrap.Container) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	app, err := bootstrap.New(ctx, cfg, logr)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer closeCancel()
		if err := app.Close(closeCtx); err != nil {
			logr.Warn("cleanup incomplete", zap.Error(err))
		}
	}()
	return fn(ctx, app)
}

func operator() models.Actor {
	return models.Actor{ID: actorID, Role: models.RoleAdmin, IsAdmin: true}
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
