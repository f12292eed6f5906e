package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/GTD-web/ems-backend-sub027/api/swagger"
	"github.com/GTD-web/ems-backend-sub027/internal/bootstrap"
	"github.com/GTD-web/ems-backend-sub027/internal/handler"
	"github.com/GTD-web/ems-backend-sub027/internal/middleware"
	"github.com/GTD-web/ems-backend-sub027/pkg/config"
	"github.com/GTD-web/ems-backend-sub027/pkg/logger"
	corsmiddleware "github.com/GTD-web/ems-backend-sub027/pkg/middleware/cors"
	reqidmiddleware "github.com/GTD-web/ems-backend-sub027/pkg/middleware/requestid"
)

const shutdownTimeout = 15 * time.Second

// @title Evaluation Progress API
// @version 1.0.0
// @description Step approvals, revision requests and downward evaluation batches for performance evaluation periods.
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           newRouter(cfg, app, logr),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			_ = app.Close(context.Background())
			return err
		}
	case <-ctx.Done():
		logr.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("http shutdown incomplete", zap.Error(err))
	}
	if err := app.Close(shutdownCtx); err != nil {
		logr.Warn("resource cleanup incomplete", zap.Error(err))
	}
	logr.Info("server stopped")
	return nil
}

func newRouter(cfg *config.Config, app *bootstrap.Container, logr *zap.Logger) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(app.Metrics))
	}

	health := handler.NewHealthHandler(app.Metrics, map[string]handler.Pinger{
		"postgres": app.DB,
		"redis":    handler.PingFunc(app.Cache.Ping),
	})
	r.GET("/health", health.Health)
	r.GET("/ready", health.Ready)
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, health.Prometheus)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), middleware.JWT(app.Tokens), handler.Handlers{
		Downward:  handler.NewDownwardEvaluationHandler(app.Downward),
		Approvals: handler.NewStepApprovalHandler(app.StepApprovals),
		Revisions: handler.NewRevisionRequestHandler(app.Revisions),
		Summary:   handler.NewSummaryHandler(app.Summaries, app.ActivityLog),
		Exports:   handler.NewExportHandler(app.Exports),
	})
	return r
}
