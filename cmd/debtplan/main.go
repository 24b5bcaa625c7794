package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"debtplan/internal/backend"
	"debtplan/internal/cli"
	apphttp "debtplan/internal/http"
	"debtplan/internal/log"
	"debtplan/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger, nil)
	logger = cli.SetupLogger(cfg.LogLevel, log.ComponentApp)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	// The API never exports; the worker owns the spreadsheet.
	backendCfg.GoogleSpreadsheetID = ""

	res, err := backend.NewFactory(logger).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	planner := services.NewPlannerService(res.Repository, res.Plans, nil, logger.WithComponent(log.ComponentPlanner))
	var publisher services.Publisher
	if res.AMQP != nil {
		publisher = res.AMQP
	}
	records := services.NewRecordService(res.Repository, planner, publisher, logger.WithComponent(log.ComponentRecords))
	auth := services.NewAuthService(res.Repository, cfg.JWTSecret, cfg.TokenTTL)

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Planner:            planner,
		Records:            records,
		Auth:               auth,
		Ready:              res.Repository.Ping,
		Logger:             logger,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})
	srv.MaxHeaderBytes = 1 << 16

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", "error", err)
		}
	})

	logger.Info("Starting debtplan server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"cache", cfg.CacheBackend,
		"amqp_enabled", res.AMQP != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
