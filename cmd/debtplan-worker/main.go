package main

import (
	"context"
	"errors"
	"os"
	"time"

	"debtplan/internal/amqp"
	"debtplan/internal/backend"
	"debtplan/internal/cli"
	"debtplan/internal/config"
	"debtplan/internal/log"
	"debtplan/internal/services"
	"debtplan/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), log.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(logger, (*config.Config).ValidateWorker)
	logger = cli.SetupLogger(cfg.LogLevel, log.ComponentWorker)

	logger.Info("Starting debtplan-worker")

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	backendCfg.RequireAMQP = true

	res, err := backend.NewFactory(logger).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err)
		os.Exit(1)
	}
	if res.Exporter != nil {
		logger.Info("Plan export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Plan export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	planner := services.NewPlannerService(res.Repository, res.Plans, res.Exporter, logger.WithComponent(log.ComponentPlanner))
	recalc := worker.NewRecalcWorker(planner, res.Repository)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(context.Context) {
		recalc.Stop()
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", "error", err)
		}
	})

	// Catch up on changes made while no worker was running.
	if result, err := recalc.RecalculateAll(ctx, amqp.ReasonStartup); err != nil {
		logger.Error("Startup recalculation failed", "error", err)
	} else {
		logger.Info("Startup recalculation finished",
			"owners", result.Total,
			"succeeded", result.Succeeded,
			"infeasible", result.Infeasible,
			"failed", result.Failed)
	}

	if err := recalc.StartSchedule(ctx, cfg.RecalcSchedule); err != nil {
		logger.Error("Failed to start recalculation schedule", "error", err, "schedule", cfg.RecalcSchedule)
		os.Exit(1)
	}

	go func() {
		err := res.AMQP.ConsumeRecalc(ctx, recalc.HandleRecalcMessage)
		if err != nil && ctx.Err() == nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", "error", err)
			os.Exit(1)
		}
	}()

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped")
}
