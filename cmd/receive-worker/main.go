package main

import (
	"context"
	"errors"
	"os"

	"formcount/internal/amqp"
	"formcount/internal/cli"
	"formcount/internal/core"
	"formcount/internal/log"
	"formcount/internal/services"
	"formcount/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg.LogLevel, log.ComponentWorker)

	logger.Info("Starting receive-worker")

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath, cfg.DBMaxOpenConns)
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	// The server's report cache is per process; reports it already cached
	// pick up worker writes when their REPORT_CACHE_TTL expires.
	w := worker.NewReconcileWorker(
		services.NewReconciler(core.FlowReceive, repo, nil, nil),
		services.NewReconciler(core.FlowDistribution, repo, nil, nil),
	)

	if err := w.StartupPendingCheck(ctx); err != nil {
		logger.Error("Failed startup pending check", "error", err)
	}

	if err := amqpClient.ConsumeReconcileRequests(ctx, w.HandleReconcileRequest); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
