package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"formcount/internal/amqp"
	"formcount/internal/auth"
	"formcount/internal/backend"
	"formcount/internal/cache"
	"formcount/internal/cli"
	"formcount/internal/core"
	apphttp "formcount/internal/http"
	"formcount/internal/log"
	"formcount/internal/metrics"
	"formcount/internal/services"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg.LogLevel, log.ComponentApp)

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath, cfg.DBMaxOpenConns)
	defer repo.Close()

	m := metrics.New()

	reportCache := cache.NewLRUCache[[]core.ReportRow](cfg.ReportCacheSize, cfg.ReportCacheTTL)
	janitor := cache.NewJanitor(time.Minute, logger.WithComponent(log.ComponentCache).Logger)
	janitor.Register(reportCache)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid export backend configuration", "error", err)
		os.Exit(1)
	}
	exporter, err := backend.NewFactory(logger.WithComponent(log.ComponentSheets).Logger).CreateExporter(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize report exporter", "error", err, "backend", backendCfg.Type)
		os.Exit(1)
	}
	defer func() {
		if exporter.Cleanup != nil {
			if err := exporter.Cleanup(); err != nil {
				logger.Warn("Exporter cleanup failed", "error", err)
			}
		}
	}()

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL)
	reports := services.NewReportService(repo, reportCache, exporter.Exporter, m)

	svc := apphttp.Services{
		Auth:          services.NewAuthService(repo, tokens),
		Tokens:        tokens,
		Entries:       services.NewEntryService(repo),
		Receive:       services.NewReconciler(core.FlowReceive, repo, reports, m),
		Distribution:  services.NewReconciler(core.FlowDistribution, repo, reports, m),
		Distributions: services.NewDistributionService(repo, reports),
		Reports:       reports,
		Ready:         repo.Ping,
		Metrics:       m,
	}

	// Background reconciliation is optional; without a broker the jobs
	// endpoints answer 503 and synchronous reconciliation still works.
	if amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue); err != nil {
		logger.Warn("AMQP unavailable, background reconciliation disabled", "error", err)
	} else {
		defer amqpClient.Close()
		svc.Jobs = amqpClient
	}

	srv := apphttp.NewServer(":"+cfg.Port, svc, apphttp.Options{
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		LoginRateLimit:    cfg.LoginRateLimit,
		LoginRateWindow:   cfg.LoginRateWindow,
		Logger:            logger,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting formcount server", "port", cfg.Port, "export_backend", backendCfg.Type)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		janitor.Run(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
