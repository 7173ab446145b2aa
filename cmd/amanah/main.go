package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/amanah-zis/amanah-zis/internal/aggregator"
	"github.com/amanah-zis/amanah-zis/internal/app"
	"github.com/amanah-zis/amanah-zis/internal/bulk"
	"github.com/amanah-zis/amanah-zis/internal/ledger"
	"github.com/amanah-zis/amanah-zis/internal/observability"
	"github.com/amanah-zis/amanah-zis/internal/platform/cache"
	"github.com/amanah-zis/amanah-zis/internal/platform/db"
	"github.com/amanah-zis/amanah-zis/internal/report"
	"github.com/amanah-zis/amanah-zis/internal/shared"
	"github.com/amanah-zis/amanah-zis/internal/transfer"
	"github.com/amanah-zis/amanah-zis/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	auditLogger := shared.NewAuditLogger(dbpool)
	lockGuard := shared.NewLockGuard(redisClient, cfg.TransferLockTTL)

	ledgerRepo := ledger.NewRepository(dbpool)
	ledgerService := ledger.NewService(ledgerRepo, auditLogger)
	ledgerHandler := ledger.NewHandler(logger, ledgerService)

	bulkReporter := bulk.NewReporter(ledgerService)
	bulkHandler := bulk.NewHandler(logger, bulkReporter)

	aggregatorRepo := aggregator.NewRepository(dbpool)
	aggregatorService := aggregator.NewService(aggregatorRepo, auditLogger)
	aggregatorHandler := aggregator.NewHandler(logger, aggregatorService)

	transferRepo := transfer.NewRepository(dbpool)
	transferService := transfer.NewService(transferRepo, auditLogger, lockGuard, metrics)
	transferHandler := transfer.NewHandler(logger, transferService)

	reportRepo := report.NewRepository(dbpool)
	reportCache := report.NewCache(redisClient, cfg.ReportCacheTTL)
	reportService := report.NewService(reportRepo, reportCache)
	reportHandler := report.NewHandler(logger, reportService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		Pool:              dbpool,
		AggregatorHandler: aggregatorHandler,
		LedgerHandler:     ledgerHandler,
		BulkHandler:       bulkHandler,
		TransferHandler:   transferHandler,
		ReportHandler:     reportHandler,
		JobHandler:        jobHandler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
