package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/amanah-zis/amanah-zis/internal/app"
	jobmetrics "github.com/amanah-zis/amanah-zis/internal/jobs"
	"github.com/amanah-zis/amanah-zis/internal/platform/cache"
	"github.com/amanah-zis/amanah-zis/internal/platform/db"
	"github.com/amanah-zis/amanah-zis/internal/shared"
	"github.com/amanah-zis/amanah-zis/internal/transfer"
	"github.com/amanah-zis/amanah-zis/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := jobmetrics.NewMetrics(nil)
	auditLogger := shared.NewAuditLogger(pool)
	lockGuard := shared.NewLockGuard(redisClient, cfg.TransferLockTTL)

	transferRepo := transfer.NewRepository(pool)
	transferService := transfer.NewService(transferRepo, auditLogger, lockGuard, nil)

	executeJob := jobs.NewTransferExecuteJob(transferService, logger, metrics)
	reaperJob := jobs.NewQueueReaperJob(pool, logger, metrics, cfg.ProcessingDeadline)
	integrityJob := jobs.NewLedgerIntegrityJob(pool, logger, metrics)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeTransferExecute, Handler: executeJob.Handle},
			{Type: jobs.TaskTypeQueueReaper, Handler: reaperJob.Handle},
			{Type: jobs.TaskTypeLedgerIntegrity, Handler: integrityJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "*/10 * * * *", Task: jobs.NewQueueReaperTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "45 1 * * *", Task: jobs.NewLedgerIntegrityTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
