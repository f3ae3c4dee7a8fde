package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/swastik-pharma/vetstore/internal/app"
	jobmetrics "github.com/swastik-pharma/vetstore/internal/jobs"
	"github.com/swastik-pharma/vetstore/internal/platform/cache"
	"github.com/swastik-pharma/vetstore/internal/platform/db"
	"github.com/swastik-pharma/vetstore/internal/stats"
	"github.com/swastik-pharma/vetstore/internal/storefront"
	"github.com/swastik-pharma/vetstore/jobs"
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

	logger := app.NewLogger(cfg).With(slog.String("process", "worker"))

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := jobmetrics.NewMetrics(nil)
	catalogCache := cache.NewVersioned(redisClient, "catalog", cfg.CatalogCacheTTL)
	storefrontService := storefront.NewService(storefront.NewRepository(pool), catalogCache, logger)
	statsService := stats.NewService(stats.NewRepository(pool), cfg.LowStockThreshold)

	lowStockJob := jobs.NewLowStockScanJob(statsService, logger, metrics)
	warmupJob := jobs.NewCatalogWarmupJob(storefrontService, logger, metrics)

	cron, err := jobs.DefaultCron()
	if err != nil {
		logger.Error("build cron tasks", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskLowStockScan, Handler: lowStockJob.Handle},
			{Type: jobs.TaskCatalogWarmup, Handler: warmupJob.Handle},
		},
		Cron: cron,
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if cfg.WorkerMetricsAddr != "" {
		metricsServer := &http.Server{Addr: cfg.WorkerMetricsAddr, Handler: promhttp.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Warn("worker metrics server", slog.Any("error", err))
			}
		}()
		defer func() { _ = metricsServer.Close() }()
	}

	logger.Info("worker started", slog.Int("low_stock_threshold", statsService.Threshold()))
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
