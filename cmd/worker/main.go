package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/wastewise/wastewise-console/internal/app"
	"github.com/wastewise/wastewise-console/internal/observability"
	"github.com/wastewise/wastewise-console/internal/platform/cache"
	"github.com/wastewise/wastewise-console/internal/requests"
	"github.com/wastewise/wastewise-console/internal/upstream"
	"github.com/wastewise/wastewise-console/jobs"
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

	metrics := observability.NewMetrics()

	client := upstream.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout)
	client.SetObserver(metrics.ObserveUpstream)

	analyticsCache := requests.NewCache(redisClient, cfg.AnalyticsCacheTTL)
	requestsService := requests.NewService(client, analyticsCache)

	warmupJob := jobs.NewAnalyticsWarmupJob(requestsService, analyticsCache, cfg.WorkerServiceToken, logger, metrics)

	warmupTask, err := jobs.NewAnalyticsWarmupTask("scheduled")
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	queue, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("build queue client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := queue.Close(); err != nil {
			logger.Warn("queue client close", slog.Any("error", err))
		}
	}()
	if _, err := queue.EnqueueAnalyticsWarmup(ctx, "startup"); err != nil {
		logger.Warn("enqueue startup warmup", slog.Any("error", err))
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskAnalyticsWarmup, Handler: warmupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.AnalyticsWarmupSpec, Task: warmupTask, Options: []asynq.Option{asynq.Queue(jobs.QueueDefault)}},
		},
	})
	if err != nil {
		logger.Error("build worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting worker", slog.String("cron", cfg.AnalyticsWarmupSpec))
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
