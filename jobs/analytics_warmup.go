package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/wastewise/wastewise-console/internal/observability"
	"github.com/wastewise/wastewise-console/internal/requests"
)

// SummaryFetcher pulls the analytics summary straight from the upstream.
type SummaryFetcher interface {
	FetchAnalytics(ctx context.Context, token string) (*requests.Summary, error)
}

// SummaryCacher stores a warmed summary.
type SummaryCacher interface {
	SetSummary(ctx context.Context, summary requests.Summary) error
}

// AnalyticsWarmupJob keeps the request analytics cache fresh so the
// dashboard never pays the upstream round trip on render. It authenticates
// with the worker's service token.
type AnalyticsWarmupJob struct {
	Fetcher SummaryFetcher
	Cache   SummaryCacher
	Token   string
	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// NewAnalyticsWarmupJob wires dependencies for the warmup handler.
func NewAnalyticsWarmupJob(fetcher SummaryFetcher, cache SummaryCacher, token string, logger *slog.Logger, metrics *observability.Metrics) *AnalyticsWarmupJob {
	return &AnalyticsWarmupJob{
		Fetcher: fetcher,
		Cache:   cache,
		Token:   token,
		Logger:  logger,
		Metrics: metrics,
	}
}

// Handle processes analytics warmup tasks.
func (j *AnalyticsWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Fetcher == nil || j.Cache == nil {
		return errors.New("analytics warmup: handler not configured")
	}
	var payload AnalyticsWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	logger := j.logger().With(slog.String("reason", payload.Reason))
	start := time.Now()

	fetchCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	summary, err := j.Fetcher.FetchAnalytics(fetchCtx, j.Token)
	if err != nil {
		j.Metrics.ObserveJob(TaskAnalyticsWarmup, "error")
		logger.Error("fetch analytics summary", slog.Any("error", err))
		return err
	}
	if err := j.Cache.SetSummary(fetchCtx, *summary); err != nil {
		j.Metrics.ObserveJob(TaskAnalyticsWarmup, "error")
		logger.Error("cache analytics summary", slog.Any("error", err))
		return err
	}

	j.Metrics.ObserveJob(TaskAnalyticsWarmup, "ok")
	logger.Info("completed analytics warmup",
		slog.Int("total", summary.Total),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func (j *AnalyticsWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskAnalyticsWarmup))
	}
	return slog.Default().With(slog.String("job", TaskAnalyticsWarmup))
}
