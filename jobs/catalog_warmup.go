package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/swastik-pharma/vetstore/internal/jobs"
)

// CatalogWarmer fills the storefront cache.
type CatalogWarmer interface {
	Warm(ctx context.Context) error
}

// CatalogWarmupJob runs the storefront warmup.
type CatalogWarmupJob struct {
	Warmer  CatalogWarmer
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewCatalogWarmupJob wires dependencies for the warmup handler.
func NewCatalogWarmupJob(warmer CatalogWarmer, logger *slog.Logger, metrics *jobmetrics.Metrics) *CatalogWarmupJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogWarmupJob{Warmer: warmer, Logger: logger, Metrics: metrics, clock: time.Now}
}

// Handle processes TaskCatalogWarmup tasks.
func (j *CatalogWarmupJob) Handle(ctx context.Context, t *asynq.Task) (err error) {
	if j == nil || j.Warmer == nil {
		return errors.New("catalog warmup: handler not configured")
	}
	var payload CatalogWarmupPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}
	if payload.Reason == "" {
		payload.Reason = "schedule"
	}

	tracker := j.Metrics.Track(TaskCatalogWarmup)
	defer func() { err = tracker.End(err) }()

	started := j.clock()
	logger := j.Logger.With(slog.String("reason", payload.Reason))
	if err = j.Warmer.Warm(ctx); err != nil {
		logger.Error("catalog warmup", slog.Any("error", err))
		return err
	}
	logger.Info("catalog warmup complete", slog.Duration("elapsed", j.clock().Sub(started)))
	return nil
}
