package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/swastik-pharma/vetstore/internal/jobs"
	"github.com/swastik-pharma/vetstore/internal/stats"
)

const defaultLowStockLimit = 100

// LowStockSource lists active products under the threshold.
type LowStockSource interface {
	Threshold() int
	LowStock(ctx context.Context, limit int) ([]stats.LowStockItem, error)
	Dashboard(ctx context.Context) (stats.Dashboard, error)
}

// LowStockScanJob logs low-stock products and publishes their count.
type LowStockScanJob struct {
	Source  LowStockSource
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewLowStockScanJob wires dependencies for the scan handler.
func NewLowStockScanJob(source LowStockSource, logger *slog.Logger, metrics *jobmetrics.Metrics) *LowStockScanJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &LowStockScanJob{Source: source, Logger: logger, Metrics: metrics}
}

// Handle processes TaskLowStockScan tasks.
func (j *LowStockScanJob) Handle(ctx context.Context, t *asynq.Task) (err error) {
	if j == nil || j.Source == nil {
		return errors.New("low stock scan: handler not configured")
	}
	payload := LowStockScanPayload{}
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}
	if payload.Limit <= 0 {
		payload.Limit = defaultLowStockLimit
	}

	tracker := j.Metrics.Track(TaskLowStockScan)
	defer func() { err = tracker.End(err) }()

	dashboard, err := j.Source.Dashboard(ctx)
	if err != nil {
		j.Logger.Error("low stock count", slog.Any("error", err))
		return err
	}
	j.Metrics.SetLowStock(dashboard.LowStockProducts)

	items, err := j.Source.LowStock(ctx, payload.Limit)
	if err != nil {
		j.Logger.Error("low stock list", slog.Any("error", err))
		return err
	}
	for _, it := range items {
		j.Logger.Warn("low stock",
			slog.String("item_code", it.ItemCode),
			slog.String("name", it.Name),
			slog.Int("stock", it.Stock))
	}
	j.Logger.Info("low stock scan complete",
		slog.Int("threshold", j.Source.Threshold()),
		slog.Int("count", dashboard.LowStockProducts))
	return nil
}
