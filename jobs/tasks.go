package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLowStockScan reports active products under the stock threshold.
	TaskLowStockScan = "inventory:low_stock_scan"
	// TaskCatalogWarmup refills the storefront cache for the default listings.
	TaskCatalogWarmup = "catalog:warmup"
)

// LowStockScanPayload optionally caps the number of products logged.
type LowStockScanPayload struct {
	Limit int `json:"limit,omitempty"`
}

// CatalogWarmupPayload records what triggered the warmup.
type CatalogWarmupPayload struct {
	Reason string `json:"reason,omitempty"`
}

// NewLowStockScanTask constructs a low-stock scan task.
func NewLowStockScanTask(payload LowStockScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLowStockScan, data), nil
}

// NewCatalogWarmupTask constructs a catalog warmup task.
func NewCatalogWarmupTask(payload CatalogWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCatalogWarmup, data), nil
}
