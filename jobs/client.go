package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/hibiken/asynq"
)

// Client enqueues tasks from the API process. A nil *Client is a no-op.
type Client struct {
	client *asynq.Client
}

// NewClient connects an asynq client to the queue's Redis.
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// EnqueueCatalogWarmup schedules a warmup shortly after a catalog change.
// Calls within a minute of each other collapse into one task.
func (c *Client) EnqueueCatalogWarmup(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	task, err := NewCatalogWarmupTask(CatalogWarmupPayload{Reason: "ingestion"})
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueDefault),
		asynq.ProcessIn(5*time.Second),
		asynq.Unique(time.Minute),
		asynq.MaxRetry(2))
	if errors.Is(err, asynq.ErrDuplicateTask) {
		return nil
	}
	return err
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
