package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// TaskHandler binds a task type to its handler.
type TaskHandler struct {
	Type    string
	Handler asynq.HandlerFunc
}

// CronRegistration schedules a prepared task on a cron expression.
type CronRegistration struct {
	Spec    string
	Task    *asynq.Task
	Options []asynq.Option
}

// WorkerConfig collects what the worker process needs.
type WorkerConfig struct {
	RedisOpts   asynq.RedisClientOpt
	Logger      *slog.Logger
	Concurrency int
	Handlers    []TaskHandler
	Cron        []CronRegistration
}

// Worker processes the default queue and, when cron entries are given,
// runs the scheduler that feeds it.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	scheduler *asynq.Scheduler
	logger    *slog.Logger
}

// NewWorker validates cfg and prepares the server, mux and scheduler.
func NewWorker(cfg WorkerConfig) (*Worker, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 5
	}

	mux := asynq.NewServeMux()
	mux.Use(logTasks(logger))
	for _, h := range cfg.Handlers {
		if h.Type == "" || h.Handler == nil {
			return nil, fmt.Errorf("jobs: incomplete handler registration %q", h.Type)
		}
		mux.HandleFunc(h.Type, h.Handler)
	}

	w := &Worker{
		server: asynq.NewServer(cfg.RedisOpts, asynq.Config{
			Concurrency:     concurrency,
			Queues:          map[string]int{QueueDefault: 1},
			Logger:          newAsynqLogger(logger),
			LogLevel:        asynq.InfoLevel,
			ShutdownTimeout: 20 * time.Second,
		}),
		mux:    mux,
		logger: logger,
	}

	if len(cfg.Cron) == 0 {
		return w, nil
	}
	w.scheduler = asynq.NewScheduler(cfg.RedisOpts, &asynq.SchedulerOpts{
		Location: time.UTC,
		Logger:   newAsynqLogger(logger),
	})
	for _, entry := range cfg.Cron {
		if entry.Spec == "" || entry.Task == nil {
			return nil, errors.New("jobs: cron entry needs a schedule and a task")
		}
		id, err := w.scheduler.Register(entry.Spec, entry.Task, entry.Options...)
		if err != nil {
			return nil, fmt.Errorf("jobs: register %s: %w", entry.Task.Type(), err)
		}
		logger.Debug("cron registered", slog.String("task", entry.Task.Type()), slog.String("spec", entry.Spec), slog.String("entry_id", id))
	}
	return w, nil
}

// DefaultCron returns the schedule of the recurring jobs.
func DefaultCron() ([]CronRegistration, error) {
	scan, err := NewLowStockScanTask(LowStockScanPayload{})
	if err != nil {
		return nil, err
	}
	warm, err := NewCatalogWarmupTask(CatalogWarmupPayload{Reason: "schedule"})
	if err != nil {
		return nil, err
	}
	opts := []asynq.Option{asynq.Queue(QueueDefault), asynq.MaxRetry(1)}
	return []CronRegistration{
		{Spec: "0 * * * *", Task: scan, Options: opts},
		{Spec: "*/30 * * * *", Task: warm, Options: opts},
	}, nil
}

// Run blocks until ctx is cancelled, then drains in-flight tasks.
func (w *Worker) Run(ctx context.Context) error {
	if w == nil || w.server == nil {
		return errors.New("jobs: worker not configured")
	}
	if err := w.server.Start(w.mux); err != nil {
		return fmt.Errorf("jobs: start server: %w", err)
	}
	if w.scheduler != nil {
		if err := w.scheduler.Start(); err != nil {
			w.server.Shutdown()
			return fmt.Errorf("jobs: start scheduler: %w", err)
		}
	}

	<-ctx.Done()
	w.logger.Info("worker stopping")
	if w.scheduler != nil {
		w.scheduler.Shutdown()
	}
	w.server.Shutdown()
	return ctx.Err()
}

// logTasks logs every task outcome with its elapsed time.
func logTasks(logger *slog.Logger) asynq.MiddlewareFunc {
	return func(next asynq.Handler) asynq.Handler {
		return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
			started := time.Now()
			err := next.ProcessTask(ctx, t)
			attrs := []any{slog.String("task", t.Type()), slog.Duration("elapsed", time.Since(started))}
			if err != nil {
				logger.Error("task failed", append(attrs, slog.Any("error", err))...)
				return err
			}
			logger.Debug("task done", attrs...)
			return nil
		})
	}
}
