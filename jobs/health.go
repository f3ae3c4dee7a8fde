package jobs

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"

	"github.com/swastik-pharma/vetstore/internal/platform/httpx"
)

// QueueInspector reads queue statistics. *asynq.Inspector satisfies it.
type QueueInspector interface {
	GetQueueInfo(queue string) (*asynq.QueueInfo, error)
}

// Handler serves the queue health endpoint of the admin API.
type Handler struct {
	inspector QueueInspector
	logger    *slog.Logger
}

// NewHandler builds the handler. A nil inspector reports an empty queue.
func NewHandler(inspector QueueInspector, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{inspector: inspector, logger: logger}
}

// MountRoutes attaches job routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/health", h.health)
}

type queueHealth struct {
	Queue     string `json:"queue"`
	Pending   int    `json:"pending"`
	Active    int    `json:"active"`
	Scheduled int    `json:"scheduled"`
	Retry     int    `json:"retry"`
	Archived  int    `json:"archived"`
	Paused    bool   `json:"paused"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	status := queueHealth{Queue: QueueDefault}
	if h.inspector != nil {
		info, err := h.inspector.GetQueueInfo(QueueDefault)
		switch {
		case errors.Is(err, asynq.ErrQueueNotFound):
			// nothing enqueued yet
		case err != nil:
			h.logger.Warn("jobs health", slog.Any("error", err))
			httpx.Problem(w, http.StatusServiceUnavailable, http.StatusText(http.StatusServiceUnavailable), "")
			return
		case info != nil:
			status = queueHealth{
				Queue:     info.Queue,
				Pending:   info.Pending,
				Active:    info.Active,
				Scheduled: info.Scheduled,
				Retry:     info.Retry,
				Archived:  info.Archived,
				Paused:    info.Paused,
			}
		}
	}
	httpx.JSON(w, http.StatusOK, status)
}
