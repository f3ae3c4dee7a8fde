package orders

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/swastik-pharma/vetstore/internal/platform/httpx"
	"github.com/swastik-pharma/vetstore/internal/shared"
)

type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validate: httpx.NewValidator()}
}

// MountRoutes registers the admin order routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Show)
	r.Put("/{id}", h.Update)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := shared.PageParams(r, DefaultLimit, MaxLimit)
	filters := ListFilters{
		Page:   page,
		Limit:  limit,
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("search"),
	}
	orders, pagination, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.fail(w, "list orders failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"orders":     orders,
		"pagination": pagination,
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	order, items, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get order failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "order": order, "items": items})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	var update StatusUpdate
	if err := httpx.Bind(r, h.validate, &update, "No fields to update"); err != nil {
		httpx.RespondError(w, err)
		return
	}
	order, err := h.service.UpdateStatus(r.Context(), id, update)
	if err != nil {
		h.fail(w, "update order failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "order": order})
}

func (h *Handler) id(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "Invalid order ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) fail(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, "error", err)
	httpx.RespondError(w, err)
}
