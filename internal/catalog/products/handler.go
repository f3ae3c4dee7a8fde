package products

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/swastik-pharma/vetstore/internal/catalog"
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

// MountRoutes registers the admin product routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Show)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := shared.PageParams(r, catalog.DefaultLimit, catalog.MaxLimit)
	q := r.URL.Query()
	filters := catalog.ListFilters{
		Page:   page,
		Limit:  limit,
		Search: q.Get("search"),
		Status: q.Get("status"),
	}
	if raw := q.Get("brand_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filters.BrandID = &id
		}
	}

	products, pagination, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.fail(w, "list products failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"products":   products,
		"pagination": pagination,
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get product failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "product": product})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var form ProductForm
	if err := httpx.Bind(r, h.validate, &form, msgRequired); err != nil {
		httpx.RespondError(w, err)
		return
	}
	product, err := h.service.Create(r.Context(), form)
	if err != nil {
		h.fail(w, "create product failed", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"success": true, "product": product})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	var form ProductForm
	if err := httpx.Bind(r, h.validate, &form, msgRequired); err != nil {
		httpx.RespondError(w, err)
		return
	}
	product, err := h.service.Update(r.Context(), id, form)
	if err != nil {
		h.fail(w, "update product failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "product": product})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.fail(w, "delete product failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) id(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "Invalid product ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) fail(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, "error", err)
	httpx.RespondError(w, err)
}
