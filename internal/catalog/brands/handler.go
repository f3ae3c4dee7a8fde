package brands

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/swastik-pharma/vetstore/internal/platform/httpx"
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

// MountRoutes registers the admin brand routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Show)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	brands, err := h.service.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		h.fail(w, "list brands failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "brands": brands})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "Invalid brand ID")
		return
	}
	brand, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get brand failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "brand": brand})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var form BrandForm
	if err := httpx.Bind(r, h.validate, &form, "Brand name is required"); err != nil {
		httpx.RespondError(w, err)
		return
	}
	brand, err := h.service.Create(r.Context(), form)
	if err != nil {
		h.fail(w, "create brand failed", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"success": true, "brand": brand})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "Invalid brand ID")
		return
	}
	var form BrandForm
	if err := httpx.Bind(r, h.validate, &form, "Brand name is required"); err != nil {
		httpx.RespondError(w, err)
		return
	}
	brand, err := h.service.Update(r.Context(), id, form)
	if err != nil {
		h.fail(w, "update brand failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "brand": brand})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "Invalid brand ID")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.fail(w, "delete brand failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) fail(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, "error", err)
	httpx.RespondError(w, err)
}
