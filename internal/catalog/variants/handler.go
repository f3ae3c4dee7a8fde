package variants

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

// MountRoutes registers variant routes below /products/{id}/variants.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{variantID}", h.Update)
	r.Delete("/{variantID}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.productID(w, r)
	if !ok {
		return
	}
	variants, err := h.service.List(r.Context(), productID)
	if err != nil {
		h.fail(w, "list variants failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "variants": variants})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.productID(w, r)
	if !ok {
		return
	}
	var form VariantForm
	if err := httpx.Bind(r, h.validate, &form, msgRequired); err != nil {
		httpx.RespondError(w, err)
		return
	}
	variant, err := h.service.Create(r.Context(), productID, form)
	if err != nil {
		h.fail(w, "create variant failed", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"success": true, "variant": variant})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.productID(w, r)
	if !ok {
		return
	}
	variantID, err := httpx.IDParam(r, "variantID")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "Invalid variant ID")
		return
	}
	var form VariantForm
	if err := httpx.Bind(r, h.validate, &form, msgRequired); err != nil {
		httpx.RespondError(w, err)
		return
	}
	variant, err := h.service.Update(r.Context(), productID, variantID, form)
	if err != nil {
		h.fail(w, "update variant failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "variant": variant})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.productID(w, r)
	if !ok {
		return
	}
	variantID, err := httpx.IDParam(r, "variantID")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "Invalid variant ID")
		return
	}
	if err := h.service.Delete(r.Context(), productID, variantID); err != nil {
		h.fail(w, "delete variant failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
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
