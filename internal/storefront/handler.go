package storefront

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/swastik-pharma/vetstore/internal/catalog"
	"github.com/swastik-pharma/vetstore/internal/platform/httpx"
)

// Handler serves the public catalog routes.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the storefront handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers the public routes under /api.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/products", h.products)
	r.Get("/brands", h.brands)
	r.Get("/brands/{slug}", h.brand)
	r.Get("/animals", h.animals)
}

func (h *Handler) products(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := ProductQuery{
		Category: q.Get("category"),
		Animal:   q.Get("animal"),
		Sort:     q.Get("sort"),
	}
	query.Limit, _ = strconv.Atoi(q.Get("limit"))
	if raw := q.Get("brand_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "Invalid brand_id")
			return
		}
		query.BrandID = &id
	}

	cards, err := h.service.Products(r.Context(), query)
	if err != nil {
		h.logger.Error("storefront products", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "products": cards, "count": len(cards)})
}

func (h *Handler) brands(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	cards, err := h.service.Brands(r.Context(), limit)
	if err != nil {
		h.logger.Error("storefront brands", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "brands": cards, "count": len(cards)})
}

func (h *Handler) brand(w http.ResponseWriter, r *http.Request) {
	brand, err := h.service.BrandBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "brand": brand})
}

func (h *Handler) animals(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "animals": catalog.Animals})
}
