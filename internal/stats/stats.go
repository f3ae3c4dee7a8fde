// Package stats computes the admin dashboard counters and the low-stock
// report used by the inventory scan job.
package stats

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/swastik-pharma/vetstore/internal/platform/httpx"
)

// DefaultLowStockThreshold applies when the configured threshold is not positive.
const DefaultLowStockThreshold = 10

// Dashboard is the payload of GET /api/admin/stats.
type Dashboard struct {
	TotalProducts    int `json:"totalProducts"`
	TotalBrands      int `json:"totalBrands"`
	TotalOrders      int `json:"totalOrders"`
	LowStockProducts int `json:"lowStockProducts"`
}

// LowStockItem is an active product below the stock threshold.
type LowStockItem struct {
	ID       int64           `json:"id"`
	ItemCode string          `json:"item_code"`
	Name     string          `json:"name"`
	Stock    int             `json:"stock"`
	Price    decimal.Decimal `json:"price"`
}

type Repository interface {
	Dashboard(ctx context.Context, threshold int) (Dashboard, error)
	LowStock(ctx context.Context, threshold, limit int) ([]LowStockItem, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) Dashboard(ctx context.Context, threshold int) (Dashboard, error) {
	var d Dashboard
	err := r.db.QueryRow(ctx, `SELECT
		(SELECT COUNT(*) FROM products),
		(SELECT COUNT(*) FROM brands),
		(SELECT COUNT(*) FROM orders),
		(SELECT COUNT(*) FROM products WHERE stock < $1 AND status = 'active')`, threshold).
		Scan(&d.TotalProducts, &d.TotalBrands, &d.TotalOrders, &d.LowStockProducts)
	return d, err
}

func (r *repository) LowStock(ctx context.Context, threshold, limit int) ([]LowStockItem, error) {
	rows, err := r.db.Query(ctx, `SELECT id, item_code, name, stock, price FROM products
		WHERE stock < $1 AND status = 'active'
		ORDER BY stock ASC, item_code ASC LIMIT $2`, threshold, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []LowStockItem{}
	for rows.Next() {
		var it LowStockItem
		if err := rows.Scan(&it.ID, &it.ItemCode, &it.Name, &it.Stock, &it.Price); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Service reads dashboard figures with a fixed low-stock threshold.
type Service struct {
	repo      Repository
	threshold int
}

func NewService(repo Repository, threshold int) *Service {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	return &Service{repo: repo, threshold: threshold}
}

// Threshold returns the effective low-stock threshold.
func (s *Service) Threshold() int { return s.threshold }

func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	return s.repo.Dashboard(ctx, s.threshold)
}

// LowStock lists up to limit active products under the threshold, lowest
// stock first.
func (s *Service) LowStock(ctx context.Context, limit int) ([]LowStockItem, error) {
	if limit < 1 {
		limit = 100
	}
	return s.repo.LowStock(ctx, s.threshold, limit)
}

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.dashboard)
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.logger.Error("dashboard stats failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "stats": d})
}
