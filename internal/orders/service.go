package orders

import (
	"context"
	"errors"
	"log/slog"

	"github.com/swastik-pharma/vetstore/internal/shared"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

var (
	errNotFound       = shared.NewError(shared.ErrNotFound, "Order not found")
	errNothingToApply = shared.NewError(shared.ErrValidation, "No fields to update")
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Order, shared.Pagination, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.Limit < 1 {
		filters.Limit = DefaultLimit
	}
	orders, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return orders, shared.NewPagination(filters.Page, filters.Limit, total), nil
}

// Get returns the order and its line items.
func (s *Service) Get(ctx context.Context, id int64) (Order, []Item, error) {
	order, err := s.repo.Get(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return Order{}, nil, errNotFound
	}
	if err != nil {
		return Order{}, nil, err
	}
	items, err := s.repo.Items(ctx, id)
	if err != nil {
		return Order{}, nil, err
	}
	return order, items, nil
}

// UpdateStatus applies the given status changes. Empty strings count as
// absent.
func (s *Service) UpdateStatus(ctx context.Context, id int64, update StatusUpdate) (Order, error) {
	if update.Status != nil && *update.Status == "" {
		update.Status = nil
	}
	if update.PaymentStatus != nil && *update.PaymentStatus == "" {
		update.PaymentStatus = nil
	}
	if update.Status == nil && update.PaymentStatus == nil {
		return Order{}, errNothingToApply
	}

	if err := s.repo.UpdateStatus(ctx, id, update); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Order{}, errNotFound
		}
		return Order{}, err
	}
	attrs := []any{slog.Int64("order_id", id)}
	if update.Status != nil {
		attrs = append(attrs, slog.String("status", *update.Status))
	}
	if update.PaymentStatus != nil {
		attrs = append(attrs, slog.String("payment_status", *update.PaymentStatus))
	}
	s.logger.Info("order status updated", attrs...)

	order, err := s.repo.Get(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return Order{}, errNotFound
	}
	return order, err
}
