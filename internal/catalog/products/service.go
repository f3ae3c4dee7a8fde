package products

import (
	"context"
	"errors"
	"log/slog"

	"github.com/swastik-pharma/vetstore/internal/catalog"
	"github.com/swastik-pharma/vetstore/internal/catalog/variants"
	"github.com/swastik-pharma/vetstore/internal/shared"
)

var (
	errNotFound      = shared.NewError(shared.ErrNotFound, "Product not found")
	errDuplicate     = shared.NewError(shared.ErrDuplicate, "Product with this item code already exists")
	errBrandNotFound = shared.NewError(shared.ErrValidation, "Brand does not exist")
)

// VariantLister loads the variants shown on the product detail.
type VariantLister interface {
	List(ctx context.Context, productID int64) ([]variants.Variant, error)
}

type Service struct {
	repo        Repository
	variants    VariantLister
	invalidator catalog.Invalidator
	logger      *slog.Logger
}

func NewService(repo Repository, variants VariantLister, invalidator catalog.Invalidator, logger *slog.Logger) *Service {
	if invalidator == nil {
		invalidator = catalog.NopInvalidator{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, variants: variants, invalidator: invalidator, logger: logger}
}

func (s *Service) List(ctx context.Context, filters catalog.ListFilters) ([]Product, shared.Pagination, error) {
	if filters.Page < 1 {
		filters.Page = catalog.DefaultPage
	}
	if filters.Limit < 1 {
		filters.Limit = catalog.DefaultLimit
	}
	products, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return products, shared.NewPagination(filters.Page, filters.Limit, total), nil
}

// Get returns the product with brand name and variants.
func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	p, err := s.repo.Get(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return Product{}, errNotFound
	}
	if err != nil {
		return Product{}, err
	}
	if s.variants != nil {
		if p.Variants, err = s.variants.List(ctx, id); err != nil {
			return Product{}, err
		}
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, form ProductForm) (Product, error) {
	p, err := s.toProduct(form)
	if err != nil {
		return Product{}, err
	}
	id, err := s.repo.Create(ctx, p)
	if err != nil {
		return Product{}, mapWriteError(err)
	}
	s.changed(ctx)
	return s.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, form ProductForm) (Product, error) {
	p, err := s.toProduct(form)
	if err != nil {
		return Product{}, err
	}
	if err := s.repo.Update(ctx, id, p); err != nil {
		return Product{}, mapWriteError(err)
	}
	s.changed(ctx)
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapWriteError(err)
	}
	s.changed(ctx)
	return nil
}

func mapWriteError(err error) error {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return errNotFound
	case shared.IsUniqueViolation(err):
		return errDuplicate
	case shared.IsForeignKeyViolation(err):
		return errBrandNotFound
	default:
		return err
	}
}

func (s *Service) changed(ctx context.Context) {
	if err := s.invalidator.Bump(ctx); err != nil {
		s.logger.Warn("bump catalog cache", slog.Any("error", err))
	}
}
