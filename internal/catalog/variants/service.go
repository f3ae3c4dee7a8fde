package variants

import (
	"context"
	"errors"
	"log/slog"

	"github.com/swastik-pharma/vetstore/internal/catalog"
	"github.com/swastik-pharma/vetstore/internal/shared"
)

var (
	errProductNotFound = shared.NewError(shared.ErrNotFound, "Product not found")
	errNotFound        = shared.NewError(shared.ErrNotFound, "Variant not found")
)

type Service struct {
	repo        Repository
	invalidator catalog.Invalidator
	logger      *slog.Logger
}

func NewService(repo Repository, invalidator catalog.Invalidator, logger *slog.Logger) *Service {
	if invalidator == nil {
		invalidator = catalog.NopInvalidator{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, invalidator: invalidator, logger: logger}
}

// List returns the variants of a product, default first.
func (s *Service) List(ctx context.Context, productID int64) ([]Variant, error) {
	return s.repo.ListByProduct(ctx, productID)
}

// Create inserts a variant. A default variant clears the other defaults in
// the same transaction.
func (s *Service) Create(ctx context.Context, productID int64, form VariantForm) (Variant, error) {
	v, err := toVariant(productID, form)
	if err != nil {
		return Variant{}, err
	}
	var created Variant
	err = s.repo.InTx(ctx, func(store Store) error {
		exists, err := store.ProductExists(ctx, productID)
		if err != nil {
			return err
		}
		if !exists {
			return errProductNotFound
		}
		if v.IsDefault {
			if err := store.ClearDefaults(ctx, productID, 0); err != nil {
				return err
			}
		}
		created, err = store.Insert(ctx, v)
		return err
	})
	if err != nil {
		return Variant{}, err
	}
	s.changed(ctx)
	return created, nil
}

// Update overwrites a variant with the same default handling as Create.
func (s *Service) Update(ctx context.Context, productID, id int64, form VariantForm) (Variant, error) {
	v, err := toVariant(productID, form)
	if err != nil {
		return Variant{}, err
	}
	v.ID = id
	var updated Variant
	err = s.repo.InTx(ctx, func(store Store) error {
		if v.IsDefault {
			if err := store.ClearDefaults(ctx, productID, id); err != nil {
				return err
			}
		}
		updated, err = store.Update(ctx, v)
		return err
	})
	if errors.Is(err, shared.ErrNotFound) {
		return Variant{}, errNotFound
	}
	if err != nil {
		return Variant{}, err
	}
	s.changed(ctx)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, productID, id int64) error {
	err := s.repo.Delete(ctx, productID, id)
	if errors.Is(err, shared.ErrNotFound) {
		return errNotFound
	}
	if err != nil {
		return err
	}
	s.changed(ctx)
	return nil
}

func (s *Service) changed(ctx context.Context) {
	if err := s.invalidator.Bump(ctx); err != nil {
		s.logger.Warn("bump catalog cache", slog.Any("error", err))
	}
}
