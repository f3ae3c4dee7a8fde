package brands

import (
	"context"
	"errors"
	"log/slog"

	"github.com/swastik-pharma/vetstore/internal/catalog"
	"github.com/swastik-pharma/vetstore/internal/shared"
)

var (
	errNotFound  = shared.NewError(shared.ErrNotFound, "Brand not found")
	errDuplicate = shared.NewError(shared.ErrDuplicate, "Brand with this name already exists")
	errInUse     = shared.NewError(shared.ErrConflict, "Cannot delete brand with existing products")
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

func (s *Service) List(ctx context.Context, search string) ([]Brand, error) {
	return s.repo.List(ctx, search)
}

func (s *Service) Get(ctx context.Context, id int64) (Brand, error) {
	b, err := s.repo.Get(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return Brand{}, errNotFound
	}
	return b, err
}

func (s *Service) Create(ctx context.Context, form BrandForm) (Brand, error) {
	brand, err := s.normalize(form)
	if err != nil {
		return Brand{}, err
	}
	created, err := s.repo.Create(ctx, brand)
	if err != nil {
		if shared.IsUniqueViolation(err) {
			return Brand{}, errDuplicate
		}
		return Brand{}, err
	}
	s.changed(ctx)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, form BrandForm) (Brand, error) {
	brand, err := s.normalize(form)
	if err != nil {
		return Brand{}, err
	}
	updated, err := s.repo.Update(ctx, id, brand)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return Brand{}, errNotFound
	case shared.IsUniqueViolation(err):
		return Brand{}, errDuplicate
	case err != nil:
		return Brand{}, err
	}
	s.changed(ctx)
	return updated, nil
}

// Delete refuses while products reference the brand. The foreign key check
// covers products inserted between the count and the delete.
func (s *Service) Delete(ctx context.Context, id int64) error {
	count, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return errInUse
	}
	err = s.repo.Delete(ctx, id)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return errNotFound
	case shared.IsForeignKeyViolation(err):
		return errInUse
	case err != nil:
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
