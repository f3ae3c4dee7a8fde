package storefront

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/swastik-pharma/vetstore/internal/shared"
)

// Listing limits.
const (
	DefaultProductLimit = 10
	MaxProductLimit     = 100
	DefaultBrandLimit   = 50
	MaxBrandLimit       = 200
)

var errBrandNotFound = shared.NewError(shared.ErrNotFound, "Brand not found")

// Cache is the read-through cache in front of the repository.
type Cache interface {
	BuildKey(ctx context.Context, parts ...string) (string, error)
	FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error
}

// Service serves the public catalog.
type Service struct {
	repo   Repository
	cache  Cache
	logger *slog.Logger
}

// NewService wires the storefront. cache may be nil.
func NewService(repo Repository, cache Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, cache: cache, logger: logger}
}

// Products returns active product cards matching q.
func (s *Service) Products(ctx context.Context, q ProductQuery) ([]ProductCard, error) {
	q = normalizeQuery(q)
	brand := ""
	if q.BrandID != nil {
		brand = strconv.FormatInt(*q.BrandID, 10)
	}
	return readThrough(ctx, s, func(ctx context.Context) ([]ProductCard, error) {
		return s.loadProducts(ctx, q)
	}, "products", strconv.Itoa(q.Limit), q.Category, brand, q.Animal, q.Sort)
}

func (s *Service) loadProducts(ctx context.Context, q ProductQuery) ([]ProductCard, error) {
	rows, err := s.repo.ListProducts(ctx, q)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(rows))
	for i, p := range rows {
		ids[i] = p.ID
	}
	variants, err := s.repo.ActiveVariants(ctx, ids)
	if err != nil {
		return nil, err
	}
	cards := make([]ProductCard, len(rows))
	for i, p := range rows {
		cards[i] = buildCard(p, variants[p.ID])
	}
	return cards, nil
}

// Brands returns brands with at least one active product.
func (s *Service) Brands(ctx context.Context, limit int) ([]BrandCard, error) {
	if limit < 1 {
		limit = DefaultBrandLimit
	}
	if limit > MaxBrandLimit {
		limit = MaxBrandLimit
	}
	return readThrough(ctx, s, func(ctx context.Context) ([]BrandCard, error) {
		rows, err := s.repo.ListBrands(ctx, limit)
		if err != nil {
			return nil, err
		}
		out := make([]BrandCard, len(rows))
		for i, b := range rows {
			out[i] = buildBrandCard(b)
		}
		return out, nil
	}, "brands", strconv.Itoa(limit))
}

// BrandBySlug returns a single brand. Misses are not cached.
func (s *Service) BrandBySlug(ctx context.Context, slug string) (Brand, error) {
	brand, err := readThrough(ctx, s, func(ctx context.Context) (Brand, error) {
		return s.repo.BrandBySlug(ctx, slug)
	}, "brand", slug)
	if errors.Is(err, shared.ErrNotFound) {
		return Brand{}, errBrandNotFound
	}
	return brand, err
}

// Warm fills the cache for the default listings.
func (s *Service) Warm(ctx context.Context) error {
	if _, err := s.Products(ctx, ProductQuery{}); err != nil {
		return err
	}
	_, err := s.Brands(ctx, DefaultBrandLimit)
	return err
}

// readThrough serves from the cache and falls back to the loader when the
// cache itself fails. Loader errors are returned as is.
func readThrough[T any](ctx context.Context, s *Service, loader func(context.Context) (T, error), parts ...string) (T, error) {
	if s.cache == nil {
		return loader(ctx)
	}
	key, err := s.cache.BuildKey(ctx, parts...)
	if err != nil {
		s.logger.Warn("storefront cache key", slog.Any("error", err))
		return loader(ctx)
	}

	var (
		out       T
		loaderErr error
	)
	err = s.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (any, error) {
		v, err := loader(ctx)
		loaderErr = err
		return v, err
	})
	if err != nil && loaderErr == nil {
		s.logger.Warn("storefront cache fetch", slog.String("key", key), slog.Any("error", err))
		return loader(ctx)
	}
	return out, err
}

func normalizeQuery(q ProductQuery) ProductQuery {
	if q.Limit < 1 {
		q.Limit = DefaultProductLimit
	}
	if q.Limit > MaxProductLimit {
		q.Limit = MaxProductLimit
	}
	switch q.Sort {
	case SortPriceAsc, SortPriceDesc:
	default:
		q.Sort = SortNewest
	}
	return q
}
