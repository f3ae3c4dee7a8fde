package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swastik-pharma/vetstore/internal/platform/cache"
	"github.com/swastik-pharma/vetstore/internal/shared"
)

// ============================================================================
// MOCK REPOSITORY
// ============================================================================

type mockRepository struct {
	products  []productRow
	variants  map[int64][]CardVariant
	brands    []brandRow
	bySlug    map[string]Brand
	lastQuery ProductQuery
	loads     int
	err       error
}

func (m *mockRepository) ListProducts(ctx context.Context, q ProductQuery) ([]productRow, error) {
	m.loads++
	m.lastQuery = q
	return m.products, m.err
}

func (m *mockRepository) ActiveVariants(ctx context.Context, ids []int64) (map[int64][]CardVariant, error) {
	out := map[int64][]CardVariant{}
	for _, id := range ids {
		if v, ok := m.variants[id]; ok {
			out[id] = v
		}
	}
	return out, nil
}

func (m *mockRepository) ListBrands(ctx context.Context, limit int) ([]brandRow, error) {
	m.loads++
	return m.brands, m.err
}

func (m *mockRepository) BrandBySlug(ctx context.Context, slug string) (Brand, error) {
	m.loads++
	b, ok := m.bySlug[slug]
	if !ok {
		return Brand{}, shared.ErrNotFound
	}
	return b, nil
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func fixtureRepo() *mockRepository {
	img := "https://cdn.example/drools.png"
	return &mockRepository{
		products: []productRow{
			{ID: 1, Name: "Drools Adult", Slug: "drools-adult", MRP: d("1299"), Price: d("999"), Stock: 4, Image: &img, Status: "active"},
			{ID: 2, Name: "Pet Comb", Slug: "pet-comb", MRP: d("200"), Price: d("200"), Stock: 9, Status: "active"},
			{ID: 3, Name: "Ear Drops", Slug: "ear-drops", MRP: d("100"), Price: d("90"), Stock: 1, Status: "active"},
		},
		variants: map[int64][]CardVariant{
			1: {
				{ID: 11, Name: "1 kg", MRP: d("450"), Price: d("400"), Stock: 3},
				{ID: 12, Name: "3 kg", MRP: d("1299"), Price: d("899"), Stock: 7, IsDefault: true},
			},
			3: {
				{ID: 31, Name: "10 ml", MRP: d("100"), Price: d("67"), Stock: 2},
			},
		},
		brands: []brandRow{
			{ID: 5, Name: "drools", Slug: "drools", ProductCount: 3},
			{ID: 6, Name: "Himalaya", Slug: "himalaya", ProductCount: 1, Logo: strPtr("https://cdn.example/h.png")},
		},
		bySlug: map[string]Brand{"drools": {ID: 5, Name: "Drools", Slug: "drools"}},
	}
}

func strPtr(s string) *string { return &s }

func newCachedService(t *testing.T, repo Repository) (*Service, *cache.Versioned) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	c := cache.NewVersioned(client, "storefront", time.Minute)
	return NewService(repo, c, nil), c
}

// ============================================================================
// DISPLAY RULES
// ============================================================================

func TestDiscount(t *testing.T) {
	assert.Equal(t, int64(31), Discount(d("1299"), d("899")))
	assert.Equal(t, int64(33), Discount(d("100"), d("67")))
	assert.Equal(t, int64(0), Discount(d("200"), d("200")))
	assert.Equal(t, int64(0), Discount(d("100"), d("120")))
	assert.Equal(t, int64(0), Discount(decimal.Zero, d("10")))
}

func TestProductCardsUseDefaultVariant(t *testing.T) {
	svc := NewService(fixtureRepo(), nil, nil)

	cards, err := svc.Products(context.Background(), ProductQuery{})
	require.NoError(t, err)
	require.Len(t, cards, 3)

	withDefault := cards[0]
	assert.True(t, withDefault.Price.Equal(d("899")))
	assert.True(t, withDefault.MRP.Equal(d("1299")))
	assert.Equal(t, 7, withDefault.Stock)
	assert.Equal(t, int64(31), withDefault.Discount)
	assert.Equal(t, "https://cdn.example/drools.png", withDefault.Image)
	assert.Equal(t, "/products/drools-adult", withDefault.Href)
	assert.Len(t, withDefault.Variants, 2)

	standard := cards[1]
	assert.Equal(t, PlaceholderImage, standard.Image)
	assert.Equal(t, int64(0), standard.Discount)
	require.Len(t, standard.Variants, 1)
	assert.Equal(t, "Standard", standard.Variants[0].Name)
	assert.Equal(t, int64(0), standard.Variants[0].ID)
	assert.True(t, standard.Variants[0].IsDefault)
	assert.Equal(t, 9, standard.Variants[0].Stock)

	firstVariant := cards[2]
	assert.True(t, firstVariant.Price.Equal(d("67")))
	assert.Equal(t, 2, firstVariant.Stock)
}

func TestProductQueryDefaults(t *testing.T) {
	repo := fixtureRepo()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	_, err := svc.Products(ctx, ProductQuery{Limit: 1000, Sort: "random"})
	require.NoError(t, err)
	assert.Equal(t, MaxProductLimit, repo.lastQuery.Limit)
	assert.Equal(t, SortNewest, repo.lastQuery.Sort)

	_, err = svc.Products(ctx, ProductQuery{Sort: SortPriceDesc})
	require.NoError(t, err)
	assert.Equal(t, DefaultProductLimit, repo.lastQuery.Limit)
	assert.Equal(t, SortPriceDesc, repo.lastQuery.Sort)
}

func TestBrandCardsPlaceholderLogo(t *testing.T) {
	svc := NewService(fixtureRepo(), nil, nil)

	cards, err := svc.Brands(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "https://via.placeholder.com/200x200/E5E7EB/6B7280?text=DR", cards[0].Logo)
	assert.Equal(t, "https://cdn.example/h.png", cards[1].Logo)
	assert.Equal(t, "/brands/drools", cards[0].Href)
	assert.Equal(t, 3, cards[0].ProductCount)
}

// ============================================================================
// CACHE
// ============================================================================

func TestProductsAreCachedUntilBump(t *testing.T) {
	repo := fixtureRepo()
	svc, c := newCachedService(t, repo)
	ctx := context.Background()

	first, err := svc.Products(ctx, ProductQuery{})
	require.NoError(t, err)
	second, err := svc.Products(ctx, ProductQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.loads)
	require.Len(t, second, len(first))
	assert.True(t, second[0].Price.Equal(first[0].Price))

	_, err = svc.Products(ctx, ProductQuery{Animal: "cat"})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.loads, "different filters use a different key")

	require.NoError(t, c.Bump(ctx))
	_, err = svc.Products(ctx, ProductQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, repo.loads)
}

func TestBrandMissesAreNotCached(t *testing.T) {
	repo := fixtureRepo()
	svc, _ := newCachedService(t, repo)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := svc.BrandBySlug(ctx, "ghost")
		require.ErrorIs(t, err, shared.ErrNotFound)
		assert.Equal(t, "Brand not found", err.Error())
	}
	assert.Equal(t, 2, repo.loads)

	for i := 0; i < 2; i++ {
		b, err := svc.BrandBySlug(ctx, "drools")
		require.NoError(t, err)
		assert.Equal(t, "Drools", b.Name)
	}
	assert.Equal(t, 3, repo.loads)
}

func TestCacheOutageFallsBackToRepository(t *testing.T) {
	repo := fixtureRepo()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	svc := NewService(repo, cache.NewVersioned(client, "storefront", time.Minute), nil)
	mr.Close()

	cards, err := svc.Brands(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, cards, 2)
}

func TestWarmFillsDefaultListings(t *testing.T) {
	repo := fixtureRepo()
	svc, _ := newCachedService(t, repo)
	ctx := context.Background()

	require.NoError(t, svc.Warm(ctx))
	assert.Equal(t, 2, repo.loads)

	_, err := svc.Products(ctx, ProductQuery{})
	require.NoError(t, err)
	_, err = svc.Brands(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.loads)
}

func TestRepositoryErrorsPropagate(t *testing.T) {
	repo := fixtureRepo()
	repo.err = errors.New("db down")
	svc, _ := newCachedService(t, repo)

	_, err := svc.Products(context.Background(), ProductQuery{})
	assert.EqualError(t, err, "db down")
}

// ============================================================================
// HANDLER
// ============================================================================

func TestHandlerRoutes(t *testing.T) {
	repo := fixtureRepo()
	r := chi.NewRouter()
	r.Route("/api", NewHandler(nil, NewService(repo, nil, nil)).MountRoutes)

	get := func(path string) *httptest.ResponseRecorder {
		res := httptest.NewRecorder()
		r.ServeHTTP(res, httptest.NewRequest(http.MethodGet, path, nil))
		return res
	}

	res := get("/api/products?limit=2&brand_id=5&category=Food&animal=dog&sort=price_asc")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, 2, repo.lastQuery.Limit)
	assert.Equal(t, int64(5), *repo.lastQuery.BrandID)
	assert.Equal(t, "Food", repo.lastQuery.Category)
	var body struct {
		Success  bool          `json:"success"`
		Count    int           `json:"count"`
		Products []ProductCard `json:"products"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 3, body.Count)

	assert.Equal(t, http.StatusBadRequest, get("/api/products?brand_id=abc").Code)

	res = get("/api/brands/ghost")
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Contains(t, res.Body.String(), "Brand not found")

	res = get("/api/animals")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `"slug":"sheep-goat"`)
}
