package products

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swastik-pharma/vetstore/internal/catalog"
	"github.com/swastik-pharma/vetstore/internal/catalog/variants"
	"github.com/swastik-pharma/vetstore/internal/shared"
)

// ============================================================================
// MOCK REPOSITORY
// ============================================================================

type mockRepository struct {
	products    map[int64]Product
	brands      map[int64]string
	nextID      int64
	lastFilters catalog.ListFilters
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		products: make(map[int64]Product),
		brands:   map[int64]string{7: "Drools"},
		nextID:   1,
	}
}

func (m *mockRepository) codeTaken(code string, except int64) bool {
	for id, p := range m.products {
		if p.ItemCode == code && id != except {
			return true
		}
	}
	return false
}

func (m *mockRepository) checkWrite(p Product, except int64) error {
	if m.codeTaken(p.ItemCode, except) {
		return &pgconn.PgError{Code: "23505"}
	}
	if p.BrandID != nil {
		if _, ok := m.brands[*p.BrandID]; !ok {
			return &pgconn.PgError{Code: "23503"}
		}
	}
	return nil
}

func (m *mockRepository) List(ctx context.Context, filters catalog.ListFilters) ([]Product, int, error) {
	m.lastFilters = filters
	out := []Product{}
	for _, p := range m.products {
		if filters.Search != "" && !strings.Contains(strings.ToLower(p.Name+p.ItemCode), strings.ToLower(filters.Search)) {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}

func (m *mockRepository) Get(ctx context.Context, id int64) (Product, error) {
	p, ok := m.products[id]
	if !ok {
		return Product{}, shared.ErrNotFound
	}
	if p.BrandID != nil {
		name := m.brands[*p.BrandID]
		p.BrandName = &name
	}
	return p, nil
}

func (m *mockRepository) Create(ctx context.Context, p Product) (int64, error) {
	if err := m.checkWrite(p, 0); err != nil {
		return 0, err
	}
	p.ID = m.nextID
	m.nextID++
	m.products[p.ID] = p
	return p.ID, nil
}

func (m *mockRepository) Update(ctx context.Context, id int64, p Product) error {
	if _, ok := m.products[id]; !ok {
		return shared.ErrNotFound
	}
	if err := m.checkWrite(p, id); err != nil {
		return err
	}
	p.ID = id
	m.products[id] = p
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.products[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

type stubVariants struct{ byProduct map[int64][]variants.Variant }

func (s stubVariants) List(ctx context.Context, productID int64) ([]variants.Variant, error) {
	return s.byProduct[productID], nil
}

type countingInvalidator struct{ bumps int }

func (c *countingInvalidator) Bump(context.Context) error {
	c.bumps++
	return nil
}

func newTestService() (*Service, *mockRepository, *countingInvalidator) {
	repo := newMockRepository()
	inv := &countingInvalidator{}
	vs := stubVariants{byProduct: map[int64][]variants.Variant{1: {{ID: 9, ProductID: 1, Name: "3 kg", IsDefault: true}}}}
	return NewService(repo, vs, inv, nil), repo, inv
}

// ============================================================================
// HANDLER TESTS
// ============================================================================

func newTestRouter(svc *Service) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/admin/products", NewHandler(nil, svc).MountRoutes)
	return r
}

func send(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

const droolsJSON = `{"item_code":"P100","name":"Drools Adult 3kg","brand_id":7,"category":"Food","animal":"dog","mrp":1299,"price":"999.00","stock":5}`

func TestCreateAndShowProduct(t *testing.T) {
	svc, repo, inv := newTestService()
	router := newTestRouter(svc)

	res := send(router, http.MethodPost, "/api/admin/products", droolsJSON)
	require.Equal(t, http.StatusCreated, res.Code)

	stored := repo.products[1]
	assert.Equal(t, "drools-adult-3kg", stored.Slug)
	assert.Equal(t, catalog.StatusActive, stored.Status)
	assert.Equal(t, "dog", *stored.Animal)
	assert.Equal(t, 1, inv.bumps)

	res = send(router, http.MethodGet, "/api/admin/products/1", "")
	require.Equal(t, http.StatusOK, res.Code)
	var body struct {
		Product Product `json:"product"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	assert.Equal(t, "Drools", *body.Product.BrandName)
	require.Len(t, body.Product.Variants, 1)
	assert.True(t, body.Product.Variants[0].IsDefault)
	assert.True(t, body.Product.Price.Equal(stored.Price))
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc, _, _ := newTestService()
	router := newTestRouter(svc)
	send(router, http.MethodPost, "/api/admin/products", droolsJSON)

	cases := map[string]struct {
		body    string
		status  int
		message string
	}{
		"missing price": {`{"item_code":"P1","name":"x","mrp":10}`, http.StatusBadRequest, msgRequired},
		"blank name":    {`{"item_code":"P1","name":"  ","mrp":10,"price":9}`, http.StatusBadRequest, msgRequired},
		"zero mrp":      {`{"item_code":"P1","name":"x","mrp":0,"price":9}`, http.StatusBadRequest, "greater than zero"},
		"bad status":    {`{"item_code":"P1","name":"x","mrp":10,"price":9,"status":"archived"}`, http.StatusBadRequest, "Invalid value for status"},
		"bad animal":    {`{"item_code":"P1","name":"x","mrp":10,"price":9,"animal":"fish"}`, http.StatusBadRequest, "Invalid value for animal"},
		"negative":      {`{"item_code":"P1","name":"x","mrp":10,"price":9,"stock":-1}`, http.StatusBadRequest, "Invalid value for stock"},
		"unknown brand": {`{"item_code":"P1","name":"x","mrp":10,"price":9,"brand_id":99}`, http.StatusBadRequest, "Brand does not exist"},
		"duplicate":     {droolsJSON, http.StatusConflict, "Product with this item code already exists"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			res := send(router, http.MethodPost, "/api/admin/products", tc.body)
			assert.Equal(t, tc.status, res.Code)
			assert.Contains(t, res.Body.String(), tc.message)
		})
	}
}

func TestUpdateAndDelete(t *testing.T) {
	svc, repo, inv := newTestService()
	router := newTestRouter(svc)
	send(router, http.MethodPost, "/api/admin/products", droolsJSON)
	send(router, http.MethodPost, "/api/admin/products", `{"item_code":"P200","name":"Whiskas","mrp":450,"price":420}`)

	res := send(router, http.MethodPut, "/api/admin/products/1",
		`{"item_code":"P100","name":"Drools Adult 10kg","mrp":3999,"price":3599,"status":"out_of_stock"}`)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "drools-adult-10kg", repo.products[1].Slug)
	assert.Equal(t, catalog.StatusOutOfStock, repo.products[1].Status)
	assert.Nil(t, repo.products[1].BrandID)

	res = send(router, http.MethodPut, "/api/admin/products/1", `{"item_code":"P200","name":"x","mrp":1,"price":1}`)
	assert.Equal(t, http.StatusConflict, res.Code)

	res = send(router, http.MethodPut, "/api/admin/products/55", `{"item_code":"P9","name":"x","mrp":1,"price":1}`)
	assert.Equal(t, http.StatusNotFound, res.Code)

	res = send(router, http.MethodDelete, "/api/admin/products/2", "")
	assert.Equal(t, http.StatusOK, res.Code)
	assert.NotContains(t, repo.products, int64(2))
	assert.Equal(t, 4, inv.bumps)

	res = send(router, http.MethodDelete, "/api/admin/products/2", "")
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestListAppliesFiltersAndPagination(t *testing.T) {
	svc, repo, _ := newTestService()
	router := newTestRouter(svc)
	send(router, http.MethodPost, "/api/admin/products", droolsJSON)

	res := send(router, http.MethodGet, "/api/admin/products?search=drools&brand_id=7&status=active&page=2&limit=500", "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "drools", repo.lastFilters.Search)
	assert.Equal(t, int64(7), *repo.lastFilters.BrandID)
	assert.Equal(t, "active", repo.lastFilters.Status)
	assert.Equal(t, 2, repo.lastFilters.Page)
	assert.Equal(t, catalog.MaxLimit, repo.lastFilters.Limit)

	res = send(router, http.MethodGet, "/api/admin/products", "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `"pagination":{"page":1,"limit":50,"total":1,"totalPages":1}`)
	assert.Nil(t, repo.lastFilters.BrandID)
}
