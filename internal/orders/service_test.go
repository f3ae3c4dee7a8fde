package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swastik-pharma/vetstore/internal/shared"
	_ "github.com/swastik-pharma/vetstore/testing"
)

// ============================================================================
// MOCK REPOSITORY
// ============================================================================

type mockRepository struct {
	orders      map[int64]Order
	items       map[int64][]Item
	lastFilters ListFilters
	updateErr   error
	updates     int
}

func newMockRepository() *mockRepository {
	email := "vet@example.com"
	return &mockRepository{
		orders: map[int64]Order{
			1: {ID: 1, OrderNumber: "ORD-1001", CustomerName: "Asha", CustomerEmail: &email,
				TotalAmount: decimal.RequireFromString("1499.00"), Status: StatusPending,
				PaymentStatus: PaymentPending, ItemCount: 2, CreatedAt: time.Now()},
		},
		items: map[int64][]Item{
			1: {
				{ID: 1, OrderID: 1, ProductName: "Drools Adult 3 kg", Quantity: 1,
					Price: decimal.RequireFromString("899"), Subtotal: decimal.RequireFromString("899")},
				{ID: 2, OrderID: 1, ProductName: "Ear Drops", Quantity: 2,
					Price: decimal.RequireFromString("300"), Subtotal: decimal.RequireFromString("600")},
			},
		},
	}
}

func (m *mockRepository) List(ctx context.Context, filters ListFilters) ([]Order, int, error) {
	m.lastFilters = filters
	out := []Order{}
	for _, o := range m.orders {
		if filters.Status == "" || o.Status == filters.Status {
			out = append(out, o)
		}
	}
	return out, len(out), nil
}

func (m *mockRepository) Get(ctx context.Context, id int64) (Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return Order{}, shared.ErrNotFound
	}
	return o, nil
}

func (m *mockRepository) Items(ctx context.Context, orderID int64) ([]Item, error) {
	return m.items[orderID], nil
}

func (m *mockRepository) UpdateStatus(ctx context.Context, id int64, update StatusUpdate) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	o, ok := m.orders[id]
	if !ok {
		return shared.ErrNotFound
	}
	m.updates++
	if update.Status != nil {
		o.Status = *update.Status
	}
	if update.PaymentStatus != nil {
		o.PaymentStatus = *update.PaymentStatus
	}
	m.orders[id] = o
	return nil
}

func strPtr(s string) *string { return &s }

// ============================================================================
// SERVICE
// ============================================================================

func TestListDefaultsAndPagination(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)

	orders, page, err := svc.List(context.Background(), ListFilters{})
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, 1, repo.lastFilters.Page)
	assert.Equal(t, DefaultLimit, repo.lastFilters.Limit)
	assert.Equal(t, shared.Pagination{Page: 1, Limit: DefaultLimit, Total: 1, TotalPages: 1}, page)
}

func TestGetIncludesItems(t *testing.T) {
	svc := NewService(newMockRepository(), nil)

	order, items, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "ORD-1001", order.OrderNumber)
	assert.Len(t, items, 2)

	_, _, err = svc.Get(context.Background(), 99)
	require.ErrorIs(t, err, shared.ErrNotFound)
	assert.Equal(t, "Order not found", err.Error())
}

func TestUpdateStatus(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)
	ctx := context.Background()

	order, err := svc.UpdateStatus(ctx, 1, StatusUpdate{Status: strPtr(StatusShipped)})
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, order.Status)
	assert.Equal(t, PaymentPending, order.PaymentStatus)

	order, err = svc.UpdateStatus(ctx, 1, StatusUpdate{PaymentStatus: strPtr(PaymentPaid)})
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, order.Status)
	assert.Equal(t, PaymentPaid, order.PaymentStatus)
}

func TestUpdateStatusLogsValues(t *testing.T) {
	var logs bytes.Buffer
	svc := NewService(newMockRepository(), slog.New(slog.NewTextHandler(&logs, nil)))

	_, err := svc.UpdateStatus(context.Background(), 1, StatusUpdate{Status: strPtr(StatusShipped)})
	require.NoError(t, err)

	line := logs.String()
	assert.Contains(t, line, "status=shipped")
	assert.NotContains(t, line, "payment_status")
	assert.NotContains(t, line, "0x")
}

func TestUpdateStatusRequiresAField(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)

	for _, update := range []StatusUpdate{{}, {Status: strPtr(""), PaymentStatus: strPtr("")}} {
		_, err := svc.UpdateStatus(context.Background(), 1, update)
		require.ErrorIs(t, err, shared.ErrValidation)
		assert.Equal(t, "No fields to update", err.Error())
	}
	assert.Zero(t, repo.updates)
}

func TestUpdateStatusErrors(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)

	_, err := svc.UpdateStatus(context.Background(), 42, StatusUpdate{Status: strPtr(StatusCancelled)})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	repo.updateErr = errors.New("connection reset")
	_, err = svc.UpdateStatus(context.Background(), 1, StatusUpdate{Status: strPtr(StatusCancelled)})
	assert.EqualError(t, err, "connection reset")
}

// ============================================================================
// HANDLER
// ============================================================================

func newTestRouter(repo Repository) http.Handler {
	r := chi.NewRouter()
	r.Route("/orders", NewHandler(nil, NewService(repo, nil)).MountRoutes)
	return r
}

func TestHandlerList(t *testing.T) {
	repo := newMockRepository()
	router := newTestRouter(repo)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/orders?page=2&limit=10&status=pending&search=asha", nil))
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, ListFilters{Page: 2, Limit: 10, Status: "pending", Search: "asha"}, repo.lastFilters)

	var body struct {
		Success    bool              `json:"success"`
		Orders     []json.RawMessage `json:"orders"`
		Pagination shared.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Len(t, body.Orders, 1)
	assert.Equal(t, 2, body.Pagination.Page)
}

func TestHandlerShow(t *testing.T) {
	router := newTestRouter(newMockRepository())

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/orders/1", nil))
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `"order_number":"ORD-1001"`)
	assert.Contains(t, res.Body.String(), `"product_name":"Ear Drops"`)

	res = httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/orders/abc", nil))
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/orders/7", nil))
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestHandlerUpdate(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		status int
		want   string
	}{
		{"status", `{"status":"delivered"}`, http.StatusOK, `"status":"delivered"`},
		{"payment", `{"payment_status":"refunded"}`, http.StatusOK, `"payment_status":"refunded"`},
		{"empty", `{}`, http.StatusBadRequest, "No fields to update"},
		{"bad status", `{"status":"lost"}`, http.StatusBadRequest, "Invalid value for status"},
		{"bad payment", `{"payment_status":"maybe"}`, http.StatusBadRequest, "Invalid value for payment_status"},
		{"malformed", `{`, http.StatusBadRequest, "Invalid request body"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(newMockRepository())
			req := httptest.NewRequest(http.MethodPut, "/orders/1", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			res := httptest.NewRecorder()
			router.ServeHTTP(res, req)
			assert.Equal(t, tc.status, res.Code)
			assert.Contains(t, res.Body.String(), tc.want)
		})
	}
}
