package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func scrape(t *testing.T, metrics *Metrics) string {
	t.Helper()
	rr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	return rr.Body.String()
}

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	metrics := NewMetrics()

	handler := metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	routeCtx := chi.NewRouteContext()
	routeCtx.RoutePatterns = append(routeCtx.RoutePatterns, "/api/products")

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	req = req.WithContext(ctx)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusTeapot {
		t.Fatalf("expected status %d, got %d", http.StatusTeapot, rr.Code)
	}

	body := scrape(t, metrics)
	if !strings.Contains(body, `vetstore_http_requests_total{code="418",route="/api/products"} 1`) {
		t.Fatalf("expected metrics to record request, got: %s", body)
	}
	if !strings.Contains(body, `vetstore_http_request_duration_seconds_bucket{route="/api/products"`) {
		t.Fatalf("expected duration histogram to be present, got: %s", body)
	}
}

func TestRecordIngestion(t *testing.T) {
	metrics := NewMetrics()
	metrics.RecordIngestion("upload", map[string]int{"success": 2, "failed": 1, "not_found": 0}, 1, 250*time.Millisecond)

	body := scrape(t, metrics)
	for _, want := range []string{
		`vetstore_ingest_runs_total{kind="upload"} 1`,
		`vetstore_ingest_rows_total{kind="upload",outcome="success"} 2`,
		`vetstore_ingest_rows_total{kind="upload",outcome="failed"} 1`,
		`vetstore_ingest_brands_created_total 1`,
		`vetstore_ingest_duration_seconds_count{kind="upload"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in metrics, got: %s", want, body)
		}
	}
	if strings.Contains(body, `outcome="not_found"`) {
		t.Fatalf("zero outcomes must not create series")
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var metrics *Metrics
	metrics.RecordIngestion("sync", map[string]int{"updated": 1}, 0, time.Second)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	if got := metrics.Middleware(next); got == nil {
		t.Fatal("expected passthrough handler")
	}
	rr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}

func TestMiddlewareKeepsResponseControllerReachable(t *testing.T) {
	metrics := NewMetrics()
	var flushErr error
	handler := metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		flushErr = http.NewResponseController(w).Flush()
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/admin/products/sync", nil))
	if flushErr != nil {
		t.Fatalf("flush through middleware: %v", flushErr)
	}
	if !rr.Flushed {
		t.Fatal("expected the underlying recorder to be flushed")
	}
	if rr.Code != http.StatusAccepted {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
}
