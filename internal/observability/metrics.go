package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects the Prometheus metrics of the API process.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	ingestRuns     *prometheus.CounterVec
	ingestRows     *prometheus.CounterVec
	ingestBrands   prometheus.Counter
	ingestDuration *prometheus.HistogramVec
}

// NewMetrics initialises the registry with HTTP and ingestion collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vetstore_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vetstore_http_request_duration_seconds",
		Help:    "HTTP request latency per route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vetstore_ingest_runs_total",
		Help: "Completed ingestion runs by kind.",
	}, []string{"kind"})
	rows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vetstore_ingest_rows_total",
		Help: "Ingested spreadsheet rows by kind and outcome.",
	}, []string{"kind", "outcome"})
	brands := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "vetstore_ingest_brands_created_total",
		Help: "Brands created implicitly by bulk upload.",
	})
	ingestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vetstore_ingest_duration_seconds",
		Help:    "Wall time of ingestion runs.",
		Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	}, []string{"kind"})
	registry.MustRegister(requests, duration, runs, rows, brands, ingestDuration)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		ingestRuns:      runs,
		ingestRows:      rows,
		ingestBrands:    brands,
		ingestDuration:  ingestDuration,
	}
}

// Handler returns the http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records metrics for every HTTP request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// RecordIngestion stores the outcome counts of one ingestion run.
func (m *Metrics) RecordIngestion(kind string, outcomes map[string]int, createdBrands int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ingestRuns.WithLabelValues(kind).Inc()
	for outcome, n := range outcomes {
		if n > 0 {
			m.ingestRows.WithLabelValues(kind, outcome).Add(float64(n))
		}
	}
	if createdBrands > 0 {
		m.ingestBrands.Add(float64(createdBrands))
	}
	m.ingestDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// Registerer exposes the registry for custom collectors.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Unwrap lets http.ResponseController reach the connection for deadlines and
// flushing.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
