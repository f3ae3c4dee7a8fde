package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/swastik-pharma/vetstore/internal/auth"
	"github.com/swastik-pharma/vetstore/internal/catalog/brands"
	"github.com/swastik-pharma/vetstore/internal/catalog/products"
	"github.com/swastik-pharma/vetstore/internal/catalog/variants"
	"github.com/swastik-pharma/vetstore/internal/ingest"
	"github.com/swastik-pharma/vetstore/internal/observability"
	"github.com/swastik-pharma/vetstore/internal/orders"
	"github.com/swastik-pharma/vetstore/internal/platform/httpx"
	"github.com/swastik-pharma/vetstore/internal/stats"
	"github.com/swastik-pharma/vetstore/internal/storefront"
	"github.com/swastik-pharma/vetstore/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	Guard             *auth.Guard
	AuthHandler       *auth.Handler
	StorefrontHandler *storefront.Handler
	BrandsHandler     *brands.Handler
	ProductsHandler   *products.Handler
	VariantsHandler   *variants.Handler
	IngestHandler     *ingest.Handler
	OrdersHandler     *orders.Handler
	StatsHandler      *stats.Handler
	JobHandler        *jobs.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with the API routes.
func NewRouter(params RouterParams) http.Handler {
	if params.Logger == nil {
		params.Logger = slog.Default()
	}
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}
	r.Use(chimw.Logger)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Problem(w, http.StatusNotFound, http.StatusText(http.StatusNotFound), "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Problem(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed), "")
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	timeout := RequestTimeout(params.Config)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(timeout)
			if params.StorefrontHandler != nil {
				params.StorefrontHandler.MountRoutes(r)
			}
		})

		r.Route("/admin", func(r chi.Router) {
			r.Route("/auth", func(r chi.Router) {
				r.Use(timeout)
				params.AuthHandler.MountRoutes(r)
				r.Group(func(r chi.Router) {
					r.Use(params.Guard.RequireAdmin)
					params.AuthHandler.MountGuardedRoutes(r)
				})
			})

			r.Group(func(r chi.Router) {
				r.Use(params.Guard.RequireAdmin)
				mountAdmin(r, params, timeout)
			})
		})
	})

	return r
}

// mountAdmin registers the guarded back-office routes. Ingestion endpoints
// skip the request timeout; their handler sets its own deadline.
func mountAdmin(r chi.Router, params RouterParams, timeout func(http.Handler) http.Handler) {
	r.Route("/products", func(r chi.Router) {
		if params.IngestHandler != nil {
			params.IngestHandler.MountProductRoutes(r)
		}
		r.Group(func(r chi.Router) {
			r.Use(timeout)
			params.ProductsHandler.MountRoutes(r)
			if params.VariantsHandler != nil {
				r.Route("/{id}/variants", params.VariantsHandler.MountRoutes)
			}
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(timeout)
		if params.IngestHandler != nil {
			r.Route("/ingestion/runs", params.IngestHandler.MountRunRoutes)
		}
		r.Route("/brands", params.BrandsHandler.MountRoutes)
		if params.OrdersHandler != nil {
			r.Route("/orders", params.OrdersHandler.MountRoutes)
		}
		if params.StatsHandler != nil {
			r.Route("/stats", params.StatsHandler.MountRoutes)
		}
		if params.JobHandler != nil {
			r.Route("/jobs", params.JobHandler.MountRoutes)
		}
	})
}
