package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/swastik-pharma/vetstore/internal/app"
	"github.com/swastik-pharma/vetstore/internal/auth"
	"github.com/swastik-pharma/vetstore/internal/catalog/brands"
	"github.com/swastik-pharma/vetstore/internal/catalog/products"
	"github.com/swastik-pharma/vetstore/internal/catalog/variants"
	"github.com/swastik-pharma/vetstore/internal/ingest"
	"github.com/swastik-pharma/vetstore/internal/observability"
	"github.com/swastik-pharma/vetstore/internal/orders"
	"github.com/swastik-pharma/vetstore/internal/platform/cache"
	"github.com/swastik-pharma/vetstore/internal/platform/db"
	"github.com/swastik-pharma/vetstore/internal/stats"
	"github.com/swastik-pharma/vetstore/internal/storefront"
	"github.com/swastik-pharma/vetstore/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	slog.SetDefault(logger)

	dbpool, err := db.New(ctx, cfg.PGDSN, db.WithMaxConns(20), db.WithConnLifetime(30*time.Minute))
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	// The storefront degrades to direct reads when Redis is down.
	var redisClient *redis.Client
	if client, err := cache.New(ctx, cfg.RedisAddr, cache.WithPoolSize(20)); err != nil {
		logger.Warn("redis unavailable, catalog cache disabled", slog.Any("error", err))
	} else {
		redisClient = client
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}
	catalogCache := cache.NewVersioned(redisClient, "catalog", cfg.CatalogCacheTTL)

	metrics := observability.NewMetrics()

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	jobClient := jobs.NewClient(redisOpts)
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	authService := auth.NewService(auth.NewRepository(dbpool), cfg.JWTSecret, cfg.JWTTTL)
	authHandler := auth.NewHandler(logger, authService, auth.CookieOptions{
		Name:   cfg.AuthCookieName,
		Secure: cfg.IsProduction(),
	}, cfg.LoginRateLimitPerMinute)
	guard := auth.NewGuard(authService, cfg.AuthCookieName, logger)

	variantService := variants.NewService(variants.NewRepository(dbpool), catalogCache, logger)
	productService := products.NewService(products.NewRepository(dbpool), variantService, catalogCache, logger)
	brandService := brands.NewService(brands.NewRepository(dbpool), catalogCache, logger)

	ingestService := ingest.NewService(ingest.NewStore(dbpool),
		ingest.WithRunStore(ingest.NewRunStore(dbpool)),
		ingest.WithMetrics(metrics),
		ingest.WithInvalidator(catalogCache),
		ingest.WithWarmer(jobClient),
		ingest.WithLogger(logger),
	)

	storefrontService := storefront.NewService(storefront.NewRepository(dbpool), catalogCache, logger)
	statsService := stats.NewService(stats.NewRepository(dbpool), cfg.LowStockThreshold)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		Guard:             guard,
		AuthHandler:       authHandler,
		StorefrontHandler: storefront.NewHandler(logger, storefrontService),
		BrandsHandler:     brands.NewHandler(logger, brandService),
		ProductsHandler:   products.NewHandler(logger, productService),
		VariantsHandler:   variants.NewHandler(logger, variantService),
		IngestHandler:     ingest.NewHandler(logger, ingestService, cfg.UploadMaxBytes, cfg.IngestTimeout),
		OrdersHandler:     orders.NewHandler(logger, orders.NewService(orders.NewRepository(dbpool), logger)),
		StatsHandler:      stats.NewHandler(logger, statsService),
		JobHandler:        jobs.NewHandler(inspector, logger),
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:              cfg.AppAddr,
		Handler:           router,
		ReadTimeout:       cfg.AppReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
