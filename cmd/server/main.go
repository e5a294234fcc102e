package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"subhub/internal/platform/config"
	"subhub/internal/platform/httpserver"
	"subhub/internal/platform/logger"
	"subhub/internal/platform/metrics"
	"subhub/internal/platform/postgres"
	"subhub/internal/platform/redis"
	productcache "subhub/internal/product/cache"
	producthandler "subhub/internal/product/handler"
	productservice "subhub/internal/product/service"
	productstore "subhub/internal/product/store"
	subscriptionhandler "subhub/internal/subscription/handler"
	subscriptionservice "subhub/internal/subscription/service"
	subscriptionstore "subhub/internal/subscription/store"
	userhandler "subhub/internal/user/handler"
	userservice "subhub/internal/user/service"
	userstore "subhub/internal/user/store"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps
// the server lifecycle small. Business logic lives in the feature
// service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	stores, cleanup, err := buildStores(cfg)
	if err != nil {
		log.Error("store setup failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	userSvc := userservice.New(stores.users,
		userservice.WithLogger(log), userservice.WithMetrics(m))

	productOpts := []productservice.Option{
		productservice.WithLogger(log), productservice.WithMetrics(m),
	}
	if cache := buildProductCache(cfg, log); cache != nil {
		productOpts = append(productOpts, productservice.WithCache(cache))
	}
	productSvc := productservice.New(stores.products, productOpts...)

	subscriptionSvc := subscriptionservice.New(stores.subs, stores.users, stores.products,
		subscriptionservice.WithLogger(log), subscriptionservice.WithMetrics(m))

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)

	userhandler.New(userSvc, log, userhandler.WithMetrics(m)).Register(router)
	producthandler.New(productSvc, log, producthandler.WithMetrics(m)).Register(router)
	subscriptionhandler.New(subscriptionSvc, log, subscriptionhandler.WithMetrics(m)).Register(router)

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	router.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting subhub", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

// stores groups the three feature stores behind their service interfaces.
type stores struct {
	users    userservice.Store
	products productservice.Store
	subs     subscriptionservice.Store
}

// buildStores selects the backend: Postgres when DATABASE_URL is set, the
// wired memory trio otherwise.
func buildStores(cfg config.Server) (*stores, func(), error) {
	if cfg.DatabaseURL == "" {
		users := userstore.NewMemory()
		products := productstore.NewMemory()
		subs := subscriptionstore.NewMemory(users, products)
		users.AttachSubscriptions(subs)
		products.AttachSubscriptions(subs)
		return &stores{users: users, products: products, subs: subs}, func() {}, nil
	}

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := postgres.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return &stores{
		users:    userstore.NewPostgres(db),
		products: productstore.NewPostgres(db),
		subs:     subscriptionstore.NewPostgres(db),
	}, func() { _ = db.Close() }, nil
}

// buildProductCache wires the Redis product cache when REDIS_URL is set.
// Cache setup trouble is logged and the server runs uncached.
func buildProductCache(cfg config.Server, log *slog.Logger) *productcache.Cache {
	client, err := redis.New(cfg.RedisURL)
	if err != nil {
		log.Warn("redis unavailable, product cache disabled", "error", err)
		return nil
	}
	if client == nil {
		return nil
	}
	return productcache.New(client.Client,
		productcache.WithTTL(config.ProductCacheTTL),
		productcache.WithLogger(log))
}
