package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/antiquebooks/api/internal/cart"
	"github.com/antiquebooks/api/internal/catalog"
	"github.com/antiquebooks/api/internal/content"
	"github.com/antiquebooks/api/internal/handlers"
	"github.com/antiquebooks/api/internal/i18n"
	"github.com/antiquebooks/api/internal/platform/config"
	"github.com/antiquebooks/api/internal/platform/kv"
	"github.com/antiquebooks/api/internal/platform/observability"
	"github.com/antiquebooks/api/internal/view"
)

func main() {
	ctx := context.Background()

	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("api")
	ctx = observability.WithLogger(ctx, logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	store, err := catalog.Load(cfg.Catalog.DataDir)
	if err != nil {
		logger.Fatal("failed to load catalog", zap.Error(err), zap.String("dir", cfg.Catalog.DataDir))
	}
	logger.Info("catalog loaded",
		zap.Int("items", store.Len()),
		zap.Int("categories", len(store.Categories())),
	)

	bundle, err := i18n.Load(cfg.Locale.Dir, cfg.Locale.Default, cfg.Locale.Supported)
	if err != nil {
		logger.Fatal("failed to load translations", zap.Error(err), zap.String("dir", cfg.Locale.Dir))
	}
	logger.Info("translations loaded", zap.Strings("locales", bundle.Supported()))

	library, err := content.Load(cfg.Catalog.ContentDir)
	if err != nil {
		logger.Fatal("failed to load content pages", zap.Error(err), zap.String("dir", cfg.Catalog.ContentDir))
	}
	logger.Info("content pages loaded", zap.Strings("slugs", library.Slugs()))

	storage, closeStorage, err := newCartStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialise cart storage", zap.Error(err))
	}
	defer closeStorage()

	carts, err := cart.NewStore(cart.StoreDeps{
		Storage:   storage,
		Namespace: cfg.Cart.Namespace,
		Logger:    logger.Named("cart"),
	})
	if err != nil {
		logger.Fatal("failed to initialise cart store", zap.Error(err))
	}

	projector, err := view.NewProjector(view.ProjectorDeps{
		Translator:       bundle,
		PlaceholderImage: cfg.Catalog.PlaceholderImage,
		DetailPath:       cfg.Catalog.ItemDetailPath,
	})
	if err != nil {
		logger.Fatal("failed to initialise view projector", zap.Error(err))
	}

	catalogHandlers := handlers.NewCatalogHandlers(store, projector, bundle, content.Sanitizer())
	cartHandlers := handlers.NewCartHandlers(carts, store, projector, bundle)
	pageHandlers := handlers.NewPageHandlers(library, bundle)
	healthHandlers := handlers.NewHealthHandlers(func() bool { return store.Len() > 0 })

	middlewares := []func(http.Handler) http.Handler{
		observability.InjectLoggerMiddleware(logger.Named("http")),
		observability.TraceMiddleware(),
		observability.RecoveryMiddleware(logger.Named("http")),
		observability.RequestLoggerMiddleware(),
		handlers.LocaleMiddleware(bundle),
	}

	router := handlers.NewRouter(
		handlers.WithMiddlewares(middlewares...),
		handlers.WithHealthHandlers(healthHandlers),
		handlers.WithCatalogRoutes(catalogHandlers.Routes),
		handlers.WithCartRoutes(cartHandlers.Routes),
		handlers.WithPageRoutes(pageHandlers.Routes),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("antiquebooks api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// newCartStorage selects Redis when REDIS_URL is configured, otherwise the
// in-memory store. The returned close func is a no-op for the memory store.
func newCartStorage(ctx context.Context, cfg config.Config, logger *zap.Logger) (kv.Store, func(), error) {
	redisURL := strings.TrimSpace(cfg.Cart.RedisURL)
	if redisURL == "" {
		logger.Info("cart storage: using in-memory store")
		return kv.NewMemory(), func() {}, nil
	}

	client, err := kv.NewRedis(ctx, redisURL, logger.Named("redis"))
	if err != nil {
		return nil, nil, err
	}
	logger.Info("cart storage: using redis")
	closeFn := func() {
		if err := client.Close(); err != nil {
			logger.Warn("redis close error", zap.Error(err))
		}
	}
	return client, closeFn, nil
}
