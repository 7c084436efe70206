package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wempy/storefront/internal/api"
	"github.com/wempy/storefront/internal/api/handlers"
	"github.com/wempy/storefront/internal/cart"
	"github.com/wempy/storefront/internal/checkout"
	"github.com/wempy/storefront/internal/config"
	"github.com/wempy/storefront/internal/menu"
	"github.com/wempy/storefront/internal/repository/postgres"
	"github.com/wempy/storefront/internal/storage"
	"github.com/wempy/storefront/internal/wempy"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	stores, closeStores, err := openStores(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.String("backend", cfg.Storage.Backend), zap.Error(err))
	}
	defer closeStores()

	var localItems []menu.LocalItem
	if cfg.LocalMenuPath != "" {
		if localItems, err = menu.LoadLocal(cfg.LocalMenuPath); err != nil {
			logger.Fatal("Failed to load local menu", zap.String("path", cfg.LocalMenuPath), zap.Error(err))
		}
	}

	client := wempy.NewClient(cfg.API, logger)
	deps := &handlers.Deps{
		Config:       cfg,
		API:          client,
		Stores:       stores,
		Locks:        &cart.Locks{},
		Orchestrator: checkout.NewOrchestrator(client, cfg.Checkout, logger),
		LocalItems:   localItems,
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(deps, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server",
			zap.String("addr", srv.Addr),
			zap.String("api_base_url", cfg.API.BaseURL),
			zap.String("storage", cfg.Storage.Backend),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("Server error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("Server stopped")
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewDevelopmentConfig()
	if cfg.Environment == "production" {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

// openStores builds the session and profile stores of the configured backend
func openStores(cfg *config.Config, logger *zap.Logger) (storage.Stores, func(), error) {
	switch cfg.Storage.Backend {
	case "redis":
		session := storage.NewRedis(cfg.Storage.RedisAddr, cfg.Storage.RedisDB, "wempy:session", cfg.Storage.SessionTTL)
		profile := storage.NewRedis(cfg.Storage.RedisAddr, cfg.Storage.RedisDB, "wempy:profile", 0)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := profile.Ping(ctx); err != nil {
			_ = session.Close()
			_ = profile.Close()
			return storage.Stores{}, nil, fmt.Errorf("failed to reach redis: %w", err)
		}

		closeFn := func() {
			_ = session.Close()
			_ = profile.Close()
		}
		return storage.Stores{Session: session, Profile: profile}, closeFn, nil

	case "postgres":
		db, err := postgres.NewConnection(cfg.Database)
		if err != nil {
			return storage.Stores{}, nil, err
		}
		if err := postgres.Migrate(db, logger); err != nil {
			db.Close()
			return storage.Stores{}, nil, err
		}
		return postgres.NewStores(db, logger), func() { db.Close() }, nil

	default:
		logger.Warn("Using in-memory storage, carts are lost on restart")
		return storage.Stores{
			Session: storage.NewMemory(cfg.Storage.SessionTTL),
			Profile: storage.NewMemory(0),
		}, func() {}, nil
	}
}
