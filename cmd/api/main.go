// Package main is the entry point for the screener's administrative API
// server: GET /healthz and POST /runs against a process-wide Orchestrator.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/brightloop/screener/internal/api"
	"github.com/brightloop/screener/internal/cache"
	"github.com/brightloop/screener/internal/config"
	"github.com/brightloop/screener/internal/fetcher"
	"github.com/brightloop/screener/internal/orchestrator"
	"github.com/brightloop/screener/internal/provider"
	"github.com/brightloop/screener/internal/ratelimit"
)

func main() {
	// Load .env file in development
	_ = godotenv.Load()

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	backend, err := newCacheBackend(cfg.Cache)
	if err != nil {
		return err
	}
	responseCache := cache.New(backend, slog.Default())
	slog.Info("cache initialized", "backend", cfg.Cache.Backend)

	limiter := ratelimit.New()

	client := provider.NewClient(provider.Config{
		APIKey:    cfg.APIKey,
		BaseURLV3: cfg.API.BaseURL,
		BaseURLV4: cfg.API.BaseURLV4,
	})

	f := fetcher.New(client, responseCache, limiter, fetcher.Config{
		MaxWorkers: cfg.Concurrency.MaxWorkers,
		Logger:     slog.Default(),
	})

	orch := orchestrator.New(f, cfg, slog.Default())
	slog.Info("orchestrator initialized")

	router := api.NewRouter(api.RouterDeps{
		Orchestrator:       orch,
		AllowedOrigins:     cfg.Admin.AllowedOrigins,
		RateLimitPerSecond: cfg.Admin.RateLimitPerSecond,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Admin.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Minute, // POST /runs executes a full screening pass
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("starting server", "port", cfg.Admin.Port)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
		}
	}()

	return gracefulShutdown(srv)
}

func newCacheBackend(cc config.Cache) (cache.Backend, error) {
	switch cc.Backend {
	case "", "memory":
		return cache.NewMemory(), nil
	case "file":
		dir := cc.Dir
		if dir == "" {
			dir = ".screener-cache"
		}
		return cache.NewFile(dir)
	case "sqlite":
		path := cc.Path
		if path == "" {
			path = "screener-cache.db"
		}
		return cache.NewSQLite(path)
	default:
		return nil, fmt.Errorf("%w: unknown cache.backend %q", config.ErrConfiguration, cc.Backend)
	}
}

func gracefulShutdown(srv *http.Server) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	slog.Info("server stopped")
	return nil
}
