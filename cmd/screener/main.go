// Package main is the command-line entry point for the screener: it
// wires Config, Cache, RateLimiter, Fetcher and Orchestrator, runs one
// screening pass, and JSON-encodes the result vector to stdout or a
// file named with -out.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/brightloop/screener/internal/cache"
	"github.com/brightloop/screener/internal/config"
	"github.com/brightloop/screener/internal/fetcher"
	"github.com/brightloop/screener/internal/orchestrator"
	"github.com/brightloop/screener/internal/provider"
	"github.com/brightloop/screener/internal/ratelimit"
	"github.com/brightloop/screener/internal/signals"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	out := flag.String("out", "", "write results to this file instead of stdout")
	withSignals := flag.Bool("signals", false, "annotate results with the supplemental signal pass")
	asOf := flag.String("as-of", "", "RFC3339 date for a point-in-time replay run (default: live)")
	flag.Parse()

	if err := run(*out, *withSignals, *asOf); err != nil {
		slog.Error("screening run failed", "error", err)
		os.Exit(1)
	}
}

func run(outPath string, withSignals bool, asOf string) error {
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

	opts := orchestrator.RunOptions{}
	if asOf != "" {
		t, err := time.Parse(time.RFC3339, asOf)
		if err != nil {
			return fmt.Errorf("parsing -as-of: %w", err)
		}
		opts.AsOf = &t
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	slog.Info("starting screening run")
	result, err := orch.Run(ctx, opts)
	if err != nil {
		return err
	}
	slog.Info("screening run complete", "run_id", result.RunID, "universe_size", result.UniverseSize, "result_count", len(result.Stocks))

	if withSignals {
		signals.Annotate(result.Stocks)
	}

	return writeResult(result, outPath)
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

func writeResult(result *orchestrator.Result, outPath string) error {
	enc := struct {
		RunID        string      `json:"run_id"`
		UniverseSize int         `json:"universe_size"`
		ResultCount  int         `json:"result_count"`
		Results      interface{} `json:"results"`
	}{
		RunID:        result.RunID,
		UniverseSize: result.UniverseSize,
		ResultCount:  len(result.Stocks),
		Results:      result.Stocks,
	}

	if outPath == "" {
		return json.NewEncoder(os.Stdout).Encode(enc)
	}

	file, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(enc); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	slog.Info("results written", "path", outPath)
	return nil
}
