// Package fetcher composes the provider HTTP client with caching, rate
// limiting and bounded retries into the per-endpoint operations consumed
// by the normalizer. Every exported method returns either a
// payload or ErrNotFound; transport and rate-limit handling never
// surfaces past this package's boundary.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/brightloop/screener/internal/cache"
	"github.com/brightloop/screener/internal/provider"
	"github.com/brightloop/screener/internal/ratelimit"
)

// ErrNotFound is returned for a 404 response, or for any other failure
// once the retry budget is exhausted (the transport and "not found"
// kinds collapse to the same externally visible outcome).
var ErrNotFound = errors.New("fetcher: resource not found")

const (
	defaultMaxRetries = 3
	defaultMaxWorkers = 5
)

// Config configures a Fetcher.
type Config struct {
	MaxWorkers int
	MaxRetries int
	Logger *slog.Logger

	// Pacer smooths request issuance within the concurrency bound; it is
	// an additional, optional throttle layered in front of the adaptive
	// Limiter, not a replacement for it. A zero (or negative) limit disables pacing.
	PacerLimit rate.Limit
	PacerBurst int
}

// Fetcher composes a provider.Client, a cache.Cache, a ratelimit.Limiter
// and a bounded concurrency gate into the enumerated operations.
type Fetcher struct {
	client *provider.Client
	cache *cache.Cache
	limiter *ratelimit.Limiter
	sem chan struct{}
	pacer *rate.Limiter
	maxRetries int
	logger *slog.Logger
}

// New constructs a Fetcher from its collaborators.
func New(client *provider.Client, c *cache.Cache, limiter *ratelimit.Limiter, cfg Config) *Fetcher {
	workers := cfg.MaxWorkers
	if workers <= 0 {
		workers = defaultMaxWorkers
	}
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = defaultMaxRetries
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var pacer *rate.Limiter
	if cfg.PacerLimit > 0 {
		burst := cfg.PacerBurst
		if burst <= 0 {
			burst = 1
		}
		pacer = rate.NewLimiter(cfg.PacerLimit, burst)
	}

	return &Fetcher{
		client: client,
		cache: c,
		limiter: limiter,
		sem: make(chan struct{}, workers),
		pacer: pacer,
		maxRetries: retries,
		logger: logger,
	}
}

// fetch performs the full cache -> permit -> limiter -> request -> retry
// contract for a single fully-built URL.
func (f *Fetcher) fetch(ctx context.Context, url string) ([]byte, error) {
	if payload, ok := f.cache.Get(url); ok {
		return payload, nil
	}

	select {
	case f.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-f.sem }()

	var lastErr error
	for attempt := 0; attempt < f.maxRetries; attempt++ {
		if f.pacer != nil {
			if err := f.pacer.Wait(ctx); err != nil {
				return nil, err
			}
		}
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := f.client.Get(ctx, url)
		if err != nil {
			lastErr = err
			f.logger.Debug("fetch transport error, will retry", "url", url, "attempt", attempt, "error", err)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			f.limiter.HandleResponse(ctx, resp.StatusCode, resp.Header)
			f.cache.Set(url, resp.Body)
			return resp.Body, nil

		case resp.StatusCode == http.StatusTooManyRequests:
			f.limiter.HandleResponse(ctx, resp.StatusCode, resp.Header)
			lastErr = fmt.Errorf("rate limited (429)")
			continue

		case resp.StatusCode == http.StatusNotFound:
			return nil, ErrNotFound

		default:
			lastErr = fmt.Errorf("unexpected status %d", resp.StatusCode)
			continue
		}
	}

	f.logger.Debug("fetch exhausted retry budget", "url", url, "last_error", lastErr)
	return nil, ErrNotFound
}
