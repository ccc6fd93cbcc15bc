// Package cache implements a TTL-keyed, endpoint-aware response store:
// a request fingerprint maps to (payload, expires_at),
// write-through on fetch, read-through before fetch. An expired entry
// reads as a miss but is not removed from its backend on access; it stays
// stored until overwritten by a later Set or dropped by Clear. Three
// interchangeable backends are provided; callers select
// one through NewMemory/NewFile/NewSQLite, all satisfying Backend.
package cache

import (
	"crypto/md5"
	"encoding/hex"
	"log/slog"
	"strings"
	"time"
)

// Entry is the payload stored for one cache key.
type Entry struct {
	Payload []byte
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Backend is the storage contract a cache implementation must satisfy.
// All three shipped backends (memory, file, sqlite) are observationally
// identical: Get returns whatever entry is stored under key, expired or
// not (Cache.Get applies the expiry check), Set stores the entry it is
// given, Clear drops everything.
type Backend interface {
	Get(key string) (*Entry, bool, error)
	Set(key string, entry Entry) error
	Clear() error
}

// ttlRule maps a URL substring to its TTL. Matched in order; the first
// substring match wins, falling back to defaultTTL.
type ttlRule struct {
	substr string
	ttl time.Duration
}

var ttlTable = []ttlRule{
	{"symbol", 24 * time.Hour},
	{"profile", 24 * time.Hour},
	{"sector", 24 * time.Hour},
	{"esg", 24 * time.Hour},
	{"financial-statement", time.Hour},
	{"income-statement", time.Hour},
	{"balance-sheet", time.Hour},
	{"cash-flow", time.Hour},
	{"key-metrics", time.Hour},
	{"ratios", time.Hour},
	{"earnings", 15 * time.Minute},
	{"quote", 5 * time.Minute},
	{"analyst", 2 * time.Hour},
}

const defaultTTL = time.Hour

// TTLForURL derives the cache TTL for a request URL per the endpoint table
// above. historical-price-full carries its own rule: a request pinned to
// an explicit from/to window is immutable (24h); a request without a date
// range is treated like a live quote (5m).
func TTLForURL(url string) time.Duration {
	lower := strings.ToLower(url)

	if strings.Contains(lower, "historical-price-full") {
		if strings.Contains(lower, "from=") && strings.Contains(lower, "to=") {
			return 24 * time.Hour
		}
		return 5 * time.Minute
	}

	for _, rule := range ttlTable {
		if strings.Contains(lower, rule.substr) {
			return rule.ttl
		}
	}
	return defaultTTL
}

// Fingerprint returns the cache key for a request URL: the hex MD5 digest
// of the full URL including query parameters. MD5 here is a content
// address, not a security boundary.
func Fingerprint(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}

// Cache composes a Backend with the endpoint-TTL table and the fail-open
// contract: any backend error is logged and treated as a miss (Get) or a
// no-op (Set) so that a broken cache never prevents a fetch from
// succeeding.
type Cache struct {
	backend Backend
	logger *slog.Logger
}

// New wraps a Backend with TTL derivation and fail-open error handling.
func New(backend Backend, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{backend: backend, logger: logger}
}

// Get looks up url's cached payload. The second return is true only on a
// live (non-expired) hit.
func (c *Cache) Get(url string) ([]byte, bool) {
	entry, ok, err := c.backend.Get(Fingerprint(url))
	if err != nil {
		c.logger.Warn("cache get failed, treating as miss", "url", url, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.ExpiresAt) {
		return nil, false
	}
	return entry.Payload, true
}

// Set stores payload for url with a TTL derived from the URL unless ttl is
// explicitly provided. A nil/empty payload is never stored.
func (c *Cache) Set(url string, payload []byte, ttl ...time.Duration) {
	if len(payload) == 0 {
		return
	}
	d := TTLForURL(url)
	if len(ttl) > 0 && ttl[0] > 0 {
		d = ttl[0]
	}
	now := time.Now()
	entry := Entry{Payload: payload, ExpiresAt: now.Add(d), CreatedAt: now}
	if err := c.backend.Set(Fingerprint(url), entry); err != nil {
		c.logger.Warn("cache set failed, continuing uncached", "url", url, "error", err)
	}
}

// Clear drops every cached entry.
func (c *Cache) Clear() {
	if err := c.backend.Clear(); err != nil {
		c.logger.Warn("cache clear failed", "error", err)
	}
}
