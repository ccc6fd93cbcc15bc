// Package config loads and validates the hierarchical scoring
// configuration: static filters, per-axis quality
// gates, scoring weights, sector benchmarks, concurrency, output and
// cache settings, and the provider credential.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/brightloop/screener/internal/analyzer"
	"github.com/brightloop/screener/internal/scorer"
)

// ErrConfiguration is returned for a missing credential or a malformed
// config section; the pipeline must refuse to start rather than
// run with a guessed default for these.
var ErrConfiguration = errors.New("config: invalid configuration")

// InitialFilters is step 3's static screen.
type InitialFilters struct {
	MarketCapMin float64 `json:"market_cap_min"`
	MarketCapMax float64 `json:"market_cap_max"`
	ExcludeFinancialServices bool `json:"exclude_financial_services"`
}

// ROEGate is the Orchestrator's post-analysis quality gate (step 4).
type ROEGate struct {
	Years int `json:"years"`
	MinEachYear float64 `json:"min_each_year"`
	MinAvg float64 `json:"min_avg"`
}

// GrowthQuality carries the growth axis's configurable gate. Sub-score
// weights (magnitude/consistency/sustainability) are fixed by the growth
// analyzer and are not reconfigurable.
type GrowthQuality struct {
	ROE ROEGate
}

// RiskQuality, Valuation and Sentiment are reserved recognized sections;
// none currently carry tunable fields beyond the
// benchmarks in SectorBenchmarks. The config override does not parse these
// sections; a config document naming them is still accepted because
// unrecognized keys are ignored.
type RiskQuality struct{}
type Valuation struct{}
type Sentiment struct{}

// CoherenceBonus configures the coherence multiplier's ceiling.
type CoherenceBonus struct {
	MaxMultiplier float64 `json:"max_multiplier"`
}

// Scoring holds the axis weights and the coherence bonus ceiling.
type Scoring struct {
	Weights scorer.Weights
	CoherenceBonus CoherenceBonus
}

// Concurrency configures the global semaphore size.
type Concurrency struct {
	MaxWorkers int `json:"max_workers"`
}

// Output configures the result sink's thresholding (report rendering
// itself is an external collaborator).
type Output struct {
	MinQualityScore float64 `json:"min_quality_score"`
	MaxStocks int `json:"max_stocks"`
	Format string `json:"format"`
	FilenamePrefix string `json:"filename_prefix"`
}

// Cache configures which backend the cache component uses.
type Cache struct {
	Backend string `json:"backend"` // "memory" | "file" | "sqlite"
	Dir string `json:"dir"` // used by the file backend
	Path string `json:"path"` // used by the sqlite backend
}

// API configures the outbound provider base URLs.
type API struct {
	BaseURL string `json:"base_url"`
	BaseURLV4 string `json:"base_url_v4"`
}

// Admin configures the optional administrative HTTP surface (internal/api).
// It is not part of the scored pipeline and carries no JSON override tags;
// it is environment-only.
type Admin struct {
	Port string
	AllowedOrigins []string
	RateLimitPerSecond int
}

// Config is the fully validated, hierarchical configuration tree.
type Config struct {
	APIKey string

	InitialFilters InitialFilters
	GrowthQuality GrowthQuality
	RiskQuality RiskQuality
	Valuation Valuation
	Sentiment Sentiment

	Scoring Scoring
	SectorBenchmarks map[string]analyzer.Benchmarks

	Concurrency Concurrency
	Output Output
	Cache Cache
	API API
	Admin Admin
}

// Default returns the documented defaults for every section; missing
// keys in an override document fall back to these values.
func Default() Config {
	return Config{
		InitialFilters: InitialFilters{
			MarketCapMin: 300_000_000,
			MarketCapMax: 0, // 0 = unbounded
			ExcludeFinancialServices: false,
		},
		GrowthQuality: GrowthQuality{
			ROE: ROEGate{Years: 3, MinEachYear: 0.10, MinAvg: 0.12},
		},
		Scoring: Scoring{
			Weights: scorer.Weights{Growth: 0.30, Risk: 0.25, Valuation: 0.25, Sentiment: 0.20},
			CoherenceBonus: CoherenceBonus{MaxMultiplier: 1.15},
		},
		SectorBenchmarks: map[string]analyzer.Benchmarks{},
		Concurrency: Concurrency{MaxWorkers: 5},
		Output: Output{
			MinQualityScore: 0.0,
			MaxStocks: 0, // 0 = unbounded
			Format: "json",
			FilenamePrefix: "screening_results",
		},
		Cache: Cache{Backend: "memory"},
		API: API{BaseURL: "https://financialmodelingprep.com/api/v3", BaseURLV4: "https://financialmodelingprep.com/api/v4"},
		Admin: Admin{Port: "8080", AllowedOrigins: []string{"http://localhost:3000"}, RateLimitPerSecond: 10},
	}
}

// rawOverride mirrors the JSON shape of an optional override document
// read from CONFIG_PATH. Every field is optional so an absent key is
// simply left at the Default() value; unknown keys are ignored by
// encoding/json's default decoding behavior.
type rawOverride struct {
	InitialFilters *InitialFilters `json:"initial_filters"`
	GrowthQuality *struct {
		ROE *ROEGate `json:"roe"`
	} `json:"growth_quality"`
	Scoring *struct {
		Weights *scorer.Weights `json:"weights"`
		CoherenceBonus *CoherenceBonus `json:"coherence_bonus"`
	} `json:"scoring"`
	SectorBenchmarks map[string]analyzer.Benchmarks `json:"sector_benchmarks"`
	Concurrency *Concurrency `json:"concurrency"`
	Output *Output `json:"output"`
	Cache *Cache `json:"cache"`
	API *API `json:"api"`
}

// Load builds a Config from the environment: FMP_API_KEY is required;
// CONFIG_PATH optionally names a JSON document overriding Default()'s
// sections; SCREENER_PROFILE optionally names one of the {quality,
// growth, value, balanced} presets, applied after the file override.
func Load() (Config, error) {
	cfg := Default()

	apiKey := os.Getenv("FMP_API_KEY")
	if apiKey == "" {
		return Config{}, fmt.Errorf("%w: FMP_API_KEY is required", ErrConfiguration)
	}
	cfg.APIKey = apiKey

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := applyOverrideFile(&cfg, path); err != nil {
			return Config{}, fmt.Errorf("%w: %s", ErrConfiguration, err)
		}
	}

	if profile := os.Getenv("SCREENER_PROFILE"); profile != "" {
		if err := ApplyProfile(&cfg, profile); err != nil {
			return Config{}, err
		}
	}

	if workers := os.Getenv("MAX_WORKERS"); workers != "" {
		if n, err := strconv.Atoi(workers); err == nil && n > 0 {
			cfg.Concurrency.MaxWorkers = n
		}
	}

	if port := os.Getenv("ADMIN_PORT"); port != "" {
		cfg.Admin.Port = port
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		var parsed []string
		for _, o := range strings.Split(origins, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				parsed = append(parsed, trimmed)
			}
		}
		if len(parsed) > 0 {
			cfg.Admin.AllowedOrigins = parsed
		}
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyOverrideFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	var raw rawOverride
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	if raw.InitialFilters != nil {
		cfg.InitialFilters = *raw.InitialFilters
	}
	if raw.GrowthQuality != nil && raw.GrowthQuality.ROE != nil {
		cfg.GrowthQuality.ROE = *raw.GrowthQuality.ROE
	}
	if raw.Scoring != nil {
		if raw.Scoring.Weights != nil {
			cfg.Scoring.Weights = *raw.Scoring.Weights
		}
		if raw.Scoring.CoherenceBonus != nil {
			cfg.Scoring.CoherenceBonus = *raw.Scoring.CoherenceBonus
		}
	}
	if raw.SectorBenchmarks != nil {
		cfg.SectorBenchmarks = raw.SectorBenchmarks
	}
	if raw.Concurrency != nil {
		cfg.Concurrency = *raw.Concurrency
	}
	if raw.Output != nil {
		cfg.Output = *raw.Output
	}
	if raw.Cache != nil {
		cfg.Cache = *raw.Cache
	}
	if raw.API != nil {
		cfg.API = *raw.API
	}
	return nil
}

// Validate enforces the constraints config.Load's callers rely on; a
// malformed section here means the pipeline refuses to start.
func Validate(cfg Config) error {
	if cfg.APIKey == "" {
		return fmt.Errorf("%w: missing credential", ErrConfiguration)
	}
	if cfg.Concurrency.MaxWorkers <= 0 {
		return fmt.Errorf("%w: concurrency.max_workers must be positive", ErrConfiguration)
	}
	if cfg.GrowthQuality.ROE.Years <= 0 {
		return fmt.Errorf("%w: growth_quality.roe.years must be positive", ErrConfiguration)
	}
	w := cfg.Scoring.Weights
	if w.Growth < 0 || w.Risk < 0 || w.Valuation < 0 || w.Sentiment < 0 {
		return fmt.Errorf("%w: scoring.weights must be non-negative", ErrConfiguration)
	}
	if w.Growth+w.Risk+w.Valuation+w.Sentiment <= 0 {
		return fmt.Errorf("%w: scoring.weights must not all be zero", ErrConfiguration)
	}
	return nil
}

// BenchmarksForSector returns the sector-specific benchmarks if
// configured, otherwise analyzer.DefaultBenchmarks().
func (c Config) BenchmarksForSector(sector string) analyzer.Benchmarks {
	if b, ok := c.SectorBenchmarks[sector]; ok {
		return b
	}
	return analyzer.DefaultBenchmarks()
}
