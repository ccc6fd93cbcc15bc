package config

import (
	"fmt"

	"github.com/brightloop/screener/internal/scorer"
)

// ApplyProfile rewrites Scoring.Weights (and, for "growth", the growth
// gate) to one of the four named presets. Applied after any CONFIG_PATH
// override so a profile always wins over a stale weights section left
// in an override document; an unknown profile name is a configuration
// error rather than a silent no-op.
func ApplyProfile(cfg *Config, profile string) error {
	switch profile {
	case "quality":
		cfg.Scoring.Weights = scoringWeights(0.25, 0.35, 0.20, 0.20)
	case "growth":
		cfg.Scoring.Weights = scoringWeights(0.45, 0.15, 0.20, 0.20)
		cfg.GrowthQuality.ROE.MinEachYear = 0.08
		cfg.GrowthQuality.ROE.MinAvg = 0.10
	case "value":
		cfg.Scoring.Weights = scoringWeights(0.15, 0.25, 0.40, 0.20)
	case "balanced":
		cfg.Scoring.Weights = scoringWeights(0.25, 0.25, 0.25, 0.25)
	default:
		return fmt.Errorf("%w: unknown SCREENER_PROFILE %q", ErrConfiguration, profile)
	}
	return nil
}

func scoringWeights(growth, risk, valuation, sentiment float64) scorer.Weights {
	return scorer.Weights{Growth: growth, Risk: risk, Valuation: valuation, Sentiment: sentiment}
}
