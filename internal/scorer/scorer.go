package scorer

import (
	"github.com/brightloop/screener/internal/analyzer"
	"github.com/brightloop/screener/internal/model"
)

const (
	minMultiplier = 0.9
	coherenceFlagCount = 5
)

// Weights are the four axis weights read from scoring.weights. Score
// renormalizes them if they do not already sum to 1.0.
type Weights struct {
	Growth float64
	Risk float64
	Valuation float64
	Sentiment float64
}

func (w Weights) normalized() Weights {
	total := w.Growth + w.Risk + w.Valuation + w.Sentiment
	if total <= 0 {
		return Weights{Growth: 0.25, Risk: 0.25, Valuation: 0.25, Sentiment: 0.25}
	}
	if total > 1-1e-9 && total < 1+1e-9 {
		return w
	}
	return Weights{
		Growth: w.Growth / total,
		Risk: w.Risk / total,
		Valuation: w.Valuation / total,
		Sentiment: w.Sentiment / total,
	}
}

// AxisScores are the four analyzer outputs for one issuer.
type AxisScores struct {
	Growth float64
	Risk float64
	Valuation float64
	Sentiment float64
}

// Score implements the quality-score pipeline: weighted base quality, the five-flag
// coherence multiplier, and the final quality_score. maxMultiplier
// defaults to 1.15 when <= minMultiplier.
func Score(axes AxisScores, metrics *model.FinancialMetrics, weights Weights, maxMultiplier float64) model.ComponentScores {
	if maxMultiplier <= minMultiplier {
		maxMultiplier = 1.15
	}
	w := weights.normalized()

	baseQuality := w.Growth*axes.Growth + w.Risk*axes.Risk + w.Valuation*axes.Valuation + w.Sentiment*axes.Sentiment

	flags := coherenceFlags(metrics)
	multiplier := minMultiplier + (float64(flags)/coherenceFlagCount)*(maxMultiplier-minMultiplier)

	return model.ComponentScores{
		GrowthScore: axes.Growth,
		RiskScore: axes.Risk,
		ValuationScore: axes.Valuation,
		SentimentScore: axes.Sentiment,
		BaseQuality: baseQuality,
		CoherenceMultiplier: multiplier,
		QualityScore: baseQuality * multiplier,
	}
}

// coherenceFlags counts how many of the five alignment checks hold.
func coherenceFlags(m *model.FinancialMetrics) int {
	count := 0

	if signOf(analyzer.Trend(m.Revenue)) == signOf(analyzer.Trend(m.FCF)) {
		count++
	}

	if analyzer.Stability(m.OperMargin) > 0.7 {
		if latestROE, ok := latestOf(m.ROE); ok && latestROE > 0.15 {
			count++
		}
	}

	if latestEPS, ok := latestOf(m.EPS); ok {
		if oldestEPS, ok2 := oldestOf(m.EPS); ok2 {
			fastGrowth := latestEPS > 1.15*oldestEPS
			highPER := m.PER > 20
			if fastGrowth == highPER {
				count++
			}
		}
	}

	if latestDE, ok := latestOf(m.DebtToEquity); ok && latestDE < 1.0 {
		if latestOCFNI, ok2 := latestOf(m.OCFToNetIncome); ok2 && latestOCFNI > 1.0 {
			count++
		}
	}

	if analyzer.Stability(m.Revenue) > 0.7 && analyzer.Stability(m.EPS) > 0.7 {
		count++
	}

	return count
}

func signOf(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func latestOf(series []float64) (float64, bool) {
	if len(series) == 0 {
		return 0, false
	}
	return series[0], true
}

func oldestOf(series []float64) (float64, bool) {
	if len(series) == 0 {
		return 0, false
	}
	return series[len(series)-1], true
}
