package scorer

import (
	"testing"

	"github.com/brightloop/screener/internal/model"
)

func TestWeights_Normalized_ZeroTotalFallsBackToEqual(t *testing.T) {
	got := Weights{}.normalized()
	want := Weights{Growth: 0.25, Risk: 0.25, Valuation: 0.25, Sentiment: 0.25}
	if got != want {
		t.Errorf("normalized() = %+v, want %+v", got, want)
	}
}

func TestWeights_Normalized_RescalesToOne(t *testing.T) {
	got := Weights{Growth: 1, Risk: 1, Valuation: 1, Sentiment: 1}.normalized()
	sum := got.Growth + got.Risk + got.Valuation + got.Sentiment
	if diff := sum - 1; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("sum of normalized weights = %v, want 1", sum)
	}
	if got.Growth != 0.25 {
		t.Errorf("Growth = %v, want 0.25 (even split of equal weights)", got.Growth)
	}
}

func TestWeights_Normalized_AlreadySummingToOneIsUnchanged(t *testing.T) {
	w := Weights{Growth: 0.4, Risk: 0.3, Valuation: 0.2, Sentiment: 0.1}
	if got := w.normalized(); got != w {
		t.Errorf("normalized() = %+v, want unchanged %+v", got, w)
	}
}

func TestScore_MaxMultiplierFallsBackWhenTooLow(t *testing.T) {
	axes := AxisScores{Growth: 0.5, Risk: 0.5, Valuation: 0.5, Sentiment: 0.5}
	m := model.NewFinancialMetrics("TEST")

	got := Score(axes, m, Weights{Growth: 1}, 0.5) // <= minMultiplier, should fall back to 1.15
	want := Score(axes, m, Weights{Growth: 1}, 1.15)
	if got.QualityScore != want.QualityScore {
		t.Errorf("QualityScore = %v, want %v (fallback to default max multiplier)", got.QualityScore, want.QualityScore)
	}
}

func TestScore_QualityScoreIsBaseTimesMultiplier(t *testing.T) {
	axes := AxisScores{Growth: 1, Risk: 1, Valuation: 1, Sentiment: 1}
	m := model.NewFinancialMetrics("TEST")

	got := Score(axes, m, Weights{Growth: 1, Risk: 1, Valuation: 1, Sentiment: 1}, 1.15)
	if got.BaseQuality != 1 {
		t.Errorf("BaseQuality = %v, want 1 (all axes perfect)", got.BaseQuality)
	}
	if diff := got.QualityScore - got.BaseQuality*got.CoherenceMultiplier; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("QualityScore = %v, want BaseQuality * CoherenceMultiplier = %v", got.QualityScore, got.BaseQuality*got.CoherenceMultiplier)
	}
}

func TestCoherenceFlags_EmptyMetricsScoresLow(t *testing.T) {
	m := model.NewFinancialMetrics("TEST")
	if got := coherenceFlags(m); got < 0 || got > 5 {
		t.Errorf("coherenceFlags(empty) = %v, want within [0,5]", got)
	}
}

func TestCoherenceFlags_AlignedTrendsCountAFlag(t *testing.T) {
	m := model.NewFinancialMetrics("TEST")
	m.Revenue = []float64{130, 120, 110, 100}
	m.FCF = []float64{30, 25, 20, 15}

	got := coherenceFlags(m)
	if got < 1 {
		t.Errorf("coherenceFlags() = %v, want >= 1 (revenue and FCF both trending up)", got)
	}
}

func TestSignOf(t *testing.T) {
	if signOf(5) != 1 {
		t.Error("signOf(5) != 1")
	}
	if signOf(-5) != -1 {
		t.Error("signOf(-5) != -1")
	}
	if signOf(0) != 0 {
		t.Error("signOf(0) != 0")
	}
}

func TestLatestOf_Empty(t *testing.T) {
	if _, ok := latestOf(nil); ok {
		t.Error("latestOf(nil) ok = true, want false")
	}
}

func TestOldestOf_ReturnsLastElement(t *testing.T) {
	v, ok := oldestOf([]float64{1, 2, 3})
	if !ok || v != 3 {
		t.Errorf("oldestOf() = %v,%v, want 3,true", v, ok)
	}
}
