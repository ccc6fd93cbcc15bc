package analyzer

import "testing"

func TestCAGR(t *testing.T) {
	got := CAGR(200, 100, 5)
	want := 0.1486983549970350
	if diff := got - want; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("CAGR(200,100,5) = %v, want %v", got, want)
	}
}

func TestCAGR_NonPositiveInputsYieldZero(t *testing.T) {
	cases := []struct {
		end, start float64
		n          int
	}{
		{0, 100, 5},
		{100, 0, 5},
		{100, 50, 0},
		{-10, 50, 5},
	}
	for _, c := range cases {
		if got := CAGR(c.end, c.start, c.n); got != 0 {
			t.Errorf("CAGR(%v,%v,%v) = %v, want 0", c.end, c.start, c.n, got)
		}
	}
}

func TestStability_FewerThanTwoPoints(t *testing.T) {
	if got := Stability([]float64{5}); got != 0 {
		t.Errorf("Stability(single point) = %v, want 0", got)
	}
}

func TestStability_NonPositiveMean(t *testing.T) {
	if got := Stability([]float64{-1, -2, -3}); got != 0 {
		t.Errorf("Stability(negative mean) = %v, want 0", got)
	}
}

func TestStability_ConstantSeriesIsMaximallyStable(t *testing.T) {
	got := Stability([]float64{10, 10, 10})
	if got != 1 {
		t.Errorf("Stability(constant) = %v, want 1 (zero CV)", got)
	}
}

func TestTrend_FewerThanTwoPoints(t *testing.T) {
	if got := Trend([]float64{1}); got != 0 {
		t.Errorf("Trend(single point) = %v, want 0", got)
	}
}

func TestTrend_RisingSeriesIsPositive(t *testing.T) {
	// Stored reverse-chronological: index 0 is most recent.
	got := Trend([]float64{130, 120, 110, 100})
	if got <= 0 {
		t.Errorf("Trend(rising) = %v, want > 0", got)
	}
}

func TestTrend_FallingSeriesIsNegative(t *testing.T) {
	got := Trend([]float64{100, 110, 120, 130})
	if got >= 0 {
		t.Errorf("Trend(falling) = %v, want < 0", got)
	}
}

func TestClamp01(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{-1, 0},
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{2, 1},
	}
	for _, c := range cases {
		if got := clamp01(c.in); got != c.want {
			t.Errorf("clamp01(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
