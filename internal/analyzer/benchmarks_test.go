package analyzer

import "testing"

func TestResolveBenchmarks_Nil(t *testing.T) {
	got := resolveBenchmarks(nil)
	want := DefaultBenchmarks()
	if got != want {
		t.Errorf("resolveBenchmarks(nil) = %+v, want %+v", got, want)
	}
}

func TestResolveBenchmarks_FillsOnlyNonPositiveFields(t *testing.T) {
	b := &Benchmarks{RevenueCAGRTarget: 0.5, EPSCAGRTarget: 0}
	got := resolveBenchmarks(b)

	if got.RevenueCAGRTarget != 0.5 {
		t.Errorf("RevenueCAGRTarget = %v, want the explicit override preserved", got.RevenueCAGRTarget)
	}
	if got.EPSCAGRTarget != DefaultBenchmarks().EPSCAGRTarget {
		t.Errorf("EPSCAGRTarget = %v, want the default fallback", got.EPSCAGRTarget)
	}
}
