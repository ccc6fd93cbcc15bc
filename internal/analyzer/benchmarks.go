package analyzer

// Benchmarks carries the sector-tunable targets and caps referenced across
// the four analyzers. A nil *Benchmarks is equivalent to DefaultBenchmarks().
type Benchmarks struct {
	RevenueCAGRTarget float64
	EPSCAGRTarget float64
	FCFCAGRTarget float64
	DebtToEquityMax float64
	PERMax float64
	PBRMax float64
}

// DefaultBenchmarks returns the fallback targets for when no
// sector-specific benchmark is configured.
func DefaultBenchmarks() Benchmarks {
	return Benchmarks{
		RevenueCAGRTarget: 0.20,
		EPSCAGRTarget: 0.15,
		FCFCAGRTarget: 0.15,
		DebtToEquityMax: 2.0,
		PERMax: 50.0,
		PBRMax: 10.0,
	}
}

func resolveBenchmarks(b *Benchmarks) Benchmarks {
	if b == nil {
		return DefaultBenchmarks()
	}
	resolved := *b
	defaults := DefaultBenchmarks()
	if resolved.RevenueCAGRTarget <= 0 {
		resolved.RevenueCAGRTarget = defaults.RevenueCAGRTarget
	}
	if resolved.EPSCAGRTarget <= 0 {
		resolved.EPSCAGRTarget = defaults.EPSCAGRTarget
	}
	if resolved.FCFCAGRTarget <= 0 {
		resolved.FCFCAGRTarget = defaults.FCFCAGRTarget
	}
	if resolved.DebtToEquityMax <= 0 {
		resolved.DebtToEquityMax = defaults.DebtToEquityMax
	}
	if resolved.PERMax <= 0 {
		resolved.PERMax = defaults.PERMax
	}
	if resolved.PBRMax <= 0 {
		resolved.PBRMax = defaults.PBRMax
	}
	return resolved
}
