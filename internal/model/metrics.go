// Package model defines the normalized per-issuer record types produced by
// the normalizer and consumed by the analyzers, scorer and orchestrator.
package model

// FinancialMetrics holds one issuer's aligned financial history.
//
// All series are reverse-chronological: index 0 is the most recent period.
// Every series and Dates share the same length; this is enforced by the
// normalizer, never by these constructors.
type FinancialMetrics struct {
	Symbol string

	Revenue     []float64
	EPS         []float64
	FCF         []float64
	ROE         []float64
	GrossMargin []float64
	OperMargin  []float64

	WorkingCapital []float64
	RDExpense      []float64
	CapEx          []float64 // non-negative magnitude

	TotalDebt         []float64
	TotalEquity       []float64
	TotalAssets       []float64
	OperatingCashFlow []float64

	// Derived, populated by the normalizer under the divide-by-nonpositive
	// -> 0 rule; never NaN or +/-Inf.
	DebtToEquity      []float64
	InterestCoverage  []float64
	DebtToEBITDA      []float64
	OCFToNetIncome    []float64

	// Latest-only scalars.
	PER    float64
	PBR    float64
	TTMFCF float64

	Dates []string

	// EPSCAGR memoizes the growth analyzer's eps_cagr so the valuation
	// analyzer can consume it without recomputation (see cross-analyzer
	// dependency note).
	EPSCAGR float64
}

// Len reports the number of aligned periods.
func (m *FinancialMetrics) Len() int {
	return len(m.Dates)
}

// NewFinancialMetrics builds a zero-value metrics record for the given
// symbol. Constructors in this package are total: missing inputs map to
// nil/zero series rather than a partially populated struct.
func NewFinancialMetrics(symbol string) *FinancialMetrics {
	return &FinancialMetrics{Symbol: symbol}
}
