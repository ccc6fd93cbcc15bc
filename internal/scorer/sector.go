package scorer

import "github.com/brightloop/screener/internal/model"

// metricPath identifies one of the percentile-annotated metrics and
// whether higher values rank better.
type metricPath struct {
	key string
	higherIsBetter bool
	value func(*model.StockAnalysisResult) float64
}

var metricPaths = []metricPath{
	{"quality_score", true, func(r *model.StockAnalysisResult) float64 { return r.ComponentScores.QualityScore }},
	{"metrics.revenue_cagr", true, func(r *model.StockAnalysisResult) float64 { return mapValue(r.GrowthDetail, "revenue_cagr") }},
	{"metrics.eps_cagr", true, func(r *model.StockAnalysisResult) float64 { return mapValue(r.GrowthDetail, "eps_cagr") }},
	{"metrics.fcf_cagr", true, func(r *model.StockAnalysisResult) float64 { return mapValue(r.GrowthDetail, "fcf_cagr") }},
	{"metrics.latest_roe", true, func(r *model.StockAnalysisResult) float64 { return latestMetric(r, func(m *model.FinancialMetrics) []float64 { return m.ROE }) }},
	{"metrics.fcf_yield", true, func(r *model.StockAnalysisResult) float64 { return mapValue(r.ValuationDetail, "fcf_yield") }},
	{"metrics.per", false, func(r *model.StockAnalysisResult) float64 { return latestMetricScalar(r, func(m *model.FinancialMetrics) float64 { return m.PER }) }},
	{"metrics.debt_to_equity", false, func(r *model.StockAnalysisResult) float64 { return latestMetric(r, func(m *model.FinancialMetrics) []float64 { return m.DebtToEquity }) }},
	{"component_scores.growth_score", true, func(r *model.StockAnalysisResult) float64 { return r.ComponentScores.GrowthScore }},
	{"component_scores.risk_score", true, func(r *model.StockAnalysisResult) float64 { return r.ComponentScores.RiskScore }},
	{"component_scores.valuation_score", true, func(r *model.StockAnalysisResult) float64 { return r.ComponentScores.ValuationScore }},
}

func mapValue(m map[string]float64, key string) float64 {
	if m == nil {
		return 0
	}
	return m[key]
}

func latestMetric(r *model.StockAnalysisResult, pick func(*model.FinancialMetrics) []float64) float64 {
	if r.Metrics == nil {
		return 0
	}
	series := pick(r.Metrics)
	if len(series) == 0 {
		return 0
	}
	return series[0]
}

func latestMetricScalar(r *model.StockAnalysisResult, pick func(*model.FinancialMetrics) float64) float64 {
	if r.Metrics == nil {
		return 0
	}
	return pick(r.Metrics)
}

// AnnotateSectorPercentiles groups results by sector and, within each
// group of size >= 2, attaches the percentile rank for every
// metric path. Singleton sectors receive no annotation. results is
// mutated in place; the input order of results within a sector is the
// tie-break order.
func AnnotateSectorPercentiles(results []*model.StockAnalysisResult) {
	groups := make(map[string][]int)
	for i, r := range results {
		groups[r.Sector] = append(groups[r.Sector], i)
	}

	for _, indices := range groups {
		if len(indices) < 2 {
			continue
		}
		for _, path := range metricPaths {
			peers := make([]float64, len(indices))
			for pos, idx := range indices {
				peers[pos] = path.value(results[idx])
			}
			for pos, idx := range indices {
				r := results[idx]
				if r.SectorPercentile == nil {
					r.SectorPercentile = make(map[string]float64)
				}
				r.SectorPercentile[path.key] = Percentile(peers[pos], peers, pos, path.higherIsBetter)
			}
		}
	}
}
