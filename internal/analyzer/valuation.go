package analyzer

import "github.com/brightloop/screener/internal/model"

// Valuation scores P/E, P/B, FCF yield and growth-adjusted value. It
// consumes the Growth analyzer's
// memoized eps_cagr (metrics.EPSCAGR) and the issuer's market cap.
// Sub-scores combined per/pbr/fcf_yield/growth_adjusted at
// 0.30/0.20/0.30/0.20.
func Valuation(metrics *model.FinancialMetrics, marketCap float64, bench *Benchmarks) (map[string]float64, float64) {
	b := resolveBenchmarks(bench)

	per := perScore(metrics.PER, b.PERMax)
	pbr := pbrScore(metrics.PBR, b.PBRMax)
	fcfYield, fcfYieldScoreVal := fcfYieldScore(metrics.TTMFCF, marketCap)
	growthAdjusted, peg := growthAdjustedScore(metrics.PER, metrics.EPSCAGR)

	score := 0.30*per + 0.20*pbr + 0.30*fcfYieldScoreVal + 0.20*growthAdjusted

	detail := map[string]float64{
		"per_score": per,
		"pbr_score": pbr,
		"fcf_yield": fcfYield,
		"fcf_yield_score": fcfYieldScoreVal,
		"peg": peg,
		"growth_adjusted": growthAdjusted,
	}
	return detail, clamp01(score)
}

func perScore(per, perMax float64) float64 {
	switch {
	case per <= 0:
		return 0
	case per <= 5:
		return 1
	case per >= perMax:
		return 0
	default:
		return clamp01(1 - (per-5)/(perMax-5))
	}
}

func pbrScore(pbr, pbrMax float64) float64 {
	switch {
	case pbr <= 0:
		return 0
	case pbr <= 1:
		return 1
	case pbr >= pbrMax:
		return 0
	default:
		return clamp01(1 - (pbr-1)/(pbrMax-1))
	}
}

func fcfYieldScore(ttmFCF, marketCap float64) (yield, score float64) {
	if marketCap <= 0 || ttmFCF <= 0 {
		return 0, 0
	}
	yield = ttmFCF / marketCap
	switch {
	case yield >= 0.08:
		score = 1
	case yield >= 0.06:
		score = 0.9
	case yield >= 0.04:
		score = 0.7
	case yield >= 0.02:
		score = 0.5
	case yield >= 0.01:
		score = 0.3
	default:
		score = 0.1
	}
	return yield, score
}

func growthAdjustedScore(per, epsCAGR float64) (score, peg float64) {
	if per <= 0 || epsCAGR <= 0 {
		return 0, 0
	}
	peg = per / (epsCAGR * 100)
	switch {
	case peg <= 0.5:
		score = 1
	case peg <= 0.75:
		score = 0.9
	case peg <= 1:
		score = 0.8
	case peg <= 1.5:
		score = 0.6
	case peg <= 2:
		score = 0.4
	case peg <= 3:
		score = 0.2
	default:
		score = 0
	}
	return score, peg
}
