// Package signals implements the supplemental, explainable annotation
// pass: a fixed, ordered set of Rule implementations evaluated
// against a completed StockAnalysisResult. Signals never feed back into
// scoring; the Orchestrator never consults this package.
package signals

import (
	"fmt"

	"github.com/brightloop/screener/internal/analyzer"
	"github.com/brightloop/screener/internal/model"
)

// RuleContext carries the fields a Rule may inspect, built once per
// result by Generate.
type RuleContext struct {
	QualityScore float64
	Metrics *model.FinancialMetrics
	Insider *model.InsiderTradingInfo
}

// Rule evaluates one context and returns a Signal, or nil if its
// condition does not hold.
type Rule interface {
	Evaluate(ctx *RuleContext) *model.Signal
}

// defaultRules returns the fixed, ordered rule set; no external
// registration is supported.
func defaultRules() []Rule {
	return []Rule{
		&HighQualityRule{},
		&LowQualityRule{},
		&InsiderBuyingRule{},
		&InsiderSellingRule{},
		&HighGrowthRule{},
		&NegativeMarginRule{},
		&HighDebtRule{},
		&ImprovingFundamentalsRule{},
	}
}

// HighQualityRule flags a strong composite quality score.
type HighQualityRule struct{}

func (r *HighQualityRule) Evaluate(ctx *RuleContext) *model.Signal {
	if ctx.QualityScore >= 0.8 {
		return &model.Signal{
			Type: model.SignalBullish,
			Category: model.CategoryFundamental,
			Message: fmt.Sprintf("Strong composite quality score of %.2f", ctx.QualityScore),
			Priority: 4,
			Data: map[string]any{"quality_score": ctx.QualityScore},
		}
	}
	return nil
}

// LowQualityRule flags a weak composite quality score.
type LowQualityRule struct{}

func (r *LowQualityRule) Evaluate(ctx *RuleContext) *model.Signal {
	if ctx.QualityScore <= 0.3 {
		return &model.Signal{
			Type: model.SignalBearish,
			Category: model.CategoryFundamental,
			Message: fmt.Sprintf("Weak composite quality score of %.2f", ctx.QualityScore),
			Priority: 4,
			Data: map[string]any{"quality_score": ctx.QualityScore},
		}
	}
	return nil
}

// InsiderBuyingRule flags significant insider accumulation.
type InsiderBuyingRule struct{}

func (r *InsiderBuyingRule) Evaluate(ctx *RuleContext) *model.Signal {
	info := ctx.Insider
	if info == nil {
		return nil
	}
	if info.BuyCount >= 3 && info.TotalBuyValue > 100_000 {
		return &model.Signal{
			Type: model.SignalBullish,
			Category: model.CategoryInsider,
			Message: fmt.Sprintf("Insider buying: %d buys totaling $%.0fK", info.BuyCount, info.TotalBuyValue/1000),
			Priority: 4,
			Data: map[string]any{"buy_count": info.BuyCount, "total_buy_value": info.TotalBuyValue},
		}
	}
	return nil
}

// InsiderSellingRule flags heavy net insider selling.
type InsiderSellingRule struct{}

func (r *InsiderSellingRule) Evaluate(ctx *RuleContext) *model.Signal {
	info := ctx.Insider
	if info == nil {
		return nil
	}
	netValue := info.TotalBuyValue - info.TotalSellValue
	if info.SellCount >= 5 && netValue < -500_000 {
		return &model.Signal{
			Type: model.SignalWarning,
			Category: model.CategoryInsider,
			Message: fmt.Sprintf("Heavy insider selling: %d sells totaling $%.1fM net", info.SellCount, netValue/1_000_000),
			Priority: 3,
			Data: map[string]any{"sell_count": info.SellCount, "net_value": netValue},
		}
	}
	return nil
}

// HighGrowthRule flags strong revenue CAGR.
type HighGrowthRule struct{}

func (r *HighGrowthRule) Evaluate(ctx *RuleContext) *model.Signal {
	m := ctx.Metrics
	if m == nil || len(m.Revenue) < 2 {
		return nil
	}
	cagr := revenueCAGR(m.Revenue)
	if cagr > 0.20 {
		return &model.Signal{
			Type: model.SignalBullish,
			Category: model.CategoryFundamental,
			Message: fmt.Sprintf("Strong revenue CAGR of %.1f%%", cagr*100),
			Priority: 3,
			Data: map[string]any{"revenue_cagr": cagr},
		}
	}
	return nil
}

// NegativeMarginRule warns about a negative latest operating margin.
type NegativeMarginRule struct{}

func (r *NegativeMarginRule) Evaluate(ctx *RuleContext) *model.Signal {
	m := ctx.Metrics
	if m == nil || len(m.OperMargin) == 0 {
		return nil
	}
	if m.OperMargin[0] < 0 {
		return &model.Signal{
			Type: model.SignalWarning,
			Category: model.CategoryFundamental,
			Message: fmt.Sprintf("Negative operating margin of %.1f%% indicates unprofitable operations", m.OperMargin[0]*100),
			Priority: 4,
			Data: map[string]any{"operating_margin": m.OperMargin[0]},
		}
	}
	return nil
}

// HighDebtRule warns about elevated leverage.
type HighDebtRule struct{}

func (r *HighDebtRule) Evaluate(ctx *RuleContext) *model.Signal {
	m := ctx.Metrics
	if m == nil || len(m.DebtToEquity) == 0 {
		return nil
	}
	if m.DebtToEquity[0] > 2.0 {
		return &model.Signal{
			Type: model.SignalWarning,
			Category: model.CategoryFundamental,
			Message: fmt.Sprintf("High debt-to-equity ratio of %.2f indicates elevated leverage", m.DebtToEquity[0]),
			Priority: 3,
			Data: map[string]any{"debt_to_equity": m.DebtToEquity[0]},
		}
	}
	return nil
}

// ImprovingFundamentalsRule flags year-over-year improvement across cash
// quality, margin, capital efficiency and leverage at once — a scaled-down
// fundamental-momentum test in the spirit of Piotroski's F-Score, bounded
// to the series this system actually carries: OCFToNetIncome stands in for
// the earnings-quality test, GrossMargin for the margin test, Revenue over
// TotalAssets for the asset-turnover test, and DebtToEquity (improving
// means falling) for the leverage test. Net-income sign, current ratio and
// share-count dilution are not evaluated; this system's normalizer never
// retains those series.
type ImprovingFundamentalsRule struct{}

func (r *ImprovingFundamentalsRule) Evaluate(ctx *RuleContext) *model.Signal {
	m := ctx.Metrics
	if m == nil {
		return nil
	}

	passed := 0
	total := 0

	if improved := latestOverPrior(m.OCFToNetIncome); improved != nil {
		total++
		if *improved {
			passed++
		}
	}
	if improved := latestOverPrior(m.GrossMargin); improved != nil {
		total++
		if *improved {
			passed++
		}
	}
	if improved := assetTurnoverImproved(m.Revenue, m.TotalAssets); improved != nil {
		total++
		if *improved {
			passed++
		}
	}
	if improved := latestOverPrior(m.DebtToEquity); improved != nil {
		total++
		if !*improved {
			passed++
		}
	}

	if total < 3 || passed < total {
		return nil
	}

	return &model.Signal{
		Type: model.SignalBullish,
		Category: model.CategoryFundamental,
		Message: fmt.Sprintf("Improving fundamentals across %d of %d tracked measures year over year", passed, total),
		Priority: 3,
		Data: map[string]any{"passed": passed, "total": total},
	}
}

// latestOverPrior reports whether series[0] exceeds series[1], or nil if
// there isn't a prior period to compare against.
func latestOverPrior(series []float64) *bool {
	if len(series) < 2 {
		return nil
	}
	result := series[0] > series[1]
	return &result
}

// assetTurnoverImproved compares revenue/assets between the latest two
// periods without allocating an intermediate series.
func assetTurnoverImproved(revenue, assets []float64) *bool {
	if len(revenue) < 2 || len(assets) < 2 || assets[0] <= 0 || assets[1] <= 0 {
		return nil
	}
	result := revenue[0]/assets[0] > revenue[1]/assets[1]
	return &result
}

// revenueCAGR applies the same pinned convention as the growth analyzer:
// end = series[0], start = series[-1], n = len-1.
func revenueCAGR(series []float64) float64 {
	n := len(series)
	if n < 2 {
		return 0
	}
	return analyzer.CAGR(series[0], series[n-1], n-1)
}
