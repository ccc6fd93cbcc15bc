// Package normalizer turns a raw fetched bundle into the aligned
// FinancialMetrics record the analyzers consume, and extracts the
// InsiderTradingInfo/EarningsInfo/SentimentInfo auxiliary bundles.
package normalizer

import (
	"errors"
	"sort"

	"github.com/brightloop/screener/internal/fetcher"
	"github.com/brightloop/screener/internal/model"
	"github.com/brightloop/screener/internal/provider"
)

// ErrInsufficientData is returned when a bundle does not carry enough
// common history to build a FinancialMetrics record.
var ErrInsufficientData = errors.New("normalizer: insufficient data")

// Normalize builds a FinancialMetrics from bundle, or ErrInsufficientData
// if income, cash-flow and balance-sheet statements share no common
// period.
func Normalize(bundle *fetcher.Bundle) (*model.FinancialMetrics, error) {
	incomeByDate := indexIncome(bundle.Income)
	cashByDate := indexCashFlow(bundle.CashFlow)
	balanceByDate := indexBalance(bundle.Balance)
	ratiosByDate := indexRatios(bundle.Ratios)
	metricsByDate := indexKeyMetrics(bundle.KeyMetrics)

	dates := intersectDates(incomeByDate, cashByDate, balanceByDate, ratiosByDate, metricsByDate)
	if len(dates) == 0 {
		return nil, ErrInsufficientData
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	m := model.NewFinancialMetrics(bundle.Symbol)
	m.Dates = dates

	for _, d := range dates {
		inc := incomeByDate[d]
		cf := cashByDate[d]
		bs := balanceByDate[d]
		ratio := ratiosByDate[d]

		revenue := toFloat(inc.Revenue)
		eps := toFloat(inc.EPS)
		ocf := toFloat(cf.OperatingCashFlow)
		capex := absFloat(toFloat(cf.CapitalExpenditure))
		fcf := ocf - capex

		grossMargin := safeDivide(toFloat(inc.GrossProfit), revenue)
		operMargin := safeDivide(toFloat(inc.OperatingIncome), revenue)

		workingCapital := toFloat(bs.TotalCurrentAssets) - toFloat(bs.TotalCurrentLiabilities)
		totalDebt := toFloat(bs.TotalDebt)
		totalEquity := toFloat(bs.TotalStockholdersEquity)
		totalAssets := toFloat(bs.TotalAssets)

		roe := toFloat(ratio.ROE)
		if roe == 0 && totalEquity > 0 {
			roe = safeDivide(toFloat(inc.NetIncome), totalEquity)
		}

		debtToEquity := safeDivide(totalDebt, totalEquity)
		interestCoverage := safeDivide(toFloat(inc.OperatingIncome), toFloat(inc.InterestExpense))
		debtToEBITDA := safeDivide(totalDebt, toFloat(inc.EBITDA))
		ocfToNetIncome := safeDivide(ocf, toFloat(inc.NetIncome))

		m.Revenue = append(m.Revenue, revenue)
		m.EPS = append(m.EPS, eps)
		m.FCF = append(m.FCF, fcf)
		m.ROE = append(m.ROE, roe)
		m.GrossMargin = append(m.GrossMargin, grossMargin)
		m.OperMargin = append(m.OperMargin, operMargin)
		m.WorkingCapital = append(m.WorkingCapital, workingCapital)
		m.RDExpense = append(m.RDExpense, toFloat(inc.ResearchAndDevelopmentExpenses))
		m.CapEx = append(m.CapEx, capex)
		m.TotalDebt = append(m.TotalDebt, totalDebt)
		m.TotalEquity = append(m.TotalEquity, totalEquity)
		m.TotalAssets = append(m.TotalAssets, totalAssets)
		m.OperatingCashFlow = append(m.OperatingCashFlow, ocf)
		m.DebtToEquity = append(m.DebtToEquity, debtToEquity)
		m.InterestCoverage = append(m.InterestCoverage, interestCoverage)
		m.DebtToEBITDA = append(m.DebtToEBITDA, debtToEBITDA)
		m.OCFToNetIncome = append(m.OCFToNetIncome, ocfToNetIncome)
	}

	if bundle.RatiosTTM != nil {
		m.PER = toFloat(bundle.RatiosTTM.PERatioTTM)
		m.PBR = toFloat(bundle.RatiosTTM.PBRatioTTM)
	}
	m.TTMFCF = ttmFCF(m.FCF)

	return m, nil
}

// ttmFCF sums the most recent four periods of free cash flow, or fewer if
// fewer than four are available.
func ttmFCF(fcf []float64) float64 {
	n := len(fcf)
	if n > 4 {
		n = 4
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += fcf[i]
	}
	return sum
}

func safeDivide(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func toFloat(d interface{ Float64() (float64, bool) }) float64 {
	f, _ := d.Float64()
	return f
}

func indexIncome(rows []provider.IncomeStatement) map[string]provider.IncomeStatement {
	out := make(map[string]provider.IncomeStatement, len(rows))
	for _, r := range rows {
		out[r.Date] = r
	}
	return out
}

func indexCashFlow(rows []provider.CashFlowStatement) map[string]provider.CashFlowStatement {
	out := make(map[string]provider.CashFlowStatement, len(rows))
	for _, r := range rows {
		out[r.Date] = r
	}
	return out
}

func indexBalance(rows []provider.BalanceSheet) map[string]provider.BalanceSheet {
	out := make(map[string]provider.BalanceSheet, len(rows))
	for _, r := range rows {
		out[r.Date] = r
	}
	return out
}

func indexRatios(rows []provider.Ratios) map[string]provider.Ratios {
	out := make(map[string]provider.Ratios, len(rows))
	for _, r := range rows {
		out[r.Date] = r
	}
	return out
}

func indexKeyMetrics(rows []provider.KeyMetrics) map[string]provider.KeyMetrics {
	out := make(map[string]provider.KeyMetrics, len(rows))
	for _, r := range rows {
		out[r.Date] = r
	}
	return out
}

// intersectDates returns the dates common to income, cash-flow and
// balance-sheet statements; ratios and key-metrics further narrow the
// intersection only when present (a symbol with no ratios data at all
// must not be penalized for it).
func intersectDates(income map[string]provider.IncomeStatement, cash map[string]provider.CashFlowStatement, balance map[string]provider.BalanceSheet, ratios map[string]provider.Ratios, metrics map[string]provider.KeyMetrics) []string {
	var dates []string
	for d := range income {
		if _, ok := cash[d]; !ok {
			continue
		}
		if _, ok := balance[d]; !ok {
			continue
		}
		if len(ratios) > 0 {
			if _, ok := ratios[d]; !ok {
				continue
			}
		}
		if len(metrics) > 0 {
			if _, ok := metrics[d]; !ok {
				continue
			}
		}
		dates = append(dates, d)
	}
	return dates
}
