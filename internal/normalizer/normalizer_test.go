package normalizer

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/brightloop/screener/internal/fetcher"
	"github.com/brightloop/screener/internal/provider"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func TestNormalize_InsufficientData(t *testing.T) {
	_, err := Normalize(&fetcher.Bundle{Symbol: "AAPL"})
	if err != ErrInsufficientData {
		t.Fatalf("error = %v, want ErrInsufficientData", err)
	}
}

func TestNormalize_AlignsOnCommonDates(t *testing.T) {
	bundle := &fetcher.Bundle{
		Symbol: "AAPL",
		Income: []provider.IncomeStatement{
			{Date: "2023-12-31", Revenue: d(100), GrossProfit: d(40), OperatingIncome: d(20), NetIncome: d(15), EBITDA: d(25), InterestExpense: d(2)},
			{Date: "2024-12-31", Revenue: d(120), GrossProfit: d(50), OperatingIncome: d(25), NetIncome: d(18), EBITDA: d(30), InterestExpense: d(2)},
			// No corresponding cash-flow/balance row for this period; must be excluded.
			{Date: "2022-12-31", Revenue: d(80)},
		},
		CashFlow: []provider.CashFlowStatement{
			{Date: "2023-12-31", OperatingCashFlow: d(18), CapitalExpenditure: d(-5)},
			{Date: "2024-12-31", OperatingCashFlow: d(22), CapitalExpenditure: d(-6)},
		},
		Balance: []provider.BalanceSheet{
			{Date: "2023-12-31", TotalCurrentAssets: d(50), TotalCurrentLiabilities: d(30), TotalDebt: d(40), TotalStockholdersEquity: d(60), TotalAssets: d(150)},
			{Date: "2024-12-31", TotalCurrentAssets: d(55), TotalCurrentLiabilities: d(32), TotalDebt: d(38), TotalStockholdersEquity: d(70), TotalAssets: d(160)},
		},
	}

	m, err := Normalize(bundle)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	if len(m.Dates) != 2 {
		t.Fatalf("Dates = %v, want 2 aligned periods", m.Dates)
	}
	if m.Dates[0] != "2024-12-31" {
		t.Errorf("Dates[0] = %q, want the most recent period first", m.Dates[0])
	}
	if m.Revenue[0] != 120 {
		t.Errorf("Revenue[0] = %v, want 120", m.Revenue[0])
	}
	if m.GrossMargin[0] != 50.0/120.0 {
		t.Errorf("GrossMargin[0] = %v, want %v", m.GrossMargin[0], 50.0/120.0)
	}
	if m.WorkingCapital[0] != 55-32 {
		t.Errorf("WorkingCapital[0] = %v, want %v", m.WorkingCapital[0], 55-32)
	}
	if m.FCF[0] != 22-6 {
		// capex is stored as a non-negative magnitude: abs(-6) = 6, fcf = ocf - |capex|
		t.Errorf("FCF[0] = %v, want %v", m.FCF[0], 22-6.0)
	}
}

func TestNormalize_RatiosAndMetricsFurtherNarrowOnlyWhenPresent(t *testing.T) {
	bundle := &fetcher.Bundle{
		Symbol: "AAPL",
		Income: []provider.IncomeStatement{
			{Date: "2024-12-31", Revenue: d(100)},
		},
		CashFlow: []provider.CashFlowStatement{
			{Date: "2024-12-31"},
		},
		Balance: []provider.BalanceSheet{
			{Date: "2024-12-31"},
		},
		Ratios: []provider.Ratios{
			{Date: "2023-12-31", ROE: d(0.1)}, // no matching period, should exclude 2024-12-31 since ratios is non-empty
		},
	}

	_, err := Normalize(bundle)
	if err != ErrInsufficientData {
		t.Fatalf("error = %v, want ErrInsufficientData (ratios present but no matching period)", err)
	}
}

func TestNormalize_TTMFieldsFromRatiosTTM(t *testing.T) {
	bundle := &fetcher.Bundle{
		Symbol: "AAPL",
		Income: []provider.IncomeStatement{{Date: "2024-12-31", Revenue: d(100)}},
		CashFlow: []provider.CashFlowStatement{{Date: "2024-12-31", OperatingCashFlow: d(10)}},
		Balance:  []provider.BalanceSheet{{Date: "2024-12-31"}},
		RatiosTTM: &provider.RatiosTTM{PERatioTTM: d(25), PBRatioTTM: d(5)},
	}

	m, err := Normalize(bundle)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if m.PER != 25 || m.PBR != 5 {
		t.Errorf("PER/PBR = %v/%v, want 25/5", m.PER, m.PBR)
	}
}

func TestTTMFCF_CapsAtFourPeriods(t *testing.T) {
	got := ttmFCF([]float64{1, 2, 3, 4, 5})
	if got != 10 {
		t.Errorf("ttmFCF() = %v, want 10 (sum of first 4)", got)
	}
}

func TestTTMFCF_FewerThanFourPeriods(t *testing.T) {
	got := ttmFCF([]float64{1, 2})
	if got != 3 {
		t.Errorf("ttmFCF() = %v, want 3", got)
	}
}

func TestSafeDivide(t *testing.T) {
	if got := safeDivide(10, 2); got != 5 {
		t.Errorf("safeDivide(10,2) = %v, want 5", got)
	}
	if got := safeDivide(10, 0); got != 0 {
		t.Errorf("safeDivide(10,0) = %v, want 0", got)
	}
	if got := safeDivide(10, -5); got != 0 {
		t.Errorf("safeDivide(10,-5) = %v, want 0", got)
	}
}

func TestPrepareInsiderTradingInfo_Empty(t *testing.T) {
	if got := PrepareInsiderTradingInfo(nil); got != nil {
		t.Errorf("PrepareInsiderTradingInfo(nil) = %v, want nil", got)
	}
}

func TestPrepareInsiderTradingInfo_ClassifiesByLeadingCharacter(t *testing.T) {
	trades := []provider.InsiderTrade{
		{TransactionType: "P-Purchase", SecuritiesTransacted: d(100), Price: d(10)},
		{TransactionType: "S-Sale", SecuritiesTransacted: d(50), Price: d(20)},
		{TransactionType: "M-Exempt", SecuritiesTransacted: d(1000), Price: d(1)},
	}

	got := PrepareInsiderTradingInfo(trades)

	if got.BuyCount != 1 || got.SellCount != 1 {
		t.Fatalf("BuyCount/SellCount = %d/%d, want 1/1", got.BuyCount, got.SellCount)
	}
	if got.TotalBuyValue != 1000 {
		t.Errorf("TotalBuyValue = %v, want 1000", got.TotalBuyValue)
	}
	if got.TotalSellValue != 1000 {
		t.Errorf("TotalSellValue = %v, want 1000", got.TotalSellValue)
	}
}

func TestPrepareEarningsInfo_PicksLatestWithActual(t *testing.T) {
	est := d(1.0)
	actual1 := d(1.1)
	actual2 := d(1.2)
	entries := []provider.EarningsCalendarEntry{
		{Date: "2024-01-01", EPS: &actual1, EPSEstimated: &est},
		{Date: "2024-04-01", EPS: &actual2, EPSEstimated: &est},
		{Date: "2024-07-01", EPS: nil, EPSEstimated: &est},
	}

	got := PrepareEarningsInfo(entries)
	if got == nil {
		t.Fatal("expected non-nil EarningsInfo")
	}
	if got.ActualEPS != 1.2 {
		t.Errorf("ActualEPS = %v, want 1.2 (latest dated row with an actual)", got.ActualEPS)
	}
}

func TestPrepareEarningsInfo_NoActualIsNil(t *testing.T) {
	est := d(1.0)
	entries := []provider.EarningsCalendarEntry{{Date: "2024-01-01", EPSEstimated: &est}}
	if got := PrepareEarningsInfo(entries); got != nil {
		t.Errorf("PrepareEarningsInfo() = %v, want nil", got)
	}
}

func TestPrepareSentimentInfo_Empty(t *testing.T) {
	if got := PrepareSentimentInfo(nil, nil); got != nil {
		t.Errorf("PrepareSentimentInfo(nil, nil) = %v, want nil", got)
	}
}

func TestPrepareSentimentInfo_LatestAndChange(t *testing.T) {
	bullish := []provider.SocialSentimentEntry{
		{Date: "2024-01-01", StocktwitsSentiment: d(0.5)},
		{Date: "2024-01-02", StocktwitsSentiment: d(0.7)},
	}
	bearish := []provider.SocialSentimentEntry{
		{Date: "2024-01-02", StocktwitsSentiment: d(0.1)},
	}

	got := PrepareSentimentInfo(bullish, bearish)

	if got.BullishPercent != 70 {
		t.Errorf("BullishPercent = %v, want 70", got.BullishPercent)
	}
	if got.SentimentChange != 20 {
		t.Errorf("SentimentChange = %v, want 20 (70 - 50)", got.SentimentChange)
	}
}
