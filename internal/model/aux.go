package model

// InsiderTradingInfo summarizes insider buy/sell activity over a lookback
// window. A nil *InsiderTradingInfo means "no info" — callers never receive
// a partially populated struct.
type InsiderTradingInfo struct {
	BuyCount       int
	SellCount      int
	TotalBuyValue  float64
	TotalSellValue float64

	// NetBuySellRatio = buy_count / max(sell_count, 1).
	NetBuySellRatio float64

	// SignificantBuys is true iff buy_count > 0 and NetBuySellRatio >= 0.5.
	SignificantBuys bool
}

// NewInsiderTradingInfo derives the computed fields from raw counts/values.
func NewInsiderTradingInfo(buyCount, sellCount int, totalBuyValue, totalSellValue float64) *InsiderTradingInfo {
	denom := sellCount
	if denom < 1 {
		denom = 1
	}
	ratio := float64(buyCount) / float64(denom)
	return &InsiderTradingInfo{
		BuyCount:        buyCount,
		SellCount:       sellCount,
		TotalBuyValue:   totalBuyValue,
		TotalSellValue:  totalSellValue,
		NetBuySellRatio: ratio,
		SignificantBuys: buyCount > 0 && ratio >= 0.5,
	}
}

// EarningsInfo carries the latest actual/estimated EPS and revenue figures.
// A nil *EarningsInfo means no earnings data was available.
type EarningsInfo struct {
	ActualEPS      float64
	EstimatedEPS   float64
	ActualRevenue  float64
	EstimatedRevenue float64

	// EPSSurprise and RevenueSurprise are fractions, computed only when the
	// corresponding estimate is nonzero; zero otherwise.
	EPSSurprise     float64
	RevenueSurprise float64

	HasPositiveSurprise bool
}

// NewEarningsInfo computes surprise fractions per the divide-by-zero-safe
// rule: a surprise is only meaningful when its estimate is nonzero.
func NewEarningsInfo(actualEPS, estEPS, actualRev, estRev float64) *EarningsInfo {
	e := &EarningsInfo{
		ActualEPS:        actualEPS,
		EstimatedEPS:     estEPS,
		ActualRevenue:    actualRev,
		EstimatedRevenue: estRev,
	}
	if estEPS != 0 {
		e.EPSSurprise = (actualEPS - estEPS) / absf(estEPS)
	}
	if estRev != 0 {
		e.RevenueSurprise = (actualRev - estRev) / absf(estRev)
	}
	e.HasPositiveSurprise = e.EPSSurprise > 0
	return e
}

// SentimentTag is the overall classification of social sentiment.
type SentimentTag string

const (
	SentimentBullish SentimentTag = "bullish"
	SentimentBearish SentimentTag = "bearish"
	SentimentNeutral SentimentTag = "neutral"
)

// SentimentInfo carries bullish/bearish/neutral shares from social data.
// A nil *SentimentInfo means no sentiment data was available.
type SentimentInfo struct {
	BullishPercent float64
	BearishPercent float64
	NeutralPercent float64

	// SentimentChange = bullish - previous_bullish.
	SentimentChange float64

	Overall SentimentTag
}

// NewSentimentInfo classifies the overall tag using 60% cut-offs.
func NewSentimentInfo(bullish, bearish, neutral, previousBullish float64) *SentimentInfo {
	s := &SentimentInfo{
		BullishPercent:  bullish,
		BearishPercent:  bearish,
		NeutralPercent:  neutral,
		SentimentChange: bullish - previousBullish,
	}
	switch {
	case bullish >= 60:
		s.Overall = SentimentBullish
	case bearish >= 60:
		s.Overall = SentimentBearish
	default:
		s.Overall = SentimentNeutral
	}
	return s
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
