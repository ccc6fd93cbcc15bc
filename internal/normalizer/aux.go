package normalizer

import (
	"sort"
	"strings"

	"github.com/brightloop/screener/internal/model"
	"github.com/brightloop/screener/internal/provider"
)

// PrepareInsiderTradingInfo classifies raw insider transactions into buys
// and sells by the leading character of the transaction type ('P'/'B' ⇒
// buy, 'S' ⇒ sell, anything else ignored) and aggregates counts and
// dollar values. Returns nil (no info) when trades is empty, never a
// partially populated struct.
func PrepareInsiderTradingInfo(trades []provider.InsiderTrade) *model.InsiderTradingInfo {
	if len(trades) == 0 {
		return nil
	}

	var buyCount, sellCount int
	var buyValue, sellValue float64
	for _, t := range trades {
		kind := strings.ToUpper(strings.TrimSpace(t.TransactionType))
		if kind == "" {
			continue
		}
		value := toFloat(t.SecuritiesTransacted) * toFloat(t.Price)
		switch kind[0] {
		case 'P', 'B':
			buyCount++
			buyValue += value
		case 'S':
			sellCount++
			sellValue += value
		}
	}

	return model.NewInsiderTradingInfo(buyCount, sellCount, buyValue, sellValue)
}

// PrepareEarningsInfo extracts the most recent calendar row carrying an
// actual EPS figure. Returns nil when no row has a realized actual.
func PrepareEarningsInfo(entries []provider.EarningsCalendarEntry) *model.EarningsInfo {
	var latest *provider.EarningsCalendarEntry
	for i := range entries {
		e := &entries[i]
		if e.EPS == nil {
			continue
		}
		if latest == nil || e.Date > latest.Date {
			latest = e
		}
	}
	if latest == nil {
		return nil
	}

	actualEPS := toFloat(*latest.EPS)
	var estEPS, actualRev, estRev float64
	if latest.EPSEstimated != nil {
		estEPS = toFloat(*latest.EPSEstimated)
	}
	if latest.Revenue != nil {
		actualRev = toFloat(*latest.Revenue)
	}
	if latest.RevenueEstimated != nil {
		estRev = toFloat(*latest.RevenueEstimated)
	}

	return model.NewEarningsInfo(actualEPS, estEPS, actualRev, estRev)
}

// PrepareSentimentInfo derives bullish/bearish/neutral percentages from
// the two parallel stocktwits sentiment feeds. Returns nil when both
// feeds are empty.
func PrepareSentimentInfo(bullish, bearish []provider.SocialSentimentEntry) *model.SentimentInfo {
	if len(bullish) == 0 && len(bearish) == 0 {
		return nil
	}

	latestBullish, prevBullish := latestAndPrevious(bullish)
	latestBearish, _ := latestAndPrevious(bearish)

	bullishPct := latestBullish * 100
	bearishPct := latestBearish * 100
	neutralPct := 100 - bullishPct - bearishPct
	if neutralPct < 0 {
		neutralPct = 0
	}

	return model.NewSentimentInfo(bullishPct, bearishPct, neutralPct, prevBullish*100)
}

// latestAndPrevious sorts by date descending and returns the latest and
// second-latest stocktwits sentiment fractions. When fewer than two
// points exist, previous equals latest so sentiment_change is zero.
func latestAndPrevious(entries []provider.SocialSentimentEntry) (latest, previous float64) {
	if len(entries) == 0 {
		return 0, 0
	}
	sorted := make([]provider.SocialSentimentEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date > sorted[j].Date })

	latest = toFloat(sorted[0].StocktwitsSentiment)
	if len(sorted) > 1 {
		previous = toFloat(sorted[1].StocktwitsSentiment)
	} else {
		previous = latest
	}
	return latest, previous
}
