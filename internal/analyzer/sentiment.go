package analyzer

import "github.com/brightloop/screener/internal/model"

const neutralSentiment = 0.5

// Sentiment combines insider/earnings/social sub-scores weighted
// 0.40/0.35/0.25. Any missing aux bundle contributes the neutral score
// 0.5 for its axis rather than being dropped from the weighted sum.
func Sentiment(insider *model.InsiderTradingInfo, earnings *model.EarningsInfo, sentiment *model.SentimentInfo) (map[string]float64, float64) {
	insiderScore := neutralSentiment
	if insider != nil {
		insiderScore = insiderSentimentScore(insider)
	}
	earningsScore := neutralSentiment
	if earnings != nil {
		earningsScore = earningsSentimentScore(earnings)
	}
	socialScore := neutralSentiment
	if sentiment != nil {
		socialScore = socialSentimentScore(sentiment)
	}

	score := 0.40*insiderScore + 0.35*earningsScore + 0.25*socialScore

	detail := map[string]float64{
		"insider": insiderScore,
		"earnings": earningsScore,
		"social": socialScore,
	}
	return detail, clamp01(score)
}

func insiderSentimentScore(info *model.InsiderTradingInfo) float64 {
	countBand := countOrValueBand(float64(info.BuyCount), float64(info.SellCount))
	valueBand := countOrValueBand(info.TotalBuyValue, info.TotalSellValue)
	significantBonus := 0.0
	if info.SignificantBuys {
		significantBonus = 1.0
	}
	return clamp01(0.4*countBand + 0.4*valueBand + 0.2*significantBonus)
}

// countOrValueBand bands the ratio buy/max(sell,1), collapsing the
// degenerate 0/0 (no activity on either side) case to neutral.
func countOrValueBand(buy, sell float64) float64 {
	if buy == 0 && sell == 0 {
		return 0.5
	}
	denom := sell
	if denom < 1 {
		denom = 1
	}
	ratio := buy / denom
	switch {
	case ratio >= 2:
		return 1
	case ratio >= 1:
		return 0.8
	case ratio >= 0.5:
		return 0.4
	default:
		return 0.2
	}
}

func earningsSentimentScore(info *model.EarningsInfo) float64 {
	return clamp01(0.6*epsSurpriseBand(info.EPSSurprise) + 0.4*revenueSurpriseBand(info.RevenueSurprise))
}

func epsSurpriseBand(surprise float64) float64 {
	switch {
	case surprise >= 0.20:
		return 1.0
	case surprise >= 0.10:
		return 0.8
	case surprise >= 0.05:
		return 0.6
	case surprise >= 0:
		return 0.5
	case surprise >= -0.10:
		return 0.3
	default:
		return 0.0
	}
}

func revenueSurpriseBand(surprise float64) float64 {
	switch {
	case surprise >= 0.10:
		return 1.0
	case surprise >= 0.05:
		return 0.8
	case surprise >= 0.02:
		return 0.6
	case surprise >= 0:
		return 0.5
	case surprise >= -0.05:
		return 0.3
	default:
		return 0.0
	}
}

func socialSentimentScore(info *model.SentimentInfo) float64 {
	share := info.BullishPercent / 100
	return clamp01(0.7*bullishShareBand(share) + 0.3*sentimentChangeBand(info.SentimentChange))
}

func bullishShareBand(share float64) float64 {
	switch {
	case share >= 0.8:
		return 1.0
	case share >= 0.6:
		return 0.8
	case share >= 0.4:
		return 0.5
	case share >= 0.2:
		return 0.3
	default:
		return 0.1
	}
}

func sentimentChangeBand(change float64) float64 {
	switch {
	case change >= 5:
		return 1.0
	case change >= 2:
		return 0.7
	case change >= -2:
		return 0.5
	case change >= -5:
		return 0.3
	default:
		return 0.0
	}
}
