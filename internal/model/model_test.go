package model

import "testing"

func TestNewInsiderTradingInfo(t *testing.T) {
	tests := []struct {
		name           string
		buyCount       int
		sellCount      int
		totalBuyValue  float64
		totalSellValue float64
		wantRatio      float64
		wantSignificant bool
	}{
		{"no sells floors denominator at 1", 3, 0, 300000, 0, 3, true},
		{"balanced buy/sell below threshold", 1, 5, 10000, 10000, 0.2, false},
		{"significant buying", 4, 4, 400000, 0, 1, true},
		{"no buys", 0, 10, 0, 500000, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewInsiderTradingInfo(tt.buyCount, tt.sellCount, tt.totalBuyValue, tt.totalSellValue)
			if info.NetBuySellRatio != tt.wantRatio {
				t.Errorf("NetBuySellRatio = %v, want %v", info.NetBuySellRatio, tt.wantRatio)
			}
			if info.SignificantBuys != tt.wantSignificant {
				t.Errorf("SignificantBuys = %v, want %v", info.SignificantBuys, tt.wantSignificant)
			}
		})
	}
}

func TestNewEarningsInfo(t *testing.T) {
	tests := []struct {
		name                string
		actualEPS, estEPS   float64
		actualRev, estRev   float64
		wantEPSSurprise     float64
		wantRevenueSurprise float64
		wantPositive        bool
	}{
		{"zero estimate yields zero surprise", 1.5, 0, 1000, 0, 0, 0, false},
		{"beat on both", 1.1, 1.0, 1100, 1000, 0.1, 0.1, true},
		{"miss on eps", 0.9, 1.0, 1000, 1000, -0.1, 0, false},
		{"negative estimate still divides by magnitude", -1.0, -0.5, 500, 500, -1.0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEarningsInfo(tt.actualEPS, tt.estEPS, tt.actualRev, tt.estRev)
			if d := e.EPSSurprise - tt.wantEPSSurprise; d > 1e-9 || d < -1e-9 {
				t.Errorf("EPSSurprise = %v, want %v", e.EPSSurprise, tt.wantEPSSurprise)
			}
			if e.RevenueSurprise != tt.wantRevenueSurprise {
				t.Errorf("RevenueSurprise = %v, want %v", e.RevenueSurprise, tt.wantRevenueSurprise)
			}
			if e.HasPositiveSurprise != tt.wantPositive {
				t.Errorf("HasPositiveSurprise = %v, want %v", e.HasPositiveSurprise, tt.wantPositive)
			}
		})
	}
}

func TestNewSentimentInfo(t *testing.T) {
	tests := []struct {
		name                                 string
		bullish, bearish, neutral, prevBull  float64
		wantTag                              SentimentTag
		wantChange                           float64
	}{
		{"bullish cutoff", 60, 20, 20, 50, SentimentBullish, 10},
		{"just under bullish cutoff is neutral", 59.9, 20, 20.1, 50, SentimentNeutral, 9.9},
		{"bearish cutoff", 10, 60, 30, 15, SentimentBearish, -5},
		{"neutral", 40, 40, 20, 40, SentimentNeutral, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSentimentInfo(tt.bullish, tt.bearish, tt.neutral, tt.prevBull)
			if s.Overall != tt.wantTag {
				t.Errorf("Overall = %v, want %v", s.Overall, tt.wantTag)
			}
			if d := s.SentimentChange - tt.wantChange; d > 1e-9 || d < -1e-9 {
				t.Errorf("SentimentChange = %v, want %v", s.SentimentChange, tt.wantChange)
			}
		})
	}
}
