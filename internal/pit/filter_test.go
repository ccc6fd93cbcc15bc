package pit

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/brightloop/screener/internal/fetcher"
	"github.com/brightloop/screener/internal/provider"
)

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(dateLayout, s)
	if err != nil {
		t.Fatalf("parsing %q: %v", s, err)
	}
	return ts
}

func TestApply_NilBundle(t *testing.T) {
	if got := Apply(nil, time.Now()); got != nil {
		t.Errorf("Apply(nil, ...) = %v, want nil", got)
	}
}

func TestApply_StatementKeptOnOrBeforeAsOf(t *testing.T) {
	asOf := mustParse(t, "2024-06-01")
	bundle := &fetcher.Bundle{
		Income: []provider.IncomeStatement{
			{Date: "2024-03-31", FillingDate: "2024-04-15", AcceptedDate: "2024-04-16"},
			{Date: "2024-06-30", FillingDate: "2024-07-15", AcceptedDate: "2024-07-16"},
		},
	}

	got := Apply(bundle, asOf)

	if len(got.Income) != 1 {
		t.Fatalf("Income = %v, want 1 row kept", got.Income)
	}
	if got.Income[0].Date != "2024-03-31" {
		t.Errorf("kept row = %q, want the Q1 statement", got.Income[0].Date)
	}
}

func TestApply_StatementDroppedWithoutAnyDate(t *testing.T) {
	asOf := mustParse(t, "2024-06-01")
	bundle := &fetcher.Bundle{
		Income: []provider.IncomeStatement{{Date: "2024-03-31"}},
	}

	got := Apply(bundle, asOf)

	if len(got.Income) != 0 {
		t.Errorf("Income = %v, want dropped (no filling/accepted date)", got.Income)
	}
}

func TestApply_UsesLaterOfFillingAndAccepted(t *testing.T) {
	asOf := mustParse(t, "2024-04-20")
	bundle := &fetcher.Bundle{
		// FillingDate is before asOf but AcceptedDate (the later of the two) is after it.
		Income: []provider.IncomeStatement{
			{Date: "2024-03-31", FillingDate: "2024-04-15", AcceptedDate: "2024-04-25"},
		},
	}

	got := Apply(bundle, asOf)

	if len(got.Income) != 0 {
		t.Errorf("Income = %v, want dropped (accepted date is after asOf)", got.Income)
	}
}

func TestApply_EarningsRequiresActualEPS(t *testing.T) {
	asOf := mustParse(t, "2024-06-01")
	eps := decimal.NewFromFloat(1.5)
	bundle := &fetcher.Bundle{
		Earnings: []provider.EarningsCalendarEntry{
			{Date: "2024-03-31", EPS: &eps},
			{Date: "2024-03-31", EPS: nil, EPSEstimated: &eps},
		},
	}

	got := Apply(bundle, asOf)

	if len(got.Earnings) != 1 {
		t.Fatalf("Earnings = %v, want only the row with an actual EPS", got.Earnings)
	}
}

func TestApply_EarningsAfterAsOfDropped(t *testing.T) {
	asOf := mustParse(t, "2024-03-01")
	eps := decimal.NewFromFloat(1.5)
	bundle := &fetcher.Bundle{
		Earnings: []provider.EarningsCalendarEntry{{Date: "2024-03-31", EPS: &eps}},
	}

	got := Apply(bundle, asOf)

	if len(got.Earnings) != 0 {
		t.Errorf("Earnings = %v, want dropped (dated after asOf)", got.Earnings)
	}
}

func TestApply_PricesKeptUpToAsOf(t *testing.T) {
	asOf := mustParse(t, "2024-06-01")
	bundle := &fetcher.Bundle{
		Prices: []provider.PriceBar{
			{Date: "2024-05-30"},
			{Date: "2024-06-02"},
		},
	}

	got := Apply(bundle, asOf)

	if len(got.Prices) != 1 || got.Prices[0].Date != "2024-05-30" {
		t.Errorf("Prices = %v, want only the 2024-05-30 bar", got.Prices)
	}
}

func TestApply_TTMDroppedWhenAsOfIsOld(t *testing.T) {
	asOf := time.Now().Add(-30 * 24 * time.Hour)
	ttm := &provider.RatiosTTM{}
	bundle := &fetcher.Bundle{RatiosTTM: ttm}

	got := Apply(bundle, asOf)

	if got.RatiosTTM != nil {
		t.Error("expected RatiosTTM to be dropped when asOf is more than 7 days old")
	}
}

func TestApply_TTMKeptWhenAsOfIsRecent(t *testing.T) {
	asOf := time.Now().Add(-2 * 24 * time.Hour)
	ttm := &provider.RatiosTTM{}
	bundle := &fetcher.Bundle{RatiosTTM: ttm}

	got := Apply(bundle, asOf)

	if got.RatiosTTM != ttm {
		t.Error("expected RatiosTTM to be kept when asOf is within 7 days")
	}
}

func TestApply_PassthroughFields(t *testing.T) {
	asOf := mustParse(t, "2024-06-01")
	profile := &provider.CompanyProfile{Symbol: "AAPL"}
	bundle := &fetcher.Bundle{Symbol: "AAPL", Profile: profile}

	got := Apply(bundle, asOf)

	if got.Symbol != "AAPL" || got.Profile != profile {
		t.Error("expected profile and symbol to pass through unchanged")
	}
}
