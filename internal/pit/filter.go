// Package pit implements the point-in-time replay discipline: it
// strips a fetched bundle down to what would have been publicly known as
// of a simulated date, so a backtest never leaks future information into
// the normalizer.
package pit

import (
	"time"

	"github.com/brightloop/screener/internal/fetcher"
	"github.com/brightloop/screener/internal/provider"
)

const dateLayout = "2006-01-02"

// Apply returns a copy of bundle containing only the rows that were
// publicly known as of asOf.
//
// Statement rows are kept iff max(fillingDate, acceptedDate) <= asOf;
// an item with neither date present is dropped. This is the stricter of
// the two rules the original inconsistently applied (see the design
// notes' open question on this); this package always applies the
// stricter one.
//
// Earnings rows are kept only when an actual EPS value is present and
// dated on or before asOf (an estimate-only row carries no realized
// information and is never lookahead-safe to retain anyway, but an
// estimate dated before asOf is still dropped per its literal rule).
// Price rows are kept up to asOf. TTM ratios/metrics are dropped
// entirely once asOf is more than 7 days before now, since a trailing
// figure reflects data not yet public that far in the past. Profile,
// quote, analyst and insider data pass through unchanged.
func Apply(bundle *fetcher.Bundle, asOf time.Time) *fetcher.Bundle {
	if bundle == nil {
		return nil
	}

	out := *bundle
	out.Income = keepIncome(bundle.Income, asOf)
	out.CashFlow = keepCashFlow(bundle.CashFlow, asOf)
	out.Balance = keepBalance(bundle.Balance, asOf)
	out.Earnings = keepEarnings(bundle.Earnings, asOf)
	out.Prices = keepPrices(bundle.Prices, asOf)

	if time.Since(asOf) <= 7*24*time.Hour {
		out.RatiosTTM = bundle.RatiosTTM
		out.KeyMetricsTTM = bundle.KeyMetricsTTM
	} else {
		out.RatiosTTM = nil
		out.KeyMetricsTTM = nil
	}

	return &out
}

func knownAsOf(fillingDate, acceptedDate string, asOf time.Time) bool {
	later, ok := laterOf(fillingDate, acceptedDate)
	if !ok {
		return false
	}
	t, err := time.Parse(dateLayout, later)
	if err != nil {
		return false
	}
	return !t.After(asOf)
}

// laterOf returns the chronologically later of two (possibly empty,
// possibly unparsable) date strings. ok is false only when neither
// parses, meaning no known date exists to test against asOf.
func laterOf(a, b string) (string, bool) {
	ta, errA := time.Parse(dateLayout, a)
	tb, errB := time.Parse(dateLayout, b)
	switch {
	case errA != nil && errB != nil:
		return "", false
	case errA != nil:
		return b, true
	case errB != nil:
		return a, true
	case ta.After(tb):
		return a, true
	default:
		return b, true
	}
}

func keepIncome(rows []provider.IncomeStatement, asOf time.Time) []provider.IncomeStatement {
	out := make([]provider.IncomeStatement, 0, len(rows))
	for _, r := range rows {
		if knownAsOf(r.FillingDate, r.AcceptedDate, asOf) {
			out = append(out, r)
		}
	}
	return out
}

func keepCashFlow(rows []provider.CashFlowStatement, asOf time.Time) []provider.CashFlowStatement {
	out := make([]provider.CashFlowStatement, 0, len(rows))
	for _, r := range rows {
		if knownAsOf(r.FillingDate, r.AcceptedDate, asOf) {
			out = append(out, r)
		}
	}
	return out
}

func keepBalance(rows []provider.BalanceSheet, asOf time.Time) []provider.BalanceSheet {
	out := make([]provider.BalanceSheet, 0, len(rows))
	for _, r := range rows {
		if knownAsOf(r.FillingDate, r.AcceptedDate, asOf) {
			out = append(out, r)
		}
	}
	return out
}

func keepEarnings(rows []provider.EarningsCalendarEntry, asOf time.Time) []provider.EarningsCalendarEntry {
	out := make([]provider.EarningsCalendarEntry, 0, len(rows))
	for _, r := range rows {
		if r.EPS == nil {
			continue
		}
		if !onOrBefore(r.Date, asOf) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func keepPrices(rows []provider.PriceBar, asOf time.Time) []provider.PriceBar {
	out := make([]provider.PriceBar, 0, len(rows))
	for _, r := range rows {
		if onOrBefore(r.Date, asOf) {
			out = append(out, r)
		}
	}
	return out
}

func onOrBefore(dateStr string, asOf time.Time) bool {
	t, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return false
	}
	return !t.After(asOf)
}
