package fetcher

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/brightloop/screener/internal/provider"
)

const maxProfileBatch = 100

func (f *Fetcher) getJSON(ctx context.Context, base, path string, params url.Values, dest any) error {
	full := f.client.BuildURL(base, path, params)
	body, err := f.fetch(ctx, full)
	if err != nil {
		return err
	}
	return unmarshalTolerant(body, dest)
}

// GetNasdaqSymbols returns the full NASDAQ-listed symbol universe.
func (f *Fetcher) GetNasdaqSymbols(ctx context.Context) ([]string, error) {
	var entries []provider.SymbolEntry
	params := url.Values{"exchange": {"NASDAQ"}}
	if err := f.getJSON(ctx, f.client.V3(), "/symbol/available-symbols", params, &entries); err != nil {
		return nil, err
	}
	symbols := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Symbol != "" {
			symbols = append(symbols, e.Symbol)
		}
	}
	return symbols, nil
}

// GetCompanyProfiles fetches profiles in batches of at most 100 symbols
// per call and concatenates the results.
func (f *Fetcher) GetCompanyProfiles(ctx context.Context, symbols []string) ([]provider.CompanyProfile, error) {
	var all []provider.CompanyProfile
	for start := 0; start < len(symbols); start += maxProfileBatch {
		end := start + maxProfileBatch
		if end > len(symbols) {
			end = len(symbols)
		}
		batch := symbols[start:end]
		normalized := make([]string, len(batch))
		for i, s := range batch {
			normalized[i] = provider.NormalizeTicker(s)
		}
		var profiles []provider.CompanyProfile
		path := "/profile/" + strings.Join(normalized, ",")
		if err := f.getJSON(ctx, f.client.V3(), path, nil, &profiles); err != nil {
			if err == ErrNotFound {
				continue
			}
			return nil, err
		}
		all = append(all, profiles...)
	}
	return all, nil
}

func (f *Fetcher) GetIncomeStatements(ctx context.Context, symbol string) ([]provider.IncomeStatement, error) {
	var out []provider.IncomeStatement
	path := "/income-statement/" + provider.NormalizeTicker(symbol)
	if err := f.getJSON(ctx, f.client.V3(), path, nil, &out); err != nil {
		if err == ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

func (f *Fetcher) GetCashFlowStatements(ctx context.Context, symbol string) ([]provider.CashFlowStatement, error) {
	var out []provider.CashFlowStatement
	path := "/cash-flow-statement/" + provider.NormalizeTicker(symbol)
	if err := f.getJSON(ctx, f.client.V3(), path, nil, &out); err != nil {
		if err == ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

func (f *Fetcher) GetBalanceSheets(ctx context.Context, symbol string) ([]provider.BalanceSheet, error) {
	var out []provider.BalanceSheet
	path := "/balance-sheet-statement/" + provider.NormalizeTicker(symbol)
	if err := f.getJSON(ctx, f.client.V3(), path, nil, &out); err != nil {
		if err == ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

func (f *Fetcher) GetRatios(ctx context.Context, symbol string) ([]provider.Ratios, error) {
	var out []provider.Ratios
	path := "/ratios/" + provider.NormalizeTicker(symbol)
	if err := f.getJSON(ctx, f.client.V3(), path, nil, &out); err != nil {
		if err == ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

func (f *Fetcher) GetRatiosTTM(ctx context.Context, symbol string) (*provider.RatiosTTM, error) {
	var out []provider.RatiosTTM
	path := "/ratios-ttm/" + provider.NormalizeTicker(symbol)
	if err := f.getJSON(ctx, f.client.V3(), path, nil, &out); err != nil {
		if err == ErrNotFound || len(out) == 0 {
			return nil, nil
		}
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

func (f *Fetcher) GetKeyMetrics(ctx context.Context, symbol string) ([]provider.KeyMetrics, error) {
	var out []provider.KeyMetrics
	path := "/key-metrics/" + provider.NormalizeTicker(symbol)
	if err := f.getJSON(ctx, f.client.V3(), path, nil, &out); err != nil {
		if err == ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

func (f *Fetcher) GetKeyMetricsTTM(ctx context.Context, symbol string) (*provider.KeyMetricsTTM, error) {
	var out []provider.KeyMetricsTTM
	path := "/key-metrics-ttm/" + provider.NormalizeTicker(symbol)
	if err := f.getJSON(ctx, f.client.V3(), path, nil, &out); err != nil {
		if err == ErrNotFound || len(out) == 0 {
			return nil, nil
		}
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

func (f *Fetcher) GetFinancialGrowth(ctx context.Context, symbol string) ([]provider.FinancialGrowth, error) {
	var out []provider.FinancialGrowth
	path := "/financial-growth/" + provider.NormalizeTicker(symbol)
	if err := f.getJSON(ctx, f.client.V3(), path, nil, &out); err != nil {
		if err == ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

func (f *Fetcher) GetInsiderTrading(ctx context.Context, symbol string, limit int) ([]provider.InsiderTrade, error) {
	var out []provider.InsiderTrade
	params := url.Values{"symbol": {provider.NormalizeTicker(symbol)}, "limit": {strconv.Itoa(limit)}}
	if err := f.getJSON(ctx, f.client.V4(), "/insider-trading", params, &out); err != nil {
		if err == ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

func (f *Fetcher) GetEarningsCalendar(ctx context.Context, symbol, from, to string) ([]provider.EarningsCalendarEntry, error) {
	params := url.Values{"symbol": {provider.NormalizeTicker(symbol)}}
	if from != "" {
		params.Set("from", from)
	}
	if to != "" {
		params.Set("to", to)
	}
	var out []provider.EarningsCalendarEntry
	if err := f.getJSON(ctx, f.client.V3(), "/historical/earning_calendar/"+provider.NormalizeTicker(symbol), params, &out); err != nil {
		if err == ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

// GetSocialSentiment issues the bullish and bearish sentiment requests in
// parallel. A failure of either (or both) yields an empty slice for that
// side rather than an error.
func (f *Fetcher) GetSocialSentiment(ctx context.Context, symbol string) (bullish, bearish []provider.SocialSentimentEntry, err error) {
	g, gctx := errgroup.WithContext(ctx)
	norm := provider.NormalizeTicker(symbol)

	g.Go(func() error {
		var out []provider.SocialSentimentEntry
		params := url.Values{"symbol": {norm}, "type": {"bullish"}, "source": {"stocktwits"}}
		if e := f.getJSON(gctx, f.client.V4(), "/historical/social-sentiment", params, &out); e == nil {
			bullish = out
		}
		return nil
	})
	g.Go(func() error {
		var out []provider.SocialSentimentEntry
		params := url.Values{"symbol": {norm}, "type": {"bearish"}, "source": {"stocktwits"}}
		if e := f.getJSON(gctx, f.client.V4(), "/historical/social-sentiment", params, &out); e == nil {
			bearish = out
		}
		return nil
	})
	_ = g.Wait()
	return bullish, bearish, nil
}

// GetHistoricalPrice fetches daily closes, unwrapping the provider's
// "historical" envelope.
func (f *Fetcher) GetHistoricalPrice(ctx context.Context, symbol, from, to string, limit int) ([]provider.PriceBar, error) {
	params := url.Values{}
	if from != "" {
		params.Set("from", from)
	}
	if to != "" {
		params.Set("to", to)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	var wrapped provider.HistoricalPriceResponse
	path := "/historical-price-full/" + provider.NormalizeTicker(symbol)
	if err := f.getJSON(ctx, f.client.V3(), path, params, &wrapped); err != nil {
		if err == ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return wrapped.Historical, nil
}

// Bundle is the bag of raw per-symbol data keyed by endpoint, returned by
// GetComprehensiveBundle. A nil/empty field means that endpoint returned
// no data or failed after retries; the normalizer decides whether the
// remainder is still sufficient.
type Bundle struct {
	Symbol string

	Profile *provider.CompanyProfile

	Income []provider.IncomeStatement
	CashFlow []provider.CashFlowStatement
	Balance []provider.BalanceSheet
	Ratios []provider.Ratios
	RatiosTTM *provider.RatiosTTM
	KeyMetrics []provider.KeyMetrics
	KeyMetricsTTM *provider.KeyMetricsTTM
	Growth []provider.FinancialGrowth

	InsiderTrades []provider.InsiderTrade
	Earnings []provider.EarningsCalendarEntry

	BullishSentiment []provider.SocialSentimentEntry
	BearishSentiment []provider.SocialSentimentEntry

	Prices []provider.PriceBar
}

// GetComprehensiveBundle concurrently invokes every per-symbol endpoint
// and collects the results into one Bundle. Individual endpoint failures
// do not fail the bundle; they surface as a nil/empty field.
func (f *Fetcher) GetComprehensiveBundle(ctx context.Context, symbol string, earningsFrom, earningsTo string, priceFrom, priceTo string) (*Bundle, error) {
	bundle := &Bundle{Symbol: symbol}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		profiles, err := f.GetCompanyProfiles(gctx, []string{symbol})
		if err == nil && len(profiles) > 0 {
			bundle.Profile = &profiles[0]
		}
		return nil
	})
	g.Go(func() error {
		v, err := f.GetIncomeStatements(gctx, symbol)
		if err == nil {
			bundle.Income = v
		}
		return nil
	})
	g.Go(func() error {
		v, err := f.GetCashFlowStatements(gctx, symbol)
		if err == nil {
			bundle.CashFlow = v
		}
		return nil
	})
	g.Go(func() error {
		v, err := f.GetBalanceSheets(gctx, symbol)
		if err == nil {
			bundle.Balance = v
		}
		return nil
	})
	g.Go(func() error {
		v, err := f.GetRatios(gctx, symbol)
		if err == nil {
			bundle.Ratios = v
		}
		return nil
	})
	g.Go(func() error {
		v, err := f.GetRatiosTTM(gctx, symbol)
		if err == nil {
			bundle.RatiosTTM = v
		}
		return nil
	})
	g.Go(func() error {
		v, err := f.GetKeyMetrics(gctx, symbol)
		if err == nil {
			bundle.KeyMetrics = v
		}
		return nil
	})
	g.Go(func() error {
		v, err := f.GetKeyMetricsTTM(gctx, symbol)
		if err == nil {
			bundle.KeyMetricsTTM = v
		}
		return nil
	})
	g.Go(func() error {
		v, err := f.GetFinancialGrowth(gctx, symbol)
		if err == nil {
			bundle.Growth = v
		}
		return nil
	})
	g.Go(func() error {
		v, err := f.GetInsiderTrading(gctx, symbol, 100)
		if err == nil {
			bundle.InsiderTrades = v
		}
		return nil
	})
	g.Go(func() error {
		v, err := f.GetEarningsCalendar(gctx, symbol, earningsFrom, earningsTo)
		if err == nil {
			bundle.Earnings = v
		}
		return nil
	})
	g.Go(func() error {
		bull, bear, _ := f.GetSocialSentiment(gctx, symbol)
		bundle.BullishSentiment = bull
		bundle.BearishSentiment = bear
		return nil
	})
	g.Go(func() error {
		v, err := f.GetHistoricalPrice(gctx, symbol, priceFrom, priceTo, 0)
		if err == nil {
			bundle.Prices = v
		}
		return nil
	})

	_ = g.Wait()

	if bundle.Profile == nil && len(bundle.Income) == 0 && len(bundle.CashFlow) == 0 && len(bundle.Balance) == 0 {
		return bundle, fmt.Errorf("comprehensive bundle for %s: %w", symbol, ErrNotFound)
	}
	return bundle, nil
}
