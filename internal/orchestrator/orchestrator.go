// Package orchestrator implements the end-to-end screening pipeline:
// universe fetch, static filtering, bounded per-symbol analysis
// fan-out, batch normalization and sector-percentile annotation.
package orchestrator

import (
	"context"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/brightloop/screener/internal/analyzer"
	"github.com/brightloop/screener/internal/config"
	"github.com/brightloop/screener/internal/fetcher"
	"github.com/brightloop/screener/internal/model"
	"github.com/brightloop/screener/internal/normalizer"
	"github.com/brightloop/screener/internal/pit"
	"github.com/brightloop/screener/internal/provider"
	"github.com/brightloop/screener/internal/scorer"
)

// Orchestrator runs one screening pass against a Fetcher using a Config.
type Orchestrator struct {
	fetcher *fetcher.Fetcher
	cfg config.Config
	logger *slog.Logger
}

// New builds an Orchestrator.
func New(f *fetcher.Fetcher, cfg config.Config, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{fetcher: f, cfg: cfg, logger: logger}
}

// RunOptions controls an optional point-in-time replay. A nil
// AsOf means "no replay" — the orchestrator runs against the live bundle.
type RunOptions struct {
	AsOf *time.Time
	EarningsWindow [2]string
	PriceWindow [2]string
}

// Result is the Orchestrator's output: the surviving, scored issuers and
// the size of the universe considered before filtering.
type Result struct {
	RunID string
	Stocks []*model.StockAnalysisResult
	UniverseSize int
}

var etfSymbolPattern = regexp.MustCompile(`^[A-Z]{4}X$`)

// Run executes one full screening pass against the live FMP universe:
// fetch, filter, per-symbol analysis, normalization and scoring. Each
// call is stamped with a fresh RunID so callers can correlate a pass
// with its logs.
func (o *Orchestrator) Run(ctx context.Context, opts RunOptions) (*Result, error) {
	runID := uuid.NewString()
	o.logger.Info("run started", "run_id", runID)

	symbols, err := o.fetcher.GetNasdaqSymbols(ctx)
	if err != nil {
		return nil, err
	}
	universeSize := len(symbols)

	profiles, err := o.fetcher.GetCompanyProfiles(ctx, symbols)
	if err != nil {
		return nil, err
	}

	candidates := o.initialFilter(profiles)

	scored := o.analyzeAll(ctx, candidates, opts)

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].QualityScore > scored[j].QualityScore
	})

	if o.cfg.Output.MinQualityScore > 0 {
		cut := 0
		for cut < len(scored) && scored[cut].QualityScore >= o.cfg.Output.MinQualityScore {
			cut++
		}
		scored = scored[:cut]
	}
	if o.cfg.Output.MaxStocks > 0 && len(scored) > o.cfg.Output.MaxStocks {
		scored = scored[:o.cfg.Output.MaxStocks]
	}

	normalizeQualityScores(scored)
	scorer.AnnotateSectorPercentiles(scored)

	o.logger.Info("run complete", "run_id", runID, "universe_size", universeSize, "result_count", len(scored))
	return &Result{RunID: runID, Stocks: scored, UniverseSize: universeSize}, nil
}

// initialFilter implements step 3.
func (o *Orchestrator) initialFilter(profiles []provider.CompanyProfile) []provider.CompanyProfile {
	out := make([]provider.CompanyProfile, 0, len(profiles))
	for _, p := range profiles {
		if p.IsETF || p.IsFund || looksLikeFundOrETF(p.Symbol, p.Exchange) {
			continue
		}
		mktCap, ok := p.MktCap.Float64()
		if !ok || mktCap <= 0 {
			continue
		}
		if o.cfg.InitialFilters.MarketCapMin > 0 && mktCap < o.cfg.InitialFilters.MarketCapMin {
			continue
		}
		if o.cfg.InitialFilters.MarketCapMax > 0 && mktCap > o.cfg.InitialFilters.MarketCapMax {
			continue
		}
		if o.cfg.InitialFilters.ExcludeFinancialServices && strings.EqualFold(p.Sector, "Financial Services") {
			continue
		}
		out = append(out, p)
	}
	return out
}

func looksLikeFundOrETF(symbol, exchange string) bool {
	if etfSymbolPattern.MatchString(strings.ToUpper(symbol)) {
		return true
	}
	upper := strings.ToUpper(exchange)
	return strings.Contains(upper, "MUTUAL") || strings.Contains(upper, "FUND")
}

// analyzeAll fans out per-symbol analysis under a bounded semaphore,
// isolating per-symbol failures (log and continue) so one symbol's
// fetch or analysis error never aborts the whole batch.
func (o *Orchestrator) analyzeAll(ctx context.Context, profiles []provider.CompanyProfile, opts RunOptions) []*model.StockAnalysisResult {
	maxWorkers := o.cfg.Concurrency.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 5
	}
	sem := make(chan struct{}, maxWorkers)

	var mu sync.Mutex
	var results []*model.StockAnalysisResult

	g, gctx := errgroup.WithContext(ctx)
	for i := range profiles {
		p := profiles[i]
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-gctx.Done():
				return nil
			}
			defer func() { <-sem }()

			r, err := o.analyzeOne(gctx, p, opts)
			if err != nil {
				o.logger.Warn("skipping symbol", "symbol", p.Symbol, "error", err)
				return nil
			}
			if r == nil {
				return nil
			}
			mu.Lock()
			results = append(results, r)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// analyzeOne implements the per-symbol half of step 4: bundle fetch,
// optional point-in-time replay, normalization, the ROE gate and
// scoring. A nil, nil return means the symbol was filtered out by the
// ROE gate, not an error; insufficient data comes back as the
// normalizer's error.
func (o *Orchestrator) analyzeOne(ctx context.Context, profile provider.CompanyProfile, opts RunOptions) (*model.StockAnalysisResult, error) {
	earningsFrom, earningsTo := opts.EarningsWindow[0], opts.EarningsWindow[1]
	priceFrom, priceTo := opts.PriceWindow[0], opts.PriceWindow[1]

	bundle, err := o.fetcher.GetComprehensiveBundle(ctx, profile.Symbol, earningsFrom, earningsTo, priceFrom, priceTo)
	if err != nil {
		return nil, err
	}

	if opts.AsOf != nil {
		bundle = pit.Apply(bundle, *opts.AsOf)
	}

	metrics, err := normalizer.Normalize(bundle)
	if err != nil {
		return nil, err
	}

	if !o.passesROEGate(metrics) {
		return nil, nil
	}

	mktCap, _ := profile.MktCap.Float64()
	bench := o.cfg.BenchmarksForSector(profile.Sector)

	growthDetail, growthScore := analyzer.Growth(metrics, &bench)
	riskDetail, riskScore := analyzer.Risk(metrics, &bench)
	valuationDetail, valuationScore := analyzer.Valuation(metrics, mktCap, &bench)

	insider := normalizer.PrepareInsiderTradingInfo(bundle.InsiderTrades)
	earnings := normalizer.PrepareEarningsInfo(bundle.Earnings)
	sentimentInfo := normalizer.PrepareSentimentInfo(bundle.BullishSentiment, bundle.BearishSentiment)
	sentimentDetail, sentimentScore := analyzer.Sentiment(insider, earnings, sentimentInfo)

	axes := scorer.AxisScores{Growth: growthScore, Risk: riskScore, Valuation: valuationScore, Sentiment: sentimentScore}
	components := scorer.Score(axes, metrics, o.cfg.Scoring.Weights, o.cfg.Scoring.CoherenceBonus.MaxMultiplier)

	return &model.StockAnalysisResult{
		Symbol: profile.Symbol,
		Name: profile.CompanyName,
		Sector: profile.Sector,
		Industry: profile.Industry,
		MarketCap: mktCap,
		QualityScore: components.QualityScore,
		ComponentScores: components,
		GrowthDetail: growthDetail,
		RiskDetail: riskDetail,
		ValuationDetail: valuationDetail,
		SentimentDetail: sentimentDetail,
		Metrics: metrics,
		Insider: insider,
		Earnings: earnings,
		Sentiment: sentimentInfo,
	}, nil
}

// passesROEGate implements step 4's ROE gate: the last roe.years
// periods must all meet min_each_year, and their mean must meet min_avg.
func (o *Orchestrator) passesROEGate(m *model.FinancialMetrics) bool {
	years := o.cfg.GrowthQuality.ROE.Years
	if years <= 0 {
		return true
	}
	if len(m.ROE) < years {
		return false
	}
	window := m.ROE[:years]
	sum := 0.0
	for _, v := range window {
		if v < o.cfg.GrowthQuality.ROE.MinEachYear {
			return false
		}
		sum += v
	}
	return sum/float64(years) >= o.cfg.GrowthQuality.ROE.MinAvg
}

// normalizeQualityScores implements step 6: min-max normalize
// quality_score into NormalizedQualityScore. A zero range maps every
// surviving issuer to 1.0 rather than dividing by zero.
func normalizeQualityScores(results []*model.StockAnalysisResult) {
	if len(results) == 0 {
		return
	}
	min, max := results[0].QualityScore, results[0].QualityScore
	for _, r := range results {
		if r.QualityScore < min {
			min = r.QualityScore
		}
		if r.QualityScore > max {
			max = r.QualityScore
		}
	}
	rangeVal := max - min
	for _, r := range results {
		if rangeVal == 0 {
			r.NormalizedQualityScore = 1.0
			continue
		}
		r.NormalizedQualityScore = (r.QualityScore - min) / rangeVal
	}
}
