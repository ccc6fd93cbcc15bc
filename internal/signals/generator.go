package signals

import (
	"sort"

	"github.com/brightloop/screener/internal/model"
)

// Generator evaluates the fixed rule set against a completed
// StockAnalysisResult.
type Generator struct {
	rules []Rule
}

// NewGenerator builds a Generator with the default rule set.
func NewGenerator() *Generator {
	return &Generator{rules: defaultRules()}
}

// Generate evaluates every rule against result and returns the signals
// produced, sorted by descending priority. result is not mutated; the
// caller decides whether to assign the returned slice onto
// result.Signals.
func (g *Generator) Generate(result *model.StockAnalysisResult) []model.Signal {
	ctx := &RuleContext{
		QualityScore: result.QualityScore,
		Metrics:      result.Metrics,
		Insider:      result.Insider,
	}

	var out []model.Signal
	for _, rule := range g.rules {
		if s := rule.Evaluate(ctx); s != nil {
			out = append(out, *s)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Priority > out[j].Priority })
	return out
}

// Annotate runs Generate for every result and assigns Signals in place.
func Annotate(results []*model.StockAnalysisResult) {
	g := NewGenerator()
	for _, r := range results {
		r.Signals = g.Generate(r)
	}
}
