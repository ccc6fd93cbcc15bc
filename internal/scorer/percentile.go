// Package scorer aggregates the four analyzer axes into a per-issuer
// quality score with a coherence multiplier, and computes
// sector-relative percentile ranks over a finished batch.
package scorer

// Percentile returns, for value against the full set of peer values
// (including value itself), the fraction of peers it outranks, expressed
// on 0..100. Ties are broken by input order: a peer strictly behind value
// in the slice that is numerically equal counts as outranked.
//
// When higherIsBetter is false the ranking is inverted (a lower value
// outranks a higher one), used for metrics like P/E and D/E where lower
// is better.
func Percentile(value float64, peers []float64, index int, higherIsBetter bool) float64 {
	if len(peers) < 2 {
		return 0
	}
	var below int
	for i, p := range peers {
		outranked := value > p
		if !higherIsBetter {
			outranked = value < p
		}
		if outranked {
			below++
			continue
		}
		if p == value && i > index {
			below++
		}
	}
	return float64(below) / float64(len(peers)) * 100
}
