package risk

import "sort"

// percentile computes the p-th quantile (p in [0, 1]) of sorted samples with
// linear interpolation between order statistics: rank = p * (n - 1).
// Historical and Monte-Carlo VaR share this one rule so their quantiles are
// directly comparable.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	rank := p * float64(n-1)
	lo := int(rank)
	frac := rank - float64(lo)
	if lo+1 >= n {
		return sorted[n-1]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// tailMean averages the losses at or beyond the threshold, the expected
// shortfall companion to percentile. The maximum loss is always >= the
// threshold, so the tail is never empty.
func tailMean(sorted []float64, threshold float64) float64 {
	var sum float64
	var n int
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i] < threshold {
			break
		}
		sum += sorted[i]
		n++
	}
	if n == 0 {
		return threshold
	}
	return sum / float64(n)
}

// sortedCopy returns an ascending copy of xs.
func sortedCopy(xs []float64) []float64 {
	cp := make([]float64, len(xs))
	copy(cp, xs)
	sort.Float64s(cp)
	return cp
}
