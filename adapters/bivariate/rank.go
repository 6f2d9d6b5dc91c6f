// Package bivariate implements the pairwise engine: pair pre-filter,
// chunk processing into domain/bivariate pair states, and
// finalization into Pearson/Spearman/Kendall/covariance/MI/NMI.
package bivariate

import (
	"math"
	"sort"
)

// ranks assigns average ranks within ties: values are sorted, equal
// runs advance together, and every member of a tied run receives the
// midpoint of the run's 1-based position range, matching the
// tie-averaging convention Spearman correlation requires.
func ranks(data []float64) []float64 {
	n := len(data)
	type pair struct {
		value float64
		index int
	}
	pairs := make([]pair, n)
	for i, v := range data {
		pairs[i] = pair{value: v, index: i}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].value < pairs[j].value })

	out := make([]float64, n)
	i := 0
	for i < n {
		j := i
		for j < n && pairs[j].value == pairs[i].value {
			j++
		}
		// Positions i..j-1 (0-based) span 1-based ranks i+1..j.
		avgRank := float64(i+1+j) / 2
		for k := i; k < j; k++ {
			out[pairs[k].index] = avgRank
		}
		i = j
	}
	return out
}

// pearsonFromVectors computes the Pearson correlation of two equal-
// length float vectors directly, used to correlate rank vectors for
// Spearman.
func pearsonFromVectors(x, y []float64) float64 {
	n := len(x)
	if n < 2 {
		return math.NaN()
	}
	var meanX, meanY float64
	for i := range x {
		meanX += x[i]
		meanY += y[i]
	}
	meanX /= float64(n)
	meanY /= float64(n)

	var sxy, sxx, syy float64
	for i := range x {
		dx := x[i] - meanX
		dy := y[i] - meanY
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	denom := math.Sqrt(sxx * syy)
	if denom == 0 {
		return math.NaN()
	}
	return sxy / denom
}

// Spearman computes Spearman's rank correlation coefficient by
// ranking both vectors (averaging within ties) and taking their
// Pearson correlation.
func Spearman(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return math.NaN()
	}
	return pearsonFromVectors(ranks(x), ranks(y))
}
