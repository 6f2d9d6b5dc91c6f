package bivariate

import (
	"math"
	"sort"
)

// Kendall computes Kendall's tau-b via O(n log n) merge-sort inversion
// counting, per §4.5: sort pairs by x (with y as tiebreak), then count
// inversions in the resulting y-sequence — that inversion count equals
// the number of discordant pairs. Separately count x-ties and y-ties
// to compute the tie-corrected denominator.
func Kendall(x, y []float64) float64 {
	n := len(x)
	if n < 2 {
		return math.NaN()
	}

	type pt struct{ x, y float64 }
	pts := make([]pt, n)
	for i := range x {
		pts[i] = pt{x[i], y[i]}
	}
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].x != pts[j].x {
			return pts[i].x < pts[j].x
		}
		return pts[i].y < pts[j].y
	})

	ySeq := make([]float64, n)
	for i, p := range pts {
		ySeq[i] = p.y
	}
	discordant := countInversions(ySeq)

	n0 := float64(n) * float64(n-1) / 2
	n1 := tieTermSorted(func(i int) float64 { return pts[i].x }, n)
	n2 := tieTerm(y)

	concordant := n0 - float64(discordant) - n1 - n2
	denom := math.Sqrt((n0 - n1) * (n0 - n2))
	if denom == 0 {
		return math.NaN()
	}
	return (concordant - float64(discordant)) / denom
}

// countInversions counts inversions in seq via merge sort, where an
// inversion is a pair i<j with seq[i] > seq[j]; ties (seq[i] ==
// seq[j]) are not inversions.
func countInversions(seq []float64) int64 {
	buf := make([]float64, len(seq))
	var count int64
	var sortCount func(lo, hi int)
	sortCount = func(lo, hi int) {
		if hi-lo < 2 {
			return
		}
		mid := (lo + hi) / 2
		sortCount(lo, mid)
		sortCount(mid, hi)

		i, j, k := lo, mid, lo
		for i < mid && j < hi {
			if seq[i] <= seq[j] {
				buf[k] = seq[i]
				i++
			} else {
				buf[k] = seq[j]
				j++
				count += int64(mid - i)
			}
			k++
		}
		for i < mid {
			buf[k] = seq[i]
			i++
			k++
		}
		for j < hi {
			buf[k] = seq[j]
			j++
			k++
		}
		copy(seq[lo:hi], buf[lo:hi])
	}
	sortCount(0, len(seq))
	return count
}

// tieTerm computes Σ t(t-1)/2 over groups of equal values in data,
// the tie-correction term for a vector not already known to be
// sorted.
func tieTerm(data []float64) float64 {
	sorted := append([]float64{}, data...)
	sort.Float64s(sorted)
	return tieTermSorted(func(i int) float64 { return sorted[i] }, len(sorted))
}

func tieTermSorted(at func(int) float64, n int) float64 {
	var total float64
	i := 0
	for i < n {
		j := i
		for j < n && at(j) == at(i) {
			j++
		}
		t := float64(j - i)
		total += t * (t - 1) / 2
		i = j
	}
	return total
}
