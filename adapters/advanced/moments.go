// Package advanced computes the extended per-column statistics (§4.6)
// built from a second full-data pass plus the already-computed
// quartiles/mean/variance: kurtosis, Gini, Atkinson, entropy-derived
// measures, and the closed-form ratio/z-score derivatives.
package advanced

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// Kurtosis computes the (excess) kurtosis of data using a numerically
// stable two-pass formulation built on the pre-computed mean and
// variance, matching the pattern the engine's own distribution
// analysis uses for skewness/kurtosis via central moments.
func Kurtosis(data []float64, mean, variance float64) float64 {
	n := float64(len(data))
	if n < 4 || variance == 0 {
		return math.NaN()
	}
	var m4 float64
	for _, v := range data {
		d := v - mean
		d2 := d * d
		m4 += d2 * d2
	}
	m4 /= n
	return m4/(variance*variance) - 3
}

// Gini computes the Gini coefficient over non-negative data using the
// mean-absolute-difference formulation, scaled by the pre-computed
// sum.
func Gini(data []float64, sum float64) float64 {
	n := len(data)
	if n == 0 || sum == 0 {
		return math.NaN()
	}
	sorted := append([]float64{}, data...)
	sort.Float64s(sorted)
	var weightedSum float64
	for i, v := range sorted {
		weightedSum += float64(2*(i+1)-n-1) * v
	}
	return weightedSum / (float64(n) * sum)
}

// Atkinson computes the Atkinson inequality index with
// inequality-aversion parameter epsilon (>= 0, defaults to 1.0 per
// §4.6). epsilon == 1 uses the geometric-mean special case; otherwise
// the general power-mean form.
func Atkinson(data []float64, mean float64, epsilon float64) float64 {
	n := float64(len(data))
	if n == 0 || mean == 0 {
		return math.NaN()
	}
	for _, v := range data {
		if v < 0 {
			return math.NaN()
		}
	}
	if epsilon == 1 {
		var logSum float64
		for _, v := range data {
			if v == 0 {
				return 1
			}
			logSum += math.Log(v)
		}
		geoMean := math.Exp(logSum / n)
		return 1 - geoMean/mean
	}
	var sum float64
	for _, v := range data {
		sum += math.Pow(v/mean, 1-epsilon)
	}
	avg := sum / n
	return 1 - math.Pow(avg, 1/(1-epsilon))
}

// NormalityPValue runs the Jarque-Bera test against the pre-computed
// skewness and excess kurtosis, using a chi-squared(2) reference
// distribution the same way the engine's own distribution analysis
// derives a normality p-value from a chi-squared CDF.
func NormalityPValue(skewness, kurtosis float64, n int64) float64 {
	if n < 8 || math.IsNaN(skewness) || math.IsNaN(kurtosis) {
		return math.NaN()
	}
	jb := float64(n) / 6.0 * (skewness*skewness + (kurtosis*kurtosis)/4.0)
	chi2 := distuv.ChiSquared{K: 2}
	return 1 - chi2.CDF(jb)
}
