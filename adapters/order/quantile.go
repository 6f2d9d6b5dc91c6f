// Package order computes the order-statistic subsystem: nearest-rank
// quantiles, MAD, mode/antimode sets, and cardinality, building on
// github.com/montanaflynn/stats for the primitive percentile/mean
// calls the way the engine's own distribution analysis does.
package order

import (
	"math"
	"sort"

	mstats "github.com/montanaflynn/stats"
)

// Quartiles holds the Q1/Q2/Q3 triple computed once via nearest-rank
// method 3, plus the IQR and skewness derived from it.
type Quartiles struct {
	Q1, Q2, Q3 float64
	IQR        float64
	Skewness   float64
}

// ComputeQuartiles runs the nearest-rank (method 3) percentile
// calculation montanaflynn/stats implements via PercentileNearestRank,
// matching the reference quantile method the reference CLI documents.
func ComputeQuartiles(data []float64) (Quartiles, error) {
	if len(data) == 0 {
		return Quartiles{}, mstats.EmptyInputErr
	}
	q1, err := mstats.PercentileNearestRank(data, 25)
	if err != nil {
		return Quartiles{}, err
	}
	q2, err := mstats.PercentileNearestRank(data, 50)
	if err != nil {
		return Quartiles{}, err
	}
	q3, err := mstats.PercentileNearestRank(data, 75)
	if err != nil {
		return Quartiles{}, err
	}
	iqr := q3 - q1
	skew := math.NaN()
	if iqr != 0 {
		skew = (q3 - 2*q2 + q1) / iqr
	}
	return Quartiles{Q1: q1, Q2: q2, Q3: q3, IQR: iqr, Skewness: skew}, nil
}

// Percentile computes one nearest-rank-method percentile (p in
// [0, 100]) over data.
func Percentile(data []float64, p float64) (float64, error) {
	return mstats.PercentileNearestRank(data, p)
}

// MAD returns the median absolute deviation from the median: the
// median of |x - median(data)|. When median is already known (it was
// computed as Q2), callers should pass it in via MADFromMedian to
// avoid a second median pass.
func MAD(data []float64) (float64, error) {
	median, err := mstats.Median(data)
	if err != nil {
		return 0, err
	}
	return MADFromMedian(data, median)
}

// MADFromMedian computes MAD reusing an already-known median.
func MADFromMedian(data []float64, median float64) (float64, error) {
	devs := make([]float64, len(data))
	for i, v := range data {
		devs[i] = math.Abs(v - median)
	}
	return mstats.Median(devs)
}

// Cardinality returns the number of distinct values in counts.
func Cardinality(counts map[string]int64) int64 {
	return int64(len(counts))
}

// UniquenessRatio returns cardinality / row count, or 0 when rowCount
// is zero.
func UniquenessRatio(cardinality, rowCount int64) float64 {
	if rowCount == 0 {
		return 0
	}
	return float64(cardinality) / float64(rowCount)
}

// ModeSet is the result of the §4.3 modes subcomponent: either the
// all-unique sentinel state, or the computed mode/antimode sets with
// their shared occurrence counts.
type ModeSet struct {
	AllUnique bool

	Modes          []string
	ModeCount      int64
	ModeOccurrences int

	Antimodes          []string
	AntimodeCount      int64
	AntimodeOccurrences int
	AntimodeTruncated  bool
}

// ComputeModes implements §4.3's modes subcomponent: when cardinality
// equals the row count every value is unique, so modes are empty and
// antimodes collapse to the *ALL sentinel; otherwise it partitions
// distinct values by occurrence count and reports the most- and
// least-frequent sets.
func ComputeModes(counts map[string]int64, rowCount int64) ModeSet {
	if int64(len(counts)) == rowCount {
		return ModeSet{AllUnique: true}
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var maxOcc, minOcc int64 = 0, math.MaxInt64
	for _, k := range keys {
		c := counts[k]
		if c > maxOcc {
			maxOcc = c
		}
		if c < minOcc {
			minOcc = c
		}
	}

	var modes, antimodes []string
	for _, k := range keys {
		if counts[k] == maxOcc {
			modes = append(modes, k)
		}
		if counts[k] == minOcc {
			antimodes = append(antimodes, k)
		}
	}

	truncated := false
	if len(antimodes) > 10 {
		antimodes = antimodes[:10]
		truncated = true
	}

	return ModeSet{
		Modes:               modes,
		ModeCount:           int64(len(modes)),
		ModeOccurrences:     int(maxOcc),
		Antimodes:           antimodes,
		AntimodeCount:       int64(len(antimodes)),
		AntimodeOccurrences: int(minOcc),
		AntimodeTruncated:   truncated,
	}
}

// RenderAntimodes formats the antimode list per §4.3: the *ALL
// sentinel for all-unique columns, a *PREVIEW: prefix when the list
// was truncated to the first 10, separator-joined otherwise, and a
// byte-budget-capped, UTF-8-safe truncation with a trailing "...".
func RenderAntimodes(m ModeSet, separator string, byteBudget int) string {
	if m.AllUnique {
		return "*ALL"
	}

	joined := ""
	for i, a := range m.Antimodes {
		if a == "" {
			a = "NULL"
		}
		if i > 0 {
			joined += separator
		}
		joined += a
	}
	if m.AntimodeTruncated {
		joined = "*PREVIEW: " + joined
	}
	if byteBudget > 0 && len(joined) > byteBudget {
		joined = TruncateUTF8(joined, byteBudget) + "..."
	}
	return joined
}

// TruncateUTF8 truncates s to at most n bytes, backing off to the
// nearest preceding UTF-8 character boundary so the result never ends
// mid-codepoint. Shared by the antimode display cap (§4.3) and the
// string min/max display cap (§4.2/§6).
func TruncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	b := []byte(s)[:n]
	for len(b) > 0 && !isUTF8Boundary(b) {
		b = b[:len(b)-1]
	}
	return string(b)
}

func isUTF8Boundary(b []byte) bool {
	if len(b) == 0 {
		return true
	}
	last := b[len(b)-1]
	// A byte is a valid truncation boundary if it isn't a UTF-8
	// continuation byte (10xxxxxx).
	return last&0xC0 != 0x80
}
