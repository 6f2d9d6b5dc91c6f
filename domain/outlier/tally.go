// Package outlier holds the fence descriptor and bucket tally for the
// second, outlier-classification pass over a column.
package outlier

import "math"

// Fences describes the four IQR-derived classification boundaries and
// the two robust-mean thresholds for one column, computed once the
// first pass has produced quartiles.
type Fences struct {
	ColumnIndex int

	LowerOuter float64
	LowerInner float64
	UpperInner float64
	UpperOuter float64

	// RobustLower/RobustUpper gate the winsorized/trimmed subsets;
	// NewIQRFences, the only constructor, sets them to Q1/Q3. No
	// percentile-based source is used.
	RobustLower float64
	RobustUpper float64
}

// NewIQRFences builds the standard 1.5x/3x-IQR fence set from a
// quartile triple.
func NewIQRFences(columnIndex int, q1, q3 float64) Fences {
	iqr := q3 - q1
	return Fences{
		ColumnIndex: columnIndex,
		LowerOuter:  q1 - 3*iqr,
		LowerInner:  q1 - 1.5*iqr,
		UpperInner:  q3 + 1.5*iqr,
		UpperOuter:  q3 + 3*iqr,
		RobustLower: q1,
		RobustUpper: q3,
	}
}

// Bucket is one of the five disjoint classification buckets a value
// falls into relative to a column's fences.
type Bucket int

const (
	ExtremeLower Bucket = iota
	MildLower
	Normal
	MildUpper
	ExtremeUpper
)

// Classify buckets v against f.
func Classify(v float64, f Fences) Bucket {
	switch {
	case v < f.LowerOuter:
		return ExtremeLower
	case v < f.LowerInner:
		return MildLower
	case v <= f.UpperInner:
		return Normal
	case v <= f.UpperOuter:
		return MildUpper
	default:
		return ExtremeUpper
	}
}

// Moments accumulates count/sum/sum-of-squares/min/max for one subset
// of values (all, outliers, non-outliers, winsorized, or trimmed).
type Moments struct {
	Count      int64
	Sum        float64
	SumSquares float64
	Min, Max   float64
	set        bool
}

// Add folds v into the subset.
func (m *Moments) Add(v float64) {
	m.Count++
	m.Sum += v
	m.SumSquares += v * v
	if !m.set || v < m.Min {
		m.Min = v
	}
	if !m.set || v > m.Max {
		m.Max = v
	}
	m.set = true
}

// Combine merges another subset's moments into m.
func (m *Moments) Combine(o Moments) {
	if o.Count == 0 {
		return
	}
	if m.Count == 0 {
		*m = o
		return
	}
	m.Count += o.Count
	m.Sum += o.Sum
	m.SumSquares += o.SumSquares
	if o.Min < m.Min {
		m.Min = o.Min
	}
	if o.Max > m.Max {
		m.Max = o.Max
	}
}

// Mean returns the subset's arithmetic mean, or NaN if empty.
func (m Moments) Mean() float64 {
	if m.Count == 0 {
		return math.NaN()
	}
	return m.Sum / float64(m.Count)
}

// SampleVariance returns the n-1 sample variance, or NaN for fewer
// than two observations.
func (m Moments) SampleVariance() float64 {
	if m.Count < 2 {
		return math.NaN()
	}
	mean := m.Mean()
	// Var = (sumSquares - n*mean^2) / (n-1), the computational formula
	// consistent with the moments this struct tracks.
	return (m.SumSquares - float64(m.Count)*mean*mean) / float64(m.Count-1)
}

func (m Moments) StdDev() float64 {
	return math.Sqrt(m.SampleVariance())
}

func (m Moments) CV() float64 {
	mean := m.Mean()
	if mean == 0 {
		return math.NaN()
	}
	return m.StdDev() / mean
}

func (m Moments) Range() float64 {
	if m.Count == 0 {
		return math.NaN()
	}
	return m.Max - m.Min
}

// Tally is the five-bucket classification plus the derived-subset
// moments accumulated over one column during the outlier pass.
type Tally struct {
	ColumnIndex int

	Buckets [5]int64

	All         Moments
	Outliers    Moments
	NonOutliers Moments
	Winsorized  Moments
	Trimmed     Moments

	ProcessedCount int64
}

// Add classifies v against f and folds it into every relevant
// subset, per the §4.4 per-record contract.
func Add(t *Tally, v float64, f Fences) {
	t.ProcessedCount++
	t.All.Add(v)

	w := math.Min(math.Max(v, f.RobustLower), f.RobustUpper)
	t.Winsorized.Add(w)

	if v >= f.RobustLower && v <= f.RobustUpper {
		t.Trimmed.Add(v)
	}

	b := Classify(v, f)
	t.Buckets[b]++
	if b == Normal {
		t.NonOutliers.Add(v)
	} else {
		t.Outliers.Add(v)
	}
}

// Merge combines two chunk-private tallies for the same column.
func Merge(a, b *Tally) *Tally {
	out := &Tally{ColumnIndex: a.ColumnIndex, ProcessedCount: a.ProcessedCount + b.ProcessedCount}
	for i := range out.Buckets {
		out.Buckets[i] = a.Buckets[i] + b.Buckets[i]
	}
	out.All = a.All
	out.All.Combine(b.All)
	out.Outliers = a.Outliers
	out.Outliers.Combine(b.Outliers)
	out.NonOutliers = a.NonOutliers
	out.NonOutliers.Combine(b.NonOutliers)
	out.Winsorized = a.Winsorized
	out.Winsorized.Combine(b.Winsorized)
	out.Trimmed = a.Trimmed
	out.Trimmed.Combine(b.Trimmed)
	return out
}

// TotalOutliers returns processed_count - normal, the invariant
// identity checked against the sum of the four non-normal buckets.
func (t *Tally) TotalOutliers() int64 {
	return t.ProcessedCount - t.Buckets[Normal]
}
