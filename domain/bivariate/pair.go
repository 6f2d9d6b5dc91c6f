// Package bivariate holds the per-pair streaming state the pairwise
// engine accumulates: Welford correlation moments, optional retained
// vectors for ranked statistics, and an optional joint frequency map
// for information-theoretic statistics.
package bivariate

import "math"

// Key identifies an ordered column-index pair (i, j) with i < j.
type Key struct {
	I, J int
}

// Less orders keys in ascending (i, j) lexicographic order, the
// deterministic output ordering the writer relies on.
func Less(a, b Key) bool {
	if a.I != b.I {
		return a.I < b.I
	}
	return a.J < b.J
}

// CorrState holds the Welford-style online bivariate moments: count,
// running means, the two univariate second moments, and the
// co-moment, all computed via the classical online recurrence.
type CorrState struct {
	Count int64
	MeanX, MeanY float64
	M2X, M2Y     float64
	Cxy          float64
}

// Add folds one (x, y) pair into the correlation state.
func (s *CorrState) Add(x, y float64) {
	s.Count++
	n := float64(s.Count)
	dx := x - s.MeanX
	s.MeanX += dx / n
	dy := y - s.MeanY
	s.MeanY += dy / n
	s.M2X += dx * (x - s.MeanX)
	s.M2Y += dy * (y - s.MeanY)
	s.Cxy += dx * (y - s.MeanY)
}

// Combine merges two independently accumulated correlation states
// using the parallel chunk-merge recurrence.
func Combine(a, b CorrState) CorrState {
	if a.Count == 0 {
		return b
	}
	if b.Count == 0 {
		return a
	}
	n := a.Count + b.Count
	fn := float64(n)
	dx := b.MeanX - a.MeanX
	dy := b.MeanY - a.MeanY
	meanX := a.MeanX + dx*float64(b.Count)/fn
	meanY := a.MeanY + dy*float64(b.Count)/fn
	m2x := a.M2X + b.M2X + dx*dx*float64(a.Count)*float64(b.Count)/fn
	m2y := a.M2Y + b.M2Y + dy*dy*float64(a.Count)*float64(b.Count)/fn
	cxy := a.Cxy + b.Cxy + dx*dy*float64(a.Count)*float64(b.Count)/fn
	return CorrState{Count: n, MeanX: meanX, MeanY: meanY, M2X: m2x, M2Y: m2y, Cxy: cxy}
}

// Pearson returns the Pearson correlation coefficient, or NaN when
// undefined (fewer than two pairs, or either variance is zero).
func (s CorrState) Pearson() float64 {
	if s.Count < 2 {
		return math.NaN()
	}
	denom := math.Sqrt(s.M2X * s.M2Y)
	if denom == 0 {
		return math.NaN()
	}
	return s.Cxy / denom
}

// CovarianceSample returns the n-1 sample covariance.
func (s CorrState) CovarianceSample() float64 {
	if s.Count < 2 {
		return math.NaN()
	}
	return s.Cxy / float64(s.Count-1)
}

// CovariancePopulation returns the n population covariance.
func (s CorrState) CovariancePopulation() float64 {
	if s.Count == 0 {
		return math.NaN()
	}
	return s.Cxy / float64(s.Count)
}

// Pair is the full per-pair state accumulated over a chunk or an
// entire sequential pass: the always-on correlation moments plus the
// optional retained vectors and joint-frequency map gated by which
// rank/information statistics were requested.
type Pair struct {
	Key Key

	Corr CorrState

	// X, Y hold the retained float values, populated only when
	// Spearman or Kendall was requested.
	X, Y []float64

	// Joint counts co-occurrences of (x-string, y-string); populated
	// only when MI or NMI was requested. TotalPairs is the
	// denominator for the joint/marginal probabilities.
	Joint      map[[2]string]int64
	TotalPairs int64
}

// NewPair creates an empty pair state for key k, allocating the joint
// map when information statistics are requested. The retained vectors
// start empty whatever wantRanked says; AddRanked fills them.
func NewPair(k Key, wantRanked, wantInformation bool) *Pair {
	p := &Pair{Key: k}
	if wantInformation {
		p.Joint = make(map[[2]string]int64)
	}
	_ = wantRanked
	return p
}

// AddRanked appends one (x, y) pair to the retained vectors.
func (p *Pair) AddRanked(x, y float64) {
	p.X = append(p.X, x)
	p.Y = append(p.Y, y)
}

// AddJoint increments the joint count for one (x-string, y-string)
// observation and the total-pair counter.
func (p *Pair) AddJoint(x, y string) {
	p.Joint[[2]string{x, y}]++
	p.TotalPairs++
}

// Merge combines two chunk-private pair states for the same key.
func Merge(a, b *Pair) *Pair {
	out := &Pair{Key: a.Key}
	out.Corr = Combine(a.Corr, b.Corr)
	out.X = append(append([]float64{}, a.X...), b.X...)
	out.Y = append(append([]float64{}, a.Y...), b.Y...)
	if a.Joint != nil || b.Joint != nil {
		out.Joint = make(map[[2]string]int64, len(a.Joint)+len(b.Joint))
		for k, v := range a.Joint {
			out.Joint[k] += v
		}
		for k, v := range b.Joint {
			out.Joint[k] += v
		}
		out.TotalPairs = a.TotalPairs + b.TotalPairs
	}
	return out
}
