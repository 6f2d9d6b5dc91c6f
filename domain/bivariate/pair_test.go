package bivariate

import (
	"math"
	"testing"
)

func TestCorrStatePerfectPositiveCorrelation(t *testing.T) {
	var s CorrState
	for i := 1; i <= 5; i++ {
		s.Add(float64(i), float64(i))
	}
	if math.Abs(s.Pearson()-1.0) > 1e-9 {
		t.Errorf("Pearson = %v, want 1.0", s.Pearson())
	}
}

func TestCorrStatePerfectNegativeCorrelation(t *testing.T) {
	var s CorrState
	for i := 1; i <= 5; i++ {
		s.Add(float64(i), float64(-i))
	}
	if math.Abs(s.Pearson()+1.0) > 1e-9 {
		t.Errorf("Pearson = %v, want -1.0", s.Pearson())
	}
}

func TestCorrStateZeroVarianceIsNaN(t *testing.T) {
	var s CorrState
	for i := 0; i < 5; i++ {
		s.Add(1, float64(i))
	}
	if !math.IsNaN(s.Pearson()) {
		t.Error("expected NaN Pearson when one variable has zero variance")
	}
}

func TestCorrStateUndefinedBelowTwoPairs(t *testing.T) {
	var s CorrState
	s.Add(1, 1)
	if !math.IsNaN(s.Pearson()) {
		t.Error("expected NaN Pearson for a single pair")
	}
}

func TestCombineMatchesSequentialCorrState(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5, 6}
	ys := []float64{2, 1, 4, 3, 6, 5}

	var sequential CorrState
	for i := range xs {
		sequential.Add(xs[i], ys[i])
	}

	var a, b CorrState
	for i := 0; i < 3; i++ {
		a.Add(xs[i], ys[i])
	}
	for i := 3; i < len(xs); i++ {
		b.Add(xs[i], ys[i])
	}
	combined := Combine(a, b)

	if math.Abs(combined.Pearson()-sequential.Pearson()) > 1e-9 {
		t.Errorf("Pearson = %v, want %v", combined.Pearson(), sequential.Pearson())
	}
	if math.Abs(combined.CovarianceSample()-sequential.CovarianceSample()) > 1e-9 {
		t.Errorf("CovarianceSample = %v, want %v", combined.CovarianceSample(), sequential.CovarianceSample())
	}
}

func TestKeyLess(t *testing.T) {
	if !Less(Key{0, 1}, Key{0, 2}) {
		t.Error("expected (0,1) < (0,2)")
	}
	if !Less(Key{0, 5}, Key{1, 0}) {
		t.Error("expected (0,5) < (1,0)")
	}
	if Less(Key{1, 0}, Key{0, 5}) {
		t.Error("expected (1,0) not < (0,5)")
	}
}

func TestPairMergeCombinesVectorsAndJoint(t *testing.T) {
	k := Key{0, 1}
	a := NewPair(k, true, true)
	a.Corr.Add(1, 2)
	a.AddRanked(1, 2)
	a.AddJoint("x", "y")

	b := NewPair(k, true, true)
	b.Corr.Add(3, 4)
	b.AddRanked(3, 4)
	b.AddJoint("x", "y")

	merged := Merge(a, b)
	if merged.Corr.Count != 2 {
		t.Errorf("Corr.Count = %d, want 2", merged.Corr.Count)
	}
	if len(merged.X) != 2 || len(merged.Y) != 2 {
		t.Errorf("len(X)/len(Y) = %d/%d, want 2/2", len(merged.X), len(merged.Y))
	}
	if merged.Joint[[2]string{"x", "y"}] != 2 {
		t.Errorf("Joint[x,y] = %d, want 2", merged.Joint[[2]string{"x", "y"}])
	}
	if merged.TotalPairs != 2 {
		t.Errorf("TotalPairs = %d, want 2", merged.TotalPairs)
	}
}

func TestNewPairWithoutInformationHasNilJoint(t *testing.T) {
	p := NewPair(Key{0, 1}, true, false)
	if p.Joint != nil {
		t.Error("expected nil Joint map when information statistics were not requested")
	}
}
