package bivariate

import (
	"math"
	"testing"

	dombiv "colstats/domain/bivariate"
)

func buildPair(x, y []float64) *dombiv.Pair {
	p := dombiv.NewPair(dombiv.Key{I: 0, J: 1}, true, true)
	for i := range x {
		p.Corr.Add(x[i], y[i])
		p.AddRanked(x[i], y[i])
	}
	return p
}

func TestFinalizeOnlyRequestedStatsPopulated(t *testing.T) {
	p := buildPair([]float64{1, 2, 3, 4}, []float64{2, 4, 6, 8})
	which := FinalizeWhich{Pearson: true}
	row := Finalize(p, "a", "b", which, 4, 4, 0)
	if row.Pearson == nil {
		t.Fatal("expected Pearson to be populated")
	}
	if row.Spearman != nil || row.Kendall != nil || row.MutualInformation != nil {
		t.Error("expected unrequested statistics to remain nil")
	}
}

func TestFinalizeNaNRendersAsNil(t *testing.T) {
	// a constant x vector makes Pearson undefined.
	p := buildPair([]float64{1, 1, 1, 1}, []float64{2, 4, 6, 8})
	which := FinalizeWhich{Pearson: true}
	row := Finalize(p, "a", "b", which, 4, 4, 0)
	if row.Pearson != nil {
		t.Errorf("Pearson = %v, want nil for undefined correlation", *row.Pearson)
	}
}

func TestFinalizeInformationGatedByCardinalityCeiling(t *testing.T) {
	p := dombiv.NewPair(dombiv.Key{I: 0, J: 1}, false, true)
	p.Corr.Add(1, 2)
	p.AddJoint("a", "x")
	which := FinalizeWhich{MI: true}

	row := Finalize(p, "a", "b", which, 50, 50, 10)
	if row.MutualInformation != nil {
		t.Error("expected MutualInformation nil when cardinality exceeds the ceiling")
	}

	row = Finalize(p, "a", "b", which, 5, 5, 10)
	if row.MutualInformation == nil {
		t.Error("expected MutualInformation populated when cardinality is within the ceiling")
	}
}

func TestNanToNil(t *testing.T) {
	if nanToNil(math.NaN()) != nil {
		t.Error("expected NaN to map to nil")
	}
	v := nanToNil(1.5)
	if v == nil || *v != 1.5 {
		t.Errorf("nanToNil(1.5) = %v, want pointer to 1.5", v)
	}
}
