package bivariate

import (
	"math"
	"testing"
)

func TestKendallPerfectConcordance(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{1, 2, 3, 4, 5}
	if got := Kendall(x, y); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("Kendall = %v, want 1.0", got)
	}
}

func TestKendallPerfectDiscordance(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{5, 4, 3, 2, 1}
	if got := Kendall(x, y); math.Abs(got+1.0) > 1e-9 {
		t.Errorf("Kendall = %v, want -1.0", got)
	}
}

func TestKendallUndefinedBelowTwo(t *testing.T) {
	if !math.IsNaN(Kendall([]float64{1}, []float64{1})) {
		t.Error("expected NaN for fewer than two points")
	}
}

func TestKendallWithTies(t *testing.T) {
	x := []float64{1, 1, 2, 3}
	y := []float64{1, 2, 2, 3}
	got := Kendall(x, y)
	if math.IsNaN(got) {
		t.Fatal("expected a defined tau-b with partial ties")
	}
	if got < -1 || got > 1 {
		t.Errorf("Kendall = %v, out of [-1, 1] range", got)
	}
}

func TestCountInversions(t *testing.T) {
	tests := []struct {
		seq  []float64
		want int64
	}{
		{[]float64{1, 2, 3}, 0},
		{[]float64{3, 2, 1}, 3},
		{[]float64{2, 1, 3}, 1},
		{[]float64{1, 1, 1}, 0},
	}
	for _, tt := range tests {
		seq := append([]float64{}, tt.seq...)
		if got := countInversions(seq); got != tt.want {
			t.Errorf("countInversions(%v) = %d, want %d", tt.seq, got, tt.want)
		}
	}
}

func TestTieTerm(t *testing.T) {
	// two groups of two ties each: 1*0/2 contributes 0 per singleton,
	// t(t-1)/2 = 1 per pair of size 2.
	if got := tieTerm([]float64{1, 1, 2, 2}); got != 2 {
		t.Errorf("tieTerm = %v, want 2", got)
	}
	if got := tieTerm([]float64{1, 2, 3}); got != 0 {
		t.Errorf("tieTerm with no ties = %v, want 0", got)
	}
}
