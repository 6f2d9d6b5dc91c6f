package advanced

import (
	"math"
	"testing"
)

func TestComputeRatiosSymmetricColumn(t *testing.T) {
	r := ComputeRatios(10, 10, 2, 8, 8, 12, 10, 6, 14, 1, 0.5)
	if math.Abs(r.PearsonSecondSkewness) > 1e-9 {
		t.Errorf("PearsonSecondSkewness = %v, want 0 for mean == median", r.PearsonSecondSkewness)
	}
	if math.Abs(r.ModeZScore) > 1e-9 {
		t.Errorf("ModeZScore = %v, want 0 when mode == mean", r.ModeZScore)
	}
	if math.Abs(r.MedianOverMean-1.0) > 1e-9 {
		t.Errorf("MedianOverMean = %v, want 1.0", r.MedianOverMean)
	}
}

func TestComputeRatiosZeroStdDevIsNaN(t *testing.T) {
	r := ComputeRatios(5, 5, 0, 0, 5, 5, 5, 5, 5, 0, 0)
	if !math.IsNaN(r.PearsonSecondSkewness) {
		t.Error("expected NaN PearsonSecondSkewness for zero stddev")
	}
	if !math.IsNaN(r.RangeOverStdDev) {
		t.Error("expected NaN RangeOverStdDev for zero stddev")
	}
	if !math.IsNaN(r.ModeZScore) {
		t.Error("expected NaN ModeZScore for zero stddev")
	}
}

func TestComputeRatiosZeroMeanIsNaN(t *testing.T) {
	r := ComputeRatios(0, 0, 1, 4, -2, 2, 0, -4, 4, 1, 0.1)
	if !math.IsNaN(r.MedianOverMean) {
		t.Error("expected NaN MedianOverMean for zero mean")
	}
	if !math.IsNaN(r.RelativeStandardError) {
		t.Error("expected NaN RelativeStandardError for zero mean")
	}
}

func TestComputeRatiosZeroRangeIsNaN(t *testing.T) {
	r := ComputeRatios(5, 5, 1, 0, 5, 5, 5, 5, 5, 0, 0.1)
	if !math.IsNaN(r.IQROverRange) {
		t.Error("expected NaN IQROverRange for zero range")
	}
}

func TestComputeRatiosQuartileCoeffDispersion(t *testing.T) {
	r := ComputeRatios(10, 10, 2, 8, 4, 16, 10, 6, 14, 1, 0.5)
	want := (16.0 - 4.0) / (16.0 + 4.0)
	if math.Abs(r.QuartileCoeffDispersion-want) > 1e-9 {
		t.Errorf("QuartileCoeffDispersion = %v, want %v", r.QuartileCoeffDispersion, want)
	}
}
