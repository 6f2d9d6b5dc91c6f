package advanced

import "math"

// Ratios holds the closed-form derivative statistics §3/§4.6 name:
// quick-to-compute shape and dispersion ratios built from quantities
// the first two passes already produced.
type Ratios struct {
	PearsonSecondSkewness   float64 // 3(mean - median) / stddev
	RangeOverStdDev         float64
	QuartileCoeffDispersion float64 // (Q3-Q1) / (Q3+Q1)
	ModeZScore              float64
	MinZScore               float64
	MaxZScore               float64
	MedianOverMean          float64
	IQROverRange            float64
	MADOverStdDev           float64
	RelativeStandardError   float64 // SEM / mean
}

// ComputeRatios assembles the ratio set; any input statistic that is
// undefined for the column (NaN) propagates to NaN in the ratios that
// depend on it, rendered as an empty cell by the writer.
func ComputeRatios(mean, median, stddev, rng, q1, q3, mode, min, max, mad, sem float64) Ratios {
	r := Ratios{}

	if stddev != 0 {
		r.PearsonSecondSkewness = 3 * (mean - median) / stddev
		r.RangeOverStdDev = rng / stddev
		r.ModeZScore = (mode - mean) / stddev
		r.MinZScore = (min - mean) / stddev
		r.MaxZScore = (max - mean) / stddev
		r.MADOverStdDev = mad / stddev
	} else {
		r.PearsonSecondSkewness = math.NaN()
		r.RangeOverStdDev = math.NaN()
		r.ModeZScore = math.NaN()
		r.MinZScore = math.NaN()
		r.MaxZScore = math.NaN()
		r.MADOverStdDev = math.NaN()
	}

	if q3+q1 != 0 {
		r.QuartileCoeffDispersion = (q3 - q1) / (q3 + q1)
	} else {
		r.QuartileCoeffDispersion = math.NaN()
	}

	if mean != 0 {
		r.MedianOverMean = median / mean
		r.RelativeStandardError = sem / mean
	} else {
		r.MedianOverMean = math.NaN()
		r.RelativeStandardError = math.NaN()
	}

	if rng != 0 {
		r.IQROverRange = (q3 - q1) / rng
	} else {
		r.IQROverRange = math.NaN()
	}

	return r
}
