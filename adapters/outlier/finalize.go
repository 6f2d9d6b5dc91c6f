package outlier

import (
	"math"

	domoutlier "colstats/domain/outlier"
)

// Summary is the finalized set of derived outlier/robust-mean
// statistics for one column, per §4.4's finalization paragraph.
type Summary struct {
	ColumnIndex int

	ExtremeLowerCount int64
	MildLowerCount    int64
	NormalCount       int64
	MildUpperCount    int64
	ExtremeUpperCount int64

	OutliersMean     float64
	NonOutliersMean  float64
	MeanRatio        float64
	OutliersVariance float64
	OutliersStdDev   float64
	NonOutliersVariance float64
	NonOutliersStdDev  float64
	OutliersCV       float64
	NonOutliersCV    float64
	SpreadRatio      float64

	OutlierPercentage      float64
	OutlierImpact          float64
	NormalizedOutlierImpact float64

	WinsorizedMean     float64
	WinsorizedVariance float64
	WinsorizedStdDev   float64
	WinsorizedCV       float64
	WinsorizedRange    float64

	TrimmedMean     float64
	TrimmedVariance float64
	TrimmedStdDev   float64
	TrimmedCV       float64
	TrimmedRange    float64

	LowerOuterFenceZScore float64
	UpperOuterFenceZScore float64
}

// Finalize computes every derived statistic from a completed tally
// and its source fences.
func Finalize(t *domoutlier.Tally, f domoutlier.Fences) Summary {
	s := Summary{
		ColumnIndex:       t.ColumnIndex,
		ExtremeLowerCount: t.Buckets[domoutlier.ExtremeLower],
		MildLowerCount:    t.Buckets[domoutlier.MildLower],
		NormalCount:       t.Buckets[domoutlier.Normal],
		MildUpperCount:    t.Buckets[domoutlier.MildUpper],
		ExtremeUpperCount: t.Buckets[domoutlier.ExtremeUpper],
	}

	s.OutliersMean = t.Outliers.Mean()
	s.NonOutliersMean = t.NonOutliers.Mean()
	if s.NonOutliersMean != 0 {
		s.MeanRatio = s.OutliersMean / s.NonOutliersMean
	} else {
		s.MeanRatio = math.NaN()
	}

	s.OutliersVariance = t.Outliers.SampleVariance()
	s.OutliersStdDev = t.Outliers.StdDev()
	s.NonOutliersVariance = t.NonOutliers.SampleVariance()
	s.NonOutliersStdDev = t.NonOutliers.StdDev()
	s.OutliersCV = t.Outliers.CV()
	s.NonOutliersCV = t.NonOutliers.CV()
	if s.NonOutliersStdDev != 0 {
		s.SpreadRatio = s.OutliersStdDev / s.NonOutliersStdDev
	} else {
		s.SpreadRatio = math.NaN()
	}

	if t.ProcessedCount > 0 {
		s.OutlierPercentage = float64(t.TotalOutliers()) / float64(t.ProcessedCount) * 100
	}

	allMean := t.All.Mean()
	s.OutlierImpact = allMean - s.NonOutliersMean
	if s.NonOutliersMean != 0 {
		s.NormalizedOutlierImpact = s.OutlierImpact / s.NonOutliersMean
	} else {
		s.NormalizedOutlierImpact = math.NaN()
	}

	s.WinsorizedMean = t.Winsorized.Mean()
	s.WinsorizedVariance = t.Winsorized.SampleVariance()
	s.WinsorizedStdDev = t.Winsorized.StdDev()
	s.WinsorizedCV = t.Winsorized.CV()
	s.WinsorizedRange = t.Winsorized.Range()

	s.TrimmedMean = t.Trimmed.Mean()
	s.TrimmedVariance = t.Trimmed.SampleVariance()
	s.TrimmedStdDev = t.Trimmed.StdDev()
	s.TrimmedCV = t.Trimmed.CV()
	s.TrimmedRange = t.Trimmed.Range()

	if s.NonOutliersStdDev != 0 {
		s.LowerOuterFenceZScore = (f.LowerOuter - s.NonOutliersMean) / s.NonOutliersStdDev
		s.UpperOuterFenceZScore = (f.UpperOuter - s.NonOutliersMean) / s.NonOutliersStdDev
	} else {
		s.LowerOuterFenceZScore = math.NaN()
		s.UpperOuterFenceZScore = math.NaN()
	}

	return s
}
