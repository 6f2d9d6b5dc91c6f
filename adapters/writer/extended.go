package writer

import (
	"fmt"
	"math"
	"strconv"

	"colstats/adapters/advanced"
	outlierpass "colstats/adapters/outlier"
)

// ExtendedOptions selects which "--everything" column groups appear
// in the extended output; each maps to one of the optional second/
// third-pass computations (§4.4, §4.6, §4.7).
type ExtendedOptions struct {
	Outlier          bool
	Moments          bool // kurtosis, Gini, Atkinson
	AtkinsonEpsilon  float64
	Entropy          bool
	Ratios           bool
	XSDType          bool
}

// ExtendedRecord bundles one column's extended statistics; fields not
// selected by ExtendedOptions are left at their zero value and are
// not rendered.
type ExtendedRecord struct {
	Field string

	Outlier outlierpass.Summary

	Kurtosis       float64
	Gini           float64
	Atkinson       float64
	NormalityPValue float64

	ShannonEntropy        float64
	NormalizedEntropy     float64
	BimodalityCoefficient float64

	Ratios advanced.Ratios

	XSDType string
}

// BuildExtendedHeader assembles the extended header; the Atkinson
// column name embeds the epsilon value used to compute it, matching
// the winsorized/trimmed-style threshold-in-name convention.
func BuildExtendedHeader(opts ExtendedOptions) []string {
	h := []string{"field"}
	if opts.Outlier {
		h = append(h,
			"extreme_lower_count", "mild_lower_count", "normal_count",
			"mild_upper_count", "extreme_upper_count",
			"outliers_mean", "non_outliers_mean", "mean_ratio",
			"outliers_variance", "outliers_stddev",
			"non_outliers_variance", "non_outliers_stddev",
			"outliers_cv", "non_outliers_cv", "spread_ratio",
			"outlier_percentage", "outlier_impact", "normalized_outlier_impact",
			"winsorized_mean_25pct", "winsorized_variance", "winsorized_stddev",
			"winsorized_cv", "winsorized_range",
			"trimmed_mean_25pct", "trimmed_variance", "trimmed_stddev",
			"trimmed_cv", "trimmed_range",
			"lower_outer_fence_zscore", "upper_outer_fence_zscore",
		)
	}
	if opts.Moments {
		h = append(h, "kurtosis", "gini_coefficient",
			fmt.Sprintf("atkinson_index_(%s)", strconv.FormatFloat(opts.AtkinsonEpsilon, 'g', -1, 64)),
			"normality_p_value")
	}
	if opts.Entropy {
		h = append(h, "shannon_entropy", "normalized_entropy", "bimodality_coefficient")
	}
	if opts.Ratios {
		h = append(h,
			"pearson_second_skewness", "range_over_stddev", "quartile_coeff_dispersion",
			"mode_zscore", "min_zscore", "max_zscore", "median_over_mean",
			"iqr_over_range", "mad_over_stddev", "relative_standard_error",
		)
	}
	if opts.XSDType {
		h = append(h, "xsd_type")
	}
	return h
}

// BuildExtendedRow renders one extended record in the same order as
// BuildExtendedHeader.
func BuildExtendedRow(r ExtendedRecord, opts ExtendedOptions) []string {
	row := []string{r.Field}
	if opts.Outlier {
		o := r.Outlier
		row = append(row,
			strconv.FormatInt(o.ExtremeLowerCount, 10), strconv.FormatInt(o.MildLowerCount, 10),
			strconv.FormatInt(o.NormalCount, 10), strconv.FormatInt(o.MildUpperCount, 10),
			strconv.FormatInt(o.ExtremeUpperCount, 10),
			numCell(o.OutliersMean), numCell(o.NonOutliersMean), numCell(o.MeanRatio),
			numCell(o.OutliersVariance), numCell(o.OutliersStdDev),
			numCell(o.NonOutliersVariance), numCell(o.NonOutliersStdDev),
			numCell(o.OutliersCV), numCell(o.NonOutliersCV), numCell(o.SpreadRatio),
			numCell(o.OutlierPercentage), numCell(o.OutlierImpact), numCell(o.NormalizedOutlierImpact),
			numCell(o.WinsorizedMean), numCell(o.WinsorizedVariance), numCell(o.WinsorizedStdDev),
			numCell(o.WinsorizedCV), numCell(o.WinsorizedRange),
			numCell(o.TrimmedMean), numCell(o.TrimmedVariance), numCell(o.TrimmedStdDev),
			numCell(o.TrimmedCV), numCell(o.TrimmedRange),
			numCell(o.LowerOuterFenceZScore), numCell(o.UpperOuterFenceZScore),
		)
	}
	if opts.Moments {
		row = append(row, numCell(r.Kurtosis), numCell(r.Gini), numCell(r.Atkinson), numCell(r.NormalityPValue))
	}
	if opts.Entropy {
		row = append(row, numCell(r.ShannonEntropy), numCell(r.NormalizedEntropy), numCell(r.BimodalityCoefficient))
	}
	if opts.Ratios {
		rr := r.Ratios
		row = append(row,
			numCell(rr.PearsonSecondSkewness), numCell(rr.RangeOverStdDev), numCell(rr.QuartileCoeffDispersion),
			numCell(rr.ModeZScore), numCell(rr.MinZScore), numCell(rr.MaxZScore), numCell(rr.MedianOverMean),
			numCell(rr.IQROverRange), numCell(rr.MADOverStdDev), numCell(rr.RelativeStandardError),
		)
	}
	if opts.XSDType {
		row = append(row, r.XSDType)
	}
	return row
}

// numCell renders a float64, collapsing NaN/Inf (an undefined
// derivative statistic, e.g. division by a zero stddev) to an empty
// cell rather than the literal "NaN"/"+Inf" text.
func numCell(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
