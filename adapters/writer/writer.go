// Package writer renders finalized stats records to the primary,
// extended ("moar"), and bivariate CSV output formats, and computes
// the dataset fingerprint hash over the canonicalized projection §6
// specifies.
package writer

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"colstats/domain/column"
	"colstats/domain/core"
)

// PrimaryColumns is the fixed, ordered head of the primary output
// header; BuildHeader appends the optional groups the caller requested
// after it. See BuildRow for how each record maps onto it.
var PrimaryColumns = []string{
	"field", "type", "is_ascii", "sum", "min", "max", "range",
	"sort_order", "sortiness",
	"min_length", "max_length", "sum_length", "avg_length",
	"stddev_length", "variance_length", "cv_length",
	"mean", "sem", "geometric_mean", "harmonic_mean",
	"stddev", "variance", "cv", "nullcount", "max_precision", "sparsity",
}

var medianColumns = []string{"median", "mad"}
var quartileColumns = []string{
	"lower_outer_fence", "lower_inner_fence", "q1", "q2_median", "q3",
	"iqr", "upper_inner_fence", "upper_outer_fence", "skewness",
}
var cardinalityColumns = []string{"cardinality", "uniqueness_ratio"}
var modeColumns = []string{
	"mode", "mode_count", "mode_occurrences",
	"antimode", "antimode_count", "antimode_occurrences",
}
var percentileColumns = []string{"percentiles"}
var qsvValueColumn = []string{"qsv__value"}

// HeaderOptions mirrors the optional-group flags that were enabled
// when the records were finalized, so the writer emits a header that
// matches the records' populated fields exactly.
type HeaderOptions struct {
	Median      bool
	Quartiles   bool
	Cardinality bool
	Mode        bool
	Percentiles bool
	QsvValue    bool
}

// BuildHeader assembles the primary header in the fixed column order,
// including only the bracketed groups HeaderOptions enables.
func BuildHeader(opts HeaderOptions) []string {
	h := append([]string{}, PrimaryColumns...)
	if opts.Median {
		h = append(h, medianColumns...)
	}
	if opts.Quartiles {
		h = append(h, quartileColumns...)
	}
	if opts.Cardinality {
		h = append(h, cardinalityColumns...)
	}
	if opts.Mode {
		h = append(h, modeColumns...)
	}
	if opts.Percentiles {
		h = append(h, percentileColumns...)
	}
	if opts.QsvValue {
		h = append(h, qsvValueColumn...)
	}
	return h
}

// BuildRow renders one record's fields in the same order as
// BuildHeader.
func BuildRow(r *column.Record, opts HeaderOptions) []string {
	row := []string{
		r.Field, r.Type, boolCell(r.IsASCII), r.Sum, r.Min, r.Max,
		floatCell(r.Range), r.SortOrder, strconv.FormatFloat(r.Sortiness, 'f', -1, 64),
		strconv.Itoa(r.MinLength), strconv.Itoa(r.MaxLength),
		strconv.FormatInt(r.SumLength, 10), floatV(r.AvgLength),
		floatV(r.StdDevLength), floatV(r.VarianceLength), floatCell(r.CVLength),
		floatCell(r.Mean), floatCell(r.SEM), floatCell(r.GeometricMean), floatCell(r.HarmonicMean),
		floatCell(r.StdDev), floatCell(r.Variance), floatCell(r.CV),
		strconv.FormatInt(r.NullCount, 10), strconv.Itoa(r.MaxPrecision), floatV(r.Sparsity),
	}
	if opts.Median {
		row = append(row, floatCell(r.Median), floatCell(r.MAD))
	}
	if opts.Quartiles {
		row = append(row,
			floatCell(r.LowerOuterFence), floatCell(r.LowerInnerFence),
			floatCell(r.Q1), floatCell(r.Q2Median), floatCell(r.Q3),
			floatCell(r.IQR), floatCell(r.UpperInnerFence), floatCell(r.UpperOuterFence),
			floatCell(r.Skewness))
	}
	if opts.Cardinality {
		row = append(row, intCell(r.Cardinality), floatCell(r.UniquenessRatio))
	}
	if opts.Mode {
		row = append(row, r.Mode, intCell(r.ModeCount), intPtrCell(r.ModeOccurrences),
			r.Antimode, intCell(r.AntimodeCount), intPtrCell(r.AntimodeOccurrences))
	}
	if opts.Percentiles {
		row = append(row, r.Percentiles)
	}
	if opts.QsvValue {
		row = append(row, r.QsvValue)
	}
	return row
}

// WriteAtomic writes rows to a temp file in the destination's
// directory and renames it into place only on success, so a fatal
// error never leaves a partially-written primary output (§7).
func WriteAtomic(path string, header []string, rows [][]string) error {
	dir := filepath.Dir(path)
	pattern := ".colstats-" + core.NewRunID().String() + "-*.tmp"
	tmp, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return core.ErrResource
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			tmp.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

func boolCell(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func floatV(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func floatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func intCell(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func intPtrCell(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
