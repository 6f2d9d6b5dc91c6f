package engine

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"colstats/adapters/order"
	"colstats/domain/column"
	"colstats/domain/field"
	"colstats/internal/config"
)

// Which selects which optional output groups finalization assembles,
// mirroring the CLI flags that gate each bracketed group in the
// primary output column list.
type Which struct {
	Median      bool
	Quartiles   bool
	Cardinality bool
	Mode        bool
	Percentiles []float64
}

const msPerDay = 86400000.0

// Finalize consults which and assembles the ordered stats record for
// one column's accumulated state, per §4.3.
func Finalize(a *column.Accumulator, which Which, cfg *config.Config) *column.Record {
	r := &column.Record{
		Field:     a.Name,
		Type:      a.Typ.String(),
		IsASCII:   a.IsASCII,
		NullCount: a.NullCount,
	}

	r.Sum = renderSum(a)
	r.Min, r.Max, r.Range = renderMinMax(a, cfg)
	r.SortOrder = a.MinMax.Order().String()
	r.Sortiness = a.MinMax.Sortiness()

	r.MinLength = a.LengthMinMax.MinLen
	r.MaxLength = a.LengthMinMax.MaxLen
	r.SumLength = int64(a.OnlineLen.Mean * float64(a.OnlineLen.Count))
	if a.OnlineLen.Count > 0 {
		r.AvgLength = a.OnlineLen.Mean
		r.VarianceLength = a.OnlineLen.Variance()
		r.StdDevLength = math.Sqrt(r.VarianceLength)
		if r.AvgLength != 0 {
			cv := r.StdDevLength / r.AvgLength
			r.CVLength = &cv
		}
	}

	isNumeric := a.Typ == field.Integer || a.Typ == field.Float || a.Typ == field.Date || a.Typ == field.DateTime
	isDate := a.Typ == field.Date || a.Typ == field.DateTime

	if isNumeric && a.Online.Count > 0 {
		mean := a.Online.Mean
		r.Mean = ptrMaybeDate(mean, isDate)
		variance := a.Online.Variance()
		stddev := math.Sqrt(variance)
		r.StdDev = ptrMaybeDate(stddev, isDate)
		r.Variance = ptrMaybeDateVariance(variance, isDate)
		if a.Online.Count > 0 {
			sem := stddev / math.Sqrt(float64(a.Online.Count))
			r.SEM = ptrMaybeDate(sem, isDate)
		}
		if !isDate {
			if gm, hm, ok := geometricHarmonic(a); ok {
				r.GeometricMean = &gm
				r.HarmonicMean = &hm
			}
			roundedMean := math.Round(mean*1e5) / 1e5
			if roundedMean != 0 {
				cv := stddev / mean
				r.CV = &cv
			}
		}
	}

	r.MaxPrecision = a.MaxPrecision
	if a.ProcessedCount > 0 {
		r.Sparsity = float64(a.NullCount) / float64(a.ProcessedCount)
	}

	var q order.Quartiles
	var haveQuartiles bool
	if (which.Median || which.Quartiles) && len(a.UnsortedStats) > 0 {
		if qq, err := order.ComputeQuartiles(a.UnsortedStats); err == nil {
			q = qq
			haveQuartiles = true
		}
	}

	if which.Median && haveQuartiles {
		median := q.Q2
		r.Median = ptrMaybeDate(median, isDate)
		if mad, err := order.MADFromMedian(a.UnsortedStats, median); err == nil {
			r.MAD = ptrMaybeDate(mad, isDate)
		}
	}

	if which.Quartiles && haveQuartiles {
		of := outlierFencesFromQuartiles(q)
		r.LowerOuterFence = ptrMaybeDate(of.LowerOuter, isDate)
		r.LowerInnerFence = ptrMaybeDate(of.LowerInner, isDate)
		r.Q1 = ptrMaybeDate(q.Q1, isDate)
		r.Q2Median = ptrMaybeDate(q.Q2, isDate)
		r.Q3 = ptrMaybeDate(q.Q3, isDate)
		iqr := q.IQR
		r.IQR = ptrMaybeDate(iqr, isDate)
		r.UpperInnerFence = ptrMaybeDate(of.UpperInner, isDate)
		r.UpperOuterFence = ptrMaybeDate(of.UpperOuter, isDate)
		if !math.IsNaN(q.Skewness) {
			r.Skewness = &q.Skewness
		}
	}

	if which.Cardinality && a.DistinctCounts() != nil {
		card := order.Cardinality(a.DistinctCounts())
		r.Cardinality = &card
		ur := order.UniquenessRatio(card, a.ProcessedCount)
		r.UniquenessRatio = &ur
	}

	if which.Mode && a.DistinctCounts() != nil {
		ms := order.ComputeModes(a.DistinctCounts(), a.ProcessedCount)
		renderModes(r, ms, cfg)
	}

	if len(which.Percentiles) > 0 && len(a.UnsortedStats) > 0 {
		r.Percentiles = renderPercentiles(a.UnsortedStats, which.Percentiles, cfg.StatsSeparator)
	}

	return r
}

type fencePair struct{ LowerOuter, LowerInner, UpperInner, UpperOuter float64 }

func outlierFencesFromQuartiles(q order.Quartiles) fencePair {
	return fencePair{
		LowerOuter: q.Q1 - 3*q.IQR,
		LowerInner: q.Q1 - 1.5*q.IQR,
		UpperInner: q.Q3 + 1.5*q.IQR,
		UpperOuter: q.Q3 + 3*q.IQR,
	}
}

func renderSum(a *column.Accumulator) string {
	if a.SumOverflow {
		return "*OVERFLOW*"
	}
	if a.SumUnderflow {
		return "*UNDERFLOW*"
	}
	if a.SumIsFloat {
		return strconv.FormatFloat(a.SumFloat, 'f', -1, 64)
	}
	if a.Typ == field.Integer || a.Typ == field.Float {
		return strconv.FormatInt(a.SumInt, 10)
	}
	return ""
}

func renderMinMax(a *column.Accumulator, cfg *config.Config) (min, max string, rng *float64) {
	switch a.Typ {
	case field.Integer:
		min = strconv.FormatInt(int64(a.MinMax.Min), 10)
		max = strconv.FormatInt(int64(a.MinMax.Max), 10)
		r := a.MinMax.Max - a.MinMax.Min
		rng = &r
	case field.Float:
		min = strconv.FormatFloat(a.MinMax.Min, 'f', -1, 64)
		max = strconv.FormatFloat(a.MinMax.Max, 'f', -1, 64)
		r := a.MinMax.Max - a.MinMax.Min
		rng = &r
	case field.Date, field.DateTime:
		min = time.UnixMilli(int64(a.MinMax.Min)).UTC().Format(time.RFC3339)
		max = time.UnixMilli(int64(a.MinMax.Max)).UTC().Format(time.RFC3339)
		r := (a.MinMax.Max - a.MinMax.Min) / msPerDay
		rng = &r
	case field.String:
		min = truncateDisplay(a.MinMax.MinStr, cfg.StringDisplayCap)
		max = truncateDisplay(a.MinMax.MaxStr, cfg.StringDisplayCap)
	}
	return
}

// truncateDisplay caps a string min/max value at limit bytes, appending
// an ellipsis, per §4.2's "String extremes optionally truncate the
// displayed value at a configured byte length." limit <= 0 disables
// truncation, matching the antimode byte-budget's 0-disables
// convention.
func truncateDisplay(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	return order.TruncateUTF8(s, limit) + "..."
}

func renderModes(r *column.Record, ms order.ModeSet, cfg *config.Config) {
	if ms.AllUnique {
		r.Mode = ""
		zero := int64(0)
		r.ModeCount = &zero
		zeroI := 0
		r.ModeOccurrences = &zeroI
		r.Antimode = "*ALL"
		r.AntimodeCount = &zero
		one := 1
		r.AntimodeOccurrences = &one
		return
	}
	r.Mode = joinValues(ms.Modes, cfg.StatsSeparator)
	r.ModeCount = &ms.ModeCount
	mo := ms.ModeOccurrences
	r.ModeOccurrences = &mo
	r.Antimode = order.RenderAntimodes(ms, cfg.StatsSeparator, cfg.AntimodeByteBudget)
	r.AntimodeCount = &ms.AntimodeCount
	ao := ms.AntimodeOccurrences
	r.AntimodeOccurrences = &ao
}

func joinValues(values []string, sep string) string {
	out := ""
	for i, v := range values {
		if v == "" {
			v = "NULL"
		}
		if i > 0 {
			out += sep
		}
		out += v
	}
	return out
}

func renderPercentiles(data []float64, ps []float64, sep string) string {
	out := ""
	for i, p := range ps {
		v, err := order.Percentile(data, p)
		if i > 0 {
			out += sep
		}
		if err != nil {
			out += fmt.Sprintf("%g: ", p)
			continue
		}
		out += fmt.Sprintf("%g: %s", p, strconv.FormatFloat(v, 'f', -1, 64))
	}
	return out
}

func ptrMaybeDate(v float64, isDate bool) *float64 {
	if isDate {
		d := v / msPerDay
		if !(d == 0) {
			d = roundTo(d, 5)
		}
		return &d
	}
	return &v
}

func ptrMaybeDateVariance(v float64, isDate bool) *float64 {
	if isDate {
		d := v / (msPerDay * msPerDay)
		d = roundTo(d, 5)
		return &d
	}
	return &v
}

func roundTo(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}

// geometricHarmonic derives the geometric and harmonic means from the
// accumulator's streaming log-sum/reciprocal-sum, which are tracked
// unconditionally alongside Online; returns ok=false when no samples
// were seen or any of them was non-positive (both means are undefined
// there).
func geometricHarmonic(a *column.Accumulator) (geo, harm float64, ok bool) {
	if a.Online.Count == 0 || a.NonPositiveSeen {
		return 0, 0, false
	}
	n := float64(a.Online.Count)
	geo = math.Exp(a.LogSum / n)
	harm = n / a.ReciprocalSum
	return geo, harm, true
}
