package column

import (
	"math"
	"strconv"

	"colstats/domain/field"
)

// Add folds one classified sample into the accumulator. raw is the
// original byte value (needed for string-branch length/ASCII tracking
// and for the mode bag); s is its classification from the type
// inferencer. wantModes/wantUnsortedStats gate the optional bags.
func (a *Accumulator) Add(raw []byte, s field.Sample, wantModes, wantUnsortedStats bool) {
	a.Typ = field.Merge(a.Typ, s.Type)
	a.ProcessedCount++

	if len(raw) > 0 {
		a.addSum(s)
	}
	a.addMinMax(s, raw)

	if wantModes {
		if a.distinct == nil {
			a.distinct = make(map[string]int64)
		}
		str := string(raw)
		a.distinct[str]++
		a.Modes = append(a.Modes, str)
	}

	switch s.Type {
	case field.String:
		a.OnlineLen.Add(float64(len(raw)))
		if a.IsASCII && !isASCIIBytes(raw) {
			a.IsASCII = false
		}
		if len(raw) == 0 {
			a.NullCount++
		}
		return
	case field.Null:
		a.NullCount++
		return
	case field.Integer:
		if wantUnsortedStats {
			a.UnsortedStats = append(a.UnsortedStats, s.FloatVal)
		}
		a.Online.Add(s.FloatVal)
		a.addGeometricHarmonic(s.FloatVal)
	case field.Float:
		if wantUnsortedStats {
			a.UnsortedStats = append(a.UnsortedStats, s.FloatVal)
		}
		a.Online.Add(s.FloatVal)
		a.addGeometricHarmonic(s.FloatVal)
		a.MaxPrecision = maxInt(a.MaxPrecision, fractionDigits(s.FloatVal))
	case field.Date, field.DateTime:
		ms := float64(s.MillisVal)
		if wantUnsortedStats {
			a.UnsortedStats = append(a.UnsortedStats, ms)
		}
		a.Online.Add(ms)
	}
}

// addGeometricHarmonic folds one numeric value into the streaming
// geometric/harmonic mean inputs (§3's "online also tracks
// geometric/harmonic mean inputs"). Non-positive values make both
// means undefined for the column; NonPositiveSeen records that
// permanently instead of the caller having to rescan the data.
func (a *Accumulator) addGeometricHarmonic(v float64) {
	if v <= 0 {
		a.NonPositiveSeen = true
		return
	}
	a.LogSum += math.Log(v)
	a.ReciprocalSum += 1 / v
}

func (a *Accumulator) addSum(s field.Sample) {
	switch s.Type {
	case field.Integer:
		if a.SumIsFloat {
			a.SumFloat += s.FloatVal
			return
		}
		next := a.SumInt + s.IntVal
		// Saturating add: detect signed overflow/underflow.
		if (s.IntVal > 0 && next < a.SumInt) {
			a.SumOverflow = true
			a.SumInt = math.MaxInt64
			return
		}
		if s.IntVal < 0 && next > a.SumInt {
			a.SumUnderflow = true
			a.SumInt = math.MinInt64
			return
		}
		a.SumInt = next
	case field.Float:
		if !a.SumIsFloat {
			a.SumFloat = float64(a.SumInt)
			a.SumIsFloat = true
		}
		a.SumFloat += s.FloatVal
	}
}

func (a *Accumulator) addMinMax(s field.Sample, raw []byte) {
	switch s.Type {
	case field.Integer, field.Float:
		a.MinMax.AddNumeric(s.FloatVal)
	case field.Date, field.DateTime:
		a.MinMax.AddNumeric(float64(s.MillisVal))
	case field.String:
		a.MinMax.AddString(string(raw))
	}
	a.LengthMinMax.AddNumeric(float64(len(raw)))
}

func isASCIIBytes(b []byte) bool {
	for _, c := range b {
		if c > 127 {
			return false
		}
	}
	return true
}

func fractionDigits(f float64) int {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	for i, c := range s {
		if c == '.' {
			return len(s) - i - 1
		}
	}
	return 0
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Cardinality returns the number of distinct observed byte-string
// values, valid only when the accumulator was built with wantModes.
func (a *Accumulator) Cardinality() int64 {
	return int64(len(a.distinct))
}

// DistinctCounts exposes the distinct-value occurrence table backing
// mode/antimode computation.
func (a *Accumulator) DistinctCounts() map[string]int64 {
	return a.distinct
}
