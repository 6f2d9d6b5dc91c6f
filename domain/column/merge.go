package column

import "colstats/domain/field"

// Merge combines two chunk-private accumulators for the same column
// into the state a single sequential pass over both chunks (in either
// order) would have produced. It is commutative and associative,
// which lets the dispatcher merge results from any number of chunks
// in any order.
func Merge(a, b *Accumulator) *Accumulator {
	out := &Accumulator{
		ColumnIndex: a.ColumnIndex,
		Name:        a.Name,
		Typ:         field.Merge(a.Typ, b.Typ),
		IsASCII:     a.IsASCII && b.IsASCII,
		MaxPrecision: maxInt(a.MaxPrecision, b.MaxPrecision),
		NullCount:   a.NullCount + b.NullCount,
		ProcessedCount: a.ProcessedCount + b.ProcessedCount,
	}

	out.SumIsFloat = a.SumIsFloat || b.SumIsFloat
	if out.SumIsFloat {
		af := a.SumFloat
		if !a.SumIsFloat {
			af = float64(a.SumInt)
		}
		bf := b.SumFloat
		if !b.SumIsFloat {
			bf = float64(b.SumInt)
		}
		out.SumFloat = af + bf
	} else {
		out.SumInt = a.SumInt + b.SumInt
	}
	out.SumOverflow = a.SumOverflow || b.SumOverflow
	out.SumUnderflow = a.SumUnderflow || b.SumUnderflow

	out.Online = Combine(a.Online, b.Online)
	out.OnlineLen = Combine(a.OnlineLen, b.OnlineLen)
	out.LogSum = a.LogSum + b.LogSum
	out.ReciprocalSum = a.ReciprocalSum + b.ReciprocalSum
	out.NonPositiveSeen = a.NonPositiveSeen || b.NonPositiveSeen

	out.MinMax = a.MinMax
	out.MinMax.CombineNumeric(b.MinMax)
	if b.MinMax.isString {
		out.MinMax.AddString(b.MinMax.MinStr)
		out.MinMax.AddString(b.MinMax.MaxStr)
	}
	out.LengthMinMax = a.LengthMinMax
	out.LengthMinMax.CombineNumeric(b.LengthMinMax)

	if a.distinct != nil || b.distinct != nil {
		out.distinct = make(map[string]int64, len(a.distinct)+len(b.distinct))
		for k, v := range a.distinct {
			out.distinct[k] += v
		}
		for k, v := range b.distinct {
			out.distinct[k] += v
		}
	}
	out.Modes = append(append([]string{}, a.Modes...), b.Modes...)
	out.UnsortedStats = append(append([]float64{}, a.UnsortedStats...), b.UnsortedStats...)

	return out
}
