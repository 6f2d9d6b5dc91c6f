package bivariate

import (
	"context"
	"io"
	"math"
	"strconv"

	"colstats/adapters/dispatch"
	"colstats/adapters/engine"
	"colstats/adapters/reader"
	dombiv "colstats/domain/bivariate"
	"colstats/internal/config"
)

// FieldSummary is the subset of a column's first-pass stats the
// pre-filter and pair-selection step needs, per §4.5's inputs.
type FieldSummary struct {
	ColumnIndex int
	IsDate      bool
	StdDev      float64
	Variance    float64
	Cardinality int64
}

const floatTolerance = 1e-12

// ShouldSkip implements the §4.5 pair pre-filter: a pair is skipped
// when either field has zero variance/stddev (to tolerance), when
// both have cardinality 1, or when either field's cardinality equals
// the total row count (a non-repeating key column).
func ShouldSkip(a, b FieldSummary, rowCount int64) bool {
	if math.Abs(a.StdDev) < floatTolerance || math.Abs(b.StdDev) < floatTolerance {
		return true
	}
	if math.Abs(a.Variance) < floatTolerance || math.Abs(b.Variance) < floatTolerance {
		return true
	}
	if a.Cardinality == 1 && b.Cardinality == 1 {
		return true
	}
	if a.Cardinality == rowCount || b.Cardinality == rowCount {
		return true
	}
	return false
}

// Selection holds the pairs surviving pre-filtering plus which
// optional statistics were requested, gating retained-vector and
// joint-map population during chunk processing.
type Selection struct {
	Pairs           []dombiv.Key
	WantRanked      bool // Spearman or Kendall
	WantInformation bool // MI or NMI
	CardinalityCeiling int64
	Cardinalities   map[int]int64
}

func parseCell(raw string, isDate bool, pref config.DatePreference) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		if isDate {
			return v / 86400000.0, true
		}
		return v, true
	}
	if isDate {
		if ms, ok := engine.ParseDateMillis(raw, pref); ok {
			return float64(ms) / 86400000.0, true
		}
	}
	return 0, false
}

func newPairStates(sel Selection) map[dombiv.Key]*dombiv.Pair {
	m := make(map[dombiv.Key]*dombiv.Pair, len(sel.Pairs))
	for _, k := range sel.Pairs {
		m[k] = dombiv.NewPair(k, sel.WantRanked, sel.WantInformation)
	}
	return m
}

func addRecord(pairs map[dombiv.Key]*dombiv.Pair, sel Selection, rec []string, isDate map[int]bool, pref config.DatePreference) {
	for k, p := range pairs {
		if k.I >= len(rec) || k.J >= len(rec) {
			continue
		}
		xs, ys := rec[k.I], rec[k.J]
		if xs == "" || ys == "" {
			continue
		}
		x, okx := parseCell(xs, isDate[k.I], pref)
		y, oky := parseCell(ys, isDate[k.J], pref)
		if !okx || !oky {
			continue
		}
		p.Corr.Add(x, y)
		if sel.WantRanked {
			p.AddRanked(x, y)
		}
		if sel.WantInformation {
			p.AddJoint(xs, ys)
		}
	}
}

// RunSequential processes every record of src, accumulating every
// surviving pair's state.
func RunSequential(src reader.RecordSource, sel Selection, isDate map[int]bool, pref config.DatePreference) (map[dombiv.Key]*dombiv.Pair, error) {
	pairs := newPairStates(sel)
	for {
		rec, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		addRecord(pairs, sel, rec, isDate, pref)
	}
	return pairs, nil
}

// RunParallel mirrors RunSequential over an indexed source's chunks,
// merging per-pair states with domain/bivariate's commutative merge.
func RunParallel(ctx context.Context, src reader.IndexedSource, sel Selection, isDate map[int]bool, jobs int, pref config.DatePreference) (map[dombiv.Key]*dombiv.Pair, error) {
	rowCount, err := src.RowCount()
	if err != nil {
		return nil, err
	}
	plans := dispatch.PlanChunks(rowCount, jobs)
	pool := dispatch.NewPool[map[dombiv.Key]*dombiv.Pair](jobs)

	merge := func(a, b map[dombiv.Key]*dombiv.Pair) map[dombiv.Key]*dombiv.Pair {
		out := make(map[dombiv.Key]*dombiv.Pair, len(a))
		for k, v := range a {
			if bv, ok := b[k]; ok {
				out[k] = dombiv.Merge(v, bv)
			} else {
				out[k] = v
			}
		}
		return out
	}

	work := func(p dispatch.Plan) (map[dombiv.Key]*dombiv.Pair, error) {
		chunk, err := src.OpenAt(p.Offset, p.Count)
		if err != nil {
			return nil, err
		}
		defer chunk.Close()
		pairs := newPairStates(sel)
		for {
			rec, err := chunk.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, err
			}
			addRecord(pairs, sel, rec, isDate, pref)
		}
		return pairs, nil
	}

	return dispatch.Run(ctx, pool, plans, work, merge)
}
