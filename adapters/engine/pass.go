package engine

import (
	"context"
	"io"

	"colstats/adapters/dispatch"
	"colstats/adapters/reader"
	"colstats/domain/column"
	"colstats/domain/field"
	"colstats/internal/config"
)

// PassOptions controls what the optional accumulator bags retain,
// matching the CLI flags that decide whether cardinality/mode/median/
// quartile/percentile output was requested.
type PassOptions struct {
	DateInference bool
	WantModes     bool
	WantUnsorted  bool
	Jobs          int
}

// RunSequential processes every record from src into one accumulator
// per column, in input-schema order, without parallelism. It is the
// fallback path used whenever no index exists or the row count is
// below dispatch.ParallelThreshold (§4.5's "sequential fallback").
func RunSequential(src reader.RecordSource, header []string, opts PassOptions, cfg *config.Config) ([]*column.Accumulator, error) {
	accs := newAccumulators(header, opts)
	for {
		rec, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		addRecord(accs, rec, opts, cfg)
	}
	return accs, nil
}

// RunParallel splits an indexed source into chunks and processes them
// concurrently, merging per-column accumulators with the commutative
// merge in domain/column. Each worker seeks its own handle so no file
// offset is shared across goroutines, per §5's shared-resource
// policy.
func RunParallel(ctx context.Context, src reader.IndexedSource, header []string, opts PassOptions, cfg *config.Config) ([]*column.Accumulator, error) {
	rowCount, err := src.RowCount()
	if err != nil {
		return nil, err
	}
	plans := dispatch.PlanChunks(rowCount, opts.Jobs)
	pool := dispatch.NewPool[[]*column.Accumulator](opts.Jobs)

	merge := func(a, b []*column.Accumulator) []*column.Accumulator {
		out := make([]*column.Accumulator, len(a))
		for i := range a {
			out[i] = column.Merge(a[i], b[i])
		}
		return out
	}

	work := func(p dispatch.Plan) ([]*column.Accumulator, error) {
		chunk, err := src.OpenAt(p.Offset, p.Count)
		if err != nil {
			return nil, err
		}
		defer chunk.Close()
		accs := newAccumulators(header, opts)
		for {
			rec, err := chunk.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, err
			}
			addRecord(accs, rec, opts, cfg)
		}
		return accs, nil
	}

	return dispatch.Run(ctx, pool, plans, work, merge)
}

// bytesPerRetainedUnsortedSample and bytesPerRetainedModeSample are
// rough per-sample working-set estimates for the memory precheck: one
// retained float64 for the unsorted-stats bag, and an amortized
// string-plus-map-bucket cost for the mode bag.
const (
	bytesPerRetainedUnsortedSample = 8
	bytesPerRetainedModeSample     = 32
)

// EstimateRetainedBytes estimates the total working-set size a pass
// will hold once it finishes retaining samples across every column,
// for the §5 memory precheck. It deliberately over-estimates by
// assuming every column retains (the precheck runs before type
// inference has narrowed which columns are actually numeric/date vs.
// string), since a refusal is cheap to retry with a narrower request
// but a mid-pass OOM is not.
func EstimateRetainedBytes(rowCount int64, numColumns int, opts PassOptions) int64 {
	var perRow int64
	if opts.WantUnsorted {
		perRow += bytesPerRetainedUnsortedSample
	}
	if opts.WantModes {
		perRow += bytesPerRetainedModeSample
	}
	if perRow == 0 {
		return 0
	}
	return rowCount * int64(numColumns) * perRow
}

func newAccumulators(header []string, opts PassOptions) []*column.Accumulator {
	accs := make([]*column.Accumulator, len(header))
	for i, name := range header {
		accs[i] = column.NewAccumulator(i, name, opts.WantModes, opts.WantUnsorted)
	}
	return accs
}

func addRecord(accs []*column.Accumulator, rec []string, opts PassOptions, cfg *config.Config) {
	for i, acc := range accs {
		if i >= len(rec) {
			continue
		}
		raw := []byte(rec[i])
		s := Classify(raw, acc.Typ, opts.DateInference, cfg.DatePreference)
		acc.Add(raw, s, opts.WantModes, opts.WantUnsorted)
	}
}

// NarrowAll applies the post-hoc Boolean narrowing rule to every
// column once a pass is complete: a column narrows to Boolean only
// when its cardinality is exactly two and both distinct values match
// a configured boolean pattern. Callers run this once after
// RunSequential/RunParallel return, never per record, since the rule
// is inherently a final-state check over the completed distinct-value
// table.
func NarrowAll(accs []*column.Accumulator, cfg *config.Config) {
	for _, acc := range accs {
		NarrowBoolean(acc, cfg)
	}
}

// NarrowBoolean mutates acc.Typ to field.Boolean when its two distinct
// values both match a configured boolean pattern. Safe to call once
// at finalization instead of per-record.
func NarrowBoolean(acc *column.Accumulator, cfg *config.Config) {
	counts := acc.DistinctCounts()
	if counts == nil || len(counts) != 2 {
		return
	}
	if acc.Typ != field.Integer && acc.Typ != field.String {
		return
	}
	keys := make([]string, 0, 2)
	for k := range counts {
		keys = append(keys, k)
	}
	if field.MatchesBoolean(keys[0], keys[1], cfg.BoolPatterns) {
		acc.Typ = field.Boolean
	}
}
