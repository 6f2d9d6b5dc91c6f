// Package outlier implements the §4.4 second pass: classifying each
// tracked column's values against IQR-derived fences and accumulating
// the five-bucket tally plus winsorized/trimmed moments.
package outlier

import (
	"context"
	"io"
	"strconv"

	"colstats/adapters/dispatch"
	"colstats/adapters/engine"
	"colstats/adapters/reader"
	domoutlier "colstats/domain/outlier"
	"colstats/internal/config"
)

// Target names one tracked column by its position and its fence
// descriptor.
type Target struct {
	ColumnIndex int
	Fences      domoutlier.Fences
	IsDate      bool
}

// parseValue parses one field's bytes to the float the tally operates
// on: numerics directly, dates by re-parsing the calendar text and
// converting to epoch days (matching the type inferencer's
// millisecond value, divided to days). Empty and unparsable values
// return ok=false and are skipped, per §4.4.
func parseValue(raw string, isDate bool, pref config.DatePreference) (float64, bool) {
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

// RunSequential processes every record from src, classifying each
// tracked target column and returning one tally per target.
func RunSequential(src reader.RecordSource, targets []Target, pref config.DatePreference) (map[int]*domoutlier.Tally, error) {
	tallies := newTallies(targets)
	for {
		rec, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		addRecord(tallies, targets, rec, pref)
	}
	return tallies, nil
}

// RunParallel mirrors RunSequential over chunks of an indexed source,
// merging per-target tallies with the reducer's componentwise merge.
func RunParallel(ctx context.Context, src reader.IndexedSource, targets []Target, jobs int, pref config.DatePreference) (map[int]*domoutlier.Tally, error) {
	rowCount, err := src.RowCount()
	if err != nil {
		return nil, err
	}
	plans := dispatch.PlanChunks(rowCount, jobs)
	pool := dispatch.NewPool[map[int]*domoutlier.Tally](jobs)

	merge := func(a, b map[int]*domoutlier.Tally) map[int]*domoutlier.Tally {
		out := make(map[int]*domoutlier.Tally, len(a))
		for k, v := range a {
			if bv, ok := b[k]; ok {
				out[k] = domoutlier.Merge(v, bv)
			} else {
				out[k] = v
			}
		}
		return out
	}

	work := func(p dispatch.Plan) (map[int]*domoutlier.Tally, error) {
		chunk, err := src.OpenAt(p.Offset, p.Count)
		if err != nil {
			return nil, err
		}
		defer chunk.Close()
		tallies := newTallies(targets)
		for {
			rec, err := chunk.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, err
			}
			addRecord(tallies, targets, rec, pref)
		}
		return tallies, nil
	}

	return dispatch.Run(ctx, pool, plans, work, merge)
}

func newTallies(targets []Target) map[int]*domoutlier.Tally {
	m := make(map[int]*domoutlier.Tally, len(targets))
	for _, t := range targets {
		m[t.ColumnIndex] = &domoutlier.Tally{ColumnIndex: t.ColumnIndex}
	}
	return m
}

func addRecord(tallies map[int]*domoutlier.Tally, targets []Target, rec []string, pref config.DatePreference) {
	for _, t := range targets {
		if t.ColumnIndex >= len(rec) {
			continue
		}
		v, ok := parseValue(rec[t.ColumnIndex], t.IsDate, pref)
		if !ok {
			continue
		}
		domoutlier.Add(tallies[t.ColumnIndex], v, t.Fences)
	}
}
