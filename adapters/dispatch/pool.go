// Package dispatch provides the reusable chunk-planning, bounded
// worker pool, and commutative-merge reducer that the outlier and
// bivariate passes both build on for parallel execution over an
// indexed record source.
package dispatch

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// ParallelThreshold is the minimum data row count at which a pass
// switches from sequential to chunked parallel execution, per §4.1/
// §4.4's "index present and row count >= 10,000" rule.
const ParallelThreshold = 10_000

// Plan describes one chunk's offset and record count within a row
// range split into `jobs` roughly equal pieces.
type Plan struct {
	Offset int64
	Count  int64
}

// PlanChunks splits rowCount rows into `jobs` chunks of size
// rowCount/jobs (the last chunk absorbing the remainder), per §4.8.
func PlanChunks(rowCount int64, jobs int) []Plan {
	if jobs < 1 {
		jobs = 1
	}
	chunkSize := rowCount / int64(jobs)
	if chunkSize == 0 {
		chunkSize = rowCount
		jobs = 1
		if rowCount == 0 {
			return nil
		}
	}
	plans := make([]Plan, 0, jobs)
	var offset int64
	for i := 0; i < jobs; i++ {
		count := chunkSize
		if i == jobs-1 {
			count = rowCount - offset
		}
		if count <= 0 {
			break
		}
		plans = append(plans, Plan{Offset: offset, Count: count})
		offset += count
	}
	return plans
}

// Pool runs a fixed-size set of chunk workers, each producing a
// private result of type T, sent through a channel bounded to the
// chunk count to prevent memory ballooning, and reduced into a single
// T via a caller-supplied commutative merge function.
type Pool[T any] struct {
	sem *semaphore.Weighted
}

// NewPool creates a pool allowing at most `workers` chunk jobs to run
// concurrently.
func NewPool[T any](workers int) *Pool[T] {
	if workers < 1 {
		workers = 1
	}
	return &Pool[T]{sem: semaphore.NewWeighted(int64(workers))}
}

// Run executes work(plan) for every plan in plans, bounded to the
// pool's worker count, and reduces all results (in arrival order, not
// plan order — the merge function must be commutative) via merge. The
// first worker error aborts the pass: the pass surfaces the first
// error rather than silently skipping chunks, per §4.8's failure
// model.
func Run[T any](ctx context.Context, pool *Pool[T], plans []Plan, work func(Plan) (T, error), merge func(a, b T) T) (T, error) {
	var zero T
	type outcome struct {
		result T
		err    error
	}
	results := make(chan outcome, len(plans))

	for _, p := range plans {
		if err := pool.sem.Acquire(ctx, 1); err != nil {
			return zero, err
		}
		go func(plan Plan) {
			defer pool.sem.Release(1)
			r, err := work(plan)
			results <- outcome{result: r, err: err}
		}(p)
	}

	var merged T
	haveMerged := false
	var firstErr error
	for range plans {
		o := <-results
		if o.err != nil {
			if firstErr == nil {
				firstErr = o.err
			}
			continue
		}
		if !haveMerged {
			merged = o.result
			haveMerged = true
		} else {
			merged = merge(merged, o.result)
		}
	}
	if firstErr != nil {
		return zero, firstErr
	}
	return merged, nil
}
