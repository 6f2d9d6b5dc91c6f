package dispatch

import (
	"context"
	"errors"
	"testing"
)

func TestPlanChunksEvenSplit(t *testing.T) {
	plans := PlanChunks(100, 4)
	if len(plans) != 4 {
		t.Fatalf("len(plans) = %d, want 4", len(plans))
	}
	var total int64
	for _, p := range plans {
		total += p.Count
	}
	if total != 100 {
		t.Errorf("total rows across plans = %d, want 100", total)
	}
}

func TestPlanChunksLastAbsorbsRemainder(t *testing.T) {
	plans := PlanChunks(10, 3)
	var total int64
	for _, p := range plans {
		total += p.Count
	}
	if total != 10 {
		t.Errorf("total = %d, want 10", total)
	}
	if plans[len(plans)-1].Count < plans[0].Count {
		t.Errorf("last chunk should absorb the remainder, got %v", plans)
	}
}

func TestPlanChunksZeroRows(t *testing.T) {
	if plans := PlanChunks(0, 4); plans != nil {
		t.Errorf("PlanChunks(0, 4) = %v, want nil", plans)
	}
}

func TestPlanChunksFewerRowsThanJobs(t *testing.T) {
	plans := PlanChunks(2, 8)
	if len(plans) != 1 {
		t.Fatalf("len(plans) = %d, want 1 (collapsed to a single chunk)", len(plans))
	}
	if plans[0].Count != 2 {
		t.Errorf("plans[0].Count = %d, want 2", plans[0].Count)
	}
}

func TestPlanChunksOffsetsAreContiguous(t *testing.T) {
	plans := PlanChunks(23, 5)
	var next int64
	for _, p := range plans {
		if p.Offset != next {
			t.Errorf("Offset = %d, want %d", p.Offset, next)
		}
		next += p.Count
	}
}

func TestPlanChunksZeroJobsTreatedAsOne(t *testing.T) {
	plans := PlanChunks(10, 0)
	if len(plans) != 1 || plans[0].Count != 10 {
		t.Errorf("PlanChunks(10, 0) = %v, want a single chunk of 10", plans)
	}
}

func TestRunMergesAllChunkResults(t *testing.T) {
	plans := PlanChunks(40, 4)
	pool := NewPool[int](2)
	sum, err := Run(context.Background(), pool, plans, func(p Plan) (int, error) {
		return int(p.Count), nil
	}, func(a, b int) int { return a + b })
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if sum != 40 {
		t.Errorf("sum = %d, want 40", sum)
	}
}

func TestRunPropagatesFirstError(t *testing.T) {
	plans := PlanChunks(10, 2)
	wantErr := errors.New("boom")
	_, err := Run(context.Background(), NewPool[int](2), plans, func(p Plan) (int, error) {
		return 0, wantErr
	}, func(a, b int) int { return a + b })
	if !errors.Is(err, wantErr) {
		t.Errorf("Run error = %v, want %v", err, wantErr)
	}
}

func TestRunSingleChunkSkipsMerge(t *testing.T) {
	plans := PlanChunks(5, 1)
	got, err := Run(context.Background(), NewPool[int](1), plans, func(p Plan) (int, error) {
		return 7, nil
	}, func(a, b int) int {
		t.Fatal("merge should not be called for a single chunk")
		return 0
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if got != 7 {
		t.Errorf("got = %d, want 7", got)
	}
}
