package pool_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"
	"unshorten/pkg/pool"

	"github.com/stretchr/testify/require"
)

func TestMapPreservesOrder(t *testing.T) {
	items := make([]int, 100)
	for i := range items {
		items[i] = i
	}

	results := pool.Map(context.Background(), items, 10, func(_ context.Context, item int) string {
		// Finish in roughly reverse order to prove position wins over
		// completion order.
		time.Sleep(time.Duration(100-item) * time.Microsecond)

		return fmt.Sprintf("r%d", item)
	})

	require.Len(t, results, len(items))
	for i, r := range results {
		require.Equal(t, fmt.Sprintf("r%d", i), r)
	}
}

func TestMapBoundsConcurrency(t *testing.T) {
	const limit = 10

	var inFlight, peak atomic.Int64
	items := make([]int, 100)

	pool.Map(context.Background(), items, limit, func(_ context.Context, _ int) struct{} {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		inFlight.Add(-1)

		return struct{}{}
	})

	require.LessOrEqual(t, peak.Load(), int64(limit))
	require.Greater(t, peak.Load(), int64(1), "workers should actually overlap")
}

func TestMapLimitOne(t *testing.T) {
	var inFlight, peak atomic.Int64

	pool.Map(context.Background(), make([]int, 20), 1, func(_ context.Context, _ int) struct{} {
		n := inFlight.Add(1)
		if n > peak.Load() {
			peak.Store(n)
		}
		inFlight.Add(-1)

		return struct{}{}
	})

	require.Equal(t, int64(1), peak.Load())
}

func TestMapSiblingIsolation(t *testing.T) {
	// A "failing" worker returns an error value; its siblings still produce
	// theirs.
	results := pool.Map(context.Background(), []int{0, 1, 2, 3}, 2, func(_ context.Context, item int) error {
		if item == 1 {
			return fmt.Errorf("worker %d failed", item)
		}

		return nil
	})

	require.Len(t, results, 4)
	require.Error(t, results[1])
	require.NoError(t, results[0])
	require.NoError(t, results[2])
	require.NoError(t, results[3])
}

func TestMapCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := pool.Map(ctx, []int{0, 1, 2}, 2, func(ctx context.Context, item int) string {
		if ctx.Err() != nil {
			return "canceled"
		}

		return "ran"
	})

	require.Equal(t, []string{"canceled", "canceled", "canceled"}, results)
}

func TestMapEmptyInput(t *testing.T) {
	results := pool.Map(context.Background(), nil, 4, func(_ context.Context, item int) int { return item })
	require.Empty(t, results)
}
