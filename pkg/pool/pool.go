// Package pool provides a bounded-concurrency positional map: a fixed-size
// gate admits workers in submission order while results land at the index of
// the item that produced them, so completion order never leaks into output
// order.
package pool

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Map runs worker over items with at most limit invocations in flight and
// returns the results in the items' order. Workers are expected to convert
// their own failures into result values; one worker's failure never cancels a
// sibling. A limit below one is treated as one.
//
// When ctx is canceled, not-yet-admitted workers still run (the gate is
// bypassed) but receive the canceled context, so they can degrade quickly
// while keeping the one-result-per-item contract intact.
func Map[T, R any](ctx context.Context, items []T, limit int, worker func(ctx context.Context, item T) R) []R {
	if limit < 1 {
		limit = 1
	}

	results := make([]R, len(items))
	sem := semaphore.NewWeighted(int64(limit))

	var wg sync.WaitGroup
	for i := range items {
		gated := sem.Acquire(ctx, 1) == nil

		wg.Add(1)
		go func(i int, gated bool) {
			defer wg.Done()
			if gated {
				defer sem.Release(1)
			}
			results[i] = worker(ctx, items[i])
		}(i, gated)
	}
	wg.Wait()

	return results
}
