package worker

import (
	"context"
	"sync"
)

// Map runs fn over items with at most workers goroutines and returns the
// results in input order. Items not started before ctx is cancelled get
// skipped(item, ctx.Err()) instead.
func Map[T, R any](ctx context.Context, workers int, items []T, fn func(context.Context, T) R, skipped func(T, error) R) []R {
	if workers <= 0 {
		workers = 1
	}
	if workers > len(items) {
		workers = len(items)
	}

	results := make([]R, len(items))
	next := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range next {
				results[i] = fn(ctx, items[i])
			}
		}()
	}

	i := 0
feed:
	for ; i < len(items); i++ {
		select {
		case <-ctx.Done():
			break feed
		case next <- i:
		}
	}
	close(next)
	wg.Wait()

	for ; i < len(items); i++ {
		results[i] = skipped(items[i], ctx.Err())
	}
	return results
}
