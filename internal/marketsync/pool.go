package marketsync

import (
	"context"
	"sync"
	"sync/atomic"
)

// MapLimit applies fn to every item using at most limit concurrent workers
// and returns the results in input order. Workers share a single claim
// cursor; each index is processed exactly once. The first error stops new
// claims (in-flight calls run to completion) and is returned to the caller.
func MapLimit[T, R any](ctx context.Context, items []T, limit int, fn func(context.Context, T) (R, error)) ([]R, error) {
	out := make([]R, len(items))
	if len(items) == 0 {
		return out, nil
	}
	if limit <= 0 {
		limit = 1
	}
	if limit > len(items) {
		limit = len(items)
	}

	var (
		cursor   atomic.Int64
		failed   atomic.Bool
		errOnce  sync.Once
		firstErr error
		wg       sync.WaitGroup
	)
	cursor.Store(-1)

	worker := func() {
		defer wg.Done()
		for {
			if failed.Load() || ctx.Err() != nil {
				return
			}
			idx := int(cursor.Add(1))
			if idx >= len(items) {
				return
			}
			res, err := fn(ctx, items[idx])
			if err != nil {
				errOnce.Do(func() { firstErr = err })
				failed.Store(true)
				return
			}
			out[idx] = res
		}
	}

	wg.Add(limit)
	for i := 0; i < limit; i++ {
		go worker()
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
