// Package concurrency provides a bounded worker pool for processing
// independent items, used by the refinement pipeline to overlap remote
// round-trips. The persistence core stays sequential and must not be fed
// through this.
package concurrency

import (
	"context"
	"sync"
)

type Options struct {
	// MaxWorkers caps the number of concurrent workers. <=0 means 10.
	MaxWorkers int
}

// ProcessParallel runs itemFunc over items with at most MaxWorkers in
// flight. Results and errors come back indexed in input order. A canceled
// context stops workers from picking up new items; items never started
// report ctx.Err().
func ProcessParallel[T any, R any](
	ctx context.Context,
	items []T,
	opts Options,
	itemFunc func(ctx context.Context, index int, item T) (R, error),
) ([]R, []error) {
	results := make([]R, len(items))
	errs := make([]error, len(items))
	if len(items) == 0 {
		return results, errs
	}

	workers := opts.MaxWorkers
	if workers <= 0 {
		workers = 10
	}
	if workers > len(items) {
		workers = len(items)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					errs[i] = err
					continue
				}
				results[i], errs[i] = itemFunc(ctx, i, items[i])
			}
		}()
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results, errs
}
