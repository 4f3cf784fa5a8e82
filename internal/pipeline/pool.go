package pipeline

import (
	"context"
	"sync"
)

// Observer receives coarse progress after every completed item.
type Observer func(done, total int)

// Map applies fn to every input using a fixed pool of workers. Results are
// positionally aligned with inputs regardless of completion order. The
// observer is invoked from a single goroutine, once per completed item.
//
// Cancellation stops dispatching new work, lets in-flight items finish or be
// abandoned, waits for the pool to drain, and returns ctx.Err() instead of a
// partial result.
func Map[T, R any](ctx context.Context, inputs []T, workers int, fn func(context.Context, T) R, observe Observer) ([]R, error) {
	total := len(inputs)
	if total == 0 {
		return []R{}, ctx.Err()
	}
	if workers < 1 {
		workers = 1
	}
	if workers > total {
		workers = total
	}

	results := make([]R, total)
	jobs := make(chan int)
	completions := make(chan int, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					// Abandon without touching collected results.
					continue
				}
				results[idx] = fn(ctx, inputs[idx])
				select {
				case completions <- idx:
				case <-ctx.Done():
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(completions)
	}()

	// Progress delivery is serialized through this single goroutine.
	observerDone := make(chan struct{})
	go func() {
		defer close(observerDone)
		done := 0
		for range completions {
			done++
			if observe != nil {
				observe(done, total)
			}
		}
	}()

dispatch:
	for idx := 0; idx < total; idx++ {
		select {
		case jobs <- idx:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	<-observerDone

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
