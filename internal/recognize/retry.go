package recognize

import "context"

// retry invokes op up to attempts times, stopping at the first result err for
// which retryable reports false. The last error is returned after exhaustion.
// Context cancellation stops the loop immediately.
func retry[T any](ctx context.Context, attempts int, op func() (T, error), retryable func(error) bool) (T, error) {
	var zero T
	var lastErr error
	if attempts < 1 {
		attempts = 1
	}
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		result, err := op()
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !retryable(err) {
			return zero, err
		}
	}
	return zero, lastErr
}
