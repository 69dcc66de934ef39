package util

import (
	"context"
	"errors"
	"time"
)

// RetryErrWithContext calls fn up to maxTries times until it returns nil error,
// or until ctx is done. If maxTries <= 0, it defaults to 1.
func RetryErrWithContext(ctx context.Context, maxTries int, fn func(context.Context) error) error {
	if maxTries <= 0 {
		maxTries = 1
	}

	var lastErr error
	for i := 0; i < maxTries; i++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		lastErr = err
	}
	return lastErr
}

// RetryWithContext calls fn up to maxTries times until it returns a nil error,
// or until ctx is done. If maxTries <= 0, it defaults to 1.
// Returns ctx.Err() if the context is canceled, otherwise returns the last error.
func RetryWithContext[T any](ctx context.Context, maxTries int, fn func(context.Context) (T, error)) (T, error) {
	if maxTries <= 0 {
		maxTries = 1
	}
	var lastErr error
	var zero T
	for i := 0; i < maxTries; i++ {
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return zero, err
		}
		lastErr = err
	}
	return zero, lastErr
}

// RetryWithTimeout calls fn up to maxTries times, giving every attempt its own
// deadline of timeout. Unlike RetryWithContext an attempt that runs out of time
// is retried; only cancellation of the parent ctx stops the loop early.
// A timeout <= 0 leaves the attempts bounded by ctx alone.
func RetryWithTimeout[T any](
	ctx context.Context,
	maxTries int,
	timeout time.Duration,
	fn func(context.Context) (T, error),
) (T, int, error) {
	if maxTries <= 0 {
		maxTries = 1
	}
	var lastErr error
	var zero T
	for i := 0; i < maxTries; i++ {
		if ctx.Err() != nil {
			return zero, i, ctx.Err()
		}
		result, err := attempt(ctx, timeout, fn)
		if err == nil {
			return result, i + 1, nil
		}
		if ctx.Err() != nil {
			return zero, i + 1, ctx.Err()
		}
		lastErr = err
	}
	return zero, maxTries, lastErr
}

func attempt[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		return fn(ctx)
	}
	aCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(aCtx)
}
