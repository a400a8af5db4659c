package marketsync

import (
	"context"
	"errors"
	"time"
)

// RetryPolicy bounds repeated attempts of a remote call.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 3
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = 400 * time.Millisecond
	}
	return p
}

// retryableError is implemented by remote client errors that carry a
// rate-limit or server-side status.
type retryableError interface {
	error
	Retryable() bool
}

// IsRetryable reports whether err is a transient remote failure (429 or 5xx).
// Anything else, including client errors and store errors, is fatal.
func IsRetryable(err error) bool {
	var re retryableError
	if errors.As(err, &re) {
		return re.Retryable()
	}
	return false
}

// Retry invokes fn until it succeeds, fails with a non-retryable error, or
// the attempt ceiling is reached. The delay before attempt n is
// BaseDelay * n. The last observed error is returned.
func Retry[T any](ctx context.Context, policy RetryPolicy, fn func(context.Context) (T, error)) (T, error) {
	policy = policy.normalized()

	var zero T
	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		out, err := fn(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if !IsRetryable(err) {
			return zero, err
		}
		if attempt == policy.MaxAttempts {
			break
		}
		if err := sleepWithContext(ctx, policy.BaseDelay*time.Duration(attempt)); err != nil {
			return zero, err
		}
	}
	return zero, lastErr
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
