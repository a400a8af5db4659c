package marketsync

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type transientErr struct{ retryable bool }

func (e *transientErr) Error() string   { return "remote failure" }
func (e *transientErr) Retryable() bool { return e.retryable }

func fastPolicy(attempts int) RetryPolicy {
	return RetryPolicy{MaxAttempts: attempts, BaseDelay: time.Millisecond}
}

func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	t.Parallel()

	calls := 0
	got, err := Retry(context.Background(), fastPolicy(3), func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", &transientErr{retryable: true}
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("Retry() error = %v", err)
	}
	if got != "ok" || calls != 3 {
		t.Fatalf("got %q after %d calls, want %q after 3", got, calls, "ok")
	}
}

func TestRetry_ExhaustsAttemptsOnRetryableError(t *testing.T) {
	t.Parallel()

	calls := 0
	_, err := Retry(context.Background(), fastPolicy(3), func(context.Context) (int, error) {
		calls++
		return 0, &transientErr{retryable: true}
	})
	if err == nil {
		t.Fatal("Retry() error = nil, want last attempt error")
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want exactly MaxAttempts (3)", calls)
	}
	if !IsRetryable(err) {
		t.Fatalf("returned error lost its classification: %v", err)
	}
}

func TestRetry_FatalErrorStopsImmediately(t *testing.T) {
	t.Parallel()

	fatal := errors.New("bad request")
	calls := 0
	_, err := Retry(context.Background(), fastPolicy(5), func(context.Context) (int, error) {
		calls++
		return 0, fatal
	})
	if !errors.Is(err, fatal) {
		t.Fatalf("Retry() error = %v, want %v", err, fatal)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 for a non-retryable error", calls)
	}
}

func TestRetry_CanceledContextAbortsBetweenAttempts(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := Retry(ctx, RetryPolicy{MaxAttempts: 5, BaseDelay: 50 * time.Millisecond}, func(context.Context) (int, error) {
		calls++
		cancel()
		return 0, &transientErr{retryable: true}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Retry() error = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestIsRetryable_WrappedErrors(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("list orders: %w", &transientErr{retryable: true})
	if !IsRetryable(wrapped) {
		t.Fatal("wrapped retryable error should stay retryable")
	}
	if IsRetryable(fmt.Errorf("list orders: %w", &transientErr{retryable: false})) {
		t.Fatal("client errors must not be retryable")
	}
	if IsRetryable(errors.New("plain")) {
		t.Fatal("plain errors must not be retryable")
	}
}
