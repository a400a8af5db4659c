package ratelimit

import (
	"testing"
	"time"
)

func TestLimiter_PerScopeAndBucketLimits(t *testing.T) {
	t.Parallel()

	limiter := New(Config{
		Window:    time.Minute,
		ReadIP:    2,
		ReadUser:  4,
		WriteIP:   1,
		WriteUser: 3,
		AuthIP:    1,
	})
	now := time.Unix(1_750_000_000, 0).UTC()

	// Read/IP allows 2 then blocks.
	if r := limiter.Take(now, ScopeRead, BucketIP, "1.1.1.1"); !r.Allowed || r.Remaining != 1 {
		t.Fatalf("read ip #1 = %#v", r)
	}
	if r := limiter.Take(now, ScopeRead, BucketIP, "1.1.1.1"); !r.Allowed || r.Remaining != 0 {
		t.Fatalf("read ip #2 = %#v", r)
	}
	if r := limiter.Take(now, ScopeRead, BucketIP, "1.1.1.1"); r.Allowed {
		t.Fatalf("read ip #3 should be denied: %#v", r)
	}

	// Authenticated users get the higher read limit.
	for i := 0; i < 4; i++ {
		if r := limiter.Take(now, ScopeRead, BucketUser, "user-a"); !r.Allowed {
			t.Fatalf("read user #%d denied: %#v", i+1, r)
		}
	}
	if r := limiter.Take(now, ScopeRead, BucketUser, "user-a"); r.Allowed {
		t.Fatalf("read user #5 should be denied: %#v", r)
	}

	// Auth scope is per IP only.
	if r := limiter.Take(now, ScopeAuth, BucketIP, "2.2.2.2"); !r.Allowed {
		t.Fatalf("auth #1 denied: %#v", r)
	}
	if r := limiter.Take(now, ScopeAuth, BucketIP, "2.2.2.2"); r.Allowed {
		t.Fatalf("auth #2 should be denied: %#v", r)
	}
}

func TestLimiter_WindowReset(t *testing.T) {
	t.Parallel()

	limiter := New(Config{Window: time.Minute, ReadIP: 1})
	t0 := time.Unix(1_750_000_000, 0).UTC()

	if r := limiter.Take(t0, ScopeRead, BucketIP, "1.1.1.1"); !r.Allowed {
		t.Fatalf("first request denied: %#v", r)
	}
	if r := limiter.Take(t0.Add(10*time.Second), ScopeRead, BucketIP, "1.1.1.1"); r.Allowed {
		t.Fatalf("second request should be denied: %#v", r)
	}
	if r := limiter.Take(t0.Add(61*time.Second), ScopeRead, BucketIP, "1.1.1.1"); !r.Allowed {
		t.Fatalf("request after reset denied: %#v", r)
	}
}

func TestLimiter_ZeroLimitDisablesScope(t *testing.T) {
	t.Parallel()

	limiter := New(Config{Window: time.Minute})
	now := time.Unix(1_750_000_000, 0).UTC()

	for i := 0; i < 10; i++ {
		if r := limiter.Take(now, ScopeWrite, BucketIP, "1.1.1.1"); !r.Allowed {
			t.Fatalf("disabled scope denied request #%d: %#v", i+1, r)
		}
	}
}
