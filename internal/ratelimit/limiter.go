// Package ratelimit implements a fixed-window request limiter keyed by
// client IP or by the authenticated user. Login attempts get their own
// stricter scope.
package ratelimit

import (
	"sync"
	"time"
)

type Scope string

const (
	ScopeRead  Scope = "read"
	ScopeWrite Scope = "write"
	ScopeAuth  Scope = "auth"
)

type BucketKind string

const (
	BucketIP   BucketKind = "ip"
	BucketUser BucketKind = "user"
)

// Config holds per-scope request limits for one window. A zero limit
// disables that scope entirely.
type Config struct {
	Window    time.Duration
	ReadIP    int
	ReadUser  int
	WriteIP   int
	WriteUser int
	AuthIP    int
}

type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   int64
	ResetIn   int64
}

type bucketKey struct {
	scope Scope
	kind  BucketKind
	id    string
}

type window struct {
	start int64
	count int
}

type Limiter struct {
	cfg     Config
	windowS int64

	mu      sync.Mutex
	buckets map[bucketKey]window
}

func New(cfg Config) *Limiter {
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	return &Limiter{
		cfg:     cfg,
		windowS: int64(cfg.Window.Seconds()),
		buckets: make(map[bucketKey]window, 1024),
	}
}

// Take records one request against the bucket and reports whether it is
// allowed within the current window.
func (l *Limiter) Take(now time.Time, scope Scope, kind BucketKind, id string) Result {
	limit := l.limitFor(scope, kind)
	if limit <= 0 {
		return Result{Allowed: true, ResetAt: now.Unix()}
	}

	unixNow := now.Unix()
	windowStart := unixNow - unixNow%l.windowS
	resetAt := windowStart + l.windowS

	k := bucketKey{scope: scope, kind: kind, id: id}

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.buckets[k]
	if !ok || w.start != windowStart {
		w = window{start: windowStart}
	}

	allowed := w.count < limit
	if allowed {
		w.count++
	}
	l.buckets[k] = w

	if len(l.buckets) > 100000 {
		l.evictBefore(windowStart - l.windowS)
	}

	remaining := limit - w.count
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   allowed,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   resetAt,
		ResetIn:   resetAt - unixNow,
	}
}

func (l *Limiter) limitFor(scope Scope, kind BucketKind) int {
	switch scope {
	case ScopeRead:
		if kind == BucketUser {
			return l.cfg.ReadUser
		}
		return l.cfg.ReadIP
	case ScopeWrite:
		if kind == BucketUser {
			return l.cfg.WriteUser
		}
		return l.cfg.WriteIP
	case ScopeAuth:
		return l.cfg.AuthIP
	default:
		return 0
	}
}

func (l *Limiter) evictBefore(windowStart int64) {
	for k, w := range l.buckets {
		if w.start <= windowStart {
			delete(l.buckets, k)
		}
	}
}
