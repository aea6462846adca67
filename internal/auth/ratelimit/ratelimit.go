// Package ratelimit throttles login attempts per identifier (email) inside a
// rolling window, regardless of whether the identifier maps to an account.
// State is process-local and deliberately not persisted: a restart returns
// every identifier to a fresh window.
package ratelimit

import (
	"sync"
	"time"
)

// Result reports the outcome of a single attempt check.
type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration // only meaningful when Allowed is false
}

type record struct {
	count   int
	resetAt time.Time
}

// Limiter is an identifier-keyed fixed-window attempt counter. It is an
// explicitly-owned component: construct one at startup and inject it.
type Limiter struct {
	mu       sync.Mutex
	attempts map[string]*record

	maxAttempts int
	window      time.Duration
	now         func() time.Time
}

// New constructs a Limiter allowing maxAttempts checks per identifier within
// window. Non-positive arguments fall back to 5 attempts per 15 minutes.
func New(maxAttempts int, window time.Duration) *Limiter {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &Limiter{
		attempts:    make(map[string]*record),
		maxAttempts: maxAttempts,
		window:      window,
		now:         time.Now,
	}
}

// SetClock overrides the time source, for tests.
func (l *Limiter) SetClock(now func() time.Time) { l.now = now }

// Check records an attempt for identifier and reports whether it may
// proceed. The first check in a window consumes one attempt and starts the
// window; once the counter reaches the maximum any further check within the
// window is refused without growing the counter.
func (l *Limiter) Check(identifier string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	rec, ok := l.attempts[identifier]
	if !ok || !rec.resetAt.After(now) {
		l.attempts[identifier] = &record{count: 1, resetAt: now.Add(l.window)}
		return Result{Allowed: true, Remaining: l.maxAttempts - 1}
	}

	if rec.count >= l.maxAttempts {
		return Result{Allowed: false, Remaining: 0, RetryAfter: rec.resetAt.Sub(now)}
	}

	rec.count++
	return Result{Allowed: true, Remaining: l.maxAttempts - rec.count}
}

// Reset forgets the identifier entirely, returning it to a fresh window.
// Called after a successful verification.
func (l *Limiter) Reset(identifier string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.attempts, identifier)
}

// PurgeExpired drops records whose window has already ended and returns the
// number removed. Expired records are harmless for correctness; this only
// bounds memory for identifiers that never come back.
func (l *Limiter) PurgeExpired() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	purged := 0
	for id, rec := range l.attempts {
		if !rec.resetAt.After(now) {
			delete(l.attempts, id)
			purged++
		}
	}
	return purged
}
