package ratelimit

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

// Result reports the outcome of a single limiter check.
type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

type record struct {
	count   int
	resetAt time.Time
}

// Limiter is a fixed-window request counter keyed by client. It is in-memory
// and process-local: counts are lost on restart, which is an accepted
// tradeoff for the public intake form. Construct one in main and inject it
// so tests can own an isolated instance with their own clock.
type Limiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	records map[string]*record
}

// New creates a limiter allowing `limit` requests per `window` for each key.
func New(limit int, window time.Duration) *Limiter {
	return NewWithClock(limit, window, time.Now)
}

// NewWithClock is New with an injectable clock for deterministic tests.
func NewWithClock(limit int, window time.Duration, now func() time.Time) *Limiter {
	return &Limiter{
		limit:   limit,
		window:  window,
		now:     now,
		records: make(map[string]*record),
	}
}

// Check counts one request for the key. A fresh or expired window starts over
// at count 1; at the ceiling the request is rejected without incrementing.
func (l *Limiter) Check(key string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	rec, ok := l.records[key]

	if !ok || now.After(rec.resetAt) {
		l.records[key] = &record{count: 1, resetAt: now.Add(l.window)}
		return Result{Allowed: true, Remaining: l.limit - 1, RetryAfter: l.window}
	}

	if rec.count >= l.limit {
		return Result{Allowed: false, Remaining: 0, RetryAfter: rec.resetAt.Sub(now)}
	}

	rec.count++
	return Result{Allowed: true, Remaining: l.limit - rec.count, RetryAfter: rec.resetAt.Sub(now)}
}

// ClientKey derives the limiter key for a request: the first X-Forwarded-For
// entry, then X-Real-IP, then "unknown". All unidentified clients share the
// "unknown" bucket.
func ClientKey(h http.Header) string {
	if forwarded := h.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	if realIP := h.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return "unknown"
}
