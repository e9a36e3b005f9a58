package analytics

import (
	"sync"
	"time"
)

const (
	// rateWindow and maxPerWindow keep hourly usage comfortably under the
	// external API's daily quota.
	rateWindow   = time.Hour
	maxPerWindow = 45
)

type bucketWindow struct {
	count   int
	resetAt time.Time
}

// RateLimiter tracks per-bucket call counts inside a rolling window. When a
// bucket's budget is spent the orchestrator routes the request to the
// statistical fallback instead of the external model. State is in-memory and
// resets on process restart.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]bucketWindow
	window  time.Duration
	max     int

	// nowFunc allows tests to inject a clock.
	nowFunc func() time.Time
}

// NewRateLimiter creates a limiter with the default window and budget.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		windows: make(map[string]bucketWindow),
		window:  rateWindow,
		max:     maxPerWindow,
		nowFunc: time.Now,
	}
}

// Admit records one call against bucket and reports whether it is within
// budget. A fresh or expired window starts at count 1 and is always admitted.
func (l *RateLimiter) Admit(bucket string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFunc()
	w, ok := l.windows[bucket]
	if !ok || now.After(w.resetAt) {
		l.windows[bucket] = bucketWindow{count: 1, resetAt: now.Add(l.window)}
		return true
	}

	if w.count < l.max {
		w.count++
		l.windows[bucket] = w
		return true
	}

	return false
}

// Usage returns the current count and reset time for bucket. An expired or
// unknown bucket reports zero usage.
func (l *RateLimiter) Usage(bucket string) (count int, resetAt time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[bucket]
	if !ok || l.nowFunc().After(w.resetAt) {
		return 0, time.Time{}
	}
	return w.count, w.resetAt
}
