package server

import (
	"sync"
	"time"
)

const (
	rateLimitPerMinute    = 100
	rateLimitWindow       = time.Minute
	rateLimitIdleEviction = time.Hour
)

type rateWindow struct {
	start time.Time
	count int
}

// RateLimiter caps handled frames per user per minute. Only authenticated
// traffic is counted; login is the only legal unauthenticated frame.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[uint32]*rateWindow
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{windows: make(map[uint32]*rateWindow)}
}

// Allow counts one frame for the user and reports whether it is within the
// cap. The window origin is fixed at the first frame and resets once it is
// older than the window.
func (l *RateLimiter) Allow(userID uint32, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[userID]
	if !ok {
		l.windows[userID] = &rateWindow{start: now, count: 1}
		return true
	}

	if now.Sub(w.start) < rateLimitWindow {
		if w.count >= rateLimitPerMinute {
			return false
		}
		w.count++
		return true
	}

	w.start = now
	w.count = 1
	return true
}

// Purge evicts records idle for more than an hour. Returns the number evicted.
func (l *RateLimiter) Purge(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	evicted := 0
	for userID, w := range l.windows {
		if now.Sub(w.start) > rateLimitIdleEviction {
			delete(l.windows, userID)
			evicted++
		}
	}
	return evicted
}
