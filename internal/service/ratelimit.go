package service

import (
	"sync"
	"time"
)

// RateLimiter is a sliding-window attempt counter keyed by actor id. It is
// in-memory and single-process: each server instance enforces its own window.
// That is a documented limitation, not a bug; the limiter is admission control
// for one instance, not a distributed quota.
type RateLimiter struct {
	mu          sync.Mutex
	maxAttempts int
	window      time.Duration
	attempts    map[string][]time.Time
	now         func() time.Time
}

func NewRateLimiter(maxAttempts int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		maxAttempts: maxAttempts,
		window:      window,
		attempts:    map[string][]time.Time{},
		now:         time.Now,
	}
}

// Check reports whether the actor may proceed, recording the attempt only
// when allowed. Timestamps older than the window are pruned on every call.
func (l *RateLimiter) Check(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	recent := l.attempts[id][:0]
	for _, t := range l.attempts[id] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= l.maxAttempts {
		l.attempts[id] = recent
		return false
	}

	l.attempts[id] = append(recent, now)
	return true
}
