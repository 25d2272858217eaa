package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Result describes the outcome of one rate-limited request.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Store counts requests per key. Implementations must be safe for
// concurrent use.
type Store interface {
	Take(ctx context.Context, key string) (Result, error)
}

// RateLimiter represents an in-process sliding window limiter
type RateLimiter struct {
	requests map[string][]time.Time
	limit    int
	window   time.Duration
	mu       sync.RWMutex
}

// New creates a new rate limiter
func New(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
	}
}

// Take records a request for key and reports whether it is allowed.
func (rl *RateLimiter) Take(_ context.Context, key string) (Result, error) {
	allowed := rl.Allow(key)
	return Result{
		Allowed:   allowed,
		Limit:     rl.limit,
		Remaining: rl.GetRemaining(key),
		ResetAt:   rl.GetResetTime(key),
	}, nil
}

// Allow checks if a request is allowed for the given key
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	valid := rl.live(key, time.Now())
	if len(valid) >= rl.limit {
		rl.requests[key] = valid
		return false
	}

	rl.requests[key] = append(valid, time.Now())
	return true
}

// GetRemaining returns the number of remaining requests for the given key
func (rl *RateLimiter) GetRemaining(key string) int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	remaining := rl.limit - len(rl.live(key, time.Now()))
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// GetResetTime returns the time when the rate limit will reset for the given key
func (rl *RateLimiter) GetResetTime(key string) time.Time {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	now := time.Now()
	valid := rl.live(key, now)
	if len(valid) == 0 {
		return now
	}
	return valid[0].Add(rl.window)
}

// live returns the timestamps of key still inside the window, oldest first.
// Caller must hold the lock.
func (rl *RateLimiter) live(key string, now time.Time) []time.Time {
	cutoff := now.Add(-rl.window)
	var valid []time.Time
	for _, t := range rl.requests[key] {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	return valid
}

// Reset clears the rate limit for the given key
func (rl *RateLimiter) Reset(key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	delete(rl.requests, key)
}

// Cleanup removes expired entries to prevent memory leaks
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for key := range rl.requests {
		valid := rl.live(key, now)
		if len(valid) == 0 {
			delete(rl.requests, key)
		} else {
			rl.requests[key] = valid
		}
	}
}

// StartCleanup runs Cleanup every interval until ctx is done
func (rl *RateLimiter) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rl.Cleanup()
			}
		}
	}()
}
