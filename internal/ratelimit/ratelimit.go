// Package ratelimit implements a fixed-window in-memory rate limiter keyed by
// an arbitrary identifier string.
package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Config controls how many checks are permitted per window.
type Config struct {
	Max    int
	Window time.Duration
}

// Result is the outcome of a single Check call.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

type entry struct {
	count   int
	resetAt time.Time
}

// Limiter tracks per-identifier counters. Safe for concurrent use; the
// increment-then-compare sequence in Check runs under the mutex.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

// New creates a Limiter using the wall clock.
func New() *Limiter {
	return NewWithClock(time.Now)
}

// NewWithClock creates a Limiter with an injected clock for tests.
func NewWithClock(now func() time.Time) *Limiter {
	return &Limiter{
		entries: make(map[string]*entry),
		now:     now,
	}
}

// Check records one attempt for identifier and reports whether it is allowed.
// On first use, or once the current window has elapsed, a fresh window starts
// at now+cfg.Window. The counter keeps incrementing on denied checks; ResetAt
// stays fixed until the window elapses.
func (l *Limiter) Check(identifier string, cfg Config) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	e, ok := l.entries[identifier]
	if !ok || now.After(e.resetAt) {
		e = &entry{resetAt: now.Add(cfg.Window)}
		l.entries[identifier] = e
	}

	e.count++

	remaining := cfg.Max - e.count
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   e.count <= cfg.Max,
		Remaining: remaining,
		ResetAt:   e.resetAt,
	}
}

// Clear removes the entry for identifier, resetting its window.
func (l *Limiter) Clear(identifier string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, identifier)
}

// Sweep removes entries whose window has elapsed and returns how many were
// removed. Purely a memory-management concern; Check handles expiry itself.
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for id, e := range l.entries {
		if now.After(e.resetAt) {
			delete(l.entries, id)
			removed++
		}
	}

	return removed
}

// Start runs a periodic sweep until the context is canceled. Start blocks.
func (l *Limiter) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("rate limiter sweep stopped")
			return
		case <-ticker.C:
			if n := l.Sweep(); n > 0 {
				slog.Debug("rate limiter sweep", "removed", n)
			}
		}
	}
}
