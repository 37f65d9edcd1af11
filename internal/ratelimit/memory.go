package ratelimit

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	count     int
	resetTime time.Time
}

// MemoryLimiter keeps counters in process memory. State is lost on restart
// and is not shared between instances.
type MemoryLimiter struct {
	window  Window
	now     func() time.Time
	mu      sync.Mutex
	entries map[string]*entry
}

// NewMemoryLimiter creates an in-memory fixed window limiter
func NewMemoryLimiter(w Window) *MemoryLimiter {
	return &MemoryLimiter{
		window:  w,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

// IsLimited implements Limiter. It never returns an error.
func (l *MemoryLimiter) IsLimited(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[key]
	if !ok || now.After(e.resetTime) {
		l.entries[key] = &entry{count: 1, resetTime: now.Add(l.window.Length)}
		return false, nil
	}

	if e.count >= l.window.Limit {
		return true, nil
	}

	e.count++
	return false, nil
}

// Reset forgets key's current window
func (l *MemoryLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	delete(l.entries, key)
	l.mu.Unlock()
	return nil
}

// Sweep drops entries whose window has expired and returns how many were removed.
// An expired entry would be overwritten on the key's next hit anyway, so
// sweeping never changes a limiting decision.
func (l *MemoryLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for key, e := range l.entries {
		if now.After(e.resetTime) {
			delete(l.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// RunSweeper calls Sweep every interval until ctx is cancelled
func (l *MemoryLimiter) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.Sweep()
		case <-ctx.Done():
			return
		}
	}
}
