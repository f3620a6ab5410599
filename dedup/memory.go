package dedup

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process Store. Expired entries are evicted lazily on
// access, so no background janitor is needed.
type Memory struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

var _ Store = (*Memory)(nil)

// NewMemory builds an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Seen implements Store.
func (m *Memory) Seen(_ context.Context, key string, window time.Duration) (bool, error) {
	if window <= 0 {
		return false, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if expiry, ok := m.entries[key]; ok && now.Before(expiry) {
		return true, nil
	}

	m.evictExpired(now)
	m.entries[key] = now.Add(window)
	return false, nil
}

func (m *Memory) evictExpired(now time.Time) {
	for k, expiry := range m.entries {
		if !now.Before(expiry) {
			delete(m.entries, k)
		}
	}
}
