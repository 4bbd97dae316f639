package kvstore

import (
	"context"
	"sync"
	"time"
)

// maxSweepInterval bounds how long expired entries can linger in memory.
const maxSweepInterval = time.Minute

type memoryEntry struct {
	value   string
	expires time.Time
}

// Memory is an in-process Store, used in tests and single-node setups.
// Entries with a lifetime are hidden once expired and dropped by a sweep
// that runs on writes.
type Memory struct {
	mu        sync.RWMutex
	data      map[string]memoryEntry
	expiry    expiry
	now       func() time.Time
	lastSweep time.Time
}

// NewMemory returns a store whose entries never expire.
func NewMemory() *Memory {
	return NewMemoryWithExpiry(0)
}

// NewMemoryWithExpiry expires keys starting with one of prefixes ttl after
// their last write.
func NewMemoryWithExpiry(ttl time.Duration, prefixes ...string) *Memory {
	return &Memory{
		data:   make(map[string]memoryEntry),
		expiry: expiry{ttl: ttl, prefixes: prefixes},
		now:    time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.data[key]
	if !ok || e.expired(m.now()) {
		return "", false, nil
	}
	return e.value, true, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweep(now)

	e := memoryEntry{value: value}
	if ttl := m.expiry.ttlFor(key); ttl > 0 {
		e.expires = now.Add(ttl)
	}
	m.data[key] = e
	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *Memory) Close() error { return nil }

// Len returns the number of stored keys, including expired ones not yet swept.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// sweep drops expired entries at most once per interval. Caller holds mu.
func (m *Memory) sweep(now time.Time) {
	if m.expiry.ttl <= 0 {
		return
	}
	interval := m.expiry.ttl
	if interval > maxSweepInterval {
		interval = maxSweepInterval
	}
	if now.Sub(m.lastSweep) < interval {
		return
	}
	m.lastSweep = now
	for k, e := range m.data {
		if e.expired(now) {
			delete(m.data, k)
		}
	}
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}
