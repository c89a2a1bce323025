// Package memory provides the in-process cache variant: a plain map guarded
// by a read-write mutex. Entries live until the process exits.
package memory

import (
	"context"
	"sync"
)

// Memory is a process-local cache.Cache implementation.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]string
}

// New creates an empty in-memory cache.
func New() *Memory {
	return &Memory{entries: make(map[string]string)}
}

// Get returns the cached expansion for key. It never fails.
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.entries[key]

	return v, ok, nil
}

// Set stores the expansion for key, overwriting any previous value.
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = value

	return nil
}

// Len returns the number of cached entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

// Close is a no-op for the in-memory variant.
func (m *Memory) Close() error { return nil }
