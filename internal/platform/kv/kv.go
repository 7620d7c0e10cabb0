// Package kv defines the key-value persistence collaborator used for cart
// state, together with an in-memory implementation suitable for tests and
// single-node deployments.
package kv

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound indicates the key has no stored value.
var ErrNotFound = errors.New("kv: not found")

// Store is a durable string key-value store. Implementations must be safe for
// concurrent use.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}

// Memory is a process-local Store. Values do not survive restarts, which is
// acceptable for development and required for tests.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Get returns the stored value or ErrNotFound.
func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

// Set stores the value under key, overwriting any previous value.
func (m *Memory) Set(_ context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Delete removes the key. Deleting an absent key is a no-op.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
