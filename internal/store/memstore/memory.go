// Package memstore provides an in-memory implementation of the store interfaces.
// This implementation is designed for fast unit testing and does not persist data.
package memstore

import (
	"strconv"
	"sync"

	"github.com/yiblet/clipkeep/internal/store"
)

// MemoryStore is an in-memory store.HistoryStore.
// Saved lists are deep-copied so callers cannot alias stored items.
type MemoryStore struct {
	mu      sync.RWMutex
	items   []*store.Item
	saves   int
	saveErr error
}

// NewMemoryStore creates a new in-memory store for testing.
func NewMemoryStore(items ...*store.Item) *MemoryStore {
	return &MemoryStore{items: cloneAll(items)}
}

// Load returns a copy of the stored list.
func (m *MemoryStore) Load() ([]*store.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneAll(m.items), nil
}

// Save replaces the stored list, or returns the error set with FailSaves.
func (m *MemoryStore) Save(items []*store.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		return m.saveErr
	}
	m.items = cloneAll(items)
	m.saves++
	return nil
}

// Saves returns the number of successful Save calls.
func (m *MemoryStore) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

// Version implements store.Versioned. It changes with every successful
// Save, so managers sharing one MemoryStore see each other's writes.
func (m *MemoryStore) Version() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return strconv.Itoa(m.saves), nil
}

// FailSaves makes every following Save return err. A nil err restores
// normal behavior.
func (m *MemoryStore) FailSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// Close releases resources (no-op for memory store).
func (m *MemoryStore) Close() error {
	return nil
}

func cloneAll(items []*store.Item) []*store.Item {
	out := make([]*store.Item, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}
