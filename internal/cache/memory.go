package cache

import (
	"context"
	"sync"
	"time"

	"podtrend/internal/models"
)

type memoryEntry struct {
	snapshot  *models.TrendSnapshot
	expiresAt time.Time
}

// MemoryStore is the default in-process snapshot store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[int]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[int]memoryEntry),
		now:     time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, key int) (*models.TrendSnapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[key]
	if !ok || !m.now().Before(entry.expiresAt) {
		return nil, false
	}
	return entry.snapshot, true
}

func (m *MemoryStore) Set(_ context.Context, key int, snapshot *models.TrendSnapshot, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = memoryEntry{
		snapshot:  snapshot,
		expiresAt: m.now().Add(ttl),
	}
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
