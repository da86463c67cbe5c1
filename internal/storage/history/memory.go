package history

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is a bounded in-memory history store.
type MemoryStore struct {
	entries []Entry
	maxSize int
	mu      sync.RWMutex
	now     func() time.Time
}

// NewMemoryStore creates a new in-memory store with max capacity.
func NewMemoryStore(maxSize int) *MemoryStore {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &MemoryStore{
		entries: make([]Entry, 0, maxSize),
		maxSize: maxSize,
		now:     time.Now,
	}
}

// Record appends an entry, dropping the oldest when over capacity.
func (m *MemoryStore) Record(ctx context.Context, entry Entry) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry.ID = uuid.NewString()
	if entry.At.IsZero() {
		entry.At = m.now().UTC()
	}

	m.entries = append(m.entries, entry)
	if len(m.entries) > m.maxSize {
		m.entries = m.entries[len(m.entries)-m.maxSize:]
	}

	return entry, nil
}

// List returns matching entries, newest first.
func (m *MemoryStore) List(ctx context.Context, filter ListFilter) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []Entry{}
	for i := len(m.entries) - 1; i >= 0; i-- {
		if !matches(m.entries[i], filter) {
			continue
		}
		result = append(result, m.entries[i])
		if filter.Limit > 0 && len(result) == filter.Limit {
			break
		}
	}
	return result, nil
}

// Count returns the count of matching entries.
func (m *MemoryStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, e := range m.entries {
		if matches(e, filter) {
			count++
		}
	}
	return count, nil
}

func matches(e Entry, filter ListFilter) bool {
	if filter.Action != "" && e.Action != filter.Action {
		return false
	}
	if filter.Status != "" && e.Status != filter.Status {
		return false
	}
	if !filter.Since.IsZero() && e.At.Before(filter.Since) {
		return false
	}
	return true
}
