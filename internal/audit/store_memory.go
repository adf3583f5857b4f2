package audit

import (
	"context"
	"sync"
)

// InMemoryStore keeps records in memory. Intended for tests.
type InMemoryStore struct {
	mu      sync.RWMutex
	records []CheckRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, record CheckRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

// List returns a copy of all appended records.
func (s *InMemoryStore) List() []CheckRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]CheckRecord{}, s.records...)
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
}
