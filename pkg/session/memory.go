package session

import (
	"context"
	"sync"
)

// MemoryStore keeps records in a map. Records are lost when the process
// exits.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	rec, ok := s.records[id]
	s.mu.RUnlock()
	if !ok || rec.IsExpired() {
		return nil, nil
	}
	return &rec, nil
}

func (s *MemoryStore) Set(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = *rec
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}

func (s *MemoryStore) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, rec := range s.records {
		if rec.IsExpired() {
			delete(s.records, id)
		}
	}
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
