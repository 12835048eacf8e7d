package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store for tests and DB-less development mode.
//
// State does not survive process restart and is not shared across instances;
// production deployments use PostgresStore.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
}

// NewMemoryStore creates an empty in-memory refresh-token store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (s *MemoryStore) Add(_ context.Context, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[token] = Record{
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(ttl),
	}
	return nil
}

func (s *MemoryStore) Exists(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.records[token]
	return ok, nil
}

func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, token)
	return nil
}

func (s *MemoryStore) DeleteExpired(_ context.Context, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, rec := range s.records {
		if rec.ExpiresAt.Before(now) {
			delete(s.records, token)
		}
	}
	return nil
}

// Len reports the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Get returns the stored record for token, if present.
func (s *MemoryStore) Get(token string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[token]
	return rec, ok
}
