package store

import (
	"sync"

	"oncology-dashboard/internal/models"
)

// MemoryStore keeps the session for the life of the process only.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]string{}}
}

func (s *MemoryStore) Save(pair models.TokenPair, identity models.Identity) error {
	entries, err := encode(pair, identity)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = entries
	return nil
}

func (s *MemoryStore) Load() (Saved, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return decode(s.entries)
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = map[string]string{}
	return nil
}
