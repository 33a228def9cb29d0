// Package store maps external sender identifiers to remote conversation
// thread IDs, with in-memory and SQLite-backed implementations.
package store

import "sync"

// MemoryThreadStore is an in-memory sender → thread mapping. Entries live
// for the process lifetime; there is no eviction.
type MemoryThreadStore struct {
	mu      sync.Mutex
	threads map[string]string
}

// NewMemoryThreadStore creates an in-memory thread store.
func NewMemoryThreadStore() *MemoryThreadStore {
	return &MemoryThreadStore{threads: make(map[string]string)}
}

// GetOrCreate returns the sender's thread ID, invoking create to make one on
// first contact. The lock is held across create so concurrent first contacts
// for one sender observe a single thread.
func (s *MemoryThreadStore) GetOrCreate(sender string, create func() (string, error)) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.threads[sender]; ok {
		return id, nil
	}

	id, err := create()
	if err != nil {
		return "", err
	}
	s.threads[sender] = id
	return id, nil
}

// Count returns the number of known senders.
func (s *MemoryThreadStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.threads)
}
