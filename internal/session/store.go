package session

import "sync"

// TokenStore holds the current token pair. The client reads it on every
// request, so a pair rotated by another owner of the same store (another
// tab against shared browser storage, in the original UI) is picked up
// instead of a stale in-memory copy.
type TokenStore interface {
	Load() (access, refresh string)
	Store(access, refresh string)
	Clear()
}

// MemoryStore is the default in-process TokenStore.
type MemoryStore struct {
	mu      sync.Mutex
	access  string
	refresh string
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Load() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access, s.refresh
}

func (s *MemoryStore) Store(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	s.refresh = refresh
}

func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = ""
	s.refresh = ""
}
