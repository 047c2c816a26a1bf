package stores

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	session   *Session
	expiresAt time.Time
}

// MemorySessionStore is an in-process SessionStore with the same sliding
// TTL contract as the Redis store. Used in tests and when no Redis is
// reachable.
type MemorySessionStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemorySessionStore) Load(ctx context.Context, id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	if s.now().After(entry.expiresAt) {
		delete(s.entries, id)
		return nil, false
	}

	// Sliding window.
	entry.expiresAt = s.now().Add(s.ttl)
	s.entries[id] = entry
	return entry.session, true
}

func (s *MemorySessionStore) Save(ctx context.Context, id string, session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = memoryEntry{session: session, expiresAt: s.now().Add(s.ttl)}
}

func (s *MemorySessionStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]memoryEntry)
	return nil
}
