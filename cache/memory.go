package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore keeps entries in process. Safe for concurrent use, last write wins.
type MemoryStore struct {
	now Clock

	mu    sync.RWMutex
	items map[string]entry
}

type MemoryOption func(*MemoryStore)

func WithClock(now Clock) MemoryOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{now: time.Now, items: make(map[string]entry)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Get(key string) ([]byte, bool) {
	now := s.now()
	s.mu.RLock()
	e, ok := s.items[key]
	s.mu.RUnlock()
	if !ok || !now.Before(e.expiresAt) {
		return nil, false
	}
	return append([]byte(nil), e.value...), true
}

func (s *MemoryStore) Put(key string, value []byte, minutes int) {
	// Entries are replaced wholesale, never mutated, so keep our own copy
	stored := append([]byte(nil), value...)
	expiry := s.now().Add(ttl(minutes))

	s.mu.Lock()
	s.items[key] = entry{value: stored, expiresAt: expiry}
	s.mu.Unlock()
}

func (s *MemoryStore) Clear() {
	s.mu.Lock()
	s.items = make(map[string]entry)
	s.mu.Unlock()
}

// Len counts entries that are still live
func (s *MemoryStore) Len() int {
	now := s.now()
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, e := range s.items {
		if now.Before(e.expiresAt) {
			n++
		}
	}
	return n
}
