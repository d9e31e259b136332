package querysequence

import (
	"context"
	"sync"
	"time"

	"github.com/teeslots/bayfinder/internal/domain/availability"
)

type counter struct {
	value     uint64
	expiresAt time.Time
}

// MemoryStore keeps per-session query tickets in process memory. Suitable for
// a single instance or tests.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]counter
	now      func() time.Time
}

var _ availability.QuerySequencer = (*MemoryStore)(nil)

// NewMemoryStore constructs a store. Sessions idle for longer than ttl are
// forgotten; ttl <= 0 keeps them forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		sessions: make(map[string]counter),
		now:      time.Now,
	}
}

// Next implements availability.QuerySequencer.
func (s *MemoryStore) Next(_ context.Context, session string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpired()
	c := s.sessions[session]
	c.value++
	if s.ttl > 0 {
		c.expiresAt = s.now().Add(s.ttl)
	}
	s.sessions[session] = c
	return c.value, nil
}

// Latest implements availability.QuerySequencer.
func (s *MemoryStore) Latest(_ context.Context, session string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.sessions[session]
	if !ok || s.expired(c) {
		return 0, nil
	}
	return c.value, nil
}

func (s *MemoryStore) evictExpired() {
	for key, c := range s.sessions {
		if s.expired(c) {
			delete(s.sessions, key)
		}
	}
}

func (s *MemoryStore) expired(c counter) bool {
	return !c.expiresAt.IsZero() && s.now().After(c.expiresAt)
}
