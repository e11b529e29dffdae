package sessionstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/golbarg/plantcare/internal/domain/identify"
)

// MemoryStore keeps sessions in process memory. Expired entries are
// swept opportunistically on writes.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

type memoryEntry struct {
	payload   identify.Session
	expiresAt time.Time
}

// NewMemoryStore constructs the store.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[uuid.UUID]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *MemoryStore) Save(_ context.Context, session *identify.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	entry := memoryEntry{payload: *session}
	if s.ttl > 0 {
		entry.expiresAt = now.Add(s.ttl)
	}
	s.sessions[session.ID] = entry
	s.sweepLocked(now)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (*identify.Session, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.sessions[id]
	if !ok {
		return nil, false, nil
	}
	if !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt) {
		return nil, false, nil
	}
	session := entry.payload
	return &session, true, nil
}

func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *MemoryStore) sweepLocked(now time.Time) {
	for id, entry := range s.sessions {
		if !entry.expiresAt.IsZero() && now.After(entry.expiresAt) {
			delete(s.sessions, id)
		}
	}
}

var _ identify.SessionStore = (*MemoryStore)(nil)
