package booking

import (
	"sync"
	"time"

	"salonsmart-backend/models"

	"github.com/google/uuid"
)

// Session is one open booking flow owned by a user.
type Session struct {
	ID      uuid.UUID
	OwnerID uuid.UUID
	Flow    *Flow

	lastUsed time.Time
}

// Sessions keeps open flows in memory. Closed or idle sessions are dropped,
// so nothing from one booking leaks into the next.
type Sessions struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	now      func() time.Time
}

func NewSessions(now func() time.Time) *Sessions {
	if now == nil {
		now = time.Now
	}
	return &Sessions{sessions: make(map[uuid.UUID]*Session), now: now}
}

func (s *Sessions) Open(owner uuid.UUID, preselected *models.Service) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := &Session{
		ID:       uuid.New(),
		OwnerID:  owner,
		Flow:     New(preselected, s.now),
		lastUsed: s.now(),
	}
	s.sessions[sess.ID] = sess
	return sess
}

// Get returns the session and marks it used. Another user's session is
// reported as ErrNotOwner.
func (s *Sessions) Get(id, owner uuid.UUID) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if sess.OwnerID != owner {
		return nil, ErrNotOwner
	}
	sess.lastUsed = s.now()
	return sess, nil
}

// Close resets the flow and discards the session.
func (s *Sessions) Close(id, owner uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	if sess.OwnerID != owner {
		return ErrNotOwner
	}
	sess.Flow.Reset()
	delete(s.sessions, id)
	return nil
}

// Sweep drops sessions unused for longer than idle and returns how many.
func (s *Sessions) Sweep(idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-idle)
	n := 0
	for id, sess := range s.sessions {
		if sess.lastUsed.Before(cutoff) {
			sess.Flow.Reset()
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
