package memory

import (
	"context"
	"sync"
	"time"

	"spearid-quiz-service/internal/app"
	"spearid-quiz-service/internal/domain"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
// A ttl of zero keeps sessions until they are deleted.
type SessionStore struct {
	ttl   time.Duration
	clock func() time.Time

	mu       sync.Mutex
	sessions map[string]storedSession
}

type storedSession struct {
	state     app.QuizState
	expiresAt time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		clock:    time.Now,
		sessions: make(map[string]storedSession),
	}
}

func (s *SessionStore) Save(_ context.Context, sessionID string, state app.QuizState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(sessionID, state)
	return nil
}

func (s *SessionStore) Get(_ context.Context, sessionID string) (app.QuizState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookup(sessionID)
}

// Update runs fn while holding the store lock, so updates of a session never interleave.
func (s *SessionStore) Update(_ context.Context, sessionID string, fn func(app.QuizState) (app.QuizState, error)) (app.QuizState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.lookup(sessionID)
	if err != nil {
		return app.QuizState{}, err
	}
	next, err := fn(state)
	if err != nil {
		return state, err
	}
	s.put(sessionID, next)
	return next, nil
}

// put and lookup expect s.mu to be held.
func (s *SessionStore) put(sessionID string, state app.QuizState) {
	entry := storedSession{state: state}
	if s.ttl > 0 {
		entry.expiresAt = s.clock().Add(s.ttl)
	}
	s.sessions[sessionID] = entry
}

func (s *SessionStore) lookup(sessionID string) (app.QuizState, error) {
	entry, ok := s.sessions[sessionID]
	if !ok {
		return app.QuizState{}, domain.ErrSessionNotFound
	}
	if !entry.expiresAt.IsZero() && !entry.expiresAt.After(s.clock()) {
		delete(s.sessions, sessionID)
		return app.QuizState{}, domain.ErrSessionNotFound
	}
	return entry.state, nil
}

func (s *SessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// Len reports the number of stored sessions, expired ones included.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
