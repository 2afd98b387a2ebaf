package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"spearid-quiz-service/internal/app"
	"spearid-quiz-service/internal/domain"

	"github.com/redis/go-redis/v9"
)

const maxUpdateAttempts = 10

// stringGetter is satisfied by both *redis.Client and *redis.Tx.
type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// SessionStore keeps quiz state as JSON in Redis so any instance can serve a
// reconnecting player. Each write refreshes the key's TTL.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *SessionStore) Save(ctx context.Context, sessionID string, state app.QuizState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.client.Set(ctx, s.key(sessionID), raw, s.ttl).Err()
}

func (s *SessionStore) Get(ctx context.Context, sessionID string) (app.QuizState, error) {
	return s.load(ctx, s.client, sessionID)
}

// Update is optimistic: the key is WATCHed while fn runs and the write is retried
// from a fresh read when another writer got in first.
func (s *SessionStore) Update(ctx context.Context, sessionID string, fn func(app.QuizState) (app.QuizState, error)) (app.QuizState, error) {
	key := s.key(sessionID)
	var result app.QuizState
	txf := func(tx *redis.Tx) error {
		state, err := s.load(ctx, tx, sessionID)
		if err != nil {
			result = app.QuizState{}
			return err
		}
		next, err := fn(state)
		if err != nil {
			result = state
			return err
		}
		raw, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("marshal session: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, s.ttl)
			return nil
		})
		result = next
		return err
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return result, err
	}
	return app.QuizState{}, domain.ErrConcurrentUpdate
}

func (s *SessionStore) load(ctx context.Context, c stringGetter, sessionID string) (app.QuizState, error) {
	raw, err := c.Get(ctx, s.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return app.QuizState{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return app.QuizState{}, fmt.Errorf("load session: %w", err)
	}
	var state app.QuizState
	if err := json.Unmarshal(raw, &state); err != nil {
		return app.QuizState{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return state, nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.key(sessionID)).Err()
}

func (s *SessionStore) key(sessionID string) string {
	return "quiz:session:" + sessionID
}
