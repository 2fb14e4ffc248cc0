package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/openchat-labs/chat-backend/internal/domain"
	"github.com/redis/go-redis/v9"
)

const sessionPrefix = "session:"

// SessionStore implements domain.SessionStore on Redis. The key TTL is
// the session lifetime, so expired sessions disappear without a sweeper.
type SessionStore struct {
	client *Client
	ttl    time.Duration
}

// NewSessionStore creates a new session store with the given TTL
func NewSessionStore(client *Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func sessionKey(token string) string {
	return sessionPrefix + token
}

// Save persists a session for its full TTL
func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.rdb.Set(ctx, sessionKey(session.Token), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Get looks up a session by token. Unknown and expired tokens both
// return (nil, nil).
func (s *SessionStore) Get(ctx context.Context, token string) (*domain.Session, error) {
	data, err := s.client.rdb.Get(ctx, sessionKey(token)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	if !session.ExpiresAt.IsZero() && time.Now().After(session.ExpiresAt) {
		return nil, nil
	}

	return &session, nil
}

// Delete destroys a session. Deleting an unknown token is not an error.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if err := s.client.rdb.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
