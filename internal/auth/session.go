package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// Session is the per-browser state. UserID zero means anonymous; carts
// attach to the session id either way.
type Session struct {
	ID     string `json:"id"`
	UserID int64  `json:"user_id"`
}

// SessionStore keeps sessions in redis with a sliding TTL.
type SessionStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{Client: client, TTL: ttl}
}

func sessionKey(id string) string {
	return "session:" + id
}

// Create starts a fresh anonymous session.
func (s *SessionStore) Create(ctx context.Context) (*Session, error) {
	session := &Session{ID: uuid.New().String()}
	if err := s.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Get returns nil without error when the session is unknown or expired.
func (s *SessionStore) Get(ctx context.Context, id string) (*Session, error) {
	val, err := s.Client.Get(ctx, sessionKey(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var session Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, fmt.Errorf("session decode: %w", err)
	}
	return &session, nil
}

func (s *SessionStore) Save(ctx context.Context, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}
	if err := s.Client.Set(ctx, sessionKey(session.ID), data, s.TTL).Err(); err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.Client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}
