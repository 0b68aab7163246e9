package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Store persists carts in redis keyed by session id. A missing key is
// an empty cart.
type Store struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{Client: client, TTL: ttl}
}

func cartKey(sessionID string) string {
	return "cart:" + sessionID
}

func (s *Store) Get(ctx context.Context, sessionID string) (Cart, error) {
	val, err := s.Client.Get(ctx, cartKey(sessionID)).Result()
	if err == redis.Nil {
		return Cart{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cart store get: %w", err)
	}

	var c Cart
	if err := json.Unmarshal([]byte(val), &c); err != nil {
		return nil, fmt.Errorf("cart store decode: %w", err)
	}
	return c, nil
}

func (s *Store) Save(ctx context.Context, sessionID string, c Cart) error {
	if len(c) == 0 {
		return s.Clear(ctx, sessionID)
	}

	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("cart store encode: %w", err)
	}
	if err := s.Client.Set(ctx, cartKey(sessionID), data, s.TTL).Err(); err != nil {
		return fmt.Errorf("cart store set: %w", err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context, sessionID string) error {
	if err := s.Client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("cart store clear: %w", err)
	}
	return nil
}
