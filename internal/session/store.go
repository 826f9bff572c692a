// Package session resolves opaque bearer tokens to customer
// identities. Redis is the only source of truth for session validity;
// the login cookie carries nothing but the token.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("session not found")

type Identity struct {
	CustomerID int64  `json:"customer_id"`
	Username   string `json:"username"`
}

type Store interface {
	Create(ctx context.Context, identity Identity) (string, error)
	Resolve(ctx context.Context, token string) (Identity, error)
	Revoke(ctx context.Context, token string) error
}

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

// Create issues a fresh opaque token for the identity.
func (s *RedisStore) Create(ctx context.Context, identity Identity) (string, error) {
	token := uuid.NewString()

	data, err := json.Marshal(identity)
	if err != nil {
		return "", fmt.Errorf("marshal identity failed: %w", err)
	}

	if ret := s.client.Set(ctx, sessionKey(token), string(data), s.ttl); ret.Err() != nil {
		return "", fmt.Errorf("redis set failed: %w", ret.Err())
	}
	return token, nil
}

// Resolve maps a token back to its identity. Unknown, expired and
// revoked tokens are indistinguishable: all are ErrSessionNotFound.
func (s *RedisStore) Resolve(ctx context.Context, token string) (Identity, error) {
	data, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Identity{}, ErrSessionNotFound
	}
	if err != nil {
		return Identity{}, fmt.Errorf("redis get failed: %w", err)
	}

	var identity Identity
	if e2 := json.Unmarshal(data, &identity); e2 != nil {
		return Identity{}, fmt.Errorf("unmarshal identity failed: %w", e2)
	}
	return identity, nil
}

// Revoke is idempotent; revoking an unknown token is a no-op.
func (s *RedisStore) Revoke(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}
