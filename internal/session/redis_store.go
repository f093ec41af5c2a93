package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "dupcheck:session:"

// RedisStore keeps sessions as JSON values in Redis, expiring with the
// session TTL.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a store backed by client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Create stores a new session.
func (r *RedisStore) Create(ctx context.Context, s *Session) error {
	return r.put(ctx, s, false)
}

// Update overwrites an existing session, keeping its expiry.
func (r *RedisStore) Update(ctx context.Context, s *Session) error {
	return r.put(ctx, s, true)
}

func (r *RedisStore) put(ctx context.Context, s *Session, mustExist bool) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return ErrExpired
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if mustExist {
		ok, err := r.client.SetXX(ctx, r.key(s.ID), data, ttl).Result()
		if err != nil {
			return fmt.Errorf("failed to store session: %w", err)
		}
		if !ok {
			return ErrNotFound
		}
		return nil
	}

	if err := r.client.Set(ctx, r.key(s.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Get loads a session.
func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	if s.Expired(time.Now()) {
		return nil, ErrExpired
	}
	return &s, nil
}

// Delete removes a session. Deleting an unknown session is not an error.
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, r.key(id)).Err()
}

func (r *RedisStore) key(id string) string {
	return keyPrefix + id
}
