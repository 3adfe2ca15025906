package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const sessionPrefix = "session:"

// RedisSessionStore maps opaque bearer tokens to customer ids. Expiry is the
// key's TTL, so an expired token is indistinguishable from an unknown one.
type RedisSessionStore struct {
	rdb cmdable
	ttl time.Duration
}

func NewSessionStore(rdb cmdable, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, ttl: ttl}
}

func (s *RedisSessionStore) Create(ctx context.Context, customerID uint64) (string, error) {
	token := uuid.NewString()
	if err := s.rdb.Set(ctx, sessionPrefix+token, strconv.FormatUint(customerID, 10), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("session: create: %w", err)
	}
	return token, nil
}

func (s *RedisSessionStore) Resolve(ctx context.Context, token string) (uint64, error) {
	if _, err := uuid.Parse(token); err != nil {
		return 0, ErrSessionNotFound
	}
	v, err := s.rdb.Get(ctx, sessionPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrSessionNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("session: resolve: %w", err)
	}
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("session: corrupt value for token: %w", err)
	}
	return id, nil
}

func (s *RedisSessionStore) Revoke(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, sessionPrefix+token).Err()
}
