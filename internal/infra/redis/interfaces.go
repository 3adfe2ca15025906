package redis

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrCacheMiss is returned by Cache.Get when the key does not exist.
var ErrCacheMiss = errors.New("cache miss")

// ErrSessionNotFound covers unknown, revoked and expired tokens alike.
var ErrSessionNotFound = errors.New("session not found")

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type SessionStore interface {
	Create(ctx context.Context, customerID uint64) (string, error)
	Resolve(ctx context.Context, token string) (uint64, error)
	Revoke(ctx context.Context, token string) error
}

// cmdable is the subset of *redis.Client the adapters use.
type cmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

var (
	_ Cache        = (*JSONCache)(nil)
	_ SessionStore = (*RedisSessionStore)(nil)
	_ cmdable      = (*redis.Client)(nil)
)
