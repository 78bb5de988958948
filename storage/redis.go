package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hupe1980/skillhost/core"
)

// RedisStore is a core.Storage implementation over a Redis instance, used
// when proactive routes and history snapshots must survive host restarts.
// Backend failures are passed through to the caller unmodified apart from
// contextual wrapping; no retry logic lives here.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	// KeyPrefix namespaces all keys written by this store.
	KeyPrefix string
	// TTL expires entries after the given duration; zero keeps them
	// indefinitely.
	TTL time.Duration
}

// NewRedisStore creates a store over an existing Redis client.
func NewRedisStore(client *redis.Client, optFns ...func(o *RedisOptions)) *RedisStore {
	opts := RedisOptions{KeyPrefix: "skillhost:"}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &RedisStore{client: client, prefix: opts.KeyPrefix, ttl: opts.TTL}
}

// Get returns the value for key, if present.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Delete removes key; deleting an absent key is not an error.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", key, err)
	}
	return nil
}

// Interface compliance (compile-time assertion)
var _ core.Storage = (*RedisStore)(nil)
