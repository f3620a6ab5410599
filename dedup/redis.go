package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis-backed Store for applications that report from
// multiple processes. Suppression windows map onto key TTLs, so Redis
// handles expiry for us.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a Redis-backed suppression store.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "faultdesk:seen:",
	}
}

// NewRedisStoreWithPrefix creates a Redis suppression store with a custom
// key prefix.
func NewRedisStoreWithPrefix(client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
	}
}

// Seen implements Store using SET NX with a TTL: the first writer inside
// the window claims the key, later ones observe it as already seen.
func (s *RedisStore) Seen(ctx context.Context, key string, window time.Duration) (bool, error) {
	if window <= 0 {
		return false, nil
	}

	claimed, err := s.client.SetNX(ctx, s.prefix+key, 1, window).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return !claimed, nil
}
