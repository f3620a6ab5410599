// Package testutil provides shared helpers for tests that need external
// infrastructure or canned failures.
package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/faultdesk/faultdesk-go/failure"
)

// SetupTestRedis returns a Redis client for integration tests, skipping
// the test when no Redis is reachable. Set REDIS_ADDR to point at a
// non-default instance.
func SetupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		if cerr := client.Close(); cerr != nil {
			t.Logf("warning: failed to close redis client after ping error: %v", cerr)
		}
		t.Skipf("Redis not available for testing at %s: %v", addr, err)
	}

	client.FlushDB(ctx)
	return client
}

// FixedTime returns a stable timestamp for deterministic formatting tests.
func FixedTime() time.Time {
	return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

// MustFailure builds a failure or fails the test.
func MustFailure(t *testing.T, kind, message string, opts ...failure.Option) failure.Failure {
	t.Helper()
	f, err := failure.New(kind, message, opts...)
	if err != nil {
		t.Fatalf("unexpected error building failure: %v", err)
	}
	return f
}
