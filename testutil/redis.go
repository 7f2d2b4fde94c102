package testutil

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient opens a client against the server named by TEST_REDIS_URL.
//
// The test is skipped automatically if TEST_REDIS_URL is not set. The
// client's current database is flushed before the test and the client is
// closed when the test finishes, so point this at a disposable instance.
func NewRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	url := requireEnv(t, envRedisURL)

	opts, err := redis.ParseURL(url)
	if err != nil {
		t.Fatalf("testutil.NewRedisClient: parse url: %v", err)
	}
	client := redis.NewClient(opts)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Fatalf("testutil.NewRedisClient: ping: %v", err)
	}
	if err := client.FlushDB(ctx).Err(); err != nil {
		_ = client.Close()
		t.Fatalf("testutil.NewRedisClient: flush: %v", err)
	}

	t.Cleanup(func() { _ = client.Close() })
	return client
}
