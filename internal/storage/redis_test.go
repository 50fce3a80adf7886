package storage

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// T2048_TEST_REDIS_ADDR points the Redis tests at a disposable server.
func openTestRedis(t *testing.T) Store {
	t.Helper()
	addr := os.Getenv("T2048_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("T2048_TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		t.Skipf("redis at %s unavailable: %v", addr, err)
	}

	// Unique prefix per test keeps runs isolated on a shared server.
	prefix := "t2048-test-" + uuid.NewString()
	store := NewRedisStore(client, prefix)
	t.Cleanup(func() {
		ctx := context.Background()
		iter := client.Scan(ctx, 0, prefix+":*", 100).Iterator()
		for iter.Next(ctx) {
			client.Del(ctx, iter.Val())
		}
		store.Close()
	})
	return store
}

func TestRedisStore(t *testing.T) {
	runStoreContract(t, openTestRedis)
}

func TestRedisKeys(t *testing.T) {
	s := NewRedisStore(redis.NewClient(&redis.Options{Addr: "localhost:0"}), "")
	defer s.Close()

	tests := []struct {
		parts []string
		want  string
	}{
		{[]string{"game", "alice"}, "t2048:game:alice"},
		{[]string{"best", "local"}, "t2048:best:local"},
		{[]string{"scores"}, "t2048:scores"},
	}
	for _, tt := range tests {
		if got := s.key(tt.parts...); got != tt.want {
			t.Errorf("key(%v) = %q, want %q", tt.parts, got, tt.want)
		}
	}
}
