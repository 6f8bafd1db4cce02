package kv

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("set REDIS_TEST_ADDR to run")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	store := NewRedis(client)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := store.Ping(ctx); err != nil {
		t.Fatalf("ping error: %v", err)
	}

	key := "records_test:" + time.Now().Format("150405.000000000")
	defer func() { _ = store.Delete(ctx, key) }()

	if _, ok, err := store.Get(ctx, key); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	if set, err := store.SetNX(ctx, key, []byte("v1")); err != nil || !set {
		t.Fatalf("expected SetNX to win, got set=%v err=%v", set, err)
	}
	if set, err := store.SetNX(ctx, key, []byte("v2")); err != nil || set {
		t.Fatalf("expected SetNX to lose, got set=%v err=%v", set, err)
	}
	value, ok, err := store.Get(ctx, key)
	if err != nil || !ok || string(value) != "v1" {
		t.Fatalf("get mismatch: %q ok=%v err=%v", value, ok, err)
	}
	if err := store.Set(ctx, key, []byte("v3")); err != nil {
		t.Fatalf("set error: %v", err)
	}
	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if _, ok, _ := store.Get(ctx, key); ok {
		t.Fatalf("expected key gone")
	}
}
