package ratelimit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func TestRedisAdmit(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	limiter := NewRedis(client, 2, time.Minute)
	limiter.keyPrefix = "test:" + uuid.NewString() + ":"
	ctx := context.Background()
	t.Cleanup(func() { client.Del(ctx, limiter.keyPrefix+"ip") })

	for i := 0; i < 2; i++ {
		if ok, err := limiter.Admit(ctx, "ip"); err != nil || !ok {
			t.Fatalf("request %d: Admit() = %v, %v", i+1, ok, err)
		}
	}
	if ok, err := limiter.Admit(ctx, "ip"); err != nil || ok {
		t.Fatalf("third request: Admit() = %v, %v, want rejection", ok, err)
	}
	if n := client.ZCard(ctx, limiter.keyPrefix+"ip").Val(); n != 2 {
		t.Fatalf("zcard = %d, want 2", n)
	}
}

func TestNewSelectsBackend(t *testing.T) {
	t.Parallel()

	l, err := New(Config{PerMinute: 10, Window: time.Minute, Backend: "memory"}, RedisConfig{}, UpstashConfig{})
	if err != nil {
		t.Fatalf("New(memory) error = %v", err)
	}
	if _, ok := l.(*Memory); !ok {
		t.Fatalf("New(memory) = %T", l)
	}

	if _, err := New(Config{PerMinute: 10, Window: time.Minute, Backend: "redis"}, RedisConfig{}, UpstashConfig{}); err == nil {
		t.Fatal("redis backend without address must fail")
	}
	if _, err := New(Config{PerMinute: 10, Window: time.Minute, Backend: "carrier-pigeon"}, RedisConfig{}, UpstashConfig{}); err == nil {
		t.Fatal("unknown backend must fail")
	}
	if _, err := New(Config{PerMinute: 0, Window: time.Minute}, RedisConfig{}, UpstashConfig{}); err == nil {
		t.Fatal("zero limit must fail")
	}
}
