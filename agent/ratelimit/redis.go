package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	contractx "github.com/tanpawarit/agentic-automator/agent/contract"
)

// Redis keeps one sorted set per client scored by request time in
// milliseconds, so every API replica shares the window.
type Redis struct {
	client    redis.Cmdable
	limit     int
	window    time.Duration
	keyPrefix string
	now       func() time.Time
}

var _ contractx.RateLimiter = (*Redis)(nil)

func NewRedis(client redis.Cmdable, limit int, window time.Duration) *Redis {
	return &Redis{
		client:    client,
		limit:     limit,
		window:    window,
		keyPrefix: defaultKeyPrefix,
		now:       time.Now,
	}
}

func (r *Redis) Admit(ctx context.Context, clientID string) (bool, error) {
	key := r.keyPrefix + clientID
	now := r.now()
	cutoff := now.Add(-r.window).UnixMilli()
	member := strconv.FormatInt(now.UnixNano(), 10) + "-" + uuid.NewString()

	var card *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(cutoff, 10))
		pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixMilli()), Member: member})
		card = pipe.ZCard(ctx, key)
		pipe.Expire(ctx, key, r.window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("redis rate limit: %w", err)
	}

	if card.Val() > int64(r.limit) {
		if err := r.client.ZRem(ctx, key, member).Err(); err != nil {
			return false, fmt.Errorf("redis rate limit rollback: %w", err)
		}
		return false, nil
	}
	return true, nil
}
