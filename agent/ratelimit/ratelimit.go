// Package ratelimit implements sliding-window request admission backed by
// process memory, Redis or Upstash Redis REST.
package ratelimit

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/agentic-automator/agent/contract"
)

const (
	BackendMemory  = "memory"
	BackendRedis   = "redis"
	BackendUpstash = "upstash"

	defaultKeyPrefix = "agent:ratelimit:"
)

type Config struct {
	PerMinute int           `envconfig:"PER_MINUTE" split_words:"true" default:"60"`
	Window    time.Duration `envconfig:"WINDOW" default:"60s"`
	Backend   string        `envconfig:"BACKEND" default:"memory"`
}

type RedisConfig struct {
	Addr     string `envconfig:"ADDR"`
	Password string `envconfig:"PASSWORD"`
	DB       int    `envconfig:"DB" default:"0"`
}

func (c Config) validate() error {
	if c.PerMinute < 1 {
		return fmt.Errorf("%w: rate limit must be >= 1, got %d", contractx.ErrValidation, c.PerMinute)
	}
	if c.Window <= 0 {
		return fmt.Errorf("%w: rate limit window must be positive", contractx.ErrValidation)
	}
	return nil
}

// New builds the limiter selected by cfg.Backend.
func New(cfg Config, redisCfg RedisConfig, upstashCfg UpstashConfig) (contractx.RateLimiter, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendMemory:
		return NewMemory(cfg.PerMinute, cfg.Window), nil
	case BackendRedis:
		if strings.TrimSpace(redisCfg.Addr) == "" {
			return nil, errors.New("redis rate limiter requires REDIS_ADDR")
		}
		client := redis.NewClient(&redis.Options{
			Addr:     redisCfg.Addr,
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
		})
		log.Info().Str("addr", redisCfg.Addr).Msg("using redis rate limiter")
		return NewRedis(client, cfg.PerMinute, cfg.Window), nil
	case BackendUpstash:
		return NewUpstash(upstashCfg, cfg.PerMinute, cfg.Window)
	default:
		return nil, fmt.Errorf("%w: unknown rate limit backend %q", contractx.ErrValidation, cfg.Backend)
	}
}
