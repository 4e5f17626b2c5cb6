package ratelimit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	contractx "github.com/tanpawarit/agentic-automator/agent/contract"
)

const maxResponseSizeBytes = 1 << 20

type UpstashConfig struct {
	URL     string        `envconfig:"URL"`
	Token   string        `envconfig:"TOKEN"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"10s"`
}

// UpstashOption customizes Upstash.
type UpstashOption func(*Upstash)

func WithKeyPrefix(prefix string) UpstashOption {
	return func(u *Upstash) {
		trimmed := strings.TrimSpace(prefix)
		if trimmed != "" {
			u.keyPrefix = trimmed
		}
	}
}

func WithHTTPClient(client *http.Client) UpstashOption {
	return func(u *Upstash) {
		if client != nil {
			u.httpClient = client
		}
	}
}

// Upstash runs the same sorted-set window as Redis through the Upstash REST
// transaction endpoint, for deployments without a TCP route to Redis.
type Upstash struct {
	baseURL    string
	token      string
	httpClient *http.Client
	keyPrefix  string
	limit      int
	window     time.Duration
	now        func() time.Time
}

var _ contractx.RateLimiter = (*Upstash)(nil)

type restResult struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

func NewUpstash(cfg UpstashConfig, limit int, window time.Duration, opts ...UpstashOption) (*Upstash, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if baseURL == "" {
		return nil, errors.New("upstash redis url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid redis rest url: %w", err)
	}

	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("upstash redis token is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	u := &Upstash{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		keyPrefix:  defaultKeyPrefix,
		limit:      limit,
		window:     window,
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(u)
		}
	}
	return u, nil
}

func (u *Upstash) Admit(ctx context.Context, clientID string) (bool, error) {
	key := u.keyPrefix + clientID
	now := u.now()
	cutoff := now.Add(-u.window).UnixMilli()
	member := strconv.FormatInt(now.UnixNano(), 10) + "-" + uuid.NewString()

	results, err := u.exec(ctx, "/multi-exec", [][]any{
		{"ZREMRANGEBYSCORE", key, "-inf", cutoff},
		{"ZADD", key, now.UnixMilli(), member},
		{"ZCARD", key},
		{"PEXPIRE", key, u.window.Milliseconds()},
	})
	if err != nil {
		return false, err
	}
	if len(results) != 4 {
		return false, fmt.Errorf("upstash rate limit: expected 4 results, got %d", len(results))
	}

	var card int64
	if err := json.Unmarshal(results[2].Result, &card); err != nil {
		return false, fmt.Errorf("decode zcard result: %w", err)
	}
	if card > int64(u.limit) {
		if _, err := u.exec(ctx, "/pipeline", [][]any{{"ZREM", key, member}}); err != nil {
			return false, fmt.Errorf("upstash rate limit rollback: %w", err)
		}
		return false, nil
	}
	return true, nil
}

func (u *Upstash) exec(ctx context.Context, path string, commands [][]any) ([]restResult, error) {
	body, err := json.Marshal(commands)
	if err != nil {
		return nil, fmt.Errorf("marshal redis commands: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build redis request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+u.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute redis request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("read redis response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("redis http status=%d body=%s", resp.StatusCode, string(raw))
	}

	var parsed []restResult
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode redis response: %w", err)
	}
	for _, r := range parsed {
		if r.Error != "" {
			return nil, errors.New(r.Error)
		}
	}
	return parsed, nil
}
