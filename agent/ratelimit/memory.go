package ratelimit

import (
	"context"
	"sync"
	"time"

	contractx "github.com/tanpawarit/agentic-automator/agent/contract"
)

// Memory keeps per-client request timestamps in process memory.
type Memory struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu        sync.Mutex
	buckets   map[string][]time.Time
	lastSweep time.Time
}

var _ contractx.RateLimiter = (*Memory)(nil)

func NewMemory(limit int, window time.Duration) *Memory {
	return &Memory{
		limit:   limit,
		window:  window,
		now:     time.Now,
		buckets: make(map[string][]time.Time),
	}
}

// Admit records the request and reports true when fewer than limit requests
// from clientID fall inside the window.
func (m *Memory) Admit(ctx context.Context, clientID string) (bool, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweep(now)

	bucket := prune(m.buckets[clientID], now, m.window)
	if len(bucket) >= m.limit {
		m.buckets[clientID] = bucket
		return false, nil
	}
	m.buckets[clientID] = append(bucket, now)
	return true, nil
}

// sweep drops idle clients at most once per window.
func (m *Memory) sweep(now time.Time) {
	if now.Sub(m.lastSweep) < m.window {
		return
	}
	m.lastSweep = now
	for id, bucket := range m.buckets {
		if len(prune(bucket, now, m.window)) == 0 {
			delete(m.buckets, id)
		}
	}
}

func prune(bucket []time.Time, now time.Time, window time.Duration) []time.Time {
	i := 0
	for i < len(bucket) && now.Sub(bucket[i]) >= window {
		i++
	}
	return bucket[i:]
}

func (m *Memory) clients() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.buckets)
}
