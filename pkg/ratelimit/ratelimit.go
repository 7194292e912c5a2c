// Package ratelimit paces outgoing requests so the client stays under the
// exchange's per-endpoint budgets instead of burning them into 429s.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenBucket is a simple token-bucket limiter.
type TokenBucket struct {
	capacity   int
	tokens     int
	refillRate int // tokens per second
	lastRefill time.Time
	mu         sync.Mutex
}

// NewTokenBucket creates a bucket that starts full.
func NewTokenBucket(capacity, refillRate int) *TokenBucket {
	return &TokenBucket{
		capacity:   capacity,
		tokens:     capacity,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

func (tb *TokenBucket) refill() {
	now := time.Now()
	elapsed := now.Sub(tb.lastRefill)
	add := int(elapsed.Seconds()) * tb.refillRate
	if add > 0 {
		tb.tokens = min(tb.capacity, tb.tokens+add)
		tb.lastRefill = now
	}
}

// Allow consumes one token when available.
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.refill()
	if tb.tokens > 0 {
		tb.tokens--
		return true
	}
	return false
}

// Wait blocks until a token is available or the context ends.
func (tb *TokenBucket) Wait(ctx context.Context) error {
	for {
		if tb.Allow() {
			return nil
		}
		wait := time.Second
		if tb.refillRate > 0 {
			wait = time.Second / time.Duration(tb.refillRate)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// Remaining reports the current token count.
func (tb *TokenBucket) Remaining() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.refill()
	return tb.tokens
}

// Manager holds one bucket per request class, falling back to a shared
// default bucket for unregistered classes.
type Manager struct {
	mu      sync.RWMutex
	buckets map[string]*TokenBucket
	def     *TokenBucket
}

// NewManager creates a manager with a default bucket sized for general
// JSON-RPC traffic.
func NewManager() *Manager {
	return &Manager{
		buckets: make(map[string]*TokenBucket),
		def:     NewTokenBucket(50, 10),
	}
}

// Register installs a dedicated bucket for a request class.
func (m *Manager) Register(class string, capacity, refillRate int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buckets[class] = NewTokenBucket(capacity, refillRate)
}

// Wait blocks until the class's bucket admits one request.
func (m *Manager) Wait(ctx context.Context, class string) error {
	m.mu.RLock()
	tb, ok := m.buckets[class]
	m.mu.RUnlock()
	if !ok {
		tb = m.def
	}
	return tb.Wait(ctx)
}
