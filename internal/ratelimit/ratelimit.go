// Package ratelimit provides a keyed token bucket limiter with idle eviction.
// Allow is used for inbound request protection, Wait for outbound calls.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultIdleTTL       = 10 * time.Minute
	defaultSweepInterval = time.Minute
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedRateLimiter gives each key its own independent token bucket.
// Buckets unused for longer than the idle TTL are evicted.
type KeyedRateLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	limit   rate.Limit
	burst   int

	idleTTL       time.Duration
	sweepInterval time.Duration
	now           func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

// Option configures a KeyedRateLimiter.
type Option func(*KeyedRateLimiter)

// WithIdleTTL sets how long an unused bucket is kept.
func WithIdleTTL(ttl time.Duration) Option {
	return func(k *KeyedRateLimiter) { k.idleTTL = ttl }
}

// WithSweepInterval sets how often idle buckets are evicted.
func WithSweepInterval(d time.Duration) Option {
	return func(k *KeyedRateLimiter) { k.sweepInterval = d }
}

// New creates a keyed limiter allowing rps requests per second per key with
// the given burst.
func New(rps float64, burst int, opts ...Option) *KeyedRateLimiter {
	krl := &KeyedRateLimiter{
		entries:       make(map[string]*entry),
		limit:         rate.Limit(rps),
		burst:         burst,
		idleTTL:       defaultIdleTTL,
		sweepInterval: defaultSweepInterval,
		now:           time.Now,
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(krl)
	}

	go krl.sweepLoop()

	return krl
}

// Allow reports whether a request for key may proceed now.
func (krl *KeyedRateLimiter) Allow(key string) bool {
	return krl.limiterFor(key).Allow()
}

// Wait blocks until a request for key is allowed or ctx is done.
func (krl *KeyedRateLimiter) Wait(ctx context.Context, key string) error {
	return krl.limiterFor(key).Wait(ctx)
}

// Len returns the number of tracked keys.
func (krl *KeyedRateLimiter) Len() int {
	krl.mu.Lock()
	defer krl.mu.Unlock()
	return len(krl.entries)
}

func (krl *KeyedRateLimiter) limiterFor(key string) *rate.Limiter {
	krl.mu.Lock()
	defer krl.mu.Unlock()

	e, ok := krl.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(krl.limit, krl.burst)}
		krl.entries[key] = e
	}
	e.lastSeen = krl.now()
	return e.limiter
}

// evictIdle drops buckets not used within the idle TTL and returns how many.
func (krl *KeyedRateLimiter) evictIdle() int {
	cutoff := krl.now().Add(-krl.idleTTL)

	krl.mu.Lock()
	defer krl.mu.Unlock()

	evicted := 0
	for key, e := range krl.entries {
		if e.lastSeen.Before(cutoff) {
			delete(krl.entries, key)
			evicted++
		}
	}
	return evicted
}

// Stop shuts down the sweep goroutine.
func (krl *KeyedRateLimiter) Stop() {
	krl.stopOnce.Do(func() {
		close(krl.done)
	})
}

func (krl *KeyedRateLimiter) sweepLoop() {
	ticker := time.NewTicker(krl.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			krl.evictIdle()
		case <-krl.done:
			return
		}
	}
}
