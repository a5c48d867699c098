// Package ratelimit provides per-client rate limiting on top of golang.org/x/time/rate token buckets.
package ratelimit

import (
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// bucket is the token bucket of one client+endpoint pair.
type bucket struct {
	lim      *rate.Limiter
	lastSeen atomic.Int64 // unix nanoseconds
}

// newBucket creates a full bucket holding capacity tokens and refilling at
// refillRate tokens per second.
func newBucket(capacity int, refillRate float64) *bucket {
	b := &bucket{lim: rate.NewLimiter(rate.Limit(refillRate), capacity)}
	b.touch(time.Now())
	return b
}

func (b *bucket) touch(now time.Time) { b.lastSeen.Store(now.UnixNano()) }

func (b *bucket) idleSince(cutoff time.Time) bool {
	return b.lastSeen.Load() < cutoff.UnixNano()
}

// allow consumes a token if one is available.
func (b *bucket) allow() bool {
	b.touch(time.Now())
	return b.lim.Allow()
}

// status returns the whole tokens left and when the bucket will be full again.
func (b *bucket) status() (remaining int, resetTime time.Time) {
	now := time.Now()
	tokens := b.lim.TokensAt(now)
	remaining = max(int(tokens), 0)

	missing := float64(b.lim.Burst()) - tokens
	if missing <= 0 || b.lim.Limit() <= 0 {
		return remaining, now
	}
	return remaining, now.Add(time.Duration(missing / float64(b.lim.Limit()) * float64(time.Second)))
}

// retryAfter returns how long until the next token is available.
func (b *bucket) retryAfter() time.Duration {
	tokens := b.lim.Tokens()
	if tokens >= 1 || b.lim.Limit() <= 0 {
		return 0
	}
	return time.Duration((1 - tokens) / float64(b.lim.Limit()) * float64(time.Second))
}

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	// IdleTimeout is how long a bucket may go unused before cleanup drops
	// it. Defaults to one hour.
	IdleTimeout     time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// Limiter keeps one token bucket per client, endpoint scope and method.
type Limiter struct {
	config *Config

	mu      sync.RWMutex
	buckets map[string]*bucket

	stop     chan struct{}
	stopOnce sync.Once
}

// NewLimiter creates a rate limiter. A nil config allows 1000 requests per
// minute per client on every endpoint.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:         true,
			DefaultLimit:    1000,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
		}
	}

	l := &Limiter{
		config:  config,
		buckets: make(map[string]*bucket),
		stop:    make(chan struct{}),
	}
	if config.Enabled && config.CleanupInterval > 0 {
		go l.cleanupLoop(config.CleanupInterval)
	}
	return l
}

// Allow reports whether a request from clientID to endpoint may proceed and
// consumes a token when it does.
func (l *Limiter) Allow(clientID string, endpoint string, method string) (bool, Info) {
	switch {
	case !l.config.Enabled, l.config.Whitelist[clientID]:
		return true, Info{Allowed: true}
	case l.config.Blacklist[clientID]:
		return false, Info{}
	}

	ec := MatchEndpoint(endpoint, method, l.config.EndpointConfigs)
	if ec == nil {
		ec = &EndpointConfig{
			Limit:  l.config.DefaultLimit,
			Window: l.config.DefaultWindow,
			Burst:  l.config.DefaultLimit,
		}
	}
	if ec.Limit <= 0 {
		return true, Info{Allowed: true}
	}

	// Prefix configurations share one bucket per client, so /preview/a and
	// /preview/b draw from the same budget.
	scope := endpoint
	if ec.Path != "" {
		scope = ec.Path
	}
	b := l.bucketFor(clientID+":"+scope+":"+method, ec)

	info := Info{Allowed: b.allow(), Limit: ec.Limit}
	info.Remaining, info.ResetTime = b.status()
	if !info.Allowed {
		info.RetryAfter = b.retryAfter()
	}
	return info.Allowed, info
}

// bucketFor returns the bucket under key, creating it from ec on first use.
func (l *Limiter) bucketFor(key string, ec *EndpointConfig) *bucket {
	l.mu.RLock()
	b, ok := l.buckets[key]
	l.mu.RUnlock()
	if ok {
		return b
	}

	capacity := ec.Burst
	if capacity <= 0 {
		capacity = ec.Limit
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if b, ok := l.buckets[key]; ok {
		return b
	}
	b = newBucket(capacity, float64(ec.Limit)/ec.Window.Seconds())
	l.buckets[key] = b
	return b
}

func (l *Limiter) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.cleanupBuckets()
		case <-l.stop:
			return
		}
	}
}

// cleanupBuckets drops buckets idle for longer than the idle timeout.
func (l *Limiter) cleanupBuckets() {
	idle := l.config.IdleTimeout
	if idle <= 0 {
		idle = time.Hour
	}
	cutoff := time.Now().Add(-idle)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.idleSince(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}
