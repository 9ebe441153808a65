// Package ratelimit provides per-client request limiting using the token
// bucket algorithm. Enhancement calls burn LLM quota, so they get a much
// tighter bucket than autocomplete lookups.
package ratelimit

import (
	"strings"
	"sync"
	"time"
)

// bucket is one client+endpoint token bucket. Tokens refill continuously.
type bucket struct {
	mu         sync.Mutex
	capacity   float64
	refillRate float64 // tokens per second
	tokens     float64
	lastRefill time.Time
	lastAccess time.Time
}

func newBucket(capacity int, refillRate float64) *bucket {
	now := time.Now()
	return &bucket{
		capacity:   float64(capacity),
		refillRate: refillRate,
		tokens:     float64(capacity),
		lastRefill: now,
		lastAccess: now,
	}
}

// take refills and consumes one token if available. It returns whether the
// request is allowed, the tokens remaining, and when the bucket refills.
func (b *bucket) take() (bool, int, time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.tokens += now.Sub(b.lastRefill).Seconds() * b.refillRate
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.lastRefill = now
	b.lastAccess = now

	allowed := b.tokens >= 1.0
	if allowed {
		b.tokens -= 1.0
	}

	reset := now
	if b.tokens < b.capacity {
		secondsUntilFull := (b.capacity - b.tokens) / b.refillRate
		reset = now.Add(time.Duration(secondsUntilFull * float64(time.Second)))
	}
	return allowed, int(b.tokens), reset
}

// Info reports the limit state for one decision, for response headers.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Limiter tracks token buckets per client and endpoint tier.
type Limiter struct {
	config *Config

	mu      sync.Mutex
	buckets map[string]*bucket

	cleanupTicker *time.Ticker
	cleanupStop   chan struct{}
}

// NewLimiter creates a limiter and starts its idle-bucket cleanup loop.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = LoadConfig()
	}
	l := &Limiter{
		config:  config,
		buckets: make(map[string]*bucket),
	}
	if config.Enabled && config.CleanupInterval > 0 {
		l.cleanupTicker = time.NewTicker(config.CleanupInterval)
		l.cleanupStop = make(chan struct{})
		go l.cleanupLoop()
	}
	return l
}

// Allow decides whether a request from clientID to an endpoint may proceed.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.config.Enabled {
		return true, Info{Allowed: true}
	}
	if l.config.Exempt[clientID] {
		return true, Info{Allowed: true}
	}

	rule := matchRule(path, method, l.config.Rules)
	if rule == nil {
		rule = &Rule{Limit: l.config.DefaultLimit, Window: l.config.DefaultWindow}
	}
	if rule.Limit <= 0 {
		// unlimited endpoint, e.g. health probes
		return true, Info{Allowed: true}
	}

	key := clientID + ":" + rule.Path + ":" + method
	b := l.getBucket(key, rule)

	allowed, remaining, reset := b.take()
	info := Info{
		Allowed:   allowed,
		Limit:     rule.Limit,
		Remaining: remaining,
		ResetTime: reset,
	}
	if !allowed {
		if retry := time.Until(reset); retry > 0 {
			info.RetryAfter = retry
		}
	}
	return allowed, info
}

func (l *Limiter) getBucket(key string, rule *Rule) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()
	if b, ok := l.buckets[key]; ok {
		return b
	}
	burst := rule.Burst
	if burst <= 0 {
		burst = rule.Limit
	}
	b := newBucket(burst, float64(rule.Limit)/rule.Window.Seconds())
	l.buckets[key] = b
	return b
}

// matchRule finds the first rule whose path prefix and method match.
func matchRule(path, method string, rules []Rule) *Rule {
	for i := range rules {
		r := &rules[i]
		if r.Method != "" && r.Method != method {
			continue
		}
		if strings.HasPrefix(path, r.Path) {
			return r
		}
	}
	return nil
}

func (l *Limiter) cleanupLoop() {
	for {
		select {
		case <-l.cleanupTicker.C:
			l.dropIdleBuckets()
		case <-l.cleanupStop:
			return
		}
	}
}

// dropIdleBuckets evicts buckets untouched for over an hour.
func (l *Limiter) dropIdleBuckets() {
	cutoff := time.Now().Add(-1 * time.Hour)
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		b.mu.Lock()
		idle := b.lastAccess.Before(cutoff)
		b.mu.Unlock()
		if idle {
			delete(l.buckets, key)
		}
	}
}

// Stop terminates the cleanup loop.
func (l *Limiter) Stop() {
	if l.cleanupTicker != nil {
		l.cleanupTicker.Stop()
	}
	if l.cleanupStop != nil {
		close(l.cleanupStop)
	}
}
