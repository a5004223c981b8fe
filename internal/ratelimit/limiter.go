// Package ratelimit applies per-client token bucket limits to the JSON API.
package ratelimit

import (
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultRequestsPerSecond = 5
	defaultBurst             = 20
	defaultCleanupInterval   = 5 * time.Minute
	defaultEntryTTL          = 10 * time.Minute
	defaultMaxEntries        = 100000
)

// Config defines the token bucket applied to each key
type Config struct {
	RequestsPerSecond float64
	Burst             int
	CleanupInterval   time.Duration
	EntryTTL          time.Duration
	MaxEntries        int
}

type entry struct {
	limiter    *rate.Limiter
	lastAccess atomic.Int64
}

// KeyedLimiter keeps one token bucket per key, usually the client IP
type KeyedLimiter struct {
	mu      sync.RWMutex
	entries map[string]*entry
	config  Config
	now     func() time.Time

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewKeyedLimiter creates a limiter and starts its cleanup loop
func NewKeyedLimiter(cfg Config) *KeyedLimiter {
	kl := newKeyedLimiter(cfg, time.Now)
	go kl.cleanupLoop()
	return kl
}

func newKeyedLimiter(cfg Config, now func() time.Time) *KeyedLimiter {
	return &KeyedLimiter{
		entries: make(map[string]*entry),
		config:  normalize(cfg),
		now:     now,
		stopCh:  make(chan struct{}),
	}
}

func normalize(cfg Config) Config {
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = defaultRequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = defaultBurst
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = defaultCleanupInterval
	}
	if cfg.EntryTTL <= 0 {
		cfg.EntryTTL = defaultEntryTTL
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = defaultMaxEntries
	}
	return cfg
}

// Allow consumes a token for key
func (k *KeyedLimiter) Allow(key string) bool {
	if key == "" {
		key = "unknown"
	}
	now := k.now()
	e := k.getOrCreate(key, now)
	e.lastAccess.Store(now.UnixNano())
	return e.limiter.AllowN(now, 1)
}

// Len returns the number of tracked keys
func (k *KeyedLimiter) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.entries)
}

// Close stops the cleanup loop
func (k *KeyedLimiter) Close() error {
	k.stopOnce.Do(func() {
		close(k.stopCh)
	})
	return nil
}

func (k *KeyedLimiter) getOrCreate(key string, now time.Time) *entry {
	k.mu.RLock()
	e, ok := k.entries[key]
	k.mu.RUnlock()
	if ok {
		return e
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if e, ok = k.entries[key]; ok {
		return e
	}
	e = &entry{limiter: rate.NewLimiter(rate.Limit(k.config.RequestsPerSecond), k.config.Burst)}
	e.lastAccess.Store(now.UnixNano())
	k.entries[key] = e

	k.evictLocked()
	return e
}

func (k *KeyedLimiter) cleanupLoop() {
	ticker := time.NewTicker(k.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			k.cleanupExpired()
		case <-k.stopCh:
			return
		}
	}
}

func (k *KeyedLimiter) cleanupExpired() {
	cutoff := k.now().Add(-k.config.EntryTTL).UnixNano()

	k.mu.Lock()
	defer k.mu.Unlock()

	for key, e := range k.entries {
		if e.lastAccess.Load() < cutoff {
			delete(k.entries, key)
		}
	}
}

// evictLocked drops the least recently used keys above MaxEntries
func (k *KeyedLimiter) evictLocked() {
	for len(k.entries) > k.config.MaxEntries {
		oldestKey := ""
		var oldest int64
		for key, e := range k.entries {
			last := e.lastAccess.Load()
			if oldestKey == "" || last < oldest {
				oldest = last
				oldestKey = key
			}
		}
		delete(k.entries, oldestKey)
	}
}
