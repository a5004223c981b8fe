package cache

import (
	"context"
	"slices"
	"sync"
	"time"
)

const defaultCleanupInterval = 5 * time.Minute

type memoryItem struct {
	value      []byte
	expiration time.Time
}

func (i *memoryItem) expired(now time.Time) bool {
	return !i.expiration.IsZero() && now.After(i.expiration)
}

// MemoryCache is a process-local RawCache. Expired entries are hidden on read
// and swept periodically.
type MemoryCache struct {
	items     sync.Map // map[string]*memoryItem
	stop      chan struct{}
	closeOnce sync.Once
	now       func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return newMemoryCache(defaultCleanupInterval, time.Now)
}

func newMemoryCache(cleanupInterval time.Duration, now func() time.Time) *MemoryCache {
	c := &MemoryCache{
		stop: make(chan struct{}),
		now:  now,
	}
	go c.cleanupLoop(cleanupInterval)
	return c
}

func (c *MemoryCache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.stop:
			return
		}
	}
}

func (c *MemoryCache) sweep() {
	now := c.now()
	c.items.Range(func(key, value any) bool {
		if value.(*memoryItem).expired(now) {
			c.items.Delete(key)
		}
		return true
	})
}

func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	v, ok := c.items.Load(key)
	if !ok {
		return nil, false, nil
	}
	item := v.(*memoryItem)
	if item.expired(c.now()) {
		c.items.Delete(key)
		return nil, false, nil
	}
	return slices.Clone(item.value), true, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	item := &memoryItem{value: slices.Clone(value)}
	if ttl > 0 {
		item.expiration = c.now().Add(ttl)
	}
	c.items.Store(key, item)
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.items.Delete(key)
	return nil
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (c *MemoryCache) Close() error {
	c.closeOnce.Do(func() { close(c.stop) })
	return nil
}
