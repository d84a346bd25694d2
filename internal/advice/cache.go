/*
Package advice generates short dietary advice from the user's goal and
intake, memoized through a time-bounded cache so near-identical requests
within the TTL window share one upstream call.
*/
package advice

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	// DefaultTTL bounds how long one advice text is reused.
	DefaultTTL = 10 * time.Minute

	// calorieBucket groups near-identical calorie values under one key.
	calorieBucket = 100

	defaultCacheSize = 512
)

// Result is a piece of generated advice. Fallback marks text produced
// locally because the upstream model was unavailable; it is cached like
// any other result so retries during an outage stay consistent.
type Result struct {
	Text     string `json:"text"`
	Fallback bool   `json:"fallback"`
}

type entry struct {
	result    Result
	expiresAt time.Time
}

// Cache is an explicit TTL memoization layer with an injected clock, so
// expiry behavior is deterministic under test. The LRU bound keeps the
// entry count finite; expiry is checked lazily on read and enforced
// periodically by Sweep.
type Cache struct {
	mu    sync.Mutex
	store *lru.Cache[string, entry]
	ttl   time.Duration
	now   func() time.Time
}

// NewCache builds a cache. A nil clock defaults to time.Now.
func NewCache(ttl time.Duration, now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	store, _ := lru.New[string, entry](defaultCacheSize)
	return &Cache{store: store, ttl: ttl, now: now}
}

// Key derives the cache key from user identity, stated goal, and the
// calorie value floored to the nearest 100 kcal.
func Key(userID, goal string, calories float64) string {
	bucket := int(calories/calorieBucket) * calorieBucket
	return fmt.Sprintf("%s|%s|%d", userID, goal, bucket)
}

// GetOrCompute returns the cached result for key, or runs compute and
// caches whatever it returns for the TTL. An expired entry is a miss even
// if the sweep has not run yet.
func (c *Cache) GetOrCompute(key string, compute func() Result) Result {
	c.mu.Lock()
	if e, ok := c.store.Get(key); ok {
		if c.now().Before(e.expiresAt) {
			c.mu.Unlock()
			return e.result
		}
		c.store.Remove(key)
	}
	c.mu.Unlock()

	result := compute()

	c.mu.Lock()
	c.store.Add(key, entry{result: result, expiresAt: c.now().Add(c.ttl)})
	c.mu.Unlock()
	return result
}

// Sweep removes every expired entry.
func (c *Cache) Sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for _, key := range c.store.Keys() {
		if e, ok := c.store.Peek(key); ok && !now.Before(e.expiresAt) {
			c.store.Remove(key)
		}
	}
}

// StartSweeper runs Sweep periodically until ctx is canceled.
func (c *Cache) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.Sweep()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Len reports the live entry count. Used by tests and diagnostics.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Len()
}
