// ABOUTME: In-memory cache with TTL-based expiration
// ABOUTME: Thread-safe generic cache using sync.Map with stoppable background cleanup

package cache

import (
	"log/slog"
	"sync"
	"time"
)

// cleanupInterval is how often expired entries are swept
const cleanupInterval = time.Minute

type entry[V any] struct {
	data      V
	expiresAt time.Time // zero means no expiry
}

func (e entry[V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Cache stores values of type V keyed by string. A zero TTL keeps entries
// until they are cleared.
type Cache[V any] struct {
	store sync.Map
	ttl   time.Duration
	now   func() time.Time
	done  chan struct{}
	once  sync.Once
}

// New creates a cache whose Set uses ttl and starts the cleanup goroutine.
// Call Close to stop it.
func New[V any](ttl time.Duration) *Cache[V] {
	c := &Cache[V]{
		ttl:  ttl,
		now:  time.Now,
		done: make(chan struct{}),
	}
	go c.startCleanup()
	return c
}

// WithClock makes Get and Set read time from now. Call it before the cache is shared.
func (c *Cache[V]) WithClock(now func() time.Time) *Cache[V] {
	if now != nil {
		c.now = now
	}
	return c
}

func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V
	val, ok := c.store.Load(key)
	if !ok {
		slog.Debug("Cache miss", "key", key)
		return zero, false
	}

	e := val.(entry[V])
	if e.expired(c.now()) {
		c.store.Delete(key)
		slog.Debug("Cache expired", "key", key)
		return zero, false
	}

	slog.Debug("Cache hit", "key", key)
	return e.data, true
}

func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL. A TTL of zero or less never expires.
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	e := entry[V]{data: value}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.store.Store(key, e)
	slog.Debug("Cache set", "key", key, "ttl", ttl)
}

func (c *Cache[V]) Clear(key string) {
	c.store.Delete(key)
}

// Close stops the cleanup goroutine. The cache stays usable.
func (c *Cache[V]) Close() {
	c.once.Do(func() { close(c.done) })
}

func (c *Cache[V]) startCleanup() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case now := <-ticker.C:
			c.sweep(now)
		}
	}
}

func (c *Cache[V]) sweep(now time.Time) {
	c.store.Range(func(key, val any) bool {
		if val.(entry[V]).expired(now) {
			c.store.Delete(key)
		}
		return true
	})
}
