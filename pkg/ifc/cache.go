package ifc

import (
	"sync"
	"time"

	"github.com/marmos91/ifconnect/internal/wire"
)

// CacheEntry is the last decoded value for a manifest name and the
// monotonic time it was observed (§3 "State cache").
type CacheEntry struct {
	Value     wire.Value
	Timestamp time.Time
}

// cache mirrors every successful decode, keyed by manifest name. It is
// never evicted during a connection and is cleared wholesale on close
// (§3, §4.4). It is written only from the executor goroutine but read
// by Cached, which callers may invoke from any goroutine.
type cache struct {
	mu      sync.RWMutex
	entries map[string]CacheEntry
}

func newCache() *cache {
	return &cache{entries: make(map[string]CacheEntry)}
}

func (c *cache) set(name string, v wire.Value, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[name] = CacheEntry{Value: v, Timestamp: at}
}

func (c *cache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]CacheEntry)
}

// Cached returns the last decoded value for name, if any has arrived.
func (c *Client) Cached(name string) (CacheEntry, bool) {
	c.cache.mu.RLock()
	defer c.cache.mu.RUnlock()
	e, ok := c.cache.entries[name]
	return e, ok
}
