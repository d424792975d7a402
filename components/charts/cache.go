package charts

import (
	"container/list"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"
)

// DefaultMaxEntries bounds a cache built without WithMaxEntries.
const DefaultMaxEntries = 256

// RenderCache memoizes rendered chart markup.
type RenderCache interface {
	GetOrRender(key string, render func() (string, error)) (string, error)
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Hits    uint64
	Misses  uint64
	Entries int
}

// CacheOption customizes a Cache.
type CacheOption func(*Cache)

// WithMaxEntries caps the number of cached charts. The least recently used
// chart is evicted first.
func WithMaxEntries(n int) CacheOption {
	return func(c *Cache) {
		if n > 0 {
			c.max = n
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// Cache keeps rendered charts keyed by Fingerprint and evicts the least
// recently used chart once full.
type Cache struct {
	ttl time.Duration
	max int
	now func() time.Time

	mu     sync.Mutex
	index  map[string]*list.Element
	recent *list.List
	stats  CacheStats
}

type cacheEntry struct {
	key     string
	html    string
	expires time.Time
}

// NewCache builds a cache whose entries live for ttl. A non-positive ttl
// disables caching.
func NewCache(ttl time.Duration, options ...CacheOption) *Cache {
	c := &Cache{
		ttl:    ttl,
		max:    DefaultMaxEntries,
		now:    time.Now,
		index:  make(map[string]*list.Element),
		recent: list.New(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// GetOrRender returns the cached chart for key or renders and stores it.
// Render errors are not cached.
func (c *Cache) GetOrRender(key string, render func() (string, error)) (string, error) {
	if c == nil || c.ttl <= 0 {
		return render()
	}
	if html, ok := c.lookup(key); ok {
		return html, nil
	}
	html, err := render()
	if err != nil {
		return "", err
	}
	c.store(key, html)
	return html, nil
}

// Stats returns hit and miss counters.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	stats := c.stats
	stats.Entries = c.recent.Len()
	return stats
}

func (c *Cache) lookup(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.index[key]
	if !ok {
		c.stats.Misses++
		return "", false
	}
	entry := el.Value.(*cacheEntry)
	if !c.now().Before(entry.expires) {
		c.remove(el)
		c.stats.Misses++
		return "", false
	}
	c.recent.MoveToFront(el)
	c.stats.Hits++
	return entry.html, true
}

func (c *Cache) store(key, html string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	expires := c.now().Add(c.ttl)
	if el, ok := c.index[key]; ok {
		entry := el.Value.(*cacheEntry)
		entry.html, entry.expires = html, expires
		c.recent.MoveToFront(el)
		return
	}
	c.index[key] = c.recent.PushFront(&cacheEntry{key: key, html: html, expires: expires})
	for c.recent.Len() > c.max {
		c.remove(c.recent.Back())
	}
}

func (c *Cache) remove(el *list.Element) {
	c.recent.Remove(el)
	delete(c.index, el.Value.(*cacheEntry).key)
}

// Fingerprint builds a cache key from the chart kind and every input that
// shapes its markup.
func Fingerprint(kind string, inputs ...any) string {
	b, err := json.Marshal(inputs)
	if err != nil {
		return kind + ":invalid"
	}
	sum := sha1.Sum(b)
	return kind + ":" + hex.EncodeToString(sum[:])
}
