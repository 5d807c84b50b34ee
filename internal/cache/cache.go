package cache

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/wattai/wattai/internal/model"
)

// Entry holds a cached cheapest-option result with its expiration time.
type Entry struct {
	Result    *model.CheapestResult
	ExpiresAt time.Time
}

// lruEntry wraps an Entry with its cache key for O(1) eviction.
type lruEntry struct {
	key   string
	entry *Entry
}

// ResultCache is an in-memory LRU cache for cheapest-option scans, keyed by
// SHA-256 of (electricity price, hours). "Not found" results are cached too:
// an empty catalog stays empty until a restart, and the benchmark banner is
// fetched on every page load.
type ResultCache struct {
	mu         sync.RWMutex
	items      map[string]*list.Element
	order      *list.List // front = most recently used, back = least recently used
	ttl        time.Duration
	maxEntries int
}

// New creates a new ResultCache with the given TTL and max entry count.
func New(ttl time.Duration, maxEntries int) *ResultCache {
	return &ResultCache{
		items:      make(map[string]*list.Element),
		order:      list.New(),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

// cacheKey is the canonical structure hashed for the cache key.
type cacheKey struct {
	ElectricityCostUSD float64 `json:"electricity_cost_usd"`
	Hours              float64 `json:"hours"`
}

// KeyFor computes a SHA-256 hex string from the scan inputs.
func KeyFor(electricityUSD, hours float64) string {
	k := cacheKey{
		ElectricityCostUSD: electricityUSD,
		Hours:              hours,
	}
	data, _ := json.Marshal(k)
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Get looks up a cached result. Returns nil if not found or expired.
func (c *ResultCache) Get(electricityUSD, hours float64) (*Entry, bool) {
	return c.GetByKey(KeyFor(electricityUSD, hours))
}

// GetByKey looks up a cached result by precomputed key. Returns nil if not
// found or expired.
func (c *ResultCache) GetByKey(key string) (*Entry, bool) {
	c.mu.Lock()
	elem, ok := c.items[key]
	if !ok {
		c.mu.Unlock()
		return nil, false
	}

	le := elem.Value.(*lruEntry)
	if time.Now().After(le.entry.ExpiresAt) {
		// Expired — remove under write lock.
		c.order.Remove(elem)
		delete(c.items, key)
		c.mu.Unlock()
		return nil, false
	}

	// Move to front (most recently used).
	c.order.MoveToFront(elem)
	entry := le.entry
	c.mu.Unlock()
	return entry, true
}

// Put stores a result in the cache. If at capacity, the least recently used
// entry is evicted.
func (c *ResultCache) Put(electricityUSD, hours float64, res *model.CheapestResult) {
	c.PutByKey(KeyFor(electricityUSD, hours), res)
}

// PutByKey stores a result using a precomputed key.
func (c *ResultCache) PutByKey(key string, res *model.CheapestResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := &Entry{
		Result:    res,
		ExpiresAt: time.Now().Add(c.ttl),
	}

	if elem, ok := c.items[key]; ok {
		// Update existing entry, move to front.
		elem.Value.(*lruEntry).entry = entry
		c.order.MoveToFront(elem)
		return
	}

	// Evict LRU if at capacity.
	if c.order.Len() >= c.maxEntries {
		c.evictLRU()
	}

	le := &lruEntry{key: key, entry: entry}
	elem := c.order.PushFront(le)
	c.items[key] = elem
}

// Clear removes all entries from the cache.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.order.Init()
}

// Len returns the current number of entries in the cache.
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.order.Len()
}

// evictLRU removes the least recently used entry. Must be called under write lock.
func (c *ResultCache) evictLRU() {
	back := c.order.Back()
	if back == nil {
		return
	}
	le := back.Value.(*lruEntry)
	c.order.Remove(back)
	delete(c.items, le.key)
}
