package cache

import (
	"container/list"
	"sync"

	"github.com/coreseq/coreseq/query"
)

// lruCache is a small bounded least-recently-used cache, the same
// hand-rolled shape as the teacher's dfa/lazy.Cache (RWMutex-protected,
// hit/miss stats) but with real per-entry eviction instead of
// clear-the-whole-cache-when-full — spec.md §4.5 explicitly calls the
// optional memoization caches "LRU-bounded," unlike the DFA state cache's
// clear-on-full policy.
type lruCache struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[string]*list.Element
	hits     uint64
	misses   uint64
}

type lruEntry struct {
	key   string
	value any
}

func newLRUCache(capacity int) *lruCache {
	return &lruCache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

func (c *lruCache) get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	c.ll.MoveToFront(el)
	return el.Value.(*lruEntry).value, true
}

func (c *lruCache) put(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		el.Value.(*lruEntry).value = value
		c.ll.MoveToFront(el)
		return
	}
	el := c.ll.PushFront(&lruEntry{key: key, value: value})
	c.items[key] = el
	if c.ll.Len() > c.capacity {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.items, oldest.Value.(*lruEntry).key)
		}
	}
}

func (c *lruCache) stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Hits: c.hits, Misses: c.misses}
}

// MatchOutcomeCache memoizes EvaluateMatch's boolean outcome keyed by a
// (query fingerprint, row fingerprint) pair (spec.md §4.5's first
// optional cache).
type MatchOutcomeCache struct {
	lru *lruCache
}

func NewMatchOutcomeCache(capacity int) *MatchOutcomeCache {
	return &MatchOutcomeCache{lru: newLRUCache(capacity)}
}

func matchKey(queryFingerprint, rowFingerprint uint64) string {
	b := make([]byte, 16)
	putUint64(b[0:8], queryFingerprint)
	putUint64(b[8:16], rowFingerprint)
	return string(b)
}

func (c *MatchOutcomeCache) Get(queryFingerprint, rowFingerprint uint64) (bool, bool) {
	v, ok := c.lru.get(matchKey(queryFingerprint, rowFingerprint))
	if !ok {
		return false, false
	}
	return v.(bool), true
}

func (c *MatchOutcomeCache) Put(queryFingerprint, rowFingerprint uint64, outcome bool) {
	c.lru.put(matchKey(queryFingerprint, rowFingerprint), outcome)
}

func (c *MatchOutcomeCache) Stats() Stats { return c.lru.stats() }

// QueryKeySetCache memoizes extracted query-k-mer sets keyed by query
// fingerprint (spec.md §4.5's second optional cache).
type QueryKeySetCache struct {
	lru *lruCache
}

func NewQueryKeySetCache(capacity int) *QueryKeySetCache {
	return &QueryKeySetCache{lru: newLRUCache(capacity)}
}

func (c *QueryKeySetCache) Get(queryFingerprint uint64) ([]query.Key, bool) {
	v, ok := c.lru.get(matchKey(queryFingerprint, 0))
	if !ok {
		return nil, false
	}
	return v.([]query.Key), true
}

func (c *QueryKeySetCache) Put(queryFingerprint uint64, keys []query.Key) {
	c.lru.put(matchKey(queryFingerprint, 0), keys)
}

func (c *QueryKeySetCache) Stats() Stats { return c.lru.stats() }

func putUint64(b []byte, v uint64) {
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
}
