// Package cache implements the multi-tier high-frequency k-mer cache of
// spec.md §4.5: a process-local tier for the hot extraction path, a
// cross-process tier for sharing across OS processes, and two optional
// LRU memoization caches.
package cache

import (
	"fmt"
	"sync"

	"github.com/coreseq/coreseq/host"
)

// LocalCache is the process-local tier of spec.md §4.5: a process-lifetime
// arena holding the set of high-frequency k-mer integers for one
// (table, column), invalidated on explicit Unload or on Load for a
// different (table, column).
//
// Single-reader-single-writer per spec.md: Load/Unload take the write
// lock, Contains takes the read lock, matching the teacher's
// RWMutex-protected cache pattern (dfa/lazy/cache.go).
type LocalCache struct {
	mu      sync.RWMutex
	meta    host.AnalysisMeta
	loaded  bool
	members map[uint64]struct{}
	hits    uint64
	misses  uint64
}

// NewLocalCache returns an empty, unloaded cache.
func NewLocalCache() *LocalCache {
	return &LocalCache{}
}

// Load installs recs as the high-frequency set for meta's (table, column),
// after validating meta against runtime (spec.md §4.5's GUC check:
// "compares the current runtime configuration... against the stored
// analysis metadata and refuses to load if they disagree"). Loading a
// different (table, column) than what's currently loaded implicitly
// invalidates the prior load.
func (c *LocalCache) Load(runtime host.AnalysisMeta, stored host.AnalysisMeta, recs []host.HighFreqRecord) error {
	if err := validateMeta(runtime, stored); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	members := make(map[uint64]struct{}, len(recs))
	for _, r := range recs {
		members[r.Kmer] = struct{}{}
	}
	c.meta = stored
	c.members = members
	c.loaded = true
	return nil
}

// Unload clears the cache, per spec.md §4.5's explicit-unload invalidation.
func (c *LocalCache) Unload() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.meta = host.AnalysisMeta{}
	c.members = nil
	c.loaded = false
}

// Loaded reports whether a high-frequency set is currently installed.
func (c *LocalCache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Contains reports whether kmer is a cached high-frequency k-mer. The
// library stays silent here (no logging); Stats exposes hit/miss counts
// for the caller to observe, matching the teacher's
// "library stays silent, caller observes via Stats" convention.
func (c *LocalCache) Contains(kmer uint64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.members[kmer]
	if ok {
		c.promoteHit()
	} else {
		c.promoteMiss()
	}
	return ok
}

// promoteHit/promoteMiss use plain increments under the already-held read
// lock; Stats is read-mostly so this is an accepted, documented race on
// the counters' exact value under concurrent Contains calls (matching the
// teacher cache's own relaxed-consistency stats counters), never on
// membership itself.
func (c *LocalCache) promoteHit()  { c.hits++ }
func (c *LocalCache) promoteMiss() { c.misses++ }

// Stats reports cache hit/miss counts.
type Stats struct {
	Hits   uint64
	Misses uint64
}

// Stats returns the hit/miss counters accumulated since the cache was
// created; Load and Unload do not reset them.
func (c *LocalCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{Hits: c.hits, Misses: c.misses}
}

// validateMeta implements spec.md §4.5's GUC-mismatch check: refuse to
// load if runtime configuration disagrees with the stored analysis
// metadata, naming the first disagreeing field.
func validateMeta(runtime, stored host.AnalysisMeta) error {
	if runtime.K != stored.K {
		return &Error{Kind: ConfigMismatch, Field: "K", Want: fmt.Sprint(runtime.K), Got: fmt.Sprint(stored.K)}
	}
	if runtime.OccurrenceBit != stored.OccurrenceBit {
		return &Error{Kind: ConfigMismatch, Field: "OccurrenceBit", Want: fmt.Sprint(runtime.OccurrenceBit), Got: fmt.Sprint(stored.OccurrenceBit)}
	}
	if runtime.MaxRate != stored.MaxRate {
		return &Error{Kind: ConfigMismatch, Field: "MaxRate", Want: fmt.Sprint(runtime.MaxRate), Got: fmt.Sprint(stored.MaxRate)}
	}
	if runtime.MaxRows != stored.MaxRows {
		return &Error{Kind: ConfigMismatch, Field: "MaxRows", Want: fmt.Sprint(runtime.MaxRows), Got: fmt.Sprint(stored.MaxRows)}
	}
	return nil
}
