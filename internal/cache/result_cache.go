// Package cache memoizes planning results for the lifetime of one
// planning session.
package cache

import (
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// ResultCache memoizes computed values by fingerprint. A generation tag
// versions the underlying station set: Invalidate bumps it and drops every
// entry, so results computed under a stale generation are treated as
// absent. Memory stays bounded by the session's scope.
type ResultCache[V any] struct {
	mu         sync.RWMutex
	generation uint64
	entries    map[string]V
	group      singleflight.Group
}

func NewResultCache[V any]() *ResultCache[V] {
	return &ResultCache[V]{entries: make(map[string]V)}
}

// Generation returns the current generation tag. Callers that snapshot
// derived state (a station set, an index) alongside it can pass the tag
// to GetOrComputeAt so a result computed from that snapshot is never
// stored past an intervening Invalidate.
func (c *ResultCache[V]) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// GetOrCompute returns the cached value for key, or runs compute and
// stores the result. compute reports whether its value may be stored; a
// false store hands the value back to the waiting callers without
// memoizing it, so the next request recomputes.
func (c *ResultCache[V]) GetOrCompute(key string, compute func() (V, bool, error)) (V, error) {
	return c.GetOrComputeAt(c.Generation(), key, compute)
}

// GetOrComputeAt is GetOrCompute pinned to a generation observed by the
// caller. Concurrent callers for the same key and generation share a
// single in-flight computation; compute runs at most once per key per
// generation. A value computed under a stale generation (or across an
// Invalidate call) is still returned to its callers but is not stored.
func (c *ResultCache[V]) GetOrComputeAt(gen uint64, key string, compute func() (V, bool, error)) (V, error) {
	c.mu.RLock()
	if v, ok := c.entries[key]; ok && c.generation == gen {
		c.mu.RUnlock()
		return v, nil
	}
	c.mu.RUnlock()

	// Scope the flight to the caller's generation so a caller racing an
	// invalidation never joins a stale computation.
	flightKey := strconv.FormatUint(gen, 10) + ":" + key

	v, err, _ := c.group.Do(flightKey, func() (any, error) {
		// A caller that lost the race to the first flight member may
		// arrive after the entry was stored; re-check before computing.
		c.mu.RLock()
		cached, ok := c.entries[key]
		fresh := c.generation == gen
		c.mu.RUnlock()
		if ok && fresh {
			return cached, nil
		}

		val, store, err := compute()
		if err != nil {
			return nil, err
		}

		if store {
			c.mu.Lock()
			if c.generation == gen {
				c.entries[key] = val
			}
			c.mu.Unlock()
		}
		return val, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

// Invalidate drops every entry by bumping the generation tag. Call it
// whenever the underlying station set changes (stations added, removed,
// or moved).
func (c *ResultCache[V]) Invalidate() {
	c.mu.Lock()
	c.generation++
	c.entries = make(map[string]V)
	c.mu.Unlock()
}

// Len reports the number of live entries.
func (c *ResultCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
