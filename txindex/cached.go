// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

package txindex

import (
	"math/rand"
	"sync"

	"github.com/google/btree"

	"github.com/erigontech/erigon-logsync/kv"
)

// CachedTxIndex wraps a TxIndex with a bounded in-memory sample cache
// biasing Random toward recently inserted elements. The cache is never
// rebuilt from the store: after a restart it starts empty and Random
// degrades to a uniform draw over the whole set until the cache warms up
// again. That's an intentional simplicity/recency trade, not a bug.
//
// With cacheCap > 0, CachedTxIndex serializes its own mutating
// operations with a single reader/writer lock held across the underlying
// store call, so it is safe to share across goroutines even though a
// bare TxIndex is not. With cacheCap 0 it takes no lock and is no safer
// to share than the TxIndex it wraps.
type CachedTxIndex struct {
	idx      *TxIndex
	cacheCap int

	mu    sync.RWMutex
	cache map[uint64]struct{}
}

// NewCached wraps idx with a sample cache of capacity cacheCap. A
// cacheCap of 0 makes the wrapper a transparent, lock-free pass-through.
func NewCached(idx *TxIndex, cacheCap int) *CachedTxIndex {
	c := &CachedTxIndex{idx: idx, cacheCap: cacheCap}
	if cacheCap > 0 {
		c.cache = make(map[uint64]struct{}, cacheCap)
	}
	return c
}

// Has reports membership; it does not consult the cache, since absence
// from the cache carries no information about membership.
func (c *CachedTxIndex) Has(store kv.Store, seq uint64) (bool, error) {
	return c.idx.Has(store, seq)
}

// Count returns (durable count, in-memory cache size). The cache size is
// always 0 when cacheCap is 0.
func (c *CachedTxIndex) Count(store kv.Store) (uint64, int, error) {
	count, err := c.idx.Count(store)
	if err != nil {
		return 0, 0, err
	}
	if c.cacheCap == 0 {
		return count, 0, nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return count, len(c.cache), nil
}

// Add inserts seq into the underlying TxIndex and, iff newly inserted,
// into the sample cache, evicting a uniformly random existing cache
// member if that would push the cache over capacity. On an underlying
// error the cache is left untouched.
func (c *CachedTxIndex) Add(store kv.Store, batch *kv.Batch, seq uint64) (bool, error) {
	if c.cacheCap == 0 {
		return c.idx.Add(store, batch, seq)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	added, err := c.idx.Add(store, batch, seq)
	if err != nil {
		return false, err
	}
	if !added {
		return false, nil
	}

	c.cache[seq] = struct{}{}
	if len(c.cache) > c.cacheCap {
		c.evictRandomLocked()
	}
	return true, nil
}

// Remove deletes seq from the underlying TxIndex and, iff it was
// present, purges it from the sample cache. On an underlying error the
// cache is left untouched.
func (c *CachedTxIndex) Remove(store kv.Store, batch *kv.Batch, seq uint64) (bool, error) {
	if c.cacheCap == 0 {
		return c.idx.Remove(store, batch, seq)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	removed, err := c.idx.Remove(store, batch, seq)
	if err != nil {
		return false, err
	}
	if removed {
		delete(c.cache, seq)
	}
	return removed, nil
}

// Random draws uniformly from the sample cache when it is non-empty;
// only when the cache is empty does it fall through to a uniform draw
// over the entire durable set. This intentionally skews selection
// toward recent insertions.
func (c *CachedTxIndex) Random(store kv.Store) (uint64, bool, error) {
	if c.cacheCap == 0 {
		return c.idx.Random(store)
	}

	c.mu.RLock()
	seq, ok := pickRandom(c.cache)
	c.mu.RUnlock()
	if ok {
		return seq, true, nil
	}

	return c.idx.Random(store)
}

// Ordered returns a sorted snapshot of the sample cache's current
// contents, backed by a throwaway btree.BTreeG[uint64]. This is a
// supplemental convenience for callers/tests that want a deterministic
// view of what's cached; it has no bearing on Random's semantics, which
// remain uniform-random over an unordered set.
func (c *CachedTxIndex) Ordered() []uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	bt := btree.NewG(32, func(a, b uint64) bool { return a < b })
	for seq := range c.cache {
		bt.ReplaceOrInsert(seq)
	}

	out := make([]uint64, 0, bt.Len())
	bt.Ascend(func(seq uint64) bool {
		out = append(out, seq)
		return true
	})
	return out
}

// evictRandomLocked removes one uniformly random element from the
// cache. Callers must hold c.mu for writing.
func (c *CachedTxIndex) evictRandomLocked() {
	victim, ok := pickRandom(c.cache)
	if !ok {
		return
	}
	delete(c.cache, victim)
}

// pickRandom returns a uniformly random key from set, or false if empty.
// Map iteration order in Go is already randomized per-run, but is not
// guaranteed uniform across repeated calls on the same map, so a true
// skip count is drawn explicitly.
func pickRandom(set map[uint64]struct{}) (uint64, bool) {
	n := len(set)
	if n == 0 {
		return 0, false
	}

	skip := rand.Intn(n)
	for k := range set {
		if skip == 0 {
			return k, true
		}
		skip--
	}
	panic("unreachable")
}
