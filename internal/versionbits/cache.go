// Copyright (c) 2016 The btcsuite developers
// Copyright (c) 2017-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package versionbits

import (
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/container/lru"
)

// DefaultCacheSize is the default maximum number of window boundary records
// that are cached per deployment.
const DefaultCacheSize = 4096

// cacheEntry houses a cached activation record along with the height of the
// boundary block it was computed for.
type cacheEntry struct {
	height int64
	record Record
}

// thresholdStateCache provides a type to cache the activation record of each
// window boundary block for a single deployment.  The least recently used
// entries are evicted once the limit is reached.
//
// The underlying map is safe for concurrent access, however bulk removals
// must be guarded by the caller to keep them atomic with respect to queries.
type thresholdStateCache struct {
	entries *lru.Map[chainhash.Hash, cacheEntry]
}

// newThresholdStateCache returns a new cache that holds at most limit
// entries.
func newThresholdStateCache(limit uint32) *thresholdStateCache {
	return &thresholdStateCache{
		entries: lru.NewMap[chainhash.Hash, cacheEntry](limit),
	}
}

// Lookup returns the cached entry for the provided boundary block and whether
// or not it exists.
func (c *thresholdStateCache) Lookup(hash chainhash.Hash) (cacheEntry, bool) {
	return c.entries.Get(hash)
}

// Update sets the record for the provided boundary block.  Existing entries
// are replaced.
func (c *thresholdStateCache) Update(hash chainhash.Hash, height int64, rec Record) {
	c.entries.Put(hash, cacheEntry{height: height, record: rec})
}

// PurgeAbove removes all entries for boundary blocks with a height greater
// than the provided height and returns the number removed.
func (c *thresholdStateCache) PurgeAbove(height int64) int {
	var purged int
	for _, hash := range c.entries.Keys() {
		entry, ok := c.entries.Peek(hash)
		if ok && entry.height > height {
			c.entries.Delete(hash)
			purged++
		}
	}
	return purged
}

// Len returns the number of cached entries.
func (c *thresholdStateCache) Len() int {
	return int(c.entries.Len())
}

// Clear removes all entries.
func (c *thresholdStateCache) Clear() {
	c.entries.Clear()
}
