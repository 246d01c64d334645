// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package versionbits

import (
	"testing"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

// TestThresholdStateCache ensures the cache stores, evicts and purges records
// as expected.
func TestThresholdStateCache(t *testing.T) {
	t.Parallel()

	hashAt := func(height int64) chainhash.Hash {
		return chainhash.HashH([]byte{byte(height)})
	}

	cache := newThresholdStateCache(3)
	for _, height := range []int64{9, 19, 29} {
		cache.Update(hashAt(height), height, newRecord(ThresholdStarted))
	}
	if cache.Len() != 3 {
		t.Fatalf("mismatched len -- got %d, want 3", cache.Len())
	}

	// Access the oldest entry so the second one is evicted next.
	if _, ok := cache.Lookup(hashAt(9)); !ok {
		t.Fatal("missing entry for height 9")
	}
	cache.Update(hashAt(39), 39, lockedInRecord(39, 1000))
	if _, ok := cache.Lookup(hashAt(19)); ok {
		t.Fatal("entry for height 19 was not evicted")
	}
	entry, ok := cache.Lookup(hashAt(39))
	if !ok {
		t.Fatal("missing entry for height 39")
	}
	if entry.height != 39 || entry.record.State != ThresholdLockedIn ||
		*entry.record.LockIn != (LockIn{Height: 39, Time: 1000}) {

		t.Fatalf("unexpected entry: %+v", entry)
	}

	// Purge everything above height 9.
	if n := cache.PurgeAbove(9); n != 2 {
		t.Fatalf("mismatched number of purged entries -- got %d, want 2", n)
	}
	if _, ok := cache.Lookup(hashAt(9)); !ok {
		t.Fatal("entry for height 9 was purged")
	}
	cache.Clear()
	if cache.Len() != 0 {
		t.Fatalf("mismatched len after clear -- got %d, want 0", cache.Len())
	}
}
