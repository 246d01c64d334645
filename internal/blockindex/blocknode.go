// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockindex

import (
	"sort"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/wire"
)

// medianTimeBlocks is the number of previous blocks which should be
// used to calculate the median time used to validate block timestamps.
const medianTimeBlocks = 11

// blockNode represents a block header within the block index.  The index
// houses every header it has seen, so the nodes form a tree rooted at the
// genesis block.
type blockNode struct {
	// NOTE: Additions, deletions, or modifications to the order of the
	// definitions in this struct should not be changed without considering
	// how it affects alignment on 64-bit platforms.

	// parent is the parent block for this node.
	parent *blockNode

	// skipToAncestor is used to provide a skip list to significantly speed
	// up traversal to ancestors deep in history.
	skipToAncestor *blockNode

	// hash is the hash of the block this node represents.
	hash chainhash.Hash

	// height is the position in the block chain.
	height int64

	// timestamp is the unix time of the header.
	timestamp int64

	// version is the version of the header.
	version uint32
}

// clearLowestOneBit clears the lowest set bit in the passed value.
func clearLowestOneBit(n int64) int64 {
	return n & (n - 1)
}

// calcSkipListHeight calculates the height of an ancestor block to use when
// constructing the ancestor traversal skip list.
func calcSkipListHeight(height int64) int64 {
	if height < 0 {
		return 0
	}

	// The chain is append only, so a deterministic skip list with a single
	// level that is reasonably close to O(log n) is sufficient.  The only
	// requirement is for the calculated height to be less than the provided
	// height.
	return clearLowestOneBit(clearLowestOneBit(height))
}

// newBlockNode returns a new block node for the given block header and parent
// node.  The parent is nil for the genesis block.
//
// This function is NOT safe for concurrent access.
func newBlockNode(header *wire.BlockHeader, parent *blockNode) *blockNode {
	node := &blockNode{
		hash:      header.BlockHash(),
		parent:    parent,
		height:    int64(header.Height),
		timestamp: header.Timestamp.Unix(),
		version:   uint32(header.Version),
	}
	if parent != nil {
		node.skipToAncestor = parent.Ancestor(calcSkipListHeight(node.height))
	}
	return node
}

// Ancestor returns the ancestor block node at the provided height by following
// the chain backwards from this node.  The returned block will be nil when a
// height is requested that is after the height of the passed node or is less
// than zero.
//
// This function is safe for concurrent access.
func (node *blockNode) Ancestor(height int64) *blockNode {
	if height < 0 || height > node.height {
		return nil
	}

	n := node
	for n != nil && n.height != height {
		// Skip to the linked ancestor when it won't overshoot the target
		// height.
		if n.skipToAncestor != nil && calcSkipListHeight(n.height) >= height {
			n = n.skipToAncestor
			continue
		}

		n = n.parent
	}

	return n
}

// CalcPastMedianTime calculates the median time of the previous few blocks
// prior to, and including, the block node.
//
// This function is safe for concurrent access.
func (node *blockNode) CalcPastMedianTime() int64 {
	// Create a slice of the previous few block timestamps used to calculate
	// the median per the number defined by the constant medianTimeBlocks.
	timestamps := make([]int64, 0, medianTimeBlocks)
	for n := node; n != nil && len(timestamps) < medianTimeBlocks; n = n.parent {
		timestamps = append(timestamps, n.timestamp)
	}

	// Fewer timestamps are available near the beginning of the chain.  The
	// upper middle element is used as the median for an even number of
	// timestamps.
	sort.Slice(timestamps, func(i, j int) bool {
		return timestamps[i] < timestamps[j]
	})
	return timestamps[len(timestamps)/2]
}
