// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package versionbits

import (
	"github.com/decred/dcrd/chaincfg/chainhash"
)

// ChainView provides read only access to the block headers the activation
// state is calculated from.
//
// Implementations must return an error when a referenced block does not exist.
// The calculator only queries blocks that IsOnActiveChain reported, and their
// ancestors, so such errors indicate the chain changed during a query.  All
// methods must be safe for concurrent access.
type ChainView interface {
	// ActiveTip returns the hash of the tip of the active chain.
	ActiveTip() chainhash.Hash

	// HeightOf returns the height of the provided block.
	HeightOf(hash *chainhash.Hash) (int64, error)

	// AncestorAt returns the hash of the ancestor of the provided block at
	// the given height.  The height must not be more than the height of the
	// block.
	AncestorAt(hash *chainhash.Hash, height int64) (chainhash.Hash, error)

	// VersionOf returns the version of the provided block.
	VersionOf(hash *chainhash.Hash) (uint32, error)

	// MedianTimePast returns the median timestamp of the provided block and
	// up to ten of its ancestors.  It must never decrease from a block to any
	// of its descendants since the state of every window that ends before
	// the start time of a deployment is assumed to be defined.
	MedianTimePast(hash *chainhash.Hash) (int64, error)

	// IsOnActiveChain returns whether or not the provided block is part of
	// the active chain.
	IsOnActiveChain(hash *chainhash.Hash) bool
}
