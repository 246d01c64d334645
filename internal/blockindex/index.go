// Copyright (c) 2015-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockindex

import (
	"fmt"
	"sync"
	"time"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/wire"
	"github.com/vbits/vbitsd/chaincfg"
	"github.com/vbits/vbitsd/internal/versionbits"
)

// Ensure the index implements the chain view used by the activation state
// calculator.
var _ versionbits.ChainView = (*Index)(nil)

// ReorgHandler is invoked when the active chain switches to a branch that does
// not extend the previous tip.  The fork height is the height of the most
// recent block the two branches have in common.
type ReorgHandler func(oldTip, newTip chainhash.Hash, forkHeight int64)

// Index houses a tree of block headers rooted at the genesis block of a
// network along with the active chain through it.  The active chain is the
// branch with the most headers, where the branch seen first wins ties.
//
// It implements the chain view required by the activation state calculator
// and is safe for concurrent access.
type Index struct {
	params *chaincfg.Params

	// These fields are protected by the embedded mutex.
	//
	// index contains every known node keyed by its hash and bestChain
	// contains the nodes of the active chain indexed by height.
	mtx       sync.RWMutex
	index     map[chainhash.Hash]*blockNode
	bestChain []*blockNode
	handlers  []ReorgHandler
}

// New returns an index that only contains the genesis block of the provided
// network.
func New(params *chaincfg.Params) *Index {
	genesis := newBlockNode(&params.GenesisHeader, nil)
	return &Index{
		params:    params,
		index:     map[chainhash.Hash]*blockNode{genesis.hash: genesis},
		bestChain: []*blockNode{genesis},
	}
}

// Subscribe registers the provided handler to be invoked on every
// reorganization of the active chain.  Handlers are invoked without any
// internal locks held.
func (idx *Index) Subscribe(handler ReorgHandler) {
	idx.mtx.Lock()
	idx.handlers = append(idx.handlers, handler)
	idx.mtx.Unlock()
}

// reorgNotification houses the details passed to reorg handlers.
type reorgNotification struct {
	oldTip, newTip chainhash.Hash
	forkHeight     int64
	handlers       []ReorgHandler
}

// notify invokes the handlers of the notification when it is not nil.
func (n *reorgNotification) notify() {
	if n == nil {
		return
	}
	log.Infof("Reorganize from %s to %s (fork height %d)", n.oldTip,
		n.newTip, n.forkHeight)
	for _, handler := range n.handlers {
		handler(n.oldTip, n.newTip, n.forkHeight)
	}
}

// tip returns the tip node of the active chain.
//
// This function MUST be called with the index lock held (for reads).
func (idx *Index) tip() *blockNode {
	return idx.bestChain[len(idx.bestChain)-1]
}

// contains returns whether or not the provided node is part of the active
// chain.
//
// This function MUST be called with the index lock held (for reads).
func (idx *Index) contains(node *blockNode) bool {
	return node.height < int64(len(idx.bestChain)) &&
		idx.bestChain[node.height] == node
}

// setTip makes the branch that ends with the provided node the active chain
// and returns the notification for the reorganization it caused, if any.
//
// This function MUST be called with the index lock held (for writes).
func (idx *Index) setTip(node *blockNode) *reorgNotification {
	oldTip := idx.tip()
	if node == oldTip {
		return nil
	}

	// Find the fork point and collect the nodes that are not yet part of
	// the active chain.
	var attach []*blockNode
	fork := node
	for !idx.contains(fork) {
		attach = append(attach, fork)
		fork = fork.parent
	}

	idx.bestChain = idx.bestChain[:fork.height+1]
	for i := len(attach) - 1; i >= 0; i-- {
		idx.bestChain = append(idx.bestChain, attach[i])
	}

	if fork == oldTip {
		return nil
	}
	handlers := make([]ReorgHandler, len(idx.handlers))
	copy(handlers, idx.handlers)
	return &reorgNotification{
		oldTip:     oldTip.hash,
		newTip:     node.hash,
		forkHeight: fork.height,
		handlers:   handlers,
	}
}

// AddHeader adds the provided header to the index.  Its parent must already be
// known and its timestamp must be after the median time past of the parent.
// The active chain is switched to the branch of the header when that
// makes it longer, which may result in a reorganization.
//
// It returns whether or not the header became the tip of the active chain.
func (idx *Index) AddHeader(header *wire.BlockHeader) (bool, error) {
	idx.mtx.Lock()
	hash := header.BlockHash()
	if _, ok := idx.index[hash]; ok {
		idx.mtx.Unlock()
		str := fmt.Sprintf("block %s is already known", hash)
		return false, contextError(ErrDuplicateBlock, str)
	}
	parent, ok := idx.index[header.PrevBlock]
	if !ok {
		idx.mtx.Unlock()
		str := fmt.Sprintf("parent %s of block %s is not known",
			header.PrevBlock, hash)
		return false, contextError(ErrMissingParent, str)
	}
	if int64(header.Height) != parent.height+1 {
		idx.mtx.Unlock()
		str := fmt.Sprintf("block %s has height %d instead of %d", hash,
			header.Height, parent.height+1)
		return false, contextError(ErrBadHeight, str)
	}

	// Ensure the timestamp for the block header is after the median time of
	// the last several blocks (medianTimeBlocks).
	medianTime := parent.CalcPastMedianTime()
	if header.Timestamp.Unix() <= medianTime {
		idx.mtx.Unlock()
		str := fmt.Sprintf("block %s timestamp of %v is not after expected "+
			"%v", hash, header.Timestamp, time.Unix(medianTime, 0))
		return false, contextError(ErrTimeTooOld, str)
	}

	node := newBlockNode(header, parent)
	idx.index[hash] = node
	var reorg *reorgNotification
	isNewTip := node.height > idx.tip().height
	if isNewTip {
		reorg = idx.setTip(node)
	}
	idx.mtx.Unlock()

	reorg.notify()
	return isNewTip, nil
}

// SetBestTip forces the active chain to the branch that ends with the provided
// known block regardless of its length.
func (idx *Index) SetBestTip(hash *chainhash.Hash) error {
	idx.mtx.Lock()
	node, ok := idx.index[*hash]
	if !ok {
		idx.mtx.Unlock()
		return unknownBlockError(hash)
	}
	reorg := idx.setTip(node)
	idx.mtx.Unlock()

	reorg.notify()
	return nil
}

// Len returns the number of headers in the index.
func (idx *Index) Len() int {
	idx.mtx.RLock()
	defer idx.mtx.RUnlock()
	return len(idx.index)
}

// Tip returns the hash and height of the tip of the active chain.
func (idx *Index) Tip() (chainhash.Hash, int64) {
	idx.mtx.RLock()
	defer idx.mtx.RUnlock()
	tip := idx.tip()
	return tip.hash, tip.height
}

// Params returns the network parameters of the index.
func (idx *Index) Params() *chaincfg.Params {
	return idx.params
}

// lookup returns the node for the provided hash.
func (idx *Index) lookup(hash *chainhash.Hash) (*blockNode, error) {
	idx.mtx.RLock()
	node, ok := idx.index[*hash]
	idx.mtx.RUnlock()
	if !ok {
		return nil, unknownBlockError(hash)
	}
	return node, nil
}

// ActiveTip returns the hash of the tip of the active chain.
func (idx *Index) ActiveTip() chainhash.Hash {
	hash, _ := idx.Tip()
	return hash
}

// HeightOf returns the height of the provided block.
func (idx *Index) HeightOf(hash *chainhash.Hash) (int64, error) {
	node, err := idx.lookup(hash)
	if err != nil {
		return 0, err
	}
	return node.height, nil
}

// AncestorAt returns the hash of the ancestor of the provided block at the
// given height.
func (idx *Index) AncestorAt(hash *chainhash.Hash, height int64) (chainhash.Hash, error) {
	node, err := idx.lookup(hash)
	if err != nil {
		return chainhash.Hash{}, err
	}
	ancestor := node.Ancestor(height)
	if ancestor == nil {
		str := fmt.Sprintf("block %s at height %d does not have an ancestor "+
			"at height %d", hash, node.height, height)
		return chainhash.Hash{}, contextError(ErrInvalidAncestorHeight, str)
	}
	return ancestor.hash, nil
}

// VersionOf returns the version of the provided block.
func (idx *Index) VersionOf(hash *chainhash.Hash) (uint32, error) {
	node, err := idx.lookup(hash)
	if err != nil {
		return 0, err
	}
	return node.version, nil
}

// MedianTimePast returns the median timestamp of the provided block and up to
// ten of its ancestors.
func (idx *Index) MedianTimePast(hash *chainhash.Hash) (int64, error) {
	node, err := idx.lookup(hash)
	if err != nil {
		return 0, err
	}
	return node.CalcPastMedianTime(), nil
}

// IsOnActiveChain returns whether or not the provided block is part of the
// active chain.
func (idx *Index) IsOnActiveChain(hash *chainhash.Hash) bool {
	idx.mtx.RLock()
	defer idx.mtx.RUnlock()
	node, ok := idx.index[*hash]
	return ok && idx.contains(node)
}

// BlockAt returns the hash of the block of the active chain at the provided
// height.
func (idx *Index) BlockAt(height int64) (chainhash.Hash, error) {
	idx.mtx.RLock()
	defer idx.mtx.RUnlock()
	if height < 0 || height >= int64(len(idx.bestChain)) {
		str := fmt.Sprintf("active chain does not have a block at height %d",
			height)
		return chainhash.Hash{}, contextError(ErrInvalidAncestorHeight, str)
	}
	return idx.bestChain[height].hash, nil
}
