// Copyright (c) 2016 The btcsuite developers
// Copyright (c) 2017-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package versionbits

import (
	"encoding/binary"
	"sort"
	"sync"
	"testing"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/vbits/vbitsd/chaincfg"
)

// testGenesisTime is the timestamp of the genesis block of the fake chains
// used throughout the tests.
const testGenesisTime = 1296688602

// fakeNode is a block header in a fake chain.
type fakeNode struct {
	hash      chainhash.Hash
	parent    *fakeNode
	height    int64
	version   uint32
	timestamp int64
}

// fakeChain is an in-memory chain view that allows arbitrary branches to be
// created and the active chain to be switched between them.
type fakeChain struct {
	mtx    sync.RWMutex
	nodes  map[chainhash.Hash]*fakeNode
	active []*fakeNode
	nonce  uint64
}

// newFakeChain returns a fake chain that only consists of a genesis block
// with the test genesis time.
func newFakeChain() *fakeChain {
	genesis := &fakeNode{version: 1, timestamp: testGenesisTime}
	genesis.hash = chainhash.HashH([]byte("genesis"))
	return &fakeChain{
		nodes:  map[chainhash.Hash]*fakeNode{genesis.hash: genesis},
		active: []*fakeNode{genesis},
	}
}

// tip returns the tip node of the active chain.
func (c *fakeChain) tip() *fakeNode {
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	return c.active[len(c.active)-1]
}

// nodeAt returns the node of the active chain at the provided height.
func (c *fakeChain) nodeAt(height int64) *fakeNode {
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	return c.active[height]
}

// extend adds a new node with the provided version to the given parent one
// second after it without changing the active chain.
func (c *fakeChain) extend(parent *fakeNode, version uint32) *fakeNode {
	return c.extendAt(parent, version, parent.timestamp+1)
}

// extendAt adds a new node with the provided version and timestamp to the
// given parent without changing the active chain.
func (c *fakeChain) extendAt(parent *fakeNode, version uint32, timestamp int64) *fakeNode {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	c.nonce++
	var buf [chainhash.HashSize + 20]byte
	copy(buf[:], parent.hash[:])
	binary.LittleEndian.PutUint32(buf[chainhash.HashSize:], version)
	binary.LittleEndian.PutUint64(buf[chainhash.HashSize+4:], uint64(parent.height+1))
	binary.LittleEndian.PutUint64(buf[chainhash.HashSize+12:], c.nonce)
	node := &fakeNode{
		hash:      chainhash.HashH(buf[:]),
		parent:    parent,
		height:    parent.height + 1,
		version:   version,
		timestamp: timestamp,
	}
	c.nodes[node.hash] = node
	return node
}

// setTip makes the branch that ends with the provided node the active chain.
func (c *fakeChain) setTip(node *fakeNode) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	active := make([]*fakeNode, node.height+1)
	for n := node; n != nil; n = n.parent {
		active[n.height] = n
	}
	c.active = active
}

// mine extends the active chain by the provided number of blocks with the
// given version.
func (c *fakeChain) mine(numBlocks int, version uint32) *fakeNode {
	tip := c.tip()
	for i := 0; i < numBlocks; i++ {
		tip = c.extend(tip, version)
		c.setTip(tip)
	}
	return tip
}

// mineTo extends the active chain with blocks of the given version until the
// tip is at the provided height.
func (c *fakeChain) mineTo(height int64, version uint32) *fakeNode {
	return c.mine(int(height-c.tip().height), version)
}

func (c *fakeChain) lookup(hash *chainhash.Hash) (*fakeNode, error) {
	c.mtx.RLock()
	node, ok := c.nodes[*hash]
	c.mtx.RUnlock()
	if !ok {
		return nil, unknownBlockError(hash)
	}
	return node, nil
}

// ActiveTip returns the hash of the tip of the active chain.
func (c *fakeChain) ActiveTip() chainhash.Hash {
	return c.tip().hash
}

// HeightOf returns the height of the provided block.
func (c *fakeChain) HeightOf(hash *chainhash.Hash) (int64, error) {
	node, err := c.lookup(hash)
	if err != nil {
		return 0, err
	}
	return node.height, nil
}

// AncestorAt returns the hash of the ancestor of the provided block at the
// given height.
func (c *fakeChain) AncestorAt(hash *chainhash.Hash, height int64) (chainhash.Hash, error) {
	node, err := c.lookup(hash)
	if err != nil {
		return chainhash.Hash{}, err
	}
	if height < 0 || height > node.height {
		return chainhash.Hash{}, unknownBlockError(hash)
	}
	for node.height > height {
		node = node.parent
	}
	return node.hash, nil
}

// VersionOf returns the version of the provided block.
func (c *fakeChain) VersionOf(hash *chainhash.Hash) (uint32, error) {
	node, err := c.lookup(hash)
	if err != nil {
		return 0, err
	}
	return node.version, nil
}

// MedianTimePast returns the median timestamp of the provided block and up to
// ten of its ancestors.
func (c *fakeChain) MedianTimePast(hash *chainhash.Hash) (int64, error) {
	node, err := c.lookup(hash)
	if err != nil {
		return 0, err
	}
	timestamps := make([]int64, 0, 11)
	for n := node; n != nil && len(timestamps) < 11; n = n.parent {
		timestamps = append(timestamps, n.timestamp)
	}
	sort.Slice(timestamps, func(i, j int) bool {
		return timestamps[i] < timestamps[j]
	})
	return timestamps[len(timestamps)/2], nil
}

// IsOnActiveChain returns whether or not the provided block is part of the
// active chain.
func (c *fakeChain) IsOnActiveChain(hash *chainhash.Hash) bool {
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	node, ok := c.nodes[*hash]
	if !ok || node.height >= int64(len(c.active)) {
		return false
	}
	return c.active[node.height] == node
}

// testDeployment returns a deployment with the provided parameters and no
// grace period or timeout.
func testDeployment(name string, bit uint8, window, threshold uint32, start int64) chaincfg.Deployment {
	return chaincfg.Deployment{
		Bit:        bit,
		Name:       name,
		StartTime:  start,
		Timeout:    chaincfg.NoTimeout,
		WindowSize: window,
		Threshold:  threshold,
	}
}

// newTestCalculator returns a calculator for the provided deployments aligned
// to height zero along with a new fake chain it calculates states for.
func newTestCalculator(t *testing.T, deployments ...chaincfg.Deployment) (*Calculator, *fakeChain) {
	t.Helper()

	registry, err := NewRegistry(0, deployments)
	if err != nil {
		t.Fatalf("unexpected registry error: %v", err)
	}
	chain := newFakeChain()
	calc := New(&Config{Registry: registry, Chain: chain})
	return calc, chain
}

// signalVersion returns a block version that signals for all provided bits.
func signalVersion(bits ...uint8) uint32 {
	version := TopBits
	for _, bit := range bits {
		version |= 1 << bit
	}
	return version
}

// mustNextState returns the next state of the named deployment for the
// provided block and fails the test on error.
func mustNextState(t *testing.T, calc *Calculator, node *fakeNode, name string) Record {
	t.Helper()

	rec, err := calc.NextState(&node.hash, name)
	if err != nil {
		t.Fatalf("NextState(%d, %s): unexpected error: %v", node.height,
			name, err)
	}
	return rec
}
