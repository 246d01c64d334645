// Copyright (c) 2016 The btcsuite developers
// Copyright (c) 2017-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package versionbits

import (
	"fmt"
	"sync"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/vbits/vbitsd/chaincfg"
	"golang.org/x/sync/errgroup"
)

// Config is a descriptor which specifies the calculator instance
// configuration.
type Config struct {
	// Registry defines the deployments to calculate activation states for.
	//
	// This field is required.
	Registry *Registry

	// Chain provides access to the headers of the chain.
	//
	// This field is required.
	Chain ChainView

	// CacheSize is the maximum number of window boundary records cached per
	// deployment.  DefaultCacheSize is used when it is zero.
	CacheSize uint32
}

// Calculator calculates the activation state of version bits deployments for
// blocks of a chain view and caches the results at window boundaries.  It is
// safe for concurrent access.
type Calculator struct {
	registry *Registry
	chain    ChainView

	// cacheLock protects the caches.  Queries take the read side of the
	// lock so they may run concurrently with each other, while reorg
	// invalidation and purges take the write side.
	//
	// The lru map is internally synchronized, so concurrent queries may
	// safely update the caches while holding the read side.
	cacheLock sync.RWMutex
	caches    map[string]*thresholdStateCache
}

// New returns a calculator instance with the provided configuration.
func New(cfg *Config) *Calculator {
	cacheSize := cfg.CacheSize
	if cacheSize == 0 {
		cacheSize = DefaultCacheSize
	}

	caches := make(map[string]*thresholdStateCache, cfg.Registry.Len())
	for _, d := range cfg.Registry.deployments {
		caches[d.Name] = newThresholdStateCache(cacheSize)
	}
	return &Calculator{
		registry: cfg.Registry,
		chain:    cfg.Chain,
		caches:   caches,
	}
}

// Registry returns the deployment registry used by the calculator.
func (c *Calculator) Registry() *Registry {
	return c.registry
}

// DeploymentState pairs a deployment with its activation record.
type DeploymentState struct {
	Deployment *chaincfg.Deployment
	Record     Record
}

// boundaryBlock houses the details of a window boundary block that are needed
// to calculate the state transition at it.
type boundaryBlock struct {
	hash       chainhash.Hash
	height     int64
	medianTime int64
}

// windowBoundary returns the height of the final block of the latest window
// that ends at or before the provided height.  The height must not be less
// than the height of the final block of the first window.
func windowBoundary(origin, window, height int64) int64 {
	return height - ((height - origin + 1) % window)
}

// nextWindowBoundary returns the height of the final block of the window that
// contains the provided height.
func nextWindowBoundary(origin, window, height int64) int64 {
	first := origin + window - 1
	if height <= first {
		return first
	}
	return windowBoundary(origin, window, height-1) + window
}

// checkActiveBlock returns the height of the provided block when it is part of
// the active chain and an ErrUnknownBlock error otherwise.
func (c *Calculator) checkActiveBlock(hash *chainhash.Hash) (int64, error) {
	if !c.chain.IsOnActiveChain(hash) {
		return 0, unknownBlockError(hash)
	}
	return c.chain.HeightOf(hash)
}

// countSignals returns the number of blocks in the window that ends with the
// provided boundary block which signal for the deployment.  Counting stops
// early once the outcome relative to the threshold is known.
func (c *Calculator) countSignals(b *boundaryBlock, d *chaincfg.Deployment) (uint32, error) {
	window := int64(d.WindowSize)
	hash := b.hash
	var count uint32
	for i := int64(0); i < window; i++ {
		version, err := c.chain.VersionOf(&hash)
		if err != nil {
			return 0, err
		}
		if IsSignaling(version, d.Bit) {
			count++
			if count >= d.Threshold {
				break
			}
		}

		// Not enough blocks remain to reach the threshold.
		remaining := window - i - 1
		if int64(count)+remaining < int64(d.Threshold) {
			break
		}
		if remaining == 0 {
			break
		}
		hash, err = c.chain.AncestorAt(&hash, b.height-i-1)
		if err != nil {
			return 0, err
		}
	}
	return count, nil
}

// transition returns the record that results from applying the state
// transition rules at the provided boundary block to the record of the prior
// window.
func (c *Calculator) transition(prev Record, b *boundaryBlock, d *chaincfg.Deployment) (Record, error) {
	switch prev.State {
	case ThresholdDefined:
		// The deployment moves to started once the median time of the
		// boundary reaches the start time.
		if b.medianTime >= d.StartTime {
			return newRecord(ThresholdStarted), nil
		}

	case ThresholdStarted:
		// The deployment locks in when enough blocks in the window
		// signalled for it.  Lock in takes precedence over a timeout at the
		// same boundary.
		count, err := c.countSignals(b, d)
		if err != nil {
			return Record{}, err
		}
		if count >= d.Threshold {
			return lockedInRecord(b.height, b.medianTime), nil
		}
		if d.HasTimeout() && b.medianTime >= d.Timeout {
			return newRecord(ThresholdFailed), nil
		}

	case ThresholdLockedIn:
		// The deployment becomes active once both grace conditions are
		// met.
		lockIn := prev.LockIn
		if b.height-lockIn.Height >= d.MinLockedBlocks &&
			b.medianTime-lockIn.Time >= d.MinLockedTime {

			return Record{State: ThresholdActive, LockIn: lockIn}, nil
		}

	case ThresholdActive, ThresholdFailed:
		// Nothing to do if the state is terminal.
	}

	return prev, nil
}

// nextThresholdState returns the activation record of the provided deployment
// for the block after the given one.
//
// The state only changes at window boundaries, so this walks backwards one
// window at a time until it finds a boundary whose record is cached, a
// boundary prior to the deployment start time, or the first window.  It then
// walks forwards applying the transition rules at every boundary it passed
// and caches the results.
//
// This function MUST be called with the cache lock held (for reads).
func (c *Calculator) nextThresholdState(prevHash *chainhash.Hash, prevHeight int64, d *chaincfg.Deployment) (Record, error) {
	origin := c.registry.origin
	window := int64(d.WindowSize)
	firstBoundary := origin + window - 1

	// The state is defined for all blocks in or before the first window.
	if prevHeight < firstBoundary {
		return newRecord(ThresholdDefined), nil
	}

	cache := c.caches[d.Name]
	height := windowBoundary(origin, window, prevHeight)
	hash, err := c.chain.AncestorAt(prevHash, height)
	if err != nil {
		return Record{}, err
	}

	// Iterate backwards through each of the previous window boundaries until
	// a state is known.  The record of the first known boundary is captured
	// here since it may be evicted from the cache by the time it is needed.
	var neededBoundaries []boundaryBlock
	rec := newRecord(ThresholdDefined)
	for {
		if entry, ok := cache.Lookup(hash); ok {
			if entry.height != height {
				str := fmt.Sprintf("cached record for deployment %q at "+
					"block %s has height %d instead of %d", d.Name, hash,
					entry.height, height)
				log.Criticalf("Inconsistent activation state cache: %s", str)
				return Record{}, contextError(ErrInconsistentCache, str)
			}
			rec = entry.record
			break
		}

		medianTime, err := c.chain.MedianTimePast(&hash)
		if err != nil {
			return Record{}, err
		}

		// The state is simply defined if the start time hasn't been
		// reached yet.
		if medianTime < d.StartTime {
			cache.Update(hash, height, rec)
			break
		}

		neededBoundaries = append(neededBoundaries, boundaryBlock{
			hash:       hash,
			height:     height,
			medianTime: medianTime,
		})

		// The previous window boundary does not exist for the first
		// window, so the state of the prior window is defined.
		height -= window
		if height < firstBoundary {
			break
		}
		hash, err = c.chain.AncestorAt(&hash, height)
		if err != nil {
			return Record{}, err
		}
	}

	// Since each window boundary is only added to the list when the state
	// is not already known, iterate through them in reverse order to apply
	// the transitions from the oldest to the newest.
	for i := len(neededBoundaries) - 1; i >= 0; i-- {
		b := &neededBoundaries[i]
		next, err := c.transition(rec, b, d)
		if err != nil {
			return Record{}, err
		}
		if next.State != rec.State {
			log.Debugf("Deployment %s transitioned from %v to %v at height "+
				"%d", d.Name, rec.State.StatusString(),
				next.State.StatusString(), b.height)
		}
		rec = next
		cache.Update(b.hash, b.height, rec)
	}

	return rec, nil
}

// NextState returns the activation record of the named deployment for the
// block after the provided one.  In other words, it returns the state that a
// new block building on the provided block would have.
//
// This function is safe for concurrent access.
func (c *Calculator) NextState(prevHash *chainhash.Hash, name string) (Record, error) {
	d, err := c.registry.Lookup(name)
	if err != nil {
		return Record{}, err
	}

	c.cacheLock.RLock()
	defer c.cacheLock.RUnlock()

	prevHeight, err := c.checkActiveBlock(prevHash)
	if err != nil {
		return Record{}, err
	}
	return c.nextThresholdState(prevHash, prevHeight, d)
}

// stateOf returns the activation record of the deployment for the provided
// block.
//
// This function MUST be called with the cache lock held (for reads).
func (c *Calculator) stateOf(hash *chainhash.Hash, height int64, d *chaincfg.Deployment) (Record, error) {
	// The genesis block is defined for all deployments.
	if height == 0 {
		return newRecord(ThresholdDefined), nil
	}
	prevHash, err := c.chain.AncestorAt(hash, height-1)
	if err != nil {
		return Record{}, err
	}
	return c.nextThresholdState(&prevHash, height-1, d)
}

// State returns the activation record of the named deployment for the
// provided block.
//
// This function is safe for concurrent access.
func (c *Calculator) State(hash *chainhash.Hash, name string) (Record, error) {
	d, err := c.registry.Lookup(name)
	if err != nil {
		return Record{}, err
	}

	c.cacheLock.RLock()
	defer c.cacheLock.RUnlock()

	height, err := c.checkActiveBlock(hash)
	if err != nil {
		return Record{}, err
	}
	return c.stateOf(hash, height, d)
}

// nextStates returns the activation records of all deployments for the block
// after the provided one in ascending bit order.  The deployments are
// evaluated concurrently.
//
// This function MUST be called with the cache lock held (for reads).
func (c *Calculator) nextStates(prevHash *chainhash.Hash, prevHeight int64) ([]DeploymentState, error) {
	deployments := c.registry.deployments
	states := make([]DeploymentState, len(deployments))
	var g errgroup.Group
	for i := range deployments {
		i := i
		g.Go(func() error {
			d := &deployments[i]
			rec, err := c.nextThresholdState(prevHash, prevHeight, d)
			if err != nil {
				return err
			}
			states[i] = DeploymentState{Deployment: d, Record: rec}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return states, nil
}

// NextStates returns the activation records of all deployments for the block
// after the provided one in ascending bit order.
//
// This function is safe for concurrent access.
func (c *Calculator) NextStates(prevHash *chainhash.Hash) ([]DeploymentState, error) {
	c.cacheLock.RLock()
	defer c.cacheLock.RUnlock()

	prevHeight, err := c.checkActiveBlock(prevHash)
	if err != nil {
		return nil, err
	}
	return c.nextStates(prevHash, prevHeight)
}

// stateLastChanged returns the height of the first block of the window in
// which the state of the deployment for the block at height prevHeight+1
// began.  Zero is returned when the state has never changed.
//
// This function MUST be called with the cache lock held (for reads).
func (c *Calculator) stateLastChanged(prevHash *chainhash.Hash, prevHeight int64, d *chaincfg.Deployment) (int64, error) {
	origin := c.registry.origin
	window := int64(d.WindowSize)
	height := prevHeight + 1

	// The state of all blocks in or before the first window is defined and
	// can't have changed.
	if height < origin+window {
		return 0, nil
	}

	// stateOfWindow returns the state of the blocks in the nth window after
	// the window that starts at the origin.
	stateOfWindow := func(n int64) (ThresholdState, error) {
		if n == 0 {
			return ThresholdDefined, nil
		}
		boundary := origin + n*window - 1
		hash, err := c.chain.AncestorAt(prevHash, boundary)
		if err != nil {
			return ThresholdInvalid, err
		}
		rec, err := c.nextThresholdState(&hash, boundary, d)
		if err != nil {
			return ThresholdInvalid, err
		}
		return rec.State, nil
	}

	n := (height - origin) / window
	curState, err := stateOfWindow(n)
	if err != nil {
		return 0, err
	}
	for ; n > 0; n-- {
		state, err := stateOfWindow(n - 1)
		if err != nil {
			return 0, err
		}
		if state != curState {
			return origin + n*window, nil
		}
	}
	return 0, nil
}

// StateLastChanged returns the height of the first block of the window in
// which the current state of the named deployment for the provided block
// began.  Zero is returned when the state has never changed.
//
// This function is safe for concurrent access.
func (c *Calculator) StateLastChanged(hash *chainhash.Hash, name string) (int64, error) {
	d, err := c.registry.Lookup(name)
	if err != nil {
		return 0, err
	}

	c.cacheLock.RLock()
	defer c.cacheLock.RUnlock()

	height, err := c.checkActiveBlock(hash)
	if err != nil {
		return 0, err
	}
	if height == 0 {
		return 0, nil
	}
	prevHash, err := c.chain.AncestorAt(hash, height-1)
	if err != nil {
		return 0, err
	}
	return c.stateLastChanged(&prevHash, height-1, d)
}

// IsBitSignaling returns whether or not the provided block signals for the
// deployment that uses the given bit.
//
// This function is safe for concurrent access.
func (c *Calculator) IsBitSignaling(hash *chainhash.Hash, bit uint8) (bool, error) {
	if _, err := c.registry.LookupBit(bit); err != nil {
		return false, err
	}
	if _, err := c.checkActiveBlock(hash); err != nil {
		return false, err
	}
	version, err := c.chain.VersionOf(hash)
	if err != nil {
		return false, err
	}
	return IsSignaling(version, bit), nil
}

// expectedVersion returns the block version a block after the provided one is
// expected to have given the deployments that are started or locked in.
//
// This function MUST be called with the cache lock held (for reads).
func (c *Calculator) expectedVersion(prevHash *chainhash.Hash, prevHeight int64) (uint32, error) {
	states, err := c.nextStates(prevHash, prevHeight)
	if err != nil {
		return 0, err
	}
	version := TopBits
	for _, state := range states {
		switch state.Record.State {
		case ThresholdStarted, ThresholdLockedIn:
			version |= state.Deployment.Mask()
		}
	}
	return version, nil
}

// ExpectedVersion returns the block version a block after the provided one is
// expected to have.  It carries the version bits marker along with the bits
// of all deployments that are started or locked in.
//
// This function is safe for concurrent access.
func (c *Calculator) ExpectedVersion(prevHash *chainhash.Hash) (uint32, error) {
	c.cacheLock.RLock()
	defer c.cacheLock.RUnlock()

	prevHeight, err := c.checkActiveBlock(prevHash)
	if err != nil {
		return 0, err
	}
	return c.expectedVersion(prevHash, prevHeight)
}

// HandleReorg invalidates the cached records of all boundary blocks above the
// provided fork height.  It must be called whenever the active chain switches
// to another branch.  The signature allows it to be used directly as a reorg
// notification handler.
//
// This function is safe for concurrent access.
func (c *Calculator) HandleReorg(oldTip, newTip chainhash.Hash, forkHeight int64) {
	c.cacheLock.Lock()
	var purged int
	for _, cache := range c.caches {
		purged += cache.PurgeAbove(forkHeight)
	}
	c.cacheLock.Unlock()

	log.Debugf("Reorganize from %s to %s (fork height %d) invalidated %d "+
		"cached activation records", oldTip, newTip, forkHeight, purged)
}

// Purge removes all cached records.  Subsequent queries recompute the states
// from the chain view.
//
// This function is safe for concurrent access.
func (c *Calculator) Purge() {
	c.cacheLock.Lock()
	for _, cache := range c.caches {
		cache.Clear()
	}
	c.cacheLock.Unlock()
}

// cachedEntries returns the total number of cached records.
func (c *Calculator) cachedEntries() int {
	c.cacheLock.RLock()
	defer c.cacheLock.RUnlock()

	var n int
	for _, cache := range c.caches {
		n += cache.Len()
	}
	return n
}
