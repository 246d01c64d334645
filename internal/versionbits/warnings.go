// Copyright (c) 2016-2017 The btcsuite developers
// Copyright (c) 2017-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package versionbits

import (
	"sync"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

// UnknownBitsAlert is invoked when the number of recent blocks that signal for
// unknown deployments reaches the alert threshold.  The already triggered flag
// is set for every invocation after the first.
type UnknownBitsAlert func(count, window uint32, alreadyTriggered bool)

// UnknownBitsResult describes the outcome of a single unknown bits check.
type UnknownBitsResult struct {
	// Unexpected is the number of blocks that carried bits of no started
	// or locked in deployment.
	Unexpected uint32

	// Window is the number of blocks examined.
	Window uint32

	// LatestVersion is the version of the most recent block that carried
	// unexpected bits and LatestExpected is the version it was expected to
	// have.  Both are zero when no unexpected bits were found.
	LatestVersion  uint32
	LatestExpected uint32
}

// UnknownBitsWarner examines the most recent blocks of the active chain for
// blocks that carry the version bits marker along with bits that no started
// or locked in deployment uses.  This typically means a deployment unknown to
// this software is about to activate.
type UnknownBitsWarner struct {
	calc      *Calculator
	window    uint32
	threshold uint32
	alert     UnknownBitsAlert

	mtx       sync.Mutex
	triggered bool
}

// NewUnknownBitsWarner returns a warner that examines the provided number of
// recent blocks and invokes the alert, which may be nil, once the number of
// blocks with unknown bits reaches the threshold.
func NewUnknownBitsWarner(calc *Calculator, window, threshold uint32, alert UnknownBitsAlert) *UnknownBitsWarner {
	return &UnknownBitsWarner{
		calc:      calc,
		window:    window,
		threshold: threshold,
		alert:     alert,
	}
}

// Check examines the window of blocks that ends with the provided block.  No
// blocks are examined until the chain is at least as long as the window.
//
// This function is safe for concurrent access.
func (w *UnknownBitsWarner) Check(tipHash *chainhash.Hash) (*UnknownBitsResult, error) {
	w.mtx.Lock()
	defer w.mtx.Unlock()

	c := w.calc
	c.cacheLock.RLock()
	result, err := w.countUnexpected(tipHash)
	c.cacheLock.RUnlock()
	if err != nil {
		return nil, err
	}

	if result.Unexpected == 0 {
		return result, nil
	}
	log.Warnf("%d of last %d blocks have unexpected versions (latest %08x, "+
		"expected %08x)", result.Unexpected, result.Window,
		result.LatestVersion, result.LatestExpected)
	if result.Unexpected >= w.threshold {
		if !w.triggered {
			log.Warnf("Unknown new rules are about to activate or have " +
				"already activated")
		}
		if w.alert != nil {
			w.alert(result.Unexpected, result.Window, w.triggered)
		}
		w.triggered = true
	}
	return result, nil
}

// countUnexpected counts the blocks in the window ending with the provided
// block that carry unexpected bits.
//
// This function MUST be called with the calculator cache lock held (for
// reads).
func (w *UnknownBitsWarner) countUnexpected(tipHash *chainhash.Hash) (*UnknownBitsResult, error) {
	c := w.calc
	result := &UnknownBitsResult{}
	tipHeight, err := c.checkActiveBlock(tipHash)
	if err != nil {
		return nil, err
	}
	if w.window == 0 || tipHeight < int64(w.window) {
		return result, nil
	}

	result.Window = w.window
	hash := *tipHash
	for height := tipHeight; height > tipHeight-int64(w.window); height-- {
		if height != tipHeight {
			hash, err = c.chain.AncestorAt(&hash, height)
			if err != nil {
				return nil, err
			}
		}
		version, err := c.chain.VersionOf(&hash)
		if err != nil {
			return nil, err
		}
		if !HasVersionBitsMarker(version) {
			continue
		}

		prevHash, err := c.chain.AncestorAt(&hash, height-1)
		if err != nil {
			return nil, err
		}
		expected, err := c.expectedVersion(&prevHash, height-1)
		if err != nil {
			return nil, err
		}
		if version&^expected == 0 {
			continue
		}
		if result.Unexpected == 0 {
			result.LatestVersion = version
			result.LatestExpected = expected
		}
		result.Unexpected++
	}
	return result, nil
}
