// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package versionbits

import (
	"github.com/decred/dcrd/chaincfg/chainhash"
)

// DeploymentStatus describes the activation status of a deployment for the
// block after a given chain tip.
type DeploymentStatus struct {
	Bit             uint8  `json:"bit"`
	Status          string `json:"status"`
	LockInHeight    *int64 `json:"lockinheight,omitempty"`
	LockInTime      *int64 `json:"lockintime,omitempty"`
	Since           int64  `json:"since"`
	NextBoundary    int64  `json:"nextboundary"`
	StartTime       int64  `json:"starttime"`
	Timeout         int64  `json:"timeout"`
	WindowSize      uint32 `json:"windowsize"`
	Threshold       uint32 `json:"threshold"`
	MinLockedBlocks int64  `json:"minlockedblocks"`
	MinLockedTime   int64  `json:"minlockedtime"`
}

// StatusReportAt returns the status of every deployment for the block after
// the provided one keyed by deployment name.
//
// This function is safe for concurrent access.
func (c *Calculator) StatusReportAt(tipHash *chainhash.Hash) (map[string]DeploymentStatus, error) {
	c.cacheLock.RLock()
	defer c.cacheLock.RUnlock()

	tipHeight, err := c.checkActiveBlock(tipHash)
	if err != nil {
		return nil, err
	}
	states, err := c.nextStates(tipHash, tipHeight)
	if err != nil {
		return nil, err
	}

	origin := c.registry.origin
	report := make(map[string]DeploymentStatus, len(states))
	for _, state := range states {
		d := state.Deployment
		since, err := c.stateLastChanged(tipHash, tipHeight, d)
		if err != nil {
			return nil, err
		}
		status := DeploymentStatus{
			Bit:             d.Bit,
			Status:          state.Record.State.StatusString(),
			Since:           since,
			NextBoundary:    nextWindowBoundary(origin, int64(d.WindowSize), tipHeight+1),
			StartTime:       d.StartTime,
			Timeout:         d.Timeout,
			WindowSize:      d.WindowSize,
			Threshold:       d.Threshold,
			MinLockedBlocks: d.MinLockedBlocks,
			MinLockedTime:   d.MinLockedTime,
		}
		if lockIn := state.Record.LockIn; lockIn != nil {
			height, time := lockIn.Height, lockIn.Time
			status.LockInHeight = &height
			status.LockInTime = &time
		}
		report[d.Name] = status
	}
	return report, nil
}

// StatusReport returns the status of every deployment for the block after the
// current tip of the active chain keyed by deployment name.
//
// This function is safe for concurrent access.
func (c *Calculator) StatusReport() (map[string]DeploymentStatus, error) {
	tip := c.chain.ActiveTip()
	return c.StatusReportAt(&tip)
}
