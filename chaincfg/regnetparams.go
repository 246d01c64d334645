// Copyright (c) 2018-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"fmt"
	"time"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/wire"
)

// regNetGenesisTime is the timestamp of the regression test network genesis
// block.  The regression deployments are defined relative to it.
const regNetGenesisTime = 1296688602

// regNetStartTime is the start time shared by the regression deployments
// that do not start at genesis.
const regNetStartTime = regNetGenesisTime + 30

// regNetGrace defines the grace conditions of the regression deployments that
// exercise the minimum locked blocks and time.
var regNetGrace = []struct {
	bit     uint8
	minBlks int64
	minTime int64
}{
	{8, 1, 0},
	{9, 5, 0},
	{10, 10, 0},
	{11, 11, 0},
	{12, 0, 1},
	{13, 0, 5},
	{14, 0, 9},
	{15, 0, 10},
	{16, 0, 11},
	{17, 0, 15},
	{18, 10, 10},
	{19, 10, 19},
	{20, 10, 20},
	{21, 20, 21},
	{22, 21, 20},
}

// regNetDeployments returns the deployments of the regression test network.
// They cover multiple window sizes, the full range of thresholds for a single
// window size, grace periods and timeouts.
func regNetDeployments() []Deployment {
	name := func(bit uint8) string {
		return fmt.Sprintf("bip135test%d", bit)
	}

	deployments := []Deployment{{
		Bit:         0,
		Name:        name(0),
		Description: "Always started deployment with a 144 block window",
		StartTime:   0,
		Timeout:     NoTimeout,
		WindowSize:  144,
		Threshold:   108,
		GBTForce:    true,
	}, {
		Bit:         1,
		Name:        name(1),
		Description: "Deployment with a 144 block window",
		StartTime:   regNetStartTime,
		Timeout:     NoTimeout,
		WindowSize:  144,
		Threshold:   108,
		GBTForce:    true,
	}}

	// Bits 2 through 7 use a 100 block window with increasing thresholds.
	thresholds := []uint32{1, 10, 75, 95, 99, 100}
	for i, threshold := range thresholds {
		bit := uint8(i + 2)
		deployments = append(deployments, Deployment{
			Bit:  bit,
			Name: name(bit),
			Description: fmt.Sprintf("Deployment requiring %d of 100 "+
				"blocks", threshold),
			StartTime:  regNetStartTime,
			Timeout:    NoTimeout,
			WindowSize: 100,
			Threshold:  threshold,
			GBTForce:   true,
		})
	}

	for _, g := range regNetGrace {
		deployments = append(deployments, Deployment{
			Bit:  g.bit,
			Name: name(g.bit),
			Description: fmt.Sprintf("Deployment with a grace period of "+
				"%d blocks and %d seconds", g.minBlks, g.minTime),
			StartTime:       regNetStartTime,
			Timeout:         NoTimeout,
			WindowSize:      10,
			Threshold:       9,
			MinLockedBlocks: g.minBlks,
			MinLockedTime:   g.minTime,
			GBTForce:        true,
		})
	}

	// Bits 23 and 24 time out shortly after they start.  Only the latter
	// can be locked in by 8 signalling blocks.
	deployments = append(deployments, Deployment{
		Bit:             23,
		Name:            name(23),
		Description:     "Deployment that times out before locking in",
		StartTime:       regNetStartTime,
		Timeout:         regNetStartTime + 50,
		WindowSize:      10,
		Threshold:       9,
		MinLockedBlocks: 5,
		GBTForce:        true,
	}, Deployment{
		Bit:             24,
		Name:            name(24),
		Description:     "Deployment that locks in before timing out",
		StartTime:       regNetStartTime,
		Timeout:         regNetStartTime + 50,
		WindowSize:      10,
		Threshold:       8,
		MinLockedBlocks: 5,
		GBTForce:        true,
	})

	return deployments
}

// RegNetParams returns the network parameters for the regression test network.
// The network is primarily intended for unit tests and the regression suites
// which mine blocks one second apart starting at the genesis time.
//
// Since this network is only intended for testing, its values are subject to
// change even if it would cause a chain split.
func RegNetParams() *Params {
	return newParams(&Params{
		Name: "regnet",
		GenesisHeader: wire.BlockHeader{
			Version:   1,
			PrevBlock: chainhash.Hash{}, // All zero.
			Bits:      0x207fffff,
			Height:    0,
			Timestamp: time.Unix(regNetGenesisTime, 0), // 2011-02-02 23:16:42 +0000 UTC
		},
		TargetTimePerBlock:   time.Second,
		VersionBitsOrigin:    0,
		UnknownBitsWindow:    100,
		UnknownBitsThreshold: 50,
		Deployments:          regNetDeployments(),
	})
}
