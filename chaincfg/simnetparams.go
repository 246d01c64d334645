// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2015-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"time"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/wire"
)

// SimNetParams returns the network parameters for the simulation test network.
// This network is similar to the regression test network except it is
// intended for private use within a group of individuals doing simulation
// testing, so it only defines a single dummy deployment that may be freely
// signalled.
func SimNetParams() *Params {
	return newParams(&Params{
		Name: "simnet",
		GenesisHeader: wire.BlockHeader{
			Version:   1,
			PrevBlock: chainhash.Hash{}, // All zero.
			Bits:      0x207fffff,
			Height:    0,
			Timestamp: time.Unix(1401292357, 0), // 2014-05-28 15:52:37 +0000 UTC
		},
		TargetTimePerBlock:   time.Second,
		VersionBitsOrigin:    0,
		UnknownBitsWindow:    100,
		UnknownBitsThreshold: 50,
		Deployments: []Deployment{{
			Bit:             28,
			Name:            "testdummy",
			Description:     "Dummy deployment for simulation testing",
			StartTime:       0,
			Timeout:         NoTimeout,
			WindowSize:      144,
			Threshold:       108, // 75% of 144
			MinLockedBlocks: 144,
			MinLockedTime:   60 * 60,
			GBTForce:        true,
		}},
	})
}
