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

// MainNetParams returns the network parameters for the main network.
func MainNetParams() *Params {
	return newParams(&Params{
		Name: "mainnet",
		GenesisHeader: wire.BlockHeader{
			Version:   1,
			PrevBlock: chainhash.Hash{}, // All zero.
			Bits:      0x1d00ffff,
			Height:    0,
			Timestamp: time.Unix(1231006505, 0), // 2009-01-03 18:15:05 +0000 UTC
			Nonce:     0x7c2bac1d,
		},
		TargetTimePerBlock:   time.Minute * 10,
		VersionBitsOrigin:    0,
		UnknownBitsWindow:    100,
		UnknownBitsThreshold: 50,
		Deployments: []Deployment{{
			Bit:         0,
			Name:        "csv",
			Description: "Relative lock-time using consensus-enforced sequence numbers",
			StartTime:   1462060800, // May 1st, 2016
			Timeout:     1493596800, // May 1st, 2017
			WindowSize:  2016,
			Threshold:   1916, // 95% of 2016
			GBTForce:    true,
		}, {
			Bit:             2,
			Name:            "satoshisvision",
			Description:     "Restore disabled opcodes and raise the block size limit",
			StartTime:       1509494400, // November 1st, 2017
			Timeout:         1541030400, // November 1st, 2018
			WindowSize:      2016,
			Threshold:       1512, // 75% of 2016
			MinLockedBlocks: 2016,
			MinLockedTime:   60 * 60 * 24 * 14, // Two weeks
		}},
	})
}
