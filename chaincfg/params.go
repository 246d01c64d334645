// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2015-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"math"
	"time"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/wire"
)

// NoTimeout is the sentinel deployment timeout that indicates a deployment
// never expires.  A zero timeout is treated the same way.
const NoTimeout = math.MaxInt64

// Deployment defines a single version bits deployment.  Miners signal support
// for the deployment by setting its bit in the block version along with the
// fixed top bits marker.
type Deployment struct {
	// Bit is the bit of the block version used to signal for the
	// deployment.  It must be in the range [0, 28] since the top three bits
	// are reserved for the version bits marker.
	Bit uint8

	// Name is the unique identifier of the deployment.
	Name string

	// Description is a longer, human-readable description of what the
	// deployment changes.
	Description string

	// StartTime is the median block time after which signalling for the
	// deployment starts to be counted.
	StartTime int64

	// Timeout is the median block time after which the deployment fails
	// when it has not been locked in.  Zero or NoTimeout means the
	// deployment never times out.
	Timeout int64

	// WindowSize is the number of blocks in each signalling window.
	WindowSize uint32

	// Threshold is the number of blocks within a single window that must
	// signal for the deployment in order to lock it in.
	Threshold uint32

	// MinLockedBlocks is the minimum number of blocks that must elapse
	// after lock in before the deployment may become active.
	MinLockedBlocks int64

	// MinLockedTime is the minimum number of seconds of median time that
	// must elapse after lock in before the deployment may become active.
	MinLockedTime int64

	// GBTForce indicates block template clients may signal for and enforce
	// the deployment without explicitly advertising support for it.
	GBTForce bool
}

// HasTimeout returns whether or not the deployment can expire.
func (d *Deployment) HasTimeout() bool {
	return d.Timeout != 0 && d.Timeout != NoTimeout
}

// Mask returns the block version mask for the deployment bit.
func (d *Deployment) Mask() uint32 {
	return uint32(1) << d.Bit
}

// Params defines a network by its parameters.  Applications use the
// parameters to differentiate between networks and to look up the version
// bits deployments that are defined for them.
type Params struct {
	// Name defines a human-readable identifier for the network.  It is also
	// used as the name of the per-network data directory.
	Name string

	// GenesisHeader defines the header of the first block of the chain.
	GenesisHeader wire.BlockHeader

	// GenesisHash is the hash of the genesis header.
	GenesisHash chainhash.Hash

	// TargetTimePerBlock is the desired amount of time to generate each
	// block.
	TargetTimePerBlock time.Duration

	// VersionBitsOrigin is the height that deployment signalling windows
	// are aligned to.  A height h is the final block of a window when
	// (h - VersionBitsOrigin + 1) is a multiple of the window size.
	VersionBitsOrigin int64

	// UnknownBitsWindow is the number of recent blocks examined when
	// warning about blocks that signal for unknown deployments.
	UnknownBitsWindow uint32

	// UnknownBitsThreshold is the number of blocks within the unknown bits
	// window that must carry unexpected bits to trigger an alert.
	UnknownBitsThreshold uint32

	// Deployments defines the version bits deployments for the network.
	Deployments []Deployment
}

// newParams fills in the genesis hash of the provided parameters.
func newParams(params *Params) *Params {
	params.GenesisHash = params.GenesisHeader.BlockHash()
	return params
}
