// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2015-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/vbits/vbitsd/internal/versionbits"
)

// StateSource represents a source of deployment activation states.
//
// The interface contract requires that all of these methods are safe for
// concurrent access with respect to the source.
type StateSource interface {
	// NextStates returns the activation records of all deployments for
	// the block after the provided one in ascending bit order.
	NextStates(prevHash *chainhash.Hash) ([]versionbits.DeploymentState, error)
}
