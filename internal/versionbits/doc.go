// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package versionbits implements the activation state machine for version bits
deployments with grace periods.

Each deployment is signalled for by setting a bit of the block version along
with the fixed version bits marker in the top three bits.  The state of a
deployment only changes at window boundaries, where a window boundary is a
block whose height h satisfies (h - origin + 1) % windowSize == 0.  The
deployments of a registry may use different window sizes, however all of
them share the same origin.

The possible states and transitions at each boundary are:

	defined   -> started    once the boundary median time reaches the start time
	started   -> locked_in  once the threshold of the window signalled
	started   -> failed     once the boundary median time reaches the timeout
	locked_in -> active     once both the minimum locked blocks and time elapsed

A window that meets the threshold locks the deployment in even when the timeout
is reached at the same boundary.  The active and failed states are final.

The Calculator caches the record of every boundary block it computes keyed by
block hash, so the cache remains valid across reorganizations.  The entries
above a fork point are nevertheless removed via HandleReorg to bound the cache
to the active chain.
*/
package versionbits
