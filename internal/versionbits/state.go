// Copyright (c) 2016 The btcsuite developers
// Copyright (c) 2017-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package versionbits

import (
	"fmt"
)

// ThresholdState define the various threshold states used when signalling for
// version bits deployments.
type ThresholdState byte

// These constants are used to identify specific threshold states.
const (
	// ThresholdInvalid is an invalid state and exists for use as the zero value
	// in error paths.
	ThresholdInvalid ThresholdState = iota

	// ThresholdDefined is the initial state for each deployment and is the
	// state for the genesis block has by definition for all deployments.
	ThresholdDefined

	// ThresholdStarted is the state for a deployment once its start time has
	// been reached.
	ThresholdStarted

	// ThresholdLockedIn is the state for a deployment during the windows
	// after a window in which the number of blocks signalling for the
	// deployment met its threshold and until its grace period has elapsed.
	ThresholdLockedIn

	// ThresholdActive is the state for a deployment for all blocks after the
	// first window boundary at which its grace period has elapsed.
	ThresholdActive

	// ThresholdFailed is the state for a deployment once its timeout has been
	// reached and it did not reach the ThresholdLockedIn state.
	ThresholdFailed
)

// thresholdStateStrings is a map of ThresholdState values back to their
// constant names for pretty printing.
var thresholdStateStrings = map[ThresholdState]string{
	ThresholdInvalid:  "ThresholdInvalid",
	ThresholdDefined:  "ThresholdDefined",
	ThresholdStarted:  "ThresholdStarted",
	ThresholdLockedIn: "ThresholdLockedIn",
	ThresholdActive:   "ThresholdActive",
	ThresholdFailed:   "ThresholdFailed",
}

// String returns the ThresholdState as a human-readable name.
func (t ThresholdState) String() string {
	if s := thresholdStateStrings[t]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ThresholdState (%d)", int(t))
}

// thresholdStatusStrings is a map of ThresholdState values to the status
// strings used by status reports.
var thresholdStatusStrings = map[ThresholdState]string{
	ThresholdDefined:  "defined",
	ThresholdStarted:  "started",
	ThresholdLockedIn: "locked_in",
	ThresholdActive:   "active",
	ThresholdFailed:   "failed",
}

// StatusString returns the ThresholdState as the status string used in
// reports.
func (t ThresholdState) StatusString() string {
	if s := thresholdStatusStrings[t]; s != "" {
		return s
	}
	return "invalid"
}

// LockIn houses the height and median time of the window boundary block at
// which a deployment locked in.
type LockIn struct {
	Height int64
	Time   int64
}

// Record contains the state of a deployment and the details of its lock in,
// when valid.
type Record struct {
	// State contains the current ThresholdState.
	State ThresholdState

	// LockIn is the boundary at which the deployment locked in.  It is only
	// set for the ThresholdLockedIn and ThresholdActive states and is nil for
	// all other states.
	LockIn *LockIn
}

// String returns the Record as a human-readable string.
func (r Record) String() string {
	if r.LockIn != nil {
		return fmt.Sprintf("%v (locked in at height %d, time %d)",
			r.State.StatusString(), r.LockIn.Height, r.LockIn.Time)
	}
	return r.State.StatusString()
}

// newRecord returns a Record in the provided state without lock in details.
func newRecord(state ThresholdState) Record {
	return Record{State: state}
}

// lockedInRecord returns a Record in the locked in state with the provided
// lock in details.
func lockedInRecord(height, medianTime int64) Record {
	return Record{
		State:  ThresholdLockedIn,
		LockIn: &LockIn{Height: height, Time: medianTime},
	}
}
