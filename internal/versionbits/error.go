// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2015-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package versionbits

import (
	"fmt"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

// ErrorKind identifies a kind of error.  It has full support for errors.Is and
// errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific ErrorKind.
const (
	// ErrUnknownDeployment indicates a query referenced a deployment name or
	// bit that is not present in the registry.
	ErrUnknownDeployment = ErrorKind("ErrUnknownDeployment")

	// ErrUnknownBlock indicates a query referenced a block that is not known
	// to the chain view or is not part of its active chain.
	ErrUnknownBlock = ErrorKind("ErrUnknownBlock")

	// ErrInconsistentCache indicates a cached activation record disagrees
	// with the chain view it was computed from.  This is an internal
	// consistency violation and must be treated as fatal by callers.
	ErrInconsistentCache = ErrorKind("ErrInconsistentCache")

	// ------------------------------------------
	// Errors related to registry configuration.
	// ------------------------------------------

	// ErrInvalidOrigin indicates the window origin height is negative.
	ErrInvalidOrigin = ErrorKind("ErrInvalidOrigin")

	// ErrMissingName indicates a deployment does not have a name.
	ErrMissingName = ErrorKind("ErrMissingName")

	// ErrInvalidBit indicates a deployment uses one of the reserved top bits
	// of the block version.
	ErrInvalidBit = ErrorKind("ErrInvalidBit")

	// ErrDuplicateBit indicates more than one deployment uses the same bit.
	ErrDuplicateBit = ErrorKind("ErrDuplicateBit")

	// ErrDuplicateName indicates more than one deployment uses the same
	// name.
	ErrDuplicateName = ErrorKind("ErrDuplicateName")

	// ErrInvalidWindow indicates a deployment has a zero window size.
	ErrInvalidWindow = ErrorKind("ErrInvalidWindow")

	// ErrInvalidThreshold indicates a deployment threshold is zero or
	// exceeds its window size.
	ErrInvalidThreshold = ErrorKind("ErrInvalidThreshold")

	// ErrInvalidGracePeriod indicates a deployment has a negative minimum
	// number of locked blocks or locked time.
	ErrInvalidGracePeriod = ErrorKind("ErrInvalidGracePeriod")

	// ErrInvalidTimeRange indicates a deployment has a negative start time
	// or a finite timeout before its start time.
	ErrInvalidTimeRange = ErrorKind("ErrInvalidTimeRange")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// ContextError wraps an error with additional context.  It has full support for
// errors.Is and errors.As, so the caller can ascertain the specific wrapped
// error.
type ContextError struct {
	Err         error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e ContextError) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e ContextError) Unwrap() error {
	return e.Err
}

// contextError creates a ContextError given a set of arguments.
func contextError(kind ErrorKind, desc string) ContextError {
	return ContextError{Err: kind, Description: desc}
}

// unknownBlockError creates a ContextError with the kind of error set to
// ErrUnknownBlock and a description that includes the provided hash.
func unknownBlockError(hash *chainhash.Hash) ContextError {
	str := fmt.Sprintf("block %s is not known", hash)
	return contextError(ErrUnknownBlock, str)
}

// unknownDeploymentError creates a ContextError with the kind of error set to
// ErrUnknownDeployment and a description that includes the provided name.
func unknownDeploymentError(name string) ContextError {
	str := fmt.Sprintf("deployment %q does not exist", name)
	return contextError(ErrUnknownDeployment, str)
}

// ConfigError identifies a registry configuration violation.  These errors are
// only ever returned while building a registry and are fatal at startup.  It
// has full support for errors.Is and errors.As, so the caller can ascertain
// the specific reason for the violation.
type ConfigError struct {
	Err         error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e ConfigError) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e ConfigError) Unwrap() error {
	return e.Err
}

// configError creates a ConfigError given a set of arguments.
func configError(kind ErrorKind, desc string) ConfigError {
	return ConfigError{Err: kind, Description: desc}
}
