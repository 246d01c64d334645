// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2015-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockindex

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
	// ErrUnknownBlock indicates a referenced block is not in the index.
	ErrUnknownBlock = ErrorKind("ErrUnknownBlock")

	// ErrMissingParent indicates a header was added before its parent.
	ErrMissingParent = ErrorKind("ErrMissingParent")

	// ErrDuplicateBlock indicates a header that is already in the index was
	// added again.
	ErrDuplicateBlock = ErrorKind("ErrDuplicateBlock")

	// ErrBadHeight indicates the height committed to by a header is not one
	// more than the height of its parent.
	ErrBadHeight = ErrorKind("ErrBadHeight")

	// ErrTimeTooOld indicates the timestamp of a header is not after the
	// median time of the last several blocks it builds on.
	ErrTimeTooOld = ErrorKind("ErrTimeTooOld")

	// ErrInvalidAncestorHeight indicates an ancestor was requested at a
	// height that is negative or above the height of the block.
	ErrInvalidAncestorHeight = ErrorKind("ErrInvalidAncestorHeight")

	// ErrGenesisMismatch indicates a header database was created for a
	// different network.
	ErrGenesisMismatch = ErrorKind("ErrGenesisMismatch")

	// ErrHeaderDB indicates a general header database error.
	ErrHeaderDB = ErrorKind("ErrHeaderDB")

	// ErrHeaderDBCorruption indicates the header database is corrupt.
	ErrHeaderDBCorruption = ErrorKind("ErrHeaderDBCorruption")

	// ErrHeaderDBNotOpen indicates the header database was accessed after it
	// was closed.
	ErrHeaderDBNotOpen = ErrorKind("ErrHeaderDBNotOpen")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// ContextError wraps an error with additional context.  It has full support for
// errors.Is and errors.As, so the caller can ascertain the specific wrapped
// error.
//
// RawErr contains the original error in the case where an error has been
// converted.
type ContextError struct {
	Err         error
	Description string
	RawErr      error
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
