// Copyright (c) 2021-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.
//
//go:build !js && !plan9 && !wasip1

package main

import (
	"syscall"
)

// Service managers stop processes with SIGTERM and closing the controlling
// terminal sends SIGHUP.  Both are handled the same way as an interrupt.
func init() {
	interruptSignals = append(interruptSignals, syscall.SIGTERM, syscall.SIGHUP)
}
