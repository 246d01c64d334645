// Copyright (c) 2017-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package sampleconfig

import (
	_ "embed"
)

// sampleVbitsdConf is a string containing the commented example config for
// vbitsd.
//
//go:embed sample-vbitsd.conf
var sampleVbitsdConf string

// Vbitsd returns a string containing the commented example config for vbitsd.
func Vbitsd() string {
	return sampleVbitsdConf
}
