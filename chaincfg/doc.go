// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chaincfg defines chain configuration parameters.
//
// Each network is defined by its genesis header and the set of version bits
// deployments that miners may signal for on it.  The deployments are plain
// data; the version bits package validates them into a registry and computes
// their activation state.
//
// For main packages, a (typically global) var may be assigned the address of
// one of the standard Params for use as the application's "active" network.
//
//	package main
//
//	import (
//		"flag"
//		"fmt"
//
//		"github.com/vbits/vbitsd/chaincfg"
//	)
//
//	func main() {
//		var regnet = flag.Bool("regnet", false, "operate on the regression test network")
//		flag.Parse()
//
//		// By default (without -regnet), use mainnet.
//		var chainParams = chaincfg.MainNetParams()
//		if *regnet {
//			chainParams = chaincfg.RegNetParams()
//		}
//
//		for _, d := range chainParams.Deployments {
//			fmt.Printf("%s uses bit %d\n", d.Name, d.Bit)
//		}
//	}
package chaincfg
