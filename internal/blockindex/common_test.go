// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockindex

import (
	"testing"
	"time"

	"github.com/decred/dcrd/wire"
	"github.com/vbits/vbitsd/chaincfg"
)

// nextHeader returns a header that builds on the provided one one second
// later with the given version and nonce.
func nextHeader(prev *wire.BlockHeader, version int32, nonce uint32) *wire.BlockHeader {
	return &wire.BlockHeader{
		Version:   version,
		PrevBlock: prev.BlockHash(),
		Bits:      prev.Bits,
		Height:    prev.Height + 1,
		Timestamp: prev.Timestamp.Add(time.Second),
		Nonce:     nonce,
	}
}

// buildBranch returns the provided number of headers that build on the given
// one.
func buildBranch(prev *wire.BlockHeader, numHeaders int, version int32, nonce uint32) []*wire.BlockHeader {
	headers := make([]*wire.BlockHeader, 0, numHeaders)
	for i := 0; i < numHeaders; i++ {
		prev = nextHeader(prev, version, nonce)
		headers = append(headers, prev)
	}
	return headers
}

// mustAddHeaders adds all provided headers to the index and fails the test on
// error.
func mustAddHeaders(t *testing.T, idx *Index, headers []*wire.BlockHeader) {
	t.Helper()

	for _, header := range headers {
		if _, err := idx.AddHeader(header); err != nil {
			t.Fatalf("AddHeader(%d): unexpected error: %v", header.Height, err)
		}
	}
}

// newTestIndex returns an index for the regression test network along with
// its genesis header.
func newTestIndex() (*Index, *wire.BlockHeader) {
	params := chaincfg.RegNetParams()
	return New(params), &params.GenesisHeader
}
