// Copyright (c) 2016-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaingen

import (
	"fmt"
	"time"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/wire"
	"github.com/vbits/vbitsd/chaincfg"
)

// Generator houses state used to ease the process of generating test headers
// that build from one another.  Every generated header is assigned a unique
// name which may be used to switch the tip in order to create side branches.
type Generator struct {
	params        *chaincfg.Params
	blockInterval time.Duration
	tip           *wire.BlockHeader
	tipName       string
	headers       map[chainhash.Hash]*wire.BlockHeader
	headersByName map[string]*wire.BlockHeader
	headerNames   map[chainhash.Hash]string
	nonce         uint32
}

// MakeGenerator returns a generator instance initialized with the genesis
// header of the provided network as the tip.  Headers are spaced by the
// target time per block of the network.
func MakeGenerator(params *chaincfg.Params) Generator {
	genesis := params.GenesisHeader
	return MakeGeneratorFrom(params, "genesis", &genesis)
}

// MakeGeneratorFrom returns a generator instance initialized with the provided
// header as the tip under the given name.  This allows generating headers on
// top of an existing chain.
func MakeGeneratorFrom(params *chaincfg.Params, tipName string, tip *wire.BlockHeader) Generator {
	tipHash := tip.BlockHash()
	return Generator{
		params:        params,
		blockInterval: params.TargetTimePerBlock,
		tip:           tip,
		tipName:       tipName,
		headers:       map[chainhash.Hash]*wire.BlockHeader{tipHash: tip},
		headersByName: map[string]*wire.BlockHeader{tipName: tip},
		headerNames:   map[chainhash.Hash]string{tipHash: tipName},
	}
}

// Params returns the chain params associated with the generator instance.
func (g *Generator) Params() *chaincfg.Params {
	return g.params
}

// SetBlockInterval sets the time between the timestamps of consecutive
// generated headers.  Intervals below one second are raised to one second so
// timestamps are always strictly increasing.
func (g *Generator) SetBlockInterval(interval time.Duration) {
	if interval < time.Second {
		interval = time.Second
	}
	g.blockInterval = interval
}

// Tip returns the current tip header of the generator instance.
func (g *Generator) Tip() *wire.BlockHeader {
	return g.tip
}

// TipName returns the name of the current tip header of the generator
// instance.
func (g *Generator) TipName() string {
	return g.tipName
}

// HeaderByName returns the header associated with the provided name.  It will
// panic if the specified name does not exist.
func (g *Generator) HeaderByName(name string) *wire.BlockHeader {
	header, ok := g.headersByName[name]
	if !ok {
		panic(fmt.Sprintf("header name %s does not exist", name))
	}
	return header
}

// HeaderName returns the name associated with the provided header hash.  It
// will panic if the specified hash does not exist.
func (g *Generator) HeaderName(hash *chainhash.Hash) string {
	name, ok := g.headerNames[*hash]
	if !ok {
		panic(fmt.Sprintf("header name for hash %s does not exist", hash))
	}
	return name
}

// NextHeader builds a new header that extends the current tip associated with
// the generator, assigns it the provided name and updates the tip to it.  The
// header has the provided version and a timestamp one block interval after its
// parent.
//
// The mungers are invoked in order with the header before it is stored which
// allows the caller to modify it.
func (g *Generator) NextHeader(name string, version int32, mungers ...func(*wire.BlockHeader)) *wire.BlockHeader {
	// Prevent header name collisions.
	if g.headersByName[name] != nil {
		panic(fmt.Sprintf("header name %s already exists", name))
	}

	g.nonce++
	header := &wire.BlockHeader{
		Version:   version,
		PrevBlock: g.tip.BlockHash(),
		Bits:      g.tip.Bits,
		Height:    g.tip.Height + 1,
		Timestamp: g.tip.Timestamp.Add(g.blockInterval),
		Nonce:     g.nonce,
	}
	for _, f := range mungers {
		f(header)
	}

	hash := header.BlockHash()
	if g.headers[hash] != nil {
		panic(fmt.Sprintf("header %s already exists", hash))
	}
	g.headers[hash] = header
	g.headersByName[name] = header
	g.headerNames[hash] = name
	g.tip = header
	g.tipName = name
	return header
}

// GenerateHeaders builds the provided number of headers with the given version
// on top of the current tip.  They are named with the provided prefix followed
// by their height.
func (g *Generator) GenerateHeaders(prefix string, numHeaders int, version int32) []*wire.BlockHeader {
	headers := make([]*wire.BlockHeader, 0, numHeaders)
	for i := 0; i < numHeaders; i++ {
		name := fmt.Sprintf("%s%d", prefix, g.tip.Height+1)
		headers = append(headers, g.NextHeader(name, version))
	}
	return headers
}

// SetTip changes the tip of the instance to the header with the provided
// name.  This is useful since the tip is used for things such as generating
// subsequent headers.
//
// It will panic if the specified name does not exist.
func (g *Generator) SetTip(name string) {
	g.tip = g.HeaderByName(name)
	g.tipName = name
}
