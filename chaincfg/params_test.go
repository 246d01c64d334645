// Copyright (c) 2016 The btcsuite developers
// Copyright (c) 2016-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
)

// TestNetworkParams ensures the parameters of all standard networks are
// internally consistent.
func TestNetworkParams(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params *Params
	}{
		{name: "mainnet", params: MainNetParams()},
		{name: "testnet", params: TestNetParams()},
		{name: "regnet", params: RegNetParams()},
		{name: "simnet", params: SimNetParams()},
	}

	for _, test := range tests {
		params := test.params
		if params.Name != test.name {
			t.Errorf("%s: unexpected network name %q", test.name, params.Name)
			continue
		}

		// Check the genesis hash against the header.
		hash := params.GenesisHeader.BlockHash()
		if !params.GenesisHash.IsEqual(&hash) {
			t.Errorf("%s: genesis hash does not match header - got %v, "+
				"want %v", test.name, spew.Sdump(params.GenesisHash),
				spew.Sdump(hash))
			continue
		}

		if params.UnknownBitsThreshold > params.UnknownBitsWindow {
			t.Errorf("%s: unknown bits threshold %d exceeds window %d",
				test.name, params.UnknownBitsThreshold,
				params.UnknownBitsWindow)
		}

		bits := make(map[uint8]struct{})
		names := make(map[string]struct{})
		for _, d := range params.Deployments {
			if d.Bit > 28 {
				t.Errorf("%s: deployment %q uses reserved bit %d",
					test.name, d.Name, d.Bit)
			}
			if _, ok := bits[d.Bit]; ok {
				t.Errorf("%s: duplicate deployment bit %d", test.name,
					d.Bit)
			}
			if _, ok := names[d.Name]; ok {
				t.Errorf("%s: duplicate deployment name %q", test.name,
					d.Name)
			}
			bits[d.Bit] = struct{}{}
			names[d.Name] = struct{}{}

			if d.WindowSize == 0 || d.Threshold == 0 ||
				d.Threshold > d.WindowSize {

				t.Errorf("%s: deployment %q has bad threshold %d/%d",
					test.name, d.Name, d.Threshold, d.WindowSize)
			}
			if d.HasTimeout() && d.StartTime > d.Timeout {
				t.Errorf("%s: deployment %q starts after it times out",
					test.name, d.Name)
			}
		}
	}
}

// TestRegNetDeployments ensures the regression test network defines the
// expected set of deployments.
func TestRegNetDeployments(t *testing.T) {
	t.Parallel()

	params := RegNetParams()
	if len(params.Deployments) != 25 {
		t.Fatalf("unexpected number of deployments - got %d, want 25",
			len(params.Deployments))
	}
	for i, d := range params.Deployments {
		if int(d.Bit) != i {
			t.Fatalf("deployment %d has bit %d", i, d.Bit)
		}
	}

	// Spot check the grace and timeout deployments.
	d := params.Deployments[22]
	if d.MinLockedBlocks != 21 || d.MinLockedTime != 20 || d.WindowSize != 10 {
		t.Fatalf("unexpected grace deployment: %v", spew.Sdump(d))
	}
	d = params.Deployments[24]
	if !d.HasTimeout() || d.Timeout-d.StartTime != 50 || d.Threshold != 8 {
		t.Fatalf("unexpected timeout deployment: %v", spew.Sdump(d))
	}
}

// TestDeploymentMask ensures the version mask of a deployment and the timeout
// sentinel work as expected.
func TestDeploymentMask(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		deployment  Deployment
		wantMask    uint32
		wantTimeout bool
	}{{
		name:        "bit 0, zero timeout",
		deployment:  Deployment{Bit: 0, Timeout: 0},
		wantMask:    0x00000001,
		wantTimeout: false,
	}, {
		name:        "bit 28, sentinel timeout",
		deployment:  Deployment{Bit: 28, Timeout: NoTimeout},
		wantMask:    0x10000000,
		wantTimeout: false,
	}, {
		name:        "bit 5, finite timeout",
		deployment:  Deployment{Bit: 5, Timeout: 1000},
		wantMask:    0x00000020,
		wantTimeout: true,
	}}

	for _, test := range tests {
		if got := test.deployment.Mask(); got != test.wantMask {
			t.Errorf("%q: unexpected mask - got %08x, want %08x",
				test.name, got, test.wantMask)
		}
		if got := test.deployment.HasTimeout(); got != test.wantTimeout {
			t.Errorf("%q: unexpected timeout flag - got %v, want %v",
				test.name, got, test.wantTimeout)
		}
	}
}
