// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"reflect"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

// TestLoadDeployments ensures deployments files are decoded as expected.
func TestLoadDeployments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		want    []Deployment
		wantErr bool
	}{{
		name: "two deployments, zero timeout means none",
		file: `
deployments:
  - bit: 1
    name: first
    starttime: 100
    timeout: 0
    windowsize: 10
    threshold: 8
    minlockedblocks: 5
  - bit: 2
    name: second
    description: second deployment
    starttime: 100
    timeout: 200
    windowsize: 144
    threshold: 108
    minlockedtime: 3600
    gbtforce: true
`,
		want: []Deployment{{
			Bit:             1,
			Name:            "first",
			StartTime:       100,
			Timeout:         NoTimeout,
			WindowSize:      10,
			Threshold:       8,
			MinLockedBlocks: 5,
		}, {
			Bit:           2,
			Name:          "second",
			Description:   "second deployment",
			StartTime:     100,
			Timeout:       200,
			WindowSize:    144,
			Threshold:     108,
			MinLockedTime: 3600,
			GBTForce:      true,
		}},
	}, {
		name: "bit 0 is distinguished from a missing bit",
		file: `
deployments:
  - bit: 0
    name: zero
    windowsize: 10
    threshold: 10
`,
		want: []Deployment{{
			Bit:        0,
			Name:       "zero",
			Timeout:    NoTimeout,
			WindowSize: 10,
			Threshold:  10,
		}},
	}, {
		name: "missing bit",
		file: `
deployments:
  - name: nobit
    windowsize: 10
    threshold: 8
`,
		wantErr: true,
	}, {
		name: "unknown field",
		file: `
deployments:
  - bit: 3
    name: typo
    windowsiz: 10
`,
		wantErr: true,
	}, {
		name:    "empty file",
		file:    "",
		wantErr: true,
	}}

	for _, test := range tests {
		got, err := LoadDeployments(strings.NewReader(test.file))
		if test.wantErr {
			if err == nil {
				t.Errorf("%q: did not receive expected error", test.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error: %v", test.name, err)
			continue
		}
		if !reflect.DeepEqual(got, test.want) {
			t.Errorf("%q: mismatched deployments - got %v, want %v",
				test.name, spew.Sdump(got), spew.Sdump(test.want))
		}
	}
}
