// Copyright (c) 2021-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package version

import (
	"runtime/debug"
	"testing"
)

// TestSemVerParsing ensures parsing a semantic version string works as
// expected.
func TestSemVerParsing(t *testing.T) {
	tests := []struct {
		ver     string // semantic version string to parse
		want    semVer // expected components
		invalid bool   // expected error
	}{
		{ver: "0.0.4", want: semVer{major: 0, minor: 0, patch: 4}},
		{ver: "10.20.30", want: semVer{major: 10, minor: 20, patch: 30}},
		{ver: "1.1.2-prerelease+meta", want: semVer{major: 1, minor: 1,
			patch: 2, preRelease: "prerelease", build: "meta"}},
		{ver: "1.1.2+meta-valid", want: semVer{major: 1, minor: 1, patch: 2,
			build: "meta-valid"}},
		{ver: "1.0.0-alpha.beta.1", want: semVer{major: 1,
			preRelease: "alpha.beta.1"}},
		{ver: "1.0.0-0A.is.legal", want: semVer{major: 1,
			preRelease: "0A.is.legal"}},
		{ver: "1", invalid: true},
		{ver: "1.2", invalid: true},
		{ver: "01.1.1", invalid: true},
		{ver: "1.2.3-0123", invalid: true},
		{ver: "1.2.3.DEV", invalid: true},
		{ver: "1.2.3+meta%", invalid: true},
		{ver: "+invalid", invalid: true},
		{ver: "99999999999999999999999.999999999999999999.99999999999999999", invalid: true},
	}

	for _, test := range tests {
		got, err := parseSemVer(test.ver)
		if test.invalid {
			if err == nil {
				t.Errorf("%q: did not receive expected error", test.ver)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected err: %v", test.ver, err)
			continue
		}
		if *got != test.want {
			t.Errorf("%q: mismatched components -- got %+v, want %+v",
				test.ver, *got, test.want)
		}
	}
}

// TestNormalizeString ensures characters outside of the semantic alphabet are
// removed.
func TestNormalizeString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.22.1", "1.22.1"},
		{"devel go1.23-abc123 Tue", "develgo1.23-abc123Tue"},
		{"a_b+c!d", "abcd"},
		{"", ""},
	}
	for _, test := range tests {
		if got := NormalizeString(test.in); got != test.want {
			t.Errorf("NormalizeString(%q): got %q, want %q", test.in, got,
				test.want)
		}
	}
}

// TestVCSBuildMetadata ensures build metadata is derived from the VCS build
// settings as expected.
func TestVCSBuildMetadata(t *testing.T) {
	tests := []struct {
		name     string
		settings []debug.BuildSetting
		want     string
	}{{
		name: "no vcs",
		want: "",
	}, {
		name: "git revision is abbreviated",
		settings: []debug.BuildSetting{
			{Key: "vcs", Value: "git"},
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.modified", Value: "false"},
		},
		want: "012345678",
	}, {
		name: "modified git revision",
		settings: []debug.BuildSetting{
			{Key: "vcs", Value: "git"},
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.modified", Value: "true"},
		},
		want: "012345678.dirty",
	}, {
		name: "other vcs keeps the full revision",
		settings: []debug.BuildSetting{
			{Key: "vcs", Value: "hg"},
			{Key: "vcs.revision", Value: "0123456789abcdef"},
		},
		want: "0123456789abcdef",
	}, {
		name:     "missing revision",
		settings: []debug.BuildSetting{{Key: "vcs", Value: "git"}},
		want:     "",
	}}

	for _, test := range tests {
		got := vcsBuildMetadata(test.settings)
		if got != test.want {
			t.Errorf("%q: got %q, want %q", test.name, got, test.want)
		}
	}
}
