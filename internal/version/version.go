// Copyright (c) 2013-2014 The btcsuite developers
// Copyright (c) 2015-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package version provides a single location to house the version information
// for vbitsd.
package version

import (
	"fmt"
	"regexp"
	"runtime/debug"
	"strconv"
	"strings"
)

// semanticAlphabet defines the allowed characters for the pre-release and
// build metadata portions of a semantic version string.
const semanticAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-."

// semverRE is a regular expression used to parse a semantic version string into
// its constituent parts.
var semverRE = regexp.MustCompile(`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)` +
	`(?:-((?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*)(?:\.(?:0|[1-9]\d*|\d*` +
	`[a-zA-Z-][0-9a-zA-Z-]*))*))?(?:\+([0-9a-zA-Z-]+(?:\.[0-9a-zA-Z-]+)*))?$`)

// These variables define the application version and follow the semantic
// versioning 2.0.0 spec (https://semver.org/).
var (
	// Version is the application version.
	//
	// It is defined as a variable so it can be overridden during the build
	// process with:
	// '-ldflags "-X github.com/vbits/vbitsd/internal/version.Version=fullsemver"'
	// if needed.
	//
	// It MUST be a full semantic version or the package will panic at
	// runtime.
	Version = "0.1.0-pre"

	// NOTE: The following values are set via init by parsing the above Version
	// string.

	Major         uint
	Minor         uint
	Patch         uint
	PreRelease    string
	BuildMetadata string
)

// semVer houses the components of a parsed semantic version string.
type semVer struct {
	major, minor, patch uint
	preRelease, build   string
}

// parseSemVer parses the components of the provided semantic version string.
func parseSemVer(s string) (*semVer, error) {
	m := semverRE.FindStringSubmatch(s)
	if m == nil {
		return nil, fmt.Errorf("malformed version string %q: does not "+
			"conform to semver specification", s)
	}

	var nums [3]uint
	for i, field := range []string{"major", "minor", "patch"} {
		val, err := strconv.ParseUint(m[i+1], 10, 0)
		if err != nil {
			return nil, fmt.Errorf("malformed semver %s: %w", field, err)
		}
		nums[i] = uint(val)
	}

	// The regular expression already restricts the pre-release and build
	// metadata to the semantic alphabet.
	return &semVer{
		major:      nums[0],
		minor:      nums[1],
		patch:      nums[2],
		preRelease: m[4],
		build:      m[5],
	}, nil
}

func init() {
	v, err := parseSemVer(Version)
	if err != nil {
		panic(err)
	}
	Major, Minor, Patch = v.major, v.minor, v.patch
	PreRelease, BuildMetadata = v.preRelease, v.build
	if BuildMetadata == "" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			BuildMetadata = vcsBuildMetadata(bi.Settings)
		}
		if BuildMetadata != "" {
			Version = fmt.Sprintf("%d.%d.%d", Major, Minor, Patch)
			if PreRelease != "" {
				Version += "-" + PreRelease
			}
			Version += "+" + BuildMetadata
		}
	}
}

// vcsBuildMetadata returns build metadata identifying the revision described
// by the provided build settings.  Git revisions are abbreviated to nine
// characters and a revision with local modifications is suffixed with
// ".dirty".  An empty string is returned when there is no revision.
func vcsBuildMetadata(settings []debug.BuildSetting) string {
	var vcs, revision string
	var modified bool
	for _, bs := range settings {
		switch bs.Key {
		case "vcs":
			vcs = bs.Value
		case "vcs.revision":
			revision = bs.Value
		case "vcs.modified":
			modified = bs.Value == "true"
		}
	}
	if vcs == "" || revision == "" {
		return ""
	}
	if vcs == "git" && len(revision) > 9 {
		revision = revision[:9]
	}
	revision = NormalizeString(revision)
	if modified {
		revision += ".dirty"
	}
	return revision
}

// String returns the application version as a properly formed string per the
// semantic versioning 2.0.0 spec (https://semver.org/).
func String() string {
	return Version
}

// NormalizeString returns the passed string stripped of all characters which
// are not valid for pre-release and build metadata strings.
func NormalizeString(str string) string {
	var sb strings.Builder
	for _, r := range str {
		if strings.ContainsRune(semanticAlphabet, r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
