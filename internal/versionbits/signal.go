// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package versionbits

const (
	// TopBits is the marker that must be set in the top three bits of a
	// block version for it to signal for any deployment.
	TopBits uint32 = 0x20000000

	// TopMask is the mask of the top three bits of a block version.
	TopMask uint32 = 0xe0000000
)

// IsSignaling returns whether or not the provided block version signals for
// the given bit.
func IsSignaling(version uint32, bit uint8) bool {
	return version&TopMask == TopBits && version&(uint32(1)<<bit) != 0
}

// HasVersionBitsMarker returns whether or not the provided block version
// carries the version bits marker in its top three bits.
func HasVersionBitsMarker(version uint32) bool {
	return version&TopMask == TopBits
}
