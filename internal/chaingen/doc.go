// Copyright (c) 2016-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package chaingen provides facilities for generating chains of block headers
with arbitrary versions and timestamps.

The generator tracks every header it creates by name, so side branches are
created by switching the tip back to an earlier named header and generating
from there.
*/
package chaingen
