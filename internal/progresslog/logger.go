// Copyright (c) 2015-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package progresslog

import (
	"sync"
	"time"

	"github.com/decred/dcrd/wire"
	"github.com/decred/slog"
	"github.com/vbits/vbitsd/internal/versionbits"
)

// pickNoun returns the singular or plural form of a noun depending on the
// provided count.
func pickNoun(n uint64, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}

// Logger provides periodic logging of progress towards some action such as
// loading or generating headers.
type Logger struct {
	sync.Mutex
	subsystemLogger slog.Logger
	progressAction  string

	// lastLogTime tracks the last time a log statement was shown.
	lastLogTime time.Time

	// These fields accumulate information about headers between log
	// statements.
	receivedHeaders uint64
	receivedMarked  uint64
}

// New returns a new header progress logger.
func New(progressAction string, logger slog.Logger) *Logger {
	return &Logger{
		lastLogTime:     time.Now(),
		progressAction:  progressAction,
		subsystemLogger: logger,
	}
}

// LogProgress accumulates details for the provided header and periodically
// (every 10 seconds) logs an information message to show progress to the user
// along with duration and totals included.
//
// The force flag may be used to force a log message to be shown regardless of
// the time the last one was shown.
//
// The progress message is templated as follows:
//
//	{progressAction} {numProcessed} {headers|header} in the last {timePeriod}
//	({numMarked} with version bits, height {lastHeight}, {lastTimestamp})
func (l *Logger) LogProgress(header *wire.BlockHeader, forceLog bool) {
	l.Lock()
	defer l.Unlock()

	l.receivedHeaders++
	if versionbits.HasVersionBitsMarker(uint32(header.Version)) {
		l.receivedMarked++
	}
	now := time.Now()
	duration := now.Sub(l.lastLogTime)
	if !forceLog && duration < time.Second*10 {
		return
	}

	// Log information about progress.
	l.subsystemLogger.Infof("%s %d %s in the last %0.2fs (%d with version "+
		"bits, height %d, %s)", l.progressAction, l.receivedHeaders,
		pickNoun(l.receivedHeaders, "header", "headers"), duration.Seconds(),
		l.receivedMarked, header.Height, header.Timestamp)

	l.receivedHeaders = 0
	l.receivedMarked = 0
	l.lastLogTime = now
}

// SetLastLogTime updates the last time data was logged to the provided time.
func (l *Logger) SetLastLogTime(time time.Time) {
	l.Lock()
	l.lastLogTime = time
	l.Unlock()
}
