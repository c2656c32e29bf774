// Copyright (C) 2022-2026, VigilantDoomer
//
// This file is part of the simmer program.
//
// simmer is free software: you can redistribute it
// and/or modify it under the terms of GNU General Public License
// as published by the Free Software Foundation, either version 2 of
// the License, or (at your option) any later version.
//
// simmer is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with simmer.  If not, see <https://www.gnu.org/licenses/>.

// Package simlog is the central log of the program. A single *Logger
// serializes writes to stdout/stderr behind a mutex so concurrent
// worker-pool goroutines (Finder's per-cell outer workers, Simmer's
// round workers) never interleave a line. Per-goroutine scratch logs
// that shouldn't interleave with the main log at all are buffered in a
// MiniLogger and merged in by whichever goroutine owns them exclusively.
package simlog

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// Logger is the process-wide log. Zero value is not usable; use New.
type Logger struct {
	mu        sync.Mutex
	verbosity int
	out       *slog.Logger
	errOut    *slog.Logger
}

// New returns a Logger writing to stdout/stderr via log/slog, gated at
// the given verbosity level (see Verbose).
func New(verbosity int) *Logger {
	return &Logger{
		verbosity: verbosity,
		out:       slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})),
		errOut:    slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})),
	}
}

// Printf logs a formatted informational line.
func (l *Logger) Printf(format string, a ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.Info(fmt.Sprintf(format, a...))
}

// Error logs a formatted error line. It does not abort execution; the
// caller decides whether the condition is fatal.
func (l *Logger) Error(format string, a ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errOut.Error(fmt.Sprintf(format, a...))
}

// Verbose logs only when level is at or below the configured verbosity.
func (l *Logger) Verbose(level int, format string, a ...interface{}) {
	if level > l.verbosity {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.Info(fmt.Sprintf(format, a...))
}

// MiniLogger buffers output for one worker (a Finder outer worker across
// its cells, a Simmer worker for one round) owned by exactly one
// goroutine until it's ready to
// be folded into the shared Logger. It needs no locking: the contract
// is that only its owning goroutine ever touches it.
type MiniLogger struct {
	buf bytes.Buffer
}

// Printf appends a formatted line to the mini log.
func (m *MiniLogger) Printf(format string, a ...interface{}) {
	fmt.Fprintf(&m.buf, format, a...)
}

// MergeInto flushes the mini log's buffered text into l as a single
// informational entry and resets the mini log. A nil l discards the
// buffered text, so callers may pass a nil *Logger unconditionally.
func (m *MiniLogger) MergeInto(l *Logger) {
	if m.buf.Len() == 0 {
		return
	}
	if l != nil {
		l.Printf("%s", m.buf.String())
	}
	m.buf.Reset()
}
