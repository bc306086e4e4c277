// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package logger defines a type for writing to logs and adapts it to
// [log/slog].
package logger

import (
	"log/slog"
	"strings"
)

// Logf is the basic logger type: a printf-like func. Like [log.Printf], the
// format need not end in a newline. Logf functions must be safe for concurrent
// use.
type Logf func(format string, args ...any)

// Write implements the [io.Writer] interface.
func (f Logf) Write(p []byte) (n int, err error) {
	f("%s", strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

// Slog returns a [slog.Logger] that formats records with a text handler and
// writes each of them as one line through logf. Records below level are
// dropped.
func Slog(logf Logf, level slog.Leveler) *slog.Logger {
	return slog.New(slog.NewTextHandler(logf, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Timestamps are the business of whatever prints logf output.
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// Discard returns a [slog.Logger] that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
