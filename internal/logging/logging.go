// SPDX-License-Identifier: MPL-2.0

// Package logging builds the structured logger used across pipeconf.
//
// Library packages accept a *slog.Logger; the CLI backs it with a
// charmbracelet/log handler so terminal output is styled.
package logging

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// Options configures New.
type Options struct {
	// Verbose lowers the level to debug.
	Verbose bool
	// Prefix is printed before every message (e.g. "watch").
	Prefix string
	// Timestamps adds a time column, useful for long-running watch sessions.
	Timestamps bool
}

// New returns a slog.Logger writing styled records to w.
func New(w io.Writer, opts Options) *slog.Logger {
	return slog.New(NewHandler(w, opts))
}

// NewHandler returns the charm handler behind New.
func NewHandler(w io.Writer, opts Options) *log.Logger {
	level := log.InfoLevel
	if opts.Verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          opts.Prefix,
		ReportTimestamp: opts.Timestamps,
		TimeFormat:      "15:04:05",
	})
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
