// Package logging builds the zerolog loggers used across nuchat.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Mode selects where log output goes
type Mode int

const (
	// ModeCLI writes human-readable output to stderr
	ModeCLI Mode = iota
	// ModeTUI writes to the log file when one is configured, otherwise discards.
	// The terminal belongs to the TUI.
	ModeTUI
)

// Options configures a logger
type Options struct {
	Verbose bool
	LogFile string
	Mode    Mode
	// Writer overrides the destination. Used by tests.
	Writer io.Writer
}

// New builds a logger and returns a close function for any file it opened
func New(opts Options) (zerolog.Logger, func() error, error) {
	noop := func() error { return nil }

	level := zerolog.WarnLevel
	if opts.Verbose {
		level = zerolog.DebugLevel
	}

	if opts.Writer != nil {
		return zerolog.New(opts.Writer).Level(level).With().Timestamp().Logger(), noop, nil
	}

	if opts.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(opts.LogFile), 0o700); err != nil {
			return zerolog.Nop(), noop, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return zerolog.Nop(), noop, fmt.Errorf("failed to open log file: %w", err)
		}
		return zerolog.New(f).Level(level).With().Timestamp().Logger(), f.Close, nil
	}

	if opts.Mode == ModeTUI {
		return zerolog.Nop(), noop, nil
	}

	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(console).Level(level).With().Timestamp().Logger(), noop, nil
}

// Component returns a child logger tagged with the component name
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}
