// Package logging configures zerolog loggers.
package logging

import (
	"io"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// ConsoleTimeFormat is the timestamp layout of console output.
const ConsoleTimeFormat = "15:04:05"

// New returns a console logger writing to w. Verbose enables debug level.
// Timestamps keep zerolog's RFC3339 field format.
func New(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: ConsoleTimeFormat,
		NoColor:    !isTerminal(w),
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// NewJSON returns a structured JSON logger writing to w.
func NewJSON(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Component returns l with a component field.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}

type fdWriter interface {
	Fd() uintptr
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(fdWriter)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
