// Package logging builds the diagnostic logger used across sqlnamer.
//
// Diagnostic logs go to stderr and are separate from the user-facing lines
// printed by the output package.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Level names accepted by ParseLevel and the config file.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Options configures New.
type Options struct {
	Level   string    // One of the Level* names, default "warn"
	Writer  io.Writer // Destination, default os.Stderr
	Console bool      // Human-readable console format instead of JSON
	NoColor bool      // Disable ANSI colors in console format
}

// New returns a zerolog.Logger configured from opts.
func New(opts Options) (zerolog.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), err
	}

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	if opts.Console {
		w = zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    opts.NoColor,
			TimeFormat: time.TimeOnly,
		}
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

// Nop returns a logger that discards everything.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// ParseLevel converts a level name into a zerolog.Level. An empty name
// means warn.
func ParseLevel(name string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", LevelWarn, "warning":
		return zerolog.WarnLevel, nil
	case LevelDebug:
		return zerolog.DebugLevel, nil
	case LevelInfo:
		return zerolog.InfoLevel, nil
	case LevelError:
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", name)
	}
}

// LevelFromFlags picks the level implied by the --quiet/--verbose/--debug
// flags. The most verbose flag wins; fallback is used when none is set.
func LevelFromFlags(quiet, verbose, debug bool, fallback string) string {
	switch {
	case debug:
		return LevelDebug
	case verbose:
		return LevelInfo
	case quiet:
		return LevelError
	default:
		return fallback
	}
}
