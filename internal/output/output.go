// Package output handles user-facing console lines, including verbose mode
// and per-file rename progress.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// ANSI sequences used when color is enabled.
const (
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorReset = "\033[0m"
)

// Config holds output configuration.
type Config struct {
	Verbose   bool      // Enable verbose output
	Writer    io.Writer // Output destination (default: os.Stdout)
	ErrWriter io.Writer // Error output destination (default: os.Stderr)
	IsTTY     bool      // Whether output is a terminal; enables color
}

// Output writes formatted lines for the user.
type Output struct {
	config Config
	mu     sync.Mutex
}

// New creates a new Output instance with the given configuration.
func New(config Config) *Output {
	if config.Writer == nil {
		config.Writer = os.Stdout
	}
	if config.ErrWriter == nil {
		config.ErrWriter = os.Stderr
	}
	return &Output{
		config: config,
	}
}

// Discard returns an Output that drops everything.
func Discard() *Output {
	return New(Config{Writer: io.Discard, ErrWriter: io.Discard})
}

// DefaultConfig returns a Config with sensible defaults and TTY detection.
func DefaultConfig() Config {
	return Config{
		Verbose:   false,
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		IsTTY:     term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// Verbose prints a message only when verbose mode is enabled.
func (o *Output) Verbose(format string, args ...interface{}) {
	if !o.config.Verbose {
		return
	}
	o.write(o.config.Writer, format, args...)
}

// Info prints an informational message (always shown).
func (o *Output) Info(format string, args ...interface{}) {
	o.write(o.config.Writer, format, args...)
}

// Error prints an error message to stderr.
func (o *Output) Error(format string, args ...interface{}) {
	o.write(o.config.ErrWriter, o.colorize(colorRed, format), args...)
}

// Renamed prints the progress line for one successful rename.
func (o *Output) Renamed(done, total int, oldName, newName string) {
	o.write(o.config.Writer, "[%d/%d] %s: %s -> %s",
		done, total, o.colorize(colorGreen, "Renamed"), oldName, newName)
}

// Planned prints the line for a rename that a dry run would perform.
func (o *Output) Planned(oldName, newName string) {
	o.write(o.config.Writer, "would rename: %s -> %s", oldName, newName)
}

// RenameFailed prints the error line for a file that could not be renamed.
func (o *Output) RenameFailed(name string, err error) {
	o.Error("Error renaming %s: %v", name, err)
}

// IsVerbose returns whether verbose mode is enabled.
func (o *Output) IsVerbose() bool {
	return o.config.Verbose
}

// IsTTY returns whether the output is a terminal.
func (o *Output) IsTTY() bool {
	return o.config.IsTTY
}

func (o *Output) colorize(color, s string) string {
	if !o.config.IsTTY {
		return s
	}
	return color + s + colorReset
}

func (o *Output) write(w io.Writer, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprint(w, msg)
}
