// Package shell runs the interactive prompt loop: ask for a directory,
// confirm, rename, and offer to go again.
package shell

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"sqlnamer/internal/orchestrator"
	"sqlnamer/internal/scanner"
)

// Prompts shown by the loop.
const (
	DirectoryPrompt = "Directory path (or 'q' to quit): "
	ProceedPrompt   = "Proceed with rename? (y/n): "
	AnotherPrompt   = "Process another directory? (y/n): "
)

const quitSentinel = "q"

// Shell is the interactive front end over orchestrator.Run.
type Shell struct {
	prompter *Prompter
	writer   io.Writer
	opts     orchestrator.Options
}

// New creates a Shell reading answers from r and writing prompts to w.
// opts is passed to every batch; its Confirm hook is replaced by the
// shell's own prompt.
func New(r io.Reader, w io.Writer, opts orchestrator.Options) *Shell {
	opts.Confirm = nil
	return &Shell{
		prompter: NewPrompter(r, w),
		writer:   w,
		opts:     opts,
	}
}

// Run loops until the user quits or input ends. Only environment failures
// are returned; invalid directories and failed renames are reported and
// the loop carries on.
func (s *Shell) Run() error {
	fmt.Fprintln(s.writer, "SQL File Renamer")
	fmt.Fprintln(s.writer, "================")

	for {
		input, ok, err := s.prompter.Ask("\n" + DirectoryPrompt)
		if err != nil {
			return err
		}
		if !ok || strings.EqualFold(input, quitSentinel) {
			s.goodbye()
			return nil
		}

		dir, valid := s.resolve(input)
		if !valid {
			continue
		}

		fmt.Fprintf(s.writer, "\nSelected directory: %s\n", dir)
		proceed, err := s.prompter.Confirm(ProceedPrompt)
		if err != nil {
			return err
		}
		if proceed {
			if err := s.runBatch(dir); err != nil {
				return err
			}
		} else {
			fmt.Fprintln(s.writer, "Rename cancelled.")
		}

		again, err := s.prompter.Confirm("\n" + AnotherPrompt)
		if err != nil {
			return err
		}
		if !again {
			s.goodbye()
			return nil
		}
	}
}

// resolve turns input into an absolute directory and validates it,
// printing the checklist when it is unusable.
func (s *Shell) resolve(input string) (string, bool) {
	if input == "" {
		s.invalid()
		return "", false
	}
	dir, err := filepath.Abs(input)
	if err != nil {
		s.invalid()
		return "", false
	}
	if err := scanner.ValidateWithOptions(dir, s.opts.ScanOptions()); err != nil {
		if s.opts.Logger != nil {
			s.opts.Logger.Debug().Err(err).Str("directory", dir).Msg("directory rejected")
		}
		s.invalid()
		return "", false
	}
	return dir, true
}

func (s *Shell) runBatch(dir string) error {
	_, err := orchestrator.Run(dir, s.opts)
	if err == nil {
		return nil
	}
	// The directory may have changed since it was validated.
	if scanner.IsInvalidDirectory(err) {
		s.invalid()
		return nil
	}
	return err
}

func (s *Shell) invalid() {
	fmt.Fprintln(s.writer, "\nError: directory is invalid or contains no SQL files!")
	fmt.Fprintln(s.writer, "Make sure:")
	fmt.Fprintln(s.writer, "1. The directory path is correct")
	fmt.Fprintln(s.writer, "2. The directory contains at least one .sql file")
}

func (s *Shell) goodbye() {
	fmt.Fprintln(s.writer, "Goodbye.")
}
