// Package main provides the CLI entry point for sqlnamer.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"sqlnamer/internal/audit"
	"sqlnamer/internal/config"
	"sqlnamer/internal/logging"
	"sqlnamer/internal/orchestrator"
	"sqlnamer/internal/output"
	"sqlnamer/internal/shell"
)

// Version is the current version of sqlnamer. Overridden at build time with
// -ldflags "-X main.Version=...".
var Version = "0.1.0"

// exitError carries a process exit code. A nil err means the command has
// already reported the problem.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// app holds state shared by all commands, filled in by setup before any
// command runs.
type app struct {
	configPath string
	verbose    bool
	debug      bool
	quiet      bool
	auditDir   string

	cfg    *config.Configuration
	log    zerolog.Logger
	out    *output.Output
	writer *audit.AuditWriter
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "sqlnamer",
		Short: "Normalize SQL script filenames",
		Long: `sqlnamer renames SQL scripts to the canonical form

  <sequence>. <Description> V<major>.<minor>.sql

Run without arguments for an interactive session, or use one of the
commands below for scripted use.`,
		Example: `  sqlnamer                      # interactive
  sqlnamer rename ./migrations   # rename after confirmation
  sqlnamer check ./migrations    # exit 1 if anything would be renamed
  sqlnamer watch ./inbox         # rename scripts as they arrive`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.openAudit(); err != nil {
				return err
			}
			defer a.close()
			if !shell.IsInteractive() {
				a.log.Debug().Msg("stdin is not a terminal; reading answers from input")
			}
			return shell.New(cmd.InOrStdin(), cmd.OutOrStdout(), a.options()).Run()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "config file (.json, .yaml, .yml or .toml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "show unchanged files and info logs")
	flags.BoolVar(&a.debug, "debug", false, "show debug logs")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "only log errors")
	flags.StringVar(&a.auditDir, "audit-dir", "", "record runs in this audit log directory")

	root.AddCommand(
		newRenameCmd(a),
		newCheckCmd(a),
		newWatchCmd(a),
		newHistoryCmd(a),
		newConfigCmd(),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadOrDefault(a.configPath)
	if err != nil {
		return err
	}
	if a.auditDir != "" {
		cfg.Audit.Enabled = true
		cfg.Audit.LogDirectory = a.auditDir
	}
	a.cfg = cfg

	errOut := cmd.ErrOrStderr()
	level := logging.LevelFromFlags(a.quiet, a.verbose, a.debug, cfg.LogLevel)
	a.log, err = logging.New(logging.Options{
		Level:   level,
		Writer:  errOut,
		Console: true,
		NoColor: !isTerminal(errOut),
	})
	if err != nil {
		return err
	}

	stdout := cmd.OutOrStdout()
	a.out = output.New(output.Config{
		Verbose:   a.verbose || a.debug,
		Writer:    stdout,
		ErrWriter: errOut,
		IsTTY:     isTerminal(stdout),
	})
	return nil
}

// openAudit opens the audit log when auditing is enabled. Commands that
// change files call it; read-only commands do not.
func (a *app) openAudit() error {
	if !a.cfg.Audit.Enabled || a.writer != nil {
		return nil
	}
	w, err := audit.NewAuditWriter(*a.cfg.Audit)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	a.writer = w
	a.log.Debug().Str("path", w.LogPath()).Msg("audit log open")
	return nil
}

func (a *app) close() {
	if a.writer == nil {
		return
	}
	if err := a.writer.Close(); err != nil {
		a.log.Error().Err(err).Msg("failed to close audit log")
	}
	a.writer = nil
}

func (a *app) options() orchestrator.Options {
	log := a.log
	return orchestrator.Options{
		Sort:          a.cfg.Sort,
		SymlinkPolicy: a.cfg.SymlinkPolicy,
		Logger:        &log,
		Output:        a.out,
		Audit:         a.writer,
		AppVersion:    Version,
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sqlnamer %s\n", Version)
		},
	}
}

func main() {
	err := newRootCmd().ExecuteContext(context.Background())
	if err == nil {
		return
	}

	code := 1
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		code = exitErr.code
		err = exitErr.err
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(code)
}
