package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"sqlnamer/internal/audit"
	"sqlnamer/internal/orchestrator"
	"sqlnamer/internal/scanner"
	"sqlnamer/internal/watcher"
)

func newWatchCmd(a *app) *cobra.Command {
	var skipExisting bool

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Rename SQL scripts as they appear in a directory",
		Long: `Watch <dir> and rename each new or changed .sql file once it has
stopped changing. Existing files are renamed first unless --skip-existing
is given. Stop with Ctrl+C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			if err := scanner.CheckDirectory(dir); err != nil {
				return &exitError{code: 1, err: err}
			}
			if err := a.openAudit(); err != nil {
				return err
			}
			defer a.close()

			opts := a.options()
			if !skipExisting && scanner.ValidateWithOptions(dir, opts.ScanOptions()) == nil {
				if _, err := orchestrator.Run(dir, opts); err != nil {
					return err
				}
			}

			var runID audit.RunID
			if a.writer != nil {
				runID, err = a.writer.StartRun(audit.RunTypeWatch, dir, Version)
				if err != nil {
					return fmt.Errorf("failed to start audit run: %w", err)
				}
			}

			watchCfg := watcher.Config{
				Debounce:        a.cfg.Watch.Debounce(),
				StableThreshold: a.cfg.Watch.StableThreshold(),
				IgnorePatterns:  a.cfg.Watch.IgnorePatterns,
			}
			w := watcher.New(watchCfg, func(path string) (orchestrator.Result, error) {
				return orchestrator.RenameOneAudited(path, runID, opts)
			}, a.log)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a.out.Info("Watching %s (Ctrl+C to stop)", dir)
			summary, err := w.Run(ctx, dir)
			if err != nil {
				return err
			}
			a.out.Info("Stopped after %s: %d renamed, %d unchanged, %d failed.",
				summary.Duration.Round(time.Second), summary.Renamed, summary.Unchanged, summary.Failed)

			if a.writer != nil {
				status := audit.RunStatusCompleted
				if summary.Failed > 0 {
					status = audit.RunStatusFailed
				}
				err := a.writer.EndRun(runID, status, audit.RunSummary{
					TotalFiles: summary.Renamed + summary.Unchanged + summary.Failed,
					Renamed:    summary.Renamed,
					Unchanged:  summary.Unchanged,
					Errors:     summary.Failed,
				})
				if err != nil {
					return fmt.Errorf("failed to end audit run: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipExisting, "skip-existing", false, "do not rename files already in the directory")
	return cmd
}
