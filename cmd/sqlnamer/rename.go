package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sqlnamer/internal/orchestrator"
	"sqlnamer/internal/scanner"
	"sqlnamer/internal/shell"
)

func newRenameCmd(a *app) *cobra.Command {
	var (
		yes    bool
		dryRun bool
		sorted bool
	)

	cmd := &cobra.Command{
		Use:   "rename <dir>",
		Short: "Rename every non-canonical SQL script in a directory",
		Long: `Rename every .sql file directly inside <dir> to its canonical name.
Files that are already canonical are left alone. A file that cannot be
renamed is reported and the rest of the batch continues.`,
		Example: `  sqlnamer rename ./migrations
  sqlnamer rename ./migrations --yes --sort
  sqlnamer rename ./migrations --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.openAudit(); err != nil {
				return err
			}
			defer a.close()

			opts := a.options()
			opts.DryRun = dryRun
			if sorted {
				opts.Sort = true
			}
			if !yes && !a.cfg.AssumeYes && !dryRun {
				prompter := shell.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
				opts.Confirm = func(dir string, total int) bool {
					ok, err := prompter.Confirm(shell.ProceedPrompt)
					if err != nil {
						a.log.Error().Err(err).Msg("failed to read answer")
						return false
					}
					return ok
				}
			}

			report, err := orchestrator.Run(args[0], opts)
			if err != nil {
				if scanner.IsInvalidDirectory(err) {
					return &exitError{code: 1, err: fmt.Errorf("directory is invalid or contains no SQL files: %w", err)}
				}
				return err
			}
			if report.Declined {
				fmt.Fprintln(cmd.OutOrStdout(), report.Summary())
				return nil
			}
			if report.HasErrors() {
				return &exitError{code: 1}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "show what would be renamed without renaming")
	cmd.Flags().BoolVarP(&sorted, "sort", "s", false, "process files in lexicographic order")
	return cmd
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <dir>",
		Short: "Report SQL scripts that are not canonically named",
		Long: `List every .sql file in <dir> that rename would change, with its new
name. Exits 1 if there is at least one, so it can gate CI.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.options()
			opts.Output = nil
			report, err := orchestrator.Plan(args[0], opts)
			if err != nil {
				if scanner.IsInvalidDirectory(err) {
					return &exitError{code: 1, err: fmt.Errorf("directory is invalid or contains no SQL files: %w", err)}
				}
				return err
			}

			pending := report.Pending()
			for _, res := range pending {
				a.out.Planned(res.OldName, res.NewName)
			}
			if len(pending) == 0 {
				a.out.Info("All %d files are canonical.", report.Total)
				return nil
			}
			a.out.Info("%d of %d files are not canonical.", len(pending), report.Total)
			return &exitError{code: 1}
		},
	}
}
