package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"sqlnamer/internal/audit"
)

func newHistoryCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded rename runs",
		Long: `List runs recorded in the audit log, newest first. With a run ID (or a
unique prefix of one), show every event in that run.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := audit.NewAuditReader(a.cfg.Audit.LogDirectory)
			runs, err := reader.ListRuns()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
				return nil
			}

			if len(args) == 1 {
				run, err := findRun(runs, args[0])
				if err != nil {
					return err
				}
				events, err := reader.GetRun(run.RunID)
				if err != nil {
					return err
				}
				printEvents(cmd, run, events)
				return nil
			}

			// newest first
			for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
				runs[i], runs[j] = runs[j], runs[i]
			}
			if limit > 0 && len(runs) > limit {
				runs = runs[:limit]
			}
			printRuns(cmd, runs)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "show at most this many runs (0 for all)")
	return cmd
}

func findRun(runs []audit.RunInfo, prefix string) (audit.RunInfo, error) {
	var matches []audit.RunInfo
	for _, run := range runs {
		if strings.HasPrefix(string(run.RunID), prefix) {
			matches = append(matches, run)
		}
	}
	switch len(matches) {
	case 0:
		return audit.RunInfo{}, fmt.Errorf("no run matches %q", prefix)
	case 1:
		return matches[0], nil
	default:
		return audit.RunInfo{}, fmt.Errorf("%q matches %d runs", prefix, len(matches))
	}
}

func printRuns(cmd *cobra.Command, runs []audit.RunInfo) {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSTARTED\tTYPE\tSTATUS\tRENAMED\tDIRECTORY")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d/%d\t%s\n",
			shortID(run.RunID),
			run.StartTime.Local().Format("2006-01-02 15:04:05"),
			strings.ToLower(string(run.RunType)),
			strings.ToLower(string(run.Status)),
			run.Summary.Renamed, run.Summary.TotalFiles,
			run.Directory)
	}
	tw.Flush()
}

func printEvents(cmd *cobra.Command, run audit.RunInfo, events []audit.AuditEvent) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s in %s (%s)\n", run.RunID, run.Directory, strings.ToLower(string(run.Status)))
	for _, e := range events {
		ts := e.Timestamp.Local().Format("15:04:05")
		switch e.EventType {
		case audit.EventRename:
			fmt.Fprintf(out, "  %s  renamed   %s -> %s\n", ts, e.OldName, e.NewName)
		case audit.EventSkip:
			fmt.Fprintf(out, "  %s  unchanged %s\n", ts, e.OldName)
		case audit.EventError:
			msg := ""
			if e.ErrorDetails != nil {
				msg = e.ErrorDetails.ErrorMessage
			}
			fmt.Fprintf(out, "  %s  failed    %s: %s\n", ts, e.OldName, msg)
		}
	}
}

func shortID(id audit.RunID) string {
	if len(id) > 8 {
		return string(id[:8])
	}
	return string(id)
}
