// Package orchestrator coordinates the rename workflow for one directory.
package orchestrator

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"sqlnamer/internal/audit"
	"sqlnamer/internal/normalizer"
	"sqlnamer/internal/output"
	"sqlnamer/internal/renamer"
	"sqlnamer/internal/scanner"
)

// ConfirmFunc is asked once per batch, after the directory has been listed.
// Returning false declines the batch before any file is touched.
type ConfirmFunc func(directory string, total int) bool

// Options controls a batch run. The zero value is usable: it proceeds
// without confirmation, writes nothing and renames in listing order.
type Options struct {
	Confirm       ConfirmFunc
	DryRun        bool
	Sort          bool
	SymlinkPolicy string
	Logger        *zerolog.Logger
	Output        *output.Output
	Audit         *audit.AuditWriter
	AppVersion    string
}

func (o Options) logger() *zerolog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	nop := zerolog.Nop()
	return &nop
}

func (o Options) out() *output.Output {
	if o.Output != nil {
		return o.Output
	}
	return output.Discard()
}

// ScanOptions returns the listing options a batch uses.
func (o Options) ScanOptions() scanner.ScanOptions {
	opts := scanner.DefaultScanOptions()
	if o.SymlinkPolicy != "" {
		opts.SymlinkPolicy = o.SymlinkPolicy
	}
	opts.Sort = o.Sort
	return opts
}

// Outcome describes what happened to a single file.
type Outcome string

const (
	OutcomeRenamed   Outcome = "renamed"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeFailed    Outcome = "failed"
	OutcomePlanned   Outcome = "planned"
)

// Result represents the outcome of processing a single file.
type Result struct {
	OldName string
	NewName string
	Outcome Outcome
	Err     error
}

// Report is the outcome of one batch.
type Report struct {
	Directory string
	Total     int // SQL files found
	Renamed   int // successful renames only
	Unchanged int
	Failed    int
	Declined  bool
	DryRun    bool
	Results   []Result
	Duration  time.Duration
}

// Run renames every non-canonical SQL file in dir. Directory problems are
// returned as *scanner.ScanError; a failed rename is recorded in the report
// and the batch moves on to the next file.
func Run(dir string, opts Options) (*Report, error) {
	start := time.Now()
	log := opts.logger()
	out := opts.out()

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory: %w", err)
	}
	if err := scanner.ValidateWithOptions(absDir, opts.ScanOptions()); err != nil {
		return nil, err
	}
	files, err := scanner.ListWithOptions(absDir, opts.ScanOptions())
	if err != nil {
		return nil, err
	}

	report := &Report{
		Directory: absDir,
		Total:     len(files),
		DryRun:    opts.DryRun,
		Results:   make([]Result, 0, len(files)),
	}
	log.Debug().Str("directory", absDir).Int("files", len(files)).Msg("directory listed")
	out.Info("Found %d SQL files in %s", len(files), absDir)

	if opts.Confirm != nil && !opts.Confirm(absDir, len(files)) {
		report.Declined = true
		report.Duration = time.Since(start)
		log.Info().Str("directory", absDir).Msg("batch declined")
		if opts.Audit != nil && !opts.DryRun {
			if err := recordDeclined(opts.Audit, absDir, opts.AppVersion, report); err != nil {
				return report, err
			}
		}
		return report, nil
	}

	var runID audit.RunID
	if opts.Audit != nil && !opts.DryRun {
		runID, err = opts.Audit.StartRun(audit.RunTypeBatch, absDir, opts.AppVersion)
		if err != nil {
			return nil, fmt.Errorf("failed to start audit run: %w", err)
		}
	}

	for _, file := range files {
		result := process(absDir, file.Name, opts.DryRun)
		report.add(result)

		switch result.Outcome {
		case OutcomeRenamed:
			out.Renamed(report.Renamed, report.Total, result.OldName, result.NewName)
			log.Info().Str("file", result.OldName).Str("new", result.NewName).Msg("renamed")
		case OutcomePlanned:
			out.Planned(result.OldName, result.NewName)
		case OutcomeUnchanged:
			out.Verbose("unchanged: %s", result.OldName)
			log.Debug().Str("file", result.OldName).Msg("already canonical")
		case OutcomeFailed:
			out.RenameFailed(result.OldName, result.Err)
			log.Error().Str("file", result.OldName).Err(result.Err).Msg("rename failed")
		}

		if err := auditResult(opts.Audit, log, runID, absDir, result); err != nil {
			return report, err
		}
	}

	report.Duration = time.Since(start)
	out.Info("%s", report.Summary())

	if opts.Audit != nil && !opts.DryRun {
		if err := opts.Audit.EndRun(runID, report.runStatus(), report.auditSummary()); err != nil {
			return report, fmt.Errorf("failed to end audit run: %w", err)
		}
	}
	return report, nil
}

// RenameOne normalizes and renames a single file. The watcher feeds files
// through here one at a time.
func RenameOne(path string, opts Options) (Result, error) {
	log := opts.logger()
	out := opts.out()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to resolve path: %w", err)
	}
	dir, name := filepath.Split(absPath)
	dir = filepath.Clean(dir)
	if !scanner.IsSQLFile(name) {
		return Result{OldName: name, NewName: name, Outcome: OutcomeUnchanged}, nil
	}

	result := process(dir, name, opts.DryRun)
	switch result.Outcome {
	case OutcomeRenamed:
		out.Info("Renamed: %s -> %s", result.OldName, result.NewName)
		log.Info().Str("file", result.OldName).Str("new", result.NewName).Msg("renamed")
	case OutcomePlanned:
		out.Planned(result.OldName, result.NewName)
	case OutcomeFailed:
		out.RenameFailed(result.OldName, result.Err)
		log.Error().Str("file", result.OldName).Err(result.Err).Msg("rename failed")
	}
	return result, nil
}

// RenameOneAudited is RenameOne with the result recorded under runID.
func RenameOneAudited(path string, runID audit.RunID, opts Options) (Result, error) {
	result, err := RenameOne(path, opts)
	if err != nil {
		return result, err
	}
	dir := filepath.Dir(path)
	if abs, absErr := filepath.Abs(dir); absErr == nil {
		dir = abs
	}
	return result, auditResult(opts.Audit, opts.logger(), runID, dir, result)
}

func recordDeclined(w *audit.AuditWriter, dir, appVersion string, report *Report) error {
	runID, err := w.StartRun(audit.RunTypeBatch, dir, appVersion)
	if err != nil {
		return fmt.Errorf("failed to start audit run: %w", err)
	}
	if err := w.EndRun(runID, audit.RunStatusDeclined, report.auditSummary()); err != nil {
		return fmt.Errorf("failed to end audit run: %w", err)
	}
	return nil
}

func process(dir, name string, dryRun bool) Result {
	normalized := normalizer.Normalize(name)
	if normalized.Unchanged {
		return Result{OldName: name, NewName: name, Outcome: OutcomeUnchanged}
	}
	result := Result{OldName: name, NewName: normalized.NewName}
	if dryRun {
		result.Outcome = OutcomePlanned
		return result
	}
	if err := renamer.Rename(dir, name, normalized.NewName); err != nil {
		result.Outcome = OutcomeFailed
		result.Err = err
		return result
	}
	result.Outcome = OutcomeRenamed
	return result
}

func auditResult(w *audit.AuditWriter, log *zerolog.Logger, runID audit.RunID, dir string, result Result) error {
	if w == nil || runID == "" {
		return nil
	}
	var event audit.AuditEvent
	switch result.Outcome {
	case OutcomeRenamed:
		identity, err := audit.CaptureIdentity(filepath.Join(dir, result.NewName))
		if err != nil {
			// The event is still written, without an identity.
			log.Warn().Str("file", result.NewName).Err(err).Msg("failed to capture file identity")
		}
		event = audit.NewRenameEvent(runID, dir, result.OldName, result.NewName, identity)
	case OutcomeUnchanged:
		event = audit.NewSkipEvent(runID, dir, result.OldName, audit.ReasonAlreadyCanonical)
	case OutcomeFailed:
		event = audit.NewErrorEvent(runID, dir, result.OldName, result.NewName, result.Err)
	default:
		return nil
	}
	if err := w.WriteEvent(event); err != nil {
		return fmt.Errorf("failed to write audit event: %w", err)
	}
	return nil
}
