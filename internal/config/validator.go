package config

import (
	"os"
	"path/filepath"
	"strconv"

	"sqlnamer/internal/audit"
	"sqlnamer/internal/logging"
	"sqlnamer/internal/scanner"
)

// ValidationSeverity represents the severity of a validation issue.
type ValidationSeverity string

const (
	SeverityError   ValidationSeverity = "error"
	SeverityWarning ValidationSeverity = "warning"
)

// ConfigValidationError represents a single validation issue.
type ConfigValidationError struct {
	Field    string // e.g. "watch.ignorePatterns[2]"
	Message  string
	Severity ValidationSeverity
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	Errors   []ConfigValidationError
	Warnings []ConfigValidationError
	Valid    bool // True if no errors (warnings OK)
}

func (r *ValidationResult) add(issues []ConfigValidationError) {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			r.Errors = append(r.Errors, issue)
		} else {
			r.Warnings = append(r.Warnings, issue)
		}
	}
}

// ValidateConfig checks the configuration and returns all findings.
func ValidateConfig(cfg *Configuration) *ValidationResult {
	result := &ValidationResult{
		Errors:   []ConfigValidationError{},
		Warnings: []ConfigValidationError{},
	}

	result.add(ValidatePolicies(cfg))
	result.add(ValidateAudit(cfg))
	result.add(ValidateWatch(cfg))

	result.Valid = len(result.Errors) == 0
	return result
}

// ValidatePolicies checks the symlink policy and log level.
func ValidatePolicies(cfg *Configuration) []ConfigValidationError {
	var errs []ConfigValidationError

	switch cfg.SymlinkPolicy {
	case "", scanner.SymlinkPolicyFollow, scanner.SymlinkPolicySkip, scanner.SymlinkPolicyError:
	default:
		errs = append(errs, ConfigValidationError{
			Field:    "symlinkPolicy",
			Message:  "invalid symlink policy: \"" + cfg.SymlinkPolicy + "\". Must be \"follow\", \"skip\", or \"error\"",
			Severity: SeverityError,
		})
	}

	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		errs = append(errs, ConfigValidationError{
			Field:    "logLevel",
			Message:  err.Error(),
			Severity: SeverityError,
		})
	}

	return errs
}

// ValidateAudit checks the audit section. The log directory must be a
// directory if it already exists.
func ValidateAudit(cfg *Configuration) []ConfigValidationError {
	var errs []ConfigValidationError
	if cfg.Audit == nil {
		return errs
	}

	if cfg.Audit.RotationSize < 0 {
		errs = append(errs, ConfigValidationError{
			Field:    "audit.rotationSizeBytes",
			Message:  "rotationSizeBytes must not be negative",
			Severity: SeverityError,
		})
	}

	if dir := cfg.Audit.LogDirectory; dir != "" {
		if info, err := os.Stat(dir); err == nil && !info.IsDir() {
			errs = append(errs, ConfigValidationError{
				Field:    "audit.logDirectory",
				Message:  "path exists but is not a directory: " + dir,
				Severity: SeverityError,
			})
		}
	}

	if !cfg.Audit.Enabled && cfg.Audit.LogDirectory != "" && cfg.Audit.LogDirectory != audit.DefaultAuditConfig().LogDirectory {
		errs = append(errs, ConfigValidationError{
			Field:    "audit.logDirectory",
			Message:  "logDirectory is set but auditing is disabled",
			Severity: SeverityWarning,
		})
	}

	return errs
}

// ValidateWatch checks the watch section.
func ValidateWatch(cfg *Configuration) []ConfigValidationError {
	var errs []ConfigValidationError
	if cfg.Watch == nil {
		return errs
	}

	if cfg.Watch.DebounceMs < 0 {
		errs = append(errs, ConfigValidationError{
			Field:    "watch.debounceMs",
			Message:  "debounceMs must not be negative",
			Severity: SeverityError,
		})
	}
	if cfg.Watch.StableThresholdMs < 0 {
		errs = append(errs, ConfigValidationError{
			Field:    "watch.stableThresholdMs",
			Message:  "stableThresholdMs must not be negative",
			Severity: SeverityError,
		})
	}
	for i, pattern := range cfg.Watch.IgnorePatterns {
		if _, err := filepath.Match(pattern, ""); err != nil {
			errs = append(errs, ConfigValidationError{
				Field:    formatField("watch.ignorePatterns", i),
				Message:  "invalid glob pattern: \"" + pattern + "\"",
				Severity: SeverityError,
			})
		}
	}

	return errs
}

func formatField(name string, index int) string {
	return name + "[" + strconv.Itoa(index) + "]"
}
