// Package audit records an append-only JSON Lines trail of rename runs.
// Each run is bracketed by RUN_START and RUN_END events, with one event per
// file in between.
package audit

import "time"

// RunID is a unique identifier for each batch or watch session.
type RunID string

// EventType represents the type of audit event.
type EventType string

const (
	// Run lifecycle events
	EventRunStart EventType = "RUN_START"
	EventRunEnd   EventType = "RUN_END"

	// File events
	EventRename EventType = "RENAME"
	EventSkip   EventType = "SKIP"
	EventError  EventType = "ERROR"

	// System events
	EventRotation       EventType = "ROTATION"
	EventLogInitialized EventType = "LOG_INITIALIZED"
)

// OperationStatus represents the outcome of an operation.
type OperationStatus string

const (
	StatusSuccess OperationStatus = "SUCCESS"
	StatusFailure OperationStatus = "FAILURE"
	StatusSkipped OperationStatus = "SKIPPED"
)

// ReasonCode explains why a file was skipped or failed.
type ReasonCode string

const (
	ReasonAlreadyCanonical ReasonCode = "ALREADY_CANONICAL"
	ReasonDryRun           ReasonCode = "DRY_RUN"
	ReasonRenameFailed     ReasonCode = "RENAME_FAILED"
)

// RunStatus represents the status of a run.
type RunStatus string

const (
	RunStatusInProgress RunStatus = "IN_PROGRESS"
	RunStatusCompleted  RunStatus = "COMPLETED"
	RunStatusFailed     RunStatus = "FAILED"
	RunStatusDeclined   RunStatus = "DECLINED"
)

// RunType distinguishes one-shot batches from watch sessions.
type RunType string

const (
	RunTypeBatch RunType = "BATCH"
	RunTypeWatch RunType = "WATCH"
)

// FileIdentity captures the content of a renamed file.
type FileIdentity struct {
	ContentHash string    `json:"contentHash"` // SHA-256 hex string
	Size        int64     `json:"size"`
	ModTime     time.Time `json:"modTime"`
}

// ErrorDetails contains detailed information about an error.
type ErrorDetails struct {
	ErrorType    string `json:"errorType"`
	ErrorMessage string `json:"errorMessage"`
}

// AuditEvent is a single line of the audit log.
type AuditEvent struct {
	Timestamp    time.Time         `json:"timestamp"`
	RunID        RunID             `json:"runId,omitempty"`
	EventType    EventType         `json:"eventType"`
	Status       OperationStatus   `json:"status"`
	Directory    string            `json:"directory,omitempty"`
	OldName      string            `json:"oldName,omitempty"`
	NewName      string            `json:"newName,omitempty"`
	ReasonCode   ReasonCode        `json:"reasonCode,omitempty"`
	FileIdentity *FileIdentity     `json:"fileIdentity,omitempty"`
	ErrorDetails *ErrorDetails     `json:"errorDetails,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// RunSummary contains statistics for a completed run.
type RunSummary struct {
	TotalFiles int `json:"totalFiles"`
	Renamed    int `json:"renamed"`
	Unchanged  int `json:"unchanged"`
	Errors     int `json:"errors"`
}

// RunInfo contains metadata and summary for a run.
type RunInfo struct {
	RunID      RunID      `json:"runId"`
	RunType    RunType    `json:"runType"`
	Directory  string     `json:"directory"`
	StartTime  time.Time  `json:"startTime"`
	EndTime    *time.Time `json:"endTime,omitempty"`
	Status     RunStatus  `json:"status"`
	AppVersion string     `json:"appVersion"`
	Summary    RunSummary `json:"summary"`
}

// AuditConfig holds configuration for the audit log.
type AuditConfig struct {
	Enabled      bool   `json:"enabled" yaml:"enabled" toml:"enabled"`
	LogDirectory string `json:"logDirectory" yaml:"logDirectory" toml:"logDirectory"`
	RotationSize int64  `json:"rotationSizeBytes" yaml:"rotationSizeBytes" toml:"rotationSizeBytes"` // Rotate when the active file reaches this size
}

// DefaultAuditConfig returns an AuditConfig with sensible defaults.
// Auditing is off unless enabled explicitly.
func DefaultAuditConfig() AuditConfig {
	return AuditConfig{
		Enabled:      false,
		LogDirectory: ".sqlnamer/audit",
		RotationSize: 10 * 1024 * 1024, // 10MB
	}
}
