package audit

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ActiveLogName is the filename of the log segment currently written to.
const ActiveLogName = "sqlnamer-audit.jsonl"

// AuditWriter appends events to the audit log. Every event is flushed and
// synced before the call returns.
type AuditWriter struct {
	mu         sync.Mutex
	file       *os.File
	writer     *bufio.Writer
	logPath    string
	config     AuditConfig
	currentRun *RunID
}

// NewAuditWriter opens (or creates) the active log in config.LogDirectory.
// A fresh log starts with a LOG_INITIALIZED event.
func NewAuditWriter(config AuditConfig) (*AuditWriter, error) {
	if err := os.MkdirAll(config.LogDirectory, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logPath := filepath.Join(config.LogDirectory, ActiveLogName)
	_, statErr := os.Stat(logPath)
	isNewLog := os.IsNotExist(statErr)

	w := &AuditWriter{
		logPath: logPath,
		config:  config,
	}
	if err := w.open(); err != nil {
		return nil, err
	}

	if isNewLog {
		event := AuditEvent{
			Timestamp: time.Now().UTC(),
			EventType: EventLogInitialized,
			Status:    StatusSuccess,
		}
		if err := w.writeEventLocked(event); err != nil {
			w.file.Close()
			return nil, fmt.Errorf("failed to write LOG_INITIALIZED event: %w", err)
		}
	}

	return w, nil
}

// GenerateRunID returns a new random run identifier.
func GenerateRunID() (RunID, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate run ID: %w", err)
	}
	return RunID(id.String()), nil
}

// StartRun writes RUN_START and returns the new run's ID.
func (w *AuditWriter) StartRun(runType RunType, directory, appVersion string) (RunID, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	runID, err := GenerateRunID()
	if err != nil {
		return "", err
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		RunID:     runID,
		EventType: EventRunStart,
		Status:    StatusSuccess,
		Directory: directory,
		Metadata: map[string]string{
			"runType":    string(runType),
			"appVersion": appVersion,
		},
	}
	if err := w.writeEventLocked(event); err != nil {
		return "", fmt.Errorf("failed to write RUN_START event: %w", err)
	}

	w.currentRun = &runID
	return runID, nil
}

// WriteEvent appends a single event.
func (w *AuditWriter) WriteEvent(event AuditEvent) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.writeEventLocked(event)
}

// EndRun writes RUN_END with the final status and counts.
func (w *AuditWriter) EndRun(runID RunID, status RunStatus, summary RunSummary) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	opStatus := StatusSuccess
	if status == RunStatusFailed {
		opStatus = StatusFailure
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		RunID:     runID,
		EventType: EventRunEnd,
		Status:    opStatus,
		Metadata: map[string]string{
			"status":     string(status),
			"totalFiles": strconv.Itoa(summary.TotalFiles),
			"renamed":    strconv.Itoa(summary.Renamed),
			"unchanged":  strconv.Itoa(summary.Unchanged),
			"errors":     strconv.Itoa(summary.Errors),
		},
	}
	if err := w.writeEventLocked(event); err != nil {
		return fmt.Errorf("failed to write RUN_END event: %w", err)
	}

	w.currentRun = nil
	return nil
}

// LogPath returns the path of the active log file.
func (w *AuditWriter) LogPath() string {
	return w.logPath
}

// Close flushes any buffered data and closes the audit log file.
func (w *AuditWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush on close: %w", err)
	}
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("failed to close audit log: %w", err)
	}
	return nil
}

func (w *AuditWriter) open() error {
	file, err := os.OpenFile(w.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	w.file = file
	w.writer = bufio.NewWriter(file)
	return nil
}

// writeEventLocked writes one JSON line, syncs it, and rotates the log if it
// has grown past the configured size.
func (w *AuditWriter) writeEventLocked(event AuditEvent) error {
	if err := w.appendLocked(event); err != nil {
		return err
	}
	if event.EventType == EventRotation {
		return nil
	}
	return w.rotateIfNeededLocked()
}

func (w *AuditWriter) appendLocked(event AuditEvent) error {
	data, err := encodeLine(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if _, err := w.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	if err := w.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush event: %w", err)
	}
	if err := w.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync event to disk: %w", err)
	}
	return nil
}

// rotateIfNeededLocked moves the active log aside once it reaches
// RotationSize. The ROTATION event is the last line of the old segment.
func (w *AuditWriter) rotateIfNeededLocked() error {
	needs, err := needsRotation(w.logPath, w.config.RotationSize)
	if err != nil || !needs {
		return err
	}

	segment := rotatedFilename(filepath.Dir(w.logPath), time.Now())
	var runID RunID
	if w.currentRun != nil {
		runID = *w.currentRun
	}
	if err := w.appendLocked(newRotationEvent(runID, segment)); err != nil {
		return fmt.Errorf("failed to write rotation event: %w", err)
	}
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("failed to close file for rotation: %w", err)
	}
	if err := os.Rename(w.logPath, filepath.Join(filepath.Dir(w.logPath), segment)); err != nil {
		return fmt.Errorf("failed to rotate log: %w", err)
	}
	return w.open()
}
