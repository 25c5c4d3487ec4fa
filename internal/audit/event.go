package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// NewRenameEvent records a successful rename.
func NewRenameEvent(runID RunID, dir, oldName, newName string, identity *FileIdentity) AuditEvent {
	return AuditEvent{
		Timestamp:    time.Now().UTC(),
		RunID:        runID,
		EventType:    EventRename,
		Status:       StatusSuccess,
		Directory:    dir,
		OldName:      oldName,
		NewName:      newName,
		FileIdentity: identity,
	}
}

// NewSkipEvent records a file that was left alone.
func NewSkipEvent(runID RunID, dir, name string, reason ReasonCode) AuditEvent {
	return AuditEvent{
		Timestamp:  time.Now().UTC(),
		RunID:      runID,
		EventType:  EventSkip,
		Status:     StatusSkipped,
		Directory:  dir,
		OldName:    name,
		ReasonCode: reason,
	}
}

// NewErrorEvent records a rename that failed. The error type is taken from
// the innermost error that reports one.
func NewErrorEvent(runID RunID, dir, oldName, newName string, err error) AuditEvent {
	return AuditEvent{
		Timestamp:  time.Now().UTC(),
		RunID:      runID,
		EventType:  EventError,
		Status:     StatusFailure,
		Directory:  dir,
		OldName:    oldName,
		NewName:    newName,
		ReasonCode: ReasonRenameFailed,
		ErrorDetails: &ErrorDetails{
			ErrorType:    errorType(err),
			ErrorMessage: err.Error(),
		},
	}
}

// typed is implemented by error types that carry a machine-readable kind.
type typed interface {
	error
	Kind() string
}

func errorType(err error) string {
	var t typed
	if errors.As(err, &t) {
		return t.Kind()
	}
	return fmt.Sprintf("%T", err)
}

// ParseLine decodes one JSON line into an AuditEvent.
func ParseLine(data []byte) (*AuditEvent, error) {
	var e AuditEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
