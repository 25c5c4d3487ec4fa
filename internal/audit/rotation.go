package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const segmentPrefix = "sqlnamer-audit-"

// needsRotation reports whether the file at logPath has reached maxSize.
// A maxSize of zero disables rotation.
func needsRotation(logPath string, maxSize int64) (bool, error) {
	if maxSize <= 0 {
		return false, nil
	}
	info, err := os.Stat(logPath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat log file: %w", err)
	}
	return info.Size() >= maxSize, nil
}

// rotatedFilename picks an unused segment name in logDir, e.g.
// sqlnamer-audit-20240115-093000-123-000.jsonl. Names sort chronologically;
// the trailing counter separates rotations within the same millisecond.
func rotatedFilename(logDir string, now time.Time) string {
	stamp := fmt.Sprintf("%s-%03d", now.Format("20060102-150405"), now.Nanosecond()/1000000)
	for seq := 0; ; seq++ {
		name := fmt.Sprintf("%s%s-%03d.jsonl", segmentPrefix, stamp, seq)
		if _, err := os.Stat(filepath.Join(logDir, name)); os.IsNotExist(err) {
			return name
		}
	}
}

func newRotationEvent(runID RunID, segment string) AuditEvent {
	return AuditEvent{
		Timestamp: time.Now().UTC(),
		RunID:     runID,
		EventType: EventRotation,
		Status:    StatusSuccess,
		Metadata: map[string]string{
			"rotatedTo": segment,
		},
	}
}

// LogFiles returns all log segments in logDir, oldest first, with the
// active log last.
func LogFiles(logDir string) ([]string, error) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read log directory: %w", err)
	}

	var segments []string
	hasActive := false
	for _, entry := range entries {
		name := entry.Name()
		switch {
		case entry.IsDir():
		case name == ActiveLogName:
			hasActive = true
		case strings.HasPrefix(name, segmentPrefix) && strings.HasSuffix(name, ".jsonl"):
			segments = append(segments, filepath.Join(logDir, name))
		}
	}
	sort.Strings(segments)

	if hasActive {
		segments = append(segments, filepath.Join(logDir, ActiveLogName))
	}
	return segments, nil
}

func encodeLine(event AuditEvent) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
