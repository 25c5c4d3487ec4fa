package audit

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// AuditReader reads runs back from an audit log directory.
type AuditReader struct {
	logDir string
}

// NewAuditReader creates a reader for logDir.
func NewAuditReader(logDir string) *AuditReader {
	return &AuditReader{logDir: logDir}
}

// ReadAll returns every event across all segments in write order.
func (r *AuditReader) ReadAll() ([]AuditEvent, error) {
	files, err := LogFiles(r.logDir)
	if err != nil {
		return nil, err
	}

	var events []AuditEvent
	for _, path := range files {
		fileEvents, err := readEventsFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read events from %s: %w", path, err)
		}
		events = append(events, fileEvents...)
	}
	return events, nil
}

// ListRuns returns one RunInfo per run, oldest first.
func (r *AuditReader) ListRuns() ([]RunInfo, error) {
	events, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	byRun := make(map[RunID]*RunInfo)
	for _, event := range events {
		if event.RunID == "" {
			continue
		}
		info, ok := byRun[event.RunID]
		if !ok {
			info = &RunInfo{RunID: event.RunID, Status: RunStatusInProgress}
			byRun[event.RunID] = info
		}
		applyEvent(info, event)
	}

	runs := make([]RunInfo, 0, len(byRun))
	for _, info := range byRun {
		runs = append(runs, *info)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartTime.Before(runs[j].StartTime)
	})
	return runs, nil
}

// GetRun returns the events belonging to runID.
func (r *AuditReader) GetRun(runID RunID) ([]AuditEvent, error) {
	events, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	var out []AuditEvent
	for _, event := range events {
		if event.RunID == runID && event.EventType != EventRotation {
			out = append(out, event)
		}
	}
	return out, nil
}

func applyEvent(info *RunInfo, event AuditEvent) {
	switch event.EventType {
	case EventRunStart:
		info.StartTime = event.Timestamp
		info.Directory = event.Directory
		info.RunType = RunType(event.Metadata["runType"])
		info.AppVersion = event.Metadata["appVersion"]
	case EventRunEnd:
		end := event.Timestamp
		info.EndTime = &end
		if status, ok := event.Metadata["status"]; ok {
			info.Status = RunStatus(status)
		}
		info.Summary = RunSummary{
			TotalFiles: atoi(event.Metadata["totalFiles"]),
			Renamed:    atoi(event.Metadata["renamed"]),
			Unchanged:  atoi(event.Metadata["unchanged"]),
			Errors:     atoi(event.Metadata["errors"]),
		}
	}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func readEventsFromFile(path string) ([]AuditEvent, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer file.Close()

	var events []AuditEvent
	scanner := bufio.NewScanner(file)
	const maxLine = 1024 * 1024
	scanner.Buffer(make([]byte, 64*1024), maxLine)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		event, err := ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("failed to parse line %d: %w", lineNum, err)
		}
		events = append(events, *event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading log file: %w", err)
	}
	return events, nil
}
