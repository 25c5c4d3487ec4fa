package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSONAtLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: LevelInfo, Writer: &buf})
	require.NoError(t, err)

	logger.Debug().Msg("hidden")
	logger.Info().Str("file", "1.a.sql").Msg("renamed")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "1.a.sql", entry["file"])
	assert.Equal(t, "renamed", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNewConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: LevelDebug, Writer: &buf, Console: true, NoColor: true})
	require.NoError(t, err)

	logger.Error().Str("file", "x.sql").Msg("rename failed")

	out := buf.String()
	assert.Contains(t, out, "rename failed")
	assert.Contains(t, out, "file=x.sql")
	assert.Contains(t, out, "ERR")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"", zerolog.WarnLevel},
		{"warn", zerolog.WarnLevel},
		{"DEBUG", zerolog.DebugLevel},
		{" info ", zerolog.InfoLevel},
		{"error", zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)

	_, err = New(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestLevelFromFlags(t *testing.T) {
	assert.Equal(t, LevelDebug, LevelFromFlags(true, true, true, LevelWarn))
	assert.Equal(t, LevelInfo, LevelFromFlags(true, true, false, LevelWarn))
	assert.Equal(t, LevelError, LevelFromFlags(true, false, false, LevelWarn))
	assert.Equal(t, LevelWarn, LevelFromFlags(false, false, false, LevelWarn))
}
