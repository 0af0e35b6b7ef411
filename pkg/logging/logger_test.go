package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"WARN", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.input))
		})
	}
}

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf)
	logger.Info().Str("source", "pbs").Msg("parsed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "parsed", entry["message"])
	assert.Equal(t, "pbs", entry["source"])
	assert.Contains(t, entry, "time")
}

func TestConfigureLevel(t *testing.T) {
	defer Configure(DefaultConfig())

	var buf bytes.Buffer
	Configure(&Config{Level: "error", Format: "json", Output: "discard"})
	logger := New(&buf)

	logger.Info().Msg("dropped")
	assert.Empty(t, buf.String())

	logger.Error().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestWriterFormat(t *testing.T) {
	t.Run("json explicit", func(t *testing.T) {
		w := writer(&Config{Format: "json", Output: "stderr"})
		_, isConsole := w.(zerolog.ConsoleWriter)
		assert.False(t, isConsole)
	})

	t.Run("console explicit", func(t *testing.T) {
		w := writer(&Config{Format: "console", Output: "stderr"})
		_, isConsole := w.(zerolog.ConsoleWriter)
		assert.True(t, isConsole)
	})
}
