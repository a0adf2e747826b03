package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"trace", zapcore.DebugLevel},
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"bogus", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestDefaultLoggerConfig(t *testing.T) {
	cfg := DefaultLoggerConfig("joyjoin")

	assert.Equal(t, "joyjoin", cfg.ServiceName)
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.Empty(t, cfg.File)
}

func TestNewLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultLoggerConfig("joyjoin")
	cfg.Output = &buf

	log := NewLogger(cfg)
	log.Info("field validated", zap.String("field", "login"))
	log.Debug("suppressed at info level")
	require.NoError(t, log.Sync())

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "field validated", entry["msg"])
	assert.Equal(t, "login", entry["field"])
	assert.Equal(t, "joyjoin", entry["logger"])
}

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "joyjoin.log")
	cfg := DefaultLoggerConfig("joyjoin")
	cfg.File = path
	cfg.Level = "debug"

	log := NewLogger(cfg)
	log.Debug("written to file")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}
