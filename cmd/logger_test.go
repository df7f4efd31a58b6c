package cmd

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	level, err := parseLevel("debug")
	require.NoError(t, err)
	require.Equal(t, slog.LevelDebug, level)

	level, err = parseLevel("WARN")
	require.NoError(t, err)
	require.Equal(t, slog.LevelWarn, level)

	_, err = parseLevel("loud")
	require.Error(t, err)
}

func TestNewLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, slog.LevelWarn, true)

	logger.Info("hidden")
	logger.Warn("tool call failed", "err", errors.New("warehouse offline"))

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "tool call failed")
	require.Contains(t, out, "warehouse offline")
}

func TestFileLoggerWritesNextToConfig(t *testing.T) {
	old := logLevel
	logLevel = "warn"
	t.Cleanup(func() { logLevel = old })

	dir := t.TempDir()
	logger, closeLog, err := fileLogger(dir)
	require.NoError(t, err)
	logger.Info("chat started")
	closeLog()

	data, err := os.ReadFile(filepath.Join(dir, logFileName))
	require.NoError(t, err)
	require.Contains(t, string(data), "chat started")
}
