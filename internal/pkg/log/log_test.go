package log

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCliLoggerDefaultLevels(t *testing.T) {
	t.Parallel()
	var stdout, stderr bytes.Buffer
	logger := NewCliLogger(&stdout, &stderr, nil, false, false)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")
	require.NoError(t, logger.Sync())

	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "warn message")
	assert.Contains(t, stderr.String(), "error message")
	assert.NotContains(t, stderr.String(), "info message")
}

func TestCliLoggerVerbose(t *testing.T) {
	t.Parallel()
	var stdout, stderr bytes.Buffer
	logger := NewCliLogger(&stdout, &stderr, nil, true, false)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	require.NoError(t, logger.Sync())

	assert.Contains(t, stdout.String(), "info message")
	assert.NotContains(t, stdout.String(), "debug message")
	assert.NotContains(t, stdout.String(), "warn message")
	assert.Contains(t, stderr.String(), "warn message")
}

func TestCliLoggerDebug(t *testing.T) {
	t.Parallel()
	var stdout, stderr bytes.Buffer
	logger := NewCliLogger(&stdout, &stderr, nil, false, true)

	logger.Debug("debug message")
	require.NoError(t, logger.Sync())

	assert.Contains(t, stdout.String(), "debug message")
}

func TestCliLoggerFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "range-repair.log")
	logFile, err := NewLogFile(path)
	require.NoError(t, err)
	assert.False(t, logFile.IsTemp())
	assert.Equal(t, path, logFile.Path())

	var stdout, stderr bytes.Buffer
	logger := NewCliLogger(&stdout, &stderr, logFile, false, false)
	logger.Debug("debug message")
	logger.Info("info message")
	require.NoError(t, logFile.TearDown(false))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"message":"debug message"`)
	assert.Contains(t, string(content), `"message":"info message"`)
	assert.Contains(t, string(content), `"level":"info"`)
}

func TestLogFileTempRemovedOnSuccess(t *testing.T) {
	t.Parallel()
	logFile, err := NewLogFile("")
	require.NoError(t, err)
	assert.True(t, logFile.IsTemp())
	path := logFile.Path()

	require.NoError(t, logFile.TearDown(false))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestLogFileTempPreservedOnError(t *testing.T) {
	t.Parallel()
	logFile, err := NewLogFile("")
	require.NoError(t, err)
	path := logFile.Path()

	require.NoError(t, logFile.TearDown(true))
	_, err = os.Stat(path)
	assert.NoError(t, err)
	assert.NoError(t, os.Remove(path))
}
