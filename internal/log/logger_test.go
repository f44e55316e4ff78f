package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dirsort/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf))

	l.Info("info message")
	assert.Contains(t, buf.String(), "level=info")
	assert.Contains(t, buf.String(), "info message")
	buf.Reset()

	l.Warn("warn message")
	assert.Contains(t, buf.String(), "level=warning")
	buf.Reset()

	l.Error("error message")
	assert.Contains(t, buf.String(), "level=error")
	buf.Reset()

	l.Infof("formatted %s", "message")
	assert.Contains(t, buf.String(), "formatted message")
}

func TestDebugLogging(t *testing.T) {
	var buf bytes.Buffer

	l := NewLogger(WithOutput(&buf))
	l.Debug("hidden")
	assert.Empty(t, buf.String())

	l = NewLogger(WithOutput(&buf), WithLevel("debug"))
	l.Debugf("shown %d", 1)
	assert.Contains(t, buf.String(), "level=debug")
	assert.Contains(t, buf.String(), "shown 1")
}

func TestSetDebug(t *testing.T) {
	originalLogger := logger
	defer func() { logger = originalLogger }()

	var buf bytes.Buffer
	Configure(WithOutput(&buf))

	Debug("before")
	assert.Empty(t, buf.String())
	assert.False(t, IsDebug())

	SetDebug(true)
	assert.True(t, IsDebug())
	Debugf("after %s", "enabling")
	assert.Contains(t, buf.String(), "after enabling")

	SetDebug(false)
	assert.False(t, IsDebug())
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf), WithLevel("chatty"))
	assert.Contains(t, buf.String(), "Invalid log level 'chatty'")
	buf.Reset()

	l.Debug("hidden")
	l.Info("visible")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "visible")
}

func TestStructuredLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf))

	l.With(F("key1", "value1"), F("key2", 123)).Info("structured message")
	output := buf.String()
	assert.Contains(t, output, "structured message")
	assert.Contains(t, output, "key1=value1")
	assert.Contains(t, output, "key2=123")
	buf.Reset()

	l.With(F("key1", "value1")).With(F("key2", 123)).Info("chained fields")
	output = buf.String()
	assert.Contains(t, output, "key1=value1")
	assert.Contains(t, output, "key2=123")
}

func TestJSONLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf), WithJSON())

	l.With(F("entry", "a.png"), F("count", 3)).Info("json message")

	var logEntry map[string]interface{}
	err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &logEntry)
	require.NoError(t, err)

	assert.Equal(t, "info", logEntry["level"])
	assert.Equal(t, "json message", logEntry["message"])
	assert.Contains(t, logEntry, "timestamp")
	assert.Equal(t, "a.png", logEntry["entry"])
	assert.Equal(t, float64(3), logEntry["count"]) // JSON numbers are float64
}

func TestErrorLogging(t *testing.T) {
	originalLogger := logger
	defer func() { logger = originalLogger }()

	var buf bytes.Buffer
	Configure(WithOutput(&buf))

	LogWithFields(F("error", "standard error")).Error("error occurred")
	assert.Contains(t, buf.String(), "error occurred")
	assert.Contains(t, buf.String(), "standard error")
	buf.Reset()

	appErr := errors.New("application error")
	LogWithError(appErr).Error("app error occurred")
	assert.Contains(t, buf.String(), "application error")
	assert.Contains(t, buf.String(), "error_kind=unknown")
	buf.Reset()

	fileErr := errors.NewEntryIOError("failed to move entry", "/tmp/x/a.png", nil)
	LogWithError(fileErr).Error("entry failed")
	assert.Contains(t, buf.String(), "entry failed")
	assert.Contains(t, buf.String(), "path=/tmp/x/a.png")
	assert.Contains(t, buf.String(), "error_kind=entry_io")
	buf.Reset()

	configErr := errors.NewConfigError("config error", "logging.level", errors.InvalidConfig, nil)
	LogWithError(configErr).Error("config error occurred")
	assert.Contains(t, buf.String(), "param=logging.level")
	assert.Contains(t, buf.String(), "error_kind=invalid_config")
	buf.Reset()

	LogError(fmt.Errorf("wrapped: %w", fileErr), "convenient error log")
	assert.Contains(t, buf.String(), "convenient error log")
	assert.Contains(t, buf.String(), "error_kind=entry_io")
}

func TestNilErrorHandling(t *testing.T) {
	originalLogger := logger
	defer func() { logger = originalLogger }()

	var buf bytes.Buffer
	Configure(WithOutput(&buf))

	LogWithError(nil).Error("nil error test")
	assert.Contains(t, buf.String(), "nil error test")
	assert.Contains(t, buf.String(), "<nil>")
}

func TestFileOutput(t *testing.T) {
	originalLogger := logger
	defer func() { logger = originalLogger }()

	logPath := filepath.Join(t.TempDir(), "dirsort.log")
	var buf bytes.Buffer
	Configure(WithOutput(&buf), WithFile(logPath))
	defer func() {
		if logger.file != nil {
			logger.file.Close()
		}
	}()

	Info("file test message")

	assert.Contains(t, buf.String(), "file test message")
	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "file test message")
}

func TestConfigure(t *testing.T) {
	originalLogger := logger
	defer func() { logger = originalLogger }()

	var buf bytes.Buffer
	Configure(WithOutput(&buf), WithJSON())
	Infof("global %s", "config test")

	var logEntry map[string]interface{}
	err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &logEntry)
	require.NoError(t, err)
	assert.Equal(t, "global config test", logEntry["message"])
}
