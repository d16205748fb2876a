// FILE: lixenwraith/cli/logging_test.go
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("InfoByDefault", func(t *testing.T) {
		var buf bytes.Buffer
		logger, closeLog, err := NewLogger(LoggerSettings{Format: LogFormatConsole, DatetimeFormat: defaultDatetimeFormat}, &buf)
		require.NoError(t, err)
		defer closeLog()

		logger.Debug("hidden")
		logger.Info("shown")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
		assert.Contains(t, buf.String(), "INFO")
	})

	t.Run("VerboseEnablesDebug", func(t *testing.T) {
		var buf bytes.Buffer
		logger, _, err := NewLogger(LoggerSettings{Verbose: true, Format: LogFormatConsole, DatetimeFormat: defaultDatetimeFormat}, &buf)
		require.NoError(t, err)

		logger.Debug("details")
		assert.Contains(t, buf.String(), "details")
	})

	t.Run("StructuredIsJSON", func(t *testing.T) {
		var buf bytes.Buffer
		logger, _, err := NewLogger(LoggerSettings{Format: LogFormatStructured, DatetimeFormat: "2006"}, &buf)
		require.NoError(t, err)

		logger.Info("event")
		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "event", entry["msg"])
		assert.Equal(t, "INFO", entry["level"])
		assert.Len(t, entry["ts"], 4, "time uses the configured layout")
	})

	t.Run("ColorOnlyForConsole", func(t *testing.T) {
		var buf bytes.Buffer
		logger, _, err := NewLogger(LoggerSettings{Format: LogFormatConsole, DatetimeFormat: defaultDatetimeFormat, Color: true}, &buf)
		require.NoError(t, err)
		logger.Info("colored")
		assert.Contains(t, buf.String(), "\x1b[")

		buf.Reset()
		logger, _, err = NewLogger(LoggerSettings{Format: LogFormatStructured, DatetimeFormat: defaultDatetimeFormat, Color: true}, &buf)
		require.NoError(t, err)
		logger.Info("plain")
		assert.NotContains(t, buf.String(), "\x1b[")
	})

	t.Run("LogFileReceivesDebug", func(t *testing.T) {
		var buf bytes.Buffer
		path := filepath.Join(t.TempDir(), "hello.log")
		logger, closeLog, err := NewLogger(LoggerSettings{Format: LogFormatConsole, DatetimeFormat: defaultDatetimeFormat, Color: true, File: path}, &buf)
		require.NoError(t, err)

		logger.Debug("file only")
		logger.Info("both")
		require.NoError(t, logger.Sync())
		closeLog()

		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(raw), "file only")
		assert.Contains(t, string(raw), "both")
		assert.NotContains(t, string(raw), "\x1b[", "log files are never colored")
		assert.NotContains(t, buf.String(), "file only")
	})

	t.Run("UnsupportedFormat", func(t *testing.T) {
		_, _, err := NewLogger(LoggerSettings{Format: "fancy"}, &bytes.Buffer{})
		assert.Error(t, err)
	})
}

func TestLoggerSettingsFrom(t *testing.T) {
	tree := NewTree()
	general := tree.Section(GeneralSection)

	settings := loggerSettingsFrom(general)
	assert.Equal(t, LoggerSettings{Format: LogFormatConsole, DatetimeFormat: defaultDatetimeFormat, Color: true}, settings)

	general.Set(verboseOption, true)
	general.Set(colorOption, false)
	general.Set(logFormatOption, "structured")
	general.Set(datetimeFmtOption, "15:04")
	general.Set(logFileOption, "/tmp/app.log")

	settings = loggerSettingsFrom(general)
	assert.Equal(t, LoggerSettings{
		Verbose:        true,
		Format:         LogFormatStructured,
		DatetimeFormat: "15:04",
		Color:          false,
		File:           "/tmp/app.log",
	}, settings)
}

func TestAppLoggingFromConfiguration(t *testing.T) {
	app := newTestApp(t, "[general]\nlog_format = structured\n", "--verbose")
	app.Entrypoint("logs", func(ctx context.Context, app *App) error {
		app.Log().Debug("debug from handler")
		return nil
	})

	require.Equal(t, ExitSuccess, app.Run(context.Background()), app.errOut.String())
	lines := strings.Split(strings.TrimSpace(app.errOut.String()), "\n")
	require.NotEmpty(t, lines)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	assert.Equal(t, "debug from handler", entry["msg"])
	assert.Equal(t, "DEBUG", entry["level"])
}
