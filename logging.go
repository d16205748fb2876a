// FILE: lixenwraith/cli/logging.go
package cli

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultDatetimeFormat = "2006-01-02 15:04:05"

// LogFormat enumerates supported logger output encodings.
type LogFormat string

const (
	LogFormatStructured LogFormat = "structured"
	LogFormatConsole    LogFormat = "console"
)

var logFormatEncodingMapping = map[LogFormat]string{
	LogFormatStructured: "json",
	LogFormatConsole:    "console",
}

// LoggerSettings is the logging part of the general section.
type LoggerSettings struct {
	Verbose        bool
	Format         LogFormat
	DatetimeFormat string // Go time layout
	Color          bool
	File           string
}

// loggerSettingsFrom reads logger settings from a merged section; unset options keep defaults.
func loggerSettingsFrom(section *Section) LoggerSettings {
	settings := LoggerSettings{
		Format:         LogFormatConsole,
		DatetimeFormat: defaultDatetimeFormat,
		Color:          true,
	}
	if verbose, err := section.Bool(verboseOption); err == nil {
		settings.Verbose = verbose
	}
	if format, err := section.String(logFormatOption); err == nil && format != "" {
		settings.Format = LogFormat(format)
	}
	if layout, err := section.String(datetimeFmtOption); err == nil && layout != "" {
		settings.DatetimeFormat = layout
	}
	if color, err := section.Bool(colorOption); err == nil {
		settings.Color = color
	}
	if file, err := section.String(logFileOption); err == nil {
		settings.File = file
	}
	return settings
}

// NewLogger builds a logger writing to w, plus a tee to settings.File when set.
// The returned function closes the log file.
func NewLogger(settings LoggerSettings, w io.Writer) (*zap.Logger, func(), error) {
	encoding, formatExists := logFormatEncodingMapping[settings.Format]
	if !formatExists {
		return nil, nil, fmt.Errorf("unsupported log format: %s", settings.Format)
	}

	level := zapcore.InfoLevel
	if settings.Verbose {
		level = zapcore.DebugLevel
	}

	printCore := zapcore.NewCore(
		newEncoder(encoding, settings.DatetimeFormat, settings.Color && encoding == "console"),
		zapcore.AddSync(w),
		level,
	)

	if settings.File == "" {
		return zap.New(printCore), func() {}, nil
	}

	file, err := os.OpenFile(settings.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file '%s': %w", settings.File, err)
	}
	fileCore := zapcore.NewCore(
		newEncoder(encoding, settings.DatetimeFormat, false),
		zapcore.AddSync(file),
		zapcore.DebugLevel,
	)

	closeFile := func() { file.Close() }
	return zap.New(zapcore.NewTee(printCore, fileCore)), closeFile, nil
}

func newEncoder(encoding, layout string, color bool) zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(layout)
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	if color {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	if encoding == "json" {
		return zapcore.NewJSONEncoder(encoderConfig)
	}
	return zapcore.NewConsoleEncoder(encoderConfig)
}

// configureLoggingLocked replaces the diagnostic logger with one built from the general section.
// An injected logger is kept as is.
func (a *App) configureLoggingLocked() error {
	if a.fixedLogger {
		return nil
	}

	logger, closeLog, err := NewLogger(loggerSettingsFrom(a.config.Section(GeneralSection)), a.errOut)
	if err != nil {
		// Keep errors visible with a plain console logger
		a.logger, _, _ = NewLogger(LoggerSettings{Format: LogFormatConsole, DatetimeFormat: defaultDatetimeFormat}, a.errOut)
		return err
	}
	a.logger = logger
	a.closeLog = closeLog
	return nil
}

// flushLog syncs buffered entries and closes the log file
func (a *App) flushLog() {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	_ = a.logger.Sync()
	if a.closeLog != nil {
		a.closeLog()
		a.closeLog = nil
	}
}
