package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger to provide a consistent interface
type Logger struct {
	zerolog.Logger

	closers []io.Closer
}

// Close closes any log files opened for the logger.
func (l *Logger) Close() error {
	var firstErr error
	for _, c := range l.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	l.closers = nil
	return firstErr
}

// parseLevel maps a config level onto zerolog, defaulting to info.
func parseLevel(level string) zerolog.Level {
	switch level {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger creates a console logger on stderr with the specified level
func NewLogger(level string) *Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return NewLoggerWithOutput(level, output)
}

// NewLoggerWithOutput creates a logger writing to a specific output
func NewLoggerWithOutput(level string, w io.Writer) *Logger {
	logger := zerolog.New(w).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Logger()

	return &Logger{Logger: logger}
}

// NewLoggerFromConfig builds a logger from the logging section. Outputs may
// include "console" and "file". A file that cannot be opened is skipped with
// a warning on stderr. Call Close to release the file.
func NewLoggerFromConfig(cfg LoggingConfig) *Logger {
	return newLoggerFromConfig(cfg, os.Stderr)
}

func newLoggerFromConfig(cfg LoggingConfig, console io.Writer) *Logger {
	var (
		writers []io.Writer
		closers []io.Closer
		skipped error
	)
	for _, out := range cfg.Outputs {
		switch out {
		case "console":
			writers = append(writers, consoleWriter(cfg.Format, console))
		case "file":
			f, err := openLogFile(cfg.FilePath)
			if err != nil {
				skipped = err
				continue
			}
			writers = append(writers, f)
			closers = append(closers, f)
		}
	}

	var logger *Logger
	switch len(writers) {
	case 0:
		logger = NewLoggerWithOutput(cfg.Level, consoleWriter(cfg.Format, console))
	case 1:
		logger = NewLoggerWithOutput(cfg.Level, writers[0])
	default:
		logger = NewLoggerWithOutput(cfg.Level, zerolog.MultiLevelWriter(writers...))
	}
	logger.closers = closers

	if skipped != nil {
		warn := NewLoggerWithOutput("warn", consoleWriter(cfg.Format, console))
		warn.Warn().Err(skipped).Str("path", cfg.FilePath).Msg("Log file output skipped")
	}
	return logger
}

func consoleWriter(format string, w io.Writer) io.Writer {
	if format == "json" {
		return w
	}
	return zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
}

func openLogFile(path string) (*os.File, error) {
	if path == "" {
		return nil, fmt.Errorf("file output requires file_path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// NewDefaultLogger creates a logger with default settings
func NewDefaultLogger() *Logger {
	return NewLogger("info")
}

// NewSilentLogger creates a logger that discards all output
func NewSilentLogger() *Logger {
	logger := zerolog.New(io.Discard)
	return &Logger{Logger: logger}
}
