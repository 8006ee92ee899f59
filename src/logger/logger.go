package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger defines the interface for logging throughout the application.
// Different implementations can be used for different contexts (console, silent, structured, etc.)
type Logger interface {
	Info(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
}

// ConsoleLogger writes human-readable logs to stdout/stderr.
// Used for normal operation and debugging.
type ConsoleLogger struct{}

func NewConsoleLogger() *ConsoleLogger {
	return &ConsoleLogger{}
}

func (c *ConsoleLogger) Info(msg string, args ...interface{}) {
	fmt.Printf("[INFO] "+msg+"\n", args...)
}

func (c *ConsoleLogger) Error(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "[ERROR] "+msg+"\n", args...)
}

func (c *ConsoleLogger) Debug(msg string, args ...interface{}) {
	fmt.Printf("[DEBUG] "+msg+"\n", args...)
}

// SilentLogger discards all log messages.
// Used by the TUI and the MCP stdio server, where stdout belongs to the protocol or display.
type SilentLogger struct{}

func NewSilentLogger() *SilentLogger {
	return &SilentLogger{}
}

func (s *SilentLogger) Info(msg string, args ...interface{})  {}
func (s *SilentLogger) Error(msg string, args ...interface{}) {}
func (s *SilentLogger) Debug(msg string, args ...interface{}) {}

// StructuredLogger formats printf-style messages and hands them to slog.
// Used by the long-running selection agent.
type StructuredLogger struct {
	logger *slog.Logger
}

// NewStructuredLogger writes to w. level is one of debug, info, warn, error
// (default debug); format "json" selects the JSON handler, anything else text.
func NewStructuredLogger(w io.Writer, level, format string) *StructuredLogger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return &StructuredLogger{logger: slog.New(handler)}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}

// With returns a logger that adds the key/value attributes to every record.
func (s *StructuredLogger) With(args ...any) *StructuredLogger {
	return &StructuredLogger{logger: s.logger.With(args...)}
}

func (s *StructuredLogger) Info(msg string, args ...interface{}) {
	s.logger.Info(fmt.Sprintf(msg, args...))
}

func (s *StructuredLogger) Error(msg string, args ...interface{}) {
	s.logger.Error(fmt.Sprintf(msg, args...))
}

func (s *StructuredLogger) Debug(msg string, args ...interface{}) {
	s.logger.Debug(fmt.Sprintf(msg, args...))
}

// FromConfig picks the console logger unless a log format was configured,
// in which case records go through slog on stderr.
func FromConfig(level, format string) Logger {
	if format == "" {
		return NewConsoleLogger()
	}
	return NewStructuredLogger(os.Stderr, level, format)
}
