package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel converts a config value into a LogLevel.
// Unknown values fall back to warn.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogLevelDebug
	case "info":
		return LogLevelInfo
	case "error":
		return LogLevelError
	default:
		return LogLevelWarn
	}
}

func (l LogLevel) color() *color.Color {
	switch l {
	case LogLevelDebug:
		return color.New(color.FgCyan)
	case LogLevelInfo:
		return color.New(color.FgGreen)
	case LogLevelWarn:
		return color.New(color.FgYellow)
	case LogLevelError:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.Reset)
	}
}

// Logger interface defines the logging contract
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})

	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
}

// LogFormat represents the log output format
type LogFormat int

const (
	LogFormatText LogFormat = iota
	LogFormatJSON
	LogFormatCompact
)

// ParseLogFormat converts a config value into a LogFormat
func ParseLogFormat(s string) LogFormat {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return LogFormatJSON
	case "compact":
		return LogFormatCompact
	default:
		return LogFormatText
	}
}

// LoggerConfig contains logger configuration
type LoggerConfig struct {
	Level       LogLevel
	Format      LogFormat
	Output      io.Writer
	FilePath    string
	EnableColor bool
}

// DefaultLoggerConfig returns a default logger configuration
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{
		Level:       LogLevelWarn,
		Format:      LogFormatText,
		Output:      os.Stderr,
		EnableColor: true,
	}
}

// LauncherLogger is the main logger implementation
type LauncherLogger struct {
	config *LoggerConfig
	mu     *sync.Mutex
	logger *log.Logger
	fields map[string]interface{}
	file   *os.File
}

// NewLogger creates a new logger with the given configuration
func NewLogger(config *LoggerConfig) (*LauncherLogger, error) {
	if config == nil {
		config = DefaultLoggerConfig()
	}
	if config.Output == nil {
		config.Output = os.Stderr
	}

	l := &LauncherLogger{
		config: config,
		mu:     &sync.Mutex{},
		fields: make(map[string]interface{}),
	}

	output := config.Output
	if config.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(config.FilePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		l.file = file
		output = io.MultiWriter(config.Output, file)
	}

	l.logger = log.New(output, "", 0)
	return l, nil
}

// Debug logs a debug message
func (l *LauncherLogger) Debug(msg string, args ...interface{}) {
	l.log(LogLevelDebug, msg, args...)
}

// Info logs an info message
func (l *LauncherLogger) Info(msg string, args ...interface{}) {
	l.log(LogLevelInfo, msg, args...)
}

// Warn logs a warning message
func (l *LauncherLogger) Warn(msg string, args ...interface{}) {
	l.log(LogLevelWarn, msg, args...)
}

// Error logs an error message
func (l *LauncherLogger) Error(msg string, args ...interface{}) {
	l.log(LogLevelError, msg, args...)
}

func (l *LauncherLogger) log(level LogLevel, msg string, args ...interface{}) {
	if level < l.config.Level {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")

	var entry string
	switch l.config.Format {
	case LogFormatJSON:
		entry = l.jsonEntry(level, msg, timestamp)
	case LogFormatCompact:
		entry = l.colorize(level, fmt.Sprintf("%c %s %s", level.String()[0], timestamp[11:], msg))
	default:
		entry = l.colorize(level, fmt.Sprintf("[%s] %s%s %s", timestamp, level.String(), l.formatFields(), msg))
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.Print(entry)
}

func (l *LauncherLogger) colorize(level LogLevel, s string) string {
	if !l.config.EnableColor {
		return s
	}
	c := level.color()
	c.EnableColor()
	return c.Sprint(s)
}

func (l *LauncherLogger) formatFields() string {
	if len(l.fields) == 0 {
		return ""
	}

	keys := make([]string, 0, len(l.fields))
	for k := range l.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, l.fields[k]))
	}
	return " {" + strings.Join(parts, ", ") + "}"
}

func (l *LauncherLogger) jsonEntry(level LogLevel, msg string, timestamp string) string {
	entry := map[string]interface{}{
		"timestamp": timestamp,
		"level":     level.String(),
		"message":   msg,
	}
	for k, v := range l.fields {
		entry[k] = v
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Sprintf(`{"level":%q,"message":%q}`, level.String(), msg)
	}
	return string(data)
}

// SetLevel sets the logging level
func (l *LauncherLogger) SetLevel(level LogLevel) {
	l.config.Level = level
}

// WithField returns a logger with an additional field
func (l *LauncherLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// WithFields returns a logger with additional fields
func (l *LauncherLogger) WithFields(fields map[string]interface{}) Logger {
	child := &LauncherLogger{
		config: l.config,
		mu:     l.mu,
		logger: l.logger,
		fields: make(map[string]interface{}, len(l.fields)+len(fields)),
		file:   l.file,
	}
	for k, v := range l.fields {
		child.fields[k] = v
	}
	for k, v := range fields {
		child.fields[k] = v
	}
	return child
}

// Close closes the logger and any open files
func (l *LauncherLogger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

var globalLogger Logger

// InitGlobalLogger initializes the global logger
func InitGlobalLogger(config *LoggerConfig) (*LauncherLogger, error) {
	logger, err := NewLogger(config)
	if err != nil {
		return nil, err
	}
	globalLogger = logger
	return logger, nil
}

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() Logger {
	if globalLogger == nil {
		logger, _ := NewLogger(DefaultLoggerConfig())
		globalLogger = logger
	}
	return globalLogger
}

// NopLogger discards everything
type NopLogger struct{}

func (NopLogger) Debug(string, ...interface{})               {}
func (NopLogger) Info(string, ...interface{})                {}
func (NopLogger) Warn(string, ...interface{})                {}
func (NopLogger) Error(string, ...interface{})               {}
func (n NopLogger) WithField(string, interface{}) Logger     { return n }
func (n NopLogger) WithFields(map[string]interface{}) Logger { return n }

// Convenience functions for global logger
func Debug(msg string, args ...interface{}) {
	GetGlobalLogger().Debug(msg, args...)
}

func Info(msg string, args ...interface{}) {
	GetGlobalLogger().Info(msg, args...)
}

func Warn(msg string, args ...interface{}) {
	GetGlobalLogger().Warn(msg, args...)
}

func Error(msg string, args ...interface{}) {
	GetGlobalLogger().Error(msg, args...)
}
