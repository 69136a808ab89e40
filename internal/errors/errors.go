package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// ErrorType represents the type of error
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeValidation
	ErrorTypeNetwork
	ErrorTypeFileSystem
	ErrorTypeParsing
	ErrorTypeConfiguration
	ErrorTypePermission
	ErrorTypeInstall
)

// String returns the string representation of the error type
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeValidation:
		return "VALIDATION"
	case ErrorTypeNetwork:
		return "NETWORK"
	case ErrorTypeFileSystem:
		return "IO"
	case ErrorTypeParsing:
		return "PARSE"
	case ErrorTypeConfiguration:
		return "CONFIGURATION"
	case ErrorTypePermission:
		return "PERMISSION"
	case ErrorTypeInstall:
		return "INSTALL"
	default:
		return "UNKNOWN"
	}
}

// Error codes shared across packages
const (
	CodeHTTPStatus      = "HTTP_STATUS"
	CodeTransport       = "TRANSPORT"
	CodeInvalidJSON     = "INVALID_JSON"
	CodeInvalidManifest = "INVALID_MANIFEST"
	CodeDownloadFailed  = "DOWNLOAD_FAILED"
	CodeNotFound        = "NOT_FOUND"
	CodeWriteFailed     = "WRITE_FAILED"
	CodeDeleteFailed    = "DELETE_FAILED"
	CodeListFailed      = "LIST_FAILED"
	CodeOpenFailed      = "OPEN_FAILED"
	CodeDenied          = "DENIED"
	CodeInvalidConfig   = "INVALID_CONFIG"
)

// LauncherError is an error with a category, a stable code and
// suggestions for the user
type LauncherError struct {
	Type        ErrorType         `json:"type"`
	Code        string            `json:"code"`
	Message     string            `json:"message"`
	Cause       error             `json:"cause,omitempty"`
	Context     map[string]string `json:"context,omitempty"`
	Suggestions []string          `json:"suggestions,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}

// Error implements the error interface
func (e *LauncherError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *LauncherError) Unwrap() error {
	return e.Cause
}

// Is matches another LauncherError with the same type and code
func (e *LauncherError) Is(target error) bool {
	if t, ok := target.(*LauncherError); ok {
		return e.Type == t.Type && e.Code == t.Code
	}
	return false
}

// WithContext adds context to the error
func (e *LauncherError) WithContext(key, value string) *LauncherError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion to the error
func (e *LauncherError) WithSuggestion(suggestion string) *LauncherError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *LauncherError) WithSuggestions(suggestions []string) *LauncherError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// FormatDetailed returns a detailed error message with context and suggestions
func (e *LauncherError) FormatDetailed() string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("%s error [%s]: %s\n", e.Type.String(), e.Code, e.Message))

	if len(e.Context) > 0 {
		builder.WriteString("\nContext:\n")
		for key, value := range e.Context {
			builder.WriteString(fmt.Sprintf("   %s: %s\n", key, value))
		}
	}

	if e.Cause != nil {
		builder.WriteString(fmt.Sprintf("\nCause: %v\n", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		builder.WriteString("\nSuggestions:\n")
		for _, suggestion := range e.Suggestions {
			builder.WriteString(fmt.Sprintf("   • %s\n", suggestion))
		}
	}

	return builder.String()
}

// NewError creates a new LauncherError
func NewError(errorType ErrorType, code, message string) *LauncherError {
	return &LauncherError{
		Type:      errorType,
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// WrapError wraps an existing error with a LauncherError
func WrapError(err error, errorType ErrorType, code, message string) *LauncherError {
	e := NewError(errorType, code, message)
	e.Cause = err
	return e
}

// NewNetworkError creates a network error
func NewNetworkError(code, message string) *LauncherError {
	return NewError(ErrorTypeNetwork, code, message).
		WithSuggestions([]string{
			"Check your internet connection",
			"Verify the manifest URL is reachable",
		})
}

// NewParsingError creates a parsing error
func NewParsingError(code, message string) *LauncherError {
	return NewError(ErrorTypeParsing, code, message).
		WithSuggestion("Verify the manifest is valid JSON with a \"versions\" list")
}

// NewFileSystemError creates a filesystem error
func NewFileSystemError(code, message string) *LauncherError {
	return NewError(ErrorTypeFileSystem, code, message).
		WithSuggestions([]string{
			"Check file permissions",
			"Ensure the path exists",
			"Verify disk space availability",
		})
}

// NewInstallError creates an install error
func NewInstallError(code, message string) *LauncherError {
	return NewError(ErrorTypeInstall, code, message).
		WithSuggestion("Open the downloaded file with a file manager and install it manually")
}

// NewPermissionError creates a permission error
func NewPermissionError(code, message string) *LauncherError {
	return NewError(ErrorTypePermission, code, message).
		WithSuggestions([]string{
			"Run 'mclauncher permission request'",
			"Grant storage access in the system settings",
		})
}

// NewConfigurationError creates a configuration error
func NewConfigurationError(code, message string) *LauncherError {
	return NewError(ErrorTypeConfiguration, code, message).
		WithSuggestions([]string{
			"Check the configuration file syntax",
			"Run 'mclauncher config init' to regenerate configuration",
		})
}

// TypeOf returns the category of err, or ErrorTypeUnknown
func TypeOf(err error) ErrorType {
	var le *LauncherError
	if stderrors.As(err, &le) {
		return le.Type
	}
	return ErrorTypeUnknown
}

// IsType reports whether err is a LauncherError of the given type
func IsType(err error, t ErrorType) bool {
	return err != nil && TypeOf(err) == t
}

// CodeOf returns the code of err, or "" if it carries none
func CodeOf(err error) string {
	var le *LauncherError
	if stderrors.As(err, &le) {
		return le.Code
	}
	return ""
}

// ContextValue returns the context entry key attached to err
func ContextValue(err error, key string) (string, bool) {
	var le *LauncherError
	if !stderrors.As(err, &le) || le.Context == nil {
		return "", false
	}
	v, ok := le.Context[key]
	return v, ok
}

// Logger interface for error logging
type Logger interface {
	Error(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
}

// ErrorStats tracks error statistics
type ErrorStats struct {
	TotalErrors   int               `json:"total_errors"`
	ErrorsByType  map[ErrorType]int `json:"errors_by_type"`
	ErrorsByCode  map[string]int    `json:"errors_by_code"`
	LastError     *LauncherError    `json:"last_error,omitempty"`
	LastErrorTime time.Time         `json:"last_error_time"`
}

// ErrorHandler logs errors and keeps counts
type ErrorHandler struct {
	mu     sync.Mutex
	logger Logger
	stats  *ErrorStats
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
		stats:  newStats(),
	}
}

func newStats() *ErrorStats {
	return &ErrorStats{
		ErrorsByType: make(map[ErrorType]int),
		ErrorsByCode: make(map[string]int),
	}
}

// Handle logs err and records it in the statistics.
// The returned value is err as a LauncherError.
func (eh *ErrorHandler) Handle(err error) *LauncherError {
	if err == nil {
		return nil
	}

	var le *LauncherError
	if !stderrors.As(err, &le) {
		le = WrapError(err, ErrorTypeUnknown, "UNKNOWN", "unexpected error")
	}

	eh.mu.Lock()
	eh.stats.TotalErrors++
	eh.stats.ErrorsByType[le.Type]++
	eh.stats.ErrorsByCode[le.Code]++
	eh.stats.LastError = le
	eh.stats.LastErrorTime = time.Now()
	eh.mu.Unlock()

	if eh.logger != nil {
		eh.logger.Error("%s [%s] %s", le.Type.String(), le.Code, err.Error())
		for key, value := range le.Context {
			eh.logger.Debug("error context: %s = %s", key, value)
		}
	}

	return le
}

// GetStats returns a copy of the error statistics
func (eh *ErrorHandler) GetStats() ErrorStats {
	eh.mu.Lock()
	defer eh.mu.Unlock()

	stats := *eh.stats
	stats.ErrorsByType = make(map[ErrorType]int, len(eh.stats.ErrorsByType))
	for k, v := range eh.stats.ErrorsByType {
		stats.ErrorsByType[k] = v
	}
	stats.ErrorsByCode = make(map[string]int, len(eh.stats.ErrorsByCode))
	for k, v := range eh.stats.ErrorsByCode {
		stats.ErrorsByCode[k] = v
	}
	return stats
}

// Reset resets error statistics
func (eh *ErrorHandler) Reset() {
	eh.mu.Lock()
	defer eh.mu.Unlock()
	eh.stats = newStats()
}
