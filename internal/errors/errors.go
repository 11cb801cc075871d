// Package errors provides structured error types and exit codes for convtest.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Exit codes returned by the convtest CLI.
const (
	ExitSuccess          = 0 // Success, every outcome passed
	ExitRuntimeError     = 1 // Runtime error or at least one failed outcome
	ExitConfigError      = 2 // Configuration error (invalid config, unbuildable converter graph)
	ExitEnvironmentError = 3 // Environment error (missing working directory, unreadable samples)
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindConfig
	KindEnvironment
)

// ConvtestError is the base error type for convtest.
type ConvtestError struct {
	Kind    ErrorKind
	Message string
	Format  string // File format if applicable
	Path    string // Converter path if applicable
	Cause   error  // Underlying error
}

func (e *ConvtestError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	if e.Format != "" && e.Path != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Format, e.Path, msg)
	}
	if e.Format != "" {
		return fmt.Sprintf("[%s] %s", e.Format, msg)
	}
	return msg
}

func (e *ConvtestError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *ConvtestError) ExitCode() int {
	switch e.Kind {
	case KindConfig:
		return ExitConfigError
	case KindEnvironment:
		return ExitEnvironmentError
	default:
		return ExitRuntimeError
	}
}

// New creates a new runtime error.
func New(message string) *ConvtestError {
	return &ConvtestError{
		Kind:    KindRuntime,
		Message: message,
	}
}

// Config creates a new configuration error.
func Config(message string) *ConvtestError {
	return &ConvtestError{
		Kind:    KindConfig,
		Message: message,
	}
}

// Configf creates a new configuration error with formatting.
func Configf(format string, args ...interface{}) *ConvtestError {
	return Config(fmt.Sprintf(format, args...))
}

// Environment creates a new environment error.
func Environment(message string) *ConvtestError {
	return &ConvtestError{
		Kind:    KindEnvironment,
		Message: message,
	}
}

// Environmentf creates a new environment error with formatting.
func Environmentf(format string, args ...interface{}) *ConvtestError {
	return Environment(fmt.Sprintf(format, args...))
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *ConvtestError {
	return &ConvtestError{
		Kind:    KindRuntime,
		Message: message,
		Cause:   err,
	}
}

// WrapConfig wraps an error as a configuration error.
func WrapConfig(err error, message string) *ConvtestError {
	return &ConvtestError{
		Kind:    KindConfig,
		Message: message,
		Cause:   err,
	}
}

// WrapEnvironment wraps an error as an environment error.
func WrapEnvironment(err error, message string) *ConvtestError {
	return &ConvtestError{
		Kind:    KindEnvironment,
		Message: message,
		Cause:   err,
	}
}

// PathError creates a configuration error for a converter path of a specific
// format. An empty path renders the format alone.
func PathError(format, path, message string) *ConvtestError {
	return &ConvtestError{
		Kind:    KindConfig,
		Format:  format,
		Path:    path,
		Message: message,
	}
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ce *ConvtestError
	if stderrors.As(err, &ce) {
		return ce.ExitCode()
	}
	return ExitRuntimeError
}
