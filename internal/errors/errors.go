// Package errors provides structured error types and exit codes for Treebank.
package errors

import (
	"fmt"
)

// Exit codes reported by the treebank process.
const (
	ExitSuccess         = 0 // Success
	ExitTestFailure     = 1 // One or more corpus cases failed
	ExitSetupError      = 2 // Setup error (missing fixtures, bad grammar, usage, etc.)
	ExitDiagnosticError = 3 // Diagnostic error (trace or graph capture could not be set up)
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindTest ErrorKind = iota
	KindSetup
	KindNotFound
	KindUsage
	KindDiagnostic
)

// TreebankError is the base error type for Treebank.
type TreebankError struct {
	Kind     ErrorKind
	Message  string
	Language string // Language or test-grammar name if applicable
	Example  string // Example name if applicable
	Cause    error  // Underlying error
}

func (e *TreebankError) Error() string {
	if e.Language != "" && e.Example != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Language, e.Example, e.Message)
	}
	if e.Language != "" {
		return fmt.Sprintf("[%s] %s", e.Language, e.Message)
	}
	return e.Message
}

func (e *TreebankError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *TreebankError) ExitCode() int {
	switch e.Kind {
	case KindSetup, KindNotFound, KindUsage:
		return ExitSetupError
	case KindDiagnostic:
		return ExitDiagnosticError
	default:
		return ExitTestFailure
	}
}

// New creates a new test-failure error.
func New(message string) *TreebankError {
	return &TreebankError{
		Kind:    KindTest,
		Message: message,
	}
}

// Newf creates a new test-failure error with formatting.
func Newf(format string, args ...interface{}) *TreebankError {
	return New(fmt.Sprintf(format, args...))
}

// Setup creates a new setup error.
func Setup(message string) *TreebankError {
	return &TreebankError{
		Kind:    KindSetup,
		Message: message,
	}
}

// Setupf creates a new setup error with formatting.
func Setupf(format string, args ...interface{}) *TreebankError {
	return Setup(fmt.Sprintf(format, args...))
}

// Diagnostic creates a new diagnostic-instrumentation error.
func Diagnostic(message string) *TreebankError {
	return &TreebankError{
		Kind:    KindDiagnostic,
		Message: message,
	}
}

// Diagnosticf creates a new diagnostic-instrumentation error with formatting.
func Diagnosticf(format string, args ...interface{}) *TreebankError {
	return Diagnostic(fmt.Sprintf(format, args...))
}

// Usage creates a new command-usage error.
func Usage(message string) *TreebankError {
	return &TreebankError{
		Kind:    KindUsage,
		Message: message,
	}
}

// Wrap wraps an error with additional context as a setup error.
func Wrap(err error, message string) *TreebankError {
	return &TreebankError{
		Kind:    KindSetup,
		Message: message,
		Cause:   err,
	}
}

// CaseError creates a test-failure error for a specific example.
func CaseError(language, example, message string) *TreebankError {
	return &TreebankError{
		Kind:     KindTest,
		Language: language,
		Example:  example,
		Message:  message,
	}
}

// NotFound creates a not found error.
func NotFound(what, name string) *TreebankError {
	return &TreebankError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found: %s", what, name),
	}
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if te, ok := err.(*TreebankError); ok {
		return te.ExitCode()
	}
	return ExitTestFailure
}
