// Package treebank provides public constants and utilities for external
// tools integrating with Treebank.
package treebank

// Exit codes returned by the treebank CLI.
// These constants allow external tools to check exit codes symbolically
// rather than using magic numbers.
const (
	// ExitSuccess indicates every selected corpus case passed.
	ExitSuccess = 0

	// ExitTestFailure indicates one or more corpus cases failed.
	ExitTestFailure = 1

	// ExitSetupError indicates a setup error (missing fixtures, a grammar
	// that fails to compile, bad usage, etc.).
	ExitSetupError = 2

	// ExitDiagnosticError indicates diagnostic instrumentation (event
	// tracing or graph capture) could not be set up.
	ExitDiagnosticError = 3
)
