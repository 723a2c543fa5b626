package treebank_test

import (
	"testing"

	"github.com/AndreyAkinshin/treebank/internal/errors"
	"github.com/AndreyAkinshin/treebank/pkg/treebank"
)

// TestExitCodeValues verifies that exit code constants have the expected
// values.
func TestExitCodeValues(t *testing.T) {
	tests := []struct {
		name     string
		constant int
		expected int
	}{
		{"ExitSuccess", treebank.ExitSuccess, 0},
		{"ExitTestFailure", treebank.ExitTestFailure, 1},
		{"ExitSetupError", treebank.ExitSetupError, 2},
		{"ExitDiagnosticError", treebank.ExitDiagnosticError, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.constant != tt.expected {
				t.Errorf("treebank.%s = %d, want %d", tt.name, tt.constant, tt.expected)
			}
		})
	}
}

// TestExitCodeConsistency verifies that public exit code constants match
// the internal errors package constants. This prevents drift between
// the public API and internal implementation.
func TestExitCodeConsistency(t *testing.T) {
	tests := []struct {
		name     string
		public   int
		internal int
	}{
		{"Success", treebank.ExitSuccess, errors.ExitSuccess},
		{"TestFailure", treebank.ExitTestFailure, errors.ExitTestFailure},
		{"SetupError", treebank.ExitSetupError, errors.ExitSetupError},
		{"DiagnosticError", treebank.ExitDiagnosticError, errors.ExitDiagnosticError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.public != tt.internal {
				t.Errorf("exit code mismatch: treebank constant = %d, errors constant = %d",
					tt.public, tt.internal)
			}
		})
	}
}
