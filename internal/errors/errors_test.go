package errors

import (
	"errors"
	"testing"
)

func TestTreebankError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *TreebankError
		expected string
	}{
		{
			name:     "message only",
			err:      &TreebankError{Message: "something failed"},
			expected: "something failed",
		},
		{
			name:     "with language",
			err:      &TreebankError{Language: "json", Message: "corpus unreadable"},
			expected: "[json] corpus unreadable",
		},
		{
			name:     "with language and example",
			err:      &TreebankError{Language: "json", Example: "nested arrays", Message: "tree mismatch"},
			expected: "[json] nested arrays: tree mismatch",
		},
		{
			name:     "example without language not included",
			err:      &TreebankError{Example: "nested arrays", Message: "something failed"},
			expected: "something failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestTreebankError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := &TreebankError{
		Message: "wrapper",
		Cause:   cause,
	}

	if got := err.Unwrap(); got != cause {
		t.Errorf("Unwrap() = %v, want %v", got, cause)
	}

	// Test nil cause
	errNoCause := &TreebankError{Message: "no cause"}
	if got := errNoCause.Unwrap(); got != nil {
		t.Errorf("Unwrap() = %v, want nil", got)
	}
}

func TestTreebankError_ExitCode(t *testing.T) {
	tests := []struct {
		name     string
		kind     ErrorKind
		expected int
	}{
		{"test failure", KindTest, ExitTestFailure},
		{"setup", KindSetup, ExitSetupError},
		{"usage", KindUsage, ExitSetupError},
		{"not found", KindNotFound, ExitSetupError},
		{"diagnostic", KindDiagnostic, ExitDiagnosticError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &TreebankError{Kind: tt.kind}
			if got := err.ExitCode(); got != tt.expected {
				t.Errorf("ExitCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestNew(t *testing.T) {
	err := New("test error")

	if err.Kind != KindTest {
		t.Errorf("Kind = %v, want %v", err.Kind, KindTest)
	}
	if err.Message != "test error" {
		t.Errorf("Message = %q, want %q", err.Message, "test error")
	}
}

func TestNewf(t *testing.T) {
	err := Newf("error %d: %s", 42, "details")

	if err.Kind != KindTest {
		t.Errorf("Kind = %v, want %v", err.Kind, KindTest)
	}
	if err.Message != "error 42: details" {
		t.Errorf("Message = %q, want %q", err.Message, "error 42: details")
	}
}

func TestSetup(t *testing.T) {
	err := Setup("missing fixtures")

	if err.Kind != KindSetup {
		t.Errorf("Kind = %v, want %v", err.Kind, KindSetup)
	}
	if err.Message != "missing fixtures" {
		t.Errorf("Message = %q, want %q", err.Message, "missing fixtures")
	}
	if err.ExitCode() != ExitSetupError {
		t.Errorf("ExitCode() = %d, want %d", err.ExitCode(), ExitSetupError)
	}
}

func TestSetupf(t *testing.T) {
	err := Setupf("grammar %q: %s", "json", "is unreadable")

	if err.Kind != KindSetup {
		t.Errorf("Kind = %v, want %v", err.Kind, KindSetup)
	}
	expected := `grammar "json": is unreadable`
	if err.Message != expected {
		t.Errorf("Message = %q, want %q", err.Message, expected)
	}
}

func TestDiagnostic(t *testing.T) {
	err := Diagnostic("cannot open graph log")

	if err.Kind != KindDiagnostic {
		t.Errorf("Kind = %v, want %v", err.Kind, KindDiagnostic)
	}
	if err.ExitCode() != ExitDiagnosticError {
		t.Errorf("ExitCode() = %d, want %d", err.ExitCode(), ExitDiagnosticError)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("original error")
	err := Wrap(cause, "wrapped message")

	if err.Kind != KindSetup {
		t.Errorf("Kind = %v, want %v", err.Kind, KindSetup)
	}
	if err.Message != "wrapped message" {
		t.Errorf("Message = %q, want %q", err.Message, "wrapped message")
	}
	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap() should return original cause")
	}
}

func TestCaseError(t *testing.T) {
	err := CaseError("json", "nested arrays", "tree mismatch")

	if err.Kind != KindTest {
		t.Errorf("Kind = %v, want %v", err.Kind, KindTest)
	}
	if err.Language != "json" {
		t.Errorf("Language = %q, want %q", err.Language, "json")
	}
	if err.Example != "nested arrays" {
		t.Errorf("Example = %q, want %q", err.Example, "nested arrays")
	}

	// Verify formatted error message
	expected := "[json] nested arrays: tree mismatch"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNotFound(t *testing.T) {
	err := NotFound("language", "nonexistent")

	if err.Kind != KindNotFound {
		t.Errorf("Kind = %v, want %v", err.Kind, KindNotFound)
	}
	expected := "language not found: nonexistent"
	if err.Message != expected {
		t.Errorf("Message = %q, want %q", err.Message, expected)
	}
	if err.ExitCode() != ExitSetupError {
		t.Errorf("ExitCode() = %d, want %d", err.ExitCode(), ExitSetupError)
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, ExitSuccess},
		{"test failure", New("mismatch"), ExitTestFailure},
		{"setup", Setup("no fixtures"), ExitSetupError},
		{"diagnostic", Diagnostic("no graph log"), ExitDiagnosticError},
		{"usage", Usage("unknown flag"), ExitSetupError},
		{"generic error", errors.New("generic"), ExitTestFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.expected {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestErrorKindConstants(t *testing.T) {
	// Verify error kinds have distinct values
	kinds := []ErrorKind{KindTest, KindSetup, KindNotFound, KindUsage, KindDiagnostic}
	seen := make(map[ErrorKind]bool)

	for _, k := range kinds {
		if seen[k] {
			t.Errorf("Duplicate ErrorKind value: %v", k)
		}
		seen[k] = true
	}
}

func TestExitCodeConstants(t *testing.T) {
	if ExitSuccess != 0 {
		t.Errorf("ExitSuccess = %d, want 0", ExitSuccess)
	}
	if ExitTestFailure != 1 {
		t.Errorf("ExitTestFailure = %d, want 1", ExitTestFailure)
	}
	if ExitSetupError != 2 {
		t.Errorf("ExitSetupError = %d, want 2", ExitSetupError)
	}
	if ExitDiagnosticError != 3 {
		t.Errorf("ExitDiagnosticError = %d, want 3", ExitDiagnosticError)
	}
}
