// Package main tests for the treebank CLI entry point.
package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// runCLI executes the CLI with a scrubbed environment and returns the
// combined output and the exit code. The binary is built and run directly
// because go run does not propagate the child's exit code on older
// toolchains.
func runCLI(t *testing.T, args ...string) (string, int) {
	t.Helper()

	bin := filepath.Join(t.TempDir(), "treebank")
	build := exec.Command("go", "build", "-o", bin, ".")
	build.Env = scrubbedEnv()
	if buildOut, err := build.CombinedOutput(); err != nil {
		t.Fatalf("go build failed: %v\noutput: %s", err, buildOut)
	}

	cmd := exec.Command(bin, args...)
	cmd.Env = scrubbedEnv()
	out, err := cmd.CombinedOutput()
	if err == nil {
		return string(out), 0
	}
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("go run failed: %v\noutput: %s", err, out)
	}
	return string(out), exitErr.ExitCode()
}

// scrubbedEnv strips every TREEBANK_ variable so the invoking shell cannot
// leak filters or logging toggles into the process under test.
func scrubbedEnv() []string {
	var env []string
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "TREEBANK_") {
			continue
		}
		env = append(env, kv)
	}
	return env
}

// TestMain_BuildVerification verifies the binary builds successfully.
// This is a smoke test to ensure the package compiles without errors.
func TestMain_BuildVerification(t *testing.T) {
	t.Parallel()

	cmd := exec.Command("go", "build", "-o", os.DevNull, ".")
	if err := cmd.Run(); err != nil {
		t.Fatalf("failed to build main package: %v", err)
	}
}

func TestMain_VersionFlag(t *testing.T) {
	t.Parallel()

	out, code := runCLI(t, "--version")
	if code != 0 {
		t.Fatalf("--version exited %d\noutput: %s", code, out)
	}
	if !strings.HasPrefix(out, "treebank ") {
		t.Errorf("--version output = %q, want a 'treebank ' prefix", out)
	}
}

func TestMain_HelpFlag(t *testing.T) {
	t.Parallel()

	out, code := runCLI(t, "--help")
	if code != 0 {
		t.Fatalf("--help exited %d\noutput: %s", code, out)
	}
	for _, want := range []string{
		"parser corpus conformance runner",
		"Corpus Commands:",
		"run [language]",
		"--fixtures <dir>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("--help output missing %q\noutput: %s", want, out)
		}
	}
}

func TestMain_UnknownCommand(t *testing.T) {
	t.Parallel()

	out, code := runCLI(t, "frobnicate")
	if code != 2 {
		t.Errorf("unknown command exited %d, want 2", code)
	}
	if !strings.Contains(out, `unknown command "frobnicate"`) {
		t.Errorf("output = %q, want the unknown command message", out)
	}
}

// TestMain_InitThenAll scaffolds a fresh fixture tree and runs every suite
// against it. A fresh scaffold must come out green.
func TestMain_InitThenAll(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	out, code := runCLI(t, "init", root)
	if code != 0 {
		t.Fatalf("init exited %d\noutput: %s", code, out)
	}
	grammar := filepath.Join(root, "fixtures", "grammars", "sexp", "grammar.json")
	if _, err := os.Stat(grammar); err != nil {
		t.Fatalf("init did not write %s: %v", grammar, err)
	}

	out, code = runCLI(t, "all", "--fixtures", root)
	if code != 0 {
		t.Fatalf("all exited %d on a fresh scaffold\noutput: %s", code, out)
	}
	if !strings.Contains(out, "=== S-expressions ===") {
		t.Errorf("all output missing the first language heading\noutput: %s", out)
	}
	if !strings.Contains(out, "All corpus tests passed") {
		t.Errorf("all output missing the final verdict\noutput: %s", out)
	}
}

// TestMain_FailingCorpusExitCode plants a corpus case with a wrong expected
// tree and checks the run reports it with exit code 1.
func TestMain_FailingCorpusExitCode(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	if out, code := runCLI(t, "init", root); code != 0 {
		t.Fatalf("init exited %d\noutput: %s", code, out)
	}

	bad := filepath.Join(root, "fixtures", "grammars", "sexp", "corpus", "regressions.txt")
	content := "==================\nwrong expectation\n==================\n\nx\n\n---\n\n(document (list))\n"
	if err := os.WriteFile(bad, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	out, code := runCLI(t, "run", "sexp", "--fixtures", root)
	if code != 1 {
		t.Fatalf("run exited %d, want 1\noutput: %s", code, out)
	}
	if !strings.Contains(out, "expected / actual") {
		t.Errorf("output missing the diff legend\noutput: %s", out)
	}
	if !strings.Contains(out, "Corpus tests failed") {
		t.Errorf("output missing the failure verdict\noutput: %s", out)
	}
}

// TestMain_GenerateCommand compiles a scaffolded grammar and prints the
// versioned definition.
func TestMain_GenerateCommand(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	if out, code := runCLI(t, "init", root); code != 0 {
		t.Fatalf("init exited %d\noutput: %s", code, out)
	}

	grammar := filepath.Join(root, "fixtures", "grammars", "sexp", "grammar.json")
	out, code := runCLI(t, "generate", grammar)
	if code != 0 {
		t.Fatalf("generate exited %d\noutput: %s", code, out)
	}
	if !strings.Contains(out, `"format": 1`) {
		t.Errorf("generate output missing the format version\noutput: %s", out)
	}
}
