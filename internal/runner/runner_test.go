package runner

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AndreyAkinshin/treebank/internal/allocstats"
	"github.com/AndreyAkinshin/treebank/internal/config"
	"github.com/AndreyAkinshin/treebank/internal/corpus"
	"github.com/AndreyAkinshin/treebank/internal/errors"
	"github.com/AndreyAkinshin/treebank/internal/output"
	"github.com/AndreyAkinshin/treebank/internal/session"
	"github.com/AndreyAkinshin/treebank/internal/syntax"
)

const demoDefinition = `{
	"format": 1,
	"name": "demo",
	"root": "document",
	"rules": {
		"document": {"type": "REPEAT", "content": {"type": "SYMBOL", "name": "_value"}},
		"_value": {"type": "CHOICE", "members": [
			{"type": "SYMBOL", "name": "list"},
			{"type": "SYMBOL", "name": "symbol"}
		]},
		"list": {"type": "SEQ", "members": [
			{"type": "STRING", "value": "("},
			{"type": "REPEAT", "content": {"type": "SYMBOL", "name": "_value"}},
			{"type": "STRING", "value": ")"}
		]},
		"symbol": {"type": "PATTERN", "value": "[a-z]+"}
	},
	"extras": [{"type": "PATTERN", "value": "[ \\t\\n]+"}]
}`

// factorySessions adapts a session.Factory to the runner's consumer-side
// interface, mirroring the wiring the drivers use.
type factorySessions struct {
	f *session.Factory
}

func (s factorySessions) Open(lang *syntax.Language) (Session, error) {
	sess, err := s.f.Open(lang)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func demoLanguage(t *testing.T) *syntax.Language {
	t.Helper()
	lang, err := syntax.FromSource("demo", demoDefinition)
	if err != nil {
		t.Fatalf("FromSource() error = %v", err)
	}
	return lang
}

func newTestRunner(cfg config.Snapshot, rec *allocstats.Recorder, graphPath string) (*Runner, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	out := output.NewWithWriters(&stdout, &stderr, false)
	factory := session.NewFactory(cfg, out, graphPath)
	r := &Runner{
		Snapshot: cfg,
		Out:      out,
		Sessions: factorySessions{factory},
		Alloc:    rec,
	}
	return r, &stdout, &stderr
}

func passingExample(name string) corpus.Example {
	return corpus.Example{
		EntryName: name,
		Input:     []byte("(a)"),
		Output:    "(document (list (symbol)))",
	}
}

func failingExample(name string) corpus.Example {
	return corpus.Example{
		EntryName: name,
		Input:     []byte("(a)"),
		Output:    "(document (symbol))",
	}
}

func TestRunner_PassingExample(t *testing.T) {
	rec := allocstats.New()
	r, _, stderr := newTestRunner(config.Snapshot{}, rec, "")

	failed, err := r.Run(demoLanguage(t), passingExample("simple"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if failed {
		t.Error("Run() failed = true, want false")
	}
	if stderr.Len() != 0 {
		t.Errorf("passing example produced diagnostics: %q", stderr.String())
	}
	if rec.Active() {
		t.Error("allocation scope left open after a passing example")
	}
}

func TestRunner_TraceLogEchoesExampleNames(t *testing.T) {
	cfg := config.Snapshot{TraceLog: true}
	r, _, stderr := newTestRunner(cfg, nil, "")

	failed, err := r.Run(demoLanguage(t), passingExample("simple"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if failed {
		t.Error("Run() failed = true, want false")
	}
	if !strings.Contains(stderr.String(), "  example: \"simple\"\n") {
		t.Errorf("trace missing example line:\n%s", stderr.String())
	}
}

func TestRunner_FailingExample(t *testing.T) {
	rec := allocstats.New()
	r, _, stderr := newTestRunner(config.Snapshot{}, rec, "")

	failed, err := r.Run(demoLanguage(t), failingExample("broken"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !failed {
		t.Error("Run() failed = false, want true")
	}
	out := stderr.String()
	if !strings.Contains(out, "expected / actual\n") {
		t.Errorf("diagnostics missing diff legend:\n%s", out)
	}
	if !strings.Contains(out, "(document") {
		t.Errorf("diagnostics missing diff line:\n%s", out)
	}
	if !strings.Contains(out, "\n\n") {
		t.Errorf("diagnostics missing blank line after diff:\n%s", out)
	}
	if !rec.Active() {
		t.Error("allocation scope was closed on a mismatch")
	}
}

func TestRunner_GroupAggregatesWithoutShortCircuit(t *testing.T) {
	r, _, stderr := newTestRunner(config.Snapshot{TraceLog: true}, nil, "")

	group := corpus.Group{
		EntryName: "all",
		Children: []corpus.TestEntry{
			failingExample("first"),
			passingExample("second"),
			failingExample("third"),
		},
	}
	failed, err := r.Run(demoLanguage(t), group)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !failed {
		t.Error("Run() failed = false, want true")
	}
	if got := strings.Count(stderr.String(), "example:"); got != 3 {
		t.Errorf("ran %d examples, want 3 (no early exit)", got)
	}
}

func TestRunner_EmptyGroup(t *testing.T) {
	r, _, stderr := newTestRunner(config.Snapshot{}, nil, "")

	failed, err := r.Run(demoLanguage(t), corpus.Group{EntryName: "empty"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if failed {
		t.Error("empty group failed = true, want false")
	}
	if stderr.Len() != 0 {
		t.Errorf("empty group produced diagnostics: %q", stderr.String())
	}
}

func TestRunner_NestedGroups(t *testing.T) {
	r, _, _ := newTestRunner(config.Snapshot{}, nil, "")

	group := corpus.Group{
		EntryName: "root",
		Children: []corpus.TestEntry{
			corpus.Group{EntryName: "ok", Children: []corpus.TestEntry{passingExample("pass")}},
			corpus.Group{EntryName: "bad", Children: []corpus.TestEntry{failingExample("fail")}},
		},
	}
	failed, err := r.Run(demoLanguage(t), group)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !failed {
		t.Error("Run() failed = false, want true")
	}
}

func TestRunner_ExampleFilterSkipsSilently(t *testing.T) {
	cfg := config.Snapshot{ExampleFilter: "two", TraceLog: true}
	r, _, stderr := newTestRunner(cfg, nil, "")

	group := corpus.Group{
		EntryName: "all",
		Children: []corpus.TestEntry{
			failingExample("one"),
			passingExample("two"),
			failingExample("three"),
		},
	}
	failed, err := r.Run(demoLanguage(t), group)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if failed {
		t.Error("Run() failed = true, want false (failing examples were filtered out)")
	}
	out := stderr.String()
	if !strings.Contains(out, "example: \"two\"") {
		t.Errorf("filtered run missing matching example:\n%s", out)
	}
	if strings.Contains(out, "\"one\"") || strings.Contains(out, "\"three\"") {
		t.Errorf("filtered-out examples produced output:\n%s", out)
	}
}

func TestRunner_LegendPrintedOnce(t *testing.T) {
	r, _, stderr := newTestRunner(config.Snapshot{}, nil, "")

	group := corpus.Group{
		EntryName: "all",
		Children: []corpus.TestEntry{
			failingExample("first"),
			failingExample("second"),
		},
	}
	if _, err := r.Run(demoLanguage(t), group); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := strings.Count(stderr.String(), "expected / actual"); got != 1 {
		t.Errorf("legend printed %d times, want 1", got)
	}
}

func TestRunner_SessionErrorAborts(t *testing.T) {
	cfg := config.Snapshot{GraphLog: true}
	badPath := filepath.Join(t.TempDir(), "missing", "log.html")
	r, _, _ := newTestRunner(cfg, nil, badPath)

	group := corpus.Group{
		EntryName: "all",
		Children: []corpus.TestEntry{
			passingExample("first"),
			passingExample("second"),
		},
	}
	_, err := r.Run(demoLanguage(t), group)
	if err == nil {
		t.Fatal("Run() expected error")
	}
	if got := errors.GetExitCode(err); got != errors.ExitDiagnosticError {
		t.Errorf("GetExitCode() = %d, want %d", got, errors.ExitDiagnosticError)
	}
}

func TestRunner_DeterministicDiagnostics(t *testing.T) {
	group := corpus.Group{
		EntryName: "all",
		Children: []corpus.TestEntry{
			failingExample("first"),
			passingExample("second"),
		},
	}

	run := func() (bool, string) {
		r, _, stderr := newTestRunner(config.Snapshot{}, nil, "")
		failed, err := r.Run(demoLanguage(t), group)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		return failed, stderr.String()
	}

	failed1, out1 := run()
	failed2, out2 := run()
	if failed1 != failed2 {
		t.Errorf("aggregates differ: %v vs %v", failed1, failed2)
	}
	if out1 != out2 {
		t.Errorf("diagnostic bytes differ:\n%q\nvs\n%q", out1, out2)
	}
}
