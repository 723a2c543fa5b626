// Package driver wires the three corpus suites: the shipped-language
// corpus, the error-recovery corpus, and the conformance grammar suite.
package driver

import (
	"fmt"
	"os"
	"strings"

	"github.com/AndreyAkinshin/treebank/internal/allocstats"
	"github.com/AndreyAkinshin/treebank/internal/config"
	"github.com/AndreyAkinshin/treebank/internal/corpus"
	"github.com/AndreyAkinshin/treebank/internal/errors"
	"github.com/AndreyAkinshin/treebank/internal/fixtures"
	"github.com/AndreyAkinshin/treebank/internal/generate"
	"github.com/AndreyAkinshin/treebank/internal/language"
	"github.com/AndreyAkinshin/treebank/internal/output"
	"github.com/AndreyAkinshin/treebank/internal/runner"
	"github.com/AndreyAkinshin/treebank/internal/session"
	"github.com/AndreyAkinshin/treebank/internal/syntax"
)

// sessionFactory adapts the concrete session factory to the runner's
// interface.
type sessionFactory struct {
	factory *session.Factory
}

func (s sessionFactory) Open(lang *syntax.Language) (runner.Session, error) {
	sess, err := s.factory.Open(lang)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// Options configures a Driver.
type Options struct {
	// Verbose reports the allocation record of each grammar's run.
	Verbose bool

	// GraphPath overrides the default graph log location.
	GraphPath string
}

// Driver runs the corpus suites against one fixture layout. All suites
// share a single runner, so the diff key legend prints at most once per
// run, and a single allocation recorder.
type Driver struct {
	layout   fixtures.Layout
	snapshot config.Snapshot
	registry *language.Registry
	out      *output.Writer
	runner   *runner.Runner
	alloc    *allocstats.Recorder
	verbose  bool
}

// New builds a driver over a fixture layout.
func New(layout fixtures.Layout, snapshot config.Snapshot, out *output.Writer, opts Options) (*Driver, error) {
	registry, err := language.NewRegistry(layout)
	if err != nil {
		return nil, err
	}
	alloc := allocstats.New()
	return &Driver{
		layout:   layout,
		snapshot: snapshot,
		registry: registry,
		out:      out,
		runner: &runner.Runner{
			Snapshot: snapshot,
			Out:      out,
			Sessions: sessionFactory{session.NewFactory(snapshot, out, opts.GraphPath)},
			Alloc:    alloc,
		},
		alloc:   alloc,
		verbose: opts.Verbose,
	}, nil
}

// Registry exposes the shipped-language registry backing this driver.
func (d *Driver) Registry() *language.Registry {
	return d.registry
}

// Languages runs the corpus of every shipped language passing the
// language filter, in manifest order. The returned flag is the OR of all
// case failures; errors are fatal and abort the suite.
func (d *Driver) Languages() (bool, error) {
	failed := false
	for _, name := range d.registry.Names() {
		if !d.snapshot.AllowsLanguage(name) {
			continue
		}
		d.out.Section(d.registry.Title(name))
		lang, err := d.registry.Get(name)
		if err != nil {
			return false, err
		}
		langFailed, err := d.runCorpus(lang, name, d.layout.CorpusDir(name))
		if err != nil {
			return false, err
		}
		failed = failed || langFailed
	}
	return failed, nil
}

// ErrorRecovery runs the error-recovery corpus. Each corpus file names
// its language, so only languages with such a file participate; the
// language filter applies to the derived name.
func (d *Driver) ErrorRecovery() (bool, error) {
	entries, err := os.ReadDir(d.layout.ErrorCorpusDir())
	if err != nil {
		return false, errors.Setupf("cannot read error corpus directory: %v", err)
	}

	failed := false
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fixtures.ErrorCorpusSuffix) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), fixtures.ErrorCorpusSuffix)
		if !d.snapshot.AllowsLanguage(name) {
			continue
		}
		d.out.Section(d.registry.Title(name) + " error recovery")
		lang, err := d.registry.Get(name)
		if err != nil {
			return false, err
		}
		langFailed, err := d.runCorpus(lang, name, d.layout.ErrorCorpusPath(name))
		if err != nil {
			return false, err
		}
		failed = failed || langFailed
	}
	return failed, nil
}

// TestGrammars runs the conformance grammar suite: every subdirectory of
// the test grammar root passing the language filter, in name order. A
// grammar with an expected-error file must fail to compile with exactly
// that message; any other grammar must compile and pass its own corpus.
func (d *Driver) TestGrammars() (bool, error) {
	entries, err := os.ReadDir(d.layout.TestGrammarsDir())
	if err != nil {
		return false, errors.Setupf("cannot read test grammar directory: %v", err)
	}

	failed := false
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		name := entry.Name()
		if !d.snapshot.AllowsLanguage(name) {
			continue
		}
		grammarFailed, err := d.runTestGrammar(name)
		if err != nil {
			return false, err
		}
		failed = failed || grammarFailed
	}
	return failed, nil
}

// All runs the three suites in order, stopping on the first fatal error.
func (d *Driver) All() (bool, error) {
	failed := false
	suites := []func() (bool, error){d.Languages, d.ErrorRecovery, d.TestGrammars}
	for _, suite := range suites {
		suiteFailed, err := suite()
		if err != nil {
			return false, err
		}
		failed = failed || suiteFailed
	}
	return failed, nil
}

func (d *Driver) runTestGrammar(name string) (bool, error) {
	d.out.Section(fmt.Sprintf("grammar '%s'", name))

	grammarJSON, err := os.ReadFile(d.layout.TestGrammarPath(name))
	if err != nil {
		return false, errors.Setupf("cannot read grammar for test grammar '%s': %v", name, err)
	}
	expected, expectFailure, err := d.expectedError(name)
	if err != nil {
		return false, err
	}

	source, genErr := generate.ParserForGrammar(string(grammarJSON))
	if expectFailure {
		return false, checkExpectedFailure(d.out, name, expected, genErr)
	}
	if genErr != nil {
		return false, errors.Setupf("cannot compile test grammar '%s': %v", name, genErr)
	}

	lang, err := syntax.FromSource(name, source)
	if err != nil {
		return false, errors.Setupf("cannot load test grammar '%s': %v", name, err)
	}
	return d.runCorpus(lang, name, d.layout.TestGrammarCorpusDir(name))
}

// checkExpectedFailure verifies a compilation outcome against an
// expected-error file. Any disagreement is fatal, not an aggregated
// corpus failure.
func checkExpectedFailure(out *output.Writer, name, expected string, genErr error) error {
	if genErr == nil {
		return errors.Newf("Expected error message but got none for test grammar '%s'", name)
	}
	actual := genErr.Error()
	if actual != expected {
		out.Errorln("Unexpected error message.")
		out.Errorln("")
		out.Errorln("Expected message:")
		out.Errorln("%s", expected)
		out.Errorln("")
		out.Errorln("Actual message:")
		out.Errorln("%s", actual)
		return errors.Newf("unexpected error message for test grammar '%s'", name)
	}
	return nil
}

// expectedError reads a test grammar's expected-error file. The trailing
// newline is formatting, not part of the expected text.
func (d *Driver) expectedError(name string) (string, bool, error) {
	data, err := os.ReadFile(d.layout.ExpectedErrorPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, errors.Setupf("cannot read expected error for test grammar '%s': %v", name, err)
	}
	text := strings.TrimSuffix(string(data), "\n")
	text = strings.TrimSuffix(text, "\r")
	return text, true, nil
}

func (d *Driver) runCorpus(lang *syntax.Language, name, path string) (bool, error) {
	group, err := corpus.Load(path)
	if err != nil {
		return false, errors.Setupf("cannot load corpus for '%s': %v", name, err)
	}
	failed, err := d.runner.Run(lang, group)
	if err != nil {
		return false, err
	}
	if d.verbose {
		if record, ok := d.alloc.Last(); ok {
			d.out.Info("  allocated %d bytes in %d allocations", record.Bytes, record.Mallocs)
		}
	}
	return failed, nil
}
