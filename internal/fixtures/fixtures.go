// Package fixtures locates the fixture tree and names its layout.
package fixtures

import (
	"errors"
	"os"
	"path/filepath"
)

// FixturesDirName is the name of the fixture tree's top directory.
const FixturesDirName = "fixtures"

// GrammarsDirName holds one subdirectory per shipped language.
const GrammarsDirName = "grammars"

// ErrorCorpusDirName holds the error-recovery corpus files.
const ErrorCorpusDirName = "error_corpus"

// TestGrammarsDirName holds one subdirectory per conformance grammar.
const TestGrammarsDirName = "test_grammars"

// GrammarFileName is the grammar file inside a language directory.
const GrammarFileName = "grammar.json"

// CorpusDirName is the corpus directory inside a language directory.
const CorpusDirName = "corpus"

// ExpectedErrorFileName marks a conformance grammar that must fail to
// compile, and holds the exact expected message.
const ExpectedErrorFileName = "expected_error.txt"

// ErrorCorpusSuffix is the file-name suffix of error-recovery corpora;
// the language name is the part before it.
const ErrorCorpusSuffix = "_errors.txt"

// ErrNoFixturesRoot is returned when fixtures/grammars is not found.
var ErrNoFixturesRoot = errors.New("fixtures/grammars not found: not a treebank fixture tree (or any parent up to the root)")

// FindRoot walks up from the current working directory until it finds a
// fixtures/grammars directory.
func FindRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return FindRootFrom(cwd)
}

// FindRootFrom walks up from the given directory until it finds a
// fixtures/grammars directory.
func FindRootFrom(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		marker := filepath.Join(dir, FixturesDirName, GrammarsDirName)
		if info, err := os.Stat(marker); err == nil && info.IsDir() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoFixturesRoot
		}
		dir = parent
	}
}

// Layout resolves fixture paths under one root.
type Layout struct {
	Root string
}

// At returns the layout rooted at root.
func At(root string) Layout {
	return Layout{Root: root}
}

// FixturesDir returns the fixture tree's top directory.
func (l Layout) FixturesDir() string {
	return filepath.Join(l.Root, FixturesDirName)
}

// GrammarsDir returns the directory of shipped language grammars.
func (l Layout) GrammarsDir() string {
	return filepath.Join(l.FixturesDir(), GrammarsDirName)
}

// GrammarPath returns the grammar file of a shipped language.
func (l Layout) GrammarPath(language string) string {
	return filepath.Join(l.GrammarsDir(), language, GrammarFileName)
}

// CorpusDir returns the corpus directory of a shipped language.
func (l Layout) CorpusDir(language string) string {
	return filepath.Join(l.GrammarsDir(), language, CorpusDirName)
}

// ErrorCorpusDir returns the error-recovery corpus directory.
func (l Layout) ErrorCorpusDir() string {
	return filepath.Join(l.FixturesDir(), ErrorCorpusDirName)
}

// ErrorCorpusPath returns the error-recovery corpus file of a language.
func (l Layout) ErrorCorpusPath(language string) string {
	return filepath.Join(l.ErrorCorpusDir(), language+ErrorCorpusSuffix)
}

// TestGrammarsDir returns the conformance grammar directory.
func (l Layout) TestGrammarsDir() string {
	return filepath.Join(l.FixturesDir(), TestGrammarsDirName)
}

// TestGrammarPath returns the grammar file of a conformance grammar.
func (l Layout) TestGrammarPath(name string) string {
	return filepath.Join(l.TestGrammarsDir(), name, GrammarFileName)
}

// TestGrammarCorpusDir returns the corpus directory of a conformance
// grammar.
func (l Layout) TestGrammarCorpusDir(name string) string {
	return filepath.Join(l.TestGrammarsDir(), name, CorpusDirName)
}

// ExpectedErrorPath returns the expected-error file of a conformance
// grammar.
func (l Layout) ExpectedErrorPath(name string) string {
	return filepath.Join(l.TestGrammarsDir(), name, ExpectedErrorFileName)
}
