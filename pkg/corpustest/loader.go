// Package corpustest provides reusable corpus loading and tree comparison
// utilities for external parser implementations.
//
// This package is designed to be used by parser projects that keep their
// test cases in treebank corpus files and want to check their own trees
// against the expected s-expressions, without going through the CLI.
//
// Example usage in a Go test:
//
//	func TestParser(t *testing.T) {
//	    root, err := corpustest.FindFixturesRoot()
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//
//	    cases, err := corpustest.LoadDir(corpustest.CorpusDir(root, "json"))
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//
//	    for _, tc := range cases {
//	        t.Run(tc.Name, func(t *testing.T) {
//	            actual := parse(tc.Input)
//	            if ok, diff := corpustest.Compare(actual, tc.Expected); !ok {
//	                t.Errorf("tree mismatch: %s", diff)
//	            }
//	        })
//	    }
//	}
package corpustest

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/AndreyAkinshin/treebank/internal/corpus"
	"github.com/AndreyAkinshin/treebank/internal/fixtures"
)

// Case is one corpus example ready to run against a parser.
type Case struct {
	// Name is the example name from the corpus file header.
	Name string

	// File is the corpus file the example was loaded from, as passed to
	// the loader.
	File string

	// Input is the exact input bytes of the example.
	Input []byte

	// Expected is the expected tree in canonical form: whitespace runs
	// between tokens collapsed to single spaces.
	Expected string
}

// LoadFile loads all examples from a single corpus file, in file order.
func LoadFile(path string) ([]Case, error) {
	group, err := corpus.LoadFile(path)
	if err != nil {
		return nil, err
	}

	cases := []Case{}
	for _, child := range group.Children {
		example, ok := child.(corpus.Example)
		if !ok {
			continue
		}
		cases = append(cases, Case{
			Name:     example.EntryName,
			File:     path,
			Input:    example.Input,
			Expected: example.Output,
		})
	}
	return cases, nil
}

// LoadDir loads all examples from every .txt corpus file under dir,
// recursively, in lexical path order. Hidden files and directories are
// skipped.
func LoadDir(dir string) ([]Case, error) {
	cases := []Case{}
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := entry.Name()
		if entry.IsDir() {
			if path != dir && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".txt") {
			return nil
		}
		fileCases, err := LoadFile(path)
		if err != nil {
			return err
		}
		cases = append(cases, fileCases...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cases, nil
}

// FindFixturesRoot walks up from the current working directory to find a
// directory containing fixtures/grammars. It returns that directory.
func FindFixturesRoot() (string, error) {
	return fixtures.FindRoot()
}

// FindFixturesRootFrom finds the fixtures root starting from a specific
// directory.
func FindFixturesRootFrom(startDir string) (string, error) {
	return fixtures.FindRootFrom(startDir)
}

// CorpusDir returns the corpus directory of a language under the standard
// fixture layout: <root>/fixtures/grammars/<language>/corpus.
func CorpusDir(root, language string) string {
	return fixtures.At(root).CorpusDir(language)
}

// ErrorCorpusPath returns the error-recovery corpus file of a language
// under the standard fixture layout. Error corpora use the same file
// format as regular corpora; their expected trees contain ERROR nodes.
func ErrorCorpusPath(root, language string) string {
	return fixtures.At(root).ErrorCorpusPath(language)
}

// ListLanguages returns the names of all languages with a directory under
// the standard fixture layout's grammars tree, in sorted order. A missing
// grammars directory yields no languages, not an error.
func ListLanguages(root string) ([]string, error) {
	entries, err := os.ReadDir(fixtures.At(root).GrammarsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var languages []string
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			languages = append(languages, entry.Name())
		}
	}
	return languages, nil
}

// LanguageExists reports whether a language has a grammar file under the
// standard fixture layout.
func LanguageExists(root, language string) bool {
	_, err := os.Stat(fixtures.At(root).GrammarPath(language))
	return err == nil
}
