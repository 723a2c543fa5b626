// Package runner executes corpus test trees against a compiled language.
// Failures aggregate by boolean OR over the whole tree with no early
// exit, so one run reports every failing case.
package runner

import (
	"fmt"

	"github.com/AndreyAkinshin/treebank/internal/allocstats"
	"github.com/AndreyAkinshin/treebank/internal/config"
	"github.com/AndreyAkinshin/treebank/internal/corpus"
	"github.com/AndreyAkinshin/treebank/internal/diff"
	"github.com/AndreyAkinshin/treebank/internal/output"
	"github.com/AndreyAkinshin/treebank/internal/syntax"
)

// Session parses one corpus case and releases its diagnostics on Close.
type Session interface {
	Parse(read syntax.ReadFunc) (*syntax.Tree, error)
	Close() error
}

// SessionFactory opens a fresh session per case.
type SessionFactory interface {
	Open(lang *syntax.Language) (Session, error)
}

// Runner runs corpus entries. The zero value is not usable; all fields
// except Alloc are required.
type Runner struct {
	Snapshot config.Snapshot
	Out      *output.Writer
	Sessions SessionFactory
	Alloc    *allocstats.Recorder

	legendShown bool
}

// Run executes one test entry and reports whether its subtree had at
// least one failure. Setup and diagnostic errors abort immediately;
// ordinary mismatches do not.
func (r *Runner) Run(lang *syntax.Language, entry corpus.TestEntry) (bool, error) {
	switch e := entry.(type) {
	case corpus.Example:
		return r.runExample(lang, e)
	case corpus.Group:
		failed := false
		for _, child := range e.Children {
			childFailed, err := r.Run(lang, child)
			if err != nil {
				return false, err
			}
			failed = failed || childFailed
		}
		return failed, nil
	default:
		panic(fmt.Sprintf("runner: unknown TestEntry variant %T", entry))
	}
}

func (r *Runner) runExample(lang *syntax.Language, e corpus.Example) (bool, error) {
	if !r.Snapshot.AllowsExample(e.EntryName) {
		return false, nil
	}
	if r.Snapshot.TraceLog {
		r.Out.Trace(fmt.Sprintf("  example: %q", e.EntryName))
	}

	var scope *allocstats.Scope
	if r.Alloc != nil {
		scope = r.Alloc.Begin()
	}

	sess, err := r.Sessions.Open(lang)
	if err != nil {
		return false, err
	}
	tree, err := sess.Parse(syntax.SliceReader(e.Input))
	if err != nil {
		sess.Close()
		return false, err
	}
	actual := tree.Sexp()
	if err := sess.Close(); err != nil {
		return false, err
	}

	if actual == e.Output {
		if scope != nil {
			scope.End()
		}
		return false, nil
	}

	// The allocation scope stays open on a mismatch so the failing
	// case's numbers remain inspectable; the next Begin resets it.
	if !r.legendShown {
		r.Out.DiffKey()
		r.legendShown = true
	}
	diff.Print(r.Out, actual, e.Output)
	r.Out.Trace("")
	return true, nil
}
