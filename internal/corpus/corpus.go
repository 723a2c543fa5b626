// Package corpus models file-based test corpora.
//
// A corpus is a tree: groups contain further groups or examples, and
// examples pair raw input bytes with the expected canonical s-expression
// of the parsed tree. On disk, a corpus file holds a flat sequence of
// examples; directories of corpus files provide the nesting.
package corpus

// TestEntry is one node of a corpus tree: either an Example or a Group.
// The set of implementations is closed; consumers switch over both and
// treat any other value as a programming error.
type TestEntry interface {
	// Name returns the entry's display name.
	Name() string

	sealed()
}

// Example is a leaf case: input bytes plus the expected canonical
// s-expression. Values are immutable once decoded.
type Example struct {
	EntryName string
	Input     []byte
	Output    string
}

// Name returns the example's display name.
func (e Example) Name() string { return e.EntryName }

func (Example) sealed() {}

// Group is a named ordered collection of child entries. Children run in
// declaration order.
type Group struct {
	EntryName string
	Children  []TestEntry
}

// Name returns the group's display name.
func (g Group) Name() string { return g.EntryName }

func (Group) sealed() {}

// CountExamples returns the number of examples in the subtree rooted at
// entry.
func CountExamples(entry TestEntry) int {
	switch e := entry.(type) {
	case Example:
		return 1
	case Group:
		n := 0
		for _, child := range e.Children {
			n += CountExamples(child)
		}
		return n
	default:
		panic("corpus: unknown TestEntry variant")
	}
}
