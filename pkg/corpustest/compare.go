package corpustest

import (
	"fmt"
	"strings"
)

// Normalize collapses whitespace runs in a tree serialization to single
// spaces and trims the edges. Two serializations of the same tree
// normalize to the same string regardless of indentation or line breaks.
func Normalize(tree string) string {
	return strings.Join(strings.Fields(tree), " ")
}

// Equal reports whether two tree serializations denote the same tree.
// Both sides are normalized before comparison, so formatting differences
// between them never count as a mismatch.
func Equal(actual, expected string) bool {
	return Normalize(actual) == Normalize(expected)
}

// Compare compares two tree serializations and describes the first
// divergence. It returns true and an empty string on a match, or false
// and a human-readable description on a mismatch.
//
// The description points at the first differing token, where a token is
// one whitespace-separated field of the normalized serialization. For
// s-expressions that is one node name or bracket run.
func Compare(actual, expected string) (bool, string) {
	a := strings.Fields(actual)
	e := strings.Fields(expected)

	n := len(a)
	if len(e) < n {
		n = len(e)
	}
	for i := 0; i < n; i++ {
		if a[i] != e[i] {
			return false, fmt.Sprintf("token %d: expected %q, got %q", i+1, e[i], a[i])
		}
	}

	switch {
	case len(a) < len(e):
		return false, fmt.Sprintf("token %d: expected %q, got end of tree", n+1, e[n])
	case len(a) > len(e):
		return false, fmt.Sprintf("token %d: got %q after end of expected tree", n+1, a[n])
	}
	return true, ""
}
