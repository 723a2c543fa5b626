// Package diff computes word-level diffs of canonical tree serializations.
//
// Mismatch reports show both trees on one line: tokens shared by both stay
// plain, tokens only in the expected tree take the expected color, tokens
// only in the actual tree take the actual color. The granularity is the
// whitespace-separated token, which for s-expressions means one node or
// bracket run per token.
package diff

import (
	"strings"

	"github.com/AndreyAkinshin/treebank/internal/output"
)

// Words diffs two serializations token by token. Adjacent tokens with the
// same classification collapse into a single segment.
func Words(actual, expected string) []output.DiffSegment {
	a := strings.Fields(actual)
	b := strings.Fields(expected)

	// lcs[i][j] is the length of the longest common subsequence of
	// a[i:] and b[j:].
	lcs := make([][]int, len(a)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	var segments []output.DiffSegment
	push := func(op output.DiffOp, token string) {
		if n := len(segments); n > 0 && segments[n-1].Op == op {
			segments[n-1].Text += " " + token
			return
		}
		segments = append(segments, output.DiffSegment{Op: op, Text: token})
	}

	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			push(output.DiffSame, a[i])
			i++
			j++
		case lcs[i][j+1] >= lcs[i+1][j]:
			// Expected-only tokens print first, matching the legend order.
			push(output.DiffExpected, b[j])
			j++
		default:
			push(output.DiffActual, a[i])
			i++
		}
	}
	for ; j < len(b); j++ {
		push(output.DiffExpected, b[j])
	}
	for ; i < len(a); i++ {
		push(output.DiffActual, a[i])
	}
	return segments
}

// Print renders the diff of one mismatching example to the diagnostic
// stream.
func Print(w *output.Writer, actual, expected string) {
	w.DiffSegments(Words(actual, expected))
}
