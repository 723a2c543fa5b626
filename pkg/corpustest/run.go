package corpustest

import (
	"fmt"
	"io"
	"strings"
)

// Capability is the parsing side an embedding project supplies. Parse
// receives the raw input bytes of one case and returns the resulting tree
// as an s-expression. The serialization does not need to be normalized;
// Run normalizes both sides before comparing.
type Capability interface {
	Parse(input []byte) (string, error)
}

// CapabilityFunc adapts an ordinary parse function to Capability.
type CapabilityFunc func(input []byte) (string, error)

// Parse calls f.
func (f CapabilityFunc) Parse(input []byte) (string, error) {
	return f(input)
}

// Options configures a Run. The zero value runs every case and discards
// diagnostic output.
type Options struct {
	// Filter skips cases whose name does not contain it as a substring.
	// Empty runs everything.
	Filter string

	// Out receives one block per failing case. Nil discards the output.
	Out io.Writer
}

// Failure records one failing case of a Run.
type Failure struct {
	// Case is the case that failed.
	Case Case

	// Message describes the failure: the parse error, or the first token
	// divergence between the actual and expected trees.
	Message string
}

// Result aggregates a Run over a case list.
type Result struct {
	// Ran counts the cases that were parsed and compared.
	Ran int

	// Skipped counts the cases the filter excluded.
	Skipped int

	// Failures lists every failing case in run order.
	Failures []Failure
}

// Failed reports whether any case failed.
func (r Result) Failed() bool {
	return len(r.Failures) > 0
}

// Run parses every case through p and compares each tree against the
// case's expected serialization. All cases run even after failures, so the
// result carries the complete failure list, not just the first. A parse
// error counts as a failure for its case and does not abort the run.
//
// A skipped case is not parsed and produces no output.
func Run(p Capability, cases []Case, opts *Options) Result {
	if opts == nil {
		opts = &Options{}
	}

	var res Result
	for _, tc := range cases {
		if opts.Filter != "" && !strings.Contains(tc.Name, opts.Filter) {
			res.Skipped++
			continue
		}
		res.Ran++

		var message string
		actual, err := p.Parse(tc.Input)
		if err != nil {
			message = fmt.Sprintf("parse: %v", err)
		} else if ok, diff := Compare(actual, tc.Expected); !ok {
			message = diff
		}
		if message == "" {
			continue
		}

		res.Failures = append(res.Failures, Failure{Case: tc, Message: message})
		if opts.Out != nil {
			fmt.Fprintf(opts.Out, "fail %q (%s)\n  %s\n", tc.Name, tc.File, message)
		}
	}
	return res
}
