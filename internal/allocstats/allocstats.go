// Package allocstats records heap-allocation activity around corpus cases.
//
// The recorder exists to surface memory-management regressions in the
// parsing engine; it never affects pass/fail results. Cases run strictly
// one after another, so a single recorder with one open scope at a time is
// enough, and the type is deliberately not safe for concurrent use.
package allocstats

import (
	"runtime"
)

// Record summarizes the heap activity of one recording scope.
type Record struct {
	Mallocs uint64 // objects allocated while the scope was open
	Bytes   uint64 // bytes allocated while the scope was open
}

// Recorder tracks at most one open recording scope.
type Recorder struct {
	gen         int
	active      bool
	baseMallocs uint64
	baseBytes   uint64
	last        Record
	hasLast     bool
}

// New creates an idle Recorder.
func New() *Recorder {
	return &Recorder{}
}

// Scope is one open recording window. It is closed by End; a scope made
// stale by a newer Begin closes to a zero Record.
type Scope struct {
	r   *Recorder
	gen int
}

// Begin opens a recording scope. A scope still open from a previous case
// is discarded: a failing case leaves its scope open for inspection, and
// the next case must start from a clean baseline.
func (r *Recorder) Begin() *Scope {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	r.gen++
	r.active = true
	r.baseMallocs = ms.Mallocs
	r.baseBytes = ms.TotalAlloc
	return &Scope{r: r, gen: r.gen}
}

// End closes the scope and returns its Record. Ending a stale or already
// closed scope is a no-op returning a zero Record.
func (s *Scope) End() Record {
	if s.r == nil || s.gen != s.r.gen || !s.r.active {
		return Record{}
	}
	rec := s.r.delta()
	s.r.active = false
	s.r.last = rec
	s.r.hasLast = true
	return rec
}

// Active reports whether a recording scope is currently open.
func (r *Recorder) Active() bool {
	return r.active
}

// Last returns the record of the most recently closed scope.
func (r *Recorder) Last() (Record, bool) {
	return r.last, r.hasLast
}

// Current returns the live deltas of the open scope, if any. This is what
// makes a scope left open by a failing case inspectable post mortem.
func (r *Recorder) Current() (Record, bool) {
	if !r.active {
		return Record{}, false
	}
	return r.delta(), true
}

func (r *Recorder) delta() Record {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return Record{
		Mallocs: ms.Mallocs - r.baseMallocs,
		Bytes:   ms.TotalAlloc - r.baseBytes,
	}
}
