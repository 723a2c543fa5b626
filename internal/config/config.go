// Package config holds the run configuration snapshot.
//
// Configuration is resolved exactly once, before any corpus runs: the
// environment is read, command-line overrides are applied on top, and the
// resulting Snapshot is passed around by value. Nothing re-reads the
// environment after that point, so a run cannot change behavior midway.
package config

import (
	"os"
	"strings"
)

// Environment variables recognized by treebank.
const (
	// EnvLanguageFilter restricts corpus runs to one language or test
	// grammar, matched exactly against its name.
	EnvLanguageFilter = "TREEBANK_LANGUAGE_FILTER"

	// EnvExampleFilter restricts corpus runs to examples whose name
	// contains this substring.
	EnvExampleFilter = "TREEBANK_EXAMPLE_FILTER"

	// EnvLog enables line-oriented parser tracing. Presence alone turns
	// it on; the value is ignored.
	EnvLog = "TREEBANK_LOG"

	// EnvLogGraphs enables graph capture into the graph log file.
	// Presence alone turns it on; the value is ignored.
	EnvLogGraphs = "TREEBANK_LOG_GRAPHS"
)

// Snapshot is the immutable run configuration.
type Snapshot struct {
	// LanguageFilter selects a single language by exact name.
	// Empty means all languages run.
	LanguageFilter string

	// ExampleFilter selects examples by substring match on their names.
	// Empty means all examples run.
	ExampleFilter string

	// TraceLog attaches a line-oriented trace logger to every parser
	// session. Takes priority over GraphLog when both are set.
	TraceLog bool

	// GraphLog captures parse trees as graphs into the graph log file.
	GraphLog bool
}

// Overrides carries command-line values that take precedence over the
// environment. Boolean overrides can only enable a setting, never clear
// one inherited from the environment.
type Overrides struct {
	Language string
	Example  string
	TraceLog bool
	GraphLog bool
}

// FromEnv reads the configuration snapshot from the environment.
// The two logging toggles are presence-based: setting the variable to any
// value, including the empty string, enables them.
func FromEnv() Snapshot {
	_, traceLog := os.LookupEnv(EnvLog)
	_, graphLog := os.LookupEnv(EnvLogGraphs)
	return Snapshot{
		LanguageFilter: os.Getenv(EnvLanguageFilter),
		ExampleFilter:  os.Getenv(EnvExampleFilter),
		TraceLog:       traceLog,
		GraphLog:       graphLog,
	}
}

// Resolve applies command-line overrides on top of an environment snapshot.
func Resolve(env Snapshot, o Overrides) Snapshot {
	resolved := env
	if o.Language != "" {
		resolved.LanguageFilter = o.Language
	}
	if o.Example != "" {
		resolved.ExampleFilter = o.Example
	}
	if o.TraceLog {
		resolved.TraceLog = true
	}
	if o.GraphLog {
		resolved.GraphLog = true
	}
	return resolved
}

// AllowsLanguage reports whether a language or test-grammar name passes
// the language filter. The filter is an exact match.
func (s Snapshot) AllowsLanguage(name string) bool {
	return s.LanguageFilter == "" || s.LanguageFilter == name
}

// AllowsExample reports whether an example name passes the example filter.
// The filter is a substring match.
func (s Snapshot) AllowsExample(name string) bool {
	return s.ExampleFilter == "" || strings.Contains(name, s.ExampleFilter)
}
