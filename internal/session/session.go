// Package session builds parser sessions: a fresh parser per corpus case
// with at most one diagnostic sink attached, chosen from the
// configuration snapshot.
package session

import (
	"bufio"
	"html"
	"os"
	"strings"

	"github.com/AndreyAkinshin/treebank/internal/config"
	"github.com/AndreyAkinshin/treebank/internal/errors"
	"github.com/AndreyAkinshin/treebank/internal/output"
	"github.com/AndreyAkinshin/treebank/internal/syntax"
)

// DefaultGraphLogPath is where graph-log sessions write their capture.
const DefaultGraphLogPath = "log.html"

const (
	graphLogHeader = "<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>parse graphs</title></head>\n<body>\n"
	graphLogFooter = "</body>\n</html>\n"
)

// Factory opens sessions for one run. Trace logging and graph logging are
// mutually exclusive; when both are enabled, trace wins.
type Factory struct {
	cfg       config.Snapshot
	out       *output.Writer
	graphPath string
}

// NewFactory returns a factory writing traces through out and graph
// captures to graphPath (DefaultGraphLogPath if empty).
func NewFactory(cfg config.Snapshot, out *output.Writer, graphPath string) *Factory {
	if graphPath == "" {
		graphPath = DefaultGraphLogPath
	}
	return &Factory{cfg: cfg, out: out, graphPath: graphPath}
}

// Open builds a fresh parser session bound to lang. With graph logging
// enabled the session owns the capture file; the caller must keep the
// session for the duration of parsing and Close it to flush.
func (f *Factory) Open(lang *syntax.Language) (*Session, error) {
	p := syntax.NewParser()
	if err := p.SetLanguage(lang); err != nil {
		return nil, errors.Setupf("cannot select language: %v", err)
	}

	sess := &Session{parser: p}
	switch {
	case f.cfg.TraceLog:
		p.SetLogger(f.traceLogger())
	case f.cfg.GraphLog:
		file, err := os.Create(f.graphPath)
		if err != nil {
			return nil, errors.Diagnosticf("cannot open graph log '%s': %v", f.graphPath, err)
		}
		sess.graphFile = file
		sess.graphBuf = bufio.NewWriter(file)
		sess.graphBuf.WriteString(graphLogHeader)
	}
	return sess, nil
}

// traceLogger writes one line per parser event to the diagnostic stream,
// lexer events indented two spaces relative to parse events.
func (f *Factory) traceLogger() syntax.Logger {
	return func(logType syntax.LogType, message string) {
		if logType == syntax.LogTypeLex {
			f.out.Trace("  " + message)
			return
		}
		f.out.Trace(message)
	}
}

// Session is one parser with its diagnostic sink.
type Session struct {
	parser    *syntax.Parser
	graphFile *os.File
	graphBuf  *bufio.Writer
}

// Parse parses one input. With graph logging enabled the resulting tree
// is captured into the session's graph log.
func (s *Session) Parse(read syntax.ReadFunc) (*syntax.Tree, error) {
	tree, err := s.parser.Parse(read)
	if err != nil {
		return nil, err
	}
	if s.graphBuf != nil {
		var dot strings.Builder
		tree.WriteDot(&dot)
		s.graphBuf.WriteString("<pre class=\"graph\">\n")
		s.graphBuf.WriteString(html.EscapeString(dot.String()))
		s.graphBuf.WriteString("</pre>\n")
	}
	return tree, nil
}

// Close flushes and closes the graph capture, if any. Closing a session
// twice, or one without a capture, is a no-op.
func (s *Session) Close() error {
	if s.graphBuf == nil {
		return nil
	}
	s.graphBuf.WriteString(graphLogFooter)
	flushErr := s.graphBuf.Flush()
	closeErr := s.graphFile.Close()
	s.graphBuf = nil
	s.graphFile = nil
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
