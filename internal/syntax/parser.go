package syntax

import (
	"errors"
	"fmt"
)

// LogType categorizes trace events.
type LogType int

const (
	// LogTypeParse marks rule-structure events.
	LogTypeParse LogType = iota
	// LogTypeLex marks token-level events.
	LogTypeLex
)

// Logger receives one trace event per call.
type Logger func(logType LogType, message string)

// ReadFunc supplies input to the parser: given a byte offset it returns
// the input bytes from that offset to the end, or an empty slice at end
// of input. The parser never materializes the input itself; it pulls
// windows through this callback, including at earlier offsets when
// backtracking.
type ReadFunc func(offset int) []byte

// SliceReader adapts an in-memory buffer to a ReadFunc without copying.
func SliceReader(data []byte) ReadFunc {
	return func(offset int) []byte {
		if offset < 0 || offset >= len(data) {
			return nil
		}
		return data[offset:]
	}
}

var (
	ErrNilLanguage   = errors.New("language is nil")
	ErrEmptyLanguage = errors.New("language has no rules")
	ErrNoLanguage    = errors.New("no language selected")
	ErrNilReader     = errors.New("read callback is nil")
	ErrDepthExceeded = errors.New("parse depth limit exceeded")
)

// maxParseDepth bounds rule recursion. Grammar compilation rejects left
// recursion, but the engine also accepts handwritten definitions, so it
// guards itself instead of overflowing the stack.
const maxParseDepth = 4096

// Parser interprets one Language over pull-based input. A parser is not
// safe for concurrent use; corpus runs open a fresh one per case.
type Parser struct {
	lang   *Language
	logger Logger
}

func NewParser() *Parser {
	return &Parser{}
}

// SetLanguage selects the language for subsequent parses.
func (p *Parser) SetLanguage(lang *Language) error {
	if lang == nil {
		return ErrNilLanguage
	}
	if len(lang.rules) == 0 {
		return ErrEmptyLanguage
	}
	p.lang = lang
	return nil
}

// SetLogger attaches a trace logger. A nil logger disables tracing.
func (p *Parser) SetLogger(logger Logger) {
	p.logger = logger
}

// Parse reads the whole input through read and returns its tree. Invalid
// syntax is not an error: recovery covers unmatched bytes with ERROR
// nodes, so the root always spans the full input. Errors are reserved
// for misuse (no language selected, nil reader) and the recursion guard.
func (p *Parser) Parse(read ReadFunc) (*Tree, error) {
	if p.lang == nil {
		return nil, ErrNoLanguage
	}
	if read == nil {
		return nil, ErrNilReader
	}
	s := &state{lang: p.lang, read: read, logger: p.logger}
	total := len(read(0))
	body := p.lang.rules[p.lang.root]

	// Recovery scan: the body is matched once, at the first offset where
	// it matches real input. Skipped leading bytes become an ERROR node,
	// unconsumed trailing bytes another. A zero-width match is kept only
	// as a fallback so that a nullable body does not mask parseable
	// input further in.
	fallback := -1
	var fallbackChildren []*Node
	root := &Node{kind: p.lang.root, named: true, start: 0, end: total}
	for start := 0; start <= total; start++ {
		s.logParse("enter rule '%s' at %d", p.lang.root, start)
		end, children, ok, err := s.match(body, start, 0, false)
		if err != nil {
			return nil, err
		}
		if !ok {
			s.logParse("fail rule '%s' at %d", p.lang.root, start)
			continue
		}
		if end == start {
			if fallback < 0 {
				fallback = start
				fallbackChildren = children
			}
			continue
		}
		s.logParse("match rule '%s' [%d, %d]", p.lang.root, start, end)
		if start > 0 {
			root.children = append(root.children, errorNode(0, start))
		}
		root.children = append(root.children, children...)
		rest := s.skipExtras(end, 0)
		if rest < total {
			root.children = append(root.children, errorNode(rest, total))
		}
		return &Tree{root: root}, nil
	}
	switch {
	case fallback >= 0:
		s.logParse("match rule '%s' [%d, %d]", p.lang.root, fallback, fallback)
		if fallback > 0 {
			root.children = append(root.children, errorNode(0, fallback))
		}
		root.children = append(root.children, fallbackChildren...)
		rest := s.skipExtras(fallback, 0)
		if rest < total {
			root.children = append(root.children, errorNode(rest, total))
		}
	case total > 0:
		root.children = []*Node{errorNode(0, total)}
	}
	return &Tree{root: root}, nil
}

type state struct {
	lang   *Language
	read   ReadFunc
	logger Logger
}

// match attempts rule r at off. It returns the offset past the match and
// the nodes the match produced. In token mode (inside TOKEN rules and
// extras) no extras are skipped and no nodes are produced; the match is
// pure byte consumption.
func (s *state) match(r *compiledRule, off, depth int, inToken bool) (int, []*Node, bool, error) {
	if depth > maxParseDepth {
		return 0, nil, false, ErrDepthExceeded
	}
	switch r.kind {
	case kindString:
		pos := off
		if !inToken {
			pos = s.skipExtras(off, depth)
		}
		n := len(r.literal)
		if n == 0 {
			return pos, nil, true, nil
		}
		w := s.read(pos)
		if len(w) < n || string(w[:n]) != r.literal {
			return 0, nil, false, nil
		}
		if inToken {
			return pos + n, nil, true, nil
		}
		s.logLex("token %q [%d, %d]", r.literal, pos, pos+n)
		return pos + n, []*Node{{kind: r.literal, start: pos, end: pos + n}}, true, nil

	case kindPattern:
		pos := off
		if !inToken {
			pos = s.skipExtras(off, depth)
		}
		loc := r.re.FindIndex(s.read(pos))
		if loc == nil {
			return 0, nil, false, nil
		}
		n := loc[1]
		if n == 0 {
			return pos, nil, true, nil
		}
		if inToken {
			return pos + n, nil, true, nil
		}
		text := string(s.read(pos)[:n])
		s.logLex("token %q [%d, %d]", text, pos, pos+n)
		return pos + n, []*Node{{kind: text, start: pos, end: pos + n}}, true, nil

	case kindSymbol:
		if !inToken {
			s.logParse("enter rule '%s' at %d", r.name, off)
		}
		end, children, ok, err := s.match(r.ref, off, depth+1, inToken)
		if err != nil {
			return 0, nil, false, err
		}
		if !ok {
			if !inToken {
				s.logParse("fail rule '%s' at %d", r.name, off)
			}
			return 0, nil, false, nil
		}
		if inToken {
			return end, nil, true, nil
		}
		start := end
		if len(children) > 0 {
			start = children[0].start
		}
		s.logParse("match rule '%s' [%d, %d]", r.name, start, end)
		if hidden(r.name) {
			return end, children, true, nil
		}
		node := &Node{kind: r.name, named: true, start: start, end: end, children: children}
		return end, []*Node{node}, true, nil

	case kindSeq:
		cur := off
		var all []*Node
		for _, m := range r.members {
			end, nodes, ok, err := s.match(m, cur, depth+1, inToken)
			if err != nil {
				return 0, nil, false, err
			}
			if !ok {
				return 0, nil, false, nil
			}
			cur = end
			all = append(all, nodes...)
		}
		return cur, all, true, nil

	case kindChoice:
		for _, m := range r.members {
			end, nodes, ok, err := s.match(m, off, depth+1, inToken)
			if err != nil {
				return 0, nil, false, err
			}
			if ok {
				return end, nodes, true, nil
			}
		}
		return 0, nil, false, nil

	case kindRepeat, kindRepeat1:
		cur := off
		var all []*Node
		matched := 0
		for {
			end, nodes, ok, err := s.match(r.content, cur, depth+1, inToken)
			if err != nil {
				return 0, nil, false, err
			}
			if !ok {
				break
			}
			all = append(all, nodes...)
			matched++
			if end == cur {
				// A zero-width match cannot make further progress.
				break
			}
			cur = end
		}
		if r.kind == kindRepeat1 && matched == 0 {
			return 0, nil, false, nil
		}
		return cur, all, true, nil

	case kindBlank:
		return off, nil, true, nil

	case kindToken:
		pos := off
		if !inToken {
			pos = s.skipExtras(off, depth)
		}
		end, _, ok, err := s.match(r.content, pos, depth+1, true)
		if err != nil {
			return 0, nil, false, err
		}
		if !ok {
			return 0, nil, false, nil
		}
		if end == pos {
			return pos, nil, true, nil
		}
		if inToken {
			return end, nil, true, nil
		}
		text := string(s.read(pos)[:end-pos])
		s.logLex("token %q [%d, %d]", text, pos, end)
		return end, []*Node{{kind: text, start: pos, end: end}}, true, nil

	default:
		panic(fmt.Sprintf("syntax: unknown rule kind %d", r.kind))
	}
}

// skipExtras consumes extras (whitespace, comments) at off and returns
// the offset past them. Extras are matched in token mode and produce no
// nodes; a zero-width extra match does not count as progress.
func (s *state) skipExtras(off, depth int) int {
	for {
		advanced := false
		for _, extra := range s.lang.extras {
			end, _, ok, err := s.match(extra, off, depth+1, true)
			if err != nil || !ok || end == off {
				continue
			}
			s.logLex("skip extra [%d, %d]", off, end)
			off = end
			advanced = true
			break
		}
		if !advanced {
			return off
		}
	}
}

func (s *state) logParse(format string, args ...any) {
	if s.logger != nil {
		s.logger(LogTypeParse, fmt.Sprintf(format, args...))
	}
}

func (s *state) logLex(format string, args ...any) {
	if s.logger != nil {
		s.logger(LogTypeLex, fmt.Sprintf(format, args...))
	}
}
