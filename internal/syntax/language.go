// Package syntax is the parsing engine. A Language is a compiled grammar
// loaded from a versioned JSON language definition; a Parser interprets it
// over pull-based byte input and always produces a Tree, recovering from
// syntax errors with ERROR nodes instead of failing.
package syntax

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// FormatVersion is the language definition format this engine interprets.
const FormatVersion = 1

// IncompatibleError reports a language definition whose format version does
// not match FormatVersion.
type IncompatibleError struct {
	Found int
}

func (e *IncompatibleError) Error() string {
	return fmt.Sprintf("language definition format %d is not supported (want %d)", e.Found, FormatVersion)
}

type ruleKind int

const (
	kindString ruleKind = iota
	kindPattern
	kindSymbol
	kindSeq
	kindChoice
	kindRepeat
	kindRepeat1
	kindBlank
	kindToken
)

// compiledRule is one node of a compiled rule tree. Symbol references are
// resolved to pointers after the whole table is built.
type compiledRule struct {
	kind    ruleKind
	name    string
	literal string
	re      *regexp.Regexp
	members []*compiledRule
	content *compiledRule
	ref     *compiledRule
}

// Language is an immutable compiled grammar.
type Language struct {
	name   string
	root   string
	rules  map[string]*compiledRule
	extras []*compiledRule
}

// Name returns the name the language was loaded under.
func (l *Language) Name() string {
	return l.name
}

type defRule struct {
	Type    string    `json:"type"`
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Members []defRule `json:"members"`
	Content *defRule  `json:"content"`
}

type definition struct {
	Format int                `json:"format"`
	Name   string             `json:"name"`
	Root   string             `json:"root"`
	Rules  map[string]defRule `json:"rules"`
	Extras []defRule          `json:"extras"`
}

// FromSource compiles a generated language definition. The language is
// registered under name; if name is empty, the definition's own name is
// used. A definition with the wrong format version yields an
// *IncompatibleError.
func FromSource(name, source string) (*Language, error) {
	var def definition
	if err := json.Unmarshal([]byte(source), &def); err != nil {
		return nil, fmt.Errorf("malformed language definition: %w", err)
	}
	if def.Format != FormatVersion {
		return nil, &IncompatibleError{Found: def.Format}
	}
	if len(def.Rules) == 0 {
		return nil, fmt.Errorf("language definition has no rules")
	}
	if def.Root == "" {
		return nil, fmt.Errorf("language definition has no root rule")
	}
	if _, ok := def.Rules[def.Root]; !ok {
		return nil, fmt.Errorf("root rule '%s' is not defined", def.Root)
	}
	if name == "" {
		name = def.Name
	}

	lang := &Language{
		name:  name,
		root:  def.Root,
		rules: make(map[string]*compiledRule, len(def.Rules)),
	}
	for ruleName, r := range def.Rules {
		compiled, err := compileRule(ruleName, r)
		if err != nil {
			return nil, err
		}
		lang.rules[ruleName] = compiled
	}
	for _, r := range def.Extras {
		compiled, err := compileRule("extras", r)
		if err != nil {
			return nil, err
		}
		lang.extras = append(lang.extras, compiled)
	}

	for ruleName, r := range lang.rules {
		if err := resolveRefs(ruleName, r, lang.rules); err != nil {
			return nil, err
		}
	}
	for _, r := range lang.extras {
		if err := resolveRefs("extras", r, lang.rules); err != nil {
			return nil, err
		}
	}
	return lang, nil
}

func compileRule(context string, r defRule) (*compiledRule, error) {
	switch r.Type {
	case "STRING":
		return &compiledRule{kind: kindString, literal: r.Value}, nil
	case "PATTERN":
		// Anchor at the current offset; the window starts there.
		re, err := regexp.Compile(`\A(?:` + r.Value + `)`)
		if err != nil {
			return nil, fmt.Errorf("rule '%s': invalid pattern '%s'", context, r.Value)
		}
		return &compiledRule{kind: kindPattern, literal: r.Value, re: re}, nil
	case "SYMBOL":
		return &compiledRule{kind: kindSymbol, name: r.Name}, nil
	case "SEQ", "CHOICE":
		kind := kindSeq
		if r.Type == "CHOICE" {
			kind = kindChoice
		}
		if len(r.Members) == 0 {
			return nil, fmt.Errorf("rule '%s': %s has no members", context, r.Type)
		}
		members := make([]*compiledRule, len(r.Members))
		for i, m := range r.Members {
			compiled, err := compileRule(context, m)
			if err != nil {
				return nil, err
			}
			members[i] = compiled
		}
		return &compiledRule{kind: kind, members: members}, nil
	case "REPEAT", "REPEAT1", "TOKEN":
		kind := kindRepeat
		switch r.Type {
		case "REPEAT1":
			kind = kindRepeat1
		case "TOKEN":
			kind = kindToken
		}
		if r.Content == nil {
			return nil, fmt.Errorf("rule '%s': %s has no content", context, r.Type)
		}
		content, err := compileRule(context, *r.Content)
		if err != nil {
			return nil, err
		}
		return &compiledRule{kind: kind, content: content}, nil
	case "BLANK":
		return &compiledRule{kind: kindBlank}, nil
	default:
		return nil, fmt.Errorf("rule '%s': unknown rule type '%s'", context, r.Type)
	}
}

func resolveRefs(context string, r *compiledRule, rules map[string]*compiledRule) error {
	switch r.kind {
	case kindSymbol:
		target, ok := rules[r.name]
		if !ok {
			return fmt.Errorf("rule '%s' references undefined rule '%s'", context, r.name)
		}
		r.ref = target
	case kindSeq, kindChoice:
		for _, m := range r.members {
			if err := resolveRefs(context, m, rules); err != nil {
				return err
			}
		}
	case kindRepeat, kindRepeat1, kindToken:
		return resolveRefs(context, r.content, rules)
	}
	return nil
}

// hidden reports whether a rule name denotes a hidden rule. Hidden rules
// splice their children into the parent instead of producing a node.
func hidden(name string) bool {
	return strings.HasPrefix(name, "_")
}
