// Package generate compiles declarative grammar files into language
// definitions.
//
// A grammar file (grammar.json) names its rules and combines them with a
// small set of operators. Compilation validates the file against the
// embedded JSON schema, runs semantic checks with exact and deterministic
// error messages, normalizes sugar operators away, and emits a versioned
// JSON language definition for the syntax engine to interpret. The first
// rule of the grammar file is the root rule.
package generate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"

	"github.com/AndreyAkinshin/treebank/internal/schema"
)

// FormatVersion identifies the language definition format emitted by this
// generator. The syntax engine refuses definitions with any other version.
const FormatVersion = 1

// Rule operators accepted in grammar files. OPTIONAL exists only in
// grammar files; normalization rewrites it to CHOICE(content, BLANK).
const (
	TypeString   = "STRING"
	TypePattern  = "PATTERN"
	TypeSymbol   = "SYMBOL"
	TypeSeq      = "SEQ"
	TypeChoice   = "CHOICE"
	TypeRepeat   = "REPEAT"
	TypeRepeat1  = "REPEAT1"
	TypeOptional = "OPTIONAL"
	TypeBlank    = "BLANK"
	TypeToken    = "TOKEN"
)

// Error is a grammar compilation failure. Its message is the exact text
// that test-grammar corpora compare against, so it must stay deterministic
// for a given grammar.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Rule is one node of a grammar rule tree, both as decoded from grammar
// files and as emitted into language definitions.
type Rule struct {
	Type    string `json:"type"`
	Name    string `json:"name,omitempty"`
	Value   string `json:"value,omitempty"`
	Members []Rule `json:"members,omitempty"`
	Content *Rule  `json:"content,omitempty"`
}

type grammar struct {
	Name   string          `json:"name"`
	Rules  map[string]Rule `json:"rules"`
	Extras []Rule          `json:"extras"`
}

// Definition is the compiled language definition.
type Definition struct {
	Format int             `json:"format"`
	Name   string          `json:"name"`
	Root   string          `json:"root"`
	Rules  map[string]Rule `json:"rules"`
	Extras []Rule          `json:"extras,omitempty"`
}

// ParserForGrammar compiles a grammar file into a language definition.
// The returned source is deterministic: compiling the same grammar twice
// yields byte-identical output.
func ParserForGrammar(grammarJSON string) (string, error) {
	data := []byte(grammarJSON)

	if err := schema.ValidateGrammar(data); err != nil {
		return "", &Error{Message: err.Error()}
	}

	var g grammar
	if err := json.Unmarshal(data, &g); err != nil {
		return "", &Error{Message: fmt.Sprintf("malformed grammar: %v", err)}
	}

	if len(g.Rules) == 0 {
		return "", &Error{Message: "grammar has no rules"}
	}

	root, ok := firstRuleName(data)
	if !ok {
		return "", &Error{Message: "grammar has no rules"}
	}

	if err := check(g); err != nil {
		return "", err
	}

	def := Definition{
		Format: FormatVersion,
		Name:   g.Name,
		Root:   root,
		Rules:  make(map[string]Rule, len(g.Rules)),
	}
	for name, r := range g.Rules {
		def.Rules[name] = normalize(r)
	}
	for _, r := range g.Extras {
		def.Extras = append(def.Extras, normalize(r))
	}

	out, err := json.MarshalIndent(def, "", "  ")
	if err != nil {
		return "", &Error{Message: fmt.Sprintf("cannot encode language definition: %v", err)}
	}
	return string(out) + "\n", nil
}

// check runs the semantic checks. Rules are visited in sorted name order
// so that a grammar with several problems always reports the same one.
func check(g grammar) error {
	names := sortedRuleNames(g.Rules)

	for _, name := range names {
		context := fmt.Sprintf("rule '%s'", name)
		if err := checkRule(context, g.Rules[name], g.Rules); err != nil {
			return err
		}
	}
	for _, extra := range g.Extras {
		if err := checkRule("extras", extra, g.Rules); err != nil {
			return err
		}
	}

	nullable := nullableRules(g.Rules, names)

	for _, name := range names {
		context := fmt.Sprintf("rule '%s'", name)
		if err := checkRepeats(context, g.Rules[name], g.Rules, nullable); err != nil {
			return err
		}
	}

	return checkLeftRecursion(g.Rules, names, nullable)
}

// checkRule validates one rule tree structurally: the operator vocabulary,
// literal well-formedness, and symbol references.
func checkRule(context string, r Rule, rules map[string]Rule) error {
	switch r.Type {
	case TypeString:
		if r.Value == "" {
			return &Error{Message: fmt.Sprintf("%s: empty string literal", context)}
		}
	case TypePattern:
		if _, err := regexp.Compile(r.Value); err != nil {
			return &Error{Message: fmt.Sprintf("%s: invalid pattern '%s'", context, r.Value)}
		}
	case TypeSymbol:
		if _, ok := rules[r.Name]; !ok {
			return &Error{Message: fmt.Sprintf("%s references undefined rule '%s'", context, r.Name)}
		}
	case TypeSeq, TypeChoice:
		if len(r.Members) == 0 {
			return &Error{Message: fmt.Sprintf("%s: %s has no members", context, r.Type)}
		}
		for _, m := range r.Members {
			if err := checkRule(context, m, rules); err != nil {
				return err
			}
		}
	case TypeRepeat, TypeRepeat1, TypeOptional, TypeToken:
		if r.Content == nil {
			return &Error{Message: fmt.Sprintf("%s: %s has no content", context, r.Type)}
		}
		return checkRule(context, *r.Content, rules)
	case TypeBlank:
		// Nothing to validate.
	default:
		return &Error{Message: fmt.Sprintf("%s: unknown rule type '%s'", context, r.Type)}
	}
	return nil
}

// checkRepeats rejects repeat operators whose content can match the empty
// string; interpreting such a repeat would never terminate.
func checkRepeats(context string, r Rule, rules map[string]Rule, nullable map[string]bool) error {
	switch r.Type {
	case TypeRepeat, TypeRepeat1:
		if ruleNullable(*r.Content, nullable) {
			return &Error{Message: fmt.Sprintf("%s: repeat content matches the empty string", context)}
		}
		return checkRepeats(context, *r.Content, rules, nullable)
	case TypeOptional, TypeToken:
		return checkRepeats(context, *r.Content, rules, nullable)
	case TypeSeq, TypeChoice:
		for _, m := range r.Members {
			if err := checkRepeats(context, m, rules, nullable); err != nil {
				return err
			}
		}
	}
	return nil
}

// nullableRules computes, to a fixpoint, which named rules can match the
// empty string.
func nullableRules(rules map[string]Rule, names []string) map[string]bool {
	nullable := make(map[string]bool, len(rules))
	for changed := true; changed; {
		changed = false
		for _, name := range names {
			if nullable[name] {
				continue
			}
			if ruleNullable(rules[name], nullable) {
				nullable[name] = true
				changed = true
			}
		}
	}
	return nullable
}

func ruleNullable(r Rule, nullable map[string]bool) bool {
	switch r.Type {
	case TypeBlank, TypeRepeat, TypeOptional:
		return true
	case TypeString:
		return r.Value == ""
	case TypePattern:
		re, err := regexp.Compile(r.Value)
		if err != nil {
			return false
		}
		loc := re.FindStringIndex("")
		return loc != nil && loc[0] == 0
	case TypeSymbol:
		return nullable[r.Name]
	case TypeSeq:
		for _, m := range r.Members {
			if !ruleNullable(m, nullable) {
				return false
			}
		}
		return true
	case TypeChoice:
		for _, m := range r.Members {
			if ruleNullable(m, nullable) {
				return true
			}
		}
		return false
	case TypeRepeat1, TypeToken:
		return r.Content != nil && ruleNullable(*r.Content, nullable)
	default:
		return false
	}
}

// checkLeftRecursion walks the graph of rules reachable at the leftmost
// position before any input is consumed. A cycle there means the
// interpreter could recurse forever without advancing, so it is rejected
// at compile time. The traversal is depth-first with an explicit stack
// set, visiting rules and their references in sorted order for stable
// messages.
func checkLeftRecursion(rules map[string]Rule, names []string, nullable map[string]bool) error {
	visited := make(map[string]bool, len(rules))
	inStack := make(map[string]bool, len(rules))

	var visit func(name string) error
	visit = func(name string) error {
		if inStack[name] {
			return &Error{Message: fmt.Sprintf("left recursion detected in rule '%s'", name)}
		}
		if visited[name] {
			return nil
		}
		visited[name] = true
		inStack[name] = true
		for _, ref := range leftmostRefs(rules[name], nullable) {
			if _, ok := rules[ref]; !ok {
				continue
			}
			if err := visit(ref); err != nil {
				return err
			}
		}
		inStack[name] = false
		return nil
	}

	for _, name := range names {
		if err := visit(name); err != nil {
			return err
		}
	}
	return nil
}

// leftmostRefs returns the rule names a rule can invoke before consuming
// any input, in sorted order without duplicates.
func leftmostRefs(r Rule, nullable map[string]bool) []string {
	set := make(map[string]bool)
	collectLeftmost(r, nullable, set)
	refs := make([]string, 0, len(set))
	for name := range set {
		refs = append(refs, name)
	}
	sort.Strings(refs)
	return refs
}

func collectLeftmost(r Rule, nullable map[string]bool, set map[string]bool) {
	switch r.Type {
	case TypeSymbol:
		set[r.Name] = true
	case TypeSeq:
		for _, m := range r.Members {
			collectLeftmost(m, nullable, set)
			if !ruleNullable(m, nullable) {
				break
			}
		}
	case TypeChoice:
		for _, m := range r.Members {
			collectLeftmost(m, nullable, set)
		}
	case TypeRepeat, TypeRepeat1, TypeOptional, TypeToken:
		if r.Content != nil {
			collectLeftmost(*r.Content, nullable, set)
		}
	}
}

// normalize rewrites grammar-file sugar into the core operator set.
func normalize(r Rule) Rule {
	switch r.Type {
	case TypeOptional:
		content := normalize(*r.Content)
		return Rule{
			Type:    TypeChoice,
			Members: []Rule{content, {Type: TypeBlank}},
		}
	case TypeSeq, TypeChoice:
		members := make([]Rule, len(r.Members))
		for i, m := range r.Members {
			members[i] = normalize(m)
		}
		return Rule{Type: r.Type, Members: members}
	case TypeRepeat, TypeRepeat1, TypeToken:
		content := normalize(*r.Content)
		return Rule{Type: r.Type, Content: &content}
	default:
		return r
	}
}

// sortedRuleNames returns the rule names in sorted order.
func sortedRuleNames(rules map[string]Rule) []string {
	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// firstRuleName extracts the name of the first rule in the grammar file.
// Go maps do not preserve declaration order, so the raw JSON is walked
// token by token to find it.
func firstRuleName(data []byte) (string, bool) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return "", false
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return "", false
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return "", false
		}
		key, ok := keyTok.(string)
		if !ok {
			return "", false
		}
		if key != "rules" {
			if err := skipValue(dec); err != nil {
				return "", false
			}
			continue
		}

		tok, err := dec.Token()
		if err != nil {
			return "", false
		}
		if d, ok := tok.(json.Delim); !ok || d != '{' {
			return "", false
		}
		if !dec.More() {
			return "", false
		}
		nameTok, err := dec.Token()
		if err != nil {
			return "", false
		}
		name, ok := nameTok.(string)
		return name, ok
	}
	return "", false
}

// skipValue consumes one JSON value from the decoder.
func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	d, ok := tok.(json.Delim)
	if !ok || (d != '{' && d != '[') {
		return nil
	}
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}
