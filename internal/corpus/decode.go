package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Corpus file format:
//
//	==================
//	example name
//	==================
//
//	input bytes
//
//	---
//
//	(expected sexp)
//
// A delimiter line is three or more '='; a separator line is three or
// more '-'. The blank lines around the input are formatting and are not
// part of the input; interior bytes are preserved exactly.

// Load decodes a corpus file or a directory of corpus files into a Group.
func Load(path string) (Group, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Group{}, fmt.Errorf("failed to read corpus: %w", err)
	}
	if info.IsDir() {
		return LoadDir(path)
	}
	return LoadFile(path)
}

// LoadFile decodes a single corpus file into a Group named after the file
// (extension stripped) whose children are the file's examples in order.
func LoadFile(path string) (Group, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Group{}, fmt.Errorf("failed to read corpus file: %w", err)
	}

	examples, err := parseExamples(string(data))
	if err != nil {
		return Group{}, fmt.Errorf("%s: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	group := Group{EntryName: name}
	for _, example := range examples {
		group.Children = append(group.Children, example)
	}
	return group, nil
}

// LoadDir decodes a directory into a Group named after the directory.
// Subdirectories recurse; files must carry the .txt extension; children
// appear in sorted name order. Hidden entries are skipped.
func LoadDir(path string) (Group, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return Group{}, fmt.Errorf("failed to read corpus directory: %w", err)
	}

	group := Group{EntryName: filepath.Base(path)}
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		child := filepath.Join(path, name)
		switch {
		case entry.IsDir():
			sub, err := LoadDir(child)
			if err != nil {
				return Group{}, err
			}
			group.Children = append(group.Children, sub)
		case strings.HasSuffix(name, ".txt"):
			sub, err := LoadFile(child)
			if err != nil {
				return Group{}, err
			}
			group.Children = append(group.Children, sub)
		}
	}
	return group, nil
}

// parseExamples decodes the flat example sequence of one corpus file.
func parseExamples(content string) ([]Example, error) {
	lines := splitLines(content)

	var examples []Example
	i := 0
	for {
		// Skip blank lines between examples.
		for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
			i++
		}
		if i >= len(lines) {
			return examples, nil
		}

		if !isDelimiter(lines[i]) {
			return nil, fmt.Errorf("line %d: expected example delimiter, got %q", i+1, lines[i])
		}
		i++

		if i >= len(lines) || isDelimiter(lines[i]) || strings.TrimSpace(lines[i]) == "" {
			return nil, fmt.Errorf("line %d: expected example name", i+1)
		}
		name := strings.TrimSpace(lines[i])
		i++

		if i >= len(lines) || !isDelimiter(lines[i]) {
			return nil, fmt.Errorf("line %d: expected closing delimiter after example name", i+1)
		}
		i++

		// Input runs until the separator. The first separator line wins,
		// so inputs cannot themselves contain a bare dashed line.
		inputStart := i
		for i < len(lines) && !isSeparator(lines[i]) {
			if isDelimiter(lines[i]) {
				return nil, fmt.Errorf("line %d: example %q has no output separator", i+1, name)
			}
			i++
		}
		if i >= len(lines) {
			return nil, fmt.Errorf("example %q has no output separator", name)
		}
		input := strings.Join(lines[inputStart:i], "\n")
		i++ // consume separator

		// Output runs until the next delimiter or end of file.
		outputStart := i
		for i < len(lines) && !isDelimiter(lines[i]) {
			i++
		}
		output := normalizeOutput(strings.Join(lines[outputStart:i], "\n"))

		examples = append(examples, Example{
			EntryName: name,
			Input:     []byte(trimEdgeNewlines(input)),
			Output:    output,
		})
	}
}

// splitLines splits on '\n' and drops a trailing '\r' from each line so
// CRLF corpora decode identically to LF ones.
func splitLines(content string) []string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// isDelimiter reports whether a line is an example delimiter (3+ '=').
func isDelimiter(line string) bool {
	return isRunOf(line, '=')
}

// isSeparator reports whether a line is an input/output separator (3+ '-').
func isSeparator(line string) bool {
	return isRunOf(line, '-')
}

func isRunOf(line string, ch byte) bool {
	trimmed := strings.TrimRight(line, " \t")
	if len(trimmed) < 3 {
		return false
	}
	for i := 0; i < len(trimmed); i++ {
		if trimmed[i] != ch {
			return false
		}
	}
	return true
}

// trimEdgeNewlines removes leading and trailing newlines from the input.
// The conventional blank lines around an example's input are formatting;
// interior newlines are content.
func trimEdgeNewlines(s string) string {
	return strings.Trim(s, "\n")
}

// normalizeOutput collapses whitespace runs in an expected s-expression to
// single spaces. Comparison downstream is exact string equality on this
// canonical form, which makes corpora whitespace-insensitive between
// tokens but structurally exact.
func normalizeOutput(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
