package syntax

import (
	"fmt"
	"io"
	"strings"
)

// errorKind is the kind of nodes produced by error recovery.
const errorKind = "ERROR"

// Node is one node of a parsed tree. Nodes are read-only; the tree they
// belong to owns them.
type Node struct {
	kind     string
	named    bool
	start    int
	end      int
	children []*Node
}

// Kind returns the node kind: a rule name for named nodes, the matched
// text for anonymous tokens, or ERROR for recovery nodes.
func (n *Node) Kind() string {
	return n.kind
}

// Named reports whether the node appears in the canonical serialization.
func (n *Node) Named() bool {
	return n.named
}

// IsError reports whether the node was produced by error recovery.
func (n *Node) IsError() bool {
	return n.kind == errorKind
}

// Start returns the byte offset where the node begins.
func (n *Node) Start() int {
	return n.start
}

// End returns the byte offset just past the node.
func (n *Node) End() int {
	return n.end
}

// Children returns the node's children in input order, anonymous tokens
// included.
func (n *Node) Children() []*Node {
	return n.children
}

func errorNode(start, end int) *Node {
	return &Node{kind: errorKind, named: true, start: start, end: end}
}

// Tree is the result of a parse. The root always covers the whole input.
type Tree struct {
	root *Node
}

// Root returns the root node.
func (t *Tree) Root() *Node {
	return t.root
}

// Sexp serializes the tree to its canonical s-expression: named nodes
// only, children separated by single spaces. Identical trees serialize
// identically.
func (t *Tree) Sexp() string {
	var b strings.Builder
	writeSexp(&b, t.root)
	return b.String()
}

func writeSexp(b *strings.Builder, n *Node) {
	b.WriteByte('(')
	b.WriteString(n.kind)
	for _, c := range n.children {
		if !c.named {
			continue
		}
		b.WriteByte(' ')
		writeSexp(b, c)
	}
	b.WriteByte(')')
}

// WriteDot renders the tree as a DOT digraph, anonymous tokens included.
// Graph-log sessions capture one digraph per parse.
func (t *Tree) WriteDot(w io.Writer) error {
	var b strings.Builder
	b.WriteString("digraph tree {\n")
	b.WriteString("  node [shape=box];\n")
	nextID := 0
	writeDotNode(&b, t.root, &nextID)
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func writeDotNode(b *strings.Builder, n *Node, nextID *int) int {
	id := *nextID
	*nextID++
	label := fmt.Sprintf("%s [%d, %d]", dotEscape(n.kind), n.start, n.end)
	fmt.Fprintf(b, "  n%d [label=\"%s\"];\n", id, label)
	for _, c := range n.children {
		childID := writeDotNode(b, c, nextID)
		fmt.Fprintf(b, "  n%d -> n%d;\n", id, childID)
	}
	return id
}

func dotEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
