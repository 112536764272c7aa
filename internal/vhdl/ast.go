package vhdl

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Node is one element of a token tree.
// Only Leaf and Group implement it.
type Node interface {
	node()
	spacedBefore() bool
	render(b *strings.Builder)
}

// Leaf is a maximal run of adjacent non-space characters, or a reserved
// word inside a group.
type Leaf struct {
	Text   string
	Spaced bool // whitespace preceded the leaf in the source
}

func (Leaf) node() {}

func (l Leaf) spacedBefore() bool { return l.Spaced }

func (l Leaf) render(b *strings.Builder) { b.WriteString(l.Text) }

// Group is a parenthesized list of nodes.
type Group struct {
	Items  []Node
	Spaced bool
}

func (Group) node() {}

func (g Group) spacedBefore() bool { return g.Spaced }

func (g Group) render(b *strings.Builder) {
	b.WriteByte('(')
	renderNodes(b, g.Items)
	b.WriteByte(')')
}

// Expr is an opaque token tree captured as written.
// A nil Expr means "absent".
type Expr []Node

// String renders the expression. Whitespace between nodes collapses to a
// single space; adjacency without whitespace is preserved.
func (e Expr) String() string {
	var b strings.Builder
	renderNodes(&b, e)
	return b.String()
}

func renderNodes(b *strings.Builder, nodes []Node) {
	for i, n := range nodes {
		if i > 0 && n.spacedBefore() {
			b.WriteByte(' ')
		}
		n.render(b)
	}
}

// RangeDir is the direction of a discrete range.
type RangeDir string

const (
	To     RangeDir = "to"
	Downto RangeDir = "downto"
)

// Range is "left to right" or "left downto right".
type Range struct {
	Left  Expr
	Right Expr
	Dir   RangeDir
}

// Low returns the low bound of the range.
func (r Range) Low() Expr {
	if r.Dir == Downto {
		return r.Right
	}
	return r.Left
}

// High returns the high bound of the range.
func (r Range) High() Expr {
	if r.Dir == Downto {
		return r.Left
	}
	return r.Right
}

func (r Range) String() string {
	return r.Left.String() + " " + string(r.Dir) + " " + r.Right.String()
}

// TypeRef is a subtype indication: a type mark, an optional index range and
// an optional "range L to R" constraint.
type TypeRef struct {
	Name       string
	Range      *Range
	Constraint *Range
}

// String renders the type as it would appear in a declaration.
func (t TypeRef) String() string {
	s := t.Name
	if t.Range != nil {
		s += "(" + t.Range.String() + ")"
	}
	if t.Constraint != nil {
		s += " range " + t.Constraint.String()
	}
	return s
}

// PortMode is the direction of a port.
type PortMode string

const (
	ModeIn     PortMode = "in"
	ModeOut    PortMode = "out"
	ModeInOut  PortMode = "inout"
	ModeBuffer PortMode = "buffer"
)

// Generic is one entry of a generic clause.
type Generic struct {
	Name    string
	Type    TypeRef
	Default Expr   // nil when no default is given
	Comment string // trailing comment text after "--", empty if none
	Pos     lexer.Position
}

// Port is one entry of a port clause.
type Port struct {
	Name    string
	Mode    PortMode
	Type    TypeRef
	Default Expr
	Comment string
	Pos     lexer.Position
}

// Comment is a comment line: text after the "--" marker, verbatim.
type Comment struct {
	Text string
	Line int
}

// Entity is a parsed entity declaration.
type Entity struct {
	Name     string
	Generics []Generic
	Ports    []Port

	// PortComments holds bare comment lines found inside the port clause.
	PortComments []Comment

	Pos lexer.Position
}

// UseStatement is "use library.element.object".
type UseStatement struct {
	Library string
	Element string
	Object  string
}

func (u UseStatement) String() string {
	return u.Library + "." + u.Element + "." + u.Object
}

// File is the result of parsing one source file.
type File struct {
	Name     string
	Entity   Entity
	Uses     []UseStatement
	Comments []Comment
}
