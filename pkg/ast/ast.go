// Package ast defines the JSL instruction tree and the runtime values it embeds.
package ast

// Span represents a source location range.
type Span struct {
	File      string `json:"file"`
	StartLine int    `json:"startLine"`
	StartCol  int    `json:"startCol"`
	EndLine   int    `json:"endLine"`
	EndCol    int    `json:"endCol"`
}

// Node is the interface implemented by all AST nodes.
type Node interface {
	Kind() string
	NodeSpan() Span
}

// --- Statement is the interface for all instruction nodes ---

type Statement interface {
	Node
	stmtNode() // sealed marker
}

// AST is an ordered sequence of statements: a whole program or a function body.
type AST []Statement

// Binding pops the stack top and stores it under Name.
type Binding struct {
	Span Span
	Name string
}

func (n *Binding) Kind() string   { return "Binding" }
func (n *Binding) NodeSpan() Span { return n.Span }
func (n *Binding) stmtNode()      {}

// Identifier pushes the value bound to Name, or null.
type Identifier struct {
	Span Span
	Name string
}

func (n *Identifier) Kind() string   { return "Identifier" }
func (n *Identifier) NodeSpan() Span { return n.Span }
func (n *Identifier) stmtNode()      {}

// Literal pushes a precomputed constant.
type Literal struct {
	Span  Span
	Value Value
}

func (n *Literal) Kind() string   { return "Literal" }
func (n *Literal) NodeSpan() Span { return n.Span }
func (n *Literal) stmtNode()      {}

// PrimitiveOp runs one of the built-in stack operations.
type PrimitiveOp struct {
	Span Span
	Op   Primitive
}

func (n *PrimitiveOp) Kind() string   { return "PrimitiveOp" }
func (n *PrimitiveOp) NodeSpan() Span { return n.Span }
func (n *PrimitiveOp) stmtNode()      {}

// Concat returns a new AST holding the statements of a followed by those of b.
// Neither input is modified.
func Concat(a, b AST) AST {
	out := make(AST, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
