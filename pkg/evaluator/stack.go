package evaluator

import (
	"strings"

	"github.com/thomasrohde/jsl/pkg/ast"
)

// Stack is the last-in-first-out value stack shared by a program and every
// function it calls.
type Stack struct {
	items []ast.Value
}

// NewStack creates a stack holding items, bottom first.
func NewStack(items ...ast.Value) *Stack {
	s := &Stack{}
	s.items = append(s.items, items...)
	return s
}

// Push adds v on top.
func (s *Stack) Push(v ast.Value) {
	s.items = append(s.items, v)
}

// Pop removes and returns the top value. ok is false on an empty stack.
func (s *Stack) Pop() (v ast.Value, ok bool) {
	if len(s.items) == 0 {
		return nil, false
	}
	v = s.items[len(s.items)-1]
	s.items[len(s.items)-1] = nil
	s.items = s.items[:len(s.items)-1]
	return v, true
}

// Peek returns the top value without removing it.
func (s *Stack) Peek() (ast.Value, bool) {
	if len(s.items) == 0 {
		return nil, false
	}
	return s.items[len(s.items)-1], true
}

// Len returns the number of values on the stack.
func (s *Stack) Len() int {
	return len(s.items)
}

// Items returns a copy of the stack contents, bottom first.
func (s *Stack) Items() []ast.Value {
	out := make([]ast.Value, len(s.items))
	copy(out, s.items)
	return out
}

// Clear empties the stack.
func (s *Stack) Clear() {
	s.items = nil
}

// String renders the stack bottom first in debug form, e.g. `[ 1 "a" ]`.
func (s *Stack) String() string {
	var b strings.Builder
	b.WriteString("[ ")
	for _, v := range s.items {
		b.WriteString(ast.Debug(v))
		b.WriteByte(' ')
	}
	b.WriteByte(']')
	return b.String()
}
