package evaluator

import (
	"sort"

	"github.com/benbjohnson/immutable"

	"github.com/thomasrohde/jsl/pkg/ast"
)

// Env is the name-to-value environment of a running program.
//
// Bindings live in a persistent map, so Clone is O(1) and writes made
// through a clone never reach the original.
type Env struct {
	bindings *immutable.Map[string, ast.Value]
}

// NewEnv creates an empty environment.
func NewEnv() *Env {
	return &Env{bindings: immutable.NewMap[string, ast.Value](nil)}
}

// Clone returns an independent copy of the environment.
func (e *Env) Clone() *Env {
	return &Env{bindings: e.bindings}
}

// Get looks up a variable by name.
func (e *Env) Get(name string) (ast.Value, bool) {
	return e.bindings.Get(name)
}

// Lookup returns the value bound to name, or null when unbound.
func (e *Env) Lookup(name string) ast.Value {
	if v, ok := e.bindings.Get(name); ok {
		return v
	}
	return ast.NewNull()
}

// Set binds a variable, replacing any prior binding.
func (e *Env) Set(name string, val ast.Value) {
	e.bindings = e.bindings.Set(name, val)
}

// Len returns the number of bindings.
func (e *Env) Len() int {
	return e.bindings.Len()
}

// Names returns the bound names in sorted order.
func (e *Env) Names() []string {
	names := make([]string, 0, e.bindings.Len())
	itr := e.bindings.Iterator()
	for !itr.Done() {
		name, _, _ := itr.Next()
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
