// Package validator implements static checks of JSL programs.
//
// A JSL program is always valid once it parses, so every diagnostic
// produced here is a warning: reading a name that is never bound pushes
// null, and binding a name that is never read has no effect.
package validator

import (
	"fmt"
	"sort"

	"github.com/thomasrohde/jsl/pkg/ast"
	"github.com/thomasrohde/jsl/pkg/diagnostics"
)

type validator struct {
	diags []diagnostics.Diagnostic
	// first occurrence of each name, in source order
	bound map[string]ast.Span
	read  map[string]ast.Span
}

// Validate walks tree, descending into function literals, and returns
// warnings sorted by position.
func Validate(tree ast.AST) []diagnostics.Diagnostic {
	v := &validator{
		bound: make(map[string]ast.Span),
		read:  make(map[string]ast.Span),
	}
	v.collect(tree)

	for name, span := range v.read {
		if _, ok := v.bound[name]; !ok {
			v.addDiag(diagnostics.WUnbound, fmt.Sprintf("%s is never bound and always reads as ∅", name), span)
		}
	}
	for name, span := range v.bound {
		if _, ok := v.read[name]; !ok {
			v.addDiag(diagnostics.WUnused, fmt.Sprintf("%s is bound but never read", name), span)
		}
	}

	sort.Slice(v.diags, func(i, j int) bool {
		a, b := v.diags[i].Span, v.diags[j].Span
		if a.StartLine != b.StartLine {
			return a.StartLine < b.StartLine
		}
		return a.StartCol < b.StartCol
	})
	return v.diags
}

func (v *validator) addDiag(code, msg string, span ast.Span) {
	v.diags = append(v.diags, diagnostics.MakeDiag(code, msg, &span, ""))
}

func (v *validator) collect(body ast.AST) {
	for _, stmt := range body {
		switch s := stmt.(type) {
		case *ast.Binding:
			if _, ok := v.bound[s.Name]; !ok {
				v.bound[s.Name] = s.Span
			}
		case *ast.Identifier:
			if _, ok := v.read[s.Name]; !ok {
				v.read[s.Name] = s.Span
			}
		case *ast.Literal:
			if fn, ok := s.Value.(ast.Function); ok {
				v.collect(fn.Body)
			}
		}
	}
}
