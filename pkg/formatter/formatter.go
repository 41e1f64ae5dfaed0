// Package formatter implements the JSL source code formatter.
package formatter

import (
	"fmt"
	"math"
	"strings"

	"github.com/thomasrohde/jsl/pkg/ast"
)

// Format pretty-prints a JSL AST back to canonical source code.
//
// Statements are separated by single spaces. Strings containing a backslash
// have no source form and make Format return an error.
func Format(tree ast.AST) (string, error) {
	var b strings.Builder
	if err := formatBody(&b, tree); err != nil {
		return "", err
	}
	b.WriteByte('\n')
	return b.String(), nil
}

// HasComments checks if a source string contains JSL comments (# prefix).
// String literals may span lines, so the scan runs over the whole source.
func HasComments(source string) bool {
	inString := false
	runes := []rune(source)
	for i := 0; i < len(runes); i++ {
		switch {
		case inString && runes[i] == '\\':
			i++
		case runes[i] == '"':
			inString = !inString
		case !inString && runes[i] == '#':
			return true
		}
	}
	return false
}

func formatBody(b *strings.Builder, body ast.AST) error {
	for i, stmt := range body {
		if i > 0 {
			b.WriteByte(' ')
		}
		if err := formatStmt(b, stmt); err != nil {
			return err
		}
	}
	return nil
}

func formatStmt(b *strings.Builder, s ast.Statement) error {
	switch stmt := s.(type) {
	case *ast.Binding:
		b.WriteString("→" + stmt.Name)
	case *ast.Identifier:
		b.WriteString(stmt.Name)
	case *ast.PrimitiveOp:
		b.WriteRune(stmt.Op.Symbol())
	case *ast.Literal:
		return formatLiteral(b, stmt)
	default:
		return fmt.Errorf("cannot format %T", s)
	}
	return nil
}

func formatLiteral(b *strings.Builder, lit *ast.Literal) error {
	switch v := lit.Value.(type) {
	case ast.Null:
		b.WriteString("∅")
	case ast.Number:
		if math.IsInf(v.Value, 0) || math.IsNaN(v.Value) || v.Value < 0 {
			return fmt.Errorf("%s:%d:%d: number %s has no source representation",
				lit.Span.File, lit.Span.StartLine, lit.Span.StartCol, ast.FormatNumber(v.Value))
		}
		b.WriteString(ast.FormatNumber(v.Value))
	case ast.String:
		if strings.ContainsRune(v.Value, '\\') {
			return fmt.Errorf("%s:%d:%d: string containing \\ has no source representation",
				lit.Span.File, lit.Span.StartLine, lit.Span.StartCol)
		}
		b.WriteString(quote(v.Value))
	case ast.List:
		if len(v.Items) > 0 {
			return fmt.Errorf("%s:%d:%d: only the empty list has a literal form",
				lit.Span.File, lit.Span.StartLine, lit.Span.StartCol)
		}
		b.WriteString("□")
	case ast.Function:
		if len(v.Body) == 0 {
			b.WriteString("{ }")
			return nil
		}
		b.WriteString("{ ")
		if err := formatBody(b, v.Body); err != nil {
			return err
		}
		b.WriteString(" }")
	default:
		return fmt.Errorf("cannot format literal %T", lit.Value)
	}
	return nil
}

// quote writes s in source form using the escapes the parser accepts.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, c := range s {
		switch c {
		case '\r':
			b.WriteString(`\r`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteRune(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
