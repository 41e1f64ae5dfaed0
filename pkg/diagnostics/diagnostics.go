// Package diagnostics defines JSL diagnostic types for lex/parse/runtime errors.
package diagnostics

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/thomasrohde/jsl/pkg/ast"
)

// Diagnostic code constants.
const (
	ELex       = "E_LEX"
	EParse     = "E_PARSE"
	EUnderflow = "E_UNDERFLOW"
	EType      = "E_TYPE"
	ECall      = "E_CALL"
	EIndex     = "E_INDEX"
	EBudget    = "E_BUDGET"
	EConfig    = "E_CONFIG"
	EIO        = "E_IO"

	WUnbound = "W_UNBOUND"
	WUnused  = "W_UNUSED"
)

// Diagnostic represents a lex, parse, or runtime diagnostic.
type Diagnostic struct {
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Span    *ast.Span `json:"span,omitempty"`
	Hint    string    `json:"hint,omitempty"`
}

// MakeDiag creates a new Diagnostic.
func MakeDiag(code, message string, span *ast.Span, hint string) Diagnostic {
	return Diagnostic{
		Code:    code,
		Message: message,
		Span:    span,
		Hint:    hint,
	}
}

// Error renders the diagnostic the way the CLI reports it: "error: <message>".
func Error(d Diagnostic) string {
	return "error: " + d.Message
}

// IsWarning reports whether the diagnostic leaves the program runnable.
func IsWarning(d Diagnostic) bool {
	return strings.HasPrefix(d.Code, "W_")
}

// Warning renders a warning diagnostic with its location.
func Warning(d Diagnostic) string {
	if d.Span != nil {
		return fmt.Sprintf("warning: %s:%d:%d: %s", d.Span.File, d.Span.StartLine, d.Span.StartCol, d.Message)
	}
	return "warning: " + d.Message
}

// FormatDiagnostic formats a single diagnostic for display.
func FormatDiagnostic(d Diagnostic, pretty bool) string {
	if !pretty {
		b, _ := json.Marshal(d)
		return string(b)
	}
	loc := "<unknown>"
	if d.Span != nil {
		loc = fmt.Sprintf("%s:%d:%d", d.Span.File, d.Span.StartLine, d.Span.StartCol)
	}
	severity := "error"
	if IsWarning(d) {
		severity = "warning"
	}
	out := fmt.Sprintf("%s[%s]: %s\n  --> %s", severity, d.Code, d.Message, loc)
	if d.Hint != "" {
		out += fmt.Sprintf("\n  hint: %s", d.Hint)
	}
	return out
}

// FormatDiagnostics formats a slice of diagnostics for display.
func FormatDiagnostics(diags []Diagnostic, pretty bool) string {
	if !pretty {
		b, _ := json.Marshal(diags)
		return string(b)
	}
	parts := make([]string, len(diags))
	for i, d := range diags {
		parts[i] = FormatDiagnostic(d, true)
	}
	return strings.Join(parts, "\n\n")
}
