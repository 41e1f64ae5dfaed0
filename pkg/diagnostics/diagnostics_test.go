package diagnostics_test

import (
	"strings"
	"testing"

	"github.com/thomasrohde/jsl/pkg/ast"
	"github.com/thomasrohde/jsl/pkg/diagnostics"
)

func TestMakeDiag(t *testing.T) {
	span := &ast.Span{File: "test.jsl", StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 5}
	d := diagnostics.MakeDiag(diagnostics.EParse, "unexpected }", span, "remove it")

	if d.Code != diagnostics.EParse {
		t.Errorf("got Code = %q, want %q", d.Code, diagnostics.EParse)
	}
	if d.Message != "unexpected }" {
		t.Errorf("got Message = %q, want %q", d.Message, "unexpected }")
	}
}

func TestError(t *testing.T) {
	d := diagnostics.MakeDiag(diagnostics.ECall, "invalid function", nil, "")
	if got := diagnostics.Error(d); got != "error: invalid function" {
		t.Errorf("got %q, want %q", got, "error: invalid function")
	}
}

func TestFormatDiagnosticPretty(t *testing.T) {
	span := &ast.Span{File: "test.jsl", StartLine: 3, StartCol: 5, EndLine: 3, EndCol: 6}
	d := diagnostics.MakeDiag(diagnostics.EType, "cannot add string and string. perhaps you meant to use ” join?", span, "use ”")

	out := diagnostics.FormatDiagnostic(d, true)
	if !strings.Contains(out, "error[E_TYPE]") {
		t.Errorf("expected error code in output, got: %s", out)
	}
	if !strings.Contains(out, "test.jsl:3:5") {
		t.Errorf("expected location in output, got: %s", out)
	}
	if !strings.Contains(out, "hint:") {
		t.Errorf("expected hint in output, got: %s", out)
	}
}

func TestFormatDiagnosticJSON(t *testing.T) {
	d := diagnostics.MakeDiag(diagnostics.ELex, "unterminated string", nil, "")
	out := diagnostics.FormatDiagnostic(d, false)
	if !strings.Contains(out, `"code":"E_LEX"`) {
		t.Errorf("expected JSON code in output, got: %s", out)
	}
	if strings.Contains(out, `"span"`) {
		t.Errorf("nil span should be omitted, got: %s", out)
	}
}

func TestWarning(t *testing.T) {
	span := &ast.Span{File: "main.jsl", StartLine: 2, StartCol: 4}
	d := diagnostics.MakeDiag(diagnostics.WUnused, "x is bound but never read", span, "")
	if !diagnostics.IsWarning(d) {
		t.Fatal("expected W_ code to be a warning")
	}
	if got := diagnostics.Warning(d); got != "warning: main.jsl:2:4: x is bound but never read" {
		t.Errorf("got %q", got)
	}
	if out := diagnostics.FormatDiagnostic(d, true); !strings.HasPrefix(out, "warning[W_UNUSED]") {
		t.Errorf("got %q", out)
	}
	if diagnostics.IsWarning(diagnostics.MakeDiag(diagnostics.EParse, "x", nil, "")) {
		t.Error("E_ codes are errors")
	}
}
