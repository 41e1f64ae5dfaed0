package runtime

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/thomasrohde/jsl/pkg/diagnostics"
	"github.com/thomasrohde/jsl/pkg/evaluator"
)

func TestRunPrintsOutput(t *testing.T) {
	var out bytes.Buffer
	rt := New(WithOutput(&out))
	res, err := rt.Run("5 → x x x × ↗ 1", "test.jsl")
	if err != nil {
		t.Fatal(err)
	}
	if out.String() != "25" {
		t.Errorf("got output %q", out.String())
	}
	if len(res.Stack) != 1 {
		t.Errorf("expected one value left, got %d", len(res.Stack))
	}
}

func TestRunParseErrorIsDiagnosticError(t *testing.T) {
	_, err := New().Run("{ 1", "test.jsl")
	var de *DiagnosticError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DiagnosticError, got %T", err)
	}
	if de.Diagnostics[0].Code != diagnostics.EParse {
		t.Errorf("got code %s", de.Diagnostics[0].Code)
	}
	if err.Error() != "expected } before end of input" {
		t.Errorf("got %q", err.Error())
	}
}

func TestRunRuntimeErrorKeepsResult(t *testing.T) {
	res, err := New().Run("1 2 \"a\" +", "test.jsl")
	var rtErr *evaluator.RuntimeError
	if !errors.As(err, &rtErr) {
		t.Fatalf("expected *RuntimeError, got %v", err)
	}
	if res == nil || len(res.Stack) != 1 {
		t.Errorf("expected partial stack, got %+v", res)
	}
}

func TestMaxSteps(t *testing.T) {
	_, err := New(WithMaxSteps(50)).Run("{ f ! } → f f !", "test.jsl")
	var rtErr *evaluator.RuntimeError
	if !errors.As(err, &rtErr) || rtErr.Code != diagnostics.EBudget {
		t.Fatalf("expected budget error, got %v", err)
	}
}

func TestTraceRunID(t *testing.T) {
	var ids []string
	rt := New(WithRunID("abc"), WithTrace(func(ev evaluator.TraceEvent) {
		ids = append(ids, ev.RunID)
	}))
	if _, err := rt.Run("1", "test.jsl"); err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != "abc" {
		t.Errorf("got run ids %v", ids)
	}
}

func TestCheck(t *testing.T) {
	rt := New()
	if diags := rt.Check("1 2 +", "test.jsl"); len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	diags := rt.Check(`"open`, "test.jsl")
	if len(diags) != 1 || diags[0].Code != diagnostics.ELex {
		t.Errorf("expected lex diagnostic, got %v", diags)
	}
	// Check does not execute.
	if diags := rt.Check("1 !", "test.jsl"); len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	diags = rt.Check("x ↗", "test.jsl")
	if len(diags) != 1 || diags[0].Code != diagnostics.WUnbound {
		t.Errorf("expected unbound warning, got %v", diags)
	}
}

func TestFormat(t *testing.T) {
	out, err := New().Format("5→x  x x×", "test.jsl")
	if err != nil {
		t.Fatal(err)
	}
	if out != "5 →x x x ×\n" {
		t.Errorf("got %q", out)
	}
	if _, err := New().Format("}", "test.jsl"); err == nil {
		t.Error("expected error")
	}
}

func TestSessionPersistsState(t *testing.T) {
	var out bytes.Buffer
	s := New(WithOutput(&out)).NewSession()
	for _, entry := range []string{"2 → x", "x x ×", "↗"} {
		if err := s.Eval(entry, "<repl>"); err != nil {
			t.Fatalf("%q: %v", entry, err)
		}
	}
	if out.String() != "4" {
		t.Errorf("got output %q", out.String())
	}

	if err := s.Eval("1 +", "<repl>"); err == nil {
		t.Fatal("expected underflow")
	}
	if err := s.Eval("7 x", "<repl>"); err != nil {
		t.Fatal(err)
	}
	if got := s.Stack().String(); got != "[ 1 7 2 ]" {
		t.Errorf("got stack %s", got)
	}
	if !strings.Contains(strings.Join(s.Env().Names(), ","), "x") {
		t.Error("expected x to stay bound")
	}
}
