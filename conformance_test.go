package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/thomasrohde/jsl/internal/testutil"
	"github.com/thomasrohde/jsl/pkg/ast"
	"github.com/thomasrohde/jsl/pkg/diagnostics"
	"github.com/thomasrohde/jsl/pkg/evaluator"
	"github.com/thomasrohde/jsl/pkg/runtime"
)

func TestConformance(t *testing.T) {
	dirs, err := testutil.ListScenarios(testutil.ScenariosDir)
	if err != nil {
		t.Fatalf("failed to list scenarios: %v", err)
	}
	if len(dirs) == 0 {
		t.Fatal("no scenarios found")
	}

	for _, dir := range dirs {
		dir := dir
		t.Run(filepath.Base(dir), func(t *testing.T) {
			scenario, err := testutil.LoadScenario(dir)
			if err != nil {
				t.Fatalf("failed to load scenario: %v", err)
			}
			source, filename, err := scenario.ReadProgram()
			if err != nil {
				t.Fatalf("failed to read program file: %v", err)
			}

			var stdout bytes.Buffer
			rt := runtime.New(
				runtime.WithOutput(&stdout),
				runtime.WithMaxSteps(scenario.MaxSteps),
				runtime.WithRunID("test"),
			)

			var stack []ast.Value
			var runErr error
			switch scenario.Mode {
			case "check":
				if diags := rt.Check(source, filename); len(diags) > 0 {
					runErr = &runtime.DiagnosticError{Diagnostics: diags}
				}
			case "fmt":
				var out string
				out, runErr = rt.Format(source, filename)
				stdout.WriteString(out)
			default:
				var res *runtime.Result
				res, runErr = rt.Run(source, filename)
				if res != nil {
					stack = res.Stack
				}
			}

			exitCode, diag := classify(runErr)
			var stderr string
			if diag != nil {
				stderr = diagnostics.Error(*diag) + "\n"
			}
			checkExpectations(t, scenario, exitCode, diag, stdout.String(), stderr, stack)
		})
	}
}

// classify maps an error to the CLI exit code and the diagnostic it reports.
func classify(err error) (int, *diagnostics.Diagnostic) {
	if err == nil {
		return 0, nil
	}
	var diagErr *runtime.DiagnosticError
	if errors.As(err, &diagErr) {
		return 2, &diagErr.Diagnostics[0]
	}
	var rtErr *evaluator.RuntimeError
	if errors.As(err, &rtErr) {
		d := rtErr.Diagnostic()
		return 4, &d
	}
	d := diagnostics.MakeDiag(diagnostics.EParse, err.Error(), nil, "")
	return 2, &d
}

func checkExpectations(t *testing.T, s *testutil.Scenario, exitCode int, diag *diagnostics.Diagnostic, stdout, stderr string, stack []ast.Value) {
	t.Helper()
	want := s.Expect

	if exitCode != want.ExitCode {
		t.Errorf("exit code: got %d, want %d (stderr: %q)", exitCode, want.ExitCode, stderr)
	}
	if want.Stdout != nil && stdout != *want.Stdout {
		t.Errorf("stdout: got %q, want %q", stdout, *want.Stdout)
	}
	if want.StdoutContains != "" && !strings.Contains(stdout, want.StdoutContains) {
		t.Errorf("stdout should contain %q, got: %q", want.StdoutContains, stdout)
	}
	if want.Stderr != nil && stderr != *want.Stderr {
		t.Errorf("stderr: got %q, want %q", stderr, *want.Stderr)
	}
	if want.Code != "" {
		if diag == nil {
			t.Errorf("expected diagnostic %s, got none", want.Code)
		} else if diag.Code != want.Code {
			t.Errorf("diagnostic code: got %s, want %s", diag.Code, want.Code)
		}
	}
	if want.Stack != nil {
		got := make([]string, len(stack))
		for i, v := range stack {
			got[i] = ast.Debug(v)
		}
		if strings.Join(got, " ") != strings.Join(want.Stack, " ") {
			t.Errorf("stack: got %q, want %q", got, want.Stack)
		}
	}
}
