// Package runtime provides the top-level JSL runtime orchestrator.
package runtime

import (
	"io"
	"log/slog"
	"strings"

	"github.com/thomasrohde/jsl/pkg/ast"
	"github.com/thomasrohde/jsl/pkg/diagnostics"
	"github.com/thomasrohde/jsl/pkg/evaluator"
	"github.com/thomasrohde/jsl/pkg/formatter"
	"github.com/thomasrohde/jsl/pkg/parser"
	"github.com/thomasrohde/jsl/pkg/validator"
)

// Result holds the outcome of a program execution.
type Result struct {
	Stack    []ast.Value
	Steps    int64
	MaxDepth int
}

// Runtime wires together all JSL components for program execution.
type Runtime struct {
	output   io.Writer
	logger   *slog.Logger
	maxSteps int64
	runID    string
	trace    func(event evaluator.TraceEvent)
}

// Option is a functional option for configuring the Runtime.
type Option func(*Runtime)

// WithOutput sets the writer that receives printed values.
func WithOutput(w io.Writer) Option {
	return func(rt *Runtime) {
		rt.output = w
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(rt *Runtime) {
		rt.logger = l
	}
}

// WithMaxSteps caps the number of executed statements; 0 means unlimited.
func WithMaxSteps(n int64) Option {
	return func(rt *Runtime) {
		rt.maxSteps = n
	}
}

// WithRunID sets the run ID for trace events.
func WithRunID(id string) Option {
	return func(rt *Runtime) {
		rt.runID = id
	}
}

// WithTrace sets the trace callback.
func WithTrace(fn func(event evaluator.TraceEvent)) Option {
	return func(rt *Runtime) {
		rt.trace = fn
	}
}

// New creates a new Runtime with the given options.
// By default output is discarded and the step budget is unlimited.
func New(opts ...Option) *Runtime {
	rt := &Runtime{
		output: io.Discard,
		runID:  "cli",
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Run parses and executes a JSL program on a fresh stack and environment.
// The result is returned even when execution fails part way.
func (rt *Runtime) Run(source, filename string) (*Result, error) {
	tree, diags := parser.Parse(source, filename)
	if len(diags) > 0 {
		return nil, &DiagnosticError{Diagnostics: diags}
	}

	res, err := evaluator.Execute(tree, rt.buildExecOptions())
	return &Result{
		Stack:    res.Stack.Items(),
		Steps:    res.Steps,
		MaxDepth: res.MaxDepth,
	}, err
}

// Check parses a JSL program without executing it. Parse errors are
// returned alone; a program that parses gets the validator's warnings.
func (rt *Runtime) Check(source, filename string) []diagnostics.Diagnostic {
	tree, diags := parser.Parse(source, filename)
	if len(diags) > 0 {
		return diags
	}
	return validator.Validate(tree)
}

// Format parses and formats a JSL program.
func (rt *Runtime) Format(source, filename string) (string, error) {
	tree, diags := parser.Parse(source, filename)
	if len(diags) > 0 {
		return "", &DiagnosticError{Diagnostics: diags}
	}
	return formatter.Format(tree)
}

// NewSession starts an interactive session whose stack and environment
// persist across calls to Eval.
func (rt *Runtime) NewSession() *Session {
	return &Session{
		rt:    rt,
		stack: evaluator.NewStack(),
		env:   evaluator.NewEnv(),
	}
}

// buildExecOptions constructs evaluator options from the runtime's configuration.
func (rt *Runtime) buildExecOptions() evaluator.ExecOptions {
	return evaluator.ExecOptions{
		Output: rt.output,
		Logger: rt.logger,
		Budget: evaluator.Budget{MaxSteps: rt.maxSteps},
		Trace:  rt.trace,
		RunID:  rt.runID,
	}
}

// Session is a stack and environment shared by successive entries.
type Session struct {
	rt    *Runtime
	stack *evaluator.Stack
	env   *evaluator.Env
}

// Eval parses source and runs it against the session state. Values pushed
// before a runtime error stay on the stack.
func (s *Session) Eval(source, filename string) error {
	tree, err := parser.ParseSource(source, filename)
	if err != nil {
		return err
	}
	return evaluator.Run(tree, s.stack, s.env, s.rt.buildExecOptions())
}

// Stack returns the session stack.
func (s *Session) Stack() *evaluator.Stack {
	return s.stack
}

// Env returns the session environment.
func (s *Session) Env() *evaluator.Env {
	return s.env
}

// DiagnosticError wraps diagnostics as an error.
type DiagnosticError struct {
	Diagnostics []diagnostics.Diagnostic
}

func (e *DiagnosticError) Error() string {
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = d.Message
	}
	return strings.Join(msgs, "; ")
}
