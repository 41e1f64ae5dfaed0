// Package evaluator implements the JSL tree-walking evaluator.
package evaluator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/thomasrohde/jsl/pkg/ast"
	"github.com/thomasrohde/jsl/pkg/diagnostics"
)

// TraceEventType identifies the type of a trace event.
type TraceEventType string

const (
	TraceRunStart       TraceEventType = "run_start"
	TraceRunEnd         TraceEventType = "run_end"
	TraceCallStart      TraceEventType = "call_start"
	TraceCallEnd        TraceEventType = "call_end"
	TraceTailCall       TraceEventType = "tail_call"
	TracePrint          TraceEventType = "print"
	TraceBudgetExceeded TraceEventType = "budget_exceeded"
)

// TraceEvent represents a single trace event emitted during execution.
type TraceEvent struct {
	Timestamp string         `json:"ts"`
	RunID     string         `json:"runId"`
	Event     TraceEventType `json:"event"`
	Span      *ast.Span      `json:"span,omitempty"`
	Depth     int            `json:"depth"`
	Steps     int64          `json:"steps"`
}

// ExecOptions configures program execution.
type ExecOptions struct {
	// Output receives the text written by print. Nil discards it.
	Output io.Writer
	// Logger receives debug records about calls. Nil discards them.
	Logger *slog.Logger
	Budget Budget
	Trace  func(event TraceEvent)
	RunID  string
}

// ExecResult holds the state left behind by a program execution.
type ExecResult struct {
	Stack *Stack
	Env   *Env
	Steps int64
	// MaxDepth is the deepest nesting of non-tail calls reached.
	MaxDepth int
}

// RuntimeError represents a runtime error during JSL execution.
type RuntimeError struct {
	Code    string
	Message string
	Span    *ast.Span
	Hint    string
}

func (e *RuntimeError) Error() string {
	return e.Message
}

// Diagnostic converts the error to a diagnostic.
func (e *RuntimeError) Diagnostic() diagnostics.Diagnostic {
	return diagnostics.MakeDiag(e.Code, e.Message, e.Span, e.Hint)
}

func runtimeErrorf(code string, span ast.Span, format string, args ...any) *RuntimeError {
	return &RuntimeError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Span:    &span,
	}
}

type flusher interface {
	Flush() error
}

type evaluator struct {
	opts    ExecOptions
	out     io.Writer
	log     *slog.Logger
	tracker BudgetTracker
}

func newEvaluator(opts ExecOptions) *evaluator {
	out := opts.Output
	if out == nil {
		out = io.Discard
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(discardHandler{})
	}
	return &evaluator{opts: opts, out: out, log: log}
}

func (ev *evaluator) emit(event TraceEventType, span *ast.Span) {
	if ev.opts.Trace != nil {
		ev.opts.Trace(TraceEvent{
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
			RunID:     ev.opts.RunID,
			Event:     event,
			Span:      span,
			Depth:     ev.tracker.Depth,
			Steps:     ev.tracker.Steps,
		})
	}
}

func (ev *evaluator) checkStepBudget(span ast.Span) error {
	ev.tracker.Steps++
	if limit := ev.opts.Budget.MaxSteps; limit > 0 && ev.tracker.Steps > limit {
		ev.emit(TraceBudgetExceeded, &span)
		ev.log.Debug("step budget exceeded", slog.Int64("max", limit))
		return runtimeErrorf(diagnostics.EBudget, span, "step budget exceeded (max %d)", limit)
	}
	return nil
}

// Run executes body against stack and env, mutating both in place.
func Run(body ast.AST, stack *Stack, env *Env, opts ExecOptions) error {
	ev := newEvaluator(opts)
	ev.emit(TraceRunStart, nil)
	err := ev.run(body, stack, env)
	ev.emit(TraceRunEnd, nil)
	return err
}

// Execute runs a top-level program on a fresh stack and environment.
func Execute(body ast.AST, opts ExecOptions) (*ExecResult, error) {
	stack := NewStack()
	env := NewEnv()
	ev := newEvaluator(opts)
	ev.emit(TraceRunStart, nil)
	err := ev.run(body, stack, env)
	ev.emit(TraceRunEnd, nil)
	return &ExecResult{
		Stack:    stack,
		Env:      env,
		Steps:    ev.tracker.Steps,
		MaxDepth: ev.tracker.MaxDepth,
	}, err
}

// run iterates over body with a rewritable cursor. A call in the last
// position replaces (body, i) with (callee, 0) instead of recursing, so
// tail-recursive programs run in constant host stack depth.
func (ev *evaluator) run(body ast.AST, stack *Stack, env *Env) error {
	for i := 0; i < len(body); i++ {
		stmt := body[i]
		span := stmt.NodeSpan()
		if err := ev.checkStepBudget(span); err != nil {
			return err
		}

		switch s := stmt.(type) {
		case *ast.Binding:
			v, ok := stack.Pop()
			if !ok {
				v = ast.NewNull()
			}
			env.Set(s.Name, v)

		case *ast.Identifier:
			stack.Push(env.Lookup(s.Name))

		case *ast.Literal:
			stack.Push(s.Value)

		case *ast.PrimitiveOp:
			if s.Op != ast.OpCall {
				if err := ev.apply(s, stack); err != nil {
					return err
				}
				continue
			}

			callee, err := ev.callee(s, stack)
			if err != nil {
				return err
			}
			if i == len(body)-1 {
				ev.emit(TraceTailCall, &span)
				ev.log.Debug("tail call",
					slog.Int("depth", ev.tracker.Depth),
					slog.Int("statements", len(callee.Body)))
				body, i = callee.Body, -1
				continue
			}

			ev.tracker.Depth++
			if ev.tracker.Depth > ev.tracker.MaxDepth {
				ev.tracker.MaxDepth = ev.tracker.Depth
			}
			ev.emit(TraceCallStart, &span)
			ev.log.Debug("function call",
				slog.Int("depth", ev.tracker.Depth),
				slog.Int("statements", len(callee.Body)))
			err = ev.run(callee.Body, stack, env.Clone())
			ev.emit(TraceCallEnd, &span)
			ev.tracker.Depth--
			if err != nil {
				return err
			}

		default:
			return runtimeErrorf(diagnostics.EType, span, "unsupported statement type: %T", stmt)
		}
	}
	return nil
}

func (ev *evaluator) callee(s *ast.PrimitiveOp, stack *Stack) (ast.Function, error) {
	args, err := popArgs(specs[ast.OpCall], s, stack)
	if err != nil {
		return ast.Function{}, err
	}
	fn, ok := args[0].(ast.Function)
	if !ok {
		return ast.Function{}, &RuntimeError{
			Code:    diagnostics.ECall,
			Message: "invalid function",
			Span:    &s.Span,
			Hint:    fmt.Sprintf("! expects a function, got %s", ast.TypeName(args[0])),
		}
	}
	return fn, nil
}

// discardHandler drops every record.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }
