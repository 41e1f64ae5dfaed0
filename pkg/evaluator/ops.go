package evaluator

import (
	"fmt"
	"io"
	"math"

	"github.com/thomasrohde/jsl/pkg/ast"
	"github.com/thomasrohde/jsl/pkg/diagnostics"
)

// underflowPolicy says what an operation does when the stack holds fewer
// values than its arity.
type underflowPolicy int

const (
	// underflowFail aborts with an error naming the operation.
	underflowFail underflowPolicy = iota
	// underflowNull reads each missing operand as null.
	underflowNull
	// underflowPartial hands over only the values that are present.
	underflowPartial
)

// opFunc applies an operation. args holds the popped operands top first.
type opFunc func(ev *evaluator, s *ast.PrimitiveOp, stack *Stack, args []ast.Value) error

type opSpec struct {
	arity     int
	underflow underflowPolicy
	// peek reads operands without consuming them.
	peek  bool
	apply opFunc
}

var specs = [...]opSpec{
	ast.OpPop:       {arity: 1, underflow: underflowPartial, apply: opPop},
	ast.OpDuplicate: {arity: 1, underflow: underflowNull, peek: true, apply: opDuplicate},
	ast.OpFlip:      {arity: 2, underflow: underflowPartial, apply: opFlip},
	ast.OpCall:      {arity: 1, underflow: underflowNull},
	ast.OpJoin:      {arity: 2, underflow: underflowFail, apply: opJoin},
	ast.OpPair:      {arity: 2, underflow: underflowFail, apply: opPair},
	ast.OpIndex:     {arity: 2, underflow: underflowFail, apply: opIndex},
	ast.OpPrint:     {arity: 1, underflow: underflowNull, apply: opPrint},
	ast.OpAdd:       {arity: 2, underflow: underflowFail, apply: opArith},
	ast.OpSubtract:  {arity: 2, underflow: underflowFail, apply: opArith},
	ast.OpMultiply:  {arity: 2, underflow: underflowFail, apply: opArith},
	ast.OpDivide:    {arity: 2, underflow: underflowFail, apply: opArith},
	ast.OpEquals:    {arity: 2, underflow: underflowFail, apply: opEquals},
}

// popArgs takes the operands of s off the stack according to its policy.
func popArgs(spec opSpec, s *ast.PrimitiveOp, stack *Stack) ([]ast.Value, error) {
	have := stack.Len()
	if have < spec.arity && spec.underflow == underflowFail {
		return nil, &RuntimeError{
			Code:    diagnostics.EUnderflow,
			Message: fmt.Sprintf("not enough values for %s (need %d, have %d)", s.Op, spec.arity, have),
			Span:    &s.Span,
		}
	}

	args := make([]ast.Value, 0, spec.arity)
	for len(args) < spec.arity {
		var v ast.Value
		var ok bool
		if spec.peek {
			if n := stack.Len() - 1 - len(args); n >= 0 {
				v, ok = stack.items[n], true
			}
		} else {
			v, ok = stack.Pop()
		}
		if !ok {
			if spec.underflow == underflowPartial {
				break
			}
			v = ast.NewNull()
		}
		args = append(args, v)
	}
	return args, nil
}

func (ev *evaluator) apply(s *ast.PrimitiveOp, stack *Stack) error {
	if int(s.Op) < 0 || int(s.Op) >= len(specs) || specs[s.Op].apply == nil {
		return runtimeErrorf(diagnostics.EType, s.Span, "unknown primitive %v", s.Op)
	}
	spec := specs[s.Op]
	args, err := popArgs(spec, s, stack)
	if err != nil {
		return err
	}
	return spec.apply(ev, s, stack, args)
}

func opPop(_ *evaluator, _ *ast.PrimitiveOp, _ *Stack, _ []ast.Value) error {
	return nil
}

func opDuplicate(_ *evaluator, _ *ast.PrimitiveOp, stack *Stack, args []ast.Value) error {
	stack.Push(args[0])
	return nil
}

// opFlip swaps the two top values; with one value it is put back untouched.
func opFlip(_ *evaluator, _ *ast.PrimitiveOp, stack *Stack, args []ast.Value) error {
	for _, v := range args {
		stack.Push(v)
	}
	return nil
}

func opPair(_ *evaluator, _ *ast.PrimitiveOp, stack *Stack, args []ast.Value) error {
	top, below := args[0], args[1]
	stack.Push(ast.NewList([]ast.Value{below, top}))
	return nil
}

func opEquals(_ *evaluator, _ *ast.PrimitiveOp, stack *Stack, args []ast.Value) error {
	stack.Push(ast.NewBool(ast.Equal(args[1], args[0])))
	return nil
}

// opJoin combines the two top values in stack order: the value below comes
// first, the top value second. Lists follow the same order, so □ 1 , 2 ”
// yields [ [ ] 1 2 ], not the top-first [ 2 [ ] 1 ].
func opJoin(_ *evaluator, s *ast.PrimitiveOp, stack *Stack, args []ast.Value) error {
	top, below := args[0], args[1]

	switch b := below.(type) {
	case ast.String:
		switch a := top.(type) {
		case ast.String:
			stack.Push(ast.NewString(b.Value + a.Value))
			return nil
		case ast.Number:
			stack.Push(ast.NewString(b.Value + ast.FormatNumber(a.Value)))
			return nil
		}
	case ast.Number:
		if a, ok := top.(ast.String); ok {
			stack.Push(ast.NewString(ast.FormatNumber(b.Value) + a.Value))
			return nil
		}
	case ast.Function:
		if a, ok := top.(ast.Function); ok {
			stack.Push(ast.NewFunction(ast.Concat(b.Body, a.Body)))
			return nil
		}
	}

	bl, belowIsList := below.(ast.List)
	al, topIsList := top.(ast.List)
	switch {
	case belowIsList && topIsList:
		items := make([]ast.Value, 0, len(bl.Items)+len(al.Items))
		items = append(items, bl.Items...)
		stack.Push(ast.NewList(append(items, al.Items...)))
		return nil
	case belowIsList:
		items := make([]ast.Value, 0, len(bl.Items)+1)
		items = append(items, bl.Items...)
		stack.Push(ast.NewList(append(items, top)))
		return nil
	case topIsList:
		items := make([]ast.Value, 0, len(al.Items)+1)
		items = append(items, below)
		stack.Push(ast.NewList(append(items, al.Items...)))
		return nil
	}

	return runtimeErrorf(diagnostics.EType, s.Span, "cannot join %s and %s", ast.TypeName(below), ast.TypeName(top))
}

// opIndex pops an index and then a target list or string. Negative indices
// count from the end; any position outside the target yields null.
func opIndex(_ *evaluator, s *ast.PrimitiveOp, stack *Stack, args []ast.Value) error {
	index, target := args[0], args[1]

	idx, ok := index.(ast.Number)
	var length int
	var runes []rune
	switch t := target.(type) {
	case ast.List:
		length = len(t.Items)
	case ast.String:
		runes = []rune(t.Value)
		length = len(runes)
	default:
		ok = false
	}
	if !ok {
		return runtimeErrorf(diagnostics.EType, s.Span, "cannot index %s with %s", ast.TypeName(target), ast.TypeName(index))
	}

	if _, frac := math.Modf(idx.Value); frac != 0 {
		return runtimeErrorf(diagnostics.EIndex, s.Span, "expected integer index")
	}

	pos := idx.Value
	if pos < 0 {
		pos += float64(length)
	}
	if pos < 0 || pos >= float64(length) {
		stack.Push(ast.NewNull())
		return nil
	}

	if l, isList := target.(ast.List); isList {
		stack.Push(l.Items[int(pos)])
	} else {
		stack.Push(ast.NewString(string(runes[int(pos)])))
	}
	return nil
}

func opPrint(ev *evaluator, s *ast.PrimitiveOp, _ *Stack, args []ast.Value) error {
	ev.emit(TracePrint, &s.Span)
	if _, err := io.WriteString(ev.out, ast.Display(args[0])); err != nil {
		return runtimeErrorf(diagnostics.EIO, s.Span, "could not write output: %s", err)
	}
	if f, ok := ev.out.(flusher); ok {
		if err := f.Flush(); err != nil {
			return runtimeErrorf(diagnostics.EIO, s.Span, "could not flush output: %s", err)
		}
	}
	return nil
}

// opArith pops x (top) then y and pushes y op x.
func opArith(_ *evaluator, s *ast.PrimitiveOp, stack *Stack, args []ast.Value) error {
	x, xok := args[0].(ast.Number)
	y, yok := args[1].(ast.Number)
	if !xok || !yok {
		return arithTypeError(s, args[0], args[1])
	}

	var result float64
	switch s.Op {
	case ast.OpAdd:
		result = y.Value + x.Value
	case ast.OpSubtract:
		result = y.Value - x.Value
	case ast.OpMultiply:
		result = y.Value * x.Value
	case ast.OpDivide:
		result = y.Value / x.Value
	}
	stack.Push(ast.NewNumber(result))
	return nil
}

func arithTypeError(s *ast.PrimitiveOp, x, y ast.Value) *RuntimeError {
	xt, yt := ast.TypeName(x), ast.TypeName(y)
	var err *RuntimeError
	switch s.Op {
	case ast.OpAdd:
		err = runtimeErrorf(diagnostics.EType, s.Span, "cannot add %s and %s", xt, yt)
		if xt == yt && (xt == "string" || xt == "list") {
			err.Message += ". perhaps you meant to use ” join?"
			err.Hint = "” joins strings and lists"
		}
	case ast.OpSubtract:
		err = runtimeErrorf(diagnostics.EType, s.Span, "cannot subtract %s from %s", xt, yt)
	case ast.OpMultiply:
		err = runtimeErrorf(diagnostics.EType, s.Span, "cannot multiply %s and %s", xt, yt)
	default:
		err = runtimeErrorf(diagnostics.EType, s.Span, "cannot divide %s by %s", yt, xt)
	}
	return err
}
