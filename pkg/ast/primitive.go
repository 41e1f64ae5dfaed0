package ast

import "fmt"

// Primitive identifies a built-in stack operation.
type Primitive int

const (
	OpPop Primitive = iota
	OpDuplicate
	OpFlip
	OpCall
	OpJoin
	OpPair
	OpIndex
	OpPrint
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpEquals
)

type primitiveInfo struct {
	symbol rune
	name   string
}

var primitives = [...]primitiveInfo{
	OpPop:       {'.', "pop"},
	OpDuplicate: {':', "duplicate"},
	OpFlip:      {'⭥', "flip"},
	OpCall:      {'!', "call"},
	OpJoin:      {'”', "join"},
	OpPair:      {',', "pair"},
	OpIndex:     {'⤉', "index"},
	OpPrint:     {'↗', "print"},
	OpAdd:       {'+', "add"},
	OpSubtract:  {'-', "subtract"},
	OpMultiply:  {'×', "multiply"},
	OpDivide:    {'÷', "divide"},
	OpEquals:    {'=', "equals"},
}

var primitiveBySymbol = func() map[rune]Primitive {
	m := make(map[rune]Primitive, len(primitives))
	for op, info := range primitives {
		m[info.symbol] = Primitive(op)
	}
	return m
}()

// PrimitiveFromSymbol maps an operator symbol to its opcode.
func PrimitiveFromSymbol(r rune) (Primitive, bool) {
	op, ok := primitiveBySymbol[r]
	return op, ok
}

// Symbol returns the source symbol of the operation.
func (p Primitive) Symbol() rune {
	if int(p) < 0 || int(p) >= len(primitives) {
		return '?'
	}
	return primitives[p].symbol
}

// Name returns the lower-case name of the operation, e.g. "add".
func (p Primitive) Name() string {
	if int(p) < 0 || int(p) >= len(primitives) {
		return fmt.Sprintf("primitive(%d)", int(p))
	}
	return primitives[p].name
}

// String renders the operation as "<symbol> <name>", as used in messages.
func (p Primitive) String() string {
	return string(p.Symbol()) + " " + p.Name()
}
