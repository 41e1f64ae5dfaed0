package ast

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Value is the interface for all JSL runtime values.
// Use the sealed marker method to restrict implementations to this package.
//
// Values are never mutated after construction, so sharing one between the
// stack, the environment and a literal is indistinguishable from copying it.
type Value interface {
	value() // sealed marker
}

// Null represents the absence of a value.
type Null struct{}

func (Null) value() {}

// Number is a double-precision number. Booleans are the numbers 0 and 1.
type Number struct {
	Value float64
}

func (Number) value() {}

// String is a text value.
type String struct {
	Value string
}

func (String) value() {}

// Function is a first-class function value owning its body.
type Function struct {
	Body AST
}

func (Function) value() {}

// List is an ordered sequence of values.
type List struct {
	Items []Value
}

func (List) value() {}

// NewNull creates a null value.
func NewNull() Value {
	return Null{}
}

// NewNumber creates a numeric value.
func NewNumber(n float64) Value {
	return Number{Value: n}
}

// NewBool creates 1 for true and 0 for false.
func NewBool(b bool) Value {
	if b {
		return Number{Value: 1}
	}
	return Number{Value: 0}
}

// NewString creates a string value.
func NewString(s string) Value {
	return String{Value: s}
}

// NewFunction creates a function value.
func NewFunction(body AST) Value {
	return Function{Body: body}
}

// NewList creates a list value.
func NewList(items []Value) Value {
	return List{Items: items}
}

// TypeName returns the lower-case type name used in error messages.
func TypeName(v Value) string {
	switch v.(type) {
	case Number:
		return "number"
	case String:
		return "string"
	case List:
		return "list"
	case Function:
		return "function"
	case Null, nil:
		return "null"
	}
	return "unknown"
}

// Equal reports structural equality. Functions are never equal to anything,
// including themselves.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Number:
		y, ok := b.(Number)
		return ok && x.Value == y.Value
	case String:
		y, ok := b.(String)
		return ok && x.Value == y.Value
	case List:
		y, ok := b.(List)
		if !ok || len(x.Items) != len(y.Items) {
			return false
		}
		for i := range x.Items {
			if !Equal(x.Items[i], y.Items[i]) {
				return false
			}
		}
		return true
	case Null:
		_, ok := b.(Null)
		return ok
	}
	return false
}

// FormatNumber renders n in shortest decimal form without an exponent.
func FormatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "inf"
	case math.IsInf(n, -1):
		return "-inf"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Display returns the form written by print: strings are emitted raw.
func Display(v Value) string {
	if s, ok := v.(String); ok {
		return s.Value
	}
	return Debug(v)
}

// Debug returns the quoted form used inside lists and by the REPL.
func Debug(v Value) string {
	var b strings.Builder
	writeDebug(&b, v)
	return b.String()
}

func writeDebug(b *strings.Builder, v Value) {
	switch val := v.(type) {
	case Number:
		b.WriteString(FormatNumber(val.Value))
	case String:
		b.WriteString(QuoteString(val.Value))
	case Function:
		b.WriteString("{…}")
	case List:
		b.WriteString("[ ")
		for _, item := range val.Items {
			writeDebug(b, item)
			b.WriteByte(' ')
		}
		b.WriteByte(']')
	default:
		b.WriteString("∅")
	}
}

// QuoteString quotes s with backslash escapes for display.
func QuoteString(s string) string {
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
		case '\\':
			b.WriteString(`\\`)
		default:
			if unicode.IsControl(c) {
				fmt.Fprintf(&b, `\x%02x`, byte(c))
			} else {
				b.WriteRune(c)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
