// Package parser implements the JSL parser.
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/thomasrohde/jsl/pkg/ast"
	"github.com/thomasrohde/jsl/pkg/diagnostics"
	"github.com/thomasrohde/jsl/pkg/lexer"
)

type context int

const (
	contextGlobal context = iota
	contextFunction
)

type parser struct {
	tokens []lexer.Token
	pos    int
}

// ParseError wraps a diagnostic for parse errors.
type ParseError struct {
	Diag diagnostics.Diagnostic
	// Incomplete is set when more input could complete the program.
	Incomplete bool
}

func (e *ParseError) Error() string {
	return e.Diag.Message
}

// Parse tokenizes source and parses it into an AST.
func Parse(source, filename string) (ast.AST, []diagnostics.Diagnostic) {
	tree, err := ParseSource(source, filename)
	if err != nil {
		var le *lexer.LexError
		if errors.As(err, &le) {
			return nil, []diagnostics.Diagnostic{le.Diag}
		}
		var pe *ParseError
		if errors.As(err, &pe) {
			return nil, []diagnostics.Diagnostic{pe.Diag}
		}
		return nil, []diagnostics.Diagnostic{diagnostics.MakeDiag(diagnostics.EParse, err.Error(), nil, "")}
	}
	return tree, nil
}

// ParseSource is like Parse but reports the first lex or parse error as an error.
func ParseSource(source, filename string) (ast.AST, error) {
	tokens, err := lexer.Tokenize(source, filename)
	if err != nil {
		return nil, err
	}
	return ParseTokens(tokens)
}

// ParseTokens parses a token stream into an AST. A missing trailing EOF
// token is tolerated.
func ParseTokens(tokens []lexer.Token) (ast.AST, error) {
	p := &parser{tokens: tokens}
	return p.parseBody(contextGlobal, nil)
}

// IsIncomplete reports whether err means the input ended too early: an open
// function body or an unterminated string.
func IsIncomplete(err error) bool {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Incomplete
	}
	var le *lexer.LexError
	return errors.As(err, &le)
}

func (p *parser) atEnd() bool {
	return p.pos >= len(p.tokens) || p.tokens[p.pos].Type == lexer.TokEOF
}

func (p *parser) advance() lexer.Token {
	tok := p.tokens[p.pos]
	p.pos++
	return tok
}

func (p *parser) endSpan() ast.Span {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos].Span
	}
	if len(p.tokens) > 0 {
		return p.tokens[len(p.tokens)-1].Span
	}
	return ast.Span{}
}

func (p *parser) errorf(span ast.Span, format string, args ...any) *ParseError {
	return &ParseError{Diag: diagnostics.MakeDiag(diagnostics.EParse, fmt.Sprintf(format, args...), &span, "")}
}

// parseBody collects statements until end of input (global context) or a
// closing brace (function context). open is the '{' token of the function.
func (p *parser) parseBody(ctx context, open *lexer.Token) (ast.AST, error) {
	tree := ast.AST{}
	for !p.atEnd() {
		tok := p.advance()
		switch tok.Type {
		case lexer.TokNumber:
			n, err := strconv.ParseFloat(tok.Value, 64)
			if err != nil && !errors.Is(err, strconv.ErrRange) {
				return nil, p.errorf(tok.Span, "invalid number %q", tok.Value)
			}
			tree = append(tree, &ast.Literal{Span: tok.Span, Value: ast.NewNumber(n)})

		case lexer.TokIdent:
			tree = append(tree, &ast.Identifier{Span: tok.Span, Name: tok.Value})

		case lexer.TokString:
			s, err := decodeEscapes(tok.Value)
			if err != nil {
				return nil, p.errorf(tok.Span, "%s", err)
			}
			tree = append(tree, &ast.Literal{Span: tok.Span, Value: ast.NewString(s)})

		case lexer.TokSymbol:
			stmt, done, err := p.parseSymbol(tok, ctx, open)
			if err != nil {
				return nil, err
			}
			if done {
				return tree, nil
			}
			tree = append(tree, stmt)

		default:
			return nil, p.errorf(tok.Span, "unexpected token %q", tok.Value)
		}
	}

	if ctx == contextFunction {
		pe := p.errorf(p.endSpan(), "expected } before end of input")
		pe.Diag.Hint = fmt.Sprintf("function opened at %d:%d", open.Span.StartLine, open.Span.StartCol)
		pe.Incomplete = true
		return nil, pe
	}
	return tree, nil
}

// parseSymbol handles a symbol token. done is true when tok closes the
// current function body.
func (p *parser) parseSymbol(tok lexer.Token, ctx context, open *lexer.Token) (stmt ast.Statement, done bool, err error) {
	switch tok.Value {
	case "∅":
		return &ast.Literal{Span: tok.Span, Value: ast.NewNull()}, false, nil

	case "□":
		return &ast.Literal{Span: tok.Span, Value: ast.NewList([]ast.Value{})}, false, nil

	case "→":
		if p.atEnd() || p.tokens[p.pos].Type != lexer.TokIdent {
			return nil, false, p.errorf(p.endSpan(), "expected identifier after →")
		}
		name := p.advance()
		return &ast.Binding{Span: spanFromTo(tok.Span, name.Span), Name: name.Value}, false, nil

	case "{":
		body, err := p.parseBody(contextFunction, &tok)
		if err != nil {
			return nil, false, err
		}
		closeSpan := p.tokens[p.pos-1].Span
		return &ast.Literal{Span: spanFromTo(tok.Span, closeSpan), Value: ast.NewFunction(body)}, false, nil

	case "}":
		if ctx == contextFunction {
			return nil, true, nil
		}
		return nil, false, p.errorf(tok.Span, "unexpected }")
	}

	r := []rune(tok.Value)
	if len(r) != 1 {
		return nil, false, p.errorf(tok.Span, "unexpected symbol %q", tok.Value)
	}
	op, ok := ast.PrimitiveFromSymbol(r[0])
	if !ok {
		// The lexer's symbol set and the primitive table are kept in step.
		panic(fmt.Sprintf("parser: symbol %q has no primitive", tok.Value))
	}
	return &ast.PrimitiveOp{Span: tok.Span, Op: op}, false, nil
}

func decodeEscapes(raw string) (string, error) {
	var b strings.Builder
	runes := []rune(raw)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch c {
		case '"':
			// outer delimiter
		case '\\':
			if i+1 >= len(runes) {
				return "", fmt.Errorf("invalid escape sequence: \\")
			}
			i++
			switch esc := runes[i]; esc {
			case 'r':
				b.WriteByte('\r')
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '"':
				b.WriteByte('"')
			default:
				return "", fmt.Errorf("invalid escape sequence: \\%c", esc)
			}
		default:
			b.WriteRune(c)
		}
	}
	return b.String(), nil
}

func spanFromTo(start, end ast.Span) ast.Span {
	return ast.Span{
		File:      start.File,
		StartLine: start.StartLine,
		StartCol:  start.StartCol,
		EndLine:   end.EndLine,
		EndCol:    end.EndCol,
	}
}
