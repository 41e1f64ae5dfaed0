// Package lexer implements the JSL tokenizer.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/thomasrohde/jsl/pkg/ast"
	"github.com/thomasrohde/jsl/pkg/diagnostics"
)

// TokenType identifies the type of a lexer token.
type TokenType int

const (
	TokIdent TokenType = iota
	TokNumber
	TokString
	TokSymbol

	// Special
	TokEOF
)

func (t TokenType) String() string {
	switch t {
	case TokIdent:
		return "Identifier"
	case TokNumber:
		return "Number"
	case TokString:
		return "String"
	case TokSymbol:
		return "Symbol"
	case TokEOF:
		return "EOF"
	}
	return "Unknown"
}

// Token represents a single lexer token.
//
// For TokString, Value holds the text between the quotes with escape
// sequences left raw; the parser decodes them.
type Token struct {
	Type  TokenType
	Value string
	Span  ast.Span
}

// Symbols is the fixed set of single-character symbol tokens.
const Symbols = "{}∅□.:⭥!”⤉↗→+-×÷=,"

// IsSymbol reports whether r is one of the symbol characters.
func IsSymbol(r rune) bool {
	return strings.ContainsRune(Symbols, r)
}

type scanner struct {
	source   string
	filename string
	pos      int
	line     int
	col      int
}

func newScanner(source, filename string) *scanner {
	return &scanner{
		source:   source,
		filename: filename,
		pos:      0,
		line:     1,
		col:      1,
	}
}

func (s *scanner) atEnd() bool {
	return s.pos >= len(s.source)
}

func (s *scanner) peek() rune {
	if s.atEnd() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s.source[s.pos:])
	return r
}

func (s *scanner) advance() rune {
	r, size := utf8.DecodeRuneInString(s.source[s.pos:])
	s.pos += size
	if r == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return r
}

func (s *scanner) span(startLine, startCol int) ast.Span {
	return ast.Span{
		File:      s.filename,
		StartLine: startLine,
		StartCol:  startCol,
		EndLine:   s.line,
		EndCol:    s.col,
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isAlpha(r rune) bool {
	return unicode.IsLetter(r)
}

// scanNumber consumes digits and at most one '.'; a second '.' ends the token.
func (s *scanner) scanNumber(startLine, startCol int) Token {
	startPos := s.pos
	s.advance()

	seenDot := false
	for !s.atEnd() {
		ch := s.peek()
		if ch == '.' {
			if seenDot {
				break
			}
			seenDot = true
		} else if !isDigit(ch) {
			break
		}
		s.advance()
	}

	return Token{
		Type:  TokNumber,
		Value: s.source[startPos:s.pos],
		Span:  s.span(startLine, startCol),
	}
}

func (s *scanner) scanString(startLine, startCol int) (Token, error) {
	s.advance() // consume opening "

	var buf strings.Builder
	for !s.atEnd() {
		ch := s.advance()
		switch ch {
		case '"':
			return Token{
				Type:  TokString,
				Value: buf.String(),
				Span:  s.span(startLine, startCol),
			}, nil
		case '\\':
			buf.WriteRune(ch)
			if s.atEnd() {
				return Token{}, s.lexError(startLine, startCol, "unterminated string")
			}
			buf.WriteRune(s.advance())
		default:
			buf.WriteRune(ch)
		}
	}
	return Token{}, s.lexError(startLine, startCol, "unterminated string")
}

func (s *scanner) scanIdent(startLine, startCol int) Token {
	startPos := s.pos
	for !s.atEnd() && isAlpha(s.peek()) {
		s.advance()
	}
	return Token{
		Type:  TokIdent,
		Value: s.source[startPos:s.pos],
		Span:  s.span(startLine, startCol),
	}
}

func (s *scanner) skipComment() {
	for !s.atEnd() {
		if s.advance() == '\n' {
			return
		}
	}
}

func (s *scanner) lexError(line, col int, msg string) error {
	diag := diagnostics.MakeDiag(
		diagnostics.ELex,
		msg,
		&ast.Span{File: s.filename, StartLine: line, StartCol: col, EndLine: s.line, EndCol: s.col},
		"",
	)
	return &LexError{Diag: diag}
}

// LexError wraps a diagnostic for lex errors.
type LexError struct {
	Diag diagnostics.Diagnostic
}

func (e *LexError) Error() string {
	return e.Diag.Message
}

// nextToken returns the next token; ok is false when the characters consumed
// produced no token (whitespace or a comment).
func (s *scanner) nextToken() (tok Token, ok bool, err error) {
	startLine, startCol := s.line, s.col
	ch := s.peek()

	switch {
	case IsSymbol(ch):
		s.advance()
		return Token{Type: TokSymbol, Value: string(ch), Span: s.span(startLine, startCol)}, true, nil
	case isDigit(ch):
		return s.scanNumber(startLine, startCol), true, nil
	case ch == '"':
		tok, err := s.scanString(startLine, startCol)
		return tok, err == nil, err
	case isAlpha(ch):
		return s.scanIdent(startLine, startCol), true, nil
	case unicode.IsSpace(ch):
		s.advance()
		return Token{}, false, nil
	case ch == '#':
		s.skipComment()
		return Token{}, false, nil
	}

	// Anything else is a one-character symbol identifier.
	s.advance()
	return Token{Type: TokIdent, Value: string(ch), Span: s.span(startLine, startCol)}, true, nil
}

// Tokenize breaks source code into a slice of tokens terminated by TokEOF.
func Tokenize(source, filename string) ([]Token, error) {
	s := newScanner(source, filename)
	var tokens []Token

	for !s.atEnd() {
		tok, ok, err := s.nextToken()
		if err != nil {
			return nil, err
		}
		if ok {
			tokens = append(tokens, tok)
		}
	}

	tokens = append(tokens, Token{Type: TokEOF, Span: s.span(s.line, s.col)})
	return tokens, nil
}
