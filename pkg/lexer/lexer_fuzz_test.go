package lexer

import (
	"testing"
)

// FuzzTokenize feeds random inputs to the lexer to catch panics.
// The lexer should never panic; it returns an error for invalid input.
func FuzzTokenize(f *testing.F) {
	seeds := []string{
		// Symbols
		`{ } ∅ □ . : ⭥ ! ” ⤉ ↗ → + - × ÷ = ,`,
		// Literals
		`42 3.14 1.2.3 0 1.`,
		`"hello" "with\nescape" "quote\""`,
		// Identifiers
		`x foo héllo`,
		// Comments
		`# this is a comment`,
		// Mixed
		`5 → x x x × ↗`,
		`{ : 1 - → n n { n loop ! } ! } → loop`,
		// Edge cases
		``,
		`   `,
		"\t\n\r",
		`"unterminated`,
		`"\`,
		`"""`,
		`@#$^&`,
		"\xff\xfe",
	}

	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("Tokenize panicked on input %q: %v", input, r)
				}
			}()
			tokens, err := Tokenize(input, "fuzz.jsl")
			if err == nil && (len(tokens) == 0 || tokens[len(tokens)-1].Type != TokEOF) {
				t.Fatalf("token stream for %q not terminated by EOF", input)
			}
		}()
	})
}
