package formatter

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/thomasrohde/jsl/pkg/ast"
	"github.com/thomasrohde/jsl/pkg/parser"
)

var ignoreSpans = cmpopts.IgnoreTypes(ast.Span{})

func mustParse(t *testing.T, src string) ast.AST {
	t.Helper()
	tree, err := parser.ParseSource(src, "test.jsl")
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return tree
}

func TestFormatCanonical(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"5  → x\tx x × ↗", "5 →x x x × ↗\n"},
		{"{}", "{ }\n"},
		{"{1{2}}", "{ 1 { 2 } }\n"},
		{"∅ □", "∅ □\n"},
		{`"a\n\"b\"\t"`, `"a\n\"b\"\t"` + "\n"},
		{"1.50 007", "1.5 7\n"},
		{"1 # comment\n2", "1 2\n"},
		{"", "\n"},
		{". : ⭥ ! ” , ⤉ ↗ + - × ÷ =", ". : ⭥ ! ” , ⤉ ↗ + - × ÷ =\n"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := Format(mustParse(t, tt.src))
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatRoundTrip(t *testing.T) {
	sources := []string{
		"5 → x x x × ↗",
		`{ n 1 - → n □ { } ” { loop ! } ” n 0 = 0 = ⤉ ! } → loop 10 → n loop !`,
		`"héllo" 1 ⤉ ↗`,
		"{ { { } } } ! 0.25 100000000000000000000000",
		"@ % ? ~",
	}
	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			tree := mustParse(t, src)
			out, err := Format(tree)
			if err != nil {
				t.Fatal(err)
			}
			again := mustParse(t, out)
			if diff := cmp.Diff(tree, again, ignoreSpans); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
			out2, err := Format(again)
			if err != nil {
				t.Fatal(err)
			}
			if out != out2 {
				t.Errorf("format not idempotent: %q then %q", out, out2)
			}
		})
	}
}

func TestFormatRejectsUnrepresentable(t *testing.T) {
	tests := []struct {
		name string
		tree ast.AST
		msg  string
	}{
		{"backslash", ast.AST{&ast.Literal{Value: ast.NewString(`a\b`)}}, `string containing \`},
		{"nested backslash", ast.AST{&ast.Literal{Value: ast.NewFunction(ast.AST{&ast.Literal{Value: ast.NewString(`\`)}})}}, `string containing \`},
		{"negative", ast.AST{&ast.Literal{Value: ast.NewNumber(-1)}}, "number -1"},
		{"list", ast.AST{&ast.Literal{Value: ast.NewList([]ast.Value{ast.NewNumber(1)})}}, "empty list"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Format(tt.tree)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("got %q, want it to contain %q", err, tt.msg)
			}
		})
	}
}

func TestHasComments(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"1 2 +", false},
		{"# leading", true},
		{"1 # trailing", true},
		{`"# in string"`, false},
		{`"\"#" 1`, false},
		{`"a" # after string`, true},
		{"\"a\n#b\" ↗", false},
		{"\"a\n\" # real", true},
		{"1 # one\n\"#\"", true},
	}
	for _, tt := range tests {
		if got := HasComments(tt.src); got != tt.want {
			t.Errorf("HasComments(%q) = %v, want %v", tt.src, got, tt.want)
		}
	}
}
