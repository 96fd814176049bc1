package parser

import (
	"testing"

	"github.com/veld-lang/veld/internal/ast"
	"github.com/veld-lang/veld/internal/lexer"
)

// parseString parses source that is expected to be well-formed.
func parseString(t *testing.T, src string) ast.Stmt {
	t.Helper()
	tokens, err := lexer.Lex(src)
	if err != nil {
		t.Fatalf("Lex(%q) failed: %v", src, err)
	}
	stmt, perr := parseTokens(tokens)
	if perr != nil {
		t.Fatalf("Parse(%q) failed: %v", src, perr)
	}
	return stmt
}

// parseFailure parses source that is expected to fail.
func parseFailure(t *testing.T, src string) *ParseError {
	t.Helper()
	tokens, err := lexer.Lex(src)
	if err != nil {
		t.Fatalf("Lex(%q) failed: %v", src, err)
	}
	_, perr := parseTokens(tokens)
	if perr == nil {
		t.Fatalf("Parse(%q): expected failure, got success", src)
	}
	return perr
}

func expectParse(t *testing.T, src, want string) {
	t.Helper()
	got := parseString(t, src).String()
	if got != want {
		t.Errorf("Parse(%q):\n  got  %s\n  want %s", src, got, want)
	}
}

func TestStatements(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "value definition",
			input: "val x = 1\nx",
			want:  "val x = 1; return x",
		},
		{
			name:  "variable definition",
			input: "var x = 1\nx",
			want:  "var x = 1; return x",
		},
		{
			name:  "region variable definition",
			input: "var x in r = 1\nx",
			want:  "var x in r = 1; return x",
		},
		{
			name:  "return statement",
			input: "return 42",
			want:  "return 42",
		},
		{
			name:  "expression statement with explicit separator",
			input: "foo(); bar()",
			want:  "foo(); return bar()",
		},
		{
			name:  "tail expression is the block value",
			input: "foo()",
			want:  "return foo()",
		},
		{
			name:  "chained definitions",
			input: "val x = 1\nval y = 2\ninfixAdd(x, y)",
			want:  "val x = 1; val y = 2; return infixAdd(x, y)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectParse(t, tt.input, tt.want)
		})
	}
}

func TestSemicolonInsertion(t *testing.T) {
	t.Run("newline separates statements", func(t *testing.T) {
		implicit := parseString(t, "foo()\nbar()").String()
		explicit := parseString(t, "foo(); bar()").String()
		if implicit != explicit {
			t.Errorf("newline-separated parse %q differs from explicit %q", implicit, explicit)
		}
	})
	t.Run("comment before newline still separates", func(t *testing.T) {
		implicit := parseString(t, "foo() // note\nbar()").String()
		explicit := parseString(t, "foo(); bar()").String()
		if implicit != explicit {
			t.Errorf("comment-then-newline parse %q differs from explicit %q", implicit, explicit)
		}
	})
	t.Run("closing brace needs no separator", func(t *testing.T) {
		expectParse(t, "if (c) { foo() }",
			"return if (c) { return foo() } else { return () }")
	})
	t.Run("missing separator fails", func(t *testing.T) {
		perr := parseFailure(t, "foo() bar()")
		if perr.Kind != MissingSeparator {
			t.Errorf("expected MissingSeparator, got %s: %v", perr.Kind, perr)
		}
	})
}

func TestToplevelOnlyDefinitions(t *testing.T) {
	inputs := []string{
		"fun foo() = 1",
		"def foo() = 1",
		"type T = Int",
		"effect Flip",
		"namespace foo",
	}
	for _, input := range inputs {
		perr := parseFailure(t, input)
		if perr.Kind != ToplevelOnly {
			t.Errorf("Parse(%q): expected ToplevelOnly, got %s: %v", input, perr.Kind, perr)
		}
	}
}

func TestWithTransform(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "call gains a trailing block argument",
			input: "with foo(); rest",
			want:  "return foo({ => return rest })",
		},
		{
			name:  "bare variable becomes a call",
			input: "with x; rest",
			want:  "return x({ => return rest })",
		},
		{
			name:  "method call gains a trailing block argument",
			input: "with obj.run(); rest",
			want:  "return obj.run({ => return rest })",
		},
		{
			name:  "continuation spans the remaining statements",
			input: "with foo()\nval x = 1\nx",
			want:  "return foo({ => val x = 1; return x })",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectParse(t, tt.input, tt.want)
		})
	}

	t.Run("computed expression becomes an expression target", func(t *testing.T) {
		stmt := parseString(t, "with if (c) { f } else { g }; rest")
		ret, ok := stmt.(*ast.Return)
		if !ok {
			t.Fatalf("expected Return, got %T", stmt)
		}
		call, ok := ret.Value.(*ast.Call)
		if !ok {
			t.Fatalf("expected Call, got %T", ret.Value)
		}
		if _, ok := call.Target.(*ast.ExprTarget); !ok {
			t.Fatalf("expected ExprTarget, got %T", call.Target)
		}
		if len(call.BlockArgs) != 1 {
			t.Fatalf("expected 1 block argument, got %d", len(call.BlockArgs))
		}
		block, ok := call.BlockArgs[0].(*ast.BlockLiteral)
		if !ok {
			t.Fatalf("expected BlockLiteral, got %T", call.BlockArgs[0])
		}
		if len(block.Params) != 0 {
			t.Errorf("synthesized block must take no parameters, got %d", len(block.Params))
		}
	})
}

func TestDeterminism(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		src := "val x = 1\nwith foo(x)\nif (x) { do get() } else { [1, 2] }"
		first := parseString(t, src).String()
		second := parseString(t, src).String()
		if first != second {
			t.Errorf("parses differ:\n  %s\n  %s", first, second)
		}
	})
	t.Run("failure", func(t *testing.T) {
		src := "foo() bar()"
		first := parseFailure(t, src)
		second := parseFailure(t, src)
		if first.Msg != second.Msg || first.Pos != second.Pos || first.Kind != second.Kind {
			t.Errorf("failures differ: %v vs %v", first, second)
		}
	})
}

func TestFailurePosition(t *testing.T) {
	// The failure position is the 0-based token index, counting
	// insignificant tokens.
	perr := parseFailure(t, "val = 1")
	tokens, _ := lexer.Lex("val = 1")
	if perr.Pos < 0 || perr.Pos >= len(tokens) {
		t.Fatalf("failure position %d out of range", perr.Pos)
	}
	if tokens[perr.Pos].Kind != lexer.TokenAssign {
		t.Errorf("expected failure at ASSIGN, got %s", tokens[perr.Pos].Kind)
	}
}

func TestWholeInputMustBeConsumed(t *testing.T) {
	perr := parseFailure(t, "return 1 }")
	if perr.Kind != UnexpectedToken {
		t.Errorf("expected UnexpectedToken, got %s: %v", perr.Kind, perr)
	}
}
