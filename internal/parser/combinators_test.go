package parser

import (
	"reflect"
	"strings"
	"testing"

	"github.com/veld-lang/veld/internal/ast"
	"github.com/veld-lang/veld/internal/lexer"
)

func newTestParser(t *testing.T, src string) *Parser {
	t.Helper()
	tokens, err := lexer.Lex(src)
	if err != nil {
		t.Fatalf("Lex(%q) failed: %v", src, err)
	}
	return newParser(tokens)
}

// TestAttemptRestoresPosition probes the cursor before and after a failed
// attempt: the position must be exactly what it was.
func TestAttemptRestoresPosition(t *testing.T) {
	p := newTestParser(t, "val = 1")
	before := p.pos
	peekBefore := p.peek(0)

	_, ok := attempt(p, func() (ast.Stmt, *ParseError) { return p.stmts() })
	if ok {
		t.Fatal("expected the attempt to fail")
	}
	if p.pos != before {
		t.Errorf("position not restored: before %d, after %d", before, p.pos)
	}
	if got := p.peek(0); got != peekBefore {
		t.Errorf("peek changed: before %v, after %v", peekBefore, got)
	}
}

// TestAttemptKeepsPositionOnSuccess checks that a successful attempt
// leaves the cursor where the sub-parse left it.
func TestAttemptKeepsPositionOnSuccess(t *testing.T) {
	p := newTestParser(t, "x y")
	v, ok := attempt(p, p.idRef)
	if !ok {
		t.Fatal("expected the attempt to succeed")
	}
	if v.Name != "x" {
		t.Errorf("expected x, got %s", v.Name)
	}
	if !p.peekIs(lexer.TokenIdent) || p.peek(0).Text != "y" {
		t.Errorf("cursor not advanced past x: at %v", p.peek(0))
	}
}

func TestOrElseFallsBackFromOriginalPosition(t *testing.T) {
	p := newTestParser(t, "42")
	got, err := orElse(p,
		func() (ast.Term, *ParseError) {
			// Consume the literal, then fail: the fallback must re-parse it.
			if _, perr := p.consume(lexer.TokenInt); perr != nil {
				return nil, perr
			}
			return nil, p.fail(ExpectedConstruct, "forced failure")
		},
		p.primary)
	if err != nil {
		t.Fatalf("orElse failed: %v", err)
	}
	lit, ok := got.(*ast.IntLit)
	if !ok || lit.Value != 42 {
		t.Errorf("expected 42, got %s", got)
	}
}

func TestRequireWrapsMessage(t *testing.T) {
	p := newTestParser(t, "=")
	_, err := require(p, "a condition", p.expr)
	if err == nil {
		t.Fatal("expected failure")
	}
	if !strings.Contains(err.Msg, "expected a condition but failed:") {
		t.Errorf("message not wrapped: %q", err.Msg)
	}
	if err.Kind != ExpectedConstruct {
		t.Errorf("kind not preserved: %s", err.Kind)
	}
	if err.Pos != 0 {
		t.Errorf("position not preserved: %d", err.Pos)
	}
}

func TestRepetitionCombinators(t *testing.T) {
	t.Run("oneOrMoreSep", func(t *testing.T) {
		p := newTestParser(t, "a, b, c")
		got, err := oneOrMoreSep(p, p.idDef, lexer.TokenComma)
		if err != nil {
			t.Fatalf("oneOrMoreSep failed: %v", err)
		}
		want := []*ast.IdDef{{Name: "a"}, {Name: "b"}, {Name: "c"}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})
	t.Run("bracketedOneOrMoreSep rejects empty", func(t *testing.T) {
		p := newTestParser(t, "[]")
		if _, err := bracketedOneOrMoreSep(p, p.idDef, lexer.TokenLBracket, lexer.TokenComma, lexer.TokenRBracket); err == nil {
			t.Error("expected failure on empty list")
		}
	})
	t.Run("bracketedZeroOrMoreSep accepts empty", func(t *testing.T) {
		p := newTestParser(t, "()")
		got, err := bracketedZeroOrMoreSep(p, p.idDef, lexer.TokenLParen, lexer.TokenComma, lexer.TokenRParen)
		if err != nil {
			t.Fatalf("bracketedZeroOrMoreSep failed: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected no elements, got %v", got)
		}
	})
	t.Run("whileLookahead stops without consuming", func(t *testing.T) {
		p := newTestParser(t, "{ a } { b } (")
		got, err := whileLookahead(p, p.blockParam, lexer.TokenLBrace)
		if err != nil {
			t.Fatalf("whileLookahead failed: %v", err)
		}
		if len(got) != 2 || got[0].Name != "a" || got[1].Name != "b" {
			t.Errorf("unexpected result: %v", got)
		}
		if !p.peekIs(lexer.TokenLParen) {
			t.Errorf("cursor should rest on LPAREN, at %v", p.peek(0))
		}
	})
	t.Run("oneOrMoreWhileLookahead requires the first iteration", func(t *testing.T) {
		p := newTestParser(t, "( a )")
		if _, err := oneOrMoreWhileLookahead(p, p.blockParam, lexer.TokenLBrace); err == nil {
			t.Error("expected failure when the first iteration cannot parse")
		}
	})
}

// TestCursorInvariant checks that the cursor always rests on a
// significant token or the end marker.
func TestCursorInvariant(t *testing.T) {
	p := newTestParser(t, "// leading comment\n\nval x = 1")
	if !p.peekIs(lexer.TokenVal) {
		t.Errorf("cursor should skip leading trivia, at %v", p.peek(0))
	}
	p.next()
	if !p.peekIs(lexer.TokenIdent) {
		t.Errorf("cursor should rest on IDENT, at %v", p.peek(0))
	}
}

func TestNegativePeekSeesTrivia(t *testing.T) {
	p := newTestParser(t, "a\nb")
	p.next() // consume a, skipping the newline
	if !p.peekIs(lexer.TokenIdent) {
		t.Fatalf("expected IDENT, at %v", p.peek(0))
	}
	if p.peek(-1).Kind != lexer.TokenNewline {
		t.Errorf("peek(-1) should see the newline, got %s", p.peek(-1).Kind)
	}
}

func TestConsumeMismatch(t *testing.T) {
	p := newTestParser(t, "42")
	_, err := p.consume(lexer.TokenIdent)
	if err == nil {
		t.Fatal("expected failure")
	}
	if err.Kind != UnexpectedToken {
		t.Errorf("expected UnexpectedToken, got %s", err.Kind)
	}
}

// TestWhitespaceTokensTolerated feeds a hand-built sequence containing
// explicit whitespace tokens, which the input contract allows anywhere
// between meaningful tokens.
func TestWhitespaceTokensTolerated(t *testing.T) {
	tokens := []lexer.Token{
		{Kind: lexer.TokenWhitespace, Text: " ", Offset: 0},
		{Kind: lexer.TokenIdent, Text: "foo", Offset: 1},
		{Kind: lexer.TokenWhitespace, Text: " ", Offset: 4},
		{Kind: lexer.TokenLParen, Text: "(", Offset: 5},
		{Kind: lexer.TokenRParen, Text: ")", Offset: 6},
		{Kind: lexer.TokenEOF, Offset: 7},
	}
	stmt, perr := parseTokens(tokens)
	if perr != nil {
		t.Fatalf("parse failed: %v", perr)
	}
	if got, want := stmt.String(), "return foo()"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
