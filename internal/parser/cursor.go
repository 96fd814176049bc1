// Package parser implements the Veld recursive descent parser. It consumes
// a finished token sequence and produces an abstract syntax tree.
//
// The only mutable state is the cursor position. Cursor invariant: after
// every advancing operation the position refers to the next token that is
// not whitespace, comment or newline, or to the end marker. Positions move
// backward only through backtracking (see backtrack.go).
package parser

import (
	"fmt"

	"github.com/veld-lang/veld/internal/lexer"
)

// Parser holds the token sequence and the cursor position. A Parser must
// not be shared between concurrent parses; independent Parsers may share
// the same token slice.
type Parser struct {
	tokens []lexer.Token
	pos    int
}

// newParser creates a parser positioned on the first significant token.
func newParser(tokens []lexer.Token) *Parser {
	p := &Parser{tokens: tokens}
	p.skipInsignificant()
	return p
}

// peek returns the token at position + offset without moving the cursor.
// The offset may be negative to inspect preceding raw tokens, which the
// semicolon insertion rule uses to look for newlines. Out-of-range offsets
// yield the end marker.
func (p *Parser) peek(offset int) lexer.Token {
	idx := p.pos + offset
	if idx < 0 || idx >= len(p.tokens) {
		return lexer.Token{Kind: lexer.TokenEOF, Offset: -1}
	}
	return p.tokens[idx]
}

// peekIs tests the current token's kind.
func (p *Parser) peekIs(kind lexer.TokenType) bool {
	return p.peek(0).Kind == kind
}

// peekIsAt tests the kind of the token at the given offset.
func (p *Parser) peekIsAt(offset int, kind lexer.TokenType) bool {
	return p.peek(offset).Kind == kind
}

// next returns the current token and advances past it and any following
// insignificant tokens, restoring the cursor invariant. The cursor never
// advances past the end marker.
func (p *Parser) next() lexer.Token {
	tok := p.peek(0)
	if tok.Kind != lexer.TokenEOF {
		p.pos++
		p.skipInsignificant()
	}
	return tok
}

// consume advances and fails with UnexpectedToken unless the consumed
// token has the required kind.
func (p *Parser) consume(kind lexer.TokenType) (lexer.Token, *ParseError) {
	at := p.pos
	tok := p.next()
	if tok.Kind != kind {
		p.pos = at
		return tok, p.failAt(UnexpectedToken, at,
			fmt.Sprintf("expected %s, got %s", kind, tok.Kind))
	}
	return tok, nil
}

func (p *Parser) skipInsignificant() {
	for p.pos < len(p.tokens) && p.tokens[p.pos].Kind.IsInsignificant() {
		p.pos++
	}
}

// fail creates a failure at the current position.
func (p *Parser) fail(kind ErrorKind, msg string) *ParseError {
	return p.failAt(kind, p.pos, msg)
}

func (p *Parser) failAt(kind ErrorKind, pos int, msg string) *ParseError {
	return &ParseError{Kind: kind, Pos: pos, Msg: msg}
}
