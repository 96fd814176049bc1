package parser

import "github.com/veld-lang/veld/internal/lexer"

// Generic repetition combinators. All terminate because each iteration
// either consumes at least one token or is gated by a lookahead test of
// the next token.

// oneOrMoreSep parses p, then while the next token is sep, consumes it and
// parses another p. The result has at least one element.
func oneOrMoreSep[T any](p *Parser, parse func() (T, *ParseError), sep lexer.TokenType) ([]T, *ParseError) {
	first, err := parse()
	if err != nil {
		return nil, err
	}
	results := []T{first}
	for p.peekIs(sep) {
		p.next()
		v, err := parse()
		if err != nil {
			return nil, err
		}
		results = append(results, v)
	}
	return results, nil
}

// bracketedOneOrMoreSep parses open, a non-empty sep-separated list, close.
func bracketedOneOrMoreSep[T any](p *Parser, parse func() (T, *ParseError), open, sep, close lexer.TokenType) ([]T, *ParseError) {
	if _, err := p.consume(open); err != nil {
		return nil, err
	}
	results, err := oneOrMoreSep(p, parse, sep)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(close); err != nil {
		return nil, err
	}
	return results, nil
}

// bracketedZeroOrMoreSep is like bracketedOneOrMoreSep but accepts an
// empty list.
func bracketedZeroOrMoreSep[T any](p *Parser, parse func() (T, *ParseError), open, sep, close lexer.TokenType) ([]T, *ParseError) {
	if _, err := p.consume(open); err != nil {
		return nil, err
	}
	if p.peekIs(close) {
		p.next()
		return nil, nil
	}
	results, err := oneOrMoreSep(p, parse, sep)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(close); err != nil {
		return nil, err
	}
	return results, nil
}

// whileLookahead parses p while the next token is lookahead, accumulating
// zero or more results. p itself consumes the lookahead token.
func whileLookahead[T any](p *Parser, parse func() (T, *ParseError), lookahead lexer.TokenType) ([]T, *ParseError) {
	var results []T
	for p.peekIs(lookahead) {
		v, err := parse()
		if err != nil {
			return nil, err
		}
		results = append(results, v)
	}
	return results, nil
}

// oneOrMoreWhileLookahead requires one unconditional iteration before
// testing the lookahead for further ones.
func oneOrMoreWhileLookahead[T any](p *Parser, parse func() (T, *ParseError), lookahead lexer.TokenType) ([]T, *ParseError) {
	first, err := parse()
	if err != nil {
		return nil, err
	}
	rest, err := whileLookahead(p, parse, lookahead)
	if err != nil {
		return nil, err
	}
	return append([]T{first}, rest...), nil
}

// semi justifies a statement boundary: an explicit separator, or silently
// the next token being a closing brace or `case`, or silently a newline
// before the current token. Otherwise the boundary is a MissingSeparator
// failure. This encodes "a newline terminates a statement unless followed
// immediately by a continuation token".
func (p *Parser) semi() *ParseError {
	switch {
	case p.peekIs(lexer.TokenSemicolon):
		p.next()
		return nil
	case p.peekIs(lexer.TokenRBrace), p.peekIs(lexer.TokenHoleClose), p.peekIs(lexer.TokenCase):
		return nil
	case p.precededByNewline():
		return nil
	default:
		return p.fail(MissingSeparator, "expected `;` or a newline between statements")
	}
}

// precededByNewline reports whether a newline separates the current token
// from the previous significant one.
func (p *Parser) precededByNewline() bool {
	for off := -1; ; off-- {
		tok := p.peek(off)
		switch tok.Kind {
		case lexer.TokenNewline:
			return true
		case lexer.TokenWhitespace, lexer.TokenComment:
			continue
		default:
			return false
		}
	}
}
