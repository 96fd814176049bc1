package parser

import (
	"strconv"

	"github.com/veld-lang/veld/internal/ast"
	"github.com/veld-lang/veld/internal/lexer"
)

// pattern parses a match pattern: wildcard, tagged constructor, bare
// binder, literal, or a parenthesized tuple pattern of two or more
// elements. A parenthesized single pattern is rejected: a tuple of one is
// not a tuple.
func (p *Parser) pattern() (ast.Pattern, *ParseError) {
	tok := p.peek(0)
	switch tok.Kind {
	case lexer.TokenUnderscore:
		p.next()
		return &ast.AnyPattern{}, nil
	case lexer.TokenIdent:
		// A constructor tag is an identifier immediately followed by a
		// parenthesized pattern list; otherwise the identifier binds.
		id, err := p.idRef()
		if err != nil {
			return nil, err
		}
		if p.peekIs(lexer.TokenLParen) {
			patterns, err := bracketedZeroOrMoreSep(p, p.pattern,
				lexer.TokenLParen, lexer.TokenComma, lexer.TokenRParen)
			if err != nil {
				return nil, err
			}
			return &ast.TagPattern{Id: id, Patterns: patterns}, nil
		}
		if len(id.Path) > 0 {
			return nil, p.fail(ExpectedConstruct, "a qualified name cannot bind in a pattern")
		}
		return &ast.VarPattern{Name: &ast.IdDef{Name: id.Name}}, nil
	case lexer.TokenInt:
		p.next()
		value, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, p.fail(ExpectedConstruct, "malformed integer literal "+tok.Text)
		}
		return &ast.LiteralPattern{Lit: &ast.IntLit{Value: value}}, nil
	case lexer.TokenFloat:
		p.next()
		value, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, p.fail(ExpectedConstruct, "malformed float literal "+tok.Text)
		}
		return &ast.LiteralPattern{Lit: &ast.FloatLit{Value: value}}, nil
	case lexer.TokenString:
		p.next()
		return &ast.LiteralPattern{Lit: &ast.StringLit{Value: tok.Text, Multiline: tok.Multiline}}, nil
	case lexer.TokenTrue:
		p.next()
		return &ast.LiteralPattern{Lit: &ast.BoolLit{Value: true}}, nil
	case lexer.TokenFalse:
		p.next()
		return &ast.LiteralPattern{Lit: &ast.BoolLit{Value: false}}, nil
	case lexer.TokenLParen:
		patterns, err := bracketedOneOrMoreSep(p, p.pattern,
			lexer.TokenLParen, lexer.TokenComma, lexer.TokenRParen)
		if err != nil {
			return nil, err
		}
		if len(patterns) == 1 {
			return nil, p.fail(SingleElementTuple,
				"a tuple pattern requires at least two elements")
		}
		return &ast.TagPattern{
			Id:       ast.Ref("Tuple" + strconv.Itoa(len(patterns))),
			Patterns: patterns,
		}, nil
	default:
		return nil, p.fail(ExpectedConstruct, "expected a pattern, got "+tok.Kind.String())
	}
}
