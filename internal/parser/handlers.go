package parser

import (
	"github.com/veld-lang/veld/internal/ast"
	"github.com/veld-lang/veld/internal/lexer"
)

// resumeName is the identifier implicitly bound as the continuation
// parameter of every operation clause.
const resumeName = "resume"

// tryExpr parses `try { stmts } with handler (with handler)*`. Each
// handler clause consumes its own `with`, so the repetition is driven by
// the lookahead.
func (p *Parser) tryExpr() (ast.Term, *ParseError) {
	p.next()
	body, err := require(p, "the body of a `try` expression", p.stmt)
	if err != nil {
		return nil, err
	}
	handlers, err := oneOrMoreWhileLookahead(p, p.handler, lexer.TokenWith)
	if err != nil {
		return nil, err
	}
	return &ast.TryHandle{Body: body, Handlers: handlers}, nil
}

// handler parses `with (identifier :)? implementation`. The optional
// identifier binds the installed capability to a name.
func (p *Parser) handler() (*ast.Handler, *ParseError) {
	if _, err := p.consume(lexer.TokenWith); err != nil {
		return nil, err
	}
	capability, _ := attempt(p, func() (*ast.IdDef, *ParseError) {
		name, err := p.idDef()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(lexer.TokenColon); err != nil {
			return nil, err
		}
		return name, nil
	})
	impl, err := p.implementation()
	if err != nil {
		return nil, err
	}
	return &ast.Handler{Capability: capability, Impl: impl}, nil
}

// implementation parses the operation clauses for an interface. The full
// form `Interface[T] { def op(...) = ... }` is attempted first; if it does
// not match, the lambda sugar `Name { (params) => body }` provides an
// implicit single clause named after the interface.
func (p *Parser) implementation() (*ast.Implementation, *ParseError) {
	return orElse(p, p.interfaceImplementation, p.operationImplementation)
}

func (p *Parser) interfaceImplementation() (*ast.Implementation, *ParseError) {
	itf, err := p.interfaceType()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.TokenLBrace); err != nil {
		return nil, err
	}
	clauses, err := whileLookahead(p, p.opClause, lexer.TokenDef)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.TokenRBrace); err != nil {
		return nil, err
	}
	return &ast.Implementation{Interface: itf, Clauses: clauses}, nil
}

// operationImplementation parses the single-operation sugar: the
// interface name followed by a lambda-literal-style parameter list and
// body. The clause is named after the interface.
func (p *Parser) operationImplementation() (*ast.Implementation, *ParseError) {
	tok, err := p.consume(lexer.TokenIdent)
	if err != nil {
		return nil, err
	}
	name := ast.Ref(tok.Text)
	if _, err := p.consume(lexer.TokenLBrace); err != nil {
		return nil, err
	}
	params, _ := attempt(p, p.lambdaHeader)
	body, err := p.stmts()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.TokenRBrace); err != nil {
		return nil, err
	}
	clause := &ast.OpClause{
		Name:        name,
		ValueParams: params,
		Resume:      &ast.IdDef{Name: resumeName},
		Body:        body,
	}
	return &ast.Implementation{
		Interface: &ast.TypeRef{Id: name},
		Clauses:   []*ast.OpClause{clause},
	}, nil
}

// opClause parses one `def`-headed operation definition inside an
// implementation: type, value and block parameters, an optional effectful
// return annotation and the body, with `resume` implicitly bound.
func (p *Parser) opClause() (*ast.OpClause, *ParseError) {
	if _, err := p.consume(lexer.TokenDef); err != nil {
		return nil, err
	}
	name, err := p.idRef()
	if err != nil {
		return nil, err
	}

	var typeParams []*ast.IdDef
	if p.peekIs(lexer.TokenLBracket) {
		typeParams, err = bracketedOneOrMoreSep(p, p.idDef,
			lexer.TokenLBracket, lexer.TokenComma, lexer.TokenRBracket)
		if err != nil {
			return nil, err
		}
	}
	var valueParams []*ast.IdDef
	if p.peekIs(lexer.TokenLParen) {
		valueParams, err = bracketedZeroOrMoreSep(p, p.lambdaParam,
			lexer.TokenLParen, lexer.TokenComma, lexer.TokenRParen)
		if err != nil {
			return nil, err
		}
	}
	blockParams, err := whileLookahead(p, p.blockParam, lexer.TokenLBrace)
	if err != nil {
		return nil, err
	}

	var ret *ast.Effectful
	if p.peekIs(lexer.TokenColon) {
		p.next()
		ret, err = p.effectful()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.consume(lexer.TokenAssign); err != nil {
		return nil, err
	}
	body, err := require(p, "the body of an operation clause", p.stmt)
	if err != nil {
		return nil, err
	}
	return &ast.OpClause{
		Name:        name,
		TypeParams:  typeParams,
		ValueParams: valueParams,
		BlockParams: blockParams,
		Ret:         ret,
		Resume:      &ast.IdDef{Name: resumeName},
		Body:        body,
	}, nil
}

// blockParam parses `{ f }`. Block parameter type annotations are not
// part of the implemented grammar.
func (p *Parser) blockParam() (*ast.IdDef, *ParseError) {
	if _, err := p.consume(lexer.TokenLBrace); err != nil {
		return nil, err
	}
	name, err := p.idDef()
	if err != nil {
		return nil, err
	}
	if p.peekIs(lexer.TokenColon) {
		return nil, p.fail(NotImplemented, "block parameter type annotations are not implemented")
	}
	if _, err := p.consume(lexer.TokenRBrace); err != nil {
		return nil, err
	}
	return name, nil
}
