package parser

import (
	"strconv"

	"github.com/veld-lang/veld/internal/ast"
	"github.com/veld-lang/veld/internal/lexer"
)

// valueType parses a value type: a possibly applied type reference, the
// unit type `()`, a grouped type `(T)`, or a tuple type `(T1, T2, ...)`
// which references the arity-sized tuple constructor.
func (p *Parser) valueType() (ast.Type, *ParseError) {
	switch p.peek(0).Kind {
	case lexer.TokenIdent:
		ref, err := p.typeRef()
		if err != nil {
			return nil, err
		}
		return ref, nil
	case lexer.TokenLParen:
		p.next()
		if p.peekIs(lexer.TokenRParen) {
			p.next()
			return &ast.TypeRef{Id: ast.Ref("Unit")}, nil
		}
		types, err := oneOrMoreSep(p, p.valueType, lexer.TokenComma)
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(lexer.TokenRParen); err != nil {
			return nil, err
		}
		if len(types) == 1 {
			return types[0], nil
		}
		return &ast.TypeRef{
			Id:   ast.Ref("Tuple" + strconv.Itoa(len(types))),
			Args: types,
		}, nil
	default:
		return nil, p.fail(ExpectedConstruct, "expected a type, got "+p.peek(0).Kind.String())
	}
}

// typeRef parses `Name` or `Name[T1, T2]`.
func (p *Parser) typeRef() (*ast.TypeRef, *ParseError) {
	id, err := p.idRef()
	if err != nil {
		return nil, err
	}
	var args []ast.Type
	if p.peekIs(lexer.TokenLBracket) {
		args, err = bracketedOneOrMoreSep(p, p.valueType,
			lexer.TokenLBracket, lexer.TokenComma, lexer.TokenRBracket)
		if err != nil {
			return nil, err
		}
	}
	return &ast.TypeRef{Id: id, Args: args}, nil
}

// interfaceType parses an interface reference with optional type
// arguments, used by handler implementations.
func (p *Parser) interfaceType() (*ast.TypeRef, *ParseError) {
	return p.typeRef()
}

// effectful parses `T` or `T / effects`.
func (p *Parser) effectful() (*ast.Effectful, *ParseError) {
	value, err := p.valueType()
	if err != nil {
		return nil, err
	}
	var effects *ast.Effects
	if p.peekIs(lexer.TokenDiv) {
		p.next()
		effects, err = p.effects()
		if err != nil {
			return nil, err
		}
	}
	return &ast.Effectful{Value: value, Effects: effects}, nil
}

// effects parses an effect set: `{ E1, E2, ... }` or a single effect
// reference.
func (p *Parser) effects() (*ast.Effects, *ParseError) {
	if p.peekIs(lexer.TokenLBrace) {
		refs, err := bracketedZeroOrMoreSep(p, p.valueType,
			lexer.TokenLBrace, lexer.TokenComma, lexer.TokenRBrace)
		if err != nil {
			return nil, err
		}
		return &ast.Effects{Effects: refs}, nil
	}
	ref, err := p.typeRef()
	if err != nil {
		return nil, err
	}
	return &ast.Effects{Effects: []ast.Type{ref}}, nil
}
