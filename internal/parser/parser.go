package parser

import (
	"github.com/veld-lang/veld/internal/ast"
	"github.com/veld-lang/veld/internal/lexer"
)

// Parse parses a statement sequence from position 0 of the given token
// sequence and returns the AST root, or the first fatal parse failure.
// The whole input must be consumed up to the end marker.
func Parse(tokens []lexer.Token) (ast.Stmt, error) {
	stmt, perr := parseTokens(tokens)
	if perr != nil {
		return nil, perr
	}
	return stmt, nil
}

// parseTokens is the typed entry point used by tests.
func parseTokens(tokens []lexer.Token) (ast.Stmt, *ParseError) {
	p := newParser(tokens)
	stmt, err := p.stmts()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.TokenEOF); err != nil {
		return nil, err
	}
	return stmt, nil
}

// stmts parses a statement sequence. The sequence is continuation shaped:
// each non-tail statement carries the rest of the block.
func (p *Parser) stmts() (ast.Stmt, *ParseError) {
	switch p.peek(0).Kind {
	case lexer.TokenVal:
		return p.valDef()
	case lexer.TokenFun, lexer.TokenDef, lexer.TokenTypeKw, lexer.TokenEffect, lexer.TokenNamespace:
		return nil, p.fail(ToplevelOnly,
			"`"+p.peek(0).Text+"` definitions are only allowed at the top level")
	case lexer.TokenWith:
		return p.withStmt()
	case lexer.TokenVar:
		return p.varDef()
	case lexer.TokenReturn:
		p.next()
		value, err := p.expr()
		if err != nil {
			return nil, err
		}
		return &ast.Return{Value: value}, nil
	default:
		expr, err := p.expr()
		if err != nil {
			return nil, err
		}
		// An expression at the end of a block is its return value.
		if p.atBlockEnd() {
			return &ast.Return{Value: expr}, nil
		}
		if err := p.semi(); err != nil {
			return nil, err
		}
		rest, err := p.stmts()
		if err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Expr: expr, Rest: rest}, nil
	}
}

func (p *Parser) atBlockEnd() bool {
	switch p.peek(0).Kind {
	case lexer.TokenRBrace, lexer.TokenHoleClose, lexer.TokenCase, lexer.TokenEOF:
		return true
	}
	return false
}

// valDef parses `val x = expr; rest`.
func (p *Parser) valDef() (ast.Stmt, *ParseError) {
	p.next()
	name, err := p.idDef()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.TokenAssign); err != nil {
		return nil, err
	}
	binding, err := p.expr()
	if err != nil {
		return nil, err
	}
	if err := p.semi(); err != nil {
		return nil, err
	}
	rest, err := p.stmts()
	if err != nil {
		return nil, err
	}
	return &ast.DefStmt{Def: &ast.ValDef{Name: name, Binding: binding}, Rest: rest}, nil
}

// varDef parses `var x = expr; rest` and the region form
// `var x in r = expr; rest`.
func (p *Parser) varDef() (ast.Stmt, *ParseError) {
	p.next()
	name, err := p.idDef()
	if err != nil {
		return nil, err
	}
	var region *ast.IdRef
	if p.peekIs(lexer.TokenIn) {
		p.next()
		region, err = p.idRef()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(lexer.TokenAssign); err != nil {
		return nil, err
	}
	binding, err := p.expr()
	if err != nil {
		return nil, err
	}
	if err := p.semi(); err != nil {
		return nil, err
	}
	rest, err := p.stmts()
	if err != nil {
		return nil, err
	}
	var def ast.Def
	if region != nil {
		def = &ast.RegionDef{Name: name, Region: region, Binding: binding}
	} else {
		def = &ast.VarDef{Name: name, Binding: binding}
	}
	return &ast.DefStmt{Def: def, Rest: rest}, nil
}

// withStmt parses `with <expr>; <rest>` and rewrites the pair into a
// single return of a call: the continuation <rest> becomes the body of a
// synthesized zero-parameter block passed as the last block argument.
func (p *Parser) withStmt() (ast.Stmt, *ParseError) {
	p.next()
	expr, err := require(p, "the expression of a `with` statement", p.expr)
	if err != nil {
		return nil, err
	}
	if err := p.semi(); err != nil {
		return nil, err
	}
	rest, err := p.stmts()
	if err != nil {
		return nil, err
	}
	block := &ast.BlockLiteral{Body: rest}
	switch t := expr.(type) {
	case *ast.MethodCall:
		t.BlockArgs = append(t.BlockArgs, block)
		return &ast.Return{Value: t}, nil
	case *ast.Call:
		t.BlockArgs = append(t.BlockArgs, block)
		return &ast.Return{Value: t}, nil
	case *ast.Var:
		call := &ast.Call{
			Target:    &ast.IdTarget{Id: t.Id},
			BlockArgs: []ast.Term{block},
		}
		return &ast.Return{Value: call}, nil
	default:
		call := &ast.Call{
			Target:    &ast.ExprTarget{Expr: expr},
			BlockArgs: []ast.Term{block},
		}
		return &ast.Return{Value: call}, nil
	}
}

// stmt parses either a braced statement sequence or a bare expression
// treated as a returned value. Used for the branches of if/while and for
// operation clause bodies.
func (p *Parser) stmt() (ast.Stmt, *ParseError) {
	if p.peekIs(lexer.TokenLBrace) {
		return p.stmtBlock()
	}
	expr, err := p.expr()
	if err != nil {
		return nil, err
	}
	return &ast.Return{Value: expr}, nil
}

// stmtBlock parses `{ stmts }`.
func (p *Parser) stmtBlock() (ast.Stmt, *ParseError) {
	if _, err := p.consume(lexer.TokenLBrace); err != nil {
		return nil, err
	}
	body, err := p.stmts()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.TokenRBrace); err != nil {
		return nil, err
	}
	return body, nil
}

// idDef parses a defining occurrence of a name.
func (p *Parser) idDef() (*ast.IdDef, *ParseError) {
	tok, err := p.consume(lexer.TokenIdent)
	if err != nil {
		return nil, err
	}
	return &ast.IdDef{Name: tok.Text}, nil
}

// idRef parses a possibly qualified reference: `a::b::c`.
func (p *Parser) idRef() (*ast.IdRef, *ParseError) {
	tok, err := p.consume(lexer.TokenIdent)
	if err != nil {
		return nil, err
	}
	name := tok.Text
	var path []string
	for p.peekIs(lexer.TokenDoubleColon) {
		p.next()
		tok, err := p.consume(lexer.TokenIdent)
		if err != nil {
			return nil, err
		}
		path = append(path, name)
		name = tok.Text
	}
	return &ast.IdRef{Path: path, Name: name}, nil
}
