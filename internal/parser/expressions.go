package parser

import (
	"strconv"

	"github.com/veld-lang/veld/internal/ast"
	"github.com/veld-lang/veld/internal/lexer"
)

// infixName is the fixed, closed mapping from an infix operator to the
// name of the function its applications call.
var infixName = map[lexer.TokenType]string{
	lexer.TokenOr:     "infixOr",
	lexer.TokenAnd:    "infixAnd",
	lexer.TokenEq:     "infixEq",
	lexer.TokenNeq:    "infixNeq",
	lexer.TokenLe:     "infixLte",
	lexer.TokenGe:     "infixGte",
	lexer.TokenLt:     "infixLt",
	lexer.TokenGt:     "infixGt",
	lexer.TokenConcat: "infixConcat",
	lexer.TokenPlus:   "infixAdd",
	lexer.TokenMinus:  "infixSub",
	lexer.TokenMul:    "infixMul",
	lexer.TokenDiv:    "infixDiv",
}

// precedenceTiers lists the binary operators from loosest to tightest
// binding. Every tier is left associative.
var precedenceTiers = [][]lexer.TokenType{
	{lexer.TokenOr},
	{lexer.TokenAnd},
	{lexer.TokenEq, lexer.TokenNeq},
	{lexer.TokenLe, lexer.TokenGe, lexer.TokenLt, lexer.TokenGt},
	{lexer.TokenConcat, lexer.TokenPlus, lexer.TokenMinus},
	{lexer.TokenMul, lexer.TokenDiv},
}

// expr parses an expression. Control-flow keywords are recognized before
// the operator ladder.
func (p *Parser) expr() (ast.Term, *ParseError) {
	switch p.peek(0).Kind {
	case lexer.TokenIf:
		return p.ifExpr()
	case lexer.TokenWhile:
		return p.whileExpr()
	case lexer.TokenDo:
		return p.doExpr()
	case lexer.TokenTry:
		return p.tryExpr()
	case lexer.TokenRegion, lexer.TokenFun, lexer.TokenBox, lexer.TokenUnbox, lexer.TokenNew:
		return nil, p.fail(NotImplemented,
			"`"+p.peek(0).Text+"` expressions are not implemented")
	default:
		return p.binaryExpr(0)
	}
}

// binaryExpr parses one precedence tier: the next-tighter tier, then a
// left-associative fold over this tier's operators.
func (p *Parser) binaryExpr(tier int) (ast.Term, *ParseError) {
	if tier == len(precedenceTiers) {
		return p.callExpr()
	}
	left, err := p.binaryExpr(tier + 1)
	if err != nil {
		return nil, err
	}
	for p.peekIsTier(tier) {
		op := p.next()
		right, err := p.binaryExpr(tier + 1)
		if err != nil {
			return nil, err
		}
		left = &ast.Call{
			Target:    &ast.IdTarget{Id: ast.Ref(infixName[op.Kind])},
			ValueArgs: []ast.Term{left, right},
		}
	}
	return left, nil
}

func (p *Parser) peekIsTier(tier int) bool {
	kind := p.peek(0).Kind
	for _, op := range precedenceTiers[tier] {
		if kind == op {
			return true
		}
	}
	return false
}

// callExpr resolves the left-associative call chain: member selections,
// method calls and function calls applied to a base expression. Each
// iteration consumes at least the `.` or an argument-opening token, so the
// loop terminates.
func (p *Parser) callExpr() (ast.Term, *ParseError) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.peekIs(lexer.TokenDot):
			p.next()
			tok, err := p.consume(lexer.TokenIdent)
			if err != nil {
				return nil, err
			}
			member := ast.Ref(tok.Text)
			if p.isArguments() {
				typeArgs, valueArgs, blockArgs, err := p.arguments()
				if err != nil {
					return nil, err
				}
				expr = &ast.MethodCall{
					Receiver:  expr,
					Member:    member,
					TypeArgs:  typeArgs,
					ValueArgs: valueArgs,
					BlockArgs: blockArgs,
				}
			} else {
				expr = &ast.Select{Receiver: expr, Member: member}
			}
		case p.isArguments():
			// Call position attaches the value-argument section only; the
			// type and block sections are consumed by the general arguments
			// production but not carried on the node.
			_, valueArgs, _, err := p.arguments()
			if err != nil {
				return nil, err
			}
			var target ast.CallTarget
			if v, ok := expr.(*ast.Var); ok {
				target = &ast.IdTarget{Id: v.Id}
			} else {
				target = &ast.ExprTarget{Expr: expr}
			}
			expr = &ast.Call{Target: target, ValueArgs: valueArgs}
		default:
			return expr, nil
		}
	}
}

// isArguments is the cheap lookahead test for the start of an argument
// section.
func (p *Parser) isArguments() bool {
	switch p.peek(0).Kind {
	case lexer.TokenLBracket, lexer.TokenLParen, lexer.TokenLBrace:
		return true
	}
	return false
}

// arguments parses one or more of an optional `[types]`, an optional
// `(values)` and zero or more consecutive `{...}` block arguments. At
// least one of the three must be present.
func (p *Parser) arguments() ([]ast.Type, []ast.Term, []ast.Term, *ParseError) {
	start := p.pos
	var typeArgs []ast.Type
	var valueArgs []ast.Term
	var blockArgs []ast.Term

	if p.peekIs(lexer.TokenLBracket) {
		args, err := bracketedOneOrMoreSep(p, p.valueType,
			lexer.TokenLBracket, lexer.TokenComma, lexer.TokenRBracket)
		if err != nil {
			return nil, nil, nil, err
		}
		typeArgs = args
	}
	if p.peekIs(lexer.TokenLParen) {
		args, err := bracketedZeroOrMoreSep(p, p.expr,
			lexer.TokenLParen, lexer.TokenComma, lexer.TokenRParen)
		if err != nil {
			return nil, nil, nil, err
		}
		valueArgs = args
	}
	for p.peekIs(lexer.TokenLBrace) {
		arg, err := p.blockArg()
		if err != nil {
			return nil, nil, nil, err
		}
		blockArgs = append(blockArgs, arg)
	}

	if p.pos == start {
		return nil, nil, nil, p.fail(MissingArguments, "expected at least one argument section")
	}
	return typeArgs, valueArgs, blockArgs, nil
}

// blockArg parses a trailing block argument: either `{ identifier }`,
// sugar for passing a variable as a block, or a full block literal. The
// sugar is tried first via backtracking.
func (p *Parser) blockArg() (ast.Term, *ParseError) {
	return orElse(p,
		func() (ast.Term, *ParseError) {
			if _, err := p.consume(lexer.TokenLBrace); err != nil {
				return nil, err
			}
			id, err := p.idRef()
			if err != nil {
				return nil, err
			}
			if _, err := p.consume(lexer.TokenRBrace); err != nil {
				return nil, err
			}
			return &ast.Var{Id: id}, nil
		},
		p.blockLiteral)
}

// blockLiteral parses `{ ... }`: match clauses (not implemented), a lambda
// `{ (params) => stmts }`, or a parameterless thunk `{ stmts }`. The lambda
// header is attempted with backtracking; the brace body is committed to.
func (p *Parser) blockLiteral() (ast.Term, *ParseError) {
	if _, err := p.consume(lexer.TokenLBrace); err != nil {
		return nil, err
	}
	if p.peekIs(lexer.TokenCase) {
		return nil, p.fail(NotImplemented, "match clauses in block literals are not implemented")
	}
	params, _ := attempt(p, p.lambdaHeader)
	body, err := p.stmts()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.TokenRBrace); err != nil {
		return nil, err
	}
	return &ast.BlockLiteral{Params: params, Body: body}, nil
}

// lambdaHeader parses `(params) =>` or a bare `=>`.
func (p *Parser) lambdaHeader() ([]*ast.IdDef, *ParseError) {
	var params []*ast.IdDef
	if p.peekIs(lexer.TokenLParen) {
		parsed, err := bracketedZeroOrMoreSep(p, p.lambdaParam,
			lexer.TokenLParen, lexer.TokenComma, lexer.TokenRParen)
		if err != nil {
			return nil, err
		}
		params = parsed
	}
	if _, err := p.consume(lexer.TokenFatArrow); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) lambdaParam() (*ast.IdDef, *ParseError) {
	name, err := p.idDef()
	if err != nil {
		return nil, err
	}
	if p.peekIs(lexer.TokenColon) {
		return nil, p.fail(NotImplemented, "parameter type annotations are not implemented")
	}
	return name, nil
}

// primary parses literals, variables, holes, groups, tuples and lists.
func (p *Parser) primary() (ast.Term, *ParseError) {
	tok := p.peek(0)
	switch tok.Kind {
	case lexer.TokenInt:
		p.next()
		value, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, p.fail(ExpectedConstruct, "malformed integer literal "+tok.Text)
		}
		return &ast.IntLit{Value: value}, nil
	case lexer.TokenFloat:
		p.next()
		value, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, p.fail(ExpectedConstruct, "malformed float literal "+tok.Text)
		}
		return &ast.FloatLit{Value: value}, nil
	case lexer.TokenString:
		p.next()
		return &ast.StringLit{Value: tok.Text, Multiline: tok.Multiline}, nil
	case lexer.TokenTrue:
		p.next()
		return &ast.BoolLit{Value: true}, nil
	case lexer.TokenFalse:
		p.next()
		return &ast.BoolLit{Value: false}, nil
	case lexer.TokenHole:
		p.next()
		return &ast.Hole{Body: &ast.Return{Value: &ast.UnitLit{}}}, nil
	case lexer.TokenHoleOpen:
		p.next()
		body, err := p.stmts()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(lexer.TokenHoleClose); err != nil {
			return nil, err
		}
		return &ast.Hole{Body: body}, nil
	case lexer.TokenIdent:
		id, err := p.idRef()
		if err != nil {
			return nil, err
		}
		return &ast.Var{Id: id}, nil
	case lexer.TokenLParen:
		return p.tupleOrGroup()
	case lexer.TokenLBracket:
		return p.listLiteral()
	default:
		return nil, p.fail(ExpectedConstruct, "expected an expression, got "+tok.Kind.String())
	}
}

// tupleOrGroup parses `()` as the unit literal, `(e)` as e itself, and
// `(e1, e2, ...)` as a call to the arity-sized tuple constructor. Unit is
// recognized before the generic tuple/group rule runs.
func (p *Parser) tupleOrGroup() (ast.Term, *ParseError) {
	p.next()
	if p.peekIs(lexer.TokenRParen) {
		p.next()
		return &ast.UnitLit{}, nil
	}
	exprs, err := oneOrMoreSep(p, p.expr, lexer.TokenComma)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.TokenRParen); err != nil {
		return nil, err
	}
	if len(exprs) == 1 {
		// A tuple of one is not a tuple.
		return exprs[0], nil
	}
	return &ast.Call{
		Target:    &ast.IdTarget{Id: ast.Ref(tupleName(len(exprs)))},
		ValueArgs: exprs,
	}, nil
}

// listLiteral parses `[e1, e2, ...]`, right-folding into nested calls to
// the Cons and Nil constructors.
func (p *Parser) listLiteral() (ast.Term, *ParseError) {
	elems, err := bracketedZeroOrMoreSep(p, p.expr,
		lexer.TokenLBracket, lexer.TokenComma, lexer.TokenRBracket)
	if err != nil {
		return nil, err
	}
	var list ast.Term = &ast.Call{Target: &ast.IdTarget{Id: ast.Ref("Nil")}}
	for i := len(elems) - 1; i >= 0; i-- {
		list = &ast.Call{
			Target:    &ast.IdTarget{Id: ast.Ref("Cons")},
			ValueArgs: []ast.Term{elems[i], list},
		}
	}
	return list, nil
}

func tupleName(arity int) string {
	return "Tuple" + strconv.Itoa(arity)
}

// ifExpr parses `if (cond) thn` with an optional else branch; a missing
// else is `return ()`.
func (p *Parser) ifExpr() (ast.Term, *ParseError) {
	p.next()
	if _, err := p.consume(lexer.TokenLParen); err != nil {
		return nil, err
	}
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.TokenRParen); err != nil {
		return nil, err
	}
	thn, err := p.stmt()
	if err != nil {
		return nil, err
	}
	var els ast.Stmt = &ast.Return{Value: &ast.UnitLit{}}
	if p.peekIs(lexer.TokenElse) {
		p.next()
		els, err = p.stmt()
		if err != nil {
			return nil, err
		}
	}
	return &ast.If{Cond: cond, Then: thn, Else: els}, nil
}

// whileExpr parses `while (cond) body`.
func (p *Parser) whileExpr() (ast.Term, *ParseError) {
	p.next()
	if _, err := p.consume(lexer.TokenLParen); err != nil {
		return nil, err
	}
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.TokenRParen); err != nil {
		return nil, err
	}
	body, err := p.stmt()
	if err != nil {
		return nil, err
	}
	return &ast.While{Cond: cond, Body: body}, nil
}

// doExpr parses an effect operation: `do op(args)`.
func (p *Parser) doExpr() (ast.Term, *ParseError) {
	p.next()
	op, err := p.idRef()
	if err != nil {
		return nil, err
	}
	typeArgs, valueArgs, blockArgs, err := p.arguments()
	if err != nil {
		return nil, err
	}
	return &ast.Do{Op: op, TypeArgs: typeArgs, ValueArgs: valueArgs, BlockArgs: blockArgs}, nil
}
