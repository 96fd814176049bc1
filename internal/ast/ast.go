// Package ast defines the abstract syntax tree produced by the Veld parser.
//
// Statements are continuation shaped: every non-tail statement carries the
// rest of its block, so a block is a chain ending in a Return. The parser
// relies on this shape for the `with` statement rewrite.
package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Node is the base interface for all AST nodes.
type Node interface {
	String() string
}

// Term represents all expression nodes.
type Term interface {
	Node
	termNode()
}

// Stmt represents all statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Def represents all definition nodes.
type Def interface {
	Node
	defNode()
}

// Pattern represents all pattern nodes.
type Pattern interface {
	Node
	patternNode()
}

// Type represents all type nodes.
type Type interface {
	Node
	typeNode()
}

// CallTarget is the callee of a Call: either a named function or a
// computed expression.
type CallTarget interface {
	Node
	callTargetNode()
}

// ====== Identifiers ======

// IdRef is a possibly qualified reference to a name.
type IdRef struct {
	Path []string
	Name string
}

func (i *IdRef) String() string {
	if len(i.Path) == 0 {
		return i.Name
	}
	return strings.Join(i.Path, "::") + "::" + i.Name
}

// IdDef introduces a name.
type IdDef struct {
	Name string
}

func (i *IdDef) String() string { return i.Name }

// Ref is a convenience constructor for an unqualified IdRef.
func Ref(name string) *IdRef { return &IdRef{Name: name} }

// ====== Terms ======

// Var is a variable reference.
type Var struct {
	Id *IdRef
}

func (v *Var) String() string { return v.Id.String() }
func (v *Var) termNode()      {}

// IntLit is an integer literal.
type IntLit struct {
	Value int64
}

func (l *IntLit) String() string { return strconv.FormatInt(l.Value, 10) }
func (l *IntLit) termNode()      {}

// FloatLit is a floating point literal.
type FloatLit struct {
	Value float64
}

func (l *FloatLit) String() string { return strconv.FormatFloat(l.Value, 'g', -1, 64) }
func (l *FloatLit) termNode()      {}

// BoolLit is a boolean literal.
type BoolLit struct {
	Value bool
}

func (l *BoolLit) String() string { return strconv.FormatBool(l.Value) }
func (l *BoolLit) termNode()      {}

// StringLit is a string literal.
type StringLit struct {
	Value     string
	Multiline bool
}

func (l *StringLit) String() string { return strconv.Quote(l.Value) }
func (l *StringLit) termNode()      {}

// UnitLit is the unit literal `()`.
type UnitLit struct{}

func (l *UnitLit) String() string { return "()" }
func (l *UnitLit) termNode()      {}

// IdTarget names the callee of a call.
type IdTarget struct {
	Id *IdRef
}

func (t *IdTarget) String() string  { return t.Id.String() }
func (t *IdTarget) callTargetNode() {}

// ExprTarget is a computed callee.
type ExprTarget struct {
	Expr Term
}

func (t *ExprTarget) String() string  { return t.Expr.String() }
func (t *ExprTarget) callTargetNode() {}

// Call is a function call with type, value and block argument sections.
type Call struct {
	Target    CallTarget
	TypeArgs  []Type
	ValueArgs []Term
	BlockArgs []Term
}

func (c *Call) String() string {
	return c.Target.String() + argsString(c.TypeArgs, c.ValueArgs, c.BlockArgs)
}
func (c *Call) termNode() {}

// MethodCall is a call through a receiver: recv.member(args).
type MethodCall struct {
	Receiver  Term
	Member    *IdRef
	TypeArgs  []Type
	ValueArgs []Term
	BlockArgs []Term
}

func (m *MethodCall) String() string {
	return m.Receiver.String() + "." + m.Member.String() +
		argsString(m.TypeArgs, m.ValueArgs, m.BlockArgs)
}
func (m *MethodCall) termNode() {}

// Select is a member selection without arguments.
type Select struct {
	Receiver Term
	Member   *IdRef
}

func (s *Select) String() string { return s.Receiver.String() + "." + s.Member.String() }
func (s *Select) termNode()      {}

// If is a conditional term. A missing else branch is `return ()`.
type If struct {
	Cond Term
	Then Stmt
	Else Stmt
}

func (i *If) String() string {
	return fmt.Sprintf("if (%s) { %s } else { %s }", i.Cond, i.Then, i.Else)
}
func (i *If) termNode() {}

// While is a loop term.
type While struct {
	Cond Term
	Body Stmt
}

func (w *While) String() string {
	return fmt.Sprintf("while (%s) { %s }", w.Cond, w.Body)
}
func (w *While) termNode() {}

// Do performs an effect operation.
type Do struct {
	Op        *IdRef
	TypeArgs  []Type
	ValueArgs []Term
	BlockArgs []Term
}

func (d *Do) String() string {
	return "do " + d.Op.String() + argsString(d.TypeArgs, d.ValueArgs, d.BlockArgs)
}
func (d *Do) termNode() {}

// TryHandle runs a body under one or more effect handlers.
type TryHandle struct {
	Body     Stmt
	Handlers []*Handler
}

func (t *TryHandle) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "try { %s }", t.Body)
	for _, h := range t.Handlers {
		sb.WriteString(" ")
		sb.WriteString(h.String())
	}
	return sb.String()
}
func (t *TryHandle) termNode() {}

// BlockLiteral is a first-class block: { (params) => body }.
type BlockLiteral struct {
	Params []*IdDef
	Body   Stmt
}

func (b *BlockLiteral) String() string {
	var sb strings.Builder
	sb.WriteString("{ ")
	if len(b.Params) > 0 {
		sb.WriteString("(")
		for i, p := range b.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(p.String())
		}
		sb.WriteString(") ")
	}
	sb.WriteString("=> ")
	sb.WriteString(b.Body.String())
	sb.WriteString(" }")
	return sb.String()
}
func (b *BlockLiteral) termNode() {}

// Hole is a typed hole: `<>` or `<{ stmts }>`.
type Hole struct {
	Body Stmt
}

func (h *Hole) String() string { return fmt.Sprintf("<{ %s }>", h.Body) }
func (h *Hole) termNode()      {}

// ====== Statements ======

// Return ends a block with a value.
type Return struct {
	Value Term
}

func (r *Return) String() string { return "return " + r.Value.String() }
func (r *Return) stmtNode()      {}

// ExprStmt evaluates an expression for its effects and continues with Rest.
type ExprStmt struct {
	Expr Term
	Rest Stmt
}

func (e *ExprStmt) String() string { return e.Expr.String() + "; " + e.Rest.String() }
func (e *ExprStmt) stmtNode()      {}

// DefStmt introduces a definition scoped over Rest.
type DefStmt struct {
	Def  Def
	Rest Stmt
}

func (d *DefStmt) String() string { return d.Def.String() + "; " + d.Rest.String() }
func (d *DefStmt) stmtNode()      {}

// ====== Definitions ======

// ValDef is an immutable value definition.
type ValDef struct {
	Name    *IdDef
	Binding Term
}

func (v *ValDef) String() string { return fmt.Sprintf("val %s = %s", v.Name, v.Binding) }
func (v *ValDef) defNode()       {}

// VarDef is a mutable variable definition.
type VarDef struct {
	Name    *IdDef
	Binding Term
}

func (v *VarDef) String() string { return fmt.Sprintf("var %s = %s", v.Name, v.Binding) }
func (v *VarDef) defNode()       {}

// RegionDef is a mutable variable allocated into a region.
type RegionDef struct {
	Name    *IdDef
	Region  *IdRef
	Binding Term
}

func (r *RegionDef) String() string {
	return fmt.Sprintf("var %s in %s = %s", r.Name, r.Region, r.Binding)
}
func (r *RegionDef) defNode() {}

// ====== Patterns ======

// AnyPattern matches anything: `_`.
type AnyPattern struct{}

func (a *AnyPattern) String() string { return "_" }
func (a *AnyPattern) patternNode()   {}

// VarPattern binds the scrutinee to a name.
type VarPattern struct {
	Name *IdDef
}

func (v *VarPattern) String() string { return v.Name.String() }
func (v *VarPattern) patternNode()   {}

// LiteralPattern matches a literal value.
type LiteralPattern struct {
	Lit Term
}

func (l *LiteralPattern) String() string { return l.Lit.String() }
func (l *LiteralPattern) patternNode()   {}

// TagPattern matches a tagged constructor.
type TagPattern struct {
	Id       *IdRef
	Patterns []Pattern
}

func (t *TagPattern) String() string {
	parts := make([]string, len(t.Patterns))
	for i, p := range t.Patterns {
		parts[i] = p.String()
	}
	return t.Id.String() + "(" + strings.Join(parts, ", ") + ")"
}
func (t *TagPattern) patternNode() {}

// ====== Types ======

// TypeRef references a value, block or interface type, possibly applied to
// type arguments. Tuple types are TypeRefs to the fixed TupleN constructors.
type TypeRef struct {
	Id   *IdRef
	Args []Type
}

func (t *TypeRef) String() string {
	if len(t.Args) == 0 {
		return t.Id.String()
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return t.Id.String() + "[" + strings.Join(parts, ", ") + "]"
}
func (t *TypeRef) typeNode() {}

// Effects is a set of effect type references.
type Effects struct {
	Effects []Type
}

func (e *Effects) String() string {
	parts := make([]string, len(e.Effects))
	for i, eff := range e.Effects {
		parts[i] = eff.String()
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// Effectful pairs a value type with the effects its computation may use.
type Effectful struct {
	Value   Type
	Effects *Effects // nil means pure
}

func (e *Effectful) String() string {
	if e.Effects == nil || len(e.Effects.Effects) == 0 {
		return e.Value.String()
	}
	return e.Value.String() + " / " + e.Effects.String()
}
func (e *Effectful) typeNode() {}

// ====== Handlers ======

// Handler installs an implementation, optionally binding a capability name.
type Handler struct {
	Capability *IdDef // nil when anonymous
	Impl       *Implementation
}

func (h *Handler) String() string {
	if h.Capability != nil {
		return fmt.Sprintf("with %s : %s", h.Capability, h.Impl)
	}
	return "with " + h.Impl.String()
}

// Implementation provides operation clauses for an interface.
type Implementation struct {
	Interface *TypeRef
	Clauses   []*OpClause
}

func (i *Implementation) String() string {
	var sb strings.Builder
	sb.WriteString(i.Interface.String())
	sb.WriteString(" {")
	for _, c := range i.Clauses {
		sb.WriteString(" ")
		sb.WriteString(c.String())
	}
	sb.WriteString(" }")
	return sb.String()
}

// OpClause is one operation definition inside an implementation. Resume is
// the implicitly bound continuation parameter.
type OpClause struct {
	Name        *IdRef
	TypeParams  []*IdDef
	ValueParams []*IdDef
	BlockParams []*IdDef
	Ret         *Effectful // nil when unannotated
	Resume      *IdDef
	Body        Stmt
}

func (c *OpClause) String() string {
	var sb strings.Builder
	sb.WriteString("def ")
	sb.WriteString(c.Name.String())
	if len(c.TypeParams) > 0 {
		sb.WriteString("[")
		for i, p := range c.TypeParams {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(p.String())
		}
		sb.WriteString("]")
	}
	sb.WriteString("(")
	for i, p := range c.ValueParams {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	sb.WriteString(")")
	for _, p := range c.BlockParams {
		sb.WriteString(" { ")
		sb.WriteString(p.String())
		sb.WriteString(" }")
	}
	if c.Ret != nil {
		sb.WriteString(": ")
		sb.WriteString(c.Ret.String())
	}
	sb.WriteString(" = ")
	sb.WriteString(c.Body.String())
	return sb.String()
}

// argsString renders the three argument sections the way they are written.
func argsString(typeArgs []Type, valueArgs []Term, blockArgs []Term) string {
	var sb strings.Builder
	if len(typeArgs) > 0 {
		sb.WriteString("[")
		for i, t := range typeArgs {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(t.String())
		}
		sb.WriteString("]")
	}
	sb.WriteString("(")
	for i, v := range valueArgs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(v.String())
	}
	for i, b := range blockArgs {
		if i > 0 || len(valueArgs) > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(b.String())
	}
	sb.WriteString(")")
	return sb.String()
}
