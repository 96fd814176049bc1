package ast

import "testing"

func TestCallRendering(t *testing.T) {
	call := &Call{
		Target:    &IdTarget{Id: Ref("map")},
		TypeArgs:  []Type{&TypeRef{Id: Ref("Int")}},
		ValueArgs: []Term{&Var{Id: Ref("xs")}},
		BlockArgs: []Term{&BlockLiteral{
			Params: []*IdDef{{Name: "x"}},
			Body:   &Return{Value: &Var{Id: Ref("x")}},
		}},
	}
	want := "map[Int](xs, { (x) => return x })"
	if got := call.String(); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestQualifiedReference(t *testing.T) {
	id := &IdRef{Path: []string{"std", "list"}, Name: "map"}
	if got, want := id.String(), "std::list::map"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestStatementChainRendering(t *testing.T) {
	var stmt Stmt = &DefStmt{
		Def: &ValDef{Name: &IdDef{Name: "x"}, Binding: &IntLit{Value: 1}},
		Rest: &ExprStmt{
			Expr: &Call{Target: &IdTarget{Id: Ref("log")}},
			Rest: &Return{Value: &Var{Id: Ref("x")}},
		},
	}
	want := "val x = 1; log(); return x"
	if got := stmt.String(); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestHandlerRendering(t *testing.T) {
	h := &Handler{
		Capability: &IdDef{Name: "exc"},
		Impl: &Implementation{
			Interface: &TypeRef{Id: Ref("Exc")},
			Clauses: []*OpClause{{
				Name:        Ref("raise"),
				ValueParams: []*IdDef{{Name: "msg"}},
				Resume:      &IdDef{Name: "resume"},
				Body:        &Return{Value: &Var{Id: Ref("msg")}},
			}},
		},
	}
	want := "with exc : Exc { def raise(msg) = return msg }"
	if got := h.String(); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestThunkRendering(t *testing.T) {
	b := &BlockLiteral{Body: &Return{Value: &UnitLit{}}}
	if got, want := b.String(), "{ => return () }"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
