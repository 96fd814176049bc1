package parser

import (
	"testing"

	"github.com/veld-lang/veld/internal/ast"
)

func TestTryWithInterfaceImplementation(t *testing.T) {
	src := "try { do get() } with State[Int] { def get() = resume(1) def set(v) = resume(()) }"
	want := "return try { return do get() } with State[Int] { def get() = return resume(1) def set(v) = return resume(()) }"
	expectParse(t, src, want)
}

func TestTryWithCapabilityBinder(t *testing.T) {
	stmt := parseString(t, "try { 1 } with h : Exc { def raise(m) = m }")
	ret := stmt.(*ast.Return)
	try, ok := ret.Value.(*ast.TryHandle)
	if !ok {
		t.Fatalf("expected TryHandle, got %T", ret.Value)
	}
	if len(try.Handlers) != 1 {
		t.Fatalf("expected 1 handler, got %d", len(try.Handlers))
	}
	h := try.Handlers[0]
	if h.Capability == nil || h.Capability.Name != "h" {
		t.Errorf("expected capability binder h, got %v", h.Capability)
	}
	if got, want := stmt.String(),
		"return try { return 1 } with h : Exc { def raise(m) = return m }"; got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

// TestOperationSugar checks the single-operation form: the interface name
// followed by a lambda body yields one clause named after the interface.
func TestOperationSugar(t *testing.T) {
	stmt := parseString(t, "try { do next() } with Next { (k) => resume(k) }")
	try := stmt.(*ast.Return).Value.(*ast.TryHandle)
	impl := try.Handlers[0].Impl
	if got, want := impl.Interface.Id.Name, "Next"; got != want {
		t.Errorf("interface name %q, want %q", got, want)
	}
	if len(impl.Clauses) != 1 {
		t.Fatalf("expected 1 clause, got %d", len(impl.Clauses))
	}
	clause := impl.Clauses[0]
	if clause.Name.Name != "Next" {
		t.Errorf("clause named %q, want the interface name", clause.Name.Name)
	}
	if len(clause.ValueParams) != 1 || clause.ValueParams[0].Name != "k" {
		t.Errorf("unexpected value parameters: %v", clause.ValueParams)
	}
	if clause.Resume == nil || clause.Resume.Name != "resume" {
		t.Errorf("continuation binder %v, want resume", clause.Resume)
	}
}

func TestMultipleHandlers(t *testing.T) {
	src := "try { 1 } with A { => 1 } with B { => 2 }"
	want := "return try { return 1 } with A { def A() = return 1 } with B { def B() = return 2 }"
	expectParse(t, src, want)
}

func TestOpClauseSignature(t *testing.T) {
	t.Run("type, value and block parameters with an effect annotation", func(t *testing.T) {
		src := "try { 1 } with Gen { def emit[T](v) { f } : Int / { Out } = f(v) }"
		want := "return try { return 1 } with Gen { def emit[T](v) { f }: Int / { Out } = return f(v) }"
		expectParse(t, src, want)
	})
	t.Run("single effect without braces", func(t *testing.T) {
		braced := parseString(t, "try { 1 } with G { def op() : Int / { E } = 1 }").String()
		bare := parseString(t, "try { 1 } with G { def op() : Int / E = 1 }").String()
		if braced != bare {
			t.Errorf("effect set forms differ: %q vs %q", braced, bare)
		}
	})
	t.Run("braced clause body", func(t *testing.T) {
		src := "try { 1 } with G { def op(v) = { val x = v\nx } }"
		want := "return try { return 1 } with G { def op(v) = val x = v; return x }"
		expectParse(t, src, want)
	})
}

func TestTryRequiresHandler(t *testing.T) {
	perr := parseFailure(t, "try { 1 }")
	if perr.Kind != UnexpectedToken {
		t.Errorf("expected UnexpectedToken, got %s: %v", perr.Kind, perr)
	}
}

// TestHandlerConsumesOwnWith distinguishes the handler grammar from the
// `with` statement: inside a try, `with` always opens a handler clause.
func TestHandlerConsumesOwnWith(t *testing.T) {
	stmt := parseString(t, "try { with acquire(); use() } with Exc { (m) => m }")
	try := stmt.(*ast.Return).Value.(*ast.TryHandle)
	if len(try.Handlers) != 1 {
		t.Fatalf("expected 1 handler, got %d", len(try.Handlers))
	}
	body, ok := try.Body.(*ast.Return)
	if !ok {
		t.Fatalf("expected the body to be the rewritten with statement, got %T", try.Body)
	}
	call, ok := body.Value.(*ast.Call)
	if !ok || len(call.BlockArgs) != 1 {
		t.Fatalf("expected a call with a synthesized block argument, got %s", body.Value)
	}
}
