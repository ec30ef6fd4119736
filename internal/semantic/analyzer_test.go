package semantic

import (
	"testing"

	"github.com/adalang/adac/internal/ir"
	"github.com/adalang/adac/internal/lexer"
	"github.com/adalang/adac/internal/parser"
)

func analyze(t *testing.T, src string) (*Analyzer, *ir.Unit) {
	t.Helper()
	l := lexer.New("t.adb", src)
	p := parser.New("t.adb", l)
	cu := p.ParseCompilationUnit()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	a := New()
	u := a.AnalyzeCompilationUnit(cu)
	return a, u
}

func TestAnalyzesSimpleProcedureBody(t *testing.T) {
	a, u := analyze(t, `procedure Hello is
begin
  null;
end Hello;`)
	if len(a.Errors()) != 0 {
		t.Fatalf("unexpected semantic errors: %v", a.Errors())
	}
	if len(u.Subprograms) != 1 {
		t.Fatalf("expected 1 subprogram, got %d", len(u.Subprograms))
	}
}

func TestStaticExpressionFolding(t *testing.T) {
	a, u := analyze(t, `procedure P is
  X : Integer := 2 ** 10;
begin
  null;
end P;`)
	if len(a.Errors()) != 0 {
		t.Fatalf("unexpected semantic errors: %v", a.Errors())
	}
	sub := u.Subprograms[0]
	if len(sub.Body.Locals) != 1 {
		t.Fatalf("expected one local, got %d", len(sub.Body.Locals))
	}
	local := sub.Body.Locals[0]
	if local.StaticInt == nil || *local.StaticInt != 1024 {
		t.Fatalf("expected X to statically fold to 1024, got %v", local.StaticInt)
	}
}

func TestUndefinedNameIsReported(t *testing.T) {
	a, _ := analyze(t, `procedure P is
begin
  Undeclared_Thing := 1;
end P;`)
	if len(a.Errors()) == 0 {
		t.Fatalf("expected an undefined-name error")
	}
}

func TestElaborationOrderRespectsWithClauses(t *testing.T) {
	a := New()

	l1 := lexer.New("b.ads", `package B is
  X : Integer := 0;
end B;`)
	p1 := parser.New("b.ads", l1)
	a.AnalyzeCompilationUnit(p1.ParseCompilationUnit())

	l2 := lexer.New("a.ads", `with B;
package A is
end A;`)
	p2 := parser.New("a.ads", l2)
	a.AnalyzeCompilationUnit(p2.ParseCompilationUnit())

	order := a.ElaborationOrder()
	bIdx, aIdx := -1, -1
	for i, name := range order {
		switch name {
		case "B":
			bIdx = i
		case "A":
			aIdx = i
		}
	}
	if bIdx == -1 || aIdx == -1 {
		t.Fatalf("expected both units in elaboration order, got %v", order)
	}
	if bIdx > aIdx {
		t.Errorf("expected B to elaborate before A, got order %v", order)
	}
}

func TestGenericInstantiationIsCached(t *testing.T) {
	a := New()
	l1 := lexer.New("g.ads", `generic
  type T is private;
package Stack_G is
  procedure Push(X : T);
end Stack_G;`)
	p1 := parser.New("g.ads", l1)
	a.AnalyzeCompilationUnit(p1.ParseCompilationUnit())

	l2 := lexer.New("i1.ads", `package Int_Stack is new Stack_G(Integer);`)
	p2 := parser.New("i1.ads", l2)
	a.AnalyzeCompilationUnit(p2.ParseCompilationUnit())
	if len(a.Errors()) != 0 {
		t.Fatalf("unexpected errors instantiating generic: %v", a.Errors())
	}
	if len(a.instCache) != 1 {
		t.Fatalf("expected one cached instantiation, got %d", len(a.instCache))
	}

	l3 := lexer.New("i2.ads", `package Int_Stack_Again is new Stack_G(Integer);`)
	p3 := parser.New("i2.ads", l3)
	a.AnalyzeCompilationUnit(p3.ParseCompilationUnit())
	if len(a.instCache) != 1 {
		t.Fatalf("expected the second identical instantiation to hit the cache, got %d entries", len(a.instCache))
	}
}
