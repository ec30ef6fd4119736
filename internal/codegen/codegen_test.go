package codegen_test

import (
	"sort"
	"strings"
	"testing"

	"github.com/adalang/adac/internal/codegen"
	"github.com/adalang/adac/internal/lexer"
	"github.com/adalang/adac/internal/parser"
	"github.com/adalang/adac/internal/semantic"
	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/maruel/natural"
)

// lower runs one compilation unit through the full front end and returns
// its lowered module, failing the test on any lex/parse/semantic error so
// a snapshot is never recorded against a half-analyzed unit.
func lower(t *testing.T, src string, opts codegen.Options) *codegen.Module {
	t.Helper()
	l := lexer.New("t.adb", src)
	p := parser.New("t.adb", l)
	cu := p.ParseCompilationUnit()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	a := semantic.New()
	u := a.AnalyzeCompilationUnit(cu)
	if len(a.Errors()) != 0 {
		t.Fatalf("unexpected semantic errors: %v", a.Errors())
	}
	return codegen.Lower(u, opts)
}

func TestLowerSimpleProcedure(t *testing.T) {
	mod := lower(t, `procedure Hello is
begin
  null;
end Hello;`, codegen.Options{})
	snaps.MatchSnapshot(t, mod.String())
}

func TestLowerArithmeticEmitsChecks(t *testing.T) {
	mod := lower(t, `procedure Div_Example is
  X : Integer := 10;
  Y : Integer := 2;
  Z : Integer;
begin
  Z := X / Y;
end Div_Example;`, codegen.Options{})
	snaps.MatchSnapshot(t, mod.String())
}

func TestLowerSuppressedChecksOmitDivisionCheck(t *testing.T) {
	mod := lower(t, `procedure Div_Example is
  X : Integer := 10;
  Y : Integer := 2;
  Z : Integer;
begin
  Z := X / Y;
end Div_Example;`, codegen.Options{SuppressChecks: true})
	for _, fn := range mod.Functions {
		for _, line := range fn.Lines {
			if strings.Contains(line, "division_check") {
				t.Fatalf("expected no division_check line when checks are suppressed, got %q", line)
			}
		}
	}
}

func TestLowerForLoopBoundsAndSteps(t *testing.T) {
	mod := lower(t, `procedure Sum_To_Ten is
  Total : Integer := 0;
begin
  for I in 1 .. 10 loop
    Total := Total + I;
  end loop;
end Sum_To_Ten;`, codegen.Options{})
	snaps.MatchSnapshot(t, mod.String())
}

func TestLowerReverseForLoopStepsDownward(t *testing.T) {
	mod := lower(t, `procedure Count_Down is
  Total : Integer := 0;
begin
  for I in reverse 1 .. 10 loop
    Total := Total + I;
  end loop;
end Count_Down;`, codegen.Options{})
	snaps.MatchSnapshot(t, mod.String())
}

// TestGenericInstantiationEmitsDistinctFunctions instantiates the same
// generic subprogram twice with different actuals and checks each
// instantiation reaches codegen as its own function, named for the
// instantiation rather than the generic template.
func TestGenericInstantiationEmitsDistinctFunctions(t *testing.T) {
	a := semantic.New()

	genSrc := `generic
  type T is private;
procedure Show_G(X : T) is
begin
  null;
end Show_G;`
	l1 := lexer.New("g.adb", genSrc)
	p1 := parser.New("g.adb", l1)
	a.AnalyzeCompilationUnit(p1.ParseCompilationUnit())
	if len(a.Errors()) != 0 {
		t.Fatalf("unexpected errors analyzing generic: %v", a.Errors())
	}

	instantiate := func(name, src string) *codegen.Module {
		t.Helper()
		l := lexer.New(name, src)
		p := parser.New(name, l)
		cu := p.ParseCompilationUnit()
		if len(p.Errors()) != 0 {
			t.Fatalf("unexpected parse errors for %s: %v", name, p.Errors())
		}
		u := a.AnalyzeCompilationUnit(cu)
		if len(a.Errors()) != 0 {
			t.Fatalf("unexpected semantic errors for %s: %v", name, a.Errors())
		}
		return codegen.Lower(u, codegen.Options{})
	}

	intMod := instantiate("i1.adb", `procedure Show_Int is new Show_G(Integer);`)
	boolMod := instantiate("i2.adb", `procedure Show_Bool is new Show_G(Boolean);`)

	if len(intMod.Functions) != 1 || len(boolMod.Functions) != 1 {
		t.Fatalf("expected each instantiation to lower to one function, got %d and %d", len(intMod.Functions), len(boolMod.Functions))
	}
	if intMod.Functions[0].Name != "Show_Int" {
		t.Errorf("expected instantiated function named Show_Int, got %q", intMod.Functions[0].Name)
	}
	if boolMod.Functions[0].Name != "Show_Bool" {
		t.Errorf("expected instantiated function named Show_Bool, got %q", boolMod.Functions[0].Name)
	}
}

func TestExternsAreDedupedAndNaturallySorted(t *testing.T) {
	mod := lower(t, `procedure Raises_Twice is
begin
  raise Constraint_Error;
  raise Constraint_Error;
end Raises_Twice;`, codegen.Options{})

	seen := map[string]int{}
	for _, e := range mod.Externs {
		seen[e]++
	}
	for name, count := range seen {
		if count != 1 {
			t.Errorf("extern %q registered %d times, want 1", name, count)
		}
	}
	if !sort.SliceIsSorted(mod.Externs, func(i, j int) bool { return natural.Less(mod.Externs[i], mod.Externs[j]) }) {
		t.Errorf("externs not in natural order: %v", mod.Externs)
	}
}
