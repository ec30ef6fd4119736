package parser

import (
	"testing"

	"github.com/adalang/adac/internal/ast"
	"github.com/adalang/adac/internal/lexer"
)

func parse(src string) (*ast.CompilationUnit, *Parser) {
	l := lexer.New("t.adb", src)
	p := New("t.adb", l)
	return p.ParseCompilationUnit(), p
}

func TestParsesSimpleProcedureBody(t *testing.T) {
	src := `procedure Hello is
begin
  null;
end Hello;`
	unit, p := parse(src)
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	body, ok := unit.Library.(*ast.SubprogramBody)
	if !ok {
		t.Fatalf("expected *ast.SubprogramBody, got %T", unit.Library)
	}
	if body.Spec.Name.Name != "Hello" {
		t.Fatalf("got name %q", body.Spec.Name.Name)
	}
}

func TestMismatchedEndNameIsReported(t *testing.T) {
	src := `procedure Hello is
begin
  null;
end Goodbye;`
	_, p := parse(src)
	if len(p.Errors()) == 0 {
		t.Fatalf("expected an end-label mismatch error")
	}
}

func TestPackageWithDeclarationsAndPrivatePart(t *testing.T) {
	src := `package Colors is
  type Color is (Red, Green, Blue);
  Default : constant Color := Red;
private
  Hidden : Integer := 0;
end Colors;`
	unit, p := parse(src)
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	spec, ok := unit.Library.(*ast.PackageSpec)
	if !ok {
		t.Fatalf("expected *ast.PackageSpec, got %T", unit.Library)
	}
	if len(spec.Visible) != 2 {
		t.Fatalf("expected 2 visible decls, got %d", len(spec.Visible))
	}
	if len(spec.PrivateDecls) != 1 {
		t.Fatalf("expected 1 private decl, got %d", len(spec.PrivateDecls))
	}
}

func TestExpressionPrecedence(t *testing.T) {
	src := `function F return Integer is
begin
  return 1 + 2 * 3 ** 2;
end F;`
	unit, p := parse(src)
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	body := unit.Library.(*ast.SubprogramBody)
	ret := body.Body.Stmts[0].(*ast.ReturnStmt)
	top, ok := ret.Value.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected top-level *ast.BinaryExpr, got %T", ret.Value)
	}
	if _, ok := top.Left.(*ast.Literal); !ok {
		t.Fatalf("expected left operand of + to be the literal 1, got %T", top.Left)
	}
	rhs, ok := top.Right.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected right operand of + to be 2 * 3 ** 2 grouped under *, got %T", top.Right)
	}
	if _, ok := rhs.Right.(*ast.BinaryExpr); !ok {
		t.Fatalf("expected ** to bind tighter than *, got %T", rhs.Right)
	}
}

func TestUnconstrainedArrayType(t *testing.T) {
	src := `package P is
  type Vector is array (Positive range <>) of Integer;
end P;`
	unit, p := parse(src)
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	spec := unit.Library.(*ast.PackageSpec)
	td := spec.Visible[0].(*ast.TypeDecl)
	at, ok := td.Definition.(*ast.ArrayType)
	if !ok {
		t.Fatalf("expected *ast.ArrayType, got %T", td.Definition)
	}
	if !at.Unbounded[0] {
		t.Fatalf("expected unbounded dimension")
	}
}

func TestAttributeReference(t *testing.T) {
	src := `function F return Integer is
begin
  return Arr'Length;
end F;`
	unit, p := parse(src)
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	body := unit.Library.(*ast.SubprogramBody)
	ret := body.Body.Stmts[0].(*ast.ReturnStmt)
	attr, ok := ret.Value.(*ast.AttrExpr)
	if !ok {
		t.Fatalf("expected *ast.AttrExpr, got %T", ret.Value)
	}
	if attr.Attribute.Name != "Length" {
		t.Fatalf("got attribute %q", attr.Attribute.Name)
	}
}

func TestNamedAndPositionalAggregate(t *testing.T) {
	src := `function F return Integer is
  A : constant Vector := (1, 2, 3);
  B : constant Vector := (1 => 1, others => 0);
begin
  return 0;
end F;`
	unit, p := parse(src)
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	body := unit.Library.(*ast.SubprogramBody)
	a := body.Decls[0].(*ast.ObjectDecl)
	agg, ok := a.Init.(*ast.AggregateExpr)
	if !ok || len(agg.Associations) != 3 {
		t.Fatalf("expected positional aggregate of 3, got %+v", a.Init)
	}
	b := body.Decls[1].(*ast.ObjectDecl)
	bagg := b.Init.(*ast.AggregateExpr)
	if !bagg.Associations[1].Others {
		t.Fatalf("expected second association to be 'others'")
	}
}

func TestIfCaseAndLoopStatements(t *testing.T) {
	src := `procedure P is
begin
  if X > 0 then
    null;
  elsif X < 0 then
    null;
  else
    null;
  end if;
  case X is
    when 1 | 2 => null;
    when others => null;
  end case;
  for I in 1 .. 10 loop
    exit when I = 5;
  end loop;
end P;`
	_, p := parse(src)
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
}

func TestSelectiveAcceptStatement(t *testing.T) {
	src := `procedure Main is
  task body Buffer is
  begin
    select
      accept Put(V : Integer) do
        null;
      end;
    or
      accept Get(V : out Integer) do
        null;
      end;
    or
      terminate;
    end select;
  end Buffer;
begin
  null;
end Main;`
	_, p := parse(src)
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
}

func TestSyntaxErrorRecoversToSemicolon(t *testing.T) {
	src := `procedure P is
begin
  X := ;
  Y := 1;
end P;`
	_, p := parse(src)
	if len(p.Errors()) == 0 {
		t.Fatalf("expected at least one syntax error")
	}
}
