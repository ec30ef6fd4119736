package ast

import (
	"strings"

	"github.com/adalang/adac/internal/token"
)

// ObjectDecl is a variable or constant declaration:
// `Name1, Name2 : [constant] Type [:= Init];`.
type ObjectDecl struct {
	Token    token.Token
	Names    []*Ident
	Type     TypeExpr
	Init     Expr // optional
	Constant bool
	Aliased  bool
}

func (o *ObjectDecl) Pos() token.Position { return o.Token.Pos }
func (o *ObjectDecl) declNode()           {}
func (o *ObjectDecl) String() string {
	names := make([]string, len(o.Names))
	for i, n := range o.Names {
		names[i] = n.String()
	}
	s := strings.Join(names, ", ") + " : "
	if o.Constant {
		s += "constant "
	}
	s += o.Type.String()
	if o.Init != nil {
		s += " := " + o.Init.String()
	}
	return s + ";"
}

// TypeDecl is `type Name [(discriminants)] is TypeDefinition;`.
type TypeDecl struct {
	Token         token.Token
	Name          *Ident
	Discriminants []*Discriminant
	Definition    TypeExpr
}

func (t *TypeDecl) Pos() token.Position { return t.Token.Pos }
func (t *TypeDecl) declNode()           {}
func (t *TypeDecl) String() string {
	return "type " + t.Name.String() + " is " + t.Definition.String() + ";"
}

// IncompleteTypeDecl is `type Name;` — a forward declaration completed
// later, required for recursive access-to-record types.
type IncompleteTypeDecl struct {
	Token token.Token
	Name  *Ident
}

func (t *IncompleteTypeDecl) Pos() token.Position { return t.Token.Pos }
func (t *IncompleteTypeDecl) declNode()           {}
func (t *IncompleteTypeDecl) String() string      { return "type " + t.Name.String() + ";" }

// SubtypeDecl is `subtype Name is Base [constraint];`.
type SubtypeDecl struct {
	Token      token.Token
	Name       *Ident
	Base       TypeExpr
	Constraint TypeExpr // optional RangeConstraint
}

func (s *SubtypeDecl) Pos() token.Position { return s.Token.Pos }
func (s *SubtypeDecl) declNode()           {}
func (s *SubtypeDecl) String() string {
	str := "subtype " + s.Name.String() + " is " + s.Base.String()
	if s.Constraint != nil {
		str += " " + s.Constraint.String()
	}
	return str + ";"
}

// Param is one subprogram parameter: `Name1, Name2 : [mode] Type [:= Default]`.
type ParamMode int

const (
	ModeIn ParamMode = iota
	ModeOut
	ModeInOut
)

type Param struct {
	Names   []*Ident
	Mode    ParamMode
	Type    TypeExpr
	Default Expr
}

// SubprogramSpec is the profile shared by a declaration and the matching
// body: `procedure/function Name (params) [return Type]`.
type SubprogramSpec struct {
	Token      token.Token
	Name       *Ident
	Params     []*Param
	ReturnType TypeExpr // nil for procedures
	IsFunction bool
}

func (s *SubprogramSpec) Pos() token.Position { return s.Token.Pos }
func (s *SubprogramSpec) declNode()           {}
func (s *SubprogramSpec) String() string {
	kw := "procedure"
	if s.IsFunction {
		kw = "function"
	}
	str := kw + " " + s.Name.String()
	if len(s.Params) > 0 {
		parts := make([]string, len(s.Params))
		for i, p := range s.Params {
			names := make([]string, len(p.Names))
			for j, n := range p.Names {
				names[j] = n.String()
			}
			parts[i] = strings.Join(names, ", ") + " : " + p.Type.String()
		}
		str += " (" + strings.Join(parts, "; ") + ")"
	}
	if s.IsFunction {
		str += " return " + s.ReturnType.String()
	}
	return str
}

// SubprogramBody is `Spec is decls begin stmts [exception handlers] end Name;`.
type SubprogramBody struct {
	Spec  *SubprogramSpec
	Decls DeclList
	Body  *Block
}

func (s *SubprogramBody) Pos() token.Position { return s.Spec.Pos() }
func (s *SubprogramBody) declNode()           {}
func (s *SubprogramBody) String() string {
	return s.Spec.String() + " is\n" + indent(s.Decls.String()) + "\n" + s.Body.String() + ";"
}

// RenamingDecl is `Name : Type renames Entity;` or a subprogram renaming.
type RenamingDecl struct {
	Token token.Token
	Name  *Ident
	Type  TypeExpr // nil for subprogram renaming
	Spec  *SubprogramSpec
	Of    Expr
}

func (r *RenamingDecl) Pos() token.Position { return r.Token.Pos }
func (r *RenamingDecl) declNode()           {}
func (r *RenamingDecl) String() string {
	if r.Spec != nil {
		return r.Spec.String() + " renames " + r.Of.String() + ";"
	}
	return r.Name.String() + " : " + r.Type.String() + " renames " + r.Of.String() + ";"
}

// UseClause inside a declarative part, equivalent to WithClause{IsUse:true}
// but scoped to the enclosing declarative region rather than the whole
// compilation unit.
type UseClause struct {
	Token token.Token
	Names []*Ident
}

func (u *UseClause) Pos() token.Position { return u.Token.Pos }
func (u *UseClause) declNode()           {}
func (u *UseClause) String() string {
	names := make([]string, len(u.Names))
	for i, n := range u.Names {
		names[i] = n.String()
	}
	return "use " + strings.Join(names, ", ") + ";"
}

// ExceptionDecl is `Name1, Name2 : exception;`.
type ExceptionDecl struct {
	Token token.Token
	Names []*Ident
}

func (e *ExceptionDecl) Pos() token.Position { return e.Token.Pos }
func (e *ExceptionDecl) declNode()           {}
func (e *ExceptionDecl) String() string {
	names := make([]string, len(e.Names))
	for i, n := range e.Names {
		names[i] = n.String()
	}
	return strings.Join(names, ", ") + " : exception;"
}

// EntryDecl is `entry Name [(Family) | (params)];` inside a task or
// protected type.
type EntryDecl struct {
	Token  token.Token
	Name   *Ident
	Family TypeExpr // optional entry family index range
	Params []*Param
}

func (e *EntryDecl) Pos() token.Position { return e.Token.Pos }
func (e *EntryDecl) declNode()           {}
func (e *EntryDecl) String() string      { return "entry " + e.Name.String() + ";" }

// PackageSpec is `package Name is public-decls private private-decls end Name;`.
type PackageSpec struct {
	Token        token.Token
	Name         *Ident
	Visible      DeclList
	PrivateDecls DeclList
}

func (p *PackageSpec) Pos() token.Position { return p.Token.Pos }
func (p *PackageSpec) declNode()           {}
func (p *PackageSpec) String() string {
	s := "package " + p.Name.String() + " is\n" + indent(p.Visible.String())
	if len(p.PrivateDecls) > 0 {
		s += "\nprivate\n" + indent(p.PrivateDecls.String())
	}
	return s + "\nend " + p.Name.String() + ";"
}

// PackageBody is `package body Name is decls [begin stmts] end Name;`.
type PackageBody struct {
	Token      token.Token
	Name       *Ident
	Decls      DeclList
	Init       *Block // optional initialization statements
}

func (p *PackageBody) Pos() token.Position { return p.Token.Pos }
func (p *PackageBody) declNode()           {}
func (p *PackageBody) String() string {
	s := "package body " + p.Name.String() + " is\n" + indent(p.Decls.String())
	if p.Init != nil {
		s += "\n" + p.Init.String()
	}
	return s + ";"
}

// TaskDecl is `task [type] Name is entries end Name;` or the
// single-instance `task Name;` form; Def is nil for a bare declaration.
type TaskDecl struct {
	Token   token.Token
	Name    *Ident
	IsType  bool
	Def     *TaskType
}

func (t *TaskDecl) Pos() token.Position { return t.Token.Pos }
func (t *TaskDecl) declNode()           {}
func (t *TaskDecl) String() string {
	kw := "task"
	if t.IsType {
		kw = "task type"
	}
	return kw + " " + t.Name.String() + " is ... end " + t.Name.String() + ";"
}

// TaskBody is `task body Name is decls begin stmts end Name;`.
type TaskBody struct {
	Token token.Token
	Name  *Ident
	Decls DeclList
	Body  *Block
}

func (t *TaskBody) Pos() token.Position { return t.Token.Pos }
func (t *TaskBody) declNode()           {}
func (t *TaskBody) String() string {
	return "task body " + t.Name.String() + " is\n" + indent(t.Decls.String()) + "\n" + t.Body.String() + ";"
}

// GenericFormal is one generic formal parameter: a type, object, or
// subprogram formal.
type GenericFormal struct {
	Token      token.Token
	Name       *Ident
	IsType     bool
	TypeDef    TypeExpr        // for a generic formal type, its constraint-ish syntax (e.g. "private", "(<>)")
	ObjectType TypeExpr        // for a generic formal object
	SubSpec    *SubprogramSpec // for a generic formal subprogram
}

// GenericDecl is `generic formals... <library item decl>` — the library
// item immediately following the formal part is the generic template.
type GenericDecl struct {
	Token   token.Token
	Formals []*GenericFormal
	Body    Decl // PackageSpec or SubprogramSpec/Body
}

func (g *GenericDecl) Pos() token.Position { return g.Token.Pos }
func (g *GenericDecl) declNode()           {}
func (g *GenericDecl) String() string {
	return "generic\n" + indent(g.Body.String())
}

// GenericActual binds one generic formal to an actual type, object
// expression, or subprogram name.
type GenericActual struct {
	Formal *Ident // optional named association
	Value  Node   // TypeExpr, Expr, or *Ident (subprogram name)
}

// GenericInstantiation is `package/procedure/function Name is new
// Generic(actuals);`.
type GenericInstantiation struct {
	Token      token.Token
	Name       *Ident
	Generic    *Ident
	Actuals    []*GenericActual
	IsFunction bool
	IsPackage  bool
}

func (g *GenericInstantiation) Pos() token.Position { return g.Token.Pos }
func (g *GenericInstantiation) declNode()           {}
func (g *GenericInstantiation) String() string {
	kw := "procedure"
	if g.IsFunction {
		kw = "function"
	}
	if g.IsPackage {
		kw = "package"
	}
	return kw + " " + g.Name.String() + " is new " + g.Generic.String() + "(...);"
}
