package ast

import (
	"strings"

	"github.com/adalang/adac/internal/token"
)

// TypeExpr is any syntactic type definition.
type TypeExpr interface {
	Node
	typeExprNode()
}

// NamedType is a reference to a previously declared type, e.g. "Integer"
// or "My_Pkg.Color". Also used for subtype marks.
type NamedType struct {
	Name *Ident
}

func (n *NamedType) Pos() token.Position { return n.Name.Pos() }
func (n *NamedType) String() string      { return n.Name.String() }
func (n *NamedType) typeExprNode()       {}

// RangeConstraint is `lo .. hi`, used both as a scalar range type
// definition and as an index/discrete-range constraint.
type RangeConstraint struct {
	Token token.Token
	Low   Expr
	High  Expr
}

func (r *RangeConstraint) Pos() token.Position { return r.Token.Pos }
func (r *RangeConstraint) String() string      { return r.Low.String() + " .. " + r.High.String() }
func (r *RangeConstraint) typeExprNode()       {}

// SubtypeIndication is `Base range lo .. hi` — a subtype mark together
// with an explicit range constraint, as opposed to a bare anonymous range
// type definition (which has no named Base).
type SubtypeIndication struct {
	Base       TypeExpr
	Constraint *RangeConstraint
}

func (s *SubtypeIndication) Pos() token.Position { return s.Base.Pos() }
func (s *SubtypeIndication) String() string {
	return s.Base.String() + " range " + s.Constraint.String()
}
func (s *SubtypeIndication) typeExprNode() {}

// ModularType is `mod Modulus`.
type ModularType struct {
	Token   token.Token
	Modulus Expr
}

func (m *ModularType) Pos() token.Position { return m.Token.Pos }
func (m *ModularType) String() string      { return "mod " + m.Modulus.String() }
func (m *ModularType) typeExprNode()       {}

// FloatType is `digits N [range lo .. hi]`.
type FloatType struct {
	Token  token.Token
	Digits Expr
	Range  *RangeConstraint // optional
}

func (f *FloatType) Pos() token.Position { return f.Token.Pos }
func (f *FloatType) String() string {
	s := "digits " + f.Digits.String()
	if f.Range != nil {
		s += " range " + f.Range.String()
	}
	return s
}
func (f *FloatType) typeExprNode() {}

// FixedType is `delta D [digits N] range lo .. hi`.
type FixedType struct {
	Token  token.Token
	Delta  Expr
	Digits Expr // optional, decimal fixed point
	Range  *RangeConstraint
}

func (f *FixedType) Pos() token.Position { return f.Token.Pos }
func (f *FixedType) String() string {
	s := "delta " + f.Delta.String()
	if f.Digits != nil {
		s += " digits " + f.Digits.String()
	}
	if f.Range != nil {
		s += " range " + f.Range.String()
	}
	return s
}
func (f *FixedType) typeExprNode() {}

// EnumType is `(Lit1, Lit2, ...)`.
type EnumType struct {
	Token    token.Token
	Literals []*Ident
}

func (e *EnumType) Pos() token.Position { return e.Token.Pos }
func (e *EnumType) String() string {
	names := make([]string, len(e.Literals))
	for i, l := range e.Literals {
		names[i] = l.String()
	}
	return "(" + strings.Join(names, ", ") + ")"
}
func (e *EnumType) typeExprNode() {}

// ArrayType is `array (Index1, Index2, ...) of Component` where each index
// is either a subtype mark (unconstrained dimension, `Index range <>`) or a
// discrete range (constrained dimension).
type ArrayType struct {
	Token     token.Token
	Indices   []TypeExpr // NamedType for unconstrained `T range <>`, RangeConstraint for constrained
	Unbounded []bool     // parallel to Indices: true if this dimension is `range <>`
	Component TypeExpr
}

func (a *ArrayType) Pos() token.Position { return a.Token.Pos }
func (a *ArrayType) String() string {
	idx := make([]string, len(a.Indices))
	for i, ix := range a.Indices {
		if a.Unbounded[i] {
			idx[i] = ix.String() + " range <>"
		} else {
			idx[i] = ix.String()
		}
	}
	return "array (" + strings.Join(idx, ", ") + ") of " + a.Component.String()
}
func (a *ArrayType) typeExprNode() {}

// RecordComponent is one component of a record type.
type RecordComponent struct {
	Names   []*Ident
	Type    TypeExpr
	Default Expr // optional
}

// VariantPart is `case Discriminant is when Choice => components; ... end case;`.
type VariantPart struct {
	Token       token.Token
	Discriminant *Ident
	Variants    []*Variant
}

// Variant is one `when Choice1 | Choice2 => components` arm of a variant part.
type Variant struct {
	Choices    []Expr // static discriminant values, or Others
	Components []*RecordComponent
	Nested     *VariantPart // nested variant, if any
}

// Discriminant declares one record discriminant, e.g. `Size : Positive`.
type Discriminant struct {
	Names   []*Ident
	Type    TypeExpr
	Default Expr
}

// RecordType is `record [discriminants] components [variant part] end record`.
type RecordType struct {
	Token         token.Token
	Discriminants []*Discriminant
	Components    []*RecordComponent
	Variant       *VariantPart
	Limited       bool
	Tagged        bool
	Abstract      bool
}

func (r *RecordType) Pos() token.Position { return r.Token.Pos }
func (r *RecordType) String() string {
	prefix := ""
	if r.Abstract {
		prefix += "abstract "
	}
	if r.Tagged {
		prefix += "tagged "
	}
	if r.Limited {
		prefix += "limited "
	}
	return prefix + "record ... end record"
}
func (r *RecordType) typeExprNode() {}

// AccessType is `access [constant|all] Designated` or `access procedure/function(...)`.
type AccessType struct {
	Token      token.Token
	Designated TypeExpr
	Constant   bool
	AllowsAll  bool // `access all T` (general access)
}

func (a *AccessType) Pos() token.Position { return a.Token.Pos }
func (a *AccessType) String() string {
	s := "access "
	if a.Constant {
		s += "constant "
	}
	if a.AllowsAll {
		s += "all "
	}
	return s + a.Designated.String()
}
func (a *AccessType) typeExprNode() {}

// DerivedType is `new Parent [with record ... end record]`.
type DerivedType struct {
	Token     token.Token
	Parent    TypeExpr
	Extension *RecordType // non-nil for tagged type extensions
}

func (d *DerivedType) Pos() token.Position { return d.Token.Pos }
func (d *DerivedType) String() string {
	s := "new " + d.Parent.String()
	if d.Extension != nil {
		s += " with " + d.Extension.String()
	}
	return s
}
func (d *DerivedType) typeExprNode() {}

// PrivateType is `private` or `limited private`, the public face of a type
// whose representation is completed later in the package body or a later
// part of the same spec.
type PrivateType struct {
	Token   token.Token
	Limited bool
}

func (p *PrivateType) Pos() token.Position { return p.Token.Pos }
func (p *PrivateType) String() string {
	if p.Limited {
		return "limited private"
	}
	return "private"
}
func (p *PrivateType) typeExprNode() {}

// TaskType is `task [Name] is entries... end [Name]`. Used for both task
// type declarations and protected type declarations (Protected==true).
type TaskType struct {
	Token     token.Token
	Entries   []*EntryDecl
	Protected bool
}

func (t *TaskType) Pos() token.Position { return t.Token.Pos }
func (t *TaskType) String() string {
	kw := "task"
	if t.Protected {
		kw = "protected"
	}
	return kw + " ... end"
}
func (t *TaskType) typeExprNode() {}
