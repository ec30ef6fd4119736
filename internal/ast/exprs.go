package ast

import (
	"strings"

	"github.com/adalang/adac/internal/token"
)

// LitKind distinguishes the kinds of primary literal an ast.Literal can
// hold.
type LitKind int

const (
	LitInt LitKind = iota
	LitReal
	LitString
	LitChar
	LitNull
)

// Literal is any primary literal: numeric, string, character, or the
// `null` access value.
type Literal struct {
	Token token.Token
	Kind  LitKind
	Value string // verbatim lexeme, already de-escaped for strings
}

func (l *Literal) Pos() token.Position { return l.Token.Pos }
func (l *Literal) exprNode()           {}
func (l *Literal) String() string {
	switch l.Kind {
	case LitString:
		return `"` + strings.ReplaceAll(l.Value, `"`, `""`) + `"`
	case LitChar:
		return "'" + l.Value + "'"
	case LitNull:
		return "null"
	default:
		return l.Value
	}
}

// SelectorExpr is a dotted expanded name, e.g. `Pkg.Name` or `Rec.Field`.
type SelectorExpr struct {
	Token    token.Token
	Prefix   Expr
	Selector *Ident
}

func (s *SelectorExpr) Pos() token.Position { return s.Prefix.Pos() }
func (s *SelectorExpr) exprNode()           {}
func (s *SelectorExpr) String() string {
	return s.Prefix.String() + "." + s.Selector.String()
}

// IndexExpr is `Prefix(Index1, Index2, ...)` applied to an array value.
type IndexExpr struct {
	Token  token.Token
	Prefix Expr
	Args   []Expr
}

func (i *IndexExpr) Pos() token.Position { return i.Prefix.Pos() }
func (i *IndexExpr) exprNode()           {}
func (i *IndexExpr) String() string {
	parts := make([]string, len(i.Args))
	for j, a := range i.Args {
		parts[j] = a.String()
	}
	return i.Prefix.String() + "(" + strings.Join(parts, ", ") + ")"
}

// SliceExpr is `Prefix(Low .. High)`.
type SliceExpr struct {
	Token  token.Token
	Prefix Expr
	Low    Expr
	High   Expr
}

func (s *SliceExpr) Pos() token.Position { return s.Prefix.Pos() }
func (s *SliceExpr) exprNode()           {}
func (s *SliceExpr) String() string {
	return s.Prefix.String() + "(" + s.Low.String() + " .. " + s.High.String() + ")"
}

// Argument is one actual parameter in a call, optionally named
// (`Name => Value`).
type Argument struct {
	Name  *Ident // optional named association
	Value Expr
}

func (a *Argument) String() string {
	if a.Name != nil {
		return a.Name.String() + " => " + a.Value.String()
	}
	return a.Value.String()
}

// CallExpr is a function call or, ambiguously until semantic analysis,
// an indexed array reference: `Name(args)`.
type CallExpr struct {
	Token  token.Token
	Callee Expr
	Args   []*Argument
}

func (c *CallExpr) Pos() token.Position { return c.Callee.Pos() }
func (c *CallExpr) exprNode()           {}
func (c *CallExpr) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return c.Callee.String() + "(" + strings.Join(parts, ", ") + ")"
}

// AttrExpr is `Prefix'Attribute[(args)]`, e.g. `X'Length`, `T'Pos(V)`,
// `Arr'Range(1)`.
type AttrExpr struct {
	Token     token.Token
	Prefix    Expr
	Attribute *Ident
	Args      []Expr
}

func (a *AttrExpr) Pos() token.Position { return a.Prefix.Pos() }
func (a *AttrExpr) exprNode()           {}
func (a *AttrExpr) String() string {
	s := a.Prefix.String() + "'" + a.Attribute.String()
	if len(a.Args) > 0 {
		parts := make([]string, len(a.Args))
		for i, ar := range a.Args {
			parts[i] = ar.String()
		}
		s += "(" + strings.Join(parts, ", ") + ")"
	}
	return s
}

// BinaryExpr is `Left Op Right` for any dyadic operator, including the
// logical operators (and, or, xor, and then, or else) and membership
// tests (in, not in).
type BinaryExpr struct {
	Token token.Token
	Left  Expr
	Op    token.Kind
	Right Expr
	// ShortCircuit is set for `and then` / `or else`.
	ShortCircuit bool
	// Negated is set for `not in`.
	Negated bool
}

func (b *BinaryExpr) Pos() token.Position { return b.Left.Pos() }
func (b *BinaryExpr) exprNode()           {}
func (b *BinaryExpr) String() string {
	opName := b.Op.String()
	switch {
	case b.Op == token.AND && b.ShortCircuit:
		opName = "and then"
	case b.Op == token.OR && b.ShortCircuit:
		opName = "or else"
	case b.Op == token.IN && b.Negated:
		opName = "not in"
	}
	return b.Left.String() + " " + strings.ToLower(opName) + " " + b.Right.String()
}

// UnaryExpr is `Op Operand` for unary +, -, not, or abs.
type UnaryExpr struct {
	Token   token.Token
	Op      token.Kind
	Operand Expr
}

func (u *UnaryExpr) Pos() token.Position { return u.Token.Pos }
func (u *UnaryExpr) exprNode()           {}
func (u *UnaryExpr) String() string {
	return strings.ToLower(u.Op.String()) + " " + u.Operand.String()
}

// Association is one element of an aggregate: positional (no Choices and
// Others false),
// named (`Choice => Value`), or `others => Value`.
type Association struct {
	Choices []Expr // nil for a pure positional association
	Others  bool
	Value   Expr
}

// AggregateExpr is `(component, ...)` forming an array or record value,
// positional, named, or mixed.
type AggregateExpr struct {
	Token        token.Token
	Associations []*Association
}

func (a *AggregateExpr) Pos() token.Position { return a.Token.Pos }
func (a *AggregateExpr) exprNode()           {}
func (a *AggregateExpr) String() string {
	parts := make([]string, len(a.Associations))
	for i, assoc := range a.Associations {
		switch {
		case assoc.Others:
			parts[i] = "others => " + assoc.Value.String()
		case len(assoc.Choices) > 0:
			choices := make([]string, len(assoc.Choices))
			for j, c := range assoc.Choices {
				choices[j] = c.String()
			}
			parts[i] = strings.Join(choices, " | ") + " => " + assoc.Value.String()
		default:
			parts[i] = assoc.Value.String()
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// QualifiedExpr is `Subtype'(Expr)`, disambiguating an aggregate or
// resolving an overloaded literal against an explicit type.
type QualifiedExpr struct {
	Token    token.Token
	TypeMark *Ident
	Value    Expr
}

func (q *QualifiedExpr) Pos() token.Position { return q.TypeMark.Pos() }
func (q *QualifiedExpr) exprNode()           {}
func (q *QualifiedExpr) String() string {
	return q.TypeMark.String() + "'(" + q.Value.String() + ")"
}

// ConversionExpr is `Type(Expr)` as distinguished from a call by semantic
// analysis once Type resolves to a type name rather than a subprogram.
type ConversionExpr struct {
	Token    token.Token
	TypeMark *Ident
	Value    Expr
}

func (c *ConversionExpr) Pos() token.Position { return c.TypeMark.Pos() }
func (c *ConversionExpr) exprNode()           {}
func (c *ConversionExpr) String() string {
	return c.TypeMark.String() + "(" + c.Value.String() + ")"
}

// AllocatorExpr is `new Subtype ['(Init)]` or `new Subtype(Init)` for a
// qualified or unqualified allocator.
type AllocatorExpr struct {
	Token    token.Token
	TypeMark TypeExpr
	Init     Expr // optional
}

func (a *AllocatorExpr) Pos() token.Position { return a.Token.Pos }
func (a *AllocatorExpr) exprNode()           {}
func (a *AllocatorExpr) String() string {
	s := "new " + a.TypeMark.String()
	if a.Init != nil {
		s += "'(" + a.Init.String() + ")"
	}
	return s
}

// IfExpr is the Ada 2012 conditional expression: `(if C then A [elsif C2
// then B]* else Z)`.
type IfExpr struct {
	Token token.Token
	Cond  Expr
	Then  Expr
	Elifs []*ElifExprArm
	Else  Expr
}

// ElifExprArm is one `elsif Cond then Value` arm of an if-expression.
type ElifExprArm struct {
	Cond  Expr
	Value Expr
}

func (i *IfExpr) Pos() token.Position { return i.Token.Pos }
func (i *IfExpr) exprNode()           {}
func (i *IfExpr) String() string {
	s := "(if " + i.Cond.String() + " then " + i.Then.String()
	for _, e := range i.Elifs {
		s += " elsif " + e.Cond.String() + " then " + e.Value.String()
	}
	if i.Else != nil {
		s += " else " + i.Else.String()
	}
	return s + ")"
}

// CaseExprArm is one `when Choice => Value` arm of a case expression.
type CaseExprArm struct {
	Choices []Expr
	Value   Expr
}

// CaseExpr is the Ada 2012 `(case Expr is when C1 => V1, ...)` form.
type CaseExpr struct {
	Token token.Token
	Subj  Expr
	Arms  []*CaseExprArm
}

func (c *CaseExpr) Pos() token.Position { return c.Token.Pos }
func (c *CaseExpr) exprNode()           {}
func (c *CaseExpr) String() string {
	parts := make([]string, len(c.Arms))
	for i, arm := range c.Arms {
		choices := make([]string, len(arm.Choices))
		for j, ch := range arm.Choices {
			choices[j] = ch.String()
		}
		parts[i] = "when " + strings.Join(choices, " | ") + " => " + arm.Value.String()
	}
	return "(case " + c.Subj.String() + " is " + strings.Join(parts, ", ") + ")"
}

// OthersExpr is the bare `others` choice appearing in aggregates, case
// arms, and exception handlers.
type OthersExpr struct {
	Token token.Token
}

func (o *OthersExpr) Pos() token.Position { return o.Token.Pos }
func (o *OthersExpr) exprNode()           {}
func (o *OthersExpr) String() string      { return "others" }
