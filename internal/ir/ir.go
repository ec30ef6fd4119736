// Package ir defines the typed intermediate representation produced by
// internal/semantic: structurally like
// internal/ast, but every expression carries a resolved
// internal/types.Type, every name a resolved *semantic.Entity reference
// (held here as an opaque Entity to avoid an import cycle), every
// implicit conversion is an explicit node, every overload is resolved,
// every default parameter is materialized, and every aggregate is
// expanded to component-positional form.
package ir

import "github.com/adalang/adac/internal/types"

// Entity is the subset of a resolved symbol-table entry the IR needs:
// enough to name it in codegen without importing internal/semantic (which
// itself depends on internal/ir to build node trees).
type Entity struct {
	Name       string
	Kind       EntityKind
	Type       *types.Type
	StaticInt  *int64 // set when the entity has a statically known integer value
	ExceptionID uint64 // set for Kind == EntityException
}

// EntityKind enumerates the kinds of symbol a declaration can introduce.
type EntityKind int

const (
	EntityObject EntityKind = iota
	EntityConstant
	EntityType
	EntitySubtype
	EntitySubprogram
	EntityEnumLiteral
	EntityPackage
	EntityGeneric
	EntityLabel
	EntityLoopParam
	EntityException
	EntityTask
	EntityEntry
)

// Node is implemented by every typed IR node.
type Node interface {
	IRType() *types.Type
}

// Expr is a typed expression: the result of resolving an ast.Expr.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a typed statement.
type Stmt interface {
	stmtNode()
}

// Const is a fully-evaluated literal with its final, non-universal type.
type Const struct {
	Type  *types.Type
	Int   int64
	Real  float64
	Str   string
	IsInt bool
	IsReal bool
	IsStr bool
}

func (c *Const) IRType() *types.Type { return c.Type }
func (c *Const) exprNode()           {}

// NameRef is a resolved reference to an object, constant, or parameter.
type NameRef struct {
	Type   *types.Type
	Entity *Entity
}

func (n *NameRef) IRType() *types.Type { return n.Type }
func (n *NameRef) exprNode()           {}

// Convert is an explicit conversion node inserted wherever the source
// expression's type differs from the context type — universal-to-specific
// narrowing, explicit type conversions, and subtype-to-base widening all
// lower to this node, so the IR never carries an implicit conversion.
type Convert struct {
	Type string
	To   *types.Type
	From Expr
	// Checked is true when the conversion must emit a runtime range check.
	Checked bool
}

func (c *Convert) IRType() *types.Type { return c.To }
func (c *Convert) exprNode()           {}

// BinOp is a typed binary operation resolved to one concrete operator
// entity (built-in or user-overloaded).
type BinOp struct {
	Type  *types.Type
	Op    string
	Left  Expr
	Right Expr
	// ShortCircuit marks "and then" / "or else".
	ShortCircuit bool
	// Checked is true when the operation must emit a runtime overflow check.
	Checked bool
}

func (b *BinOp) IRType() *types.Type { return b.Type }
func (b *BinOp) exprNode()           {}

// UnOp is a typed unary operation.
type UnOp struct {
	Type    *types.Type
	Op      string
	Operand Expr
}

func (u *UnOp) IRType() *types.Type { return u.Type }
func (u *UnOp) exprNode()           {}

// Call is a resolved call to exactly one overload candidate, with every
// default parameter materialized into an explicit argument.
type Call struct {
	Type     *types.Type
	Callee   *Entity
	Args     []Expr
}

func (c *Call) IRType() *types.Type { return c.Type }
func (c *Call) exprNode()           {}

// IndexAccess is an array element reference, disambiguated from Call once
// the callee resolves to an object of array type rather than a
// subprogram.
type IndexAccess struct {
	Type    *types.Type
	Array   Expr
	Indices []Expr
	// NeedsCheck marks that codegen must emit an index-bounds check.
	NeedsCheck bool
}

func (i *IndexAccess) IRType() *types.Type { return i.Type }
func (i *IndexAccess) exprNode()           {}

// FieldAccess is a resolved record component reference.
type FieldAccess struct {
	Type      *types.Type
	Record    Expr
	Component string
	// NeedsDiscriminantCheck marks a component that lives behind a variant
	// part's discriminant, requiring a runtime check that the record's
	// current discriminant value actually selects the arm carrying it.
	NeedsDiscriminantCheck bool
}

func (f *FieldAccess) IRType() *types.Type { return f.Type }
func (f *FieldAccess) exprNode()           {}

// Deref is an explicit access-type dereference (`X.all`), checked for
// null unless suppressed.
type Deref struct {
	Type    *types.Type
	Operand Expr
}

func (d *Deref) IRType() *types.Type { return d.Type }
func (d *Deref) exprNode()           {}

// AggregateElem is one fully-expanded positional slot of an aggregate.
type AggregateElem struct {
	Index int64 // array position or record component ordinal
	Value Expr
}

// Aggregate is an array or record aggregate expanded to
// component-positional form: every `others` and named choice has been
// resolved into explicit per-slot values.
type Aggregate struct {
	Type     *types.Type
	Elements []AggregateElem
}

func (a *Aggregate) IRType() *types.Type { return a.Type }
func (a *Aggregate) exprNode()           {}

// Attribute is a resolved 'Attr reference. Statically evaluable
// attributes ('First, 'Last, 'Length on a constrained prefix) are folded
// into Const by the static evaluator before codegen ever sees them;
// Attribute survives only for the dynamic cases ('Image, 'Value, and
// 'Length/'First/'Last on an unconstrained parameter).
type Attribute struct {
	Type   *types.Type
	Prefix Expr
	Name   string
	Args   []Expr
}

func (a *Attribute) IRType() *types.Type { return a.Type }
func (a *Attribute) exprNode()           {}

// Assign is a typed assignment statement.
type Assign struct {
	Target Expr
	Value  Expr
}

func (a *Assign) stmtNode() {}

// ExprStmt wraps a call used as a statement (procedure or entry call).
type ExprStmt struct {
	Call Expr
}

func (e *ExprStmt) stmtNode() {}

// If is a typed if/elsif/else statement.
type If struct {
	Cond Expr
	Then []Stmt
	Elifs []struct {
		Cond Expr
		Then []Stmt
	}
	Else []Stmt
}

func (i *If) stmtNode() {}

// CaseArm is one resolved, statically-evaluated case-statement arm.
type CaseArm struct {
	Choices []int64
	Others  bool
	Stmts   []Stmt
}

// Case is a typed case statement; Choices have already been statically
// evaluated by internal/semantic. Coverage and overlap of the choices
// are not checked.
type Case struct {
	Subj Expr
	Arms []CaseArm
}

func (c *Case) stmtNode() {}

// LoopKind mirrors ast.LoopKind for the typed IR.
type LoopKind int

const (
	LoopPlain LoopKind = iota
	LoopWhile
	LoopFor
)

// Loop is a typed loop statement; LoopFor's range bounds have been
// resolved to concrete Exprs of the loop parameter's type.
type Loop struct {
	Label   string
	Kind    LoopKind
	Cond    Expr
	Var     *Entity
	Low     Expr
	High    Expr
	Reverse bool
	Stmts   []Stmt
}

func (l *Loop) stmtNode() {}

// Exit is a typed exit statement.
type Exit struct {
	Label string
	Cond  Expr
}

func (e *Exit) stmtNode() {}

// Return is a typed return statement.
type Return struct {
	Value Expr
}

func (r *Return) stmtNode() {}

// Raise is a typed raise statement naming a resolved exception identity.
type Raise struct {
	Exception *Entity
	Message   Expr
}

func (r *Raise) stmtNode() {}

// Goto is a typed `goto Label;` jump.
type Goto struct {
	Label string
}

func (g *Goto) stmtNode() {}

// LabeledStmt is a typed `<<Label>> Stmt`, carrying the label codegen
// emits as a jump target ahead of the wrapped statement.
type LabeledStmt struct {
	Label string
	Stmt  Stmt
}

func (l *LabeledStmt) stmtNode() {}

// Block is a typed declarative block with its local entities, statements,
// and exception handlers.
type Block struct {
	Locals   []*Entity
	Stmts    []Stmt
	Handlers []Handler
}

func (b *Block) stmtNode() {}

// Handler is one resolved exception handler arm.
type Handler struct {
	Exceptions []*Entity // the resolved exceptions this arm names
	Others     bool      // true for a "when others" arm
	VarName    string
	Stmts      []Stmt
}

// Subprogram is a fully analyzed procedure or function body.
type Subprogram struct {
	Entity *Entity
	Params []*Entity
	Body   *Block
}

// Unit is the typed IR for one compilation unit, ready for codegen.
type Unit struct {
	Name        string
	Subprograms []*Subprogram
	Globals     []*Entity
	// Init holds a package body's elaboration statements (the optional
	// `begin ... end` part), run once when the unit elaborates.
	Init []Stmt
}
