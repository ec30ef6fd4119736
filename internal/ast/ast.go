// Package ast defines the untyped abstract syntax tree produced by the
// parser. Every node carries its source position;
// no node carries semantic type information — that is added by
// internal/semantic to build internal/ir.
package ast

import (
	"bytes"
	"strings"

	"github.com/adalang/adac/internal/token"
)

// Node is implemented by every AST node.
type Node interface {
	Pos() token.Position
	String() string
}

// Expr is any node that produces a value.
type Expr interface {
	Node
	exprNode()
}

// Stmt is any node that performs an action.
type Stmt interface {
	Node
	stmtNode()
}

// Decl is any declarative item that can appear in a declarative part.
type Decl interface {
	Node
	declNode()
}

// Ident is a (possibly dotted, for expanded names) identifier reference.
type Ident struct {
	Token token.Token
	Name  string // verbatim spelling
}

func (i *Ident) Pos() token.Position { return i.Token.Pos }
func (i *Ident) String() string      { return i.Name }
func (i *Ident) exprNode()           {}

// Canonical returns the case-folded form used for symbol lookup.
func (i *Ident) Canonical() string { return i.Token.Canonical }

// CompilationUnit is the root of one parsed source file: a context clause
// (`with`/`use`) followed by exactly one library item.
type CompilationUnit struct {
	File      string
	WithUses  []*WithClause
	Library   Decl // PackageSpec, PackageBody, SubprogramSpec/Body, GenericDecl, GenericInstantiation
}

func (c *CompilationUnit) Pos() token.Position {
	if len(c.WithUses) > 0 {
		return c.WithUses[0].Pos()
	}
	if c.Library != nil {
		return c.Library.Pos()
	}
	return token.Position{File: c.File}
}

func (c *CompilationUnit) String() string {
	var b bytes.Buffer
	for _, w := range c.WithUses {
		b.WriteString(w.String())
		b.WriteString("\n")
	}
	if c.Library != nil {
		b.WriteString(c.Library.String())
	}
	return b.String()
}

// WithClause represents `with Pkg1, Pkg2; use Pkg1;`-style context items.
type WithClause struct {
	Token token.Token
	Names []*Ident
	IsUse bool
}

func (w *WithClause) Pos() token.Position { return w.Token.Pos }
func (w *WithClause) String() string {
	kw := "with"
	if w.IsUse {
		kw = "use"
	}
	names := make([]string, len(w.Names))
	for i, n := range w.Names {
		names[i] = n.String()
	}
	return kw + " " + strings.Join(names, ", ") + ";"
}

// DeclList is a declarative part: an ordered sequence of declarations.
type DeclList []Decl

func (d DeclList) String() string {
	parts := make([]string, len(d))
	for i, decl := range d {
		parts[i] = decl.String()
	}
	return strings.Join(parts, "\n")
}

// Block is `declare <decls> begin <stmts> exception <handlers> end;`.
type Block struct {
	Token    token.Token // 'declare' or 'begin'
	Decls    DeclList
	Stmts    []Stmt
	Handlers []*ExceptionHandler
	Label    string // optional statement label naming this block
}

func (b *Block) Pos() token.Position { return b.Token.Pos }
func (b *Block) stmtNode()           {}
func (b *Block) String() string {
	var out bytes.Buffer
	if len(b.Decls) > 0 {
		out.WriteString("declare\n")
		out.WriteString(indent(b.Decls.String()))
		out.WriteString("\n")
	}
	out.WriteString("begin\n")
	for _, s := range b.Stmts {
		out.WriteString(indent(s.String()))
		out.WriteString("\n")
	}
	if len(b.Handlers) > 0 {
		out.WriteString("exception\n")
		for _, h := range b.Handlers {
			out.WriteString(indent(h.String()))
			out.WriteString("\n")
		}
	}
	out.WriteString("end")
	return out.String()
}

// ExceptionHandler is one `when Choice1 | Choice2 => stmts` arm.
type ExceptionHandler struct {
	Token   token.Token
	Choices []*Ident // exception names, or a single "others"
	VarName *Ident   // optional `when E : Exc =>` binding
	Stmts   []Stmt
}

func (h *ExceptionHandler) Pos() token.Position { return h.Token.Pos }
func (h *ExceptionHandler) String() string {
	names := make([]string, len(h.Choices))
	for i, c := range h.Choices {
		names[i] = c.String()
	}
	return "when " + strings.Join(names, " | ") + " =>\n" + indent(stmtList(h.Stmts))
}

func stmtList(stmts []Stmt) string {
	parts := make([]string, len(stmts))
	for i, s := range stmts {
		parts[i] = s.String()
	}
	return strings.Join(parts, "\n")
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n")
}
