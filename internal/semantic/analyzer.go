package semantic

import (
	"fmt"

	"github.com/adalang/adac/internal/ast"
	"github.com/adalang/adac/internal/ir"
	"github.com/adalang/adac/internal/token"
	"github.com/adalang/adac/internal/types"
)

// Error is one semantic diagnostic, accumulated rather than raised so
// analysis can proceed as far as possible per unit, maximizing error
// surfacing in one pass.
type Error struct {
	Message string
	Pos     token.Position
}

func (e Error) Error() string { return e.Pos.String() + ": " + e.Message }

// Analyzer holds the shared compilation environment across every unit in
// a run: the interned type table, the predefined (Standard) entities, the
// exception identity allocator, and the generic instantiation cache.
type Analyzer struct {
	tb       *types.Table
	pre      *types.Predefined
	excAlloc *types.ExceptionAllocator
	global   *Scope
	errs     []Error

	instCache map[string]*Entity
	instDepth int

	// elaboration graph: unit name -> names of units it must elaborate after.
	deps map[string][]string
}

// New creates an Analyzer with a fresh compilation environment seeded
// with the predefined (Standard) entities.
func New() *Analyzer {
	tb := types.NewTable()
	pre := types.NewPredefined(tb)
	a := &Analyzer{
		tb:        tb,
		pre:       pre,
		excAlloc:  types.NewExceptionAllocator(),
		global:    NewScope(ScopePackageSpec, nil),
		instCache: make(map[string]*Entity),
		deps:      make(map[string][]string),
	}
	a.seedPredefined()
	return a
}

func (a *Analyzer) seedPredefined() {
	declareType := func(name string, t *types.Type) {
		a.global.Declare(&Entity{Name: token.Canonical(name), Spelling: name, Kind: ir.EntityType, Type: t})
	}
	declareType("Integer", a.pre.Integer)
	declareType("Natural", a.pre.Natural)
	declareType("Positive", a.pre.Positive)
	declareType("Boolean", a.pre.Boolean)
	declareType("Character", a.pre.Character)
	declareType("Float", a.pre.Float)
	declareType("String", a.pre.String)

	for i, lit := range a.pre.Boolean.Enum.Literals {
		_ = i
		a.global.Declare(&Entity{Name: lit, Spelling: lit, Kind: ir.EntityEnumLiteral, Type: a.pre.Boolean})
	}
	for name, id := range a.pre.Exceptions {
		a.global.Declare(&Entity{Name: name, Spelling: name, Kind: ir.EntityException, Type: nil, ExceptionID: uint64(id)})
	}
}

// Errors returns every diagnostic accumulated across all analyzed units.
func (a *Analyzer) Errors() []Error { return a.errs }

func (a *Analyzer) errorf(pos token.Position, format string, args ...any) {
	a.errs = append(a.errs, Error{Message: fmt.Sprintf(format, args...), Pos: pos})
}

// AnalyzeCompilationUnit declares, resolves, type-checks, and lowers one
// parsed compilation unit to typed IR. Elaboration order is computed
// once across a whole program via Analyzer.ElaborationOrder, since it
// requires every unit's with-graph to be known first.
func (a *Analyzer) AnalyzeCompilationUnit(unit *ast.CompilationUnit) *ir.Unit {
	scope := NewScope(ScopePackageSpec, a.global)
	var unitName string
	var contextDeps []string
	for _, w := range unit.WithUses {
		for _, n := range w.Names {
			canon := n.Canonical()
			contextDeps = append(contextDeps, canon)
			if pkg := a.lookupPackageByName(canon); pkg != nil && w.IsUse {
				scope.AddUse(pkg.Inner)
			}
		}
	}

	out := &ir.Unit{}
	switch lib := unit.Library.(type) {
	case *ast.PackageSpec:
		unitName = lib.Name.Canonical()
		ent := a.analyzePackageSpec(scope, lib)
		a.global.Declare(ent)
	case *ast.PackageBody:
		unitName = lib.Name.Canonical()
		a.analyzePackageBody(scope, lib, out)
	case *ast.SubprogramBody:
		unitName = lib.Spec.Name.Canonical()
		sub := a.analyzeSubprogramBody(scope, lib)
		out.Subprograms = append(out.Subprograms, sub)
	case *ast.SubprogramSpec:
		unitName = lib.Name.Canonical()
		a.declareSubprogram(scope, lib, nil)
	case *ast.GenericDecl:
		unitName = genericName(lib)
		a.global.Declare(&Entity{Name: unitName, Kind: ir.EntityGeneric, Decl: lib, Inner: scope})
	case *ast.GenericInstantiation:
		unitName = lib.Name.Canonical()
		if ent := a.instantiateGeneric(scope, lib); ent != nil && ent.InstSub != nil {
			out.Subprograms = append(out.Subprograms, ent.InstSub)
		}
	}
	if unitName != "" {
		a.deps[unitName] = append(a.deps[unitName], contextDeps...)
	}
	out.Name = unitName
	return out
}

func genericName(g *ast.GenericDecl) string {
	switch b := g.Body.(type) {
	case *ast.PackageSpec:
		return b.Name.Canonical()
	case *ast.SubprogramSpec:
		return b.Name.Canonical()
	case *ast.SubprogramBody:
		return b.Spec.Name.Canonical()
	}
	return ""
}

func (a *Analyzer) lookupPackageByName(canonical string) *Entity {
	for _, e := range a.global.LookupAll(canonical) {
		if e.Kind == ir.EntityPackage {
			return e
		}
	}
	return nil
}

func (a *Analyzer) analyzePackageSpec(parent *Scope, ps *ast.PackageSpec) *Entity {
	inner := NewScope(ScopePackageSpec, parent)
	a.analyzeDeclarativePart(inner, ps.Visible)
	if len(ps.PrivateDecls) > 0 {
		a.analyzeDeclarativePart(inner, ps.PrivateDecls)
	}
	return &Entity{Name: ps.Name.Canonical(), Spelling: ps.Name.Name, Kind: ir.EntityPackage, Decl: ps, Inner: inner}
}

func (a *Analyzer) analyzePackageBody(parent *Scope, pb *ast.PackageBody, out *ir.Unit) {
	inner := NewScope(ScopePackageBody, parent)
	a.analyzeDeclarativePart(inner, pb.Decls)
	for _, d := range inner.Declarations() {
		if d.Kind != ir.EntitySubprogram {
			continue
		}
		if d.InstSub != nil {
			out.Subprograms = append(out.Subprograms, d.InstSub)
			continue
		}
		if body, ok := d.Decl.(*ast.SubprogramBody); ok {
			out.Subprograms = append(out.Subprograms, a.analyzeSubprogramBody(inner, body))
		}
	}
	if pb.Init != nil {
		block := a.analyzeBlockStmt(inner, pb.Init)
		out.Init = block.Stmts
	}
}
