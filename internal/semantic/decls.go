package semantic

import (
	"github.com/adalang/adac/internal/ast"
	"github.com/adalang/adac/internal/ir"
	"github.com/adalang/adac/internal/types"
)

// analyzeDeclarativePart declares every item of decls into scope, in
// declaration order.
func (a *Analyzer) analyzeDeclarativePart(scope *Scope, decls ast.DeclList) {
	for _, d := range decls {
		a.analyzeDecl(scope, d)
	}
}

func (a *Analyzer) analyzeDecl(scope *Scope, d ast.Decl) {
	switch decl := d.(type) {
	case *ast.ObjectDecl:
		a.analyzeObjectDecl(scope, decl)
	case *ast.TypeDecl:
		a.analyzeTypeDecl(scope, decl)
	case *ast.IncompleteTypeDecl:
		scope.Declare(&Entity{Name: decl.Name.Canonical(), Spelling: decl.Name.Name, Kind: ir.EntityType, Decl: decl})
	case *ast.SubtypeDecl:
		a.analyzeSubtypeDecl(scope, decl)
	case *ast.ExceptionDecl:
		for _, n := range decl.Names {
			id := a.excAlloc.Allocate()
			scope.Declare(&Entity{Name: n.Canonical(), Spelling: n.Name, Kind: ir.EntityException, ExceptionID: uint64(id), Decl: decl})
		}
	case *ast.SubprogramSpec:
		a.declareSubprogram(scope, decl, decl)
	case *ast.SubprogramBody:
		ent := a.declareSubprogram(scope, decl.Spec, decl)
		_ = ent
	case *ast.PackageSpec:
		ent := a.analyzePackageSpec(scope, decl)
		scope.Declare(ent)
	case *ast.PackageBody:
		out := &ir.Unit{}
		a.analyzePackageBody(scope, decl, out)
	case *ast.UseClause:
		for _, n := range decl.Names {
			if pkg := a.resolvePackage(scope, n); pkg != nil {
				scope.AddUse(pkg.Inner)
			}
		}
	case *ast.RenamingDecl:
		a.analyzeRenaming(scope, decl)
	case *ast.GenericDecl:
		name := genericName(decl)
		scope.Declare(&Entity{Name: name, Kind: ir.EntityGeneric, Decl: decl, Inner: scope})
	case *ast.GenericInstantiation:
		a.instantiateGeneric(scope, decl)
	case *ast.TaskDecl, *ast.TaskBody:
		a.analyzeTaskLike(scope, decl)
	}
}

func (a *Analyzer) resolvePackage(scope *Scope, n *ast.Ident) *Entity {
	for _, e := range scope.LookupAll(n.Canonical()) {
		if e.Kind == ir.EntityPackage {
			return e
		}
	}
	a.errorf(n.Pos(), "unknown package %q", n.Name)
	return nil
}

func (a *Analyzer) analyzeObjectDecl(scope *Scope, decl *ast.ObjectDecl) {
	typ := a.resolveTypeExpr(scope, decl.Type)
	var static *StaticValue
	if decl.Init != nil {
		_, static = a.analyzeExpr(scope, decl.Init, typ)
	}
	kind := ir.EntityObject
	if decl.Constant {
		kind = ir.EntityConstant
	}
	for _, n := range decl.Names {
		scope.Declare(&Entity{Name: n.Canonical(), Spelling: n.Name, Kind: kind, Type: typ, Static: static, Decl: decl})
	}
}

func (a *Analyzer) analyzeTypeDecl(scope *Scope, decl *ast.TypeDecl) {
	typ := a.buildType(scope, decl.Name.Name, decl.Definition)
	scope.Declare(&Entity{Name: decl.Name.Canonical(), Spelling: decl.Name.Name, Kind: ir.EntityType, Type: typ, Decl: decl})
	if et, ok := decl.Definition.(*ast.EnumType); ok {
		for _, lit := range et.Literals {
			scope.Declare(&Entity{Name: lit.Canonical(), Spelling: lit.Name, Kind: ir.EntityEnumLiteral, Type: typ, Decl: lit})
		}
	}
}

func (a *Analyzer) analyzeSubtypeDecl(scope *Scope, decl *ast.SubtypeDecl) {
	base := a.resolveTypeExpr(scope, decl.Base)
	typ := base
	if decl.Constraint != nil {
		if rc, ok := decl.Constraint.(*ast.RangeConstraint); ok {
			lo, hi, ok2 := a.evalStaticRange(scope, rc)
			if ok2 {
				typ = a.tb.InternInteger(decl.Name.Name, lo, hi)
			}
		}
	}
	scope.Declare(&Entity{Name: decl.Name.Canonical(), Spelling: decl.Name.Name, Kind: ir.EntitySubtype, Type: typ, Decl: decl})
}

func (a *Analyzer) analyzeRenaming(scope *Scope, decl *ast.RenamingDecl) {
	if decl.Spec != nil {
		a.declareSubprogram(scope, decl.Spec, nil)
		return
	}
	typ := a.resolveTypeExpr(scope, decl.Type)
	scope.Declare(&Entity{Name: decl.Name.Canonical(), Spelling: decl.Name.Name, Kind: ir.EntityObject, Type: typ, Decl: decl})
}

func (a *Analyzer) analyzeTaskLike(scope *Scope, d ast.Decl) {
	switch decl := d.(type) {
	case *ast.TaskDecl:
		var entries []*types.EntryProfile
		if decl.Def != nil {
			entries = a.entryProfiles(scope, decl.Def.Entries)
		}
		typ := a.tb.NewTask(decl.Name.Name, entries, false)
		scope.Declare(&Entity{Name: decl.Name.Canonical(), Spelling: decl.Name.Name, Kind: ir.EntityTask, Type: typ, Decl: decl})
	case *ast.TaskBody:
		inner := NewScope(ScopeSubprogram, scope)
		a.analyzeDeclarativePart(inner, decl.Decls)
		a.analyzeStmts(inner, decl.Body.Stmts)
	}
}

func (a *Analyzer) entryProfiles(scope *Scope, entries []*ast.EntryDecl) []*types.EntryProfile {
	var out []*types.EntryProfile
	for _, e := range entries {
		var params []types.Component
		for _, p := range e.Params {
			pt := a.resolveTypeExpr(scope, p.Type)
			for _, n := range p.Names {
				params = append(params, types.Component{Name: n.Name, Type: pt})
			}
		}
		out = append(out, &types.EntryProfile{Name: e.Name.Name, Params: params})
	}
	return out
}

// declareSubprogram registers a subprogram's profile; body (if non-nil)
// is analyzed by the caller once the declarative part finishes scanning,
// so forward mutual recursion within one package spec resolves correctly.
func (a *Analyzer) declareSubprogram(scope *Scope, spec *ast.SubprogramSpec, declNode ast.Decl) *Entity {
	var params []*Param
	for _, p := range spec.Params {
		pt := a.resolveTypeExpr(scope, p.Type)
		for _, n := range p.Names {
			params = append(params, &Param{Name: n.Canonical(), Mode: p.Mode, Type: pt, Default: p.Default})
		}
	}
	var ret *types.Type
	if spec.IsFunction {
		ret = a.resolveTypeExpr(scope, spec.ReturnType)
	}
	ent := &Entity{
		Name: spec.Name.Canonical(), Spelling: spec.Name.Name,
		Kind: ir.EntitySubprogram, Params: params, ReturnT: ret, Decl: declNode,
	}
	scope.Declare(ent)
	return ent
}

func (a *Analyzer) analyzeSubprogramBody(parent *Scope, body *ast.SubprogramBody) *ir.Subprogram {
	ent := a.declareSubprogram(parent, body.Spec, body)
	paramScope := NewScope(ScopeSubprogram, parent)
	var paramEntities []*ir.Entity
	for _, p := range ent.Params {
		pe := &Entity{Name: p.Name, Kind: ir.EntityObject, Type: p.Type}
		paramScope.Declare(pe)
		paramEntities = append(paramEntities, toIREntity(pe))
	}
	inner := NewScope(ScopeBlock, paramScope)
	a.analyzeDeclarativePart(inner, body.Decls)
	block := &ir.Block{Stmts: a.analyzeStmts(inner, body.Body.Stmts)}
	for _, locals := range inner.Declarations() {
		block.Locals = append(block.Locals, toIREntity(locals))
	}
	for _, h := range body.Body.Handlers {
		handler := ir.Handler{VarName: ""}
		if h.VarName != nil {
			handler.VarName = h.VarName.Canonical()
		}
		for _, c := range h.Choices {
			if c.Canonical() == "OTHERS" {
				handler.Others = true
				continue
			}
			for _, e := range parent.LookupAll(c.Canonical()) {
				if e.Kind == ir.EntityException {
					handler.Exceptions = append(handler.Exceptions, toIREntity(e))
					break
				}
			}
		}
		handler.Stmts = a.analyzeStmts(inner, h.Stmts)
		block.Handlers = append(block.Handlers, handler)
	}
	return &ir.Subprogram{
		Entity: toIREntity(ent),
		Params: paramEntities,
		Body:   block,
	}
}

func toIREntity(e *Entity) *ir.Entity {
	ie := &ir.Entity{Name: e.Spelling, Kind: e.Kind, Type: e.Type, ExceptionID: e.ExceptionID}
	if e.Static != nil && e.Static.IsInt {
		v := e.Static.Int
		ie.StaticInt = &v
	}
	return ie
}
