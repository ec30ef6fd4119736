package semantic

import (
	"strings"

	"github.com/adalang/adac/internal/ast"
	"github.com/adalang/adac/internal/ir"
)

// maxInstantiationDepth bounds recursive generic instantiation so a
// generic that instantiates itself cannot recurse the analyzer forever.
const maxInstantiationDepth = 64

// instantiateGeneric substitutes gi's actuals for the named generic's
// formals and analyzes the resulting body as if it had been written out
// by hand, caching by (generic, actual spellings) so repeated
// instantiations with identical actuals share one analysis.
func (a *Analyzer) instantiateGeneric(scope *Scope, gi *ast.GenericInstantiation) *Entity {
	genEnt := a.lookupGeneric(scope, gi.Generic)
	if genEnt == nil {
		a.errorf(gi.Generic.Pos(), "unknown generic unit %q", gi.Generic.Name)
		return nil
	}
	genDecl, ok := genEnt.Decl.(*ast.GenericDecl)
	if !ok {
		a.errorf(gi.Pos(), "%q is not a generic unit", gi.Generic.Name)
		return nil
	}

	key := instantiationKey(gi.Generic.Canonical(), gi.Actuals)
	if cached, ok := a.instCache[key]; ok {
		return cached
	}

	a.instDepth++
	if a.instDepth > maxInstantiationDepth {
		a.errorf(gi.Pos(), "generic instantiation depth exceeds %d (recursive instantiation?)", maxInstantiationDepth)
		a.instDepth--
		return nil
	}
	defer func() { a.instDepth-- }()

	instScope := NewScope(ScopeGeneric, genEnt.Inner)
	a.bindGenericFormals(instScope, genDecl.Formals, gi.Actuals)

	var ent *Entity
	switch body := genDecl.Body.(type) {
	case *ast.PackageSpec:
		ent = a.analyzePackageSpec(instScope, body)
		ent.Name, ent.Spelling = gi.Name.Canonical(), gi.Name.Name
	case *ast.SubprogramSpec:
		ent = a.declareSubprogram(instScope, body, body)
	case *ast.SubprogramBody:
		sub := a.analyzeSubprogramBody(instScope, body)
		if sub.Entity != nil {
			sub.Entity.Name = gi.Name.Name
		}
		ent = &Entity{Name: gi.Name.Canonical(), Spelling: gi.Name.Name, Kind: ir.EntitySubprogram, InstSub: sub}
	}
	if ent != nil {
		scope.Declare(ent)
		a.instCache[key] = ent
	}
	return ent
}

func (a *Analyzer) lookupGeneric(scope *Scope, name *ast.Ident) *Entity {
	for _, e := range scope.LookupAll(name.Canonical()) {
		if e.Kind == ir.EntityGeneric {
			return e
		}
	}
	return nil
}

// bindGenericFormals declares each formal in instScope bound to its
// matching actual: a formal type becomes an alias for the actual type, a
// formal object becomes a constant of the actual's static value, and a
// formal subprogram becomes a renaming of the actual subprogram.
func (a *Analyzer) bindGenericFormals(instScope *Scope, formals []*ast.GenericFormal, actuals []*ast.GenericActual) {
	for i, f := range formals {
		if i >= len(actuals) {
			break
		}
		act := actuals[i]
		if name, ok := act.Value.(*ast.Ident); ok {
			// A bare name actual aliases whatever it resolves to: a type for a
			// formal type, a subprogram for a formal subprogram, an object for
			// a formal object.
			cands := instScope.LookupAll(name.Canonical())
			if len(cands) > 0 {
				aliased := *cands[0]
				aliased.Name = f.Name.Canonical()
				aliased.Spelling = f.Name.Name
				instScope.Declare(&aliased)
				continue
			}
		}
		if e, ok := act.Value.(ast.Expr); ok {
			_, static := a.analyzeExpr(instScope, e, nil)
			instScope.Declare(&Entity{Name: f.Name.Canonical(), Spelling: f.Name.Name, Kind: ir.EntityConstant, Static: static})
		}
	}
}

func instantiationKey(generic string, actuals []*ast.GenericActual) string {
	var b strings.Builder
	b.WriteString(generic)
	for _, act := range actuals {
		b.WriteByte('|')
		b.WriteString(act.Value.String())
	}
	return b.String()
}
