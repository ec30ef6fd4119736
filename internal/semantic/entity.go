// Package semantic implements scope construction, name resolution,
// overload resolution, type checking, static evaluation, generic
// instantiation, and elaboration ordering, lowering internal/ast into
// internal/ir.
//
// The scope chain uses case-insensitive symbol lookup against an
// ordered, nested set of scopes, each holding a map of name to overload
// set (multiple candidates per name, for subprograms, enumeration
// literals, and operator symbols), plus an explicit parent-scope and
// use-clause overlay for visibility.
package semantic

import (
	"github.com/adalang/adac/internal/ast"
	"github.com/adalang/adac/internal/ir"
	"github.com/adalang/adac/internal/types"
)

// Entity is one declared symbol.
type Entity struct {
	Name      string // canonical (case-folded) spelling
	Spelling  string // as first declared, for diagnostics
	Kind      ir.EntityKind
	Scope     *Scope
	Type      *types.Type
	Static    *StaticValue
	Decl      ast.Node
	Params    []*Param // for EntitySubprogram
	ReturnT   *types.Type
	Overloads []*Entity // additional candidates sharing this name, for subprograms/enum literals/operators
	// Inner is the nested scope owned by a package, subprogram, generic,
	// task, or block entity.
	Inner *Scope
	// ExceptionID is set for EntityException.
	ExceptionID uint64
	// InstSub holds the lowered body of a generic subprogram instantiation,
	// for the caller to splice into the enclosing unit's Subprograms.
	InstSub *ir.Subprogram
}

// Param mirrors ast.Param after type resolution.
type Param struct {
	Name    string
	Mode    ast.ParamMode
	Type    *types.Type
	Default ast.Expr
}

// StaticValue holds a compile-time-evaluated value, used for constant
// folding, array bounds, case choices, and generic actual matching.
type StaticValue struct {
	IsInt  bool
	Int    int64
	IsReal bool
	Real   float64
	IsStr  bool
	Str    string
}

// ScopeCategory classifies a scope, driving elaboration-order and
// visibility rules.
type ScopeCategory int

const (
	ScopePackageSpec ScopeCategory = iota
	ScopePackageBody
	ScopeSubprogram
	ScopeBlock
	ScopeLoop
	ScopeGeneric
)

// Scope is an ordered declaration list plus a case-insensitive hash
// index, chained to its parent, with an overlay of `use`-visible scopes
// searched after direct visibility.
type Scope struct {
	Category ScopeCategory
	Parent   *Scope
	Uses     []*Scope
	order    []string
	byName   map[string][]*Entity
}

// NewScope creates a scope nested inside parent (nil for the outermost
// compilation-environment scope).
func NewScope(category ScopeCategory, parent *Scope) *Scope {
	return &Scope{Category: category, Parent: parent, byName: make(map[string][]*Entity)}
}

// AddUse adds a `use`-visible overlay scope, searched after direct
// visibility in LookupAll.
func (s *Scope) AddUse(other *Scope) {
	s.Uses = append(s.Uses, other)
}

// Declare registers e in this scope under its canonical name. Multiple
// declarations under the same name form an overload set (legal for
// subprograms, enumeration literals, and operator symbols; the caller is
// responsible for rejecting illegal redeclarations of non-overloadable
// kinds).
func (s *Scope) Declare(e *Entity) {
	e.Scope = s
	if _, exists := s.byName[e.Name]; !exists {
		s.order = append(s.order, e.Name)
	}
	s.byName[e.Name] = append(s.byName[e.Name], e)
}

// LookupLocal returns the overload set declared directly in s, without
// consulting parents or use-clauses.
func (s *Scope) LookupLocal(canonical string) []*Entity {
	return s.byName[canonical]
}

// LookupAll walks current scope -> enclosing scopes -> use-visible set,
// collecting every candidate with the given name, for overload
// resolution to narrow down afterward.
func (s *Scope) LookupAll(canonical string) []*Entity {
	var found []*Entity
	for sc := s; sc != nil; sc = sc.Parent {
		if cands := sc.byName[canonical]; len(cands) > 0 {
			found = append(found, cands...)
		}
		for _, u := range sc.Uses {
			found = append(found, u.byName[canonical]...)
		}
		if len(found) > 0 {
			return found
		}
	}
	return found
}

// Declarations returns every entity declared directly in s, in
// declaration order.
func (s *Scope) Declarations() []*Entity {
	var all []*Entity
	for _, name := range s.order {
		all = append(all, s.byName[name]...)
	}
	return all
}
