package semantic

import (
	"github.com/adalang/adac/internal/ast"
	"github.com/adalang/adac/internal/ir"
	"github.com/adalang/adac/internal/types"
)

// resolveTypeExpr resolves a syntactic type mark to its semantic Type,
// materializing anonymous definitions (array, record, access, enum, ...)
// on the fly.
func (a *Analyzer) resolveTypeExpr(scope *Scope, te ast.TypeExpr) *types.Type {
	return a.buildType(scope, "", te)
}

func (a *Analyzer) buildType(scope *Scope, name string, te ast.TypeExpr) *types.Type {
	switch t := te.(type) {
	case *ast.NamedType:
		return a.lookupType(scope, t.Name)
	case *ast.SubtypeIndication:
		lo, hi, ok := a.evalStaticRange(scope, t.Constraint)
		if !ok {
			return a.buildType(scope, name, t.Base)
		}
		return a.tb.InternInteger(name, lo, hi)
	case *ast.RangeConstraint:
		lo, hi, ok := a.evalStaticRange(scope, t)
		if !ok {
			return a.pre.Integer
		}
		return a.tb.InternInteger(name, lo, hi)
	case *ast.ModularType:
		mod, ok := a.evalConstInt(scope, t.Modulus)
		if !ok {
			mod = 1 << 32
		}
		return a.tb.InternModular(name, uint64(mod))
	case *ast.FloatType:
		digits := 6
		if v, ok := a.evalConstInt(scope, t.Digits); ok {
			digits = int(v)
		}
		hasRange := t.Range != nil
		var lo, hi float64
		return a.tb.InternFloat(name, digits, hasRange, lo, hi)
	case *ast.FixedType:
		delta, _ := a.evalConstFloat(scope, t.Delta)
		digits := 0
		if t.Digits != nil {
			if v, ok := a.evalConstInt(scope, t.Digits); ok {
				digits = int(v)
			}
		}
		var lo, hi float64
		if t.Range != nil {
			lo, _ = a.evalConstFloat(scope, t.Range.Low)
			hi, _ = a.evalConstFloat(scope, t.Range.High)
		}
		return a.tb.InternFixed(name, delta, delta, digits, lo, hi)
	case *ast.EnumType:
		var lits []string
		for _, l := range t.Literals {
			lits = append(lits, l.Canonical())
		}
		return a.tb.InternEnum(name, lits, false, false)
	case *ast.ArrayType:
		var dims []types.Bound
		for i, idx := range t.Indices {
			if t.Unbounded[i] {
				idxType := a.resolveTypeExpr(scope, idx)
				dims = append(dims, types.Bound{Unconstrained: true, IndexType: idxType})
				continue
			}
			if rc, ok := idx.(*ast.RangeConstraint); ok {
				lo, hi, _ := a.evalStaticRange(scope, rc)
				dims = append(dims, types.Bound{Low: lo, High: hi})
				continue
			}
			idxType := a.resolveTypeExpr(scope, idx)
			dims = append(dims, types.Bound{IndexType: idxType})
		}
		component := a.resolveTypeExpr(scope, t.Component)
		return a.tb.InternArray(name, dims, component)
	case *ast.RecordType:
		return a.buildRecordType(scope, name, t)
	case *ast.AccessType:
		lifetime := types.LifetimeBlock
		ph := types.NewAccessPlaceholder(lifetime)
		designated := a.resolveTypeExpr(scope, t.Designated)
		ph.Resolve(designated)
		return ph
	case *ast.DerivedType:
		parent := a.resolveTypeExpr(scope, t.Parent)
		if t.Extension == nil {
			return parent
		}
		ext := a.buildRecordType(scope, name, t.Extension)
		ext.Record.Parent = parent
		return ext
	case *ast.PrivateType:
		return a.tb.NewPrivate(name, t.Limited)
	case *ast.TaskType:
		entries := a.entryProfiles(scope, t.Entries)
		return a.tb.NewTask(name, entries, t.Protected)
	default:
		return a.pre.Integer
	}
}

func (a *Analyzer) buildRecordType(scope *Scope, name string, t *ast.RecordType) *types.Type {
	info := &types.RecordInfo{Tagged: t.Tagged, Limited: t.Limited}
	for _, c := range t.Components {
		ct := a.resolveTypeExpr(scope, c.Type)
		for _, n := range c.Names {
			info.Components = append(info.Components, types.Component{Name: n.Canonical(), Type: ct, Default: c.Default != nil})
		}
	}
	if t.Variant != nil {
		info.Variant = a.buildVariantPart(scope, t.Variant)
	}
	return a.tb.NewRecord(name, info)
}

func (a *Analyzer) buildVariantPart(scope *Scope, vp *ast.VariantPart) *types.VariantPart {
	out := &types.VariantPart{Discriminant: vp.Discriminant.Canonical()}
	for _, v := range vp.Variants {
		variant := types.Variant{}
		for _, ch := range v.Choices {
			if n, ok := ch.(*ast.Ident); ok && n.Canonical() == "OTHERS" {
				variant.Others = true
				continue
			}
			if val, ok := a.evalConstInt(scope, ch); ok {
				variant.Choices = append(variant.Choices, val)
			}
		}
		for _, c := range v.Components {
			ct := a.resolveTypeExpr(scope, c.Type)
			for _, n := range c.Names {
				variant.Components = append(variant.Components, types.Component{Name: n.Canonical(), Type: ct})
			}
		}
		if v.Nested != nil {
			variant.Nested = a.buildVariantPart(scope, v.Nested)
		}
		out.Variants = append(out.Variants, variant)
	}
	return out
}

func (a *Analyzer) lookupType(scope *Scope, name *ast.Ident) *types.Type {
	for _, e := range scope.LookupAll(name.Canonical()) {
		if e.Kind == ir.EntityType || e.Kind == ir.EntitySubtype {
			return e.Type
		}
	}
	a.errorf(name.Pos(), "unknown type %q", name.Name)
	return a.pre.Integer
}

// evalStaticRange evaluates a `lo .. hi` range constraint to concrete
// integer bounds, needed for array bounds checking.
func (a *Analyzer) evalStaticRange(scope *Scope, rc *ast.RangeConstraint) (lo, hi int64, ok bool) {
	if rc == nil {
		return 0, 0, false
	}
	loV, ok1 := a.evalConstInt(scope, rc.Low)
	hiV, ok2 := a.evalConstInt(scope, rc.High)
	return loV, hiV, ok1 && ok2
}
