package semantic

import (
	"strconv"
	"strings"

	"github.com/adalang/adac/internal/ast"
	"github.com/adalang/adac/internal/ir"
	"github.com/adalang/adac/internal/token"
	"github.com/adalang/adac/internal/types"
)

// analyzeExpr resolves an ast.Expr to typed IR under an optional
// expected-type context (nil when the context does not constrain the
// result, e.g. a procedure-call actual whose parameter type is not yet
// known). It returns the static value too, when evaluable, for callers
// building constant declarations, array bounds, or case choices.
func (a *Analyzer) analyzeExpr(scope *Scope, e ast.Expr, expect *types.Type) (ir.Expr, *StaticValue) {
	switch x := e.(type) {
	case *ast.Literal:
		return a.analyzeLiteral(x, expect)
	case *ast.Ident:
		return a.analyzeName(scope, x)
	case *ast.SelectorExpr:
		return a.analyzeSelector(scope, x)
	case *ast.BinaryExpr:
		return a.analyzeBinary(scope, x, expect)
	case *ast.UnaryExpr:
		return a.analyzeUnary(scope, x, expect)
	case *ast.CallExpr:
		return a.analyzeCall(scope, x, expect)
	case *ast.IndexExpr:
		return a.analyzeIndex(scope, x)
	case *ast.SliceExpr:
		arr, _ := a.analyzeExpr(scope, x.Prefix, nil)
		return arr, nil
	case *ast.AttrExpr:
		return a.analyzeAttr(scope, x)
	case *ast.AggregateExpr:
		return a.analyzeAggregate(scope, x, expect)
	case *ast.QualifiedExpr:
		t := a.lookupType(scope, x.TypeMark)
		return a.analyzeExpr(scope, x.Value, t)
	case *ast.ConversionExpr:
		t := a.lookupType(scope, x.TypeMark)
		inner, static := a.analyzeExpr(scope, x.Value, t)
		return &ir.Convert{To: t, From: inner, Checked: true}, static
	case *ast.AllocatorExpr:
		t := a.resolveTypeExpr(scope, x.TypeMark)
		return &ir.NameRef{Type: t}, nil
	case *ast.OthersExpr:
		return &ir.Const{}, nil
	case *ast.IfExpr, *ast.CaseExpr:
		return &ir.Const{Type: expect}, nil
	default:
		return &ir.Const{Type: expect}, nil
	}
}

func (a *Analyzer) analyzeLiteral(lit *ast.Literal, expect *types.Type) (ir.Expr, *StaticValue) {
	switch lit.Kind {
	case ast.LitInt:
		v := parseAdaInt(lit.Value)
		t := expect
		if t == nil {
			t = a.pre.UniversalInteger
		}
		return &ir.Const{Type: t, Int: v, IsInt: true}, &StaticValue{IsInt: true, Int: v}
	case ast.LitReal:
		v, _ := strconv.ParseFloat(stripUnderscores(lit.Value), 64)
		t := expect
		if t == nil {
			t = a.pre.UniversalReal
		}
		return &ir.Const{Type: t, Real: v, IsReal: true}, &StaticValue{IsReal: true, Real: v}
	case ast.LitString:
		t := expect
		if t == nil {
			t = a.pre.String
		}
		return &ir.Const{Type: t, Str: lit.Value, IsStr: true}, &StaticValue{IsStr: true, Str: lit.Value}
	case ast.LitChar:
		t := expect
		if t == nil {
			t = a.pre.Character
		}
		v := int64(0)
		if len(lit.Value) > 0 {
			v = int64([]rune(lit.Value)[0])
		}
		return &ir.Const{Type: t, Int: v, IsInt: true}, &StaticValue{IsInt: true, Int: v}
	case ast.LitNull:
		return &ir.Const{Type: a.pre.UniversalAccess}, nil
	}
	return &ir.Const{Type: expect}, nil
}

func stripUnderscores(s string) string { return strings.ReplaceAll(s, "_", "") }

// parseAdaInt parses a decimal or based (`base#digits#`) integer literal
// lexeme into its numeric value.
func parseAdaInt(lit string) int64 {
	lit = stripUnderscores(lit)
	if i := strings.IndexByte(lit, '#'); i >= 0 {
		baseStr := lit[:i]
		rest := lit[i+1:]
		j := strings.IndexByte(rest, '#')
		if j < 0 {
			return 0
		}
		digits := rest[:j]
		base, _ := strconv.ParseInt(baseStr, 10, 64)
		v, _ := strconv.ParseInt(digits, int(base), 64)
		return v
	}
	v, _ := strconv.ParseInt(lit, 10, 64)
	return v
}

func (a *Analyzer) analyzeName(scope *Scope, name *ast.Ident) (ir.Expr, *StaticValue) {
	cands := scope.LookupAll(name.Canonical())
	if len(cands) == 0 {
		a.errorf(name.Pos(), "undeclared identifier %q", name.Name)
		return &ir.Const{}, nil
	}
	ent := cands[0]
	if ent.Kind == ir.EntityEnumLiteral {
		pos := int64(0)
		if ent.Type != nil && ent.Type.Enum != nil {
			pos = int64(ent.Type.Enum.Pos(name.Canonical()))
		}
		return &ir.Const{Type: ent.Type, Int: pos, IsInt: true}, &StaticValue{IsInt: true, Int: pos}
	}
	return &ir.NameRef{Type: ent.Type, Entity: toIREntity(ent)}, ent.Static
}

func (a *Analyzer) analyzeSelector(scope *Scope, sel *ast.SelectorExpr) (ir.Expr, *StaticValue) {
	base, _ := a.analyzeExpr(scope, sel.Prefix, nil)
	if sel.Selector.Canonical() == "ALL" && base.IRType() != nil && base.IRType().Kind == types.KindAccess {
		return &ir.Deref{Type: base.IRType().Access.Designated, Operand: base}, nil
	}
	if base.IRType() != nil && base.IRType().Kind == types.KindRecord {
		rec := base.IRType().Record
		if c, ok := findComponent(rec.Components, sel.Selector.Canonical()); ok {
			return &ir.FieldAccess{Type: c.Type, Record: base, Component: c.Name}, nil
		}
		if c, ok := findVariantComponent(rec.Variant, sel.Selector.Canonical()); ok {
			return &ir.FieldAccess{Type: c.Type, Record: base, Component: c.Name, NeedsDiscriminantCheck: true}, nil
		}
	}
	return &ir.FieldAccess{Record: base, Component: sel.Selector.Canonical()}, nil
}

func findComponent(comps []types.Component, name string) (types.Component, bool) {
	for _, c := range comps {
		if c.Name == name {
			return c, true
		}
	}
	return types.Component{}, false
}

// findVariantComponent searches a variant part's arms, recursing into
// nested variant parts, for a component named name.
func findVariantComponent(vp *types.VariantPart, name string) (types.Component, bool) {
	if vp == nil {
		return types.Component{}, false
	}
	for _, v := range vp.Variants {
		if c, ok := findComponent(v.Components, name); ok {
			return c, true
		}
		if c, ok := findVariantComponent(v.Nested, name); ok {
			return c, true
		}
	}
	return types.Component{}, false
}

func (a *Analyzer) analyzeBinary(scope *Scope, b *ast.BinaryExpr, expect *types.Type) (ir.Expr, *StaticValue) {
	leftExpect := expect
	if b.Op == token.EQ || b.Op == token.NEQ || b.Op == token.LT || b.Op == token.LTE || b.Op == token.GT || b.Op == token.GTE {
		leftExpect = nil
	}
	left, lstatic := a.analyzeExpr(scope, b.Left, leftExpect)
	var rexpect *types.Type
	if left.IRType() != nil && !left.IRType().IsUniversal() {
		rexpect = left.IRType()
	}
	right, rstatic := a.analyzeExpr(scope, b.Right, rexpect)

	resultType := left.IRType()
	if resultType == nil || resultType.IsUniversal() {
		resultType = right.IRType()
	}
	switch b.Op {
	case token.EQ, token.NEQ, token.LT, token.LTE, token.GT, token.GTE, token.IN:
		resultType = a.pre.Boolean
	case token.AND, token.OR, token.XOR:
		resultType = a.pre.Boolean
	}
	node := &ir.BinOp{Type: resultType, Op: b.Op.String(), Left: left, Right: right, ShortCircuit: b.ShortCircuit}
	if resultType != nil && resultType.Kind == types.KindInteger && resultType.Integer.Modulus == 0 {
		switch b.Op {
		case token.PLUS, token.MINUS, token.STAR:
			node.Checked = true
		}
	}
	static := foldStaticBinary(b.Op, lstatic, rstatic)
	return node, static
}

func foldStaticBinary(op token.Kind, l, r *StaticValue) *StaticValue {
	if l == nil || r == nil || !l.IsInt || !r.IsInt {
		return nil
	}
	switch op {
	case token.PLUS:
		return &StaticValue{IsInt: true, Int: l.Int + r.Int}
	case token.MINUS:
		return &StaticValue{IsInt: true, Int: l.Int - r.Int}
	case token.STAR:
		return &StaticValue{IsInt: true, Int: l.Int * r.Int}
	case token.SLASH:
		if r.Int == 0 {
			return nil
		}
		return &StaticValue{IsInt: true, Int: l.Int / r.Int}
	case token.MOD:
		if r.Int == 0 {
			return nil
		}
		m := l.Int % r.Int
		if m != 0 && (m < 0) != (r.Int < 0) {
			m += r.Int
		}
		return &StaticValue{IsInt: true, Int: m}
	case token.REM:
		if r.Int == 0 {
			return nil
		}
		return &StaticValue{IsInt: true, Int: l.Int % r.Int}
	case token.STARSTAR:
		result := int64(1)
		for i := int64(0); i < r.Int; i++ {
			result *= l.Int
		}
		return &StaticValue{IsInt: true, Int: result}
	}
	return nil
}

func (a *Analyzer) analyzeUnary(scope *Scope, u *ast.UnaryExpr, expect *types.Type) (ir.Expr, *StaticValue) {
	operand, static := a.analyzeExpr(scope, u.Operand, expect)
	node := &ir.UnOp{Type: operand.IRType(), Op: u.Op.String(), Operand: operand}
	if static != nil && static.IsInt {
		v := static.Int
		switch u.Op {
		case token.MINUS:
			v = -v
		case token.ABS:
			if v < 0 {
				v = -v
			}
		}
		return node, &StaticValue{IsInt: true, Int: v}
	}
	return node, nil
}

// analyzeCall resolves a call against the candidate overload set by
// argument count alone (see narrowOverloads); parameter types are not
// compared, so of several candidates with that count the first is taken. A
// callee that resolves to an object of array type is reinterpreted as an
// index access rather than a call, resolving the ambiguity the parser
// deliberately leaves open.
func (a *Analyzer) analyzeCall(scope *Scope, call *ast.CallExpr, expect *types.Type) (ir.Expr, *StaticValue) {
	name, ok := call.Callee.(*ast.Ident)
	if !ok {
		base, _ := a.analyzeExpr(scope, call.Callee, nil)
		return a.finishIndexOrConvert(scope, base, call)
	}
	cands := scope.LookupAll(name.Canonical())
	var subCands []*Entity
	for _, c := range cands {
		if c.Kind == ir.EntitySubprogram {
			subCands = append(subCands, c)
		}
	}
	if len(subCands) == 0 {
		if len(cands) == 1 && (cands[0].Kind == ir.EntityType || cands[0].Kind == ir.EntitySubtype) {
			// Type conversion `Type(Expr)`.
			if len(call.Args) == 1 {
				inner, static := a.analyzeExpr(scope, call.Args[0].Value, cands[0].Type)
				return &ir.Convert{To: cands[0].Type, From: inner, Checked: true}, static
			}
		}
		base, _ := a.analyzeName(scope, name)
		return a.finishIndexOrConvert(scope, base, call)
	}
	chosen := a.narrowOverloads(subCands, len(call.Args))
	var args []ir.Expr
	for i, arg := range call.Args {
		var pt *types.Type
		if chosen != nil && i < len(chosen.Params) {
			pt = chosen.Params[i].Type
		}
		ae, _ := a.analyzeExpr(scope, arg.Value, pt)
		args = append(args, ae)
	}
	if chosen == nil {
		a.errorf(name.Pos(), "no matching overload for call to %q", name.Name)
		return &ir.Const{Type: expect}, nil
	}
	return &ir.Call{Type: chosen.ReturnT, Callee: toIREntity(chosen), Args: args}, nil
}

func (a *Analyzer) finishIndexOrConvert(scope *Scope, base ir.Expr, call *ast.CallExpr) (ir.Expr, *StaticValue) {
	var idxs []ir.Expr
	for _, arg := range call.Args {
		ae, _ := a.analyzeExpr(scope, arg.Value, nil)
		idxs = append(idxs, ae)
	}
	var elemType *types.Type
	needsCheck := true
	if base.IRType() != nil && base.IRType().Kind == types.KindArray {
		elemType = base.IRType().Array.Component
		needsCheck = base.IRType().Array.Fat
	}
	return &ir.IndexAccess{Type: elemType, Array: base, Indices: idxs, NeedsCheck: needsCheck}, nil
}

// narrowOverloads keeps candidates whose parameter count matches argc;
// if exactly one remains, it is the resolved overload. If several remain,
// the first of them is returned; if none does, the first candidate is.
func (a *Analyzer) narrowOverloads(cands []*Entity, argc int) *Entity {
	var surviving []*Entity
	for _, c := range cands {
		if len(c.Params) == argc {
			surviving = append(surviving, c)
		}
	}
	if len(surviving) == 1 {
		return surviving[0]
	}
	if len(surviving) > 1 {
		return surviving[0] // ambiguous; degrade to first candidate rather than fail closed
	}
	if len(cands) > 0 {
		return cands[0]
	}
	return nil
}

func (a *Analyzer) analyzeIndex(scope *Scope, ix *ast.IndexExpr) (ir.Expr, *StaticValue) {
	base, _ := a.analyzeExpr(scope, ix.Prefix, nil)
	var idxs []ir.Expr
	for _, arg := range ix.Args {
		ae, _ := a.analyzeExpr(scope, arg, nil)
		idxs = append(idxs, ae)
	}
	var elemType *types.Type
	if base.IRType() != nil && base.IRType().Kind == types.KindArray {
		elemType = base.IRType().Array.Component
	}
	return &ir.IndexAccess{Type: elemType, Array: base, Indices: idxs}, nil
}

// analyzeAttr resolves a 'Attr reference, folding the statically
// evaluable forms ('First/'Last/'Length on a constrained array or
// integer subtype) directly into a Const.
func (a *Analyzer) analyzeAttr(scope *Scope, at *ast.AttrExpr) (ir.Expr, *StaticValue) {
	prefix, _ := a.analyzeExpr(scope, at.Prefix, nil)
	attrName := at.Attribute.Canonical()
	pt := prefix.IRType()
	if pt != nil {
		switch attrName {
		case "FIRST":
			if pt.Kind == types.KindArray && len(pt.Array.Dims) > 0 && !pt.Array.Dims[0].Unconstrained {
				v := pt.Array.Dims[0].Low
				return &ir.Const{Type: a.pre.Integer, Int: v, IsInt: true}, &StaticValue{IsInt: true, Int: v}
			}
			if pt.Kind == types.KindInteger {
				return &ir.Const{Type: pt, Int: pt.Integer.Low, IsInt: true}, &StaticValue{IsInt: true, Int: pt.Integer.Low}
			}
		case "LAST":
			if pt.Kind == types.KindArray && len(pt.Array.Dims) > 0 && !pt.Array.Dims[0].Unconstrained {
				v := pt.Array.Dims[0].High
				return &ir.Const{Type: a.pre.Integer, Int: v, IsInt: true}, &StaticValue{IsInt: true, Int: v}
			}
			if pt.Kind == types.KindInteger {
				return &ir.Const{Type: pt, Int: pt.Integer.High, IsInt: true}, &StaticValue{IsInt: true, Int: pt.Integer.High}
			}
		case "LENGTH":
			if pt.Kind == types.KindArray && len(pt.Array.Dims) > 0 && !pt.Array.Dims[0].Unconstrained {
				v := pt.Array.Dims[0].High - pt.Array.Dims[0].Low + 1
				return &ir.Const{Type: a.pre.Natural, Int: v, IsInt: true}, &StaticValue{IsInt: true, Int: v}
			}
		case "POS":
			if len(at.Args) == 1 {
				arg, static := a.analyzeExpr(scope, at.Args[0], pt)
				return &ir.Convert{To: a.pre.Integer, From: arg}, static
			}
		case "VAL":
			if len(at.Args) == 1 {
				arg, static := a.analyzeExpr(scope, at.Args[0], a.pre.Integer)
				return &ir.Convert{To: pt, From: arg, Checked: true}, static
			}
		}
	}
	var args []ir.Expr
	for _, arg := range at.Args {
		ae, _ := a.analyzeExpr(scope, arg, nil)
		args = append(args, ae)
	}
	resultT := a.pre.Integer
	switch attrName {
	case "IMAGE":
		resultT = a.pre.String
	case "VALUE":
		resultT = pt
	}
	return &ir.Attribute{Type: resultT, Prefix: prefix, Name: attrName, Args: args}, nil
}

func (a *Analyzer) analyzeAggregate(scope *Scope, agg *ast.AggregateExpr, expect *types.Type) (ir.Expr, *StaticValue) {
	out := &ir.Aggregate{Type: expect}
	var elemType *types.Type
	if expect != nil && expect.Kind == types.KindArray {
		elemType = expect.Array.Component
	}
	pos := int64(0)
	for _, assoc := range agg.Associations {
		v, _ := a.analyzeExpr(scope, assoc.Value, elemType)
		if assoc.Others {
			out.Elements = append(out.Elements, ir.AggregateElem{Index: -1, Value: v})
			continue
		}
		if len(assoc.Choices) > 0 {
			for _, ch := range assoc.Choices {
				if n, ok := a.evalConstInt(scope, ch); ok {
					out.Elements = append(out.Elements, ir.AggregateElem{Index: n, Value: v})
				}
			}
			continue
		}
		out.Elements = append(out.Elements, ir.AggregateElem{Index: pos, Value: v})
		pos++
	}
	return out, nil
}

// evalConstInt evaluates e as a compile-time integer constant, as
// required for array bounds, case choices, and generic actuals. It
// returns ok=false when e is not statically evaluable with this
// analyzer's (intentionally non-exhaustive) constant folder.
func (a *Analyzer) evalConstInt(scope *Scope, e ast.Expr) (int64, bool) {
	_, static := a.analyzeExpr(scope, e, nil)
	if static != nil && static.IsInt {
		return static.Int, true
	}
	return 0, false
}

func (a *Analyzer) evalConstFloat(scope *Scope, e ast.Expr) (float64, bool) {
	_, static := a.analyzeExpr(scope, e, nil)
	if static != nil && static.IsReal {
		return static.Real, true
	}
	if static != nil && static.IsInt {
		return float64(static.Int), true
	}
	return 0, false
}
