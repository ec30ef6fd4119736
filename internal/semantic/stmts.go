package semantic

import (
	"github.com/adalang/adac/internal/ast"
	"github.com/adalang/adac/internal/ir"
	"github.com/adalang/adac/internal/token"
)

// analyzeStmts lowers a statement sequence to typed IR, resolving names,
// checking assignment and call targets, and statically evaluating case
// choices.
func (a *Analyzer) analyzeStmts(scope *Scope, stmts []ast.Stmt) []ir.Stmt {
	var out []ir.Stmt
	for _, s := range stmts {
		if st := a.analyzeStmt(scope, s); st != nil {
			out = append(out, st)
		}
	}
	return out
}

func (a *Analyzer) analyzeStmt(scope *Scope, s ast.Stmt) ir.Stmt {
	switch st := s.(type) {
	case *ast.NullStmt:
		return nil
	case *ast.AssignStmt:
		target, _ := a.analyzeExpr(scope, st.Target, nil)
		value, _ := a.analyzeExpr(scope, st.Value, target.IRType())
		return &ir.Assign{Target: target, Value: value}
	case *ast.CallStmt:
		call, _ := a.analyzeExpr(scope, st.Call, nil)
		return &ir.ExprStmt{Call: call}
	case *ast.IfStmt:
		return a.analyzeIfStmt(scope, st)
	case *ast.CaseStmt:
		return a.analyzeCaseStmt(scope, st)
	case *ast.LoopStmt:
		return a.analyzeLoopStmt(scope, st)
	case *ast.ExitStmt:
		var cond ir.Expr
		if st.Cond != nil {
			cond, _ = a.analyzeExpr(scope, st.Cond, a.pre.Boolean)
		}
		label := ""
		if st.Label != nil {
			label = st.Label.Canonical()
		}
		return &ir.Exit{Label: label, Cond: cond}
	case *ast.ReturnStmt:
		var v ir.Expr
		if st.Value != nil {
			v, _ = a.analyzeExpr(scope, st.Value, nil)
		}
		return &ir.Return{Value: v}
	case *ast.RaiseStmt:
		return a.analyzeRaiseStmt(scope, st)
	case *ast.Block:
		return a.analyzeBlockStmt(scope, st)
	case *ast.LabeledStmt:
		return &ir.LabeledStmt{Label: st.Label.Canonical(), Stmt: a.analyzeStmt(scope, st.Stmt)}
	case *ast.GotoStmt:
		return &ir.Goto{Label: st.Label.Canonical()}
	case *ast.AcceptStmt:
		return a.analyzeAcceptStmt(scope, st)
	case *ast.DelayStmt:
		v, _ := a.analyzeExpr(scope, st.Value, nil)
		return &ir.ExprStmt{Call: v}
	case *ast.SelectStmt:
		return a.analyzeSelectStmt(scope, st)
	default:
		return nil
	}
}

func (a *Analyzer) analyzeIfStmt(scope *Scope, st *ast.IfStmt) *ir.If {
	cond, _ := a.analyzeExpr(scope, st.Cond, a.pre.Boolean)
	out := &ir.If{Cond: cond, Then: a.analyzeStmts(scope, st.Then)}
	for _, e := range st.Elifs {
		ec, _ := a.analyzeExpr(scope, e.Cond, a.pre.Boolean)
		out.Elifs = append(out.Elifs, struct {
			Cond ir.Expr
			Then []ir.Stmt
		}{Cond: ec, Then: a.analyzeStmts(scope, e.Then)})
	}
	if st.Else != nil {
		out.Else = a.analyzeStmts(scope, st.Else)
	}
	return out
}

// analyzeCaseStmt statically evaluates every choice so codegen sees a
// closed discrete dispatch table.
func (a *Analyzer) analyzeCaseStmt(scope *Scope, st *ast.CaseStmt) *ir.Case {
	subj, _ := a.analyzeExpr(scope, st.Subj, nil)
	out := &ir.Case{Subj: subj}
	for _, arm := range st.Arms {
		irArm := ir.CaseArm{Stmts: a.analyzeStmts(scope, arm.Stmts)}
		for _, ch := range arm.Choices {
			if o, ok := ch.(*ast.OthersExpr); ok {
				_ = o
				irArm.Others = true
				continue
			}
			if rng, ok := ch.(*ast.BinaryExpr); ok && rng.Op == token.DOTDOT {
				lo, hi, ok2 := a.evalStaticRange(scope, &ast.RangeConstraint{Token: rng.Token, Low: rng.Left, High: rng.Right})
				if ok2 {
					for v := lo; v <= hi; v++ {
						irArm.Choices = append(irArm.Choices, v)
					}
				}
				continue
			}
			if v, ok := a.evalConstInt(scope, ch); ok {
				irArm.Choices = append(irArm.Choices, v)
			}
		}
		out.Arms = append(out.Arms, irArm)
	}
	return out
}

func (a *Analyzer) analyzeLoopStmt(scope *Scope, st *ast.LoopStmt) *ir.Loop {
	inner := NewScope(ScopeLoop, scope)
	out := &ir.Loop{Label: st.Label}
	switch st.Kind {
	case ast.LoopWhile:
		out.Kind = ir.LoopWhile
		out.Cond, _ = a.analyzeExpr(inner, st.Cond, a.pre.Boolean)
	case ast.LoopFor:
		out.Kind = ir.LoopFor
		out.Reverse = st.Reverse
		loopVarType := a.pre.Integer
		if rng, ok := st.Range.(*ast.BinaryExpr); ok && rng.Op == token.DOTDOT {
			lo, _ := a.analyzeExpr(inner, rng.Left, nil)
			hi, _ := a.analyzeExpr(inner, rng.Right, nil)
			out.Low, out.High = lo, hi
			if lo.IRType() != nil {
				loopVarType = lo.IRType()
			}
		} else {
			rangeExpr, _ := a.analyzeExpr(inner, st.Range, nil)
			out.Low = rangeExpr
		}
		paramEnt := &Entity{Name: st.Var.Canonical(), Spelling: st.Var.Name, Kind: ir.EntityLoopParam, Type: loopVarType}
		inner.Declare(paramEnt)
		out.Var = toIREntity(paramEnt)
	default:
		out.Kind = ir.LoopPlain
	}
	out.Stmts = a.analyzeStmts(inner, st.Stmts)
	return out
}

func (a *Analyzer) analyzeRaiseStmt(scope *Scope, st *ast.RaiseStmt) *ir.Raise {
	out := &ir.Raise{}
	if st.Name != nil {
		for _, e := range scope.LookupAll(st.Name.Canonical()) {
			if e.Kind == ir.EntityException {
				out.Exception = toIREntity(e)
				break
			}
		}
		if out.Exception == nil {
			a.errorf(st.Name.Pos(), "unknown exception %q", st.Name.Name)
		}
	}
	if st.Message != nil {
		out.Message, _ = a.analyzeExpr(scope, st.Message, a.pre.String)
	}
	return out
}

func (a *Analyzer) analyzeBlockStmt(scope *Scope, b *ast.Block) *ir.Block {
	inner := NewScope(ScopeBlock, scope)
	a.analyzeDeclarativePart(inner, b.Decls)
	out := &ir.Block{Stmts: a.analyzeStmts(inner, b.Stmts)}
	for _, locals := range inner.Declarations() {
		out.Locals = append(out.Locals, toIREntity(locals))
	}
	for _, h := range b.Handlers {
		handler := ir.Handler{VarName: ""}
		if h.VarName != nil {
			handler.VarName = h.VarName.Canonical()
		}
		for _, c := range h.Choices {
			if c.Canonical() == "OTHERS" {
				handler.Others = true
				continue
			}
			for _, e := range scope.LookupAll(c.Canonical()) {
				if e.Kind == ir.EntityException {
					handler.Exceptions = append(handler.Exceptions, toIREntity(e))
					break
				}
			}
		}
		handler.Stmts = a.analyzeStmts(inner, h.Stmts)
		out.Handlers = append(out.Handlers, handler)
	}
	return out
}

func (a *Analyzer) analyzeAcceptStmt(scope *Scope, st *ast.AcceptStmt) *ir.Block {
	inner := NewScope(ScopeBlock, scope)
	for _, p := range st.Params {
		pt := a.resolveTypeExpr(scope, p.Type)
		for _, n := range p.Names {
			inner.Declare(&Entity{Name: n.Canonical(), Spelling: n.Name, Kind: ir.EntityObject, Type: pt})
		}
	}
	return &ir.Block{Stmts: a.analyzeStmts(inner, st.Body)}
}

func (a *Analyzer) analyzeSelectStmt(scope *Scope, st *ast.SelectStmt) *ir.Block {
	var stmts []ir.Stmt
	for _, arm := range st.Arms {
		if arm.Guard != nil {
			a.analyzeExpr(scope, arm.Guard, a.pre.Boolean)
		}
		if arm.Accept != nil {
			stmts = append(stmts, a.analyzeAcceptStmt(scope, arm.Accept))
		}
		stmts = append(stmts, a.analyzeStmts(scope, arm.Stmts)...)
	}
	stmts = append(stmts, a.analyzeStmts(scope, st.Else)...)
	return &ir.Block{Stmts: stmts}
}
