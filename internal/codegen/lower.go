package codegen

import (
	"fmt"

	"github.com/adalang/adac/internal/fault"
	"github.com/adalang/adac/internal/ir"
)

// lowerer walks one subprogram's typed IR, emitting textual pseudo-
// instructions into the current function and registering every runtime
// ABI symbol it touches as an extern declaration.
type lowerer struct {
	m      *Module
	fn     *Function
	opts   Options
	temps  int
	frames int
}

func (l *lowerer) emit(format string, args ...any) {
	l.fn.Lines = append(l.fn.Lines, fmt.Sprintf(format, args...))
}

func (l *lowerer) newTemp() string {
	l.temps++
	return fmt.Sprintf("%%t%d", l.temps)
}

func (l *lowerer) lowerSubprogram(sub *ir.Subprogram) *Function {
	var params []string
	for _, p := range sub.Params {
		params = append(params, p.Name+": "+typeRepr(p.Type))
	}
	ret := "void"
	if sub.Entity != nil && sub.Entity.Type != nil {
		ret = typeRepr(sub.Entity.Type)
	}
	name := "adac.unknown"
	if sub.Entity != nil {
		name = sub.Entity.Name
	}
	fn := &Function{Name: name, Params: params, Ret: ret}
	l.fn = fn
	l.emitBlock(sub.Body)
	return fn
}

// emitBlock lowers a declarative block, inserting the secondary-stack
// mark/release pair (§4.4.4) and, when the block carries exception
// handlers, the frame push/setjmp/dispatch/pop sequence (§4.4.5) around
// its statements.
func (l *lowerer) emitBlock(b *ir.Block) {
	if b == nil {
		return
	}
	mark := l.newTemp()
	l.m.extern("secstack.mark")
	l.emit("%s = call secstack.mark()", mark)

	if len(b.Handlers) > 0 {
		l.emitBlockWithHandlers(b, mark)
		return
	}

	l.emitStmts(b.Stmts)
	l.m.extern("secstack.release")
	l.emit("call secstack.release(%s)", mark)
}

func (l *lowerer) emitBlockWithHandlers(b *ir.Block, mark string) {
	l.frames++
	frame := fmt.Sprintf("%%frame%d", l.frames)
	l.m.extern("except.push_frame")
	l.m.extern("except.pop_frame")
	l.m.extern("except.current_exception")
	l.m.extern("secstack.release")

	l.emit("%s = call except.push_frame()", frame)
	l.emit("setjmp %s -> on_exception%d", frame, l.frames)
	l.emitStmts(b.Stmts)
	l.emit("call except.pop_frame(%s)", frame)
	l.emit("call secstack.release(%s)", mark)
	l.emit("jmp after_handlers%d", l.frames)

	l.emit("label on_exception%d:", l.frames)
	exc := l.newTemp()
	l.emit("%s = call except.current_exception()", exc)
	for _, h := range b.Handlers {
		if h.Others {
			l.emitHandlerBody(h, exc)
			break
		}
		for _, e := range h.Exceptions {
			l.emit("if %s == %s goto handler_%d", exc, e.Name, l.frames)
		}
	}
	for _, h := range b.Handlers {
		if h.Others {
			continue
		}
		l.emitHandlerBody(h, exc)
	}
	l.m.extern("except.reraise")
	l.emit("call except.reraise()")
	l.emit("label after_handlers%d:", l.frames)
}

func (l *lowerer) emitHandlerBody(h ir.Handler, exc string) {
	if h.VarName != "" {
		l.emit("%s = %s", h.VarName, exc)
	}
	l.emitStmts(h.Stmts)
}

func (l *lowerer) emitStmts(stmts []ir.Stmt) {
	for _, s := range stmts {
		l.emitStmt(s)
	}
}

func (l *lowerer) emitStmt(s ir.Stmt) {
	switch st := s.(type) {
	case *ir.Assign:
		v := l.emitExpr(st.Value)
		t := l.emitExpr(st.Target)
		l.emit("store %s, %s", t, v)
	case *ir.ExprStmt:
		l.emitExpr(st.Call)
	case *ir.If:
		l.emitIf(st)
	case *ir.Case:
		l.emitCase(st)
	case *ir.Loop:
		l.emitLoop(st)
	case *ir.Exit:
		if st.Cond != nil {
			c := l.emitExpr(st.Cond)
			l.emit("if %s goto loop_exit_%s", c, st.Label)
		} else {
			l.emit("jmp loop_exit_%s", st.Label)
		}
	case *ir.Return:
		if st.Value != nil {
			v := l.emitExpr(st.Value)
			l.emit("return %s", v)
		} else {
			l.emit("return")
		}
	case *ir.Raise:
		l.emitRaise(st)
	case *ir.Block:
		l.emitBlock(st)
	case *ir.Goto:
		l.emit("jmp label_%s", st.Label)
	case *ir.LabeledStmt:
		l.emit("label label_%s:", st.Label)
		if st.Stmt != nil {
			l.emitStmt(st.Stmt)
		}
	default:
		fault.Raise("codegen: unhandled statement kind %T", st)
	}
}

func (l *lowerer) emitIf(st *ir.If) {
	cond := l.emitExpr(st.Cond)
	l.emit("if not %s goto else_branch", cond)
	l.emitStmts(st.Then)
	l.emit("jmp endif")
	for _, e := range st.Elifs {
		ec := l.emitExpr(e.Cond)
		l.emit("label else_branch:")
		l.emit("if not %s goto else_branch", ec)
		l.emitStmts(e.Then)
		l.emit("jmp endif")
	}
	l.emit("label else_branch:")
	l.emitStmts(st.Else)
	l.emit("label endif:")
}

func (l *lowerer) emitCase(st *ir.Case) {
	subj := l.emitExpr(st.Subj)
	for i, arm := range st.Arms {
		if arm.Others {
			l.emit("label case_arm_%d:", i)
			l.emitStmts(arm.Stmts)
			continue
		}
		for _, c := range arm.Choices {
			l.emit("if %s == %d goto case_arm_%d", subj, c, i)
		}
	}
	l.emit("jmp case_end")
	for i, arm := range st.Arms {
		if arm.Others {
			continue
		}
		l.emit("label case_arm_%d:", i)
		l.emitStmts(arm.Stmts)
		l.emit("jmp case_end")
	}
	l.emit("label case_end:")
}

func (l *lowerer) emitLoop(st *ir.Loop) {
	if st.Kind == ir.LoopFor {
		l.emitForLoop(st)
		return
	}
	l.emit("label loop_start_%s:", st.Label)
	if st.Kind == ir.LoopWhile {
		c := l.emitExpr(st.Cond)
		l.emit("if not %s goto loop_exit_%s", c, st.Label)
	}
	l.emitStmts(st.Stmts)
	l.emit("jmp loop_start_%s", st.Label)
	l.emit("label loop_exit_%s:", st.Label)
}

// emitForLoop lowers `for I in [reverse] Low..High loop`: the loop
// variable is initialized once before entry (at High under Reverse, at
// Low otherwise), compared against the opposite bound at the top of each
// iteration, and stepped after the body runs.
func (l *lowerer) emitForLoop(st *ir.Loop) {
	name := st.Var.Name
	lo := l.emitExpr(st.Low)
	if st.High == nil {
		l.emit("%s = %s", name, lo)
		l.emit("label loop_start_%s:", st.Label)
		l.emitStmts(st.Stmts)
		l.emit("jmp loop_start_%s", st.Label)
		l.emit("label loop_exit_%s:", st.Label)
		return
	}
	hi := l.emitExpr(st.High)
	if st.Reverse {
		l.emit("%s = %s", name, hi)
	} else {
		l.emit("%s = %s", name, lo)
	}
	l.emit("label loop_start_%s:", st.Label)
	if st.Reverse {
		l.emit("if %s < %s goto loop_exit_%s", name, lo, st.Label)
	} else {
		l.emit("if %s > %s goto loop_exit_%s", name, hi, st.Label)
	}
	l.emitStmts(st.Stmts)
	if st.Reverse {
		l.emit("%s = %s - 1", name, name)
	} else {
		l.emit("%s = %s + 1", name, name)
	}
	l.emit("jmp loop_start_%s", st.Label)
	l.emit("label loop_exit_%s:", st.Label)
}

func (l *lowerer) emitRaise(st *ir.Raise) {
	l.m.extern("except.raise")
	name := "others"
	if st.Exception != nil {
		name = st.Exception.Name
		l.m.extern("except.raise")
	}
	l.emit("call except.raise(%s)", name)
}

// emitExpr lowers an expression, inserting runtime checks (unless
// Options.SuppressChecks is set), and returns the pseudo-register
// or literal text naming the result.
func (l *lowerer) emitExpr(e ir.Expr) string {
	switch x := e.(type) {
	case *ir.Const:
		switch {
		case x.IsInt:
			return fmt.Sprintf("%d", x.Int)
		case x.IsReal:
			return fmt.Sprintf("%g", x.Real)
		case x.IsStr:
			label := fmt.Sprintf("@str%d", len(l.m.Rodata))
			l.m.Rodata = append(l.m.Rodata, RodataEntry{Label: label, Value: x.Str})
			return label
		default:
			return "null"
		}
	case *ir.NameRef:
		if x.Entity != nil {
			return x.Entity.Name
		}
		return "<unknown>"
	case *ir.Convert:
		v := l.emitExpr(x.From)
		if !x.Checked || l.opts.SuppressChecks {
			return fmt.Sprintf("convert(%s -> %s)", v, typeRepr(x.To))
		}
		l.m.extern("except.raise")
		t := l.newTemp()
		l.emit("%s = range_check convert(%s -> %s)", t, v, typeRepr(x.To))
		return t
	case *ir.BinOp:
		l.m.extern("except.raise")
		left := l.emitExpr(x.Left)
		right := l.emitExpr(x.Right)
		t := l.newTemp()
		switch x.Op {
		case "/", "MOD", "REM":
			if !l.opts.SuppressChecks {
				l.emit("division_check %s", right)
			}
		}
		l.emit("%s = %s %s, %s", t, x.Op, left, right)
		if x.Checked && !l.opts.SuppressChecks {
			l.emit("overflow_check %s", t)
		}
		return t
	case *ir.UnOp:
		operand := l.emitExpr(x.Operand)
		t := l.newTemp()
		l.emit("%s = %s %s", t, x.Op, operand)
		return t
	case *ir.Call:
		var args []string
		for _, a := range x.Args {
			args = append(args, l.emitExpr(a))
		}
		t := l.newTemp()
		name := "<unknown>"
		if x.Callee != nil {
			name = x.Callee.Name
		}
		l.emit("%s = call %s(%s)", t, name, joinArgs(args))
		return t
	case *ir.IndexAccess:
		arr := l.emitExpr(x.Array)
		var idxs []string
		for _, ix := range x.Indices {
			idxs = append(idxs, l.emitExpr(ix))
		}
		t := l.newTemp()
		if x.NeedsCheck && !l.opts.SuppressChecks {
			l.m.extern("except.raise")
			l.emit("index_check %s, [%s]", arr, joinArgs(idxs))
		}
		l.emit("%s = index %s, [%s]", t, arr, joinArgs(idxs))
		return t
	case *ir.FieldAccess:
		rec := l.emitExpr(x.Record)
		if x.NeedsDiscriminantCheck && !l.opts.SuppressChecks {
			l.m.extern("except.raise")
			l.emit("discriminant_check %s, %s", rec, x.Component)
		}
		t := l.newTemp()
		l.emit("%s = field %s, %s", t, rec, x.Component)
		return t
	case *ir.Deref:
		ptr := l.emitExpr(x.Operand)
		if !l.opts.SuppressChecks {
			l.m.extern("except.raise")
			l.emit("null_check %s", ptr)
		}
		t := l.newTemp()
		l.emit("%s = deref %s", t, ptr)
		return t
	case *ir.Aggregate:
		t := l.newTemp()
		l.emit("%s = aggregate(%s)", t, typeRepr(x.Type))
		for _, elem := range x.Elements {
			v := l.emitExpr(elem.Value)
			if elem.Index < 0 {
				l.emit("store_field %s, others, %s", t, v)
			} else {
				l.emit("store_field %s, %d, %s", t, elem.Index, v)
			}
		}
		return t
	case *ir.Attribute:
		var args []string
		for _, a := range x.Args {
			args = append(args, l.emitExpr(a))
		}
		prefix := l.emitExpr(x.Prefix)
		t := l.newTemp()
		l.m.extern("text_io." + x.Name)
		l.emit("%s = call text_io.%s(%s, %s)", t, x.Name, prefix, joinArgs(args))
		return t
	default:
		fault.Raise("codegen: unhandled expression kind %T", x)
		return ""
	}
}

func joinArgs(args []string) string {
	out := ""
	for i, a := range args {
		if i > 0 {
			out += ", "
		}
		out += a
	}
	return out
}
