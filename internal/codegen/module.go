// Package codegen lowers internal/ir to a textual low-level IR module:
// external runtime declarations, one global per library-level variable,
// one function per subprogram, string literal constants, and well-known
// exception identity globals. The textual rendering is fmt.Fprintf-driven
// section headers over a strings.Builder, since this target has no
// bytecode VM of its own, only a textual module meant for an external
// backend.
package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/adalang/adac/internal/ir"
	"github.com/adalang/adac/internal/types"
	"github.com/maruel/natural"
)

// Module is the textual low-level IR for one compilation unit.
type Module struct {
	Name       string
	Externs    []string // runtime ABI symbols referenced by this module
	Globals    []Global
	Rodata     []RodataEntry
	Exceptions []ExceptionGlobal
	Functions  []*Function

	externSet map[string]bool
}

// Global is one library-level variable, zero-initialized at elaboration.
type Global struct {
	Name string
	Type string
}

// RodataEntry is one string literal constant.
type RodataEntry struct {
	Label string
	Value string
}

// ExceptionGlobal is a well-known exception identity.
type ExceptionGlobal struct {
	Name string
	ID   uint64
}

// Function is one lowered subprogram body.
type Function struct {
	Name   string
	Params []string
	Ret    string
	Lines  []string
}

// Options controls check emission. SuppressChecks is set by the caller
// (the --no-checks flag or the project file) for a whole compile; no
// pragma is recognized to suppress checks from within a unit.
type Options struct {
	SuppressChecks bool
}

// Lower translates a typed IR unit into a textual low-level IR module.
func Lower(u *ir.Unit, opts Options) *Module {
	m := &Module{Name: u.Name, externSet: make(map[string]bool)}
	lw := &lowerer{m: m, opts: opts}

	m.Exceptions = []ExceptionGlobal{
		{Name: "CONSTRAINT_ERROR", ID: uint64(types.ExceptionConstraintError)},
		{Name: "NUMERIC_ERROR", ID: uint64(types.ExceptionNumericError)},
		{Name: "PROGRAM_ERROR", ID: uint64(types.ExceptionProgramError)},
		{Name: "STORAGE_ERROR", ID: uint64(types.ExceptionStorageError)},
		{Name: "TASKING_ERROR", ID: uint64(types.ExceptionTaskingError)},
	}

	for _, g := range u.Globals {
		m.Globals = append(m.Globals, Global{Name: g.Name, Type: typeRepr(g.Type)})
	}
	for _, sub := range u.Subprograms {
		m.Functions = append(m.Functions, lw.lowerSubprogram(sub))
	}
	if len(u.Init) > 0 {
		fn := &Function{Name: u.Name + "$elab", Ret: "void"}
		lw.fn = fn
		lw.emitStmts(u.Init)
		m.Functions = append(m.Functions, fn)
	}

	// Sorted naturally rather than lexically so extern groups with numeric
	// suffixes (frame1, frame2, ..., frame10) render in call order instead
	// of ASCII order, which matters for a human reading the emitted module.
	sort.Slice(m.Externs, func(i, j int) bool { return natural.Less(m.Externs[i], m.Externs[j]) })
	return m
}

func (m *Module) extern(name string) {
	if !m.externSet[name] {
		m.externSet[name] = true
		m.Externs = append(m.Externs, name)
	}
}

// String renders the module in its textual low-level IR form: external
// declarations, exception identity globals, globals, rodata, then one
// function per subprogram.
func (m *Module) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "module %s\n\n", m.Name)

	if len(m.Externs) > 0 {
		b.WriteString("externs:\n")
		for _, e := range m.Externs {
			fmt.Fprintf(&b, "  extern %s\n", e)
		}
		b.WriteString("\n")
	}

	if len(m.Exceptions) > 0 {
		b.WriteString("exceptions:\n")
		for _, e := range m.Exceptions {
			fmt.Fprintf(&b, "  %s = %d\n", e.Name, e.ID)
		}
		b.WriteString("\n")
	}

	if len(m.Globals) > 0 {
		b.WriteString("globals:\n")
		for _, g := range m.Globals {
			fmt.Fprintf(&b, "  global %s : %s = zero\n", g.Name, g.Type)
		}
		b.WriteString("\n")
	}

	if len(m.Rodata) > 0 {
		b.WriteString("rodata:\n")
		for _, r := range m.Rodata {
			fmt.Fprintf(&b, "  %s = %q\n", r.Label, r.Value)
		}
		b.WriteString("\n")
	}

	for _, fn := range m.Functions {
		fmt.Fprintf(&b, "function %s(%s) -> %s:\n", fn.Name, strings.Join(fn.Params, ", "), fn.Ret)
		for _, line := range fn.Lines {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}

// typeRepr renders a semantic type to the textual form used by
// value-representation comments.
func typeRepr(t *types.Type) string {
	if t == nil {
		return "i64"
	}
	switch t.Kind {
	case types.KindInteger:
		return fmt.Sprintf("i%d", t.Integer.Bits)
	case types.KindFloat:
		return fmt.Sprintf("f%d", t.Float.Bits)
	case types.KindEnum:
		return "i32"
	case types.KindArray:
		if t.Array.Fat {
			return "fatptr"
		}
		return "array<" + typeRepr(t.Array.Component) + ">"
	case types.KindRecord:
		return "struct " + t.Name
	case types.KindAccess:
		return "ptr"
	case types.KindTask:
		return "taskptr"
	default:
		return "i64"
	}
}
