// Package adac is the embeddable compiler facade: lexer -> parser ->
// semantic analyzer -> codegen, wired together the way cmd/adac's
// subcommands drive them, for callers that want to compile without
// shelling out.
package adac

import (
	"fmt"

	"github.com/adalang/adac/internal/codegen"
	"github.com/adalang/adac/internal/diag"
	"github.com/adalang/adac/internal/lexer"
	"github.com/adalang/adac/internal/parser"
	"github.com/adalang/adac/internal/semantic"
	"github.com/adalang/adac/internal/source"
)

// Options configures one compilation run.
type Options struct {
	SuppressChecks bool
}

// Result is one compiled unit's outputs.
type Result struct {
	Module *codegen.Module
	Diags  *diag.Bag
}

// CompileFile reads path, decoding its source encoding, and compiles it
// through every phase.
func CompileFile(path string, opts Options) (*Result, error) {
	f, err := source.Load(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return CompileSource(f.Name, f.Text, opts), nil
}

// CompileSource compiles already-decoded source text named name.
func CompileSource(name, text string, opts Options) *Result {
	bag := &diag.Bag{}

	l := lexer.New(name, text)
	p := parser.New(name, l)
	unit := p.ParseCompilationUnit()

	for _, e := range l.Errors() {
		bag.Add(diag.Diagnostic{Kind: diag.KindLexical, Severity: diag.SeverityError, Message: e.Message, Pos: e.Pos, Source: text})
	}
	for _, e := range p.Errors() {
		bag.Add(diag.Diagnostic{Kind: diag.KindSyntactic, Severity: diag.SeverityError, Message: e.Message, Pos: e.Pos, Source: text})
	}
	if bag.HasErrors() {
		return &Result{Diags: bag}
	}

	analyzer := semantic.New()
	irUnit := analyzer.AnalyzeCompilationUnit(unit)
	for _, e := range analyzer.Errors() {
		bag.Add(diag.Diagnostic{Kind: diag.KindSemantic, Severity: diag.SeverityError, Message: e.Message, Pos: e.Pos, Source: text})
	}
	if bag.HasErrors() {
		return &Result{Diags: bag}
	}

	mod := codegen.Lower(irUnit, codegen.Options{SuppressChecks: opts.SuppressChecks})
	return &Result{Module: mod, Diags: bag}
}
