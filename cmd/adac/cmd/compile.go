package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adalang/adac/internal/codegen"
	"github.com/adalang/adac/internal/config"
	"github.com/adalang/adac/internal/diag"
	"github.com/adalang/adac/internal/ir"
	"github.com/adalang/adac/internal/lexer"
	"github.com/adalang/adac/internal/parser"
	"github.com/adalang/adac/internal/semantic"
	"github.com/adalang/adac/internal/source"
	"github.com/kr/pretty"
	"github.com/spf13/cobra"
	tidwallpretty "github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

var (
	compileOutput     string
	compileNoChecks   bool
	compileIROnly     bool
	compileJSONErrors bool
	compileDumpIR     bool
)

var compileCmd = &cobra.Command{
	Use:   "compile [files...]",
	Short: "Compile one or more compilation units to a textual low-level IR module",
	Long: `Compile runs the full pipeline over each file — lex, parse, semantic
analysis, elaboration ordering, and code generation — and writes one
textual low-level IR module per compiled file.

Examples:
  adac compile unit.adb
  adac compile -o build/unit.ir unit.adb
  adac compile --no-checks --emit-ir-only pkg.ads pkg.adb`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringVarP(&compileOutput, "output", "o", "", "output file for a single input (default: <input>.ir; with multiple inputs each writes <input>.ir)")
	compileCmd.Flags().BoolVar(&compileNoChecks, "no-checks", false, "suppress runtime range/index/overflow checks")
	compileCmd.Flags().BoolVar(&compileIROnly, "emit-ir-only", false, "emit the textual IR without writing a build manifest")
	compileCmd.Flags().BoolVar(&compileJSONErrors, "json-errors", false, "print diagnostics as JSON")
	compileCmd.Flags().BoolVar(&compileDumpIR, "dump-typed-ir", false, "print the pre-codegen typed IR tree to stderr for debugging")
}

func runCompile(_ *cobra.Command, args []string) error {
	pf, err := config.Load("adac.yaml")
	if err != nil {
		pf = &config.ProjectFile{}
	}
	effective := pf.Merge(compileOutput, compileNoChecks, compileIROnly)

	bag := &diag.Bag{}
	analyzer := semantic.New()

	type compiled struct {
		name string
		unit *ir.Unit
	}
	var units []compiled

	for _, filename := range args {
		f, err := source.Load(filename)
		if err != nil {
			return fmt.Errorf("reading %s: %w", filename, err)
		}

		l := lexer.New(f.Name, f.Text)
		p := parser.New(f.Name, l)
		cu := p.ParseCompilationUnit()

		for _, e := range l.Errors() {
			bag.Add(diag.Diagnostic{Kind: diag.KindLexical, Severity: diag.SeverityError, Message: e.Message, Pos: e.Pos, Source: f.Text})
		}
		for _, e := range p.Errors() {
			bag.Add(diag.Diagnostic{Kind: diag.KindSyntactic, Severity: diag.SeverityError, Message: e.Message, Pos: e.Pos, Source: f.Text})
		}
		if bag.HasErrors() {
			continue
		}

		irUnit := analyzer.AnalyzeCompilationUnit(cu)
		units = append(units, compiled{name: filename, unit: irUnit})
	}

	for _, e := range analyzer.Errors() {
		bag.Add(diag.Diagnostic{Kind: diag.KindSemantic, Severity: diag.SeverityError, Message: e.Message, Pos: e.Pos})
	}

	if err := printDiagnostics(bag, compileJSONErrors); err != nil {
		return err
	}
	if bag.HasErrors() {
		exitCode = 1
		return fmt.Errorf("compilation failed with %d error(s)", len(bag.Diagnostics()))
	}

	// Elaboration ordering
	// names which unit must be linked, and hence elaborated, before which;
	// it is recorded in the build manifest for a linker/loader to honor.
	order := analyzer.ElaborationOrder()

	opts := codegen.Options{SuppressChecks: effective.SuppressChecks}
	outputs := make([]string, 0, len(units))
	for _, c := range units {
		if compileDumpIR {
			fmt.Fprintf(os.Stderr, "-- typed IR: %s --\n", c.name)
			pretty.Fprintf(os.Stderr, "%# v\n", c.unit)
		}
		mod := codegen.Lower(c.unit, opts)
		outFile := outputPathFor(c.name, effective.Output, len(units))
		if err := os.WriteFile(outFile, []byte(mod.String()), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", outFile, err)
		}
		outputs = append(outputs, outFile)
		fmt.Printf("compiled %s -> %s\n", c.name, outFile)
	}

	if !effective.EmitIROnly {
		if err := writeManifest(outputs, order); err != nil {
			return fmt.Errorf("writing build manifest: %w", err)
		}
	}

	return nil
}

// writeManifest records the emitted modules and their elaboration order
// so IDE tooling can inspect a prior build without re-running the
// compiler, via config.ReadManifestField.
func writeManifest(outputs, elaborationOrder []string) error {
	doc := "{}"
	for i, o := range outputs {
		var err error
		if doc, err = sjson.Set(doc, fmt.Sprintf("modules.%d", i), o); err != nil {
			return err
		}
	}
	for i, u := range elaborationOrder {
		var err error
		if doc, err = sjson.Set(doc, fmt.Sprintf("elaborationOrder.%d", i), u); err != nil {
			return err
		}
	}
	return os.WriteFile("adac-build.json", []byte(tidwallpretty.Pretty([]byte(doc))), 0644)
}

func outputPathFor(input, override string, fileCount int) string {
	if override != "" && fileCount == 1 {
		return override
	}
	ext := filepath.Ext(input)
	if ext != "" {
		return strings.TrimSuffix(input, ext) + ".ir"
	}
	return input + ".ir"
}
