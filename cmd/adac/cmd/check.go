package cmd

import (
	"fmt"
	"os"

	"github.com/adalang/adac/internal/diag"
	"github.com/adalang/adac/internal/lexer"
	"github.com/adalang/adac/internal/parser"
	"github.com/adalang/adac/internal/semantic"
	"github.com/adalang/adac/internal/source"
	"github.com/spf13/cobra"
)

var checkJSON bool

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Run semantic analysis only and print diagnostics",
	Long:  `Lex, parse, and semantically analyze a compilation unit without generating code.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&checkJSON, "json-errors", false, "print diagnostics as JSON")
}

func runCheck(_ *cobra.Command, args []string) error {
	f, err := source.Load(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	bag := &diag.Bag{}
	l := lexer.New(f.Name, f.Text)
	p := parser.New(f.Name, l)
	unit := p.ParseCompilationUnit()

	for _, e := range l.Errors() {
		bag.Add(diag.Diagnostic{Kind: diag.KindLexical, Severity: diag.SeverityError, Message: e.Message, Pos: e.Pos, Source: f.Text})
	}
	for _, e := range p.Errors() {
		bag.Add(diag.Diagnostic{Kind: diag.KindSyntactic, Severity: diag.SeverityError, Message: e.Message, Pos: e.Pos, Source: f.Text})
	}

	if !bag.HasErrors() {
		analyzer := semantic.New()
		analyzer.AnalyzeCompilationUnit(unit)
		for _, e := range analyzer.Errors() {
			bag.Add(diag.Diagnostic{Kind: diag.KindSemantic, Severity: diag.SeverityError, Message: e.Message, Pos: e.Pos, Source: f.Text})
		}
	}

	if err := printDiagnostics(bag, checkJSON); err != nil {
		return err
	}
	if bag.HasErrors() {
		exitCode = 1
		return fmt.Errorf("semantic analysis failed with %d error(s)", len(bag.Diagnostics()))
	}
	fmt.Println("no errors")
	return nil
}

func printDiagnostics(bag *diag.Bag, jsonOut bool) error {
	if len(bag.Diagnostics()) == 0 {
		return nil
	}
	if jsonOut {
		out, err := bag.FormatJSON()
		if err != nil {
			return fmt.Errorf("formatting diagnostics: %w", err)
		}
		fmt.Fprintln(os.Stderr, out)
		return nil
	}
	fmt.Fprint(os.Stderr, bag.FormatText())
	return nil
}
