package cmd

import (
	"fmt"
	"os"

	"github.com/adalang/adac/internal/lexer"
	"github.com/adalang/adac/internal/parser"
	"github.com/adalang/adac/internal/source"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse an Ada compilation unit and print the resulting AST",
	Long:  `Parse a compilation unit and dump its untyped AST.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(_ *cobra.Command, args []string) error {
	f, err := source.Load(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	l := lexer.New(f.Name, f.Text)
	p := parser.New(f.Name, l)
	unit := p.ParseCompilationUnit()

	if len(p.Errors()) > 0 {
		for _, e := range p.Errors() {
			fmt.Fprintln(os.Stderr, e.Error())
		}
		exitCode = 1
		return fmt.Errorf("parsing failed with %d error(s)", len(p.Errors()))
	}

	fmt.Println(unit.String())
	return nil
}
