package cmd

import (
	"fmt"
	"os"

	"github.com/adalang/adac/internal/lexer"
	"github.com/adalang/adac/internal/source"
	"github.com/adalang/adac/internal/token"
	"github.com/spf13/cobra"
)

var (
	lexEval     string
	lexShowPos  bool
	onlyErrors  bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize an Ada source file and print the resulting tokens",
	Long: `Tokenize a compilation unit and print the resulting token stream.

Examples:
  adac lex unit.adb
  adac lex -e "X : Integer := 42;"
  adac lex --only-errors unit.adb`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)
	lexCmd.Flags().StringVarP(&lexEval, "eval", "e", "", "tokenize inline text instead of reading a file")
	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", true, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&onlyErrors, "only-errors", false, "show only illegal tokens")
}

func runLex(_ *cobra.Command, args []string) error {
	var name, text string
	if lexEval != "" {
		name, text = "<eval>", lexEval
	} else if len(args) == 1 {
		f, err := source.Load(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		name, text = f.Name, f.Text
	} else {
		return fmt.Errorf("either provide a file path or use -e for inline text")
	}

	l := lexer.New(name, text)
	errorCount := 0
	for {
		tok := l.NextToken()
		isIllegal := tok.Kind == token.ILLEGAL
		if isIllegal {
			errorCount++
		}
		if !onlyErrors || isIllegal {
			printToken(tok)
		}
		if tok.Kind == token.EOF {
			break
		}
	}

	if errorCount > 0 {
		exitCode = 1
		return fmt.Errorf("found %d illegal token(s)", errorCount)
	}
	return nil
}

func printToken(tok token.Token) {
	out := fmt.Sprintf("[%-12s]", tok.Kind)
	if tok.Literal == "" {
		out += fmt.Sprintf(" %s", tok.Kind)
	} else {
		out += fmt.Sprintf(" %q", tok.Literal)
	}
	if lexShowPos {
		out += fmt.Sprintf(" @%d:%d", tok.Pos.Line, tok.Pos.Column)
	}
	fmt.Fprintln(os.Stdout, out)
}
