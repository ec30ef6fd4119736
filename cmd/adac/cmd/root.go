package cmd

import (
	"fmt"
	"os"

	"github.com/adalang/adac/internal/fault"
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "adac",
	Short: "Ada-family compiler front end and reference code generator",
	Long: `adac is a reference implementation of an Ada-family compiler pipeline:
lexer, parser, semantic analyzer, and a code generator emitting a textual
low-level IR meant to be handed to an external backend.

It is a from-scratch implementation in the spirit of a small, readable
Ada compiler front end — accumulate-and-continue diagnostics, a
case-insensitive symbol table, static evaluation, generic instantiation,
and elaboration ordering, all following the contracts such a compiler's
collaborators expect.`,
	Version: Version,
}

// Execute runs the root command and returns the process exit code: 0
// success, 1 compilation errors, 2 internal compiler error. It recovers
// a *fault.Fault panicked from deep in the pipeline the way a top-level
// command dispatcher recovers from an unexpected internal panic, but
// reports it as a distinct exit code rather than crashing the process.
func Execute() (code int) {
	defer func() {
		if r := recover(); r != nil {
			if f, ok := r.(*fault.Fault); ok {
				fmt.Fprintf(os.Stderr, "internal compiler error: %s\n", f.Message)
				code = 2
				return
			}
			panic(r)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		if code == 0 {
			code = 1
		}
		return code
	}
	return exitCode
}

// exitCode lets a RunE set a more specific code than the default
// 0/1 split (e.g. a successful run that still reports exit 1 because
// diagnostics were printed but returned as nil to avoid cobra's usage
// banner).
var exitCode int

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.SilenceUsage = true
}
