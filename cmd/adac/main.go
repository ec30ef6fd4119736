// Command adac is the Ada-family compiler driver: lex, parse, check, and
// compile subcommands over a reference pipeline that ends in a textual
// low-level IR module.
package main

import (
	"os"

	"github.com/adalang/adac/cmd/adac/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
