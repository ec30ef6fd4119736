// Package fault carries internal compiler invariant violations as a
// typed panic value distinct from the Go errors every other stage
// returns, so cmd/adac can tell "a bug in the compiler" apart from "the
// user's program has an error" at the point of recovery.
package fault

import "fmt"

// Fault is raised via panic when the compiler detects its own
// assertion failure rather than a problem with the input program.
type Fault struct {
	Message string
}

func (f *Fault) Error() string { return f.Message }

// Raise panics with a Fault built from format/args, the compiler's
// internal assertion helper for conditions that should never occur.
func Raise(format string, args ...any) {
	panic(&Fault{Message: fmt.Sprintf(format, args...)})
}
