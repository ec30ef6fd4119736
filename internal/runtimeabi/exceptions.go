package runtimeabi

import (
	"fmt"

	"github.com/adalang/adac/internal/types"
)

// ExceptionID identifies a raised exception by the same process-wide
// identity internal/types hands out, so separately compiled units agree
// on identity without a runtime registration step.
type ExceptionID = types.ExceptionID

const (
	ExceptionConstraintError = types.ExceptionConstraintError
	ExceptionNumericError    = types.ExceptionNumericError
	ExceptionProgramError    = types.ExceptionProgramError
	ExceptionStorageError    = types.ExceptionStorageError
	ExceptionTaskingError    = types.ExceptionTaskingError
)

// Exception is the payload carried across a raise; Go's panic/recover
// stands in for the native ABI's setjmp/longjmp buffer, keeping that
// contract at the ABI-naming level while using Go's own native
// unwinding underneath it.
type Exception struct {
	ID      ExceptionID
	Message string
}

func (e *Exception) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("exception %d", e.ID)
	}
	return fmt.Sprintf("exception %d: %s", e.ID, e.Message)
}

// Frame is one exception handler scope, pushed on entry to a block with
// a handled-sequence-of-statements and popped on normal exit.
type Frame struct {
	prev    *Frame
	handles func(id ExceptionID) bool
}

// PushFrame installs a new handler frame on ctx, returning it so the
// caller can pass it back to PopFrame. handles reports whether this
// frame's handlers claim the given exception identity. The frame chain
// is not walked on a raise: Raise panics, and the deferred recover in
// RunProtected dispatches by the handlers it was given.
func (ctx *Context) PushFrame(handles func(id ExceptionID) bool) *Frame {
	f := &Frame{prev: ctx.frame, handles: handles}
	ctx.frame = f
	return f
}

// PopFrame removes the top frame, restoring the frame chain to what it
// was before the matching PushFrame. It is a no-op if f is not the
// current top frame (normal exit already unwound further, e.g. via a
// return inside the handled region).
func (ctx *Context) PopFrame(f *Frame) {
	if ctx.frame == f {
		ctx.frame = f.prev
	}
}

// Raise signals id by recording it as the current exception and
// panicking; the innermost enclosing RunProtected recovers the panic,
// runs the finalizers registered since its entry in LIFO order, and
// dispatches to its handler. An unhandled exception propagates out of
// RunProtected as a Go panic, to be reported as a default diagnostic
// with a non-zero exit code.
func (ctx *Context) Raise(id ExceptionID, format string, args ...any) {
	exc := &Exception{ID: id, Message: fmt.Sprintf(format, args...)}
	ctx.current = exc
	panic(exc)
}

// Reraise propagates the exception currently being handled, for a
// handler body that ends in a bare `raise;`.
func (ctx *Context) Reraise() {
	if ctx.current == nil {
		ctx.Raise(ExceptionProgramError, "reraise outside a handler")
	}
	panic(ctx.current)
}

// CurrentException returns the identity of the exception being handled,
// valid only inside a handler body.
func (ctx *Context) CurrentException() ExceptionID {
	if ctx.current == nil {
		return 0
	}
	return ctx.current.ID
}

// RunProtected runs body under a new exception frame. When body raises,
// the frame is popped first, then ctx's finalizers registered since entry
// run in LIFO order, then the handler registered for the exception's
// identity runs, else others, else the exception propagates. It is the reference
// runtime's stand-in for the push_frame/setjmp/dispatch/pop_frame
// sequence codegen emits around a handled block.
func (ctx *Context) RunProtected(body func(), handlers map[ExceptionID]func(), others func()) (err error) {
	mark := ctx.SecStack.Mark()
	frame := ctx.PushFrame(func(id ExceptionID) bool {
		if _, ok := handlers[id]; ok {
			return true
		}
		return others != nil
	})
	defer func() {
		ctx.PopFrame(frame)
		if r := recover(); r != nil {
			exc, ok := r.(*Exception)
			if !ok {
				panic(r)
			}
			ctx.finalizeTo(mark)
			ctx.current = exc
			if h, ok := handlers[exc.ID]; ok {
				h()
				return
			}
			if others != nil {
				others()
				return
			}
			panic(exc)
		}
		ctx.finalizeTo(mark)
	}()
	body()
	return nil
}
