package runtimeabi

// finalizerEntry is one scope-tied object/finalizer pair, pushed in
// declaration order and run in LIFO order on every exit path.
type finalizerEntry struct {
	mark     int
	object   any
	finalize func(any)
}

// Context is the per-task runtime state a generated subprogram threads
// through every ABI call: its secondary stack, its exception frame
// chain, and its finalization list. One Context per source-level task,
// since all three are strictly thread-local.
type Context struct {
	SecStack    *SecondaryStack
	frame       *Frame
	current     *Exception
	finalizers  []finalizerEntry
	TaskID      string
}

// NewContext creates a fresh per-task runtime context with its own
// secondary stack and empty finalization list.
func NewContext(taskID string) *Context {
	return &Context{SecStack: NewSecondaryStack(), TaskID: taskID}
}

// PushFinalizer registers finalize to run on object when the enclosing
// scope (identified by the current secondary-stack mark) exits, via
// the ABI's finalization "push".
func (ctx *Context) PushFinalizer(object any, finalize func(any)) {
	ctx.finalizers = append(ctx.finalizers, finalizerEntry{
		mark:     ctx.SecStack.Mark(),
		object:   object,
		finalize: finalize,
	})
}

// FinalizeAll runs every registered finalizer in LIFO order and clears
// the list, matching the ABI's "finalize_all (runs and clears)".
func (ctx *Context) FinalizeAll() {
	ctx.finalizeTo(0)
}

// finalizeTo runs, in LIFO order, every finalizer registered at or
// after mark, then truncates the list to the entries that predate it —
// the mechanism RunProtected uses to finalize exactly the scopes
// between a raise site and its handler.
func (ctx *Context) finalizeTo(mark int) {
	i := len(ctx.finalizers) - 1
	for ; i >= 0; i-- {
		e := ctx.finalizers[i]
		if e.mark < mark {
			break
		}
		e.finalize(e.object)
	}
	ctx.finalizers = ctx.finalizers[:i+1]
}

// Pow is the runtime ABI's fast-exponentiation arithmetic helper,
// reached only when the exponent isn't a static expression; a static
// `2 ** 10` is folded at compile time and never calls this at all.
func Pow(base, exp int64) int64 {
	if exp < 0 {
		if base == 1 {
			return 1
		}
		if base == -1 {
			if exp%2 == 0 {
				return 1
			}
			return -1
		}
		return 0
	}
	var result int64 = 1
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}
