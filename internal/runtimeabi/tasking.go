package runtimeabi

import (
	"sync"
	"time"
)

// TaskHandle is the runtime ABI's task_start/task_abort handle: one OS
// thread per source-level task.
type TaskHandle struct {
	ctx     *Context
	abort   chan struct{}
	done    chan struct{}
	once    sync.Once
	aborted bool
	mu      sync.Mutex
}

// TaskStart runs body in its own goroutine standing in for an OS
// thread, with a fresh per-task Context, and returns a handle the
// caller can abort or wait on.
func TaskStart(taskID string, body func(ctx *Context, h *TaskHandle)) *TaskHandle {
	h := &TaskHandle{
		ctx:   NewContext(taskID),
		abort: make(chan struct{}),
		done:  make(chan struct{}),
	}
	go func() {
		defer close(h.done)
		defer h.ctx.FinalizeAll()
		body(h.ctx, h)
	}()
	return h
}

// TaskAbort sets T's abort flag. The task
// observes it only at its own suspension points — there is no
// preemptive abort between them.
func (h *TaskHandle) TaskAbort() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.aborted {
		h.aborted = true
		close(h.abort)
	}
}

// Aborted reports whether this task's abort flag is set, the check a
// generated suspension point makes before raising Tasking_Error.
func (h *TaskHandle) Aborted() bool {
	select {
	case <-h.abort:
		return true
	default:
		return false
	}
}

// Join blocks until the task's body has returned.
func (h *TaskHandle) Join() { <-h.done }

// Delay suspends the calling task for the given microseconds, or until
// aborted, whichever comes first; an abort observed here raises
// Tasking_Error in the task's own context.
func Delay(ctx *Context, h *TaskHandle, microseconds int64) {
	if h != nil && h.Aborted() {
		ctx.Raise(ExceptionTaskingError, "delay interrupted by abort")
	}
	timer := time.NewTimer(time.Duration(microseconds) * time.Microsecond)
	defer timer.Stop()
	if h == nil {
		<-timer.C
		return
	}
	select {
	case <-timer.C:
	case <-h.abort:
		ctx.Raise(ExceptionTaskingError, "delay interrupted by abort")
	}
}

// rendezvousCall is one pending entry call, queued FIFO.
type rendezvousCall struct {
	params   any
	result   any
	complete chan struct{}
}

// Entry is a single task entry's FIFO rendezvous queue: concurrent
// entry calls to the same entry are accepted in the order they reached
// the queue.
type Entry struct {
	mu    sync.Mutex
	queue []*rendezvousCall
}

// NewEntry creates an empty entry queue.
func NewEntry() *Entry { return &Entry{} }

// EntryCall enqueues params and blocks until some accept_wait/accept_try
// call completes the rendezvous, returning the result the acceptor
// produced. complete_flag from the ABI contract is this call's closed
// channel.
func (e *Entry) EntryCall(ctx *Context, h *TaskHandle, params any) any {
	call := &rendezvousCall{params: params, complete: make(chan struct{})}
	e.mu.Lock()
	e.queue = append(e.queue, call)
	e.mu.Unlock()

	if h == nil {
		<-call.complete
		return call.result
	}
	select {
	case <-call.complete:
		return call.result
	case <-h.abort:
		ctx.Raise(ExceptionTaskingError, "entry call interrupted by abort")
		return nil
	}
}

// AcceptWait blocks until a call is queued, pops the oldest one (FIFO),
// runs handle against its parameters, and completes the rendezvous.
func (e *Entry) AcceptWait(handle func(params any) any) {
	for {
		if call, ok := e.popFront(); ok {
			e.complete(call, handle)
			return
		}
		time.Sleep(time.Millisecond)
	}
}

// AcceptTry attempts a non-blocking accept, reporting whether a call
// was waiting (the `select ... else` alternative's building block).
func (e *Entry) AcceptTry(handle func(params any) any) bool {
	call, ok := e.popFront()
	if !ok {
		return false
	}
	e.complete(call, handle)
	return true
}

func (e *Entry) popFront() (*rendezvousCall, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return nil, false
	}
	call := e.queue[0]
	e.queue = e.queue[1:]
	return call, true
}

// complete runs handle and signals the call's completion exactly
// once, the ABI's "complete_flag is set exactly once per call"
// guarantee.
func (e *Entry) complete(call *rendezvousCall, handle func(params any) any) {
	call.result = handle(call.params)
	close(call.complete)
}
