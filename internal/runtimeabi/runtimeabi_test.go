package runtimeabi

import (
	"strings"
	"sync"
	"testing"
)

func TestPow(t *testing.T) {
	t.Run("positive exponent", func(t *testing.T) {
		if got := Pow(2, 10); got != 1024 {
			t.Errorf("Pow(2, 10) = %d, want 1024", got)
		}
	})

	t.Run("zero exponent", func(t *testing.T) {
		if got := Pow(5, 0); got != 1 {
			t.Errorf("Pow(5, 0) = %d, want 1", got)
		}
	})

	t.Run("negative base one", func(t *testing.T) {
		if got := Pow(-1, 3); got != -1 {
			t.Errorf("Pow(-1, 3) = %d, want -1", got)
		}
		if got := Pow(-1, 4); got != 1 {
			t.Errorf("Pow(-1, 4) = %d, want 1", got)
		}
	})
}

func TestSecondaryStackMarkRelease(t *testing.T) {
	s := NewSecondaryStack()
	mark := s.Mark()
	buf := s.Alloc(16)
	if len(buf) != 16 {
		t.Fatalf("Alloc(16) returned %d bytes", len(buf))
	}
	if s.Mark() == mark {
		t.Fatalf("Mark() did not advance after Alloc")
	}
	s.Release(mark)
	if s.Mark() != mark {
		t.Errorf("Release did not restore mark, got %d want %d", s.Mark(), mark)
	}
}

func TestFinalizationRunsLIFO(t *testing.T) {
	ctx := NewContext("t1")
	var order []int
	ctx.PushFinalizer(1, func(any) { order = append(order, 1) })
	ctx.PushFinalizer(2, func(any) { order = append(order, 2) })
	ctx.PushFinalizer(3, func(any) { order = append(order, 3) })
	ctx.FinalizeAll()

	want := []int{3, 2, 1}
	if len(order) != len(want) {
		t.Fatalf("FinalizeAll ran %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("FinalizeAll order[%d] = %d, want %d", i, order[i], want[i])
		}
	}
}

func TestRunProtectedDispatchesToMatchingHandler(t *testing.T) {
	ctx := NewContext("t1")
	caught := false
	err := ctx.RunProtected(func() {
		ctx.Raise(ExceptionConstraintError, "boom")
	}, map[ExceptionID]func(){
		ExceptionConstraintError: func() { caught = true },
	}, nil)
	if err != nil {
		t.Fatalf("RunProtected returned %v, want nil", err)
	}
	if !caught {
		t.Errorf("expected handler for Constraint_Error to run")
	}
}

func TestRunProtectedUnhandledPropagates(t *testing.T) {
	ctx := NewContext("t1")
	defer func() {
		r := recover()
		exc, ok := r.(*Exception)
		if !ok {
			t.Fatalf("expected *Exception panic, got %v", r)
		}
		if exc.ID != ExceptionNumericError {
			t.Errorf("exc.ID = %d, want %d", exc.ID, ExceptionNumericError)
		}
	}()
	_ = ctx.RunProtected(func() {
		ctx.Raise(ExceptionNumericError, "divide by zero")
	}, map[ExceptionID]func(){
		ExceptionConstraintError: func() {},
	}, nil)
	t.Fatal("RunProtected should not return when the exception is unhandled")
}

func TestEntryRendezvousIsFIFO(t *testing.T) {
	entry := NewEntry()
	ctx := NewContext("caller")

	const calls = 5
	var wg sync.WaitGroup
	results := make([]int, calls)

	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r := entry.EntryCall(ctx, nil, i)
			results[i] = r.(int)
		}(i)
		// Serialize enqueue order so the test can assert exact FIFO order;
		// concurrent callers in production only guarantee queue order, not
		// wall-clock order.
		for {
			entry.mu.Lock()
			n := len(entry.queue)
			entry.mu.Unlock()
			if n == i+1 {
				break
			}
		}
	}

	var accepted []int
	for i := 0; i < calls; i++ {
		entry.AcceptWait(func(params any) any {
			n := params.(int)
			accepted = append(accepted, n)
			return n * 10
		})
	}
	wg.Wait()

	for i := 0; i < calls; i++ {
		if accepted[i] != i {
			t.Errorf("accept order[%d] = %d, want %d", i, accepted[i], i)
		}
		if results[i] != i*10 {
			t.Errorf("results[%d] = %d, want %d", i, results[i], i*10)
		}
	}
}

func TestTextIOPutAndImage(t *testing.T) {
	var out strings.Builder
	io_ := NewIO(&out, strings.NewReader(""))
	io_.PutString("hello")
	io_.PutInt(42)
	io_.NewLine()
	io_.Flush()

	want := "hello 42\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestGetLineReturnsFatString(t *testing.T) {
	ctx := NewContext("t1")
	io_ := NewIO(&strings.Builder{}, strings.NewReader("hello world\nsecond\n"))

	line := ctx.GetLine(io_)
	if line.String() != "hello world" {
		t.Errorf("GetLine = %q, want %q", line.String(), "hello world")
	}
	if line.Lo != 1 || line.Hi != int64(len("hello world")) {
		t.Errorf("GetLine bounds = [%d, %d]", line.Lo, line.Hi)
	}
}

func TestValueHelpersRoundTrip(t *testing.T) {
	ctx := NewContext("t1")
	if v := ValueInteger(ctx, " 42 "); v != 42 {
		t.Errorf("ValueInteger = %d, want 42", v)
	}
	if v := ValueEnum(ctx, []string{"RED", "GREEN", "BLUE"}, "green"); v != 1 {
		t.Errorf("ValueEnum = %d, want 1", v)
	}
}
