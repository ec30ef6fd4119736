package types

import "testing"

func TestInternIntegerSharesIdenticalRanges(t *testing.T) {
	tb := NewTable()
	a := tb.InternInteger("", -10, 10)
	b := tb.InternInteger("", -10, 10)
	if a != b {
		t.Fatalf("expected identical integer ranges to intern to the same pointer")
	}
	if a.Integer.Bits != 8 {
		t.Fatalf("Bits = %d, want 8", a.Integer.Bits)
	}
}

func TestInternIntegerDistinctRangesDiffer(t *testing.T) {
	tb := NewTable()
	a := tb.InternInteger("", 0, 10)
	b := tb.InternInteger("", 0, 20)
	if a == b {
		t.Fatalf("expected distinct ranges to produce distinct types")
	}
}

func TestRecordsAreNeverInterned(t *testing.T) {
	tb := NewTable()
	info := &RecordInfo{Components: []Component{{Name: "X", Type: tb.InternInteger("", 0, 1)}}}
	a := tb.NewRecord("R", info)
	b := tb.NewRecord("R", info)
	if a == b {
		t.Fatalf("expected two NewRecord calls to produce distinct record types")
	}
}

func TestAccessPlaceholderResolvesOnce(t *testing.T) {
	tb := NewTable()
	ph := NewAccessPlaceholder(LifetimeLibrary)
	if ph.IsResolved() {
		t.Fatalf("fresh placeholder should be unresolved")
	}
	record := tb.NewRecord("Node", &RecordInfo{})
	ph.Resolve(record)
	if !ph.IsResolved() {
		t.Fatalf("expected placeholder to be resolved")
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("expected second Resolve to panic")
		}
	}()
	ph.Resolve(record)
}

func TestPredefinedExceptionIdentitiesAreFixed(t *testing.T) {
	tb := NewTable()
	p := NewPredefined(tb)
	if p.Exceptions["CONSTRAINT_ERROR"] != ExceptionConstraintError {
		t.Fatalf("Constraint_Error identity mismatch")
	}
	if p.Exceptions["TASKING_ERROR"] != ExceptionTaskingError {
		t.Fatalf("Tasking_Error identity mismatch")
	}
}

func TestExceptionAllocatorStartsAfterPredefined(t *testing.T) {
	a := NewExceptionAllocator()
	first := a.Allocate()
	if first <= ExceptionTaskingError {
		t.Fatalf("user exception id %d collides with predefined block", first)
	}
	second := a.Allocate()
	if second != first+1 {
		t.Fatalf("expected sequential allocation")
	}
}

func TestUniversalKindsReportIsUniversal(t *testing.T) {
	tb := NewTable()
	p := NewPredefined(tb)
	if !p.UniversalInteger.IsUniversal() {
		t.Fatalf("expected universal integer to report IsUniversal")
	}
	if p.Integer.IsUniversal() {
		t.Fatalf("did not expect Integer to report IsUniversal")
	}
}
