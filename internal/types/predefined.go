package types

// Predefined holds the well-known types and exception identities that
// exist in every compilation without an explicit declaration — the
// implicit contents of package Standard.
type Predefined struct {
	Integer   *Type
	Natural   *Type
	Positive  *Type
	Boolean   *Type
	Character *Type
	Float     *Type
	String    *Type // array(Positive range <>) of Character

	UniversalInteger *Type
	UniversalReal    *Type
	UniversalFixed   *Type
	UniversalAccess  *Type

	Exceptions map[string]ExceptionID
}

// ExceptionID is a process-wide unique 64-bit exception identity.
// Standard exceptions have fixed well-known values so that
// separately-compiled units agree on their identity without a runtime
// registration step.
type ExceptionID uint64

const (
	ExceptionConstraintError ExceptionID = 1
	ExceptionNumericError    ExceptionID = 2
	ExceptionProgramError    ExceptionID = 3
	ExceptionStorageError    ExceptionID = 4
	ExceptionTaskingError    ExceptionID = 5
	// firstUserException is the first identity handed out by
	// internal/semantic for a user-declared exception.
	firstUserException ExceptionID = 1000
)

// NewPredefined builds the Standard environment against tb, interning the
// scalar types it defines.
func NewPredefined(tb *Table) *Predefined {
	boolean := tb.InternEnum("Boolean", []string{"FALSE", "TRUE"}, false, true)

	var charLiterals []string
	for c := 0; c < 256; c++ {
		charLiterals = append(charLiterals, string(rune(c)))
	}
	character := tb.InternEnum("Character", charLiterals, true, false)

	integer := tb.InternInteger("Integer", -2147483648, 2147483647)
	natural := tb.InternInteger("Natural", 0, 2147483647)
	positive := tb.InternInteger("Positive", 1, 2147483647)
	float := tb.InternFloat("Float", 6, false, 0, 0)

	str := tb.InternArray("String",
		[]Bound{{Unconstrained: true, IndexType: positive}},
		character,
	)

	return &Predefined{
		Integer:   integer,
		Natural:   natural,
		Positive:  positive,
		Boolean:   boolean,
		Character: character,
		Float:     float,
		String:    str,

		UniversalInteger: &Type{Kind: KindUniversalInteger, Name: "universal_integer"},
		UniversalReal:    &Type{Kind: KindUniversalReal, Name: "universal_real"},
		UniversalFixed:   &Type{Kind: KindUniversalFixed, Name: "universal_fixed"},
		UniversalAccess:  &Type{Kind: KindUniversalAccess, Name: "universal_access"},

		Exceptions: map[string]ExceptionID{
			"CONSTRAINT_ERROR": ExceptionConstraintError,
			"NUMERIC_ERROR":    ExceptionNumericError,
			"PROGRAM_ERROR":    ExceptionProgramError,
			"STORAGE_ERROR":    ExceptionStorageError,
			"TASKING_ERROR":    ExceptionTaskingError,
		},
	}
}

// ExceptionAllocator hands out fresh identities to user-declared
// exceptions, continuing after the predefined block reserved by
// ExceptionConstraintError..ExceptionTaskingError.
type ExceptionAllocator struct {
	next ExceptionID
}

// NewExceptionAllocator returns an allocator starting at the first
// identity available to user code.
func NewExceptionAllocator() *ExceptionAllocator {
	return &ExceptionAllocator{next: firstUserException}
}

// Allocate returns the next unused exception identity.
func (a *ExceptionAllocator) Allocate() ExceptionID {
	id := a.next
	a.next++
	return id
}
