// Package types implements the resolved, tagged-union semantic type
// representation produced by internal/semantic and consumed by
// internal/ir and internal/codegen.
//
// Types are interned: two structurally identical acyclic types produced at
// different points of analysis compare equal by pointer. Recursive types
// (an access type designating a record that embeds, indirectly, an access
// back to itself) use a placeholder-then-fixup protocol since structural
// hashing cannot terminate on a cyclic graph — see NewAccessPlaceholder.
package types

import "fmt"

// Kind discriminates the tagged Type variant.
type Kind int

const (
	KindInteger Kind = iota
	KindEnum
	KindFloat
	KindFixed
	KindArray
	KindRecord
	KindAccess
	KindTask
	KindProtected
	KindPrivate
	KindUniversalInteger
	KindUniversalReal
	KindUniversalFixed
	KindUniversalAccess
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindEnum:
		return "enumeration"
	case KindFloat:
		return "floating"
	case KindFixed:
		return "fixed"
	case KindArray:
		return "array"
	case KindRecord:
		return "record"
	case KindAccess:
		return "access"
	case KindTask:
		return "task"
	case KindProtected:
		return "protected"
	case KindPrivate:
		return "private"
	case KindUniversalInteger:
		return "universal integer"
	case KindUniversalReal:
		return "universal real"
	case KindUniversalFixed:
		return "universal fixed"
	case KindUniversalAccess:
		return "universal access"
	default:
		return "?"
	}
}

// Type is the common handle for every semantic type. Per-kind details
// live in the pointer field matching Kind, and a Type is always held
// behind a *Type pointer obtained from the Table so identity comparison
// is valid.
type Type struct {
	Kind Kind
	Name string // declared name, or "" for an anonymous subtype

	// KindInteger
	Integer *IntegerInfo
	// KindEnum
	Enum *EnumInfo
	// KindFloat
	Float *FloatInfo
	// KindFixed
	Fixed *FixedInfo
	// KindArray
	Array *ArrayInfo
	// KindRecord
	Record *RecordInfo
	// KindAccess
	Access *AccessInfo
	// KindTask, KindProtected
	Entries []*EntryProfile
	// KindPrivate
	Private *PrivateInfo
}

// String renders a human-readable type description, used in diagnostics
// and in the textual low-level IR's type annotations.
func (t *Type) String() string {
	if t.Name != "" {
		return t.Name
	}
	switch t.Kind {
	case KindInteger:
		return fmt.Sprintf("range %d .. %d", t.Integer.Low, t.Integer.High)
	case KindArray:
		return fmt.Sprintf("array of %s", t.Array.Component.String())
	case KindAccess:
		return "access " + t.Access.Designated.String()
	default:
		return t.Kind.String()
	}
}

// IntegerInfo describes a signed or modular integer range type.
type IntegerInfo struct {
	Low, High int64
	Signed    bool
	Modulus   uint64 // non-zero for a modular type; Low/High then describe 0..Modulus-1
	Bits      int    // bit width chosen to cover the range: 8, 16, 32, or 64
}

// EnumInfo describes an ordered enumeration. Boolean and Character are
// ordinary EnumInfo values, built by NewPredefined.
type EnumInfo struct {
	Literals     []string // canonical spellings, in declaration order; position == index
	IsCharacter  bool
	IsBoolean    bool
}

// Pos returns the 0-based position of a literal, or -1 if absent.
func (e *EnumInfo) Pos(canonical string) int {
	for i, l := range e.Literals {
		if l == canonical {
			return i
		}
	}
	return -1
}

// FloatInfo describes a floating-point type by requested decimal digits
// of precision, mapped to an IEEE representation width.
type FloatInfo struct {
	Digits int
	Bits   int // 32, 64, or 80
	Low    float64
	High   float64
	HasRange bool
}

// FixedInfo describes an ordinary or decimal fixed-point type.
type FixedInfo struct {
	Delta    float64
	Small    float64 // defaults to Delta unless a representation clause overrides it
	Digits   int     // non-zero for decimal fixed point
	Low      float64
	High     float64
}

// Bound is one array dimension: either statically Constrained or
// Unconstrained (the bounds are supplied by the fat pointer at runtime).
type Bound struct {
	Unconstrained bool
	Low, High     int64 // valid only when !Unconstrained
	IndexType     *Type
}

// ArrayInfo describes an array's index dimensions and component type.
type ArrayInfo struct {
	Dims      []Bound
	Component *Type
	// Fat is true when any dimension is unconstrained, or the component
	// itself requires indirection — lowered to the fat-pointer
	// representation {data, bounds}.
	Fat bool
}

// Component is one record field.
type Component struct {
	Name    string
	Type    *Type
	Default bool // has a default expression (held on the originating ast.RecordComponent)
}

// Variant is one arm of a record's variant part, keyed by the
// discriminant values in Choices; Others marks the "others" arm.
type Variant struct {
	Choices    []int64
	Others     bool
	Components []Component
	Nested     *VariantPart
}

// VariantPart is the variant-record discriminant dispatch: which
// discriminant selects, and the arms it selects among.
type VariantPart struct {
	Discriminant string
	Variants     []Variant
}

// RecordInfo describes a record's discriminants, fixed components, and
// optional variant part.
type RecordInfo struct {
	Discriminants []Component
	Components    []Component
	Variant       *VariantPart
	Tagged        bool
	Limited       bool
	Parent        *Type // non-nil for a tagged-type extension
}

// Lifetime classifies where an access type's collection lives, governing
// whether codegen must emit finalization bookkeeping at scope exit.
type Lifetime int

const (
	LifetimeLibrary Lifetime = iota
	LifetimeBlock
	LifetimeAnonymous
)

// AccessInfo describes an access (pointer) type.
type AccessInfo struct {
	Designated *Type
	Lifetime   Lifetime
	Constant   bool
	// resolved reports whether Designated has been fixed up after a
	// recursive-type placeholder; see NewAccessPlaceholder.
	resolved bool
}

// EntryProfile is one task or protected entry's call signature.
type EntryProfile struct {
	Name   string
	Params []Component
	// Family is non-nil for an entry family, giving its discrete index range.
	Family *Bound
}

// PrivateInfo holds the deferred full view of a private type, filled in
// once the corresponding package body (or later part of the same spec)
// completes it. FullView is nil until completion.
type PrivateInfo struct {
	Limited  bool
	FullView *Type
}

// NewAccessPlaceholder allocates an access type whose Designated field is
// not yet known, for use while resolving a record type that contains a
// self-referential (possibly indirect) access component. The caller must
// invoke Resolve once the designated type is available; until then the
// placeholder must not be interned or compared structurally.
func NewAccessPlaceholder(lifetime Lifetime) *Type {
	return &Type{
		Kind:   KindAccess,
		Access: &AccessInfo{Lifetime: lifetime},
	}
}

// Resolve completes a placeholder produced by NewAccessPlaceholder. It
// panics if called twice; callers own the single-assignment discipline
// since the fixup happens once per placeholder by construction.
func (t *Type) Resolve(designated *Type) {
	if t.Kind != KindAccess {
		panic("types: Resolve called on non-access type")
	}
	if t.Access.resolved {
		panic("types: access placeholder already resolved")
	}
	t.Access.Designated = designated
	t.Access.resolved = true
}

// IsResolved reports whether an access type's designated type is known.
// Always true for access types obtained any way other than
// NewAccessPlaceholder.
func (t *Type) IsResolved() bool {
	return t.Kind != KindAccess || t.Access.resolved
}

// IsUniversal reports whether t is one of the compile-time-only
// universal numeric kinds that must not survive into codegen.
func (t *Type) IsUniversal() bool {
	switch t.Kind {
	case KindUniversalInteger, KindUniversalReal, KindUniversalFixed, KindUniversalAccess:
		return true
	default:
		return false
	}
}

// IsDiscrete reports whether values of t can serve as a case choice, loop
// range, or array index: integer, modular, or enumeration types.
func (t *Type) IsDiscrete() bool {
	switch t.Kind {
	case KindInteger, KindEnum, KindUniversalInteger:
		return true
	default:
		return false
	}
}

// IsScalar reports whether t is a discrete or real type.
func (t *Type) IsScalar() bool {
	switch t.Kind {
	case KindInteger, KindEnum, KindFloat, KindFixed,
		KindUniversalInteger, KindUniversalReal, KindUniversalFixed:
		return true
	default:
		return false
	}
}
