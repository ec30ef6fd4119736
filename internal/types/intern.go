package types

import (
	"fmt"
	"sync"
)

// Table interns acyclic types by structural key so that two types built
// from separately-parsed declarations but describing the same range,
// enumeration, or array compare equal by pointer. Recursive types bypass
// interning entirely (see NewAccessPlaceholder) and are owned solely by
// whatever record or access declaration created them.
type Table struct {
	mu      sync.Mutex
	byKey   map[string]*Type
	nextTag uint64
}

// NewTable creates an empty interning table seeded with nothing; callers
// typically follow with a call that registers the predefined environment
// (see Predefined in predefined.go).
func NewTable() *Table {
	return &Table{byKey: make(map[string]*Type)}
}

// InternInteger returns the canonical Type for a signed integer range,
// choosing the narrowest bit width that covers [low, high].
func (tb *Table) InternInteger(name string, low, high int64) *Type {
	key := fmt.Sprintf("int:%d:%d", low, high)
	return tb.intern(key, func() *Type {
		return &Type{
			Kind: KindInteger,
			Name: name,
			Integer: &IntegerInfo{
				Low: low, High: high, Signed: true,
				Bits: bitsFor(low, high),
			},
		}
	})
}

// InternModular returns the canonical Type for `mod Modulus`.
func (tb *Table) InternModular(name string, modulus uint64) *Type {
	key := fmt.Sprintf("mod:%d", modulus)
	return tb.intern(key, func() *Type {
		return &Type{
			Kind: KindInteger,
			Name: name,
			Integer: &IntegerInfo{
				Low: 0, High: int64(modulus - 1), Signed: false,
				Modulus: modulus, Bits: bitsForUnsigned(modulus),
			},
		}
	})
}

// InternEnum returns the canonical Type for an enumeration with the given
// literal spellings (already canonicalized) in declaration order.
func (tb *Table) InternEnum(name string, literals []string, isChar, isBool bool) *Type {
	key := "enum:" + name + ":" + fmt.Sprint(literals)
	return tb.intern(key, func() *Type {
		return &Type{
			Kind: KindEnum,
			Name: name,
			Enum: &EnumInfo{Literals: literals, IsCharacter: isChar, IsBoolean: isBool},
		}
	})
}

// InternFloat returns the canonical Type for `digits N [range lo..hi]`.
func (tb *Table) InternFloat(name string, digits int, hasRange bool, low, high float64) *Type {
	key := fmt.Sprintf("float:%d:%v:%g:%g", digits, hasRange, low, high)
	return tb.intern(key, func() *Type {
		return &Type{
			Kind: KindFloat,
			Name: name,
			Float: &FloatInfo{
				Digits: digits, Bits: bitsForDigits(digits),
				HasRange: hasRange, Low: low, High: high,
			},
		}
	})
}

// InternFixed returns the canonical Type for `delta D [digits N] range lo..hi`.
func (tb *Table) InternFixed(name string, delta, small float64, digits int, low, high float64) *Type {
	key := fmt.Sprintf("fixed:%g:%g:%d:%g:%g", delta, small, digits, low, high)
	return tb.intern(key, func() *Type {
		return &Type{
			Kind:  KindFixed,
			Name:  name,
			Fixed: &FixedInfo{Delta: delta, Small: small, Digits: digits, Low: low, High: high},
		}
	})
}

// InternArray returns the canonical Type for an array with the given
// dimensions and component type. Arrays containing an unconstrained
// dimension, or any fat-pointer component, are themselves fat.
func (tb *Table) InternArray(name string, dims []Bound, component *Type) *Type {
	fat := false
	key := "array:" + name + ":" + component.String()
	for _, d := range dims {
		if d.Unconstrained {
			fat = true
			key += ":u"
		} else {
			key += fmt.Sprintf(":%d..%d", d.Low, d.High)
		}
	}
	if component.Kind == KindArray && component.Array.Fat {
		fat = true
	}
	return tb.intern(key, func() *Type {
		return &Type{
			Kind:  KindArray,
			Name:  name,
			Array: &ArrayInfo{Dims: dims, Component: component, Fat: fat},
		}
	})
}

// NewRecord allocates a (deliberately non-interned) record type: two
// distinct `record ... end record` declarations with identical layout are
// still distinct Ada types, so records are never structurally shared.
func (tb *Table) NewRecord(name string, info *RecordInfo) *Type {
	return &Type{Kind: KindRecord, Name: name, Record: info}
}

// NewTask allocates a (non-interned) task or protected type.
func (tb *Table) NewTask(name string, entries []*EntryProfile, protected bool) *Type {
	kind := KindTask
	if protected {
		kind = KindProtected
	}
	return &Type{Kind: kind, Name: name, Entries: entries}
}

// NewPrivate allocates a (non-interned) private type whose full view is
// filled in later via Type.CompletePrivate.
func (tb *Table) NewPrivate(name string, limited bool) *Type {
	return &Type{Kind: KindPrivate, Name: name, Private: &PrivateInfo{Limited: limited}}
}

// CompletePrivate fills in the full view of a private type once its
// completion is analyzed.
func (t *Type) CompletePrivate(full *Type) {
	if t.Kind != KindPrivate {
		panic("types: CompletePrivate on non-private type")
	}
	t.Private.FullView = full
}

// InternAccess returns the canonical Type for a (non-recursive) access
// type. Recursive access-to-record types must go through
// NewAccessPlaceholder instead — interning requires a terminating
// structural key, which a cyclic designated type cannot provide.
func (tb *Table) InternAccess(name string, designated *Type, lifetime Lifetime, constant bool) *Type {
	key := fmt.Sprintf("access:%s:%d:%v", designated.String(), lifetime, constant)
	return tb.intern(key, func() *Type {
		return &Type{
			Kind: KindAccess,
			Name: name,
			Access: &AccessInfo{
				Designated: designated, Lifetime: lifetime,
				Constant: constant, resolved: true,
			},
		}
	})
}

func (tb *Table) intern(key string, build func() *Type) *Type {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	if existing, ok := tb.byKey[key]; ok {
		return existing
	}
	t := build()
	tb.byKey[key] = t
	return t
}

func bitsFor(low, high int64) int {
	for _, bits := range []int{8, 16, 32, 64} {
		lo, hi := rangeFor(bits)
		if low >= lo && high <= hi {
			return bits
		}
	}
	return 64
}

func rangeFor(bits int) (int64, int64) {
	switch bits {
	case 8:
		return -128, 127
	case 16:
		return -32768, 32767
	case 32:
		return -2147483648, 2147483647
	default:
		return int64(-1) << 62, (int64(1) << 62) - 1
	}
}

func bitsForUnsigned(modulus uint64) int {
	switch {
	case modulus <= 1<<8:
		return 8
	case modulus <= 1<<16:
		return 16
	case modulus <= 1<<32:
		return 32
	default:
		return 64
	}
}

func bitsForDigits(digits int) int {
	switch {
	case digits <= 6:
		return 32
	case digits <= 15:
		return 64
	default:
		return 80
	}
}
