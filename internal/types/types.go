package types

// Type is a value type of the source language.
type Type uint8

const (
	Invalid Type = iota

	// Void and NonVoid are expectation types: Void accepts any value and
	// NonVoid accepts any value that is not Void.
	Void
	NonVoid

	// Bool is the result of comparisons and truthiness coercions
	Bool

	// Integers
	I8
	I16
	I32
	I64

	// Floats
	F32
	F64

	// Addr is a linear memory address
	Addr
)

var typeNames = [...]string{
	Invalid: "<invalid>",
	Void:    "void",
	NonVoid: "non-void",
	Bool:    "bool",
	I8:      "i8",
	I16:     "i16",
	I32:     "i32",
	I64:     "i64",
	F32:     "f32",
	F64:     "f64",
	Addr:    "addr",
}

// declarable maps source type names to types usable in declarations
var declarable = map[string]Type{
	"void": Void,
	"i8":   I8,
	"i16":  I16,
	"i32":  I32,
	"i64":  I64,
	"f32":  F32,
	"f64":  F64,
	"addr": Addr,
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return typeNames[Invalid]
}

// Parse resolves a type name as written in source. Bool and NonVoid have
// no source spelling.
func Parse(name string) (Type, bool) {
	t, ok := declarable[name]
	return t, ok
}

// IsInteger reports whether t is one of the integer types
func (t Type) IsInteger() bool {
	switch t {
	case I8, I16, I32, I64:
		return true
	default:
		return false
	}
}

// IsFloat reports whether t is one of the floating point types
func (t Type) IsFloat() bool {
	return t == F32 || t == F64
}

// IsValue reports whether t can be held in a parameter or local slot
func (t Type) IsValue() bool {
	return t.IsInteger() || t.IsFloat() || t == Addr
}

// Integers lists the integer types in width order
func Integers() []Type {
	return []Type{I8, I16, I32, I64}
}

// Floats lists the floating point types in width order
func Floats() []Type {
	return []Type{F32, F64}
}
