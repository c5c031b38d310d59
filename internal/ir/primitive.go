package ir

import "fmt"

// Primitive is the closed set of native primitive types.
//
// Backends switch over Primitive exhaustively; adding a value here must be
// matched by every backend table (the typemap totality tests enforce this).
type Primitive int

const (
	I8 Primitive = iota + 1
	I16
	I32
	I64
	U8
	U16
	U32
	U64
	Usize
	F32
	F64
	Bool
	Unit
	Text // zero-terminated UTF-8 (c_char pointer)
	JSON // zero-terminated UTF-8 carrying serialized JSON
)

var primitiveNames = map[string]Primitive{
	"i8":     I8,
	"i16":    I16,
	"i32":    I32,
	"i64":    I64,
	"u8":     U8,
	"u16":    U16,
	"u32":    U32,
	"u64":    U64,
	"usize":  Usize,
	"f32":    F32,
	"f64":    F64,
	"bool":   Bool,
	"()":     Unit,
	"c_char": Text,
	"Json":   JSON,
}

// ParsePrimitive maps a native primitive name to its Primitive.
func ParsePrimitive(name string) (Primitive, bool) {
	p, ok := primitiveNames[name]
	return p, ok
}

// AllPrimitives returns every Primitive in declaration order.
func AllPrimitives() []Primitive {
	return []Primitive{I8, I16, I32, I64, U8, U16, U32, U64, Usize, F32, F64, Bool, Unit, Text, JSON}
}

// String returns the native primitive name.
func (p Primitive) String() string {
	for name, v := range primitiveNames {
		if v == p {
			return name
		}
	}
	return fmt.Sprintf("Primitive(%d)", int(p))
}

// IsText reports whether p is carried as a zero-terminated string.
func (p Primitive) IsText() bool {
	return p == Text || p == JSON
}

// BitWidth returns the wire width in bits, or 0 for unit.
// usize is 32 bits: the embeddable runtime is a wasm32 module.
func (p Primitive) BitWidth() int {
	switch p {
	case I8, U8, Bool:
		return 8
	case I16, U16:
		return 16
	case I32, U32, Usize, F32, Text, JSON:
		return 32
	case I64, U64, F64:
		return 64
	default:
		return 0
	}
}

// UnknownPrimitiveError reports a primitive name with no mapping.
type UnknownPrimitiveError struct {
	Name string
}

func (e *UnknownPrimitiveError) Error() string {
	return fmt.Sprintf("unknown primitive type %q", e.Name)
}
