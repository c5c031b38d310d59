package tsbe

import (
	"fmt"

	"github.com/roach88/bindgen/internal/ir"
	"github.com/roach88/bindgen/internal/typemap"
)

// table maps primitives for the WebAssembly JS API: 32-bit and narrower
// values cross as number, 64-bit integers as bigint.
type table struct{}

func (table) WirePrimitive(p ir.Primitive) (string, bool) {
	switch p {
	case ir.I8, ir.U8, ir.I16, ir.U16, ir.I32, ir.U32, ir.Usize, ir.F32, ir.F64, ir.Bool:
		return "number", true
	case ir.I64, ir.U64:
		return "bigint", true
	case ir.Unit:
		return "void", true
	case ir.Text, ir.JSON:
		return "number", true
	default:
		return "", false
	}
}

func (table) SurfacePrimitive(p ir.Primitive) (string, bool) {
	switch p {
	case ir.Bool:
		return "boolean", true
	case ir.Text, ir.JSON:
		return "string", true
	case ir.I8, ir.U8, ir.I16, ir.U16, ir.I32, ir.U32, ir.Usize, ir.I64, ir.U64, ir.F32, ir.F64, ir.Unit:
		return table{}.WirePrimitive(p)
	default:
		return "", false
	}
}

func (table) WireHandle() string  { return "number" }
func (table) WirePointer() string { return "number" }

func newMapper() *typemap.Engine {
	return typemap.New(table{})
}

func (table) Encode(p ir.Primitive, expr string) (string, bool) {
	switch p {
	case ir.Bool:
		return expr + " ? 1 : 0", true
	case ir.I8, ir.U8, ir.I16, ir.U16, ir.I32, ir.U32, ir.Usize, ir.I64, ir.U64, ir.F32, ir.F64:
		return expr, true
	default:
		return "", false
	}
}

// Decode reinterprets the signed i32 or i64 an export returns as the
// declared integer width.
func (table) Decode(p ir.Primitive, expr string) (string, bool) {
	switch p {
	case ir.Bool:
		return expr + " != 0", true
	case ir.I8:
		return fmt.Sprintf("%s << 24 >> 24", expr), true
	case ir.U8:
		return fmt.Sprintf("%s & 0xFF", expr), true
	case ir.I16:
		return fmt.Sprintf("%s << 16 >> 16", expr), true
	case ir.U16:
		return fmt.Sprintf("%s & 0xFFFF", expr), true
	case ir.U32, ir.Usize:
		return fmt.Sprintf("%s >>> 0", expr), true
	case ir.U64:
		return fmt.Sprintf("BigInt.asUintN(64, %s)", expr), true
	case ir.I32, ir.I64, ir.F32, ir.F64:
		return expr, true
	default:
		return "", false
	}
}

func (table) EncodeAddress(expr string) string { return expr }
func (table) DecodeAddress(expr string) string { return expr }

var keywords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true, "do": true,
	"else": true, "enum": true, "export": true, "extends": true, "false": true,
	"finally": true, "for": true, "function": true, "if": true, "import": true,
	"in": true, "instanceof": true, "new": true, "null": true, "return": true,
	"super": true, "switch": true, "this": true, "throw": true, "true": true,
	"try": true, "typeof": true, "var": true, "void": true, "while": true,
	"with": true, "let": true, "static": true, "yield": true, "await": true,
}
