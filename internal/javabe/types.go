package javabe

import (
	"github.com/roach88/bindgen/internal/ir"
	"github.com/roach88/bindgen/internal/typemap"
)

// table maps primitives for a JVM hosting the native module compiled from
// wasm32: every address is an int.
type table struct{}

func (table) WirePrimitive(p ir.Primitive) (string, bool) {
	switch p {
	case ir.I8, ir.U8, ir.Bool:
		return "byte", true
	case ir.I16, ir.U16:
		return "short", true
	case ir.I32, ir.U32, ir.Usize:
		return "int", true
	case ir.I64, ir.U64:
		return "long", true
	case ir.F32:
		return "float", true
	case ir.F64:
		return "double", true
	case ir.Unit:
		return "void", true
	case ir.Text, ir.JSON:
		return "int", true
	default:
		return "", false
	}
}

func (table) SurfacePrimitive(p ir.Primitive) (string, bool) {
	switch p {
	case ir.Bool:
		return "boolean", true
	case ir.Text, ir.JSON:
		return "String", true
	case ir.I8, ir.U8, ir.I16, ir.U16, ir.I32, ir.U32, ir.Usize, ir.I64, ir.U64, ir.F32, ir.F64, ir.Unit:
		return table{}.WirePrimitive(p)
	default:
		return "", false
	}
}

func (table) WireHandle() string  { return "int" }
func (table) WirePointer() string { return "int" }

func newMapper() *typemap.Engine {
	return typemap.New(table{})
}

func (table) Encode(p ir.Primitive, expr string) (string, bool) {
	switch p {
	case ir.Bool:
		return "(byte)(" + expr + " ? 1 : 0)", true
	case ir.I8, ir.U8, ir.I16, ir.U16, ir.I32, ir.U32, ir.Usize, ir.I64, ir.U64, ir.F32, ir.F64:
		return expr, true
	default:
		return "", false
	}
}

// Decode narrows sub-word integers: module exports only produce 32- and
// 64-bit values.
func (table) Decode(p ir.Primitive, expr string) (string, bool) {
	switch p {
	case ir.Bool:
		return expr + " != 0", true
	case ir.I8, ir.U8:
		return "(byte)" + expr, true
	case ir.I16, ir.U16:
		return "(short)" + expr, true
	case ir.I32, ir.U32, ir.Usize, ir.I64, ir.U64, ir.F32, ir.F64:
		return expr, true
	default:
		return "", false
	}
}

func (table) EncodeAddress(expr string) string { return expr }
func (table) DecodeAddress(expr string) string { return expr }

var keywords = map[string]bool{
	"abstract": true, "boolean": true, "break": true, "byte": true, "case": true,
	"catch": true, "char": true, "class": true, "continue": true, "default": true,
	"do": true, "double": true, "else": true, "enum": true, "extends": true,
	"final": true, "finally": true, "float": true, "for": true, "if": true,
	"implements": true, "import": true, "instanceof": true, "int": true,
	"interface": true, "long": true, "new": true, "package": true, "private": true,
	"protected": true, "public": true, "return": true, "short": true, "static": true,
	"super": true, "switch": true, "throw": true, "throws": true, "try": true,
	"void": true, "while": true,
}
