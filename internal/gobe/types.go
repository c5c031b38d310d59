package gobe

import (
	"fmt"
	"strings"

	"github.com/roach88/bindgen/internal/ir"
	"github.com/roach88/bindgen/internal/typemap"
)

// table maps primitives to wazero value types on the wire and to Go types
// on the surface. Unit has no Go representation; methods returning it
// return only an error.
type table struct{}

func (table) WirePrimitive(p ir.Primitive) (string, bool) {
	switch p {
	case ir.I8, ir.U8, ir.I16, ir.U16, ir.I32, ir.U32, ir.Usize, ir.Bool:
		return "i32", true
	case ir.I64, ir.U64:
		return "i64", true
	case ir.F32:
		return "f32", true
	case ir.F64:
		return "f64", true
	case ir.Unit:
		return "", true
	case ir.Text, ir.JSON:
		return "i32", true
	default:
		return "", false
	}
}

func (table) SurfacePrimitive(p ir.Primitive) (string, bool) {
	switch p {
	case ir.I8:
		return "int8", true
	case ir.I16:
		return "int16", true
	case ir.I32:
		return "int32", true
	case ir.I64:
		return "int64", true
	case ir.U8:
		return "uint8", true
	case ir.U16:
		return "uint16", true
	case ir.U32, ir.Usize:
		return "uint32", true
	case ir.U64:
		return "uint64", true
	case ir.F32:
		return "float32", true
	case ir.F64:
		return "float64", true
	case ir.Bool:
		return "bool", true
	case ir.Unit:
		return "", true
	case ir.Text, ir.JSON:
		return "string", true
	default:
		return "", false
	}
}

func (table) WireHandle() string  { return "i32" }
func (table) WirePointer() string { return "i32" }

func newMapper() *typemap.Engine {
	return typemap.New(table{})
}

// surface returns the Go type of t as it appears in a signature. Handles
// are pointers to their wrapper struct.
func (g *Generator) surface(t ir.Type) (string, error) {
	s, err := g.types.Surface(t)
	if err != nil {
		return "", err
	}
	if t.IsCustom {
		return "*" + s, nil
	}
	return s, nil
}

func (table) Encode(p ir.Primitive, expr string) (string, bool) {
	switch p {
	case ir.I8, ir.I16:
		return fmt.Sprintf("api.EncodeI32(int32(%s))", expr), true
	case ir.I32:
		return fmt.Sprintf("api.EncodeI32(%s)", expr), true
	case ir.U8, ir.U16:
		return fmt.Sprintf("api.EncodeU32(uint32(%s))", expr), true
	case ir.U32, ir.Usize:
		return fmt.Sprintf("api.EncodeU32(%s)", expr), true
	case ir.I64:
		return fmt.Sprintf("api.EncodeI64(%s)", expr), true
	case ir.U64:
		return expr, true
	case ir.F32:
		return fmt.Sprintf("api.EncodeF32(%s)", expr), true
	case ir.F64:
		return fmt.Sprintf("api.EncodeF64(%s)", expr), true
	case ir.Bool:
		return fmt.Sprintf("wasmbridge.EncodeBool(%s)", expr), true
	default:
		return "", false
	}
}

func (table) Decode(p ir.Primitive, expr string) (string, bool) {
	switch p {
	case ir.I8:
		return fmt.Sprintf("int8(api.DecodeI32(%s))", expr), true
	case ir.I16:
		return fmt.Sprintf("int16(api.DecodeI32(%s))", expr), true
	case ir.I32:
		return fmt.Sprintf("api.DecodeI32(%s)", expr), true
	case ir.U8:
		return fmt.Sprintf("uint8(api.DecodeU32(%s))", expr), true
	case ir.U16:
		return fmt.Sprintf("uint16(api.DecodeU32(%s))", expr), true
	case ir.U32, ir.Usize:
		return fmt.Sprintf("api.DecodeU32(%s)", expr), true
	case ir.I64:
		return fmt.Sprintf("int64(%s)", expr), true
	case ir.U64:
		return expr, true
	case ir.F32:
		return fmt.Sprintf("api.DecodeF32(%s)", expr), true
	case ir.F64:
		return fmt.Sprintf("api.DecodeF64(%s)", expr), true
	case ir.Bool:
		return fmt.Sprintf("wasmbridge.DecodeBool(%s)", expr), true
	default:
		return "", false
	}
}

// Handle and text addresses are wasm32 pointers carried as uint32.
func (table) EncodeAddress(expr string) string { return fmt.Sprintf("api.EncodeU32(%s)", expr) }
func (table) DecodeAddress(expr string) string { return fmt.Sprintf("api.DecodeU32(%s)", expr) }

// usesAPI reports whether generated code references the wazero api package.
func usesAPI(code string) bool {
	return strings.Contains(code, "api.")
}

// zero returns the zero value literal of a surface type.
func zero(goType string) string {
	switch {
	case goType == "string":
		return `""`
	case goType == "bool":
		return "false"
	case len(goType) > 0 && goType[0] == '*':
		return "nil"
	default:
		return "0"
	}
}

var keywords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,
}

// reserved are identifiers the generated method bodies declare or import.
var reserved = map[string]bool{
	"ctx": true, "sess": true, "ret": true, "err": true, "result": true, "ptr": true,
	"api": true, "context": true, "runtime": true, "wasmbridge": true, "m": true,
}
