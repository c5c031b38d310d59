package typemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bindgen/internal/ir"
)

// partialTable maps only integers, to exercise the unmapped paths.
type partialTable struct{}

func (partialTable) WirePrimitive(p ir.Primitive) (string, bool) {
	switch p {
	case ir.I32:
		return "i32", true
	case ir.Bool:
		return "u8", true
	default:
		return "", false
	}
}

func (partialTable) SurfacePrimitive(p ir.Primitive) (string, bool) {
	switch p {
	case ir.I32:
		return "int", true
	case ir.Bool:
		return "boolean", true
	case ir.Text, ir.JSON:
		return "string", true
	default:
		return "", false
	}
}

func (partialTable) WireHandle() string  { return "handle" }
func (partialTable) WirePointer() string { return "ptr" }

func (partialTable) Encode(p ir.Primitive, expr string) (string, bool) {
	switch p {
	case ir.I32:
		return expr, true
	case ir.Bool:
		return "(" + expr + " ? 1 : 0)", true
	default:
		return "", false
	}
}

func (partialTable) Decode(p ir.Primitive, expr string) (string, bool) {
	switch p {
	case ir.I32:
		return expr, true
	case ir.Bool:
		return expr + " != 0", true
	default:
		return "", false
	}
}

func (partialTable) EncodeAddress(expr string) string { return "addr(" + expr + ")" }
func (partialTable) DecodeAddress(expr string) string { return "deref(" + expr + ")" }

func TestEngineCustomTypes(t *testing.T) {
	e := New(partialTable{})

	tests := []struct {
		kind    ir.TypeKind
		surface string
	}{
		{ir.Ref, "RunRef"},
		{ir.RefMut, "RunRefMut"},
		{ir.Value, "Run"},
	}
	for _, tt := range tests {
		t.Run(tt.surface, func(t *testing.T) {
			typ := ir.Handle("Run", tt.kind)

			wire, err := e.Wire(typ)
			require.NoError(t, err)
			assert.Equal(t, "handle", wire)

			surface, err := e.Surface(typ)
			require.NoError(t, err)
			assert.Equal(t, tt.surface, surface)
		})
	}
}

func TestEngineTextIsPointerOnWire(t *testing.T) {
	e := New(partialTable{})

	for _, name := range []string{"c_char", "Json"} {
		wire, err := e.Wire(ir.Prim(name))
		require.NoError(t, err)
		assert.Equal(t, "ptr", wire)

		surface, err := e.Surface(ir.Prim(name))
		require.NoError(t, err)
		assert.Equal(t, "string", surface)
	}
}

func TestEngineUnknownPrimitiveFailsLoudly(t *testing.T) {
	e := New(partialTable{})

	_, err := e.Wire(ir.Prim("u128"))
	require.ErrorIs(t, err, ErrUnmapped)
	assert.Contains(t, err.Error(), "u128")

	_, err = e.Surface(ir.Prim("u128"))
	require.ErrorIs(t, err, ErrUnmapped)
}

func TestEngineMissingTableEntry(t *testing.T) {
	e := New(partialTable{})

	_, err := e.Wire(ir.Prim("f64"))
	require.ErrorIs(t, err, ErrUnmapped)

	_, err = e.Surface(ir.Prim("u16"))
	require.ErrorIs(t, err, ErrUnmapped)
}

func TestEngineConversions(t *testing.T) {
	e := New(partialTable{})

	tests := []struct {
		name   string
		typ    ir.Type
		encode string
		decode string
	}{
		{"bool", ir.Prim("bool"), "(x ? 1 : 0)", "x != 0"},
		{"i32", ir.Prim("i32"), "x", "x"},
		{"text", ir.Prim("c_char"), "addr(x)", "deref(x)"},
		{"handle", ir.Handle("Run", ir.Ref), "addr(x)", "deref(x)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := e.Encode(tt.typ, "x")
			require.NoError(t, err)
			assert.Equal(t, tt.encode, enc)

			dec, err := e.Decode(tt.typ, "x")
			require.NoError(t, err)
			assert.Equal(t, tt.decode, dec)
		})
	}
}

func TestEngineConversionFailures(t *testing.T) {
	e := New(partialTable{})

	_, err := e.Encode(ir.Prim("f64"), "x")
	require.ErrorIs(t, err, ErrUnmapped)

	_, err = e.Decode(ir.UnitType(), "x")
	require.ErrorIs(t, err, ErrUnmapped)

	_, err = e.Encode(ir.Prim("u128"), "x")
	require.ErrorIs(t, err, ErrUnmapped)
}
