// Package typemaptest checks backend type tables from tests.
package typemaptest

import (
	"testing"

	"github.com/roach88/bindgen/internal/ir"
	"github.com/roach88/bindgen/internal/typemap"
)

// AssertTotal fails t if table leaves any primitive unmapped, on either side
// of the boundary or in either conversion direction.
// Backend test suites call it so a new ir.Primitive cannot ship half-wired.
func AssertTotal(t testing.TB, table typemap.Table) {
	t.Helper()

	e := typemap.New(table)
	for _, p := range ir.AllPrimitives() {
		typ := ir.Prim(p.String())
		if _, err := e.Wire(typ); err != nil {
			t.Errorf("wire mapping for %s: %v", p, err)
		}
		if _, err := e.Surface(typ); err != nil {
			t.Errorf("surface mapping for %s: %v", p, err)
		}
		if p == ir.Unit {
			continue
		}
		if _, err := e.Encode(typ, "x"); err != nil {
			t.Errorf("encoding %s: %v", p, err)
		}
		if _, err := e.Decode(typ, "x"); err != nil {
			t.Errorf("decoding %s: %v", p, err)
		}
	}
}
