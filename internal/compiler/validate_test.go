package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bindgen/internal/ir"
	"github.com/roach88/bindgen/internal/testutil"
)

func codes(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func TestValidateFixtures(t *testing.T) {
	assert.Empty(t, Validate(ir.Classes{testutil.Widget()}))
	assert.Empty(t, Validate(testutil.TimerSuite()))
	assert.Empty(t, Validate(testutil.WidgetKit()))
}

func TestValidateEmpty(t *testing.T) {
	errs := Validate(nil)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrNoClasses, errs[0].Code)
}

func TestValidateDuplicateClass(t *testing.T) {
	errs := Validate(ir.Classes{testutil.Widget(), testutil.Widget()})
	assert.Contains(t, codes(errs), ErrDuplicateClass)
	assert.Contains(t, codes(errs), ErrDuplicateSymbol)
}

func TestValidateDefects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *ir.Class)
		code   string
	}{
		{
			name: "duplicate method across buckets",
			mutate: func(c *ir.Class) {
				c.MutFns = append(c.MutFns, ir.Function{
					Name:   "Widget_name_mut",
					Method: "name",
					Inputs: []ir.Param{{Name: ir.ReceiverName, Type: ir.Handle("Widget", ir.RefMut)}},
					Output: ir.UnitType(),
				})
			},
			code: ErrDuplicateMethod,
		},
		{
			name: "shared function with mutable receiver",
			mutate: func(c *ir.Class) {
				c.SharedFns[0].Inputs[0].Type = ir.Handle("Widget", ir.RefMut)
			},
			code: ErrReceiverMismatch,
		},
		{
			name: "receiver of another class",
			mutate: func(c *ir.Class) {
				c.SharedFns[0].Inputs[0].Type = ir.Handle("Gadget", ir.Ref)
			},
			code: ErrReceiverMismatch,
		},
		{
			name: "mut function without receiver",
			mutate: func(c *ir.Class) {
				c.MutFns[0].Inputs = c.MutFns[0].Inputs[1:]
			},
			code: ErrReceiverMismatch,
		},
		{
			name: "static function with receiver",
			mutate: func(c *ir.Class) {
				c.StaticFns[0].Inputs = []ir.Param{{Name: ir.ReceiverName, Type: ir.Handle("Widget", ir.Ref)}}
			},
			code: ErrReceiverMismatch,
		},
		{
			name: "drop outside own",
			mutate: func(c *ir.Class) {
				d := c.OwnFns[0]
				d.Inputs = []ir.Param{{Name: ir.ReceiverName, Type: ir.Handle("Widget", ir.RefMut)}}
				c.MutFns = append(c.MutFns, d)
				c.OwnFns = nil
			},
			code: ErrInvalidDisposer,
		},
		{
			name: "drop returning a value",
			mutate: func(c *ir.Class) {
				c.OwnFns[0].Output = ir.Prim("bool")
			},
			code: ErrInvalidDisposer,
		},
		{
			name: "drop with extra input",
			mutate: func(c *ir.Class) {
				c.OwnFns[0].Inputs = append(c.OwnFns[0].Inputs, ir.Param{Name: "flag", Type: ir.Prim("bool")})
			},
			code: ErrInvalidDisposer,
		},
		{
			name: "two drops",
			mutate: func(c *ir.Class) {
				d := c.OwnFns[0]
				d.Name = "Widget_drop2"
				c.OwnFns = append(c.OwnFns, d)
			},
			code: ErrInvalidDisposer,
		},
		{
			name: "unknown primitive",
			mutate: func(c *ir.Class) {
				c.SharedFns[0].Output = ir.Prim("u128")
			},
			code: ErrUnknownPrimitive,
		},
		{
			name: "unit parameter",
			mutate: func(c *ir.Class) {
				c.MutFns[0].Inputs[1].Type = ir.UnitType()
			},
			code: ErrUnknownPrimitive,
		},
		{
			name: "unknown class",
			mutate: func(c *ir.Class) {
				c.MutFns[0].Inputs[1].Type = ir.Handle("Gadget", ir.Value)
			},
			code: ErrUnknownClass,
		},
		{
			name: "constructor returning another class",
			mutate: func(c *ir.Class) {
				c.StaticFns[0].Output = ir.Prim("u32")
			},
			code: ErrInvalidConstructor,
		},
		{
			name: "constructor returning a borrow",
			mutate: func(c *ir.Class) {
				c.StaticFns[0].Output = ir.Handle("Widget", ir.Ref)
			},
			code: ErrInvalidConstructor,
		},
		{
			name: "symbol is not an identifier",
			mutate: func(c *ir.Class) {
				c.SharedFns[0].Name = "Widget-name"
			},
			code: ErrInvalidIdentifier,
		},
		{
			name: "nullable primitive",
			mutate: func(c *ir.Class) {
				out := ir.Prim("u32")
				out.IsNullable = true
				c.SharedFns[0].Output = out
			},
			code: ErrInvalidNullable,
		},
		{
			name: "receiver name on a later input",
			mutate: func(c *ir.Class) {
				c.MutFns[0].Inputs[1].Name = ir.ReceiverName
			},
			code: ErrMisplacedReceiver,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testutil.Widget()
			tt.mutate(c)
			errs := Validate(ir.Classes{c})
			require.NotEmpty(t, errs)
			assert.Contains(t, codes(errs), tt.code)
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	c := testutil.Widget()
	c.SharedFns[0].Output = ir.Prim("u128")
	c.MutFns[0].Inputs[1].Type = ir.Handle("Gadget", ir.Value)

	errs := Validate(ir.Classes{c})
	assert.ElementsMatch(t, []string{ErrUnknownPrimitive, ErrUnknownClass}, codes(errs))
}

func TestValidationErrorFormat(t *testing.T) {
	err := ValidationError{Field: "Widget.shared[0]", Message: "bad", Code: ErrUnknownClass}
	assert.Equal(t, "[E107] Widget.shared[0]: bad", err.Error())

	err.Line = 4
	assert.Equal(t, "[E107] line 4: Widget.shared[0]: bad", err.Error())

	assert.NoError(t, FirstError(nil))
	assert.Equal(t, err, FirstError([]ValidationError{err}))
}

func TestCompileErrorFormat(t *testing.T) {
	err := &CompileError{Field: "Run.static[0]", Message: "bad"}
	assert.Equal(t, "Run.static[0]: bad", err.Error())
	assert.Equal(t, 0, err.LineNumber())

	err.Filename, err.Line = "run.yaml", 3
	assert.Equal(t, "run.yaml:3: Run.static[0]: bad", err.Error())
	assert.Equal(t, 3, err.LineNumber())
}

func TestValidateIgnoresKindOnPrimitives(t *testing.T) {
	c := testutil.Widget()
	text := ir.Prim("c_char")
	text.Kind = ir.Ref
	c.MutFns[0].Inputs[1].Type = text

	assert.Empty(t, Validate(ir.Classes{c}))
}
