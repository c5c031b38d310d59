package emit

import (
	"fmt"

	"github.com/roach88/bindgen/internal/ir"
)

// Method is the backend-neutral shape of one bound function.
type Method struct {
	Fn          *ir.Function
	Name        string // surface name, lowerCamelCase, renamed
	Static      bool
	Constructor bool
	Returns     bool
	Params      []ir.Param // surface parameters (receiver skipped)
}

// Analyze determines the call shape of fn.
func Analyze(fn *ir.Function) Method {
	return Method{
		Fn:          fn,
		Name:        MethodName(fn.Method),
		Static:      fn.IsStatic(),
		Constructor: fn.IsConstructor(),
		Returns:     fn.HasReturnType(),
		Params:      fn.Params(),
	}
}

// Inputs returns every native argument, receiver included.
func (m Method) Inputs() []ir.Param {
	return m.Fn.Inputs
}

// HandleInputs returns the inputs that must be checked against the null
// sentinel before the native call, receiver included.
func (m Method) HandleInputs() []ir.Param {
	return filter(m.Fn.Inputs, func(t ir.Type) bool { return t.IsCustom })
}

// TextInputs returns the inputs marshalled through a native text buffer.
func (m Method) TextInputs() []ir.Param {
	return filter(m.Fn.Inputs, ir.Type.IsText)
}

// MovedInputs returns the inputs whose ownership moves into the callee.
// The caller's handle is reset to the null sentinel after the call.
func (m Method) MovedInputs() []ir.Param {
	return filter(m.Fn.Inputs, ir.Type.IsOwnedHandle)
}

// ReturnsNullableHandle reports whether a null return means absence.
func (m Method) ReturnsNullableHandle() bool {
	return m.Returns && m.Fn.Output.IsCustom && m.Fn.Output.IsNullable
}

// ReturnsHandle reports whether the result wraps a new surface instance.
func (m Method) ReturnsHandle() bool {
	return m.Returns && !m.Constructor && m.Fn.Output.IsCustom
}

// ReturnsText reports whether the result is read back as a string.
func (m Method) ReturnsText() bool {
	return m.Returns && m.Fn.Output.IsText()
}

// Receiver returns the receiver parameter of an instance method.
func (m Method) Receiver() (ir.Param, error) {
	if m.Static {
		return ir.Param{}, fmt.Errorf("%s: static function has no receiver", m.Fn.Name)
	}
	return m.Fn.Inputs[0], nil
}

// IsReceiver reports whether p is this method's receiver.
func (m Method) IsReceiver(p ir.Param) bool {
	return !m.Static && p.Name == ir.ReceiverName
}

func filter(params []ir.Param, keep func(ir.Type) bool) []ir.Param {
	var out []ir.Param
	for _, p := range params {
		if keep(p.Type) {
			out = append(out, p)
		}
	}
	return out
}
