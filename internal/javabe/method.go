package javabe

import (
	"fmt"
	"strings"

	"github.com/roach88/bindgen/internal/emit"
	"github.com/roach88/bindgen/internal/ir"
)

func argName(m emit.Method, p ir.Param) string {
	if m.IsReceiver(p) {
		return "this"
	}
	name := emit.MixedCase(p.Name)
	if keywords[name] {
		return name + "_"
	}
	return name
}

// writeMethod renders fn as a method (or constructor) of className.
func (g *Generator) writeMethod(w *emit.Writer, fn *ir.Function, className string) error {
	m := emit.Analyze(fn)

	returnType := "void"
	if m.Returns {
		t, err := g.types.Surface(fn.Output)
		if err != nil {
			return fmt.Errorf("%s: return type: %w", fn.Name, err)
		}
		returnType = t
	}

	params := make([]string, 0, len(m.Params))
	for _, p := range m.Params {
		t, err := g.types.Surface(p.Type)
		if err != nil {
			return fmt.Errorf("%s: parameter %s: %w", fn.Name, p.Name, err)
		}
		params = append(params, t+" "+argName(m, p))
	}

	w.Line("")
	writeDoc(w, fn.Comments)
	if m.Constructor {
		w.Linef("public %s(%s) {", className, strings.Join(params, ", "))
		w.Indent()
		w.Line("super(0);")
	} else {
		static := ""
		if m.Static {
			static = " static"
		}
		w.Linef("public%s %s %s(%s) {", static, returnType, m.Name, strings.Join(params, ", "))
		w.Indent()
	}

	for _, p := range m.HandleInputs() {
		w.Block(fmt.Sprintf("if (%s.ptr == 0) {", argName(m, p)), func() {
			w.Line("throw new NullPointerException();")
		}, "}")
	}

	if err := g.writeCall(w, m, m.TextInputs(), returnType); err != nil {
		return err
	}

	w.Dedent()
	w.Line("}")
	return nil
}

// writeCall allocates one text buffer per level, each released in its own
// finally block, then performs the native call at the innermost level.
func (g *Generator) writeCall(w *emit.Writer, m emit.Method, buffers []ir.Param, returnType string) error {
	if len(buffers) > 0 {
		buf := argName(m, buffers[0]) + "_Allocated"
		w.Linef("%s.AllocatedBuf %s = %s.allocString(%s);", g.native(), buf, g.native(), argName(m, buffers[0]))
		w.Line("try {")
		w.Indent()
		if err := g.writeCall(w, m, buffers[1:], returnType); err != nil {
			return err
		}
		w.Dedent()
		w.Line("} finally {")
		w.Indent()
		w.Linef("%s.dealloc();", buf)
		w.Dedent()
		w.Line("}")
		return nil
	}

	args := make([]string, 0, len(m.Inputs()))
	for _, p := range m.Inputs() {
		name := argName(m, p)
		switch {
		case m.IsReceiver(p):
			name = "this.ptr"
		case p.Type.IsText():
			name += "_Allocated.ptr"
		case p.Type.IsCustom:
			name += ".ptr"
		}
		arg, err := g.types.Encode(p.Type, name)
		if err != nil {
			return fmt.Errorf("%s: parameter %s: %w", m.Fn.Name, p.Name, err)
		}
		args = append(args, arg)
	}
	call := fmt.Sprintf("%s.INSTANCE.%s(%s)", g.native(), m.Fn.Name, strings.Join(args, ", "))

	switch {
	case m.Constructor:
		w.Linef("this.ptr = %s;", call)
	case !m.Returns:
		w.Linef("%s;", call)
	default:
		result, err := g.types.Decode(m.Fn.Output, call)
		if err != nil {
			return fmt.Errorf("%s: return value: %w", m.Fn.Name, err)
		}
		switch {
		case m.ReturnsText():
			w.Linef("String result = %s.readString(%s);", g.native(), result)
		case m.ReturnsHandle():
			w.Linef("int result = %s;", result)
		default:
			w.Linef("%s result = %s;", returnType, result)
		}
	}

	for _, p := range m.MovedInputs() {
		w.Linef("%s.ptr = 0;", argName(m, p))
	}

	if !m.Returns || m.Constructor {
		return nil
	}
	if m.ReturnsHandle() {
		if m.ReturnsNullableHandle() {
			w.Block("if (result == 0) {", func() {
				w.Line("return null;")
			}, "}")
		}
		w.Linef("return new %s(result);", returnType)
		return nil
	}
	w.Line("return result;")
	return nil
}
