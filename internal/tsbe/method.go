package tsbe

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

// writeMethod renders fn as a member of f.
func (g *Generator) writeMethod(f *file, fn *ir.Function) error {
	m := emit.Analyze(fn)
	w := f.body

	returnType := "void"
	if m.Returns {
		t, err := g.types.Surface(fn.Output)
		if err != nil {
			return fmt.Errorf("%s: return type: %w", fn.Name, err)
		}
		returnType = t
		if fn.Output.IsCustom {
			f.useType(t)
			if fn.Output.IsNullable {
				returnType += " | null"
			}
		}
	}

	params := make([]string, 0, len(m.Params))
	for _, p := range m.Params {
		t, err := g.types.Surface(p.Type)
		if err != nil {
			return fmt.Errorf("%s: parameter %s: %w", fn.Name, p.Name, err)
		}
		if p.Type.IsCustom {
			f.useType(t)
		}
		params = append(params, argName(m, p)+": "+t)
	}

	w.Line("")
	writeDoc(w, fn.Comments)
	static := ""
	if m.Static {
		static = "static "
	}
	w.Linef("%s%s(%s): %s {", static, m.Name, strings.Join(params, ", "), returnType)
	w.Indent()

	for _, p := range m.HandleInputs() {
		name := argName(m, p)
		w.Block(fmt.Sprintf("if (%s.ptr == 0) {", name), func() {
			w.Linef(`throw new Error("%s is disposed");`, name)
		}, "}")
	}

	if err := g.writeCall(f, m, m.TextInputs()); err != nil {
		return err
	}

	w.Dedent()
	w.Line("}")
	return nil
}

// writeCall allocates one text buffer per level, each released in its own
// finally block, then performs the native call at the innermost level.
func (g *Generator) writeCall(f *file, m emit.Method, buffers []ir.Param) error {
	w := f.body
	if len(buffers) > 0 {
		f.useNative("allocString")
		f.useNative("dealloc")
		buf := argName(m, buffers[0]) + "_allocated"
		w.Linef("const %s = allocString(%s);", buf, argName(m, buffers[0]))
		w.Line("try {")
		w.Indent()
		if err := g.writeCall(f, m, buffers[1:]); err != nil {
			return err
		}
		w.Dedent()
		w.Line("} finally {")
		w.Indent()
		w.Linef("dealloc(%s);", buf)
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
			name += "_allocated.ptr"
		case p.Type.IsCustom:
			name += ".ptr"
		}
		arg, err := g.types.Encode(p.Type, name)
		if err != nil {
			return fmt.Errorf("%s: parameter %s: %w", m.Fn.Name, p.Name, err)
		}
		args = append(args, arg)
	}
	f.useNative("wasm")
	call := fmt.Sprintf("wasm.%s(%s)", m.Fn.Name, strings.Join(args, ", "))

	out := m.Fn.Output
	if !m.Returns {
		w.Linef("%s;", call)
	} else {
		result, err := g.types.Decode(out, call)
		if err != nil {
			return fmt.Errorf("%s: return value: %w", m.Fn.Name, err)
		}
		if m.ReturnsText() {
			f.useNative("decodeString")
			result = "decodeString(" + result + ")"
		}
		w.Linef("const result = %s;", result)
	}

	for _, p := range m.MovedInputs() {
		f.useNative("untrack")
		name := argName(m, p)
		w.Linef("%s.ptr = 0;", name)
		w.Linef("untrack(%s);", name)
	}

	if !m.Returns {
		return nil
	}
	if !out.IsCustom {
		w.Line("return result;")
		return nil
	}
	if m.ReturnsNullableHandle() {
		w.Block("if (result == 0) {", func() {
			w.Line("return null;")
		}, "}")
	}
	surface, err := g.types.Surface(out)
	if err != nil {
		return fmt.Errorf("%s: return type: %w", m.Fn.Name, err)
	}
	if surface == f.name {
		w.Linef("return new %s(result);", surface)
		return nil
	}
	f.useNative("construct")
	w.Linef("return construct<%s>(%q, result);", surface, surface)
	return nil
}
