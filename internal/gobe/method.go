package gobe

import (
	"fmt"
	"strings"

	"github.com/roach88/bindgen/internal/emit"
	"github.com/roach88/bindgen/internal/ir"
	"github.com/roach88/bindgen/internal/typemap"
)

// goMethod is the Go rendering of one bound function.
type goMethod struct {
	emit.Method
	recv     string // receiver identifier
	recvType string // receiver type, Module for statics
	modExpr  string // expression yielding *Module
}

func (gm goMethod) argName(p ir.Param) string {
	if gm.IsReceiver(p) {
		return gm.recv
	}
	name := emit.MixedCase(p.Name)
	if keywords[name] || reserved[name] || name == gm.recv {
		return name + "Arg"
	}
	return name
}

// writeMethod renders fn as a method on recvType. Statics are methods on
// Module named after the class.
func (g *Generator) writeMethod(f *goFile, fn *ir.Function, class, recvType string) error {
	gm := goMethod{Method: emit.Analyze(fn), recvType: recvType}
	name := emit.ExportedMethodName(fn.Method)
	if gm.Static {
		gm.recv = "m"
		gm.modExpr = "m"
		name += class
	} else {
		gm.recv = receiverName(class)
		gm.modExpr = gm.recv + ".mod"
	}

	resultType := ""
	if gm.Returns {
		t, err := g.surface(fn.Output)
		if err != nil {
			return fmt.Errorf("%s: return type: %w", fn.Name, err)
		}
		resultType = t
	}

	params := []string{"ctx context.Context"}
	for _, p := range gm.Params {
		t, err := g.surface(p.Type)
		if err != nil {
			return fmt.Errorf("%s: parameter %s: %w", fn.Name, p.Name, err)
		}
		params = append(params, gm.argName(p)+" "+t)
	}

	results := "error"
	if resultType != "" {
		results = "(" + resultType + ", error)"
	}

	f.use("context")
	f.use(BridgeImport)
	w := f.w
	w.Line("")
	writeDoc(w, fn.Comments)
	w.Linef("func (%s *%s) %s(%s) %s {", gm.recv, recvType, name, strings.Join(params, ", "), results)
	w.Indent()

	fail := "return wasmbridge.ErrNullHandle"
	if resultType != "" {
		fail = fmt.Sprintf("return %s, wasmbridge.ErrNullHandle", zero(resultType))
	}
	for _, p := range gm.HandleInputs() {
		name := gm.argName(p)
		w.Block(fmt.Sprintf("if %s == nil || %s.ptr == 0 {", name, name), func() {
			w.Line(fail)
		}, "}")
	}

	if resultType != "" {
		w.Linef("var result %s", resultType)
		w.Linef("err := %s.bridge.Session(ctx, func(sess *wasmbridge.Session) error {", gm.modExpr)
	} else {
		w.Linef("return %s.bridge.Session(ctx, func(sess *wasmbridge.Session) error {", gm.modExpr)
	}
	w.Indent()
	if err := g.writeSessionBody(f, gm); err != nil {
		return err
	}
	w.Dedent()
	w.Line("})")
	if resultType != "" {
		w.Line("return result, err")
	}

	w.Dedent()
	w.Line("}")
	return nil
}

// writeSessionBody allocates the text arguments, makes the one native call
// and converts its result. The session releases the text buffers.
func (g *Generator) writeSessionBody(f *goFile, gm goMethod) error {
	w := f.w
	errDeclared := false
	for _, p := range gm.TextInputs() {
		name := gm.argName(p)
		w.Linef("%sPtr, err := sess.String(%s)", name, name)
		w.Block("if err != nil {", func() {
			w.Line("return err")
		}, "}")
		errDeclared = true
	}

	args := make([]string, 0, len(gm.Inputs()))
	for _, p := range gm.Inputs() {
		name := gm.argName(p)
		switch {
		case p.Type.IsText():
			name += "Ptr"
		case p.Type.IsCustom:
			name += ".ptr"
		}
		code, err := g.types.Encode(p.Type, name)
		if err != nil {
			return fmt.Errorf("%s: parameter %s: %w", gm.Fn.Name, p.Name, err)
		}
		if usesAPI(code) {
			f.use(apiImport)
		}
		args = append(args, code)
	}
	call := fmt.Sprintf("sess.Call(%q", gm.Fn.Name)
	if len(args) > 0 {
		call += ", " + strings.Join(args, ", ")
	}
	call += ")"

	moved := gm.MovedInputs()
	if !gm.Returns && len(moved) == 0 {
		op := ":="
		if errDeclared {
			op = "="
		}
		w.Linef("_, err %s %s", op, call)
		w.Line("return err")
		return nil
	}

	if gm.Returns {
		w.Linef("ret, err := %s", call)
	} else if errDeclared {
		w.Linef("_, err = %s", call)
	} else {
		w.Linef("_, err := %s", call)
	}
	w.Block("if err != nil {", func() {
		w.Line("return err")
	}, "}")
	for _, p := range moved {
		w.Linef("%s.release()", gm.argName(p))
	}
	if !gm.Returns {
		w.Line("return nil")
		return nil
	}

	out := gm.Fn.Output
	code, err := g.types.Decode(out, "ret")
	if err != nil {
		return fmt.Errorf("%s: return type: %w", gm.Fn.Name, err)
	}
	if usesAPI(code) {
		f.use(apiImport)
	}
	switch {
	case out.IsCustom && out.IsNullable:
		w.Block(fmt.Sprintf("if ptr := %s; ptr != 0 {", code), func() {
			w.Linef("result = %s", g.wrap(out, gm.modExpr, "ptr"))
		}, "}")
		w.Line("return nil")
	case out.IsCustom:
		w.Linef("result = %s", g.wrap(out, gm.modExpr, code))
		w.Line("return nil")
	case gm.ReturnsText():
		w.Linef("result, err = sess.ReadString(%s)", code)
		w.Line("return err")
	default:
		w.Linef("result = %s", code)
		w.Line("return nil")
	}
	return nil
}

// wrap builds the surface value for a returned handle at its declared level.
func (g *Generator) wrap(t ir.Type, mod, ptr string) string {
	switch t.Kind {
	case ir.Ref:
		return fmt.Sprintf("&%sRef{mod: %s, ptr: %s}", t.Name, mod, ptr)
	case ir.RefMut:
		return fmt.Sprintf("&%sRefMut{%sRef: %sRef{mod: %s, ptr: %s}}", t.Name, t.Name, t.Name, mod, ptr)
	default:
		return fmt.Sprintf("new%s(%s, %s)", typemap.SurfaceName(t), mod, ptr)
	}
}
