// Package gobe generates Go bindings that host the native module through
// the wasmbridge package.
//
// Each class becomes three struct types. <Class>Ref holds the handle and
// the shared functions, <Class>RefMut embeds it and adds the mutating
// functions, and <Class> embeds that, owns the handle and adds Close.
// Static functions become methods on the generated Module, named
// <Method><Class> (CreateWidget, ParseRun).
package gobe

import (
	"fmt"
	"go/format"
	"sort"
	"strings"

	"github.com/roach88/bindgen/internal/backend"
	"github.com/roach88/bindgen/internal/emit"
	"github.com/roach88/bindgen/internal/ir"
	"github.com/roach88/bindgen/internal/typemap"
)

// Name is the registered backend name.
const Name = "go"

// BridgeImport is the import path of the runtime package generated code uses.
const BridgeImport = "github.com/roach88/bindgen/wasmbridge"

const apiImport = "github.com/tetratelabs/wazero/api"

func init() {
	backend.Register(Name, func(opts backend.Options) backend.Generator { return New(opts) })
}

var placeholders = emit.Placeholders{Null: "nil", True: "true", False: "false"}

// Generator emits Go sources.
type Generator struct {
	opts  backend.Options
	types *typemap.Engine
}

// New creates a Go generator.
func New(opts backend.Options) *Generator {
	return &Generator{opts: opts, types: newMapper()}
}

func (g *Generator) Name() string { return Name }

// Runtime emits module.go: the Module type wrapping one bridge.
func (g *Generator) Runtime(ir.Classes) ([]*backend.OutputFile, error) {
	f := g.newFile()
	f.use("context")
	f.use(BridgeImport)
	w := f.w
	w.Line("// Module is one instantiation of the native module. Handles obtained from")
	w.Line("// a Module are only valid with that Module.")
	w.Block("type Module struct {", func() {
		w.Line("bridge *wasmbridge.Bridge")
	}, "}")
	w.Line("")
	w.Line("// Instantiate compiles and instantiates the module with its host callbacks.")
	w.Block("func Instantiate(ctx context.Context, wasm []byte, opts ...wasmbridge.Option) (*Module, error) {", func() {
		w.Line("b, err := wasmbridge.Instantiate(ctx, wasm, opts...)")
		w.Block("if err != nil {", func() {
			w.Line("return nil, err")
		}, "}")
		w.Line("return &Module{bridge: b}, nil")
	}, "}")
	w.Line("")
	w.Line("// Close releases the module instance and its memory.")
	w.Block("func (m *Module) Close(ctx context.Context) error {", func() {
		w.Line("return m.bridge.Close(ctx)")
	}, "}")
	w.Line("")
	w.Line("// Bridge exposes the underlying bridge.")
	w.Block("func (m *Module) Bridge() *wasmbridge.Bridge {", func() {
		w.Line("return m.bridge")
	}, "}")
	w.Line("")
	w.Block("func (m *Module) drop(symbol string) func(uint32) {", func() {
		w.Block("return func(ptr uint32) {", func() {
			w.Line("m.bridge.Release(symbol, ptr)")
		}, "}")
	}, "}")

	src, err := f.render()
	if err != nil {
		return nil, fmt.Errorf("module.go: %w", err)
	}
	return []*backend.OutputFile{{Path: "module.go", Content: src}}, nil
}

// Class emits <class>_ref.go, <class>_ref_mut.go and <class>.go.
func (g *Generator) Class(c *ir.Class, _ ir.Classes) ([]*backend.OutputFile, error) {
	base := emit.SnakeCase(c.Name)
	ref, err := g.classRef(c)
	if err != nil {
		return nil, fmt.Errorf("%sRef: %w", c.Name, err)
	}
	refMut, err := g.classRefMut(c)
	if err != nil {
		return nil, fmt.Errorf("%sRefMut: %w", c.Name, err)
	}
	owned, err := g.classOwned(c)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.Name, err)
	}
	return []*backend.OutputFile{
		{Path: base + "_ref.go", Content: ref},
		{Path: base + "_ref_mut.go", Content: refMut},
		{Path: base + ".go", Content: owned},
	}, nil
}

// goFile collects one source file's body and imports.
type goFile struct {
	pkg     string
	w       *emit.Writer
	imports map[string]bool
}

func (g *Generator) newFile() *goFile {
	return &goFile{pkg: g.opts.GoPackage, w: emit.NewWriter("\t"), imports: map[string]bool{}}
}

func (f *goFile) use(path string) { f.imports[path] = true }

// render assembles the file and formats it with go/format.
func (f *goFile) render() ([]byte, error) {
	var std, ext []string
	for path := range f.imports {
		if strings.Contains(path, ".") {
			ext = append(ext, path)
		} else {
			std = append(std, path)
		}
	}
	sort.Strings(std)
	sort.Strings(ext)

	w := emit.NewWriter("\t")
	w.Line("// Code generated by bindgen. DO NOT EDIT.")
	w.Line("")
	w.Linef("package %s", f.pkg)
	w.Line("")
	if len(std)+len(ext) > 0 {
		w.Line("import (")
		w.Indent()
		for _, p := range std {
			w.Linef("%q", p)
		}
		if len(std) > 0 && len(ext) > 0 {
			w.Line("")
		}
		for _, p := range ext {
			w.Linef("%q", p)
		}
		w.Dedent()
		w.Line(")")
		w.Line("")
	}
	w.Raw(f.w.String())

	src, err := format.Source(w.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated source: %w", err)
	}
	return src, nil
}

func writeDoc(w *emit.Writer, comments []string) {
	for _, c := range comments {
		w.Linef("// %s", placeholders.Comment(c))
	}
}

// receiverName is the receiver identifier for methods on a class's types.
func receiverName(class string) string {
	r := strings.ToLower(class[:1])
	if reserved[r] {
		return "x"
	}
	return r
}

func (g *Generator) classRef(c *ir.Class) ([]byte, error) {
	f := g.newFile()
	w := f.w
	name := c.Name + "Ref"
	writeDoc(w, c.Comments)
	w.Block(fmt.Sprintf("type %s struct {", name), func() {
		w.Line("mod *Module")
		w.Line("ptr uint32")
	}, "}")
	for i := range c.SharedFns {
		if err := g.writeMethod(f, &c.SharedFns[i], c.Name, name); err != nil {
			return nil, err
		}
	}
	if c.Name == "SharedTimer" {
		writeSharedTimerHelpers(f, receiverName(c.Name))
	}
	return f.render()
}

func (g *Generator) classRefMut(c *ir.Class) ([]byte, error) {
	f := g.newFile()
	w := f.w
	name := c.Name + "RefMut"
	r := receiverName(c.Name)
	writeDoc(w, c.Comments)
	w.Block(fmt.Sprintf("type %s struct {", name), func() {
		w.Line(c.Name + "Ref")
	}, "}")
	w.Line("")
	w.Linef("// AsRef returns the read-only view of %s.", r)
	w.Block(fmt.Sprintf("func (%s *%s) AsRef() *%sRef {", r, name, c.Name), func() {
		w.Linef("return &%s.%sRef", r, c.Name)
	}, "}")
	for i := range c.MutFns {
		if err := g.writeMethod(f, &c.MutFns[i], c.Name, name); err != nil {
			return nil, err
		}
	}
	return f.render()
}

func (g *Generator) classOwned(c *ir.Class) ([]byte, error) {
	f := g.newFile()
	w := f.w
	r := receiverName(c.Name)
	drop, hasDrop := c.Disposer()

	writeDoc(w, c.Comments)
	w.Block(fmt.Sprintf("type %s struct {", c.Name), func() {
		w.Line(c.Name + "RefMut")
		if hasDrop {
			w.Line("cleanup runtime.Cleanup")
		}
	}, "}")
	w.Line("")
	w.Block(fmt.Sprintf("func new%s(mod *Module, ptr uint32) *%s {", c.Name, c.Name), func() {
		w.Linef("%s := &%s{%sRefMut: %sRefMut{%sRef: %sRef{mod: mod, ptr: ptr}}}", r, c.Name, c.Name, c.Name, c.Name, c.Name)
		if hasDrop {
			f.use("runtime")
			w.Block("if ptr != 0 {", func() {
				w.Linef("%s.cleanup = runtime.AddCleanup(%s, mod.drop(%q), ptr)", r, r, drop.Name)
			}, "}")
		}
		w.Linef("return %s", r)
	}, "}")
	w.Line("")
	w.Linef("// AsRefMut returns the mutable view of %s.", r)
	w.Block(fmt.Sprintf("func (%s *%s) AsRefMut() *%sRefMut {", r, c.Name, c.Name), func() {
		w.Linef("return &%s.%sRefMut", r, c.Name)
	}, "}")

	f.use("context")
	w.Line("")
	w.Linef("// Close releases the native object. Calling it again is a no-op.")
	w.Block(fmt.Sprintf("func (%s *%s) Close(ctx context.Context) error {", r, c.Name), func() {
		w.Block(fmt.Sprintf("if %s == nil || %s.ptr == 0 {", r, r), func() {
			w.Line("return nil")
		}, "}")
		if !hasDrop {
			w.Linef("%s.ptr = 0", r)
			w.Line("return nil")
			return
		}
		f.use(BridgeImport)
		f.use(apiImport)
		w.Linef("%s.cleanup.Stop()", r)
		w.Linef("ptr := %s.ptr", r)
		w.Linef("%s.ptr = 0", r)
		w.Block(fmt.Sprintf("return %s.mod.bridge.Session(ctx, func(sess *wasmbridge.Session) error {", r), func() {
			w.Linef("_, err := sess.Call(%q, api.EncodeU32(ptr))", drop.Name)
			w.Line("return err")
		}, "})")
	}, "}")
	w.Line("")
	w.Line("// release gives up ownership after the native side took the object over.")
	w.Block(fmt.Sprintf("func (%s *%s) release() {", r, c.Name), func() {
		if hasDrop {
			w.Linef("%s.cleanup.Stop()", r)
		}
		w.Linef("%s.ptr = 0", r)
	}, "}")

	for i := range c.StaticFns {
		if err := g.writeMethod(f, &c.StaticFns[i], c.Name, "Module"); err != nil {
			return nil, err
		}
	}
	for i := range c.OwnFns {
		if c.OwnFns[i].IsDisposer() {
			continue
		}
		if err := g.writeMethod(f, &c.OwnFns[i], c.Name, c.Name); err != nil {
			return nil, err
		}
	}
	return f.render()
}

func writeSharedTimerHelpers(f *goFile, r string) {
	w := f.w
	f.use("context")
	for _, h := range []struct{ name, lock, view string }{
		{"ReadWith", "Read", "TimerRef"},
		{"WriteWith", "Write", "TimerRefMut"},
	} {
		w.Line("")
		w.Linef("// %s acquires the timer lock, passes the timer to fn and releases the", h.name)
		w.Line("// lock on every exit path.")
		w.Block(fmt.Sprintf("func (%s *SharedTimerRef) %s(ctx context.Context, fn func(*%s) error) (err error) {", r, h.name, h.view), func() {
			w.Linef("lock, err := %s.%s(ctx)", r, h.lock)
			w.Block("if err != nil {", func() {
				w.Line("return err")
			}, "}")
			w.Block("defer func() {", func() {
				w.Block("if cerr := lock.Close(ctx); err == nil {", func() {
					w.Line("err = cerr")
				}, "}")
			}, "}()")
			w.Line("timer, err := lock.Timer(ctx)")
			w.Block("if err != nil {", func() {
				w.Line("return err")
			}, "}")
			w.Line("return fn(timer)")
		}, "}")
	}
}
