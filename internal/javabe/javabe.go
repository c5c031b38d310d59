// Package javabe generates Java bindings for the native module compiled to
// wasm and hosted inside the JVM.
//
// Each class becomes three files: <Class>Ref (shared functions),
// <Class>RefMut extends <Class>Ref (mutating functions) and <Class> extends
// <Class>RefMut implements AutoCloseable (factories, owning functions and
// the disposer). <Library>Native holds the bridge: the module instance,
// host callbacks and string marshalling.
package javabe

import (
	"fmt"

	"github.com/roach88/bindgen/internal/backend"
	"github.com/roach88/bindgen/internal/emit"
	"github.com/roach88/bindgen/internal/ir"
	"github.com/roach88/bindgen/internal/typemap"
)

// Name is the registered backend name.
const Name = "java"

func init() {
	backend.Register(Name, func(opts backend.Options) backend.Generator { return New(opts) })
}

var placeholders = emit.Placeholders{Null: "null", True: "true", False: "false"}

// Generator emits Java sources.
type Generator struct {
	opts  backend.Options
	types *typemap.Engine
}

// New creates a Java generator.
func New(opts backend.Options) *Generator {
	return &Generator{opts: opts, types: newMapper()}
}

func (g *Generator) Name() string { return Name }

func (g *Generator) native() string { return g.opts.Library + "Native" }

// Runtime emits the <Library>Native bridge class.
func (g *Generator) Runtime(ir.Classes) ([]*backend.OutputFile, error) {
	return []*backend.OutputFile{{
		Path:    g.native() + ".java",
		Content: []byte(g.bridge()),
	}}, nil
}

// Class emits <Class>Ref.java, <Class>RefMut.java and <Class>.java.
func (g *Generator) Class(c *ir.Class, _ ir.Classes) ([]*backend.OutputFile, error) {
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
		{Path: c.Name + "Ref.java", Content: ref},
		{Path: c.Name + "RefMut.java", Content: refMut},
		{Path: c.Name + ".java", Content: owned},
	}, nil
}

func (g *Generator) header(w *emit.Writer, comments []string) {
	w.Linef("package %s;", g.opts.JavaPackage)
	w.Line("")
	writeDoc(w, comments)
}

func writeDoc(w *emit.Writer, comments []string) {
	if len(comments) == 0 {
		return
	}
	w.Line("/**")
	for _, c := range comments {
		w.Linef(" * %s", placeholders.Comment(c))
	}
	w.Line(" */")
}

func (g *Generator) classRef(c *ir.Class) ([]byte, error) {
	w := emit.NewWriter("    ")
	name := c.Name + "Ref"
	g.header(w, c.Comments)
	w.Linef("public class %s {", name)
	w.Indent()
	w.Line("int ptr;")
	for i := range c.SharedFns {
		if err := g.writeMethod(w, &c.SharedFns[i], name); err != nil {
			return nil, err
		}
	}
	if c.Name == "SharedTimer" {
		writeSharedTimerHelpers(w)
	}
	w.Line("")
	w.Block(fmt.Sprintf("%s(int ptr) {", name), func() {
		w.Line("this.ptr = ptr;")
	}, "}")
	w.Dedent()
	w.Line("}")
	return w.Bytes(), nil
}

func (g *Generator) classRefMut(c *ir.Class) ([]byte, error) {
	w := emit.NewWriter("    ")
	name := c.Name + "RefMut"
	g.header(w, c.Comments)
	w.Linef("public class %s extends %sRef {", name, c.Name)
	w.Indent()
	for i := range c.MutFns {
		if err := g.writeMethod(w, &c.MutFns[i], c.Name); err != nil {
			return nil, err
		}
	}
	w.Line("")
	w.Block(fmt.Sprintf("%s(int ptr) {", name), func() {
		w.Line("super(ptr);")
	}, "}")
	w.Dedent()
	w.Line("}")
	return w.Bytes(), nil
}

func (g *Generator) classOwned(c *ir.Class) ([]byte, error) {
	w := emit.NewWriter("    ")
	g.header(w, c.Comments)
	w.Linef("public class %s extends %sRefMut implements AutoCloseable {", c.Name, c.Name)
	w.Indent()

	w.Block("private void drop() {", func() {
		w.Block("if (ptr != 0) {", func() {
			if drop, ok := c.Disposer(); ok {
				w.Linef("%s.INSTANCE.%s(this.ptr);", g.native(), drop.Name)
			}
			w.Line("ptr = 0;")
		}, "}")
	}, "}")
	w.Line("")
	w.Block("protected void finalize() throws Throwable {", func() {
		w.Line("drop();")
		w.Line("super.finalize();")
	}, "}")
	w.Line("")
	w.Block("public void close() {", func() {
		w.Line("drop();")
	}, "}")

	for _, fn := range c.OwnedMethods() {
		if err := g.writeMethod(w, fn, c.Name); err != nil {
			return nil, err
		}
	}

	w.Line("")
	w.Block(fmt.Sprintf("%s(int ptr) {", c.Name), func() {
		w.Line("super(ptr);")
	}, "}")
	w.Dedent()
	w.Line("}")
	return w.Bytes(), nil
}

func writeSharedTimerHelpers(w *emit.Writer) {
	w.Line("")
	w.Block("public void readWith(java.util.function.Consumer<TimerRef> action) {", func() {
		w.Block("try (TimerReadLock timerLock = read()) {", func() {
			w.Line("action.accept(timerLock.timer());")
		}, "}")
	}, "}")
	w.Line("")
	w.Block("public void writeWith(java.util.function.Consumer<TimerRefMut> action) {", func() {
		w.Block("try (TimerWriteLock timerLock = write()) {", func() {
			w.Line("action.accept(timerLock.timer());")
		}, "}")
	}, "}")
}
