// Package tsbe generates TypeScript bindings for the native module compiled
// to WebAssembly and loaded through the WebAssembly JS API.
package tsbe

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/bindgen/internal/backend"
	"github.com/roach88/bindgen/internal/catalog"
	"github.com/roach88/bindgen/internal/emit"
	"github.com/roach88/bindgen/internal/ir"
	"github.com/roach88/bindgen/internal/typemap"
)

// Name is the registered backend name.
const Name = "typescript"

func init() {
	backend.Register(Name, func(opts backend.Options) backend.Generator { return New(opts) })
}

var placeholders = emit.Placeholders{Null: "null", True: "true", False: "false"}

// Generator emits TypeScript modules.
type Generator struct {
	opts  backend.Options
	types *typemap.Engine
}

// New creates a TypeScript generator.
func New(opts backend.Options) *Generator {
	return &Generator{opts: opts, types: newMapper()}
}

func (g *Generator) Name() string { return Name }

// Runtime emits native.ts, the structured-data catalog and index.ts.
func (g *Generator) Runtime(classes ir.Classes) ([]*backend.OutputFile, error) {
	return []*backend.OutputFile{
		{Path: nativeFile, Content: []byte(nativeSource)},
		{Path: catalog.FileName, Content: catalog.Source()},
		{Path: indexFile, Content: index(classes)},
	}, nil
}

// Class emits <Class>Ref.ts, <Class>RefMut.ts and <Class>.ts.
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
		{Path: c.Name + "Ref.ts", Content: ref},
		{Path: c.Name + "RefMut.ts", Content: refMut},
		{Path: c.Name + ".ts", Content: owned},
	}, nil
}

// file renders one module. Imports are collected while the body is written
// and emitted ahead of it.
type file struct {
	name    string
	body    *emit.Writer
	parent  string
	native  map[string]bool
	typeRef map[string]bool
}

func newFile(name string) *file {
	w := emit.NewWriter("    ")
	w.Indent()
	return &file{name: name, body: w, native: map[string]bool{}, typeRef: map[string]bool{}}
}

func (f *file) useNative(name string) { f.native[name] = true }

func (f *file) useType(name string) {
	if name != f.name && name != f.parent {
		f.typeRef[name] = true
	}
}

func (f *file) render(comments []string) []byte {
	w := emit.NewWriter("    ")
	if len(f.native) > 0 {
		w.Linef(`import { %s } from "./native";`, strings.Join(sortedKeys(f.native), ", "))
	}
	if f.parent != "" {
		w.Linef(`import { %s } from "./%s";`, f.parent, f.parent)
	}
	for _, name := range sortedKeys(f.typeRef) {
		w.Linef(`import type { %s } from "./%s";`, name, name)
	}
	w.Line("")
	writeDoc(w, comments)
	if f.parent != "" {
		w.Linef("export class %s extends %s {", f.name, f.parent)
	} else {
		w.Linef("export class %s {", f.name)
	}
	// Methods open with a separator line; the first member needs none.
	w.Raw(strings.TrimPrefix(f.body.String(), "\n"))
	w.Line("}")
	w.Line("")
	w.Linef("register(%q, %s);", f.name, f.name)
	return w.Bytes()
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
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
	f := newFile(c.Name + "Ref")
	f.useNative("register")
	f.body.Line("ptr: number;")
	for i := range c.SharedFns {
		if err := g.writeMethod(f, &c.SharedFns[i]); err != nil {
			return nil, err
		}
	}
	if c.Name == "SharedTimer" {
		writeSharedTimerHelpers(f)
	}
	f.body.Line("")
	f.body.Block("constructor(ptr: number) {", func() {
		f.body.Line("this.ptr = ptr;")
	}, "}")
	return f.render(c.Comments), nil
}

func (g *Generator) classRefMut(c *ir.Class) ([]byte, error) {
	f := newFile(c.Name + "RefMut")
	f.parent = c.Name + "Ref"
	f.useNative("register")
	for i := range c.MutFns {
		if err := g.writeMethod(f, &c.MutFns[i]); err != nil {
			return nil, err
		}
	}
	return f.render(c.Comments), nil
}

func (g *Generator) classOwned(c *ir.Class) ([]byte, error) {
	f := newFile(c.Name)
	f.parent = c.Name + "RefMut"
	f.useNative("register")
	w := f.body

	drop, hasDrop := c.Disposer()
	w.Block("dispose(): void {", func() {
		w.Block("if (this.ptr != 0) {", func() {
			if hasDrop {
				f.useNative("untrack")
				f.useNative("wasm")
				w.Line("untrack(this);")
				w.Linef("wasm.%s(this.ptr);", drop.Name)
			}
			w.Line("this.ptr = 0;")
		}, "}")
	}, "}")

	for _, fn := range c.OwnedMethods() {
		if err := g.writeMethod(f, fn); err != nil {
			return nil, err
		}
	}

	w.Line("")
	w.Block("constructor(ptr: number) {", func() {
		w.Line("super(ptr);")
		if hasDrop {
			f.useNative("track")
			f.useNative("wasm")
			w.Linef("track(this, ptr, wasm.%s);", drop.Name)
		}
	}, "}")
	return f.render(c.Comments), nil
}

func writeSharedTimerHelpers(f *file) {
	w := f.body
	f.useType("TimerRef")
	f.useType("TimerRefMut")
	w.Line("")
	w.Block("readWith<T>(action: (timer: TimerRef) => T): T {", func() {
		w.Line("const lock = this.read();")
		w.Block("try {", func() {
			w.Line("return action(lock.timer());")
		}, "} finally {")
		w.Indent()
		w.Line("lock.dispose();")
		w.Dedent()
		w.Line("}")
	}, "}")
	w.Line("")
	w.Block("writeWith<T>(action: (timer: TimerRefMut) => T): T {", func() {
		w.Line("const lock = this.write();")
		w.Block("try {", func() {
			w.Line("return action(lock.timer());")
		}, "} finally {")
		w.Indent()
		w.Line("lock.dispose();")
		w.Dedent()
		w.Line("}")
	}, "}")
}
