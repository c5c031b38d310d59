package tsbe

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bindgen/internal/backend"
	"github.com/roach88/bindgen/internal/catalog"
	"github.com/roach88/bindgen/internal/ir"
	"github.com/roach88/bindgen/internal/testutil"
	"github.com/roach88/bindgen/internal/typemap"
	"github.com/roach88/bindgen/internal/typemap/typemaptest"
)

func generate(t *testing.T, c *ir.Class, classes ir.Classes) map[string]string {
	t.Helper()
	files, err := New(backend.DefaultOptions()).Class(c, classes)
	require.NoError(t, err)
	out := make(map[string]string, len(files))
	for _, f := range files {
		out[f.Path] = string(f.Content)
	}
	return out
}

func suiteFile(t *testing.T, class, path string) string {
	t.Helper()
	classes := testutil.TimerSuite()
	c, ok := classes.Lookup(class)
	require.True(t, ok, "fixture class %s", class)
	src, ok := generate(t, c, classes)[path]
	require.True(t, ok, "missing %s", path)
	return src
}

func TestTableIsTotal(t *testing.T) {
	typemaptest.AssertTotal(t, table{})
}

func TestRegistered(t *testing.T) {
	g, err := backend.New(Name, backend.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "typescript", g.Name())
}

func TestWidget_Golden(t *testing.T) {
	w := testutil.Widget()
	files := generate(t, w, ir.Classes{w})
	require.Len(t, files, 3)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, name := range []string{"WidgetRef.ts", "WidgetRefMut.ts", "Widget.ts"} {
		g.Assert(t, name, []byte(files[name]))
	}
}

func TestRuntime(t *testing.T) {
	files, err := New(backend.DefaultOptions()).Runtime(testutil.TimerSuite())
	require.NoError(t, err)

	byPath := map[string]string{}
	for _, f := range files {
		byPath[f.Path] = string(f.Content)
	}
	require.Len(t, byPath, 3)

	native := byPath["native.ts"]
	assert.Contains(t, native, "env: { Instant_now, Date_now },")
	assert.Contains(t, native, "view.setUint16(ptr, date.getUTCFullYear(), true);")
	assert.Contains(t, native, "view.setUint8(ptr + 2, date.getUTCMonth() + 1);")
	assert.Contains(t, native, "view.setUint16(ptr + 7, date.getUTCMilliseconds(), true);")
	assert.Contains(t, native, "new FinalizationRegistry(")
	assert.Contains(t, native, "if (wasm !== undefined) {\n        throw new Error(\"native module is already loaded\");")
	assert.Less(t, strings.Index(native, "already loaded"), strings.Index(native, "WebAssembly.instantiate("))
	assert.Contains(t, native, "if (end < 0) {\n        throw new Error(\"unterminated string at \" + ptr);")
	assert.NotContains(t, native, "subarray(0, -1)")

	assert.Equal(t, string(catalog.Source()), byPath["types.ts"])

	index := byPath["index.ts"]
	assert.True(t, strings.HasPrefix(index, "export { load } from \"./native\";\nexport * from \"./types\";\n"))
	assert.Contains(t, index, "export { LayoutRef } from \"./LayoutRef\";\nexport { LayoutRefMut } from \"./LayoutRefMut\";\nexport { Layout } from \"./Layout\";\n")
	assert.Less(t, strings.Index(index, "\"./Layout\""), strings.Index(index, "\"./Timer\""))
}

func TestClass_FirstMemberFollowsBrace(t *testing.T) {
	for _, path := range []string{"TimerRefMut.ts", "Timer.ts", "TimerRef.ts"} {
		src := suiteFile(t, "Timer", path)
		assert.NotContains(t, src, "{\n\n", path)
	}
}

func TestMethod_NullableFactory(t *testing.T) {
	src := suiteFile(t, "Run", "Run.ts")

	assert.Contains(t, src, "static parse(data: string, path: string): Run | null {")
	assert.Contains(t, src, "const result = wasm.Run_parse(data_allocated.ptr, path_allocated.ptr);")
	assert.Contains(t, src, "return null;")
	assert.Contains(t, src, "return new Run(result);")
	assert.Contains(t, src, " * Attempts to parse a splits file. Returns null if it couldn't be parsed.")
}

func TestMethod_BuffersReleasedInReverseOrder(t *testing.T) {
	src := suiteFile(t, "Run", "Run.ts")

	dataFree := strings.Index(src, "dealloc(data_allocated);")
	pathFree := strings.Index(src, "dealloc(path_allocated);")
	call := strings.Index(src, "wasm.Run_parse(")
	require.True(t, dataFree >= 0 && pathFree >= 0 && call >= 0)
	assert.Less(t, call, pathFree)
	assert.Less(t, pathFree, dataFree)
}

func TestMethod_OwnedArgumentMoves(t *testing.T) {
	src := suiteFile(t, "Timer", "Timer.ts")

	assert.Contains(t, src, "static create(run: Run): Timer | null {")
	assert.Contains(t, src, "import type { Run } from \"./Run\";")
	assert.Contains(t, src, "const result = wasm.Timer_new(run.ptr);\n        run.ptr = 0;\n        untrack(run);\n")
}

func TestMethod_NullCheckPrecedesCall(t *testing.T) {
	src := suiteFile(t, "Timer", "TimerRefMut.ts")

	check := strings.Index(src, "if (run.ptr == 0) {")
	call := strings.Index(src, "wasm.Timer_set_run(")
	require.True(t, check >= 0 && call >= 0)
	assert.Less(t, check, call)
	assert.Contains(t, src, "throw new Error(\"run is disposed\");")
}

func TestMethod_ReturnMarshalling(t *testing.T) {
	tests := []struct {
		class, file, want string
	}{
		{"Timer", "TimerRef.ts", "const result = wasm.Timer_current_phase(this.ptr) & 0xFF;"},
		{"Timer", "TimerRefMut.ts", "const result = wasm.Timer_set_run(this.ptr, run.ptr) != 0;"},
		{"Timer", "TimerRef.ts", "return construct<RunRef>(\"RunRef\", result);"},
		{"Run", "RunRef.ts", "const result = wasm.Run_attempt_count(this.ptr) >>> 0;"},
		{"Run", "RunRef.ts", "return construct<SegmentRef>(\"SegmentRef\", result);"},
		{"Run", "RunRef.ts", "copy(): Run {"},
		{"Layout", "LayoutRef.ts", "const result = decodeString(wasm.Layout_settings_as_json(this.ptr));"},
		{"Layout", "Layout.ts", "static createDefault(): Layout {"},
		{"LayoutEditor", "LayoutEditor.ts", "finish(): Layout {"},
		{"LayoutEditor", "LayoutEditorRefMut.ts", "wasm.LayoutEditor_set_component_settings_bool(this.ptr, index, value ? 1 : 0);"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Contains(t, suiteFile(t, tt.class, tt.file), tt.want)
		})
	}
}

func TestOwned_WithoutDisposerIsNotTracked(t *testing.T) {
	src := suiteFile(t, "LayoutEditor", "LayoutEditor.ts")
	assert.Contains(t, src, "dispose(): void {")
	assert.NotContains(t, src, "track(this")
	assert.NotContains(t, src, "LayoutEditor_drop")
}

func TestSharedTimer_ScopedLockHelpers(t *testing.T) {
	src := suiteFile(t, "SharedTimer", "SharedTimerRef.ts")
	assert.Contains(t, src, "readWith<T>(action: (timer: TimerRef) => T): T {")
	assert.Contains(t, src, "writeWith<T>(action: (timer: TimerRefMut) => T): T {")
	assert.Contains(t, src, "lock.dispose();")
	assert.Contains(t, src, "import type { TimerRef } from \"./TimerRef\";")
}

func TestDecodeResult(t *testing.T) {
	tests := []struct {
		prim string
		want string
	}{
		{"i8", "x << 24 >> 24"},
		{"u8", "x & 0xFF"},
		{"i16", "x << 16 >> 16"},
		{"u16", "x & 0xFFFF"},
		{"u32", "x >>> 0"},
		{"usize", "x >>> 0"},
		{"u64", "BigInt.asUintN(64, x)"},
		{"i32", "x"},
		{"f64", "x"},
		{"bool", "x != 0"},
	}
	e := newMapper()
	for _, tt := range tests {
		t.Run(tt.prim, func(t *testing.T) {
			got, err := e.Decode(ir.Prim(tt.prim), "x")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeArgument(t *testing.T) {
	e := newMapper()

	got, err := e.Encode(ir.Prim("bool"), "on")
	require.NoError(t, err)
	assert.Equal(t, "on ? 1 : 0", got)

	got, err = e.Encode(ir.Handle("Widget", ir.Ref), "other.ptr")
	require.NoError(t, err)
	assert.Equal(t, "other.ptr", got)
}

func TestClass_UnmappedPrimitiveFails(t *testing.T) {
	c := &ir.Class{
		Name: "Broken",
		MutFns: []ir.Function{{
			Name:   "Broken_resize",
			Method: "resize",
			Inputs: []ir.Param{
				{Name: ir.ReceiverName, Type: ir.Handle("Broken", ir.RefMut)},
				{Name: "size", Type: ir.Prim("u128")},
			},
			Output: ir.UnitType(),
		}},
	}
	_, err := New(backend.DefaultOptions()).Class(c, ir.Classes{c})
	require.Error(t, err)
	assert.ErrorIs(t, err, typemap.ErrUnmapped)
	assert.Contains(t, err.Error(), "BrokenRefMut")
}
