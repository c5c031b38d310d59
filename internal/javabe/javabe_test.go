package javabe

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bindgen/internal/backend"
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
	files := generate(t, c, classes)
	src, ok := files[path]
	require.True(t, ok, "missing %s in %v", path, files)
	return src
}

func TestTableIsTotal(t *testing.T) {
	typemaptest.AssertTotal(t, table{})
}

func TestConversionsComeFromTable(t *testing.T) {
	e := newMapper()

	enc, err := e.Encode(ir.Prim("bool"), "on")
	require.NoError(t, err)
	assert.Equal(t, "(byte)(on ? 1 : 0)", enc)

	dec, err := e.Decode(ir.Prim("u16"), "call()")
	require.NoError(t, err)
	assert.Equal(t, "(short)call()", dec)

	dec, err = e.Decode(ir.Handle("Widget", ir.Value), "call()")
	require.NoError(t, err)
	assert.Equal(t, "call()", dec)
}

func TestRegistered(t *testing.T) {
	g, err := backend.New(Name, backend.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "java", g.Name())
}

func TestWidget_Golden(t *testing.T) {
	w := testutil.Widget()
	files := generate(t, w, ir.Classes{w})
	require.Len(t, files, 3)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, name := range []string{"WidgetRef.java", "WidgetRefMut.java", "Widget.java"} {
		g.Assert(t, name, []byte(files[name]))
	}
}

func TestRuntime_Bridge(t *testing.T) {
	files, err := New(backend.DefaultOptions()).Runtime(testutil.TimerSuite())
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "LiveSplitCoreNative.java", files[0].Path)

	src := string(files[0].Content)
	assert.True(t, strings.HasPrefix(src, "package org.livesplit;\n"))
	assert.Contains(t, src, "INSTANCE = new LiveSplitCore(10 << 20, dateNow, null, null, instantNow);")
	assert.Contains(t, src, "static synchronized double Instant_now() {")
	assert.Contains(t, src, "mem.putShort(ptr, (short)date.getYear());")
	assert.Contains(t, src, "mem.put(ptr + 2, (byte)date.getMonthValue());")
	assert.Contains(t, src, "mem.put(ptr + 6, (byte)date.getSecond());")
	assert.Contains(t, src, "mem.putShort(ptr + 7, (short)(date.getNano() / 1_000_000));")
	assert.NotContains(t, src, "{{")
}

func TestRuntime_CustomOptions(t *testing.T) {
	opts := backend.Options{Library: "Widgets", JavaPackage: "com.example.widgets"}
	files, err := New(opts).Runtime(nil)
	require.NoError(t, err)

	assert.Equal(t, "WidgetsNative.java", files[0].Path)
	src := string(files[0].Content)
	assert.Contains(t, src, "package com.example.widgets;")
	assert.Contains(t, src, "public class WidgetsNative {")
	assert.Contains(t, src, "public static Widgets INSTANCE;")
}

func TestClass_Hierarchy(t *testing.T) {
	files := generate(t, testutil.Widget(), nil)

	assert.Contains(t, files["WidgetRef.java"], "public class WidgetRef {")
	assert.Contains(t, files["WidgetRefMut.java"], "public class WidgetRefMut extends WidgetRef {")
	assert.Contains(t, files["Widget.java"], "public class Widget extends WidgetRefMut implements AutoCloseable {")
}

func TestMethod_NullableFactoryReturnsNull(t *testing.T) {
	src := suiteFile(t, "Run", "Run.java")

	assert.Contains(t, src, "public static Run parse(String data, String path) {")
	assert.Contains(t, src, "int result = LiveSplitCoreNative.INSTANCE.Run_parse(data_Allocated.ptr, path_Allocated.ptr);")
	assert.Contains(t, src, "return null;")
	assert.Contains(t, src, "return new Run(result);")
	assert.Contains(t, src, " * Attempts to parse a splits file. Returns null if it couldn't be parsed.")
}

func TestMethod_BuffersReleasedInReverseOrder(t *testing.T) {
	src := suiteFile(t, "Run", "Run.java")

	dataAlloc := strings.Index(src, "data_Allocated = LiveSplitCoreNative.allocString(data);")
	pathAlloc := strings.Index(src, "path_Allocated = LiveSplitCoreNative.allocString(path);")
	call := strings.Index(src, "LiveSplitCoreNative.INSTANCE.Run_parse(")
	pathFree := strings.Index(src, "path_Allocated.dealloc();")
	dataFree := strings.Index(src, "data_Allocated.dealloc();")

	require.True(t, dataAlloc >= 0 && pathAlloc >= 0 && call >= 0 && pathFree >= 0 && dataFree >= 0)
	assert.Less(t, dataAlloc, pathAlloc)
	assert.Less(t, pathAlloc, call)
	assert.Less(t, call, pathFree)
	assert.Less(t, pathFree, dataFree)
	assert.Equal(t, 2, strings.Count(src, "} finally {"))
}

func TestMethod_OwnedArgumentIsInvalidated(t *testing.T) {
	src := suiteFile(t, "Timer", "Timer.java")

	assert.Contains(t, src, "public static Timer create(Run run) {")
	assert.Contains(t, src, "if (run.ptr == 0) {")
	assert.Contains(t, src, "int result = LiveSplitCoreNative.INSTANCE.Timer_new(run.ptr);\n        run.ptr = 0;")
}

func TestMethod_NullCheckPrecedesCall(t *testing.T) {
	src := suiteFile(t, "Timer", "TimerRefMut.java")

	check := strings.Index(src, "if (run.ptr == 0) {")
	call := strings.Index(src, "LiveSplitCoreNative.INSTANCE.Timer_set_run(")
	require.True(t, check >= 0 && call >= 0)
	assert.Less(t, check, call)
	assert.Contains(t, src, "throw new NullPointerException();")
}

func TestMethod_ReturnMarshalling(t *testing.T) {
	tests := []struct {
		class, file, want string
	}{
		{"Timer", "TimerRef.java", "byte result = (byte)LiveSplitCoreNative.INSTANCE.Timer_current_phase(this.ptr);"},
		{"Timer", "TimerRefMut.java", "boolean result = LiveSplitCoreNative.INSTANCE.Timer_set_run(this.ptr, run.ptr) != 0;"},
		{"Timer", "TimerRef.java", "return new RunRef(result);"},
		{"Run", "RunRef.java", "int result = LiveSplitCoreNative.INSTANCE.Run_attempt_count(this.ptr);"},
		{"Run", "RunRef.java", "return new SegmentRef(result);"},
		{"Layout", "LayoutRef.java", "String result = LiveSplitCoreNative.readString(LiveSplitCoreNative.INSTANCE.Layout_settings_as_json(this.ptr));"},
		{"TimerWriteLock", "TimerWriteLockRefMut.java", "return new TimerRefMut(result);"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Contains(t, suiteFile(t, tt.class, tt.file), tt.want)
		})
	}
}

func TestMethod_BooleanArgumentNarrowed(t *testing.T) {
	src := suiteFile(t, "LayoutEditor", "LayoutEditorRefMut.java")
	assert.Contains(t, src, "public void setComponentSettingsBool(int index, boolean value) {")
	assert.Contains(t, src, "LiveSplitCoreNative.INSTANCE.LayoutEditor_set_component_settings_bool(this.ptr, index, (byte)(value ? 1 : 0));")
}

func TestMethod_Renames(t *testing.T) {
	assert.Contains(t, suiteFile(t, "Run", "RunRef.java"), "public Run copy() {")
	assert.Contains(t, suiteFile(t, "LayoutEditor", "LayoutEditor.java"), "public Layout finish() {")
	assert.Contains(t, suiteFile(t, "Layout", "Layout.java"), "public static Layout createDefault() {")
	assert.Contains(t, suiteFile(t, "Layout", "Layout.java"), "public Layout() {")
}

func TestOwned_DisposerWithoutDrop(t *testing.T) {
	src := suiteFile(t, "LayoutEditor", "LayoutEditor.java")
	assert.Contains(t, src, "private void drop() {")
	assert.NotContains(t, src, "LayoutEditor_drop")
	assert.Contains(t, src, "ptr = 0;")
}

func TestSharedTimer_ScopedLockHelpers(t *testing.T) {
	src := suiteFile(t, "SharedTimer", "SharedTimerRef.java")
	assert.Contains(t, src, "public void readWith(java.util.function.Consumer<TimerRef> action) {")
	assert.Contains(t, src, "try (TimerReadLock timerLock = read()) {")
	assert.Contains(t, src, "public void writeWith(java.util.function.Consumer<TimerRefMut> action) {")

	assert.NotContains(t, suiteFile(t, "Timer", "TimerRef.java"), "readWith")
}

func TestClass_UnmappedPrimitiveFails(t *testing.T) {
	c := &ir.Class{
		Name: "Broken",
		SharedFns: []ir.Function{{
			Name:   "Broken_size",
			Method: "size",
			Inputs: []ir.Param{{Name: ir.ReceiverName, Type: ir.Handle("Broken", ir.Ref)}},
			Output: ir.Prim("u128"),
		}},
	}
	_, err := New(backend.DefaultOptions()).Class(c, ir.Classes{c})
	require.Error(t, err)
	assert.ErrorIs(t, err, typemap.ErrUnmapped)
	assert.Contains(t, err.Error(), "Broken_size")
}

func TestArgName_EscapesKeywords(t *testing.T) {
	fn := &ir.Function{
		Name:   "Editor_select",
		Method: "select",
		Inputs: []ir.Param{
			{Name: ir.ReceiverName, Type: ir.Handle("Editor", ir.RefMut)},
			{Name: "default", Type: ir.Prim("bool")},
		},
		Output: ir.UnitType(),
	}
	c := &ir.Class{Name: "Editor", MutFns: []ir.Function{*fn}}
	src := generate(t, c, ir.Classes{c})["EditorRefMut.java"]
	assert.Contains(t, src, "public void select(boolean default_) {")
}
