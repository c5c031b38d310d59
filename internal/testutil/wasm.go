package testutil

// Value types of the WebAssembly binary format.
const (
	I32 byte = 0x7f
	F64 byte = 0x7c
)

// Single-byte instructions.
var (
	I32Add = []byte{0x6a}
	Drop   = []byte{0x1a}
)

// LocalGet pushes local i.
func LocalGet(i uint32) []byte { return append([]byte{0x20}, uleb(i)...) }

// GlobalGet pushes global i.
func GlobalGet(i uint32) []byte { return append([]byte{0x23}, uleb(i)...) }

// GlobalSet pops into global i.
func GlobalSet(i uint32) []byte { return append([]byte{0x24}, uleb(i)...) }

// I32Const pushes v.
func I32Const(v int32) []byte { return append([]byte{0x41}, sleb(v)...) }

// Call calls function i.
func Call(i uint32) []byte { return append([]byte{0x10}, uleb(i)...) }

// Ops concatenates instructions.
func Ops(ops ...[]byte) []byte {
	var out []byte
	for _, op := range ops {
		out = append(out, op...)
	}
	return out
}

// WasmFunc is a function defined by a WasmModule. Functions are indexed in
// declaration order.
type WasmFunc struct {
	Export  string // empty keeps the function private
	Params  []byte
	Results []byte
	Body    []byte // without the closing end
}

// WasmData is an active data segment.
type WasmData struct {
	Offset int32
	Bytes  []byte
}

// WasmModule assembles a core WebAssembly module with one page of memory
// exported as "memory". Globals are mutable i32s. Imports are not
// supported.
type WasmModule struct {
	Globals []int32
	Funcs   []WasmFunc
	Data    []WasmData
}

// Bytes returns the binary encoding of m.
func (m *WasmModule) Bytes() []byte {
	out := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

	if len(m.Funcs) > 0 {
		types := make([][]byte, len(m.Funcs))
		indices := make([][]byte, len(m.Funcs))
		for i, fn := range m.Funcs {
			types[i] = Ops([]byte{0x60}, uleb(uint32(len(fn.Params))), fn.Params, uleb(uint32(len(fn.Results))), fn.Results)
			indices[i] = uleb(uint32(i))
		}
		out = append(out, section(1, vector(types))...)
		out = append(out, section(3, vector(indices))...)
	}

	out = append(out, section(5, vector([][]byte{{0x00, 0x01}}))...)

	if len(m.Globals) > 0 {
		globals := make([][]byte, len(m.Globals))
		for i, v := range m.Globals {
			globals[i] = Ops([]byte{I32, 0x01}, I32Const(v), []byte{0x0b})
		}
		out = append(out, section(6, vector(globals))...)
	}

	exports := [][]byte{Ops(name("memory"), []byte{0x02, 0x00})}
	for i, fn := range m.Funcs {
		if fn.Export != "" {
			exports = append(exports, Ops(name(fn.Export), []byte{0x00}, uleb(uint32(i))))
		}
	}
	out = append(out, section(7, vector(exports))...)

	if len(m.Funcs) > 0 {
		bodies := make([][]byte, len(m.Funcs))
		for i, fn := range m.Funcs {
			body := Ops([]byte{0x00}, fn.Body, []byte{0x0b})
			bodies[i] = Ops(uleb(uint32(len(body))), body)
		}
		out = append(out, section(10, vector(bodies))...)
	}

	if len(m.Data) > 0 {
		segments := make([][]byte, len(m.Data))
		for i, d := range m.Data {
			segments[i] = Ops([]byte{0x00}, I32Const(d.Offset), []byte{0x0b}, uleb(uint32(len(d.Bytes))), d.Bytes)
		}
		out = append(out, section(11, vector(segments))...)
	}
	return out
}

func section(id byte, payload []byte) []byte {
	return Ops([]byte{id}, uleb(uint32(len(payload))), payload)
}

func vector(items [][]byte) []byte {
	return Ops(uleb(uint32(len(items))), Ops(items...))
}

func name(s string) []byte {
	return Ops(uleb(uint32(len(s))), []byte(s))
}

func uleb(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

func sleb(v int32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}
