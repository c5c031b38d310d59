package tsbe

import (
	"github.com/roach88/bindgen/internal/emit"
	"github.com/roach88/bindgen/internal/ir"
)

// nativeSource is native.ts: module instantiation, host callbacks, string
// marshalling and the bookkeeping behind automatic reclamation.
const nativeSource = `// Bridge to the native module compiled to WebAssembly.

export let wasm: any;
let memory: WebAssembly.Memory;
let firstInstant: number | undefined;

const encoder = new TextEncoder();
const decoder = new TextDecoder("utf-8");

function Instant_now(): number {
    const now = performance.now();
    if (firstInstant === undefined) {
        firstInstant = now;
    }
    return (now - firstInstant) / 1000;
}

function Date_now(ptr: number): void {
    const date = new Date();
    const view = new DataView(memory.buffer);
    view.setUint16(ptr, date.getUTCFullYear(), true);
    view.setUint8(ptr + 2, date.getUTCMonth() + 1);
    view.setUint8(ptr + 3, date.getUTCDate());
    view.setUint8(ptr + 4, date.getUTCHours());
    view.setUint8(ptr + 5, date.getUTCMinutes());
    view.setUint8(ptr + 6, date.getUTCSeconds());
    view.setUint16(ptr + 7, date.getUTCMilliseconds(), true);
}

export async function load(source: BufferSource): Promise<void> {
    if (wasm !== undefined) {
        throw new Error("native module is already loaded");
    }
    const { instance } = await WebAssembly.instantiate(source, {
        env: { Instant_now, Date_now },
    });
    wasm = instance.exports;
    memory = instance.exports.memory as WebAssembly.Memory;
}

export interface AllocatedBuf {
    ptr: number;
    size: number;
}

export function allocString(s: string): AllocatedBuf {
    const bytes = encoder.encode(s);
    const size = bytes.length + 1;
    const ptr = wasm.alloc(size);
    const mem = new Uint8Array(memory.buffer, ptr, size);
    mem.set(bytes);
    mem[bytes.length] = 0;
    return { ptr, size };
}

export function dealloc(buf: AllocatedBuf): void {
    wasm.dealloc(buf.ptr, buf.size);
}

export function decodeString(ptr: number): string {
    const mem = new Uint8Array(memory.buffer, ptr);
    const end = mem.indexOf(0);
    if (end < 0) {
        throw new Error("unterminated string at " + ptr);
    }
    return decoder.decode(mem.subarray(0, end));
}

type Constructor = new (ptr: number) => unknown;

const constructors = new Map<string, Constructor>();

export function register(name: string, ctor: Constructor): void {
    constructors.set(name, ctor);
}

export function construct<T>(name: string, ptr: number): T {
    const ctor = constructors.get(name);
    if (ctor === undefined) {
        throw new Error("class " + name + " is not loaded");
    }
    return new ctor(ptr) as T;
}

interface Tracked {
    ptr: number;
    drop: (ptr: number) => void;
}

const reclaim = new FinalizationRegistry((held: Tracked) => {
    held.drop(held.ptr);
});

export function track(obj: object, ptr: number, drop: (ptr: number) => void): void {
    reclaim.register(obj, { ptr, drop }, obj);
}

export function untrack(obj: object): void {
    reclaim.unregister(obj);
}
`

const (
	nativeFile = "native.ts"
	indexFile  = "index.ts"
)

// index re-exports every generated class and the catalog. Importing it
// evaluates each class module, which registers its constructor.
func index(classes ir.Classes) []byte {
	w := emit.NewWriter("    ")
	w.Line(`export { load } from "./native";`)
	w.Line(`export * from "./types";`)
	for _, c := range classes.Sorted() {
		for _, name := range []string{c.Name + "Ref", c.Name + "RefMut", c.Name} {
			w.Linef(`export { %s } from "./%s";`, name, name)
		}
	}
	return w.Bytes()
}
