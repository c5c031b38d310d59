package wasmbridge

// Host import module and callbacks.
const (
	// HostModule is the import module name the native library expects its
	// host callbacks under.
	HostModule = "env"

	// HostInstantNow returns monotonic seconds since the first observation.
	// Signature: Instant_now() -> f64
	HostInstantNow = "Instant_now"

	// HostDateNow writes the current UTC calendar date at the given address.
	// Signature: Date_now(addr: i32) -> void
	HostDateNow = "Date_now"
)

// Module exports.
const (
	// ExportMemory is the module's linear memory.
	ExportMemory = "memory"

	// ExportAlloc allocates size bytes in linear memory.
	// Signature: alloc(size: i32) -> i32 (pointer)
	ExportAlloc = "alloc"

	// ExportDealloc releases an allocation made by alloc.
	// Signature: dealloc(ptr: i32, size: i32) -> void
	ExportDealloc = "dealloc"
)

const (
	// PageSize is the size of one WebAssembly memory page.
	PageSize = 65536

	// DefaultMemoryLimit bounds linear memory at 10 MiB.
	DefaultMemoryLimit = 10 << 20
)
