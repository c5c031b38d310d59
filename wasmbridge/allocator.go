package wasmbridge

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero/api"
)

// Allocator hands out buffers in a module's linear memory.
type Allocator interface {
	Alloc(ctx context.Context, size uint32) (uint32, error)
	Dealloc(ctx context.Context, ptr, size uint32) error
}

// ExportedAllocator calls the module's own alloc and dealloc exports.
type ExportedAllocator struct {
	alloc   api.Function
	dealloc api.Function
}

// NewExportedAllocator returns an allocator over mod's exports, or false if
// mod does not export both functions.
func NewExportedAllocator(mod api.Module) (*ExportedAllocator, bool) {
	alloc := mod.ExportedFunction(ExportAlloc)
	dealloc := mod.ExportedFunction(ExportDealloc)
	if alloc == nil || dealloc == nil {
		return nil, false
	}
	return &ExportedAllocator{alloc: alloc, dealloc: dealloc}, true
}

func (a *ExportedAllocator) Alloc(ctx context.Context, size uint32) (uint32, error) {
	results, err := a.alloc.Call(ctx, api.EncodeU32(size))
	if err != nil {
		return 0, &CallError{Symbol: ExportAlloc, Cause: err}
	}
	ptr := api.DecodeU32(results[0])
	if ptr == 0 {
		return 0, fmt.Errorf("%w: alloc(%d)", ErrOutOfMemory, size)
	}
	return ptr, nil
}

func (a *ExportedAllocator) Dealloc(ctx context.Context, ptr, size uint32) error {
	if _, err := a.dealloc.Call(ctx, api.EncodeU32(ptr), api.EncodeU32(size)); err != nil {
		return &CallError{Symbol: ExportDealloc, Cause: err}
	}
	return nil
}

// BumpAllocator is a stack-disciplined allocator over the memory past the
// module's own data. It serves modules that export no allocator. Buffers
// must be released in reverse allocation order, which Session guarantees.
type BumpAllocator struct {
	mem    api.Memory
	top    uint32
	frames []uint32 // top before each live allocation
}

const bumpAlign = 8

// NewBumpAllocator starts allocating at the current end of mem, growing it
// on demand.
func NewBumpAllocator(mem api.Memory) *BumpAllocator {
	return &BumpAllocator{mem: mem, top: mem.Size()}
}

func (a *BumpAllocator) Alloc(_ context.Context, size uint32) (uint32, error) {
	ptr := (a.top + bumpAlign - 1) &^ (bumpAlign - 1)
	end := uint64(ptr) + uint64(size)
	if end > uint64(a.mem.Size()) {
		missing := end - uint64(a.mem.Size())
		pages := uint32((missing + PageSize - 1) / PageSize)
		if _, ok := a.mem.Grow(pages); !ok {
			return 0, fmt.Errorf("%w: grow by %d pages", ErrOutOfMemory, pages)
		}
	}
	a.frames = append(a.frames, a.top)
	a.top = uint32(end)
	return ptr, nil
}

func (a *BumpAllocator) Dealloc(_ context.Context, ptr, size uint32) error {
	n := len(a.frames)
	if n == 0 || ptr+size != a.top {
		return fmt.Errorf("wasmbridge: dealloc(%d, %d) is not the most recent allocation", ptr, size)
	}
	a.top = a.frames[n-1]
	a.frames = a.frames[:n-1]
	return nil
}

// Live returns the number of outstanding allocations.
func (a *BumpAllocator) Live() int {
	return len(a.frames)
}
