package wasmbridge

import (
	"bytes"
	"context"
	"fmt"

	"github.com/tetratelabs/wazero/api"
)

// Buf is a native buffer: its address and its size in bytes.
type Buf struct {
	Ptr  uint32
	Size uint32
}

// AllocString copies s into a fresh buffer as UTF-8 followed by one zero
// byte. The caller must release it with alloc.Dealloc(ctx, buf.Ptr, buf.Size).
func AllocString(ctx context.Context, mem api.Memory, alloc Allocator, s string) (Buf, error) {
	size := uint32(len(s) + 1)
	ptr, err := alloc.Alloc(ctx, size)
	if err != nil {
		return Buf{}, err
	}
	buf := Buf{Ptr: ptr, Size: size}
	if !mem.WriteString(ptr, s) || !mem.WriteByte(ptr+uint32(len(s)), 0) {
		_ = alloc.Dealloc(ctx, ptr, size)
		return Buf{}, fmt.Errorf("%w: string of %d bytes at %d", ErrOutOfBounds, size, ptr)
	}
	return buf, nil
}

// ReadString decodes the zero-terminated UTF-8 text at ptr.
func ReadString(mem api.Memory, ptr uint32) (string, error) {
	size := mem.Size()
	if ptr >= size {
		return "", fmt.Errorf("%w: string at %d", ErrOutOfBounds, ptr)
	}
	view, ok := mem.Read(ptr, size-ptr)
	if !ok {
		return "", fmt.Errorf("%w: string at %d", ErrOutOfBounds, ptr)
	}
	end := bytes.IndexByte(view, 0)
	if end < 0 {
		return "", fmt.Errorf("%w: at %d", ErrUnterminated, ptr)
	}
	return string(view[:end]), nil
}
