package wasmbridge

import (
	"errors"
	"fmt"
)

var (
	// ErrNullHandle is returned when a null handle is passed to a bound
	// method. The native call is never made.
	ErrNullHandle = errors.New("wasmbridge: null handle")

	// ErrClosed is returned for calls on a closed Bridge.
	ErrClosed = errors.New("wasmbridge: bridge closed")

	// ErrNoMemory is returned when the module does not export its memory.
	ErrNoMemory = errors.New("wasmbridge: module exports no memory")

	// ErrOutOfBounds is returned for memory access outside linear memory.
	ErrOutOfBounds = errors.New("wasmbridge: memory access out of bounds")

	// ErrOutOfMemory is returned when linear memory cannot grow.
	ErrOutOfMemory = errors.New("wasmbridge: out of memory")

	// ErrUnterminated is returned when text has no terminating zero byte.
	ErrUnterminated = errors.New("wasmbridge: unterminated string")
)

// CallError describes a failed call into the module.
type CallError struct {
	Symbol string
	Cause  error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("wasmbridge: call %s: %v", e.Symbol, e.Cause)
}

func (e *CallError) Unwrap() error {
	return e.Cause
}
