package wasmbridge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"
)

type config struct {
	now         func() time.Time
	memoryLimit uint32
}

// Option configures Instantiate.
type Option func(*config)

// WithClock replaces the time source behind Instant_now and Date_now.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

// WithMemoryLimit bounds linear memory to the given number of bytes,
// rounded up to whole pages.
func WithMemoryLimit(bytes uint32) Option {
	return func(c *config) { c.memoryLimit = bytes }
}

// Bridge is one instantiation of a native module.
//
// Thread-safety: sessions are serialized by an internal mutex. Handles
// obtained from one Bridge are meaningless to any other.
type Bridge struct {
	mu      sync.Mutex
	runtime wazero.Runtime
	module  api.Module
	memory  api.Memory
	alloc   Allocator
	clock   *Clock
	fns     map[string]api.Function
	closed  bool
}

// Instantiate compiles wasm, installs the host callbacks and instantiates
// the module. The module's alloc/dealloc exports are used for text buffers
// when present; otherwise a BumpAllocator is.
func Instantiate(ctx context.Context, wasm []byte, opts ...Option) (*Bridge, error) {
	cfg := config{memoryLimit: DefaultMemoryLimit}
	for _, opt := range opts {
		opt(&cfg)
	}
	pages := (cfg.memoryLimit + PageSize - 1) / PageSize

	rt := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig().WithMemoryLimitPages(pages))
	b := &Bridge{
		runtime: rt,
		clock:   NewClock(cfg.now),
		fns:     make(map[string]api.Function),
	}

	_, err := rt.NewHostModuleBuilder(HostModule).
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(b.instantNow), nil, []api.ValueType{api.ValueTypeF64}).
		Export(HostInstantNow).
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(b.dateNow), []api.ValueType{api.ValueTypeI32}, nil).
		Export(HostDateNow).
		Instantiate(ctx)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("wasmbridge: host module: %w", err)
	}

	mod, err := rt.InstantiateWithConfig(ctx, wasm, wazero.NewModuleConfig().WithStartFunctions("_initialize"))
	if err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("wasmbridge: instantiate: %w", err)
	}
	b.module = mod
	b.memory = mod.Memory()
	if b.memory == nil {
		_ = rt.Close(ctx)
		return nil, ErrNoMemory
	}

	if a, ok := NewExportedAllocator(mod); ok {
		b.alloc = a
	} else {
		Logger().Debug("module exports no allocator, using bump allocator",
			zap.Uint32("base", b.memory.Size()))
		b.alloc = NewBumpAllocator(b.memory)
	}

	Logger().Debug("module instantiated",
		zap.Uint32("memory_bytes", b.memory.Size()),
		zap.Uint32("memory_limit_pages", pages))
	return b, nil
}

// Close releases the runtime and the module's memory. Later sessions fail
// with ErrClosed.
func (b *Bridge) Close(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return b.runtime.Close(ctx)
}

// Memory returns the module's linear memory.
func (b *Bridge) Memory() api.Memory {
	return b.memory
}

// Clock returns the time source behind the host callbacks.
func (b *Bridge) Clock() *Clock {
	return b.clock
}

// Session runs fn with exclusive use of the module. Every buffer fn
// allocates through the session is released when fn returns, in reverse
// allocation order, whether or not fn fails.
func (b *Bridge) Session(ctx context.Context, fn func(s *Session) error) (err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}

	s := &Session{ctx: ctx, b: b}
	defer func() {
		if rerr := s.release(); rerr != nil && err == nil {
			err = rerr
		}
	}()
	return fn(s)
}

// Release calls a disposer for ptr outside of any caller's context. It is
// meant for automatic reclamation, where a failure can only be logged.
func (b *Bridge) Release(symbol string, ptr uint32) {
	err := b.Session(context.Background(), func(s *Session) error {
		_, err := s.Call(symbol, api.EncodeU32(ptr))
		return err
	})
	if err != nil {
		Logger().Warn("automatic release failed",
			zap.String("symbol", symbol),
			zap.Uint32("ptr", ptr),
			zap.Error(err))
	}
}

func (b *Bridge) function(symbol string) (api.Function, error) {
	if fn, ok := b.fns[symbol]; ok {
		return fn, nil
	}
	fn := b.module.ExportedFunction(symbol)
	if fn == nil {
		return nil, &CallError{Symbol: symbol, Cause: errors.New("not exported")}
	}
	b.fns[symbol] = fn
	return fn, nil
}

func (b *Bridge) instantNow(_ context.Context, _ api.Module, stack []uint64) {
	stack[0] = api.EncodeF64(b.clock.Seconds())
}

func (b *Bridge) dateNow(_ context.Context, mod api.Module, stack []uint64) {
	addr := api.DecodeU32(stack[0])
	if err := WriteDate(mod.Memory(), addr, b.clock.Date()); err != nil {
		Logger().Error("Date_now failed", zap.Uint32("addr", addr), zap.Error(err))
	}
}

// Session is a Bridge while its lock is held.
type Session struct {
	ctx  context.Context
	b    *Bridge
	bufs []Buf
}

// String copies s into a zero-terminated buffer owned by the session and
// returns its address.
func (s *Session) String(v string) (uint32, error) {
	buf, err := AllocString(s.ctx, s.b.memory, s.b.alloc, v)
	if err != nil {
		return 0, err
	}
	s.bufs = append(s.bufs, buf)
	return buf.Ptr, nil
}

// Call invokes an exported function and returns its first result, or 0
// for functions without results.
func (s *Session) Call(symbol string, args ...uint64) (uint64, error) {
	fn, err := s.b.function(symbol)
	if err != nil {
		return 0, err
	}
	results, err := fn.Call(s.ctx, args...)
	if err != nil {
		return 0, &CallError{Symbol: symbol, Cause: err}
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0], nil
}

// ReadString decodes the zero-terminated text at ptr.
func (s *Session) ReadString(ptr uint32) (string, error) {
	return ReadString(s.b.memory, ptr)
}

func (s *Session) release() error {
	var first error
	for i := len(s.bufs) - 1; i >= 0; i-- {
		buf := s.bufs[i]
		if err := s.b.alloc.Dealloc(s.ctx, buf.Ptr, buf.Size); err != nil && first == nil {
			first = err
		}
	}
	s.bufs = nil
	return first
}

// EncodeBool narrows a boolean argument to its wire value.
func EncodeBool(v bool) uint64 {
	if v {
		return 1
	}
	return 0
}

// DecodeBool widens a boolean result from its wire value.
func DecodeBool(v uint64) bool {
	return api.DecodeU32(v)&0xFF != 0
}
