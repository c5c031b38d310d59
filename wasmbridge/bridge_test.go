package wasmbridge

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero/api"

	"github.com/roach88/bindgen/internal/testutil"
)

// memoryOnly exports one page of memory and nothing else.
var memoryOnly = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	// memory: one memory, min 1 page
	0x05, 0x03, 0x01, 0x00, 0x01,
	// export "memory"
	0x07, 0x0a, 0x01, 0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
}

// clockModule imports both host callbacks and re-exports them as
// stamp(addr i32) and now() f64.
var clockModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	// types: (i32) -> (), () -> f64
	0x01, 0x09, 0x02, 0x60, 0x01, 0x7f, 0x00, 0x60, 0x00, 0x01, 0x7c,
	// imports: env.Date_now (type 0), env.Instant_now (type 1)
	0x02, 0x22, 0x02,
	0x03, 'e', 'n', 'v', 0x08, 'D', 'a', 't', 'e', '_', 'n', 'o', 'w', 0x00, 0x00,
	0x03, 'e', 'n', 'v', 0x0b, 'I', 'n', 's', 't', 'a', 'n', 't', '_', 'n', 'o', 'w', 0x00, 0x01,
	// functions: stamp (type 0), now (type 1)
	0x03, 0x03, 0x02, 0x00, 0x01,
	// memory: min 1 page
	0x05, 0x03, 0x01, 0x00, 0x01,
	// exports: memory, stamp = func 2, now = func 3
	0x07, 0x19, 0x03,
	0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
	0x05, 's', 't', 'a', 'm', 'p', 0x00, 0x02,
	0x03, 'n', 'o', 'w', 0x00, 0x03,
	// code: stamp = local.get 0; call 0. now = call 1.
	0x0a, 0x0d, 0x02,
	0x06, 0x00, 0x20, 0x00, 0x10, 0x00, 0x0b,
	0x04, 0x00, 0x10, 0x01, 0x0b,
}

var epoch = time.Date(2024, 3, 7, 8, 15, 30, 250_000_000, time.UTC)

func instantiate(t *testing.T, wasm []byte, opts ...Option) *Bridge {
	t.Helper()
	ctx := context.Background()
	b, err := Instantiate(ctx, wasm, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close(ctx) })
	return b
}

func TestWriteDate_Layout(t *testing.T) {
	b := instantiate(t, memoryOnly)

	require.NoError(t, WriteDate(b.Memory(), 16, epoch))

	got, ok := b.Memory().Read(16, DateSize)
	require.True(t, ok)
	assert.Equal(t, []byte{0xE8, 0x07, 0x03, 0x07, 0x08, 0x0F, 0x1E, 0xFA, 0x00}, got)
}

func TestWriteDate_ConvertsToUTC(t *testing.T) {
	b := instantiate(t, memoryOnly)
	local := epoch.In(time.FixedZone("CEST", 2*60*60))

	require.NoError(t, WriteDate(b.Memory(), 0, local))

	hour, ok := b.Memory().ReadByte(4)
	require.True(t, ok)
	assert.Equal(t, byte(8), hour)
}

func TestWriteDate_OutOfBounds(t *testing.T) {
	b := instantiate(t, memoryOnly)

	err := WriteDate(b.Memory(), b.Memory().Size()-4, epoch)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestHostCallbacks(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewManualClock(epoch)
	b := instantiate(t, clockModule, WithClock(clock.Now))

	var first, second float64
	err := b.Session(ctx, func(s *Session) error {
		_, err := s.Call("stamp", api.EncodeU32(64))
		if err != nil {
			return err
		}
		ret, err := s.Call("now")
		if err != nil {
			return err
		}
		first = api.DecodeF64(ret)
		clock.Advance(1500 * time.Millisecond)
		ret, err = s.Call("now")
		second = api.DecodeF64(ret)
		return err
	})
	require.NoError(t, err)

	got, ok := b.Memory().Read(64, DateSize)
	require.True(t, ok)
	assert.Equal(t, []byte{0xE8, 0x07, 0x03, 0x07, 0x08, 0x0F, 0x1E, 0xFA, 0x00}, got)
	assert.Equal(t, 0.0, first)
	assert.Equal(t, 1.5, second)
}

func TestClock_FirstObservationIsZero(t *testing.T) {
	clock := testutil.NewManualClock(epoch)
	c := NewClock(clock.Now)

	clock.Advance(time.Hour)
	assert.Equal(t, 0.0, c.Seconds())
	clock.Advance(250 * time.Millisecond)
	assert.Equal(t, 0.25, c.Seconds())
	assert.Equal(t, epoch.Add(time.Hour+250*time.Millisecond), c.Date())
}

func TestInstantiate_UsesBumpAllocatorWithoutExports(t *testing.T) {
	b := instantiate(t, memoryOnly)
	_, ok := b.alloc.(*BumpAllocator)
	assert.True(t, ok)
}

func TestInstantiate_NoMemory(t *testing.T) {
	_, err := Instantiate(context.Background(), []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00})
	assert.ErrorIs(t, err, ErrNoMemory)
}

func TestInstantiate_Invalid(t *testing.T) {
	_, err := Instantiate(context.Background(), []byte{0x00, 0x61, 0x73, 0x6d})
	assert.Error(t, err)
}

func TestSession_StringRoundTrip(t *testing.T) {
	ctx := context.Background()
	b := instantiate(t, memoryOnly)

	for _, want := range []string{"", "Any%", "héllo wörld ⏱", "スピードラン"} {
		err := b.Session(ctx, func(s *Session) error {
			ptr, err := s.String(want)
			if err != nil {
				return err
			}
			got, err := s.ReadString(ptr)
			if err != nil {
				return err
			}
			assert.Equal(t, want, got)
			return nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 0, b.alloc.(*BumpAllocator).Live())
}

func TestSession_ReleasesBuffersOnError(t *testing.T) {
	ctx := context.Background()
	b := instantiate(t, memoryOnly)
	boom := errors.New("boom")

	err := b.Session(ctx, func(s *Session) error {
		if _, err := s.String("first"); err != nil {
			return err
		}
		if _, err := s.String("second"); err != nil {
			return err
		}
		assert.Equal(t, 2, b.alloc.(*BumpAllocator).Live())
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, b.alloc.(*BumpAllocator).Live())
}

func TestSession_UnknownSymbol(t *testing.T) {
	b := instantiate(t, memoryOnly)

	err := b.Session(context.Background(), func(s *Session) error {
		_, err := s.Call("Widget_new")
		return err
	})

	var callErr *CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, "Widget_new", callErr.Symbol)
}

func TestSession_AfterClose(t *testing.T) {
	ctx := context.Background()
	b, err := Instantiate(ctx, memoryOnly)
	require.NoError(t, err)
	require.NoError(t, b.Close(ctx))
	require.NoError(t, b.Close(ctx))

	err = b.Session(ctx, func(*Session) error { return nil })
	assert.ErrorIs(t, err, ErrClosed)

	// Automatic release after close only logs.
	b.Release("Widget_drop", 8)
}

func TestReadString_Unterminated(t *testing.T) {
	b := instantiate(t, memoryOnly)
	mem := b.Memory()
	require.True(t, mem.WriteString(mem.Size()-3, "abc"))

	_, err := ReadString(mem, mem.Size()-3)
	assert.ErrorIs(t, err, ErrUnterminated)

	_, err = ReadString(mem, mem.Size())
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestBool(t *testing.T) {
	assert.Equal(t, uint64(1), EncodeBool(true))
	assert.Equal(t, uint64(0), EncodeBool(false))
	assert.True(t, DecodeBool(1))
	assert.False(t, DecodeBool(0))
	assert.False(t, DecodeBool(0x100))
}
