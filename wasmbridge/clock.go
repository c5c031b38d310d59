package wasmbridge

import (
	"fmt"
	"sync"
	"time"

	"github.com/tetratelabs/wazero/api"
)

// DateSize is the number of bytes Date_now writes.
const DateSize = 9

// Clock backs the time callbacks of one Bridge.
type Clock struct {
	mu      sync.Mutex
	now     func() time.Time
	first   time.Time
	started bool
}

// NewClock creates a Clock reading from now, or from time.Now if now is nil.
func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

// Seconds returns the time elapsed since the first call, in seconds.
// The first call returns 0.
func (c *Clock) Seconds() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now()
	if !c.started {
		c.first = t
		c.started = true
	}
	return t.Sub(c.first).Seconds()
}

// Date returns the current calendar date in UTC.
func (c *Clock) Date() time.Time {
	return c.now().UTC()
}

// WriteDate stores t in UTC at addr using the Date_now layout:
//
//	addr+0  u16 LE  year
//	addr+2  u8      month (1-12)
//	addr+3  u8      day
//	addr+4  u8      hour
//	addr+5  u8      minute
//	addr+6  u8      second
//	addr+7  u16 LE  millisecond
func WriteDate(mem api.Memory, addr uint32, t time.Time) error {
	t = t.UTC()
	ok := mem.WriteUint16Le(addr, uint16(t.Year())) &&
		mem.WriteByte(addr+2, uint8(t.Month())) &&
		mem.WriteByte(addr+3, uint8(t.Day())) &&
		mem.WriteByte(addr+4, uint8(t.Hour())) &&
		mem.WriteByte(addr+5, uint8(t.Minute())) &&
		mem.WriteByte(addr+6, uint8(t.Second())) &&
		mem.WriteUint16Le(addr+7, uint16(t.Nanosecond()/int(time.Millisecond)))
	if !ok {
		return fmt.Errorf("%w: date at %d", ErrOutOfBounds, addr)
	}
	return nil
}
