/*
NAME
  fixed.go

DESCRIPTION
  fixed.go provides Fixed, the buffer model for input that is already
  addressable in memory.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved. 

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


package buffer

import (
	"context"

	"github.com/ausocean/readbuf/pool"
)

// Fixed is a Buffer over a complete in-memory input. It is always final and
// never refills. The backing memory is either borrowed from the caller or
// owned, in which case Close releases it.
type Fixed[T Unit] struct {
	data    []T
	off     int
	release func() error
}

// NewFixed returns a Fixed borrowing data. data must not be modified while
// the Fixed is in use.
func NewFixed[T Unit](data []T) *Fixed[T] {
	return &Fixed[T]{data: data}
}

// Owned returns a Fixed over data that calls release exactly once, on Close.
func Owned[T Unit](data []T, release func() error) *Fixed[T] {
	return &Fixed[T]{data: data, release: release}
}

// FromString returns a Fixed holding a copy of s in a pooled array.
func FromString(s string) (*Fixed[byte], error) {
	p := pool.Bytes
	b, err := p.Rent(len(s))
	if err != nil {
		return nil, err
	}
	copy(b, s)
	return Owned(b, func() error { p.Return(b); return nil }), nil
}

// Remaining implements Reader.
func (f *Fixed[T]) Remaining() []T { return f.data[f.off:] }

// Consume implements Reader.
func (f *Fixed[T]) Consume(n int) {
	if n < 0 || n > len(f.data)-f.off {
		panic(&ContractError{Op: "Consume", N: n, Available: len(f.data) - f.off})
	}
	f.off += n
}

// Consumed implements Reader.
func (f *Fixed[T]) Consumed() int64 { return int64(f.off) }

// Final implements Reader; a Fixed is always final.
func (f *Fixed[T]) Final() bool { return true }

// EOF implements Reader.
func (f *Fixed[T]) EOF() bool { return f.off == len(f.data) }

// Len returns the length of the whole input.
func (f *Fixed[T]) Len() int { return len(f.data) }

// Refill implements Refiller. It never reads and always returns false.
func (f *Fixed[T]) Refill() (bool, error) { return false, nil }

// RefillContext implements Refiller. It never reads and always returns false.
func (f *Fixed[T]) RefillContext(context.Context) (bool, error) { return false, nil }

// Close releases owned memory. Closing more than once is a no-op.
func (f *Fixed[T]) Close() error {
	f.data = f.data[f.off:f.off]
	if f.release == nil {
		return nil
	}
	release := f.release
	f.release = nil
	return release()
}
