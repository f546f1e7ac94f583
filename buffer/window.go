/*
NAME
  window.go

DESCRIPTION
  window.go provides Window, a pooled, growable sliding window over a
  pull-based source.

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
	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"
)

// Window is a Buffer over a Source. It holds one rented array; the window
// is buf[off:n]. When a refill finds the array full, the unconsumed suffix
// is shifted to the start of the array or, if it occupies more than half of
// it, moved into a new array of twice the size.
type Window[T Unit] struct {
	src  Source[T]
	pool *pool.Pool[T]
	log  logging.Logger

	buf      []T
	off, n   int
	consumed int64
	final    bool
	grows    int
}

// NewWindow returns a Window reading from src with an initial capacity of
// opts.Size units.
func NewWindow[T Unit](src Source[T], opts Options[T]) (*Window[T], error) {
	opts = opts.withDefaults()
	buf, err := opts.Pool.Rent(opts.Size)
	if err != nil {
		return nil, errors.Wrap(err, "could not rent window")
	}
	return &Window[T]{src: src, pool: opts.Pool, log: opts.Logger, buf: buf}, nil
}

// Remaining implements Reader.
func (w *Window[T]) Remaining() []T { return w.buf[w.off:w.n] }

// Consume implements Reader.
func (w *Window[T]) Consume(n int) {
	if n < 0 || n > w.n-w.off {
		panic(&ContractError{Op: "Consume", N: n, Available: w.n - w.off})
	}
	w.off += n
	w.consumed += int64(n)
}

// Consumed implements Reader.
func (w *Window[T]) Consumed() int64 { return w.consumed }

// Final implements Reader.
func (w *Window[T]) Final() bool { return w.final }

// EOF implements Reader.
func (w *Window[T]) EOF() bool { return w.final && w.off == w.n }

// Cap returns the current capacity of the window.
func (w *Window[T]) Cap() int { return len(w.buf) }

// Grows returns how many times the window has doubled.
func (w *Window[T]) Grows() int { return w.grows }

// Refill implements Refiller.
func (w *Window[T]) Refill() (bool, error) { return w.RefillContext(context.Background()) }

// RefillContext implements Refiller. Unconsumed units are preserved and
// remain at the start of Remaining.
func (w *Window[T]) RefillContext(ctx context.Context) (bool, error) {
	if w.final {
		return false, nil
	}
	if w.buf == nil {
		return false, errors.New("refill of closed window")
	}
	if w.n == len(w.buf) {
		err := w.advance()
		if err != nil {
			return false, err
		}
	}
	m, eof, err := fill(ctx, w.src, w.buf[w.n:])
	w.n += m
	if eof {
		w.final = true
		w.log.Debug("window reached final block", "consumed", w.consumed, "buffered", w.n-w.off)
	}
	return m > 0, err
}

// advance makes room at the tail of the array, either by shifting the
// unconsumed suffix to offset zero or by doubling the array.
func (w *Window[T]) advance() error {
	unread := w.n - w.off
	if unread <= len(w.buf)/2 {
		copy(w.buf, w.buf[w.off:w.n])
		w.off, w.n = 0, unread
		return nil
	}

	limit := w.pool.Limit()
	if len(w.buf) >= limit {
		return errors.Wrapf(ErrResourceExhausted, "window of %d units cannot grow", len(w.buf))
	}
	size := min(2*len(w.buf), limit)
	buf, err := w.pool.Rent(size)
	if err != nil {
		return errors.Wrap(ErrResourceExhausted, err.Error())
	}
	copy(buf, w.buf[w.off:w.n])
	w.pool.Return(w.buf)
	w.log.Debug("window grown", "from", len(w.buf), "to", size, "unread", unread)
	w.buf, w.off, w.n = buf, 0, unread
	w.grows++
	return nil
}

// Close returns the window's array to the pool. Closing more than once is a
// no-op.
func (w *Window[T]) Close() error {
	if w.buf == nil {
		return nil
	}
	w.pool.Return(w.buf)
	w.buf, w.off, w.n = nil, 0, 0
	return nil
}
