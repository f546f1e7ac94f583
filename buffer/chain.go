/*
NAME
  chain.go

DESCRIPTION
  chain.go provides Chain, a buffer model that links pooled chunks into one
  logical sequence instead of compacting.

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

// Walker is the chain-walkable contract implemented by Chain. Unlike Reader,
// its window may span several chunks; Consume may advance across chunk
// boundaries up to Buffered units.
type Walker[T Unit] interface {
	Refiller

	// Remaining returns all buffered, unconsumed units as one view.
	Remaining() Sequence[T]

	// Current returns the unconsumed part of the head chunk.
	Current() []T

	// Buffered returns the number of buffered, unconsumed units.
	Buffered() int

	// Head returns the chunk holding the read cursor, or nil if nothing has
	// been read yet.
	Head() *Chunk[T]

	// NextChunk returns the chunk linked after c, refilling once if there
	// is none and the source is not exhausted. It returns nil if no chunk
	// follows c.
	NextChunk(c *Chunk[T]) (*Chunk[T], error)

	// Peek returns a view of the next n units, refilling as needed. The
	// view is shorter than n only if the source is exhausted.
	Peek(n int) (Sequence[T], error)

	// Span returns a view of the next n buffered units without refilling.
	Span(n int) Sequence[T]

	Consume(n int)
	Consumed() int64
	Final() bool
	EOF() bool
	Close() error
}

// Chunk is one block of a Chain. Its contents are fixed once it is linked;
// only its read offset advances.
type Chunk[T Unit] struct {
	data    []T
	off     int
	running int64
	next    *Chunk[T]
	storage []T
}

// Data returns the filled contents of the chunk.
func (c *Chunk[T]) Data() []T { return c.data }

// Remaining returns the unconsumed part of the chunk.
func (c *Chunk[T]) Remaining() []T { return c.data[c.off:] }

// RunningIndex returns the absolute position of the first unit of the chunk,
// that is the total length of all chunks before it.
func (c *Chunk[T]) RunningIndex() int64 { return c.running }

// Next returns the linked chunk without refilling.
func (c *Chunk[T]) Next() *Chunk[T] { return c.next }

// Chain is a Walker over a Source. Each refill rents a new chunk, sized by
// the growth policy, and links it after the last one. Chunks the read
// cursor has moved past are returned to the pool; views referencing them
// must not be used after that.
type Chain[T Unit] struct {
	src    Source[T]
	pool   *pool.Pool[T]
	log    logging.Logger
	size   int
	growth Growth

	head, tail *Chunk[T]
	chunks     int
	end        int64 // Absolute position one past the last buffered unit.
	consumed   int64
	final      bool
	closed     bool
}

var _ Walker[byte] = (*Chain[byte])(nil)

// NewChain returns a Chain reading from src. Chunk sizes are derived from
// opts.Size by opts.Growth.
func NewChain[T Unit](src Source[T], opts Options[T]) *Chain[T] {
	opts = opts.withDefaults()
	return &Chain[T]{
		src:    src,
		pool:   opts.Pool,
		log:    opts.Logger,
		size:   opts.Size,
		growth: opts.Growth,
	}
}

// Remaining implements Walker.
func (c *Chain[T]) Remaining() Sequence[T] { return c.Span(c.Buffered()) }

// Current implements Walker.
func (c *Chain[T]) Current() []T {
	if c.head == nil {
		return nil
	}
	return c.head.Remaining()
}

// Buffered implements Walker.
func (c *Chain[T]) Buffered() int { return int(c.end - c.consumed) }

// Head implements Walker.
func (c *Chain[T]) Head() *Chunk[T] { return c.head }

// Consumed implements Walker.
func (c *Chain[T]) Consumed() int64 { return c.consumed }

// Final implements Walker.
func (c *Chain[T]) Final() bool { return c.final }

// EOF implements Walker.
func (c *Chain[T]) EOF() bool { return c.final && c.Buffered() == 0 }

// Chunks returns the number of chunks created so far.
func (c *Chain[T]) Chunks() int { return c.chunks }

// Consume implements Walker. Chunks left fully consumed are released once a
// later chunk exists.
func (c *Chain[T]) Consume(n int) {
	if n < 0 || n > c.Buffered() {
		panic(&ContractError{Op: "Consume", N: n, Available: c.Buffered()})
	}
	c.consumed += int64(n)
	for n > 0 {
		h := c.head
		avail := len(h.data) - h.off
		if n <= avail {
			h.off += n
			break
		}
		h.off = len(h.data)
		n -= avail
		c.advanceHead()
	}
	c.trim()
}

// advanceHead releases the head chunk and moves to its successor.
func (c *Chain[T]) advanceHead() {
	h := c.head
	c.head = h.next
	c.release(h)
}

// trim releases fully consumed head chunks that have a successor.
func (c *Chain[T]) trim() {
	for c.head != nil && c.head.off == len(c.head.data) && c.head.next != nil {
		c.advanceHead()
	}
}

// release returns a chunk's storage. Its next link is kept so that walkers
// holding the chunk can still move on.
func (c *Chain[T]) release(ch *Chunk[T]) {
	if ch.storage == nil {
		return
	}
	c.pool.Return(ch.storage)
	ch.storage, ch.data, ch.off = nil, nil, 0
}

// Refill implements Refiller.
func (c *Chain[T]) Refill() (bool, error) { return c.RefillContext(context.Background()) }

// RefillContext implements Refiller. It appends at most one chunk.
func (c *Chain[T]) RefillContext(ctx context.Context) (bool, error) {
	if c.final {
		return false, nil
	}
	if c.closed {
		return false, errors.New("refill of closed chain")
	}

	size := c.growth.Size(c.size, c.chunks, c.pool.Limit())
	storage, err := c.pool.Rent(size)
	if err != nil {
		return false, errors.Wrap(ErrResourceExhausted, err.Error())
	}
	m, eof, err := fill(ctx, c.src, storage)
	if eof {
		c.final = true
		c.log.Debug("chain reached final block", "chunks", c.chunks, "end", c.end+int64(m))
	}
	if m == 0 {
		c.pool.Return(storage)
		return false, err
	}

	ch := &Chunk[T]{data: storage[:m], running: c.end, storage: storage}
	if c.tail == nil {
		c.head = ch
	} else {
		c.tail.next = ch
	}
	c.tail = ch
	c.chunks++
	c.end += int64(m)
	c.log.Debug("chain chunk appended", "index", c.chunks-1, "size", size, "filled", m)
	c.trim()
	return true, err
}

// NextChunk implements Walker.
func (c *Chain[T]) NextChunk(ch *Chunk[T]) (*Chunk[T], error) {
	if ch == nil {
		if c.head == nil && !c.final {
			if _, err := c.Refill(); err != nil {
				return c.head, err
			}
		}
		return c.head, nil
	}
	if ch.next == nil && ch == c.tail && !c.final {
		if _, err := c.Refill(); err != nil {
			return ch.next, err
		}
	}
	return ch.next, nil
}

// Peek implements Walker.
func (c *Chain[T]) Peek(n int) (Sequence[T], error) {
	for c.Buffered() < n && !c.final {
		if _, err := c.Refill(); err != nil {
			return c.Span(min(n, c.Buffered())), err
		}
	}
	return c.Span(min(n, c.Buffered())), nil
}

// Span implements Walker. n is clamped to Buffered.
func (c *Chain[T]) Span(n int) Sequence[T] {
	n = max(0, min(n, c.Buffered()))
	if c.head == nil {
		return Sequence[T]{}
	}
	start, startIdx := c.head, c.head.off
	end, endIdx := start, startIdx
	for rem := n; ; {
		avail := len(end.data) - endIdx
		if rem <= avail || end.next == nil {
			endIdx += rem
			break
		}
		rem -= avail
		end, endIdx = end.next, 0
	}
	return Sequence[T]{start: start, startIdx: startIdx, end: end, endIdx: endIdx, length: n}
}

// Close returns every chunk to the pool. Closing more than once is a no-op.
func (c *Chain[T]) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	for ch := c.head; ch != nil; ch = ch.next {
		c.release(ch)
	}
	c.head, c.tail = nil, nil
	c.end = c.consumed
	return nil
}
