/*
NAME
  buffer.go

DESCRIPTION
  buffer.go defines the peek/consume contract shared by every buffer model,
  the sources buffers are filled from, and the options used to construct them.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved. 

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


// Package buffer provides pooled read buffers for incremental tokenizers.
//
// Three buffer models share one contract. Fixed wraps input that is already
// in memory and never refills. Window is a growable sliding window over a
// pull-based source that compacts or doubles a pooled array as tokens are
// consumed. Chain links pooled chunks into a single logical sequence and
// never compacts.
//
// Views returned by a buffer alias its storage. A view is valid until the
// next Consume or Refill call on the buffer it came from.
package buffer

import (
	"context"
	"io"
	"unsafe"

	"github.com/ausocean/readbuf/pool"
	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"
)

// Unit is the element type of a buffer: bytes for byte streams and runes for
// character streams.
type Unit interface {
	~byte | ~rune
}

// Source is a pull-based input. Read reads up to len(p) units into p and
// returns the number of units read. io.EOF signals that no more data will
// ever arrive. Any io.Reader is a Source[byte].
type Source[T Unit] interface {
	Read(p []T) (int, error)
}

// Reader is the peek/consume window implemented by the contiguous buffer
// models.
type Reader[T Unit] interface {
	// Remaining returns the buffered, unconsumed units. It performs no I/O.
	Remaining() []T

	// Consume advances the read cursor by n units. n must not exceed
	// len(Remaining()); violating this panics with a *ContractError.
	Consume(n int)

	// Consumed returns the total number of units consumed so far.
	Consumed() int64

	// Final reports whether the source has signalled that no more data
	// will arrive.
	Final() bool

	// EOF reports whether the buffer is final and fully consumed.
	EOF() bool
}

// Refiller pulls more data from a source. Refill reports whether any new
// data arrived.
type Refiller interface {
	Refill() (bool, error)

	// RefillContext is like Refill but checks ctx before issuing each read
	// of the underlying source.
	RefillContext(ctx context.Context) (bool, error)
}

// Buffer is a refillable contiguous window.
type Buffer[T Unit] interface {
	Reader[T]
	Refiller
	io.Closer
}

// DefaultSize is the initial window and chunk size used when none is given.
const DefaultSize = 4096

// Options hold construction parameters for Window and Chain.
type Options[T Unit] struct {
	// Size is the initial window size, or the base chunk size of a Chain.
	Size int

	// Growth selects how successive chunk sizes of a Chain are derived
	// from Size. Window ignores it.
	Growth Growth

	// Pool lends storage. Nil means pool.Default[T]().
	Pool *pool.Pool[T]

	// Logger receives debug output. Nil discards it.
	Logger logging.Logger
}

func (o Options[T]) withDefaults() Options[T] {
	if o.Size <= 0 {
		o.Size = DefaultSize
	}
	if o.Pool == nil {
		o.Pool = pool.Default[T]()
	}
	if o.Logger == nil {
		o.Logger = Discard
	}
	return o
}

// String materializes a view as a string. Byte units are copied as raw
// bytes and rune units are UTF-8 encoded.
func String[T Unit](v []T) string {
	switch v := any(v).(type) {
	case []byte:
		return string(v)
	case []rune:
		return string(v)
	}
	var zero T
	b := make([]byte, 0, len(v))
	for _, c := range v {
		if unsafe.Sizeof(zero) == 1 {
			b = append(b, byte(c))
			continue
		}
		b = append(b, string(rune(c))...)
	}
	return string(b)
}

// Number of successive empty reads tolerated before a source is deemed
// broken.
const maxEmptyReads = 100

// fill reads from src into p until p is full, src returns io.EOF, ctx is done
// or a read fails. It returns the number of units read and whether the
// source is exhausted.
func fill[T Unit](ctx context.Context, src Source[T], p []T) (n int, eof bool, err error) {
	empty := 0
	for n < len(p) {
		if err := ctx.Err(); err != nil {
			return n, false, err
		}
		m, err := src.Read(p[n:])
		if m < 0 || m > len(p)-n {
			return n, false, errors.Errorf("source returned invalid count %d", m)
		}
		n += m
		switch {
		case err == io.EOF:
			return n, true, nil
		case err != nil:
			return n, false, errors.Wrap(err, "could not read from source")
		case m == 0:
			empty++
			if empty >= maxEmptyReads {
				return n, false, io.ErrNoProgress
			}
		default:
			empty = 0
		}
	}
	return n, false, nil
}

// Discard is a logging.Logger that drops everything.
var Discard logging.Logger = discard{}

type discard struct{}

func (discard) SetLevel(int8)                         {}
func (discard) Log(int8, string, ...interface{})      {}
func (discard) Debug(string, ...interface{})          {}
func (discard) Info(string, ...interface{})           {}
func (discard) Warning(string, ...interface{})        {}
func (discard) Error(string, ...interface{})          {}
func (discard) Fatal(string, ...interface{})          {}
