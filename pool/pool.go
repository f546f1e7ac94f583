/*
NAME
  pool.go

DESCRIPTION
  pool.go provides a size-classed pool of arrays that buffers rent their
  storage from and return it to once they are done with it.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved. 

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


// Package pool provides a process-wide, thread-safe pool of arrays.
//
// Arrays are grouped in power-of-two size classes. Each class keeps a bounded
// number of idle arrays; renting from an empty class allocates and returning
// to a full class drops the array for the garbage collector.
package pool

import (
	"math/bits"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

// Size class bounds.
const (
	minShift = 4  // Smallest class holds 16 units.
	maxShift = 30 // Largest class holds 1<<30 units.
	perClass = 64 // Idle arrays kept per class.
)

// MaxLen is the largest array length any pool will lend.
const MaxLen = 1 << maxShift

// ErrTooLarge is returned when a rent request exceeds the pool's limit.
var ErrTooLarge = errors.New("requested length exceeds pool limit")

// Pool lends arrays of T. A Pool is safe for concurrent use.
type Pool[T any] struct {
	classes [maxShift - minShift + 1]chan []T
	limit   int

	rented    atomic.Int64
	returned  atomic.Int64
	allocated atomic.Int64
	dropped   atomic.Int64
}

// New returns a Pool that lends arrays no longer than limit units. A limit
// that is not positive, or is larger than MaxLen, means MaxLen.
func New[T any](limit int) *Pool[T] {
	if limit <= 0 || limit > MaxLen {
		limit = MaxLen
	}
	p := &Pool[T]{limit: limit}
	for i := range p.classes {
		p.classes[i] = make(chan []T, perClass)
	}
	return p
}

// Shared pools for the two unit types used by readers.
var (
	Bytes = New[byte](0)
	Runes = New[rune](0)
)

var others sync.Map // reflect.Type -> *Pool[T]

// Default returns the process-wide pool for T.
func Default[T any]() *Pool[T] {
	var zero T
	switch any(zero).(type) {
	case byte:
		return any(Bytes).(*Pool[T])
	case rune:
		return any(Runes).(*Pool[T])
	}
	key := reflect.TypeFor[T]()
	if p, ok := others.Load(key); ok {
		return p.(*Pool[T])
	}
	p, _ := others.LoadOrStore(key, New[T](0))
	return p.(*Pool[T])
}

// Limit returns the largest length p will lend.
func (p *Pool[T]) Limit() int { return p.limit }

// class returns the class index and class size for a request of n units.
// The index is -1 if n has no class.
func class(n int) (int, int) {
	if n <= 1<<minShift {
		return 0, 1 << minShift
	}
	shift := bits.Len(uint(n - 1))
	if shift > maxShift {
		return -1, n
	}
	return shift - minShift, 1 << shift
}

// Rent returns an array of length n whose capacity is the size of n's class.
// The contents of the array are zero.
func (p *Pool[T]) Rent(n int) ([]T, error) {
	if n < 0 {
		n = 0
	}
	if n > p.limit {
		return nil, errors.Wrapf(ErrTooLarge, "cannot rent %d units (limit %d)", n, p.limit)
	}
	p.rented.Add(1)
	idx, size := class(n)
	if size > p.limit {
		idx, size = -1, n
	}
	if idx >= 0 {
		select {
		case b := <-p.classes[idx]:
			return b[:n], nil
		default:
		}
	}
	p.allocated.Add(1)
	return make([]T, n, size), nil
}

// Return clears b and gives it back to p. b must not be used afterwards.
// Arrays that were not rented from a class of p are left to the garbage
// collector.
func (p *Pool[T]) Return(b []T) {
	if b == nil {
		return
	}
	p.returned.Add(1)
	b = b[:cap(b)]
	clear(b)
	idx, size := class(len(b))
	if idx < 0 || size != len(b) {
		p.dropped.Add(1)
		return
	}
	select {
	case p.classes[idx] <- b:
	default:
		p.dropped.Add(1)
	}
}

// Stats holds pool accounting counters.
type Stats struct {
	Rented    int64 // Rent calls that succeeded.
	Returned  int64 // Return calls.
	Allocated int64 // Rents that could not be served from an idle array.
	Dropped   int64 // Returns that were not kept for reuse.
}

// InUse returns the number of rented arrays not yet returned.
func (s Stats) InUse() int64 { return s.Rented - s.Returned }

// Stats returns a snapshot of p's counters.
func (p *Pool[T]) Stats() Stats {
	return Stats{
		Rented:    p.rented.Load(),
		Returned:  p.returned.Load(),
		Allocated: p.allocated.Load(),
		Dropped:   p.dropped.Load(),
	}
}
