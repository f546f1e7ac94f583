/*
NAME
  sequence.go

DESCRIPTION
  sequence.go provides Sequence, a read-only view that may span several
  chunks of a Chain.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved. 

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


package buffer

// Sequence is a view of the units from start[startIdx] up to, but not
// including, end[endIdx]. It never copies; it is invalidated once any chunk
// it references is released by its Chain.
type Sequence[T Unit] struct {
	start    *Chunk[T]
	startIdx int
	end      *Chunk[T]
	endIdx   int
	length   int
}

// Len returns the number of units in the view.
func (s Sequence[T]) Len() int { return s.length }

// Single reports whether the view lies within one chunk.
func (s Sequence[T]) Single() bool { return s.start == s.end }

// Start returns the absolute position of the first unit of the view.
func (s Sequence[T]) Start() int64 {
	if s.start == nil {
		return 0
	}
	return s.start.running + int64(s.startIdx)
}

// First returns the first contiguous segment of the view.
func (s Sequence[T]) First() []T {
	if s.start == nil {
		return nil
	}
	if s.Single() {
		return s.start.data[s.startIdx:s.endIdx]
	}
	return s.start.data[s.startIdx:]
}

// Range calls fn with each contiguous segment of the view in order until fn
// returns false.
func (s Sequence[T]) Range(fn func(seg []T) bool) {
	if s.length == 0 {
		return
	}
	for ch, from := s.start, s.startIdx; ch != nil; ch, from = ch.next, 0 {
		if ch == s.end {
			fn(ch.data[from:s.endIdx])
			return
		}
		if !fn(ch.data[from:]) {
			return
		}
	}
}

// At returns the unit at index i of the view. It panics if i is out of
// range.
func (s Sequence[T]) At(i int) T {
	if i < 0 || i >= s.length {
		panic(&ContractError{Op: "At", N: i, Available: s.length})
	}
	for ch, from := s.start, s.startIdx; ; ch, from = ch.next, 0 {
		if n := len(ch.data) - from; i >= n {
			i -= n
			continue
		}
		return ch.data[from+i]
	}
}

// Slice returns the sub-view [from, to). It panics if the bounds are out of
// range.
func (s Sequence[T]) Slice(from, to int) Sequence[T] {
	if from < 0 || to < from || to > s.length {
		panic(&ContractError{Op: "Slice", N: to, Available: s.length})
	}
	if s.length == 0 {
		return s
	}
	start, startIdx := s.locate(from, true)
	end, endIdx := s.locate(to, false)
	return Sequence[T]{start: start, startIdx: startIdx, end: end, endIdx: endIdx, length: to - from}
}

// locate returns the chunk and index of view position i. At a chunk
// boundary the later chunk is chosen if forward is set.
func (s Sequence[T]) locate(i int, forward bool) (*Chunk[T], int) {
	ch, from := s.start, s.startIdx
	for {
		n := len(ch.data) - from
		if ch == s.end {
			n = s.endIdx - from
		}
		if i < n || (i == n && (!forward || ch == s.end)) {
			return ch, from + i
		}
		i -= n
		ch, from = ch.next, 0
	}
}

// AppendTo appends the units of the view to dst and returns the result.
func (s Sequence[T]) AppendTo(dst []T) []T {
	s.Range(func(seg []T) bool {
		dst = append(dst, seg...)
		return true
	})
	return dst
}

// Equal reports whether the view holds exactly the units of v.
func (s Sequence[T]) Equal(v []T) bool {
	if s.length != len(v) {
		return false
	}
	eq := true
	s.Range(func(seg []T) bool {
		for i, c := range seg {
			if c != v[i] {
				eq = false
				return false
			}
		}
		v = v[len(seg):]
		return true
	})
	return eq
}

// String materializes the view as a string.
func (s Sequence[T]) String() string {
	if s.Single() {
		return String(s.First())
	}
	return String(s.AppendTo(make([]T, 0, s.length)))
}
