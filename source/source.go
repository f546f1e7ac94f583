/*
NAME
  source.go

DESCRIPTION
  source.go provides in-memory and rate-limited sources for buffers.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved. 

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


// Package source provides the input side of readbuf buffers: slice, chunked,
// rune and decoded character sources, and file input.
package source

import (
	"io"

	"github.com/ausocean/readbuf/buffer"
)

type slice[T buffer.Unit] struct {
	data []T
}

// Slice returns a Source reading from data.
func Slice[T buffer.Unit](data []T) buffer.Source[T] {
	return &slice[T]{data: data}
}

func (s *slice[T]) Read(p []T) (int, error) {
	if len(s.data) == 0 {
		return 0, io.EOF
	}
	n := copy(p, s.data)
	s.data = s.data[n:]
	return n, nil
}

type chunks[T buffer.Unit] struct {
	src buffer.Source[T]
	n   int
}

// Chunks returns a Source that reads at most n units from src per call. It
// is used to drive buffers through arbitrarily small refills.
func Chunks[T buffer.Unit](src buffer.Source[T], n int) buffer.Source[T] {
	if n <= 0 {
		n = 1
	}
	return &chunks[T]{src: src, n: n}
}

func (c *chunks[T]) Read(p []T) (int, error) {
	if len(p) > c.n {
		p = p[:c.n]
	}
	return c.src.Read(p)
}

// ChunkReader is Chunks for an io.Reader.
func ChunkReader(r io.Reader, n int) io.Reader {
	return Chunks[byte](r, n)
}
