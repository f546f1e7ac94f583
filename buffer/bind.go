/*
NAME
  bind.go

DESCRIPTION
  bind.go provides Bind, which ties a buffer's refills to a context.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved. 

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


package buffer

import "context"

type bound[T Unit] struct {
	Buffer[T]
	ctx context.Context
}

// Bind returns a Buffer whose Refill honours ctx. Scanners written against
// Buffer become cancellable at refill boundaries without change.
func Bind[T Unit](ctx context.Context, b Buffer[T]) Buffer[T] {
	return &bound[T]{Buffer: b, ctx: ctx}
}

func (b *bound[T]) Refill() (bool, error) { return b.Buffer.RefillContext(b.ctx) }

type boundWalker[T Unit] struct {
	Walker[T]
	ctx context.Context
}

// BindWalker is Bind for the chain model.
func BindWalker[T Unit](ctx context.Context, w Walker[T]) Walker[T] {
	return &boundWalker[T]{Walker: w, ctx: ctx}
}

func (w *boundWalker[T]) Refill() (bool, error) { return w.Walker.RefillContext(w.ctx) }

func (w *boundWalker[T]) NextChunk(ch *Chunk[T]) (*Chunk[T], error) {
	if ch == nil {
		if w.Head() == nil && !w.Final() {
			if _, err := w.Refill(); err != nil {
				return w.Head(), err
			}
		}
		return w.Head(), nil
	}
	if ch.Next() == nil && !w.Final() {
		if _, err := w.Refill(); err != nil {
			return ch.Next(), err
		}
	}
	return ch.Next(), nil
}

func (w *boundWalker[T]) Peek(n int) (Sequence[T], error) {
	for w.Buffered() < n && !w.Final() {
		if _, err := w.Refill(); err != nil {
			return w.Span(n), err
		}
	}
	return w.Span(n), nil
}
