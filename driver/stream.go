/*
NAME
  stream.go

DESCRIPTION
  stream.go provides Stream, which produces values from a buffer in a
  goroutine of its own and delivers them on a channel.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved. 

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


package driver

import (
	"context"

	"github.com/ausocean/readbuf/buffer"
	"golang.org/x/sync/errgroup"
)

// Next returns the next value. ok is false once there are no more values.
type Next[V any] func() (v V, ok bool, err error)

// Stream delivers values produced in its own goroutine.
type Stream[V any] struct {
	// C receives each value. It is closed when production ends.
	C <-chan V

	g      *errgroup.Group
	cancel context.CancelFunc
}

// Start binds b to a context derived from ctx, passes it to open, and calls
// the returned Next in a new goroutine until it reports no more values, fails,
// or the stream is stopped. The buffer must not be used elsewhere until Wait
// returns.
func Start[T buffer.Unit, V any](ctx context.Context, b buffer.Buffer[T], open func(b buffer.Buffer[T]) Next[V]) *Stream[V] {
	ctx, cancel := context.WithCancel(ctx)
	g, ctx := errgroup.WithContext(ctx)
	return start(ctx, cancel, g, open(buffer.Bind(ctx, b)))
}

// StartSeq is Start for a chain.
func StartSeq[T buffer.Unit, V any](ctx context.Context, c buffer.Walker[T], open func(c buffer.Walker[T]) Next[V]) *Stream[V] {
	ctx, cancel := context.WithCancel(ctx)
	g, ctx := errgroup.WithContext(ctx)
	return start(ctx, cancel, g, open(buffer.BindWalker(ctx, c)))
}

func start[V any](ctx context.Context, cancel context.CancelFunc, g *errgroup.Group, next Next[V]) *Stream[V] {
	c := make(chan V)
	g.Go(func() error {
		defer close(c)
		for {
			v, ok, err := next()
			if err != nil || !ok {
				return err
			}
			select {
			case c <- v:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})
	return &Stream[V]{C: c, g: g, cancel: cancel}
}

// Stop asks the stream to end. Values not yet received are discarded once
// the producing goroutine observes the request.
func (s *Stream[V]) Stop() { s.cancel() }

// Wait blocks until the producing goroutine has returned and returns its
// error. It must be called to release the stream's resources.
func (s *Stream[V]) Wait() error {
	err := s.g.Wait()
	s.cancel()
	return err
}

// Collect receives every value of s and then waits for it.
func (s *Stream[V]) Collect() ([]V, error) {
	var vs []V
	for v := range s.C {
		vs = append(vs, v)
	}
	return vs, s.Wait()
}
