/*
NAME
  driver.go

DESCRIPTION
  driver.go provides the loops that drive a parser over a buffer, refilling
  whenever the parser cannot make progress with the data it has.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved. 

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package driver runs parsers over buffers until the input is exhausted,
// either in the calling goroutine or in a goroutine of its own.
package driver

import (
	"context"

	"github.com/ausocean/readbuf/buffer"
)

// Parser is handed the unconsumed window of a buffer and reports how many
// units it used. final is true if no more data will follow the window.
// Returning zero asks for a refill.
type Parser[T buffer.Unit] func(window []T, final bool) (consumed int, err error)

// SeqParser is a Parser over a chain's unconsumed sequence.
type SeqParser[T buffer.Unit] func(seq buffer.Sequence[T], final bool) (consumed int, err error)

// Run drives parse over b until b is exhausted.
func Run[T buffer.Unit](b buffer.Buffer[T], parse Parser[T]) error {
	return RunContext(context.Background(), b, parse)
}

// RunContext drives parse over b until b is exhausted or ctx is done.
// Cancellation is observed only at refills. A parser that uses nothing from
// a final window that still holds data fails with ErrUnexpectedEOF.
func RunContext[T buffer.Unit](ctx context.Context, b buffer.Buffer[T], parse Parser[T]) error {
	for {
		rem := b.Remaining()
		if len(rem) == 0 {
			if b.Final() {
				return nil
			}
			if _, err := b.RefillContext(ctx); err != nil {
				return err
			}
			continue
		}

		n, err := parse(rem, b.Final())
		if err != nil {
			return err
		}
		if n < 0 || n > len(rem) {
			panic(&buffer.ContractError{Op: "Parser", N: n, Available: len(rem)})
		}
		if n > 0 {
			b.Consume(n)
			continue
		}
		if b.Final() {
			return buffer.Errorf(b.Consumed(), buffer.ErrUnexpectedEOF, "parser made no progress on final block")
		}
		if _, err := b.RefillContext(ctx); err != nil {
			return err
		}
	}
}

// RunSeq drives parse over the chain c until c is exhausted or ctx is done.
func RunSeq[T buffer.Unit](ctx context.Context, c buffer.Walker[T], parse SeqParser[T]) error {
	for {
		if c.Buffered() == 0 {
			if c.Final() {
				return nil
			}
			if _, err := c.RefillContext(ctx); err != nil {
				return err
			}
			continue
		}

		seq := c.Remaining()
		n, err := parse(seq, c.Final())
		if err != nil {
			return err
		}
		if n < 0 || n > seq.Len() {
			panic(&buffer.ContractError{Op: "SeqParser", N: n, Available: seq.Len()})
		}
		if n > 0 {
			c.Consume(n)
			continue
		}
		if c.Final() {
			return buffer.Errorf(c.Consumed(), buffer.ErrUnexpectedEOF, "parser made no progress on final block")
		}
		if _, err := c.RefillContext(ctx); err != nil {
			return err
		}
	}
}
