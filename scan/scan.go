/*
NAME
  scan.go

DESCRIPTION
  scan.go provides scan primitives over contiguous buffers. Each primitive
  refills its buffer as needed so that a match, run or terminator that
  straddles two refills is handled the same as one that arrives at once.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved. 

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package scan provides boundary-crossing scan primitives for the buffer
// models in package buffer.
//
// Primitives over a buffer.Buffer consume what they match and return views
// into the buffer. A returned view is valid until the next refill.
// Primitives over a buffer.Walker return sequences without consuming them,
// since consuming may release the chunks a sequence refers to; the caller
// consumes once it has finished with the sequence.
package scan

import (
	"bytes"

	"github.com/ausocean/readbuf/buffer"
)

// Need refills b until at least n units are available or the source is
// exhausted, and returns the window. If fewer than n units will ever be
// available the window is returned with an ErrUnexpectedEOF parse error.
func Need[T buffer.Unit](b buffer.Buffer[T], n int) ([]T, error) {
	for len(b.Remaining()) < n && !b.Final() {
		if _, err := b.Refill(); err != nil {
			return b.Remaining(), err
		}
	}
	rem := b.Remaining()
	if len(rem) < n {
		return rem, buffer.Errorf(b.Consumed()+int64(len(rem)), buffer.ErrUnexpectedEOF, "need %d units, have %d", n, len(rem))
	}
	return rem, nil
}

// Tag consumes one unit if it equals want.
func Tag[T buffer.Unit](b buffer.Buffer[T], want T) error {
	rem, err := Need(b, 1)
	if err != nil {
		return err
	}
	if rem[0] != want {
		return buffer.Errorf(b.Consumed(), buffer.ErrUnexpectedToken, "want %q got %q", rune(want), rune(rem[0]))
	}
	b.Consume(1)
	return nil
}

// HexRun consumes and returns exactly count ASCII hex digits. The first
// unit that is not a hex digit is reported with its absolute position,
// even if the run is also short.
func HexRun[T buffer.Unit](b buffer.Buffer[T], count int) ([]T, error) {
	rem, needErr := Need(b, count)
	if _, ok := needErr.(*buffer.ParseError); needErr != nil && !ok {
		return nil, needErr
	}
	if i := invalidHex(rem[:min(count, len(rem))]); i >= 0 {
		return nil, buffer.Errorf(b.Consumed()+int64(i), buffer.ErrUnexpectedToken, "%q is not a hex digit", rune(rem[i]))
	}
	if needErr != nil {
		return nil, needErr
	}
	run := rem[:count]
	b.Consume(count)
	return run, nil
}

// TakeWhile consumes and returns the longest prefix whose units all satisfy
// pred. The prefix may be empty.
func TakeWhile[T buffer.Unit](b buffer.Buffer[T], pred func(T) bool) ([]T, error) {
	i := 0
	for {
		rem := b.Remaining()
		for i < len(rem) && pred(rem[i]) {
			i++
		}
		if i < len(rem) || b.Final() {
			b.Consume(i)
			return rem[:i], nil
		}
		if _, err := b.Refill(); err != nil {
			return nil, err
		}
	}
}

// Line consumes and returns the next line, excluding its terminator. A
// terminator is "\n", "\r\n" or a "\r" not followed by "\n". ok is false
// once the input is exhausted. The last line need not be terminated.
func Line[T buffer.Unit](b buffer.Buffer[T]) (line []T, ok bool, err error) {
	i := 0
	for {
		rem := b.Remaining()
		for i < len(rem) && rem[i] != '\r' && rem[i] != '\n' {
			i++
		}
		switch {
		case i < len(rem) && rem[i] == '\n':
			b.Consume(i + 1)
			return rem[:i], true, nil
		case i+1 < len(rem):
			n := i + 1
			if rem[n] == '\n' {
				n++
			}
			b.Consume(n)
			return rem[:i], true, nil
		case b.Final():
			if i < len(rem) {
				// Lone '\r' at the end of input.
				b.Consume(i + 1)
				return rem[:i], true, nil
			}
			if len(rem) == 0 {
				return nil, false, nil
			}
			b.Consume(len(rem))
			return rem, true, nil
		}

		// Out of data, or a '\r' whose successor has not arrived yet.
		if _, err := b.Refill(); err != nil {
			return nil, false, err
		}
	}
}

// IndexAny returns the offset into b.Remaining() of the first of up to
// three delimiters at or after from, refilling as needed. It returns -1,
// with everything remaining buffered, if the input ends without a match.
// Nothing is consumed.
func IndexAny[T buffer.Unit](b buffer.Buffer[T], from int, delims ...T) (int, error) {
	checkDelims(delims)
	i := from
	for {
		rem := b.Remaining()
		if i < len(rem) {
			if j := indexAny(rem[i:], delims); j >= 0 {
				return i + j, nil
			}
			i = len(rem)
		}
		if b.Final() {
			return -1, nil
		}
		if _, err := b.Refill(); err != nil {
			return -1, err
		}
	}
}

// SkipCRLF consumes one "\r\n", "\r" or "\n" if one is next, and reports
// whether it did.
func SkipCRLF[T buffer.Unit](b buffer.Buffer[T]) (bool, error) {
	rem, err := Need(b, 1)
	if err != nil {
		if _, ok := err.(*buffer.ParseError); ok {
			return false, nil
		}
		return false, err
	}
	switch rem[0] {
	case '\n':
		b.Consume(1)
		return true, nil
	case '\r':
		rem, err = Need(b, 2)
		if _, ok := err.(*buffer.ParseError); err != nil && !ok {
			return false, err
		}
		n := 1
		if len(rem) > 1 && rem[1] == '\n' {
			n = 2
		}
		b.Consume(n)
		return true, nil
	}
	return false, nil
}

// IsHex reports whether c is an ASCII hex digit.
func IsHex[T buffer.Unit](c T) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

// invalidHex returns the index of the first unit of v that is not a hex
// digit, or -1.
func invalidHex[T buffer.Unit](v []T) int {
	for i, c := range v {
		if !IsHex(c) {
			return i
		}
	}
	return -1
}

func checkDelims[T buffer.Unit](delims []T) {
	if len(delims) == 0 || len(delims) > 3 {
		panic(&buffer.ContractError{Op: "IndexAny", N: len(delims), Available: 3})
	}
}

// indexAny returns the index of the first unit of v in delims, or -1.
func indexAny[T buffer.Unit](v []T, delims []T) int {
	switch len(delims) {
	case 1:
		if bs, ok := any(v).([]byte); ok {
			return bytes.IndexByte(bs, byte(delims[0]))
		}
		d := delims[0]
		for i, c := range v {
			if c == d {
				return i
			}
		}
	case 2:
		d0, d1 := delims[0], delims[1]
		for i, c := range v {
			if c == d0 || c == d1 {
				return i
			}
		}
	default:
		d0, d1, d2 := delims[0], delims[1], delims[2]
		for i, c := range v {
			if c == d0 || c == d1 || c == d2 {
				return i
			}
		}
	}
	return -1
}
