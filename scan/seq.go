/*
NAME
  seq.go

DESCRIPTION
  seq.go provides the scan primitives over chunk chains. Each tries the
  current chunk alone before walking the chain.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved. 

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


package scan

import "github.com/ausocean/readbuf/buffer"

// TagSeq consumes one unit of w if it equals want.
func TagSeq[T buffer.Unit](w buffer.Walker[T], want T) error {
	var c T
	if cur := w.Current(); len(cur) > 0 {
		c = cur[0]
	} else {
		seq, err := w.Peek(1)
		if err != nil {
			return err
		}
		if seq.Len() == 0 {
			return buffer.Errorf(w.Consumed(), buffer.ErrUnexpectedEOF, "want %q", rune(want))
		}
		c = seq.At(0)
	}
	if c != want {
		return buffer.Errorf(w.Consumed(), buffer.ErrUnexpectedToken, "want %q got %q", rune(want), rune(c))
	}
	w.Consume(1)
	return nil
}

// HexRunSeq returns the next count units of w if they are all ASCII hex
// digits. The run is not consumed.
func HexRunSeq[T buffer.Unit](w buffer.Walker[T], count int) (buffer.Sequence[T], error) {
	if cur := w.Current(); len(cur) >= count {
		if i := invalidHex(cur[:count]); i >= 0 {
			return buffer.Sequence[T]{}, buffer.Errorf(w.Consumed()+int64(i), buffer.ErrUnexpectedToken, "%q is not a hex digit", rune(cur[i]))
		}
		return w.Span(count), nil
	}

	seq, err := w.Peek(count)
	if err != nil {
		return buffer.Sequence[T]{}, err
	}
	i, bad := 0, -1
	seq.Range(func(seg []T) bool {
		if j := invalidHex(seg); j >= 0 {
			bad = i + j
			return false
		}
		i += len(seg)
		return true
	})
	if bad >= 0 {
		return buffer.Sequence[T]{}, buffer.Errorf(w.Consumed()+int64(bad), buffer.ErrUnexpectedToken, "%q is not a hex digit", rune(seq.At(bad)))
	}
	if seq.Len() < count {
		return buffer.Sequence[T]{}, buffer.Errorf(w.Consumed()+int64(seq.Len()), buffer.ErrUnexpectedEOF, "need %d hex digits, have %d", count, seq.Len())
	}
	return seq, nil
}

// TakeWhileSeq returns the longest prefix of w whose units all satisfy pred.
// The prefix is not consumed.
func TakeWhileSeq[T buffer.Unit](w buffer.Walker[T], pred func(T) bool) (buffer.Sequence[T], error) {
	cur := w.Current()
	for i, c := range cur {
		if !pred(c) {
			return w.Span(i), nil
		}
	}
	i, err := indexFunc(w, len(cur), func(c T) bool { return !pred(c) })
	if err != nil {
		return buffer.Sequence[T]{}, err
	}
	if i < 0 {
		i = w.Buffered()
	}
	return w.Span(i), nil
}

// LineSeq returns the next line of w, excluding its terminator, and n, the
// number of units the line and its terminator occupy. Nothing is consumed;
// the caller consumes n once it has finished with line. ok is false once
// the input is exhausted.
func LineSeq[T buffer.Unit](w buffer.Walker[T]) (line buffer.Sequence[T], n int, ok bool, err error) {
	if cur := w.Current(); len(cur) > 0 {
		i := indexAny(cur, []T{'\r', '\n'})
		switch {
		case i < 0:
		case cur[i] == '\n':
			return w.Span(i), i + 1, true, nil
		case i+1 < len(cur):
			n = i + 1
			if cur[n] == '\n' {
				n++
			}
			return w.Span(i), n, true, nil
		}
	}

	i, err := IndexAnySeq(w, 0, '\r', '\n')
	if err != nil {
		return buffer.Sequence[T]{}, 0, false, err
	}
	if i < 0 {
		rest := w.Buffered()
		if rest == 0 {
			return buffer.Sequence[T]{}, 0, false, nil
		}
		return w.Span(rest), rest, true, nil
	}

	// Look one past the terminator; a '\r' may be followed by '\n'.
	seq, err := w.Peek(i + 2)
	if err != nil {
		return buffer.Sequence[T]{}, 0, false, err
	}
	n = i + 1
	if seq.At(i) == '\r' && seq.Len() > i+1 && seq.At(i+1) == '\n' {
		n++
	}
	return w.Span(i), n, true, nil
}

// IndexAnySeq returns the offset from the first unconsumed unit of w of the
// first of up to three delimiters at or after from, walking and refilling
// the chain as needed. It returns -1 if the input ends without a match.
func IndexAnySeq[T buffer.Unit](w buffer.Walker[T], from int, delims ...T) (int, error) {
	checkDelims(delims)
	if cur := w.Current(); from < len(cur) {
		if j := indexAny(cur[from:], delims); j >= 0 {
			return from + j, nil
		}
	}
	return indexFunc(w, from, func(c T) bool {
		for _, d := range delims {
			if c == d {
				return true
			}
		}
		return false
	})
}

// SkipCRLFSeq consumes one "\r\n", "\r" or "\n" if one is next, and reports
// whether it did.
func SkipCRLFSeq[T buffer.Unit](w buffer.Walker[T]) (bool, error) {
	seq, err := w.Peek(1)
	if err != nil || seq.Len() == 0 {
		return false, err
	}
	switch seq.At(0) {
	case '\n':
		w.Consume(1)
		return true, nil
	case '\r':
		seq, err = w.Peek(2)
		if err != nil {
			return false, err
		}
		n := 1
		if seq.Len() > 1 && seq.At(1) == '\n' {
			n = 2
		}
		w.Consume(n)
		return true, nil
	}
	return false, nil
}

// indexFunc walks w from its first unconsumed unit and returns the offset of
// the first unit at or after from that satisfies f, or -1 if the input ends
// first.
func indexFunc[T buffer.Unit](w buffer.Walker[T], from int, f func(T) bool) (int, error) {
	pos := 0
	ch, err := w.NextChunk(nil)
	for ch != nil {
		seg := ch.Remaining()
		if end := pos + len(seg); end > from {
			start := max(0, from-pos)
			for i, c := range seg[start:] {
				if f(c) {
					return pos + start + i, nil
				}
			}
		}
		pos += len(seg)
		if err != nil {
			return -1, err
		}
		ch, err = w.NextChunk(ch)
	}
	return -1, err
}
