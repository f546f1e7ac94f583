/*
NAME
  reader.go

DESCRIPTION
  reader.go provides a streaming reader of delimiter separated records with
  optionally quoted fields.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved. 

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package csv reads delimiter separated records from any buffer model.
//
// A quoted field may contain delimiters, line breaks and doubled quote
// characters, which stand for one literal quote. Blank lines are skipped.
// Every record must have as many fields as the first.
package csv

import (
	"io"

	"github.com/ausocean/readbuf/buffer"
	"github.com/ausocean/readbuf/scan"
	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"
)

// Record errors. Each is carried in a *buffer.ParseError giving its offset.
var (
	ErrUnterminatedQuotedField = errors.WithMessage(buffer.ErrUnexpectedEOF, "unterminated quoted field")
	ErrMissingSeparator        = errors.WithMessage(buffer.ErrUnexpectedToken, "missing separator after quoted field")
	ErrFieldCount              = errors.WithMessage(buffer.ErrUnexpectedToken, "wrong number of fields")
)

// Reader reads records from a buffer.
type Reader[T buffer.Unit] struct {
	b     buffer.Buffer[T]
	comma T
	quote T
	log   logging.Logger

	header  bool
	hdr     []string
	fields  int // Fields per record; -1 until the first row is read.
	records int
	scratch []T
}

// NewReader returns a Reader over b. The delimiter and quote must each fit
// in a single unit of b.
func NewReader[T buffer.Unit](b buffer.Buffer[T], opts ...Option) (*Reader[T], error) {
	s := settings{comma: ',', quote: '"', log: buffer.Discard}
	for i, o := range opts {
		err := o(&s)
		if err != nil {
			return nil, errors.Wrapf(err, "option %d failed", i)
		}
	}
	if s.comma == s.quote {
		return nil, errors.Wrap(ErrInvalidQuote, "quote and delimiter are the same")
	}
	if rune(T(s.comma)) != s.comma {
		return nil, errors.Wrapf(ErrInvalidDelimiter, "%q does not fit the buffer unit", s.comma)
	}
	if rune(T(s.quote)) != s.quote {
		return nil, errors.Wrapf(ErrInvalidQuote, "%q does not fit the buffer unit", s.quote)
	}
	return &Reader[T]{
		b:      b,
		comma:  T(s.comma),
		quote:  T(s.quote),
		log:    s.log,
		header: s.header,
		fields: -1,
	}, nil
}

// Header returns the header row, if the reader was configured with Header
// and the first row has been read.
func (r *Reader[T]) Header() []string { return r.hdr }

// FieldCount returns the number of fields every record must have, or -1 if
// no row has been read yet.
func (r *Reader[T]) FieldCount() int { return r.fields }

// Read returns the next record, or io.EOF once the input is exhausted. A
// record whose field count differs from the first row's is returned along
// with an error wrapping ErrFieldCount; reading may continue after it.
func (r *Reader[T]) Read() ([]string, error) {
	for {
		rec, pos, err := r.row()
		if err != nil {
			return nil, err
		}

		if r.fields < 0 {
			r.fields = len(rec)
			if r.header {
				r.hdr = rec
				r.log.Debug("csv header read", "fields", r.fields)
				continue
			}
		}
		r.records++
		if len(rec) != r.fields {
			r.log.Debug("csv record has wrong field count", "record", r.records, "fields", len(rec), "want", r.fields)
			return rec, buffer.Errorf(pos, ErrFieldCount, "record %d has %d fields, want %d", r.records, len(rec), r.fields)
		}
		return rec, nil
	}
}

// Next adapts Read for use with driver.Start.
func (r *Reader[T]) Next() ([]string, bool, error) {
	rec, err := r.Read()
	if err == io.EOF {
		return nil, false, nil
	}
	return rec, true, err
}

// ReadAll reads the remaining records. It stops at the first error and
// returns the records read before it.
func (r *Reader[T]) ReadAll() ([][]string, error) {
	var recs [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return recs, nil
		}
		if err != nil {
			return recs, err
		}
		recs = append(recs, rec)
	}
}

// row reads the fields of the next non-blank line and its terminator, and
// returns them with the offset at which the row started.
func (r *Reader[T]) row() ([]string, int64, error) {
	for {
		rem, err := scan.Need(r.b, 1)
		if len(rem) == 0 {
			if isEOF(err) {
				return nil, r.b.Consumed(), io.EOF
			}
			return nil, r.b.Consumed(), err
		}
		if rem[0] != '\r' && rem[0] != '\n' {
			break
		}
		_, err = scan.SkipCRLF(r.b)
		if err != nil {
			return nil, r.b.Consumed(), err
		}
	}

	pos := r.b.Consumed()
	var rec []string
	for {
		f, more, err := r.field()
		if err != nil {
			return nil, pos, err
		}
		rec = append(rec, f)
		if !more {
			break
		}
	}
	_, err := scan.SkipCRLF(r.b)
	return rec, pos, err
}

// field reads one field. more reports whether a delimiter followed it.
func (r *Reader[T]) field() (f string, more bool, err error) {
	rem, err := scan.Need(r.b, 1)
	if len(rem) == 0 {
		if isEOF(err) {
			// Delimiter at the end of input.
			return "", false, nil
		}
		return "", false, err
	}
	switch rem[0] {
	case r.comma:
		r.b.Consume(1)
		return "", true, nil
	case '\r', '\n':
		return "", false, nil
	case r.quote:
		return r.quoted()
	}

	i, err := scan.IndexAny(r.b, 0, r.comma, '\r', '\n')
	if err != nil {
		return "", false, err
	}
	rem = r.b.Remaining()
	if i < 0 {
		r.b.Consume(len(rem))
		return buffer.String(rem), false, nil
	}
	f = buffer.String(rem[:i])
	if rem[i] == r.comma {
		r.b.Consume(i + 1)
		return f, true, nil
	}
	r.b.Consume(i)
	return f, false, nil
}

// quoted reads a quoted field, starting at its opening quote.
func (r *Reader[T]) quoted() (string, bool, error) {
	start := r.b.Consumed()
	r.b.Consume(1)
	r.scratch = r.scratch[:0]
	for {
		i, err := scan.IndexAny(r.b, 0, r.quote)
		if err != nil {
			return "", false, err
		}
		if i < 0 {
			return "", false, buffer.Errorf(start, ErrUnterminatedQuotedField, "no closing quote")
		}

		// The quote may be the first of an escaped pair whose second half
		// has not been read yet.
		rem, err := scan.Need(r.b, i+2)
		if err != nil && !isEOF(err) {
			return "", false, err
		}
		if len(rem) > i+1 && rem[i+1] == r.quote {
			r.scratch = append(r.scratch, rem[:i+1]...)
			r.b.Consume(i + 2)
			continue
		}
		r.scratch = append(r.scratch, rem[:i]...)
		r.b.Consume(i + 1)
		break
	}
	f := buffer.String(r.scratch)

	rem, err := scan.Need(r.b, 1)
	if len(rem) == 0 {
		if isEOF(err) {
			return f, false, nil
		}
		return "", false, err
	}
	switch rem[0] {
	case r.comma:
		r.b.Consume(1)
		return f, true, nil
	case '\r', '\n':
		return f, false, nil
	}
	return "", false, buffer.Errorf(r.b.Consumed(), ErrMissingSeparator, "found %q", rune(rem[0]))
}

// isEOF reports whether err is nil or marks the end of input.
func isEOF(err error) bool {
	return err == nil || errors.Is(err, buffer.ErrUnexpectedEOF)
}
