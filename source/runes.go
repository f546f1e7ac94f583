/*
NAME
  runes.go

DESCRIPTION
  runes.go provides character sources: an adapter for io.RuneReader and a
  decoder for byte streams in a named text encoding.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved. 

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


package source

import (
	"bufio"
	"io"
	"strings"

	"github.com/ausocean/readbuf/buffer"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type runeSource struct {
	rr io.RuneReader
}

// Runes returns a Source of the runes read from rr. A read returns early,
// with at least one rune, once a buffered rr has nothing left buffered.
func Runes(rr io.RuneReader) buffer.Source[rune] {
	return &runeSource{rr: rr}
}

func (s *runeSource) Read(p []rune) (int, error) {
	b, buffered := s.rr.(interface{ Buffered() int })
	for i := range p {
		if i > 0 && buffered && b.Buffered() == 0 {
			return i, nil
		}
		c, _, err := s.rr.ReadRune()
		if err != nil {
			return i, err
		}
		p[i] = c
	}
	return len(p), nil
}

// Decode returns a Source of the runes of r decoded from enc.
func Decode(r io.Reader, enc encoding.Encoding) buffer.Source[rune] {
	return Runes(bufio.NewReader(transform.NewReader(r, enc.NewDecoder())))
}

// ErrUnknownEncoding is returned by Encoding for unsupported names.
var ErrUnknownEncoding = errors.New("unknown text encoding")

// Encoding returns the encoding called name. The empty name means UTF-8;
// utf-16le and utf-16be ignore byte order marks and utf-16 expects one.
// Other names are resolved by the WHATWG encoding index.
func Encoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return unicode.UTF8, nil
	case "utf-16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), nil
	case "utf-16be":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), nil
	case "utf-16":
		return unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, errors.Wrapf(ErrUnknownEncoding, "%q", name)
	}
	return enc, nil
}
