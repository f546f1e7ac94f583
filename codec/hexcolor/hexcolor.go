/*
NAME
  hexcolor.go

DESCRIPTION
  hexcolor.go provides encoding and decoding of #RRGGBB colours.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved. 

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package hexcolor encodes and decodes colours written as '#' followed by
// six hex digits.
package hexcolor

import (
	"github.com/ausocean/readbuf/buffer"
	"github.com/ausocean/readbuf/scan"
)

const digits = "0123456789ABCDEF"

// Color is a 24 bit RGB colour.
type Color struct {
	R, G, B uint8
}

// String returns c as "#RRGGBB" with upper case digits.
func (c Color) String() string { return string(c.Append(make([]byte, 0, 7))) }

// Append appends c as "#RRGGBB" to dst.
func (c Color) Append(dst []byte) []byte {
	dst = append(dst, '#')
	for _, v := range [3]uint8{c.R, c.G, c.B} {
		dst = append(dst, digits[v>>4], digits[v&0xf])
	}
	return dst
}

// Parse parses s, which must be exactly one colour.
func Parse(s string) (Color, error) {
	f := buffer.NewFixed([]byte(s))
	c, err := Decode[byte](f)
	if err != nil {
		return Color{}, err
	}
	if !f.EOF() {
		return Color{}, buffer.Errorf(f.Consumed(), buffer.ErrUnexpectedToken, "trailing %q", f.Remaining())
	}
	return c, nil
}

// Decode consumes one colour from b.
func Decode[T buffer.Unit](b buffer.Buffer[T]) (Color, error) {
	if err := scan.Tag(b, '#'); err != nil {
		return Color{}, err
	}
	run, err := scan.HexRun(b, 6)
	if err != nil {
		return Color{}, err
	}
	return fromHex(run), nil
}

// DecodeSeq consumes one colour from c.
func DecodeSeq[T buffer.Unit](c buffer.Walker[T]) (Color, error) {
	if err := scan.TagSeq(c, '#'); err != nil {
		return Color{}, err
	}
	seq, err := scan.HexRunSeq(c, 6)
	if err != nil {
		return Color{}, err
	}
	var run [6]T
	if seq.Single() {
		copy(run[:], seq.First())
	} else {
		seq.AppendTo(run[:0])
	}
	c.Consume(6)
	return fromHex(run[:]), nil
}

// fromHex converts six validated hex digits.
func fromHex[T buffer.Unit](run []T) Color {
	return Color{
		R: nibble(run[0])<<4 | nibble(run[1]),
		G: nibble(run[2])<<4 | nibble(run[3]),
		B: nibble(run[4])<<4 | nibble(run[5]),
	}
}

func nibble[T buffer.Unit](c T) uint8 {
	switch {
	case c >= 'a':
		return uint8(c-'a') + 10
	case c >= 'A':
		return uint8(c-'A') + 10
	}
	return uint8(c - '0')
}
