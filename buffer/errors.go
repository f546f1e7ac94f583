/*
NAME
  errors.go

DESCRIPTION
  errors.go defines the error taxonomy reported by buffers and the scanners
  built on them.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved. 

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


package buffer

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error kinds. Parse failures wrap one of ErrUnexpectedEOF and
// ErrUnexpectedToken; growth failures wrap ErrResourceExhausted.
var (
	ErrUnexpectedEOF     = errors.New("unexpected end of input")
	ErrUnexpectedToken   = errors.New("unexpected token")
	ErrResourceExhausted = errors.New("buffer growth exceeds maximum allocation")
)

// ParseError is a malformed-input failure at an absolute input position.
type ParseError struct {
	Pos int64  // Units consumed before the offending unit.
	Err error  // ErrUnexpectedEOF, ErrUnexpectedToken or an error wrapping one.
	Msg string // Optional detail.
}

// Errorf returns a *ParseError of the given kind at pos.
func Errorf(pos int64, kind error, format string, args ...interface{}) *ParseError {
	return &ParseError{Pos: pos, Err: kind, Msg: fmt.Sprintf(format, args...)}
}

func (e *ParseError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%v at offset %d", e.Err, e.Pos)
	}
	return fmt.Sprintf("%v at offset %d: %s", e.Err, e.Pos, e.Msg)
}

// Unwrap returns the error kind.
func (e *ParseError) Unwrap() error { return e.Err }

// ContractError is the panic value used when a caller misuses a buffer, for
// example by consuming more units than were buffered. It signals a
// programming error and is not meant to be recovered from.
type ContractError struct {
	Op        string
	N         int
	Available int
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("buffer: %s(%d) with %d units available", e.Op, e.N, e.Available)
}
