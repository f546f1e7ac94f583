/*
DESCRIPTION
  options.go provides option functions that can be provided to NewReader for
  reader configuration. These options include the field delimiter, the
  quote character and whether the first row is a header.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved. 

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


package csv

import (
	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"
)

var (
	ErrInvalidDelimiter = errors.New("invalid delimiter")
	ErrInvalidQuote     = errors.New("invalid quote character")
)

// Option configures a Reader.
type Option func(*settings) error

type settings struct {
	comma  rune
	quote  rune
	header bool
	log    logging.Logger
}

// Comma is an option that can be passed to NewReader to set the field
// delimiter. The default is ','.
func Comma(r rune) Option {
	return func(s *settings) error {
		if !validSpecial(r) {
			return errors.Wrapf(ErrInvalidDelimiter, "%q", r)
		}
		s.comma = r
		return nil
	}
}

// Quote is an option that can be passed to NewReader to set the character
// that encloses quoted fields. The default is '"'.
func Quote(r rune) Option {
	return func(s *settings) error {
		if !validSpecial(r) {
			return errors.Wrapf(ErrInvalidQuote, "%q", r)
		}
		s.quote = r
		return nil
	}
}

// Header is an option that can be passed to NewReader so that the first row
// is kept as the header instead of being returned as a record.
func Header() Option {
	return func(s *settings) error {
		s.header = true
		return nil
	}
}

// Logger is an option that can be passed to NewReader to have the reader
// log its progress.
func Logger(l logging.Logger) Option {
	return func(s *settings) error {
		if l == nil {
			return errors.New("nil logger")
		}
		s.log = l
		s.log.Debug("configured csv reader logging")
		return nil
	}
}

// validSpecial reports whether r can delimit or quote fields.
func validSpecial(r rune) bool {
	return r > 0 && r != '\r' && r != '\n' && r != 0xfffd
}
