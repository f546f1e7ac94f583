//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

/*
NAME
  mmap_other.go

DESCRIPTION
  mmap_other.go provides Map for platforms without mmap by reading the file
  into a pooled array.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved. 

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


package buffer

import (
	"io"
	"os"

	"github.com/ausocean/readbuf/pool"
	"github.com/pkg/errors"
)

// Map reads the file at path into a pooled array and returns a Fixed over
// it. Close returns the array to the pool.
func Map(path string) (*Fixed[byte], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open file")
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "could not stat file")
	}
	if fi.Size() > int64(pool.Bytes.Limit()) {
		return nil, errors.Wrapf(ErrResourceExhausted, "file of %d bytes too large", fi.Size())
	}

	b, err := pool.Bytes.Rent(int(fi.Size()))
	if err != nil {
		return nil, err
	}
	n, err := io.ReadFull(f, b)
	if err != nil && err != io.ErrUnexpectedEOF {
		pool.Bytes.Return(b)
		return nil, errors.Wrap(err, "could not read file")
	}
	return Owned(b[:n], func() error { pool.Bytes.Return(b); return nil }), nil
}
