//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

/*
NAME
  mmap_unix.go

DESCRIPTION
  mmap_unix.go provides Map, a Fixed view over a memory-mapped file.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved. 

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


package buffer

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Map maps the file at path read-only and returns a Fixed over its contents.
// Close unmaps the file.
func Map(path string) (*Fixed[byte], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open file to map")
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "could not stat file to map")
	}
	size := fi.Size()
	if size == 0 {
		return NewFixed([]byte{}), nil
	}
	if int64(int(size)) != size {
		return nil, errors.Wrapf(ErrResourceExhausted, "file of %d bytes cannot be mapped", size)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, errors.Wrap(err, "could not map file")
	}
	return Owned(data, func() error {
		return errors.Wrap(unix.Munmap(data), "could not unmap file")
	}), nil
}
