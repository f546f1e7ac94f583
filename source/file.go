/*
NAME
  file.go

DESCRIPTION
  file.go provides File, a byte source reading from a file on disk.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved. 

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


package source

import (
	"io"
	"os"

	"github.com/ausocean/readbuf/buffer"
	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"
)

// File is a byte source over an opened file.
type File struct {
	f    *os.File
	path string
	size int64
	read int64
	log  logging.Logger
}

// Open opens the file at path for reading. A nil logger discards output.
func Open(path string, l logging.Logger) (*File, error) {
	if l == nil {
		l = buffer.Discard
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open input file")
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, "could not stat input file")
	}
	l.Debug("opened input file", "path", path, "size", fi.Size())
	return &File{f: f, path: path, size: fi.Size(), log: l}, nil
}

// Size returns the size of the file when it was opened.
func (f *File) Size() int64 { return f.size }

// Read implements io.Reader.
func (f *File) Read(p []byte) (int, error) {
	if f.f == nil {
		return 0, errors.New("input file is closed")
	}
	n, err := f.f.Read(p)
	f.read += int64(n)
	if err != nil && err != io.EOF {
		return n, errors.Wrap(err, "could not read input file")
	}
	return n, err
}

// Close closes the file. Closing more than once is a no-op.
func (f *File) Close() error {
	if f.f == nil {
		return nil
	}
	err := f.f.Close()
	f.f = nil
	f.log.Debug("closed input file", "path", f.path, "read", f.read)
	return errors.Wrap(err, "could not close input file")
}
