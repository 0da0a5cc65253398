package corefs

import (
	"bytes"
	"os"

	billy "github.com/go-git/go-billy/v5"
)

// bytesFile is an open handle on one entry of the FS content memo. The
// handle keeps the bytes it was opened with; a Refresh only affects later
// opens.
type bytesFile struct {
	*bytes.Reader
	name   string
	closed bool
}

func newBytesFile(name string, data []byte) *bytesFile {
	return &bytesFile{Reader: bytes.NewReader(data), name: name}
}

func (f *bytesFile) Name() string { return f.name }

func (f *bytesFile) Read(p []byte) (int, error) {
	if f.closed {
		return 0, f.pathErr("read", os.ErrClosed)
	}
	return f.Reader.Read(p)
}

func (f *bytesFile) ReadAt(p []byte, off int64) (int, error) {
	if f.closed {
		return 0, f.pathErr("read", os.ErrClosed)
	}
	return f.Reader.ReadAt(p, off)
}

func (f *bytesFile) Seek(offset int64, whence int) (int64, error) {
	if f.closed {
		return 0, f.pathErr("seek", os.ErrClosed)
	}
	pos, err := f.Reader.Seek(offset, whence)
	if err != nil {
		return pos, f.pathErr("seek", os.ErrInvalid)
	}
	return pos, nil
}

func (f *bytesFile) Close() error {
	if f.closed {
		return f.pathErr("close", os.ErrClosed)
	}
	f.closed = true
	return nil
}

func (f *bytesFile) Write([]byte) (int, error) { return 0, f.pathErr("write", errReadOnly) }
func (f *bytesFile) Truncate(int64) error      { return f.pathErr("truncate", errReadOnly) }
func (f *bytesFile) Lock() error               { return nil }
func (f *bytesFile) Unlock() error             { return nil }

func (f *bytesFile) pathErr(op string, err error) error {
	return &os.PathError{Op: op, Path: f.name, Err: err}
}

var _ billy.File = (*bytesFile)(nil)
