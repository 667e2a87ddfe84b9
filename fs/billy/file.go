package billy

import (
	"io"
	"os"

	"github.com/go-git/go-billy/v5"

	"github.com/candidtim/unifs/fs/core"
)

// File is an open regular file with its size, for ranged reads.
type File struct {
	file billy.File
	name string
	size int64
}

// open opens the regular file p for reading.
func (f *FS) open(op, p string) (*File, error) {
	fi, err := f.stat(op, p)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return nil, core.PathError(op, p, core.ErrIsDir)
	}

	file, err := f.bfs.OpenFile(f.resolve(p), os.O_RDONLY, 0)
	if err != nil {
		return nil, translate(op, p, err)
	}
	return &File{file: file, name: normalize(p), size: fi.Size()}, nil
}

// Read implements io.Reader.
func (f *File) Read(p []byte) (int, error) {
	return f.file.Read(p)
}

// Close implements io.Closer.
func (f *File) Close() error {
	return f.file.Close()
}

// Name returns the name provided to open.
func (f *File) Name() string {
	return f.name
}

// Head reads at most the first n bytes.
func (f *File) Head(n int64) ([]byte, error) {
	if n <= 0 {
		return []byte{}, nil
	}
	return io.ReadAll(io.LimitReader(f.file, n))
}

// Tail reads at most the last n bytes.
func (f *File) Tail(n int64) ([]byte, error) {
	if n <= 0 {
		return []byte{}, nil
	}
	offset := f.size - n
	if offset < 0 {
		offset = 0
	}
	if _, err := f.file.Seek(offset, io.SeekStart); err != nil {
		return nil, err
	}
	return io.ReadAll(f.file)
}

// Compile-time interface checks.
var _ io.ReadCloser = (*File)(nil)
