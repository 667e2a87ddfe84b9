// Package proxy exposes backends through a single, stable error contract.
//
// A *FS wraps any core.FileSystem and delegates every operation unchanged,
// except that returned errors are passed through Classify. The command layer
// only ever holds proxies, so it can rely on errors.CodeUnsupported,
// errors.CodeNotFound, errors.CodeAlreadyExists and errors.CodeNotADirectory
// regardless of how a backend reports those conditions.
package proxy

import (
	"iter"

	"github.com/candidtim/unifs/fs/core"
)

// FS is a classifying decorator around a backend.
type FS struct {
	fsys core.FileSystem
}

// Compile-time interface check.
var _ core.FileSystem = (*FS)(nil)

// Wrap returns a proxy for fsys. Wrapping a proxy returns it unchanged.
func Wrap(fsys core.FileSystem) *FS {
	if p, ok := fsys.(*FS); ok {
		return p
	}
	return &FS{fsys: fsys}
}

// Unwrap returns the wrapped backend.
func (p *FS) Unwrap() core.FileSystem {
	return p.fsys
}

// Protocol returns the backend's protocol as is.
func (p *FS) Protocol() string {
	return p.fsys.Protocol()
}

func (p *FS) Ls(path string, detail bool) ([]core.Info, error) {
	infos, err := p.fsys.Ls(path, detail)
	return infos, Classify("ls", err)
}

func (p *FS) Info(path string) (core.Info, error) {
	info, err := p.fsys.Info(path)
	return info, Classify("info", err)
}

func (p *FS) Exists(path string) (bool, error) {
	ok, err := p.fsys.Exists(path)
	return ok, Classify("exists", err)
}

func (p *FS) IsFile(path string) (bool, error) {
	ok, err := p.fsys.IsFile(path)
	return ok, Classify("isfile", err)
}

func (p *FS) IsDir(path string) (bool, error) {
	ok, err := p.fsys.IsDir(path)
	return ok, Classify("isdir", err)
}

func (p *FS) Size(path string) (int64, error) {
	size, err := p.fsys.Size(path)
	return size, Classify("size", err)
}

func (p *FS) Cat(path string) ([]byte, error) {
	data, err := p.fsys.Cat(path)
	return data, Classify("cat", err)
}

func (p *FS) Head(path string, n int64) ([]byte, error) {
	data, err := p.fsys.Head(path, n)
	return data, Classify("head", err)
}

func (p *FS) Tail(path string, n int64) ([]byte, error) {
	data, err := p.fsys.Tail(path, n)
	return data, Classify("tail", err)
}

func (p *FS) Pipe(path string, data []byte) error {
	return Classify("pipe", p.fsys.Pipe(path, data))
}

func (p *FS) Touch(path string, truncate bool) error {
	return Classify("touch", p.fsys.Touch(path, truncate))
}

func (p *FS) Mkdir(path string, parents bool) error {
	return Classify("mkdir", p.fsys.Mkdir(path, parents))
}

func (p *FS) Copy(src, dst string, recursive bool) error {
	return Classify("copy", p.fsys.Copy(src, dst, recursive))
}

func (p *FS) Move(src, dst string, recursive bool) error {
	return Classify("move", p.fsys.Move(src, dst, recursive))
}

func (p *FS) Remove(path string, recursive bool) error {
	return Classify("remove", p.fsys.Remove(path, recursive))
}

// Glob classifies every error yielded by the backend's sequence.
func (p *FS) Glob(pattern string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for name, err := range p.fsys.Glob(pattern) {
			if !yield(name, Classify("glob", err)) {
				return
			}
		}
	}
}
