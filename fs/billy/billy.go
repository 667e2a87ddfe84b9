package billy

import (
	"errors"
	"io"
	"io/fs"
	"iter"
	"os"
	"path"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/candidtim/unifs/fs/core"
	"github.com/candidtim/unifs/fs/glob"
)

const (
	// ProtocolFile is the protocol of the local disk backend.
	ProtocolFile = "file"
	// ProtocolMemory is the protocol of the in-memory backend.
	ProtocolMemory = "memory"
)

// FS adapts a billy.Filesystem to core.FileSystem.
//
// Paths are slash-separated. Relative paths resolve against the working
// directory captured at construction (local disk rooted at "/") or against
// the root otherwise. Entry names are reported as the caller spelled the
// listed directory, joined with the entry name.
type FS struct {
	bfs       billy.Filesystem
	protocol  string
	cwd       string
	autoMkdir bool
}

// Option configures filesystem creation.
type Option func(*FS)

// WithAutoMkdir creates missing parent directories on writes instead of
// failing.
func WithAutoMkdir(enabled bool) Option {
	return func(f *FS) {
		f.autoMkdir = enabled
	}
}

// NewLocal creates a go-billy-backed local filesystem rooted at root.
func NewLocal(root string, opts ...Option) (*FS, error) {
	if root == "" {
		root = "/"
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	cwd := "/"
	if root == "/" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		cwd = filepath.ToSlash(wd)
	}

	f := &FS{bfs: osfs.New(root, osfs.WithBoundOS()), protocol: ProtocolFile, cwd: cwd}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// NewMemory creates a go-billy-backed in-memory filesystem.
// The filesystem is initially empty.
func NewMemory(opts ...Option) *FS {
	f := &FS{bfs: memfs.New(), protocol: ProtocolMemory, cwd: "/", autoMkdir: true}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Protocol returns the registered protocol of the filesystem.
func (f *FS) Protocol() string {
	return f.protocol
}

// normalize converts paths to use forward slashes consistently.
// This is a simplified path normalization since billy handles security.
func normalize(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}

// resolve returns the absolute billy path of p.
func (f *FS) resolve(p string) string {
	p = normalize(p)
	if path.IsAbs(p) {
		return p
	}
	return path.Join(f.cwd, p)
}

func (f *FS) stat(op, p string) (fs.FileInfo, error) {
	fi, err := f.bfs.Stat(f.resolve(p))
	if err != nil {
		return nil, translate(op, p, err)
	}
	return fi, nil
}

// record builds the Info record of an entry named name.
func record(name string, fi fs.FileInfo, detail bool) core.Info {
	info := core.Info{core.KeyName: name, core.KeyType: core.TypeFile}
	if fi.IsDir() {
		info[core.KeyType] = core.TypeDirectory
	}
	if !detail {
		return info
	}
	if !fi.IsDir() {
		info[core.KeySize] = fi.Size()
	}
	info["mtime"] = fi.ModTime()
	info["mode"] = fi.Mode().String()
	return info
}

// ReadFS interface implementation

// Ls lists a directory sorted by name, or describes a single file.
func (f *FS) Ls(p string, detail bool) ([]core.Info, error) {
	fi, err := f.stat("ls", p)
	if err != nil {
		return nil, err
	}

	name := normalize(p)
	if !fi.IsDir() {
		return []core.Info{record(name, fi, detail)}, nil
	}

	entries, err := f.bfs.ReadDir(f.resolve(p))
	if err != nil {
		return nil, translate("ls", p, err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	infos := make([]core.Info, len(entries))
	for i, entry := range entries {
		infos[i] = record(core.Join(name, entry.Name()), entry, detail)
	}
	return infos, nil
}

// Info describes a single path.
func (f *FS) Info(p string) (core.Info, error) {
	fi, err := f.stat("info", p)
	if err != nil {
		return nil, err
	}
	return record(normalize(p), fi, true), nil
}

// Exists reports whether the named file or directory exists.
func (f *FS) Exists(p string) (bool, error) {
	_, err := f.bfs.Stat(f.resolve(p))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, translate("exists", p, err)
}

func (f *FS) IsFile(p string) (bool, error) {
	fi, err := f.bfs.Stat(f.resolve(p))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, translate("isfile", p, err)
	}
	return fi.Mode().IsRegular(), nil
}

func (f *FS) IsDir(p string) (bool, error) {
	fi, err := f.bfs.Stat(f.resolve(p))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, translate("isdir", p, err)
	}
	return fi.IsDir(), nil
}

func (f *FS) Size(p string) (int64, error) {
	fi, err := f.stat("size", p)
	if err != nil {
		return 0, err
	}
	if fi.IsDir() {
		return 0, core.PathError("size", p, core.ErrIsDir)
	}
	return fi.Size(), nil
}

func (f *FS) Cat(p string) ([]byte, error) {
	file, err := f.open("cat", p)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()
	return io.ReadAll(file)
}

func (f *FS) Head(p string, n int64) ([]byte, error) {
	file, err := f.open("head", p)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()
	return file.Head(n)
}

func (f *FS) Tail(p string, n int64) ([]byte, error) {
	file, err := f.open("tail", p)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()
	return file.Tail(n)
}

// WriteFS interface implementation

// Pipe writes data to the named file, creating or truncating it.
func (f *FS) Pipe(p string, data []byte) error {
	if err := f.ensureParent("pipe", p); err != nil {
		return err
	}
	file, err := f.bfs.OpenFile(f.resolve(p), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return translate("pipe", p, err)
	}
	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		return translate("pipe", p, err)
	}
	return translate("pipe", p, file.Close())
}

// Touch creates an empty file, or updates the modification time of an
// existing one, discarding its content only when truncate is set.
func (f *FS) Touch(p string, truncate bool) error {
	fi, err := f.bfs.Stat(f.resolve(p))
	switch {
	case os.IsNotExist(err):
		return f.Pipe(p, nil)
	case err != nil:
		return translate("touch", p, err)
	case fi.IsDir():
		return core.PathError("touch", p, core.ErrIsDir)
	case truncate:
		return f.Pipe(p, nil)
	}

	if change, ok := f.bfs.(billy.Change); ok {
		now := time.Now()
		return translate("touch", p, change.Chtimes(f.resolve(p), now, now))
	}

	// Without Chtimes, rewriting the content is the only way to bump the
	// modification time.
	data, err := f.Cat(p)
	if err != nil {
		return err
	}
	return f.Pipe(p, data)
}

// Mkdir creates a directory. Without parents, the directory must not exist
// and its parent must.
func (f *FS) Mkdir(p string, parents bool) error {
	abs := f.resolve(p)
	if parents {
		return translate("mkdir", p, f.bfs.MkdirAll(abs, 0o755))
	}

	if _, err := f.bfs.Stat(abs); err == nil {
		return core.PathError("mkdir", p, core.ErrExist)
	}
	parent := path.Dir(abs)
	if parent != "/" {
		fi, err := f.bfs.Stat(parent)
		if err != nil {
			return translate("mkdir", path.Dir(normalize(p)), err)
		}
		if !fi.IsDir() {
			return core.PathError("mkdir", path.Dir(normalize(p)), core.ErrNotDir)
		}
	}
	// MkdirAll won't create parents since we verified the parent exists
	return translate("mkdir", p, f.bfs.MkdirAll(abs, 0o755))
}

// ensureParent fails with ErrNotExist when the parent of p is missing,
// unless the filesystem creates parents automatically.
func (f *FS) ensureParent(op, p string) error {
	parent := path.Dir(f.resolve(p))
	if f.autoMkdir {
		return translate(op, p, f.bfs.MkdirAll(parent, 0o755))
	}

	fi, err := f.bfs.Stat(parent)
	if err != nil {
		return translate(op, path.Dir(normalize(p)), err)
	}
	if !fi.IsDir() {
		return core.PathError(op, path.Dir(normalize(p)), core.ErrNotDir)
	}
	return nil
}

// ManageFS interface implementation

// Copy copies a file, or a directory tree when recursive is set. Copying
// into an existing directory places src inside it.
func (f *FS) Copy(src, dst string, recursive bool) error {
	fi, err := f.stat("copy", src)
	if err != nil {
		return err
	}
	if fi.IsDir() && !recursive {
		return core.PathError("copy", src, core.ErrIsDir)
	}

	target, err := core.CopyTarget(f, src, dst)
	if err != nil {
		return err
	}
	if fi.IsDir() {
		return core.CopyTree(f, src, target)
	}

	data, err := f.Cat(src)
	if err != nil {
		return err
	}
	return f.Pipe(target, data)
}

// Move renames src. Moving into an existing directory places src inside it.
func (f *FS) Move(src, dst string, recursive bool) error {
	fi, err := f.stat("move", src)
	if err != nil {
		return err
	}
	if fi.IsDir() && !recursive {
		return core.PathError("move", src, core.ErrIsDir)
	}

	target, err := core.CopyTarget(f, src, dst)
	if err != nil {
		return err
	}
	if err := f.ensureParent("move", target); err != nil {
		return err
	}
	return translate("move", src, f.bfs.Rename(f.resolve(src), f.resolve(target)))
}

// Remove removes a file or an empty directory, or a whole tree when
// recursive is set.
func (f *FS) Remove(p string, recursive bool) error {
	fi, err := f.stat("remove", p)
	if err != nil {
		return err
	}
	if fi.IsDir() && recursive {
		return translate("remove", p, f.removeAll(f.resolve(p)))
	}
	return translate("remove", p, f.bfs.Remove(f.resolve(p)))
}

// removeAll removes path and any children it contains.
func (f *FS) removeAll(p string) error {
	// Billy doesn't have RemoveAll, implement via recursive removal
	info, err := f.bfs.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if !info.IsDir() {
		return f.bfs.Remove(p)
	}

	entries, err := f.bfs.ReadDir(p)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := f.removeAll(path.Join(p, entry.Name())); err != nil {
			return err
		}
	}

	// Remove the directory itself
	return f.bfs.Remove(p)
}

// GlobFS interface implementation

// Glob expands pattern by walking the filesystem.
func (f *FS) Glob(pattern string) iter.Seq2[string, error] {
	return glob.Match(f, pattern)
}

// translate maps billy and os errors onto the core sentinels, reported
// against the caller's spelling of the path. Other errors pass unchanged.
func translate(op, p string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return core.PathError(op, p, core.ErrNotExist)
	case errors.Is(err, fs.ErrExist):
		return core.PathError(op, p, core.ErrExist)
	case errors.Is(err, syscall.ENOTDIR):
		return core.PathError(op, p, core.ErrNotDir)
	default:
		return err
	}
}

// Compile-time interface checks.
var _ core.FileSystem = (*FS)(nil)
