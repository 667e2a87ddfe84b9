// Package zip provides a read-only core.FileSystem over a zip archive,
// backed by klauspost/compress/zip.
//
// The central directory is indexed once when the archive is opened.
// Directories are those recorded in the archive plus every parent of a
// recorded file. Entries whose names are absolute or climb out of the
// archive root with ".." are not exposed.
package zip

import (
	"errors"
	"io"
	"iter"
	"path"
	"sort"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/candidtim/unifs/fs/core"
	"github.com/candidtim/unifs/fs/glob"
)

const (
	// ProtocolZip is the protocol of the zip backend.
	ProtocolZip = "zip"

	// ModTimeKey is the key holding the entry modification time, as an
	// ISO-8601 string in the archive's wall clock.
	ModTimeKey = "updated"

	isoLayout = "2006-01-02T15:04:05"
)

// FS is a read-only view of a zip archive.
type FS struct {
	core.ReadOnly

	closer io.Closer
	files  map[string]*zip.File
	dirs   map[string]map[string]struct{} // directory -> child keys
}

// Open opens the archive at name.
func Open(name string) (*FS, error) {
	rc, err := zip.OpenReader(name)
	if err != nil {
		return nil, err
	}
	f := newFS(&rc.Reader)
	f.closer = rc
	return f, nil
}

// NewReader reads an archive of the given size from r.
func NewReader(r io.ReaderAt, size int64) (*FS, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, err
	}
	return newFS(zr), nil
}

func newFS(zr *zip.Reader) *FS {
	f := &FS{
		files: make(map[string]*zip.File, len(zr.File)),
		dirs:  map[string]map[string]struct{}{"": {}},
	}
	for _, file := range zr.File {
		key, ok := entryKey(file.Name)
		if !ok {
			continue
		}
		if strings.HasSuffix(file.Name, "/") || file.FileInfo().IsDir() {
			f.addDir(key)
			continue
		}
		f.files[key] = file
		f.addDir(parentKey(key))
		f.dirs[parentKey(key)][key] = struct{}{}
	}
	return f
}

// entryKey returns the key of an archive entry name, or false when the
// name is empty, absolute or escapes the archive root.
func entryKey(name string) (string, bool) {
	name = strings.ReplaceAll(name, "\\", "/")
	if name == "" || strings.HasPrefix(name, "/") {
		return "", false
	}
	for _, segment := range strings.Split(name, "/") {
		if segment == ".." {
			return "", false
		}
	}
	key := strings.Trim(path.Clean(name), "/")
	if key == "." {
		return "", false
	}
	return key, true
}

func parentKey(key string) string {
	if i := strings.LastIndex(key, "/"); i >= 0 {
		return key[:i]
	}
	return ""
}

// addDir records key and all its parents as directories.
func (f *FS) addDir(key string) {
	if _, ok := f.dirs[key]; ok {
		return
	}
	f.dirs[key] = map[string]struct{}{}
	parent := parentKey(key)
	f.addDir(parent)
	f.dirs[parent][key] = struct{}{}
}

// Close releases the archive file.
func (f *FS) Close() error {
	if f.closer == nil {
		return nil
	}
	return f.closer.Close()
}

// Protocol returns the protocol name of the backend.
func (f *FS) Protocol() string {
	return ProtocolZip
}

// normalize turns p into an archive key, "" for the root.
func normalize(p string) string {
	return strings.Trim(path.Clean("/"+p), "/")
}

// display cleans the caller's spelling of p for use in entry names.
func display(p string) string {
	if p == "" {
		return "."
	}
	return path.Clean(p)
}

// record returns the record of key under name, or false if key is absent.
func (f *FS) record(name, key string, detail bool) (core.Info, bool) {
	if file, ok := f.files[key]; ok {
		info := core.Info{core.KeyName: name, core.KeyType: core.TypeFile}
		if detail {
			info[core.KeySize] = int64(file.UncompressedSize64)
			info["compressed_size"] = int64(file.CompressedSize64)
			info["crc"] = file.CRC32
			if !file.Modified.IsZero() {
				info[ModTimeKey] = file.Modified.Format(isoLayout)
			}
		}
		return info, true
	}
	if _, ok := f.dirs[key]; ok {
		return core.Info{core.KeyName: name, core.KeyType: core.TypeDirectory}, true
	}
	return nil, false
}

func (f *FS) info(op, p string, detail bool) (core.Info, error) {
	info, ok := f.record(display(p), normalize(p), detail)
	if !ok {
		return nil, core.PathError(op, p, core.ErrNotExist)
	}
	return info, nil
}

// ReadFS interface implementation

// Ls lists the entries of the directory p, sorted by name, or the record
// of p itself when it is a file.
func (f *FS) Ls(p string, detail bool) ([]core.Info, error) {
	self, err := f.info("ls", p, detail)
	if err != nil {
		return nil, err
	}
	if self[core.KeyType] == core.TypeFile {
		return []core.Info{self}, nil
	}

	base := display(p)
	children := f.dirs[normalize(p)]
	infos := make([]core.Info, 0, len(children))
	for key := range children {
		info, _ := f.record(core.Join(base, path.Base(key)), key, detail)
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i][core.KeyName].(string) < infos[j][core.KeyName].(string)
	})
	return infos, nil
}

// Info returns the detailed record of p.
func (f *FS) Info(p string) (core.Info, error) {
	return f.info("info", p, true)
}

// Exists reports whether p is in the archive.
func (f *FS) Exists(p string) (bool, error) {
	_, ok := f.record(p, normalize(p), false)
	return ok, nil
}

// IsFile reports whether p is a file of the archive.
func (f *FS) IsFile(p string) (bool, error) {
	_, ok := f.files[normalize(p)]
	return ok, nil
}

// IsDir reports whether p is a directory of the archive.
func (f *FS) IsDir(p string) (bool, error) {
	_, ok := f.dirs[normalize(p)]
	return ok, nil
}

// file returns the archive file at p.
func (f *FS) file(op, p string) (*zip.File, error) {
	key := normalize(p)
	if file, ok := f.files[key]; ok {
		return file, nil
	}
	if _, ok := f.dirs[key]; ok {
		return nil, core.PathError(op, p, core.ErrIsDir)
	}
	return nil, core.PathError(op, p, core.ErrNotExist)
}

// Size returns the uncompressed size of the file p.
func (f *FS) Size(p string) (int64, error) {
	file, err := f.file("size", p)
	if err != nil {
		return 0, err
	}
	return int64(file.UncompressedSize64), nil
}

// Cat returns the uncompressed content of the file p.
func (f *FS) Cat(p string) ([]byte, error) {
	return f.read("cat", p, 0, -1)
}

// Head returns at most the first n bytes of the file p.
func (f *FS) Head(p string, n int64) ([]byte, error) {
	return f.read("head", p, 0, max(n, 0))
}

// Tail returns at most the last n bytes of the file p.
func (f *FS) Tail(p string, n int64) ([]byte, error) {
	file, err := f.file("tail", p)
	if err != nil {
		return nil, err
	}
	size := int64(file.UncompressedSize64)
	return f.read("tail", p, max(size-max(n, 0), 0), -1)
}

// read decompresses the file p, skipping offset bytes and returning at
// most limit bytes, or everything left when limit is negative.
func (f *FS) read(op, p string, offset, limit int64) ([]byte, error) {
	file, err := f.file(op, p)
	if err != nil {
		return nil, err
	}

	rc, err := file.Open()
	if err != nil {
		return nil, core.PathError(op, p, err)
	}
	defer func() { _ = rc.Close() }()

	// Deflate streams are not seekable
	if offset > 0 {
		if _, err := io.CopyN(io.Discard, rc, offset); err != nil && !errors.Is(err, io.EOF) {
			return nil, core.PathError(op, p, err)
		}
	}

	var src io.Reader = rc
	if limit >= 0 {
		src = io.LimitReader(rc, limit)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, core.PathError(op, p, err)
	}
	return data, nil
}

// GlobFS interface implementation

// Glob expands pattern against the archive index.
func (f *FS) Glob(pattern string) iter.Seq2[string, error] {
	return glob.Match(f, pattern)
}

// Compile-time interface checks.
var _ core.FileSystem = (*FS)(nil)
