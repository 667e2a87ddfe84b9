package git

import (
	"errors"
	"io"
	"iter"
	"path"
	"sort"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/candidtim/unifs/fs/core"
	"github.com/candidtim/unifs/fs/glob"
)

const (
	// ProtocolGit is the protocol of the git backend.
	ProtocolGit = "git"

	// ModTimeKey is the key holding the commit time, in float epoch seconds.
	ModTimeKey = "last_modified"

	// DefaultRef is the revision used when none is configured.
	DefaultRef = "HEAD"

	typeSubmodule = "submodule"
)

// FS is a read-only view of the tree of one commit.
type FS struct {
	core.ReadOnly

	repo    *gogit.Repository
	commit  *object.Commit
	tree    *object.Tree
	modTime float64
}

// Open opens the repository at path and resolves ref to the commit whose
// tree is exposed. An empty ref means HEAD.
func Open(path, ref string, opts ...Option) (*FS, error) {
	if ref == "" {
		ref = DefaultRef
	}

	repo, err := openRepository(path, opts...)
	if err != nil {
		return nil, err
	}
	commit, err := resolveCommit(repo, ref)
	if err != nil {
		return nil, err
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, wrapError(err, "failed to read commit tree")
	}

	return &FS{
		repo:    repo,
		commit:  commit,
		tree:    tree,
		modTime: float64(commit.Committer.When.UnixNano()) / float64(time.Second),
	}, nil
}

// Protocol returns the protocol name of the backend.
func (f *FS) Protocol() string {
	return ProtocolGit
}

// Commit returns the hash of the exposed commit.
func (f *FS) Commit() string {
	return f.commit.Hash.String()
}

// normalize turns p into a tree path: slash separated, no leading slash,
// "" for the root.
func normalize(p string) string {
	p = strings.Trim(path.Clean("/"+p), "/")
	return p
}

// display cleans the caller's spelling of p for use in entry names.
func display(p string) string {
	if p == "" {
		return "."
	}
	return path.Clean(p)
}

// entry describes one path of the tree.
type entry struct {
	name string
	mode filemode.FileMode
	tree *object.Tree // set for directories
	file *object.File // set for regular files and links
}

// lookup resolves p in the commit tree.
func (f *FS) lookup(op, p string) (*entry, error) {
	key := normalize(p)
	if key == "" {
		return &entry{name: display(p), mode: filemode.Dir, tree: f.tree}, nil
	}

	te, err := f.tree.FindEntry(key)
	if err != nil {
		return nil, translate(op, p, err)
	}
	return f.resolveEntry(op, p, display(p), f.tree, key, te)
}

// resolveEntry loads the object behind a tree entry.
func (f *FS) resolveEntry(op, p, name string, parent *object.Tree, key string, te *object.TreeEntry) (*entry, error) {
	e := &entry{name: name, mode: te.Mode}
	switch te.Mode {
	case filemode.Dir:
		sub, err := parent.Tree(key)
		if err != nil {
			return nil, translate(op, p, err)
		}
		e.tree = sub
	case filemode.Submodule:
		// Submodule commits are not part of this repository
	default:
		file, err := parent.TreeEntryFile(te)
		if err != nil {
			return nil, translate(op, p, err)
		}
		e.file = file
	}
	return e, nil
}

// record renders e as an info record.
func (f *FS) record(e *entry, detail bool) core.Info {
	info := core.Info{core.KeyName: e.name}
	switch {
	case e.tree != nil:
		info[core.KeyType] = core.TypeDirectory
	case e.file != nil:
		info[core.KeyType] = core.TypeFile
	default:
		info[core.KeyType] = typeSubmodule
	}
	if !detail {
		return info
	}

	if e.file != nil {
		info[core.KeySize] = e.file.Size
		info["hex"] = e.file.Hash.String()
	} else if e.tree != nil {
		info["hex"] = e.tree.Hash.String()
	}
	info["mode"] = e.mode.String()
	info[ModTimeKey] = f.modTime
	return info
}

// blob returns the file at p or an error if p is not a regular file.
func (f *FS) blob(op, p string) (*object.File, error) {
	e, err := f.lookup(op, p)
	if err != nil {
		return nil, err
	}
	switch {
	case e.tree != nil:
		return nil, core.PathError(op, p, core.ErrIsDir)
	case e.file == nil:
		return nil, core.PathErrorf(op, p, "%w: submodule content", core.ErrUnsupported)
	}
	return e.file, nil
}

// ReadFS interface implementation

// Ls lists the entries of the directory p, sorted by name, or the record
// of p itself when it is a file.
func (f *FS) Ls(p string, detail bool) ([]core.Info, error) {
	e, err := f.lookup("ls", p)
	if err != nil {
		return nil, err
	}
	if e.tree == nil {
		return []core.Info{f.record(e, detail)}, nil
	}

	infos := make([]core.Info, 0, len(e.tree.Entries))
	for i := range e.tree.Entries {
		te := &e.tree.Entries[i]
		child, err := f.resolveEntry("ls", p, core.Join(e.name, te.Name), e.tree, te.Name, te)
		if err != nil {
			return nil, err
		}
		infos = append(infos, f.record(child, detail))
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i][core.KeyName].(string) < infos[j][core.KeyName].(string)
	})
	return infos, nil
}

// Info returns the detailed record of p.
func (f *FS) Info(p string) (core.Info, error) {
	e, err := f.lookup("info", p)
	if err != nil {
		return nil, err
	}
	return f.record(e, true), nil
}

// Exists reports whether p is part of the tree.
func (f *FS) Exists(p string) (bool, error) {
	_, err := f.lookup("exists", p)
	if errors.Is(err, core.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// IsFile reports whether p is a file.
func (f *FS) IsFile(p string) (bool, error) {
	e, err := f.lookup("isfile", p)
	if errors.Is(err, core.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return e.file != nil, nil
}

// IsDir reports whether p is a directory.
func (f *FS) IsDir(p string) (bool, error) {
	e, err := f.lookup("isdir", p)
	if errors.Is(err, core.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return e.tree != nil, nil
}

// Size returns the size of the file p in bytes.
func (f *FS) Size(p string) (int64, error) {
	file, err := f.blob("size", p)
	if err != nil {
		return 0, err
	}
	return file.Size, nil
}

// Cat returns the content of the file p.
func (f *FS) Cat(p string) ([]byte, error) {
	return f.read("cat", p, -1)
}

// Head returns at most the first n bytes of the file p.
func (f *FS) Head(p string, n int64) ([]byte, error) {
	return f.read("head", p, max(n, 0))
}

// Tail returns at most the last n bytes of the file p.
func (f *FS) Tail(p string, n int64) ([]byte, error) {
	data, err := f.read("tail", p, -1)
	if err != nil {
		return nil, err
	}
	// Blob readers are not seekable
	if n < int64(len(data)) {
		data = data[int64(len(data))-max(n, 0):]
	}
	return data, nil
}

// read returns the first limit bytes of the file p, or all of it when
// limit is negative.
func (f *FS) read(op, p string, limit int64) ([]byte, error) {
	file, err := f.blob(op, p)
	if err != nil {
		return nil, err
	}

	r, err := file.Reader()
	if err != nil {
		return nil, core.PathError(op, p, err)
	}
	defer func() { _ = r.Close() }()

	var src io.Reader = r
	if limit >= 0 {
		src = io.LimitReader(r, limit)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, core.PathError(op, p, err)
	}
	return data, nil
}

// GlobFS interface implementation

// Glob expands pattern against the commit tree.
func (f *FS) Glob(pattern string) iter.Seq2[string, error] {
	return glob.Match(f, pattern)
}

// Compile-time interface checks.
var _ core.FileSystem = (*FS)(nil)
