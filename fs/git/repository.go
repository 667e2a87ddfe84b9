package git

import (
	"fmt"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// Option configures how the repository is opened.
type Option func(*options)

type options struct {
	fs billy.Filesystem
}

// WithFilesystem opens the repository from fs instead of the local disk.
// The path given to Open is then resolved inside fs.
func WithFilesystem(fs billy.Filesystem) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// openRepository opens an existing repository at path, detecting whether
// it is a standard repository (with a .git directory) or a bare one.
func openRepository(path string, opts ...Option) (*gogit.Repository, error) {
	options := &options{}
	for _, opt := range opts {
		opt(options)
	}

	var scopedFs billy.Filesystem
	if options.fs == nil {
		scopedFs = osfs.New(path)
	} else {
		var err error
		scopedFs, err = options.fs.Chroot(path)
		if err != nil {
			return nil, wrapError(err, "failed to scope filesystem to path")
		}
	}

	// Check if this is a standard repository (has .git directory) or bare
	dotGitStat, dotGitErr := scopedFs.Stat(".git")
	if dotGitErr == nil && dotGitStat.IsDir() {
		dotGitFs, err := scopedFs.Chroot(".git")
		if err != nil {
			return nil, wrapError(err, "failed to scope filesystem to .git")
		}

		storage := filesystem.NewStorage(dotGitFs, cache.NewObjectLRUDefault())
		repo, err := gogit.Open(storage, scopedFs)
		if err != nil {
			return nil, wrapError(err, fmt.Sprintf("failed to open repository %s", path))
		}
		return repo, nil
	}

	// Bare repository (no .git directory, objects etc. are in root)
	storage := filesystem.NewStorage(scopedFs, cache.NewObjectLRUDefault())
	repo, err := gogit.Open(storage, nil)
	if err != nil {
		return nil, wrapError(err, fmt.Sprintf("failed to open repository %s", path))
	}
	return repo, nil
}

// resolveCommit returns the commit a revision (branch, tag, hash or
// expression such as HEAD~1) points to.
func resolveCommit(repo *gogit.Repository, ref string) (*object.Commit, error) {
	hash, err := repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return nil, wrapError(err, fmt.Sprintf("failed to resolve %q", ref))
	}

	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, wrapError(err, fmt.Sprintf("failed to read commit %s", hash))
	}
	return commit, nil
}
