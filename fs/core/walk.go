package core

import (
	"errors"
	"io/fs"
	"path"
)

// WalkFunc is called by Walk for each visited entry. The info record is nil
// when err is non-nil. Returning fs.SkipDir from a directory skips its
// content; fs.SkipAll stops the walk without error.
type WalkFunc func(name string, info Info, err error) error

// Walk walks the tree rooted at root using only ReadFS.Ls and ReadFS.Info,
// calling fn for root and every entry below it in lexical order.
//
// Backends without a native recursive listing use Walk for glob expansion
// and recursive copies.
func Walk(fsys ReadFS, root string, fn WalkFunc) error {
	info, err := fsys.Info(root)
	if err != nil {
		err = fn(root, nil, err)
	} else {
		err = walk(fsys, root, info, fn)
	}
	if errors.Is(err, fs.SkipDir) || errors.Is(err, fs.SkipAll) {
		return nil
	}
	return err
}

func walk(fsys ReadFS, name string, info Info, fn WalkFunc) error {
	isDir := info[KeyType] == TypeDirectory
	if err := fn(name, info, nil); err != nil || !isDir {
		if errors.Is(err, fs.SkipDir) && isDir {
			err = nil
		}
		return err
	}

	entries, err := fsys.Ls(name, true)
	if err != nil {
		return fn(name, info, err)
	}

	for _, entry := range entries {
		child, _ := entry[KeyName].(string)
		if child == "" || child == name {
			continue
		}
		if err := walk(fsys, child, entry, fn); err != nil {
			if errors.Is(err, fs.SkipDir) {
				continue
			}
			return err
		}
	}
	return nil
}

// Join joins a directory and an entry name the way backends report entry
// names: the root spellings "" and "." do not prefix the name.
func Join(dir, name string) string {
	if dir == "" || dir == "." {
		return name
	}
	return path.Join(dir, name)
}
