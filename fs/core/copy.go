package core

import (
	"path"
	"strings"

	"github.com/candidtim/unifs/errors"
)

// TreeFS is the subset of FileSystem needed to copy trees.
type TreeFS interface {
	ReadFS
	WriteFS
}

// CopyTree copies the tree rooted at src to dst using only ReadFS and
// WriteFS operations, preserving the directory structure.
//
// This function:
//   - Creates dst and every directory below it with Mkdir(parents)
//   - Copies file content with Cat/Pipe
//   - Copies a single file when src is a file
//
// Example:
//
//	if err := core.CopyTree(fsys, "/data/in", "/data/out"); err != nil {
//	    return err
//	}
func CopyTree(fsys TreeFS, src, dst string) error {
	base := ""
	return Walk(fsys, src, func(name string, info Info, err error) error {
		if err != nil {
			return err
		}

		target := dst
		if base == "" {
			// The root record carries the backend's spelling of src, which
			// is the prefix of every name listed below it.
			base, _ = info[KeyName].(string)
			if base == "" {
				base = name
			}
		} else {
			rel := strings.TrimPrefix(strings.TrimPrefix(name, base), "/")
			target = strings.TrimSuffix(dst, "/") + "/" + rel
		}

		if info[KeyType] == TypeDirectory {
			return fsys.Mkdir(target, true)
		}

		data, err := fsys.Cat(name)
		if err != nil {
			return err
		}
		return fsys.Pipe(target, data)
	})
}

// CopyTarget returns where src lands when copied or moved to dst: inside
// dst when dst is an existing directory, dst itself otherwise.
//
// A target equal to src or inside the src tree is rejected with
// CodeInvalidInput.
func CopyTarget(fsys ReadFS, src, dst string) (string, error) {
	isDir, err := fsys.IsDir(dst)
	if err != nil {
		return "", err
	}
	target := dst
	if isDir {
		target = Join(dst, path.Base(path.Clean(src)))
	}
	if within(target, src) {
		return "", errors.Newf(errors.CodeInvalidInput, "cannot copy %s into itself", src)
	}
	return target, nil
}

// within reports whether name is root or lies below it.
func within(name, root string) bool {
	name, root = path.Clean("/"+name), path.Clean("/"+root)
	if name == root || root == "/" {
		return true
	}
	return strings.HasPrefix(name, root+"/")
}
