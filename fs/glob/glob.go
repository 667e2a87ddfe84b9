// Package glob expands shell-style patterns against any core.ReadFS.
//
// Patterns use "/" as the separator: "*" and "?" stay within one path
// segment, "**" spans segments, and "[...]" and "{a,b}" behave as in most
// shells. Expansion walks only the static prefix of the pattern and yields
// matches lazily, so a caller that stops early stops the walk.
package glob

import (
	"errors"
	"io/fs"
	"iter"
	"path"
	"strings"

	"github.com/gobwas/glob"

	"github.com/candidtim/unifs/fs/core"
)

const metaChars = "*?[{"

// HasMeta reports whether pattern contains any glob syntax.
func HasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, metaChars)
}

// Split splits pattern into its static base directory and the remaining
// pattern. The base of a relative pattern without a static prefix is ".",
// of an absolute one "/".
//
//	Split("data/*/x.txt") // "data", "*/x.txt"
//	Split("/**/*.go")     // "/", "**/*.go"
func Split(pattern string) (base, rest string) {
	absolute := strings.HasPrefix(pattern, "/")
	segments := strings.Split(strings.TrimPrefix(pattern, "/"), "/")

	static := 0
	for static < len(segments) && !HasMeta(segments[static]) {
		static++
	}
	if static == len(segments) {
		// No meta at all: the base is the parent of the last segment.
		static = len(segments) - 1
	}

	base = strings.Join(segments[:static], "/")
	rest = strings.Join(segments[static:], "/")
	switch {
	case absolute:
		base = "/" + base
	case base == "":
		base = "."
	}
	return base, rest
}

// Compile compiles pattern with "/" as the separator.
func Compile(pattern string) (glob.Glob, error) {
	return glob.Compile(pattern, '/')
}

// Match yields the paths of fsys matching pattern. Directories are visited
// in name order. A missing base directory yields nothing; any other error
// is yielded once and ends the sequence.
func Match(fsys core.ReadFS, pattern string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if pattern == "" {
			return
		}
		pattern = clean(pattern)

		if !HasMeta(pattern) {
			ok, err := fsys.Exists(pattern)
			if err != nil {
				yield("", err)
			} else if ok {
				yield(pattern, nil)
			}
			return
		}

		g, err := Compile(pattern)
		if err != nil {
			yield("", core.PathErrorf("glob", pattern, "invalid pattern: %v", err))
			return
		}

		base, _ := Split(pattern)
		maxDepth := depth(pattern)
		stopped := false

		err = core.Walk(fsys, base, func(name string, info core.Info, err error) error {
			if err != nil {
				if name == base && errors.Is(err, fs.ErrNotExist) {
					return fs.SkipAll
				}
				return err
			}

			if name != base && g.Match(name) {
				if !yield(name, nil) {
					stopped = true
					return fs.SkipAll
				}
			}

			if info[core.KeyType] == core.TypeDirectory && maxDepth >= 0 && depth(name) >= maxDepth {
				return fs.SkipDir
			}
			return nil
		})
		if err != nil && !stopped {
			yield("", err)
		}
	}
}

// clean normalizes the separators of pattern without touching its meta
// characters.
func clean(pattern string) string {
	cleaned := path.Clean(pattern)
	if cleaned == "." {
		return pattern
	}
	return cleaned
}

// depth returns the number of segments of p, or -1 when p contains "**"
// and can match at any depth.
func depth(p string) int {
	if strings.Contains(p, "**") {
		return -1
	}
	p = strings.Trim(p, "/")
	if p == "" || p == "." {
		return 0
	}
	return strings.Count(p, "/") + 1
}
