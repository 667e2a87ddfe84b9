// Package pathutil provides path normalization and manipulation utilities
// for MinIO/S3 object keys.
package pathutil

import (
	"path"
	"path/filepath"
	"strings"
)

// Normalize cleans a path and ensures forward slashes.
// It applies: ToSlash → Clean → Trim slashes
// Returns "." for empty paths.
func Normalize(p string) string {
	if p == "" {
		return "."
	}

	// First convert backslashes to forward slashes (for Windows-style paths)
	p = strings.ReplaceAll(p, "\\", "/")

	// Clean the path (resolves . and ..)
	p = filepath.ToSlash(filepath.Clean(p))

	// Trim leading and trailing slashes
	p = strings.Trim(p, "/")

	if p == "" {
		return "."
	}
	return p
}

// NormalizePrefix normalizes the prefix path:
// - Converts backslashes to forward slashes
// - Removes leading and trailing slashes
// - Returns empty string if prefix is "." or empty.
func NormalizePrefix(prefix string) string {
	prefix = Normalize(prefix)
	if prefix == "." {
		return ""
	}
	return prefix
}

// JoinPath joins a prefix with a name to create a full S3 key.
// It handles empty prefix correctly and uses forward slashes.
func JoinPath(prefix, name string) string {
	name = Normalize(name)

	// Handle special case where normalized name is "."
	if name == "." {
		return prefix
	}

	if prefix == "" {
		return name
	}

	return prefix + "/" + name
}

// DirPrefix returns key with a trailing slash, the listing prefix of the
// virtual directory key. The root key "" stays empty.
func DirPrefix(key string) string {
	if key != "" && !strings.HasSuffix(key, "/") {
		return key + "/"
	}
	return key
}

// Display cleans a caller-supplied path for use in entry names, keeping a
// leading slash when present.
func Display(p string) string {
	if p == "" {
		return "."
	}
	return path.Clean(strings.ReplaceAll(p, "\\", "/"))
}
