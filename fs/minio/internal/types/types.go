// Package types builds the info records reported by the minio filesystem.
package types // nolint:revive // Internal package with clear purpose

import (
	"time"

	"github.com/candidtim/unifs/fs/core"
)

// ModTimeKey is the key the object modification time is reported under.
const ModTimeKey = "LastModified"

// Object returns the record of an object. Detailed records carry the size,
// modification time and ETag when known.
func Object(name string, size int64, modTime time.Time, etag string, detail bool) core.Info {
	info := core.Info{
		core.KeyName: name,
		core.KeyType: core.TypeFile,
	}
	if !detail {
		return info
	}
	info[core.KeySize] = size
	if !modTime.IsZero() {
		info[ModTimeKey] = modTime
	}
	if etag != "" {
		info["ETag"] = etag
	}
	return info
}

// Prefix returns the record of a virtual directory.
func Prefix(name string) core.Info {
	return core.Info{
		core.KeyName: name,
		core.KeyType: core.TypeDirectory,
	}
}
