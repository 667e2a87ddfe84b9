// Package fileinfo reads the loosely typed records produced by backends.
//
// Backends disagree on where and how they report metadata: the modification
// time alone shows up under four different keys as a time.Time, a float
// epoch or an ISO-8601 string. Every accessor here is total: it never
// panics and reports absence instead of failing.
package fileinfo

import (
	"math"
	"strings"
	"time"

	"github.com/candidtim/unifs/fs/core"
)

// ModTimeKeys lists the keys searched for a modification time, in order.
var ModTimeKeys = []string{"mtime", "LastModified", "last_modified", "updated"}

// UnknownName is reported for records without a usable name.
const UnknownName = "???"

// Kind is the coarse type of an entry.
type Kind int

const (
	KindUnknown Kind = iota
	KindFile
	KindDirectory
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	default:
		return "unknown"
	}
}

// isoLayouts are tried in order once the separator has been normalized to
// "T". Fractional seconds are accepted by time.Parse after any seconds field.
var isoLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ModTime returns the modification time of an entry.
//
// The first present key of ModTimeKeys decides. time.Time values pass
// through, floats are epoch seconds and strings are ISO-8601 timestamps. The
// second result is false when the key is missing or its value cannot be
// interpreted.
func ModTime(info core.Info) (time.Time, bool) {
	for _, key := range ModTimeKeys {
		value, ok := info[key]
		if !ok {
			continue
		}
		return toTime(value)
	}
	return time.Time{}, false
}

func toTime(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, true
	case float64:
		return fromEpoch(v)
	case float32:
		return fromEpoch(float64(v))
	case string:
		return ParseISO(v)
	default:
		return time.Time{}, false
	}
}

// fromEpoch converts seconds since the epoch. NaN, infinities and values
// beyond the int64 range have no time.
func fromEpoch(seconds float64) (time.Time, bool) {
	if math.IsNaN(seconds) || seconds >= math.MaxInt64 || seconds < math.MinInt64 {
		return time.Time{}, false
	}
	sec := int64(seconds)
	nsec := int64((seconds - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec), true
}

// ParseISO parses an ISO-8601 timestamp in local time. The date and time may
// be separated by a space or "T" and a trailing "Z" is ignored, so
// "2023-01-14 19:25:00Z" reads as 19:25 local time.
func ParseISO(s string) (time.Time, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "Z")
	if len(s) > 10 && s[10] == ' ' {
		s = s[:10] + "T" + s[11:]
	}
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Name returns the entry name, or UnknownName.
func Name(info core.Info) string {
	if name, ok := info[core.KeyName].(string); ok && name != "" {
		return name
	}
	return UnknownName
}

// Size returns the entry size in bytes when the record carries a numeric
// size.
func Size(info core.Info) (int64, bool) {
	switch v := info[core.KeySize].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case uint64:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint:
		return int64(v), true
	case float64:
		return int64(v), true
	case float32:
		return int64(v), true
	default:
		return 0, false
	}
}

// Type classifies the entry by the first three characters of its type.
func Type(info core.Info) Kind {
	typ, _ := info[core.KeyType].(string)
	if len(typ) < 3 {
		return KindUnknown
	}
	switch strings.ToLower(typ[:3]) {
	case "fil":
		return KindFile
	case "dir":
		return KindDirectory
	default:
		return KindUnknown
	}
}

// IsDir reports whether the entry is a directory.
func IsDir(info core.Info) bool {
	return Type(info) == KindDirectory
}
