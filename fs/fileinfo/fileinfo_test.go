package fileinfo

import (
	"math"
	"testing"
	"time"

	"github.com/candidtim/unifs/fs/core"
	"github.com/stretchr/testify/assert"
)

func TestModTime(t *testing.T) {
	now := time.Now()
	epoch := float64(now.UnixMicro()) / 1e6

	tests := []struct {
		name string
		info core.Info
		want time.Time
		ok   bool
	}{
		{name: "empty record", info: core.Info{}},
		{name: "time value", info: core.Info{"mtime": now}, want: now, ok: true},
		{name: "time pointer", info: core.Info{"mtime": &now}, want: now, ok: true},
		{name: "nil time pointer", info: core.Info{"mtime": (*time.Time)(nil)}},
		{
			name: "space separated with zulu",
			info: core.Info{"updated": "2023-01-14 19:25:00Z"},
			want: time.Date(2023, 1, 14, 19, 25, 0, 0, time.Local),
			ok:   true,
		},
		{
			name: "T separated",
			info: core.Info{"updated": "2023-01-14T19:25:00"},
			want: time.Date(2023, 1, 14, 19, 25, 0, 0, time.Local),
			ok:   true,
		},
		{
			name: "fractional seconds",
			info: core.Info{"updated": "2023-01-14T19:25:00.250"},
			want: time.Date(2023, 1, 14, 19, 25, 0, 250*int(time.Millisecond), time.Local),
			ok:   true,
		},
		{
			name: "date only",
			info: core.Info{"updated": "2023-01-14"},
			want: time.Date(2023, 1, 14, 0, 0, 0, 0, time.Local),
			ok:   true,
		},
		{name: "garbage string", info: core.Info{"mtime": "not-a-real-time"}},
		{name: "map value", info: core.Info{"mtime": map[string]any{}}},
		{name: "integer value", info: core.Info{"mtime": 12}},
		{name: "nil value", info: core.Info{"mtime": nil}},
		{
			name: "first key wins",
			info: core.Info{"mtime": "broken", "LastModified": now},
		},
		{
			name: "later key used when earlier absent",
			info: core.Info{"last_modified": now, "updated": "broken"},
			want: now,
			ok:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ModTime(tt.info)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
			}
		})
	}

	t.Run("float epoch", func(t *testing.T) {
		got, ok := ModTime(core.Info{"last_modified": epoch})
		assert.True(t, ok)
		assert.WithinDuration(t, now, got, time.Millisecond)
		assert.Equal(t, time.Local, got.Location())
	})

	t.Run("unrepresentable epoch", func(t *testing.T) {
		for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), 1e300, -1e300} {
			got, ok := ModTime(core.Info{"last_modified": v})
			assert.False(t, ok, "epoch %v", v)
			assert.True(t, got.IsZero(), "epoch %v", v)
		}
		_, ok := ModTime(core.Info{"last_modified": float32(math.Inf(1))})
		assert.False(t, ok)
	})
}

func TestName(t *testing.T) {
	assert.Equal(t, "a/b.txt", Name(core.Info{"name": "a/b.txt"}))
	assert.Equal(t, UnknownName, Name(core.Info{}))
	assert.Equal(t, UnknownName, Name(core.Info{"name": 3}))
	assert.Equal(t, UnknownName, Name(core.Info{"name": ""}))
}

func TestSize(t *testing.T) {
	tests := []struct {
		value any
		want  int64
		ok    bool
	}{
		{value: int64(10), want: 10, ok: true},
		{value: 10, want: 10, ok: true},
		{value: uint64(10), want: 10, ok: true},
		{value: 10.0, want: 10, ok: true},
		{value: "10"},
		{value: nil},
	}

	for _, tt := range tests {
		got, ok := Size(core.Info{"size": tt.value})
		assert.Equal(t, tt.ok, ok, "%#v", tt.value)
		assert.Equal(t, tt.want, got, "%#v", tt.value)
	}
}

func TestType(t *testing.T) {
	assert.Equal(t, KindFile, Type(core.Info{"type": "file"}))
	assert.Equal(t, KindDirectory, Type(core.Info{"type": "directory"}))
	assert.Equal(t, KindDirectory, Type(core.Info{"type": "dir"}))
	assert.Equal(t, KindUnknown, Type(core.Info{"type": "link"}))
	assert.Equal(t, KindUnknown, Type(core.Info{"type": "d"}))
	assert.Equal(t, KindUnknown, Type(core.Info{}))

	assert.True(t, IsDir(core.Info{"type": "directory"}))
	assert.False(t, IsDir(core.Info{"type": "file"}))
}
