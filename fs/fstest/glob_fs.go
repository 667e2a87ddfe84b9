package fstest

import (
	"testing"

	"github.com/candidtim/unifs/fs/core"
)

// TestGlobFS tests pattern expansion with Glob.
// Uses POSIXTestConfig() by default.
func TestGlobFS(t *testing.T, filesystem core.FileSystem) {
	TestGlobFSWithConfig(t, filesystem, POSIXTestConfig())
}

// TestGlobFSWithConfig tests pattern expansion with behavior configuration.
func TestGlobFSWithConfig(t *testing.T, filesystem core.FileSystem, config FSTestConfig) {
	mustPipe(t, filesystem, "globdir/file1.txt", []byte("1"))
	mustPipe(t, filesystem, "globdir/file2.log", []byte("2"))
	mustPipe(t, filesystem, "globdir/dir1/file3.txt", []byte("3"))
	mustPipe(t, filesystem, "globdir/dir1/dir2/file4.txt", []byte("4"))

	tests := []struct {
		name    string
		pattern string
		want    []string
	}{
		{
			name:    "StarInSegment",
			pattern: "globdir/*.txt",
			want:    []string{"globdir/file1.txt"},
		},
		{
			name:    "DoubleStar",
			pattern: "globdir/**/*.txt",
			want:    []string{"globdir/dir1/dir2/file4.txt", "globdir/dir1/file3.txt"},
		},
		{
			name:    "Alternatives",
			pattern: "globdir/file{1,2}.*",
			want:    []string{"globdir/file1.txt", "globdir/file2.log"},
		},
		{
			name:    "NoMeta",
			pattern: "globdir/file2.log",
			want:    []string{"globdir/file2.log"},
		},
		{
			name:    "MissingBase",
			pattern: "nothere/*.txt",
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if skipped(t, config, "GlobFS/"+tt.name) {
				return
			}
			got := []string{}
			for name, err := range filesystem.Glob(tt.pattern) {
				if err != nil {
					t.Fatalf("Glob(%q): got error %v, want nil", tt.pattern, err)
				}
				got = append(got, name)
			}
			if !equalStrings(got, tt.want) {
				t.Errorf("Glob(%q): got %v, want %v", tt.pattern, got, tt.want)
			}
		})
	}
}
