package fstest

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/candidtim/unifs/fs/core"
)

// TestReadFS tests read-only operations: Ls, Info, Exists, Cat, Head, Tail.
// Uses POSIXTestConfig() by default.
func TestReadFS(t *testing.T, filesystem core.FileSystem) {
	TestReadFSWithConfig(t, filesystem, POSIXTestConfig())
}

// TestReadFSWithConfig tests read-only operations with behavior configuration.
func TestReadFSWithConfig(t *testing.T, filesystem core.FileSystem, config FSTestConfig) {
	// Setup: Create test data structure
	testContent := []byte("0123456789abcdef")

	mustPipe(t, filesystem, "testdir/testfile.txt", testContent)
	mustPipe(t, filesystem, "testdir/sub/nested.txt", []byte("nested"))

	t.Run("LsDir", func(t *testing.T) {
		testReadFSLsDir(t, filesystem)
	})
	t.Run("LsFile", func(t *testing.T) {
		testReadFSLsFile(t, filesystem)
	})
	t.Run("LsDetail", func(t *testing.T) {
		testReadFSLsDetail(t, filesystem, testContent)
	})
	t.Run("LsNotExist", func(t *testing.T) {
		testReadFSNotExist(t, "Ls", func() error {
			_, err := filesystem.Ls("missing", false)
			return err
		})
	})
	t.Run("Info", func(t *testing.T) {
		testReadFSInfo(t, filesystem)
	})
	t.Run("Exists", func(t *testing.T) {
		testReadFSExists(t, filesystem)
	})
	t.Run("Cat", func(t *testing.T) {
		testReadFSCat(t, filesystem, testContent)
	})
	t.Run("CatNotExist", func(t *testing.T) {
		testReadFSNotExist(t, "Cat", func() error {
			_, err := filesystem.Cat("testdir/missing.txt")
			return err
		})
	})
	t.Run("HeadTail", func(t *testing.T) {
		testReadFSHeadTail(t, filesystem, testContent)
	})
	t.Run("Size", func(t *testing.T) {
		size, err := filesystem.Size("testdir/testfile.txt")
		if err != nil {
			t.Fatalf("Size(testdir/testfile.txt): got error %v, want nil", err)
		}
		if size != int64(len(testContent)) {
			t.Errorf("Size(testdir/testfile.txt): got %d, want %d", size, len(testContent))
		}
	})
}

// testReadFSLsDir tests Ls() on a directory returns sorted children.
func testReadFSLsDir(t *testing.T, filesystem core.FileSystem) {
	infos, err := filesystem.Ls("testdir", false)
	if err != nil {
		t.Fatalf("Ls(testdir): got error %v, want nil", err)
	}

	want := []string{"testdir/sub", "testdir/testfile.txt"}
	if got := names(infos); !equalStrings(got, want) {
		t.Errorf("Ls(testdir): got names %v, want %v", got, want)
	}

	for _, info := range infos {
		wantType := core.TypeFile
		if info[core.KeyName] == "testdir/sub" {
			wantType = core.TypeDirectory
		}
		if info[core.KeyType] != wantType {
			t.Errorf("Ls(testdir): %v has type %v, want %v", info[core.KeyName], info[core.KeyType], wantType)
		}
	}
}

// testReadFSLsFile tests Ls() on a file describes the file itself.
func testReadFSLsFile(t *testing.T, filesystem core.FileSystem) {
	infos, err := filesystem.Ls("testdir/testfile.txt", false)
	if err != nil {
		t.Fatalf("Ls(testdir/testfile.txt): got error %v, want nil", err)
	}
	if got := names(infos); !equalStrings(got, []string{"testdir/testfile.txt"}) {
		t.Errorf("Ls(testdir/testfile.txt): got names %v", got)
	}
}

// testReadFSLsDetail tests detailed records carry the file size.
func testReadFSLsDetail(t *testing.T, filesystem core.FileSystem, testContent []byte) {
	infos, err := filesystem.Ls("testdir", true)
	if err != nil {
		t.Fatalf("Ls(testdir, detail): got error %v, want nil", err)
	}
	for _, info := range infos {
		if info[core.KeyName] != "testdir/testfile.txt" {
			continue
		}
		if size, ok := info[core.KeySize].(int64); !ok || size != int64(len(testContent)) {
			t.Errorf("Ls(testdir, detail): got size %#v, want %d", info[core.KeySize], len(testContent))
		}
		return
	}
	t.Errorf("Ls(testdir, detail): testdir/testfile.txt not listed")
}

// testReadFSNotExist checks that op reports fs.ErrNotExist.
func testReadFSNotExist(t *testing.T, op string, call func() error) {
	err := call()
	if err == nil {
		t.Fatalf("%s on missing path: got nil error, want fs.ErrNotExist", op)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("%s on missing path: got error %v, want fs.ErrNotExist", op, err)
	}
}

// testReadFSInfo tests Info() on files and directories.
func testReadFSInfo(t *testing.T, filesystem core.FileSystem) {
	info, err := filesystem.Info("testdir/testfile.txt")
	if err != nil {
		t.Fatalf("Info(testdir/testfile.txt): got error %v, want nil", err)
	}
	if info[core.KeyType] != core.TypeFile {
		t.Errorf("Info(testdir/testfile.txt): got type %v, want file", info[core.KeyType])
	}

	info, err = filesystem.Info("testdir")
	if err != nil {
		t.Fatalf("Info(testdir): got error %v, want nil", err)
	}
	if info[core.KeyType] != core.TypeDirectory {
		t.Errorf("Info(testdir): got type %v, want directory", info[core.KeyType])
	}

	testReadFSNotExist(t, "Info", func() error {
		_, err := filesystem.Info("nope")
		return err
	})
}

// testReadFSExists tests Exists/IsFile/IsDir on files, directories and
// missing paths.
func testReadFSExists(t *testing.T, filesystem core.FileSystem) {
	tests := []struct {
		path   string
		exists bool
		isFile bool
		isDir  bool
	}{
		{path: "testdir/testfile.txt", exists: true, isFile: true},
		{path: "testdir", exists: true, isDir: true},
		{path: "testdir/missing", exists: false},
	}

	for _, tt := range tests {
		exists, err := filesystem.Exists(tt.path)
		if err != nil || exists != tt.exists {
			t.Errorf("Exists(%q): got (%v, %v), want (%v, nil)", tt.path, exists, err, tt.exists)
		}
		isFile, err := filesystem.IsFile(tt.path)
		if err != nil || isFile != tt.isFile {
			t.Errorf("IsFile(%q): got (%v, %v), want (%v, nil)", tt.path, isFile, err, tt.isFile)
		}
		isDir, err := filesystem.IsDir(tt.path)
		if err != nil || isDir != tt.isDir {
			t.Errorf("IsDir(%q): got (%v, %v), want (%v, nil)", tt.path, isDir, err, tt.isDir)
		}
	}
}

// testReadFSCat tests Cat() returns the whole content.
func testReadFSCat(t *testing.T, filesystem core.FileSystem, testContent []byte) {
	data, err := filesystem.Cat("testdir/testfile.txt")
	if err != nil {
		t.Fatalf("Cat(testdir/testfile.txt): got error %v, want nil", err)
	}
	if string(data) != string(testContent) {
		t.Errorf("Cat(testdir/testfile.txt): got %q, want %q", data, testContent)
	}
}

// testReadFSHeadTail tests Head() and Tail() bounds.
func testReadFSHeadTail(t *testing.T, filesystem core.FileSystem, testContent []byte) {
	tests := []struct {
		name string
		n    int64
		head string
		tail string
	}{
		{name: "within", n: 4, head: "0123", tail: "cdef"},
		{name: "exact", n: int64(len(testContent)), head: string(testContent), tail: string(testContent)},
		{name: "beyond", n: 1000, head: string(testContent), tail: string(testContent)},
	}

	for _, tt := range tests {
		head, err := filesystem.Head("testdir/testfile.txt", tt.n)
		if err != nil || string(head) != tt.head {
			t.Errorf("Head(%s): got (%q, %v), want %q", tt.name, head, err, tt.head)
		}
		tail, err := filesystem.Tail("testdir/testfile.txt", tt.n)
		if err != nil || string(tail) != tt.tail {
			t.Errorf("Tail(%s): got (%q, %v), want %q", tt.name, tail, err, tt.tail)
		}
	}
}
