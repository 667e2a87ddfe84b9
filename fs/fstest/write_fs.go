package fstest

import (
	"errors"
	"io/fs"
	"testing"
	"time"

	"github.com/candidtim/unifs/fs/core"
)

// TestWriteFS tests write operations: Pipe, Touch, Mkdir.
// Uses POSIXTestConfig() by default.
func TestWriteFS(t *testing.T, filesystem core.FileSystem) {
	TestWriteFSWithConfig(t, filesystem, POSIXTestConfig())
}

// TestWriteFSWithConfig tests write operations with behavior configuration.
func TestWriteFSWithConfig(t *testing.T, filesystem core.FileSystem, config FSTestConfig) {
	mustPipe(t, filesystem, "writedir/keep.txt", []byte("keep"))

	t.Run("PipeNew", func(t *testing.T) {
		testWriteFSPipe(t, filesystem, "writedir/new.txt", []byte("hello"))
	})
	t.Run("PipeReplace", func(t *testing.T) {
		testWriteFSPipe(t, filesystem, "writedir/new.txt", []byte("bye"))
	})
	t.Run("PipeInNonExistentDir", func(t *testing.T) {
		if skipped(t, config, "WriteFS/PipeInNonExistentDir") {
			return
		}
		testWriteFSPipeInNonExistentDir(t, filesystem, config)
	})
	t.Run("TouchNew", func(t *testing.T) {
		testWriteFSTouchNew(t, filesystem)
	})
	t.Run("TouchKeepsContent", func(t *testing.T) {
		testWriteFSTouchKeepsContent(t, filesystem)
	})
	t.Run("TouchTruncate", func(t *testing.T) {
		testWriteFSTouchTruncate(t, filesystem)
	})
	t.Run("MkdirParents", func(t *testing.T) {
		testWriteFSMkdirParents(t, filesystem)
	})
	t.Run("MkdirExisting", func(t *testing.T) {
		if skipped(t, config, "WriteFS/MkdirExisting") {
			return
		}
		testWriteFSMkdirExisting(t, filesystem, config)
	})
}

// testWriteFSPipe tests Pipe() writes the exact content.
func testWriteFSPipe(t *testing.T, filesystem core.FileSystem, name string, data []byte) {
	if err := filesystem.Pipe(name, data); err != nil {
		t.Fatalf("Pipe(%s): got error %v, want nil", name, err)
	}
	got, err := filesystem.Cat(name)
	if err != nil {
		t.Fatalf("Cat(%s): got error %v, want nil", name, err)
	}
	if string(got) != string(data) {
		t.Errorf("Cat(%s): got %q, want %q", name, got, data)
	}
}

// testWriteFSPipeInNonExistentDir tests Pipe() when the parent is missing.
func testWriteFSPipeInNonExistentDir(t *testing.T, filesystem core.FileSystem, config FSTestConfig) {
	err := filesystem.Pipe("nodir/sub/file.txt", []byte("x"))
	if config.ImplicitParentDirs {
		if err != nil {
			t.Errorf("Pipe(nodir/sub/file.txt): got error %v, want nil", err)
		}
		return
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Pipe(nodir/sub/file.txt): got error %v, want fs.ErrNotExist", err)
	}
}

// testWriteFSTouchNew tests Touch() creates an empty file.
func testWriteFSTouchNew(t *testing.T, filesystem core.FileSystem) {
	if err := filesystem.Touch("writedir/touched.txt", false); err != nil {
		t.Fatalf("Touch(writedir/touched.txt): got error %v, want nil", err)
	}
	size, err := filesystem.Size("writedir/touched.txt")
	if err != nil || size != 0 {
		t.Errorf("Size(writedir/touched.txt): got (%d, %v), want (0, nil)", size, err)
	}
}

// testWriteFSTouchKeepsContent tests Touch() without truncate keeps the
// content of an existing file.
func testWriteFSTouchKeepsContent(t *testing.T, filesystem core.FileSystem) {
	before, err := filesystem.Info("writedir/keep.txt")
	if err != nil {
		t.Fatalf("Info(writedir/keep.txt): got error %v, want nil", err)
	}

	// Some backends store modification times with a one second resolution.
	time.Sleep(1100 * time.Millisecond)

	if err := filesystem.Touch("writedir/keep.txt", false); err != nil {
		t.Fatalf("Touch(writedir/keep.txt): got error %v, want nil", err)
	}
	data, err := filesystem.Cat("writedir/keep.txt")
	if err != nil || string(data) != "keep" {
		t.Errorf("Cat(writedir/keep.txt): got (%q, %v), want \"keep\"", data, err)
	}

	after, err := filesystem.Info("writedir/keep.txt")
	if err != nil {
		t.Fatalf("Info(writedir/keep.txt): got error %v, want nil", err)
	}
	if mtimeBefore, ok := modTime(before); ok {
		mtimeAfter, _ := modTime(after)
		if !mtimeAfter.After(mtimeBefore) {
			t.Errorf("Touch(writedir/keep.txt): modification time not updated (%v -> %v)", mtimeBefore, mtimeAfter)
		}
	}
}

// modTime returns the first time.Time value of a record.
func modTime(info core.Info) (time.Time, bool) {
	for _, value := range info {
		if ts, ok := value.(time.Time); ok {
			return ts, true
		}
	}
	return time.Time{}, false
}

// testWriteFSTouchTruncate tests Touch() with truncate empties the file.
func testWriteFSTouchTruncate(t *testing.T, filesystem core.FileSystem) {
	mustPipe(t, filesystem, "writedir/trunc.txt", []byte("content"))
	if err := filesystem.Touch("writedir/trunc.txt", true); err != nil {
		t.Fatalf("Touch(writedir/trunc.txt, truncate): got error %v, want nil", err)
	}
	data, err := filesystem.Cat("writedir/trunc.txt")
	if err != nil || len(data) != 0 {
		t.Errorf("Cat(writedir/trunc.txt): got (%q, %v), want empty", data, err)
	}
}

// testWriteFSMkdirParents tests Mkdir() with parents creates the whole
// chain and tolerates an existing directory.
func testWriteFSMkdirParents(t *testing.T, filesystem core.FileSystem) {
	for i := 0; i < 2; i++ {
		if err := filesystem.Mkdir("writedir/a/b/c", true); err != nil {
			t.Fatalf("Mkdir(writedir/a/b/c, parents) #%d: got error %v, want nil", i, err)
		}
	}
	mustPipe(t, filesystem, "writedir/a/b/c/file.txt", []byte("x"))
	isDir, err := filesystem.IsDir("writedir/a/b")
	if err != nil || !isDir {
		t.Errorf("IsDir(writedir/a/b): got (%v, %v), want (true, nil)", isDir, err)
	}
}

// testWriteFSMkdirExisting tests Mkdir() without parents on an existing
// directory.
func testWriteFSMkdirExisting(t *testing.T, filesystem core.FileSystem, config FSTestConfig) {
	err := filesystem.Mkdir("writedir", false)
	if config.VirtualDirectories {
		return
	}
	if !errors.Is(err, fs.ErrExist) {
		t.Errorf("Mkdir(writedir): got error %v, want fs.ErrExist", err)
	}
}
