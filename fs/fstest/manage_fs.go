package fstest

import (
	"errors"
	"io/fs"
	"testing"

	uerrors "github.com/candidtim/unifs/errors"
	"github.com/candidtim/unifs/fs/core"
)

// TestManageFS tests management operations: Copy, Move, Remove.
// Uses POSIXTestConfig() by default.
func TestManageFS(t *testing.T, filesystem core.FileSystem) {
	TestManageFSWithConfig(t, filesystem, POSIXTestConfig())
}

// TestManageFSWithConfig tests management operations with behavior configuration.
func TestManageFSWithConfig(t *testing.T, filesystem core.FileSystem, config FSTestConfig) {
	t.Run("CopyFile", func(t *testing.T) {
		testManageFSCopyFile(t, filesystem)
	})
	t.Run("CopyIntoDir", func(t *testing.T) {
		testManageFSCopyIntoDir(t, filesystem)
	})
	t.Run("CopyRecursive", func(t *testing.T) {
		testManageFSCopyRecursive(t, filesystem)
	})
	t.Run("CopyIntoItself", func(t *testing.T) {
		testManageFSCopyIntoItself(t, filesystem)
	})
	t.Run("MoveFile", func(t *testing.T) {
		testManageFSMoveFile(t, filesystem)
	})
	t.Run("MoveRecursive", func(t *testing.T) {
		testManageFSMoveRecursive(t, filesystem)
	})
	t.Run("RemoveFile", func(t *testing.T) {
		testManageFSRemoveFile(t, filesystem)
	})
	t.Run("RemoveRecursive", func(t *testing.T) {
		testManageFSRemoveRecursive(t, filesystem)
	})
	t.Run("RemoveNotExist", func(t *testing.T) {
		testReadFSNotExist(t, "Remove", func() error {
			return filesystem.Remove("missing.txt", false)
		})
	})
}

func expectContent(t *testing.T, filesystem core.FileSystem, name, want string) {
	t.Helper()
	data, err := filesystem.Cat(name)
	if err != nil {
		t.Errorf("Cat(%s): got error %v, want nil", name, err)
		return
	}
	if string(data) != want {
		t.Errorf("Cat(%s): got %q, want %q", name, data, want)
	}
}

func expectMissing(t *testing.T, filesystem core.FileSystem, name string) {
	t.Helper()
	exists, err := filesystem.Exists(name)
	if err != nil || exists {
		t.Errorf("Exists(%s): got (%v, %v), want (false, nil)", name, exists, err)
	}
}

// testManageFSCopyFile tests Copy() of a single file.
func testManageFSCopyFile(t *testing.T, filesystem core.FileSystem) {
	mustPipe(t, filesystem, "copy/src.txt", []byte("source"))
	if err := filesystem.Copy("copy/src.txt", "copy/dst.txt", false); err != nil {
		t.Fatalf("Copy(copy/src.txt, copy/dst.txt): got error %v, want nil", err)
	}
	expectContent(t, filesystem, "copy/dst.txt", "source")
	expectContent(t, filesystem, "copy/src.txt", "source")
}

// testManageFSCopyIntoDir tests Copy() into an existing directory.
func testManageFSCopyIntoDir(t *testing.T, filesystem core.FileSystem) {
	mustPipe(t, filesystem, "copyinto/src.txt", []byte("source"))
	mustPipe(t, filesystem, "copyinto/target/other.txt", []byte("other"))
	if err := filesystem.Copy("copyinto/src.txt", "copyinto/target", false); err != nil {
		t.Fatalf("Copy(copyinto/src.txt, copyinto/target): got error %v, want nil", err)
	}
	expectContent(t, filesystem, "copyinto/target/src.txt", "source")
}

// testManageFSCopyRecursive tests Copy() of a directory tree.
func testManageFSCopyRecursive(t *testing.T, filesystem core.FileSystem) {
	mustPipe(t, filesystem, "tree/a.txt", []byte("a"))
	mustPipe(t, filesystem, "tree/sub/b.txt", []byte("b"))

	if err := filesystem.Copy("tree", "treecopy", false); err == nil {
		t.Errorf("Copy(tree, treecopy) without recursive: got nil error")
	}

	if err := filesystem.Copy("tree", "treecopy", true); err != nil {
		t.Fatalf("Copy(tree, treecopy, recursive): got error %v, want nil", err)
	}
	expectContent(t, filesystem, "treecopy/a.txt", "a")
	expectContent(t, filesystem, "treecopy/sub/b.txt", "b")
	expectContent(t, filesystem, "tree/sub/b.txt", "b")
}

// testManageFSCopyIntoItself tests that Copy() and Move() refuse to place a
// tree inside itself and leave the tree untouched.
func testManageFSCopyIntoItself(t *testing.T, filesystem core.FileSystem) {
	mustPipe(t, filesystem, "selfcopy/a.txt", []byte("a"))
	mustPipe(t, filesystem, "selfcopy/sub/b.txt", []byte("b"))

	for _, dst := range []string{"selfcopy", "selfcopy/sub"} {
		err := filesystem.Copy("selfcopy", dst, true)
		if uerrors.GetCode(err) != uerrors.CodeInvalidInput {
			t.Errorf("Copy(selfcopy, %s, recursive): got %v, want invalid input", dst, err)
		}
		err = filesystem.Move("selfcopy", dst, true)
		if uerrors.GetCode(err) != uerrors.CodeInvalidInput {
			t.Errorf("Move(selfcopy, %s, recursive): got %v, want invalid input", dst, err)
		}
	}

	expectContent(t, filesystem, "selfcopy/a.txt", "a")
	expectContent(t, filesystem, "selfcopy/sub/b.txt", "b")
	expectMissing(t, filesystem, "selfcopy/selfcopy/a.txt")
	expectMissing(t, filesystem, "selfcopy/sub/selfcopy/a.txt")
}

// testManageFSMoveFile tests Move() of a single file.
func testManageFSMoveFile(t *testing.T, filesystem core.FileSystem) {
	mustPipe(t, filesystem, "move/src.txt", []byte("moving"))
	if err := filesystem.Move("move/src.txt", "move/dst.txt", false); err != nil {
		t.Fatalf("Move(move/src.txt, move/dst.txt): got error %v, want nil", err)
	}
	expectContent(t, filesystem, "move/dst.txt", "moving")
	expectMissing(t, filesystem, "move/src.txt")
}

// testManageFSMoveRecursive tests Move() of a directory tree.
func testManageFSMoveRecursive(t *testing.T, filesystem core.FileSystem) {
	mustPipe(t, filesystem, "mvtree/sub/c.txt", []byte("c"))
	if err := filesystem.Move("mvtree", "mvtree2", true); err != nil {
		t.Fatalf("Move(mvtree, mvtree2, recursive): got error %v, want nil", err)
	}
	expectContent(t, filesystem, "mvtree2/sub/c.txt", "c")
	expectMissing(t, filesystem, "mvtree/sub/c.txt")
}

// testManageFSRemoveFile tests Remove() of a single file.
func testManageFSRemoveFile(t *testing.T, filesystem core.FileSystem) {
	mustPipe(t, filesystem, "rm/file.txt", []byte("x"))
	mustPipe(t, filesystem, "rm/other.txt", []byte("y"))
	if err := filesystem.Remove("rm/file.txt", false); err != nil {
		t.Fatalf("Remove(rm/file.txt): got error %v, want nil", err)
	}
	expectMissing(t, filesystem, "rm/file.txt")
	expectContent(t, filesystem, "rm/other.txt", "y")
}

// testManageFSRemoveRecursive tests Remove() of a directory tree.
func testManageFSRemoveRecursive(t *testing.T, filesystem core.FileSystem) {
	mustPipe(t, filesystem, "rmtree/a/b.txt", []byte("b"))
	mustPipe(t, filesystem, "rmtree/c.txt", []byte("c"))

	err := filesystem.Remove("rmtree", true)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("Remove(rmtree, recursive): got error %v, want nil", err)
	}
	expectMissing(t, filesystem, "rmtree/a/b.txt")
	expectMissing(t, filesystem, "rmtree/c.txt")
	expectMissing(t, filesystem, "rmtree")
}
