package proxy

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"iter"
	"syscall"
	"testing"

	"github.com/candidtim/unifs/errors"
	"github.com/candidtim/unifs/fs/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingFS returns err from every operation.
type failingFS struct {
	protocol string
	err      error
}

func (f *failingFS) Protocol() string { return f.protocol }
func (f *failingFS) Ls(string, bool) ([]core.Info, error) { return nil, f.err }
func (f *failingFS) Info(string) (core.Info, error) { return nil, f.err }
func (f *failingFS) Exists(string) (bool, error) { return false, f.err }
func (f *failingFS) IsFile(string) (bool, error) { return false, f.err }
func (f *failingFS) IsDir(string) (bool, error) { return false, f.err }
func (f *failingFS) Size(string) (int64, error) { return 0, f.err }
func (f *failingFS) Cat(string) ([]byte, error) { return nil, f.err }
func (f *failingFS) Head(string, int64) ([]byte, error) { return nil, f.err }
func (f *failingFS) Tail(string, int64) ([]byte, error) { return nil, f.err }
func (f *failingFS) Pipe(string, []byte) error { return f.err }
func (f *failingFS) Touch(string, bool) error { return f.err }
func (f *failingFS) Mkdir(string, bool) error { return f.err }
func (f *failingFS) Copy(string, string, bool) error { return f.err }
func (f *failingFS) Move(string, string, bool) error { return f.err }
func (f *failingFS) Remove(string, bool) error { return f.err }

func (f *failingFS) Glob(string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if !yield("match.txt", nil) {
			return
		}
		yield("", f.err)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		err     error
		code    errors.ErrorCode
		message string
	}{
		{
			name:    "core unsupported",
			op:      "touch",
			err:     core.PathError("touch", "a.txt", core.ErrUnsupported),
			code:    errors.CodeUnsupported,
			message: "touch is not implemented in this file system",
		},
		{
			name:    "stdlib unsupported",
			op:      "mkdir",
			err:     stderrors.ErrUnsupported,
			code:    errors.CodeUnsupported,
			message: "mkdir is not implemented in this file system",
		},
		{
			name:    "not found with bare path",
			op:      "cat",
			err:     fmt.Errorf("some/path: %w", fs.ErrNotExist),
			code:    errors.CodeNotFound,
			message: "some/path: file does not exist",
		},
		{
			name:    "not found path error",
			op:      "cat",
			err:     core.PathError("open", "some/path", fs.ErrNotExist),
			code:    errors.CodeNotFound,
			message: "File not found: some/path",
		},
		{
			name:    "not found errno",
			op:      "cat",
			err:     &fs.PathError{Op: "open", Path: `C:\data\x.txt`, Err: syscall.ENOENT},
			code:    errors.CodeNotFound,
			message: `File not found: C:\data\x.txt`,
		},
		{
			name:    "not found path with spaces",
			op:      "info",
			err:     &fs.PathError{Op: "stat", Path: "my file.txt", Err: fs.ErrNotExist},
			code:    errors.CodeNotFound,
			message: "stat my file.txt: file does not exist",
		},
		{
			name:    "not found descriptive",
			op:      "cat",
			err:     &descriptiveError{msg: "custom descriptive text", target: fs.ErrNotExist},
			code:    errors.CodeNotFound,
			message: "custom descriptive text",
		},
		{
			name:    "not found bare message",
			op:      "cat",
			err:     &descriptiveError{msg: "some/path", target: fs.ErrNotExist},
			code:    errors.CodeNotFound,
			message: "File not found: some/path",
		},
		{
			name:    "exists",
			op:      "mkdir",
			err:     core.PathError("mkdir", "/tmp/x", fs.ErrExist),
			code:    errors.CodeAlreadyExists,
			message: "File exists: /tmp/x",
		},
		{
			name:    "not a directory",
			op:      "ls",
			err:     core.PathError("readdir", "~/file.txt", core.ErrNotDir),
			code:    errors.CodeNotADirectory,
			message: "Not a directory: ~/file.txt",
		},
		{
			name:    "not a directory errno",
			op:      "ls",
			err:     &fs.PathError{Op: "readdir", Path: "a/b", Err: syscall.ENOTDIR},
			code:    errors.CodeNotADirectory,
			message: "Not a directory: a/b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.op, tt.err)
			require.Error(t, got)
			assert.Equal(t, tt.code, errors.GetCode(got))
			assert.Equal(t, tt.message, errors.UserMessage(got))
			assert.True(t, stderrors.Is(got, tt.err), "cause must stay reachable")
		})
	}
}

type descriptiveError struct {
	msg    string
	target error
}

func (e *descriptiveError) Error() string { return e.msg }
func (e *descriptiveError) Unwrap() error { return e.target }

func TestClassify_Unclassified(t *testing.T) {
	original := stderrors.New("connection reset")
	assert.Same(t, original, Classify("cat", original))

	permission := core.PathError("open", "x", fs.ErrPermission)
	assert.Same(t, permission, Classify("cat", permission))

	assert.NoError(t, Classify("cat", nil))
}

func TestClassify_AlreadyClassified(t *testing.T) {
	classified := errors.New(errors.CodeNotFound, "gone")
	assert.Same(t, classified, Classify("cat", classified))
}

func TestIsBarePath(t *testing.T) {
	assert.True(t, isBarePath("some/path"))
	assert.True(t, isBarePath(`C:\Users\x.txt`))
	assert.True(t, isBarePath("~/.config/unifs-2.toml"))
	assert.True(t, isBarePath("répertoire/fichier"))
	assert.False(t, isBarePath(""))
	assert.False(t, isBarePath("custom descriptive text"))
	assert.False(t, isBarePath("path (copy)"))
}

func TestFS_ClassifiesEveryOperation(t *testing.T) {
	p := Wrap(&failingFS{protocol: "fake", err: core.ErrUnsupported})

	ops := map[string]error{}
	_, ops["ls"] = p.Ls("x", false)
	_, ops["info"] = p.Info("x")
	_, ops["exists"] = p.Exists("x")
	_, ops["isfile"] = p.IsFile("x")
	_, ops["isdir"] = p.IsDir("x")
	_, ops["size"] = p.Size("x")
	_, ops["cat"] = p.Cat("x")
	_, ops["head"] = p.Head("x", 1)
	_, ops["tail"] = p.Tail("x", 1)
	ops["pipe"] = p.Pipe("x", nil)
	ops["touch"] = p.Touch("x", false)
	ops["mkdir"] = p.Mkdir("x", false)
	ops["copy"] = p.Copy("x", "y", false)
	ops["move"] = p.Move("x", "y", false)
	ops["remove"] = p.Remove("x", false)

	for op, err := range ops {
		assert.True(t, errors.HasCode(err, errors.CodeUnsupported), op)
		assert.Equal(t, op+" is not implemented in this file system", errors.UserMessage(err))
	}
}

func TestFS_Glob(t *testing.T) {
	p := Wrap(&failingFS{err: core.PathError("glob", "dir", fs.ErrNotExist)})

	var names []string
	var errs []error
	for name, err := range p.Glob("dir/*") {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		names = append(names, name)
	}

	assert.Equal(t, []string{"match.txt"}, names)
	require.Len(t, errs, 1)
	assert.True(t, errors.HasCode(errs[0], errors.CodeNotFound))
	assert.Equal(t, "File not found: dir", errors.UserMessage(errs[0]))
}

func TestFS_Passthrough(t *testing.T) {
	backend := &failingFS{protocol: "s3", err: stderrors.New("boom")}
	p := Wrap(backend)

	assert.Equal(t, "s3", p.Protocol())
	assert.Same(t, backend, p.Unwrap())
	assert.Same(t, p, Wrap(p))

	_, err := p.Cat("x")
	assert.Same(t, backend.err, err)
}
