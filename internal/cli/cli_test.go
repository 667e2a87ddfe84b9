package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/candidtim/unifs/config"
	"github.com/candidtim/unifs/errors"
	"github.com/candidtim/unifs/fs/core"
	"github.com/candidtim/unifs/fs/registry"

	_ "github.com/candidtim/unifs/fs/billy"
)

// largeContent is above the size from which cat asks for a confirmation.
var largeContent = strings.Repeat("foobarbazx", 1100)

type testEnv struct {
	root       string
	configPath string
	errorLog   string
	registry   *registry.Registry
}

// newTestEnv creates a local file system with known content and a
// configuration selecting it.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		root:       filepath.Join(dir, "root"),
		configPath: filepath.Join(dir, "config", "config.toml"),
		errorLog:   filepath.Join(dir, "cache", "error.log"),
	}

	files := map[string]string{
		"file1.txt":      "hello",
		"file2.csv":      "a,b\n",
		"dir1/file3.txt": "three",
		"dir2/file4.txt": "four",
		"dir2/file5.bin": "\x00\x01\x02\x03\xff\xfe\x00\x00",
		"dir2/file6.txt": largeContent,
	}
	for name, content := range files {
		p := filepath.Join(env.root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}

	env.writeConfig(t, fmt.Sprintf(`
[unifs]
current = "local"

[unifs.fs.local]
protocol = "file"
root = '%s'

[unifs.fs.mem]
protocol = "memory"
`, env.root))
	return env
}

func (e *testEnv) writeConfig(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(e.configPath), 0o755))
	require.NoError(t, os.WriteFile(e.configPath, []byte(content), 0o644))
}

type result struct {
	stdout string
	stderr string
	code   int
}

func (e *testEnv) run(t *testing.T, input string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := &App{
		Registry: e.registry,
		In:       strings.NewReader(input),
		Out:      &stdout,
		Err:      &stderr,
		ErrorLog: e.errorLog,
	}
	code := app.Run(append([]string{"--config", e.configPath}, args...))
	return result{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

func (e *testEnv) read(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(e.root, filepath.FromSlash(name)))
	require.NoError(t, err)
	return string(data)
}

func (e *testEnv) exists(name string) bool {
	_, err := os.Stat(filepath.Join(e.root, filepath.FromSlash(name)))
	return err == nil
}

func lines(s string) []string {
	return strings.Split(strings.TrimSpace(s), "\n")
}

func TestLs(t *testing.T) {
	env := newTestEnv(t)

	res := env.run(t, "", "ls")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.ElementsMatch(t, []string{"dir1/", "dir2/", "file1.txt", "file2.csv"}, lines(res.stdout))

	res = env.run(t, "", "ls", "dir1")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Equal(t, []string{"dir1/file3.txt"}, lines(res.stdout))

	res = env.run(t, "", "ls", "file1.txt")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Equal(t, "file1.txt\n", res.stdout)
}

func TestLs_Long(t *testing.T) {
	env := newTestEnv(t)

	for _, args := range [][]string{{"ls", "-l", "file1.txt"}, {"ll", "file1.txt"}} {
		res := env.run(t, "", args...)
		require.Equal(t, ExitOK, res.code, res.stderr)
		line := strings.TrimSpace(res.stdout)
		assert.True(t, strings.HasPrefix(line, "fil        5 B "), line)
		assert.True(t, strings.HasSuffix(line, " file1.txt"), line)
	}

	res := env.run(t, "", "ll")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, " dir1/\n")
	assert.Regexp(t, `(?m)^dir .* dir2/$`, res.stdout)
}

func TestLs_Glob(t *testing.T) {
	env := newTestEnv(t)

	res := env.run(t, "", "ls", "*.txt")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Equal(t, []string{"file1.txt"}, lines(res.stdout))

	res = env.run(t, "", "ls", "**/*.txt")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.ElementsMatch(t, []string{"dir1/file3.txt", "dir2/file4.txt", "dir2/file6.txt"}, lines(res.stdout))
}

func TestLs_GlobLongConfirms(t *testing.T) {
	env := newTestEnv(t)

	res := env.run(t, "y\n", "ls", "-l", "dir1/*.txt")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Continue?")
	assert.Regexp(t, `fil +5 B .* dir1/file3.txt`, res.stdout)

	res = env.run(t, "n\n", "ls", "-l", "dir1/*.txt")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Continue?")
	assert.NotContains(t, res.stdout, "file3.txt")

	res = env.run(t, "", "--yes", "ls", "-l", "dir1/*.txt")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.NotContains(t, res.stdout, "Continue?")
	assert.Contains(t, res.stdout, "dir1/file3.txt")
}

func TestCat(t *testing.T) {
	env := newTestEnv(t)

	res := env.run(t, "", "cat", "file1.txt")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Equal(t, "hello\n", res.stdout)

	for _, p := range []string{"non-existing.txt", "dir1"} {
		res = env.run(t, "", "cat", p)
		require.Equal(t, ExitOK, res.code, res.stderr)
		assert.Equal(t, "No such file", strings.TrimSpace(res.stdout))
	}
}

func TestCat_LargeFile(t *testing.T) {
	env := newTestEnv(t)

	res := env.run(t, "y\n", "cat", "dir2/file6.txt")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "The file is 11 KiB long. Are you sure?")
	assert.Contains(t, res.stdout, largeContent)

	res = env.run(t, "n\n", "cat", "dir2/file6.txt")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Are you sure?")
	assert.NotContains(t, res.stdout, "foobarbazx")
}

func TestCat_Binary(t *testing.T) {
	env := newTestEnv(t)

	res := env.run(t, "y\n", "cat", "dir2/file5.bin")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "The file appears to be binary. Continue?")
	assert.Contains(t, res.stdout, "\x03")

	res = env.run(t, "n\n", "cat", "dir2/file5.bin")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Continue?")
	assert.NotContains(t, res.stdout, "\x03")
}

func TestHeadTail(t *testing.T) {
	env := newTestEnv(t)

	res := env.run(t, "", "head", "--bytes=3", "dir2/file6.txt")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Equal(t, "foo\n", res.stdout)

	res = env.run(t, "", "tail", "-c", "4", "dir2/file6.txt")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Equal(t, "bazx\n", res.stdout)

	res = env.run(t, "", "head", "file1.txt")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Equal(t, "hello\n", res.stdout)

	res = env.run(t, "", "tail", "non-existing.txt")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Equal(t, "No such file", strings.TrimSpace(res.stdout))

	res = env.run(t, "", "head", "-c", "-1", "file1.txt")
	assert.Equal(t, ExitRecoverable, res.code)
	assert.Contains(t, res.stderr, "invalid number of bytes")
}

func TestTouch(t *testing.T) {
	env := newTestEnv(t)

	res := env.run(t, "", "touch", "new.txt")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Equal(t, "", env.read(t, "new.txt"))

	res = env.run(t, "", "touch", "file1.txt")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Equal(t, "hello", env.read(t, "file1.txt"))
}

func TestCpMv(t *testing.T) {
	env := newTestEnv(t)

	res := env.run(t, "", "cp", "file1.txt", "copy.txt")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Equal(t, "hello", env.read(t, "copy.txt"))
	assert.True(t, env.exists("file1.txt"))

	res = env.run(t, "", "cp", "dir1", "dir3")
	assert.Equal(t, ExitRecoverable, res.code)
	assert.Contains(t, res.stderr, "cp: -r not specified; omitting directory 'dir1'")
	assert.False(t, env.exists("dir3"))

	res = env.run(t, "", "cp", "-r", "dir1", "dir3")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Equal(t, "three", env.read(t, "dir3/file3.txt"))

	res = env.run(t, "", "mv", "file2.csv", "moved.csv")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Equal(t, "a,b\n", env.read(t, "moved.csv"))
	assert.False(t, env.exists("file2.csv"))

	res = env.run(t, "", "mv", "-r", "dir3", "dir4")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Equal(t, "three", env.read(t, "dir4/file3.txt"))
	assert.False(t, env.exists("dir3"))
}

func TestRm(t *testing.T) {
	env := newTestEnv(t)

	res := env.run(t, "", "rm", "file1.txt")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.False(t, env.exists("file1.txt"))

	res = env.run(t, "", "rm", "file1.txt")
	assert.Equal(t, ExitRecoverable, res.code)
	assert.Contains(t, res.stderr, "file1.txt")

	res = env.run(t, "", "rm", "dir1")
	assert.Equal(t, ExitRecoverable, res.code)
	assert.Contains(t, res.stderr, "rm: cannot remove a directory without -r: 'dir1'")
	assert.True(t, env.exists("dir1/file3.txt"))

	res = env.run(t, "n\n", "rm", "-r", "dir1")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.True(t, env.exists("dir1"))

	res = env.run(t, "y\n", "rm", "-r", "dir1")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.False(t, env.exists("dir1"))
}

func TestMkdir(t *testing.T) {
	env := newTestEnv(t)

	res := env.run(t, "", "mkdir", "-p", "a/b/c")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.True(t, env.exists("a/b/c"))

	res = env.run(t, "", "mkdir", "dir1")
	assert.Equal(t, ExitRecoverable, res.code)
}

func TestConf(t *testing.T) {
	env := newTestEnv(t)

	res := env.run(t, "", "conf", "path")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Equal(t, env.configPath+"\n", res.stdout)

	res = env.run(t, "", "conf", "list")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Equal(t, []string{
		"CURRENT NAME                          PROTOCOL",
		"*       local                         file",
		"        mem                           memory",
	}, lines(res.stdout))

	res = env.run(t, "", "conf", "use", "mem")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Equal(t, "Current active file system: mem\n", res.stdout)

	cfg, err := config.Load(env.configPath)
	require.NoError(t, err)
	assert.Equal(t, "mem", cfg.CurrentName())

	// The memory file system starts empty.
	res = env.run(t, "", "ls")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Equal(t, "", strings.TrimSpace(res.stdout))

	res = env.run(t, "", "conf", "use", "nope")
	assert.Equal(t, ExitRecoverable, res.code)
	assert.Contains(t, res.stderr, "'nope' is not a configured file system")
}

func TestConf_DefaultWritten(t *testing.T) {
	env := newTestEnv(t)
	env.configPath = filepath.Join(t.TempDir(), "fresh", "config.toml")

	res := env.run(t, "", "conf", "list")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "*       local")

	cfg, err := config.Load(env.configPath)
	require.NoError(t, err)
	assert.Equal(t, "file", cfg.Protocol("local"))
}

func TestInvalidConfig(t *testing.T) {
	env := newTestEnv(t)
	env.writeConfig(t, "[other]\nkey = 1\n")

	res := env.run(t, "", "ls")
	assert.Equal(t, ExitRecoverable, res.code)
	assert.Contains(t, res.stderr, "Invalid config file: missing the [unifs] section")
}

func TestImpl(t *testing.T) {
	env := newTestEnv(t)

	res := env.run(t, "", "impl", "list")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.True(t, strings.HasPrefix(res.stdout, "PROTOCOL"))
	assert.Regexp(t, `(?m)^file +Local file system$`, res.stdout)
	assert.NotContains(t, res.stdout, "memory")

	res = env.run(t, "", "impl", "info", "file")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Local file system")
	assert.Contains(t, res.stdout, "Sample configuration")
	assert.Contains(t, res.stdout, "[unifs.fs.MYFSNAME]")
	assert.Regexp(t, `protocol = ['"]file['"]`, res.stdout)
	assert.Regexp(t, `auto_mkdir = false`, res.stdout)

	res = env.run(t, "", "impl", "info", "local", "--format", "yaml")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "backend:")
	assert.Contains(t, res.stdout, "protocol: file")
	assert.Contains(t, res.stdout, "sample:")

	res = env.run(t, "", "impl", "info", "file", "--format", "toml")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "[backend]")
	assert.Contains(t, res.stdout, "[sample]")

	res = env.run(t, "", "impl", "info", "file", "--format", "json")
	assert.Equal(t, ExitRecoverable, res.code)
	assert.Contains(t, res.stderr, `unknown format "json"`)

	res = env.run(t, "", "impl", "info", "nope")
	assert.Equal(t, ExitRecoverable, res.code)
	assert.Contains(t, res.stderr, "Unknown protocol: nope")
}

func TestUsageError(t *testing.T) {
	env := newTestEnv(t)

	res := env.run(t, "", "frobnicate")
	assert.Equal(t, ExitRecoverable, res.code)
	assert.Contains(t, res.stderr, "unknown command")
	assert.Contains(t, res.stderr, "--help")

	res = env.run(t, "", "cat")
	assert.Equal(t, ExitRecoverable, res.code)
	assert.Contains(t, res.stderr, "accepts 1 arg")
}

func TestFatalError(t *testing.T) {
	env := newTestEnv(t)
	env.registry = registry.NewRegistry()
	env.registry.Register(registry.Descriptor{Protocol: "broken"}, func(registry.Params) (core.FileSystem, error) {
		return nil, errors.New(errors.CodeInternal, "disk on fire")
	})
	env.writeConfig(t, "[unifs]\ncurrent = \"b\"\n[unifs.fs.b]\nprotocol = \"broken\"\n")

	res := env.run(t, "", "ls")
	assert.Equal(t, ExitFatal, res.code)
	assert.Contains(t, res.stderr, "Details were written to "+env.errorLog)

	logged, err := os.ReadFile(env.errorLog)
	require.NoError(t, err)
	assert.Contains(t, string(logged), "disk on fire")
	assert.Contains(t, string(logged), "INTERNAL_ERROR")
}
