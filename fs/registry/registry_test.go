package registry

import (
	stderrors "errors"
	"iter"
	"testing"

	"github.com/candidtim/unifs/errors"
	"github.com/candidtim/unifs/fs/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubFS is a read-only backend with nothing in it.
type stubFS struct {
	core.ReadOnly
	protocol string
}

func (s *stubFS) Protocol() string { return s.protocol }
func (s *stubFS) Ls(string, bool) ([]core.Info, error) { return nil, nil }
func (s *stubFS) Info(p string) (core.Info, error) { return nil, core.PathError("info", p, core.ErrNotExist) }
func (s *stubFS) Exists(string) (bool, error) { return false, nil }
func (s *stubFS) IsFile(string) (bool, error) { return false, nil }
func (s *stubFS) IsDir(string) (bool, error) { return false, nil }
func (s *stubFS) Size(p string) (int64, error) { return 0, core.PathError("size", p, core.ErrNotExist) }
func (s *stubFS) Cat(p string) ([]byte, error) { return nil, core.PathError("cat", p, core.ErrNotExist) }
func (s *stubFS) Head(p string, _ int64) ([]byte, error) {
	return nil, core.PathError("head", p, core.ErrNotExist)
}
func (s *stubFS) Tail(p string, _ int64) ([]byte, error) {
	return nil, core.PathError("tail", p, core.ErrNotExist)
}
func (s *stubFS) Glob(string) iter.Seq2[string, error] {
	return func(func(string, error) bool) {}
}

func stubConstructor(protocol string) Constructor {
	return func(Params) (core.FileSystem, error) {
		return &stubFS{protocol: protocol}, nil
	}
}

func newTestRegistry() *Registry {
	r := NewRegistry()
	r.Register(Descriptor{Protocol: "file", Aliases: []string{"local"}, Description: "Local files"}, stubConstructor("file"))
	r.Register(Descriptor{Protocol: "s3", Aliases: []string{"minio"}, Description: "Object storage"}, stubConstructor("s3"))
	r.Register(Descriptor{Protocol: "memory", Ignored: true}, stubConstructor("memory"))
	return r
}

func TestListKnown(t *testing.T) {
	r := newTestRegistry()

	known := r.ListKnown()

	var protocols []string
	for _, d := range known {
		protocols = append(protocols, d.Protocol)
	}
	assert.Equal(t, []string{"file", "s3"}, protocols)
}

func TestResolve(t *testing.T) {
	r := newTestRegistry()

	tests := []struct {
		name     string
		protocol string
		want     string
	}{
		{name: "protocol", protocol: "file", want: "file"},
		{name: "alias", protocol: "local", want: "file"},
		{name: "second alias", protocol: "minio", want: "s3"},
		{name: "ignored still resolves", protocol: "memory", want: "memory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctor, err := r.Resolve(tt.protocol)
			require.NoError(t, err)
			fsys, err := ctor(nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, fsys.Protocol())
		})
	}
}

func TestResolve_Unknown(t *testing.T) {
	r := newTestRegistry()

	_, err := r.Resolve("ftp")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeUnknownProtocol))
	assert.Equal(t, "Unknown protocol: ftp", errors.UserMessage(err))

	_, err = r.Describe("ftp")
	assert.True(t, errors.HasCode(err, errors.CodeUnknownProtocol))
}

func TestDescribe(t *testing.T) {
	r := NewRegistry()
	r.Register(Descriptor{
		Protocol: "zip",
		Params: []Param{
			{Name: "path", Required: true},
			{Name: "mode", Default: "r"},
		},
	}, stubConstructor("zip"))

	d, err := r.Describe("zip")
	require.NoError(t, err)
	require.Len(t, d.Params, 2)
	assert.Equal(t, "path", d.Params[0].Name)
	assert.Equal(t, map[string]any{"protocol": "zip", "path": "", "mode": "r"}, d.Sample())
}

func TestRegister_Panics(t *testing.T) {
	t.Run("empty protocol", func(t *testing.T) {
		assert.Panics(t, func() { NewRegistry().Register(Descriptor{}, stubConstructor("")) })
	})

	t.Run("nil constructor", func(t *testing.T) {
		assert.Panics(t, func() { NewRegistry().Register(Descriptor{Protocol: "x"}, nil) })
	})

	t.Run("duplicate protocol", func(t *testing.T) {
		r := newTestRegistry()
		assert.Panics(t, func() { r.Register(Descriptor{Protocol: "file"}, stubConstructor("file")) })
	})

	t.Run("alias clashing with protocol", func(t *testing.T) {
		r := newTestRegistry()
		assert.Panics(t, func() {
			r.Register(Descriptor{Protocol: "disk", Aliases: []string{"file"}}, stubConstructor("disk"))
		})
	})

	t.Run("protocol clashing with alias", func(t *testing.T) {
		r := newTestRegistry()
		assert.Panics(t, func() { r.Register(Descriptor{Protocol: "local"}, stubConstructor("local")) })
	})

	t.Run("after first use", func(t *testing.T) {
		r := newTestRegistry()
		_ = r.ListKnown()
		assert.Panics(t, func() { r.Register(Descriptor{Protocol: "zip"}, stubConstructor("zip")) })
	})
}

func TestNew(t *testing.T) {
	r := NewRegistry()
	r.Register(Descriptor{Protocol: "ok"}, stubConstructor("ok"))
	r.Register(Descriptor{Protocol: "broken"}, func(Params) (core.FileSystem, error) {
		return nil, stderrors.New("dial tcp: connection refused")
	})
	r.Register(Descriptor{Protocol: "misconfigured"}, func(Params) (core.FileSystem, error) {
		return nil, errors.New(errors.CodeInvalidConfig, "'bucket' is required")
	})

	fsys, err := r.New("ok", nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", fsys.Protocol())

	_, err = r.New("broken", nil)
	assert.True(t, errors.HasCode(err, errors.CodeBackendUnavailable))
	assert.Contains(t, errors.UserMessage(err), "connection refused")

	_, err = r.New("misconfigured", nil)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidConfig))

	_, err = r.New("nope", nil)
	assert.True(t, errors.HasCode(err, errors.CodeUnknownProtocol))
}

type testConfig struct {
	Endpoint string `mapstructure:"endpoint" validate:"required"`
	UseSSL   bool   `mapstructure:"use_ssl"`
	Port     int    `mapstructure:"port"`
}

func TestDecode(t *testing.T) {
	t.Run("weakly typed with defaults", func(t *testing.T) {
		cfg := testConfig{UseSSL: true, Port: 9000}
		err := Decode(Params{"endpoint": "localhost", "port": "9001"}, &cfg)
		require.NoError(t, err)
		assert.Equal(t, testConfig{Endpoint: "localhost", UseSSL: true, Port: 9001}, cfg)
	})

	t.Run("bool from string", func(t *testing.T) {
		cfg := testConfig{UseSSL: true}
		require.NoError(t, Decode(Params{"endpoint": "x", "use_ssl": "false"}, &cfg))
		assert.False(t, cfg.UseSSL)
	})

	t.Run("unknown parameter", func(t *testing.T) {
		var cfg testConfig
		err := Decode(Params{"endpoint": "x", "bukcet": "y"}, &cfg)
		assert.True(t, errors.HasCode(err, errors.CodeInvalidConfig))
	})

	t.Run("missing required", func(t *testing.T) {
		var cfg testConfig
		err := Decode(Params{}, &cfg)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.CodeInvalidConfig))
		assert.Equal(t, "invalid file system parameters: 'endpoint' is required", errors.UserMessage(err))
	})
}
