//go:build integration

package minio

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/candidtim/unifs/fs/core"
	"github.com/candidtim/unifs/fs/fstest"
	"github.com/candidtim/unifs/fs/registry"
)

var bucketSeq atomic.Int64

// setupMinIOContainer starts a MinIO container and returns endpoint and cleanup function.
func setupMinIOContainer(t *testing.T) (string, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	// Start MinIO container
	req := testcontainers.ContainerRequest{
		Image:        "minio/minio:latest",
		ExposedPorts: []string{"9000/tcp"},
		Env: map[string]string{
			"MINIO_ROOT_USER":     "minioadmin",
			"MINIO_ROOT_PASSWORD": "minioadmin",
		},
		Cmd:        []string{"server", "/data"},
		WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000/tcp"),
	}

	minioC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start MinIO container")

	endpoint, err := minioC.Endpoint(ctx, "")
	require.NoError(t, err, "failed to get container endpoint")

	cleanup := func() {
		_ = minioC.Terminate(ctx)
	}
	return endpoint, cleanup
}

// setupMinIOFS creates a MinioFS over a fresh bucket.
func setupMinIOFS(t *testing.T, endpoint string) *MinioFS {
	t.Helper()

	ctx := context.Background()

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	require.NoError(t, err, "failed to create MinIO client")

	bucketName := fmt.Sprintf("test-bucket-%d", bucketSeq.Add(1))
	err = client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{})
	require.NoError(t, err, "failed to create test bucket")

	fs, err := NewMinIO(Config{
		Client: client,
		Bucket: bucketName,
	})
	require.NoError(t, err, "failed to create MinioFS")
	return fs
}

// TestMinIOIntegration runs every scenario against a single container.
func TestMinIOIntegration(t *testing.T) {
	endpoint, cleanup := setupMinIOContainer(t)
	defer cleanup()

	t.Run("Conformance", func(t *testing.T) {
		// S3TestConfig handles virtual directories and implicit parent directories
		fstest.TestSuiteWithConfig(t, func() core.FileSystem {
			return setupMinIOFS(t, endpoint)
		}, fstest.S3TestConfig())
	})

	t.Run("Registry", func(t *testing.T) {
		bucket := setupMinIOFS(t, endpoint).bucket
		fs, err := registry.New("minio", registry.Params{
			"endpoint":   endpoint,
			"bucket":     bucket,
			"access_key": "minioadmin",
			"secret_key": "minioadmin",
			"use_ssl":    "false",
			"prefix":     "/scoped/",
		})
		require.NoError(t, err)
		require.NoError(t, fs.Pipe("/a.txt", []byte("a")))

		root := setupMinIOFS(t, endpoint)
		root.bucket = bucket
		data, err := root.Cat("scoped/a.txt")
		require.NoError(t, err)
		assert.Equal(t, []byte("a"), data)
	})

	t.Run("LargeObject", func(t *testing.T) {
		fs := setupMinIOFS(t, endpoint)

		// Large enough for a multipart upload
		largeData := make([]byte, 10*1024*1024)
		for i := range largeData {
			largeData[i] = byte(i % 256)
		}
		require.NoError(t, fs.Pipe("large-file.bin", largeData))

		data, err := fs.Cat("large-file.bin")
		require.NoError(t, err)
		assert.Equal(t, largeData, data)

		size, err := fs.Size("large-file.bin")
		require.NoError(t, err)
		assert.Equal(t, int64(len(largeData)), size)

		head, err := fs.Head("large-file.bin", 4)
		require.NoError(t, err)
		assert.Equal(t, largeData[:4], head)

		tail, err := fs.Tail("large-file.bin", 4)
		require.NoError(t, err)
		assert.Equal(t, largeData[len(largeData)-4:], tail)
	})

	t.Run("ManyObjectsListing", func(t *testing.T) {
		fs := setupMinIOFS(t, endpoint)

		// More than a typical page size
		numFiles := 150
		for i := 0; i < numFiles; i++ {
			filename := fmt.Sprintf("/many/file-%03d.txt", i)
			require.NoError(t, fs.Pipe(filename, []byte(filename)))
		}

		entries, err := fs.Ls("/many", false)
		require.NoError(t, err)
		require.Len(t, entries, numFiles)
		assert.Equal(t, "/many/file-000.txt", entries[0][core.KeyName])
		for i := 1; i < len(entries); i++ {
			assert.Less(t, entries[i-1][core.KeyName], entries[i][core.KeyName])
		}

		var matched int
		for _, err := range fs.Glob("/many/file-1*.txt") {
			require.NoError(t, err)
			matched++
		}
		assert.Equal(t, 50, matched)
	})

	t.Run("ConcurrentAccess", func(t *testing.T) {
		fs := setupMinIOFS(t, endpoint)

		const numGoroutines = 10
		var wg sync.WaitGroup
		wg.Add(numGoroutines)
		for i := 0; i < numGoroutines; i++ {
			go func(id int) {
				defer wg.Done()
				filename := fmt.Sprintf("concurrent-%d.txt", id)
				content := []byte(fmt.Sprintf("content from goroutine %d", id))
				assert.NoError(t, fs.Pipe(filename, content), "goroutine %d should write", id)
				data, err := fs.Cat(filename)
				assert.NoError(t, err, "goroutine %d should read", id)
				assert.Equal(t, content, data)
			}(i)
		}
		wg.Wait()
	})

	t.Run("ErrorScenarios", func(t *testing.T) {
		fs := setupMinIOFS(t, endpoint)
		require.NoError(t, fs.Pipe("dir/file.txt", []byte("x")))

		_, err := fs.Cat("non-existent.txt")
		assert.ErrorIs(t, err, os.ErrNotExist)

		_, err = fs.Cat("dir")
		assert.ErrorIs(t, err, core.ErrIsDir)

		err = fs.Remove("dir", false)
		assert.Error(t, err, "non-empty directory needs recursive")

		err = fs.Move("non-existent.txt", "new-name.txt", false)
		assert.ErrorIs(t, err, os.ErrNotExist)

		err = fs.Mkdir("dir/file.txt/sub", false)
		assert.ErrorIs(t, err, core.ErrNotDir)

		// Paths with .. are normalized
		require.NoError(t, fs.Pipe("subdir/../file.txt", []byte("content")))
		data, err := fs.Cat("file.txt")
		require.NoError(t, err)
		assert.Equal(t, []byte("content"), data)

		// Empty objects have no readable range
		require.NoError(t, fs.Touch("empty.txt", false))
		tail, err := fs.Tail("empty.txt", 10)
		require.NoError(t, err)
		assert.Empty(t, tail)
	})

	t.Run("MissingBucket", func(t *testing.T) {
		fs := setupMinIOFS(t, endpoint)
		fs.bucket = "non-existent-bucket"

		_, err := fs.Cat("test.txt")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("EmptyDirectory", func(t *testing.T) {
		fs := setupMinIOFS(t, endpoint)
		require.NoError(t, fs.Mkdir("empty", false))

		isDir, err := fs.IsDir("empty")
		require.NoError(t, err)
		assert.True(t, isDir)

		entries, err := fs.Ls("empty", false)
		require.NoError(t, err)
		assert.Empty(t, entries)

		require.NoError(t, fs.Remove("empty", false))
		exists, err := fs.Exists("empty")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
