package minio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"golang.org/x/sync/errgroup"

	"github.com/candidtim/unifs/fs/core"
	"github.com/candidtim/unifs/fs/glob"
	"github.com/candidtim/unifs/fs/minio/internal/errs"
	"github.com/candidtim/unifs/fs/minio/internal/pathutil"
	"github.com/candidtim/unifs/fs/minio/internal/types"
)

// ProtocolS3 is the protocol of the MinIO/S3 backend.
const ProtocolS3 = "s3"

// touchedKey is the user metadata entry rewritten by Touch.
const touchedKey = "Unifs-Touched"

// MinioFS implements core.FileSystem for MinIO/S3-compatible storage.
//
// Directories are virtual: a path is a directory when objects exist under
// its prefix. Mkdir stores an empty "dir/" marker object so that empty
// directories can be listed.
//
//nolint:revive // MinioFS name is intentional to match naming pattern across fs implementations
type MinioFS struct {
	client          *minio.Client
	bucket          string
	prefix          string // Optional prefix for all keys
	copyConcurrency int    // Max concurrent copies for directory copy and move
}

// NewMinIO creates a MinIO-backed filesystem.
// The connection is established lazily by the first operation.
func NewMinIO(cfg Config) (*MinioFS, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("invalid config: bucket is required")
	}

	client := cfg.Client
	if client == nil {
		if cfg.Endpoint == "" {
			return nil, errors.New("invalid config: endpoint is required when client is not provided")
		}

		var err error
		client, err = minio.New(cfg.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
			Secure: cfg.UseSSL,
			Region: cfg.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create minio client: %w", err)
		}
	}

	copyConcurrency := cfg.MaxCopyConcurrency
	if copyConcurrency <= 0 {
		copyConcurrency = 10
	}

	return &MinioFS{
		client:          client,
		bucket:          cfg.Bucket,
		prefix:          pathutil.NormalizePrefix(cfg.Prefix),
		copyConcurrency: copyConcurrency,
	}, nil
}

// Protocol returns the protocol name of the backend.
func (m *MinioFS) Protocol() string {
	return ProtocolS3
}

// joinPath joins the filesystem prefix with the given name.
func (m *MinioFS) joinPath(name string) string {
	return pathutil.JoinPath(m.prefix, name)
}

// isRoot reports whether key is the root of the filesystem.
func (m *MinioFS) isRoot(key string) bool {
	return key == m.prefix
}

// isPrefix reports whether any object exists below key.
func (m *MinioFS) isPrefix(ctx context.Context, key string) (bool, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	objectsCh := m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
		Prefix:  pathutil.DirPrefix(key),
		MaxKeys: 1, // We only need to know if ANY object exists
	})
	first, ok := <-objectsCh
	if !ok {
		return false, nil
	}
	if first.Err != nil {
		return false, errs.Translate(first.Err)
	}
	return true, nil
}

// info returns the record of p, resolving virtual directories.
func (m *MinioFS) info(ctx context.Context, op, p string, detail bool) (core.Info, error) {
	key := m.joinPath(p)
	name := pathutil.Display(p)
	if m.isRoot(key) {
		return types.Prefix(name), nil
	}

	obj, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return types.Object(name, obj.Size, obj.LastModified, obj.ETag, detail), nil
	}
	if !errs.IsNotFound(err) {
		return nil, core.PathError(op, p, errs.Translate(err))
	}

	isDir, err := m.isPrefix(ctx, key)
	if err != nil {
		return nil, core.PathError(op, p, err)
	}
	if !isDir {
		return nil, core.PathError(op, p, core.ErrNotExist)
	}
	return types.Prefix(name), nil
}

// missing explains why key could not be read as an object.
func (m *MinioFS) missing(ctx context.Context, op, p, key string, err error) error {
	if !errs.IsNotFound(err) {
		return core.PathError(op, p, errs.Translate(err))
	}
	if isDir, _ := m.isPrefix(ctx, key); isDir || m.isRoot(key) {
		return core.PathError(op, p, core.ErrIsDir)
	}
	return core.PathError(op, p, core.ErrNotExist)
}

// ReadFS interface implementation

// Ls lists the entries of the directory p, or the record of p itself when
// it is a file. Entry names join the caller's spelling of p with the entry
// name.
func (m *MinioFS) Ls(p string, detail bool) ([]core.Info, error) {
	// Cancelling stops the listing goroutine when a listing error returns early.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	self, err := m.info(ctx, "ls", p, detail)
	if err != nil {
		return nil, err
	}
	if self[core.KeyType] == core.TypeFile {
		return []core.Info{self}, nil
	}

	dir := pathutil.Display(p)
	listPrefix := pathutil.DirPrefix(m.joinPath(p))

	var entries []core.Info
	for object := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
		Prefix:    listPrefix,
		Recursive: false, // Use delimiter for directory-like listing
	}) {
		if object.Err != nil {
			return nil, core.PathError("ls", p, errs.Translate(object.Err))
		}

		// Skip the directory marker itself
		if object.Key == listPrefix {
			continue
		}

		relName := strings.TrimPrefix(object.Key, listPrefix)
		isDir := strings.HasSuffix(object.Key, "/")
		if isDir {
			relName = strings.TrimSuffix(relName, "/")
		}
		if relName == "" {
			continue
		}

		name := core.Join(dir, relName)
		if isDir {
			entries = append(entries, types.Prefix(name))
			continue
		}
		entries = append(entries, types.Object(name, object.Size, object.LastModified, object.ETag, detail))
	}

	// MinIO typically returns results sorted by key, but we enforce it
	sort.Slice(entries, func(i, j int) bool {
		return entries[i][core.KeyName].(string) < entries[j][core.KeyName].(string)
	})
	return entries, nil
}

// Info returns the detailed record of p.
func (m *MinioFS) Info(p string) (core.Info, error) {
	return m.info(context.Background(), "info", p, true)
}

// Exists reports whether p exists.
func (m *MinioFS) Exists(p string) (bool, error) {
	_, err := m.info(context.Background(), "exists", p, false)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, core.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// IsFile reports whether p is an object.
func (m *MinioFS) IsFile(p string) (bool, error) {
	info, err := m.info(context.Background(), "isfile", p, false)
	if errors.Is(err, core.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info[core.KeyType] == core.TypeFile, nil
}

// IsDir reports whether p is a virtual directory.
func (m *MinioFS) IsDir(p string) (bool, error) {
	info, err := m.info(context.Background(), "isdir", p, false)
	if errors.Is(err, core.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info[core.KeyType] == core.TypeDirectory, nil
}

// Size returns the size of the object p in bytes.
func (m *MinioFS) Size(p string) (int64, error) {
	ctx := context.Background()
	key := m.joinPath(p)
	obj, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return 0, m.missing(ctx, "size", p, key, err)
	}
	return obj.Size, nil
}

// Cat returns the whole content of the object p.
func (m *MinioFS) Cat(p string) ([]byte, error) {
	ctx := context.Background()
	key := m.joinPath(p)

	// Get size first to pre-allocate exact buffer size
	info, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, m.missing(ctx, "cat", p, key, err)
	}
	return m.readRange(ctx, "cat", p, key, 0, info.Size)
}

// Head returns at most the first n bytes of the object p.
func (m *MinioFS) Head(p string, n int64) ([]byte, error) {
	ctx := context.Background()
	key := m.joinPath(p)
	info, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, m.missing(ctx, "head", p, key, err)
	}
	return m.readRange(ctx, "head", p, key, 0, min(n, info.Size))
}

// Tail returns at most the last n bytes of the object p.
func (m *MinioFS) Tail(p string, n int64) ([]byte, error) {
	ctx := context.Background()
	key := m.joinPath(p)
	info, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, m.missing(ctx, "tail", p, key, err)
	}
	start := max(info.Size-n, 0)
	return m.readRange(ctx, "tail", p, key, start, info.Size-start)
}

// readRange reads length bytes of key starting at offset with a single
// ranged GET.
func (m *MinioFS) readRange(ctx context.Context, op, p, key string, offset, length int64) ([]byte, error) {
	if length <= 0 {
		// Ranged requests on empty objects are rejected by S3
		return []byte{}, nil
	}

	opts := minio.GetObjectOptions{}
	if err := opts.SetRange(offset, offset+length-1); err != nil {
		return nil, core.PathError(op, p, err)
	}

	obj, err := m.client.GetObject(ctx, m.bucket, key, opts)
	if err != nil {
		return nil, core.PathError(op, p, errs.Translate(err))
	}
	defer func() {
		_ = obj.Close()
	}()

	// Pre-allocate buffer with exact size for single allocation
	buf := make([]byte, length)
	n, err := io.ReadFull(obj, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, core.PathError(op, p, errs.Translate(err))
	}
	return buf[:n], nil
}

// WriteFS interface implementation

// Pipe uploads data as the object p, replacing any previous content.
// Parent directories are implicit.
func (m *MinioFS) Pipe(p string, data []byte) error {
	key := m.joinPath(p)
	if m.isRoot(key) {
		return core.PathError("pipe", p, core.ErrIsDir)
	}
	_, err := m.client.PutObject(context.Background(), m.bucket, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/octet-stream"})
	if err != nil {
		return core.PathError("pipe", p, errs.Translate(err))
	}
	return nil
}

// Touch creates an empty object, or refreshes the modification time of an
// existing one by copying it onto itself with new metadata. The content is
// discarded only when truncate is set.
func (m *MinioFS) Touch(p string, truncate bool) error {
	ctx := context.Background()
	key := m.joinPath(p)

	_, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
	switch {
	case err != nil && errs.IsNotFound(err):
		if isDir, _ := m.isPrefix(ctx, key); isDir || m.isRoot(key) {
			return core.PathError("touch", p, core.ErrIsDir)
		}
		return m.Pipe(p, nil)
	case err != nil:
		return core.PathError("touch", p, errs.Translate(err))
	case truncate:
		return m.Pipe(p, nil)
	}

	// S3 rejects a copy onto itself unless the metadata changes.
	src := minio.CopySrcOptions{Bucket: m.bucket, Object: key}
	dst := minio.CopyDestOptions{
		Bucket:          m.bucket,
		Object:          key,
		ReplaceMetadata: true,
		UserMetadata:    map[string]string{touchedKey: time.Now().UTC().Format(time.RFC3339Nano)},
	}
	if _, err := m.client.CopyObject(ctx, dst, src); err != nil {
		return core.PathError("touch", p, errs.Translate(err))
	}
	return nil
}

// Mkdir stores a directory marker for p. Without parents, p must not exist
// and its parent must be a directory.
func (m *MinioFS) Mkdir(p string, parents bool) error {
	ctx := context.Background()
	key := m.joinPath(p)

	info, err := m.info(ctx, "mkdir", p, false)
	switch {
	case err == nil && parents && info[core.KeyType] == core.TypeDirectory:
		return nil
	case err == nil:
		return core.PathError("mkdir", p, core.ErrExist)
	case !errors.Is(err, core.ErrNotExist):
		return err
	}

	if !parents {
		parent := pathutil.Display(p)
		if i := strings.LastIndex(parent, "/"); i >= 0 {
			parent = parent[:i]
		} else {
			parent = "."
		}
		if parent != "" && !m.isRoot(m.joinPath(parent)) {
			pinfo, err := m.info(ctx, "mkdir", parent, false)
			if err != nil {
				return err
			}
			if pinfo[core.KeyType] != core.TypeDirectory {
				return core.PathError("mkdir", parent, core.ErrNotDir)
			}
		}
	}

	// Parents are implicit once the marker exists below them
	_, err = m.client.PutObject(ctx, m.bucket, pathutil.DirPrefix(key),
		bytes.NewReader(nil), 0, minio.PutObjectOptions{})
	if err != nil {
		return core.PathError("mkdir", p, errs.Translate(err))
	}
	return nil
}

// ManageFS interface implementation

// Copy copies an object, or every object under a directory when recursive
// is set. Copying into an existing directory places src inside it.
func (m *MinioFS) Copy(src, dst string, recursive bool) error {
	ctx := context.Background()
	info, err := m.info(ctx, "copy", src, false)
	if err != nil {
		return err
	}
	isDir := info[core.KeyType] == core.TypeDirectory
	if isDir && !recursive {
		return core.PathError("copy", src, core.ErrIsDir)
	}

	target, err := core.CopyTarget(m, src, dst)
	if err != nil {
		return err
	}
	if !isDir {
		return m.copyObject(ctx, "copy", src, m.joinPath(src), m.joinPath(target))
	}

	_, err = m.parallelCopy(ctx, pathutil.DirPrefix(m.joinPath(src)), pathutil.DirPrefix(m.joinPath(target)))
	if err != nil {
		return core.PathError("copy", src, errs.Translate(err))
	}
	return nil
}

// Move renames src. In S3/MinIO, this is implemented as copy + delete.
//
// IMPORTANT: This operation is NOT atomic. If an error occurs during
// the copy phase, some objects may have been copied. If an error occurs
// during the delete phase, objects will exist at both old and new paths.
//
// For directories, this uses a bounded worker pool for parallel copies
// followed by batch deletion.
func (m *MinioFS) Move(src, dst string, recursive bool) error {
	ctx := context.Background()
	info, err := m.info(ctx, "move", src, false)
	if err != nil {
		return err
	}
	isDir := info[core.KeyType] == core.TypeDirectory
	if isDir && !recursive {
		return core.PathError("move", src, core.ErrIsDir)
	}

	target, err := core.CopyTarget(m, src, dst)
	if err != nil {
		return err
	}
	if !isDir {
		return m.renameFile(ctx, m.joinPath(src), m.joinPath(target), src)
	}

	// Parallel copy all objects
	copied, err := m.parallelCopy(ctx, pathutil.DirPrefix(m.joinPath(src)), pathutil.DirPrefix(m.joinPath(target)))
	if err != nil {
		return core.PathError("move", src, errs.Translate(err))
	}

	// Batch delete old objects
	toDelete := make(chan minio.ObjectInfo, len(copied))
	go func() {
		defer close(toDelete)
		for _, key := range copied {
			toDelete <- minio.ObjectInfo{Key: key}
		}
	}()

	for rerr := range m.client.RemoveObjects(ctx, m.bucket, toDelete, minio.RemoveObjectsOptions{}) {
		if rerr.Err != nil {
			// Copy succeeded but delete failed - partial state
			return core.PathError("move", src, errs.Translate(rerr.Err))
		}
	}
	return nil
}

// copyObject copies a single object with a server-side copy.
func (m *MinioFS) copyObject(ctx context.Context, op, p, srcKey, dstKey string) error {
	src := minio.CopySrcOptions{Bucket: m.bucket, Object: srcKey}
	dst := minio.CopyDestOptions{Bucket: m.bucket, Object: dstKey}
	if _, err := m.client.CopyObject(ctx, dst, src); err != nil {
		return core.PathError(op, p, errs.Translate(err))
	}
	return nil
}

// renameFile renames a single object (helper method).
func (m *MinioFS) renameFile(ctx context.Context, oldKey, newKey, oldpath string) error {
	if err := m.copyObject(ctx, "move", oldpath, oldKey, newKey); err != nil {
		return err
	}

	// Remove old object
	err := m.client.RemoveObject(ctx, m.bucket, oldKey, minio.RemoveObjectOptions{})
	if err != nil {
		return core.PathError("move", oldpath, errs.Translate(err))
	}
	return nil
}

// Remove removes an object or an empty directory, or every object under a
// directory when recursive is set.
func (m *MinioFS) Remove(p string, recursive bool) error {
	ctx := context.Background()
	key := m.joinPath(p)

	info, err := m.info(ctx, "remove", p, false)
	if err != nil {
		return err
	}
	if info[core.KeyType] == core.TypeFile {
		err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
		if err != nil {
			return core.PathError("remove", p, errs.Translate(err))
		}
		return nil
	}

	if !recursive {
		empty, err := m.onlyMarker(ctx, key)
		if err != nil {
			return core.PathError("remove", p, err)
		}
		if !empty {
			return core.PathError("remove", p, syscall.ENOTEMPTY)
		}
	}
	return m.removeAll(ctx, p, key)
}

// onlyMarker reports whether the directory key holds nothing but its
// marker object.
func (m *MinioFS) onlyMarker(ctx context.Context, key string) (bool, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	marker := pathutil.DirPrefix(key)
	for object := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
		Prefix:    marker,
		Recursive: true,
		MaxKeys:   2,
	}) {
		if object.Err != nil {
			return false, errs.Translate(object.Err)
		}
		if object.Key != marker {
			return false, nil
		}
	}
	return true, nil
}

// removeAll removes every object under the directory key.
func (m *MinioFS) removeAll(ctx context.Context, p, key string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	prefix := pathutil.DirPrefix(key)

	// Create channel for objects to delete
	objectsCh := make(chan minio.ObjectInfo, 100)

	// Launch lister goroutine
	var listErr error
	go func() {
		defer close(objectsCh)
		for object := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
			Prefix:    prefix,
			Recursive: true,
		}) {
			if object.Err != nil {
				listErr = object.Err
				return
			}
			objectsCh <- object
		}
	}()

	// Use RemoveObjects batch API for efficient deletion
	var errList []error
	for rerr := range m.client.RemoveObjects(ctx, m.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if rerr.Err != nil {
			errList = append(errList, rerr.Err)
		}
	}

	// Check for list error first
	if listErr != nil {
		return core.PathError("remove", p, errs.Translate(listErr))
	}
	if len(errList) > 0 {
		return core.PathError("remove", p, errs.Translate(errList[0]))
	}
	return nil
}

// parallelCopy copies objects from old to new prefix using a worker pool.
// Returns the list of successfully copied object keys for cleanup.
func (m *MinioFS) parallelCopy(ctx context.Context, oldPrefix, newPrefix string) ([]string, error) {
	// Create errgroup with concurrency limit
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(m.copyConcurrency)

	// Track copied objects for deletion
	var copiedMu sync.Mutex
	var copied []string

	// Stream objects and copy in parallel
	for object := range m.client.ListObjects(egCtx, m.bucket, minio.ListObjectsOptions{
		Prefix:    oldPrefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			_ = eg.Wait()
			return copied, object.Err
		}

		objectKey := object.Key
		eg.Go(func() error {
			newKey := newPrefix + strings.TrimPrefix(objectKey, oldPrefix)

			src := minio.CopySrcOptions{Bucket: m.bucket, Object: objectKey}
			dst := minio.CopyDestOptions{Bucket: m.bucket, Object: newKey}
			if _, err := m.client.CopyObject(egCtx, dst, src); err != nil {
				return fmt.Errorf("copy object %s to %s: %w", objectKey, newKey, err)
			}

			// Track for deletion
			copiedMu.Lock()
			copied = append(copied, objectKey)
			copiedMu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return copied, fmt.Errorf("parallel copy failed: %w", err)
	}
	return copied, nil
}

// GlobFS interface implementation

// Glob expands pattern by listing prefixes.
func (m *MinioFS) Glob(pattern string) iter.Seq2[string, error] {
	return glob.Match(m, pattern)
}

// Compile-time interface check.
var _ core.FileSystem = (*MinioFS)(nil)
