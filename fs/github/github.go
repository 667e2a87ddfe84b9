package github

import (
	"context"
	"errors"
	"io"
	"iter"
	"net/http"
	"path"
	"sort"
	"strings"

	"github.com/google/go-github/v67/github"

	platformerrors "github.com/candidtim/unifs/errors"
	"github.com/candidtim/unifs/fs/core"
	"github.com/candidtim/unifs/fs/glob"
)

// ProtocolGitHub is the protocol of the GitHub backend.
const ProtocolGitHub = "github"

// Config holds the parameters of the github protocol.
type Config struct {
	// Org is the owner of the repository, an organization or a user
	Org string `mapstructure:"org" validate:"required"`

	// Repo is the repository name, without the owner
	Repo string `mapstructure:"repo" validate:"required"`

	// SHA is the commit, branch or tag exposed; the default branch when empty
	SHA string `mapstructure:"sha"`

	// Token authenticates the API calls; anonymous when empty
	Token string `mapstructure:"token"`

	// BaseURL is the API root of a GitHub Enterprise server
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`

	// Client is an optional pre-configured go-github client
	// If provided, Token and BaseURL are ignored
	Client *github.Client `mapstructure:"-" validate:"-"`
}

// FS is a read-only view of a GitHub repository.
type FS struct {
	core.ReadOnly

	client *github.Client
	owner  string
	repo   string
	sha    string
}

// New creates a GitHub-backed filesystem. When no SHA is configured, the
// default branch of the repository is looked up.
func New(cfg Config) (*FS, error) {
	if cfg.Org == "" || cfg.Repo == "" {
		err := platformerrors.New(platformerrors.CodeInvalidConfig, "invalid file system parameters: 'org' and 'repo' are required")
		return nil, platformerrors.WithContext(err, "field", "org or repo")
	}

	client := cfg.Client
	if client == nil {
		client = github.NewClient(nil)
		if cfg.Token != "" {
			client = client.WithAuthToken(cfg.Token)
		}
		if cfg.BaseURL != "" {
			var err error
			client, err = client.WithEnterpriseURLs(cfg.BaseURL, cfg.BaseURL)
			if err != nil {
				return nil, platformerrors.Wrapf(err, platformerrors.CodeInvalidConfig, "invalid base_url %q", cfg.BaseURL)
			}
		}
	}

	f := &FS{client: client, owner: cfg.Org, repo: cfg.Repo, sha: cfg.SHA}
	if f.sha == "" {
		repo, resp, err := client.Repositories.Get(context.Background(), cfg.Org, cfg.Repo)
		if err != nil {
			return nil, wrapError(err, resp, "failed to get repository "+cfg.Org+"/"+cfg.Repo)
		}
		f.sha = repo.GetDefaultBranch()
	}
	return f, nil
}

// Protocol returns the protocol name of the backend.
func (f *FS) Protocol() string {
	return ProtocolGitHub
}

// Ref returns the commit, branch or tag exposed.
func (f *FS) Ref() string {
	return f.sha
}

// normalize turns p into a repository path, "" for the root.
func normalize(p string) string {
	return strings.Trim(path.Clean("/"+p), "/")
}

// display cleans the caller's spelling of p for use in entry names.
func display(p string) string {
	if p == "" {
		return "."
	}
	return path.Clean(p)
}

// contents fetches p: a file yields file, a directory yields its entries.
func (f *FS) contents(op, p string) (*github.RepositoryContent, []*github.RepositoryContent, error) {
	file, dir, resp, err := f.client.Repositories.GetContents(context.Background(), f.owner, f.repo,
		normalize(p), &github.RepositoryContentGetOptions{Ref: f.sha})
	if err != nil {
		if statusCode(err, resp) == http.StatusNotFound {
			return nil, nil, core.PathError(op, p, core.ErrNotExist)
		}
		return nil, nil, wrapError(err, resp, op+" "+p)
	}
	return file, dir, nil
}

// record renders a content entry as an info record.
func record(name string, c *github.RepositoryContent, detail bool) core.Info {
	info := core.Info{core.KeyName: name}
	switch c.GetType() {
	case "dir":
		info[core.KeyType] = core.TypeDirectory
	case "file", "symlink":
		info[core.KeyType] = core.TypeFile
	default:
		info[core.KeyType] = c.GetType()
	}
	if !detail {
		return info
	}
	if c.GetType() != "dir" {
		info[core.KeySize] = int64(c.GetSize())
	}
	if sha := c.GetSHA(); sha != "" {
		info["sha"] = sha
	}
	return info
}

func dirRecord(name string) core.Info {
	return core.Info{core.KeyName: name, core.KeyType: core.TypeDirectory}
}

// info returns the record of p.
func (f *FS) info(op, p string, detail bool) (core.Info, error) {
	if normalize(p) == "" {
		return dirRecord(display(p)), nil
	}
	file, _, err := f.contents(op, p)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return dirRecord(display(p)), nil
	}
	return record(display(p), file, detail), nil
}

// ReadFS interface implementation

// Ls lists the entries of the directory p, or the record of p itself when
// it is a file.
func (f *FS) Ls(p string, detail bool) ([]core.Info, error) {
	file, dir, err := f.contents("ls", p)
	if err != nil {
		return nil, err
	}
	if file != nil {
		return []core.Info{record(display(p), file, detail)}, nil
	}

	base := display(p)
	infos := make([]core.Info, 0, len(dir))
	for _, c := range dir {
		infos = append(infos, record(core.Join(base, c.GetName()), c, detail))
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i][core.KeyName].(string) < infos[j][core.KeyName].(string)
	})
	return infos, nil
}

// Info returns the detailed record of p.
func (f *FS) Info(p string) (core.Info, error) {
	return f.info("info", p, true)
}

// Exists reports whether p exists at the exposed ref.
func (f *FS) Exists(p string) (bool, error) {
	_, err := f.info("exists", p, false)
	if errors.Is(err, core.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// IsFile reports whether p is a file.
func (f *FS) IsFile(p string) (bool, error) {
	info, err := f.info("isfile", p, false)
	if errors.Is(err, core.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info[core.KeyType] == core.TypeFile, nil
}

// IsDir reports whether p is a directory.
func (f *FS) IsDir(p string) (bool, error) {
	info, err := f.info("isdir", p, false)
	if errors.Is(err, core.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info[core.KeyType] == core.TypeDirectory, nil
}

// Size returns the size of the file p in bytes.
func (f *FS) Size(p string) (int64, error) {
	file, err := f.file("size", p)
	if err != nil {
		return 0, err
	}
	return int64(file.GetSize()), nil
}

// file fetches p and fails unless it is a file.
func (f *FS) file(op, p string) (*github.RepositoryContent, error) {
	if normalize(p) == "" {
		return nil, core.PathError(op, p, core.ErrIsDir)
	}
	file, _, err := f.contents(op, p)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, core.PathError(op, p, core.ErrIsDir)
	}
	return file, nil
}

// Cat returns the content of the file p.
func (f *FS) Cat(p string) ([]byte, error) {
	file, err := f.file("cat", p)
	if err != nil {
		return nil, err
	}

	// Files over 1 MB come without inline content
	if file.GetEncoding() == "none" {
		return f.download("cat", p)
	}
	content, err := file.GetContent()
	if err != nil {
		return nil, core.PathError("cat", p, err)
	}
	return []byte(content), nil
}

// download fetches p through its raw download URL.
func (f *FS) download(op, p string) ([]byte, error) {
	rc, resp, err := f.client.Repositories.DownloadContents(context.Background(), f.owner, f.repo,
		normalize(p), &github.RepositoryContentGetOptions{Ref: f.sha})
	if err != nil {
		return nil, wrapError(err, resp, op+" "+p)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, core.PathError(op, p, err)
	}
	return data, nil
}

// Head returns at most the first n bytes of the file p.
func (f *FS) Head(p string, n int64) ([]byte, error) {
	data, err := f.Cat(p)
	if err != nil {
		return nil, err
	}
	return data[:min(max(n, 0), int64(len(data)))], nil
}

// Tail returns at most the last n bytes of the file p.
func (f *FS) Tail(p string, n int64) ([]byte, error) {
	data, err := f.Cat(p)
	if err != nil {
		return nil, err
	}
	return data[int64(len(data))-min(max(n, 0), int64(len(data))):], nil
}

// GlobFS interface implementation

// Glob expands pattern by listing directories through the API.
func (f *FS) Glob(pattern string) iter.Seq2[string, error] {
	return glob.Match(f, pattern)
}

// statusCode extracts the HTTP status of a failed call, 0 when unknown.
func statusCode(err error, resp *github.Response) int {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return ghErr.Response.StatusCode
	}
	if resp != nil {
		return resp.StatusCode
	}
	return 0
}

// wrapError wraps go-github errors with appropriate error codes.
func wrapError(err error, resp *github.Response, message string) error {
	if err == nil {
		return nil
	}

	switch statusCode(err, resp) {
	case http.StatusNotFound:
		return platformerrors.Wrap(err, platformerrors.CodeNotFound, message)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return platformerrors.Wrap(err, platformerrors.CodeInvalidInput, message)
	case 0:
		// Fallback to an unavailable backend for transport errors
		return platformerrors.Wrap(err, platformerrors.CodeBackendUnavailable, message)
	}
	return platformerrors.Wrapf(err, platformerrors.CodeBackendUnavailable, "%s: %v", message, err)
}

// Compile-time interface checks.
var _ core.FileSystem = (*FS)(nil)
