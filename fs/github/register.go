package github

import (
	"github.com/candidtim/unifs/fs/core"
	"github.com/candidtim/unifs/fs/registry"
)

func init() {
	registry.Register(registry.Descriptor{
		Protocol:     ProtocolGitHub,
		Description:  "Read-only view of a GitHub repository",
		Requirements: "network access to the GitHub API; a token for private repositories",
		Params: []registry.Param{
			{Name: "org", Required: true, Description: "organization or user owning the repository"},
			{Name: "repo", Required: true, Description: "repository name"},
			{Name: "sha", Description: "commit, branch or tag; the default branch when empty"},
			{Name: "token", Description: "personal access token"},
			{Name: "base_url", Description: "API root of a GitHub Enterprise server"},
		},
	}, newGitHub)
}

func newGitHub(params registry.Params) (core.FileSystem, error) {
	var cfg Config
	if err := registry.Decode(params, &cfg); err != nil {
		return nil, err
	}
	return New(cfg)
}
