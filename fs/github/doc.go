// Package github provides a read-only core.FileSystem over the content of
// a GitHub repository at one commit, branch or tag, using the go-github
// SDK.
//
// Every operation is one or two calls to the repository contents API. No
// modification times are reported: the API does not expose them per file.
package github
