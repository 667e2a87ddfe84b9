// Command unifs runs file commands against the configured file system.
package main

import (
	"os"

	"github.com/candidtim/unifs/internal/cli"

	// Backends register themselves with the registry.
	_ "github.com/candidtim/unifs/fs/billy"
	_ "github.com/candidtim/unifs/fs/git"
	_ "github.com/candidtim/unifs/fs/github"
	_ "github.com/candidtim/unifs/fs/minio"
	_ "github.com/candidtim/unifs/fs/zip"
)

func main() {
	os.Exit(cli.NewApp().Run(os.Args[1:]))
}
