package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/candidtim/unifs/errors"
	"github.com/candidtim/unifs/fs/core"
	"github.com/candidtim/unifs/fs/glob"
	"github.com/candidtim/unifs/internal/tui"
)

const (
	// defaultByteCount is the default of head and tail -c.
	defaultByteCount = 512

	// probeSize is how much of a file is read to decide whether it is
	// binary.
	probeSize = 1024
)

func (a *App) fileCommands() []*cobra.Command {
	return []*cobra.Command{
		a.lsCommand(),
		a.llCommand(),
		a.catCommand(),
		a.headCommand(),
		a.tailCommand(),
		a.touchCommand(),
		a.cpCommand(),
		a.mvCommand(),
		a.rmCommand(),
		a.mkdirCommand(),
	}
}

func (a *App) lsCommand() *cobra.Command {
	var long bool
	cmd := &cobra.Command{
		Use:   "ls [PATH]",
		Short: "List files in a directory, and optionally their details",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.ls(pathArg(args), long)
		},
	}
	cmd.Flags().BoolVarP(&long, "long", "l", false, "use long output format (provides more details)")
	return cmd
}

func (a *App) llCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ll [PATH]",
		Short: "List files in a directory in a long format (same as ls -l)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.ls(pathArg(args), true)
		},
	}
}

func pathArg(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}

func (a *App) ls(p string, long bool) error {
	fsys, err := a.fs()
	if err != nil {
		return err
	}
	if glob.HasMeta(p) {
		return a.glob(fsys, p, long)
	}

	format := tui.FormatShort
	if long {
		format = tui.FormatLong
	}

	// A directory lists its content, anything else lists itself.
	isDir, err := fsys.IsDir(p)
	if err != nil {
		return err
	}
	if !isDir {
		info, err := fsys.Info(p)
		if err != nil {
			return err
		}
		a.println(format(info))
		return nil
	}

	entries, err := fsys.Ls(p, true)
	if err != nil {
		return err
	}
	for _, info := range entries {
		a.println(format(info))
	}
	return nil
}

func (a *App) glob(fsys core.FileSystem, pattern string, long bool) error {
	if long && !a.confirm("Long output for a glob search may be slow and issue many requests. Continue?") {
		return nil
	}

	for name, err := range fsys.Glob(pattern) {
		if err != nil {
			return err
		}
		if !long {
			a.println(name)
			continue
		}
		info, err := fsys.Info(name)
		if err != nil {
			return err
		}
		a.println(tui.FormatLong(info))
	}
	return nil
}

// printable reports whether the content of p may be printed: p must be a
// file, and binary content needs a confirmation.
func (a *App) printable(fsys core.FileSystem, p string) (bool, error) {
	isFile, err := fsys.IsFile(p)
	if err != nil {
		return false, err
	}
	if !isFile {
		a.println("No such file")
		return false, nil
	}

	probe, err := fsys.Head(p, probeSize)
	if err != nil {
		return false, err
	}
	if tui.IsBinary(probe) && !a.confirm("The file appears to be binary. Continue?") {
		return false, nil
	}
	return true, nil
}

// write prints content followed by a newline when it lacks one.
func (a *App) write(content []byte) error {
	if _, err := a.Out.Write(content); err != nil {
		return err
	}
	if len(content) > 0 && content[len(content)-1] != '\n' {
		_, err := fmt.Fprintln(a.Out)
		return err
	}
	return nil
}

func (a *App) catCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cat PATH",
		Short: "Print file content",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			fsys, err := a.fs()
			if err != nil {
				return err
			}
			p := args[0]

			ok, err := a.printable(fsys, p)
			if err != nil || !ok {
				return err
			}

			size, err := fsys.Size(p)
			if err != nil {
				return err
			}
			if size >= tui.LargeFileSize && !a.confirm(fmt.Sprintf("The file is %s long. Are you sure?", tui.Bytes(size))) {
				return nil
			}

			content, err := fsys.Cat(p)
			if err != nil {
				return err
			}
			return a.write(content)
		},
	}
}

// rangeCommand builds head and tail, which differ only in the read.
func (a *App) rangeCommand(name, short string, read func(core.FileSystem, string, int64) ([]byte, error)) *cobra.Command {
	var count int64
	cmd := &cobra.Command{
		Use:   name + " PATH",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if count < 0 {
				return errors.Newf(errors.CodeInvalidInput, "%s: invalid number of bytes: %d", name, count)
			}
			fsys, err := a.fs()
			if err != nil {
				return err
			}
			p := args[0]

			ok, err := a.printable(fsys, p)
			if err != nil || !ok {
				return err
			}
			content, err := read(fsys, p, count)
			if err != nil {
				return err
			}
			return a.write(content)
		},
	}
	cmd.Flags().Int64VarP(&count, "bytes", "c", defaultByteCount, "print at most this number of bytes")
	return cmd
}

func (a *App) headCommand() *cobra.Command {
	return a.rangeCommand("head", "Print first bytes of the file content", func(fsys core.FileSystem, p string, n int64) ([]byte, error) {
		return fsys.Head(p, n)
	})
}

func (a *App) tailCommand() *cobra.Command {
	return a.rangeCommand("tail", "Print last bytes of the file content", func(fsys core.FileSystem, p string, n int64) ([]byte, error) {
		return fsys.Tail(p, n)
	})
}

func (a *App) touchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "touch PATH",
		Short: "Create a file or update its modification time",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			fsys, err := a.fs()
			if err != nil {
				return err
			}
			// Never truncate: touch must keep the content of existing files.
			return fsys.Touch(args[0], false)
		},
	}
}

// transferCommand builds cp and mv.
func (a *App) transferCommand(name, short string, run func(fsys core.FileSystem, src, dst string, recursive bool) error) *cobra.Command {
	var recursive bool
	cmd := &cobra.Command{
		Use:   name + " SRC DST",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			fsys, err := a.fs()
			if err != nil {
				return err
			}
			src, dst := args[0], args[1]
			if !recursive {
				if err := a.requireNotDir(fsys, name, src, "-r not specified; omitting directory"); err != nil {
					return err
				}
			}
			return run(fsys, src, dst, recursive)
		},
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "operate on directories recursively")
	return cmd
}

// requireNotDir fails with a recoverable error when p is a directory.
func (a *App) requireNotDir(fsys core.FileSystem, cmd, p, reason string) error {
	isDir, err := fsys.IsDir(p)
	if err != nil {
		return err
	}
	if isDir {
		err := errors.Newf(errors.CodeInvalidInput, "%s: %s '%s'", cmd, reason, p)
		return errors.WithContext(err, "path", p)
	}
	return nil
}

func (a *App) cpCommand() *cobra.Command {
	return a.transferCommand("cp", "Copy a file or a directory", core.FileSystem.Copy)
}

func (a *App) mvCommand() *cobra.Command {
	return a.transferCommand("mv", "Move a file or a directory", core.FileSystem.Move)
}

func (a *App) rmCommand() *cobra.Command {
	var recursive bool
	cmd := &cobra.Command{
		Use:   "rm PATH",
		Short: "Remove a file or a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			fsys, err := a.fs()
			if err != nil {
				return err
			}
			p := args[0]
			if !recursive {
				if err := a.requireNotDir(fsys, "rm", p, "cannot remove a directory without -r:"); err != nil {
					return err
				}
				return fsys.Remove(p, false)
			}

			isDir, err := fsys.IsDir(p)
			if err != nil {
				return err
			}
			if isDir && !a.confirm(fmt.Sprintf("Remove %s and everything in it?", p)) {
				return nil
			}
			return fsys.Remove(p, true)
		},
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "remove directories and their content")
	return cmd
}

func (a *App) mkdirCommand() *cobra.Command {
	var parents bool
	cmd := &cobra.Command{
		Use:   "mkdir PATH",
		Short: "Create a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			fsys, err := a.fs()
			if err != nil {
				return err
			}
			return fsys.Mkdir(args[0], parents)
		},
	}
	cmd.Flags().BoolVarP(&parents, "parents", "p", false, "create missing parent directories, no error if existing")
	return cmd
}
