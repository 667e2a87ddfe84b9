// Package cli implements the unifs command line.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/candidtim/unifs/config"
	"github.com/candidtim/unifs/errors"
	"github.com/candidtim/unifs/fs/cache"
	"github.com/candidtim/unifs/fs/core"
	"github.com/candidtim/unifs/fs/registry"
	"github.com/candidtim/unifs/internal/logging"
	"github.com/candidtim/unifs/internal/tui"
)

// Exit codes.
const (
	ExitOK          = 0
	ExitRecoverable = 1
	ExitFatal       = 2
)

// App holds the state shared by all commands of one invocation.
type App struct {
	// Registry resolves protocols. Nil means registry.Default.
	Registry *registry.Registry

	// In, Out and Err default to the process streams.
	In  io.Reader
	Out io.Writer
	Err io.Writer

	// ErrorLog is where unexpected errors are recorded. Empty means
	// logging.ErrorLogPath.
	ErrorLog string

	configPath string
	assumeYes  bool
	logLevel   string

	store    *config.Store
	cache    *cache.Cache
	prompter *tui.Prompter
	styles   tui.Styles
	logger   *logging.Logger

	// started is set once a command body runs; errors before that are
	// usage errors.
	started bool
}

// NewApp creates an App wired to the process streams.
func NewApp() *App {
	return &App{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

func (a *App) defaults() {
	if a.Registry == nil {
		a.Registry = registry.Default
	}
	if a.In == nil {
		a.In = os.Stdin
	}
	if a.Out == nil {
		a.Out = os.Stdout
	}
	if a.Err == nil {
		a.Err = os.Stderr
	}
	a.styles = tui.NewStyles(a.Out)
}

// Run executes the command line args and returns the process exit code.
func (a *App) Run(args []string) int {
	a.defaults()

	root := a.NewRootCommand()
	root.SetArgs(args)
	root.SetIn(a.In)
	root.SetOut(a.Out)
	root.SetErr(a.Err)

	err := root.Execute()
	if err == nil {
		return ExitOK
	}
	return a.handleError(root, args, err)
}

// handleError prints err and picks the exit code. Usage and recoverable
// errors are printed; anything else is logged to the error log.
func (a *App) handleError(root *cobra.Command, args []string, err error) int {
	if !a.started && errors.GetCode(err) == errors.CodeUnknown {
		fmt.Fprintln(a.Err, tui.NewStyles(a.Err).Error.Render("Error: "+err.Error()))
		fmt.Fprintf(a.Err, "Run '%s --help' for usage.\n", root.CommandPath())
		return ExitRecoverable
	}

	if errors.IsRecoverable(err) {
		fmt.Fprintln(a.Err, tui.NewStyles(a.Err).Error.Render(errors.UserMessage(err)))
		return ExitRecoverable
	}

	path, logErr := a.logFatal(args, err)
	if logErr != nil {
		fmt.Fprintf(a.Err, "Unexpected error: %v\n", err)
		fmt.Fprintf(a.Err, "The error could not be logged: %v\n", logErr)
		return ExitFatal
	}
	fmt.Fprintf(a.Err, "Unexpected error. Details were written to %s\n", path)
	return ExitFatal
}

// logFatal appends err to the error log and returns the log location.
func (a *App) logFatal(args []string, err error) (string, error) {
	path := a.ErrorLog
	if path == "" {
		var pathErr error
		path, pathErr = logging.ErrorLogPath()
		if pathErr != nil {
			return "", pathErr
		}
	}

	f, openErr := logging.OpenFile(path)
	if openErr != nil {
		return "", openErr
	}
	defer f.Close()

	logger := logging.NewLogger(logging.LogConfig{Level: logging.LogLevelError, Output: f})
	logger.Error("unexpected error",
		"args", args,
		"error", err.Error(),
		"type", fmt.Sprintf("%T", err),
		"code", string(errors.GetCode(err)),
	)
	return path, nil
}

// setup runs before every command: it configures logging, makes sure a
// configuration file exists and prepares the file system cache.
func (a *App) setup(cmd *cobra.Command, _ []string) error {
	level, err := logging.ParseLogLevel(a.logLevel)
	if err != nil {
		return errors.Wrap(err, errors.CodeInvalidInput, err.Error())
	}
	a.logger = logging.NewLogger(logging.LogConfig{Level: level, Output: a.Err})
	logging.SetDefault(a.logger)
	a.Registry.SetLogger(a.logger)

	a.store, err = config.NewStore(a.configPath)
	if err != nil {
		return err
	}
	if err := a.store.Ensure(); err != nil {
		return err
	}

	a.cache = cache.New(a.store, a.Registry).WithLogger(a.logger)
	a.prompter = tui.NewPrompter(a.In, a.Out, a.assumeYes)
	a.started = true
	return nil
}

// fs returns the current file system.
func (a *App) fs() (core.FileSystem, error) {
	return a.cache.Current()
}

// confirm asks question unless --yes was given.
func (a *App) confirm(question string) bool {
	return a.prompter.Confirm(question)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.Out, args...)
}

// NewRootCommand builds the command tree.
func (a *App) NewRootCommand() *cobra.Command {
	if a.Registry == nil {
		a.defaults()
	}

	root := &cobra.Command{
		Use:   "unifs",
		Short: "One command line for many file systems",
		Long: `unifs runs the usual file commands (ls, cat, cp, rm, ...) against the
file system selected in its configuration: the local disk, an S3 bucket,
a git repository, a GitHub repository or a zip archive.`,
		PersistentPreRunE: a.setup,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	root.PersistentFlags().BoolVarP(&a.assumeYes, "yes", "y", false, "answer yes to all confirmations")
	root.PersistentFlags().StringVar(&a.configPath, "config", "",
		fmt.Sprintf("configuration file (default $%s or the user config directory)", config.EnvPath))
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddGroup(
		&cobra.Group{ID: "fs", Title: "File commands:"},
		&cobra.Group{ID: "settings", Title: "Settings:"},
	)

	for _, cmd := range a.fileCommands() {
		cmd.GroupID = "fs"
		root.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{a.confCommand(), a.implCommand()} {
		cmd.GroupID = "settings"
		root.AddCommand(cmd)
	}
	return root
}
