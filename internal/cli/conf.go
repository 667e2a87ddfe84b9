package cli

import (
	"github.com/spf13/cobra"

	"github.com/candidtim/unifs/internal/tui"
)

func (a *App) confCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "conf",
		Short: "Change the application configuration settings",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Show the configuration file location",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				a.println(a.store.Path())
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List configured file systems",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return a.confList()
			},
		},
		&cobra.Command{
			Use:   "use NAME",
			Short: "Switch the active file system",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				return a.confUse(args[0])
			},
		},
	)
	return cmd
}

func (a *App) confList() error {
	cfg, err := a.store.Load()
	if err != nil {
		return err
	}

	current := cfg.CurrentName()
	var rows [][]any
	for _, name := range cfg.FileSystems() {
		tag := ""
		if name == current {
			tag = "*"
		}
		rows = append(rows, []any{tag, name, cfg.Protocol(name)})
	}
	a.println(tui.FormatTable([]string{"CURRENT", "NAME", "PROTOCOL"}, []int{8, 30, 15}, rows))
	return nil
}

func (a *App) confUse(name string) error {
	cfg, err := a.store.Load()
	if err != nil {
		return err
	}
	next, err := cfg.WithCurrent(name)
	if err != nil {
		return err
	}
	if err := a.store.Save(next); err != nil {
		return err
	}
	a.cache.Invalidate()

	a.println("Current active file system: " + a.styles.Current.Render(next.CurrentName()))
	return nil
}
