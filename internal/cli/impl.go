package cli

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/candidtim/unifs/errors"
	"github.com/candidtim/unifs/fs/registry"
	"github.com/candidtim/unifs/internal/tui"
)

// sampleName is the logical name used in sample configurations.
const sampleName = "MYFSNAME"

// Output formats of impl info.
const (
	formatText = "text"
	formatTOML = "toml"
	formatYAML = "yaml"
)

// implDocument is the machine-readable form of impl info.
type implDocument struct {
	Backend registry.Descriptor `yaml:"backend" toml:"backend"`
	Sample  map[string]any      `yaml:"sample" toml:"sample"`
}

func (a *App) implCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "impl",
		Short: "Get information about known file system implementations",
	}

	var format string
	info := &cobra.Command{
		Use:   "info NAME",
		Short: "Show details about a given file system implementation",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.implInfo(args[0], format)
		},
	}
	info.Flags().StringVar(&format, "format", formatText, "output format: text, toml or yaml")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List known file system implementations",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				a.implList()
				return nil
			},
		},
		info,
	)
	return cmd
}

func (a *App) implList() {
	var rows [][]any
	for _, d := range a.Registry.ListKnown() {
		rows = append(rows, []any{d.Protocol, d.Description, d.Requirements})
	}
	a.println(tui.FormatTable(
		[]string{"PROTOCOL", "DESCRIPTION", "REQUIREMENTS (if not available by default)"},
		[]int{15, 60, 120},
		rows,
	))
}

// sampleConfig nests the sample parameters of d under a logical name, as
// they appear in the configuration file.
func sampleConfig(d registry.Descriptor) map[string]any {
	return map[string]any{
		"unifs": map[string]any{
			"fs": map[string]any{sampleName: d.Sample()},
		},
	}
}

func (a *App) implInfo(name, format string) error {
	d, err := a.Registry.Describe(name)
	if err != nil {
		return err
	}

	switch format {
	case formatTOML:
		data, err := toml.Marshal(implDocument{Backend: d, Sample: d.Sample()})
		if err != nil {
			return errors.Wrap(err, errors.CodeInternal, "failed to encode backend description")
		}
		return a.write(data)
	case formatYAML:
		data, err := yaml.Marshal(implDocument{Backend: d, Sample: d.Sample()})
		if err != nil {
			return errors.Wrap(err, errors.CodeInternal, "failed to encode backend description")
		}
		return a.write(data)
	case formatText:
	default:
		return errors.Newf(errors.CodeInvalidInput, "unknown format %q: expected %s, %s or %s",
			format, formatText, formatTOML, formatYAML)
	}

	header := a.styles.Header
	a.println(header.Render("Description"))
	a.println("===========")
	a.println(d.Description)
	if d.Requirements != "" {
		a.println()
		a.println("Requires: " + d.Requirements)
	}
	a.println()

	if len(d.Params) > 0 {
		a.println(header.Render("Parameters"))
		a.println("==========")
		var rows [][]any
		for _, p := range d.Params {
			required := ""
			if p.Required {
				required = "yes"
			}
			def := ""
			if p.Default != nil {
				def = fmt.Sprint(p.Default)
			}
			rows = append(rows, []any{p.Name, required, def, p.Description})
		}
		a.println(tui.FormatTable([]string{"NAME", "REQUIRED", "DEFAULT", "DESCRIPTION"}, []int{20, 10, 15, 80}, rows))
		a.println()
	}

	a.println(header.Render("Sample configuration"))
	a.println("====================")
	data, err := toml.Marshal(sampleConfig(d))
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to encode sample configuration")
	}
	return a.write(data)
}
