package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/predsql/internal/dialect"
)

// DialectInfo describes one registered dialect.
type DialectInfo struct {
	Name        string `json:"name"`
	Placeholder string `json:"placeholder"`
	Column      string `json:"column"`
	True        string `json:"true"`
	Default     bool   `json:"default,omitempty"`
}

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "dialects",
		Short:         "List the registered SQL dialects",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDialects(rootOpts, cmd)
		},
	}
}

func runDialects(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	var infos []DialectInfo
	for _, name := range dialect.Names() {
		f, _ := dialect.Get(name)
		infos = append(infos, DialectInfo{
			Name:        f.Name(),
			Placeholder: f.Placeholder(f.ParameterName(1)),
			Column:      f.Column("col"),
			True:        f.True(),
			Default:     strings.EqualFold(f.Name(), opts.Dialect),
		})
	}

	if formatter.Format == "json" {
		return formatter.Success(infos)
	}

	for _, info := range infos {
		marker := " "
		if info.Default {
			marker = "*"
		}
		fmt.Fprintf(formatter.Writer, "%s %-10s %-6s %-8s %s\n",
			marker, info.Name, info.Placeholder, info.Column, info.True)
	}
	return nil
}
