package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/predsql/internal/config"
)

// RootOptions holds global flags for all commands.
// After PersistentPreRunE they hold the resolved configuration.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string
	Dialect    string
	ModelsDir  string
	Database   string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the predsql CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "predsql",
		Short: "predsql - predicates to parameterized SQL",
		Long:  "Translate predicate documents into dialect-specific, parameterized SQL WHERE fragments.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return opts.resolve(cmd)
		},
		// Errors are printed by main, or by the command's formatter.
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", config.DefaultFormat, "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default ./predsql.yaml)")
	cmd.PersistentFlags().StringVar(&opts.Dialect, "dialect", config.DefaultDialect, "SQL dialect")
	cmd.PersistentFlags().StringVar(&opts.ModelsDir, "models-dir", config.DefaultModelsDir, "directory of CUE model declarations")
	cmd.PersistentFlags().StringVar(&opts.Database, "database", "", "SQLite database path")

	// Add subcommands
	cmd.AddCommand(NewRenderCommand(opts))
	cmd.AddCommand(NewModelsCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewDialectsCommand(opts))

	return cmd
}

// resolve layers the config file and environment under the flags that
// were set explicitly.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	cfg, err := config.Load(o.ConfigFile, cmd.Flags())
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}
	o.Verbose = cfg.Verbose
	o.Format = cfg.Format
	o.Dialect = cfg.Dialect
	o.ModelsDir = cfg.ModelsDir
	o.Database = cfg.Database
	return nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
