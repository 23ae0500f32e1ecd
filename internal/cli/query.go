package cli

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/roach88/predsql/internal/model"
	"github.com/roach88/predsql/internal/render"
	"github.com/roach88/predsql/internal/store"
)

// QueryResult is the rows matched by a predicate.
type QueryResult struct {
	Model string      `json:"model"`
	Count int         `json:"count"`
	Rows  []store.Row `json:"rows"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "query <predicate.yaml>",
		Short: "Run a predicate against a SQLite database",
		Long: `Render a predicate and run it against the SQLite database named by
--database (or the "database" config setting). Rows are printed keyed by
member name.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(rootOpts, args[0], cmd)
		},
	}
}

func runQuery(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	if opts.Database == "" {
		return formatter.Fail(ErrCodeNotFound, "no database configured: use --database", nil)
	}
	if _, err := os.Stat(opts.Database); err != nil {
		return formatter.Fail(ErrCodeNotFound, fmt.Sprintf("database not found: %s", opts.Database), nil)
	}

	p, err := preparePredicate(opts, formatter, path)
	if err != nil {
		return err
	}

	level := hclog.Warn
	if opts.Verbose {
		level = hclog.Debug
	}
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "predsql",
		Level:  level,
		Output: formatter.GetErrWriter(),
	}).With("trace_id", formatter.TraceID)

	s, err := store.Open(opts.Database, store.WithDialect(p.fragments), store.WithLogger(logger))
	if err != nil {
		return formatter.Fail(ErrCodeDatabase, err.Error(), nil)
	}
	defer s.Close()

	rows, err := s.Table(p.model).Where(cmd.Context(), p.doc.Where)
	if err != nil {
		var te *render.TranslateError
		if errors.As(err, &te) {
			return outputTranslateError(formatter, err)
		}
		return formatter.Fail(ErrCodeDatabase, err.Error(), nil)
	}

	result := QueryResult{Model: p.model.Name(), Count: len(rows), Rows: rows}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ %d row(s)\n", result.Count)
	for _, row := range rows {
		fmt.Fprintln(formatter.Writer, formatRow(row, p.model))
	}
	return nil
}

// formatRow renders a row as "Name=value" pairs in declaration order.
// Columns with no member follow, sorted by name.
func formatRow(row store.Row, d *model.Descriptor) string {
	parts := make([]string, 0, len(row))
	seen := make(map[string]bool, len(row))
	for _, m := range d.Members() {
		if v, ok := row[m.Name]; ok {
			parts = append(parts, fmt.Sprintf("%s=%v", m.Name, v))
			seen[m.Name] = true
		}
	}

	var extra []string
	for k := range row {
		if !seen[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		parts = append(parts, fmt.Sprintf("%s=%v", k, row[k]))
	}
	return "  " + strings.Join(parts, " ")
}
