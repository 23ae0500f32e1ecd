package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/predsql/internal/dialect"
	"github.com/roach88/predsql/internal/expr"
	"github.com/roach88/predsql/internal/model"
	"github.com/roach88/predsql/internal/render"
	"github.com/roach88/predsql/internal/store"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Select bool // wrap the fragment in the model's SELECT statement
}

// RenderResult is the rendered predicate.
type RenderResult struct {
	Dialect string          `json:"dialect"`
	Model   string          `json:"model"`
	SQL     string          `json:"sql"`
	Params  []RenderedParam `json:"params"`
}

// RenderedParam is one parameter binding in output order.
type RenderedParam struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render <predicate.yaml>",
		Short: "Render a predicate as a parameterized WHERE fragment",
		Long: `Render a predicate document as SQL for the configured dialect.

The predicate's model is looked up in the CUE models directory. The output
is the WHERE fragment and its parameter bindings in placeholder order.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Select, "select", false, "print the full SELECT statement")

	return cmd
}

func runRender(opts *RenderOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	p, err := preparePredicate(opts.RootOptions, formatter, path)
	if err != nil {
		return err
	}

	wp, err := render.New(p.fragments, p.model).Render(p.doc.Where)
	if err != nil {
		return outputTranslateError(formatter, err)
	}

	sql := wp.SQL
	if opts.Select {
		sql = store.PrepareStatements(p.fragments, p.model).Where(wp.SQL)
	}

	result := RenderResult{
		Dialect: p.fragments.Name(),
		Model:   p.model.Name(),
		SQL:     sql,
		Params:  make([]RenderedParam, 0, wp.Len()),
	}
	for _, b := range wp.Params {
		result.Params = append(result.Params, RenderedParam{Name: b.Name, Value: b.Value})
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintln(formatter.Writer, result.SQL)
	for _, param := range result.Params {
		fmt.Fprintf(formatter.Writer, "  %s = %#v\n", p.fragments.Placeholder(param.Name), param.Value)
	}
	return nil
}

// prepared is a predicate document resolved against its model and dialect.
type prepared struct {
	doc       *expr.Document
	model     *model.Descriptor
	fragments *dialect.Fragments
}

// preparePredicate loads the predicate at path, the models directory and
// the configured dialect. Failures are reported through formatter.
func preparePredicate(opts *RootOptions, formatter *OutputFormatter, path string) (*prepared, error) {
	fragments, err := dialect.Lookup(opts.Dialect)
	if err != nil {
		return nil, formatter.Fail(ErrCodeGeneric, err.Error(), nil)
	}

	doc, err := expr.LoadYAML(path)
	if err != nil {
		return nil, formatter.Fail(ErrCodePredicate, err.Error(), predicateDetails(path, err))
	}
	formatter.VerboseLog("Predicate: %s", doc.Where.String())

	loadResult, loadErrors := LoadModels(opts.ModelsDir)
	if loadResult == nil {
		return nil, outputLoadError(formatter, loadErrors[0])
	}
	for _, err := range loadErrors {
		formatter.VerboseLog("Skipping model: %v", err)
	}

	d, err := selectModel(loadResult, doc.Model)
	if err != nil {
		return nil, formatter.Fail(ErrCodeUnknownModel, err.Error(), nil)
	}
	formatter.VerboseLog("Model %s -> %s (%s)", d.Name(), d.Set(), fragments.Name())

	return &prepared{doc: doc, model: d, fragments: fragments}, nil
}

// selectModel returns the named model. An unnamed predicate uses the only
// model declared.
func selectModel(r *LoadResult, name string) (*model.Descriptor, error) {
	if name == "" {
		if len(r.Models) == 1 {
			return r.Models[0], nil
		}
		return nil, fmt.Errorf("predicate names no model and %d models are declared", len(r.Models))
	}
	d, ok := r.Model(name)
	if !ok {
		return nil, fmt.Errorf("model %q is not declared", name)
	}
	return d, nil
}

// outputLoadError reports a models directory failure.
func outputLoadError(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return formatter.Fail(loadErr.Code, loadErr.Message, loadErr.Details())
	}
	return formatter.Fail(ErrCodeGeneric, err.Error(), nil)
}

// outputTranslateError reports an untranslatable predicate.
func outputTranslateError(formatter *OutputFormatter, err error) error {
	var te *render.TranslateError
	if !errors.As(err, &te) {
		return formatter.Fail(ErrCodeGeneric, err.Error(), nil)
	}

	details := &ErrorDetails{
		Reason: string(te.Code),
		Method: te.Method,
		Member: te.Member,
	}
	if te.Kind != 0 {
		details.Kind = te.Kind.String()
	}
	return formatter.Fail(translateErrorCode(err), te.Message, details)
}

// predicateDetails locates a malformed predicate document.
func predicateDetails(path string, err error) *ErrorDetails {
	details := &ErrorDetails{File: path}
	var de *expr.DecodeError
	if errors.As(err, &de) {
		details.Line = de.Line
		details.Column = de.Column
	}
	return details
}
