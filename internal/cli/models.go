package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// ModelInfo describes one declared model.
type ModelInfo struct {
	Name    string       `json:"name"`
	Set     string       `json:"set"`
	Key     string       `json:"key,omitempty"`
	Members []MemberInfo `json:"members"`
}

// MemberInfo describes one member mapping.
type MemberInfo struct {
	Name       string `json:"name"`
	Column     string `json:"column"`
	Kind       string `json:"kind"`
	Length     int    `json:"length,omitempty"`
	Serialized bool   `json:"serialized,omitempty"`
}

// NewModelsCommand creates the models command.
func NewModelsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the declared models and their column mappings",
		Long: `Compile the CUE model declarations in the models directory and
list each model's set, key and member-to-column mappings.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModels(rootOpts, cmd)
		},
	}
	return cmd
}

func runModels(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	loadResult, loadErrors := LoadModels(opts.ModelsDir)
	if loadResult == nil {
		return outputLoadError(formatter, loadErrors[0])
	}
	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, opts.ModelsDir)
	if len(loadErrors) > 0 {
		return outputLoadErrors(formatter, loadErrors)
	}

	infos := make([]ModelInfo, 0, len(loadResult.Models))
	for _, d := range loadResult.Models {
		info := ModelInfo{Name: d.Name(), Set: d.Set(), Key: d.KeyColumn()}
		for _, m := range d.Members() {
			info.Members = append(info.Members, MemberInfo{
				Name:       m.Name,
				Column:     m.Column,
				Kind:       m.Kind.String(),
				Length:     m.Length,
				Serialized: m.Serialized,
			})
		}
		infos = append(infos, info)
	}

	if formatter.Format == "json" {
		return formatter.Success(infos)
	}

	fmt.Fprintf(formatter.Writer, "✓ %d model(s)\n", len(infos))
	for _, info := range infos {
		fmt.Fprintf(formatter.Writer, "\n%s -> %s", info.Name, info.Set)
		if info.Key != "" {
			fmt.Fprintf(formatter.Writer, " (key %s)", info.Key)
		}
		fmt.Fprintln(formatter.Writer)
		for _, m := range info.Members {
			fmt.Fprintf(formatter.Writer, "  %s: %s %s\n", m.Name, m.Column, m.Kind)
		}
	}
	return nil
}

// outputLoadErrors reports every model compile error. The first one is the
// response error; all of them are in data.
func outputLoadErrors(formatter *OutputFormatter, errs []error) error {
	cliErrors := make([]CLIError, len(errs))
	for i, err := range errs {
		cliErrors[i] = CLIError{Code: ErrCodeGeneric, Message: err.Error()}
		var le *LoadError
		if errors.As(err, &le) {
			cliErrors[i].Code = le.Code
			cliErrors[i].Details = le.Details()
		}
	}

	if formatter.Format == "json" {
		_ = formatter.Error(cliErrors[0].Code, cliErrors[0].Message, cliErrors)
	} else {
		for _, e := range cliErrors {
			fmt.Fprintf(formatter.Writer, "Error [%s]: %s\n", e.Code, e.Message)
		}
	}
	return WrapExitError(ExitCommandError, fmt.Sprintf("%d model error(s)", len(errs)), nil)
}
