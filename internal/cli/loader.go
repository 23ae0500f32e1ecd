package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/predsql/internal/model"
	"github.com/roach88/predsql/internal/render"
)

// LoadResult contains the models loaded from a directory.
type LoadResult struct {
	Models    []*model.Descriptor
	FileCount int // Number of CUE files found
}

// Model returns the descriptor named name.
func (r *LoadResult) Model(name string) (*model.Descriptor, bool) {
	for _, d := range r.Models {
		if d.Name() == name {
			return d, true
		}
	}
	return nil, false
}

// LoadError represents an error that occurred during model loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Details returns the error position, or nil when there is none.
func (e *LoadError) Details() any {
	if !e.Pos.IsValid() {
		return nil
	}
	return &ErrorDetails{File: e.Pos.Filename(), Line: e.Pos.Line(), Column: e.Pos.Column()}
}

// LoadModels loads and compiles every CUE model declared in dir.
// All model errors are collected; a nil result means the directory itself
// could not be loaded.
func LoadModels(dir string) (*LoadResult, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("models directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing models directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	result := &LoadResult{FileCount: len(cueFiles)}
	if !value.LookupPath(cue.ParsePath("model")).Exists() {
		return result, []error{&LoadError{Code: ErrCodeNoModels, Message: "no models found"}}
	}

	models, compileErrs := model.CompileCUEModels(value)
	result.Models = models

	errs := make([]error, 0, len(compileErrs))
	for _, err := range compileErrs {
		errs = append(errs, convertCompileError(err))
	}
	return result, errs
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError converts a model compile error to a LoadError with position info.
func convertCompileError(err error) *LoadError {
	var compileErr *model.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: fmt.Sprintf("%s: %s", compileErr.Field, compileErr.Message),
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed

	// Model declaration errors
	ErrCodeNoModels      = "E100" // No model field
	ErrCodeModelMembers  = "E101" // Missing or malformed members
	ErrCodeMemberType    = "E102" // Missing or unsupported member type
	ErrCodeModelField    = "E103" // Malformed set/key/column
	ErrCodeModelConflict = "E104" // Duplicate member or column

	// Predicate errors
	ErrCodePredicate         = "E200" // Malformed predicate document
	ErrCodeUnmappedMember    = "E201" // Member has no column
	ErrCodeUnsupportedNode   = "E202" // Expression cannot be translated
	ErrCodeUnsupportedMethod = "E203" // Method call cannot be translated
	ErrCodeUnknownModel      = "E204" // Predicate names an undeclared model

	// Database errors
	ErrCodeDatabase = "E301" // Open or query failed
)

// MapFieldToErrorCode maps a model compile error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch {
	case field == "members":
		return ErrCodeModelMembers
	case strings.HasPrefix(field, "members.") && strings.HasSuffix(field, ".type"):
		return ErrCodeMemberType
	case field == "set", field == "key", field == "column", field == "type":
		return ErrCodeModelField
	case strings.HasPrefix(field, "model."):
		return ErrCodeModelConflict
	default:
		return ErrCodeGeneric
	}
}

// translateErrorCode maps a predicate translation failure to an error code.
func translateErrorCode(err error) string {
	switch {
	case render.IsUnmappedMember(err):
		return ErrCodeUnmappedMember
	case render.IsUnsupportedNode(err):
		return ErrCodeUnsupportedNode
	case render.IsUnsupportedMethod(err):
		return ErrCodeUnsupportedMethod
	default:
		return ErrCodeGeneric
	}
}
