package model

import (
	"errors"
	"fmt"

	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// ErrUnmappedMember matches any *UnmappedMemberError via errors.Is.
var ErrUnmappedMember = errors.New("unmapped member")

// UnmappedMemberError reports a member with no column mapping.
type UnmappedMemberError struct {
	Model  string
	Member string
}

func (e *UnmappedMemberError) Error() string {
	return fmt.Sprintf("model %s: unmapped member %q", e.Model, e.Member)
}

// Is reports whether target is ErrUnmappedMember.
func (e *UnmappedMemberError) Is(target error) bool {
	return target == ErrUnmappedMember
}

// CompileError represents a model declaration error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	first := errs[0]
	positions := cueerrors.Positions(first)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
