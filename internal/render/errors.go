package render

import (
	"errors"
	"fmt"

	"github.com/roach88/predsql/internal/expr"
)

// TranslateError represents a predicate that cannot be rendered.
//
// Translate errors include:
//   - Unmapped member: the predicate names a member with no column
//   - Unsupported node: a node kind, or an operator missing from the dialect
//   - Unsupported method: a call that is not one of the recognized shapes
//
// Rendering is all-or-nothing, so a TranslateError means no SQL was produced.
type TranslateError struct {
	// Code identifies the error category.
	Code TranslateErrorCode

	// Message is a human-readable description.
	Message string

	// Kind is the offending operator (unsupported node errors only).
	Kind expr.Kind

	// Method is the offending method (unsupported method errors only).
	Method string

	// Member is the offending member name (unmapped member errors only).
	Member string

	// Err is the underlying cause, if any.
	Err error
}

// TranslateErrorCode categorizes translate errors.
type TranslateErrorCode string

const (
	// ErrCodeUnmappedMember indicates a member has no column mapping.
	ErrCodeUnmappedMember TranslateErrorCode = "UNMAPPED_MEMBER"

	// ErrCodeUnsupportedNode indicates a node or operator the renderer
	// cannot express.
	ErrCodeUnsupportedNode TranslateErrorCode = "UNSUPPORTED_NODE"

	// ErrCodeUnsupportedMethod indicates an unrecognized method call.
	ErrCodeUnsupportedMethod TranslateErrorCode = "UNSUPPORTED_METHOD"
)

// Error implements the error interface.
func (e *TranslateError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *TranslateError) Unwrap() error { return e.Err }

// IsUnmappedMember returns true if the error is an unmapped member error.
// Uses errors.As to handle wrapped errors.
func IsUnmappedMember(err error) bool {
	return hasCode(err, ErrCodeUnmappedMember)
}

// IsUnsupportedNode returns true if the error is an unsupported node error.
func IsUnsupportedNode(err error) bool {
	return hasCode(err, ErrCodeUnsupportedNode)
}

// IsUnsupportedMethod returns true if the error is an unsupported method error.
func IsUnsupportedMethod(err error) bool {
	return hasCode(err, ErrCodeUnsupportedMethod)
}

func hasCode(err error, code TranslateErrorCode) bool {
	var te *TranslateError
	if errors.As(err, &te) {
		return te.Code == code
	}
	return false
}

func unmappedMember(member string, cause error) *TranslateError {
	return &TranslateError{
		Code:    ErrCodeUnmappedMember,
		Message: fmt.Sprintf("member %q has no column mapping", member),
		Member:  member,
		Err:     cause,
	}
}

func unsupportedOperator(kind expr.Kind, dialectName string) *TranslateError {
	return &TranslateError{
		Code:    ErrCodeUnsupportedNode,
		Message: fmt.Sprintf("operator %s is not supported by dialect %s", kind, dialectName),
		Kind:    kind,
	}
}

func unsupportedNode(format string, args ...any) *TranslateError {
	return &TranslateError{
		Code:    ErrCodeUnsupportedNode,
		Message: fmt.Sprintf(format, args...),
	}
}

func unsupportedMethod(method expr.Method, reason string) *TranslateError {
	msg := fmt.Sprintf("method %s is not supported", method)
	if reason != "" {
		msg = fmt.Sprintf("method %s: %s", method, reason)
	}
	return &TranslateError{
		Code:    ErrCodeUnsupportedMethod,
		Message: msg,
		Method:  method.String(),
	}
}
