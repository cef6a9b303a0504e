// Package errors provides structured error types for graft.
//
// Every failure surfaced by the transplant engine, the package codecs and the
// CLI carries a machine-readable [Code]:
//   - MISSING_ROOT, INVALID_ROOT: the requested actor cannot be transplanted
//   - DANGLING_IMPORT: a reference claims an import the donor does not have
//   - INVALID_*: malformed input (documents, flags, plan files)
//   - FILE_NOT_FOUND, INTERNAL_ERROR
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMissingRoot, "export %d not in donor", i)
//	if errors.Is(err, errors.ErrCodeMissingRoot) {
//	    // pick another actor
//	}
//
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Transplant errors
	ErrCodeMissingRoot    Code = "MISSING_ROOT"
	ErrCodeInvalidRoot    Code = "INVALID_ROOT"
	ErrCodeDanglingImport Code = "DANGLING_IMPORT"

	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidReference Code = "INVALID_REFERENCE"
	ErrCodeInvalidVersion   Code = "INVALID_VERSION"
	ErrCodeInvalidPlan      Code = "INVALID_PLAN"
	ErrCodeInvalidPath      Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"
	ErrCodeActorNotFound Code = "ACTOR_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error carries a [Code] alongside a message and an optional cause. Message
// is what the CLI prints; Error() adds the code and cause for logs.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an *Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with a cause attached.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// Is reports whether any *Error in err's chain carries code. A plan error
// wrapping a dangling import therefore matches both codes.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := outermost(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage strips the code prefix and cause from coded errors. Anything
// else is returned verbatim.
func UserMessage(err error) string {
	if e, ok := outermost(err); ok {
		return e.Message
	}
	return err.Error()
}

func outermost(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
