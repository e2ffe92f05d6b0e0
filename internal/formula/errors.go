package formula

import (
	"errors"
	"fmt"
)

// ParseError reports a malformed formula expression.
// Formulas with a non-matching overall shape are rejected wholesale;
// there is no partial parse.
type ParseError struct {
	// Expression is the full expression being parsed.
	Expression string

	// Offending is the substring parsing failed on, when narrower
	// than the whole expression.
	Offending string

	// Message describes what went wrong.
	Message string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Offending != "" && e.Offending != e.Expression {
		return fmt.Sprintf("invalid formula expression %q at %q: %s", e.Expression, e.Offending, e.Message)
	}
	return fmt.Sprintf("invalid formula expression %q: %s", e.Expression, e.Message)
}

// FileError reports a malformed formula file. File errors abort the
// whole file load.
type FileError struct {
	// Path is the file path, when known.
	Path string

	// Line is the 1-based line number the error was detected on.
	Line int

	// Message describes what went wrong.
	Message string

	// Err is the underlying error, when the line failed for a reason
	// of its own (a bad expression).
	Err error
}

// Error implements the error interface.
func (e *FileError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("formula file %s, line %d: %s", e.Path, e.Line, msg)
	}
	return fmt.Sprintf("formula file line %d: %s", e.Line, msg)
}

func (e *FileError) Unwrap() error { return e.Err }

// EvalErrorCode categorizes formula evaluation contract violations.
type EvalErrorCode string

const (
	// ErrCodeNotInitialized indicates CalcTrait was called before
	// Initialize. A programming-contract violation, never retried.
	ErrCodeNotInitialized EvalErrorCode = "NOT_INITIALIZED"

	// ErrCodeShapeMismatch indicates the abundance table's columns do
	// not match the initialized glycan-id order. Not auto-corrected:
	// reindexing on every calculation would be an expensive no-op in
	// the common, already-aligned case.
	ErrCodeShapeMismatch EvalErrorCode = "SHAPE_MISMATCH"
)

// EvalError reports a formula evaluation contract violation.
type EvalError struct {
	// Code identifies the error category.
	Code EvalErrorCode

	// Formula is the formula name.
	Formula string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *EvalError) Error() string {
	return fmt.Sprintf("%s: %s (formula=%s)", e.Code, e.Message, e.Formula)
}

// IsParseError reports whether err is (or wraps) a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsFileError reports whether err is (or wraps) a FileError.
func IsFileError(err error) bool {
	var fe *FileError
	return errors.As(err, &fe)
}

// IsNotInitialized reports whether err is a usage-order error.
func IsNotInitialized(err error) bool {
	var ee *EvalError
	return errors.As(err, &ee) && ee.Code == ErrCodeNotInitialized
}

// IsShapeMismatch reports whether err is a shape-mismatch error.
func IsShapeMismatch(err error) bool {
	var ee *EvalError
	return errors.As(err, &ee) && ee.Code == ErrCodeShapeMismatch
}
