package glycan

import (
	"errors"
	"fmt"
)

// StructureError reports a malformed structure encoding or a valid
// residue graph that is not a recognized N-glycan.
//
// Structure errors are always fatal for the one glycan being parsed;
// callers attach the glycan ID when reporting.
type StructureError struct {
	// Text is the offending encoding (or the relevant excerpt).
	Text string

	// Offset is the byte position where parsing failed, or -1 when the
	// error concerns the whole structure (e.g. a failed core check).
	Offset int

	// Message describes what went wrong.
	Message string
}

// Error implements the error interface.
func (e *StructureError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("invalid structure at offset %d: %s", e.Offset, e.Message)
	}
	return fmt.Sprintf("invalid structure: %s", e.Message)
}

// CompositionError reports an invalid composition string.
type CompositionError struct {
	// Text is the offending composition string.
	Text string

	// Message describes what went wrong.
	Message string
}

// Error implements the error interface.
func (e *CompositionError) Error() string {
	return fmt.Sprintf("invalid composition %q: %s", e.Text, e.Message)
}

// IsStructureError reports whether err is (or wraps) a StructureError.
func IsStructureError(err error) bool {
	var se *StructureError
	return errors.As(err, &se)
}

// IsCompositionError reports whether err is (or wraps) a CompositionError.
func IsCompositionError(err error) bool {
	var ce *CompositionError
	return errors.As(err, &ce)
}
