package meta

import (
	"errors"
	"fmt"
)

// EvalErrorCode categorizes meta-property evaluation errors.
type EvalErrorCode string

const (
	// ErrCodeMissingProperty indicates a referenced meta-property
	// column does not exist (typo, or a mode mismatch).
	ErrCodeMissingProperty EvalErrorCode = "MISSING_PROPERTY"

	// ErrCodeTypeMismatch indicates an operation was applied to a
	// value of the wrong scalar type.
	ErrCodeTypeMismatch EvalErrorCode = "TYPE_MISMATCH"

	// ErrCodeUnknownLinkage indicates sialic-acid linkage information
	// was required but unspecified in a structure.
	ErrCodeUnknownLinkage EvalErrorCode = "UNKNOWN_LINKAGE"

	// ErrCodeUnsupportedMode indicates a property was evaluated
	// against a glycan variant it does not support.
	ErrCodeUnsupportedMode EvalErrorCode = "UNSUPPORTED_MODE"
)

// EvalError reports a meta-property evaluation failure.
// Fatal for the one computation it occurs in; never retried.
type EvalError struct {
	// Code identifies the error category.
	Code EvalErrorCode

	// Property is the meta-property name, when known.
	Property string

	// GlycanID identifies the affected glycan, when known.
	GlycanID string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *EvalError) Error() string {
	switch {
	case e.Property != "" && e.GlycanID != "":
		return fmt.Sprintf("%s: %s (property=%s, glycan=%s)", e.Code, e.Message, e.Property, e.GlycanID)
	case e.Property != "":
		return fmt.Sprintf("%s: %s (property=%s)", e.Code, e.Message, e.Property)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// IsMissingProperty reports whether err is a missing-property error.
// Uses errors.As to handle wrapped errors.
func IsMissingProperty(err error) bool {
	var ee *EvalError
	return errors.As(err, &ee) && ee.Code == ErrCodeMissingProperty
}

// IsUnknownLinkage reports whether err is an unknown-linkage error.
func IsUnknownLinkage(err error) bool {
	var ee *EvalError
	return errors.As(err, &ee) && ee.Code == ErrCodeUnknownLinkage
}

// IsTypeMismatch reports whether err is a type-mismatch error.
func IsTypeMismatch(err error) bool {
	var ee *EvalError
	return errors.As(err, &ee) && ee.Code == ErrCodeTypeMismatch
}
