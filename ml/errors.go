package ml

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCategory means a categorical value has no label in the reference dataset.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrMissingField means the raw input lacks one of the feature fields.
	ErrMissingField = errors.New("missing field")
	// ErrTypeMismatch means a numeric field got a non-number or a categorical field a non-string.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrModelUnavailable means the model artifact could not be loaded.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrInvalidLabel means the model produced a class outside {0, 1}.
	ErrInvalidLabel = errors.New("invalid class label")
)

// FieldError ties an encoding failure to the offending field.
type FieldError struct {
	Field string
	Value any
	Err   error
}

func (e *FieldError) Error() string {
	switch {
	case errors.Is(e.Err, ErrMissingField):
		return fmt.Sprintf("field %s: %v", e.Field, e.Err)
	case errors.Is(e.Err, ErrUnknownCategory):
		return fmt.Sprintf("field %s: %v %q", e.Field, e.Err, e.Value)
	default:
		return fmt.Sprintf("field %s: %v (got %T)", e.Field, e.Err, e.Value)
	}
}

func (e *FieldError) Unwrap() error { return e.Err }

// Kind returns a stable identifier for the error class, used in API responses
// and metric labels.
func (e *FieldError) Kind() string {
	return ErrorKind(e.Err)
}

// ErrorKind maps an encoding or model error to a short identifier.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrUnknownCategory):
		return "unknown_category"
	case errors.Is(err, ErrMissingField):
		return "missing_field"
	case errors.Is(err, ErrTypeMismatch):
		return "type_mismatch"
	case errors.Is(err, ErrModelUnavailable):
		return "model_unavailable"
	case errors.Is(err, ErrInvalidLabel):
		return "invalid_label"
	default:
		return "internal"
	}
}
