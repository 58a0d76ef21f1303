package student

import (
	"errors"
	"fmt"
)

var (
	ErrStudentNotFound = errors.New("student not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrDuplicateID     = errors.New("student id already exists")
	ErrEncoding        = errors.New("encoding failed")
	ErrDecoding        = errors.New("decoding failed")
)

// ValidationError is returned when a record cannot be mapped because a
// required value is missing or out of bounds.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// EncodingError is returned when an in-memory value has no stored representation.
type EncodingError struct {
	Field string
	Value any
	Err   error
}

func (e *EncodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot encode field %q value %v: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("cannot encode field %q value %v", e.Field, e.Value)
}

func (e *EncodingError) Is(target error) bool {
	return target == ErrEncoding
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// DecodingError is returned when a stored column value cannot be read back
// into its field.
type DecodingError struct {
	Column string
	Value  any
	Err    error
}

func (e *DecodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot decode column %q value %v: %v", e.Column, e.Value, e.Err)
	}
	return fmt.Sprintf("cannot decode column %q value %v", e.Column, e.Value)
}

func (e *DecodingError) Is(target error) bool {
	return target == ErrDecoding
}

func (e *DecodingError) Unwrap() error {
	return e.Err
}
