package models

import "fmt"

// ErrorKind classifies a failure surfaced to callers.
type ErrorKind string

const (
	// KindNotFound means a requested identifier or date is absent upstream.
	KindNotFound ErrorKind = "not_found"
	// KindUnknown covers transport faults, shape mismatches and unexpected provider errors.
	KindUnknown ErrorKind = "unknown"
	// KindInvalid is a validation failure raised before any provider call.
	KindInvalid ErrorKind = "invalid"
)

// Error is a typed, caller-facing failure.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Field   string    `json:"field,omitempty"`
	Value   string    `json:"value,omitempty"`
	Message string    `json:"message,omitempty"`
}

// NotFound reports that value, supplied as field, does not exist upstream.
func NotFound(field, value string) Error {
	return Error{Kind: KindNotFound, Field: field, Value: value}
}

// Unknown reports a downstream failure with no further detail.
func Unknown() Error {
	return Error{Kind: KindUnknown}
}

// Invalid reports a validation failure on field.
func Invalid(field, value, message string) Error {
	return Error{Kind: KindInvalid, Field: field, Value: value, Message: message}
}

func (e Error) Error() string {
	switch e.Kind {
	case KindNotFound:
		return fmt.Sprintf("%s %q not found", e.Field, e.Value)
	case KindInvalid:
		return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Message)
	default:
		return "unknown error"
	}
}

// ResultStatus is the discriminant of Result.
type ResultStatus string

const (
	StatusSuccess ResultStatus = "success"
	StatusFailure ResultStatus = "failure"
)

// Result is the envelope returned by every service operation.
// Exactly one of Value or Errors is meaningful, selected by Status.
// A failure always carries at least one error.
type Result[T any] struct {
	Status ResultStatus
	Value  T
	Errors []Error
}

// Success wraps a value.
func Success[T any](v T) Result[T] {
	return Result[T]{Status: StatusSuccess, Value: v}
}

// Failure wraps an ordered list of errors. An empty list becomes a single Unknown.
func Failure[T any](errs ...Error) Result[T] {
	if len(errs) == 0 {
		errs = []Error{Unknown()}
	}
	out := make([]Error, len(errs))
	copy(out, errs)
	return Result[T]{Status: StatusFailure, Errors: out}
}

// OK reports whether the result is a success.
func (r Result[T]) OK() bool {
	return r.Status == StatusSuccess
}
