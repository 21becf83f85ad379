// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown and general errors
//   - Decode errors (100-199): Unrecognized or unparseable raw payload shapes
//   - Schema errors (200-299): Temporal normalization failures
//   - Plan errors (300-399): Chart plan construction errors
//   - Strategy errors (400-499): Unknown strategy mode or timeframe
//   - Store errors (500-599): Dataset store fetch/list/put failures
//
// Usage:
//
//	// Create a new error
//	err := errors.New(errors.ErrCodeUnrecognizedShape, "payload shape not recognized")
//
//	// Create a formatted error carrying detail context
//	err := errors.NewDecode("map[string]int", "payload shape not recognized")
//
//	// Check the error kind
//	if errors.IsDecodeError(err) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with an error code, message and
// optional detail. Detail carries the offending shape tag or column name
// for diagnostics.
type Error struct {
	Code    ErrorCode
	Message string
	Detail  string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// WithDetail returns the error with the detail field set.
func (e *Error) WithDetail(detail string) *Error {
	e.Detail = detail

	return e
}

// NewDecode creates a decode error carrying the shape tag of the payload
// that could not be resolved.
func NewDecode(shapeTag string, message string) *Error {
	return New(ErrCodeUnrecognizedShape, message).WithDetail(shapeTag)
}

// NewMissingColumn creates a plan error carrying the name of the missing
// mandatory column.
func NewMissingColumn(column string) *Error {
	return Newf(ErrCodeMissingRequiredColumn, "mandatory price column %q is absent", column).WithDetail(column)
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Cause != nil && e.Detail != "":
		return fmt.Sprintf("[%d] %s (%s): %v", e.Code, e.Message, e.Detail, e.Cause)
	case e.Cause != nil:
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	case e.Detail != "":
		return fmt.Sprintf("[%d] %s (%s)", e.Code, e.Message, e.Detail)
	default:
		return fmt.Sprintf("[%d] %s", e.Code, e.Message)
	}
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around the standard errors.Is function.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around the standard errors.As function.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode from an error if it's an *Error type.
// Returns ErrCodeUnknown if the error is not an *Error type.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ErrCodeUnknown
}

// GetDetail extracts the detail (shape tag or column name) from an error
// if it's an *Error type. Returns an empty string otherwise.
func GetDetail(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Detail
	}

	return ""
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

func codeInRange(err error, low, high ErrorCode) bool {
	code := GetCode(err)

	return code >= low && code < high
}

// IsDecodeError reports whether err is a raw-payload decode failure.
func IsDecodeError(err error) bool {
	return codeInRange(err, 100, 200)
}

// IsSchemaError reports whether err is a temporal normalization failure.
func IsSchemaError(err error) bool {
	return codeInRange(err, 200, 300)
}

// IsMissingRequiredColumnError reports whether err signals absent mandatory
// price columns.
func IsMissingRequiredColumnError(err error) bool {
	return codeInRange(err, 300, 400)
}

// IsUnknownStrategyError reports whether err signals a mode or timeframe
// outside the enumerated domain.
func IsUnknownStrategyError(err error) bool {
	return codeInRange(err, 400, 500)
}

// IsStoreError reports whether err originated in the dataset store.
func IsStoreError(err error) bool {
	return codeInRange(err, 500, 600)
}
