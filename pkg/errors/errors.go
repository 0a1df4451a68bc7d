// Package errors provides structured error types for fiberflow.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and library callers
//   - Machine-readable error codes for programmatic handling
//   - Messages that name the offending tensor or rank
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: malformed program input (bad identifiers, inconsistent partitioning)
//   - *_NOT_FOUND: a referenced tensor, rank, partition or file does not exist
//   - INTERNAL_*: the compiler broke one of its own invariants
//
// Only INTERNAL_ERROR is never attributable to user input. It is returned
// when the scheduler cannot place the loop nest, which means the graph builder
// produced a graph inconsistent with its own construction rules.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeTensorNotFound, "leader %q is not declared", name)
//	if errors.Is(err, errors.ErrCodeTensorNotFound) {
//	    // Handle missing tensor
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidProgram, origErr, "load %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidProgram   Code = "INVALID_PROGRAM"
	ErrCodeInvalidTensor    Code = "INVALID_TENSOR"
	ErrCodeInvalidRank      Code = "INVALID_RANK"
	ErrCodeInvalidPartition Code = "INVALID_PARTITION"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"

	// Resource not found errors
	ErrCodeNotFound          Code = "NOT_FOUND"
	ErrCodeTensorNotFound    Code = "TENSOR_NOT_FOUND"
	ErrCodeRankNotFound      Code = "RANK_NOT_FOUND"
	ErrCodePartitionNotFound Code = "PARTITION_NOT_FOUND"
	ErrCodeFileNotFound      Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Internal creates an ErrCodeInternal error. Use it only for broken
// compiler invariants, never for bad input.
func Internal(format string, args ...any) *Error {
	return New(ErrCodeInternal, format, args...)
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsInternal reports whether err is a compiler-internal failure.
func IsInternal(err error) bool {
	return Is(err, ErrCodeInternal)
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Code == ErrCodeInternal {
			return "internal compiler error: " + e.Message
		}
		return e.Message
	}
	return err.Error()
}
