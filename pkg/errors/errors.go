// Package errors provides structured error types for InfinityFlow.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the tree store, CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The tree mutation algebra reports three families of rejection:
//   - NOT_FOUND: an operation referenced a node id absent from the tree
//   - INVALID_OPERATION: a structurally disallowed request (moving the root,
//     adding a sibling to the root, deleting the root)
//   - CYCLE_REJECTED: a reparent would make a node its own ancestor
//
// The remaining codes cover input validation, storage and internal failures.
//
// # Usage
//
//	next, err := tree.MoveNode(dragID, dropID)
//	if errors.Is(err, errors.ErrCodeCycleRejected) {
//	    // next == tree, nothing changed
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStorage, origErr, "save mind map %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Tree mutation rejections
	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeInvalidOperation Code = "INVALID_OPERATION"
	ErrCodeCycleRejected    Code = "CYCLE_REJECTED"

	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidSnapshot Code = "INVALID_SNAPSHOT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidStrategy Code = "INVALID_STRATEGY"
	ErrCodeInvalidID       Code = "INVALID_ID"

	// Persistence errors
	ErrCodeStorage Code = "STORAGE"

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

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsRejection reports whether err is one of the tree mutation rejections
// (NOT_FOUND, INVALID_OPERATION, CYCLE_REJECTED). Rejections leave the tree
// untouched and are safe to ignore.
func IsRejection(err error) bool {
	switch GetCode(err) {
	case ErrCodeNotFound, ErrCodeInvalidOperation, ErrCodeCycleRejected:
		return true
	}
	return false
}
