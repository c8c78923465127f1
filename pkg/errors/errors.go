// Package errors provides structured error types for the metaforge engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI, API, and library callers
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (unparseable URLs, bad fields)
//   - *_NOT_FOUND: Resource not found (no forge match, missing project)
//   - NETWORK_*/TIMEOUT: Network-related failures on probes
//   - VERIFICATION_FAILED/UNVERIFIABLE: Outcomes of the Check* family
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidURL, "cannot parse %q", raw)
//	if errors.Is(err, errors.ErrCodeInvalidURL) {
//	    // Handle malformed input
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "failed to probe %s", host)
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
	ErrCodeInvalidURL       Code = "INVALID_URL"
	ErrCodeInvalidField     Code = "INVALID_FIELD"
	ErrCodeInvalidCertainty Code = "INVALID_CERTAINTY"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeProjectNotFound Code = "PROJECT_NOT_FOUND"
	ErrCodeForgeNotFound   Code = "FORGE_NOT_FOUND"

	// Network errors
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"
	ErrCodeNetDisabled Code = "NETWORK_DISABLED"

	// Verification outcomes
	ErrCodeVerificationFailed Code = "VERIFICATION_FAILED"
	ErrCodeUnverifiable       Code = "UNVERIFIABLE"

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

// BestEffort reports whether err is one of the failures that best-effort
// enrichment paths swallow: not-found, network, timeout, rate limiting, or
// network access being disabled. Verification failures and malformed input
// are never best-effort.
func BestEffort(err error) bool {
	switch GetCode(err) {
	case ErrCodeNotFound, ErrCodeProjectNotFound, ErrCodeForgeNotFound,
		ErrCodeNetwork, ErrCodeTimeout, ErrCodeRateLimited, ErrCodeNetDisabled:
		return true
	}
	return false
}

// RateLimitedError provides additional information for rate-limited responses.
type RateLimitedError struct {
	RetryAfter int // Seconds to wait before retrying
	Message    string
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "rate limited"
	}
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s: retry after %d seconds", msg, e.RetryAfter)
	}
	return msg
}

// Code returns the error code for this error type.
func (e *RateLimitedError) Code() Code {
	return ErrCodeRateLimited
}
