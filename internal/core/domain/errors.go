package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a client-side error with a structured error code.
// Every failure surfaced to the user maps onto one of the sentinel errors
// below; callers compare with errors.Is against the sentinels.
type DomainError struct {
	Code    string // Error code (e.g., "MCP-AUTH-4010")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Authentication errors (AUTH)
// ============================================================================

var (
	// ErrUnauthenticated indicates an operation requiring a session was
	// attempted without one. The request is blocked before any network call.
	ErrUnauthenticated = NewDomainError("MCP-AUTH-4010", "not logged in")

	// ErrUnauthorized indicates the server rejected the bearer credential.
	// This is the only error that forces a logout transition.
	ErrUnauthorized = NewDomainError("MCP-AUTH-4011", "server rejected credentials")

	// ErrSessionExpired indicates the inactivity window elapsed.
	ErrSessionExpired = NewDomainError("MCP-AUTH-4012", "session expired due to inactivity")
)

// ============================================================================
// Request errors (HTTP / NET)
// ============================================================================

var (
	// ErrRequestFailed indicates a non-2xx server response. Details carry the
	// server's "detail" field when the body was well-formed JSON.
	ErrRequestFailed = NewDomainError("MCP-HTTP-4000", "request failed")

	// ErrNetworkUnavailable indicates a transport-level failure before any
	// response arrived.
	ErrNetworkUnavailable = NewDomainError("MCP-NET-5030", "network unavailable")
)

// ============================================================================
// Validation and storage errors
// ============================================================================

var (
	// ErrValidationFailed indicates client-side field or password checks failed.
	ErrValidationFailed = NewDomainError("MCP-ARG-4001", "validation failed")

	// ErrStorageUnavailable indicates the local credential store could not be
	// read or written. Callers treat this as "no token found".
	ErrStorageUnavailable = NewDomainError("MCP-STOR-5001", "credential storage unavailable")
)
