// Package domain defines the core domain models for CredMesh.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business domain error with a structured error code.
type DomainError struct {
	Code    string // Error code (e.g., "CM-CRED-5000")
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
// Argument Errors (ARG)
// ============================================================================

var (
	// ErrInvalidArgument indicates malformed caller input.
	ErrInvalidArgument = NewDomainError("CM-ARG-1001", "invalid argument")

	// ErrNilCallback indicates a nil plugin callback.
	ErrNilCallback = NewDomainError("CM-ARG-1002", "callback argument is not a valid callback")
)

// ============================================================================
// Credential Errors (CRED)
// ============================================================================

var (
	// ErrCredentialCreation indicates the native layer returned no handle.
	ErrCredentialCreation = NewDomainError("CM-CRED-5000", "credential creation failed")

	// ErrHandleReleased indicates use of a credential whose handle was
	// already released.
	ErrHandleReleased = NewDomainError("CM-CRED-5001", "credential handle released")
)

// ============================================================================
// Metadata Protocol Errors (META)
// ============================================================================

var (
	// ErrInvalidCallbackResult indicates the plugin callback returned
	// something other than an ordered mapping.
	ErrInvalidCallbackResult = NewDomainError("CM-META-4000", "callback return value expected a mapping")

	// ErrInvalidMetadataEntry indicates a metadata key or value is not
	// representable on the wire.
	ErrInvalidMetadataEntry = NewDomainError("CM-META-4001", "invalid metadata entry")

	// ErrMetadataOverflow indicates the callback produced more entries
	// than the synchronous plugin protocol allows.
	ErrMetadataOverflow = NewDomainError("CM-META-5000", "too many metadata entries")

	// ErrStateDestroyed indicates plugin state was used after destroy.
	ErrStateDestroyed = NewDomainError("CM-META-5001", "plugin state destroyed")
)
