package types

import (
	"errors"
	"fmt"
)

// ErrorCode is a typed string for categorizing application errors.
type ErrorCode string

// Error code constants. Provider and dispatch code MUST use these constants
// instead of hardcoded strings so that failures classify consistently.
const (
	// Configuration problems discovered at send time (missing API key,
	// unresolved relay settings). Fatal for the attempt, reported as a
	// plain failure, and retried no differently from any other failure.
	ErrCodeConfigMissing ErrorCode = "config_missing"

	// Transient provider failures: the request may succeed if retried.
	ErrCodeUpstreamRateLimited ErrorCode = "upstream_rate_limited"
	ErrCodeUpstreamUnavailable ErrorCode = "upstream_unavailable"

	// Permanent provider failures: the request will not succeed unmodified.
	ErrCodeProviderRejected ErrorCode = "provider_rejected"
	ErrCodeRelayFailure     ErrorCode = "relay_failure"

	// Ambient failures outside the send path.
	ErrCodeValidation         ErrorCode = "validation_failed"
	ErrCodeInternalDB         ErrorCode = "internal_database_error"
	ErrCodeInternalUnexpected ErrorCode = "internal_unexpected_error"
	ErrCodeCatalogParse       ErrorCode = "catalog_parse_error"
)

// AppError is the standard application error type. All provider, dispatch,
// and repository errors are expressed as AppError to enable consistent
// classification and log formatting.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError with the given code, message, and
// optional underlying error.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// CodeOf extracts the ErrorCode from err. Errors that are not AppErrors
// (or do not wrap one) report ErrCodeInternalUnexpected.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternalUnexpected
}

// IsTransient reports whether err classifies as a transient provider
// failure (rate limit or upstream outage). Used for logging severity only:
// the retry executor retries transient and permanent failures alike.
func IsTransient(err error) bool {
	switch CodeOf(err) {
	case ErrCodeUpstreamRateLimited, ErrCodeUpstreamUnavailable:
		return true
	}
	return false
}
