package chatgateway

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
// These can be checked with errors.Is().
var (
	// ErrAuthentication indicates the credential is missing, invalid, or
	// could not be refreshed. A 401 is recovered locally exactly once via
	// token refresh; a second 401 surfaces as this error.
	ErrAuthentication = errors.New("chatgateway: authentication failed")

	// ErrQuotaExceeded indicates the gateway rejected the call with 429.
	// Never retried.
	ErrQuotaExceeded = errors.New("chatgateway: quota exceeded")

	// ErrGatewayUnavailable indicates the gateway answered with a
	// non-auth, non-quota error status.
	ErrGatewayUnavailable = errors.New("chatgateway: gateway unavailable")

	// ErrInvalidRequest indicates the request parameters are invalid or
	// the outbound request could not be built.
	ErrInvalidRequest = errors.New("chatgateway: invalid request")

	// ErrNetwork indicates a transport-level failure (connection reset,
	// DNS, timeout) outside any HTTP status exchange.
	ErrNetwork = errors.New("chatgateway: network failure")
)

// ValidationError represents an error in request parameter validation.
type ValidationError struct {
	Field  string // The parameter field that failed validation
	Value  any    // The invalid value
	Reason string // Human-readable explanation
	Err    error  // Wrapped error (usually ErrInvalidRequest)
}

func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("validation failed for '%s' (value: %v): %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("validation failed for '%s': %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// BuildError represents a failure assembling the outbound HTTP request.
// Reported without any network attempt.
type BuildError struct {
	Reason string // What could not be built
	Err    error  // Underlying error (e.g., from json.Marshal)
}

func (e *BuildError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to build request: %s (%v)", e.Reason, e.Err)
	}
	return fmt.Sprintf("failed to build request: %s", e.Reason)
}

func (e *BuildError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidRequest
}

// ServerError represents a non-auth, non-quota HTTP error status from
// the gateway (4xx/5xx). Never retried.
type ServerError struct {
	StatusCode int    // HTTP status code
	Message    string // Error message from the gateway body, if parseable
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gateway error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("gateway error (status %d)", e.StatusCode)
}

func (e *ServerError) Unwrap() error {
	return ErrGatewayUnavailable
}

// UpstreamError represents a protocol-level error frame delivered inside
// an otherwise-healthy SSE stream. The session stops processing further
// frames once one arrives.
type UpstreamError struct {
	Message string // Error message from the frame
	Code    string // Gateway error code, if present
}

func (e *UpstreamError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("upstream error [%s]: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("upstream error: %s", e.Message)
}

// NetworkError represents a transport-level failure.
type NetworkError struct {
	Op  string // What the client was doing ("send request", "read stream")
	Err error  // Underlying transport error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network failure during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return ErrNetwork
}

// IsAuthError checks if an error is related to authentication.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAuthentication)
}

// IsQuotaExceeded checks if an error is a quota rejection.
func IsQuotaExceeded(err error) bool {
	return errors.Is(err, ErrQuotaExceeded)
}

// IsInvalidRequest checks if an error indicates invalid request
// parameters or an unbuildable request. These are not retryable and
// require request changes.
func IsInvalidRequest(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrInvalidRequest) {
		return true
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return true
	}

	var buildErr *BuildError
	return errors.As(err, &buildErr)
}
