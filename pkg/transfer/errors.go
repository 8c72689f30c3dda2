package transfer

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError represents an error document returned by the Transfer API.
type APIError struct {
	Code       string `json:"code"                 yaml:"code"`
	Message    string `json:"message"              yaml:"message"`
	RequestID  string `json:"request_id,omitempty" yaml:"request_id,omitempty"`
	StatusCode int    `json:"-"                    yaml:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("%s: %s (HTTP %d, request %s)", e.Code, e.Message, e.StatusCode, e.RequestID)
	}

	return fmt.Sprintf("%s: %s (HTTP %d)", e.Code, e.Message, e.StatusCode)
}

// Common error code prefixes used by the service.
const (
	ErrorCodeNotFound           = "ClientError.NotFound"
	ErrorCodeAuthRequired       = "AuthenticationRequired"
	ErrorCodeForbidden          = "PermissionDenied"
	ErrorCodeBadRequest         = "BadRequest"
	ErrorCodeConflict           = "Conflict"
	ErrorCodeServiceUnavailable = "ServiceUnavailable"
)

// Static errors that can be wrapped with context.
var (
	// ErrPaginationOverrun reports that a caller asked for, or iterated
	// past, more results than the service can safely deliver.
	ErrPaginationOverrun = errors.New("too many results requested")

	// ErrAmbiguousScopes reports a client-credentials grant whose scopes
	// span more than one resource server. The caller must fix its inputs;
	// the request is never retried automatically.
	ErrAmbiguousScopes = errors.New("scopes span multiple resource servers")

	// ErrInvalidTimeout and ErrInvalidPollingInterval are raised by task
	// waiting before any request is made.
	ErrInvalidTimeout         = errors.New("task wait timeout has a minimum of 1s")
	ErrInvalidPollingInterval = errors.New("task wait polling interval has a minimum of 1s")

	ErrConfigRequired           = errors.New("config is required")
	ErrAPIEndpointRequired      = errors.New("API endpoint is required")
	ErrNoAuthorizerConfigured   = errors.New("no authorizer configured")
	ErrStaticTokenCannotRenew   = errors.New("static token cannot be renewed")
	ErrNoCredentialsAvailable   = errors.New("no valid credentials available")
	ErrSkipTLSOnlyInDev         = errors.New("skipTLS is only allowed in development environments")
	ErrRootInfoRequestFailed    = errors.New("root info request failed")
	ErrNoAuthURLInRootResponse  = errors.New("no auth URL found in API root response")
	ErrCircuitBreakerOpen       = errors.New("circuit breaker is open")
	ErrNoMoreItems              = errors.New("no more items")
	ErrInvalidNumResults        = errors.New("num results must be non-negative")
	ErrMissingSubmissionID      = errors.New("submission ID is required")
	ErrMissingEndpointID        = errors.New("endpoint ID is required")
	ErrMissingTaskID            = errors.New("task ID is required")
)

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}

	return false
}

// IsUnauthorized checks if the error is an authentication error.
func IsUnauthorized(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized
	}

	return false
}

// IsForbidden checks if the error is a permission error.
func IsForbidden(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusForbidden
	}

	return false
}

// IsRetryable reports whether the error is a transient server condition.
func IsRetryable(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= http.StatusInternalServerError
	}

	return false
}

// ParseAPIError parses an error document from a response body. The status
// code is attached so callers can branch without re-reading headers. Bodies
// that are not valid error documents still produce a usable APIError.
func ParseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	err := json.Unmarshal(body, apiErr)
	if err != nil || apiErr.Code == "" {
		apiErr.Code = http.StatusText(statusCode)
		apiErr.Message = string(body)
	}

	return apiErr
}
