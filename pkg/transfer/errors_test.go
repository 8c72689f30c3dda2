package transfer_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gridway-io/transfer-client/pkg/transfer"
)

func TestAPIError_Error(t *testing.T) {
	t.Parallel()

	t.Run("with request ID", func(t *testing.T) {
		t.Parallel()

		err := &transfer.APIError{
			Code:       "EndpointNotFound",
			Message:    "no such endpoint",
			RequestID:  "req-123",
			StatusCode: http.StatusNotFound,
		}
		assert.Equal(t, "EndpointNotFound: no such endpoint (HTTP 404, request req-123)", err.Error())
	})

	t.Run("without request ID", func(t *testing.T) {
		t.Parallel()

		err := &transfer.APIError{
			Code:       "BadRequest",
			Message:    "missing field",
			StatusCode: http.StatusBadRequest,
		}
		assert.Equal(t, "BadRequest: missing field (HTTP 400)", err.Error())
	})
}

func TestParseAPIError(t *testing.T) {
	t.Parallel()

	t.Run("valid error document", func(t *testing.T) {
		t.Parallel()

		body := []byte(`{"code": "PermissionDenied", "message": "not allowed", "request_id": "req-1"}`)

		err := transfer.ParseAPIError(http.StatusForbidden, body)
		assert.Equal(t, "PermissionDenied", err.Code)
		assert.Equal(t, "not allowed", err.Message)
		assert.Equal(t, "req-1", err.RequestID)
		assert.Equal(t, http.StatusForbidden, err.StatusCode)
	})

	t.Run("non-JSON body", func(t *testing.T) {
		t.Parallel()

		err := transfer.ParseAPIError(http.StatusBadGateway, []byte("upstream timeout"))
		assert.Equal(t, "Bad Gateway", err.Code)
		assert.Equal(t, "upstream timeout", err.Message)
		assert.Equal(t, http.StatusBadGateway, err.StatusCode)
	})

	t.Run("empty body", func(t *testing.T) {
		t.Parallel()

		err := transfer.ParseAPIError(http.StatusInternalServerError, nil)
		assert.Equal(t, "Internal Server Error", err.Code)
		assert.Equal(t, http.StatusInternalServerError, err.StatusCode)
	})
}

func TestErrorPredicates(t *testing.T) {
	t.Parallel()

	notFound := &transfer.APIError{StatusCode: http.StatusNotFound}
	unauthorized := &transfer.APIError{StatusCode: http.StatusUnauthorized}
	forbidden := &transfer.APIError{StatusCode: http.StatusForbidden}
	serverError := &transfer.APIError{StatusCode: http.StatusServiceUnavailable}
	rateLimited := &transfer.APIError{StatusCode: http.StatusTooManyRequests}

	assert.True(t, transfer.IsNotFound(notFound))
	assert.False(t, transfer.IsNotFound(forbidden))

	assert.True(t, transfer.IsUnauthorized(unauthorized))
	assert.False(t, transfer.IsUnauthorized(notFound))

	assert.True(t, transfer.IsForbidden(forbidden))
	assert.False(t, transfer.IsForbidden(unauthorized))

	assert.True(t, transfer.IsRetryable(serverError))
	assert.True(t, transfer.IsRetryable(rateLimited))
	assert.False(t, transfer.IsRetryable(notFound))

	// Predicates see through wrapping.
	wrapped := fmt.Errorf("listing tasks: %w", notFound)
	assert.True(t, transfer.IsNotFound(wrapped))

	// Non-API errors match nothing.
	assert.False(t, transfer.IsNotFound(transfer.ErrNoMoreItems))
	assert.False(t, transfer.IsRetryable(nil))
}
