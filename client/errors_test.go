package client

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorFormatting(t *testing.T) {
	err := &APIError{
		Code:       ErrCodeRateLimit,
		Message:    "too many requests",
		HTTPStatus: http.StatusTooManyRequests,
		RequestID:  "req_7",
		Suggestion: "Slow down your request rate or upgrade your plan",
	}
	assert.Equal(t,
		"[type=rate_limit, status=429, id=req_7] too many requests (Suggestion: Slow down your request rate or upgrade your plan)",
		err.Error())
}

func TestAPIErrorFormattingMinimal(t *testing.T) {
	err := &APIError{Code: ErrCodeInput, Message: "filename must not be empty"}
	assert.Equal(t, "[type=input] filename must not be empty", err.Error())
}

func TestAPIErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := newClientError(ErrCodeAPI, "request failed", cause)
	assert.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("upload a.pdf: %w", err)
	var apiErr *APIError
	require.ErrorAs(t, wrapped, &apiErr)
	assert.Equal(t, ErrCodeAPI, apiErr.Code)
}

func TestErrorCodeHelpers(t *testing.T) {
	assert.True(t, IsAuthentication(newStatusError(http.StatusUnauthorized, "bad key", "", nil)))
	assert.True(t, IsNotFound(newStatusError(http.StatusNotFound, "gone", "", nil)))
	assert.True(t, IsRateLimit(newStatusError(http.StatusTooManyRequests, "slow down", "", nil)))
	assert.True(t, IsServer(newStatusError(http.StatusBadGateway, "oops", "", nil)))
	assert.False(t, IsServer(newStatusError(http.StatusNotFound, "gone", "", nil)))
	assert.False(t, IsNotFound(errors.New("plain error")))
}

func TestErrorCodeHelpersSeeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("get prediction: %w", newStatusError(http.StatusForbidden, "denied", "", nil))
	assert.True(t, IsPermissionDenied(err))
	assert.Equal(t, ErrCodePermissionDenied, GetCode(err))
}

func TestGetCodeOnForeignError(t *testing.T) {
	assert.Equal(t, ErrorCode(""), GetCode(errors.New("not an api error")))
	assert.Equal(t, ErrorCode(""), GetCode(nil))
}

func TestStatusErrorsCarrySuggestions(t *testing.T) {
	for _, status := range []int{
		http.StatusBadRequest,
		http.StatusUnauthorized,
		http.StatusForbidden,
		http.StatusNotFound,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
	} {
		err := newStatusError(status, "failed", "", nil)
		assert.NotEmpty(t, err.Suggestion, "status %d should carry a suggestion", status)
	}
}
