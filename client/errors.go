package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode categorizes an API or client failure.
type ErrorCode string

const (
	// ErrCodeAuthentication indicates a rejected or missing API key (401).
	ErrCodeAuthentication ErrorCode = "authentication"
	// ErrCodeValidation indicates invalid request parameters (400).
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodePermissionDenied indicates the key lacks access (403).
	ErrCodePermissionDenied ErrorCode = "permission_denied"
	// ErrCodeNotFound indicates a missing resource or path (404).
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeConflict indicates a conflict with existing state (409).
	ErrCodeConflict ErrorCode = "conflict"
	// ErrCodeUnprocessable indicates a semantically invalid payload (422).
	ErrCodeUnprocessable ErrorCode = "unprocessable_entity"
	// ErrCodeRateLimit indicates the account is over its request budget (429).
	ErrCodeRateLimit ErrorCode = "rate_limit"
	// ErrCodeServer indicates a backend failure (5xx).
	ErrCodeServer ErrorCode = "server"
	// ErrCodeTimeout indicates a request or wait deadline was exhausted.
	ErrCodeTimeout ErrorCode = "timeout"
	// ErrCodeConfiguration indicates invalid client configuration.
	ErrCodeConfiguration ErrorCode = "configuration"
	// ErrCodeDependency indicates a missing local prerequisite.
	ErrCodeDependency ErrorCode = "dependency"
	// ErrCodeInput indicates invalid caller input before any request is made.
	ErrCodeInput ErrorCode = "input"
	// ErrCodeAPI is the catch-all for unclassified API failures.
	ErrCodeAPI ErrorCode = "api"
)

// APIError is the typed error surfaced by every SDK operation. It supports
// errors.Is/As through Unwrap, and carries enough context (status, headers,
// request ID) for callers to log or act on the failure.
type APIError struct {
	// Code categorizes the failure.
	Code ErrorCode
	// Message is a human-readable description, taken from the structured error
	// body when the backend provides one.
	Message string
	// HTTPStatus is the response status code, or 0 for client-side failures.
	HTTPStatus int
	// RequestID is the backend's request identifier, when derivable.
	RequestID string
	// Suggestion is an actionable hint for resolving the failure.
	Suggestion string
	// Headers are the response headers of the failed request, if any.
	Headers http.Header
	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteByte('[')
	parts := []string{"type=" + string(e.Code)}
	if e.HTTPStatus != 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.HTTPStatus))
	}
	if e.RequestID != "" {
		parts = append(parts, "id="+e.RequestID)
	}
	b.WriteString(strings.Join(parts, ", "))
	b.WriteString("] ")
	b.WriteString(e.Message)
	if e.Suggestion != "" {
		b.WriteString(" (Suggestion: ")
		b.WriteString(e.Suggestion)
		b.WriteByte(')')
	}
	return b.String()
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *APIError) Unwrap() error {
	return e.Cause
}

// statusCode maps an HTTP error status to its error code. Statuses outside the
// table fall through to ErrCodeAPI.
func statusCode(status int) ErrorCode {
	switch {
	case status == http.StatusBadRequest:
		return ErrCodeValidation
	case status == http.StatusUnauthorized:
		return ErrCodeAuthentication
	case status == http.StatusForbidden:
		return ErrCodePermissionDenied
	case status == http.StatusNotFound:
		return ErrCodeNotFound
	case status == http.StatusConflict:
		return ErrCodeConflict
	case status == http.StatusUnprocessableEntity:
		return ErrCodeUnprocessable
	case status == http.StatusTooManyRequests:
		return ErrCodeRateLimit
	case status == http.StatusRequestTimeout:
		return ErrCodeTimeout
	case status >= 500:
		return ErrCodeServer
	default:
		return ErrCodeAPI
	}
}

// suggestionFor returns the actionable hint shown alongside each error code.
func suggestionFor(code ErrorCode) string {
	switch code {
	case ErrCodeAuthentication:
		return "Check your API key and ensure it is valid"
	case ErrCodeValidation, ErrCodeUnprocessable:
		return "Check your request parameters"
	case ErrCodePermissionDenied:
		return "Verify your account has access to this resource"
	case ErrCodeNotFound:
		return "Check the resource ID or path"
	case ErrCodeConflict:
		return "Retry with a fresh resource identifier"
	case ErrCodeRateLimit:
		return "Reduce request frequency or contact support to increase your rate limit"
	case ErrCodeServer:
		return "Please try again later or contact support if the issue persists"
	case ErrCodeTimeout:
		return "Try again later or increase the timeout"
	case ErrCodeConfiguration:
		return "Check your client configuration"
	case ErrCodeDependency:
		return "Install the required dependency"
	case ErrCodeInput:
		return "Check your input parameters"
	default:
		return ""
	}
}

// newStatusError builds the typed error for a non-2xx response.
func newStatusError(status int, message, requestID string, headers http.Header) *APIError {
	code := statusCode(status)
	if message == "" {
		message = http.StatusText(status)
	}
	return &APIError{
		Code:       code,
		Message:    message,
		HTTPStatus: status,
		RequestID:  requestID,
		Suggestion: suggestionFor(code),
		Headers:    headers,
	}
}

// newClientError builds a client-side error with no HTTP context.
func newClientError(code ErrorCode, message string, cause error) *APIError {
	return &APIError{
		Code:       code,
		Message:    message,
		Suggestion: suggestionFor(code),
		Cause:      cause,
	}
}

// inputErrorf is shorthand for caller-input failures.
func inputErrorf(format string, args ...any) *APIError {
	return newClientError(ErrCodeInput, fmt.Sprintf(format, args...), nil)
}

// isCode checks whether err carries a specific error code.
func isCode(err error, code ErrorCode) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// IsAuthentication checks for a rejected or missing API key.
func IsAuthentication(err error) bool { return isCode(err, ErrCodeAuthentication) }

// IsValidation checks for invalid request parameters.
func IsValidation(err error) bool { return isCode(err, ErrCodeValidation) }

// IsPermissionDenied checks for an access failure.
func IsPermissionDenied(err error) bool { return isCode(err, ErrCodePermissionDenied) }

// IsNotFound checks for a missing resource.
func IsNotFound(err error) bool { return isCode(err, ErrCodeNotFound) }

// IsConflict checks for a state conflict.
func IsConflict(err error) bool { return isCode(err, ErrCodeConflict) }

// IsRateLimit checks for a throttled request.
func IsRateLimit(err error) bool { return isCode(err, ErrCodeRateLimit) }

// IsServer checks for a backend failure.
func IsServer(err error) bool { return isCode(err, ErrCodeServer) }

// IsTimeout checks for an exhausted request or wait deadline.
func IsTimeout(err error) bool { return isCode(err, ErrCodeTimeout) }

// IsConfiguration checks for invalid client configuration.
func IsConfiguration(err error) bool { return isCode(err, ErrCodeConfiguration) }

// GetCode returns the ErrorCode from err, or "" if it is not an *APIError.
func GetCode(err error) ErrorCode {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}
