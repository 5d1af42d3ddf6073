package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/vlm-run/vlmrun-go/internal/transport"
)

// requestIDHeader is where the backend reports its request identifier.
const requestIDHeader = "X-Request-Id"

// Request describes one logical API call, relative to the client base URL.
type Request struct {
	Method string
	Path   string
	Params url.Values
	// JSON, when non-nil, is marshalled as the request body.
	JSON any
	// Raw, when set, is sent verbatim with ContentType. Takes precedence
	// over JSON.
	Raw         []byte
	ContentType string
	Headers     http.Header
}

// Response is the parsed outcome of a successful (2xx) request.
type Response struct {
	Body       []byte
	StatusCode int
	Header     http.Header
}

// Decode unmarshals the response body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return newClientError(ErrCodeAPI, fmt.Sprintf("decode response body: %v", err), err)
	}
	return nil
}

// Requestor issues one logical HTTP request against the backend, retrying
// transient transport failures and translating every failure into an *APIError.
type Requestor interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// apiRequestor is the production Requestor. The embedded *http.Client pools
// connections and is safe for concurrent use; retry state lives on the stack of
// each Do call and is never shared.
type apiRequestor struct {
	base   *url.URL
	client *http.Client
	retry  transport.RetryPolicy
	logger zerolog.Logger
}

// newRequestor builds the production requestor. The bearer token is injected by
// an oauth2 static-token transport so every outbound request carries
// "Authorization: Bearer <key>".
func newRequestor(baseURL, apiKey string, timeout time.Duration, retry transport.RetryPolicy, logger zerolog.Logger) (*apiRequestor, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil, newClientError(ErrCodeConfiguration, fmt.Sprintf("invalid base URL %q", baseURL), err)
	}

	hc := &http.Client{
		Timeout: timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey}),
			Base:   http.DefaultTransport,
		},
	}

	return &apiRequestor{
		base:   base,
		client: hc,
		retry:  retry,
		logger: logger,
	}, nil
}

// Do implements Requestor. HTTP error statuses are deterministic and never
// retried; only transport-level failures go back through the retry policy.
func (r *apiRequestor) Do(ctx context.Context, req Request) (*Response, error) {
	target, err := r.resolve(req)
	if err != nil {
		return nil, err
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, err
	}

	var (
		resp    *http.Response
		attempt int
	)
	retryErr := r.retry.Do(ctx, func() error {
		attempt++
		var bodyReader io.Reader
		if body != nil {
			bodyReader = bytes.NewReader(body)
		}
		httpReq, reqErr := http.NewRequestWithContext(ctx, req.Method, target, bodyReader)
		if reqErr != nil {
			return reqErr
		}
		httpReq.Header.Set("Accept", "application/json")
		if contentType != "" {
			httpReq.Header.Set("Content-Type", contentType)
		}
		for key, values := range req.Headers {
			for _, value := range values {
				httpReq.Header.Add(key, value)
			}
		}

		r.logger.Debug().
			Str("method", req.Method).
			Str("path", req.Path).
			Int("attempt", attempt).
			Msg("api request")

		resp, reqErr = r.client.Do(httpReq) //nolint:bodyclose // closed below after the retry loop resolves
		return reqErr
	})
	if retryErr != nil {
		if transport.IsTimeout(retryErr) {
			return nil, &APIError{
				Code:       ErrCodeTimeout,
				Message:    fmt.Sprintf("request to %s timed out after %d attempts", req.Path, attempt),
				Suggestion: suggestionFor(ErrCodeTimeout),
				Cause:      retryErr,
			}
		}
		return nil, &APIError{
			Code:       ErrCodeAPI,
			Message:    fmt.Sprintf("request to %s failed after %d attempts: %v", req.Path, attempt, retryErr),
			Suggestion: suggestionFor(ErrCodeServer),
			Cause:      retryErr,
		}
	}

	respBody, readErr := io.ReadAll(resp.Body)
	closeErr := resp.Body.Close()
	if readErr != nil {
		return nil, newClientError(ErrCodeAPI, fmt.Sprintf("read response body: %v", readErr), readErr)
	}
	if closeErr != nil {
		return nil, newClientError(ErrCodeAPI, fmt.Sprintf("close response body: %v", closeErr), closeErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newStatusError(
			resp.StatusCode,
			errorMessage(respBody),
			resp.Header.Get(requestIDHeader),
			resp.Header,
		)
	}

	return &Response{
		Body:       respBody,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
	}, nil
}

// resolve joins the base URL, the relative path, and query parameters.
func (r *apiRequestor) resolve(req Request) (string, error) {
	ref, err := url.Parse(strings.TrimLeft(req.Path, "/"))
	if err != nil {
		return "", inputErrorf("invalid request path %q: %v", req.Path, err)
	}
	target := r.base.ResolveReference(ref)
	if len(req.Params) > 0 {
		target.RawQuery = req.Params.Encode()
	}
	return target.String(), nil
}

// encodeBody marshals the request body once so retries can replay it.
func encodeBody(req Request) ([]byte, string, error) {
	if req.Raw != nil {
		return req.Raw, req.ContentType, nil
	}
	if req.JSON == nil {
		return nil, "", nil
	}
	body, err := json.Marshal(req.JSON)
	if err != nil {
		return nil, "", inputErrorf("encode request body: %v", err)
	}
	return body, "application/json", nil
}

// errorMessage extracts a human-readable message from a structured error body.
// The backend reports either {"error": {"message": ...}} or {"detail": ...};
// anything unparseable falls back to the raw body.
func errorMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Error.Message != "" {
			return envelope.Error.Message
		}
		if envelope.Detail != "" {
			return envelope.Detail
		}
	}
	trimmed := strings.TrimSpace(string(body))
	if len(trimmed) > 512 {
		trimmed = trimmed[:512]
	}
	return trimmed
}
