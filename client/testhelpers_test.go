package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// stubRequestor replays canned exchanges in order and records the requests it
// receives. The external-facing tests use internal/mocks; this stub exists for
// in-package tests that construct resources directly.
type stubRequestor struct {
	mu        sync.Mutex
	responses []stubResponse
	calls     []Request
}

type stubResponse struct {
	status int
	body   any
	err    error
}

func (s *stubRequestor) Do(_ context.Context, req Request) (*Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, req)
	if len(s.responses) == 0 {
		return nil, fmt.Errorf("stub requestor: unexpected %s %s", req.Method, req.Path)
	}
	next := s.responses[0]
	if len(s.responses) > 1 {
		s.responses = s.responses[1:]
	}
	if next.err != nil {
		return nil, next.err
	}

	body, err := json.Marshal(next.body)
	if err != nil {
		return nil, err
	}
	status := next.status
	if status == 0 {
		status = http.StatusOK
	}
	return &Response{Body: body, StatusCode: status, Header: http.Header{}}, nil
}

func (s *stubRequestor) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *stubRequestor) call(i int) Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[i]
}

// echoUploadRequestor accepts any multipart upload and echoes the uploaded
// filename back in the response, so tests can observe result ordering.
type echoUploadRequestor struct{}

func (echoUploadRequestor) Do(_ context.Context, req Request) (*Response, error) {
	mediaType, params, err := mime.ParseMediaType(req.ContentType)
	if err != nil || mediaType != "multipart/form-data" {
		return nil, fmt.Errorf("echo requestor: unexpected content type %q", req.ContentType)
	}
	part, err := multipart.NewReader(bytes.NewReader(req.Raw), params["boundary"]).NextPart()
	if err != nil {
		return nil, fmt.Errorf("echo requestor: read multipart: %w", err)
	}
	body, err := json.Marshal(map[string]string{
		"id":       "file_" + part.FileName(),
		"filename": part.FileName(),
	})
	if err != nil {
		return nil, err
	}
	return &Response{Body: body, StatusCode: http.StatusOK, Header: http.Header{}}, nil
}

// newArtifactServer serves a single named file, 404 for anything else.
func newArtifactServer(t *testing.T, name string, content []byte) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/"+name) {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(content)
	}))
}
