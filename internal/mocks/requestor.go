package mocks

// Hand-written scripted double for client.Requestor. Lightweight alternative
// to the generated MockRequestor for tests that script a sequence of responses
// and inspect the recorded requests afterwards.

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/vlm-run/vlmrun-go/client"
)

// Compile-time conformance.
var _ client.Requestor = (*ScriptedRequestor)(nil)

// Step is one scripted exchange: the response (or error) the double returns
// for the next Do call.
type Step struct {
	Status int
	Body   any
	Err    error
}

// ScriptedRequestor replays a fixed sequence of steps and records every
// request it receives. Safe for concurrent use.
type ScriptedRequestor struct {
	mu    sync.Mutex
	steps []Step
	calls []client.Request
}

// NewScriptedRequestor builds a double that replays steps in order. When the
// script runs out, the last step repeats.
func NewScriptedRequestor(steps ...Step) *ScriptedRequestor {
	return &ScriptedRequestor{steps: steps}
}

// Do implements client.Requestor.
func (s *ScriptedRequestor) Do(_ context.Context, req client.Request) (*client.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, req)
	if len(s.steps) == 0 {
		return nil, fmt.Errorf("scripted requestor: no steps for %s %s", req.Method, req.Path)
	}
	step := s.steps[0]
	if len(s.steps) > 1 {
		s.steps = s.steps[1:]
	}
	if step.Err != nil {
		return nil, step.Err
	}

	body, err := json.Marshal(step.Body)
	if err != nil {
		return nil, fmt.Errorf("scripted requestor: marshal body: %w", err)
	}
	status := step.Status
	if status == 0 {
		status = http.StatusOK
	}
	return &client.Response{
		Body:       body,
		StatusCode: status,
		Header:     http.Header{},
	}, nil
}

// Calls returns a copy of the recorded requests.
func (s *ScriptedRequestor) Calls() []client.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]client.Request, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallCount returns how many requests were received.
func (s *ScriptedRequestor) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}
