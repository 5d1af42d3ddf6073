package client

import (
	"context"
	"net/http"
	"strings"
	"time"
)

const (
	executionWaitTimeout  = 300 * time.Second
	executionWaitInterval = 5 * time.Second
)

// Agents manages named agents in the registry.
type Agents struct {
	requestor Requestor
}

// AgentCreateParams describes a new agent.
type AgentCreateParams struct {
	Name   string
	Domain string
	// Requirements are optional package requirements for custom agents.
	Requirements []string
	// Code is an optional custom agent implementation.
	Code string
}

// Create registers an agent.
func (a *Agents) Create(ctx context.Context, params AgentCreateParams) (*AgentInfo, error) {
	if params.Name == "" {
		return nil, inputErrorf("agent name must not be empty")
	}
	domain := params.Domain
	if domain == "" {
		domain = "agent"
	}

	body := map[string]any{
		"name":   params.Name,
		"domain": domain,
	}
	if len(params.Requirements) > 0 {
		body["requirements"] = strings.Join(params.Requirements, ",")
	}
	if params.Code != "" {
		body["code"] = params.Code
	}

	resp, err := a.requestor.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "agents/create",
		JSON:   body,
	})
	if err != nil {
		return nil, err
	}
	var out AgentInfo
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get fetches an agent by name. Domain defaults to "agent" and version to
// "latest".
func (a *Agents) Get(ctx context.Context, name, domain, version string) (*AgentInfo, error) {
	if name == "" {
		return nil, inputErrorf("agent name must not be empty")
	}
	if domain == "" {
		domain = "agent"
	}
	if version == "" {
		version = "latest"
	}
	resp, err := a.requestor.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   "agents/" + domain + "/" + name + "/" + version,
	})
	if err != nil {
		return nil, err
	}
	var out AgentInfo
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AgentExecuteParams describes an agent execution request.
type AgentExecuteParams struct {
	// Name selects the agent (e.g. "vlmrun-orion-1:auto").
	Name string
	// FileIDs and URLs are the inputs to process.
	FileIDs []string
	URLs    []string
	// Prompt is the instruction for chat-style agents.
	Prompt string
	// Batch submits asynchronously (the default execution mode).
	Batch bool
	// CallbackURL, when set, is POSTed a signed payload on completion.
	CallbackURL string

	Metadata *RequestMetadata
}

// Execute runs an agent. Batch executions return immediately with a job
// resource to observe via Executions.
func (a *Agents) Execute(ctx context.Context, params AgentExecuteParams) (*PredictionResponse, error) {
	if params.Name == "" {
		return nil, inputErrorf("agent name must not be empty")
	}

	body := map[string]any{
		"name":  params.Name,
		"batch": params.Batch,
	}
	inputs := map[string]any{}
	if len(params.FileIDs) > 0 {
		inputs["file_ids"] = params.FileIDs
	}
	if len(params.URLs) > 0 {
		inputs["urls"] = params.URLs
	}
	if len(inputs) > 0 {
		body["inputs"] = inputs
	}
	if params.Prompt != "" {
		body["config"] = map[string]any{"prompt": params.Prompt}
	}
	if params.CallbackURL != "" {
		body["callback_url"] = params.CallbackURL
	}
	if params.Metadata != nil {
		body["metadata"] = params.Metadata
	}

	resp, err := a.requestor.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "agents/execute",
		JSON:   body,
	})
	if err != nil {
		return nil, err
	}
	var out PredictionResponse
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Executions observes agent executions by ID.
type Executions struct {
	requestor Requestor
	poller    poller
}

// List returns executions, paged by skip and limit.
func (e *Executions) List(ctx context.Context, skip, limit int) ([]PredictionResponse, error) {
	resp, err := e.requestor.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   "agent/executions",
		Params: pageParams(skip, limit),
	})
	if err != nil {
		return nil, err
	}
	var out []PredictionResponse
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches an execution by ID.
func (e *Executions) Get(ctx context.Context, id string) (*PredictionResponse, error) {
	if id == "" {
		return nil, inputErrorf("execution id must not be empty")
	}
	resp, err := e.requestor.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   "agent/executions/" + id,
	})
	if err != nil {
		return nil, err
	}
	var out PredictionResponse
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Wait polls the execution until it reaches a terminal state or the timeout
// elapses (default 300s, polling every 5s). Failed executions are returned,
// not raised.
func (e *Executions) Wait(ctx context.Context, id string, opts WaitOptions) (*PredictionResponse, error) {
	opts = opts.withDefaults(executionWaitTimeout, executionWaitInterval)
	return waitFor(ctx, e.poller, "execution", id, opts,
		func(ctx context.Context) (*PredictionResponse, JobStatus, error) {
			resp, err := e.Get(ctx, id)
			if err != nil {
				return nil, "", err
			}
			return resp, resp.Status, nil
		})
}
