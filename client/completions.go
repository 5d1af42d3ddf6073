package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	jmespath "github.com/jmespath-community/go-jmespath"
	"github.com/rs/zerolog"
)

// DefaultCompletionModel is the agent used when none is specified.
const DefaultCompletionModel = "vlmrun-orion-1:auto"

const (
	completionWaitTimeout = 300 * time.Second
	// streamPollInterval is the initial poll interval for streaming
	// completions; it grows by streamPollGrowth up to streamPollMax to
	// reduce load on long-running executions.
	streamPollInterval = 2 * time.Second
	streamPollGrowth   = 1.2
	streamPollMax      = 10 * time.Second
	// streamEventBuffer absorbs chunks for consumers that drain slower than
	// the poll interval; chunks past it are dropped, never blocked on.
	streamEventBuffer = 8
)

// Artifact is a file produced by an agent execution.
type Artifact struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Filename    string `json:"filename,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size,omitempty"`
}

// CompletionResponse is the aggregated outcome of a chat-style agent run.
type CompletionResponse struct {
	ID          string          `json:"id"`
	Model       string          `json:"model"`
	Content     string          `json:"content,omitempty"`
	Response    json.RawMessage `json:"response,omitempty"`
	Artifacts   []Artifact      `json:"artifacts,omitempty"`
	Usage       *CreditUsage    `json:"usage,omitempty"`
	Status      JobStatus       `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// Text returns the best-effort text content of the response.
func (r *CompletionResponse) Text() string {
	return r.Content
}

// CompletionChunk is a streaming progress event. The final chunk has Finished
// set; failed executions additionally carry the error payload in Delta.
type CompletionChunk struct {
	ID       string    `json:"id"`
	Model    string    `json:"model"`
	Status   JobStatus `json:"status,omitempty"`
	Delta    string    `json:"delta,omitempty"`
	Finished bool      `json:"finished"`
}

// CompletionParams describes a chat-style agent request.
type CompletionParams struct {
	// Prompt is the instruction for the agent.
	Prompt string
	// Files are local paths, uploaded in parallel before execution.
	Files []string
	// FileURLs reference already hosted inputs.
	FileURLs []string
	// Model selects the agent; defaults to DefaultCompletionModel.
	Model string
	// Timeout bounds the wait for the execution; defaults to 300s.
	Timeout time.Duration

	Metadata *RequestMetadata
}

// Completions is the chat-style interface to visual agents: upload inputs,
// execute, and wait for (or stream) the outcome.
type Completions struct {
	files      *Files
	agents     *Agents
	executions *Executions
	poller     poller
	logger     zerolog.Logger
	// download fetches artifact URLs; artifacts live on a CDN, outside the
	// authenticated API surface.
	download *http.Client
}

// Create executes an agent and blocks until it reaches a terminal state. The
// returned response carries the terminal status; failed executions are
// returned with Status JobFailed rather than an error.
func (c *Completions) Create(ctx context.Context, params CompletionParams) (*CompletionResponse, error) {
	execution, model, err := c.start(ctx, params)
	if err != nil {
		return nil, err
	}

	result, err := c.executions.Wait(ctx, execution.ID, WaitOptions{Timeout: params.Timeout})
	if err != nil {
		return nil, err
	}
	return c.assemble(result, model), nil
}

// CreateStream executes an agent and returns a stream of progress chunks. The
// channel is closed once the execution reaches a terminal state or the wait
// fails; call Result afterwards for the aggregated outcome.
func (c *Completions) CreateStream(ctx context.Context, params CompletionParams) (*CompletionStream, error) {
	execution, model, err := c.start(ctx, params)
	if err != nil {
		return nil, err
	}

	stream := &CompletionStream{
		events: make(chan CompletionChunk, streamEventBuffer),
		done:   make(chan struct{}),
	}
	go c.poll(ctx, execution.ID, model, params.Timeout, stream)
	return stream, nil
}

// start uploads local files and submits the execution.
func (c *Completions) start(ctx context.Context, params CompletionParams) (*PredictionResponse, string, error) {
	if params.Prompt == "" {
		return nil, "", inputErrorf("prompt must not be empty")
	}
	model := params.Model
	if model == "" {
		model = DefaultCompletionModel
	}

	var fileIDs []string
	if len(params.Files) > 0 {
		uploaded, err := c.files.UploadAll(ctx, params.Files, "assistants")
		if err != nil {
			return nil, "", err
		}
		for _, file := range uploaded {
			fileIDs = append(fileIDs, file.ID)
		}
	}

	execution, err := c.agents.Execute(ctx, AgentExecuteParams{
		Name:     model,
		Prompt:   params.Prompt,
		FileIDs:  fileIDs,
		URLs:     params.FileURLs,
		Batch:    true,
		Metadata: params.Metadata,
	})
	if err != nil {
		return nil, "", err
	}
	c.logger.Debug().
		Str("execution_id", execution.ID).
		Str("model", model).
		Msg("agent execution submitted")
	return execution, model, nil
}

// poll drives a streaming wait: status-change chunks while running, one
// finished chunk at the terminal state. The interval grows multiplicatively to
// back off on long executions.
func (c *Completions) poll(ctx context.Context, id, model string, timeout time.Duration, stream *CompletionStream) {
	defer close(stream.done)
	defer close(stream.events)

	if timeout <= 0 {
		timeout = completionWaitTimeout
	}
	p := c.poller
	p.growth = streamPollGrowth
	p.maxInterval = streamPollMax

	var lastStatus JobStatus
	result, err := waitFor(ctx, p, "execution", id, WaitOptions{Timeout: timeout, Interval: streamPollInterval},
		func(ctx context.Context) (*PredictionResponse, JobStatus, error) {
			resp, fetchErr := c.executions.Get(ctx, id)
			if fetchErr != nil {
				return nil, "", fetchErr
			}
			if resp.Status != lastStatus && !resp.Status.IsTerminal() {
				lastStatus = resp.Status
				stream.emit(CompletionChunk{ID: id, Model: model, Status: resp.Status})
			}
			return resp, resp.Status, nil
		})
	if err != nil {
		stream.err = err
		return
	}

	final := c.assemble(result, model)
	stream.final = final
	stream.emit(CompletionChunk{
		ID:       id,
		Model:    model,
		Status:   final.Status,
		Delta:    final.Content,
		Finished: true,
	})
}

// assemble builds the aggregated response from a terminal execution.
func (c *Completions) assemble(result *PredictionResponse, model string) *CompletionResponse {
	out := &CompletionResponse{
		ID:          result.ID,
		Model:       model,
		Response:    result.Response,
		Status:      result.Status,
		CreatedAt:   result.CreatedAt,
		CompletedAt: result.CompletedAt,
		Usage:       result.Usage,
	}
	if len(result.Response) > 0 {
		out.Content = extractText(result.Response)
		out.Artifacts = extractArtifacts(result.Response)
	}
	if out.Content == "" && (result.Status == JobFailed || result.Status == JobError) {
		out.Content = "execution failed"
	}
	return out
}

// DownloadArtifact fetches an artifact URL into outputDir and returns the
// local path. The filename falls back to the URL basename, then a random name.
func (c *Completions) DownloadArtifact(ctx context.Context, artifact Artifact, outputDir string) (string, error) {
	if artifact.URL == "" {
		return "", inputErrorf("artifact URL must not be empty")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", newClientError(ErrCodeInput, fmt.Sprintf("create output directory: %v", err), err)
	}

	filename := artifact.Filename
	if filename == "" {
		if parsed, err := url.Parse(artifact.URL); err == nil {
			filename = path.Base(parsed.Path)
		}
		if filename == "" || filename == "." || filename == "/" {
			filename = "artifact_" + uuid.NewString()[:8]
		}
	}
	target := filepath.Join(outputDir, filename)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, artifact.URL, nil)
	if err != nil {
		return "", newClientError(ErrCodeInput, fmt.Sprintf("build artifact request: %v", err), err)
	}
	hc := c.download
	if hc == nil {
		hc = &http.Client{Timeout: 60 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return "", newClientError(ErrCodeAPI, fmt.Sprintf("download artifact: %v", err), err)
	}
	defer resp.Body.Close() //nolint:errcheck // read side failure surfaces below
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", newStatusError(resp.StatusCode, "artifact download failed", "", resp.Header)
	}

	file, err := os.Create(target)
	if err != nil {
		return "", newClientError(ErrCodeInput, fmt.Sprintf("create artifact file: %v", err), err)
	}
	_, copyErr := io.Copy(file, resp.Body)
	closeErr := file.Close()
	if copyErr != nil {
		return "", newClientError(ErrCodeAPI, fmt.Sprintf("write artifact file: %v", copyErr), copyErr)
	}
	if closeErr != nil {
		return "", newClientError(ErrCodeInput, fmt.Sprintf("close artifact file: %v", closeErr), closeErr)
	}
	return target, nil
}

// CompletionStream delivers progress chunks for a streaming completion.
type CompletionStream struct {
	events chan CompletionChunk
	done   chan struct{}
	final  *CompletionResponse
	err    error
}

// Events returns the chunk channel. It is closed when the execution reaches a
// terminal state or the wait fails. Delivery is best effort: a consumer that
// stops draining loses chunks once the buffer fills, it never stalls the poll.
func (s *CompletionStream) Events() <-chan CompletionChunk {
	return s.events
}

// Result blocks until the stream finishes and returns the aggregated response
// or the wait error. Chunks left undrained do not block completion.
func (s *CompletionStream) Result() (*CompletionResponse, error) {
	<-s.done
	if s.err != nil {
		return nil, s.err
	}
	return s.final, nil
}

// emit delivers a chunk without ever blocking the poll goroutine: the chunk is
// dropped when the buffer is full, so Result completes even for consumers that
// never drain Events.
func (s *CompletionStream) emit(chunk CompletionChunk) {
	select {
	case s.events <- chunk:
	default:
	}
}

// Text and artifact extraction from opaque agent responses uses a fixed set of
// JMESPath expressions over known field shapes; unknown shapes fall back to
// empty results rather than reflective probing.
const (
	textExpr      = "text || message || content || answer || result || output"
	artifactsExpr = "artifacts[?url]"
	urlFieldsExpr = "[file_url, output_url, download_url, result_url]"
)

// extractText pulls the primary text field out of an agent response.
func extractText(raw json.RawMessage) string {
	data := decodeAny(raw)
	if data == nil {
		return ""
	}
	value, err := jmespath.Search(textExpr, data)
	if err != nil {
		return ""
	}
	text, ok := value.(string)
	if !ok {
		return ""
	}
	return text
}

// extractArtifacts collects downloadable artifacts from an agent response,
// deduplicated by URL.
func extractArtifacts(raw json.RawMessage) []Artifact {
	data := decodeAny(raw)
	if data == nil {
		return nil
	}

	var artifacts []Artifact
	seen := map[string]bool{}

	if value, err := jmespath.Search(artifactsExpr, data); err == nil {
		if items, ok := value.([]any); ok {
			for _, item := range items {
				entry, ok := item.(map[string]any)
				if !ok {
					continue
				}
				artifact := Artifact{
					ID:          stringField(entry, "id"),
					URL:         stringField(entry, "url"),
					Filename:    stringField(entry, "filename"),
					ContentType: stringField(entry, "content_type"),
				}
				if size, ok := entry["size"].(float64); ok {
					artifact.Size = int64(size)
				}
				if artifact.ID == "" {
					artifact.ID = uuid.NewString()[:12]
				}
				if artifact.URL != "" && !seen[artifact.URL] {
					seen[artifact.URL] = true
					artifacts = append(artifacts, artifact)
				}
			}
		}
	}

	if value, err := jmespath.Search(urlFieldsExpr, data); err == nil {
		if items, ok := value.([]any); ok {
			for _, item := range items {
				artifactURL, ok := item.(string)
				if !ok || !strings.HasPrefix(artifactURL, "http") || seen[artifactURL] {
					continue
				}
				seen[artifactURL] = true
				artifacts = append(artifacts, Artifact{
					ID:  uuid.NewString()[:12],
					URL: artifactURL,
				})
			}
		}
	}
	return artifacts
}

func decodeAny(raw json.RawMessage) any {
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil
	}
	return data
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
