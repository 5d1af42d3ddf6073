package client

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCompletions(stub *stubRequestor, clock *fakeClock) *Completions {
	files := &Files{requestor: stub, logger: zerolog.Nop()}
	agents := &Agents{requestor: stub}
	executions := &Executions{requestor: stub, poller: clock.poller()}
	return &Completions{
		files:      files,
		agents:     agents,
		executions: executions,
		poller:     clock.poller(),
		logger:     zerolog.Nop(),
	}
}

func TestCompletionsCreateBlocksUntilTerminal(t *testing.T) {
	stub := &stubRequestor{responses: []stubResponse{
		{body: map[string]any{"id": "exec_1", "status": "enqueued"}},
		{body: map[string]any{"id": "exec_1", "status": "running"}},
		{body: map[string]any{
			"id":       "exec_1",
			"status":   "completed",
			"response": map[string]any{"text": "The invoice totals $42."},
		}},
	}}
	c := newTestCompletions(stub, newFakeClock())

	resp, err := c.Create(context.Background(), CompletionParams{
		Prompt:   "Summarize the invoice",
		FileURLs: []string{"https://example.com/invoice.pdf"},
	})
	require.NoError(t, err)
	assert.Equal(t, "exec_1", resp.ID)
	assert.Equal(t, DefaultCompletionModel, resp.Model)
	assert.Equal(t, JobCompleted, resp.Status)
	assert.Equal(t, "The invoice totals $42.", resp.Text())

	// First call submits the execution, the rest are polls.
	submit := stub.call(0)
	assert.Equal(t, http.MethodPost, submit.Method)
	assert.Equal(t, "agents/execute", submit.Path)
}

func TestCompletionsCreateRequiresPrompt(t *testing.T) {
	c := newTestCompletions(&stubRequestor{}, newFakeClock())
	_, err := c.Create(context.Background(), CompletionParams{})
	require.Error(t, err)
	assert.Equal(t, ErrCodeInput, GetCode(err))
}

func TestCompletionsCreateReturnsFailedExecution(t *testing.T) {
	stub := &stubRequestor{responses: []stubResponse{
		{body: map[string]any{"id": "exec_1", "status": "enqueued"}},
		{body: map[string]any{"id": "exec_1", "status": "failed"}},
	}}
	c := newTestCompletions(stub, newFakeClock())

	resp, err := c.Create(context.Background(), CompletionParams{
		Prompt:   "Summarize",
		FileURLs: []string{"https://example.com/a.pdf"},
	})
	require.NoError(t, err, "a failed execution is a terminal outcome, not a wait error")
	assert.Equal(t, JobFailed, resp.Status)
}

func TestCompletionsCreateStream(t *testing.T) {
	stub := &stubRequestor{responses: []stubResponse{
		{body: map[string]any{"id": "exec_1", "status": "enqueued"}},
		{body: map[string]any{"id": "exec_1", "status": "enqueued"}},
		{body: map[string]any{"id": "exec_1", "status": "running"}},
		{body: map[string]any{"id": "exec_1", "status": "running"}},
		{body: map[string]any{
			"id":       "exec_1",
			"status":   "completed",
			"response": map[string]any{"text": "done"},
		}},
	}}
	c := newTestCompletions(stub, newFakeClock())

	stream, err := c.CreateStream(context.Background(), CompletionParams{
		Prompt:   "Summarize",
		FileURLs: []string{"https://example.com/a.pdf"},
	})
	require.NoError(t, err)

	var chunks []CompletionChunk
	for chunk := range stream.Events() {
		chunks = append(chunks, chunk)
	}
	resp, err := stream.Result()
	require.NoError(t, err)
	assert.Equal(t, "done", resp.Text())

	// One chunk per status change plus the finished chunk; repeated statuses
	// are not re-emitted.
	require.Len(t, chunks, 3)
	assert.Equal(t, JobEnqueued, chunks[0].Status)
	assert.Equal(t, JobRunning, chunks[1].Status)
	assert.False(t, chunks[0].Finished)
	assert.True(t, chunks[2].Finished)
	assert.Equal(t, JobCompleted, chunks[2].Status)
	assert.Equal(t, "done", chunks[2].Delta)
}

func TestCompletionsStreamResultWithoutDraining(t *testing.T) {
	stub := &stubRequestor{responses: []stubResponse{
		{body: map[string]any{"id": "exec_1", "status": "enqueued"}},
		{body: map[string]any{"id": "exec_1", "status": "running"}},
		{body: map[string]any{
			"id":       "exec_1",
			"status":   "completed",
			"response": map[string]any{"text": "done"},
		}},
	}}
	c := newTestCompletions(stub, newFakeClock())

	stream, err := c.CreateStream(context.Background(), CompletionParams{Prompt: "Summarize"})
	require.NoError(t, err)

	// Result must complete even when Events is never read.
	resp, err := stream.Result()
	require.NoError(t, err)
	assert.Equal(t, JobCompleted, resp.Status)
	assert.Equal(t, "done", resp.Text())
}

func TestCompletionsUploadsLocalFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o600))

	stub := &stubRequestor{responses: []stubResponse{
		{body: map[string]any{"id": "file_1", "filename": "doc.pdf"}},
		{body: map[string]any{"id": "exec_1", "status": "completed",
			"response": map[string]any{"text": "ok"}}},
	}}
	c := newTestCompletions(stub, newFakeClock())

	resp, err := c.Create(context.Background(), CompletionParams{
		Prompt: "Read this",
		Files:  []string{path},
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text())

	upload := stub.call(0)
	assert.Equal(t, "files", upload.Path)

	var execBody map[string]any
	submit := stub.call(1)
	raw, err := json.Marshal(submit.JSON)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &execBody))
	inputs, ok := execBody["inputs"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"file_1"}, inputs["file_ids"])
}

func TestExtractText(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"text field", `{"text":"hello"}`, "hello"},
		{"message field", `{"message":"hi there"}`, "hi there"},
		{"content field", `{"content":"body"}`, "body"},
		{"answer preferred over nothing", `{"answer":"42"}`, "42"},
		{"first match wins", `{"text":"first","content":"second"}`, "first"},
		{"non-string value", `{"text":{"nested":true}}`, ""},
		{"no known field", `{"foo":"bar"}`, ""},
		{"invalid json", `{`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, extractText(json.RawMessage(tc.body)))
		})
	}
}

func TestExtractArtifacts(t *testing.T) {
	raw := json.RawMessage(`{
		"artifacts": [
			{"id": "art_1", "url": "https://cdn.vlm.run/a.png", "filename": "a.png", "content_type": "image/png", "size": 1024},
			{"url": "https://cdn.vlm.run/b.csv"},
			{"url": "https://cdn.vlm.run/a.png"},
			{"filename": "no-url.txt"}
		],
		"file_url": "https://cdn.vlm.run/c.json",
		"output_url": "https://cdn.vlm.run/c.json",
		"result_url": "not-a-url"
	}`)

	artifacts := extractArtifacts(raw)
	require.Len(t, artifacts, 3)

	assert.Equal(t, "art_1", artifacts[0].ID)
	assert.Equal(t, "https://cdn.vlm.run/a.png", artifacts[0].URL)
	assert.Equal(t, "a.png", artifacts[0].Filename)
	assert.Equal(t, int64(1024), artifacts[0].Size)

	assert.Equal(t, "https://cdn.vlm.run/b.csv", artifacts[1].URL)
	assert.NotEmpty(t, artifacts[1].ID, "artifacts without an id get one assigned")

	// The duplicated URL in file_url/output_url collapses to one entry;
	// non-http values are skipped.
	assert.Equal(t, "https://cdn.vlm.run/c.json", artifacts[2].URL)
}

func TestExtractArtifactsEmptyResponse(t *testing.T) {
	assert.Nil(t, extractArtifacts(json.RawMessage(`{}`)))
	assert.Nil(t, extractArtifacts(json.RawMessage(`null`)))
	assert.Nil(t, extractArtifacts(json.RawMessage(`{"artifacts": "oops"}`)))
}

func TestDownloadArtifact(t *testing.T) {
	// Serve the artifact from a local HTTP server.
	srv := newArtifactServer(t, "report.csv", []byte("a,b\n1,2\n"))
	defer srv.Close()

	c := newTestCompletions(&stubRequestor{}, newFakeClock())
	dir := t.TempDir()

	path, err := c.DownloadArtifact(context.Background(), Artifact{
		URL:      srv.URL + "/artifacts/report.csv",
		Filename: "report.csv",
	}, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(data))
}

func TestDownloadArtifactDerivesFilenameFromURL(t *testing.T) {
	srv := newArtifactServer(t, "chart.png", []byte{0x89, 0x50})
	defer srv.Close()

	c := newTestCompletions(&stubRequestor{}, newFakeClock())
	dir := t.TempDir()

	path, err := c.DownloadArtifact(context.Background(), Artifact{
		URL: srv.URL + "/artifacts/chart.png",
	}, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "chart.png"), path)
}

func TestDownloadArtifactRejectsEmptyURL(t *testing.T) {
	c := newTestCompletions(&stubRequestor{}, newFakeClock())
	_, err := c.DownloadArtifact(context.Background(), Artifact{}, t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ErrCodeInput, GetCode(err))
}
