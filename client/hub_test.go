package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubHealth(t *testing.T) {
	stub := &stubRequestor{responses: []stubResponse{
		{body: map[string]any{"status": "ok", "hub_version": "1.2.0"}},
	}}
	h := newHub(stub)

	info, err := h.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", info.Status)
	assert.Equal(t, "1.2.0", info.Version)
	assert.Equal(t, "hub/health", stub.call(0).Path)
}

func TestHubDomains(t *testing.T) {
	stub := &stubRequestor{responses: []stubResponse{
		{body: []string{"document.invoice", "document.receipt"}},
	}}
	h := newHub(stub)

	domains, err := h.Domains(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"document.invoice", "document.receipt"}, domains)
}

func TestHubSchemaIsCachedPerDomain(t *testing.T) {
	stub := &stubRequestor{responses: []stubResponse{
		{body: map[string]any{
			"schema_json":    map[string]any{"type": "object"},
			"schema_version": "1.0.0",
			"schema_hash":    "abc123",
		}},
	}}
	h := newHub(stub)

	first, err := h.Schema(context.Background(), "document.invoice")
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", first.SchemaVersion)

	// Second lookup for the same domain must be served from the cache.
	second, err := h.Schema(context.Background(), "document.invoice")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, stub.callCount())

	req := stub.call(0)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "hub/schema", req.Path)
}

func TestHubSchemaInvalidateForcesRefetch(t *testing.T) {
	stub := &stubRequestor{responses: []stubResponse{
		{body: map[string]any{"schema_version": "1.0.0"}},
		{body: map[string]any{"schema_version": "1.1.0"}},
	}}
	h := newHub(stub)

	first, err := h.Schema(context.Background(), "document.invoice")
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", first.SchemaVersion)

	h.InvalidateSchema("document.invoice")

	second, err := h.Schema(context.Background(), "document.invoice")
	require.NoError(t, err)
	assert.Equal(t, "1.1.0", second.SchemaVersion)
	assert.Equal(t, 2, stub.callCount())
}

func TestHubSchemaRequiresDomain(t *testing.T) {
	h := newHub(&stubRequestor{})
	_, err := h.Schema(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, ErrCodeInput, GetCode(err))
}
