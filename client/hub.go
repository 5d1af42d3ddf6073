package client

import (
	"context"
	"net/http"
	"time"

	"github.com/vlm-run/vlmrun-go/internal/cache"
)

const (
	// schemaCacheTTL bounds how long a domain schema is served from memory.
	schemaCacheTTL = 15 * time.Minute
	// schemaCacheSize bounds the number of cached domain schemas.
	schemaCacheSize = 256
)

// Hub looks up domain schemas and hub metadata. Schema lookups are memoized in
// a per-client bounded TTL cache; there is no process-wide state, so separate
// clients (and tests) never share entries.
type Hub struct {
	requestor Requestor
	schemas   *cache.TTL[*HubSchema]
}

func newHub(requestor Requestor) *Hub {
	return &Hub{
		requestor: requestor,
		schemas: cache.NewTTL[*HubSchema](cache.Config{
			Capacity: schemaCacheSize,
			TTL:      schemaCacheTTL,
		}),
	}
}

// Health reports hub availability and version.
func (h *Hub) Health(ctx context.Context) (*HubInfo, error) {
	resp, err := h.requestor.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   "hub/health",
	})
	if err != nil {
		return nil, err
	}
	var out HubInfo
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Domains returns the list of supported extraction domains.
func (h *Hub) Domains(ctx context.Context) ([]string, error) {
	resp, err := h.requestor.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   "hub/domains",
	})
	if err != nil {
		return nil, err
	}
	var out []string
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// Schema returns the JSON schema for a domain, served from the cache when a
// fresh entry exists.
func (h *Hub) Schema(ctx context.Context, domain string) (*HubSchema, error) {
	if domain == "" {
		return nil, inputErrorf("domain must not be empty")
	}
	if cached, ok := h.schemas.Get(domain); ok {
		return cached, nil
	}

	resp, err := h.requestor.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "hub/schema",
		JSON:   map[string]string{"domain": domain},
	})
	if err != nil {
		return nil, err
	}
	var out HubSchema
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	h.schemas.Set(domain, &out)
	return &out, nil
}

// InvalidateSchema drops the cached schema for a domain, forcing the next
// Schema call to refetch.
func (h *Hub) InvalidateSchema(domain string) {
	h.schemas.Delete(domain)
}
