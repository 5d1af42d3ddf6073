package client

import (
	"context"
	"net/http"
)

// Models lists the model/domain pairs available to the account.
type Models struct {
	requestor Requestor
}

// List returns all available models.
func (m *Models) List(ctx context.Context) ([]ModelInfo, error) {
	resp, err := m.requestor.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   "models",
	})
	if err != nil {
		return nil, err
	}
	var out []ModelInfo
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
