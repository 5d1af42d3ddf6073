package client

import (
	"context"
	"net/http"
)

// Feedback submits labels and notes for predictions. The endpoint lives under
// the experimental route prefix.
type Feedback struct {
	requestor Requestor
}

// FeedbackParams describes feedback on a prediction.
type FeedbackParams struct {
	// RequestID is the prediction the feedback is about.
	RequestID string
	// Label is an optional corrected response payload.
	Label any
	// Notes are free-form comments.
	Notes string
	// Flag marks the prediction as problematic.
	Flag bool
}

// Submit records feedback for a prediction.
func (f *Feedback) Submit(ctx context.Context, params FeedbackParams) (*FeedbackResponse, error) {
	if params.RequestID == "" {
		return nil, inputErrorf("request id must not be empty")
	}
	body := map[string]any{
		"request_id": params.RequestID,
		"flag":       params.Flag,
	}
	if params.Label != nil {
		body["response"] = params.Label
	}
	if params.Notes != "" {
		body["notes"] = params.Notes
	}

	resp, err := f.requestor.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "experimental/feedback/submit",
		JSON:   body,
	})
	if err != nil {
		return nil, err
	}
	var out FeedbackResponse
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get fetches feedback by request ID.
func (f *Feedback) Get(ctx context.Context, requestID string) (*FeedbackResponse, error) {
	if requestID == "" {
		return nil, inputErrorf("request id must not be empty")
	}
	resp, err := f.requestor.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   "experimental/feedback/" + requestID,
	})
	if err != nil {
		return nil, err
	}
	var out FeedbackResponse
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
