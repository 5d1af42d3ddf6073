package client

import (
	"context"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultWaitTimeout  = 60 * time.Second
	defaultWaitInterval = 1 * time.Second
)

// Predictions observes generation jobs by ID, regardless of which modality
// created them.
type Predictions struct {
	requestor Requestor
	poller    poller
}

// List returns predictions, paged by skip and limit.
func (p *Predictions) List(ctx context.Context, skip, limit int) ([]PredictionResponse, error) {
	resp, err := p.requestor.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   "predictions",
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

// Get fetches a prediction by ID.
func (p *Predictions) Get(ctx context.Context, id string) (*PredictionResponse, error) {
	if id == "" {
		return nil, inputErrorf("prediction id must not be empty")
	}
	resp, err := p.requestor.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   "predictions/" + id,
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

// Wait polls the prediction until it reaches a terminal state or the timeout
// elapses (default 60s, polling every 1s). The terminal resource is returned
// even when its status is failed; inspect Status to distinguish.
func (p *Predictions) Wait(ctx context.Context, id string, opts WaitOptions) (*PredictionResponse, error) {
	opts = opts.withDefaults(defaultWaitTimeout, defaultWaitInterval)
	return waitFor(ctx, p.poller, "prediction", id, opts,
		func(ctx context.Context) (*PredictionResponse, JobStatus, error) {
			resp, err := p.Get(ctx, id)
			if err != nil {
				return nil, "", err
			}
			return resp, resp.Status, nil
		})
}

// GenerateParams describes a file- or URL-based generation request. Exactly one
// of FilePath, FileID, or URL must be set.
type GenerateParams struct {
	// FilePath is a local file, uploaded before the generation call.
	FilePath string
	// FileID references a previously uploaded file.
	FileID string
	// URL references a remote document.
	URL string
	// Domain selects the extraction schema (e.g. "document.invoice").
	Domain string
	// Batch submits the job asynchronously; observe it with Predictions.Wait
	// or a callback webhook.
	Batch bool
	// CallbackURL, when set, is POSTed a signed payload on completion.
	CallbackURL string

	Config   *GenerationConfig
	Metadata *RequestMetadata
}

func (p GenerateParams) sourceCount() int {
	n := 0
	if p.FilePath != "" {
		n++
	}
	if p.FileID != "" {
		n++
	}
	if p.URL != "" {
		n++
	}
	return n
}

// FilePredictions generates predictions for a file-based modality (document,
// audio, video).
type FilePredictions struct {
	route     string
	files     *Files
	requestor Requestor
	logger    zerolog.Logger
}

// Generate submits a generation job. Local files are uploaded first with
// purpose "assistants".
func (f *FilePredictions) Generate(ctx context.Context, params GenerateParams) (*PredictionResponse, error) {
	if params.sourceCount() != 1 {
		return nil, inputErrorf("exactly one of FilePath, FileID, or URL must be provided")
	}
	if params.Domain == "" {
		return nil, inputErrorf("domain must not be empty")
	}

	body := map[string]any{
		"domain": params.Domain,
		"batch":  params.Batch,
	}
	switch {
	case params.FilePath != "":
		uploaded, err := f.files.Upload(ctx, params.FilePath, "assistants")
		if err != nil {
			return nil, err
		}
		f.logger.Debug().
			Str("file_id", uploaded.ID).
			Str("route", f.route).
			Msg("generating from uploaded file")
		body["file_id"] = uploaded.ID
	case params.FileID != "":
		body["file_id"] = params.FileID
	default:
		body["url"] = params.URL
	}
	if params.CallbackURL != "" {
		body["callback_url"] = params.CallbackURL
	}
	if params.Config != nil {
		body["config"] = params.Config
	}
	if params.Metadata != nil {
		body["metadata"] = params.Metadata
	}

	resp, err := f.requestor.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   f.route + "/generate",
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

// ImagePredictions generates predictions from inline images.
type ImagePredictions struct {
	requestor Requestor
}

// ImageGenerateParams describes an inline-image generation request.
type ImageGenerateParams struct {
	// Image is the raw encoded image (JPEG or PNG bytes).
	Image []byte
	// MIMEType defaults to image/jpeg.
	MIMEType string
	// Domain selects the extraction schema.
	Domain string
	Batch  bool
	// CallbackURL, when set, is POSTed a signed payload on completion.
	CallbackURL string

	Config   *GenerationConfig
	Metadata *RequestMetadata
}

// Generate submits an inline-image generation job. The image travels base64
// encoded as a data URL.
func (i *ImagePredictions) Generate(ctx context.Context, params ImageGenerateParams) (*PredictionResponse, error) {
	if len(params.Image) == 0 {
		return nil, inputErrorf("image must not be empty")
	}
	if params.Domain == "" {
		return nil, inputErrorf("domain must not be empty")
	}
	mimeType := params.MIMEType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	body := map[string]any{
		"image":  "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(params.Image),
		"domain": params.Domain,
		"batch":  params.Batch,
	}
	if params.CallbackURL != "" {
		body["callback_url"] = params.CallbackURL
	}
	if params.Config != nil {
		body["config"] = params.Config
	}
	if params.Metadata != nil {
		body["metadata"] = params.Metadata
	}

	resp, err := i.requestor.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "image/generate",
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

// WebPredictions generates predictions from web pages.
type WebPredictions struct {
	requestor Requestor
}

// WebGenerateParams describes a web-page generation request.
type WebGenerateParams struct {
	URL    string
	Domain string
	// Mode selects rendering fidelity: "fast" or "accurate".
	Mode  string
	Batch bool

	Config   *GenerationConfig
	Metadata *RequestMetadata
}

// Generate submits a web-page generation job.
func (w *WebPredictions) Generate(ctx context.Context, params WebGenerateParams) (*PredictionResponse, error) {
	if params.URL == "" {
		return nil, inputErrorf("url must not be empty")
	}
	if params.Domain == "" {
		return nil, inputErrorf("domain must not be empty")
	}

	body := map[string]any{
		"url":    params.URL,
		"domain": params.Domain,
		"batch":  params.Batch,
	}
	if params.Mode != "" {
		body["mode"] = params.Mode
	}
	if params.Config != nil {
		body["config"] = params.Config
	}
	if params.Metadata != nil {
		body["metadata"] = params.Metadata
	}

	resp, err := w.requestor.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "web/generate",
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
