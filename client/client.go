package client

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/vlm-run/vlmrun-go/config"
	"github.com/vlm-run/vlmrun-go/internal/transport"
)

// Options bundles constructor overrides for New. Every field is optional;
// explicit values take precedence over the environment and the config file.
type Options struct {
	// APIKey overrides VLMRUN_API_KEY and the config file.
	APIKey string
	// BaseURL overrides VLMRUN_BASE_URL and the config file.
	BaseURL string
	// Timeout overrides the per-request HTTP timeout.
	Timeout time.Duration
	// MaxRetries overrides the transient-failure attempt budget.
	MaxRetries int
	// Logger receives SDK debug events. Defaults to a disabled logger.
	Logger *zerolog.Logger
	// Config supplies pre-resolved configuration; when nil, config.Load() is
	// used (environment over config file over defaults).
	Config *config.Config
	// Requestor replaces the HTTP layer entirely. Intended for tests.
	Requestor Requestor
}

// Client is the entrypoint to the VLM Run API. Construct it with New; the zero
// value is not usable. A Client and all its resources are safe for concurrent
// use.
type Client struct {
	cfg       config.Config
	requestor Requestor
	logger    zerolog.Logger

	// Files manages uploaded files.
	Files *Files
	// Predictions observes generation jobs by ID.
	Predictions *Predictions
	// Document, Audio and Video generate predictions from stored files or URLs.
	Document *FilePredictions
	Audio    *FilePredictions
	Video    *FilePredictions
	// Image generates predictions from inline images.
	Image *ImagePredictions
	// Web generates predictions from web pages.
	Web *WebPredictions
	// Models lists available model/domain pairs.
	Models *Models
	// FineTuning manages fine-tuning runs.
	FineTuning *FineTuning
	// Datasets manages dataset builds.
	Datasets *Datasets
	// Agents manages named agents.
	Agents *Agents
	// Executions observes agent executions by ID.
	Executions *Executions
	// Completions is the chat-style agent interface.
	Completions *Completions
	// Hub looks up domain schemas, memoized per client.
	Hub *Hub
	// Feedback submits labels and notes for predictions.
	Feedback *Feedback
}

// New builds a Client. The API key is resolved with the documented precedence
// (explicit option, then environment, then config file); a missing key is a
// configuration error.
func New(opts Options) (*Client, error) {
	var cfg config.Config
	if opts.Config != nil {
		cfg = *opts.Config
		cfg.Sanitize()
	} else {
		loaded, err := config.Load()
		if err != nil {
			return nil, newClientError(ErrCodeConfiguration, err.Error(), err)
		}
		cfg = loaded
	}

	if opts.APIKey != "" {
		cfg.APIKey = opts.APIKey
	}
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if opts.Timeout > 0 {
		cfg.Timeout = opts.Timeout
	}
	if opts.MaxRetries > 0 {
		cfg.MaxRetries = opts.MaxRetries
	}
	cfg.Sanitize()

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	requestor := opts.Requestor
	if requestor == nil {
		if cfg.APIKey == "" {
			return nil, newClientError(
				ErrCodeConfiguration,
				"API key must be provided via Options.APIKey, the VLMRUN_API_KEY environment variable, or the config file",
				nil,
			)
		}
		retry := transport.DefaultRetryPolicy()
		retry.MaxAttempts = cfg.MaxRetries
		built, err := newRequestor(cfg.BaseURL, cfg.APIKey, cfg.Timeout, retry, logger)
		if err != nil {
			return nil, err
		}
		requestor = built
	}

	c := &Client{
		cfg:       cfg,
		requestor: requestor,
		logger:    logger,
	}
	c.wireResources(newPoller())
	return c, nil
}

// wireResources constructs the resource groups around the shared requestor.
func (c *Client) wireResources(p poller) {
	c.Files = &Files{requestor: c.requestor, logger: c.logger}
	c.Predictions = &Predictions{requestor: c.requestor, poller: p}
	c.Document = &FilePredictions{route: "document", files: c.Files, requestor: c.requestor, logger: c.logger}
	c.Audio = &FilePredictions{route: "audio", files: c.Files, requestor: c.requestor, logger: c.logger}
	c.Video = &FilePredictions{route: "video", files: c.Files, requestor: c.requestor, logger: c.logger}
	c.Image = &ImagePredictions{requestor: c.requestor}
	c.Web = &WebPredictions{requestor: c.requestor}
	c.Models = &Models{requestor: c.requestor}
	c.FineTuning = &FineTuning{requestor: c.requestor, poller: p}
	c.Datasets = &Datasets{requestor: c.requestor, files: c.Files, poller: p, logger: c.logger}
	c.Agents = &Agents{requestor: c.requestor}
	c.Executions = &Executions{requestor: c.requestor, poller: p}
	c.Completions = &Completions{
		files:      c.Files,
		agents:     c.Agents,
		executions: c.Executions,
		poller:     p,
		logger:     c.logger,
	}
	c.Hub = newHub(c.requestor)
	c.Feedback = &Feedback{requestor: c.requestor}
}

// BaseURL returns the resolved API endpoint.
func (c *Client) BaseURL() string {
	return c.cfg.BaseURL
}
