// Package client is the Go SDK for the VLM Run API platform. It wraps the REST
// endpoints with typed requests and responses, retries transient transport
// failures, and provides polling helpers for long-running jobs.
package client

import (
	"encoding/json"
	"time"
)

// JobStatus is the lifecycle state of a server-side job (prediction,
// fine-tuning run, dataset build, or agent execution).
type JobStatus string

const (
	// JobEnqueued means the job is accepted but not yet scheduled.
	JobEnqueued JobStatus = "enqueued"
	// JobPending means the job is scheduled and waiting for a worker.
	JobPending JobStatus = "pending"
	// JobRunning means the job is being processed.
	JobRunning JobStatus = "running"
	// JobCompleted is the successful terminal state; Response is populated.
	JobCompleted JobStatus = "completed"
	// JobFailed is the unsuccessful terminal state; Response, if present,
	// carries an error payload rather than a result.
	JobFailed JobStatus = "failed"
	// JobPaused means the job is suspended server-side.
	JobPaused JobStatus = "paused"
	// JobError is an additional terminal state surfaced by agent executions.
	JobError JobStatus = "error"
)

// IsTerminal reports whether no further transition can occur from s.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobCompleted, JobFailed, JobError:
		return true
	default:
		return false
	}
}

// CreditUsage records the cost of a processed job.
type CreditUsage struct {
	ElementsProcessed int    `json:"elements_processed"`
	ElementType       string `json:"element_type,omitempty"` // image, page, video, audio
	CreditsUsed       int    `json:"credits_used"`
}

// PredictionResponse is the job resource returned by generation endpoints and
// agent executions. Response stays opaque; callers decode it with DecodeInto
// once Status is JobCompleted.
type PredictionResponse struct {
	ID          string          `json:"id"`
	Status      JobStatus       `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	Response    json.RawMessage `json:"response,omitempty"`
	Usage       *CreditUsage    `json:"usage,omitempty"`
}

// DecodeInto unmarshals the opaque response payload into v. It is the untyped
// fallback for domains the SDK has no dedicated model for.
func (p *PredictionResponse) DecodeInto(v any) error {
	if len(p.Response) == 0 {
		return inputErrorf("prediction %s has no response payload (status: %s)", p.ID, p.Status)
	}
	return json.Unmarshal(p.Response, v)
}

// FileResponse describes a stored file.
type FileResponse struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Bytes     int64     `json:"bytes"`
	Purpose   string    `json:"purpose"`
	CreatedAt time.Time `json:"created_at"`
	Object    string    `json:"object,omitempty"`
	PublicURL string    `json:"public_url,omitempty"`
}

// ModelInfo pairs a model with the domain it serves.
type ModelInfo struct {
	Model  string `json:"model"`
	Domain string `json:"domain"`
}

// GenerationConfig tunes a generation request.
type GenerationConfig struct {
	DetailLevel     string `json:"detail,omitempty"` // auto, lo, hi
	JSONSchema      any    `json:"json_schema,omitempty"`
	ConfidenceScore bool   `json:"confidence,omitempty"`
	GroundingBoxes  bool   `json:"grounding,omitempty"`
}

// RequestMetadata is caller-supplied context attached to a generation request.
type RequestMetadata struct {
	Environment   string `json:"environment,omitempty"` // dev, staging, prod
	SessionID     string `json:"session_id,omitempty"`
	AllowTraining *bool  `json:"allow_training,omitempty"`
}

// FinetuningRequest are the parameters of a fine-tuning run.
type FinetuningRequest struct {
	Model         string  `json:"model"`
	DatasetURI    string  `json:"dataset_uri"`
	DatasetFormat string  `json:"dataset_format,omitempty"`
	TaskPrompt    string  `json:"task_prompt,omitempty"`
	NumEpochs     int     `json:"num_epochs,omitempty"`
	BatchSize     int     `json:"batch_size,omitempty"`
	LearningRate  float64 `json:"learning_rate,omitempty"`
	UseLoRA       bool    `json:"use_lora,omitempty"`
}

// FinetuningJob is a fine-tuning run resource.
type FinetuningJob struct {
	ID          string            `json:"id"`
	Status      JobStatus         `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	Model       string            `json:"model"`
	Request     FinetuningRequest `json:"request"`
	Usage       *CreditUsage      `json:"usage,omitempty"`
}

// DatasetResponse is a dataset build resource.
type DatasetResponse struct {
	ID          string       `json:"dataset_id"`
	URI         string       `json:"dataset_uri,omitempty"`
	Type        string       `json:"dataset_type"`
	Domain      string       `json:"domain"`
	Status      JobStatus    `json:"status"`
	Message     string       `json:"message,omitempty"`
	FileID      string       `json:"file_id,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	Usage       *CreditUsage `json:"usage,omitempty"`
}

// AgentInfo describes a named agent in the registry.
type AgentInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Domain    string    `json:"domain"`
	Version   string    `json:"version,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HubInfo is the hub health/version report.
type HubInfo struct {
	Status  string `json:"status"`
	Version string `json:"hub_version"`
}

// HubSchema is the JSON schema registered for a domain.
type HubSchema struct {
	SchemaJSON    json.RawMessage `json:"schema_json"`
	SchemaVersion string          `json:"schema_version"`
	SchemaHash    string          `json:"schema_hash"`
}

// FeedbackResponse acknowledges submitted feedback for a prediction.
type FeedbackResponse struct {
	ID        string          `json:"id"`
	RequestID string          `json:"request_id"`
	CreatedAt time.Time       `json:"created_at"`
	Response  json.RawMessage `json:"response,omitempty"`
}
