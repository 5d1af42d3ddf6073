package client

import (
	"context"
	"net/http"
	"time"
)

const (
	finetuningWaitTimeout  = 1 * time.Hour
	finetuningWaitInterval = 30 * time.Second
)

// FineTuning manages fine-tuning runs.
type FineTuning struct {
	requestor Requestor
	poller    poller
}

// Create starts a fine-tuning run.
func (f *FineTuning) Create(ctx context.Context, req FinetuningRequest) (*FinetuningJob, error) {
	if req.Model == "" {
		return nil, inputErrorf("model must not be empty")
	}
	if req.DatasetURI == "" {
		return nil, inputErrorf("dataset URI must not be empty")
	}
	resp, err := f.requestor.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "fine_tuning/create",
		JSON:   req,
	})
	if err != nil {
		return nil, err
	}
	var job FinetuningJob
	if err := resp.Decode(&job); err != nil {
		return nil, err
	}
	return &job, nil
}

// List returns fine-tuning runs, paged by skip and limit.
func (f *FineTuning) List(ctx context.Context, skip, limit int) ([]FinetuningJob, error) {
	resp, err := f.requestor.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   "fine_tuning/jobs",
		Params: pageParams(skip, limit),
	})
	if err != nil {
		return nil, err
	}
	var jobs []FinetuningJob
	if err := resp.Decode(&jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// Get fetches a fine-tuning run by ID.
func (f *FineTuning) Get(ctx context.Context, id string) (*FinetuningJob, error) {
	if id == "" {
		return nil, inputErrorf("fine-tuning job id must not be empty")
	}
	resp, err := f.requestor.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   "fine_tuning/jobs/" + id,
	})
	if err != nil {
		return nil, err
	}
	var job FinetuningJob
	if err := resp.Decode(&job); err != nil {
		return nil, err
	}
	return &job, nil
}

// Cancel requests cancellation of a running fine-tuning job.
func (f *FineTuning) Cancel(ctx context.Context, id string) (*FinetuningJob, error) {
	if id == "" {
		return nil, inputErrorf("fine-tuning job id must not be empty")
	}
	resp, err := f.requestor.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "fine_tuning/jobs/" + id + "/cancel",
	})
	if err != nil {
		return nil, err
	}
	var job FinetuningJob
	if err := resp.Decode(&job); err != nil {
		return nil, err
	}
	return &job, nil
}

// Wait polls the run until it reaches a terminal state or the timeout elapses
// (default 1h, polling every 30s). Failed runs are returned, not raised.
func (f *FineTuning) Wait(ctx context.Context, id string, opts WaitOptions) (*FinetuningJob, error) {
	opts = opts.withDefaults(finetuningWaitTimeout, finetuningWaitInterval)
	return waitFor(ctx, f.poller, "fine-tuning job", id, opts,
		func(ctx context.Context) (*FinetuningJob, JobStatus, error) {
			job, err := f.Get(ctx, id)
			if err != nil {
				return nil, "", err
			}
			return job, job.Status, nil
		})
}
