package client

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// maxParallelUploads caps the upload worker pool regardless of file count.
const maxParallelUploads = 4

// Files manages stored files on the platform.
type Files struct {
	requestor Requestor
	logger    zerolog.Logger
}

// List returns stored files, paged by skip and limit.
func (f *Files) List(ctx context.Context, skip, limit int) ([]FileResponse, error) {
	resp, err := f.requestor.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   "files",
		Params: pageParams(skip, limit),
	})
	if err != nil {
		return nil, err
	}
	var out struct {
		Data []FileResponse `json:"data"`
	}
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Upload stores a local file under the given purpose ("assistants",
// "fine-tune", "datasets").
func (f *Files) Upload(ctx context.Context, path, purpose string) (*FileResponse, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newClientError(ErrCodeInput, fmt.Sprintf("read file %s: %v", path, err), err)
	}
	return f.UploadBytes(ctx, filepath.Base(path), data, purpose)
}

// UploadBytes stores an in-memory payload as a named file.
func (f *Files) UploadBytes(ctx context.Context, filename string, data []byte, purpose string) (*FileResponse, error) {
	if filename == "" {
		return nil, inputErrorf("filename must not be empty")
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, newClientError(ErrCodeInput, fmt.Sprintf("build multipart body: %v", err), err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, newClientError(ErrCodeInput, fmt.Sprintf("build multipart body: %v", err), err)
	}
	if err := writer.Close(); err != nil {
		return nil, newClientError(ErrCodeInput, fmt.Sprintf("build multipart body: %v", err), err)
	}

	f.logger.Debug().
		Str("filename", filename).
		Int("bytes", len(data)).
		Str("purpose", purpose).
		Msg("uploading file")

	params := url.Values{}
	if purpose != "" {
		params.Set("purpose", purpose)
	}
	resp, err := f.requestor.Do(ctx, Request{
		Method:      http.MethodPost,
		Path:        "files",
		Params:      params,
		Raw:         buf.Bytes(),
		ContentType: writer.FormDataContentType(),
	})
	if err != nil {
		return nil, err
	}

	var file FileResponse
	if err := resp.Decode(&file); err != nil {
		return nil, err
	}
	f.logger.Debug().
		Str("file_id", file.ID).
		Str("filename", file.Filename).
		Msg("uploaded file")
	return &file, nil
}

// UploadAll uploads the given paths through a bounded parallel group. The
// worker pool is capped at four regardless of file count, completion order is
// unspecified, and the first failure cancels the remaining uploads. Results
// are returned in input order only after every upload succeeded.
func (f *Files) UploadAll(ctx context.Context, paths []string, purpose string) ([]FileResponse, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	results := make([]FileResponse, len(paths))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelUploads)
	for i, path := range paths {
		g.Go(func() error {
			file, err := f.Upload(ctx, path, purpose)
			if err != nil {
				return fmt.Errorf("upload %s: %w", path, err)
			}
			mu.Lock()
			results[i] = *file
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Get returns file metadata by ID.
func (f *Files) Get(ctx context.Context, id string) (*FileResponse, error) {
	if id == "" {
		return nil, inputErrorf("file id must not be empty")
	}
	resp, err := f.requestor.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   "files/" + id,
	})
	if err != nil {
		return nil, err
	}
	var file FileResponse
	if err := resp.Decode(&file); err != nil {
		return nil, err
	}
	return &file, nil
}

// Content returns the raw bytes of a stored file.
func (f *Files) Content(ctx context.Context, id string) ([]byte, error) {
	if id == "" {
		return nil, inputErrorf("file id must not be empty")
	}
	resp, err := f.requestor.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   "files/" + id + "/content",
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// Delete removes a stored file.
func (f *Files) Delete(ctx context.Context, id string) (*FileResponse, error) {
	if id == "" {
		return nil, inputErrorf("file id must not be empty")
	}
	resp, err := f.requestor.Do(ctx, Request{
		Method: http.MethodDelete,
		Path:   "files/" + id,
	})
	if err != nil {
		return nil, err
	}
	var file FileResponse
	if err := resp.Decode(&file); err != nil {
		return nil, err
	}
	return &file, nil
}

// pageParams builds skip/limit query parameters.
func pageParams(skip, limit int) url.Values {
	params := url.Values{}
	params.Set("skip", fmt.Sprint(skip))
	params.Set("limit", fmt.Sprint(limit))
	return params
}
