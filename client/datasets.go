package client

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

const (
	datasetWaitTimeout  = 30 * time.Minute
	datasetWaitInterval = 10 * time.Second
)

// datasetTypes enumerates accepted dataset kinds.
var datasetTypes = map[string]bool{
	"images":    true,
	"videos":    true,
	"documents": true,
}

// Datasets manages dataset builds.
type Datasets struct {
	requestor Requestor
	files     *Files
	poller    poller
	logger    zerolog.Logger
}

// DatasetCreateParams describes a dataset build request.
type DatasetCreateParams struct {
	// Directory is archived (tar.gz) and uploaded as the dataset source.
	Directory string
	// Name labels the dataset.
	Name string
	// Domain selects the extraction schema the dataset trains against.
	Domain string
	// Type is one of "images", "videos", "documents".
	Type string
}

// Create archives a directory, uploads it, and registers the dataset build.
func (d *Datasets) Create(ctx context.Context, params DatasetCreateParams) (*DatasetResponse, error) {
	if !datasetTypes[params.Type] {
		return nil, inputErrorf("dataset type must be one of: images, videos, documents")
	}
	if params.Name == "" || params.Domain == "" {
		return nil, inputErrorf("dataset name and domain must not be empty")
	}

	archive, err := archiveDirectory(params.Directory)
	if err != nil {
		return nil, err
	}
	archiveName := fmt.Sprintf("%s_%s.tar.gz", params.Name, time.Now().UTC().Format("20060102"))
	d.logger.Debug().
		Str("directory", params.Directory).
		Str("archive", archiveName).
		Int("bytes", len(archive)).
		Msg("uploading dataset archive")

	uploaded, err := d.files.UploadBytes(ctx, archiveName, archive, "datasets")
	if err != nil {
		return nil, err
	}

	resp, err := d.requestor.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "datasets/create",
		JSON: map[string]any{
			"file_id":      uploaded.ID,
			"domain":       params.Domain,
			"dataset_name": params.Name,
			"dataset_type": params.Type,
		},
	})
	if err != nil {
		return nil, err
	}
	var out DatasetResponse
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get fetches a dataset build by ID.
func (d *Datasets) Get(ctx context.Context, id string) (*DatasetResponse, error) {
	if id == "" {
		return nil, inputErrorf("dataset id must not be empty")
	}
	resp, err := d.requestor.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   "datasets/" + id,
	})
	if err != nil {
		return nil, err
	}
	var out DatasetResponse
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns dataset builds, paged by skip and limit.
func (d *Datasets) List(ctx context.Context, skip, limit int) ([]DatasetResponse, error) {
	resp, err := d.requestor.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   "datasets",
		Params: pageParams(skip, limit),
	})
	if err != nil {
		return nil, err
	}
	var out []DatasetResponse
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// Wait polls the dataset build until it reaches a terminal state or the
// timeout elapses (default 30m, polling every 10s).
func (d *Datasets) Wait(ctx context.Context, id string, opts WaitOptions) (*DatasetResponse, error) {
	opts = opts.withDefaults(datasetWaitTimeout, datasetWaitInterval)
	return waitFor(ctx, d.poller, "dataset", id, opts,
		func(ctx context.Context) (*DatasetResponse, JobStatus, error) {
			ds, err := d.Get(ctx, id)
			if err != nil {
				return nil, "", err
			}
			return ds, ds.Status, nil
		})
}

// archiveDirectory builds an in-memory tar.gz of the directory's regular
// files, with paths relative to the directory root.
func archiveDirectory(dir string) ([]byte, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, inputErrorf("dataset directory does not exist: %s", dir)
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	walkErr := filepath.Walk(dir, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fi.Mode().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		header, err := tar.FileInfoHeader(fi, "")
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		_, copyErr := io.Copy(tw, file)
		closeErr := file.Close()
		if copyErr != nil {
			return copyErr
		}
		return closeErr
	})
	if walkErr != nil {
		return nil, newClientError(ErrCodeInput, fmt.Sprintf("archive directory %s: %v", dir, walkErr), walkErr)
	}
	if err := tw.Close(); err != nil {
		return nil, newClientError(ErrCodeInput, fmt.Sprintf("archive directory %s: %v", dir, err), err)
	}
	if err := gz.Close(); err != nil {
		return nil, newClientError(ErrCodeInput, fmt.Sprintf("archive directory %s: %v", dir, err), err)
	}
	return buf.Bytes(), nil
}
