package client

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasetsCreateValidatesType(t *testing.T) {
	d := &Datasets{requestor: &stubRequestor{}, logger: zerolog.Nop()}
	_, err := d.Create(context.Background(), DatasetCreateParams{
		Directory: t.TempDir(),
		Name:      "invoices",
		Domain:    "document.invoice",
		Type:      "spreadsheets",
	})
	require.Error(t, err)
	assert.Equal(t, ErrCodeInput, GetCode(err))
	assert.Contains(t, err.Error(), "images, videos, documents")
}

func TestDatasetsCreateArchivesAndUploads(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.pdf"), []byte("doc-a"), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.pdf"), []byte("doc-b"), 0o600))

	stub := &stubRequestor{responses: []stubResponse{
		{body: map[string]any{"id": "file_1", "filename": "invoices.tar.gz"}},
		{body: map[string]any{"dataset_id": "ds_1", "status": "pending"}},
	}}
	files := &Files{requestor: stub, logger: zerolog.Nop()}
	d := &Datasets{requestor: stub, files: files, logger: zerolog.Nop()}

	ds, err := d.Create(context.Background(), DatasetCreateParams{
		Directory: dir,
		Name:      "invoices",
		Domain:    "document.invoice",
		Type:      "documents",
	})
	require.NoError(t, err)
	assert.Equal(t, "ds_1", ds.ID)

	// The upload carries a dated tar.gz of the directory.
	upload := stub.call(0)
	assert.Equal(t, "files", upload.Path)
	assert.Equal(t, "datasets", upload.Params.Get("purpose"))

	create := stub.call(1)
	assert.Equal(t, "datasets/create", create.Path)
	body := decodeJSONBody(t, create)
	assert.Equal(t, "file_1", body["file_id"])
	assert.Equal(t, "invoices", body["dataset_name"])
	assert.Equal(t, "documents", body["dataset_type"])
}

func TestArchiveDirectoryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha"), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "b.txt"), []byte("beta"), 0o600))

	archive, err := archiveDirectory(dir)
	require.NoError(t, err)

	gz, err := gzip.NewReader(bytes.NewReader(archive))
	require.NoError(t, err)
	tr := tar.NewReader(gz)

	contents := map[string]string{}
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		data, err := io.ReadAll(tr)
		require.NoError(t, err)
		contents[header.Name] = string(data)
	}
	assert.Equal(t, map[string]string{
		"a.txt":        "alpha",
		"nested/b.txt": "beta",
	}, contents)
}

func TestArchiveDirectoryRejectsMissingDir(t *testing.T) {
	_, err := archiveDirectory(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ErrCodeInput, GetCode(err))
}

func TestDatasetsArchiveNameCarriesDate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.pdf"), []byte("x"), 0o600))

	stub := &stubRequestor{responses: []stubResponse{
		{body: map[string]any{"id": "file_1"}},
		{body: map[string]any{"dataset_id": "ds_1"}},
	}}
	files := &Files{requestor: stub, logger: zerolog.Nop()}
	d := &Datasets{requestor: stub, files: files, logger: zerolog.Nop()}

	_, err := d.Create(context.Background(), DatasetCreateParams{
		Directory: dir,
		Name:      "receipts",
		Domain:    "document.receipt",
		Type:      "documents",
	})
	require.NoError(t, err)

	// Filename travels inside the multipart body; check the form-data part.
	raw := string(stub.call(0).Raw)
	wantPrefix := "receipts_" + time.Now().UTC().Format("20060102")
	assert.True(t, strings.Contains(raw, wantPrefix),
		"archive name should embed the UTC date: %s", wantPrefix)
}

func TestDatasetsWaitPollsUntilCompletion(t *testing.T) {
	stub := &stubRequestor{responses: []stubResponse{
		{body: map[string]any{"dataset_id": "ds_1", "status": "running"}},
		{body: map[string]any{"dataset_id": "ds_1", "status": "completed"}},
	}}
	d := &Datasets{requestor: stub, poller: newFakeClock().poller(), logger: zerolog.Nop()}

	ds, err := d.Wait(context.Background(), "ds_1", WaitOptions{})
	require.NoError(t, err)
	assert.Equal(t, JobCompleted, ds.Status)
	assert.Equal(t, 2, stub.callCount())
}
