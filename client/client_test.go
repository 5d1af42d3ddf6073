package client_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vlm-run/vlmrun-go/client"
	"github.com/vlm-run/vlmrun-go/config"
	"github.com/vlm-run/vlmrun-go/internal/mocks"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.APIKey = "sk-test"
	return &cfg
}

func TestNewRequiresAPIKey(t *testing.T) {
	cfg := config.Default()
	_, err := client.New(client.Options{Config: &cfg})
	require.Error(t, err)
	assert.True(t, client.IsConfiguration(err))
	assert.Contains(t, err.Error(), "VLMRUN_API_KEY")
}

func TestNewExplicitOptionsOverrideConfig(t *testing.T) {
	cfg := config.Default()
	cfg.APIKey = "sk-from-config"
	cfg.BaseURL = "https://config.example.com/v1"

	c, err := client.New(client.Options{
		APIKey:  "sk-explicit",
		BaseURL: "https://explicit.example.com/v1",
		Config:  &cfg,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://explicit.example.com/v1", c.BaseURL())
}

func TestNewWiresAllResources(t *testing.T) {
	c, err := client.New(client.Options{Config: testConfig()})
	require.NoError(t, err)

	assert.NotNil(t, c.Files)
	assert.NotNil(t, c.Predictions)
	assert.NotNil(t, c.Document)
	assert.NotNil(t, c.Audio)
	assert.NotNil(t, c.Video)
	assert.NotNil(t, c.Image)
	assert.NotNil(t, c.Web)
	assert.NotNil(t, c.Models)
	assert.NotNil(t, c.FineTuning)
	assert.NotNil(t, c.Datasets)
	assert.NotNil(t, c.Agents)
	assert.NotNil(t, c.Executions)
	assert.NotNil(t, c.Completions)
	assert.NotNil(t, c.Hub)
	assert.NotNil(t, c.Feedback)
}

func TestNewSkipsKeyCheckWithInjectedRequestor(t *testing.T) {
	// Tests inject a Requestor and never hit the network, so no key is needed.
	cfg := config.Default()
	c, err := client.New(client.Options{
		Config:    &cfg,
		Requestor: mocks.NewScriptedRequestor(),
	})
	require.NoError(t, err)
	assert.NotNil(t, c.Models)
}

func TestGenerateThenWaitScenario(t *testing.T) {
	// Submit a batch document generation, then poll it to completion through
	// the public API.
	scripted := mocks.NewScriptedRequestor(
		mocks.Step{Body: map[string]any{"id": "pred_1", "status": "enqueued"}},
		mocks.Step{Body: map[string]any{"id": "pred_1", "status": "running"}},
		mocks.Step{Body: map[string]any{
			"id":       "pred_1",
			"status":   "completed",
			"response": map[string]any{"invoice_total": "42.00"},
			"usage":    map[string]any{"credits_used": 3, "elements_processed": 1},
		}},
	)
	cfg := config.Default()
	c, err := client.New(client.Options{Config: &cfg, Requestor: scripted})
	require.NoError(t, err)

	pred, err := c.Document.Generate(context.Background(), client.GenerateParams{
		FileID: "file_1",
		Domain: "document.invoice",
		Batch:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, client.JobEnqueued, pred.Status)

	final, err := c.Predictions.Wait(context.Background(), pred.ID, client.WaitOptions{
		Timeout:  time.Second,
		Interval: time.Millisecond,
	})
	require.NoError(t, err)
	assert.Equal(t, client.JobCompleted, final.Status)
	require.NotNil(t, final.Usage)
	assert.Equal(t, 3, final.Usage.CreditsUsed)

	var invoice struct {
		Total string `json:"invoice_total"`
	}
	require.NoError(t, final.DecodeInto(&invoice))
	assert.Equal(t, "42.00", invoice.Total)

	calls := scripted.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "document/generate", calls[0].Path)
	assert.Equal(t, "predictions/pred_1", calls[1].Path)
}

func TestModelsListWithGomock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mock := mocks.NewMockRequestor(ctrl)
	mock.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(&client.Response{
			Body:       []byte(`[{"model":"vlm-1","domain":"document.invoice"}]`),
			StatusCode: 200,
		}, nil)

	cfg := config.Default()
	c, err := client.New(client.Options{Config: &cfg, Requestor: mock})
	require.NoError(t, err)

	models, err := c.Models.List(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, "vlm-1", models[0].Model)
	assert.Equal(t, "document.invoice", models[0].Domain)
}
