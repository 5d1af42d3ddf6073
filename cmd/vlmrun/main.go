// Command vlmrun is the command-line interface to the VLM Run platform:
// document/audio/video/image/web predictions, file management, fine-tuning,
// datasets, the schema hub, and a local webhook listener.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"

	"github.com/rs/zerolog"

	"github.com/vlm-run/vlmrun-go/client"
	"github.com/vlm-run/vlmrun-go/config"
	"github.com/vlm-run/vlmrun-go/internal/bootstrap"
)

const version = "0.1.0"

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger zerolog.Logger
	Config config.Config
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmdName)
		printUsage()
		os.Exit(2)
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := bootstrap.InitLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmdCtx := &commandContext{
		Ctx:    ctx,
		Logger: logger,
		Config: cfg,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.Error().Err(runErr).Str("command", cmdName).Msg("command failed")
		fmt.Fprintf(os.Stderr, "%v\n", runErr)
		os.Exit(1)
	}
}

func commands() map[string]command {
	return map[string]command{
		"generate": {
			name:        "generate",
			description: "Generate a structured prediction from a document, audio, video, image, or web page",
			run:         runGenerate,
		},
		"chat": {
			name:        "chat",
			description: "Run a chat-style agent over files or URLs and print the result",
			run:         runChat,
		},
		"predictions-list": {
			name:        "predictions-list",
			description: "List recent predictions",
			run:         runPredictionsList,
		},
		"predictions-get": {
			name:        "predictions-get",
			description: "Fetch a prediction by ID",
			run:         runPredictionsGet,
		},
		"predictions-wait": {
			name:        "predictions-wait",
			description: "Poll a prediction until it reaches a terminal state",
			run:         runPredictionsWait,
		},
		"files-list": {
			name:        "files-list",
			description: "List uploaded files",
			run:         runFilesList,
		},
		"files-upload": {
			name:        "files-upload",
			description: "Upload one or more local files",
			run:         runFilesUpload,
		},
		"files-get": {
			name:        "files-get",
			description: "Fetch file metadata by ID",
			run:         runFilesGet,
		},
		"files-delete": {
			name:        "files-delete",
			description: "Delete an uploaded file",
			run:         runFilesDelete,
		},
		"models": {
			name:        "models",
			description: "List available models and the domains they serve",
			run:         runModels,
		},
		"finetune-create": {
			name:        "finetune-create",
			description: "Start a fine-tuning run",
			run:         runFinetuneCreate,
		},
		"finetune-list": {
			name:        "finetune-list",
			description: "List fine-tuning runs",
			run:         runFinetuneList,
		},
		"finetune-get": {
			name:        "finetune-get",
			description: "Fetch a fine-tuning run by ID",
			run:         runFinetuneGet,
		},
		"finetune-cancel": {
			name:        "finetune-cancel",
			description: "Cancel a running fine-tuning job",
			run:         runFinetuneCancel,
		},
		"dataset-create": {
			name:        "dataset-create",
			description: "Archive a directory and register it as a dataset",
			run:         runDatasetCreate,
		},
		"dataset-list": {
			name:        "dataset-list",
			description: "List dataset builds",
			run:         runDatasetList,
		},
		"dataset-get": {
			name:        "dataset-get",
			description: "Fetch a dataset build by ID",
			run:         runDatasetGet,
		},
		"hub-health": {
			name:        "hub-health",
			description: "Check schema hub health and version",
			run:         runHubHealth,
		},
		"hub-domains": {
			name:        "hub-domains",
			description: "List available extraction domains",
			run:         runHubDomains,
		},
		"hub-schema": {
			name:        "hub-schema",
			description: "Print the JSON schema for a domain",
			run:         runHubSchema,
		},
		"listen": {
			name:        "listen",
			description: "Run a local webhook listener that verifies signatures and prints payloads",
			run:         runListen,
		},
		"version": {
			name:        "version",
			description: "Print the CLI version",
			run:         runVersion,
		},
	}
}

func printUsage() {
	fmt.Fprintf(os.Stdout, "Usage: vlmrun <command> [flags]\n\n")
	fmt.Fprintf(os.Stdout, "Available commands:\n")

	all := commands()
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(os.Stdout, "  %-18s %s\n", name, all[name].description)
	}
}

// newClient builds the API client from the resolved configuration.
func newClient(cmdCtx *commandContext) (*client.Client, error) {
	return client.New(client.Options{
		Config: &cmdCtx.Config,
		Logger: &cmdCtx.Logger,
	})
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newTable returns a tabwriter for aligned console output; call Flush when
// done writing rows.
func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func runVersion(_ *commandContext, _ []string) error {
	fmt.Fprintf(os.Stdout, "vlmrun %s\n", version)
	return nil
}
