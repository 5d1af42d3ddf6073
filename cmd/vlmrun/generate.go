package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vlm-run/vlmrun-go/client"
)

type generateOptions struct {
	Type        string
	File        string
	FileID      string
	URL         string
	Domain      string
	Mode        string
	Batch       bool
	Wait        bool
	Timeout     time.Duration
	CallbackURL string
}

func parseGenerateFlags(args []string) (generateOptions, error) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts generateOptions
	fs.StringVar(&opts.Type, "type", "document", "Input type: document, audio, video, image, web")
	fs.StringVar(&opts.File, "file", "", "Local file to upload and process")
	fs.StringVar(&opts.FileID, "file-id", "", "ID of a previously uploaded file")
	fs.StringVar(&opts.URL, "url", "", "Remote URL to process")
	fs.StringVar(&opts.Domain, "domain", "", "Extraction domain (e.g. document.invoice)")
	fs.StringVar(&opts.Mode, "mode", "", "Web rendering mode: fast or accurate")
	fs.BoolVar(&opts.Batch, "batch", false, "Submit asynchronously instead of waiting inline")
	fs.BoolVar(&opts.Wait, "wait", false, "With -batch, poll the job until it completes")
	fs.DurationVar(&opts.Timeout, "timeout", 0, "Wait timeout (default per resource)")
	fs.StringVar(&opts.CallbackURL, "callback-url", "", "Webhook URL to notify on completion")

	if err := fs.Parse(args); err != nil {
		return generateOptions{}, err
	}
	if opts.Domain == "" {
		return generateOptions{}, fmt.Errorf("-domain is required")
	}
	return opts, nil
}

func runGenerate(cmdCtx *commandContext, args []string) error {
	opts, err := parseGenerateFlags(args)
	if err != nil {
		return err
	}
	c, err := newClient(cmdCtx)
	if err != nil {
		return err
	}

	pred, err := submitGenerate(cmdCtx, c, opts)
	if err != nil {
		return err
	}

	if opts.Batch && opts.Wait && !pred.Status.IsTerminal() {
		cmdCtx.Logger.Info().
			Str("prediction_id", pred.ID).
			Str("status", string(pred.Status)).
			Msg("waiting for prediction")
		pred, err = c.Predictions.Wait(cmdCtx.Ctx, pred.ID, client.WaitOptions{Timeout: opts.Timeout})
		if err != nil {
			return err
		}
	}
	return printJSON(pred)
}

func submitGenerate(cmdCtx *commandContext, c *client.Client, opts generateOptions) (*client.PredictionResponse, error) {
	params := client.GenerateParams{
		FilePath:    opts.File,
		FileID:      opts.FileID,
		URL:         opts.URL,
		Domain:      opts.Domain,
		Batch:       opts.Batch,
		CallbackURL: opts.CallbackURL,
	}

	switch strings.ToLower(opts.Type) {
	case "document":
		return c.Document.Generate(cmdCtx.Ctx, params)
	case "audio":
		return c.Audio.Generate(cmdCtx.Ctx, params)
	case "video":
		return c.Video.Generate(cmdCtx.Ctx, params)
	case "image":
		if opts.File == "" {
			return nil, fmt.Errorf("-file is required for image generation")
		}
		data, err := os.ReadFile(opts.File)
		if err != nil {
			return nil, fmt.Errorf("read image %s: %w", opts.File, err)
		}
		return c.Image.Generate(cmdCtx.Ctx, client.ImageGenerateParams{
			Image:       data,
			MIMEType:    imageMIMEType(opts.File),
			Domain:      opts.Domain,
			Batch:       opts.Batch,
			CallbackURL: opts.CallbackURL,
		})
	case "web":
		if opts.URL == "" {
			return nil, fmt.Errorf("-url is required for web generation")
		}
		return c.Web.Generate(cmdCtx.Ctx, client.WebGenerateParams{
			URL:    opts.URL,
			Domain: opts.Domain,
			Mode:   opts.Mode,
			Batch:  opts.Batch,
		})
	default:
		return nil, fmt.Errorf("unknown type %q (expected document, audio, video, image, or web)", opts.Type)
	}
}

func imageMIMEType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
