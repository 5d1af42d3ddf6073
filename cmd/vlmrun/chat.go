package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/vlm-run/vlmrun-go/client"
)

// stringList accumulates repeated flag values.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

type chatOptions struct {
	Prompt      string
	Model       string
	Files       stringList
	URLs        stringList
	Stream      bool
	Timeout     time.Duration
	DownloadDir string
}

func parseChatFlags(args []string) (chatOptions, error) {
	fs := flag.NewFlagSet("chat", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts chatOptions
	fs.StringVar(&opts.Prompt, "prompt", "", "Instruction for the agent (required)")
	fs.StringVar(&opts.Model, "model", "", "Agent to run (default "+client.DefaultCompletionModel+")")
	fs.Var(&opts.Files, "file", "Local file to attach (repeatable)")
	fs.Var(&opts.URLs, "url", "Remote file URL to attach (repeatable)")
	fs.BoolVar(&opts.Stream, "stream", false, "Print status chunks while the agent runs")
	fs.DurationVar(&opts.Timeout, "timeout", 0, "Wait timeout (default 300s)")
	fs.StringVar(&opts.DownloadDir, "download-dir", "", "Download produced artifacts into this directory")

	if err := fs.Parse(args); err != nil {
		return chatOptions{}, err
	}
	if opts.Prompt == "" {
		return chatOptions{}, fmt.Errorf("-prompt is required")
	}
	return opts, nil
}

func runChat(cmdCtx *commandContext, args []string) error {
	opts, err := parseChatFlags(args)
	if err != nil {
		return err
	}
	c, err := newClient(cmdCtx)
	if err != nil {
		return err
	}

	params := client.CompletionParams{
		Prompt:   opts.Prompt,
		Model:    opts.Model,
		Files:    opts.Files,
		FileURLs: opts.URLs,
		Timeout:  opts.Timeout,
	}

	var resp *client.CompletionResponse
	if opts.Stream {
		stream, err := c.Completions.CreateStream(cmdCtx.Ctx, params)
		if err != nil {
			return err
		}
		for chunk := range stream.Events() {
			if chunk.Finished {
				continue
			}
			fmt.Fprintf(os.Stderr, "status: %s\n", chunk.Status)
		}
		resp, err = stream.Result()
		if err != nil {
			return err
		}
	} else {
		resp, err = c.Completions.Create(cmdCtx.Ctx, params)
		if err != nil {
			return err
		}
	}

	if resp.Status != client.JobCompleted {
		return fmt.Errorf("execution %s ended with status %s", resp.ID, resp.Status)
	}

	fmt.Fprintln(os.Stdout, resp.Text())

	if opts.DownloadDir != "" && len(resp.Artifacts) > 0 {
		for _, artifact := range resp.Artifacts {
			path, err := c.Completions.DownloadArtifact(cmdCtx.Ctx, artifact, opts.DownloadDir)
			if err != nil {
				return err
			}
			cmdCtx.Logger.Info().Str("path", path).Msg("artifact downloaded")
		}
	}
	return nil
}
