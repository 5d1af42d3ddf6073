package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vlm-run/vlmrun-go/client"
)

func runPredictionsList(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("predictions-list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	skip := fs.Int("skip", 0, "Number of predictions to skip")
	limit := fs.Int("limit", 10, "Maximum predictions to return")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := newClient(cmdCtx)
	if err != nil {
		return err
	}
	preds, err := c.Predictions.List(cmdCtx.Ctx, *skip, *limit)
	if err != nil {
		return err
	}

	w := newTable()
	fmt.Fprintln(w, "ID\tSTATUS\tCREATED\tCOMPLETED")
	for _, p := range preds {
		completed := "-"
		if p.CompletedAt != nil {
			completed = p.CompletedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			p.ID, p.Status, p.CreatedAt.Format(time.RFC3339), completed)
	}
	return w.Flush()
}

func runPredictionsGet(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("predictions-get", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	id := fs.String("id", "", "Prediction ID (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("-id is required")
	}

	c, err := newClient(cmdCtx)
	if err != nil {
		return err
	}
	pred, err := c.Predictions.Get(cmdCtx.Ctx, *id)
	if err != nil {
		return err
	}
	return printJSON(pred)
}

func runPredictionsWait(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("predictions-wait", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	id := fs.String("id", "", "Prediction ID (required)")
	timeout := fs.Duration("timeout", 0, "Wait timeout (default 60s)")
	interval := fs.Duration("interval", 0, "Poll interval (default 1s)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("-id is required")
	}

	c, err := newClient(cmdCtx)
	if err != nil {
		return err
	}
	pred, err := c.Predictions.Wait(cmdCtx.Ctx, *id, client.WaitOptions{
		Timeout:  *timeout,
		Interval: *interval,
	})
	if err != nil {
		return err
	}
	return printJSON(pred)
}
