package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vlm-run/vlmrun-go/client"
)

func runFinetuneCreate(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("finetune-create", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var req client.FinetuningRequest
	fs.StringVar(&req.Model, "model", "", "Base model to fine-tune (required)")
	fs.StringVar(&req.DatasetURI, "dataset-uri", "", "Dataset URI from dataset-create (required)")
	fs.StringVar(&req.TaskPrompt, "task-prompt", "", "Optional task prompt")
	fs.IntVar(&req.NumEpochs, "epochs", 0, "Training epochs")
	fs.IntVar(&req.BatchSize, "batch-size", 0, "Batch size")
	fs.Float64Var(&req.LearningRate, "learning-rate", 0, "Learning rate")
	fs.BoolVar(&req.UseLoRA, "lora", false, "Use LoRA adapters")
	wait := fs.Bool("wait", false, "Poll the run until it completes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := newClient(cmdCtx)
	if err != nil {
		return err
	}
	job, err := c.FineTuning.Create(cmdCtx.Ctx, req)
	if err != nil {
		return err
	}

	if *wait && !job.Status.IsTerminal() {
		cmdCtx.Logger.Info().Str("job_id", job.ID).Msg("waiting for fine-tuning run")
		job, err = c.FineTuning.Wait(cmdCtx.Ctx, job.ID, client.WaitOptions{})
		if err != nil {
			return err
		}
	}
	return printJSON(job)
}

func runFinetuneList(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("finetune-list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	skip := fs.Int("skip", 0, "Number of runs to skip")
	limit := fs.Int("limit", 10, "Maximum runs to return")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := newClient(cmdCtx)
	if err != nil {
		return err
	}
	jobs, err := c.FineTuning.List(cmdCtx.Ctx, *skip, *limit)
	if err != nil {
		return err
	}

	w := newTable()
	fmt.Fprintln(w, "ID\tMODEL\tSTATUS\tCREATED")
	for _, j := range jobs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			j.ID, j.Model, j.Status, j.CreatedAt.Format(time.RFC3339))
	}
	return w.Flush()
}

func runFinetuneGet(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("finetune-get", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	id := fs.String("id", "", "Fine-tuning job ID (required)")
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
	job, err := c.FineTuning.Get(cmdCtx.Ctx, *id)
	if err != nil {
		return err
	}
	return printJSON(job)
}

func runFinetuneCancel(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("finetune-cancel", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	id := fs.String("id", "", "Fine-tuning job ID (required)")
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
	job, err := c.FineTuning.Cancel(cmdCtx.Ctx, *id)
	if err != nil {
		return err
	}
	cmdCtx.Logger.Info().Str("job_id", job.ID).Str("status", string(job.Status)).Msg("cancel requested")
	return printJSON(job)
}
