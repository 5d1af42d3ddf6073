package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vlm-run/vlmrun-go/client"
)

func runDatasetCreate(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("dataset-create", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var params client.DatasetCreateParams
	fs.StringVar(&params.Directory, "dir", "", "Directory to archive and upload (required)")
	fs.StringVar(&params.Name, "name", "", "Dataset name (required)")
	fs.StringVar(&params.Domain, "domain", "", "Extraction domain (required)")
	fs.StringVar(&params.Type, "type", "documents", "Dataset type: images, videos, documents")
	wait := fs.Bool("wait", false, "Poll the build until it completes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if params.Directory == "" {
		return fmt.Errorf("-dir is required")
	}

	c, err := newClient(cmdCtx)
	if err != nil {
		return err
	}
	ds, err := c.Datasets.Create(cmdCtx.Ctx, params)
	if err != nil {
		return err
	}

	if *wait && !ds.Status.IsTerminal() {
		cmdCtx.Logger.Info().Str("dataset_id", ds.ID).Msg("waiting for dataset build")
		ds, err = c.Datasets.Wait(cmdCtx.Ctx, ds.ID, client.WaitOptions{})
		if err != nil {
			return err
		}
	}
	return printJSON(ds)
}

func runDatasetList(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("dataset-list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	skip := fs.Int("skip", 0, "Number of builds to skip")
	limit := fs.Int("limit", 10, "Maximum builds to return")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := newClient(cmdCtx)
	if err != nil {
		return err
	}
	builds, err := c.Datasets.List(cmdCtx.Ctx, *skip, *limit)
	if err != nil {
		return err
	}

	w := newTable()
	fmt.Fprintln(w, "ID\tDOMAIN\tTYPE\tSTATUS\tCREATED")
	for _, d := range builds {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			d.ID, d.Domain, d.Type, d.Status, d.CreatedAt.Format(time.RFC3339))
	}
	return w.Flush()
}

func runDatasetGet(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("dataset-get", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	id := fs.String("id", "", "Dataset ID (required)")
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
	ds, err := c.Datasets.Get(cmdCtx.Ctx, *id)
	if err != nil {
		return err
	}
	return printJSON(ds)
}
