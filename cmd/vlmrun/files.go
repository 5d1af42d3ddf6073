package main

import (
	"flag"
	"fmt"
	"os"
	"time"
)

func runFilesList(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("files-list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	skip := fs.Int("skip", 0, "Number of files to skip")
	limit := fs.Int("limit", 10, "Maximum files to return")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := newClient(cmdCtx)
	if err != nil {
		return err
	}
	files, err := c.Files.List(cmdCtx.Ctx, *skip, *limit)
	if err != nil {
		return err
	}

	w := newTable()
	fmt.Fprintln(w, "ID\tFILENAME\tBYTES\tPURPOSE\tCREATED")
	for _, f := range files {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			f.ID, f.Filename, f.Bytes, f.Purpose, f.CreatedAt.Format(time.RFC3339))
	}
	return w.Flush()
}

func runFilesUpload(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("files-upload", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	purpose := fs.String("purpose", "assistants", "File purpose: assistants, fine-tune, datasets")
	if err := fs.Parse(args); err != nil {
		return err
	}
	paths := fs.Args()
	if len(paths) == 0 {
		return fmt.Errorf("at least one file path is required")
	}

	c, err := newClient(cmdCtx)
	if err != nil {
		return err
	}

	// Multiple paths go through the bounded parallel uploader.
	files, err := c.Files.UploadAll(cmdCtx.Ctx, paths, *purpose)
	if err != nil {
		return err
	}

	w := newTable()
	fmt.Fprintln(w, "ID\tFILENAME\tBYTES")
	for _, f := range files {
		fmt.Fprintf(w, "%s\t%s\t%d\n", f.ID, f.Filename, f.Bytes)
	}
	return w.Flush()
}

func runFilesGet(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("files-get", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	id := fs.String("id", "", "File ID (required)")
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
	file, err := c.Files.Get(cmdCtx.Ctx, *id)
	if err != nil {
		return err
	}
	return printJSON(file)
}

func runFilesDelete(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("files-delete", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	id := fs.String("id", "", "File ID (required)")
	yes := fs.Bool("yes", false, "Skip confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("-id is required")
	}
	if !*yes {
		return fmt.Errorf("refusing to delete %s without -yes", *id)
	}

	c, err := newClient(cmdCtx)
	if err != nil {
		return err
	}
	file, err := c.Files.Delete(cmdCtx.Ctx, *id)
	if err != nil {
		return err
	}
	cmdCtx.Logger.Info().Str("file_id", file.ID).Msg("file deleted")
	return nil
}
