package main

import (
	"flag"
	"fmt"
	"os"
)

func runHubHealth(cmdCtx *commandContext, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("hub-health takes no arguments")
	}
	c, err := newClient(cmdCtx)
	if err != nil {
		return err
	}
	info, err := c.Hub.Health(cmdCtx.Ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "status: %s\nversion: %s\n", info.Status, info.Version)
	return nil
}

func runHubDomains(cmdCtx *commandContext, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("hub-domains takes no arguments")
	}
	c, err := newClient(cmdCtx)
	if err != nil {
		return err
	}
	domains, err := c.Hub.Domains(cmdCtx.Ctx)
	if err != nil {
		return err
	}
	for _, d := range domains {
		fmt.Fprintln(os.Stdout, d)
	}
	return nil
}

func runHubSchema(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("hub-schema", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	domain := fs.String("domain", "", "Extraction domain (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *domain == "" {
		return fmt.Errorf("-domain is required")
	}

	c, err := newClient(cmdCtx)
	if err != nil {
		return err
	}
	schema, err := c.Hub.Schema(cmdCtx.Ctx, *domain)
	if err != nil {
		return err
	}
	return printJSON(schema)
}
