package main

import (
	"fmt"
)

func runModels(cmdCtx *commandContext, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("models takes no arguments")
	}
	c, err := newClient(cmdCtx)
	if err != nil {
		return err
	}
	models, err := c.Models.List(cmdCtx.Ctx)
	if err != nil {
		return err
	}

	w := newTable()
	fmt.Fprintln(w, "MODEL\tDOMAIN")
	for _, m := range models {
		fmt.Fprintf(w, "%s\t%s\n", m.Model, m.Domain)
	}
	return w.Flush()
}
