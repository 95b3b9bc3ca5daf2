package main

import (
	"fmt"

	"github.com/fwojciec/villages"
)

// Run executes the reset command.
func (c *ResetCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return villages.Errorf(villages.EINVALID, "use --force to confirm deletion")
	}

	if err := deps.Merger.Reset(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", villages.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, "Deleted all stored villages")
	return nil
}
