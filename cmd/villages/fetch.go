package main

import (
	"fmt"

	"github.com/fwojciec/villages"
)

// Run executes the fetch command.
func (c *FetchCmd) Run(deps *Dependencies) error {
	html, err := deps.Fetcher.Fetch(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: failed to fetch %s: %s\n", c.URL, err)
		return err
	}

	sub, err := deps.Submitter.Submit(deps.Ctx, html)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", villages.ErrorMessage(err))
		return err
	}

	if len(sub.Villages) == 0 {
		fmt.Fprintf(deps.Stderr, "warning: no villages found at %s\n", c.URL)
	}
	fmt.Fprintf(deps.Stdout, "%s: extracted %d, added %d, total %d\n", c.URL, len(sub.Villages), sub.Added, sub.Total)
	return nil
}
