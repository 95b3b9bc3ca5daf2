package main

import (
	"fmt"

	"github.com/fwojciec/villages"
	"golang.org/x/sync/errgroup"
)

// Run executes the submit command. Pages are read and parsed concurrently,
// then merged one at a time in argument order so stored order is stable.
func (c *SubmitCmd) Run(deps *Dependencies) error {
	paths := c.Paths
	if len(paths) == 0 {
		paths = []string{"-"}
	}

	batches := make([][]*villages.Record, len(paths))

	g, gctx := errgroup.WithContext(deps.Ctx)
	g.SetLimit(max(c.Concurrency, 1))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			html, err := readPage(deps.Stdin, path)
			if err != nil {
				return err
			}
			batch, err := deps.Extractor.Extract(html)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			batches[i] = batch
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}

	for i, batch := range batches {
		records, added, err := deps.Merger.Merge(deps.Ctx, batch)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s: %s\n", paths[i], villages.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "%s: extracted %d, added %d, total %d\n", displayPath(paths[i]), len(batch), added, len(records))
	}
	return nil
}

func displayPath(path string) string {
	if path == "-" {
		return "stdin"
	}
	return path
}
