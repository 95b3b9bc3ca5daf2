package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/villages"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	html, err := readPage(deps.Stdin, c.Path)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}

	records, err := deps.Extractor.Extract(html)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", villages.ErrorMessage(err))
		return err
	}

	return printJSON(deps.Stdout, records)
}

// readPage reads a saved page from path, or from stdin when path is empty or "-".
func readPage(stdin io.Reader, path string) (string, error) {
	if path == "" || path == "-" {
		if stdin == nil {
			return "", villages.Errorf(villages.EINVALID, "no page given")
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// printJSON writes records as a two-space indented JSON array.
func printJSON(w io.Writer, records []*villages.Record) error {
	if records == nil {
		records = []*villages.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
