package main

import (
	"fmt"

	"github.com/fwojciec/villages"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	records, err := deps.Records.FindRecords(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", villages.ErrorMessage(err))
		return err
	}

	if c.JSON {
		return printJSON(deps.Stdout, records)
	}

	if len(records) == 0 {
		fmt.Fprintln(deps.Stdout, "No villages stored. Use 'villages submit' or 'villages serve' to add some.")
		return nil
	}

	for _, r := range records {
		fmt.Fprintf(deps.Stdout, "%s  %s / %s / %s / %s\n", r.Identity().Key(), r.DistrictValue, r.TalukValue, r.HobliValue, r.VillageValue)
	}
	return nil
}
