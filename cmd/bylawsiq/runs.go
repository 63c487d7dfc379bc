package main

import (
	"fmt"

	"github.com/bylawsiq/bylawsiq"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	var filter bylawsiq.RunFilter
	if c.Domain != "" {
		domain := bylawsiq.NormalizeHost(c.Domain)
		filter.BaseDomain = &domain
	}
	if c.Outcome != "" {
		outcome := bylawsiq.RunOutcome(c.Outcome)
		filter.Outcome = &outcome
	}

	runs, err := deps.Records.FindRuns(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", bylawsiq.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs recorded. Use 'bylawsiq discover' to start one.")
		return nil
	}

	for _, r := range runs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s  %s\n",
			r.ID, r.Jurisdiction, r.BaseDomain, r.Outcome, r.StartedAt.Format("2006-01-02 15:04"))
	}

	return nil
}
