package main

import (
	"fmt"
	"strings"

	"github.com/bylawsiq/bylawsiq"
)

// Run executes the records command.
func (c *RecordsCmd) Run(deps *Dependencies) error {
	run, err := deps.Records.FindRunByID(deps.Ctx, c.RunID)
	if err != nil {
		if bylawsiq.ErrorCode(err) == bylawsiq.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: run %q not found. Use 'bylawsiq runs' to see recorded runs.\n", c.RunID)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", bylawsiq.ErrorMessage(err))
		return err
	}

	recs, err := deps.Records.FindRecordsByRun(deps.Ctx, c.RunID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", bylawsiq.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Run %s: %s on %s, %s (%d documents)\n\n",
		run.ID, run.Jurisdiction, run.BaseDomain, run.Outcome, len(recs))

	for _, rec := range recs {
		state := string(rec.State)
		if rec.State == bylawsiq.StateFailed && rec.Reason != "" {
			state = fmt.Sprintf("%s (%s)", rec.State, rec.Reason)
		}
		fmt.Fprintf(deps.Stdout, "  %d. [%s] %s %s\n", rec.Seq+1, rec.Class, state, rec.Key)
		if rec.Text != "" {
			fmt.Fprintf(deps.Stdout, "     %q\n", rec.Text)
		}
		if len(rec.DiscoveryPaths) > 0 {
			fmt.Fprintf(deps.Stdout, "     found via %s\n", strings.Join(rec.DiscoveryPaths, ", "))
		}
	}

	return nil
}
