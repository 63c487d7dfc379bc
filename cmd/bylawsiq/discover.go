package main

import (
	"fmt"

	"github.com/bylawsiq/bylawsiq"
	"github.com/bylawsiq/bylawsiq/discover"
)

// Run executes the discover command.
func (c *DiscoverCmd) Run(deps *Dependencies) error {
	report, err := deps.Pipeline.Discover(deps.Ctx, discover.Request{
		Jurisdiction: c.Jurisdiction,
		BaseURL:      c.URL,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", bylawsiq.ErrorMessage(err))
		return err
	}

	for _, a := range report.Artifacts {
		fmt.Fprintf(deps.Stdout, "Saved %s (%d bytes)\n", a.Path, a.ByteLen)
		if a.SidecarPath != "" {
			fmt.Fprintf(deps.Stdout, "Saved %s\n", a.SidecarPath)
		}
		if a.Flagged {
			fmt.Fprintf(deps.Stderr, "warning: %s failed content validation; review it manually\n", a.Path)
		}
	}

	switch report.Run.Outcome {
	case bylawsiq.OutcomeAcquired:
		fmt.Fprintf(deps.Stdout, "Acquired zoning bylaws for %s (run %s)\n", c.Jurisdiction, report.Run.ID)
	case bylawsiq.OutcomeNoDocumentFound:
		fmt.Fprintf(deps.Stdout, "No zoning bylaws found for %s (run %s)\n", c.Jurisdiction, report.Run.ID)
	case bylawsiq.OutcomeBudgetExhausted:
		fmt.Fprintf(deps.Stdout, "Budget exhausted before a document was found for %s (run %s)\n", c.Jurisdiction, report.Run.ID)
	case bylawsiq.OutcomeCancelled:
		fmt.Fprintf(deps.Stdout, "Run %s cancelled\n", report.Run.ID)
	}

	fmt.Fprintf(deps.Stdout, "Visited %d pages, recorded %d documents. Run 'bylawsiq records %s' for the audit trail.\n",
		len(report.Run.VisitedURLs), len(report.Records), report.Run.ID)

	return nil
}
