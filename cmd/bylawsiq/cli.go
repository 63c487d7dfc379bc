package main

import (
	"context"
	"io"
	"time"

	"github.com/bylawsiq/bylawsiq"
	"github.com/bylawsiq/bylawsiq/discover"
	"github.com/bylawsiq/bylawsiq/sqlite"
)

// Discoverer runs one end-to-end discovery run. Satisfied by
// *discover.Pipeline.
type Discoverer interface {
	Discover(ctx context.Context, req discover.Request) (*discover.Report, error)
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	DB       *sqlite.DB
	Records  bylawsiq.RecordStore
	Pipeline Discoverer
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Discover DiscoverCmd `cmd:"" help:"Find and download a municipality's zoning bylaws"`
	Runs     RunsCmd     `cmd:"" help:"List past discovery runs"`
	Records  RecordsCmd  `cmd:"" help:"Show the audit trail for a run"`
}

// DiscoverCmd is the "discover" subcommand.
type DiscoverCmd struct {
	Jurisdiction string        `arg:"" help:"District name used in artifact filenames, e.g. Lincoln"`
	URL          string        `arg:"" help:"Municipal website root URL"`
	OutDir       string        `short:"o" default:"." help:"Directory for downloaded artifacts"`
	Depth        int           `default:"1" help:"Nested page expansion depth"`
	Budget       int           `default:"12" help:"Total nested page expansion budget"`
	Timeout      time.Duration `default:"10m" help:"Wall-clock budget for the run"`
	Overwrite    bool          `help:"Replace existing artifacts instead of failing"`
	Verbose      bool          `short:"v" help:"Log page navigations and downloads"`
}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	Domain  string `help:"Only runs against this base domain"`
	Outcome string `help:"Only runs with this outcome (acquired, no_document_found, cancelled, budget_exhausted)"`
}

// RecordsCmd is the "records" subcommand.
type RecordsCmd struct {
	RunID string `arg:"" help:"Run ID from 'bylawsiq runs'"`
}
