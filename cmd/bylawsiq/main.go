package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/bylawsiq/bylawsiq"
	"github.com/bylawsiq/bylawsiq/discover"
	"github.com/bylawsiq/bylawsiq/fs"
	"github.com/bylawsiq/bylawsiq/gemini"
	"github.com/bylawsiq/bylawsiq/goquery"
	bylawshttp "github.com/bylawsiq/bylawsiq/http"
	"github.com/bylawsiq/bylawsiq/htmltomarkdown"
	"github.com/bylawsiq/bylawsiq/readability"
	"github.com/bylawsiq/bylawsiq/rod"
	bylawslog "github.com/bylawsiq/bylawsiq/slog"
	"github.com/bylawsiq/bylawsiq/sqlite"
	"github.com/bylawsiq/bylawsiq/trafilatura"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	RecordStore bylawsiq.RecordStore
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("bylawsiq"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'bylawsiq --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Open database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set BYLAWSIQ_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	// Wire core services into dependencies
	m.RecordStore = sqlite.NewRecordService(m.DB)
	deps.DB = m.DB
	deps.Records = m.RecordStore

	// Wire the browser-driven pipeline only for the discover command; the
	// audit commands must work without Chrome installed.
	if cmd == "discover" {
		pipeline, cleanup, err := m.buildPipeline(ctx, cli.Discover, stderr)
		if err != nil {
			return err
		}
		defer cleanup()
		deps.Pipeline = pipeline
	}

	return kongCtx.Run(deps)
}

// buildPipeline assembles the discovery pipeline from the discover command's
// flags. The returned cleanup closes the browser.
func (m *Main) buildPipeline(ctx context.Context, cmd DiscoverCmd, stderr io.Writer) (*discover.Pipeline, func(), error) {
	manager, err := rod.NewBrowserManager()
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
		return nil, nil, fmt.Errorf("failed to start browser: %w", err)
	}

	logLevel := slog.LevelWarn
	if cmd.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel}))

	// The pipeline does not exist yet when the factory is built; route the
	// visit callback through the variable assigned below.
	var pipeline *discover.Pipeline
	var factory bylawsiq.SessionFactory = rod.NewFactory(manager, rod.WithVisitFunc(func(url string) {
		if pipeline != nil {
			pipeline.RecordVisit(url)
		}
	}))
	factory = bylawslog.NewLoggingSessionFactory(factory, logger)

	detector := goquery.NewDetector()
	limiter := discover.NewLimiter(1.0, 1)
	fetcher := bylawslog.NewLoggingFileFetcher(bylawshttp.NewFileFetcher(nil), logger)

	extractor := readability.NewChain(trafilatura.NewExtractor(), readability.NewExtractor())
	acquirer := bylawslog.NewLoggingAcquirer(rod.NewAcquirer(factory, fetcher, extractor), logger)

	policy := bylawsiq.OverwriteNever
	if cmd.Overwrite {
		policy = bylawsiq.OverwriteAlways
	}
	artifacts := fs.NewStore(cmd.OutDir, fs.WithOverwritePolicy(policy))

	opts := []discover.PipelineOption{
		discover.WithSitemap(bylawslog.NewLoggingSitemapService(bylawshttp.NewSitemapService(nil), logger)),
		discover.WithRecordStore(m.RecordStore),
		discover.WithConverter(htmltomarkdown.NewConverter()),
		discover.WithDomainLimiter(limiter),
		discover.WithTimeBudget(cmd.Timeout),
	}
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			manager.Close()
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return nil, nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		opts = append(opts, discover.WithVersionSelector(gemini.NewSelector(client)))
	}

	engine := discover.NewEngine(factory, detector)
	crawler := discover.NewCrawler(factory, detector, limiter,
		discover.WithMaxDepth(cmd.Depth),
		discover.WithExpansionBudget(cmd.Budget),
	)

	pipeline = discover.NewPipeline(engine, crawler, fetcher, acquirer, artifacts, opts...)
	return pipeline, func() { _ = manager.Close() }, nil
}

func defaultDBPath() string {
	if path := os.Getenv("BYLAWSIQ_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "bylawsiq.db"
	}
	dir := filepath.Join(home, ".bylawsiq")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "bylawsiq.db")
}
