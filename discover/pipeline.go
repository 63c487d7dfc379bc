package discover

import (
	"context"
	"errors"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/bylawsiq/bylawsiq"
	"github.com/google/uuid"
)

// Request describes one discovery run.
type Request struct {
	// Jurisdiction is the district name used in artifact naming and the
	// rendered document header, e.g. "Lincoln".
	Jurisdiction string

	// BaseURL is the municipal site root, e.g. "https://www.lincolntown.org".
	BaseURL string
}

// Report is the full product of a discovery run.
type Report struct {
	Run       *bylawsiq.Run
	Records   []*bylawsiq.DiscoveryRecord
	Artifacts []bylawsiq.Artifact
	Outcomes  []bylawsiq.StrategyOutcome
}

// Pipeline runs end-to-end discovery: the sitemap shortcut, the search
// strategies, bounded nested-page expansion, and acquisition in class
// priority order. Direct files beat platform links beat nested pages; the
// run ends at the first successful acquisition.
type Pipeline struct {
	engine    *Engine
	crawler   *Crawler
	sitemap   bylawsiq.SitemapService
	fetcher   bylawsiq.FileFetcher
	acquirer  bylawsiq.PlatformAcquirer
	artifacts bylawsiq.ArtifactStore
	store     bylawsiq.RecordStore
	converter bylawsiq.Converter
	selector  bylawsiq.VersionSelector
	limiter   bylawsiq.DomainLimiter
	budget    time.Duration
	vocab     bylawsiq.Vocabulary

	mu      sync.Mutex
	visited []string
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithSitemap enables the sitemap discovery shortcut.
func WithSitemap(s bylawsiq.SitemapService) PipelineOption {
	return func(p *Pipeline) {
		p.sitemap = s
	}
}

// WithRecordStore persists the run and its audit trail.
func WithRecordStore(s bylawsiq.RecordStore) PipelineOption {
	return func(p *Pipeline) {
		p.store = s
	}
}

// WithConverter enables the Markdown sidecar for platform acquisitions.
func WithConverter(c bylawsiq.Converter) PipelineOption {
	return func(p *Pipeline) {
		p.converter = c
	}
}

// WithVersionSelector picks the most recent document when several direct
// files are pending. Without it the first-registered candidate wins.
func WithVersionSelector(s bylawsiq.VersionSelector) PipelineOption {
	return func(p *Pipeline) {
		p.selector = s
	}
}

// WithDomainLimiter rate-limits direct-file downloads per domain.
func WithDomainLimiter(l bylawsiq.DomainLimiter) PipelineOption {
	return func(p *Pipeline) {
		p.limiter = l
	}
}

// WithTimeBudget bounds the wall-clock time of one run.
func WithTimeBudget(d time.Duration) PipelineOption {
	return func(p *Pipeline) {
		p.budget = d
	}
}

// WithVocabulary overrides the default phrase vocabulary.
func WithVocabulary(v bylawsiq.Vocabulary) PipelineOption {
	return func(p *Pipeline) {
		p.vocab = v
	}
}

// NewPipeline creates a Pipeline.
func NewPipeline(engine *Engine, crawler *Crawler, fetcher bylawsiq.FileFetcher, acquirer bylawsiq.PlatformAcquirer, artifacts bylawsiq.ArtifactStore, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		engine:    engine,
		crawler:   crawler,
		fetcher:   fetcher,
		acquirer:  acquirer,
		artifacts: artifacts,
		vocab:     bylawsiq.DefaultVocabulary(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RecordVisit feeds the run's visited-URL audit trail. Wire it as the
// session factory's visit callback.
func (p *Pipeline) RecordVisit(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visited = append(p.visited, url)
}

// Discover runs the pipeline for one jurisdiction.
func (p *Pipeline) Discover(ctx context.Context, req Request) (*Report, error) {
	base, err := url.Parse(req.BaseURL)
	if err != nil || base.Host == "" {
		return nil, bylawsiq.Errorf(bylawsiq.EINVALID, "invalid base URL %q", req.BaseURL)
	}

	if p.budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.budget)
		defer cancel()
	}

	run := &bylawsiq.Run{
		ID:           uuid.NewString(),
		Jurisdiction: req.Jurisdiction,
		BaseDomain:   bylawsiq.NormalizeHost(base.Host),
		StartedAt:    time.Now().UTC(),
	}
	tracker := NewTracker()

	report := &Report{Run: run}
	acquired, exhausted := p.discover(ctx, req, tracker, report)

	run.Outcome = outcome(ctx, acquired, exhausted)
	run.FinishedAt = time.Now().UTC()
	run.VisitedURLs = p.snapshotVisits()
	report.Records = tracker.Records()

	if p.store != nil {
		// Persistence uses a background context: the audit trail must
		// survive run cancellation.
		storeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := p.store.CreateRun(storeCtx, run); err != nil {
			return report, err
		}
		if err := p.store.CreateRecords(storeCtx, run.ID, report.Records); err != nil {
			return report, err
		}
	}

	return report, nil
}

// discover runs discovery and acquisition, reporting whether a document was
// acquired and whether the crawl budget ran out.
func (p *Pipeline) discover(ctx context.Context, req Request, tracker *Tracker, report *Report) (acquired, exhausted bool) {
	p.sitemapShortcut(ctx, req.BaseURL, tracker)

	candidates, outcomes := p.engine.Run(ctx, req.BaseURL)
	report.Outcomes = outcomes
	for _, c := range candidates {
		tracker.Register(c)
	}

	if p.acquire(ctx, req.Jurisdiction, tracker, report) {
		return true, false
	}
	if ctx.Err() != nil {
		return false, false
	}

	// No directly acquirable document yet; expand the nested pages.
	var seeds []bylawsiq.Candidate
	for _, rec := range tracker.Records() {
		if rec.Class == bylawsiq.ClassNestedPage && rec.State == bylawsiq.StatePending {
			seeds = append(seeds, recordCandidate(rec))
		}
	}
	if len(seeds) == 0 {
		return false, false
	}

	found, err := p.crawler.Expand(ctx, seeds, p.vocab)
	exhausted = bylawsiq.ErrorCode(err) == bylawsiq.EBUDGET
	if err != nil && !exhausted {
		return false, false
	}
	// Partial results from an exhausted budget are still worth acquiring.
	for _, c := range found {
		tracker.Register(c)
	}

	return p.acquire(ctx, req.Jurisdiction, tracker, report), exhausted
}

// sitemapShortcut registers bylaws-looking sitemap URLs that are directly
// acquirable. Failures are ignored; the shortcut is best effort.
func (p *Pipeline) sitemapShortcut(ctx context.Context, baseURL string, tracker *Tracker) {
	if p.sitemap == nil {
		return
	}
	urls, err := p.sitemap.DiscoverURLs(ctx, baseURL, bylawsiq.BylawsURLFilter())
	if err != nil {
		return
	}
	for _, u := range urls {
		key, err := bylawsiq.CanonicalURL(u)
		if err != nil {
			continue
		}
		c := bylawsiq.Candidate{
			RawURL:        u,
			NormalizedURL: key,
			SourcePage:    baseURL,
			Strategy:      "sitemap",
		}
		// Nested sitemap pages would explode the crawl frontier; only
		// take what can be acquired directly.
		if bylawsiq.Classify(c) == bylawsiq.ClassNestedPage {
			continue
		}
		tracker.Register(c)
	}
}

// acquire attempts acquisition in class priority order and stops at the
// first success.
func (p *Pipeline) acquire(ctx context.Context, district string, tracker *Tracker, report *Report) bool {
	if p.acquireDirect(ctx, district, tracker, report) {
		return true
	}
	return p.acquirePlatform(ctx, district, tracker, report)
}

// acquireDirect downloads pending direct-file records, most recent version
// first when a selector is configured.
func (p *Pipeline) acquireDirect(ctx context.Context, district string, tracker *Tracker, report *Report) bool {
	pending := pendingByClass(tracker, bylawsiq.ClassDirectFile)
	if len(pending) == 0 {
		return false
	}

	if p.selector != nil && len(pending) > 1 {
		cands := make([]bylawsiq.Candidate, len(pending))
		for i, rec := range pending {
			cands[i] = recordCandidate(rec)
		}
		if idx, err := p.selector.SelectLatest(ctx, cands); err == nil && idx >= 0 && idx < len(pending) {
			pending[idx], pending[0] = pending[0], pending[idx]
		}
	}

	for _, rec := range pending {
		if ctx.Err() != nil {
			return false
		}
		if p.limiter != nil {
			if u, err := url.Parse(rec.Key); err == nil {
				if err := p.limiter.Wait(ctx, u.Hostname()); err != nil {
					return false
				}
			}
		}

		data, mime, err := p.fetcher.FetchFile(ctx, rec.Key)
		if err != nil {
			rec.MarkFailed(bylawsiq.ErrorCode(err))
			continue
		}

		surviving := tracker.Fingerprint(rec.Key, data)
		if surviving == nil || surviving.State == bylawsiq.StateAcquired {
			return surviving != nil
		}

		pathOnDisk, err := p.artifacts.Save(ctx, district, bylawsiq.ClassDirectFile, extFor(mime, rec.Key), data)
		if err != nil {
			surviving.MarkFailed(bylawsiq.ErrorCode(err))
			continue
		}
		surviving.MarkAcquired()
		report.Artifacts = append(report.Artifacts, bylawsiq.Artifact{
			Key:     surviving.Key,
			Class:   bylawsiq.ClassDirectFile,
			Path:    pathOnDisk,
			ByteLen: len(data),
			MIME:    mime,
		})
		return true
	}
	return false
}

// acquirePlatform drives the browser acquirer against pending
// platform-hosted records.
func (p *Pipeline) acquirePlatform(ctx context.Context, district string, tracker *Tracker, report *Report) bool {
	for _, rec := range pendingByClass(tracker, bylawsiq.ClassPlatformHosted) {
		if ctx.Err() != nil {
			return false
		}

		acq, err := p.acquirer.Acquire(ctx, recordCandidate(rec), district)
		if err != nil {
			rec.MarkFailed(bylawsiq.ErrorCode(err))
			continue
		}

		surviving := tracker.Fingerprint(rec.Key, acq.Data)
		if surviving == nil || surviving.State == bylawsiq.StateAcquired {
			return surviving != nil
		}

		pathOnDisk, err := p.artifacts.Save(ctx, district, bylawsiq.ClassPlatformHosted, "pdf", acq.Data)
		if err != nil {
			surviving.MarkFailed(bylawsiq.ErrorCode(err))
			continue
		}
		surviving.MarkAcquired()
		if acq.Flagged {
			surviving.Reason = bylawsiq.ELOWCONFIDENCE
		}

		artifact := bylawsiq.Artifact{
			Key:     surviving.Key,
			Class:   bylawsiq.ClassPlatformHosted,
			Path:    pathOnDisk,
			ByteLen: len(acq.Data),
			MIME:    "application/pdf",
			Flagged: acq.Flagged,
		}
		if p.converter != nil && acq.ContentHTML != "" {
			if md, err := p.converter.Convert(acq.ContentHTML); err == nil {
				if sidecar, err := p.artifacts.SaveSidecar(ctx, pathOnDisk, md); err == nil {
					artifact.SidecarPath = sidecar
				}
			}
		}
		report.Artifacts = append(report.Artifacts, artifact)
		return true
	}
	return false
}

// pendingByClass returns pending records of the class in registration order.
func pendingByClass(tracker *Tracker, class bylawsiq.DocumentClass) []*bylawsiq.DiscoveryRecord {
	var out []*bylawsiq.DiscoveryRecord
	for _, rec := range tracker.Records() {
		if rec.Class == class && rec.State == bylawsiq.StatePending {
			out = append(out, rec)
		}
	}
	return out
}

// recordCandidate reconstructs a candidate from an audit record for
// acquisition and expansion.
func recordCandidate(rec *bylawsiq.DiscoveryRecord) bylawsiq.Candidate {
	source := ""
	if len(rec.DiscoveryPaths) > 0 {
		source = rec.DiscoveryPaths[0]
	}
	return bylawsiq.Candidate{
		RawURL:        rec.Key,
		NormalizedURL: rec.Key,
		Text:          rec.Text,
		Tier:          rec.Tier,
		SourcePage:    source,
	}
}

// outcome derives the run outcome.
func outcome(ctx context.Context, acquired, exhausted bool) bylawsiq.RunOutcome {
	switch {
	case acquired:
		return bylawsiq.OutcomeAcquired
	case errors.Is(ctx.Err(), context.Canceled):
		return bylawsiq.OutcomeCancelled
	case errors.Is(ctx.Err(), context.DeadlineExceeded), exhausted:
		return bylawsiq.OutcomeBudgetExhausted
	default:
		return bylawsiq.OutcomeNoDocumentFound
	}
}

func (p *Pipeline) snapshotVisits() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.visited))
	copy(out, p.visited)
	return out
}

// extFor derives the artifact extension from the response content type,
// falling back to the URL's own extension.
func extFor(mime, rawURL string) string {
	switch {
	case strings.Contains(mime, "pdf"):
		return "pdf"
	case strings.Contains(mime, "msword"):
		return "doc"
	case strings.Contains(mime, "officedocument.wordprocessingml"):
		return "docx"
	}
	if ext := strings.TrimPrefix(path.Ext(stripQuery(rawURL)), "."); ext != "" {
		return ext
	}
	return "pdf"
}

func stripQuery(rawURL string) string {
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}
