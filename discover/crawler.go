package discover

import (
	"context"
	"net/url"

	"github.com/bylawsiq/bylawsiq"
	"github.com/bylawsiq/bylawsiq/bloom"
)

// Crawler defaults.
const (
	// DefaultMaxDepth bounds how many page levels below their source the
	// crawler opens. 1 expands the nested pages themselves without
	// following their links.
	DefaultMaxDepth = 1

	// DefaultExpansionBudget bounds how many pages one run may expand in
	// total, across all seeds.
	DefaultExpansionBudget = 12
)

// Crawler expands nested-page candidates: pages that look like they host
// the document but need another hop to reach it. Expansion is bounded by
// depth and by a total page budget, and every page is visited at most once.
type Crawler struct {
	factory  bylawsiq.SessionFactory
	detector bylawsiq.Detector
	limiter  bylawsiq.DomainLimiter
	maxDepth int
	budget   int
}

// CrawlerOption configures a Crawler.
type CrawlerOption func(*Crawler)

// WithMaxDepth sets how many page levels below their source the crawler
// opens. Defaults to 1.
func WithMaxDepth(depth int) CrawlerOption {
	return func(c *Crawler) {
		c.maxDepth = depth
	}
}

// WithExpansionBudget sets the total page budget per run. Defaults to 12.
func WithExpansionBudget(budget int) CrawlerOption {
	return func(c *Crawler) {
		c.budget = budget
	}
}

// NewCrawler creates a Crawler.
func NewCrawler(factory bylawsiq.SessionFactory, detector bylawsiq.Detector, limiter bylawsiq.DomainLimiter, opts ...CrawlerOption) *Crawler {
	c := &Crawler{
		factory:  factory,
		detector: detector,
		limiter:  limiter,
		maxDepth: DefaultMaxDepth,
		budget:   DefaultExpansionBudget,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type frontierEntry struct {
	candidate bylawsiq.Candidate
	depth     int
}

// Expand breadth-first expands the nested-page seeds and returns every
// candidate found on the expanded pages. When the page budget runs out with
// work still queued, the candidates found so far are returned alongside an
// EBUDGET error.
func (c *Crawler) Expand(ctx context.Context, seeds []bylawsiq.Candidate, vocab bylawsiq.Vocabulary) ([]bylawsiq.Candidate, error) {
	visited := bloom.NewVisitedSet(1000, 0.01)
	queue := make([]frontierEntry, 0, len(seeds))
	for _, seed := range seeds {
		if bylawsiq.Classify(seed) == bylawsiq.ClassNestedPage {
			queue = append(queue, frontierEntry{candidate: seed, depth: 1})
		}
	}

	var found []bylawsiq.Candidate
	remaining := c.budget
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return found, err
		}
		if remaining <= 0 {
			return found, bylawsiq.Errorf(bylawsiq.EBUDGET, "expansion budget of %d pages exhausted with %d queued", c.budget, len(queue))
		}

		entry := queue[0]
		queue = queue[1:]

		if visited.Seen(entry.candidate.NormalizedURL) {
			continue
		}
		remaining--

		candidates, err := c.expandPage(ctx, entry.candidate, vocab)
		if err != nil {
			continue
		}
		found = append(found, candidates...)

		if entry.depth >= c.maxDepth {
			continue
		}
		for _, cand := range candidates {
			if bylawsiq.Classify(cand) == bylawsiq.ClassNestedPage && !visited.Test(cand.NormalizedURL) {
				queue = append(queue, frontierEntry{candidate: cand, depth: entry.depth + 1})
			}
		}
	}

	return found, nil
}

// expandPage opens one nested page in its own session and detects
// candidates on it.
func (c *Crawler) expandPage(ctx context.Context, candidate bylawsiq.Candidate, vocab bylawsiq.Vocabulary) ([]bylawsiq.Candidate, error) {
	if c.limiter != nil {
		if u, err := url.Parse(candidate.NormalizedURL); err == nil {
			if err := c.limiter.Wait(ctx, u.Hostname()); err != nil {
				return nil, err
			}
		}
	}

	session, err := c.factory.NewSession()
	if err != nil {
		return nil, err
	}
	defer session.Close()

	page, err := session.Open(ctx, candidate.RawURL)
	if err != nil {
		return nil, err
	}
	return c.detector.Detect(ctx, page, vocab), nil
}
