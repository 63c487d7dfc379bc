package discover

import (
	"context"

	"github.com/bylawsiq/bylawsiq"
	"github.com/bylawsiq/bylawsiq/goquery"
)

// DefaultMaxResultLinks caps how many matched search-result links a single
// strategy follows before giving up on it.
const DefaultMaxResultLinks = 3

// Engine drives the site's own search facility through an ordered list of
// strategies. Each strategy runs in a fresh session; a strategy that fails
// leaves no trace beyond its outcome, and the next one still runs. The
// engine stops early once a strategy surfaces a candidate that can be
// acquired without further crawling.
type Engine struct {
	factory        bylawsiq.SessionFactory
	detector       bylawsiq.Detector
	strategies     []bylawsiq.SearchStrategy
	maxResultLinks int
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithStrategies overrides the default strategy list.
func WithStrategies(strategies []bylawsiq.SearchStrategy) EngineOption {
	return func(e *Engine) {
		e.strategies = strategies
	}
}

// WithMaxResultLinks caps how many matched result links each strategy
// follows. Defaults to 3.
func WithMaxResultLinks(n int) EngineOption {
	return func(e *Engine) {
		e.maxResultLinks = n
	}
}

// NewEngine creates an Engine with the default bylaws strategies.
func NewEngine(factory bylawsiq.SessionFactory, detector bylawsiq.Detector, opts ...EngineOption) *Engine {
	e := &Engine{
		factory:        factory,
		detector:       detector,
		strategies:     bylawsiq.DefaultStrategies(),
		maxResultLinks: DefaultMaxResultLinks,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes the strategies in order against the site at baseURL. It
// returns every candidate found along with per-strategy outcomes. Once a
// strategy yields a directly acquirable candidate (a direct file or a
// platform link) the remaining strategies are skipped.
func (e *Engine) Run(ctx context.Context, baseURL string) ([]bylawsiq.Candidate, []bylawsiq.StrategyOutcome) {
	var all []bylawsiq.Candidate
	var outcomes []bylawsiq.StrategyOutcome

	for _, strategy := range e.strategies {
		if err := ctx.Err(); err != nil {
			outcomes = append(outcomes, bylawsiq.StrategyOutcome{Strategy: strategy.Name, Err: err})
			break
		}

		candidates, err := e.runStrategy(ctx, baseURL, strategy)
		outcomes = append(outcomes, bylawsiq.StrategyOutcome{
			Strategy:   strategy.Name,
			Err:        err,
			Candidates: len(candidates),
		})
		all = append(all, candidates...)

		if hasAcquirable(candidates) {
			break
		}
	}

	return all, outcomes
}

// runStrategy runs one strategy in its own session: submit the phrase,
// match result links under the strategy's policy, and follow them in order
// until one target page yields candidates.
func (e *Engine) runStrategy(ctx context.Context, baseURL string, strategy bylawsiq.SearchStrategy) ([]bylawsiq.Candidate, error) {
	session, err := e.factory.NewSession()
	if err != nil {
		return nil, err
	}
	defer session.Close()

	page, err := session.Open(ctx, baseURL)
	if err != nil {
		return nil, err
	}

	if err := page.SubmitSearch(ctx, strategy.Phrase); err != nil {
		return nil, err
	}

	html, err := page.HTML()
	if err != nil {
		return nil, err
	}
	links := goquery.MatchResultLinks(html, page.URL(), strategy.Phrase, strategy.Policy)
	if len(links) == 0 {
		return nil, bylawsiq.Errorf(bylawsiq.ENOTFOUND, "no result link matched %q under strategy %s", strategy.Phrase, strategy.Name)
	}
	if len(links) > e.maxResultLinks {
		links = links[:e.maxResultLinks]
	}

	for _, link := range links {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		target, err := session.Open(ctx, link.URL)
		if err != nil {
			continue
		}
		candidates := e.detector.Detect(ctx, target, strategy.Vocabulary)
		if len(candidates) == 0 {
			continue
		}
		for i := range candidates {
			candidates[i].Strategy = strategy.Name
		}
		return candidates, nil
	}

	return nil, bylawsiq.Errorf(bylawsiq.ENOTFOUND, "no followed result page yielded candidates for strategy %s", strategy.Name)
}

// hasAcquirable reports whether any candidate can be acquired without
// further crawling.
func hasAcquirable(candidates []bylawsiq.Candidate) bool {
	for _, c := range candidates {
		switch bylawsiq.Classify(c) {
		case bylawsiq.ClassDirectFile, bylawsiq.ClassPlatformHosted:
			return true
		}
	}
	return false
}
