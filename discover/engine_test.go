package discover_test

import (
	"context"
	"testing"

	"github.com/bylawsiq/bylawsiq"
	"github.com/bylawsiq/bylawsiq/discover"
	"github.com/bylawsiq/bylawsiq/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sitePage is one fake page in a scripted site.
type sitePage struct {
	html       string
	searchErr  error
	candidates []bylawsiq.Candidate
}

// site scripts a fake municipal website: a factory whose sessions serve
// canned pages and a detector that returns each page's canned candidates.
type site struct {
	pages    map[string]*sitePage
	sessions []*mock.Session
}

func newSite(pages map[string]*sitePage) *site {
	return &site{pages: pages}
}

func (s *site) factory() *mock.SessionFactory {
	return &mock.SessionFactory{
		NewSessionFn: func() (bylawsiq.Session, error) {
			session := &mock.Session{}
			session.OpenFn = func(ctx context.Context, url string) (bylawsiq.Page, error) {
				p, ok := s.pages[url]
				if !ok {
					return nil, bylawsiq.Errorf(bylawsiq.ENOTFOUND, "no page at %s", url)
				}
				return &mock.Page{
					URLFn:  func() string { return url },
					HTMLFn: func() (string, error) { return p.html, nil },
					SubmitSearchFn: func(ctx context.Context, phrase string) error {
						return p.searchErr
					},
				}, nil
			}
			s.sessions = append(s.sessions, session)
			return session, nil
		},
	}
}

func (s *site) detector() *mock.Detector {
	return &mock.Detector{
		DetectFn: func(ctx context.Context, page bylawsiq.Page, vocab bylawsiq.Vocabulary) []bylawsiq.Candidate {
			if p, ok := s.pages[page.URL()]; ok {
				return p.candidates
			}
			return nil
		},
	}
}

func TestEngine_follows_exact_match_and_detects(t *testing.T) {
	t.Parallel()

	pdf := bylawsiq.Candidate{
		RawURL:        "https://town.gov/files/zoning.pdf",
		NormalizedURL: "https://town.gov/files/zoning.pdf",
		Text:          "Zoning Bylaw",
		SourcePage:    "https://town.gov/boards/planning",
	}
	s := newSite(map[string]*sitePage{
		"https://town.gov": {
			html: `<a href="/boards/planning-resources">Planning Board Resources</a>
				<a href="/boards/planning">Planning Board</a>`,
		},
		"https://town.gov/boards/planning": {candidates: []bylawsiq.Candidate{pdf}},
	})

	e := discover.NewEngine(s.factory(), s.detector(), discover.WithStrategies([]bylawsiq.SearchStrategy{
		{Name: "planning-board", Phrase: "Planning Board", Policy: bylawsiq.ExactOnly, Vocabulary: bylawsiq.DefaultVocabulary()},
	}))
	candidates, outcomes := e.Run(context.Background(), "https://town.gov")

	require.Len(t, candidates, 1)
	assert.Equal(t, "https://town.gov/files/zoning.pdf", candidates[0].NormalizedURL)
	assert.Equal(t, "planning-board", candidates[0].Strategy)

	require.Len(t, outcomes, 1)
	assert.NoError(t, outcomes[0].Err)
	assert.Equal(t, 1, outcomes[0].Candidates)
}

func TestEngine_failed_strategy_does_not_stop_the_next(t *testing.T) {
	t.Parallel()

	pdf := bylawsiq.Candidate{
		RawURL:        "https://town.gov/files/zoning.pdf",
		NormalizedURL: "https://town.gov/files/zoning.pdf",
	}
	s := newSite(map[string]*sitePage{
		"https://town.gov": {
			html:      `<a href="/boards/planning">Planning Board</a>`,
			searchErr: nil,
		},
		"https://town.gov/boards/planning": {candidates: []bylawsiq.Candidate{pdf}},
	})
	// The appeals strategy finds no search interface at all.
	appealsFactory := s.factory()
	calls := 0
	factory := &mock.SessionFactory{
		NewSessionFn: func() (bylawsiq.Session, error) {
			calls++
			if calls == 1 {
				return &mock.Session{
					OpenFn: func(ctx context.Context, url string) (bylawsiq.Page, error) {
						return &mock.Page{
							URLFn:  func() string { return url },
							HTMLFn: func() (string, error) { return "", nil },
							SubmitSearchFn: func(ctx context.Context, phrase string) error {
								return bylawsiq.Errorf(bylawsiq.ENOSEARCH, "no search input")
							},
						}, nil
					},
				}, nil
			}
			return appealsFactory.NewSession()
		},
	}

	e := discover.NewEngine(factory, s.detector())
	candidates, outcomes := e.Run(context.Background(), "https://town.gov")

	require.Len(t, outcomes, 2)
	assert.Equal(t, "appeals-board", outcomes[0].Strategy)
	assert.Equal(t, bylawsiq.ENOSEARCH, bylawsiq.ErrorCode(outcomes[0].Err))
	assert.Equal(t, "planning-board", outcomes[1].Strategy)
	assert.NoError(t, outcomes[1].Err)

	require.Len(t, candidates, 1)
}

func TestEngine_stops_after_acquirable_candidate(t *testing.T) {
	t.Parallel()

	pdf := bylawsiq.Candidate{
		RawURL:        "https://town.gov/files/zoning.pdf",
		NormalizedURL: "https://town.gov/files/zoning.pdf",
	}
	s := newSite(map[string]*sitePage{
		"https://town.gov": {
			html: `<a href="/boards/appeals">Zoning Board of Appeals - Agendas</a>`,
		},
		"https://town.gov/boards/appeals": {candidates: []bylawsiq.Candidate{pdf}},
	})

	e := discover.NewEngine(s.factory(), s.detector())
	_, outcomes := e.Run(context.Background(), "https://town.gov")

	require.Len(t, outcomes, 1, "planning strategy must not run after the appeals strategy found a direct file")
	assert.Equal(t, "appeals-board", outcomes[0].Strategy)
}

func TestEngine_reports_no_matching_result_link(t *testing.T) {
	t.Parallel()

	s := newSite(map[string]*sitePage{
		"https://town.gov": {
			html: `<a href="/news">Town News</a>`,
		},
	})

	e := discover.NewEngine(s.factory(), s.detector())
	candidates, outcomes := e.Run(context.Background(), "https://town.gov")

	assert.Empty(t, candidates)
	require.Len(t, outcomes, 2)
	for _, o := range outcomes {
		assert.Equal(t, bylawsiq.ENOTFOUND, bylawsiq.ErrorCode(o.Err))
	}
}

func TestEngine_closes_session_per_strategy(t *testing.T) {
	t.Parallel()

	s := newSite(map[string]*sitePage{
		"https://town.gov": {html: ""},
	})
	factory := s.factory()

	e := discover.NewEngine(factory, s.detector())
	e.Run(context.Background(), "https://town.gov")

	require.Len(t, s.sessions, 2)
	for _, session := range s.sessions {
		assert.True(t, session.CloseInvoked)
	}
}
