package goquery_test

import (
	"testing"

	"github.com/bylawsiq/bylawsiq"
	"github.com/bylawsiq/bylawsiq/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsPage = `
	<html><body>
		<a href="/boards/planning-resources">Planning Board Resources</a>
		<a href="/boards/planning">Planning Board</a>
		<a href="/boards/appeals-agendas">Zoning Board of Appeals - Agendas</a>
		<a href="https://elsewhere.gov/planning">Planning Board</a>
	</body></html>`

func TestMatchResultLinks_exact_only(t *testing.T) {
	t.Parallel()

	got := goquery.MatchResultLinks(resultsPage, "https://town.gov/search?q=planning+board", "Planning Board", bylawsiq.ExactOnly)

	require.Len(t, got, 1)
	assert.Equal(t, "https://town.gov/boards/planning", got[0].URL)
	assert.True(t, got[0].Exact)
}

func TestMatchResultLinks_exact_then_partial(t *testing.T) {
	t.Parallel()

	t.Run("falls back to partial matches", func(t *testing.T) {
		t.Parallel()
		got := goquery.MatchResultLinks(resultsPage, "https://town.gov/search", "Zoning Board of Appeals", bylawsiq.ExactThenPartial)

		require.Len(t, got, 1)
		assert.Equal(t, "https://town.gov/boards/appeals-agendas", got[0].URL)
		assert.False(t, got[0].Exact)
	})

	t.Run("exact matches shadow partial ones", func(t *testing.T) {
		t.Parallel()
		got := goquery.MatchResultLinks(resultsPage, "https://town.gov/search", "Planning Board", bylawsiq.ExactThenPartial)

		require.Len(t, got, 1)
		assert.Equal(t, "https://town.gov/boards/planning", got[0].URL)
	})
}

func TestMatchResultLinks_ignores_offsite_links(t *testing.T) {
	t.Parallel()

	got := goquery.MatchResultLinks(`<a href="https://elsewhere.gov/planning">Planning Board</a>`,
		"https://town.gov/search", "Planning Board", bylawsiq.ExactThenPartial)

	assert.Empty(t, got)
}

func TestMatchResultLinks_is_case_insensitive(t *testing.T) {
	t.Parallel()

	got := goquery.MatchResultLinks(`<a href="/boards/planning">PLANNING BOARD</a>`,
		"https://town.gov/search", "Planning Board", bylawsiq.ExactOnly)

	require.Len(t, got, 1)
	assert.Equal(t, "PLANNING BOARD", got[0].Text)
}
