package discover_test

import (
	"testing"

	"github.com/bylawsiq/bylawsiq"
	"github.com/bylawsiq/bylawsiq/discover"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_Register_first_sighting_creates_pending_record(t *testing.T) {
	t.Parallel()

	tr := discover.NewTracker()

	rec, isNew := tr.Register(bylawsiq.Candidate{
		NormalizedURL: "https://town.gov/files/zoning.pdf",
		Text:          "Zoning Bylaw",
		Tier:          bylawsiq.TierTextScan,
		SourcePage:    "https://town.gov/planning",
	})

	assert.True(t, isNew)
	assert.Equal(t, bylawsiq.StatePending, rec.State)
	assert.Equal(t, bylawsiq.ClassDirectFile, rec.Class)
	assert.Equal(t, []string{"https://town.gov/planning"}, rec.DiscoveryPaths)
	assert.Equal(t, 0, rec.Seq)
}

func TestTracker_Register_repeat_sighting_unions_paths(t *testing.T) {
	t.Parallel()

	tr := discover.NewTracker()

	first, _ := tr.Register(bylawsiq.Candidate{
		NormalizedURL: "https://town.gov/files/zoning.pdf",
		SourcePage:    "https://town.gov/planning",
	})
	second, isNew := tr.Register(bylawsiq.Candidate{
		NormalizedURL: "https://town.gov/files/zoning.pdf",
		SourcePage:    "https://town.gov/appeals",
	})

	assert.False(t, isNew)
	assert.Same(t, first, second)
	assert.Equal(t, []string{"https://town.gov/planning", "https://town.gov/appeals"}, second.DiscoveryPaths)

	records := tr.Records()
	require.Len(t, records, 1)
}

func TestTracker_Fingerprint_rekeys_record(t *testing.T) {
	t.Parallel()

	tr := discover.NewTracker()
	tr.Register(bylawsiq.Candidate{NormalizedURL: "https://town.gov/a.pdf", SourcePage: "https://town.gov/p1"})

	rec := tr.Fingerprint("https://town.gov/a.pdf", []byte("%PDF-1.7 content"))

	require.NotNil(t, rec)
	assert.Contains(t, rec.Key, "xxh64:")

	// The old URL key registers as a repeat sighting no longer.
	_, isNew := tr.Register(bylawsiq.Candidate{NormalizedURL: "https://town.gov/a.pdf"})
	assert.True(t, isNew)
}

func TestTracker_Fingerprint_merges_byte_identical_documents(t *testing.T) {
	t.Parallel()

	tr := discover.NewTracker()
	tr.Register(bylawsiq.Candidate{NormalizedURL: "https://town.gov/a.pdf", SourcePage: "https://town.gov/p1"})
	tr.Register(bylawsiq.Candidate{NormalizedURL: "https://town.gov/mirror/a.pdf", SourcePage: "https://town.gov/p2"})

	content := []byte("%PDF-1.7 same bytes")
	first := tr.Fingerprint("https://town.gov/a.pdf", content)
	second := tr.Fingerprint("https://town.gov/mirror/a.pdf", content)

	assert.Same(t, first, second, "byte-identical documents collapse into one record")
	assert.Equal(t, []string{"https://town.gov/p1", "https://town.gov/p2"}, second.DiscoveryPaths)

	records := tr.Records()
	require.Len(t, records, 1)
	assert.Equal(t, 0, records[0].Seq, "the earlier record survives")
}

func TestTracker_Fingerprint_unknown_key_returns_nil(t *testing.T) {
	t.Parallel()

	tr := discover.NewTracker()
	assert.Nil(t, tr.Fingerprint("https://town.gov/never-seen", []byte("x")))
}
