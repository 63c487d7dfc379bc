package bylawsiq_test

import (
	"testing"

	"github.com/bylawsiq/bylawsiq"
	"github.com/stretchr/testify/assert"
)

func TestDiscoveryRecord_AddPath_deduplicates(t *testing.T) {
	t.Parallel()

	rec := &bylawsiq.DiscoveryRecord{Key: "https://town.gov/zoning.pdf", State: bylawsiq.StatePending}

	rec.AddPath("https://town.gov/planning")
	rec.AddPath("https://town.gov/appeals")
	rec.AddPath("https://town.gov/planning")
	rec.AddPath("")

	assert.Equal(t, []string{"https://town.gov/planning", "https://town.gov/appeals"}, rec.DiscoveryPaths)
}

func TestDiscoveryRecord_state_transitions_are_monotonic(t *testing.T) {
	t.Parallel()

	t.Run("acquired is terminal", func(t *testing.T) {
		t.Parallel()
		rec := &bylawsiq.DiscoveryRecord{State: bylawsiq.StatePending}

		assert.True(t, rec.MarkAcquired())
		assert.False(t, rec.MarkFailed("captcha"), "no re-attempt after Acquired")
		assert.Equal(t, bylawsiq.StateAcquired, rec.State)
		assert.Empty(t, rec.Reason)
	})

	t.Run("failed is terminal", func(t *testing.T) {
		t.Parallel()
		rec := &bylawsiq.DiscoveryRecord{State: bylawsiq.StatePending}

		assert.True(t, rec.MarkFailed("nodownload"))
		assert.False(t, rec.MarkAcquired())
		assert.Equal(t, bylawsiq.StateFailed, rec.State)
		assert.Equal(t, "nodownload", rec.Reason)
	})
}

func TestURLFilter_Match(t *testing.T) {
	t.Parallel()

	filter := bylawsiq.BylawsURLFilter()

	assert.True(t, filter.Match("https://town.gov/files/zoning-bylaw.pdf"))
	assert.True(t, filter.Match("https://town.gov/Ordinance/Chapter-240"))
	assert.False(t, filter.Match("https://town.gov/trash-collection"))

	var nilFilter *bylawsiq.URLFilter
	assert.True(t, nilFilter.Match("https://anything.gov"), "nil filter passes all URLs")
}
