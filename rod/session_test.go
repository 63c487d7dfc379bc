package rod_test

import (
	"context"
	"testing"

	"github.com/bylawsiq/bylawsiq"
	"github.com/bylawsiq/bylawsiq/mock"
	"github.com/bylawsiq/bylawsiq/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisitLog_records_successful_opens(t *testing.T) {
	t.Parallel()

	page := &mock.Page{URLFn: func() string { return "https://town.gov/zoning" }}
	next := &mock.Session{
		OpenFn: func(ctx context.Context, url string) (bylawsiq.Page, error) { return page, nil },
	}
	var visited []string
	s := rod.NewVisitLogSession(next, func(url string) { visited = append(visited, url) })

	got, err := s.Open(context.Background(), "https://town.gov/zoning")

	require.NoError(t, err)
	assert.Equal(t, page, got)
	assert.Equal(t, []string{"https://town.gov/zoning"}, visited)
}

func TestVisitLog_records_failed_opens(t *testing.T) {
	t.Parallel()

	next := &mock.Session{
		OpenFn: func(ctx context.Context, url string) (bylawsiq.Page, error) {
			return nil, bylawsiq.Errorf(bylawsiq.EBLOCKED, "opening %s: 403", url)
		},
	}
	var visited []string
	s := rod.NewVisitLogSession(next, func(url string) { visited = append(visited, url) })

	_, err := s.Open(context.Background(), "https://town.gov/zoning")

	assert.Equal(t, bylawsiq.EBLOCKED, bylawsiq.ErrorCode(err))
	assert.Equal(t, []string{"https://town.gov/zoning"}, visited,
		"failed opens belong in the audit trail too")
}

func TestVisitLog_delegates_close(t *testing.T) {
	t.Parallel()

	next := &mock.Session{}
	s := rod.NewVisitLogSession(next, func(string) {})

	require.NoError(t, s.Close())
	assert.True(t, next.CloseInvoked)
}
