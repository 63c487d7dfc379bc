package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/bylawsiq/bylawsiq"
	"github.com/bylawsiq/bylawsiq/mock"
	bylawslog "github.com/bylawsiq/bylawsiq/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func TestLoggingSitemapService_logs_and_delegates(t *testing.T) {
	t.Parallel()

	logger, buf := newLogger()
	next := &mock.SitemapService{
		DiscoverURLsFn: func(ctx context.Context, baseURL string, filter *bylawsiq.URLFilter) ([]string, error) {
			return []string{"https://town.gov/zoning"}, nil
		},
	}

	s := bylawslog.NewLoggingSitemapService(next, logger)
	urls, err := s.DiscoverURLs(context.Background(), "https://town.gov", nil)

	require.NoError(t, err)
	assert.Len(t, urls, 1)
	assert.Contains(t, buf.String(), "sitemap discovery")
	assert.Contains(t, buf.String(), "count=1")
}

func TestLoggingFileFetcher_logs_and_delegates(t *testing.T) {
	t.Parallel()

	logger, buf := newLogger()
	next := &mock.FileFetcher{
		FetchFileFn: func(ctx context.Context, url string) ([]byte, string, error) {
			return []byte("%PDF-1.7"), "application/pdf", nil
		},
	}

	f := bylawslog.NewLoggingFileFetcher(next, logger)
	data, _, err := f.FetchFile(context.Background(), "https://town.gov/zoning.pdf")

	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Contains(t, buf.String(), "file download")
	assert.Contains(t, buf.String(), "bytes=8")
}

func TestLoggingAcquirer_logs_flagged_result(t *testing.T) {
	t.Parallel()

	logger, buf := newLogger()
	next := &mock.PlatformAcquirer{
		AcquireFn: func(ctx context.Context, c bylawsiq.Candidate, district string) (*bylawsiq.Acquisition, error) {
			return &bylawsiq.Acquisition{Data: []byte("%PDF-1.7"), Flagged: true}, nil
		},
	}

	a := bylawslog.NewLoggingAcquirer(next, logger)
	acq, err := a.Acquire(context.Background(), bylawsiq.Candidate{NormalizedURL: "https://ecode360.com/FA1234"}, "Lincoln")

	require.NoError(t, err)
	assert.True(t, acq.Flagged)
	assert.Contains(t, buf.String(), "platform acquisition")
	assert.Contains(t, buf.String(), "flagged=true")
}

func TestLoggingSessionFactory_logs_page_opens(t *testing.T) {
	t.Parallel()

	logger, buf := newLogger()
	next := &mock.SessionFactory{
		NewSessionFn: func() (bylawsiq.Session, error) {
			return &mock.Session{
				OpenFn: func(ctx context.Context, url string) (bylawsiq.Page, error) {
					return &mock.Page{URLFn: func() string { return url }}, nil
				},
			}, nil
		},
	}

	f := bylawslog.NewLoggingSessionFactory(next, logger)
	session, err := f.NewSession()
	require.NoError(t, err)

	_, err = session.Open(context.Background(), "https://town.gov")
	require.NoError(t, err)
	require.NoError(t, session.Close())

	assert.Contains(t, buf.String(), "page open")
	assert.Contains(t, buf.String(), "url=https://town.gov")
}
